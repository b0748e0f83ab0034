package scoring

import "github.com/Dayy346/fantasy-draft-assistant/internal/models"

// MinGames is the minimum games played for a season to count toward cohort
// mean/stddev computation. Small samples distort z-scores.
const MinGames = 8

// fallbackStdDev keeps z-scores finite when a cohort has no qualifying
// members for a metric.
const fallbackStdDev = 1.0

// recencyWeights are the base three-year blending weights, most recent year
// first. Weights for absent years are zeroed and the remainder renormalized
// to sum to 1.
var recencyWeights = [3]float64{0.80, 0.15, 0.05}

// compositeReceiverSlot is the receiver efficiency slot filled by yards per
// route run when route data exists, else yards per target.
const compositeReceiverSlot = "yprr_or_ypt"

// MetricKeys is the closed set of blendable derived metrics per position.
// Ingestion only ever produces these keys for a season of that position.
var MetricKeys = map[models.Position][]string{
	models.RB:  {"ppg", "ppt", "oppg", "ypc"},
	models.WR:  {"ppg", "ppt", "tpg", "yprr", "ypt", "adot"},
	models.TE:  {"ppg", "ppt", "tpg", "yprr", "ypt", "adot"},
	models.QB:  {"ppg", "ypa", "pass_td_rate", "int_rate", "rushing_ppg_index"},
	models.K:   {"ppg"},
	models.DEF: {"ppg"},
}

// Weights maps each scored position to its signed composite weights. The
// negative interception-rate weight penalizes turnover-prone quarterbacks.
var Weights = map[models.Position]map[string]float64{
	models.RB: {
		"ppg":  0.50,
		"ppt":  0.25,
		"oppg": 0.15,
		"ypc":  0.10,
	},
	models.WR: {
		"ppg":                 0.45,
		"tpg":                 0.30,
		compositeReceiverSlot: 0.15,
		"ppt":                 0.10,
	},
	models.TE: {
		"ppg":                 0.50,
		"tpg":                 0.30,
		compositeReceiverSlot: 0.15,
		"ppt":                 0.05,
	},
	models.QB: {
		"ppg":               0.50,
		"pass_td_rate":      0.20,
		"ypa":               0.15,
		"rushing_ppg_index": 0.15,
		"int_rate":          -0.10,
	},
}

// ReplacementRank is the 1-indexed cohort rank used as the VORP baseline
// (12-team league defaults).
var ReplacementRank = map[models.Position]int{
	models.RB: 24,
	models.WR: 24,
	models.TE: 12,
	models.QB: 12,
}

// PositionValue scales cross-position desirability for bot drafting.
var PositionValue = map[models.Position]float64{
	models.QB:  1.0,
	models.RB:  0.9,
	models.WR:  0.8,
	models.TE:  0.7,
	models.K:   0.3,
	models.DEF: 0.4,
}
