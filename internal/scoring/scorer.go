package scoring

import (
	"math"
	"sort"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

// scoreOffset keeps typical draft scores positive without changing relative
// ordering.
const scoreOffset = 1.0

// DraftScore combines a player's z-scored metrics with the position's signed
// weight vector into one composite value. Metrics the player lacks are
// skipped and the remaining weights renormalize via the |weight| divisor;
// with no usable metric at all the score is the bare offset.
func DraftScore(w *models.WeightedMetrics, cohort *models.CohortStats) (float64, map[string]float64) {
	weights, ok := Weights[w.Position]
	if !ok {
		return scoreOffset, nil
	}

	zScores := make(map[string]float64)
	score := 0.0
	totalWeight := 0.0

	for slot, weight := range weights {
		key, value, ok := resolveSlot(w, slot)
		if !ok {
			continue
		}
		z := ZScore(value, cohort.Means[key], cohort.StdDevs[key])
		zScores[key] = z
		score += weight * z
		totalWeight += math.Abs(weight)
	}

	if totalWeight == 0 {
		return scoreOffset, zScores
	}
	return Round2(score/totalWeight + scoreOffset), zScores
}

// resolveSlot maps a weight-table slot to a concrete metric and value. The
// receiver composite slot is filled by yards per route run when present,
// falling back to yards per target.
func resolveSlot(w *models.WeightedMetrics, slot string) (string, float64, bool) {
	if slot == compositeReceiverSlot {
		if v, ok := finiteValue(w, "yprr"); ok {
			return "yprr", v, true
		}
		if v, ok := finiteValue(w, "ypt"); ok {
			return "ypt", v, true
		}
		return "", 0, false
	}
	v, ok := finiteValue(w, slot)
	return slot, v, ok
}

func finiteValue(w *models.WeightedMetrics, key string) (float64, bool) {
	v, ok := w.Values[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// replacementBaseline returns the weighted points-per-game of the cohort
// member at the position's replacement rank, 1-indexed and clamped to the
// cohort size.
func replacementBaseline(position models.Position, summaries []*models.WeightedMetrics) float64 {
	ppgs := make([]float64, 0, len(summaries))
	for _, w := range summaries {
		v, _ := finiteValue(w, "ppg")
		ppgs = append(ppgs, v)
	}
	if len(ppgs) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ppgs)))

	rank := ReplacementRank[position]
	if rank < 1 {
		rank = 1
	}
	if rank > len(ppgs) {
		rank = len(ppgs)
	}
	return ppgs[rank-1]
}

// ScorePlayers runs the full valuation pipeline over every player: blend each
// player's three most recent seasons, build per-position cohort statistics,
// then emit a composite draft score and VORP per player. Players without a
// single qualifying season are excluded from the output entirely; positions
// outside the weight tables (K, DEF) are not valued.
func ScorePlayers(players []*models.Player) []*models.PlayerValuation {
	type scored struct {
		player  *models.Player
		summary *models.WeightedMetrics
	}

	byPosition := make(map[models.Position][]scored)
	for _, p := range players {
		if _, ok := Weights[p.Position]; !ok {
			continue
		}
		seasons := make([]*models.SeasonStats, 0, 3)
		for i := range p.Seasons {
			if len(seasons) == 3 {
				break
			}
			seasons = append(seasons, &p.Seasons[i])
		}
		summary := BlendSeasons(p.ID, p.Position, seasons)
		if summary == nil {
			continue
		}
		byPosition[p.Position] = append(byPosition[p.Position], scored{player: p, summary: summary})
	}

	var results []*models.PlayerValuation
	for position, cohort := range byPosition {
		summaries := make([]*models.WeightedMetrics, len(cohort))
		for i, s := range cohort {
			summaries[i] = s.summary
		}

		stats := ComputeCohortStats(position, summaries)
		baseline := replacementBaseline(position, summaries)

		for _, s := range cohort {
			score, zScores := DraftScore(s.summary, stats)
			ppg, _ := finiteValue(s.summary, "ppg")
			results = append(results, &models.PlayerValuation{
				PlayerID:   s.player.ID,
				Position:   position,
				Weighted:   s.summary.Values,
				ZScores:    zScores,
				DraftScore: score,
				VORP:       Round2(ppg - baseline),
			})
		}
	}

	// Deterministic output order across runs.
	sort.Slice(results, func(i, j int) bool { return results[i].PlayerID < results[j].PlayerID })
	return results
}

// CohortReport builds the per-position cohort statistics for the current
// player pool, the same numbers the scoring pipeline standardizes against.
func CohortReport(players []*models.Player) map[models.Position]*models.CohortStats {
	byPosition := make(map[models.Position][]*models.WeightedMetrics)
	for _, p := range players {
		if _, ok := Weights[p.Position]; !ok {
			continue
		}
		seasons := make([]*models.SeasonStats, 0, 3)
		for i := range p.Seasons {
			if len(seasons) == 3 {
				break
			}
			seasons = append(seasons, &p.Seasons[i])
		}
		if summary := BlendSeasons(p.ID, p.Position, seasons); summary != nil {
			byPosition[p.Position] = append(byPosition[p.Position], summary)
		}
	}

	report := make(map[models.Position]*models.CohortStats, len(byPosition))
	for position, summaries := range byPosition {
		report[position] = ComputeCohortStats(position, summaries)
	}
	return report
}
