package scoring

import (
	"math"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

// safeDiv divides num by den, returning 0 for a zero denominator. Malformed
// inputs default to 0 contribution rather than propagating NaN/Inf.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Round2 rounds to two decimal places. Non-finite inputs collapse to 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// DeriveMetrics resolves the derived metric set for one season from its raw
// counting line. The resulting keys are always a subset of
// MetricKeys[position]; yprr and adot are omitted (not zeroed) when the
// source data has no route or air-yard counts.
func DeriveMetrics(position models.Position, s *models.SeasonStats) map[string]float64 {
	m := map[string]float64{
		"ppg": Round2(safeDiv(s.FantasyPoints, float64(s.Games))),
	}

	switch position {
	case models.RB:
		if r := s.Rushing; r != nil {
			touches := float64(r.Carries + r.Recs)
			m["ppt"] = Round2(safeDiv(s.FantasyPoints, touches))
			m["ypc"] = Round2(safeDiv(float64(r.RushYds), float64(r.Carries)))
			m["oppg"] = Round2(safeDiv(float64(r.Carries+r.Targets), float64(s.Games)))
		}
	case models.WR, models.TE:
		if r := s.Receiving; r != nil {
			touches := float64(r.Recs + r.RushAtt)
			m["ppt"] = Round2(safeDiv(s.FantasyPoints, touches))
			m["ypt"] = Round2(safeDiv(float64(r.RecvYds), float64(r.Targets)))
			m["tpg"] = Round2(safeDiv(float64(r.Targets), float64(s.Games)))
			if r.Routes > 0 {
				m["yprr"] = Round2(safeDiv(float64(r.RecvYds), float64(r.Routes)))
			}
			if r.AirYds > 0 {
				m["adot"] = Round2(safeDiv(float64(r.AirYds), float64(r.Targets)))
			}
		}
	case models.QB:
		if p := s.Passing; p != nil {
			m["ypa"] = Round2(safeDiv(float64(p.PassYds), float64(p.PassAtt)))
			m["pass_td_rate"] = Round2(safeDiv(float64(p.PassTD), float64(p.PassAtt)))
			m["int_rate"] = Round2(safeDiv(float64(p.Ints), float64(p.PassAtt)))
			// Fantasy rushing points per game, a proxy for dual-threat value.
			rushPts := float64(p.RushYds)/10 + float64(p.RushTD)*6
			m["rushing_ppg_index"] = Round2(safeDiv(rushPts, float64(s.Games)))
		}
	}

	return m
}
