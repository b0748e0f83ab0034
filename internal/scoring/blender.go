package scoring

import (
	"math"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

// BlendSeasons combines up to three of a player's seasons, ordered most
// recent first, into one recency-weighted metric summary. Nil entries mark
// absent years: their weight is zeroed and the remaining weights are
// renormalized to sum to 1, so a single qualifying season carries weight
// 1.0. Returns nil when every season is absent.
func BlendSeasons(playerID string, position models.Position, seasons []*models.SeasonStats) *models.WeightedMetrics {
	weights := [3]float64{}
	total := 0.0
	for i := 0; i < 3; i++ {
		if i < len(seasons) && seasons[i] != nil {
			weights[i] = recencyWeights[i]
			total += recencyWeights[i]
		}
	}
	if total == 0 {
		return nil
	}
	for i := range weights {
		weights[i] /= total
	}

	values := make(map[string]float64)
	for _, key := range MetricKeys[position] {
		present := false
		sum := 0.0
		for i := 0; i < 3 && i < len(seasons); i++ {
			v, ok := metricValue(seasons[i], key)
			if !ok {
				continue
			}
			present = true
			sum += weights[i] * v
		}
		if present {
			values[key] = Round2(sum)
		}
	}

	games := 0
	for _, s := range seasons {
		if s != nil {
			games = s.Games
			break
		}
	}

	return &models.WeightedMetrics{
		PlayerID: playerID,
		Position: position,
		Games:    games,
		Values:   values,
	}
}

// metricValue reads one derived metric from a season, rejecting absent and
// non-finite values so they contribute nothing to the blend.
func metricValue(s *models.SeasonStats, key string) (float64, bool) {
	v, ok := s.Metric(key)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
