package scoring

import (
	"math"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

// ZScore standardizes a value against a cohort. A zero standard deviation
// means the metric does not discriminate within the cohort, so the z-score
// is 0 rather than a division by zero.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}

// ComputeCohortStats computes the population mean and standard deviation of
// every blendable metric for one position, across the players whose most
// recent qualifying season reached MinGames. Stats are rebuilt from scratch
// on every scoring run.
func ComputeCohortStats(position models.Position, summaries []*models.WeightedMetrics) *models.CohortStats {
	stats := &models.CohortStats{
		Position: position,
		Means:    make(map[string]float64),
		StdDevs:  make(map[string]float64),
	}

	for _, key := range MetricKeys[position] {
		var values []float64
		for _, w := range summaries {
			if w == nil || w.Games < MinGames {
				continue
			}
			v, ok := w.Values[key]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}

		if len(values) == 0 {
			stats.Means[key] = 0
			stats.StdDevs[key] = fallbackStdDev
			continue
		}

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))

		variance := 0.0
		for _, v := range values {
			d := v - mean
			variance += d * d
		}
		variance /= float64(len(values))

		stats.Means[key] = mean
		stats.StdDevs[key] = math.Sqrt(variance)
	}

	return stats
}
