package mockdraft

import (
	"math/rand"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/scoring"
)

// Strategy is a named bot weighting policy blending three signals: best
// player available, positional need, and position-class value.
type Strategy struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	WeightBPA      float64 `json:"weightBPA"`
	WeightNeeds    float64 `json:"weightNeeds"`
	WeightPosition float64 `json:"weightPosition"`
}

// Strategies is the fixed table of bot policies.
var Strategies = map[string]Strategy{
	"BPA": {
		Name:           "Best Player Available",
		Description:    "Always picks the highest rated player",
		WeightBPA:      0.8,
		WeightNeeds:    0.1,
		WeightPosition: 0.1,
	},
	"Needs": {
		Name:           "Needs Based",
		Description:    "Focuses on filling roster needs",
		WeightBPA:      0.2,
		WeightNeeds:    0.7,
		WeightPosition: 0.1,
	},
	"Balanced": {
		Name:           "Balanced",
		Description:    "Balances BPA with needs",
		WeightBPA:      0.5,
		WeightNeeds:    0.4,
		WeightPosition: 0.1,
	},
	"Aggressive": {
		Name:           "Aggressive",
		Description:    "Takes risks for high upside",
		WeightBPA:      0.6,
		WeightNeeds:    0.2,
		WeightPosition: 0.2,
	},
}

var strategyNames = []string{"BPA", "Needs", "Balanced", "Aggressive"}

func randomStrategy() string {
	return strategyNames[rand.Intn(len(strategyNames))]
}

// scorePlayer applies a strategy to one available player for the team on the
// clock: draft score weighted by the BPA signal, remaining need at the
// player's position, and the fixed position-class scalar.
func scorePlayer(strategy Strategy, draftScore float64, position models.Position, needs models.RosterNeeds) float64 {
	score := draftScore * strategy.WeightBPA
	score += float64(needs[position]) * 10 * strategy.WeightNeeds
	score += scoring.PositionValue[position] * 5 * strategy.WeightPosition
	return score
}
