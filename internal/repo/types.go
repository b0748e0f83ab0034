package repo

import (
	"errors"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

// ErrNotFound is returned when a player id is unknown to the repository.
var ErrNotFound = errors.New("player not found")

// PlayerRepository defines the interface for player/season storage. Season
// rows are immutable once stored; scoring runs write back valuations via
// SaveValuation and the analytics sync updates ADP via SetADP.
type PlayerRepository interface {
	ListPlayers() ([]*models.Player, error)
	GetPlayer(id string) (*models.Player, error)
	SearchPlayers(query string, limit int) ([]*models.Player, error)
	UpsertPlayer(player *models.Player) error
	SaveValuation(v *models.PlayerValuation) error
	SetADP(playerID string, adp float64) error
}
