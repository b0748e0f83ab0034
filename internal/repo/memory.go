package repo

import (
	"sort"
	"strings"
	"sync"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/scoring"
)

// MemoryRepository implements PlayerRepository using in-memory storage. It is
// the default driver for development and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	players map[string]*models.Player
	order   []string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{players: make(map[string]*models.Player)}
}

// NewSeededMemoryRepository creates an in-memory repository preloaded with
// the bundled player dataset, derived metrics included.
func NewSeededMemoryRepository() *MemoryRepository {
	r := NewMemoryRepository()
	for _, p := range defaultPlayers() {
		r.UpsertPlayer(p)
	}
	return r
}

func (r *MemoryRepository) ListPlayers() ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clonePlayer(r.players[id]))
	}
	return out, nil
}

func (r *MemoryRepository) GetPlayer(id string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePlayer(p), nil
}

func (r *MemoryRepository) SearchPlayers(query string, limit int) ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var out []*models.Player
	for _, id := range r.order {
		p := r.players[id]
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, clonePlayer(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertPlayer stores a player, sorting seasons most recent first and
// deriving metrics for any season that lacks them.
func (r *MemoryRepository) UpsertPlayer(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := clonePlayer(player)
	normalizeSeasons(p)

	if _, ok := r.players[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.players[p.ID] = p
	return nil
}

// SaveValuation writes a scoring run's output onto the player's most recent
// season.
func (r *MemoryRepository) SaveValuation(v *models.PlayerValuation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[v.PlayerID]
	if !ok {
		return ErrNotFound
	}
	if len(p.Seasons) == 0 {
		return nil
	}
	latest := &p.Seasons[0]
	latest.DraftScore = v.DraftScore
	latest.VORP = v.VORP
	latest.Weighted = v.Weighted
	return nil
}

func (r *MemoryRepository) SetADP(playerID string, adp float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrNotFound
	}
	p.ADP = adp
	return nil
}

// normalizeSeasons orders seasons most recent first and fills in derived
// metrics. Exported repositories share this so every read path sees resolved
// metric shapes.
func normalizeSeasons(p *models.Player) {
	sort.Slice(p.Seasons, func(i, j int) bool { return p.Seasons[i].Year > p.Seasons[j].Year })
	for i := range p.Seasons {
		s := &p.Seasons[i]
		s.PlayerID = p.ID
		if s.Metrics == nil {
			s.Metrics = scoring.DeriveMetrics(p.Position, s)
		}
	}
}

func clonePlayer(p *models.Player) *models.Player {
	out := *p
	out.Seasons = make([]models.SeasonStats, len(p.Seasons))
	copy(out.Seasons, p.Seasons)
	for i := range out.Seasons {
		s := &out.Seasons[i]
		if s.Metrics != nil {
			m := make(map[string]float64, len(s.Metrics))
			for k, v := range s.Metrics {
				m[k] = v
			}
			s.Metrics = m
		}
		if s.Weighted != nil {
			m := make(map[string]float64, len(s.Weighted))
			for k, v := range s.Weighted {
				m[k] = v
			}
			s.Weighted = m
		}
	}
	return &out
}
