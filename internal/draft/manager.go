package draft

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/repo"
)

// ErrNotFound is returned for unknown session, player, or pick ids.
var ErrNotFound = errors.New("draft session not found")

// suggestionLimit caps the best-available list shown to the user.
const suggestionLimit = 20

// defaultRosterNeeds are the live assistant's starting slots.
func defaultRosterNeeds() models.RosterNeeds {
	return models.RosterNeeds{models.QB: 1, models.RB: 2, models.WR: 3, models.TE: 1}
}

// Manager holds every live assistant session. The session map is guarded by
// the manager lock; each session additionally carries its own mutex so that
// pick, undo, and the suggestion recompute they trigger run as one atomic
// step per session while distinct sessions proceed in parallel.
type Manager struct {
	players repo.PlayerRepository

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *models.DraftSession
}

// NewManager creates a session manager backed by the given player
// repository.
func NewManager(players repo.PlayerRepository) *Manager {
	return &Manager{
		players:  players,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create starts a new live session with default roster needs and no picks.
func (m *Manager) Create() *models.DraftSession {
	session := &models.DraftSession{
		ID:          uuid.NewString(),
		Picks:       []models.DraftPick{},
		RosterNeeds: defaultRosterNeeds(),
		Suggestions: []models.Suggestion{},
		CreatedAt:   time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = &sessionEntry{session: session}
	m.mu.Unlock()

	logger.Info("Created draft session", "session_id", session.ID)
	return cloneSession(session)
}

// Get returns a snapshot of a session.
func (m *Manager) Get(sessionID string) (*models.DraftSession, error) {
	entry, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneSession(entry.session), nil
}

// Delete removes a session.
func (m *Manager) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

// Pick records a player selection: appends the pick with the next sequential
// number, decrements the position's roster need (never below 0), and
// recomputes suggestions before returning the updated session.
func (m *Manager) Pick(sessionID, playerID, teamSlot string) (*models.DraftSession, error) {
	entry, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}

	player, err := m.players.GetPlayer(playerID)
	if err != nil {
		// Repository misses surface as not-found to the caller.
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	pick := models.DraftPick{
		ID:         uuid.NewString(),
		PlayerID:   player.ID,
		Player:     player,
		PickNumber: len(session.Picks) + 1,
		TeamSlot:   teamSlot,
		Timestamp:  time.Now(),
	}
	session.Picks = append(session.Picks, pick)

	if session.RosterNeeds[player.Position] > 0 {
		session.RosterNeeds[player.Position]--
	}

	if err := m.refreshSuggestions(session); err != nil {
		return nil, err
	}

	logger.Info("Recorded pick", "session_id", sessionID, "player_id", playerID, "pick", pick.PickNumber)
	return cloneSession(session), nil
}

// Undo removes a pick by id, restores one unit of the position's need, and
// recomputes suggestions before returning, so the caller always observes the
// post-undo board. Remaining picks are renumbered to keep the sequence
// gap-free.
func (m *Manager) Undo(sessionID, pickID string) (*models.DraftSession, error) {
	entry, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	idx := -1
	for i := range session.Picks {
		if session.Picks[i].ID == pickID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	removed := session.Picks[idx]
	session.Picks = append(session.Picks[:idx], session.Picks[idx+1:]...)
	for i := range session.Picks {
		session.Picks[i].PickNumber = i + 1
	}

	if removed.Player != nil {
		session.RosterNeeds[removed.Player.Position]++
	}

	if err := m.refreshSuggestions(session); err != nil {
		return nil, err
	}

	logger.Info("Undid pick", "session_id", sessionID, "pick_id", pickID)
	return cloneSession(session), nil
}

// refreshSuggestions rebuilds the best-available list: unpicked players at
// positions with remaining need, ordered by draft score with player id as a
// deterministic tiebreak, truncated to the top 20.
func (m *Manager) refreshSuggestions(session *models.DraftSession) error {
	players, err := m.players.ListPlayers()
	if err != nil {
		return err
	}

	picked := make(map[string]bool, len(session.Picks))
	for _, p := range session.Picks {
		picked[p.PlayerID] = true
	}

	var candidates []models.Suggestion
	for _, p := range players {
		if picked[p.ID] || session.RosterNeeds[p.Position] <= 0 {
			continue
		}
		score := 0.0
		if latest := p.LatestSeason(); latest != nil {
			score = latest.DraftScore
		}
		candidates = append(candidates, models.Suggestion{Player: p, DraftScore: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DraftScore != candidates[j].DraftScore {
			return candidates[i].DraftScore > candidates[j].DraftScore
		}
		return candidates[i].Player.ID < candidates[j].Player.ID
	})
	if len(candidates) > suggestionLimit {
		candidates = candidates[:suggestionLimit]
	}

	session.Suggestions = candidates
	return nil
}

func (m *Manager) entry(sessionID string) (*sessionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func cloneSession(s *models.DraftSession) *models.DraftSession {
	out := *s
	out.Picks = make([]models.DraftPick, len(s.Picks))
	copy(out.Picks, s.Picks)
	out.RosterNeeds = s.RosterNeeds.Clone()
	out.Suggestions = make([]models.Suggestion, len(s.Suggestions))
	copy(out.Suggestions, s.Suggestions)
	return &out
}
