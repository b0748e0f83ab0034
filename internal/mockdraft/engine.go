package mockdraft

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/repo"
)

var (
	// ErrNotFound is returned for unknown session or player ids, and for
	// bot-pick requests when no recommendation can be made.
	ErrNotFound = errors.New("mock draft session not found")
	// ErrInvalidArgument is returned when setup parameters are out of range.
	ErrInvalidArgument = errors.New("invalid mock draft parameters")
)

const (
	minTeams  = 2
	maxTeams  = 12
	minRounds = 5
	maxRounds = 20
)

// defaultTeamNeeds are each team's starting roster slots.
func defaultTeamNeeds() models.RosterNeeds {
	return models.RosterNeeds{
		models.QB: 1, models.RB: 2, models.WR: 3,
		models.TE: 1, models.K: 1, models.DEF: 1,
	}
}

// Engine runs simulated multi-team drafts. Sessions live in an in-memory map
// guarded by the engine lock; each session has its own mutex so a pick and
// its turn advancement are one atomic step, serializing concurrent picks
// against the same session.
type Engine struct {
	players repo.PlayerRepository

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *models.MockDraftSession
}

// NewEngine creates a mock draft engine backed by the given player
// repository.
func NewEngine(players repo.PlayerRepository) *Engine {
	return &Engine{
		players:  players,
		sessions: make(map[string]*sessionEntry),
	}
}

// CreateSession builds a new draft. Team 1 is always the human seat; every
// bot team gets a uniformly random strategy. The available-player pool stays
// empty until Start loads it from the repository.
func (e *Engine) CreateSession(numTeams int, isSnake bool, totalRounds int) (*models.MockDraftSession, error) {
	if numTeams < minTeams || numTeams > maxTeams {
		return nil, fmt.Errorf("%w: numTeams must be between %d and %d", ErrInvalidArgument, minTeams, maxTeams)
	}
	if totalRounds < minRounds || totalRounds > maxRounds {
		return nil, fmt.Errorf("%w: totalRounds must be between %d and %d", ErrInvalidArgument, minRounds, maxRounds)
	}

	teams := make([]models.MockDraftTeam, numTeams)
	for i := 0; i < numTeams; i++ {
		isHuman := i == 0
		name := fmt.Sprintf("Bot Team %d", i)
		strategy := randomStrategy()
		if isHuman {
			name = "Your Team"
			strategy = "Balanced"
		}

		roster := make(map[models.Position][]string, len(models.AllPositions))
		for _, pos := range models.AllPositions {
			roster[pos] = []string{}
		}

		teams[i] = models.MockDraftTeam{
			ID:       i + 1,
			Name:     name,
			IsHuman:  isHuman,
			Strategy: strategy,
			Roster:   roster,
			Needs:    defaultTeamNeeds(),
		}
	}

	session := &models.MockDraftSession{
		ID:               uuid.NewString(),
		Teams:            teams,
		CurrentPick:      1,
		CurrentTeam:      1,
		IsSnake:          isSnake,
		TotalRounds:      totalRounds,
		Picks:            []models.MockDraftPick{},
		AvailablePlayers: []string{},
		CreatedAt:        time.Now(),
	}

	e.mu.Lock()
	e.sessions[session.ID] = &sessionEntry{session: session}
	e.mu.Unlock()

	logger.Info("Created mock draft session", "session_id", session.ID, "teams", numTeams, "rounds", totalRounds, "snake", isSnake)
	return cloneSession(session), nil
}

// Get returns a snapshot of a session.
func (e *Engine) Get(sessionID string) (*models.MockDraftSession, error) {
	entry, err := e.entry(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneSession(entry.session), nil
}

// List returns snapshots of every session.
func (e *Engine) List() []*models.MockDraftSession {
	e.mu.RLock()
	entries := make([]*sessionEntry, 0, len(e.sessions))
	for _, entry := range e.sessions {
		entries = append(entries, entry)
	}
	e.mu.RUnlock()

	out := make([]*models.MockDraftSession, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, cloneSession(entry.session))
		entry.mu.Unlock()
	}
	return out
}

// Delete removes a session.
func (e *Engine) Delete(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(e.sessions, sessionID)
	return nil
}

// Start populates the available-player pool from the repository; the draft
// only truly begins once this has run.
func (e *Engine) Start(sessionID string) (*models.MockDraftSession, error) {
	entry, err := e.entry(sessionID)
	if err != nil {
		return nil, err
	}

	players, err := e.players.ListPlayers()
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := make([]string, len(players))
	for i, p := range players {
		pool[i] = p.ID
	}
	entry.session.AvailablePlayers = pool

	logger.Info("Started mock draft", "session_id", sessionID, "pool_size", len(pool))
	return cloneSession(entry.session), nil
}

// Pick applies one selection for the team on the clock and returns the
// applied pick alongside the updated session. A pick submitted by the wrong
// acting side (bot during a human turn or vice versa) is a no-op returning
// the unchanged session and a nil pick. Completed sessions and unknown
// players surface as not found.
func (e *Engine) Pick(sessionID, playerID string, isHuman bool) (*models.MockDraftSession, *models.MockDraftPick, error) {
	entry, err := e.entry(sessionID)
	if err != nil {
		return nil, nil, err
	}

	player, err := e.players.GetPlayer(playerID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	if session.IsComplete {
		return nil, nil, ErrNotFound
	}

	team := &session.Teams[session.CurrentTeam-1]
	if team.IsHuman != isHuman {
		// Wrong side of the clock; state stays untouched.
		return cloneSession(session), nil, nil
	}

	pick := models.MockDraftPick{
		ID:         fmt.Sprintf("pick_%d", len(session.Picks)+1),
		PickNumber: session.CurrentPick,
		TeamID:     team.ID,
		PlayerID:   player.ID,
		Round:      roundOf(session.CurrentPick, len(session.Teams)),
		Timestamp:  time.Now(),
	}
	session.Picks = append(session.Picks, pick)

	team.Roster[player.Position] = append(team.Roster[player.Position], player.ID)
	if team.Needs[player.Position] > 0 {
		team.Needs[player.Position]--
	}

	for i, id := range session.AvailablePlayers {
		if id == playerID {
			session.AvailablePlayers = append(session.AvailablePlayers[:i], session.AvailablePlayers[i+1:]...)
			break
		}
	}

	session.CurrentPick++
	if session.CurrentPick > len(session.Teams)*session.TotalRounds {
		session.IsComplete = true
	} else {
		session.CurrentTeam = teamOnClock(session.CurrentPick, len(session.Teams), session.IsSnake)
	}

	logger.Info("Mock draft pick", "session_id", sessionID, "player_id", playerID,
		"team_id", pick.TeamID, "pick", pick.PickNumber, "round", pick.Round)
	applied := pick
	return cloneSession(session), &applied, nil
}

// BotPick scores every available player for the bot on the clock and returns
// the recommended player id. It fails when it is not a bot's turn or no
// players remain; ties go to the earliest player in pool order.
func (e *Engine) BotPick(sessionID string) (string, error) {
	entry, err := e.entry(sessionID)
	if err != nil {
		return "", err
	}

	players, err := e.players.ListPlayers()
	if err != nil {
		return "", err
	}
	byID := make(map[string]*models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	if session.IsComplete {
		return "", ErrNotFound
	}

	team := &session.Teams[session.CurrentTeam-1]
	if team.IsHuman {
		return "", ErrNotFound
	}

	strategy, ok := Strategies[team.Strategy]
	if !ok {
		strategy = Strategies["Balanced"]
	}

	bestID := ""
	bestScore := 0.0
	for _, id := range session.AvailablePlayers {
		p, ok := byID[id]
		if !ok {
			continue
		}
		draftScore := 0.0
		if latest := p.LatestSeason(); latest != nil {
			draftScore = latest.DraftScore
		}
		score := scorePlayer(strategy, draftScore, p.Position, team.Needs)
		if bestID == "" || score > bestScore {
			bestID = id
			bestScore = score
		}
	}
	if bestID == "" {
		return "", ErrNotFound
	}

	logger.Debug("Bot pick recommendation", "session_id", sessionID, "team_id", team.ID,
		"strategy", team.Strategy, "player_id", bestID)
	return bestID, nil
}

// roundOf is the 1-indexed round containing a pick number.
func roundOf(pick, numTeams int) int {
	return (pick-1)/numTeams + 1
}

// teamOnClock derives the team index for a pick number. In snake mode the
// order reverses every round, so the team at each boundary picks twice in a
// row; linear mode cycles forward forever.
func teamOnClock(pick, numTeams int, isSnake bool) int {
	posInRound := (pick-1)%numTeams + 1
	if !isSnake {
		return posInRound
	}
	if roundOf(pick, numTeams)%2 == 1 {
		return posInRound
	}
	return numTeams - posInRound + 1
}

func (e *Engine) entry(sessionID string) (*sessionEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func cloneSession(s *models.MockDraftSession) *models.MockDraftSession {
	out := *s
	out.Teams = make([]models.MockDraftTeam, len(s.Teams))
	for i, t := range s.Teams {
		ct := t
		ct.Roster = make(map[models.Position][]string, len(t.Roster))
		for pos, ids := range t.Roster {
			ct.Roster[pos] = append([]string(nil), ids...)
		}
		ct.Needs = t.Needs.Clone()
		out.Teams[i] = ct
	}
	out.Picks = make([]models.MockDraftPick, len(s.Picks))
	copy(out.Picks, s.Picks)
	out.AvailablePlayers = append([]string(nil), s.AvailablePlayers...)
	return &out
}
