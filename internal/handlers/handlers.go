package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dayy346/fantasy-draft-assistant/internal/analytics"
	"github.com/Dayy346/fantasy-draft-assistant/internal/draft"
	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
	"github.com/Dayy346/fantasy-draft-assistant/internal/mockdraft"
	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/pubsub"
	"github.com/Dayy346/fantasy-draft-assistant/internal/repo"
	"github.com/Dayy346/fantasy-draft-assistant/internal/scoring"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
	minSearchLength  = 2
)

// APIHandlers contains all API handler methods.
type APIHandlers struct {
	repo      repo.PlayerRepository
	drafts    *draft.Manager
	mock      *mockdraft.Engine
	pubsub    *pubsub.Bus
	analytics analytics.Client // nil disables ADP recording
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(r repo.PlayerRepository, drafts *draft.Manager, mock *mockdraft.Engine, ps *pubsub.Bus, ac analytics.Client) *APIHandlers {
	return &APIHandlers{
		repo:      r,
		drafts:    drafts,
		mock:      mock,
		pubsub:    ps,
		analytics: ac,
	}
}

// RegisterRoutes mounts every API route on the mux.
func (h *APIHandlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", h.ListPlayers)
	mux.HandleFunc("GET /api/players/{id}", h.GetPlayer)
	mux.HandleFunc("GET /api/search", h.SearchPlayers)
	mux.HandleFunc("GET /api/metrics", h.GetMetrics)
	mux.HandleFunc("POST /api/scores/recompute", h.RecomputeScoresHandler)

	mux.HandleFunc("POST /api/draft/session", h.CreateDraftSession)
	mux.HandleFunc("GET /api/draft/{id}/board", h.GetDraftBoard)
	mux.HandleFunc("POST /api/draft/{id}/pick", h.DraftPick)
	mux.HandleFunc("DELETE /api/draft/{id}/pick/{pickId}", h.UndoDraftPick)
	mux.HandleFunc("DELETE /api/draft/{id}", h.DeleteDraftSession)

	mux.HandleFunc("POST /api/mock-draft/session", h.CreateMockDraft)
	mux.HandleFunc("GET /api/mock-draft", h.ListMockDrafts)
	mux.HandleFunc("GET /api/mock-draft/{id}", h.GetMockDraft)
	mux.HandleFunc("POST /api/mock-draft/{id}/start", h.StartMockDraft)
	mux.HandleFunc("POST /api/mock-draft/{id}/pick", h.MockDraftPick)
	mux.HandleFunc("GET /api/mock-draft/{id}/bot-pick", h.MockDraftBotPick)
	mux.HandleFunc("DELETE /api/mock-draft/{id}", h.DeleteMockDraft)

	mux.HandleFunc("GET /api/events", h.EventsSSE)
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /readyz", h.Ready)
}

// RecomputeScores runs the valuation pipeline over every player and persists
// the results. Returns the number of players valued.
func RecomputeScores(r repo.PlayerRepository) (int, error) {
	players, err := r.ListPlayers()
	if err != nil {
		return 0, err
	}

	valuations := scoring.ScorePlayers(players)
	for _, v := range valuations {
		if err := r.SaveValuation(v); err != nil {
			return 0, fmt.Errorf("failed to save valuation for %s: %w", v.PlayerID, err)
		}
	}
	return len(valuations), nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mockdraft.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, draft.ErrNotFound),
		errors.Is(err, mockdraft.ErrNotFound),
		errors.Is(err, repo.ErrNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

// recordPick ships a completed pick to analytics without blocking the
// response.
func (h *APIHandlers) recordPick(sessionID, playerID string, pickNumber int) {
	if h.analytics == nil {
		return
	}
	go func() {
		if err := h.analytics.RecordPick(sessionID, playerID, pickNumber); err != nil {
			logger.Warn("Failed to record pick in analytics", "error", err, "player_id", playerID)
		}
	}()
}

// ListPlayers returns players with optional position filtering, season-metric
// sorting, and pagination.
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.repo.ListPlayers()
	if err != nil {
		logger.Error("Failed to list players", "error", err)
		writeError(w, err)
		return
	}

	q := r.URL.Query()

	if posParam := q.Get("position"); posParam != "" {
		pos, ok := models.ParsePosition(posParam)
		if !ok {
			http.Error(w, fmt.Sprintf("unknown position %q", posParam), http.StatusBadRequest)
			return
		}
		filtered := players[:0]
		for _, p := range players {
			if p.Position == pos {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = "draftScore"
	}
	desc := q.Get("order") != "asc"
	sortPlayers(players, sortKey, desc)

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total := len(players)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, map[string]interface{}{
		"players": players[start:end],
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// sortPlayers orders players on a latest-season field, name, or ADP. Ties
// fall back to player id so output is stable.
func sortPlayers(players []*models.Player, key string, desc bool) {
	value := func(p *models.Player) float64 {
		s := p.LatestSeason()
		if s == nil {
			return 0
		}
		switch key {
		case "draftScore":
			return s.DraftScore
		case "vorp":
			return s.VORP
		case "fantasyPoints":
			return s.FantasyPoints
		default:
			if v, ok := s.Metric(key); ok {
				return v
			}
			return 0
		}
	}

	sort.SliceStable(players, func(i, j int) bool {
		var less bool
		switch key {
		case "name":
			if players[i].Name != players[j].Name {
				less = players[i].Name < players[j].Name
				if desc {
					less = !less
				}
				return less
			}
		case "adp":
			if players[i].ADP != players[j].ADP {
				less = players[i].ADP < players[j].ADP
				if desc {
					less = !less
				}
				return less
			}
		default:
			vi, vj := value(players[i]), value(players[j])
			if vi != vj {
				less = vi < vj
				if desc {
					less = !less
				}
				return less
			}
		}
		return players[i].ID < players[j].ID
	})
}

// GetPlayer returns one player with full season history.
func (h *APIHandlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.repo.GetPlayer(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, player)
}

// SearchPlayers finds players by name substring.
func (h *APIHandlers) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < minSearchLength {
		http.Error(w, fmt.Sprintf("query must be at least %d characters", minSearchLength), http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	players, err := h.repo.SearchPlayers(query, limit)
	if err != nil {
		logger.Error("Failed to search players", "error", err, "query", query)
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"players": players, "query": query})
}

// GetMetrics returns per-position cohort means and standard deviations.
func (h *APIHandlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	players, err := h.repo.ListPlayers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scoring.CohortReport(players))
}

// RecomputeScoresHandler reruns the valuation pipeline and persists the
// results.
func (h *APIHandlers) RecomputeScoresHandler(w http.ResponseWriter, r *http.Request) {
	count, err := RecomputeScores(h.repo)
	if err != nil {
		logger.Error("Failed to recompute scores", "error", err)
		writeError(w, err)
		return
	}

	logger.Info("Recomputed player scores", "players_valued", count)
	h.pubsub.Publish(pubsub.Event{
		Type:    pubsub.EventScoresRecomputed,
		Payload: map[string]interface{}{"playersValued": count},
	})

	writeJSON(w, map[string]interface{}{"ok": true, "playersValued": count})
}

// CreateDraftSession starts a new live assistant session.
func (h *APIHandlers) CreateDraftSession(w http.ResponseWriter, r *http.Request) {
	session := h.drafts.Create()
	h.pubsub.Publish(pubsub.SessionEvent(pubsub.EventSessionCreated, session.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// GetDraftBoard returns the current state of a live session: picks, roster
// needs, and suggestions.
func (h *APIHandlers) GetDraftBoard(w http.ResponseWriter, r *http.Request) {
	session, err := h.drafts.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, session)
}

// DraftPick records a player taken in a live session.
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req struct {
		PlayerID string `json:"playerId"`
		TeamSlot string `json:"teamSlot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode draft pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	session, err := h.drafts.Pick(sessionID, req.PlayerID, req.TeamSlot)
	if err != nil {
		logger.Error("Failed to record pick", "error", err, "session_id", sessionID, "player_id", req.PlayerID)
		writeError(w, err)
		return
	}

	pickNumber := len(session.Picks)
	h.pubsub.Publish(pubsub.PickEvent(pubsub.EventPickMade, sessionID, req.PlayerID, pickNumber))
	h.recordPick(sessionID, req.PlayerID, pickNumber)

	writeJSON(w, session)
}

// UndoDraftPick removes a pick by id and returns the recomputed session.
func (h *APIHandlers) UndoDraftPick(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	pickID := r.PathValue("pickId")

	session, err := h.drafts.Undo(sessionID, pickID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventPickUndone,
		Payload: map[string]interface{}{
			"sessionId": sessionID,
			"pickId":    pickID,
		},
	})

	writeJSON(w, session)
}

// DeleteDraftSession removes a live session.
func (h *APIHandlers) DeleteDraftSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if err := h.drafts.Delete(sessionID); err != nil {
		writeError(w, err)
		return
	}
	h.pubsub.Publish(pubsub.SessionEvent(pubsub.EventSessionDeleted, sessionID))
	writeJSON(w, map[string]bool{"ok": true})
}

// CreateMockDraft sets up a simulated draft. Omitted body fields fall back
// to a 12-team snake draft of 15 rounds.
func (h *APIHandlers) CreateMockDraft(w http.ResponseWriter, r *http.Request) {
	req := struct {
		NumTeams    int  `json:"numTeams"`
		IsSnake     bool `json:"isSnake"`
		TotalRounds int  `json:"totalRounds"`
	}{
		NumTeams:    12,
		IsSnake:     true,
		TotalRounds: 15,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.mock.CreateSession(req.NumTeams, req.IsSnake, req.TotalRounds)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// ListMockDrafts returns every mock draft session.
func (h *APIHandlers) ListMockDrafts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"sessions": h.mock.List()})
}

// GetMockDraft returns one mock draft session.
func (h *APIHandlers) GetMockDraft(w http.ResponseWriter, r *http.Request) {
	session, err := h.mock.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, session)
}

// StartMockDraft loads the available-player pool and opens the draft.
func (h *APIHandlers) StartMockDraft(w http.ResponseWriter, r *http.Request) {
	session, err := h.mock.Start(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, session)
}

// MockDraftPick applies one pick for the team on the clock. An omitted
// isHuman field means the pick comes from the human seat.
func (h *APIHandlers) MockDraftPick(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	req := struct {
		PlayerID string `json:"playerId"`
		IsHuman  bool   `json:"isHuman"`
	}{
		IsHuman: true,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	session, pick, err := h.mock.Pick(sessionID, req.PlayerID, req.IsHuman)
	if err != nil {
		writeError(w, err)
		return
	}

	// A turn violation returns the session unchanged with no pick; only
	// real picks publish and record.
	if pick != nil {
		h.pubsub.Publish(pubsub.PickEvent(pubsub.EventMockPickMade, sessionID, pick.PlayerID, pick.PickNumber))
		h.recordPick(sessionID, pick.PlayerID, pick.PickNumber)

		if session.IsComplete {
			h.pubsub.Publish(pubsub.SessionEvent(pubsub.EventMockDraftComplete, sessionID))
		}
	}

	writeJSON(w, session)
}

// MockDraftBotPick returns the recommended player for the bot on the clock.
func (h *APIHandlers) MockDraftBotPick(w http.ResponseWriter, r *http.Request) {
	playerID, err := h.mock.BotPick(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"playerId": playerID})
}

// DeleteMockDraft removes a mock draft session.
func (h *APIHandlers) DeleteMockDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.mock.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// EventsSSE provides Server-Sent Events for realtime updates.
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			// Keepalive comment so proxies don't drop the stream.
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

// Health reports process liveness.
func (h *APIHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Ready reports readiness by touching the player repository.
func (h *APIHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.repo.ListPlayers(); err != nil {
		http.Error(w, "player repository unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ready"})
}
