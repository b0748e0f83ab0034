package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dayy346/fantasy-draft-assistant/internal/draft"
	"github.com/Dayy346/fantasy-draft-assistant/internal/mockdraft"
	"github.com/Dayy346/fantasy-draft-assistant/internal/mocks"
	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/pubsub"
	"github.com/Dayy346/fantasy-draft-assistant/internal/repo"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	r := repo.NewSeededMemoryRepository()
	if _, err := RecomputeScores(r); err != nil {
		t.Fatalf("RecomputeScores: %v", err)
	}

	h := NewAPIHandlers(r, draft.NewManager(r), mockdraft.NewEngine(r), pubsub.New(), mocks.NewMockAnalyticsClient())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestListPlayers(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/players", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Players []models.Player `json:"players"`
		Total   int             `json:"total"`
		Page    int             `json:"page"`
		Limit   int             `json:"limit"`
	}
	decode(t, rec, &resp)

	if resp.Total == 0 || len(resp.Players) == 0 {
		t.Fatal("expected seeded players")
	}
	if resp.Page != 1 || resp.Limit != defaultPageLimit {
		t.Errorf("page/limit = %d/%d", resp.Page, resp.Limit)
	}

	// Default order is draft score descending.
	for i := 1; i < len(resp.Players); i++ {
		prev := resp.Players[i-1].LatestSeason()
		cur := resp.Players[i].LatestSeason()
		if prev != nil && cur != nil && prev.DraftScore < cur.DraftScore {
			t.Fatalf("players not sorted by draftScore desc at index %d", i)
		}
	}
}

func TestListPlayersPositionFilter(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/players?position=rb", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Players []models.Player `json:"players"`
	}
	decode(t, rec, &resp)

	if len(resp.Players) == 0 {
		t.Fatal("expected RB players")
	}
	for _, p := range resp.Players {
		if p.Position != models.RB {
			t.Errorf("player %s has position %s", p.ID, p.Position)
		}
	}
}

func TestListPlayersBadPosition(t *testing.T) {
	mux := newTestMux(t)
	rec := doJSON(t, mux, http.MethodGet, "/api/players?position=xyz", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListPlayersPagination(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/players?limit=5&page=2", nil)
	var resp struct {
		Players []models.Player `json:"players"`
		Total   int             `json:"total"`
	}
	decode(t, rec, &resp)

	if len(resp.Players) != 5 {
		t.Errorf("page size = %d, want 5", len(resp.Players))
	}
	if resp.Total < 10 {
		t.Errorf("total = %d", resp.Total)
	}
}

func TestGetPlayer(t *testing.T) {
	mux := newTestMux(t)

	list := doJSON(t, mux, http.MethodGet, "/api/players?limit=1", nil)
	var resp struct {
		Players []models.Player `json:"players"`
	}
	decode(t, list, &resp)
	id := resp.Players[0].ID

	rec := doJSON(t, mux, http.MethodGet, "/api/players/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var player models.Player
	decode(t, rec, &player)
	if player.ID != id || len(player.Seasons) == 0 {
		t.Errorf("player = %+v", player)
	}

	if rec := doJSON(t, mux, http.MethodGet, "/api/players/nobody", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown player status = %d, want 404", rec.Code)
	}
}

func TestSearchPlayers(t *testing.T) {
	mux := newTestMux(t)

	if rec := doJSON(t, mux, http.MethodGet, "/api/search?q=a", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("short query status = %d, want 400", rec.Code)
	}

	rec := doJSON(t, mux, http.MethodGet, "/api/search?q=josh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Players []models.Player `json:"players"`
	}
	decode(t, rec, &resp)
	if len(resp.Players) == 0 {
		t.Error("expected a match for 'josh'")
	}
}

func TestGetMetrics(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report map[models.Position]models.CohortStats
	decode(t, rec, &report)

	for _, pos := range []models.Position{models.QB, models.RB, models.WR, models.TE} {
		stats, ok := report[pos]
		if !ok {
			t.Errorf("missing cohort stats for %s", pos)
			continue
		}
		if _, ok := stats.Means["ppg"]; !ok {
			t.Errorf("%s cohort missing ppg mean", pos)
		}
	}
}

func TestRecomputeScores(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/scores/recompute", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OK            bool `json:"ok"`
		PlayersValued int  `json:"playersValued"`
	}
	decode(t, rec, &resp)
	if !resp.OK || resp.PlayersValued == 0 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDraftSessionLifecycle(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/draft/session", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var session models.DraftSession
	decode(t, rec, &session)
	if session.ID == "" || len(session.Suggestions) != 0 {
		t.Fatalf("session = %+v", session)
	}

	// Pick the first suggested-quality player from the pool.
	list := doJSON(t, mux, http.MethodGet, "/api/players?position=rb&limit=1", nil)
	var players struct {
		Players []models.Player `json:"players"`
	}
	decode(t, list, &players)
	playerID := players.Players[0].ID

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/draft/%s/pick", session.ID),
		map[string]string{"playerId": playerID, "teamSlot": "mine"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pick status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &session)

	if len(session.Picks) != 1 || session.Picks[0].PickNumber != 1 {
		t.Fatalf("picks = %+v", session.Picks)
	}
	if session.RosterNeeds[models.RB] != 1 {
		t.Errorf("RB need = %d, want 1", session.RosterNeeds[models.RB])
	}
	if len(session.Suggestions) == 0 {
		t.Error("expected suggestions after pick")
	}
	for _, s := range session.Suggestions {
		if s.Player.ID == playerID {
			t.Error("picked player still suggested")
		}
	}

	board := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/draft/%s/board", session.ID), nil)
	if board.Code != http.StatusOK {
		t.Fatalf("board status = %d", board.Code)
	}

	// Undo with a bogus pick id leaves the session alone.
	rec = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("/api/draft/%s/pick/bogus", session.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("bogus undo status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodDelete,
		fmt.Sprintf("/api/draft/%s/pick/%s", session.ID, session.Picks[0].ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("undo status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &session)
	if len(session.Picks) != 0 {
		t.Errorf("picks after undo = %+v", session.Picks)
	}
	if session.RosterNeeds[models.RB] != 2 {
		t.Errorf("RB need after undo = %d, want 2", session.RosterNeeds[models.RB])
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/draft/"+session.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/draft/%s/board", session.ID), nil); rec.Code != http.StatusNotFound {
		t.Errorf("board after delete status = %d, want 404", rec.Code)
	}
}

func TestDraftPickValidation(t *testing.T) {
	mux := newTestMux(t)

	var session models.DraftSession
	decode(t, doJSON(t, mux, http.MethodPost, "/api/draft/session", nil), &session)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/draft/%s/pick", session.ID),
		map[string]string{"teamSlot": "mine"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing playerId status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/draft/%s/pick", session.ID),
		map[string]string{"playerId": "nobody"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown player status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/draft/missing/pick",
		map[string]string{"playerId": "nobody"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", rec.Code)
	}
}

func TestMockDraftLifecycle(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/mock-draft/session",
		map[string]interface{}{"numTeams": 20, "isSnake": true, "totalRounds": 10})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid setup status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/mock-draft/session",
		map[string]interface{}{"numTeams": 2, "isSnake": true, "totalRounds": 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var session models.MockDraftSession
	decode(t, rec, &session)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/mock-draft/%s/start", session.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	decode(t, rec, &session)
	if len(session.AvailablePlayers) == 0 {
		t.Fatal("pool should be populated after start")
	}

	// Bot pick is rejected while the human is on the clock.
	if rec := doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/mock-draft/%s/bot-pick", session.ID), nil); rec.Code != http.StatusNotFound {
		t.Errorf("bot-pick on human turn status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/mock-draft/%s/pick", session.ID),
		map[string]interface{}{"playerId": session.AvailablePlayers[0], "isHuman": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("human pick status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &session)
	if len(session.Picks) != 1 {
		t.Fatalf("picks = %+v", session.Picks)
	}

	// Now it is the bot's turn; the recommendation must come from the pool.
	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/mock-draft/%s/bot-pick", session.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bot-pick status = %d", rec.Code)
	}
	var botResp map[string]string
	decode(t, rec, &botResp)
	found := false
	for _, id := range session.AvailablePlayers {
		if id == botResp["playerId"] {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("bot recommended %q which is not in the pool", botResp["playerId"])
	}

	list := doJSON(t, mux, http.MethodGet, "/api/mock-draft", nil)
	var sessions struct {
		Sessions []models.MockDraftSession `json:"sessions"`
	}
	decode(t, list, &sessions)
	if len(sessions.Sessions) != 1 {
		t.Errorf("session count = %d, want 1", len(sessions.Sessions))
	}

	if rec := doJSON(t, mux, http.MethodDelete, "/api/mock-draft/"+session.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, mux, http.MethodGet, "/api/mock-draft/"+session.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestMockDraftSetupDefaults(t *testing.T) {
	mux := newTestMux(t)

	// An empty body gets the standard league shape.
	rec := doJSON(t, mux, http.MethodPost, "/api/mock-draft/session", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("empty-body create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var session models.MockDraftSession
	decode(t, rec, &session)
	if len(session.Teams) != 12 || !session.IsSnake || session.TotalRounds != 15 {
		t.Errorf("defaults = %d teams, snake %v, %d rounds; want 12/true/15",
			len(session.Teams), session.IsSnake, session.TotalRounds)
	}

	// A partial body only overrides what it names.
	rec = doJSON(t, mux, http.MethodPost, "/api/mock-draft/session",
		map[string]interface{}{"numTeams": 4})
	if rec.Code != http.StatusCreated {
		t.Fatalf("partial-body create status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &session)
	if len(session.Teams) != 4 || !session.IsSnake || session.TotalRounds != 15 {
		t.Errorf("partial body = %d teams, snake %v, %d rounds; want 4/true/15",
			len(session.Teams), session.IsSnake, session.TotalRounds)
	}
}

func TestMockDraftPickDefaultsToHuman(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/mock-draft/session",
		map[string]interface{}{"numTeams": 2, "isSnake": true, "totalRounds": 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var session models.MockDraftSession
	decode(t, rec, &session)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/mock-draft/%s/start", session.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	decode(t, rec, &session)

	// Pick 1 belongs to the human seat; leaving isHuman out must still
	// record it rather than bounce off the turn check.
	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/mock-draft/%s/pick", session.ID),
		map[string]interface{}{"playerId": session.AvailablePlayers[0]})
	if rec.Code != http.StatusOK {
		t.Fatalf("pick status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &session)
	if len(session.Picks) != 1 {
		t.Fatalf("picks = %+v, want the human pick recorded", session.Picks)
	}
	if session.CurrentPick != 2 {
		t.Errorf("currentPick = %d, want 2", session.CurrentPick)
	}
}

func TestHealthProbes(t *testing.T) {
	mux := newTestMux(t)

	for _, path := range []string{"/api/health", "/healthz", "/readyz"} {
		rec := doJSON(t, mux, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
