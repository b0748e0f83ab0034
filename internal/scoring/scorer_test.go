package scoring

import (
	"testing"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

func TestDraftScoreNoMetrics(t *testing.T) {
	w := summaryOf(17, map[string]float64{})
	w.Position = models.RB
	cohort := ComputeCohortStats(models.RB, nil)

	score, _ := DraftScore(w, cohort)
	if score != scoreOffset {
		t.Errorf("score with no metrics = %v, want %v", score, scoreOffset)
	}
}

func TestDraftScoreUnscoredPosition(t *testing.T) {
	w := summaryOf(17, map[string]float64{"ppg": 9})
	w.Position = models.K

	score, zScores := DraftScore(w, ComputeCohortStats(models.K, nil))
	if score != scoreOffset || zScores != nil {
		t.Errorf("kicker score = %v zScores = %v", score, zScores)
	}
}

func TestDraftScoreSingleMetric(t *testing.T) {
	// Cohort where only ppg exists: the weight divisor renormalizes so one
	// metric carries the whole composite.
	w := &models.WeightedMetrics{
		Position: models.RB,
		Games:    17,
		Values:   map[string]float64{"ppg": 15},
	}
	cohort := &models.CohortStats{
		Position: models.RB,
		Means:    map[string]float64{"ppg": 10},
		StdDevs:  map[string]float64{"ppg": 2},
	}

	score, zScores := DraftScore(w, cohort)

	// z = 2.5, single weight renormalizes to 1: score = 2.5 + offset.
	if score != 3.5 {
		t.Errorf("score = %v, want 3.5", score)
	}
	if got := zScores["ppg"]; got != 2.5 {
		t.Errorf("z[ppg] = %v, want 2.5", got)
	}
}

func TestDraftScoreCompositeSlotPrefersYPRR(t *testing.T) {
	cohort := &models.CohortStats{
		Position: models.WR,
		Means:    map[string]float64{"yprr": 2.0, "ypt": 8.0},
		StdDevs:  map[string]float64{"yprr": 0.5, "ypt": 1.0},
	}

	withRoutes := &models.WeightedMetrics{
		Position: models.WR,
		Games:    17,
		Values:   map[string]float64{"yprr": 2.5, "ypt": 9.0},
	}
	_, zScores := DraftScore(withRoutes, cohort)
	if _, ok := zScores["yprr"]; !ok {
		t.Error("composite slot should use yprr when present")
	}
	if _, ok := zScores["ypt"]; ok {
		t.Error("ypt should not be scored when yprr fills the slot")
	}

	withoutRoutes := &models.WeightedMetrics{
		Position: models.WR,
		Games:    17,
		Values:   map[string]float64{"ypt": 9.0},
	}
	_, zScores = DraftScore(withoutRoutes, cohort)
	if _, ok := zScores["ypt"]; !ok {
		t.Error("composite slot should fall back to ypt")
	}
}

func TestDraftScoreIntRatePenalty(t *testing.T) {
	cohort := &models.CohortStats{
		Position: models.QB,
		Means:    map[string]float64{"int_rate": 0.02},
		StdDevs:  map[string]float64{"int_rate": 0.01},
	}

	clean := &models.WeightedMetrics{
		Position: models.QB, Games: 17,
		Values: map[string]float64{"int_rate": 0.01},
	}
	turnoverProne := &models.WeightedMetrics{
		Position: models.QB, Games: 17,
		Values: map[string]float64{"int_rate": 0.04},
	}

	cleanScore, _ := DraftScore(clean, cohort)
	proneScore, _ := DraftScore(turnoverProne, cohort)
	if cleanScore <= proneScore {
		t.Errorf("low int rate should outscore high: %v vs %v", cleanScore, proneScore)
	}
}

func rbPlayer(id string, games int, ppg float64) *models.Player {
	return &models.Player{
		ID:       id,
		Name:     id,
		Position: models.RB,
		Seasons: []models.SeasonStats{
			{PlayerID: id, Year: 2024, Games: games, FantasyPoints: ppg * float64(games),
				Metrics: map[string]float64{"ppg": ppg}},
		},
	}
}

func TestScorePlayersPipeline(t *testing.T) {
	players := []*models.Player{
		rbPlayer("rb_high", 17, 20),
		rbPlayer("rb_mid", 17, 14),
		rbPlayer("rb_low", 17, 8),
		{ID: "k_1", Name: "k_1", Position: models.K, Seasons: []models.SeasonStats{
			{Year: 2024, Games: 17, FantasyPoints: 136, Metrics: map[string]float64{"ppg": 8}},
		}},
		{ID: "rb_empty", Name: "rb_empty", Position: models.RB},
	}

	valuations := ScorePlayers(players)

	byID := make(map[string]*models.PlayerValuation)
	for _, v := range valuations {
		byID[v.PlayerID] = v
	}

	if _, ok := byID["k_1"]; ok {
		t.Error("kickers should not be valued")
	}
	if _, ok := byID["rb_empty"]; ok {
		t.Error("players without seasons should be excluded")
	}
	if len(valuations) != 3 {
		t.Fatalf("valued %d players, want 3", len(valuations))
	}

	if byID["rb_high"].DraftScore <= byID["rb_mid"].DraftScore ||
		byID["rb_mid"].DraftScore <= byID["rb_low"].DraftScore {
		t.Errorf("draft scores should follow ppg: %v / %v / %v",
			byID["rb_high"].DraftScore, byID["rb_mid"].DraftScore, byID["rb_low"].DraftScore)
	}

	// Three RBs: replacement rank 24 clamps to cohort size, so the baseline
	// is the worst ppg and VORP is non-negative for everyone.
	if got := byID["rb_low"].VORP; got != 0 {
		t.Errorf("baseline player VORP = %v, want 0", got)
	}
	if got := byID["rb_high"].VORP; got != 12 {
		t.Errorf("rb_high VORP = %v, want 12", got)
	}
}

func TestScorePlayersDeterministicOrder(t *testing.T) {
	players := []*models.Player{
		rbPlayer("b", 17, 12),
		rbPlayer("a", 17, 18),
		rbPlayer("c", 17, 15),
	}

	for run := 0; run < 5; run++ {
		valuations := ScorePlayers(players)
		for i, want := range []string{"a", "b", "c"} {
			if valuations[i].PlayerID != want {
				t.Fatalf("run %d: order[%d] = %s, want %s", run, i, valuations[i].PlayerID, want)
			}
		}
	}
}

func TestCohortReport(t *testing.T) {
	players := []*models.Player{
		rbPlayer("rb_1", 17, 10),
		rbPlayer("rb_2", 17, 20),
	}

	report := CohortReport(players)

	stats, ok := report[models.RB]
	if !ok {
		t.Fatal("missing RB cohort")
	}
	if got := stats.Means["ppg"]; got != 15 {
		t.Errorf("RB ppg mean = %v, want 15", got)
	}
	if _, ok := report[models.QB]; ok {
		t.Error("no QB players, no QB cohort")
	}
}
