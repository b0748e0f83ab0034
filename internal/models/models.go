package models

import "time"

// Position identifies a fantasy roster slot group.
type Position string

const (
	QB  Position = "QB"
	RB  Position = "RB"
	WR  Position = "WR"
	TE  Position = "TE"
	K   Position = "K"
	DEF Position = "DEF"
)

// AllPositions lists every rosterable position.
var AllPositions = []Position{QB, RB, WR, TE, K, DEF}

// ScoredPositions lists the positions that receive valuation scores.
var ScoredPositions = []Position{QB, RB, WR, TE}

// ParsePosition normalizes a position string. The second return is false for
// unknown positions.
func ParsePosition(s string) (Position, bool) {
	switch Position(s) {
	case QB, RB, WR, TE, K, DEF:
		return Position(s), true
	}
	return "", false
}

// PassingLine holds raw QB counting stats for one season.
type PassingLine struct {
	PassAtt int `json:"passAtt"`
	PassCmp int `json:"passCmp"`
	PassYds int `json:"passYds"`
	PassTD  int `json:"passTd"`
	Ints    int `json:"ints"`
	RushAtt int `json:"rushAtt"`
	RushYds int `json:"rushYds"`
	RushTD  int `json:"rushTd"`
}

// RushingLine holds raw RB counting stats for one season.
type RushingLine struct {
	Carries int `json:"carries"`
	Targets int `json:"targets"`
	Recs    int `json:"recs"`
	RushYds int `json:"rushYds"`
	RecvYds int `json:"recvYds"`
	TotalTD int `json:"totalTd"`
}

// ReceivingLine holds raw WR/TE counting stats for one season. Routes and
// AirYds are 0 when the source data does not carry them.
type ReceivingLine struct {
	Targets int `json:"targets"`
	Recs    int `json:"recs"`
	RecvYds int `json:"recvYds"`
	RecTD   int `json:"recTd"`
	RushAtt int `json:"rushAtt"`
	RushYds int `json:"rushYds"`
	RushTD  int `json:"rushTd"`
	Routes  int `json:"routes"`
	AirYds  int `json:"airYds"`
}

// SeasonStats is one player's stats for one year. At most one of the raw
// line variants is set, matching the player's position; K/DEF carry none.
// Metrics holds the derived per-position metric values resolved at
// ingestion (ppg always; the rest depend on the position), keyed by metric
// name.
type SeasonStats struct {
	PlayerID      string             `json:"playerId"`
	Year          int                `json:"year"`
	Games         int                `json:"games"`
	FantasyPoints float64            `json:"fpts"`
	Passing       *PassingLine       `json:"passing,omitempty"`
	Rushing       *RushingLine       `json:"rushing,omitempty"`
	Receiving     *ReceivingLine     `json:"receiving,omitempty"`
	Metrics       map[string]float64 `json:"metrics"`
	Weighted      map[string]float64 `json:"weighted,omitempty"`
	DraftScore    float64            `json:"draftScore"`
	VORP          float64            `json:"vorp"`
}

// Metric returns a derived metric value. The second return is false when
// the metric is absent for this season.
func (s *SeasonStats) Metric(name string) (float64, bool) {
	if s == nil || s.Metrics == nil {
		return 0, false
	}
	v, ok := s.Metrics[name]
	return v, ok
}

// Player is one rankable athlete with their season history, most recent
// season first.
type Player struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Position Position      `json:"position"`
	Team     string        `json:"team"`
	ADP      float64       `json:"adp,omitempty"`
	Seasons  []SeasonStats `json:"seasons"`
}

// LatestSeason returns the most recent season, or nil if the player has no
// season history.
func (p *Player) LatestSeason() *SeasonStats {
	if p == nil || len(p.Seasons) == 0 {
		return nil
	}
	return &p.Seasons[0]
}

// WeightedMetrics is one player's three-year recency-blended metric summary.
// Games is taken from the most recent qualifying season and gates cohort
// membership downstream.
type WeightedMetrics struct {
	PlayerID string             `json:"playerId"`
	Position Position           `json:"position"`
	Games    int                `json:"games"`
	Values   map[string]float64 `json:"values"`
}

// CohortStats holds per-metric mean and standard deviation for one
// position's cohort.
type CohortStats struct {
	Position Position           `json:"position"`
	Means    map[string]float64 `json:"means"`
	StdDevs  map[string]float64 `json:"stdDevs"`
}

// PlayerValuation is the final comparable value for one player.
type PlayerValuation struct {
	PlayerID   string             `json:"playerId"`
	Position   Position           `json:"position"`
	Weighted   map[string]float64 `json:"weighted"`
	ZScores    map[string]float64 `json:"zScores"`
	DraftScore float64            `json:"draftScore"`
	VORP       float64            `json:"vorp"`
}

// RosterNeeds tracks remaining slots per position.
type RosterNeeds map[Position]int

// Clone returns an independent copy of the needs map.
func (n RosterNeeds) Clone() RosterNeeds {
	out := make(RosterNeeds, len(n))
	for pos, v := range n {
		out[pos] = v
	}
	return out
}

// DraftPick is one completed pick in a live assistant session.
type DraftPick struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	Player     *Player   `json:"player,omitempty"`
	PickNumber int       `json:"pickNumber"`
	TeamSlot   string    `json:"teamSlot,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Suggestion is one best-available candidate in a live session.
type Suggestion struct {
	Player     *Player `json:"player"`
	DraftScore float64 `json:"draftScore"`
}

// DraftSession is one live assistant run.
type DraftSession struct {
	ID          string       `json:"id"`
	Picks       []DraftPick  `json:"picks"`
	RosterNeeds RosterNeeds  `json:"rosterNeeds"`
	Suggestions []Suggestion `json:"suggestions"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// MockDraftPick is one completed pick in a simulated draft.
type MockDraftPick struct {
	ID         string    `json:"id"`
	PickNumber int       `json:"pickNumber"`
	TeamID     int       `json:"teamId"`
	PlayerID   string    `json:"playerId"`
	Round      int       `json:"round"`
	Timestamp  time.Time `json:"timestamp"`
}

// MockDraftTeam is one participant in a simulated draft. Roster maps a
// position to the player ids drafted into it.
type MockDraftTeam struct {
	ID       int                   `json:"id"`
	Name     string                `json:"name"`
	IsHuman  bool                  `json:"isHuman"`
	Strategy string                `json:"strategy"`
	Roster   map[Position][]string `json:"roster"`
	Needs    RosterNeeds           `json:"needs"`
}

// MockDraftSession is one simulated multi-team draft.
type MockDraftSession struct {
	ID               string          `json:"id"`
	Teams            []MockDraftTeam `json:"teams"`
	CurrentPick      int             `json:"currentPick"`
	CurrentTeam      int             `json:"currentTeam"`
	IsSnake          bool            `json:"isSnake"`
	TotalRounds      int             `json:"totalRounds"`
	Picks            []MockDraftPick `json:"picks"`
	AvailablePlayers []string        `json:"availablePlayers"`
	IsComplete       bool            `json:"isComplete"`
	CreatedAt        time.Time       `json:"createdAt"`
}
