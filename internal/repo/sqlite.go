package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/scoring"
)

// SQLiteRepository implements PlayerRepository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed player repository.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	r := &SQLiteRepository{db: db}
	if err := r.initSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL,
		adp REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS seasons (
		player_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		games INTEGER NOT NULL,
		fpts REAL NOT NULL,
		stats TEXT NOT NULL,
		weighted TEXT,
		draft_score REAL NOT NULL DEFAULT 0,
		vorp REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (player_id, year),
		FOREIGN KEY (player_id) REFERENCES players(id)
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// seasonPayload is the JSON shape stored in the seasons.stats column: the
// position-tagged raw line plus derived metrics.
type seasonPayload struct {
	Passing   *models.PassingLine   `json:"passing,omitempty"`
	Rushing   *models.RushingLine   `json:"rushing,omitempty"`
	Receiving *models.ReceivingLine `json:"receiving,omitempty"`
	Metrics   map[string]float64    `json:"metrics"`
}

func (r *SQLiteRepository) ListPlayers() ([]*models.Player, error) {
	rows, err := r.db.Query(`SELECT id, name, position, team, adp FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var p models.Player
		var pos string
		if err := rows.Scan(&p.ID, &p.Name, &pos, &p.Team, &p.ADP); err != nil {
			return nil, err
		}
		p.Position = models.Position(pos)
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range players {
		if err := r.loadSeasons(p); err != nil {
			return nil, err
		}
	}
	return players, nil
}

func (r *SQLiteRepository) GetPlayer(id string) (*models.Player, error) {
	var p models.Player
	var pos string
	err := r.db.QueryRow(`SELECT id, name, position, team, adp FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &pos, &p.Team, &p.ADP)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Position = models.Position(pos)

	if err := r.loadSeasons(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) SearchPlayers(query string, limit int) ([]*models.Player, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.db.Query(
		`SELECT id, name, position, team, adp FROM players WHERE lower(name) LIKE ? ORDER BY name LIMIT ?`,
		pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var p models.Player
		var pos string
		if err := rows.Scan(&p.ID, &p.Name, &pos, &p.Team, &p.ADP); err != nil {
			return nil, err
		}
		p.Position = models.Position(pos)
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range players {
		if err := r.loadSeasons(p); err != nil {
			return nil, err
		}
	}
	return players, nil
}

func (r *SQLiteRepository) loadSeasons(p *models.Player) error {
	rows, err := r.db.Query(
		`SELECT year, games, fpts, stats, weighted, draft_score, vorp FROM seasons WHERE player_id = ? ORDER BY year DESC`,
		p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.SeasonStats
		var stats string
		var weighted sql.NullString
		if err := rows.Scan(&s.Year, &s.Games, &s.FantasyPoints, &stats, &weighted, &s.DraftScore, &s.VORP); err != nil {
			return err
		}
		s.PlayerID = p.ID

		var payload seasonPayload
		if err := json.Unmarshal([]byte(stats), &payload); err != nil {
			return fmt.Errorf("decode season stats for %s/%d: %w", p.ID, s.Year, err)
		}
		s.Passing = payload.Passing
		s.Rushing = payload.Rushing
		s.Receiving = payload.Receiving
		s.Metrics = payload.Metrics
		if s.Metrics == nil {
			s.Metrics = scoring.DeriveMetrics(p.Position, &s)
		}
		if weighted.Valid && weighted.String != "" {
			if err := json.Unmarshal([]byte(weighted.String), &s.Weighted); err != nil {
				return fmt.Errorf("decode weighted metrics for %s/%d: %w", p.ID, s.Year, err)
			}
		}
		p.Seasons = append(p.Seasons, s)
	}
	return rows.Err()
}

func (r *SQLiteRepository) UpsertPlayer(player *models.Player) error {
	p := clonePlayer(player)
	normalizeSeasons(p)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO players (id, name, position, team, adp) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, position = excluded.position, team = excluded.team`,
		p.ID, p.Name, string(p.Position), p.Team, p.ADP)
	if err != nil {
		return err
	}

	for i := range p.Seasons {
		s := &p.Seasons[i]
		stats, err := json.Marshal(seasonPayload{
			Passing: s.Passing, Rushing: s.Rushing, Receiving: s.Receiving, Metrics: s.Metrics,
		})
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO seasons (player_id, year, games, fpts, stats, draft_score, vorp)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(player_id, year) DO UPDATE SET
			   games = excluded.games, fpts = excluded.fpts, stats = excluded.stats`,
			p.ID, s.Year, s.Games, s.FantasyPoints, string(stats), s.DraftScore, s.VORP)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveValuation writes a scoring run's output onto the player's most recent
// season row.
func (r *SQLiteRepository) SaveValuation(v *models.PlayerValuation) error {
	weighted, err := json.Marshal(v.Weighted)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(
		`UPDATE seasons SET draft_score = ?, vorp = ?, weighted = ?
		 WHERE player_id = ? AND year = (SELECT MAX(year) FROM seasons WHERE player_id = ?)`,
		v.DraftScore, v.VORP, string(weighted), v.PlayerID, v.PlayerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SetADP(playerID string, adp float64) error {
	res, err := r.db.Exec(`UPDATE players SET adp = ? WHERE id = ?`, adp, playerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
