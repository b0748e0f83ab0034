package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
	"github.com/Dayy346/fantasy-draft-assistant/internal/scoring"
)

// PostgresRepository implements PlayerRepository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a PostgreSQL-backed player repository. Pool
// limits and the ping retry loop are tuned for managed clusters where DNS
// propagation and failovers can delay the first connection.
func NewPostgresRepository(connString string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	maxRetries := 5
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(5 * time.Second)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	r := &PostgresRepository{db: db}
	if err := r.initSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL,
		adp DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS seasons (
		player_id TEXT NOT NULL REFERENCES players(id),
		year INTEGER NOT NULL,
		games INTEGER NOT NULL,
		fpts DOUBLE PRECISION NOT NULL,
		stats JSONB NOT NULL,
		weighted JSONB,
		draft_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		vorp DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (player_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_players_position ON players(position);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) ListPlayers() ([]*models.Player, error) {
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

func (r *PostgresRepository) GetPlayer(id string) (*models.Player, error) {
	var p models.Player
	var pos string
	err := r.db.QueryRow(`SELECT id, name, position, team, adp FROM players WHERE id = $1`, id).
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

func (r *PostgresRepository) SearchPlayers(query string, limit int) ([]*models.Player, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.db.Query(
		`SELECT id, name, position, team, adp FROM players WHERE lower(name) LIKE $1 ORDER BY name LIMIT $2`,
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

func (r *PostgresRepository) loadSeasons(p *models.Player) error {
	rows, err := r.db.Query(
		`SELECT year, games, fpts, stats, weighted, draft_score, vorp FROM seasons WHERE player_id = $1 ORDER BY year DESC`,
		p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.SeasonStats
		var stats []byte
		var weighted []byte
		if err := rows.Scan(&s.Year, &s.Games, &s.FantasyPoints, &stats, &weighted, &s.DraftScore, &s.VORP); err != nil {
			return err
		}
		s.PlayerID = p.ID

		var payload seasonPayload
		if err := json.Unmarshal(stats, &payload); err != nil {
			return fmt.Errorf("decode season stats for %s/%d: %w", p.ID, s.Year, err)
		}
		s.Passing = payload.Passing
		s.Rushing = payload.Rushing
		s.Receiving = payload.Receiving
		s.Metrics = payload.Metrics
		if s.Metrics == nil {
			s.Metrics = scoring.DeriveMetrics(p.Position, &s)
		}
		if len(weighted) > 0 {
			if err := json.Unmarshal(weighted, &s.Weighted); err != nil {
				return fmt.Errorf("decode weighted metrics for %s/%d: %w", p.ID, s.Year, err)
			}
		}
		p.Seasons = append(p.Seasons, s)
	}
	return rows.Err()
}

func (r *PostgresRepository) UpsertPlayer(player *models.Player) error {
	p := clonePlayer(player)
	normalizeSeasons(p)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO players (id, name, position, team, adp) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, position = EXCLUDED.position, team = EXCLUDED.team`,
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
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (player_id, year) DO UPDATE SET
			   games = EXCLUDED.games, fpts = EXCLUDED.fpts, stats = EXCLUDED.stats`,
			p.ID, s.Year, s.Games, s.FantasyPoints, stats, s.DraftScore, s.VORP)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveValuation writes a scoring run's output onto the player's most recent
// season row.
func (r *PostgresRepository) SaveValuation(v *models.PlayerValuation) error {
	weighted, err := json.Marshal(v.Weighted)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(
		`UPDATE seasons SET draft_score = $1, vorp = $2, weighted = $3
		 WHERE player_id = $4 AND year = (SELECT MAX(year) FROM seasons WHERE player_id = $4)`,
		v.DraftScore, v.VORP, weighted, v.PlayerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetADP(playerID string, adp float64) error {
	res, err := r.db.Exec(`UPDATE players SET adp = $1 WHERE id = $2`, adp, playerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database handle.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
