// Package analytics records draft picks in ClickHouse and aggregates them
// into average draft position (ADP) for each player.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client is the ADP analytics surface. The ClickHouse implementation and the
// in-memory mock both satisfy it.
type Client interface {
	RecordPick(sessionID, playerID string, pickNumber int) error
	GetAverageDraftPosition(playerID string) (float64, error)
	GetAllAverageDraftPositions() (map[string]float64, error)
	SyncDraftPositions(updateFunc func(playerID string, adp float64) error) error
	Close() error
}

// ClickHouseClient stores pick events in ClickHouse.
type ClickHouseClient struct {
	conn driver.Conn
}

// NewClickHouseClient connects to ClickHouse and ensures the picks table
// exists.
func NewClickHouseClient(addr, database, username, password string) (*ClickHouseClient, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	ddl := `
		CREATE TABLE IF NOT EXISTS draft_picks (
			session_id String,
			player_id String,
			pick_number UInt32,
			picked_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (player_id, picked_at)
	`
	if err := conn.Exec(context.Background(), ddl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create draft_picks table: %w", err)
	}

	return &ClickHouseClient{conn: conn}, nil
}

// RecordPick writes one pick event.
func (c *ClickHouseClient) RecordPick(sessionID, playerID string, pickNumber int) error {
	query := `INSERT INTO draft_picks (session_id, player_id, pick_number, picked_at) VALUES ($1, $2, $3, $4)`
	return c.conn.Exec(context.Background(), query, sessionID, playerID, uint32(pickNumber), time.Now())
}

// GetAverageDraftPosition returns a player's ADP over the last 30 days.
func (c *ClickHouseClient) GetAverageDraftPosition(playerID string) (float64, error) {
	var adp float64

	query := `
		SELECT avg(pick_number) AS adp
		FROM draft_picks
		WHERE player_id = $1
		AND picked_at >= now() - INTERVAL 30 DAY
	`

	row := c.conn.QueryRow(context.Background(), query, playerID)
	if err := row.Scan(&adp); err != nil {
		return 0, err
	}
	return adp, nil
}

// GetAllAverageDraftPositions returns the 30-day ADP for every player with
// recorded picks.
func (c *ClickHouseClient) GetAllAverageDraftPositions() (map[string]float64, error) {
	adps := make(map[string]float64)

	query := `
		SELECT player_id, avg(pick_number) AS adp
		FROM draft_picks
		WHERE picked_at >= now() - INTERVAL 30 DAY
		GROUP BY player_id
	`

	rows, err := c.conn.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var adp float64
		if err := rows.Scan(&id, &adp); err != nil {
			return nil, err
		}
		adps[id] = adp
	}

	return adps, nil
}

// SyncDraftPositions pushes every player's ADP through updateFunc. Called
// periodically to keep the player store current.
func (c *ClickHouseClient) SyncDraftPositions(updateFunc func(playerID string, adp float64) error) error {
	adps, err := c.GetAllAverageDraftPositions()
	if err != nil {
		return err
	}

	for playerID, adp := range adps {
		if err := updateFunc(playerID, adp); err != nil {
			return fmt.Errorf("failed to update ADP for %s: %w", playerID, err)
		}
	}

	return nil
}

// Close closes the ClickHouse connection.
func (c *ClickHouseClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
