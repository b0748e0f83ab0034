package mocks

import (
	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
	"github.com/Dayy346/fantasy-draft-assistant/internal/repo"
)

// MockPostgresRepository stands in for Postgres during local development by
// delegating to the SQLite repository.
type MockPostgresRepository struct {
	repo.PlayerRepository
	sqlite *repo.SQLiteRepository
}

// Close closes the underlying SQLite handle.
func (m *MockPostgresRepository) Close() error {
	return m.sqlite.Close()
}

// NewMockPostgresRepository creates a Postgres stand-in backed by SQLite.
func NewMockPostgresRepository(sqliteFile string) (*MockPostgresRepository, error) {
	logger.Info("Using MOCK Postgres (SQLite) for local development")

	sqliteRepo, err := repo.NewSQLiteRepository(sqliteFile)
	if err != nil {
		return nil, err
	}

	return &MockPostgresRepository{PlayerRepository: sqliteRepo, sqlite: sqliteRepo}, nil
}
