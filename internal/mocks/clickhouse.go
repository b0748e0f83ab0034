package mocks

import (
	"sync"

	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
)

// MockAnalyticsClient is an in-memory stand-in for the ClickHouse ADP client.
// Recorded picks are averaged for real, so local development sees ADP move
// as drafts run.
type MockAnalyticsClient struct {
	mu    sync.RWMutex
	picks map[string][]int
}

// NewMockAnalyticsClient creates a mock ADP client.
func NewMockAnalyticsClient() *MockAnalyticsClient {
	logger.Info("Using MOCK ClickHouse analytics for local development")
	return &MockAnalyticsClient{picks: make(map[string][]int)}
}

// RecordPick stores one pick event in memory.
func (m *MockAnalyticsClient) RecordPick(sessionID, playerID string, pickNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.picks[playerID] = append(m.picks[playerID], pickNumber)
	return nil
}

// GetAverageDraftPosition returns the mean recorded pick number, or 0 when
// the player has never been drafted.
func (m *MockAnalyticsClient) GetAverageDraftPosition(playerID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return average(m.picks[playerID]), nil
}

// GetAllAverageDraftPositions returns the ADP of every recorded player.
func (m *MockAnalyticsClient) GetAllAverageDraftPositions() (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	adps := make(map[string]float64, len(m.picks))
	for id, nums := range m.picks {
		adps[id] = average(nums)
	}
	return adps, nil
}

// SyncDraftPositions pushes every recorded ADP through updateFunc.
func (m *MockAnalyticsClient) SyncDraftPositions(updateFunc func(playerID string, adp float64) error) error {
	adps, err := m.GetAllAverageDraftPositions()
	if err != nil {
		return err
	}

	for playerID, adp := range adps {
		if err := updateFunc(playerID, adp); err != nil {
			logger.Warn("Mock analytics: failed to update ADP", "player_id", playerID, "error", err)
		}
	}
	return nil
}

// Close is a no-op.
func (m *MockAnalyticsClient) Close() error {
	return nil
}

func average(nums []int) float64 {
	if len(nums) == 0 {
		return 0
	}
	sum := 0
	for _, n := range nums {
		sum += n
	}
	return float64(sum) / float64(len(nums))
}
