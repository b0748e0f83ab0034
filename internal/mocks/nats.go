package mocks

import (
	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
	"github.com/Dayy346/fantasy-draft-assistant/internal/pubsub"
)

// MockNATSUpstream stands in for a NATS broker with the in-memory mock bus.
type MockNATSUpstream struct {
	*pubsub.MockNATSBus
}

// NewMockNATSUpstream creates a mock broker for local development.
func NewMockNATSUpstream() *MockNATSUpstream {
	logger.Info("Using MOCK NATS/JetStream (in-memory) for local development")
	return &MockNATSUpstream{MockNATSBus: pubsub.NewMockNATSBus("draft.events")}
}
