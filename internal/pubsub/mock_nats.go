package pubsub

import (
	"sync"

	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
)

// MockNATSBus is an in-memory stand-in for NATSBus. It keeps a bounded
// message history so tests can assert on what was published.
type MockNATSBus struct {
	subject string

	mu          sync.RWMutex
	subs        []chan Event
	messages    []Event
	maxMessages int
}

// NewMockNATSBus creates a mock broker; no server connection is made.
func NewMockNATSBus(subject string) *MockNATSBus {
	logger.Info("Using mock NATS bus", "subject", subject)
	return &MockNATSBus{
		subject:     subject,
		subs:        make([]chan Event, 0),
		messages:    make([]Event, 0),
		maxMessages: 1000,
	}
}

// Publish stores the event and delivers it to subscribers.
func (b *MockNATSBus) Publish(event Event) {
	b.mu.Lock()
	b.messages = append(b.messages, event)
	if len(b.messages) > b.maxMessages {
		b.messages = b.messages[len(b.messages)-b.maxMessages:]
	}
	subs := make([]chan Event, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			logger.Warn("Mock NATS: skipping slow subscriber", "event_type", event.Type)
		}
	}
}

// Subscribe returns a channel receiving published events.
func (b *MockNATSBus) Subscribe() chan Event {
	ch := make(chan Event, 100)

	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *MockNATSBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			break
		}
	}
}

// SubscribeDurable mirrors the NATSBus durable consumer with a plain
// subscription draining into the handler.
func (b *MockNATSBus) SubscribeDurable(consumerName string, handler func(Event)) error {
	ch := b.Subscribe()
	go func() {
		for event := range ch {
			handler(event)
		}
		logger.Debug("Mock NATS: durable subscription closed", "consumer", consumerName)
	}()
	return nil
}

// Messages returns a copy of the stored message history.
func (b *MockNATSBus) Messages() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Event, len(b.messages))
	copy(out, b.messages)
	return out
}

// SubscriberCount returns the number of active subscribers.
func (b *MockNATSBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes all subscriber channels.
func (b *MockNATSBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
