package pubsub

import (
	"sync"

	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
)

// Event types published on the bus.
const (
	EventPickMade          = "pick_made"
	EventPickUndone        = "pick_undone"
	EventMockPickMade      = "mock_pick_made"
	EventMockDraftComplete = "mock_draft_complete"
	EventScoresRecomputed  = "scores_recomputed"
	EventSessionCreated    = "session_created"
	EventSessionDeleted    = "session_deleted"
)

// Event is one message on the bus.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// SessionEvent builds an event scoped to one draft session.
func SessionEvent(eventType, sessionID string) Event {
	return Event{
		Type:    eventType,
		Payload: map[string]interface{}{"sessionId": sessionID},
	}
}

// PickEvent builds a pick event carrying the player and pick number.
func PickEvent(eventType, sessionID, playerID string, pickNumber int) Event {
	return Event{
		Type: eventType,
		Payload: map[string]interface{}{
			"sessionId":  sessionID,
			"playerId":   playerID,
			"pickNumber": pickNumber,
		},
	}
}

// Upstream is a broker the bus can bridge to, typically NATS. Events
// published while an upstream is set flow up to the broker and come back to
// every bridged instance, this one included.
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Bus fans events out to in-process subscribers.
type Bus struct {
	mu       sync.RWMutex
	subs     []chan Event
	upstream Upstream
}

// New creates a standalone bus with no upstream.
func New() *Bus {
	return &Bus{subs: []chan Event{}}
}

// NewWithUpstream creates a bus bridged to an upstream broker. Events from
// the upstream are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *Bus {
	b := &Bus{
		subs:     []chan Event{},
		upstream: upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		for event := range ch {
			b.deliver(event)
		}
		logger.Debug("pubsub: upstream channel closed")
	}()

	return b
}

// Subscribe registers a subscriber and returns its event channel.
func (b *Bus) Subscribe() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)
	b.subs = append(b.subs, ch)
	logger.Debug("pubsub: subscriber added", "total", len(b.subs))
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub == ch {
			close(ch)
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers. With an upstream set the event
// goes to the broker first, which broadcasts it back to every instance.
func (b *Bus) Publish(event Event) {
	if b.upstream != nil {
		b.upstream.Publish(event)
		return
	}
	b.deliver(event)
}

func (b *Bus) deliver(event Event) {
	b.mu.RLock()
	subs := make([]chan Event, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop rather than block the publisher.
		}
	}
}
