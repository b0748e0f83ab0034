package pubsub

import (
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()

	bus.Publish(Event{Type: EventPickMade, Payload: map[string]interface{}{"playerId": "p1"}})

	event := recvEvent(t, ch)
	if event.Type != EventPickMade {
		t.Errorf("event type = %q, want %q", event.Type, EventPickMade)
	}
	if event.Payload["playerId"] != "p1" {
		t.Errorf("payload = %+v", event.Payload)
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()

	bus.Publish(SessionEvent(EventSessionCreated, "s1"))

	for i, ch := range []chan Event{ch1, ch2} {
		event := recvEvent(t, ch)
		if event.Type != EventSessionCreated {
			t.Errorf("subscriber %d: type = %q", i+1, event.Type)
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	// Channel is closed; a publish after unsubscribe must not panic.
	bus.Publish(Event{Type: EventPickUndone})

	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBusDropsSlowSubscriber(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()

	// Fill the buffer and keep going; extra events are dropped, not blocked on.
	for i := 0; i < 50; i++ {
		bus.Publish(Event{Type: EventPickMade})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
		default:
			if drained == 0 || drained > 50 {
				t.Errorf("drained %d events", drained)
			}
			return
		}
	}
}

func TestBusWithUpstream(t *testing.T) {
	mock := NewMockNATSBus("draft.events")
	bus := NewWithUpstream(mock)
	ch := bus.Subscribe()

	bus.Publish(PickEvent(EventPickMade, "s1", "p1", 3))

	// The event routes through the upstream and back to the local subscriber.
	event := recvEvent(t, ch)
	if event.Type != EventPickMade {
		t.Errorf("event type = %q", event.Type)
	}
	if got := event.Payload["pickNumber"]; got != 3 {
		t.Errorf("pickNumber = %v, want 3", got)
	}

	msgs := mock.Messages()
	if len(msgs) != 1 {
		t.Fatalf("upstream stored %d messages, want 1", len(msgs))
	}
}

func TestMockNATSBusHistory(t *testing.T) {
	mock := NewMockNATSBus("draft.events")

	mock.Publish(Event{Type: EventPickMade})
	mock.Publish(Event{Type: EventPickUndone})
	mock.Publish(Event{Type: EventScoresRecomputed})

	msgs := mock.Messages()
	if len(msgs) != 3 {
		t.Fatalf("stored %d messages, want 3", len(msgs))
	}
	if msgs[1].Type != EventPickUndone {
		t.Errorf("messages[1].Type = %q", msgs[1].Type)
	}
}

func TestMockNATSBusHistoryBound(t *testing.T) {
	mock := NewMockNATSBus("draft.events")
	mock.maxMessages = 5

	for i := 0; i < 10; i++ {
		mock.Publish(Event{Type: EventPickMade})
	}

	if got := len(mock.Messages()); got != 5 {
		t.Errorf("stored %d messages, want 5", got)
	}
}

func TestMockNATSBusDurable(t *testing.T) {
	mock := NewMockNATSBus("draft.events")

	got := make(chan Event, 1)
	if err := mock.SubscribeDurable("worker-1", func(e Event) { got <- e }); err != nil {
		t.Fatalf("SubscribeDurable: %v", err)
	}

	mock.Publish(SessionEvent(EventSessionDeleted, "s9"))

	event := recvEvent(t, got)
	if event.Type != EventSessionDeleted || event.Payload["sessionId"] != "s9" {
		t.Errorf("handler received %+v", event)
	}
}

func TestEventConstructors(t *testing.T) {
	session := SessionEvent(EventSessionCreated, "abc")
	if session.Payload["sessionId"] != "abc" {
		t.Errorf("SessionEvent payload = %+v", session.Payload)
	}

	pick := PickEvent(EventMockPickMade, "abc", "player_1", 7)
	if pick.Payload["playerId"] != "player_1" || pick.Payload["pickNumber"] != 7 {
		t.Errorf("PickEvent payload = %+v", pick.Payload)
	}
}
