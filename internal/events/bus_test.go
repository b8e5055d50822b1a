package events

import (
	"strings"
	"testing"

	"github.com/rampartdev/rampart/internal/level"
)

func TestBus_PublishFanOutInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.Subscribe(TopicEscalate, func(e Event) { order = append(order, "first") })
	bus.Subscribe(TopicEscalate, func(e Event) { order = append(order, "second") })
	bus.Subscribe(TopicEscalate, func(e Event) { order = append(order, "third") })

	bus.Publish(New(TopicEscalate, "sidebar"))

	if len(order) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(order))
	}
	if order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("handlers ran out of subscription order: %v", order)
	}
}

func TestBus_PublishWithoutSubscribersIsNoOp(t *testing.T) {
	bus := NewBus()
	// Must not panic or block.
	bus.Publish(New(TopicCriticalError, "root"))
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	bus := NewBus()
	escalations := 0
	criticals := 0

	bus.Subscribe(TopicEscalate, func(e Event) { escalations++ })
	bus.Subscribe(TopicCriticalError, func(e Event) { criticals++ })

	bus.Publish(New(TopicEscalate, "sidebar"))
	bus.Publish(New(TopicEscalate, "sidebar"))
	bus.Publish(New(TopicCriticalError, "root"))

	if escalations != 2 {
		t.Errorf("expected 2 escalate deliveries, got %d", escalations)
	}
	if criticals != 1 {
		t.Errorf("expected 1 critical delivery, got %d", criticals)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	calls := 0

	unsubscribe := bus.Subscribe(TopicEscalate, func(e Event) { calls++ })

	bus.Publish(New(TopicEscalate, "sidebar"))
	unsubscribe()
	bus.Publish(New(TopicEscalate, "sidebar"))
	bus.Publish(New(TopicEscalate, "sidebar"))

	if calls != 1 {
		t.Errorf("expected exactly 1 delivery before unsubscribe, got %d", calls)
	}
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	survivor := 0

	first := bus.Subscribe(TopicEscalate, func(e Event) {})
	bus.Subscribe(TopicEscalate, func(e Event) { survivor++ })

	first()
	first() // second call must not remove the surviving handler

	bus.Publish(New(TopicEscalate, "sidebar"))

	if survivor != 1 {
		t.Errorf("surviving handler received %d events, want 1", survivor)
	}
	if bus.SubscriberCount(TopicEscalate) != 1 {
		t.Errorf("expected 1 remaining subscriber, got %d", bus.SubscriberCount(TopicEscalate))
	}
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()
	var later UnsubscribeFunc
	secondCalls := 0

	bus.Subscribe(TopicEscalate, func(e Event) { later() })
	later = bus.Subscribe(TopicEscalate, func(e Event) { secondCalls++ })

	// Dispatch iterates a snapshot: the in-flight publish still delivers
	// to the second handler, the next one does not.
	bus.Publish(New(TopicEscalate, "sidebar"))
	bus.Publish(New(TopicEscalate, "sidebar"))

	if secondCalls != 1 {
		t.Errorf("expected 1 delivery to handler unsubscribed mid-dispatch, got %d", secondCalls)
	}
}

func TestBus_SubscribeDuringDispatchTakesEffectNextPublish(t *testing.T) {
	bus := NewBus()
	lateCalls := 0

	bus.Subscribe(TopicEscalate, func(e Event) {
		if bus.SubscriberCount(TopicEscalate) == 1 {
			bus.Subscribe(TopicEscalate, func(e Event) { lateCalls++ })
		}
	})

	bus.Publish(New(TopicEscalate, "sidebar"))
	if lateCalls != 0 {
		t.Error("handler subscribed during dispatch must not see the in-flight event")
	}

	bus.Publish(New(TopicEscalate, "sidebar"))
	if lateCalls != 1 {
		t.Errorf("late handler should see the next publish, got %d calls", lateCalls)
	}
}

func TestBus_PublishStampsTime(t *testing.T) {
	bus := NewBus()
	var got Event

	bus.Subscribe(TopicEscalate, func(e Event) { got = e })
	bus.Publish(New(TopicEscalate, "sidebar"))

	if got.Time.IsZero() {
		t.Error("expected bus to stamp event time on publish")
	}
}

func TestEvent_String(t *testing.T) {
	e := New(TopicEscalate, "revenue-chart").
		WithLevel(level.Widget).
		WithError(errFake("render panic"))

	s := e.String()
	for _, want := range []string{"[escalate]", "revenue-chart", "level=widget", "render panic"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
