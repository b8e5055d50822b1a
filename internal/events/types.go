package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

// Topic names an event channel on the bus.
type Topic string

// Topics published by boundary units.
const (
	// TopicEscalate carries one ladder-position advance per event. The
	// payload is a boundary.EscalationEvent.
	TopicEscalate Topic = "escalate"

	// TopicCriticalError is published when a boundary reaches the top of
	// the ladder with no escalation target left.
	TopicCriticalError Topic = "critical-error"

	// TopicNotified is emitted after the notification sink was invoked;
	// used by the simulator and the TUI, never load-bearing.
	TopicNotified Topic = "notified"

	// TopicTransition is emitted on every boundary phase change.
	TopicTransition Topic = "transition"
)

// Event is one occurrence published on the bus. Events are ephemeral: they
// are handed to the subscribers registered at publish time and not stored.
type Event struct {
	// Time is when the event occurred (set by the bus on publish).
	Time time.Time `json:"time"`

	// Topic identifies what happened.
	Topic Topic `json:"topic"`

	// Boundary is the component name of the originating boundary unit
	// (empty for events without an origin).
	Boundary string `json:"boundary,omitempty"`

	// Level is the originating ladder rung, if any.
	Level level.Level `json:"level,omitempty"`

	// Payload carries topic-specific data (type varies by topic).
	Payload any `json:"payload,omitempty"`

	// Error holds the failure message for failure-related topics.
	Error string `json:"error,omitempty"`
}

// New creates an event for the given topic and originating boundary.
func New(topic Topic, boundary string) Event {
	return Event{Topic: topic, Boundary: boundary}
}

// WithLevel returns a copy of the event with the origin level set.
func (e Event) WithLevel(l level.Level) Event {
	e.Level = l
	return e
}

// WithPayload returns a copy of the event with the payload set.
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set.
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// String returns a human-readable representation of the event.
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Topic))

	if e.Boundary != "" {
		parts = append(parts, e.Boundary)
	}
	if e.Level != "" {
		parts = append(parts, fmt.Sprintf("level=%s", e.Level))
	}
	if e.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", e.Error))
	}

	return strings.Join(parts, " ")
}
