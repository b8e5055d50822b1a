package boundary

import (
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

// FailureRecord is one captured failure. Records live in a bounded
// in-memory buffer per unit and are discarded on reset or close; they are
// never persisted.
type FailureRecord struct {
	// Time is the capture instant.
	Time time.Time

	// Level is the rung of the capturing unit.
	Level level.Level

	// Boundary is the capturing unit's component name.
	Boundary string

	// Kind classifies the failure (opaque to the core).
	Kind string

	// Message is the failure description.
	Message string

	// Cause is the structured cause payload (stack-like trace or wrapped
	// error), carried opaquely and never parsed.
	Cause any
}

// maxBufferedFailures bounds the per-unit failure buffer. The frequency
// window only ever needs the most recent handful of captures.
const maxBufferedFailures = 32

// failureBuffer keeps the capture timestamps feeding the frequency window.
type failureBuffer struct {
	times []time.Time
}

// add appends a capture timestamp, dropping the oldest entry when full.
func (b *failureBuffer) add(t time.Time) {
	b.times = append(b.times, t)
	if len(b.times) > maxBufferedFailures {
		b.times = b.times[len(b.times)-maxBufferedFailures:]
	}
}

// reset discards all buffered captures.
func (b *failureBuffer) reset() {
	b.times = nil
}

// snapshot returns the buffered timestamps, oldest first.
func (b *failureBuffer) snapshot() []time.Time {
	out := make([]time.Time, len(b.times))
	copy(out, b.times)
	return out
}
