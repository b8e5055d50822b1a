package boundary

import "time"

// escalationTimer is the explicit cancellable handle for the deferred
// auto-escalation callback. It must be cancelled on every transition out of
// the failed state (retry, escalate, redirect, reload, close) so it can
// never fire against stale state.
//
// Cancellation uses a generation counter rather than relying on
// time.Timer.Stop alone: a callback that already started still observes a
// stale generation and becomes a no-op.
type escalationTimer struct {
	timer *time.Timer
	gen   uint64
}

// arm schedules fn after delay and returns the generation it belongs to.
// Arming while a timer is pending is a bug in the caller; the policy layer
// guarantees the existing timer wins.
func (t *escalationTimer) arm(delay time.Duration, fn func(gen uint64)) uint64 {
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(delay, func() { fn(gen) })
	return gen
}

// cancel stops any pending timer and invalidates in-flight callbacks.
func (t *escalationTimer) cancel() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// pending reports whether a timer is currently armed.
func (t *escalationTimer) pending() bool {
	return t.timer != nil
}

// current reports whether gen is still the live generation.
func (t *escalationTimer) current(gen uint64) bool {
	return t.timer != nil && t.gen == gen
}
