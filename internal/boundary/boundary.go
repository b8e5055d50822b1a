// Package boundary implements the failure-containing unit at the heart of
// the escalation core. A Unit wraps one subtree of the hosting UI, captures
// failures raised inside it, and applies the escalation policy: allow a
// manual retry, arm an auto-escalation timer, or hand the failure to the
// next ladder rung via the event bus.
package boundary

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rampartdev/rampart/internal/events"
	"github.com/rampartdev/rampart/internal/level"
	"github.com/rampartdev/rampart/internal/nav"
	"github.com/rampartdev/rampart/internal/notify"
	"github.com/rampartdev/rampart/internal/policy"
)

// Sentinel errors for non-eligible operations. These are reported, never
// panicked: a misused boundary degrades, it does not crash the subtree it
// is supposed to protect.
var (
	ErrClosed   = errors.New("boundary: unit closed")
	ErrInert    = errors.New("boundary: unit already escalated")
	ErrTerminal = errors.New("boundary: unit terminal, only reload or redirect remain")
)

// DefaultRedirectPath is where Redirect goes when no path is configured.
const DefaultRedirectPath = "/"

// Failure is the inbound description of a subtree failure.
type Failure struct {
	// Kind classifies the failure (render, fetch, panic, ...). Opaque.
	Kind string

	// Message is the human-readable description.
	Message string

	// Cause is the structured cause payload (stack-like trace or wrapped
	// error), carried opaquely.
	Cause any
}

// Options configures one boundary unit.
type Options struct {
	// Level is the unit's ladder rung. Required.
	Level level.Level

	// Name is the opaque component identifier used in diagnostics. Required.
	Name string

	// Bus receives escalation and transition events. The bus is injected,
	// never looked up ambiently, so tests get a fresh instance each.
	Bus *events.Bus

	// Notifier surfaces user-visible messages. Calls are wrapped in
	// best-effort semantics; a broken sink never masks the failure state.
	Notifier notify.Notifier

	// Navigator provides the redirect/reload escape hatches.
	Navigator nav.Navigator

	// Config replaces the built-in level defaults as the base configuration
	// (a config file's effective per-rung policy). The override fields below
	// still apply on top.
	Config *level.Config

	// MaxRetries overrides the level default when > 0.
	MaxRetries int

	// EscalationThreshold overrides the level default when > 0.
	EscalationThreshold time.Duration

	// FrequencyWindow overrides the level default when > 0.
	FrequencyWindow time.Duration

	// FrequencyCount overrides the level default when > 0.
	FrequencyCount int

	// RedirectPath is the safe default route (default "/").
	RedirectPath string

	// AdoptEscalations subscribes the unit to the escalate topic so it
	// picks up failures handed to its rung by lower boundaries.
	AdoptEscalations bool

	// Clock is a test seam; defaults to time.Now.
	Clock func() time.Time
}

// Unit is one boundary instance. All operations are serialized by an
// internal mutex; within a unit no two captures ever interleave.
type Unit struct {
	mu sync.Mutex

	name         string
	lvl          level.Level
	cfg          level.Config
	redirectPath string

	bus       *events.Bus
	sink      *notify.BestEffort
	navigator nav.Navigator
	clock     func() time.Time

	phase       Phase
	active      *FailureRecord
	retryCount  int
	history     []level.Level
	lastFailure time.Time
	buffer      failureBuffer
	timer       escalationTimer

	unsubscribe events.UnsubscribeFunc
	closed      bool
}

// New creates a healthy boundary unit. Close must be called on teardown so
// the timer and bus subscription are released on every exit path.
func New(opts Options) (*Unit, error) {
	if !opts.Level.Valid() {
		return nil, fmt.Errorf("boundary: invalid level %q", opts.Level)
	}
	if opts.Name == "" {
		return nil, errors.New("boundary: name must not be empty")
	}

	cfg := level.DefaultConfig(opts.Level)
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if opts.MaxRetries > 0 {
		cfg.MaxRetries = opts.MaxRetries
	}
	if opts.EscalationThreshold > 0 {
		cfg.EscalationThreshold = opts.EscalationThreshold
	}
	if opts.FrequencyWindow > 0 {
		cfg.FrequencyWindow = opts.FrequencyWindow
	}
	if opts.FrequencyCount > 0 {
		cfg.FrequencyCount = opts.FrequencyCount
	}

	redirectPath := opts.RedirectPath
	if redirectPath == "" {
		redirectPath = DefaultRedirectPath
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	u := &Unit{
		name:         opts.Name,
		lvl:          opts.Level,
		cfg:          cfg,
		redirectPath: redirectPath,
		bus:          opts.Bus,
		sink:         notify.NewBestEffort(opts.Notifier),
		navigator:    opts.Navigator,
		clock:        clock,
		phase:        PhaseHealthy,
	}

	if opts.AdoptEscalations && opts.Bus != nil {
		u.unsubscribe = opts.Bus.Subscribe(events.TopicEscalate, u.onEscalationEvent)
	}

	return u, nil
}

// Capture records a failure raised inside the wrapped subtree, runs the
// escalation policy, applies the resulting transition, and surfaces a
// level-appropriate notification. It may arm the auto-escalation timer.
//
// The capture path is exception-safe: a panicking bus subscriber is
// converted into an error return, and sink failures are swallowed, so
// repeated failures can never crash the unit itself.
func (u *Unit) Capture(f Failure) (d policy.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("boundary: capture side effect panicked: %v", r)
		}
	}()

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return policy.Decision{}, ErrClosed
	}
	if u.phase == PhaseTerminal {
		// Terminal units keep recording what happened but have no policy
		// left to run; only reload/redirect remain.
		u.recordLocked(f)
		return policy.Decision{}, ErrTerminal
	}
	if u.phase == PhaseEscalating {
		return policy.Decision{}, ErrInert
	}

	rec := u.recordLocked(f)

	if u.phase == PhaseHealthy {
		u.transitionLocked(PhaseFailed)
	}

	d = policy.DecideOnCapture(policy.CaptureState{
		RetryCount:     u.retryCount,
		TimerPending:   u.timer.pending(),
		RecentFailures: u.buffer.snapshot(),
		Now:            rec.Time,
	}, u.cfg)

	switch d.Kind {
	case policy.ScheduleAutoEscalation:
		u.armTimerLocked(d.Delay)
	case policy.Escalate:
		if escErr := u.escalateLocked(string(d.Reason)); escErr != nil {
			err = escErr
		}
	case policy.AllowManualRetry:
		// Existing timer wins; nothing to arm.
	}

	u.notifyLocked(rec, d)
	return d, err
}

// Retry resets the unit after a failure, re-attempting the wrapped subtree.
// It is valid only in the failed state with retry budget remaining. Retry
// with the budget exhausted does not error out: it degrades to forcing
// escalation. A successful retry clears the active failure and the
// frequency buffer but preserves escalation history.
func (u *Unit) Retry() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrClosed
	}

	switch u.phase {
	case PhaseHealthy:
		return nil // nothing to retry
	case PhaseEscalating:
		return ErrInert
	case PhaseTerminal:
		return ErrTerminal
	}

	if u.retryCount >= u.cfg.MaxRetries {
		return u.escalateLocked("retry_budget_exhausted")
	}

	u.timer.cancel()
	u.active = nil
	u.retryCount++
	u.buffer.reset()
	u.transitionLocked(PhaseHealthy)
	return nil
}

// Escalate hands the active failure to the next ladder rung. At the top of
// the ladder the unit becomes terminal instead. Escalating an already
// terminal or escalated unit is a reported no-op.
func (u *Unit) Escalate() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrClosed
	}
	if u.phase == PhaseHealthy {
		// Programmatically forced escalation without a capture.
		u.recordLocked(Failure{Kind: "forced", Message: "escalation forced without active failure"})
		u.transitionLocked(PhaseFailed)
	}
	return u.escalateLocked("manual")
}

// Redirect leaves the current view for path (or the configured safe route
// when path is empty). Available from any failed state as an escape hatch;
// the pending timer is cancelled so it cannot fire against a view the user
// already left.
func (u *Unit) Redirect(path string) error {
	u.mu.Lock()
	if path == "" {
		path = u.redirectPath
	}
	u.timer.cancel()
	navigator := u.navigator
	u.mu.Unlock()

	if navigator == nil {
		return errors.New("boundary: no navigator configured")
	}
	return navigator.Redirect(path)
}

// Reload re-enters the current view from scratch. Like Redirect, it cancels
// the pending timer on the way out.
func (u *Unit) Reload() error {
	u.mu.Lock()
	u.timer.cancel()
	navigator := u.navigator
	u.mu.Unlock()

	if navigator == nil {
		return errors.New("boundary: no navigator configured")
	}
	return navigator.Reload()
}

// Close releases the unit's resources: the auto-escalation timer and the
// bus subscription. Must be called on unmount, on every exit path.
func (u *Unit) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil
	}
	u.closed = true
	u.timer.cancel()
	if u.unsubscribe != nil {
		u.unsubscribe()
		u.unsubscribe = nil
	}
	u.active = nil
	u.buffer.reset()
	return nil
}

// Snapshot returns a copy of the unit's current state.
func (u *Unit) Snapshot() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.snapshotLocked()
}

// Level returns the unit's ladder rung.
func (u *Unit) Level() level.Level {
	return u.lvl
}

// Name returns the unit's component identifier.
func (u *Unit) Name() string {
	return u.name
}

// recordLocked creates the failure record and installs it as the single
// active failure; a new failure replaces the previous one, it never creates
// a second concurrent active state.
func (u *Unit) recordLocked(f Failure) FailureRecord {
	now := u.clock()
	rec := FailureRecord{
		Time:     now,
		Level:    u.lvl,
		Boundary: u.name,
		Kind:     f.Kind,
		Message:  f.Message,
		Cause:    f.Cause,
	}
	u.active = &rec
	u.lastFailure = now
	u.buffer.add(now)
	return rec
}

// armTimerLocked schedules the auto-escalation callback. When the timer
// fires it re-checks generation and phase under the lock, so a retry or
// close that happened in between turns the callback into a no-op.
func (u *Unit) armTimerLocked(delay time.Duration) {
	u.timer.arm(delay, func(gen uint64) {
		u.mu.Lock()
		defer u.mu.Unlock()
		if u.closed || !u.timer.current(gen) || u.phase != PhaseFailed {
			return
		}
		u.timer.cancel()
		_ = u.escalateLocked("auto_escalation_timer")
	})
}

// escalateLocked advances the failure one ladder position, or terminalizes
// at the top. Exactly one advance per call.
func (u *Unit) escalateLocked(trigger string) error {
	switch u.phase {
	case PhaseTerminal:
		return ErrTerminal
	case PhaseEscalating:
		return ErrInert
	}

	u.timer.cancel()

	if u.lvl.IsTop() {
		u.transitionLocked(PhaseTerminal)
		u.publishLocked(events.New(events.TopicCriticalError, u.name).
			WithLevel(u.lvl).
			WithPayload(u.snapshotLocked()).
			WithError(errors.New(u.activeMessageLocked())))
		return nil
	}

	next, err := level.Next(u.lvl)
	if err != nil {
		return err
	}

	failure := FailureRecord{}
	if u.active != nil {
		failure = *u.active
	}

	u.history = append(u.history, u.lvl)
	u.transitionLocked(PhaseEscalating)

	u.publishLocked(events.New(events.TopicEscalate, u.name).
		WithLevel(u.lvl).
		WithPayload(EscalationEvent{
			Origin:  u.lvl,
			Target:  next,
			Failure: failure,
			State:   u.snapshotLocked(),
		}).
		WithError(fmt.Errorf("%s: %s", trigger, u.activeMessageLocked())))

	return nil
}

// onEscalationEvent adopts failures handed to this unit's rung.
func (u *Unit) onEscalationEvent(e events.Event) {
	ev, ok := e.Payload.(EscalationEvent)
	if !ok || ev.Target != u.lvl {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed || u.phase.IsInert() {
		return
	}

	// Carry the ladder rungs the failure already escalated through; origin
	// rank is always below ours, so history stays monotonic.
	u.history = append(u.history, ev.Origin)

	rec := u.recordLocked(Failure{
		Kind:    ev.Failure.Kind,
		Message: ev.Failure.Message,
		Cause:   ev.Failure.Cause,
	})

	if u.phase == PhaseHealthy {
		u.transitionLocked(PhaseFailed)
	}

	d := policy.DecideOnCapture(policy.CaptureState{
		RetryCount:     u.retryCount,
		TimerPending:   u.timer.pending(),
		RecentFailures: u.buffer.snapshot(),
		Now:            rec.Time,
	}, u.cfg)

	switch d.Kind {
	case policy.ScheduleAutoEscalation:
		u.armTimerLocked(d.Delay)
	case policy.Escalate:
		_ = u.escalateLocked(string(d.Reason))
	}

	u.notifyLocked(rec, d)
}

// transitionLocked applies a phase change and publishes it. Invalid
// transitions indicate a bug and are dropped rather than applied.
func (u *Unit) transitionLocked(to Phase) {
	if !CanTransition(u.phase, to) {
		return
	}
	u.phase = to
	u.publishLocked(events.New(events.TopicTransition, u.name).
		WithLevel(u.lvl).
		WithPayload(u.snapshotLocked()))
}

// notifyLocked surfaces a level-appropriate message. Fire and forget: the
// best-effort wrapper guarantees a broken sink cannot reach us.
func (u *Unit) notifyLocked(rec FailureRecord, d policy.Decision) {
	n := notify.ForLevel(u.lvl, u.cfg, u.name, u.cfg.Fallback.Title, rec.Message)
	n.Context = map[string]string{
		"kind":        rec.Kind,
		"retry_count": strconv.Itoa(u.retryCount),
		"decision":    string(d.Kind),
	}
	_ = u.sink.Notify(context.Background(), n)
	u.publishLocked(events.New(events.TopicNotified, u.name).
		WithLevel(u.lvl).
		WithPayload(string(d.Kind)))
}

func (u *Unit) publishLocked(e events.Event) {
	if u.bus == nil {
		return
	}
	u.bus.Publish(e)
}

func (u *Unit) activeMessageLocked() string {
	if u.active == nil {
		return "no active failure"
	}
	return u.active.Message
}

func (u *Unit) snapshotLocked() Snapshot {
	var active *FailureRecord
	if u.active != nil {
		rec := *u.active
		active = &rec
	}
	history := make([]level.Level, len(u.history))
	copy(history, u.history)

	return Snapshot{
		Name:          u.name,
		Level:         u.lvl,
		Phase:         u.phase,
		RetryCount:    u.retryCount,
		ActiveFailure: active,
		History:       history,
		LastFailure:   u.lastFailure,
		TimerPending:  u.timer.pending(),
	}
}
