// Package policy holds the pure decision logic for boundary units: given
// the current retry budget, pending timers, and recent failure frequency,
// it decides whether a capture allows a manual retry, arms an
// auto-escalation timer, or escalates immediately. It performs no side
// effects; boundaries apply the decisions.
package policy

import (
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

// DecisionKind is the action a boundary must take after a capture.
type DecisionKind string

const (
	// AllowManualRetry leaves the boundary in the failed state awaiting a
	// user retry. An auto-escalation timer is already pending; the
	// existing timer wins and is not re-armed.
	AllowManualRetry DecisionKind = "allow_manual_retry"

	// ScheduleAutoEscalation allows a manual retry and arms the
	// auto-escalation timer with Decision.Delay.
	ScheduleAutoEscalation DecisionKind = "schedule_auto_escalation"

	// Escalate hands the failure to the next ladder rung immediately.
	Escalate DecisionKind = "escalate"
)

// Reason explains why a decision was made.
type Reason string

const (
	ReasonRetryBudget      Reason = "retry_budget_available"
	ReasonRetriesExhausted Reason = "retries_exhausted"
	ReasonFailureFrequency Reason = "failure_frequency"
)

// Decision is the policy outcome for one captured failure.
type Decision struct {
	Kind   DecisionKind
	Reason Reason

	// Delay is the auto-escalation timer duration. Only set when Kind is
	// ScheduleAutoEscalation.
	Delay time.Duration
}

// CaptureState is the boundary-side input to DecideOnCapture. The new
// failure's timestamp must already be appended to RecentFailures.
type CaptureState struct {
	// RetryCount is how many manual retries the boundary has consumed.
	RetryCount int

	// TimerPending is true when an auto-escalation timer is already armed.
	TimerPending bool

	// RecentFailures are capture timestamps, oldest first, including the
	// failure being decided on.
	RecentFailures []time.Time

	// Now is the capture instant.
	Now time.Time
}

// DecideOnCapture maps a fresh capture to a decision.
//
// Frequency wins over the retry budget: enough failures inside the trailing
// window force escalation even with retries remaining, to stop thrashing.
// Otherwise a boundary with budget left allows a manual retry, arming the
// auto-escalation timer only if none is pending.
func DecideOnCapture(s CaptureState, cfg level.Config) Decision {
	if ShouldEscalateOnFrequency(s.RecentFailures, s.Now, cfg.FrequencyWindow, cfg.FrequencyCount) {
		return Decision{Kind: Escalate, Reason: ReasonFailureFrequency}
	}

	if s.RetryCount >= cfg.MaxRetries {
		return Decision{Kind: Escalate, Reason: ReasonRetriesExhausted}
	}

	if s.TimerPending {
		return Decision{Kind: AllowManualRetry, Reason: ReasonRetryBudget}
	}

	return Decision{
		Kind:   ScheduleAutoEscalation,
		Reason: ReasonRetryBudget,
		Delay:  cfg.EscalationThreshold,
	}
}

// ShouldEscalateOnFrequency reports whether the failures inside the trailing
// window meet the count threshold. This is a sliding window: entries are
// pruned by their own timestamps before counting, never by a single stale
// last-failure time.
func ShouldEscalateOnFrequency(recent []time.Time, now time.Time, window time.Duration, count int) bool {
	if window <= 0 || count <= 0 {
		return false
	}
	return len(PruneWindow(recent, now, window)) >= count
}

// PruneWindow returns the suffix of recent (oldest first) that falls inside
// the trailing window ending at now.
func PruneWindow(recent []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	for i, ts := range recent {
		if !ts.Before(cutoff) {
			return recent[i:]
		}
	}
	return nil
}
