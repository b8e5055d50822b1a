package policy

import (
	"testing"
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sectionConfig() level.Config {
	return level.DefaultConfig(level.Section)
}

func TestDecideOnCapture_FirstFailureArmsTimer(t *testing.T) {
	cfg := sectionConfig()
	d := DecideOnCapture(CaptureState{
		RetryCount:     0,
		TimerPending:   false,
		RecentFailures: []time.Time{base},
		Now:            base,
	}, cfg)

	if d.Kind != ScheduleAutoEscalation {
		t.Fatalf("Kind = %s, want %s", d.Kind, ScheduleAutoEscalation)
	}
	if d.Delay != cfg.EscalationThreshold {
		t.Errorf("Delay = %v, want %v", d.Delay, cfg.EscalationThreshold)
	}
	if d.Reason != ReasonRetryBudget {
		t.Errorf("Reason = %s, want %s", d.Reason, ReasonRetryBudget)
	}
}

func TestDecideOnCapture_PendingTimerWins(t *testing.T) {
	// A failure arriving while the timer is armed must not re-arm it.
	d := DecideOnCapture(CaptureState{
		RetryCount:     1,
		TimerPending:   true,
		RecentFailures: []time.Time{base},
		Now:            base,
	}, sectionConfig())

	if d.Kind != AllowManualRetry {
		t.Fatalf("Kind = %s, want %s", d.Kind, AllowManualRetry)
	}
	if d.Delay != 0 {
		t.Errorf("Delay = %v, want 0 (existing timer wins)", d.Delay)
	}
}

func TestDecideOnCapture_RetriesExhausted(t *testing.T) {
	cfg := sectionConfig()
	d := DecideOnCapture(CaptureState{
		RetryCount:     cfg.MaxRetries,
		RecentFailures: []time.Time{base},
		Now:            base,
	}, cfg)

	if d.Kind != Escalate {
		t.Fatalf("Kind = %s, want %s", d.Kind, Escalate)
	}
	if d.Reason != ReasonRetriesExhausted {
		t.Errorf("Reason = %s, want %s", d.Reason, ReasonRetriesExhausted)
	}
}

func TestDecideOnCapture_NeverAllowsRetryPastBudget(t *testing.T) {
	cfg := sectionConfig()
	for retries := cfg.MaxRetries; retries < cfg.MaxRetries+3; retries++ {
		d := DecideOnCapture(CaptureState{
			RetryCount:     retries,
			RecentFailures: []time.Time{base},
			Now:            base,
		}, cfg)
		if d.Kind != Escalate {
			t.Errorf("retryCount=%d: Kind = %s, want %s", retries, d.Kind, Escalate)
		}
	}
}

func TestDecideOnCapture_FrequencyOverridesRetryBudget(t *testing.T) {
	// Three failures within 5s at page level (8s window): escalation is
	// forced even though the retry budget is not exhausted.
	cfg := level.DefaultConfig(level.Page)
	now := base.Add(5 * time.Second)
	d := DecideOnCapture(CaptureState{
		RetryCount:   1,
		TimerPending: true,
		RecentFailures: []time.Time{
			base,
			base.Add(2 * time.Second),
			now,
		},
		Now: now,
	}, cfg)

	if d.Kind != Escalate {
		t.Fatalf("Kind = %s, want %s", d.Kind, Escalate)
	}
	if d.Reason != ReasonFailureFrequency {
		t.Errorf("Reason = %s, want %s", d.Reason, ReasonFailureFrequency)
	}
}

func TestDecideOnCapture_OldFailuresPrunedBeforeCounting(t *testing.T) {
	cfg := sectionConfig() // 8s window, threshold 3
	now := base.Add(30 * time.Second)
	d := DecideOnCapture(CaptureState{
		RetryCount: 0,
		RecentFailures: []time.Time{
			base,                       // outside window
			base.Add(1 * time.Second),  // outside window
			now.Add(-2 * time.Second),  // inside
			now,                        // inside
		},
		Now: now,
	}, cfg)

	if d.Kind == Escalate {
		t.Error("failures outside the window must not count toward the frequency trigger")
	}
}

func TestShouldEscalateOnFrequency_ExactThreshold(t *testing.T) {
	now := base.Add(4 * time.Second)
	recent := []time.Time{base, base.Add(2 * time.Second), now}

	if !ShouldEscalateOnFrequency(recent, now, 8*time.Second, 3) {
		t.Error("meeting the count threshold exactly should trigger escalation")
	}
	if ShouldEscalateOnFrequency(recent[1:], now, 8*time.Second, 3) {
		t.Error("two failures in window should not trigger a threshold of 3")
	}
}

func TestShouldEscalateOnFrequency_DisabledWindow(t *testing.T) {
	recent := []time.Time{base, base, base}
	if ShouldEscalateOnFrequency(recent, base, 0, 3) {
		t.Error("zero window disables the frequency trigger")
	}
	if ShouldEscalateOnFrequency(recent, base, time.Second, 0) {
		t.Error("zero count disables the frequency trigger")
	}
}

func TestPruneWindow(t *testing.T) {
	now := base.Add(10 * time.Second)
	recent := []time.Time{
		base,                      // -10s
		base.Add(3 * time.Second), // -7s
		base.Add(9 * time.Second), // -1s
	}

	got := PruneWindow(recent, now, 8*time.Second)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries inside window, got %d", len(got))
	}
	if !got[0].Equal(base.Add(3 * time.Second)) {
		t.Errorf("unexpected oldest surviving entry: %v", got[0])
	}
}

func TestPruneWindow_AllOutside(t *testing.T) {
	now := base.Add(time.Hour)
	got := PruneWindow([]time.Time{base, base.Add(time.Second)}, now, time.Second)
	if len(got) != 0 {
		t.Errorf("expected empty window, got %d entries", len(got))
	}
}

func TestPruneWindow_BoundaryInclusive(t *testing.T) {
	now := base.Add(8 * time.Second)
	// Entry exactly at the cutoff stays inside the window.
	got := PruneWindow([]time.Time{base}, now, 8*time.Second)
	if len(got) != 1 {
		t.Error("entry exactly at window edge should be retained")
	}
}
