package level

import "time"

// Config holds the static per-rung defaults shared read-only by every
// boundary at that rung. Instances are never mutated after process start.
type Config struct {
	// MaxRetries is how many manual retries a boundary allows before a
	// capture forces escalation.
	MaxRetries int

	// EscalationThreshold is how long a boundary sits in the failed state
	// before the auto-escalation timer fires.
	EscalationThreshold time.Duration

	// FrequencyWindow is the trailing window for the thrash detector.
	FrequencyWindow time.Duration

	// FrequencyCount is the number of failures within FrequencyWindow that
	// forces escalation regardless of remaining retries.
	FrequencyCount int

	// NotifyStyle selects how the notification sink presents failures at
	// this rung.
	NotifyStyle NotifyStyle

	// NotifyDuration is how long the user-facing message stays visible.
	NotifyDuration time.Duration

	// Fallback describes the level-appropriate fallback surface and the
	// recovery actions it offers.
	Fallback Fallback
}

// NotifyStyle is the presentation class for sink messages.
type NotifyStyle string

const (
	StyleInfo    NotifyStyle = "info"
	StyleWarning NotifyStyle = "warning"
	StyleError   NotifyStyle = "error"
)

// Fallback describes what replaces the wrapped subtree while a boundary is
// failed, and which recovery actions the host should offer.
type Fallback struct {
	// Title is the short heading shown on the fallback surface.
	Title string

	// Actions are the recovery actions available at this rung.
	Actions []Action
}

// Action is a recovery action offered on a fallback surface.
type Action string

const (
	ActionRetry    Action = "retry"
	ActionEscalate Action = "escalate"
	ActionRedirect Action = "redirect"
	ActionReload   Action = "reload"
)

// DefaultMaxRetries applies to every rung unless overridden.
const DefaultMaxRetries = 3

// DefaultFrequencyCount failures within the window force escalation.
const DefaultFrequencyCount = 3

// defaults holds the built-in per-rung configuration.
var defaults = map[Level]Config{
	Widget: {
		MaxRetries:          DefaultMaxRetries,
		EscalationThreshold: 5 * time.Second,
		FrequencyWindow:     5 * time.Second,
		FrequencyCount:      DefaultFrequencyCount,
		NotifyStyle:         StyleInfo,
		NotifyDuration:      3 * time.Second,
		Fallback: Fallback{
			Title:   "This widget hit a problem",
			Actions: []Action{ActionRetry, ActionEscalate},
		},
	},
	Section: {
		MaxRetries:          DefaultMaxRetries,
		EscalationThreshold: 8 * time.Second,
		FrequencyWindow:     8 * time.Second,
		FrequencyCount:      DefaultFrequencyCount,
		NotifyStyle:         StyleWarning,
		NotifyDuration:      4 * time.Second,
		Fallback: Fallback{
			Title:   "This section failed to load",
			Actions: []Action{ActionRetry, ActionEscalate, ActionReload},
		},
	},
	Page: {
		MaxRetries:          DefaultMaxRetries,
		EscalationThreshold: 15 * time.Second,
		FrequencyWindow:     8 * time.Second,
		FrequencyCount:      DefaultFrequencyCount,
		NotifyStyle:         StyleError,
		NotifyDuration:      6 * time.Second,
		Fallback: Fallback{
			Title:   "This page is unavailable",
			Actions: []Action{ActionRetry, ActionEscalate, ActionRedirect, ActionReload},
		},
	},
	App: {
		MaxRetries:          DefaultMaxRetries,
		EscalationThreshold: 30 * time.Second,
		FrequencyWindow:     15 * time.Second,
		FrequencyCount:      DefaultFrequencyCount,
		NotifyStyle:         StyleError,
		NotifyDuration:      10 * time.Second,
		Fallback: Fallback{
			// Top of the ladder: nowhere left to escalate.
			Title:   "Something went wrong",
			Actions: []Action{ActionRedirect, ActionReload},
		},
	},
}

// DefaultConfig returns the built-in configuration for l. Unknown levels get
// the app defaults, which only offer reload/redirect.
func DefaultConfig(l Level) Config {
	if cfg, ok := defaults[l]; ok {
		return cfg
	}
	return defaults[App]
}
