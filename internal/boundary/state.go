package boundary

import (
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

// Phase is the boundary unit's lifecycle state.
type Phase string

const (
	// PhaseHealthy renders the wrapped subtree normally.
	PhaseHealthy Phase = "healthy"

	// PhaseFailed shows the fallback; a manual retry may still recover.
	PhaseFailed Phase = "failed"

	// PhaseEscalating means the failure was handed to the next rung; the
	// originating unit is inert from here on.
	PhaseEscalating Phase = "escalating"

	// PhaseTerminal is reached at the top of the ladder: no escalation
	// target exists, only reload/redirect remain.
	PhaseTerminal Phase = "terminal"
)

// ValidTransitions defines allowed phase transitions.
var ValidTransitions = map[Phase][]Phase{
	PhaseHealthy:    {PhaseFailed},
	PhaseFailed:     {PhaseHealthy, PhaseEscalating, PhaseTerminal},
	PhaseEscalating: {PhaseTerminal},
	PhaseTerminal:   {},
}

// IsInert returns true once the unit no longer runs its own recovery loop.
func (p Phase) IsInert() bool {
	return p == PhaseEscalating || p == PhaseTerminal
}

// CanTransition checks if a transition from -> to is valid.
func CanTransition(from, to Phase) bool {
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Snapshot is a copy of one unit's state, safe to hand to subscribers.
type Snapshot struct {
	Name          string
	Level         level.Level
	Phase         Phase
	RetryCount    int
	ActiveFailure *FailureRecord
	History       []level.Level
	LastFailure   time.Time
	TimerPending  bool
}

// EscalationEvent is the payload published on the escalate topic. Exactly
// one ladder-position advance per event.
type EscalationEvent struct {
	// Origin is the rung the failure escaped from.
	Origin level.Level

	// Target is the next rung up, which should adopt the failure.
	Target level.Level

	// Failure is the record that triggered the escalation.
	Failure FailureRecord

	// State is the originating unit's snapshot at escalation time.
	State Snapshot
}
