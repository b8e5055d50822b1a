package level

import "fmt"

// Level is a rung on the escalation ladder. Boundaries at a lower rung hand
// unresolved failures to the next rung up.
type Level string

const (
	Widget  Level = "widget"
	Section Level = "section"
	Page    Level = "page"
	App     Level = "app"
)

// Ladder is the fixed escalation order, lowest rung first.
var Ladder = []Level{Widget, Section, Page, App}

// ranks maps each level to its position in the ladder.
var ranks = map[Level]int{
	Widget:  0,
	Section: 1,
	Page:    2,
	App:     3,
}

// Rank returns the ladder position of l (widget=0 .. app=3), or -1 for an
// unknown level.
func (l Level) Rank() int {
	r, ok := ranks[l]
	if !ok {
		return -1
	}
	return r
}

// Valid reports whether l is a known ladder rung.
func (l Level) Valid() bool {
	_, ok := ranks[l]
	return ok
}

// IsTop reports whether l is the top of the ladder (no escalation target).
func (l Level) IsTop() bool {
	return l == App
}

// ErrTopOfLadder is returned by Next when there is no higher rung.
// Escalating past the top is an error condition, never a silent drop.
var ErrTopOfLadder = fmt.Errorf("already at top of ladder (%s)", App)

// Next returns the next-higher rung. At the top of the ladder it returns
// ErrTopOfLadder; for an unknown level it returns a descriptive error.
func Next(l Level) (Level, error) {
	r, ok := ranks[l]
	if !ok {
		return "", fmt.Errorf("unknown level: %q", l)
	}
	if r == len(Ladder)-1 {
		return "", ErrTopOfLadder
	}
	return Ladder[r+1], nil
}

func (l Level) String() string {
	return string(l)
}
