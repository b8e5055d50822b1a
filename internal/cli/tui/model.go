// Package tui renders a live view of a running escalation scenario: one
// line per boundary unit plus a trailing event feed, driven entirely by bus
// events bridged into bubbletea messages.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rampartdev/rampart/internal/boundary"
	"github.com/rampartdev/rampart/internal/level"
)

// BoundaryState tracks one unit's latest snapshot for display.
type BoundaryState struct {
	Name       string
	Level      level.Level
	Phase      boundary.Phase
	RetryCount int
	History    []level.Level
	LastError  string
}

// Model is the bubbletea model for the simulator TUI
type Model struct {
	// Configuration
	Scenario string
	Styles   Styles

	// State
	Boundaries  map[string]*BoundaryState
	EventLines  []string
	LogLimit    int
	StartTime   time.Time
	Escalations int
	Criticals   int

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model
func NewModel(scenario string) *Model {
	return &Model{
		Scenario:   scenario,
		Styles:     DefaultStyles(),
		Boundaries: make(map[string]*BoundaryState),
		StartTime:  time.Now(),
		LogLimit:   200,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the scenario finished and the TUI should exit
type DoneMsg struct{}

// BoundaryMsg carries a unit's fresh snapshot after a phase transition
type BoundaryMsg struct {
	Snapshot boundary.Snapshot
}

// EscalationMsg indicates a failure advanced one ladder position
type EscalationMsg struct {
	Boundary string
	Origin   level.Level
	Target   level.Level
	Message  string
}

// CriticalMsg indicates a boundary terminalized at the top of the ladder
type CriticalMsg struct {
	Boundary string
	Message  string
}

// NotifiedMsg indicates the notification sink was invoked
type NotifiedMsg struct {
	Boundary string
	Decision string
}
