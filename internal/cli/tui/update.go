package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case BoundaryMsg:
		snap := msg.Snapshot
		state, ok := m.Boundaries[snap.Name]
		if !ok {
			state = &BoundaryState{Name: snap.Name, Level: snap.Level}
			m.Boundaries[snap.Name] = state
		}
		state.Phase = snap.Phase
		state.RetryCount = snap.RetryCount
		state.History = snap.History
		if snap.ActiveFailure != nil {
			state.LastError = snap.ActiveFailure.Message
		}

	case EscalationMsg:
		m.Escalations++
		m.appendLine(fmt.Sprintf("%s escalated %s -> %s: %s",
			msg.Boundary, msg.Origin, msg.Target, msg.Message))

	case CriticalMsg:
		m.Criticals++
		m.appendLine(fmt.Sprintf("%s hit the top of the ladder: %s",
			msg.Boundary, msg.Message))

	case NotifiedMsg:
		m.appendLine(fmt.Sprintf("%s notified user (%s)", msg.Boundary, msg.Decision))
	}

	return m, nil
}

func (m *Model) appendLine(line string) {
	m.EventLines = append(m.EventLines, line)
	if len(m.EventLines) > m.LogLimit {
		m.EventLines = m.EventLines[len(m.EventLines)-m.LogLimit:]
	}
}
