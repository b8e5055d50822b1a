package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rampartdev/rampart/internal/boundary"
)

// tailLines is how many event feed lines the view shows.
const tailLines = 8

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderBoundaries())

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	b.WriteString(m.renderEventFeed())

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with scenario name and timer
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))

	return fmt.Sprintf("%s  %s  %s",
		m.Styles.Title.Render("Rampart Simulator"),
		m.Styles.Scenario.Render(m.Scenario),
		m.Styles.Timer.Render(timer),
	)
}

// renderBoundaries renders one line per unit, lowest rung first
func (m *Model) renderBoundaries() string {
	if len(m.Boundaries) == 0 {
		return "  Waiting for boundary activity...\n\n"
	}

	names := make([]string, 0, len(m.Boundaries))
	for name := range m.Boundaries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := m.Boundaries[names[i]], m.Boundaries[names[j]]
		if a.Level.Rank() != b.Level.Rank() {
			return a.Level.Rank() < b.Level.Rank()
		}
		return a.Name < b.Name
	})

	var b strings.Builder
	for _, name := range names {
		b.WriteString(m.renderBoundary(m.Boundaries[name]))
	}
	b.WriteString("\n")
	return b.String()
}

// renderBoundary renders a single unit line:
//
//	● sidebar [section] failed retries=1 via widget
func (m *Model) renderBoundary(state *BoundaryState) string {
	icon := m.phaseIcon(state.Phase)
	name := m.Styles.BoundaryName.Render(state.Name)
	rung := m.Styles.Rung.Render(fmt.Sprintf("[%s]", state.Level))
	phase := m.phaseStyle(state.Phase).Render(string(state.Phase))

	line := fmt.Sprintf("  %s %s %s %s retries=%d", icon, name, rung, phase, state.RetryCount)

	if len(state.History) > 0 {
		parts := make([]string, len(state.History))
		for i, l := range state.History {
			parts[i] = string(l)
		}
		line += m.Styles.History.Render(" via " + strings.Join(parts, " > "))
	}
	if state.LastError != "" && state.Phase != boundary.PhaseHealthy {
		line += "\n      " + m.Styles.ErrorText.Render(state.LastError)
	}
	return line + "\n"
}

func (m *Model) phaseIcon(p boundary.Phase) string {
	switch p {
	case boundary.PhaseHealthy:
		return m.Styles.PhaseHealthy.Render(IconHealthy)
	case boundary.PhaseFailed:
		return m.Styles.PhaseFailed.Render(IconFailed)
	case boundary.PhaseEscalating:
		return m.Styles.PhaseEscalating.Render(IconEscalating)
	default:
		return m.Styles.PhaseTerminal.Render(IconTerminal)
	}
}

func (m *Model) phaseStyle(p boundary.Phase) interface{ Render(...string) string } {
	switch p {
	case boundary.PhaseHealthy:
		return m.Styles.PhaseHealthy
	case boundary.PhaseFailed:
		return m.Styles.PhaseFailed
	case boundary.PhaseEscalating:
		return m.Styles.PhaseEscalating
	default:
		return m.Styles.PhaseTerminal
	}
}

// renderStatusLine renders the summary counts
func (m *Model) renderStatusLine() string {
	escalations := m.Styles.StatusEscalations.Render(fmt.Sprintf("%d escalations", m.Escalations))
	criticals := m.Styles.StatusCriticals.Render(fmt.Sprintf("%d critical", m.Criticals))
	return fmt.Sprintf("  %s | %s", escalations, criticals)
}

// renderEventFeed renders the trailing event lines
func (m *Model) renderEventFeed() string {
	if len(m.EventLines) == 0 {
		return ""
	}

	start := len(m.EventLines) - tailLines
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	b.WriteString(m.Styles.FeedTitle.Render("  events"))
	b.WriteString("\n")
	for _, line := range m.EventLines[start:] {
		b.WriteString(m.Styles.FeedLine.Render("    " + line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	mm := d / time.Minute
	d -= mm * time.Minute
	ss := d / time.Second
	return fmt.Sprintf("%02d:%02d", mm, ss)
}
