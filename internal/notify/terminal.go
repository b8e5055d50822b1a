package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rampartdev/rampart/internal/level"
)

// terminalStyles maps presentation classes to lipgloss styles.
type terminalStyles struct {
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style
	Detail  lipgloss.Style
}

func defaultTerminalStyles() terminalStyles {
	return terminalStyles{
		Info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// Terminal writes notifications to a writer with style-coded headers.
type Terminal struct {
	mu     sync.Mutex // Serializes concurrent writes
	out    io.Writer
	styles terminalStyles
}

// NewTerminal creates a terminal sink writing to stderr.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stderr, styles: defaultTerminalStyles()}
}

// NewTerminalWithWriter creates a terminal sink writing to out.
func NewTerminalWithWriter(out io.Writer) *Terminal {
	return &Terminal{out: out, styles: defaultTerminalStyles()}
}

// Notify writes the notification to the configured writer.
func (t *Terminal) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	header := t.styles.Info
	switch n.Style {
	case level.StyleWarning:
		header = t.styles.Warning
	case level.StyleError:
		header = t.styles.Error
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\n%s %s\n",
		header.Render(fmt.Sprintf("[%s/%s]", n.Style, n.Level)),
		n.Title)
	if n.Boundary != "" {
		fmt.Fprintf(t.out, "   %s %s\n", t.styles.Label.Render("boundary:"), n.Boundary)
	}
	if n.Message != "" {
		fmt.Fprintf(t.out, "   %s\n", t.styles.Detail.Render(n.Message))
	}
	for k, v := range n.Context {
		fmt.Fprintf(t.out, "   %s %s\n", t.styles.Label.Render(k+":"), v)
	}

	return nil
}

// Name returns "terminal".
func (t *Terminal) Name() string {
	return "terminal"
}
