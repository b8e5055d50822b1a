package notify

import (
	"context"
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

// Notification is one user-visible message about a boundary failure.
type Notification struct {
	Level    level.Level       // Originating ladder rung
	Style    level.NotifyStyle // Presentation class (info/warning/error)
	Boundary string            // Which boundary is affected
	Title    string            // Short summary (one line)
	Message  string            // Detailed explanation
	Duration time.Duration     // How long the message stays visible
	Context  map[string]string // Additional context (failure kind, retry count, etc.)
}

// Notifier is the interface for surfacing messages to the user. The
// escalation core only calls this interface; rendering belongs to the host.
type Notifier interface {
	// Notify surfaces the notification. Returns nil on success.
	// Implementations should respect context cancellation.
	Notify(ctx context.Context, n Notification) error

	// Name returns the sink type for logging.
	Name() string
}

// ForLevel builds a notification styled per the rung's configuration.
func ForLevel(l level.Level, cfg level.Config, boundary, title, message string) Notification {
	return Notification{
		Level:    l,
		Style:    cfg.NotifyStyle,
		Boundary: boundary,
		Title:    title,
		Message:  message,
		Duration: cfg.NotifyDuration,
	}
}
