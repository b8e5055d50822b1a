package events

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LogConfig configures the logging handler.
type LogConfig struct {
	// Writer is where log lines are written (default: os.Stderr).
	Writer io.Writer

	// IncludePayload includes the event payload in log output.
	IncludePayload bool
}

// LogHandler returns a handler that logs events to the configured writer.
// Format: [topic] boundary level=rung error="..."
func LogHandler(cfg LogConfig) Handler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	return func(e Event) {
		var buf strings.Builder
		buf.WriteString(e.String())
		if cfg.IncludePayload && e.Payload != nil {
			fmt.Fprintf(&buf, " payload=%v", e.Payload)
		}
		buf.WriteString("\n")

		fmt.Fprint(cfg.Writer, buf.String())
	}
}

// LogAll subscribes the log handler to every boundary topic and returns a
// single disposer covering all of them.
func LogAll(bus *Bus, cfg LogConfig) UnsubscribeFunc {
	h := LogHandler(cfg)
	disposers := []UnsubscribeFunc{
		bus.Subscribe(TopicTransition, h),
		bus.Subscribe(TopicEscalate, h),
		bus.Subscribe(TopicCriticalError, h),
		bus.Subscribe(TopicNotified, h),
	}
	return func() {
		for _, d := range disposers {
			d()
		}
	}
}
