package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rampartdev/rampart/internal/boundary"
	"github.com/rampartdev/rampart/internal/events"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Subscribe attaches the bridge to every boundary topic on bus and returns
// a single disposer covering all of them.
func (b *Bridge) Subscribe(bus *events.Bus) events.UnsubscribeFunc {
	h := b.Handler()
	disposers := []events.UnsubscribeFunc{
		bus.Subscribe(events.TopicTransition, h),
		bus.Subscribe(events.TopicEscalate, h),
		bus.Subscribe(events.TopicCriticalError, h),
		bus.Subscribe(events.TopicNotified, h),
	}
	return func() {
		for _, d := range disposers {
			d()
		}
	}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	switch evt.Topic {
	case events.TopicTransition:
		snap, ok := evt.Payload.(boundary.Snapshot)
		if !ok {
			return nil
		}
		return BoundaryMsg{Snapshot: snap}

	case events.TopicEscalate:
		ev, ok := evt.Payload.(boundary.EscalationEvent)
		if !ok {
			return nil
		}
		return EscalationMsg{
			Boundary: evt.Boundary,
			Origin:   ev.Origin,
			Target:   ev.Target,
			Message:  ev.Failure.Message,
		}

	case events.TopicCriticalError:
		return CriticalMsg{
			Boundary: evt.Boundary,
			Message:  evt.Error,
		}

	case events.TopicNotified:
		decision, _ := evt.Payload.(string)
		return NotifiedMsg{
			Boundary: evt.Boundary,
			Decision: decision,
		}

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}
