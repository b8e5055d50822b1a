package sim

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rampartdev/rampart/internal/boundary"
	"github.com/rampartdev/rampart/internal/config"
	"github.com/rampartdev/rampart/internal/events"
	"github.com/rampartdev/rampart/internal/level"
	"github.com/rampartdev/rampart/internal/nav"
	"github.com/rampartdev/rampart/internal/notify"
)

// StepResult records the outcome of one executed step. Boundary misuse
// (retrying an escalated unit, escalating a terminal one) is recorded here,
// never fatal to the run.
type StepResult struct {
	Index    int
	Action   Action
	Boundary string

	// Decision is the policy decision kind for fail steps.
	Decision string

	// Err holds the reported no-op or failure, empty on success.
	Err string
}

// Result is the full transcript of one scenario run.
type Result struct {
	Scenario  string
	Steps     []StepResult
	Events    []events.Event
	Snapshots map[string]boundary.Snapshot
	Redirects []string
	Reloads   int
}

// RunnerOptions configures a scenario run.
type RunnerOptions struct {
	// Out receives human-readable progress (default: os.Stderr).
	Out io.Writer

	// Notifier overrides the sink built from cfg (tests mostly).
	Notifier notify.Notifier

	// Verbose echoes every bus event to Out as it happens.
	Verbose bool
}

// Runner executes one scenario against freshly wired units.
type Runner struct {
	scenario *Scenario
	cfg      *config.Config
	opts     RunnerOptions

	bus      *events.Bus
	recorder *nav.Recorder
	units    map[string]*boundary.Unit

	mu        sync.Mutex
	collected []events.Event
}

// NewRunner wires a bus, a recording navigator, and one unit per boundary
// spec. Config-file level overrides apply first, then per-spec overrides.
func NewRunner(sc *Scenario, cfg *config.Config, opts RunnerOptions) (*Runner, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	notifier := opts.Notifier
	if notifier == nil {
		built, err := notify.FromConfig(notify.Config{
			Backends:   cfg.Notify.Backends,
			WebhookURL: cfg.Notify.WebhookURL,
		})
		if err != nil {
			return nil, err
		}
		notifier = built
	}

	r := &Runner{
		scenario: sc,
		cfg:      cfg,
		opts:     opts,
		bus:      events.NewBus(),
		recorder: nav.NewRecorder(),
		units:    make(map[string]*boundary.Unit, len(sc.Boundaries)),
	}

	for _, spec := range sc.Boundaries {
		u, err := r.buildUnit(spec, notifier)
		if err != nil {
			r.closeUnits()
			return nil, err
		}
		r.units[spec.Name] = u
	}

	return r, nil
}

func (r *Runner) buildUnit(spec BoundarySpec, notifier notify.Notifier) (*boundary.Unit, error) {
	rung := level.Level(spec.Level)
	eff := r.cfg.LevelConfig(rung)

	unitOpts := boundary.Options{
		Level:            rung,
		Name:             spec.Name,
		Bus:              r.bus,
		Notifier:         notifier,
		Navigator:        r.recorder,
		Config:           &eff,
		RedirectPath:     r.cfg.RedirectPath,
		AdoptEscalations: r.cfg.Adopt(),
	}

	if spec.MaxRetries > 0 {
		unitOpts.MaxRetries = spec.MaxRetries
	}
	if spec.EscalationThreshold != "" {
		d, err := time.ParseDuration(spec.EscalationThreshold)
		if err != nil {
			return nil, fmt.Errorf("boundary %s: %w", spec.Name, err)
		}
		unitOpts.EscalationThreshold = d
	}
	if spec.FrequencyWindow != "" {
		d, err := time.ParseDuration(spec.FrequencyWindow)
		if err != nil {
			return nil, fmt.Errorf("boundary %s: %w", spec.Name, err)
		}
		unitOpts.FrequencyWindow = d
	}
	if spec.FrequencyCount > 0 {
		unitOpts.FrequencyCount = spec.FrequencyCount
	}

	return boundary.New(unitOpts)
}

// Bus exposes the run's event bus so callers (the TUI) can subscribe before
// Run starts publishing.
func (r *Runner) Bus() *events.Bus {
	return r.bus
}

// Run executes the scenario steps in order and returns the transcript.
// Wait steps honor context cancellation; everything else is synchronous.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	collect := func(e events.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.collected = append(r.collected, e)
	}
	disposers := []events.UnsubscribeFunc{
		r.bus.Subscribe(events.TopicTransition, collect),
		r.bus.Subscribe(events.TopicEscalate, collect),
		r.bus.Subscribe(events.TopicCriticalError, collect),
		r.bus.Subscribe(events.TopicNotified, collect),
	}
	if r.opts.Verbose {
		disposers = append(disposers, events.LogAll(r.bus, events.LogConfig{
			Writer:         r.opts.Out,
			IncludePayload: r.cfg.LogPayloads,
		}))
	}
	defer func() {
		for _, d := range disposers {
			d()
		}
	}()
	defer r.closeUnits()

	result := &Result{Scenario: r.scenario.Name}

	for i, step := range r.scenario.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sr := StepResult{Index: i, Action: step.Action, Boundary: step.Boundary}

		switch step.Action {
		case ActionWait:
			d, _ := time.ParseDuration(step.Duration)
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(d):
			}
		case ActionFail:
			u := r.units[step.Boundary]
			d, err := u.Capture(boundary.Failure{Kind: step.Kind, Message: step.Message})
			sr.Decision = string(d.Kind)
			if err != nil {
				sr.Err = err.Error()
			}
		case ActionRetry:
			if err := r.units[step.Boundary].Retry(); err != nil {
				sr.Err = err.Error()
			}
		case ActionEscalate:
			if err := r.units[step.Boundary].Escalate(); err != nil {
				sr.Err = err.Error()
			}
		case ActionRedirect:
			if err := r.units[step.Boundary].Redirect(step.Path); err != nil {
				sr.Err = err.Error()
			}
		case ActionReload:
			if err := r.units[step.Boundary].Reload(); err != nil {
				sr.Err = err.Error()
			}
		}

		result.Steps = append(result.Steps, sr)
	}

	result.Snapshots = make(map[string]boundary.Snapshot, len(r.units))
	for name, u := range r.units {
		result.Snapshots[name] = u.Snapshot()
	}
	result.Redirects = r.recorder.Redirects()
	result.Reloads = r.recorder.Reloads()

	r.mu.Lock()
	result.Events = append(result.Events, r.collected...)
	r.mu.Unlock()

	return result, nil
}

func (r *Runner) closeUnits() {
	for _, u := range r.units {
		_ = u.Close()
	}
}
