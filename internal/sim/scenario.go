// Package sim runs scripted failure scenarios against a set of boundary
// units wired to a real bus, sink, and navigator. It exists so escalation
// behavior can be exercised end to end from the CLI without a hosting UI.
package sim

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rampartdev/rampart/internal/level"
)

// Action is one scripted operation against a boundary.
type Action string

const (
	ActionFail     Action = "fail"
	ActionRetry    Action = "retry"
	ActionEscalate Action = "escalate"
	ActionRedirect Action = "redirect"
	ActionReload   Action = "reload"
	ActionWait     Action = "wait"
)

var validActions = map[Action]bool{
	ActionFail:     true,
	ActionRetry:    true,
	ActionEscalate: true,
	ActionRedirect: true,
	ActionReload:   true,
	ActionWait:     true,
}

// BoundarySpec declares one unit participating in the scenario.
type BoundarySpec struct {
	// Name identifies the unit in steps and output.
	Name string `yaml:"name"`

	// Level is the unit's ladder rung.
	Level string `yaml:"level"`

	// MaxRetries overrides the rung default when > 0.
	MaxRetries int `yaml:"max_retries,omitempty"`

	// EscalationThreshold overrides the rung default. Duration string.
	EscalationThreshold string `yaml:"escalation_threshold,omitempty"`

	// FrequencyWindow overrides the rung default. Duration string.
	FrequencyWindow string `yaml:"frequency_window,omitempty"`

	// FrequencyCount overrides the rung default when > 0.
	FrequencyCount int `yaml:"frequency_count,omitempty"`
}

// Step is one scripted operation. Wait steps need only a duration; every
// other action targets a boundary by name.
type Step struct {
	// Boundary names the target unit (unused for wait).
	Boundary string `yaml:"boundary,omitempty"`

	// Action selects the operation.
	Action Action `yaml:"action"`

	// Kind classifies an injected failure (fail only).
	Kind string `yaml:"kind,omitempty"`

	// Message describes an injected failure (fail only).
	Message string `yaml:"message,omitempty"`

	// Path is the redirect target (redirect only; empty uses the default).
	Path string `yaml:"path,omitempty"`

	// Duration is how long to wait (wait only). Duration string.
	Duration string `yaml:"duration,omitempty"`
}

// Scenario is a named script of boundaries and timed steps.
type Scenario struct {
	Name       string         `yaml:"name"`
	Boundaries []BoundarySpec `yaml:"boundaries"`
	Steps      []Step         `yaml:"steps"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validate scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks the scenario for structural problems. All failures are
// reported at once.
func (s *Scenario) Validate() error {
	var errs []error

	if len(s.Boundaries) == 0 {
		errs = append(errs, errors.New("scenario: at least one boundary required"))
	}

	known := make(map[string]bool, len(s.Boundaries))
	for i, b := range s.Boundaries {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("boundaries[%d]: name must not be empty", i))
			continue
		}
		if known[b.Name] {
			errs = append(errs, fmt.Errorf("boundaries[%d]: duplicate name %q", i, b.Name))
		}
		known[b.Name] = true

		if !level.Level(b.Level).Valid() {
			errs = append(errs, fmt.Errorf("boundaries[%d]: unknown level %q", i, b.Level))
		}
		for field, value := range map[string]string{
			"escalation_threshold": b.EscalationThreshold,
			"frequency_window":     b.FrequencyWindow,
		} {
			if value == "" {
				continue
			}
			if _, err := time.ParseDuration(value); err != nil {
				errs = append(errs, fmt.Errorf("boundaries[%d].%s: %v", i, field, err))
			}
		}
	}

	for i, step := range s.Steps {
		if !validActions[step.Action] {
			errs = append(errs, fmt.Errorf("steps[%d]: unknown action %q", i, step.Action))
			continue
		}
		if step.Action == ActionWait {
			if step.Duration == "" {
				errs = append(errs, fmt.Errorf("steps[%d]: wait requires a duration", i))
			} else if _, err := time.ParseDuration(step.Duration); err != nil {
				errs = append(errs, fmt.Errorf("steps[%d].duration: %v", i, err))
			}
			continue
		}
		if step.Boundary == "" {
			errs = append(errs, fmt.Errorf("steps[%d]: %s requires a boundary", i, step.Action))
		} else if !known[step.Boundary] {
			errs = append(errs, fmt.Errorf("steps[%d]: unknown boundary %q", i, step.Boundary))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Default returns the built-in demo scenario: a thrashing widget escalates
// into its section, which recovers once and then gives up.
func Default() *Scenario {
	return &Scenario{
		Name: "widget-thrash",
		Boundaries: []BoundarySpec{
			{Name: "spark-line", Level: "widget", MaxRetries: 1},
			{Name: "dashboard", Level: "section", MaxRetries: 1},
		},
		Steps: []Step{
			{Boundary: "spark-line", Action: ActionFail, Kind: "render", Message: "chart data out of range"},
			{Boundary: "spark-line", Action: ActionRetry},
			{Action: ActionWait, Duration: "20ms"},
			{Boundary: "spark-line", Action: ActionFail, Kind: "render", Message: "chart data out of range"},
			{Boundary: "dashboard", Action: ActionRetry},
			{Action: ActionWait, Duration: "20ms"},
			{Boundary: "dashboard", Action: ActionFail, Kind: "fetch", Message: "dashboard feed unavailable"},
			{Boundary: "dashboard", Action: ActionEscalate},
		},
	}
}
