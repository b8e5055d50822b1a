package sim

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rampartdev/rampart/internal/boundary"
	"github.com/rampartdev/rampart/internal/events"
	"github.com/rampartdev/rampart/internal/level"
	"github.com/rampartdev/rampart/internal/notify"
	"github.com/rampartdev/rampart/internal/policy"
)

type quietSink struct {
	mu    sync.Mutex
	count int
}

func (q *quietSink) Notify(ctx context.Context, n notify.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.count++
	return nil
}

func (q *quietSink) Name() string { return "quiet" }

func runScenario(t *testing.T, sc *Scenario) *Result {
	t.Helper()
	r, err := NewRunner(sc, nil, RunnerOptions{Notifier: &quietSink{}})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
		wantErr  string
	}{
		{
			name:     "no boundaries",
			scenario: Scenario{},
			wantErr:  "at least one boundary",
		},
		{
			name: "duplicate names",
			scenario: Scenario{Boundaries: []BoundarySpec{
				{Name: "a", Level: "widget"},
				{Name: "a", Level: "section"},
			}},
			wantErr: "duplicate name",
		},
		{
			name: "unknown level",
			scenario: Scenario{Boundaries: []BoundarySpec{
				{Name: "a", Level: "modal"},
			}},
			wantErr: "unknown level",
		},
		{
			name: "unknown action",
			scenario: Scenario{
				Boundaries: []BoundarySpec{{Name: "a", Level: "widget"}},
				Steps:      []Step{{Boundary: "a", Action: "explode"}},
			},
			wantErr: "unknown action",
		},
		{
			name: "wait without duration",
			scenario: Scenario{
				Boundaries: []BoundarySpec{{Name: "a", Level: "widget"}},
				Steps:      []Step{{Action: ActionWait}},
			},
			wantErr: "wait requires a duration",
		},
		{
			name: "step with unknown boundary",
			scenario: Scenario{
				Boundaries: []BoundarySpec{{Name: "a", Level: "widget"}},
				Steps:      []Step{{Boundary: "b", Action: ActionFail}},
			},
			wantErr: `unknown boundary "b"`,
		},
		{
			name: "bad override duration",
			scenario: Scenario{Boundaries: []BoundarySpec{
				{Name: "a", Level: "widget", EscalationThreshold: "soon"},
			}},
			wantErr: "escalation_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	err := os.WriteFile(path, []byte(`
name: smoke
boundaries:
  - name: spark-line
    level: widget
steps:
  - boundary: spark-line
    action: fail
    kind: render
    message: boom
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Boundaries) != 1 || len(sc.Steps) != 1 {
		t.Errorf("unexpected scenario: %+v", sc)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("built-in scenario invalid: %v", err)
	}
}

func TestRun_DefaultScenarioEscalatesThroughLadder(t *testing.T) {
	result := runScenario(t, Default())

	spark := result.Snapshots["spark-line"]
	if spark.Phase != boundary.PhaseEscalating {
		t.Errorf("spark-line Phase = %s, want %s", spark.Phase, boundary.PhaseEscalating)
	}

	dash := result.Snapshots["dashboard"]
	if dash.Phase != boundary.PhaseEscalating {
		t.Errorf("dashboard Phase = %s, want %s", dash.Phase, boundary.PhaseEscalating)
	}
	if len(dash.History) != 2 || dash.History[0] != level.Widget || dash.History[1] != level.Section {
		t.Errorf("dashboard History = %v, want [widget section]", dash.History)
	}

	escalations := 0
	for _, e := range result.Events {
		if e.Topic == events.TopicEscalate {
			escalations++
		}
	}
	if escalations != 2 {
		t.Errorf("expected 2 escalate events, got %d", escalations)
	}

	// The final escalate step hits an already-escalated unit: a recorded
	// no-op, never a run failure.
	last := result.Steps[len(result.Steps)-1]
	if last.Action != ActionEscalate || last.Err == "" {
		t.Errorf("expected recorded no-op on final step, got %+v", last)
	}
}

func TestRun_RecordsDecisions(t *testing.T) {
	sc := &Scenario{
		Name:       "decisions",
		Boundaries: []BoundarySpec{{Name: "panel", Level: "section"}},
		Steps: []Step{
			{Boundary: "panel", Action: ActionFail, Kind: "render", Message: "first"},
			{Boundary: "panel", Action: ActionFail, Kind: "render", Message: "second"},
		},
	}
	result := runScenario(t, sc)

	if got := result.Steps[0].Decision; got != string(policy.ScheduleAutoEscalation) {
		t.Errorf("first fail Decision = %q, want %q", got, policy.ScheduleAutoEscalation)
	}
	if got := result.Steps[1].Decision; got != string(policy.AllowManualRetry) {
		t.Errorf("second fail Decision = %q, want %q", got, policy.AllowManualRetry)
	}
}

func TestRun_RedirectAndReload(t *testing.T) {
	sc := &Scenario{
		Name:       "escape-hatches",
		Boundaries: []BoundarySpec{{Name: "checkout", Level: "page"}},
		Steps: []Step{
			{Boundary: "checkout", Action: ActionFail, Kind: "fetch", Message: "payment api down"},
			{Boundary: "checkout", Action: ActionRedirect, Path: "/cart"},
			{Boundary: "checkout", Action: ActionReload},
		},
	}
	result := runScenario(t, sc)

	if len(result.Redirects) != 1 || result.Redirects[0] != "/cart" {
		t.Errorf("Redirects = %v, want [/cart]", result.Redirects)
	}
	if result.Reloads != 1 {
		t.Errorf("Reloads = %d, want 1", result.Reloads)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	sc := &Scenario{
		Name:       "cancelled",
		Boundaries: []BoundarySpec{{Name: "panel", Level: "section"}},
		Steps: []Step{
			{Action: ActionWait, Duration: "10s"},
			{Boundary: "panel", Action: ActionFail},
		},
	}
	r, err := NewRunner(sc, nil, RunnerOptions{Notifier: &quietSink{}})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(result.Steps) != 0 {
		t.Errorf("expected no completed steps, got %d", len(result.Steps))
	}
}

func TestNewRunner_RejectsInvalidScenario(t *testing.T) {
	if _, err := NewRunner(&Scenario{}, nil, RunnerOptions{}); err == nil {
		t.Error("expected validation error")
	}
}

func TestRun_NotifiesSink(t *testing.T) {
	sink := &quietSink{}
	sc := &Scenario{
		Name:       "notify",
		Boundaries: []BoundarySpec{{Name: "panel", Level: "section"}},
		Steps: []Step{
			{Boundary: "panel", Action: ActionFail, Kind: "render", Message: "boom"},
		},
	}
	r, err := NewRunner(sc, nil, RunnerOptions{Notifier: sink})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.count != 1 {
		t.Errorf("sink invoked %d times, want 1", sink.count)
	}
}
