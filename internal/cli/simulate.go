package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rampartdev/rampart/internal/cli/tui"
	"github.com/rampartdev/rampart/internal/config"
	"github.com/rampartdev/rampart/internal/notify"
	"github.com/rampartdev/rampart/internal/sim"
)

// NewSimulateCmd creates the simulate command: run a scripted failure
// scenario against real boundary units and report how it escalated.
func NewSimulateCmd(app *App) *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "simulate [scenario.yaml]",
		Short: "Run a failure scenario through the escalation ladder",
		Long: `Simulate wires one boundary unit per scenario entry to a shared event
bus and executes the scripted steps. Without a scenario file the built-in
widget-thrash demo runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			scenario := sim.Default()
			if len(args) == 1 {
				scenario, err = sim.Load(args[0])
				if err != nil {
					return err
				}
			}

			if useTUI && term.IsTerminal(int(os.Stdout.Fd())) {
				return runSimulateTUI(cmd, scenario, cfg)
			}

			runner, err := sim.NewRunner(scenario, cfg, sim.RunnerOptions{
				Out:     cmd.ErrOrStderr(),
				Verbose: app.verbose,
			})
			if err != nil {
				return err
			}

			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render the run in a live terminal UI")
	return cmd
}

// runSimulateTUI renders the run live. Notifications are shown inside the
// TUI (via the notified topic) instead of the terminal sink, which would
// write over the alternate screen.
func runSimulateTUI(cmd *cobra.Command, scenario *sim.Scenario, cfg *config.Config) error {
	runner, err := sim.NewRunner(scenario, cfg, sim.RunnerOptions{
		Out:      io.Discard,
		Notifier: discardSink{},
	})
	if err != nil {
		return err
	}

	model := tui.NewModel(scenario.Name)
	program := tea.NewProgram(model)

	bridge := tui.NewBridge(program)
	unsubscribe := bridge.Subscribe(runner.Bus())
	defer unsubscribe()

	resCh := make(chan *sim.Result, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := runner.Run(cmd.Context())
		resCh <- result
		errCh <- err
		bridge.SendDone()
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	result := <-resCh
	if err := <-errCh; err != nil {
		return err
	}
	printResult(cmd, result)
	return nil
}

// discardSink drops notifications; the TUI renders them from bus events.
type discardSink struct{}

func (discardSink) Notify(ctx context.Context, n notify.Notification) error { return nil }
func (discardSink) Name() string                                            { return "discard" }

func printResult(cmd *cobra.Command, result *sim.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "scenario %q: %d steps, %d events\n",
		result.Scenario, len(result.Steps), len(result.Events))

	for _, step := range result.Steps {
		line := fmt.Sprintf("  step %d: %s", step.Index+1, step.Action)
		if step.Boundary != "" {
			line += " " + step.Boundary
		}
		if step.Decision != "" {
			line += " -> " + step.Decision
		}
		if step.Err != "" {
			line += " (" + step.Err + ")"
		}
		fmt.Fprintln(out, line)
	}

	names := make([]string, 0, len(result.Snapshots))
	for name := range result.Snapshots {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "final state:")
	for _, name := range names {
		snap := result.Snapshots[name]
		fmt.Fprintf(out, "  %s [%s] phase=%s retries=%d", name, snap.Level, snap.Phase, snap.RetryCount)
		if len(snap.History) > 0 {
			fmt.Fprintf(out, " escalated-through=%v", snap.History)
		}
		fmt.Fprintln(out)
	}

	if len(result.Redirects) > 0 {
		fmt.Fprintf(out, "redirects: %v\n", result.Redirects)
	}
	if result.Reloads > 0 {
		fmt.Fprintf(out, "reloads: %d\n", result.Reloads)
	}
}
