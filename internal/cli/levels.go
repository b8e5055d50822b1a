package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rampartdev/rampart/internal/level"
)

// NewLevelsCmd creates the levels command, which prints the escalation
// ladder with the effective per-rung policy after config overrides.
func NewLevelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the escalation ladder and effective per-level policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, l := range level.Ladder {
				eff := cfg.LevelConfig(l)

				marker := "->"
				if l.IsTop() {
					marker = "**" // top of the ladder
				}
				fmt.Fprintf(out, "%s %s (rank %d)\n", marker, l, i)
				fmt.Fprintf(out, "   max_retries:          %d\n", eff.MaxRetries)
				fmt.Fprintf(out, "   escalation_threshold: %s\n", eff.EscalationThreshold)
				fmt.Fprintf(out, "   frequency_trigger:    %d in %s\n", eff.FrequencyCount, eff.FrequencyWindow)
				fmt.Fprintf(out, "   notify:               %s for %s\n", eff.NotifyStyle, eff.NotifyDuration)
				fmt.Fprintf(out, "   fallback:             %q [%s]\n", eff.Fallback.Title, joinActions(eff.Fallback.Actions))
				if !l.IsTop() {
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
}

func joinActions(actions []level.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, " ")
}
