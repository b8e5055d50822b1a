package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rampartdev/rampart/internal/sim"
)

// NewValidateCmd creates the validate command. It checks the effective
// config, and optionally a scenario file, without running anything.
func NewValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Validate the config file and an optional scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if _, err := app.loadConfig(); err != nil {
				return err
			}
			fmt.Fprintln(out, "config: ok")

			if len(args) == 1 {
				sc, err := sim.Load(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "scenario %q: ok (%d boundaries, %d steps)\n",
					sc.Name, len(sc.Boundaries), len(sc.Steps))
			}
			return nil
		},
	}
}
