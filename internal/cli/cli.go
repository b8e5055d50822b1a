// Package cli wires the rampart command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// VersionInfo holds build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies
type App struct {
	rootCmd *cobra.Command

	// Runtime state
	verbose    bool
	configPath string

	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()

	app.rootCmd.AddCommand(NewSimulateCmd(app))
	app.rootCmd.AddCommand(NewValidateCmd(app))
	app.rootCmd.AddCommand(NewLevelsCmd(app))
	app.rootCmd.AddCommand(NewVersionCmd(app))

	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version info for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "rampart",
		Short: "Cascading error-boundary escalation core",
		Long: `Rampart contains failures behind leveled boundaries and escalates
them up the widget > section > page > app ladder when recovery fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")
	a.rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to a .rampart.yaml config file (default: current directory)")
}
