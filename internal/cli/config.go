package cli

import (
	"github.com/rampartdev/rampart/internal/config"
)

// loadConfig resolves the effective config: the explicit --config path when
// given, otherwise the optional .rampart.yaml in the current directory.
func (a *App) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadConfigFile(a.configPath)
	}
	return config.LoadConfig(".")
}
