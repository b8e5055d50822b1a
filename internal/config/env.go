package config

import "os"

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "RAMPART_WEBHOOK_URL",
		apply: func(c *Config, v string) {
			c.Notify.WebhookURL = v
		},
	},
	{
		envVar: "RAMPART_REDIRECT_PATH",
		apply: func(c *Config, v string) {
			c.RedirectPath = v
		},
	},
	{
		envVar: "RAMPART_LOG_LEVEL",
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
