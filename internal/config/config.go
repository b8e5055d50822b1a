// Package config loads the optional .rampart.yaml file that tunes the
// escalation core: per-rung policy overrides, notification backends, and the
// safe redirect route. Configuration is immutable after LoadConfig returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rampartdev/rampart/internal/level"
)

// LevelOverride tunes one ladder rung. Zero-valued fields keep the built-in
// default for that rung. Durations are Go duration strings ("8s", "500ms").
type LevelOverride struct {
	// MaxRetries is the manual retry budget before a capture escalates.
	MaxRetries *int `yaml:"max_retries,omitempty"`

	// EscalationThreshold is how long a failed boundary waits before the
	// auto-escalation timer fires.
	EscalationThreshold string `yaml:"escalation_threshold,omitempty"`

	// FrequencyWindow is the trailing window for the thrash detector.
	FrequencyWindow string `yaml:"frequency_window,omitempty"`

	// FrequencyCount failures within the window force escalation.
	FrequencyCount *int `yaml:"frequency_count,omitempty"`

	// NotifyStyle overrides the presentation class (info, warning, error).
	NotifyStyle string `yaml:"notify_style,omitempty"`

	// NotifyDuration is how long the user-facing message stays visible.
	NotifyDuration string `yaml:"notify_duration,omitempty"`

	// FallbackTitle overrides the fallback surface heading.
	FallbackTitle string `yaml:"fallback_title,omitempty"`
}

// NotifyConfig selects the notification sinks.
type NotifyConfig struct {
	// Backends lists the sinks to fan out to: "terminal", "webhook".
	// Empty means terminal only.
	Backends []string `yaml:"backends"`

	// WebhookURL is required when the webhook backend is enabled.
	WebhookURL string `yaml:"webhook_url,omitempty"`
}

// Config holds all settings for the escalation core.
// It is immutable after creation via LoadConfig().
type Config struct {
	// Levels contains per-rung policy overrides keyed by rung name
	// (widget, section, page, app).
	Levels map[string]LevelOverride `yaml:"levels,omitempty"`

	// Notify selects and configures the notification sinks.
	Notify NotifyConfig `yaml:"notify"`

	// RedirectPath is the safe route terminal boundaries redirect to.
	RedirectPath string `yaml:"redirect_path"`

	// AdoptEscalations controls whether units pick up failures escalated
	// to their rung over the event bus.
	AdoptEscalations *bool `yaml:"adopt_escalations,omitempty"`

	// LogLevel controls log verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogPayloads includes event payloads in the event log output.
	LogPayloads bool `yaml:"log_payloads"`
}

// Adopt reports whether units should adopt escalations (default true).
func (c *Config) Adopt() bool {
	if c.AdoptEscalations == nil {
		return true
	}
	return *c.AdoptEscalations
}

// LevelConfig returns the effective configuration for rung l: the built-in
// defaults with this file's overrides applied on top. Callers must validate
// the config first; invalid durations are ignored here.
func (c *Config) LevelConfig(l level.Level) level.Config {
	cfg := level.DefaultConfig(l)
	ov, ok := c.Levels[string(l)]
	if !ok {
		return cfg
	}

	if ov.MaxRetries != nil {
		cfg.MaxRetries = *ov.MaxRetries
	}
	if d, err := time.ParseDuration(ov.EscalationThreshold); err == nil && ov.EscalationThreshold != "" {
		cfg.EscalationThreshold = d
	}
	if d, err := time.ParseDuration(ov.FrequencyWindow); err == nil && ov.FrequencyWindow != "" {
		cfg.FrequencyWindow = d
	}
	if ov.FrequencyCount != nil {
		cfg.FrequencyCount = *ov.FrequencyCount
	}
	if ov.NotifyStyle != "" {
		cfg.NotifyStyle = level.NotifyStyle(ov.NotifyStyle)
	}
	if d, err := time.ParseDuration(ov.NotifyDuration); err == nil && ov.NotifyDuration != "" {
		cfg.NotifyDuration = d
	}
	if ov.FallbackTitle != "" {
		cfg.Fallback.Title = ov.FallbackTitle
	}
	return cfg
}

// LoadConfig loads configuration from root. It applies defaults, then file
// values, then environment overrides, then validates.
//
// A missing config file is not an error: the built-in defaults apply.
func LoadConfig(root string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(root, ConfigFileName)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFile loads and validates an explicit config file path. Unlike
// LoadConfig, a missing file is an error here: the caller asked for it.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
