package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rampartdev/rampart/internal/level"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

var validStyles = map[string]bool{
	string(level.StyleInfo):    true,
	string(level.StyleWarning): true,
	string(level.StyleError):   true,
}

var validBackends = map[string]bool{
	BackendTerminal: true,
	BackendWebhook:  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	for name, ov := range cfg.Levels {
		if !level.Level(name).Valid() {
			errs = append(errs, &ValidationError{
				Field:   "levels",
				Value:   name,
				Message: "unknown ladder rung",
			})
		}

		prefix := fmt.Sprintf("levels.%s", name)

		if ov.MaxRetries != nil && *ov.MaxRetries < 0 {
			errs = append(errs, &ValidationError{
				Field:   prefix + ".max_retries",
				Value:   *ov.MaxRetries,
				Message: "must be non-negative",
			})
		}
		if ov.FrequencyCount != nil && *ov.FrequencyCount < 1 {
			errs = append(errs, &ValidationError{
				Field:   prefix + ".frequency_count",
				Value:   *ov.FrequencyCount,
				Message: "must be at least 1",
			})
		}
		for field, value := range map[string]string{
			"escalation_threshold": ov.EscalationThreshold,
			"frequency_window":     ov.FrequencyWindow,
			"notify_duration":      ov.NotifyDuration,
		} {
			if value == "" {
				continue
			}
			if d, err := time.ParseDuration(value); err != nil {
				errs = append(errs, &ValidationError{
					Field:   prefix + "." + field,
					Value:   value,
					Message: fmt.Sprintf("invalid duration: %v", err),
				})
			} else if d <= 0 {
				errs = append(errs, &ValidationError{
					Field:   prefix + "." + field,
					Value:   value,
					Message: "must be positive",
				})
			}
		}
		if ov.NotifyStyle != "" && !validStyles[ov.NotifyStyle] {
			errs = append(errs, &ValidationError{
				Field:   prefix + ".notify_style",
				Value:   ov.NotifyStyle,
				Message: "must be one of: info, warning, error",
			})
		}
	}

	webhookEnabled := false
	for i, backend := range cfg.Notify.Backends {
		if !validBackends[backend] {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("notify.backends[%d]", i),
				Value:   backend,
				Message: "must be one of: terminal, webhook",
			})
		}
		if backend == BackendWebhook {
			webhookEnabled = true
		}
	}
	if webhookEnabled && cfg.Notify.WebhookURL == "" {
		errs = append(errs, &ValidationError{
			Field:   "notify.webhook_url",
			Value:   cfg.Notify.WebhookURL,
			Message: "required when the webhook backend is enabled",
		})
	}

	if cfg.RedirectPath == "" {
		errs = append(errs, &ValidationError{
			Field:   "redirect_path",
			Value:   cfg.RedirectPath,
			Message: "must not be empty",
		})
	}

	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
