package notify

import "fmt"

// Config holds notification sink configuration.
type Config struct {
	Backends   []string
	WebhookURL string
}

// FromConfig creates a Notifier from configuration. With no backends the
// terminal sink is used; multiple backends fan out via Multi.
func FromConfig(cfg Config) (Notifier, error) {
	var sinks []Notifier

	for _, backend := range cfg.Backends {
		switch backend {
		case "terminal":
			sinks = append(sinks, NewTerminal())
		case "webhook":
			if cfg.WebhookURL == "" {
				return nil, fmt.Errorf("webhook backend requires URL")
			}
			sinks = append(sinks, NewWebhook(cfg.WebhookURL))
		default:
			return nil, fmt.Errorf("unknown notification backend: %s", backend)
		}
	}

	if len(sinks) == 0 {
		return NewTerminal(), nil
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}

	return NewMulti(sinks...), nil
}
