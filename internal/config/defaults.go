package config

const (
	// ConfigFileName is the config file looked up relative to the root.
	ConfigFileName = ".rampart.yaml"

	DefaultRedirectPath = "/"
	DefaultLogLevel     = "info"

	// BackendTerminal prints styled notifications to the terminal.
	BackendTerminal = "terminal"

	// BackendWebhook posts notifications as JSON to WebhookURL.
	BackendWebhook = "webhook"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Notify: NotifyConfig{
			Backends: []string{BackendTerminal},
		},
		RedirectPath: DefaultRedirectPath,
		LogLevel:     DefaultLogLevel,
	}
}
