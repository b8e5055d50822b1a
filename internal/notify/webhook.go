package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookPayload is the JSON structure posted to webhook endpoints.
type WebhookPayload struct {
	Level      string            `json:"level"`
	Style      string            `json:"style"`
	Boundary   string            `json:"boundary"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	DurationMs int64             `json:"duration_ms"`
	Context    map[string]string `json:"context,omitempty"`
}

// Webhook posts notifications to an HTTP endpoint as JSON.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a Webhook sink with a default HTTP client.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWebhookWithClient creates a Webhook sink with a custom HTTP client.
func NewWebhookWithClient(url string, client *http.Client) *Webhook {
	return &Webhook{url: url, client: client}
}

// Notify posts the notification as JSON to the webhook URL.
func (w *Webhook) Notify(ctx context.Context, n Notification) error {
	payload := WebhookPayload{
		Level:      string(n.Level),
		Style:      string(n.Style),
		Boundary:   n.Boundary,
		Title:      n.Title,
		Message:    n.Message,
		DurationMs: n.Duration.Milliseconds(),
		Context:    n.Context,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// Name returns "webhook".
func (w *Webhook) Name() string {
	return "webhook"
}
