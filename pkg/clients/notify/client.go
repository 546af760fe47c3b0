// Package notify delivers operational alerts to an external webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/bakehouse/internal/config"
)

// Notifier exposes outbound alert delivery.
type Notifier interface {
	SendAlert(ctx context.Context, subject, body string) error
}

// WebhookClient is a resty-backed implementation of Notifier posting JSON
// payloads to a configured webhook URL.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookClient builds a webhook notifier using the provided configuration values.
func NewWebhookClient(cfg config.NotifyConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// alertPayload is the webhook body.
type alertPayload struct {
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// SendAlert posts one alert to the webhook.
func (c *WebhookClient) SendAlert(ctx context.Context, subject, body string) error {
	payload := alertPayload{
		Subject: subject,
		Body:    body,
		SentAt:  time.Now(),
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("alert webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
