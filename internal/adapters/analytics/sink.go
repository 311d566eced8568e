package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"deveventshub/internal/domain"
)

// Config holds configuration for creating an analytics sink.
type Config struct {
	Provider   string
	WebhookURL string
}

// NewSink creates an analytics sink from config. Provider "webhook" posts
// notifications as JSON to the configured URL; "noop" or unknown only logs.
func NewSink(config Config, client *http.Client) domain.AnalyticsSink {
	switch config.Provider {
	case "webhook":
		if client == nil {
			client = &http.Client{Timeout: 5 * time.Second}
		}
		return &webhookSink{url: config.WebhookURL, client: client}
	case "noop":
		return &noopSink{}
	default:
		log.Printf("[ANALYTICS] Unknown analytics provider %q, using noop", config.Provider)
		return &noopSink{}
	}
}

type webhookSink struct {
	url    string
	client *http.Client
}

// Notify posts the notification to the webhook. Errors are logged and dropped:
// analytics never influences booking outcomes.
func (s *webhookSink) Notify(ctx context.Context, n *domain.AnalyticsNotification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("[ANALYTICS] failed to encode notification: %v", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[ANALYTICS] failed to create request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[ANALYTICS] failed to deliver %s notification: %v", n.Action, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("[ANALYTICS] webhook returned status %d for %s notification", resp.StatusCode, n.Action)
	}
}

type noopSink struct{}

func (n *noopSink) Notify(ctx context.Context, notification *domain.AnalyticsNotification) {
	log.Println("[ANALYTICS] Notification would be sent (noop)", "action", notification.Action, "event_id", notification.EventID)
}
