package forwarder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
)

// HTTPForwarder pushes activity entries to an external webhook. Delivery is
// best effort: one attempt, failures are reported to the caller and the
// caller decides whether they matter.
type HTTPForwarder struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

// NewHTTPForwarder creates a Resty-backed forwarder.
func NewHTTPForwarder(webhookURL string, log zerolog.Logger) *HTTPForwarder {
	return &HTTPForwarder{
		httpClient: resty.New().
			SetBaseURL(webhookURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second),
		log: log.With().Str("component", "activity_forwarder").Logger(),
	}
}

type entryPayload struct {
	ID          string         `json:"id"`
	Event       string         `json:"event"`
	AssistantID string         `json:"assistant_id"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// Forward posts one entry to the webhook.
func (f *HTTPForwarder) Forward(ctx context.Context, entry *activity.Entry) error {
	payload := entryPayload{
		ID:          entry.ID,
		Event:       string(entry.Action),
		AssistantID: entry.AssistantID,
		Details:     entry.Details,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}

	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetHeader("X-Gateway-Event", string(entry.Action)).
		Post("")
	if err != nil {
		return fmt.Errorf("forward activity entry: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("activity webhook returned status %d", resp.StatusCode())
	}

	f.log.Debug().
		Str("event", string(entry.Action)).
		Str("assistant_id", entry.AssistantID).
		Msg("Activity entry forwarded")
	return nil
}
