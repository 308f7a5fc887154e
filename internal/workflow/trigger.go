package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coverletter-backend/internal/shared/telemetry"
)

// ErrWebhookNotConfigured means the webhook endpoint is missing from
// configuration. This is a hard configuration error, distinct from a delivery
// failure at runtime.
var ErrWebhookNotConfigured = errors.New("webhook configuration missing")

// TriggerResult reports a webhook delivery attempt. A rejected delivery is
// non-fatal to the upload that preceded it: the file is already durable.
type TriggerResult struct {
	Accepted bool
	Detail   string
	Response json.RawMessage
}

// Trigger posts upload descriptors to the external automation engine.
type Trigger struct {
	WebhookURL string
	HTTPClient *http.Client
}

// NewTrigger constructs a Trigger with a bounded default timeout.
func NewTrigger(webhookURL string) *Trigger {
	return &Trigger{
		WebhookURL: webhookURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers the payload. An unset endpoint returns
// ErrWebhookNotConfigured; any delivery problem is reported in the result, not
// as an error.
func (t *Trigger) Send(ctx context.Context, payload TriggerPayload) (TriggerResult, error) {
	if strings.TrimSpace(t.WebhookURL) == "" {
		return TriggerResult{}, ErrWebhookNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return TriggerResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return TriggerResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		telemetry.Error("workflow.trigger_failed", map[string]any{
			"file_id": payload.FileID,
			"error":   err.Error(),
		})
		return TriggerResult{Accepted: false, Detail: "Webhook failed but file uploaded successfully"}, nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return TriggerResult{Accepted: false, Detail: "Webhook failed but file uploaded successfully"}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.Error("workflow.trigger_failed", map[string]any{
			"file_id": payload.FileID,
			"status":  resp.StatusCode,
		})
		return TriggerResult{
			Accepted: false,
			Detail:   fmt.Sprintf("Webhook failed with status: %d", resp.StatusCode),
		}, nil
	}

	result := TriggerResult{Accepted: true}
	if json.Valid(raw) {
		result.Response = json.RawMessage(raw)
	}
	return result, nil
}
