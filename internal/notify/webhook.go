package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/config"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

// AutomationWebhook posts lifecycle notifications to the workflow-automation
// service. Delivery is fire-and-forget: the response only gets logged, it is
// never part of the caller's correctness.
type AutomationWebhook struct {
	url  string
	http *http.Client
	logg *logger.Logger
}

// NewAutomationWebhook builds the webhook notifier. An empty URL disables it.
func NewAutomationWebhook(cfg config.WebhookConfig, logg *logger.Logger) *AutomationWebhook {
	return &AutomationWebhook{
		url:  cfg.AutomationURL,
		http: &http.Client{Timeout: cfg.Timeout},
		logg: logg,
	}
}

// SubmittedToLenders announces a completed batch send.
func (w *AutomationWebhook) SubmittedToLenders(ctx context.Context, applicationID uuid.UUID, lenderIDs []uuid.UUID) {
	if w.url == "" {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"application_id": applicationID,
		"lender_ids":     lenderIDs,
	})
	if err != nil {
		w.warn(ctx, "marshal webhook payload", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		w.warn(ctx, "build webhook request", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		w.warn(ctx, "automation webhook delivery failed", err)
		return
	}
	defer resp.Body.Close()
	if w.logg != nil {
		logCtx := w.logg.WithFields(ctx, map[string]any{
			"application_id": applicationID.String(),
			"status":         resp.StatusCode,
		})
		w.logg.Info(logCtx, "automation webhook delivered")
	}
}

func (w *AutomationWebhook) warn(ctx context.Context, msg string, err error) {
	if w.logg == nil {
		return
	}
	w.logg.Warn(w.logg.WithField(ctx, "error", err.Error()), msg)
}
