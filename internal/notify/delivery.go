package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brokerlane/brokerlane-backend/pkg/config"
	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// LenderDeliverer pushes an application to a lender over the lender's
// configured channel: a direct API POST or an email via the mail relay.
type LenderDeliverer struct {
	mailRelayURL string
	fromAddress  string
	http         *http.Client
}

// NewLenderDeliverer builds the outbound delivery collaborator.
func NewLenderDeliverer(cfg config.DeliveryConfig) *LenderDeliverer {
	return &LenderDeliverer{
		mailRelayURL: cfg.MailRelayURL,
		fromAddress:  cfg.FromAddress,
		http:         &http.Client{Timeout: cfg.Timeout},
	}
}

// Deliver sends one application to one lender. The caller records the
// outcome on the submission row; this function only reports success.
func (d *LenderDeliverer) Deliver(ctx context.Context, app *models.Application, lender *models.Lender) error {
	switch lender.Method {
	case enums.SubmissionMethodAPI:
		return d.deliverAPI(ctx, app, lender)
	case enums.SubmissionMethodEmail:
		return d.deliverEmail(ctx, app, lender)
	default:
		return fmt.Errorf("unknown submission method %q", lender.Method)
	}
}

func (d *LenderDeliverer) deliverAPI(ctx context.Context, app *models.Application, lender *models.Lender) error {
	if lender.APIEndpoint == nil || *lender.APIEndpoint == "" {
		return fmt.Errorf("lender %s has no api endpoint", lender.ID)
	}
	payload := map[string]any{
		"application_id": app.ID,
		"company_id":     app.CompanyID,
		"loan_type":      app.LoanType,
		"purpose":        app.Purpose,
		"trading_months": app.TradingMonths,
	}
	if app.RequestedAmount.Valid {
		payload["requested_amount"] = app.RequestedAmount.Decimal
	}
	if app.MonthlyRevenue.Valid {
		payload["monthly_revenue"] = app.MonthlyRevenue.Decimal
	}
	return d.post(ctx, *lender.APIEndpoint, payload)
}

func (d *LenderDeliverer) deliverEmail(ctx context.Context, app *models.Application, lender *models.Lender) error {
	if d.mailRelayURL == "" {
		return fmt.Errorf("mail relay not configured")
	}
	if lender.ContactEmail == nil || *lender.ContactEmail == "" {
		return fmt.Errorf("lender %s has no contact email", lender.ID)
	}
	amount := "not stated"
	if app.RequestedAmount.Valid {
		amount = app.RequestedAmount.Decimal.StringFixed(2)
	}
	payload := map[string]any{
		"to":      *lender.ContactEmail,
		"from":    d.fromAddress,
		"subject": fmt.Sprintf("New funding application %s", app.ID),
		"body": fmt.Sprintf(
			"A new funding application is ready for review.\n\nReference: %s\nRequested amount: %s\n",
			app.ID, amount),
	}
	return d.post(ctx, d.mailRelayURL, payload)
}

func (d *LenderDeliverer) post(ctx context.Context, endpoint string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delivery endpoint returned %d", resp.StatusCode)
	}
	return nil
}
