package lenders

import (
	"context"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
)

// Matcher narrows the lender panel for a given application. Full eligibility
// matching (trading history, loan bounds, credit constraints) is an external
// subsystem; the engine only guarantees the interface and a panel-visibility
// baseline.
type Matcher interface {
	EligibleLenders(ctx context.Context, app *models.Application, panel []models.Lender) []models.Lender
}

// PanelMatcher is the default Matcher: it keeps lenders whose criteria record
// is marked panel-visible and drops lenders without criteria.
type PanelMatcher struct{}

// NewPanelMatcher returns the baseline matcher.
func NewPanelMatcher() *PanelMatcher {
	return &PanelMatcher{}
}

func (m *PanelMatcher) EligibleLenders(_ context.Context, _ *models.Application, panel []models.Lender) []models.Lender {
	eligible := make([]models.Lender, 0, len(panel))
	for _, lender := range panel {
		if lender.Criteria != nil && lender.Criteria.PanelVisible {
			eligible = append(eligible, lender)
		}
	}
	return eligible
}
