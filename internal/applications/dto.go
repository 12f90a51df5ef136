package applications

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brokerlane/brokerlane-backend/pkg/db/models"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Summary is the list-row projection shared by every role view. The badge
// always comes from the central stage mapping.
type Summary struct {
	ID              uuid.UUID               `json:"id"`
	Stage           enums.ApplicationStage  `json:"stage"`
	Presentation    enums.StagePresentation `json:"presentation"`
	WorkflowStatus  enums.WorkflowStatus    `json:"workflow_status,omitempty"`
	RequestedAmount *decimal.Decimal        `json:"requested_amount,omitempty"`
	LoanType        *enums.LoanType         `json:"loan_type,omitempty"`
	SubmittedAt     *time.Time              `json:"submitted_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// Detail is the full projection for a single application. AdminNotes is only
// populated for admin callers.
type Detail struct {
	Summary
	CompanyID             *uuid.UUID                  `json:"company_id,omitempty"`
	Urgency               *enums.Urgency              `json:"urgency,omitempty"`
	Purpose               *enums.FundingPurpose       `json:"purpose,omitempty"`
	PurposeDetail         *string                     `json:"purpose_detail,omitempty"`
	MonthlyRevenue        *decimal.Decimal            `json:"monthly_revenue,omitempty"`
	TradingMonths         *int                        `json:"trading_months,omitempty"`
	AdminNotes            *string                     `json:"admin_notes,omitempty"`
	AcceptedLenderID      *uuid.UUID                  `json:"accepted_lender_id,omitempty"`
	OfferAmount           *decimal.Decimal            `json:"offer_amount,omitempty"`
	OfferTermMonths       *int                        `json:"offer_term_months,omitempty"`
	OfferTotalCost        *decimal.Decimal            `json:"offer_total_cost,omitempty"`
	OfferMonthlyRepayment *decimal.Decimal            `json:"offer_monthly_repayment,omitempty"`
	Documents             []models.Document           `json:"documents,omitempty"`
	InformationRequests   []models.InformationRequest `json:"information_requests,omitempty"`
	LenderSubmissions     []models.LenderSubmission   `json:"lender_submissions,omitempty"`
	Offers                []models.Offer              `json:"offers,omitempty"`
}

// AdminUpdateInput carries the admin-editable fields. Nil pointers leave the
// stored value untouched.
type AdminUpdateInput struct {
	AdminNotes            *string
	WorkflowStatus        *enums.WorkflowStatus
	IsHidden              *bool
	AcceptedLenderID      *uuid.UUID
	OfferAmount           *decimal.Decimal
	OfferTermMonths       *int
	OfferTotalCost        *decimal.Decimal
	OfferMonthlyRepayment *decimal.Decimal
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func summaryFromModel(app *models.Application) Summary {
	return Summary{
		ID:              app.ID,
		Stage:           app.Stage,
		Presentation:    enums.PresentationFor(app.Stage),
		WorkflowStatus:  app.WorkflowStatus,
		RequestedAmount: nullableDecimal(app.RequestedAmount),
		LoanType:        app.LoanType,
		SubmittedAt:     app.SubmittedAt,
		CreatedAt:       app.CreatedAt,
	}
}

func detailFromModel(app *models.Application, includeAdminFields bool) *Detail {
	detail := &Detail{
		Summary:               summaryFromModel(app),
		CompanyID:             app.CompanyID,
		Urgency:               app.Urgency,
		Purpose:               app.Purpose,
		PurposeDetail:         app.PurposeDetail,
		MonthlyRevenue:        nullableDecimal(app.MonthlyRevenue),
		TradingMonths:         app.TradingMonths,
		AcceptedLenderID:      app.AcceptedLenderID,
		OfferAmount:           nullableDecimal(app.OfferAmount),
		OfferTermMonths:       app.OfferTermMonths,
		OfferTotalCost:        nullableDecimal(app.OfferTotalCost),
		OfferMonthlyRepayment: nullableDecimal(app.OfferMonthlyRepayment),
		Documents:             app.Documents,
		InformationRequests:   app.InformationRequests,
		LenderSubmissions:     app.LenderSubmissions,
		Offers:                app.Offers,
	}
	if includeAdminFields {
		detail.AdminNotes = app.AdminNotes
	}
	return detail
}
