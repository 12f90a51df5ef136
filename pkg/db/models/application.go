package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Application is the central aggregate: one funding request moving from draft
// to funded/declined/withdrawn.
type Application struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedByID   uuid.UUID  `gorm:"column:created_by_id;type:uuid;not null"`
	CompanyID     *uuid.UUID `gorm:"column:company_id;type:uuid"`
	ProspectEmail *string    `gorm:"column:prospect_email"`

	RequestedAmount decimal.NullDecimal   `gorm:"column:requested_amount;type:numeric(14,2)"`
	LoanType        *enums.LoanType       `gorm:"column:loan_type;type:text"`
	Urgency         *enums.Urgency        `gorm:"column:urgency;type:text"`
	Purpose         *enums.FundingPurpose `gorm:"column:purpose;type:text"`
	PurposeDetail   *string               `gorm:"column:purpose_detail"`
	MonthlyRevenue  decimal.NullDecimal   `gorm:"column:monthly_revenue;type:numeric(14,2)"`
	TradingMonths   *int                  `gorm:"column:trading_months"`

	Stage          enums.ApplicationStage `gorm:"column:stage;type:text;not null;default:'created'"`
	WorkflowStatus enums.WorkflowStatus   `gorm:"column:workflow_status;type:text;not null;default:''"`
	IsHidden       bool                   `gorm:"column:is_hidden;not null;default:true"`
	AdminNotes     *string                `gorm:"column:admin_notes"`
	SubmittedAt    *time.Time             `gorm:"column:submitted_at"`

	AcceptedLenderID      *uuid.UUID          `gorm:"column:accepted_lender_id;type:uuid"`
	OfferAmount           decimal.NullDecimal `gorm:"column:offer_amount;type:numeric(14,2)"`
	OfferTermMonths       *int                `gorm:"column:offer_term_months"`
	OfferTotalCost        decimal.NullDecimal `gorm:"column:offer_total_cost;type:numeric(14,2)"`
	OfferMonthlyRepayment decimal.NullDecimal `gorm:"column:offer_monthly_repayment;type:numeric(14,2)"`

	Documents           []Document           `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	InformationRequests []InformationRequest `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	LenderSubmissions   []LenderSubmission   `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	Offers              []Offer              `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
