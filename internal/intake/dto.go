package intake

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Wizard steps in order. Backward navigation is free; forward movement runs
// the gate for the step being left.
const (
	StepCompany = iota + 1
	StepPersonal
	StepFunding
	StepDocuments
	StepReview
)

// CompanyStepInput carries step 1 fields. Director identity comes either from
// a registry match or manual entry; by the time it reaches the service the
// distinction no longer matters.
type CompanyStepInput struct {
	Name              string              `json:"name" validate:"required"`
	Industry          string              `json:"industry" validate:"required"`
	CompanyNumber     *string             `json:"company_number,omitempty"`
	BusinessType      *enums.BusinessType `json:"business_type,omitempty"`
	RegisteredAddress *string             `json:"registered_address,omitempty"`
	DirectorFirstName string              `json:"director_first_name" validate:"required"`
	DirectorLastName  string              `json:"director_last_name" validate:"required"`
}

// PersonalStepInput carries step 2 fields.
type PersonalStepInput struct {
	FirstName      string               `json:"first_name" validate:"required"`
	LastName       string               `json:"last_name" validate:"required"`
	Phone          string               `json:"phone" validate:"required,uk_phone"`
	DateOfBirth    time.Time            `json:"date_of_birth" validate:"required"`
	PropertyStatus enums.PropertyStatus `json:"property_status" validate:"required"`
}

// FundingStepInput carries step 3 fields.
type FundingStepInput struct {
	Amount         decimal.Decimal      `json:"amount" validate:"required"`
	Purpose        enums.FundingPurpose `json:"purpose" validate:"required"`
	PurposeDetail  *string              `json:"purpose_detail,omitempty"`
	LoanType       *enums.LoanType      `json:"loan_type,omitempty"`
	Urgency        *enums.Urgency       `json:"urgency,omitempty"`
	MonthlyRevenue *decimal.Decimal     `json:"monthly_revenue,omitempty"`
	TradingMonths  *int                 `json:"trading_months,omitempty"`
}

// StepInput is one wizard action: the step being advanced (or saved from)
// plus whichever per-step payloads the client sent.
type StepInput struct {
	Step          int                `json:"step" validate:"required,min=1,max=5"`
	ApplicationID *uuid.UUID         `json:"application_id,omitempty"`
	Company       *CompanyStepInput  `json:"company,omitempty"`
	Personal      *PersonalStepInput `json:"personal,omitempty"`
	Funding       *FundingStepInput  `json:"funding,omitempty"`
}

// CompanyForm is the merged company view shown in the wizard.
type CompanyForm struct {
	Name              string              `json:"name"`
	CompanyNumber     *string             `json:"company_number,omitempty"`
	Industry          *string             `json:"industry,omitempty"`
	BusinessType      *enums.BusinessType `json:"business_type,omitempty"`
	RegisteredAddress *string             `json:"registered_address,omitempty"`
}

// PersonalForm is the merged personal-details view.
type PersonalForm struct {
	FirstName      *string               `json:"first_name,omitempty"`
	LastName       *string               `json:"last_name,omitempty"`
	Email          string                `json:"email"`
	Phone          *string               `json:"phone,omitempty"`
	DateOfBirth    *time.Time            `json:"date_of_birth,omitempty"`
	PropertyStatus *enums.PropertyStatus `json:"property_status,omitempty"`
}

// FundingForm is the merged funding-request view.
type FundingForm struct {
	Amount         *decimal.Decimal      `json:"amount,omitempty"`
	Purpose        *enums.FundingPurpose `json:"purpose,omitempty"`
	PurposeDetail  *string               `json:"purpose_detail,omitempty"`
	LoanType       *enums.LoanType       `json:"loan_type,omitempty"`
	Urgency        *enums.Urgency        `json:"urgency,omitempty"`
	MonthlyRevenue *decimal.Decimal      `json:"monthly_revenue,omitempty"`
	TradingMonths  *int                  `json:"trading_months,omitempty"`
}

// DocumentSummary lists what the wizard needs to know about an upload.
type DocumentSummary struct {
	ID       uuid.UUID              `json:"id"`
	Category enums.DocumentCategory `json:"category"`
	FileName string                 `json:"file_name"`
}

// FormState is the resolved wizard form: one draft application plus the
// merged company/profile fields feeding each step.
type FormState struct {
	ApplicationID *uuid.UUID        `json:"application_id,omitempty"`
	CompanyID     *uuid.UUID        `json:"company_id,omitempty"`
	Step          int               `json:"step"`
	Company       CompanyForm       `json:"company"`
	Personal      PersonalForm      `json:"personal"`
	Funding       FundingForm       `json:"funding"`
	Documents     []DocumentSummary `json:"documents"`
	Degraded      bool              `json:"degraded"`
}

// SubmitResult reports the outcome of the final wizard action.
type SubmitResult struct {
	ApplicationID uuid.UUID              `json:"application_id"`
	Stage         enums.ApplicationStage `json:"stage"`
	SubmittedAt   time.Time              `json:"submitted_at"`
}
