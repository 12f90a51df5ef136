package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer is a negotiated lender offer against an application. The accepted
// offer's terms are denormalized onto the application row.
type Offer struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID    uuid.UUID           `gorm:"column:application_id;type:uuid;not null;index"`
	LenderID         uuid.UUID           `gorm:"column:lender_id;type:uuid;not null"`
	Amount           decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null"`
	TermMonths       int                 `gorm:"column:term_months;not null"`
	TotalCost        decimal.NullDecimal `gorm:"column:total_cost;type:numeric(14,2)"`
	MonthlyRepayment decimal.NullDecimal `gorm:"column:monthly_repayment;type:numeric(14,2)"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
