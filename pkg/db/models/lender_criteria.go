package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// LenderCriteria is the static per-lender constraint record consumed by the
// external eligibility matcher. The engine persists it and filters on panel
// visibility only.
type LenderCriteria struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LenderID              uuid.UUID            `gorm:"column:lender_id;type:uuid;not null;uniqueIndex"`
	MinTradingMonths      *int                 `gorm:"column:min_trading_months"`
	MinLoan               decimal.NullDecimal  `gorm:"column:min_loan;type:numeric(14,2)"`
	MaxLoan               decimal.NullDecimal  `gorm:"column:max_loan;type:numeric(14,2)"`
	AllowedBusinessTypes  []enums.BusinessType `gorm:"column:allowed_business_types;type:jsonb;serializer:json"`
	IndustryDenyList      []string             `gorm:"column:industry_deny_list;type:jsonb;serializer:json"`
	MaxCCJCount           *int                 `gorm:"column:max_ccj_count"`
	RequiresHomeowner     bool                 `gorm:"column:requires_homeowner;not null;default:false"`
	RequiresCardPayments  bool                 `gorm:"column:requires_card_payments;not null;default:false"`
	AllowsExistingLending bool                 `gorm:"column:allows_existing_lending;not null;default:true"`
	MinTermMonths         *int                 `gorm:"column:min_term_months"`
	MaxTermMonths         *int                 `gorm:"column:max_term_months"`
	RequiresProfitable    bool                 `gorm:"column:requires_profitable;not null;default:false"`
	MinNetAssets          decimal.NullDecimal  `gorm:"column:min_net_assets;type:numeric(14,2)"`
	PanelVisible          bool                 `gorm:"column:panel_visible;not null;default:true"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
