package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Lender is a funding provider on (or off) the brokerage panel.
type Lender struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string                 `gorm:"column:name;not null"`
	Method       enums.SubmissionMethod `gorm:"column:method;type:text;not null;default:'email'"`
	ContactEmail *string                `gorm:"column:contact_email"`
	APIEndpoint  *string                `gorm:"column:api_endpoint"`
	Criteria     *LenderCriteria        `gorm:"foreignKey:LenderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
