package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Profile mirrors the auth user row owned by the external identity service.
// The ID matches the subject in the caller's access token.
type Profile struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Email            string                `gorm:"column:email;not null;uniqueIndex"`
	FirstName        *string               `gorm:"column:first_name"`
	LastName         *string               `gorm:"column:last_name"`
	Phone            *string               `gorm:"column:phone"`
	DateOfBirth      *time.Time            `gorm:"column:date_of_birth"`
	PropertyStatus   *enums.PropertyStatus `gorm:"column:property_status;type:text"`
	Role             enums.ActorRole       `gorm:"column:role;type:text;not null;default:'client'"`
	PartnerCompanyID *uuid.UUID            `gorm:"column:partner_company_id;type:uuid"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
