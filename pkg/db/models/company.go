package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// Company is the applicant business, owned by exactly one client profile and
// optionally linked to the referring partner and their partner company.
type Company struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string              `gorm:"column:name;not null"`
	CompanyNumber     *string             `gorm:"column:company_number"`
	Industry          *string             `gorm:"column:industry"`
	BusinessType      *enums.BusinessType `gorm:"column:business_type;type:text"`
	RegisteredAddress *string             `gorm:"column:registered_address"`
	PrimaryDirectorID uuid.UUID           `gorm:"column:primary_director_id;type:uuid;not null"`
	ReferredByID      *uuid.UUID          `gorm:"column:referred_by_id;type:uuid"`
	PartnerCompanyID  *uuid.UUID          `gorm:"column:partner_company_id;type:uuid"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
