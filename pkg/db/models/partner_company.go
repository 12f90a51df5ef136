package models

import (
	"time"

	"github.com/google/uuid"
)

// PartnerCompany is the brokerage/introducer firm a partner user belongs to.
type PartnerCompany struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
