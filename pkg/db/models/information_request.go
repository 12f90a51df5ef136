package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// InformationRequest is one admin-initiated request for additional material.
// client_responded_at is non-null iff the status has reached
// client_responded/completed.
type InformationRequest struct {
	ID                 uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID      uuid.UUID                      `gorm:"column:application_id;type:uuid;not null;index"`
	CreatedByID        uuid.UUID                      `gorm:"column:created_by_id;type:uuid;not null"`
	Title              string                         `gorm:"column:title;not null"`
	Message            string                         `gorm:"column:message;not null"`
	Description        *string                        `gorm:"column:description"`
	Status             enums.InformationRequestStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ClientResponseText *string                        `gorm:"column:client_response_text"`
	ClientRespondedAt  *time.Time                     `gorm:"column:client_responded_at"`
	ResolvedAt         *time.Time                     `gorm:"column:resolved_at"`
	CreatedAt          time.Time                      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                      `gorm:"column:updated_at;autoUpdateTime"`
}
