package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// LenderSubmission is the commercial record of one outbound delivery attempt
// for an (application, lender) pair. At most one row exists per pair.
type LenderSubmission struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID              `gorm:"column:application_id;type:uuid;not null;uniqueIndex:idx_submission_app_lender"`
	LenderID      uuid.UUID              `gorm:"column:lender_id;type:uuid;not null;uniqueIndex:idx_submission_app_lender"`
	Method        enums.SubmissionMethod `gorm:"column:method;type:text;not null"`
	Status        enums.SubmissionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SentAt        *time.Time             `gorm:"column:sent_at"`
	RetryCount    int                    `gorm:"column:retry_count;not null;default:0"`
	LastError     *string                `gorm:"column:last_error"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
