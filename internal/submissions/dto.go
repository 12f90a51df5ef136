package submissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// AvailableLender is one panel lender still selectable for an application.
type AvailableLender struct {
	ID     uuid.UUID              `json:"id"`
	Name   string                 `json:"name"`
	Method enums.SubmissionMethod `json:"method"`
}

// View is the projection of one submission row.
type View struct {
	ID            uuid.UUID              `json:"id"`
	ApplicationID uuid.UUID              `json:"application_id"`
	LenderID      uuid.UUID              `json:"lender_id"`
	Method        enums.SubmissionMethod `json:"method"`
	Status        enums.SubmissionStatus `json:"status"`
	SentAt        *time.Time             `json:"sent_at,omitempty"`
	RetryCount    int                    `json:"retry_count"`
	LastError     *string                `json:"last_error,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// BatchResult reports which lenders got new rows and which were skipped as
// already submitted-to.
type BatchResult struct {
	Created []View      `json:"created"`
	Skipped []uuid.UUID `json:"skipped,omitempty"`
}

// DeliveryOutcome is the per-lender result reported by the delivery collaborator.
type DeliveryOutcome string

const (
	DeliveryOutcomeSent   DeliveryOutcome = "sent"
	DeliveryOutcomeFailed DeliveryOutcome = "failed"
	DeliveryOutcomeRetry  DeliveryOutcome = "retry"
)
