package enums

import "fmt"

// SubmissionStatus tracks the delivery state of a per-lender submission row.
type SubmissionStatus string

const (
	SubmissionStatusPending      SubmissionStatus = "pending"
	SubmissionStatusSent         SubmissionStatus = "sent"
	SubmissionStatusFailed       SubmissionStatus = "failed"
	SubmissionStatusRetry        SubmissionStatus = "retry"
	SubmissionStatusAcknowledged SubmissionStatus = "acknowledged"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPending,
	SubmissionStatusSent,
	SubmissionStatusFailed,
	SubmissionStatusRetry,
	SubmissionStatusAcknowledged,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionStatus.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus converts raw input into a SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
