package enums

import "fmt"

// InformationRequestStatus tracks an admin-to-client request for additional
// material. Completed requests are terminal.
type InformationRequestStatus string

const (
	InformationRequestStatusPending         InformationRequestStatus = "pending"
	InformationRequestStatusClientResponded InformationRequestStatus = "client_responded"
	InformationRequestStatusCompleted       InformationRequestStatus = "completed"
)

var validInformationRequestStatuses = []InformationRequestStatus{
	InformationRequestStatusPending,
	InformationRequestStatusClientResponded,
	InformationRequestStatusCompleted,
}

// String implements fmt.Stringer.
func (i InformationRequestStatus) String() string {
	return string(i)
}

// HasResponse reports whether the status implies a recorded client response.
func (i InformationRequestStatus) HasResponse() bool {
	return i == InformationRequestStatusClientResponded || i == InformationRequestStatusCompleted
}

// IsValid reports whether the value is a known InformationRequestStatus.
func (i InformationRequestStatus) IsValid() bool {
	for _, candidate := range validInformationRequestStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInformationRequestStatus converts raw input into an InformationRequestStatus.
func ParseInformationRequestStatus(value string) (InformationRequestStatus, error) {
	for _, candidate := range validInformationRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid information request status %q", value)
}
