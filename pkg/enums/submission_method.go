package enums

import "fmt"

// SubmissionMethod is the outbound channel used to deliver an application to
// a lender.
type SubmissionMethod string

const (
	SubmissionMethodAPI   SubmissionMethod = "api"
	SubmissionMethodEmail SubmissionMethod = "email"
)

var validSubmissionMethods = []SubmissionMethod{
	SubmissionMethodAPI,
	SubmissionMethodEmail,
}

// String implements fmt.Stringer.
func (s SubmissionMethod) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionMethod.
func (s SubmissionMethod) IsValid() bool {
	for _, candidate := range validSubmissionMethods {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionMethod converts raw input into a SubmissionMethod.
func ParseSubmissionMethod(value string) (SubmissionMethod, error) {
	for _, candidate := range validSubmissionMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission method %q", value)
}
