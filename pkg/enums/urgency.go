package enums

import "fmt"

// Urgency captures how quickly the applicant needs the funds.
type Urgency string

const (
	UrgencyImmediate     Urgency = "immediate"
	UrgencyWithinMonth   Urgency = "within_month"
	UrgencyWithinQuarter Urgency = "within_quarter"
	UrgencyExploratory   Urgency = "exploratory"
)

var validUrgencies = []Urgency{
	UrgencyImmediate,
	UrgencyWithinMonth,
	UrgencyWithinQuarter,
	UrgencyExploratory,
}

// String implements fmt.Stringer.
func (u Urgency) String() string {
	return string(u)
}

// IsValid reports whether the value is a known Urgency.
func (u Urgency) IsValid() bool {
	for _, candidate := range validUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUrgency converts raw input into an Urgency.
func ParseUrgency(value string) (Urgency, error) {
	for _, candidate := range validUrgencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid urgency %q", value)
}
