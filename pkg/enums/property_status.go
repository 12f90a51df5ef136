package enums

import "fmt"

// PropertyStatus records the applicant's housing position, used by lender
// eligibility rules that require homeowners.
type PropertyStatus string

const (
	PropertyStatusHomeownerMortgage PropertyStatus = "homeowner_mortgage"
	PropertyStatusHomeownerOutright PropertyStatus = "homeowner_outright"
	PropertyStatusRenting           PropertyStatus = "renting"
	PropertyStatusLivingWithFamily  PropertyStatus = "living_with_family"
	PropertyStatusOther             PropertyStatus = "other"
)

var validPropertyStatuses = []PropertyStatus{
	PropertyStatusHomeownerMortgage,
	PropertyStatusHomeownerOutright,
	PropertyStatusRenting,
	PropertyStatusLivingWithFamily,
	PropertyStatusOther,
}

// String implements fmt.Stringer.
func (p PropertyStatus) String() string {
	return string(p)
}

// IsHomeowner reports whether the status satisfies homeowner-only criteria.
func (p PropertyStatus) IsHomeowner() bool {
	return p == PropertyStatusHomeownerMortgage || p == PropertyStatusHomeownerOutright
}

// IsValid reports whether the value is a known PropertyStatus.
func (p PropertyStatus) IsValid() bool {
	for _, candidate := range validPropertyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePropertyStatus converts raw input into a PropertyStatus.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	for _, candidate := range validPropertyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property status %q", value)
}
