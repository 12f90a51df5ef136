package enums

import "fmt"

// BusinessType is the legal structure of the applicant's company.
type BusinessType string

const (
	BusinessTypeLimitedCompany BusinessType = "limited_company"
	BusinessTypeSoleTrader     BusinessType = "sole_trader"
	BusinessTypePartnership    BusinessType = "partnership"
	BusinessTypeLLP            BusinessType = "llp"
)

var validBusinessTypes = []BusinessType{
	BusinessTypeLimitedCompany,
	BusinessTypeSoleTrader,
	BusinessTypePartnership,
	BusinessTypeLLP,
}

// String implements fmt.Stringer.
func (b BusinessType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BusinessType.
func (b BusinessType) IsValid() bool {
	for _, candidate := range validBusinessTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBusinessType converts raw input into a BusinessType.
func ParseBusinessType(value string) (BusinessType, error) {
	for _, candidate := range validBusinessTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid business type %q", value)
}
