package enums

import "fmt"

// FundingPurpose is the declared use of the requested funds.
type FundingPurpose string

const (
	FundingPurposeWorkingCapital FundingPurpose = "working_capital"
	FundingPurposeExpansion      FundingPurpose = "expansion"
	FundingPurposeEquipment      FundingPurpose = "equipment"
	FundingPurposeRefinance      FundingPurpose = "refinance"
	FundingPurposeStock          FundingPurpose = "stock"
	FundingPurposeOther          FundingPurpose = "other"
)

var validFundingPurposes = []FundingPurpose{
	FundingPurposeWorkingCapital,
	FundingPurposeExpansion,
	FundingPurposeEquipment,
	FundingPurposeRefinance,
	FundingPurposeStock,
	FundingPurposeOther,
}

// String implements fmt.Stringer.
func (f FundingPurpose) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FundingPurpose.
func (f FundingPurpose) IsValid() bool {
	for _, candidate := range validFundingPurposes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFundingPurpose converts raw input into a FundingPurpose.
func ParseFundingPurpose(value string) (FundingPurpose, error) {
	for _, candidate := range validFundingPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid funding purpose %q", value)
}
