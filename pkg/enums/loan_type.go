package enums

import "fmt"

// LoanType classifies the funding product an applicant is asking for.
type LoanType string

const (
	LoanTypeTermLoan        LoanType = "term_loan"
	LoanTypeRevolvingCredit LoanType = "revolving_credit"
	LoanTypeAssetFinance    LoanType = "asset_finance"
	LoanTypeInvoiceFinance  LoanType = "invoice_finance"
	LoanTypeOther           LoanType = "other"
)

var validLoanTypes = []LoanType{
	LoanTypeTermLoan,
	LoanTypeRevolvingCredit,
	LoanTypeAssetFinance,
	LoanTypeInvoiceFinance,
	LoanTypeOther,
}

// String implements fmt.Stringer.
func (l LoanType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LoanType.
func (l LoanType) IsValid() bool {
	for _, candidate := range validLoanTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLoanType converts raw input into a LoanType.
func ParseLoanType(value string) (LoanType, error) {
	for _, candidate := range validLoanTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loan type %q", value)
}
