package intake

import (
	"regexp"
	"strings"
	"time"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

// ukPhonePattern accepts UK mobiles and landlines in national (0xxxx) or
// international (+44 / 0044) form, with optional spaces.
var ukPhonePattern = regexp.MustCompile(`^(\+44\s?|0044\s?|0)([1-9]\d{8,9})$`)

// ValidUKPhone reports whether the value is a plausible UK phone number.
func ValidUKPhone(value string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return false
	}
	return ukPhonePattern.MatchString(cleaned)
}

// IsAdult reports whether the person is at least 18 on the reference date,
// comparing full year/month/day rather than subtracting years.
func IsAdult(dob, ref time.Time) bool {
	cutoff := dob.AddDate(18, 0, 0)
	return !ref.Before(cutoff)
}

func validateCompanyStep(input *CompanyStepInput) error {
	if input == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "company details required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if strings.TrimSpace(input.Industry) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "industry is required")
	}
	if strings.TrimSpace(input.DirectorFirstName) == "" || strings.TrimSpace(input.DirectorLastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "director identity is required")
	}
	if input.BusinessType != nil && !input.BusinessType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown business type")
	}
	return nil
}

func validatePersonalStep(input *PersonalStepInput, now time.Time) error {
	if input == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "personal details required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if !ValidUKPhone(input.Phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid UK number")
	}
	if input.DateOfBirth.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date of birth is required")
	}
	if !IsAdult(input.DateOfBirth, now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "applicant must be at least 18")
	}
	if !input.PropertyStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown property status")
	}
	return nil
}

func validateFundingStep(input *FundingStepInput) error {
	if input == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "funding request required")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "funding amount must be positive")
	}
	if !input.Purpose.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown funding purpose")
	}
	if input.LoanType != nil && !input.LoanType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown loan type")
	}
	if input.Urgency != nil && !input.Urgency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown urgency")
	}
	if input.MonthlyRevenue != nil && input.MonthlyRevenue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "monthly revenue must not be negative")
	}
	if input.TradingMonths != nil && *input.TradingMonths < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "trading months must not be negative")
	}
	return nil
}

func hasBankStatements(categories []enums.DocumentCategory) bool {
	for _, category := range categories {
		if category == enums.DocumentCategoryBankStatements {
			return true
		}
	}
	return false
}
