package intake

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	pkgerrors "github.com/brokerlane/brokerlane-backend/pkg/errors"
)

func TestValidUKPhone(t *testing.T) {
	valid := []string{
		"07700 900000",
		"07700900000",
		"+447700900000",
		"+44 7700 900000",
		"020 7946 0123",
		"0044 7700 900000",
	}
	for _, number := range valid {
		assert.True(t, ValidUKPhone(number), "expected %q to be valid", number)
	}

	invalid := []string{
		"",
		"12345",
		"07700",
		"+1 415 555 0100",
		"hello",
		"00000000000",
	}
	for _, number := range invalid {
		assert.False(t, ValidUKPhone(number), "expected %q to be invalid", number)
	}
}

func TestIsAdultFullDateComparison(t *testing.T) {
	ref := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	// Exactly 18 today.
	assert.True(t, IsAdult(time.Date(2008, time.March, 15, 0, 0, 0, 0, time.UTC), ref))
	// 18th birthday tomorrow: year subtraction alone would wrongly pass this.
	assert.False(t, IsAdult(time.Date(2008, time.March, 16, 0, 0, 0, 0, time.UTC), ref))
	// Comfortably adult.
	assert.True(t, IsAdult(time.Date(1990, time.July, 1, 0, 0, 0, 0, time.UTC), ref))
	// Comfortably minor.
	assert.False(t, IsAdult(time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), ref))
}

func TestValidatePersonalStep(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	base := PersonalStepInput{
		FirstName:      "Amira",
		LastName:       "Khan",
		Phone:          "07700 900000",
		DateOfBirth:    time.Date(1991, time.May, 2, 0, 0, 0, 0, time.UTC),
		PropertyStatus: enums.PropertyStatusHomeownerMortgage,
	}
	require.NoError(t, validatePersonalStep(&base, now))

	bad := base
	bad.Phone = "12345"
	err := validatePersonalStep(&bad, now)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	bad = base
	bad.DateOfBirth = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Error(t, validatePersonalStep(&bad, now))
}

func TestValidateFundingStep(t *testing.T) {
	amount := decimal.NewFromInt(50000)
	input := FundingStepInput{
		Amount:  amount,
		Purpose: enums.FundingPurposeWorkingCapital,
	}
	require.NoError(t, validateFundingStep(&input))

	input.Amount = decimal.NewFromInt(-10)
	assert.Error(t, validateFundingStep(&input))

	input.Amount = decimal.Zero
	assert.Error(t, validateFundingStep(&input))

	input.Amount = amount
	input.Purpose = enums.FundingPurpose("speculation")
	assert.Error(t, validateFundingStep(&input))
}

func TestValidateCompanyStep(t *testing.T) {
	input := CompanyStepInput{
		Name:              "Halcyon Trading Ltd",
		Industry:          "wholesale",
		DirectorFirstName: "Amira",
		DirectorLastName:  "Khan",
	}
	require.NoError(t, validateCompanyStep(&input))

	missing := input
	missing.Industry = "  "
	assert.Error(t, validateCompanyStep(&missing))

	missing = input
	missing.DirectorLastName = ""
	assert.Error(t, validateCompanyStep(&missing))

	assert.Error(t, validateCompanyStep(nil))
}
