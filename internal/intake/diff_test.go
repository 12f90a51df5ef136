package intake

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

func TestDiffWritesOnlyChangedFields(t *testing.T) {
	current := "Halcyon Trading Ltd"
	updates := map[string]any{}

	diffString(updates, "name", &current, "Halcyon Trading Ltd")
	assert.Empty(t, updates, "identical value must not produce a write")

	diffString(updates, "name", &current, "Halcyon Trading Limited")
	assert.Equal(t, map[string]any{"name": "Halcyon Trading Limited"}, updates)
}

func TestDiffNilDesiredNeverWrites(t *testing.T) {
	phone := "07700 900000"
	months := 24
	updates := map[string]any{}

	diffStringPtr(updates, "phone", &phone, nil)
	diffIntPtr(updates, "trading_months", &months, nil)
	diffDecimal(updates, "requested_amount", decimal.NewNullDecimal(decimal.NewFromInt(50000)), nil)
	diffEnum[enums.LoanType](updates, "loan_type", nil, nil)

	assert.Empty(t, updates)
}

func TestDiffIdempotentUnderRepeatedInput(t *testing.T) {
	amount := decimal.NewFromInt(50000)
	stored := decimal.NewNullDecimal(amount)

	first := map[string]any{}
	diffDecimal(first, "requested_amount", decimal.NullDecimal{}, &amount)
	assert.Len(t, first, 1, "initial write expected")

	// After the write lands, re-submitting the same value is a no-op.
	second := map[string]any{}
	diffDecimal(second, "requested_amount", stored, &amount)
	assert.Empty(t, second)
}

func TestDiffDecimalComparesValueNotRepresentation(t *testing.T) {
	stored := decimal.NewNullDecimal(decimal.RequireFromString("50000.00"))
	desired := decimal.NewFromInt(50000)

	updates := map[string]any{}
	diffDecimal(updates, "requested_amount", stored, &desired)
	assert.Empty(t, updates, "50000.00 and 50000 are the same amount")
}

func TestDiffDatePtr(t *testing.T) {
	dob := time.Date(1991, time.May, 2, 0, 0, 0, 0, time.UTC)
	updates := map[string]any{}

	diffDatePtr(updates, "date_of_birth", &dob, dob)
	assert.Empty(t, updates)

	diffDatePtr(updates, "date_of_birth", nil, dob)
	assert.Len(t, updates, 1)

	updates = map[string]any{}
	diffDatePtr(updates, "date_of_birth", &dob, time.Time{})
	assert.Empty(t, updates, "zero time means not provided")
}

func TestDiffEnum(t *testing.T) {
	current := enums.LoanType("term_loan")
	desired := enums.LoanType("revolving_credit")

	updates := map[string]any{}
	diffEnum(updates, "loan_type", &current, &desired)
	assert.Equal(t, map[string]any{"loan_type": "revolving_credit"}, updates)

	updates = map[string]any{}
	diffEnum(updates, "loan_type", &current, &current)
	assert.Empty(t, updates)
}
