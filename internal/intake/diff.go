package intake

import (
	"time"

	"github.com/shopspring/decimal"
)

// The wizard writes only fields that actually changed. A nil desired value
// means "not provided this step" and never produces a write, so an admin edit
// made between steps survives untouched.

func diffString(updates map[string]any, column string, current *string, desired string) {
	if current != nil && *current == desired {
		return
	}
	updates[column] = desired
}

func diffStringPtr(updates map[string]any, column string, current, desired *string) {
	if desired == nil {
		return
	}
	if current != nil && *current == *desired {
		return
	}
	updates[column] = *desired
}

func diffIntPtr(updates map[string]any, column string, current, desired *int) {
	if desired == nil {
		return
	}
	if current != nil && *current == *desired {
		return
	}
	updates[column] = *desired
}

func diffDatePtr(updates map[string]any, column string, current *time.Time, desired time.Time) {
	if desired.IsZero() {
		return
	}
	if current != nil && current.Equal(desired) {
		return
	}
	updates[column] = desired
}

func diffDecimal(updates map[string]any, column string, current decimal.NullDecimal, desired *decimal.Decimal) {
	if desired == nil {
		return
	}
	if current.Valid && current.Decimal.Equal(*desired) {
		return
	}
	updates[column] = *desired
}

// diffEnum covers the *T enum columns; T is the enum's string kind.
func diffEnum[T ~string](updates map[string]any, column string, current *T, desired *T) {
	if desired == nil {
		return
	}
	if current != nil && *current == *desired {
		return
	}
	updates[column] = string(*desired)
}
