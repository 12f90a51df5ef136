package enums

import "fmt"

// DocumentCategory classifies an uploaded supporting document.
type DocumentCategory string

const (
	DocumentCategoryBankStatements     DocumentCategory = "bank_statements"
	DocumentCategoryManagementAccounts DocumentCategory = "management_accounts"
	DocumentCategoryCashflowForecast   DocumentCategory = "cashflow_forecast"
	DocumentCategoryOther              DocumentCategory = "other"
)

var validDocumentCategories = []DocumentCategory{
	DocumentCategoryBankStatements,
	DocumentCategoryManagementAccounts,
	DocumentCategoryCashflowForecast,
	DocumentCategoryOther,
}

// String implements fmt.Stringer.
func (d DocumentCategory) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentCategory.
func (d DocumentCategory) IsValid() bool {
	for _, candidate := range validDocumentCategories {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentCategory converts raw input into a DocumentCategory.
func ParseDocumentCategory(value string) (DocumentCategory, error) {
	for _, candidate := range validDocumentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document category %q", value)
}
