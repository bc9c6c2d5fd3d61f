package model

import (
	"fmt"
	"strings"
)

// CategoryType is the accounting section a category rolls up into.
type CategoryType string

const (
	// CategoryTypeIncome represents operating revenue.
	CategoryTypeIncome CategoryType = "Income"
	// CategoryTypeCOGS represents cost of goods sold, stored as negative amounts.
	CategoryTypeCOGS CategoryType = "COGS"
	// CategoryTypeExpense represents operating expenses. Unknown categories fall back to it.
	CategoryTypeExpense CategoryType = "Expense"
	// CategoryTypeOtherIncome represents non-operating income.
	CategoryTypeOtherIncome CategoryType = "Other Income"
	// CategoryTypeBalanceSheet represents cash movements that are not profit or loss.
	CategoryTypeBalanceSheet CategoryType = "Balance Sheet"
)

// Uncategorized is the label used for transactions without a category.
const Uncategorized = "Uncategorized"

// CategoryTypes lists every valid type in statement section order.
var CategoryTypes = []CategoryType{
	CategoryTypeIncome,
	CategoryTypeCOGS,
	CategoryTypeExpense,
	CategoryTypeOtherIncome,
	CategoryTypeBalanceSheet,
}

// Valid reports whether t is one of the five known types.
func (t CategoryType) Valid() bool {
	for _, known := range CategoryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseCategoryType resolves a type label case-insensitively.
// An empty label resolves to Expense.
func ParseCategoryType(s string) (CategoryType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryTypeExpense, nil
	}
	for _, known := range CategoryTypes {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category type %q", s)
}

// Category is a single chart of accounts entry.
type Category struct {
	Name string
	Type CategoryType
}

// IsUncategorized reports whether a category label means "no category".
func IsUncategorized(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || c == Uncategorized
}
