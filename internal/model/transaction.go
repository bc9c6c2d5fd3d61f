package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the date formats accepted from bank exports, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/06",
}

// Transaction represents a single imported bank or card row.
type Transaction struct {
	Original    map[string]string // Source columns carried through untouched
	Date        string            // Raw date text; may be empty or unparseable
	Description string
	Category    string
	Amount      decimal.Decimal // Positive is inflow, negative is outflow
	Confidence  float64
	ID          int64
	FileID      int64
}

// ParseDate parses a transaction date in any of the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsedDate returns the transaction's calendar date, if it has a valid one.
func (t Transaction) ParsedDate() (time.Time, bool) {
	return ParseDate(t.Date)
}

// IsCategorized reports whether the transaction carries a real category.
func (t Transaction) IsCategorized() bool {
	return !IsUncategorized(t.Category)
}
