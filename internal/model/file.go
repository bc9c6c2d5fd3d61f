package model

import "time"

// File is a saved import: the raw export plus the transactions derived from it.
type File struct {
	UploadedAt   time.Time
	OriginalName string
	DisplayName  string
	Data         string // Raw source rows as JSON
	ID           int64
}

// Rule is a persisted description pattern that maps to a category.
type Rule struct {
	Pattern    string
	Category   string
	RuleType   string
	Confidence float64
	ID         int64
}

// Rule types.
const (
	RuleTypeContains = "contains" // Case-insensitive substring of the description
	RuleTypeRegex    = "regex"    // Case-insensitive regular expression
)
