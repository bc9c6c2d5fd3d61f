// Package pattern suggests categories for new transactions from the descriptions of
// transactions that were already categorized.
package pattern

import (
	"context"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/shopspring/decimal"
)

// CategorySuggester suggests a single category for a transaction description.
type CategorySuggester interface {
	// Suggest returns a registry category name or model.Uncategorized, with a confidence in [0, 1].
	Suggest(ctx context.Context, description string, amount decimal.Decimal) (Suggestion, error)
}

// Assistant is an external service that picks a category given the similar history rows.
type Assistant interface {
	SuggestCategory(ctx context.Context, req AssistantRequest) (AssistantResponse, error)
}

// AssistantRequest carries everything an assistant needs to pick a category.
type AssistantRequest struct {
	Description string
	Amount      decimal.Decimal
	Similar     []Match
	Categories  []model.Category
}

// AssistantResponse is the raw answer of an assistant, before validation.
type AssistantResponse struct {
	Category   string
	Confidence float64
}

// Suggestion represents a category suggestion with confidence and reasoning.
type Suggestion struct {
	Category   string
	Reason     string
	Matches    []Match
	Confidence float64
}

// HistoricalTransaction is a previously categorized description.
type HistoricalTransaction struct {
	Description string
	Category    string
}

// Match is a history row that passed the similarity thresholds.
type Match struct {
	Description string
	Category    string
	Similarity  float64
	Common      int
}
