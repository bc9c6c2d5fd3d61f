// Package engine runs category suggestion over imported transactions.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/service"
)

// Failure records a transaction the suggester could not handle.
type Failure struct {
	Err         error
	Description string
	Index       int
}

// Result summarizes one categorization run.
type Result struct {
	Failures    []Failure
	Total       int // Transactions considered for categorization
	Categorized int // Assigned a registry category
	Unmatched   int // Left Uncategorized for lack of evidence
	Failed      int
	Skipped     int // Already categorized and not forced
}

// Categorize suggests a category for every uncategorized transaction, or every transaction
// when force is set. It works on a copy and returns it. A failing suggestion leaves that row
// untouched and the loop carries on. Progress is reported after each row. Cancellation stops
// the loop and returns the rows processed so far with the context error.
func Categorize(ctx context.Context, suggester pattern.CategorySuggester, txns []model.Transaction, force bool, progress service.ProgressFunc) ([]model.Transaction, Result, error) {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)

	var pending []int
	for i, txn := range out {
		if txn.IsCategorized() && !force {
			continue
		}
		pending = append(pending, i)
	}

	result := Result{
		Total:   len(pending),
		Skipped: len(out) - len(pending),
	}

	for done, idx := range pending {
		if err := ctx.Err(); err != nil {
			return out, result, err
		}

		txn := &out[idx]
		suggestion, err := suggester.Suggest(ctx, txn.Description, txn.Amount)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, result, ctxErr
			}
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				Index:       idx,
				Description: txn.Description,
				Err:         err,
			})
			slog.Warn("failed to categorize transaction",
				"description", txn.Description,
				"error", err)
		case model.IsUncategorized(suggestion.Category):
			txn.Category = model.Uncategorized
			txn.Confidence = 0
			result.Unmatched++
		default:
			txn.Category = suggestion.Category
			txn.Confidence = suggestion.Confidence
			result.Categorized++
			slog.Debug("categorized transaction",
				"description", txn.Description,
				"category", suggestion.Category,
				"confidence", suggestion.Confidence)
		}

		if progress != nil {
			progress(done+1, len(pending))
		}
	}

	return out, result, nil
}

// Summary renders the counts of a run on one line.
func (r Result) Summary() string {
	return fmt.Sprintf("%d considered, %d categorized, %d left uncategorized, %d failed, %d skipped",
		r.Total, r.Categorized, r.Unmatched, r.Failed, r.Skipped)
}
