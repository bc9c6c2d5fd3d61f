package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/report"
	"github.com/shopspring/decimal"
)

// ImportOptions controls how an import is saved.
type ImportOptions struct {
	OriginalName string
	DisplayName  string // Defaults to OriginalName
	// Force saves the import even when a file with the same name or the same dates exists.
	Force bool
}

// ImportResult describes a saved import.
type ImportResult struct {
	File          *model.File
	Learned       []string
	SameNameFiles []model.File
	SameDateFiles []model.File
	Rows          int
}

// ImportTransactions saves parsed rows as a new file. A file with the same original name or the
// same set of dates is refused unless opts.Force is set. Categories the chart does not know are
// added as Expense.
func (e *Engine) ImportTransactions(ctx context.Context, opts ImportOptions, txns []model.Transaction) (ImportResult, error) {
	if len(txns) == 0 {
		return ImportResult{}, common.NewUserError("The file has no transactions", common.ErrNoTransactions)
	}
	if strings.TrimSpace(opts.OriginalName) == "" {
		return ImportResult{}, fmt.Errorf("import name is required")
	}
	if opts.DisplayName == "" {
		opts.DisplayName = opts.OriginalName
	}

	var result ImportResult
	var err error

	result.SameNameFiles, err = e.storage.FindFilesByOriginalName(ctx, opts.OriginalName)
	if err != nil {
		return result, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if len(result.SameNameFiles) > 0 && !opts.Force {
		return result, common.NewUserError(
			fmt.Sprintf("A file named %q was already imported as %q", opts.OriginalName, result.SameNameFiles[0].DisplayName),
			common.ErrDuplicateEntry)
	}

	result.SameDateFiles, err = e.storage.FindFilesWithSameDates(ctx, uniqueDates(txns))
	if err != nil {
		return result, fmt.Errorf("failed to check for duplicate dates: %w", err)
	}
	if len(result.SameDateFiles) > 0 {
		if !opts.Force {
			return result, common.NewUserError(
				fmt.Sprintf("%q covers the same dates as %q", opts.OriginalName, result.SameDateFiles[0].DisplayName),
				common.ErrDuplicateEntry)
		}
		slog.Warn("importing a file with the same dates as an existing file",
			"name", opts.OriginalName,
			"existing", result.SameDateFiles[0].DisplayName)
	}

	result.Learned, err = e.LearnCategories(ctx, txns)
	if err != nil {
		return result, err
	}

	data, err := rawRows(txns)
	if err != nil {
		return result, err
	}

	file := &model.File{
		OriginalName: opts.OriginalName,
		DisplayName:  opts.DisplayName,
		Data:         data,
	}
	if err := e.storage.SaveFile(ctx, file); err != nil {
		return result, fmt.Errorf("failed to save file: %w", err)
	}
	if err := e.storage.SaveTransactions(ctx, file.ID, txns); err != nil {
		return result, fmt.Errorf("failed to save transactions: %w", err)
	}

	result.File = file
	result.Rows = len(txns)

	slog.Info("imported file",
		"file_id", file.ID,
		"name", file.DisplayName,
		"rows", result.Rows,
		"learned_categories", len(result.Learned))
	return result, nil
}

// ProfitAndLoss builds the statement for every saved transaction dated within [from, to].
// Zero bounds are open.
func (e *Engine) ProfitAndLoss(ctx context.Context, from, to time.Time, startingCash decimal.Decimal) (*report.Statement, error) {
	txns, err := e.storage.GetAllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	reg, err := e.Registry(ctx)
	if err != nil {
		return nil, err
	}

	if !from.IsZero() || !to.IsZero() {
		txns = report.FilterRange(txns, from, to)
	}
	return report.Generate(txns, reg, startingCash), nil
}

// SetCategory assigns a chart category to one saved transaction and returns the canonical
// category name. With remember set, the transaction's description is saved as a contains rule.
func (e *Engine) SetCategory(ctx context.Context, fileID, transactionID int64, category string, remember bool) (string, error) {
	reg, err := e.Registry(ctx)
	if err != nil {
		return "", err
	}

	name := model.Uncategorized
	if !model.IsUncategorized(category) {
		resolved, ok := reg.Resolve(category)
		if !ok {
			return "", common.NewUserError(
				fmt.Sprintf("%q is not in the chart of accounts", category),
				common.ErrNotFound)
		}
		name = resolved
	}

	if err := e.storage.UpdateTransactionCategory(ctx, fileID, transactionID, name); err != nil {
		return "", err
	}

	if remember && name != model.Uncategorized {
		if err := e.rememberRule(ctx, fileID, transactionID, name); err != nil {
			return name, err
		}
	}
	return name, nil
}

func (e *Engine) rememberRule(ctx context.Context, fileID, transactionID int64, category string) error {
	txns, err := e.storage.GetTransactions(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, txn := range txns {
		if txn.ID != transactionID {
			continue
		}
		needle := strings.ToLower(strings.TrimSpace(txn.Description))
		if needle == "" {
			return nil
		}
		rule := &model.Rule{
			Pattern:    needle,
			Category:   category,
			RuleType:   model.RuleTypeContains,
			Confidence: 1.0,
		}
		if err := e.storage.SaveRule(ctx, rule); err != nil {
			return fmt.Errorf("failed to save rule: %w", err)
		}
		slog.Info("saved categorization rule", "pattern", needle, "category", category)
		return nil
	}
	return fmt.Errorf("transaction %d in file %d: %w", transactionID, fileID, common.ErrNotFound)
}

// Suggest returns a category suggestion for a single description.
func (e *Engine) Suggest(ctx context.Context, description string, amount decimal.Decimal) (pattern.Suggestion, error) {
	suggester, err := e.NewSuggester(ctx)
	if err != nil {
		return pattern.Suggestion{}, err
	}
	return suggester.Suggest(ctx, description, amount)
}

func uniqueDates(txns []model.Transaction) []string {
	seen := make(map[string]struct{}, len(txns))
	dates := make([]string, 0, len(txns))
	for _, t := range txns {
		if t.Date == "" {
			continue
		}
		if _, ok := seen[t.Date]; ok {
			continue
		}
		seen[t.Date] = struct{}{}
		dates = append(dates, t.Date)
	}
	sort.Strings(dates)
	return dates
}

// rawRows serializes the imported rows, source columns included, for File.Data.
func rawRows(txns []model.Transaction) (string, error) {
	rows := make([]map[string]string, len(txns))
	for i, t := range txns {
		row := make(map[string]string, len(t.Original)+4)
		for k, v := range t.Original {
			row[k] = v
		}
		row["date"] = t.Date
		row["description"] = t.Description
		row["amount"] = t.Amount.String()
		row["category"] = t.Category
		rows[i] = row
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode file data: %w", err)
	}
	return string(data), nil
}
