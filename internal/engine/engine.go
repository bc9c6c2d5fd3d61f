package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/Veraticus/bookkeeper/internal/service"
)

// Config holds configuration options for the engine.
type Config struct {
	// Review wraps the suggester used by CategorizeFile, for example to confirm each
	// suggestion interactively.
	Review       func(pattern.CategorySuggester) pattern.CategorySuggester
	HistoryLimit int  // Categorized rows used for similarity matching
	Force        bool // Re-categorize rows that already have a category
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{HistoryLimit: 500}
}

// Engine ties the store, the chart of accounts and the suggester together.
type Engine struct {
	storage   service.Storage
	assistant pattern.Assistant
	config    Config
}

// New creates an engine. assistant may be nil, in which case suggestions come from rules and
// history alone.
func New(storage service.Storage, assistant pattern.Assistant, config Config) *Engine {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultConfig().HistoryLimit
	}
	return &Engine{
		storage:   storage,
		assistant: assistant,
		config:    config,
	}
}

// Registry loads the chart of accounts.
func (e *Engine) Registry(ctx context.Context) (*registry.Registry, error) {
	chart, err := e.storage.GetChartOfAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	reg, err := registry.New(chart)
	if err != nil {
		return nil, fmt.Errorf("invalid chart of accounts: %w", err)
	}
	return reg, nil
}

// NewSuggester builds a suggester from the current chart, rules and history.
func (e *Engine) NewSuggester(ctx context.Context) (*pattern.Suggester, error) {
	reg, err := e.Registry(ctx)
	if err != nil {
		return nil, err
	}
	if reg.Len() == 0 {
		return nil, common.NewUserError("Add categories to the chart of accounts before categorizing", common.ErrEmptyChartOfAccounts)
	}

	rows, err := e.storage.GetCategorizedHistory(ctx, e.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	history := make([]pattern.HistoricalTransaction, 0, len(rows))
	for _, row := range rows {
		history = append(history, pattern.HistoricalTransaction{
			Description: row.Description,
			Category:    row.Category,
		})
	}

	rules, err := e.storage.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	opts := []pattern.SuggesterOption{pattern.WithRules(rules)}
	if e.assistant != nil {
		opts = append(opts, pattern.WithAssistant(e.assistant))
	}

	slog.Debug("built suggester",
		"categories", reg.Len(),
		"history", len(history),
		"rules", len(rules),
		"assistant", e.assistant != nil)
	return pattern.NewSuggester(reg, history, opts...), nil
}

// CategorizeFile categorizes a saved file's transactions and writes them back.
// Rows processed before a cancellation are still saved.
func (e *Engine) CategorizeFile(ctx context.Context, fileID int64, progress service.ProgressFunc) (Result, error) {
	txns, err := e.storage.GetTransactions(ctx, fileID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txns) == 0 {
		return Result{}, common.ErrNoTransactions
	}

	base, err := e.NewSuggester(ctx)
	if err != nil {
		return Result{}, err
	}
	var suggester pattern.CategorySuggester = base
	if e.config.Review != nil {
		suggester = e.config.Review(base)
	}

	updated, result, runErr := Categorize(ctx, suggester, txns, e.config.Force, progress)

	// Saving must outlive a cancelled run.
	saveCtx := context.WithoutCancel(ctx)
	if err := e.storage.SaveTransactions(saveCtx, fileID, updated); err != nil {
		return result, fmt.Errorf("failed to save categorized transactions: %w", err)
	}

	slog.Info("categorized file",
		"file_id", fileID,
		"total", result.Total,
		"categorized", result.Categorized,
		"unmatched", result.Unmatched,
		"failed", result.Failed,
		"skipped", result.Skipped)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// LearnCategories adds every category used by txns that the chart does not know yet, as
// Expense. It returns the names that were added.
func (e *Engine) LearnCategories(ctx context.Context, txns []model.Transaction) ([]string, error) {
	reg, err := e.Registry(ctx)
	if err != nil {
		return nil, err
	}

	var learned []string
	for _, txn := range txns {
		if !txn.IsCategorized() || reg.Contains(txn.Category) {
			continue
		}
		added, err := e.storage.AddCategory(ctx, txn.Category, model.CategoryTypeExpense)
		if err != nil {
			return learned, fmt.Errorf("failed to add category %q: %w", txn.Category, err)
		}
		if _, err := reg.Add(txn.Category, model.CategoryTypeExpense); err != nil {
			return learned, err
		}
		if added {
			learned = append(learned, registry.NormalizeName(txn.Category))
		}
	}

	if len(learned) > 0 {
		slog.Info("learned categories from import", "count", len(learned))
	}
	return learned, nil
}
