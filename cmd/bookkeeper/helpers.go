package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/config"
	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/Veraticus/bookkeeper/internal/llm"
	"github.com/Veraticus/bookkeeper/internal/storage"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// newEngine builds an engine over store. The LLM assistant is attached when an API key is
// configured; the returned function releases it.
func newEngine(store *storage.SQLiteStorage, cfg engine.Config) (*engine.Engine, func(), error) {
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = config.HistoryLimit()
	}

	if !config.LLMEnabled() {
		slog.Debug("LLM assistant disabled, suggesting from rules and history only")
		return engine.New(store, nil, cfg), func() {}, nil
	}

	classifier, err := llm.NewClassifier(config.LoadLLMConfig(), slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return engine.New(store, classifier, cfg), func() { _ = classifier.Close() }, nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("%s must be a positive integer, got %q", what, raw), nil)
	}
	return id, nil
}

func parseDateFlag(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("--%s must be YYYY-MM-DD, got %q", name, raw), err)
	}
	return t, nil
}

func parseMoneyFlag(raw, name string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("--%s must be a number, got %q", name, raw), err)
	}
	return d, nil
}
