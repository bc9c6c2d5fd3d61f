// Package testutil provides shared test fixtures: migrated in-memory stores with a seeded chart
// of accounts and saved files.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/Veraticus/bookkeeper/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Categories []model.Category
	Rules      []model.Rule
	// DefaultChart seeds the starter chart of accounts before Categories.
	DefaultChart bool
}

// SetupTestDB creates a migrated in-memory store seeded per opts. It is closed when the test
// ends.
//
// Example:
//
//	store := testutil.SetupTestDB(t, testutil.TestDBOptions{DefaultChart: true})
//	file := testutil.SeedFile(t, store, "jan.csv", testutil.Txn("2024-01-02", "Rent", "-1000", "Rent"))
func SetupTestDB(t *testing.T, opts TestDBOptions) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	chart := opts.Categories
	if opts.DefaultChart {
		chart = append(registry.DefaultChart(), chart...)
	}
	if len(chart) > 0 {
		if _, err := store.SaveChartOfAccounts(ctx, chart); err != nil {
			t.Fatalf("failed to seed chart of accounts: %v", err)
		}
	}

	for i := range opts.Rules {
		if err := store.SaveRule(ctx, &opts.Rules[i]); err != nil {
			t.Fatalf("failed to seed rule %q: %v", opts.Rules[i].Pattern, err)
		}
	}

	return store
}

// SeedFile saves a file with the given transactions and returns it.
func SeedFile(t *testing.T, store *storage.SQLiteStorage, name string, txns ...model.Transaction) *model.File {
	t.Helper()
	ctx := context.Background()

	file := &model.File{OriginalName: name, DisplayName: name, Data: "[]"}
	if err := store.SaveFile(ctx, file); err != nil {
		t.Fatalf("failed to save file %q: %v", name, err)
	}
	if err := store.SaveTransactions(ctx, file.ID, txns); err != nil {
		t.Fatalf("failed to save transactions for %q: %v", name, err)
	}
	return file
}

// Txn builds a transaction from literal values. It panics on a malformed amount.
func Txn(date, description, amount, category string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
	}
}
