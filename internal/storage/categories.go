package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
)

// GetChartOfAccounts returns every category ordered by name.
func (s *SQLiteStorage) GetChartOfAccounts(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_name, category_type
		FROM chart_of_accounts
		ORDER BY category_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart of accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var name string
		var rawType sql.NullString
		if err := rows.Scan(&name, &rawType); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		typ, err := model.ParseCategoryType(rawType.String)
		if err != nil {
			slog.Warn("unknown category type in chart of accounts, using Expense",
				"category", name,
				"type", rawType.String)
			typ = model.CategoryTypeExpense
		}
		categories = append(categories, model.Category{Name: name, Type: typ})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// AddCategory stores a category under its canonical name. It reports whether a row was
// inserted; an existing category is left untouched.
func (s *SQLiteStorage) AddCategory(ctx context.Context, name string, categoryType model.CategoryType) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return addCategory(ctx, s.db, name, categoryType)
}

// SaveChartOfAccounts adds every category in one transaction and returns how many were new.
func (s *SQLiteStorage) SaveChartOfAccounts(ctx context.Context, categories []model.Category) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for i, category := range categories {
		inserted, addErr := addCategory(ctx, tx, category.Name, category.Type)
		if addErr != nil {
			return 0, fmt.Errorf("category at index %d: %w", i, addErr)
		}
		if inserted {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit chart of accounts: %w", err)
	}

	slog.Info("saved chart of accounts", "categories", len(categories), "added", added)
	return added, nil
}

// LoadRegistry reads the chart of accounts into a registry.
func (s *SQLiteStorage) LoadRegistry(ctx context.Context) (*registry.Registry, error) {
	categories, err := s.GetChartOfAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return registry.New(categories)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addCategory(ctx context.Context, db execer, name string, categoryType model.CategoryType) (bool, error) {
	canonical := registry.NormalizeName(name)
	if err := validateString(canonical, "categoryName"); err != nil {
		return false, err
	}
	if categoryType == "" {
		categoryType = model.CategoryTypeExpense
	}
	if !categoryType.Valid() {
		return false, fmt.Errorf("unknown category type %q for %q", categoryType, name)
	}

	result, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO chart_of_accounts (category_name, category_type)
		VALUES (?, ?)`, canonical, string(categoryType))
	if err != nil {
		return false, fmt.Errorf("failed to add category: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n > 0, nil
}
