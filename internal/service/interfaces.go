// Package service defines the interfaces shared between the store and its callers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/bookkeeper/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	Query  string // Matched against description, category, amount and date text
	FileID int64  // Zero means every file
	Limit  int
	Offset int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// File operations
	SaveFile(ctx context.Context, file *model.File) error
	GetFiles(ctx context.Context) ([]model.File, error)
	GetFile(ctx context.Context, id int64) (*model.File, error)
	RenameFile(ctx context.Context, id int64, displayName string) error
	DeleteFile(ctx context.Context, id int64) error
	FindFilesByOriginalName(ctx context.Context, originalName string) ([]model.File, error)
	FindFilesWithSameDates(ctx context.Context, dates []string) ([]model.File, error)
	CleanOrphanedTransactions(ctx context.Context) (int64, error)

	// Chart of accounts operations
	GetChartOfAccounts(ctx context.Context) ([]model.Category, error)
	AddCategory(ctx context.Context, name string, categoryType model.CategoryType) (bool, error)
	SaveChartOfAccounts(ctx context.Context, categories []model.Category) (int, error)

	// Transaction operations
	SaveTransactions(ctx context.Context, fileID int64, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, fileID int64) ([]model.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]model.Transaction, error)
	GetCategorizedHistory(ctx context.Context, limit int) ([]model.Transaction, error)
	SearchTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, fileID, transactionID int64, category string) error

	// Rule operations
	SaveRule(ctx context.Context, rule *model.Rule) error
	GetRules(ctx context.Context) ([]model.Rule, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ProgressFunc is called after each unit of work with the number done and the total.
type ProgressFunc func(done, total int)
