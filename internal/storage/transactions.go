package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/Veraticus/bookkeeper/internal/service"
	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit is how many categorized rows feed similarity matching.
const DefaultHistoryLimit = 500

const transactionColumns = `id, file_id, transaction_date, description, amount, category, confidence, original_data`

// SaveTransactions replaces every transaction of a file with transactions. IDs are written back
// into the slice. Rows that already carry an ID keep it.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, fileID int64, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(fileID, "fileID"); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceTransactionsTx(ctx, tx, fileID, transactions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	slog.Debug("saved transactions", "file_id", fileID, "count", len(transactions))
	return nil
}

func replaceTransactionsTx(ctx context.Context, tx *sql.Tx, fileID int64, transactions []model.Transaction) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE id = ?`, fileID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check file: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("file %d: %w", fileID, common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, file_id, transaction_date, description, amount, category, confidence, original_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]

		original, marshalErr := marshalOriginal(txn.Original)
		if marshalErr != nil {
			return fmt.Errorf("transaction at index %d: %w", i, marshalErr)
		}

		var id any
		if txn.ID > 0 {
			id = txn.ID
		}

		result, execErr := stmt.ExecContext(ctx,
			id,
			fileID,
			txn.Date,
			txn.Description,
			txn.Amount.String(),
			cleanCategory(txn.Category),
			txn.Confidence,
			original,
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert transaction at index %d: %w", i, execErr)
		}

		newID, idErr := result.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to read transaction id: %w", idErr)
		}
		txn.ID = newID
		txn.FileID = fileID
		txn.Category = cleanCategory(txn.Category)
	}
	return nil
}

// GetTransactions returns a file's transactions in import order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, fileID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(fileID, "fileID"); err != nil {
		return nil, err
	}

	return queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE file_id = ?
		ORDER BY id`, fileID)
}

// GetAllTransactions returns the transactions of every saved file.
func (s *SQLiteStorage) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	txns, err := queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE file_id IN (SELECT id FROM files)
		ORDER BY file_id, id`)
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved all transactions", "count", len(txns))
	return txns, nil
}

// GetCategorizedHistory returns the most recent categorized transactions across files.
// A non-positive limit means DefaultHistoryLimit.
func (s *SQLiteStorage) GetCategorizedHistory(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE category IS NOT NULL
		AND TRIM(category) != ''
		AND category != ?
		ORDER BY transaction_date DESC, id DESC
		LIMIT ?`, model.Uncategorized, limit)
}

// SearchTransactions finds transactions whose description, category, amount or date contains
// filter.Query, ignoring case.
func (s *SQLiteStorage) SearchTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	where = append(where, `file_id IN (SELECT id FROM files)`)
	if filter.FileID > 0 {
		where = append(where, `file_id = ?`)
		args = append(args, filter.FileID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = append(where, `(
			LOWER(description) LIKE ?
			OR LOWER(category) LIKE ?
			OR amount LIKE ?
			OR transaction_date LIKE ?
		)`)
		args = append(args, like, like, like, like)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY file_id, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	return queryTransactions(ctx, s.db, query, args...)
}

// UpdateTransactionCategory changes one transaction's category. The file's rows are read,
// the one row is changed, and the whole set is written back inside one database transaction.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, fileID, transactionID int64, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(fileID, "fileID"); err != nil {
		return err
	}
	if err := validateID(transactionID, "transactionID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	txns, err := queryTransactions(ctx, tx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE file_id = ?
		ORDER BY id`, fileID)
	if err != nil {
		return err
	}

	found := false
	for i := range txns {
		if txns[i].ID == transactionID {
			txns[i].Category = category
			txns[i].Confidence = 1.0
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("transaction %d in file %d: %w", transactionID, fileID, common.ErrNotFound)
	}

	if err := replaceTransactionsTx(ctx, tx, fileID, txns); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category update: %w", err)
	}

	slog.Debug("updated transaction category",
		"file_id", fileID,
		"transaction_id", transactionID,
		"category", category)
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryTransactions(ctx context.Context, db querier, query string, args ...any) ([]model.Transaction, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var date, description, amt, category, original sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&txn.ID, &txn.FileID, &date, &description, &amt, &category, &confidence, &original); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Date = date.String
		txn.Description = description.String
		txn.Category = category.String
		txn.Confidence = confidence.Float64
		txn.Amount = decimal.Zero
		if parsed, parseErr := decimal.NewFromString(amt.String); parseErr == nil {
			txn.Amount = parsed
		}
		if original.Valid && original.String != "" {
			if err := json.Unmarshal([]byte(original.String), &txn.Original); err != nil {
				slog.Warn("ignoring unreadable original data", "transaction_id", txn.ID, "error", err)
			}
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func marshalOriginal(original map[string]string) (string, error) {
	if len(original) == 0 {
		return "", nil
	}
	data, err := json.Marshal(original)
	if err != nil {
		return "", fmt.Errorf("failed to marshal original data: %w", err)
	}
	return string(data), nil
}

func cleanCategory(category string) string {
	return strings.TrimSpace(registry.StripApostrophes(category))
}
