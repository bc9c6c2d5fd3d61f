package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
)

const fileColumns = `id, original_name, display_name, upload_date, file_data`

// SaveFile stores an imported file and sets its ID and upload time.
func (s *SQLiteStorage) SaveFile(ctx context.Context, file *model.File) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("%w: file", ErrNilParameter)
	}
	if err := validateString(file.OriginalName, "originalName"); err != nil {
		return err
	}
	if strings.TrimSpace(file.DisplayName) == "" {
		file.DisplayName = file.OriginalName
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO files (original_name, display_name, upload_date, file_data)
		VALUES (?, ?, ?, ?)`,
		file.OriginalName, file.DisplayName, file.UploadedAt, file.Data)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read file id: %w", err)
	}
	file.ID = id

	slog.Debug("saved file", "id", id, "name", file.DisplayName)
	return nil
}

// GetFiles returns every saved file, newest first.
func (s *SQLiteStorage) GetFiles(ctx context.Context) ([]model.File, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fileColumns+`
		FROM files
		ORDER BY upload_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files, err := scanFiles(rows)
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved files", "count", len(files))
	return files, nil
}

// GetFile returns a single file or common.ErrNotFound.
func (s *SQLiteStorage) GetFile(ctx context.Context, id int64) (*model.File, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "fileID"); err != nil {
		return nil, err
	}

	var file model.File
	err := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id).Scan(
		&file.ID, &file.OriginalName, &file.DisplayName, &file.UploadedAt, &file.Data,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}
	return &file, nil
}

// RenameFile changes a file's display name.
func (s *SQLiteStorage) RenameFile(ctx context.Context, id int64, displayName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "fileID"); err != nil {
		return err
	}
	if err := validateString(displayName, "displayName"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE files SET display_name = ? WHERE id = ?`,
		strings.TrimSpace(displayName), id)
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return requireAffected(result, fmt.Sprintf("file %d", id))
}

// DeleteFile removes a file and all of its transactions.
func (s *SQLiteStorage) DeleteFile(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "fileID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleted, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE file_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := requireAffected(result, fmt.Sprintf("file %d", id)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	count, _ := deleted.RowsAffected()
	slog.Info("deleted file", "id", id, "transactions", count)
	return nil
}

// FindFilesByOriginalName returns files whose original name matches, ignoring case.
func (s *SQLiteStorage) FindFilesByOriginalName(ctx context.Context, originalName string) ([]model.File, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(originalName, "originalName"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE LOWER(original_name) = LOWER(?)
		ORDER BY id`, strings.TrimSpace(originalName))
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanFiles(rows)
}

// FindFilesWithSameDates returns files whose transactions cover every one of dates. Dates are
// compared as calendar days whatever their text format; unparseable dates are ignored.
func (s *SQLiteStorage) FindFilesWithSameDates(ctx context.Context, dates []string) ([]model.File, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{})
	for _, raw := range dates {
		if day, ok := model.ParseDate(raw); ok {
			wanted[day.Format("2006-01-02")] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT file_id, transaction_date
		FROM transactions
		WHERE file_id IN (SELECT id FROM files)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	covered := make(map[int64]map[string]struct{})
	for rows.Next() {
		var fileID int64
		var raw sql.NullString
		if err := rows.Scan(&fileID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan transaction date: %w", err)
		}
		day, ok := model.ParseDate(raw.String)
		if !ok {
			continue
		}
		key := day.Format("2006-01-02")
		if _, want := wanted[key]; !want {
			continue
		}
		if covered[fileID] == nil {
			covered[fileID] = make(map[string]struct{})
		}
		covered[fileID][key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction dates: %w", err)
	}
	_ = rows.Close()

	var files []model.File
	for fileID, days := range covered {
		if len(days) != len(wanted) {
			continue
		}
		file, err := s.GetFile(ctx, fileID)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	sortFilesByID(files)
	return files, nil
}

// CleanOrphanedTransactions deletes transactions whose file no longer exists.
func (s *SQLiteStorage) CleanOrphanedTransactions(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE file_id NOT IN (SELECT id FROM files)`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean orphaned transactions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count orphaned transactions: %w", err)
	}
	if count > 0 {
		slog.Info("cleaned up orphaned transactions", "count", count)
	}
	return count, nil
}

func scanFiles(rows *sql.Rows) ([]model.File, error) {
	var files []model.File
	for rows.Next() {
		var file model.File
		if err := rows.Scan(&file.ID, &file.OriginalName, &file.DisplayName, &file.UploadedAt, &file.Data); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}
	return files, nil
}

func sortFilesByID(files []model.File) {
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}
