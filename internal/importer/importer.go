// Package importer reads bank exports into transactions ready to be saved as a file.
package importer

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/model"
)

var (
	// ErrMissingColumn is returned when a required mapping points at a column the file lacks.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoRows is returned for an export without any data rows.
	ErrNoRows = errors.New("file contains no rows")
)

// Parser turns an export into transactions.
type Parser interface {
	ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error)
}

// ForFile picks a parser from the file extension: OFX for .ofx and .qfx, CSV otherwise.
func ForFile(name string, mapping ColumnMapping) Parser {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ofx", ".qfx":
		return NewOFXParser()
	default:
		return NewCSVParser(mapping)
	}
}
