package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/model"
)

// ParseChart reads a chart of accounts from a CSV with a Category column and an optional Type
// column. Headers match case-insensitively. Blank names are skipped and a blank type means
// Expense.
func ParseChart(reader io.Reader) ([]model.Category, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read chart of accounts: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	nameCol, typeCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "category":
			nameCol = i
		case "type":
			typeCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: Category", ErrMissingColumn)
	}

	var categories []model.Category
	for line, row := range records[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		typ, err := model.ParseCategoryType(cell(row, typeCol))
		if err != nil {
			return nil, fmt.Errorf("row %d (%q): %w", line+2, name, err)
		}
		categories = append(categories, model.Category{Name: name, Type: typ})
	}
	if len(categories) == 0 {
		return nil, ErrNoRows
	}
	return categories, nil
}
