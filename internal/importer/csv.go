package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/amount"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/shopspring/decimal"
)

// detectSample is how many rows column detection looks at.
const detectSample = 10

// ColumnMapping names the CSV header columns holding each transaction field.
// Category is optional.
type ColumnMapping struct {
	Date        string
	Description string
	Amount      string
	Category    string
}

// Complete reports whether the required columns are all mapped.
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Description != "" && m.Amount != ""
}

// CSVParser reads delimited bank exports.
type CSVParser struct {
	mapping ColumnMapping
}

// NewCSVParser creates a parser. A zero mapping means the columns are detected from the data.
func NewCSVParser(mapping ColumnMapping) *CSVParser {
	return &CSVParser{mapping: mapping}
}

// ParseFile reads every row. Unmapped columns are kept in Transaction.Original.
func (p *CSVParser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	rows := records[1:]

	mapping := p.mapping
	if !mapping.Complete() {
		detected := DetectColumns(header, rows)
		mapping = mergeMapping(mapping, detected)
		slog.Info("Detected CSV columns",
			"date", mapping.Date,
			"description", mapping.Description,
			"amount", mapping.Amount)
	}

	index, err := resolveColumns(header, mapping)
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blankRow(row) {
			continue
		}

		txn := model.Transaction{
			Date:        cell(row, index.date),
			Description: cell(row, index.description),
			Amount:      amount.Normalize(cell(row, index.amount)),
			Original:    make(map[string]string),
		}
		if index.category >= 0 {
			txn.Category = cell(row, index.category)
		}
		for i, name := range header {
			if i == index.date || i == index.description || i == index.amount || i == index.category {
				continue
			}
			txn.Original[name] = cell(row, i)
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		return nil, ErrNoRows
	}
	return txns, nil
}

type columnIndex struct {
	date, description, amount, category int
}

func resolveColumns(header []string, m ColumnMapping) (columnIndex, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(h, strings.TrimSpace(name)) {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		date:        find(m.Date),
		description: find(m.Description),
		amount:      find(m.Amount),
		category:    -1,
	}
	if m.Category != "" {
		idx.category = find(m.Category)
		if idx.category < 0 {
			return idx, fmt.Errorf("category column %q: %w", m.Category, ErrMissingColumn)
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, fmt.Sprintf("date (%q)", m.Date))
	}
	if idx.description < 0 {
		missing = append(missing, fmt.Sprintf("description (%q)", m.Description))
	}
	if idx.amount < 0 {
		missing = append(missing, fmt.Sprintf("amount (%q)", m.Amount))
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissingColumn)
	}
	return idx, nil
}

// DetectColumns guesses the date, amount and description columns from sample rows. A column is a
// date column when at least three of its first five values parse as dates, an amount column when
// every sampled value is a plain number, and the remaining column with the longest average text
// is the description.
func DetectColumns(header []string, rows [][]string) ColumnMapping {
	var m ColumnMapping
	longest := -1.0

	for i, name := range header {
		values := sample(rows, i)
		switch {
		case m.Date == "" && looksLikeDates(values):
			m.Date = name
		case m.Amount == "" && looksLikeAmounts(values):
			m.Amount = name
		default:
			if strings.EqualFold(name, "category") && m.Category == "" {
				m.Category = name
				continue
			}
			if avg := averageLength(values); avg > longest {
				longest = avg
				m.Description = name
			}
		}
	}
	return m
}

func mergeMapping(explicit, detected ColumnMapping) ColumnMapping {
	if explicit.Date == "" {
		explicit.Date = detected.Date
	}
	if explicit.Description == "" {
		explicit.Description = detected.Description
	}
	if explicit.Amount == "" {
		explicit.Amount = detected.Amount
	}
	if explicit.Category == "" {
		explicit.Category = detected.Category
	}
	return explicit
}

func sample(rows [][]string, col int) []string {
	values := make([]string, 0, detectSample)
	for _, row := range rows {
		if len(values) == detectSample {
			break
		}
		if v := cell(row, col); v != "" && !strings.EqualFold(v, "nan") {
			values = append(values, v)
		}
	}
	return values
}

func looksLikeDates(values []string) bool {
	if len(values) == 0 {
		return false
	}
	limit := min(len(values), 5)
	parsed := 0
	for _, v := range values[:limit] {
		if _, ok := model.ParseDate(v); ok {
			parsed++
		}
	}
	return parsed >= min(3, limit)
}

func looksLikeAmounts(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if strings.Contains(v, "/") {
			return false
		}
		if strings.Contains(v, "-") && !strings.HasPrefix(v, "-") {
			return false
		}
		cleaned := strings.NewReplacer("$", "", ",", "", "(", "-", ")", "", " ", "").Replace(v)
		if _, err := decimal.NewFromString(cleaned); err != nil {
			return false
		}
	}
	return true
}

func averageLength(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += len(v)
	}
	return float64(total) / float64(len(values))
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// IsMissingColumn reports whether err came from an unresolved column mapping.
func IsMissingColumn(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}
