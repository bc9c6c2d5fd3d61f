package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Veraticus/bookkeeper/internal/amount"
	"github.com/shopspring/decimal"
)

// Header returns the column labels: Type, Category, one per period, Total.
func (s *Statement) Header() []string {
	header := make([]string, 0, len(s.Periods)+3)
	header = append(header, "Type", "Category")
	for _, p := range s.Periods {
		header = append(header, string(p))
	}
	return append(header, "Total")
}

// Records renders every row with cell formatting applied to the amounts.
func (s *Statement) Records(cell func(decimal.Decimal) string) [][]string {
	records := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		record := make([]string, 0, len(s.Periods)+3)
		record = append(record, row.Type, row.Category)
		for _, p := range s.Periods {
			record = append(record, cell(row.Value(p)))
		}
		records = append(records, append(record, cell(row.Total)))
	}
	return records
}

// WriteCSV exports the statement with amounts rounded to two decimal places. An empty statement
// writes only the header.
func (s *Statement) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(s.Records(func(d decimal.Decimal) string {
		return d.StringFixed(2)
	})); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// Table renders the statement for display with currency formatting.
func (s *Statement) Table() [][]string {
	return append([][]string{s.Header()}, s.Records(amount.Format)...)
}
