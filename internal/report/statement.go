// Package report builds the monthly profit and loss statement with its cash roll-forward.
package report

import (
	"github.com/shopspring/decimal"
)

// Labels of the synthetic rows. Downstream consumers match on these exact strings.
const (
	LabelTotalIncome       = "Total Income"
	LabelTotalCOGS         = "Total COGS"
	LabelGrossProfit       = "Gross Profit"
	LabelTotalExpenses     = "Total Expenses"
	LabelTotalOtherIncome  = "Total Other Income"
	LabelNetIncome         = "Net Income"
	LabelBalanceSheetItems = "Balance Sheet Items"
	LabelCashFlow          = "Cash Flow"
	LabelStartingCash      = "Starting Cash"
	LabelEndingCash        = "Ending Cash"
)

// PeriodLayout formats a date as its period key.
const PeriodLayout = "2006-01"

// Period is a calendar month in "YYYY-MM" form.
type Period string

// Row is one line of the statement.
type Row struct {
	Values   map[Period]decimal.Decimal
	Type     string // Section for category rows, blank for subtotal and derived rows
	Category string // Category name, or the synthetic label
	Total    decimal.Decimal
}

// Value returns the row's amount for p, zero when the row has nothing in that period.
func (r Row) Value(p Period) decimal.Decimal {
	return r.Values[p]
}

// Synthetic reports whether the row is a subtotal or derived row.
func (r Row) Synthetic() bool {
	return r.Type == ""
}

// Statement is the generated P&L. It is never persisted and must not be mutated after Generate
// returns it.
type Statement struct {
	Periods      []Period
	Rows         []Row
	StartingCash decimal.Decimal
}

// Empty reports whether the statement was built from no dated transactions.
func (s *Statement) Empty() bool {
	return s == nil || len(s.Periods) == 0
}

// Row returns the first row whose Category is label.
func (s *Statement) Row(label string) (Row, bool) {
	if s == nil {
		return Row{}, false
	}
	for _, row := range s.Rows {
		if row.Category == label {
			return row, true
		}
	}
	return Row{}, false
}

// SyntheticRow finds a subtotal or derived row by label.
func (s *Statement) SyntheticRow(label string) (Row, bool) {
	if s == nil {
		return Row{}, false
	}
	for _, row := range s.Rows {
		if row.Synthetic() && row.Category == label {
			return row, true
		}
	}
	return Row{}, false
}

// Margin returns the Total of the synthetic row label as a percentage of Total Income,
// rounded to two places. It is false when either row is missing or Total Income is zero.
func (s *Statement) Margin(label string) (decimal.Decimal, bool) {
	income, ok := s.SyntheticRow(LabelTotalIncome)
	if !ok || income.Total.IsZero() {
		return decimal.Zero, false
	}
	row, ok := s.SyntheticRow(label)
	if !ok {
		return decimal.Zero, false
	}
	return row.Total.Mul(decimal.NewFromInt(100)).DivRound(income.Total, 2), true
}

// MarginLabels are the rows shown with a margin percentage.
var MarginLabels = []string{LabelGrossProfit, LabelNetIncome}
