package report

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(date, description string, amt int64, category string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Description: description,
		Amount:      decimal.NewFromInt(amt),
		Category:    category,
	}
}

func newRegistry(t *testing.T, entries ...model.Category) *registry.Registry {
	t.Helper()
	r, err := registry.New(entries)
	require.NoError(t, err)
	return r
}

// cells renders a row as its period values followed by its total.
func cells(t *testing.T, s *Statement, label string) []string {
	t.Helper()
	row, ok := s.Row(label)
	require.True(t, ok, "missing row %q", label)
	out := make([]string, 0, len(s.Periods)+1)
	for _, p := range s.Periods {
		out = append(out, row.Value(p).StringFixed(2))
	}
	return append(out, row.Total.StringFixed(2))
}

func labels(s *Statement) []string {
	out := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		out = append(out, row.Category)
	}
	return out
}

func endToEnd(t *testing.T) *Statement {
	t.Helper()
	reg := newRegistry(t,
		model.Category{Name: "Rent", Type: model.CategoryTypeExpense},
		model.Category{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
		model.Category{Name: "Cost of Goods Sold", Type: model.CategoryTypeCOGS},
	)
	return Generate([]model.Transaction{
		txn("2024-01-15", "Rent", -1000, "Rent"),
		txn("2024-01-20", "Client Payment", 5000, "Sales Revenue"),
		txn("2024-02-10", "COGS Materials", -200, "Cost of Goods Sold"),
	}, reg, decimal.Zero)
}

func TestGenerate_EndToEnd(t *testing.T) {
	s := endToEnd(t)

	require.False(t, s.Empty())
	assert.Equal(t, []Period{"2024-01", "2024-02"}, s.Periods)
	assert.Equal(t, []string{
		"Sales Revenue", LabelTotalIncome,
		"Cost of Goods Sold", LabelTotalCOGS, LabelGrossProfit,
		"Rent", LabelTotalExpenses,
		LabelNetIncome,
		LabelCashFlow, LabelStartingCash, LabelEndingCash,
	}, labels(s))

	tests := []struct {
		label string
		want  []string
	}{
		{"Sales Revenue", []string{"5000.00", "0.00", "5000.00"}},
		{LabelTotalIncome, []string{"5000.00", "0.00", "5000.00"}},
		{"Cost of Goods Sold", []string{"0.00", "-200.00", "-200.00"}},
		{LabelTotalCOGS, []string{"0.00", "-200.00", "-200.00"}},
		{LabelGrossProfit, []string{"5000.00", "-200.00", "4800.00"}},
		{"Rent", []string{"-1000.00", "0.00", "-1000.00"}},
		{LabelTotalExpenses, []string{"-1000.00", "0.00", "-1000.00"}},
		{LabelNetIncome, []string{"4000.00", "-200.00", "3800.00"}},
		{LabelCashFlow, []string{"4000.00", "-200.00", "3800.00"}},
		{LabelStartingCash, []string{"0.00", "4000.00", "0.00"}},
		{LabelEndingCash, []string{"4000.00", "3800.00", "3800.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, cells(t, s, tt.label))
		})
	}

	income, _ := s.Row("Sales Revenue")
	assert.Equal(t, "Income", income.Type)
	cogs, _ := s.Row("Cost of Goods Sold")
	assert.Equal(t, "COGS", cogs.Type)
	net, _ := s.Row(LabelNetIncome)
	assert.Empty(t, net.Type)
}

func TestGenerate_EmptyInput(t *testing.T) {
	reg := newRegistry(t)

	tests := []struct {
		name string
		txns []model.Transaction
	}{
		{"no transactions", nil},
		{"only undated transactions", []model.Transaction{
			txn("", "No date", 100, "Rent"),
			txn("not a date", "Bad date", 50, "Rent"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Generate(tt.txns, reg, decimal.NewFromInt(100))
			require.NotNil(t, s)
			assert.True(t, s.Empty())
			assert.Empty(t, s.Rows)
			assert.Empty(t, s.Periods)
			_, ok := s.Row(LabelStartingCash)
			assert.False(t, ok)
		})
	}
}

func TestGenerate_UndatedRowsExcluded(t *testing.T) {
	reg := newRegistry(t, model.Category{Name: "Rent", Type: model.CategoryTypeExpense})

	s := Generate([]model.Transaction{
		txn("2024-03-01", "Rent", -500, "Rent"),
		txn("garbage", "Rent", -999, "Rent"),
	}, reg, decimal.Zero)

	assert.Equal(t, []Period{"2024-03"}, s.Periods)
	assert.Equal(t, []string{"-500.00", "-500.00"}, cells(t, s, "Rent"))
}

func TestGenerate_UnknownCategoryIsExpense(t *testing.T) {
	reg := newRegistry(t,
		model.Category{Name: "Rent", Type: model.CategoryTypeExpense},
		model.Category{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
	)

	s := Generate([]model.Transaction{
		txn("2024-01-05", "Mystery vendor", -40, "Mystery"),
		txn("2024-01-06", "Mystery vendor", -60, "Mystery"),
		txn("2024-01-07", "Rent", -1000, "Rent"),
		txn("2024-01-08", "Sale", 300, "Sales Revenue"),
	}, reg, decimal.Zero)

	count := 0
	for _, row := range s.Rows {
		if row.Category == "Mystery" {
			count++
			assert.Equal(t, "Expense", row.Type)
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"-100.00", "-100.00"}, cells(t, s, "Mystery"))
	assert.Equal(t, []string{"-1100.00", "-1100.00"}, cells(t, s, LabelTotalExpenses))
	assert.Equal(t, []string{
		"Sales Revenue", LabelTotalIncome,
		"Mystery", "Rent", LabelTotalExpenses,
		LabelNetIncome, LabelCashFlow, LabelStartingCash, LabelEndingCash,
	}, labels(s))
}

func TestGenerate_SpellingVariantsShareOneRow(t *testing.T) {
	reg := newRegistry(t,
		model.Category{Name: "Office Supplies", Type: model.CategoryTypeExpense},
		model.Category{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
	)

	s := Generate([]model.Transaction{
		txn("2024-01-05", "Paper", -10, "office supplies"),
		txn("2024-01-06", "Toner", -30, "Office Supplies"),
		txn("2024-02-07", "Pens", -5, "OFFICE SUPPLIES "),
		txn("2024-01-08", "Sale", 300, "sales revenue"),
		txn("2024-01-09", "Odd", -1, "mystery"),
		txn("2024-01-10", "Odd", -2, "Mystery"),
	}, reg, decimal.Zero)

	assert.Equal(t, []string{
		"Sales Revenue", LabelTotalIncome,
		"Mystery", "Office Supplies", "mystery", LabelTotalExpenses,
		LabelNetIncome, LabelCashFlow, LabelStartingCash, LabelEndingCash,
	}, labels(s), "unregistered names keep their spelling")
	assert.Equal(t, []string{"-40.00", "-5.00", "-45.00"}, cells(t, s, "Office Supplies"))
	assert.Equal(t, []string{"300.00", "0.00", "300.00"}, cells(t, s, "Sales Revenue"))
}

func TestGenerate_OptionalSections(t *testing.T) {
	reg := newRegistry(t,
		model.Category{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
		model.Category{Name: "Interest Earned", Type: model.CategoryTypeOtherIncome},
		model.Category{Name: "Owner Draw", Type: model.CategoryTypeBalanceSheet},
		model.Category{Name: "Loan Payment", Type: model.CategoryTypeBalanceSheet},
	)

	s := Generate([]model.Transaction{
		txn("2024-05-02", "Sale", 1000, "Sales Revenue"),
		txn("2024-05-30", "Interest", 5, "Interest Earned"),
		txn("2024-06-01", "Draw", -300, "Owner Draw"),
		txn("2024-06-15", "Loan", -200, "Loan Payment"),
	}, reg, decimal.NewFromInt(50))

	assert.Equal(t, []string{
		"Sales Revenue", LabelTotalIncome,
		LabelTotalExpenses,
		"Interest Earned", LabelTotalOtherIncome,
		LabelNetIncome,
		"Loan Payment", "Owner Draw", LabelBalanceSheetItems,
		LabelCashFlow, LabelStartingCash, LabelEndingCash,
	}, labels(s))

	_, ok := s.Row(LabelGrossProfit)
	assert.False(t, ok, "no COGS categories means no gross profit row")

	assert.Equal(t, []string{"0.00", "0.00", "0.00"}, cells(t, s, LabelTotalExpenses))
	assert.Equal(t, []string{"1005.00", "0.00", "1005.00"}, cells(t, s, LabelNetIncome))
	assert.Equal(t, []string{"0.00", "-500.00", "-500.00"}, cells(t, s, LabelBalanceSheetItems))
	assert.Equal(t, []string{"1005.00", "-500.00", "505.00"}, cells(t, s, LabelCashFlow))
	assert.Equal(t, []string{"50.00", "1055.00", "50.00"}, cells(t, s, LabelStartingCash))
	assert.Equal(t, []string{"1055.00", "555.00", "555.00"}, cells(t, s, LabelEndingCash))
}

func randomTransactions(r *rand.Rand, n int) []model.Transaction {
	categories := []string{"Sales Revenue", "Cost of Goods Sold", "Rent", "Interest Earned", "Owner Draw", "Unlisted"}
	txns := make([]model.Transaction, 0, n)
	for i := 0; i < n; i++ {
		date := fmt.Sprintf("2023-%02d-%02d", r.Intn(12)+1, r.Intn(28)+1)
		if r.Intn(10) == 0 {
			date = "n/a"
		}
		cents := r.Int63n(2_000_000) - 1_000_000
		txns = append(txns, model.Transaction{
			Date:     date,
			Amount:   decimal.New(cents, -2),
			Category: categories[r.Intn(len(categories))],
		})
	}
	return txns
}

func fullRegistry(t *testing.T) *registry.Registry {
	return newRegistry(t,
		model.Category{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
		model.Category{Name: "Cost of Goods Sold", Type: model.CategoryTypeCOGS},
		model.Category{Name: "Rent", Type: model.CategoryTypeExpense},
		model.Category{Name: "Interest Earned", Type: model.CategoryTypeOtherIncome},
		model.Category{Name: "Owner Draw", Type: model.CategoryTypeBalanceSheet},
	)
}

func TestGenerate_Invariants(t *testing.T) {
	reg := fullRegistry(t)
	r := rand.New(rand.NewSource(42))

	for iter := 0; iter < 25; iter++ {
		opening := decimal.New(r.Int63n(1_000_000), -2)
		s := Generate(randomTransactions(r, 1+r.Intn(200)), reg, opening)
		require.False(t, s.Empty())

		get := func(label string) Row {
			row, ok := s.SyntheticRow(label)
			if !ok {
				return Row{Total: decimal.Zero}
			}
			return row
		}
		income, cogs, expenses, other := get(LabelTotalIncome), get(LabelTotalCOGS), get(LabelTotalExpenses), get(LabelTotalOtherIncome)
		net, balance, cash := get(LabelNetIncome), get(LabelBalanceSheetItems), get(LabelCashFlow)
		starting, ending := get(LabelStartingCash), get(LabelEndingCash)

		running := opening
		for i, p := range s.Periods {
			wantNet := income.Value(p).Add(cogs.Value(p)).Add(expenses.Value(p)).Add(other.Value(p))
			assert.True(t, wantNet.Equal(net.Value(p)), "net income %s", p)
			assert.True(t, net.Value(p).Add(balance.Value(p)).Equal(cash.Value(p)), "cash flow %s", p)

			assert.True(t, running.Equal(starting.Value(p)), "starting cash %s", p)
			running = running.Add(cash.Value(p))
			assert.True(t, running.Equal(ending.Value(p)), "ending cash %s", p)
			if i > 0 {
				assert.True(t, starting.Value(p).Equal(ending.Value(s.Periods[i-1])))
			}
		}

		wantNet := income.Total.Add(cogs.Total).Add(expenses.Total).Add(other.Total)
		assert.True(t, wantNet.Equal(net.Total))
		assert.True(t, starting.Total.Equal(opening))
		assert.True(t, ending.Total.Equal(running))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	reg := fullRegistry(t)
	txns := randomTransactions(rand.New(rand.NewSource(7)), 300)

	var first, second bytes.Buffer
	require.NoError(t, Generate(txns, reg, decimal.NewFromInt(10)).WriteCSV(&first))
	require.NoError(t, Generate(txns, reg, decimal.NewFromInt(10)).WriteCSV(&second))
	assert.Equal(t, first.String(), second.String())

	reversed := make([]model.Transaction, len(txns))
	for i := range txns {
		reversed[len(txns)-1-i] = txns[i]
	}
	var third bytes.Buffer
	require.NoError(t, Generate(reversed, reg, decimal.NewFromInt(10)).WriteCSV(&third))
	assert.Equal(t, first.String(), third.String(), "input order does not change the output")
}

func TestGenerate_NilResolver(t *testing.T) {
	s := Generate([]model.Transaction{txn("2024-01-01", "Sale", 100, "Sales Revenue")}, nil, decimal.Zero)

	row, ok := s.Row("Sales Revenue")
	require.True(t, ok)
	assert.Equal(t, "Expense", row.Type)
}

func TestGenerate_BlankCategory(t *testing.T) {
	reg := newRegistry(t)
	s := Generate([]model.Transaction{txn("2024-01-01", "Unknown", -10, "  ")}, reg, decimal.Zero)

	assert.Equal(t, []string{"-10.00", "-10.00"}, cells(t, s, model.Uncategorized))
}
