package report

import (
	"sort"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/shopspring/decimal"
)

// TypeResolver maps a category name to its section.
type TypeResolver interface {
	TypeOf(name string) model.CategoryType
}

// NameResolver is implemented by resolvers that know canonical category names. Rows whose
// category resolves are grouped under that name; others keep their trimmed spelling.
type NameResolver interface {
	Resolve(name string) (string, bool)
}

// Generate aggregates transactions into a monthly statement. Rows whose date does not parse are
// skipped. When nothing is left the result is an empty statement, never nil. Categories the
// resolver does not know land in the Expense section. A nil resolver treats every category as
// Expense.
func Generate(txns []model.Transaction, types TypeResolver, startingCash decimal.Decimal) *Statement {
	names, _ := types.(NameResolver)
	sums, periods := pivot(txns, names)
	if len(periods) == 0 {
		return &Statement{StartingCash: startingCash}
	}

	b := &builder{periods: periods}

	sections := partition(sums, types)
	income := b.section(model.CategoryTypeIncome, sections, sums)
	b.add("", LabelTotalIncome, income)

	cogs := b.zero()
	if len(sections[model.CategoryTypeCOGS]) > 0 {
		cogs = b.section(model.CategoryTypeCOGS, sections, sums)
		b.add("", LabelTotalCOGS, cogs)
		b.add("", LabelGrossProfit, sum(income, cogs))
	}

	expenses := b.section(model.CategoryTypeExpense, sections, sums)
	b.add("", LabelTotalExpenses, expenses)

	other := b.zero()
	if len(sections[model.CategoryTypeOtherIncome]) > 0 {
		other = b.section(model.CategoryTypeOtherIncome, sections, sums)
		b.add("", LabelTotalOtherIncome, other)
	}

	netIncome := sum(income, cogs, expenses, other)
	b.add("", LabelNetIncome, netIncome)

	balance := b.zero()
	if len(sections[model.CategoryTypeBalanceSheet]) > 0 {
		balance = b.section(model.CategoryTypeBalanceSheet, sections, sums)
		b.add("", LabelBalanceSheetItems, balance)
	}

	cashFlow := sum(netIncome, balance)
	b.add("", LabelCashFlow, cashFlow)

	starting := make([]decimal.Decimal, len(periods))
	ending := make([]decimal.Decimal, len(periods))
	running := startingCash
	for i := range periods {
		starting[i] = running
		running = running.Add(cashFlow[i])
		ending[i] = running
	}
	b.addWithTotal(LabelStartingCash, starting, startingCash)
	b.addWithTotal(LabelEndingCash, ending, running)

	return &Statement{
		Periods:      periods,
		Rows:         b.rows,
		StartingCash: startingCash,
	}
}

// pivot sums amounts by category and period, and returns the sorted periods seen.
func pivot(txns []model.Transaction, names NameResolver) (map[string]map[Period]decimal.Decimal, []Period) {
	sums := make(map[string]map[Period]decimal.Decimal)
	seen := make(map[Period]struct{})

	for _, txn := range txns {
		date, ok := txn.ParsedDate()
		if !ok {
			continue
		}
		period := Period(date.Format(PeriodLayout))
		seen[period] = struct{}{}

		category := strings.TrimSpace(txn.Category)
		if category == "" {
			category = model.Uncategorized
		}
		if names != nil {
			if canonical, ok := names.Resolve(category); ok {
				category = canonical
			}
		}
		if sums[category] == nil {
			sums[category] = make(map[Period]decimal.Decimal)
		}
		sums[category][period] = sums[category][period].Add(txn.Amount)
	}

	periods := make([]Period, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	return sums, periods
}

// partition resolves each category's type once and groups names by section, sorted by name.
func partition(sums map[string]map[Period]decimal.Decimal, types TypeResolver) map[model.CategoryType][]string {
	sections := make(map[model.CategoryType][]string, len(model.CategoryTypes))
	for category := range sums {
		typ := model.CategoryTypeExpense
		if types != nil {
			typ = types.TypeOf(category)
		}
		if !typ.Valid() {
			typ = model.CategoryTypeExpense
		}
		sections[typ] = append(sections[typ], category)
	}
	for _, names := range sections {
		sort.Strings(names)
	}
	return sections
}

type builder struct {
	periods []Period
	rows    []Row
}

func (b *builder) zero() []decimal.Decimal {
	v := make([]decimal.Decimal, len(b.periods))
	for i := range v {
		v[i] = decimal.Zero
	}
	return v
}

// section emits one row per category of typ and returns the column-wise subtotal.
func (b *builder) section(typ model.CategoryType, sections map[model.CategoryType][]string, sums map[string]map[Period]decimal.Decimal) []decimal.Decimal {
	subtotal := b.zero()
	for _, category := range sections[typ] {
		values := make([]decimal.Decimal, len(b.periods))
		for i, p := range b.periods {
			values[i] = sums[category][p]
			subtotal[i] = subtotal[i].Add(values[i])
		}
		b.add(string(typ), category, values)
	}
	return subtotal
}

func (b *builder) add(typ, category string, values []decimal.Decimal) {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	b.rows = append(b.rows, b.row(typ, category, values, total))
}

func (b *builder) addWithTotal(label string, values []decimal.Decimal, total decimal.Decimal) {
	b.rows = append(b.rows, b.row("", label, values, total))
}

func (b *builder) row(typ, category string, values []decimal.Decimal, total decimal.Decimal) Row {
	byPeriod := make(map[Period]decimal.Decimal, len(b.periods))
	for i, p := range b.periods {
		byPeriod[p] = values[i]
	}
	return Row{Type: typ, Category: category, Values: byPeriod, Total: total}
}

func sum(vectors ...[]decimal.Decimal) []decimal.Decimal {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]decimal.Decimal, len(vectors[0]))
	for i := range out {
		out[i] = decimal.Zero
		for _, v := range vectors {
			out[i] = out[i].Add(v[i])
		}
	}
	return out
}
