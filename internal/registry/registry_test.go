package registry

import (
	"testing"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "Rent", "Rent"},
		{"lowercase", "sales revenue", "Sales Revenue"},
		{"uppercase", "OFFICE SUPPLIES", "Office Supplies"},
		{"surrounding space", "  utilities\t", "Utilities"},
		{"straight apostrophe", "Owner's Draw", "Owners Draw"},
		{"curly apostrophes", "Owner’s ‘Draw", "Owners Draw"},
		{"backtick", "Owner`s Draw", "Owners Draw"},
		{"ampersand kept", "materials & supplies", "Materials & Supplies"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestStripApostrophes(t *testing.T) {
	assert.Equal(t, "Owners Draw", StripApostrophes("Owner's Draw"))
	assert.Equal(t, "owners draw ", StripApostrophes("owner’s ‘draw` "), "case and spacing untouched")
	assert.Equal(t, "Rent", StripApostrophes("Rent"))
}

func TestRegistry_Add(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	added, err := r.Add("Rent", "")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, model.CategoryTypeExpense, r.TypeOf("Rent"))

	added, err = r.Add("rent", model.CategoryTypeIncome)
	require.NoError(t, err)
	assert.False(t, added, "duplicate under canonical form is a no-op")
	assert.Equal(t, model.CategoryTypeExpense, r.TypeOf("RENT"))

	_, err = r.Add("  ", model.CategoryTypeIncome)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = r.Add("Mystery", model.CategoryType("Liability"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mystery")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_TypeOf(t *testing.T) {
	r, err := New([]model.Category{
		{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
		{Name: "Cost of Goods Sold", Type: model.CategoryTypeCOGS},
		{Name: "Interest Earned", Type: model.CategoryTypeOtherIncome},
		{Name: "Owner Draw", Type: model.CategoryTypeBalanceSheet},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CategoryTypeIncome, r.TypeOf("sales revenue"))
	assert.Equal(t, model.CategoryTypeCOGS, r.TypeOf("Cost of Goods Sold"))
	assert.Equal(t, model.CategoryTypeOtherIncome, r.TypeOf("Interest Earned"))
	assert.Equal(t, model.CategoryTypeBalanceSheet, r.TypeOf("owner draw"))
	assert.Equal(t, model.CategoryTypeExpense, r.TypeOf("Never Registered"))

	var nilRegistry *Registry
	assert.Equal(t, model.CategoryTypeExpense, nilRegistry.TypeOf("Anything"))
}

func TestRegistry_NamesAndEntries(t *testing.T) {
	r, err := New([]model.Category{
		{Name: "utilities", Type: model.CategoryTypeExpense},
		{Name: "Advertising", Type: model.CategoryTypeExpense},
		{Name: "sales revenue", Type: model.CategoryTypeIncome},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Advertising", "Sales Revenue", "Utilities"}, r.Names())
	assert.Equal(t, []model.Category{
		{Name: "Advertising", Type: model.CategoryTypeExpense},
		{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
		{Name: "Utilities", Type: model.CategoryTypeExpense},
	}, r.Entries())

	assert.True(t, r.Contains("SALES revenue"))
	assert.False(t, r.Contains("Rent"))

	name, ok := r.Resolve(" advertising ")
	assert.True(t, ok)
	assert.Equal(t, "Advertising", name)
}

func TestNew_MalformedEntry(t *testing.T) {
	_, err := New([]model.Category{
		{Name: "Rent", Type: model.CategoryTypeExpense},
		{Name: "Widgets", Type: model.CategoryType("Asset")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart entry 1")
	assert.Contains(t, err.Error(), "Widgets")
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	r, err := New(chart)
	require.NoError(t, err)
	assert.Equal(t, len(chart), r.Len())

	for _, typ := range model.CategoryTypes {
		if typ == model.CategoryTypeOtherIncome {
			continue
		}
		found := false
		for _, c := range chart {
			if c.Type == typ {
				found = true
				break
			}
		}
		assert.True(t, found, "default chart has no %s category", typ)
	}
	assert.Equal(t, model.CategoryTypeCOGS, r.TypeOf("Cost of Goods Sold"))
}
