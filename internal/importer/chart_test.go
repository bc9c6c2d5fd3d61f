package importer

import (
	"strings"
	"testing"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChart(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []model.Category
		wantErr error
		errText string
	}{
		{
			name:  "category and type",
			input: "Category,Type\nSales Revenue,Income\nRent,expense\nOwner Draw,Balance Sheet\n",
			want: []model.Category{
				{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
				{Name: "Rent", Type: model.CategoryTypeExpense},
				{Name: "Owner Draw", Type: model.CategoryTypeBalanceSheet},
			},
		},
		{
			name:  "type column optional and headers any case",
			input: "\ufeffcategory\nSoftware\n\nTravel\n",
			want: []model.Category{
				{Name: "Software", Type: model.CategoryTypeExpense},
				{Name: "Travel", Type: model.CategoryTypeExpense},
			},
		},
		{
			name:  "blank type means expense",
			input: "Type,Category\n,Postage\n",
			want:  []model.Category{{Name: "Postage", Type: model.CategoryTypeExpense}},
		},
		{name: "missing category column", input: "Name,Type\nRent,Expense\n", wantErr: ErrMissingColumn},
		{name: "header only", input: "Category,Type\n", wantErr: ErrNoRows},
		{name: "empty", input: "", wantErr: ErrNoRows},
		{name: "unknown type", input: "Category,Type\nRent,Expense\nYacht,Luxury\n", errText: `row 3 ("Yacht")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChart(strings.NewReader(tt.input))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
