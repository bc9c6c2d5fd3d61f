package registry

import "github.com/Veraticus/bookkeeper/internal/model"

// DefaultChart is the starter chart of accounts offered to new books.
func DefaultChart() []model.Category {
	return []model.Category{
		{Name: "Sales Revenue", Type: model.CategoryTypeIncome},
		{Name: "Service Revenue", Type: model.CategoryTypeIncome},
		{Name: "Other Income", Type: model.CategoryTypeIncome},
		{Name: "Cost of Goods Sold", Type: model.CategoryTypeCOGS},
		{Name: "Materials & Supplies", Type: model.CategoryTypeCOGS},
		{Name: "Direct Labor", Type: model.CategoryTypeCOGS},
		{Name: "Freight & Shipping", Type: model.CategoryTypeCOGS},
		{Name: "Rent", Type: model.CategoryTypeExpense},
		{Name: "Utilities", Type: model.CategoryTypeExpense},
		{Name: "Salaries & Wages", Type: model.CategoryTypeExpense},
		{Name: "Office Supplies", Type: model.CategoryTypeExpense},
		{Name: "Transportation", Type: model.CategoryTypeExpense},
		{Name: "Insurance", Type: model.CategoryTypeExpense},
		{Name: "Marketing", Type: model.CategoryTypeExpense},
		{Name: "Professional Fees", Type: model.CategoryTypeExpense},
		{Name: "Repairs & Maintenance", Type: model.CategoryTypeExpense},
		{Name: "Meals & Entertainment", Type: model.CategoryTypeExpense},
		{Name: "Other Expenses", Type: model.CategoryTypeExpense},
		{Name: "Equipment Purchase", Type: model.CategoryTypeBalanceSheet},
		{Name: "Loan Payment", Type: model.CategoryTypeBalanceSheet},
		{Name: "Owner Investment", Type: model.CategoryTypeBalanceSheet},
		{Name: "Owner Draw", Type: model.CategoryTypeBalanceSheet},
	}
}
