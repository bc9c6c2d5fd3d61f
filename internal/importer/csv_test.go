package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankCSV = `Posted,Details,Amount,Category,Reference
2025-01-03,STRIPE PAYOUT JANUARY,"$4,200.00",Sales Revenue,R1
2025-01-05,ADOBE CREATIVE CLOUD,(54.99),,R2
,,,,
2025-01-09,DELTA AIR LINES ATLANTA,-312.40,Travel,R3
`

func TestCSVParser_ExplicitMapping(t *testing.T) {
	parser := NewCSVParser(ColumnMapping{
		Date:        "posted",
		Description: "Details",
		Amount:      "Amount",
		Category:    "Category",
	})

	txns, err := parser.ParseFile(context.Background(), strings.NewReader(bankCSV))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "2025-01-03", txns[0].Date)
	assert.Equal(t, "STRIPE PAYOUT JANUARY", txns[0].Description)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("4200")))
	assert.Equal(t, "Sales Revenue", txns[0].Category)
	assert.Equal(t, map[string]string{"Reference": "R1"}, txns[0].Original)

	assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("-54.99")))
	assert.Empty(t, txns[1].Category)
	assert.False(t, txns[1].IsCategorized())
}

func TestCSVParser_DetectsColumns(t *testing.T) {
	data := `Date,Amount,Description,Balance
01/03/2025,125.00,CLIENT INVOICE 1001 PAYMENT,1125.00
01/04/2025,-20.00,GITHUB INC SUBSCRIPTION,1105.00
01/07/2025,-9.99,DROPBOX PLUS,1095.01
`
	txns, err := NewCSVParser(ColumnMapping{}).ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "01/03/2025", txns[0].Date)
	assert.Equal(t, "CLIENT INVOICE 1001 PAYMENT", txns[0].Description)
	assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("-20")))
	assert.Equal(t, "1105.00", txns[1].Original["Balance"])
}

func TestCSVParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		mapping ColumnMapping
		missing bool
	}{
		{
			name:    "header only",
			data:    "Date,Description,Amount\n",
			mapping: ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"},
		},
		{
			name:    "unknown amount column",
			data:    "Date,Description,Value\n2025-01-01,x,1\n",
			mapping: ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"},
			missing: true,
		},
		{
			name:    "unknown category column",
			data:    "Date,Description,Amount\n2025-01-01,x,1\n",
			mapping: ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount", Category: "Cat"},
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVParser(tt.mapping).ParseFile(context.Background(), strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.missing, IsMissingColumn(err))
		})
	}
}

func TestCSVParser_MalformedAmountIsZero(t *testing.T) {
	data := "Date,Description,Amount\n2025-02-01,REFUND,n/a\n"
	txns, err := NewCSVParser(ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"}).
		ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Amount.IsZero())
}

func TestDetectColumns(t *testing.T) {
	header := []string{"When", "What", "How Much", "Category"}
	rows := [][]string{
		{"2025-03-01", "UBER TRIP HELP.UBER.COM", "-18.20", "Travel"},
		{"2025-03-02", "SQ *BLUE BOTTLE COFFEE", "-6.50", "Meals"},
		{"2025-03-04", "AMAZON WEB SERVICES", "-120.00", "Software"},
	}

	assert.Equal(t, ColumnMapping{
		Date:        "When",
		Description: "What",
		Amount:      "How Much",
		Category:    "Category",
	}, DetectColumns(header, rows))
}
