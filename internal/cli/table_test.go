package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/Veraticus/bookkeeper/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatement(t *testing.T) {
	reg, err := registry.New(registry.DefaultChart())
	require.NoError(t, err)

	txns := []model.Transaction{
		{Date: "2024-01-05", Description: "Stripe", Amount: decimal.NewFromInt(2500), Category: "Sales Revenue"},
		{Date: "2024-01-06", Description: "Landlord", Amount: decimal.NewFromInt(-1000), Category: "Rent"},
		{Date: "2024-02-06", Description: "Landlord", Amount: decimal.NewFromInt(-1000), Category: "Rent"},
	}
	stmt := report.Generate(txns, reg, decimal.NewFromInt(500))

	var out bytes.Buffer
	require.NoError(t, RenderStatement(&out, stmt))

	text := out.String()
	for _, want := range []string{"Category", "2024-01", "2024-02", "Total", "Sales Revenue", "$2,500.00", "($2,000.00)", "Net Income", "Ending Cash"} {
		assert.Contains(t, text, want)
	}
	assert.Contains(t, text, "Net Income margin: 20.0%")
	assert.Contains(t, text, "Gross Profit margin: n/a")

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	assert.Equal(t, len(stmt.Rows)+2+len(report.MarginLabels), len(lines))
}

func TestRenderStatement_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderStatement(&out, report.Generate(nil, nil, decimal.Zero)))
	assert.Contains(t, out.String(), "No transactions in range")
}

func TestNewProgressBar(t *testing.T) {
	var out bytes.Buffer
	progress := NewProgressBar(&out, "Categorizing")
	for i := 1; i <= 3; i++ {
		progress(i, 3)
	}
	assert.Contains(t, out.String(), "Categorizing")
	assert.Contains(t, out.String(), "3/3")
}
