package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	low := &model.Rule{Pattern: "stripe", Category: "Sales Revenue", Confidence: 0.6}
	require.NoError(t, store.SaveRule(ctx, low))
	assert.Equal(t, model.RuleTypeContains, low.RuleType)

	high := &model.Rule{Pattern: `^ach oak`, Category: "Rent", RuleType: model.RuleTypeRegex, Confidence: 0.95}
	require.NoError(t, store.SaveRule(ctx, high))

	replaced := &model.Rule{Pattern: "stripe", Category: "Sales Revenue", Confidence: 0.8}
	require.NoError(t, store.SaveRule(ctx, replaced))

	rules, err := store.GetRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Rent", rules[0].Category)
	assert.Equal(t, model.RuleTypeRegex, rules[0].RuleType)
	assert.InDelta(t, 0.8, rules[1].Confidence, 1e-9)

	tests := []struct {
		name string
		rule *model.Rule
	}{
		{"nil", nil},
		{"no pattern", &model.Rule{Category: "Rent"}},
		{"no category", &model.Rule{Pattern: "x"}},
		{"bad type", &model.Rule{Pattern: "x", Category: "Rent", RuleType: "fuzzy"}},
		{"bad confidence", &model.Rule{Pattern: "x", Category: "Rent", Confidence: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.SaveRule(ctx, tt.rule))
		})
	}
}
