package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	err      error
	response pattern.AssistantResponse
	calls    int
}

func (s *stubAssistant) SuggestCategory(_ context.Context, _ pattern.AssistantRequest) (pattern.AssistantResponse, error) {
	s.calls++
	return s.response, s.err
}

type overrideSuggester struct {
	next     pattern.CategorySuggester
	category string
	seen     []string
}

func (o *overrideSuggester) Suggest(ctx context.Context, description string, amt decimal.Decimal) (pattern.Suggestion, error) {
	if _, err := o.next.Suggest(ctx, description, amt); err != nil {
		return pattern.Suggestion{}, err
	}
	o.seen = append(o.seen, description)
	return pattern.Suggestion{Category: o.category, Confidence: 1}, nil
}

func TestEngine_CategorizeFile_Review(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.TestDBOptions{DefaultChart: true})
	ctx := context.Background()
	file := testutil.SeedFile(t, store, "jan.csv",
		testutil.Txn("2024-01-01", "Corner cafe", "-12", ""),
		testutil.Txn("2024-01-02", "Manual", "-5", "Office Supplies"),
	)

	review := &overrideSuggester{category: "Meals & Entertainment"}
	cfg := DefaultConfig()
	cfg.Review = func(next pattern.CategorySuggester) pattern.CategorySuggester {
		review.next = next
		return review
	}

	result, err := New(store, nil, cfg).CategorizeFile(ctx, file.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Categorized)
	assert.Equal(t, []string{"Corner cafe"}, review.seen)

	saved, err := store.GetTransactions(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meals & Entertainment", saved[0].Category)
	assert.Equal(t, "Office Supplies", saved[1].Category)
}

func TestEngine_CategorizeFile(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.TestDBOptions{
		DefaultChart: true,
		Rules:        []model.Rule{{Pattern: "city water", Category: "Utilities", Confidence: 0.95}},
	})
	ctx := context.Background()

	testutil.SeedFile(t, store, "history.csv",
		testutil.Txn("2023-12-01", "ACH payment oak street property mgmt", "-1500", "Rent"),
	)
	file := testutil.SeedFile(t, store, "jan.csv",
		testutil.Txn("2024-01-01", "ACH payment oak street property", "-1500", ""),
		testutil.Txn("2024-01-02", "City Water Dept", "-80", ""),
		testutil.Txn("2024-01-03", "Mystery", "-5", ""),
		testutil.Txn("2024-01-04", "Manual", "-5", "Office Supplies"),
	)

	e := New(store, nil, DefaultConfig())
	var calls int
	result, err := e.CategorizeFile(ctx, file.ID, func(_, _ int) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, result.Categorized)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, 1, result.Skipped)

	saved, err := store.GetTransactions(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, saved, 4)
	assert.Equal(t, "Rent", saved[0].Category)
	assert.InDelta(t, 1.0, saved[0].Confidence, 1e-9)
	assert.Equal(t, "Utilities", saved[1].Category)
	assert.InDelta(t, 0.95, saved[1].Confidence, 1e-9)
	assert.Equal(t, model.Uncategorized, saved[2].Category)
	assert.Equal(t, "Office Supplies", saved[3].Category)
}

func TestEngine_CategorizeFile_AssistantFailure(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.TestDBOptions{DefaultChart: true})
	ctx := context.Background()

	testutil.SeedFile(t, store, "history.csv",
		testutil.Txn("2023-12-01", "ACH payment oak street property mgmt", "-1500", "Rent"),
	)
	file := testutil.SeedFile(t, store, "jan.csv",
		testutil.Txn("2024-01-01", "ACH payment oak street property", "-1500", ""),
	)

	assistant := &stubAssistant{err: errors.New("service unavailable")}
	result, err := New(store, assistant, DefaultConfig()).CategorizeFile(ctx, file.ID, nil)
	require.NoError(t, err, "per-row failures do not abort the run")
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, assistant.calls)

	saved, err := store.GetTransactions(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "", saved[0].Category)
}

func TestEngine_CategorizeFile_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty chart", func(t *testing.T) {
		store := testutil.SetupTestDB(t, testutil.TestDBOptions{})
		file := testutil.SeedFile(t, store, "jan.csv", testutil.Txn("2024-01-01", "x", "1", ""))

		_, err := New(store, nil, DefaultConfig()).CategorizeFile(ctx, file.ID, nil)
		require.ErrorIs(t, err, common.ErrEmptyChartOfAccounts)
		var userErr *common.UserError
		assert.ErrorAs(t, err, &userErr)
	})

	t.Run("empty file", func(t *testing.T) {
		store := testutil.SetupTestDB(t, testutil.TestDBOptions{DefaultChart: true})
		file := testutil.SeedFile(t, store, "jan.csv")

		_, err := New(store, nil, DefaultConfig()).CategorizeFile(ctx, file.ID, nil)
		require.ErrorIs(t, err, common.ErrNoTransactions)
	})
}

func TestEngine_LearnCategories(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.TestDBOptions{
		Categories: []model.Category{{Name: "Rent", Type: model.CategoryTypeExpense}},
	})
	ctx := context.Background()

	learned, err := New(store, nil, DefaultConfig()).LearnCategories(ctx, []model.Transaction{
		{Category: "rent"},
		{Category: "bank fees"},
		{Category: "Bank Fees"},
		{Category: "Uncategorized"},
		{Category: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bank Fees"}, learned)

	chart, err := store.GetChartOfAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{
		{Name: "Bank Fees", Type: model.CategoryTypeExpense},
		{Name: "Rent", Type: model.CategoryTypeExpense},
	}, chart)
}
