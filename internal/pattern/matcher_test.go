package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityMatcher_FindSimilar(t *testing.T) {
	m := NewSimilarityMatcher()

	tests := []struct {
		name        string
		description string
		history     []HistoricalTransaction
		want        []string
		k           int
	}{
		{
			name:        "three of four words is a candidate",
			description: "alpha bravo charlie delta",
			history:     []HistoricalTransaction{{Description: "alpha bravo charlie", Category: "Rent"}},
			want:        []string{"alpha bravo charlie"},
		},
		{
			name:        "two common words never qualify",
			description: "alpha bravo",
			history:     []HistoricalTransaction{{Description: "alpha bravo", Category: "Rent"}},
			want:        []string{},
		},
		{
			name:        "three common words below half of the query",
			description: "alpha bravo charlie delta echo foxtrot golf",
			history:     []HistoricalTransaction{{Description: "alpha bravo charlie", Category: "Rent"}},
			want:        []string{},
		},
		{
			name:        "stop words do not count",
			description: "payment to the city of springfield",
			history:     []HistoricalTransaction{{Description: "the payment of the city", Category: "Utilities"}},
			want:        []string{},
		},
		{
			name:        "case and repeated words are ignored",
			description: "ACME Corp Monthly Invoice",
			history: []HistoricalTransaction{
				{Description: "acme acme corp monthly", Category: "Materials & Supplies"},
			},
			want: []string{"acme acme corp monthly"},
		},
		{
			name:        "only stop words in query",
			description: "the and of",
			history:     []HistoricalTransaction{{Description: "the and of", Category: "Rent"}},
			want:        []string{},
		},
		{
			name:        "ranked by similarity with ties in history order",
			description: "acme corp monthly invoice",
			history: []HistoricalTransaction{
				{Description: "acme corp monthly", Category: "A"},
				{Description: "acme corp monthly invoice", Category: "B"},
				{Description: "acme corp invoice", Category: "C"},
			},
			want: []string{"acme corp monthly invoice", "acme corp monthly", "acme corp invoice"},
		},
		{
			name:        "limited to k",
			description: "acme corp monthly invoice",
			history: []HistoricalTransaction{
				{Description: "acme corp monthly", Category: "A"},
				{Description: "acme corp monthly invoice", Category: "B"},
				{Description: "acme corp invoice", Category: "C"},
			},
			k:    1,
			want: []string{"acme corp monthly invoice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindSimilar(tt.description, tt.history, tt.k)
			descriptions := make([]string, 0, len(got))
			for _, match := range got {
				descriptions = append(descriptions, match.Description)
			}
			assert.Equal(t, tt.want, descriptions)
		})
	}
}

func TestSimilarityMatcher_DefaultLimit(t *testing.T) {
	m := NewSimilarityMatcher()
	history := make([]HistoricalTransaction, 5)
	for i := range history {
		history[i] = HistoricalTransaction{Description: "wire transfer acme corp", Category: "Rent"}
	}

	got := m.FindSimilar("wire transfer acme corp", history, 0)
	assert.Len(t, got, DefaultLimit)
}

func TestSimilarityMatcher_Scores(t *testing.T) {
	m := NewSimilarityMatcher()

	got := m.FindSimilar("a b c d", []HistoricalTransaction{
		{Description: "a b c", Category: "Rent"},
		{Description: "a b", Category: "Rent"},
	}, 3)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.75, got[0].Similarity, 1e-9)
	assert.Equal(t, 3, got[0].Common)
	assert.Equal(t, "Rent", got[0].Category)

	ratio, common := m.Similarity("a b c d", "a b")
	assert.InDelta(t, 0.5, ratio, 1e-9)
	assert.Equal(t, 2, common)
}

func TestNewSimilarityMatcherWithStopWords(t *testing.T) {
	m := NewSimilarityMatcherWithStopWords([]string{"POS"})

	got := m.FindSimilar("pos acme corp store", []HistoricalTransaction{
		{Description: "POS acme corp", Category: "Rent"},
	}, 3)
	assert.Empty(t, got, "pos is a stop word so only two words are shared")

	got = m.FindSimilar("the acme corp", []HistoricalTransaction{
		{Description: "the acme corp", Category: "Rent"},
	}, 3)
	assert.Len(t, got, 1, "the is an ordinary word with a custom list")
}
