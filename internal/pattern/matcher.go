package pattern

import (
	"sort"
	"strings"
)

const (
	// DefaultMinCommon is the least number of shared words for a history row to count as similar.
	DefaultMinCommon = 3
	// DefaultMinRatio is the least share of the query's words a history row must cover.
	DefaultMinRatio = 0.5
	// DefaultLimit is the number of matches returned when the caller asks for k <= 0.
	DefaultLimit = 3
)

// DefaultStopWords are dropped from both sides before comparing descriptions.
var DefaultStopWords = []string{"the", "and", "or", "for", "to", "from", "of", "in", "on", "at", "by"}

// SimilarityMatcher ranks historical transactions by word overlap with a description.
type SimilarityMatcher struct {
	stopWords map[string]struct{}
	minCommon int
	minRatio  float64
}

// NewSimilarityMatcher creates a matcher with the default stop words and thresholds.
func NewSimilarityMatcher() *SimilarityMatcher {
	return NewSimilarityMatcherWithStopWords(DefaultStopWords)
}

// NewSimilarityMatcherWithStopWords creates a matcher with a custom stop-word list.
func NewSimilarityMatcherWithStopWords(stopWords []string) *SimilarityMatcher {
	m := &SimilarityMatcher{
		stopWords: make(map[string]struct{}, len(stopWords)),
		minCommon: DefaultMinCommon,
		minRatio:  DefaultMinRatio,
	}
	for _, w := range stopWords {
		m.stopWords[strings.ToLower(w)] = struct{}{}
	}
	return m
}

// FindSimilar returns up to k history rows similar to description, best first. Ties keep the
// order of history. A row qualifies only when it shares at least three meaningful words with the
// description and those words cover at least half of the description's meaningful words.
func (m *SimilarityMatcher) FindSimilar(description string, history []HistoricalTransaction, k int) []Match {
	if k <= 0 {
		k = DefaultLimit
	}

	query := m.tokens(description)
	if len(query) == 0 {
		return []Match{}
	}

	matches := make([]Match, 0)
	for _, h := range history {
		common := m.overlap(query, h.Description)
		if common < m.minCommon {
			continue
		}

		similarity := float64(common) / float64(len(query))
		if similarity < m.minRatio {
			continue
		}

		matches = append(matches, Match{
			Description: h.Description,
			Category:    h.Category,
			Similarity:  similarity,
			Common:      common,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// Similarity returns the share of description's meaningful words found in other, and the
// number of shared words. It applies no thresholds.
func (m *SimilarityMatcher) Similarity(description, other string) (float64, int) {
	query := m.tokens(description)
	if len(query) == 0 {
		return 0, 0
	}
	common := m.overlap(query, other)
	return float64(common) / float64(len(query)), common
}

func (m *SimilarityMatcher) overlap(query map[string]struct{}, text string) int {
	common := 0
	for word := range m.tokens(text) {
		if _, ok := query[word]; ok {
			common++
		}
	}
	return common
}

func (m *SimilarityMatcher) tokens(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := m.stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}
