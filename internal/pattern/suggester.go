package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/shopspring/decimal"
)

// Ensure Suggester implements CategorySuggester interface.
var _ CategorySuggester = (*Suggester)(nil)

// Suggester picks categories from similar history rows, optionally asking an assistant to decide.
type Suggester struct {
	matcher   *SimilarityMatcher
	registry  *registry.Registry
	assistant Assistant
	rules     *RuleMatcher
	history   []HistoricalTransaction
	limit     int
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithAssistant routes the final decision through an external assistant.
func WithAssistant(a Assistant) SuggesterOption {
	return func(s *Suggester) { s.assistant = a }
}

// WithRules consults saved rules before looking at history.
func WithRules(rules []model.Rule) SuggesterOption {
	return func(s *Suggester) { s.rules = NewRuleMatcher(rules) }
}

// WithMatcher replaces the default similarity matcher.
func WithMatcher(m *SimilarityMatcher) SuggesterOption {
	return func(s *Suggester) { s.matcher = m }
}

// WithLimit sets how many similar rows are considered.
func WithLimit(k int) SuggesterOption {
	return func(s *Suggester) { s.limit = k }
}

// NewSuggester creates a suggester over a chart of accounts and a categorized history.
func NewSuggester(reg *registry.Registry, history []HistoricalTransaction, opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		matcher:  NewSimilarityMatcher(),
		registry: reg,
		history:  history,
		limit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns a category for description. A matching saved rule wins. Without enough
// similar history the answer is Uncategorized with zero confidence; that is an expected
// outcome, not an error. Assistant failures are returned to the caller.
func (s *Suggester) Suggest(ctx context.Context, description string, amt decimal.Decimal) (Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return Suggestion{}, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return uncategorized("empty description"), nil
	}

	if rule, ok := s.rules.Match(description); ok {
		if name, known := s.registry.Resolve(rule.Category); known {
			return Suggestion{
				Category:   name,
				Confidence: clamp(rule.Confidence),
				Reason:     fmt.Sprintf("matches saved rule %q", rule.Pattern),
			}, nil
		}
	}

	matches := s.matcher.FindSimilar(description, s.history, s.limit)
	if len(matches) == 0 {
		return uncategorized("no similar transactions found"), nil
	}

	if s.assistant == nil {
		return s.fromTopMatch(matches), nil
	}

	resp, err := s.assistant.SuggestCategory(ctx, AssistantRequest{
		Description: description,
		Amount:      amt,
		Similar:     matches,
		Categories:  s.registry.Entries(),
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("assistant failed for %q: %w", description, err)
	}

	name, ok := s.registry.Resolve(resp.Category)
	if !ok {
		slog.Debug("assistant answer not in chart of accounts",
			"description", description,
			"answer", resp.Category)
		out := uncategorized(fmt.Sprintf("assistant answered unknown category %q", resp.Category))
		out.Matches = matches
		return out, nil
	}

	return Suggestion{
		Category:   name,
		Confidence: clamp(resp.Confidence),
		Reason:     generateReason(matches[0], name),
		Matches:    matches,
	}, nil
}

func (s *Suggester) fromTopMatch(matches []Match) Suggestion {
	top := matches[0]
	name, ok := s.registry.Resolve(top.Category)
	if !ok {
		out := uncategorized(fmt.Sprintf("closest match uses unknown category %q", top.Category))
		out.Matches = matches
		return out
	}
	return Suggestion{
		Category:   name,
		Confidence: clamp(top.Similarity),
		Reason:     generateReason(top, name),
		Matches:    matches,
	}
}

// generateReason creates a human-readable explanation for why a category was suggested.
func generateReason(m Match, category string) string {
	return fmt.Sprintf("%q shares %d words (%.0f%%) and was categorized as %s",
		m.Description, m.Common, m.Similarity*100, category)
}

func uncategorized(reason string) Suggestion {
	return Suggestion{Category: model.Uncategorized, Reason: reason}
}

func clamp(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
