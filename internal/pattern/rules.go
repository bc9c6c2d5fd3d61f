package pattern

import (
	"log/slog"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
)

// RuleMatcher evaluates saved categorization rules against descriptions.
type RuleMatcher struct {
	rules []model.Rule
}

// NewRuleMatcher creates a matcher. Rules are tried in the given order.
func NewRuleMatcher(rules []model.Rule) *RuleMatcher {
	return &RuleMatcher{rules: rules}
}

// Match returns the first rule that matches description.
func (m *RuleMatcher) Match(description string) (model.Rule, bool) {
	if m == nil {
		return model.Rule{}, false
	}
	text := strings.ToLower(strings.TrimSpace(description))
	if text == "" {
		return model.Rule{}, false
	}

	for _, rule := range m.rules {
		if matchesRule(rule, text) {
			return rule, true
		}
	}
	return model.Rule{}, false
}

func matchesRule(rule model.Rule, text string) bool {
	pattern := strings.TrimSpace(rule.Pattern)
	if pattern == "" {
		return false
	}

	switch rule.RuleType {
	case model.RuleTypeRegex:
		ok, err := common.MatchRegex(pattern, text)
		if err != nil {
			slog.Warn("skipping rule with invalid pattern", "pattern", pattern, "error", err)
			return false
		}
		return ok
	default:
		return strings.Contains(text, strings.ToLower(pattern))
	}
}
