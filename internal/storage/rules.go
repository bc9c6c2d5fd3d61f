package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/model"
)

// SaveRule inserts a rule, replacing an existing rule with the same pattern and category.
func (s *SQLiteStorage) SaveRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}
	if rule.RuleType == "" {
		rule.RuleType = model.RuleTypeContains
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO categorization_rules (pattern, category, rule_type, confidence)
		VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(rule.Pattern), cleanCategory(rule.Category), rule.RuleType, rule.Confidence)
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read rule id: %w", err)
	}
	rule.ID = id

	slog.Debug("saved categorization rule", "pattern", rule.Pattern, "category", rule.Category)
	return nil
}

// GetRules returns every rule, most confident first.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern, category, rule_type, confidence
		FROM categorization_rules
		ORDER BY confidence DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		var rule model.Rule
		if err := rows.Scan(&rule.ID, &rule.Pattern, &rule.Category, &rule.RuleType, &rule.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}
	return rules, nil
}
