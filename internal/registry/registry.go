// Package registry holds the chart of accounts: category names and the statement section each
// one belongs to.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyName is returned when a category name is blank after normalization.
var ErrEmptyName = errors.New("category name cannot be empty")

var apostrophes = strings.NewReplacer("'", "", "‘", "", "’", "", "`", "")

// StripApostrophes removes straight and curly apostrophes and backticks from name.
func StripApostrophes(name string) string {
	return apostrophes.Replace(name)
}

// NormalizeName returns the canonical form of a category name: apostrophes and backticks
// stripped, surrounding whitespace trimmed, title-cased.
func NormalizeName(name string) string {
	cleaned := strings.TrimSpace(StripApostrophes(name))
	return cases.Title(language.English).String(cleaned)
}

// Registry is an in-memory chart of accounts keyed by canonical category name.
// It is not safe for concurrent mutation; build it once and share it read-only.
type Registry struct {
	types map[string]model.CategoryType
}

// New builds a registry from chart entries. Entries are validated and the first malformed one
// aborts construction. Later duplicates of an existing name are ignored.
func New(entries []model.Category) (*Registry, error) {
	r := &Registry{types: make(map[string]model.CategoryType, len(entries))}
	for i, entry := range entries {
		if _, err := r.Add(entry.Name, entry.Type); err != nil {
			return nil, fmt.Errorf("chart entry %d (%q): %w", i, entry.Name, err)
		}
	}
	return r, nil
}

// Add registers a category. An empty type means Expense. It reports whether the category was
// newly inserted; adding a name that already exists in canonical form is a no-op.
func (r *Registry) Add(name string, typ model.CategoryType) (bool, error) {
	canonical := NormalizeName(name)
	if canonical == "" {
		return false, ErrEmptyName
	}
	if typ == "" {
		typ = model.CategoryTypeExpense
	}
	if !typ.Valid() {
		return false, fmt.Errorf("unknown category type %q for %q", typ, name)
	}

	if _, exists := r.types[canonical]; exists {
		return false, nil
	}
	if r.types == nil {
		r.types = make(map[string]model.CategoryType)
	}
	r.types[canonical] = typ
	return true, nil
}

// TypeOf returns the registered type for name, or Expense when the name is unknown.
func (r *Registry) TypeOf(name string) model.CategoryType {
	if r != nil {
		if typ, ok := r.types[NormalizeName(name)]; ok {
			return typ
		}
	}
	return model.CategoryTypeExpense
}

// Contains reports whether name resolves to a registered category.
func (r *Registry) Contains(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.types[NormalizeName(name)]
	return ok
}

// Resolve returns the canonical registered name for name.
func (r *Registry) Resolve(name string) (string, bool) {
	canonical := NormalizeName(name)
	if !r.Contains(canonical) {
		return "", false
	}
	return canonical, true
}

// Names returns every canonical name in ascending order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the chart as (name, type) pairs ordered by name.
func (r *Registry) Entries() []model.Category {
	names := r.Names()
	entries := make([]model.Category, 0, len(names))
	for _, name := range names {
		entries = append(entries, model.Category{Name: name, Type: r.types[name]})
	}
	return entries
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}
