package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/bookkeeper/internal/amount"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/registry"
	"github.com/shopspring/decimal"
)

// ReviewStats counts the decisions made during a review.
type ReviewStats struct {
	Accepted   int
	Overridden int
	Skipped    int
}

// Reviewer asks the user to confirm each suggestion before it is applied. It wraps another
// suggester and is itself a pattern.CategorySuggester. Once input runs out the remaining
// suggestions are applied unreviewed.
type Reviewer struct {
	next      pattern.CategorySuggester
	registry  *registry.Registry
	reader    *LineReader
	writer    io.Writer
	stats     ReviewStats
	exhausted bool
	mu        sync.Mutex
}

// NewReviewer creates a reviewer reading answers from in and writing prompts to out. next may be
// nil when the reviewer is installed later through Wrap.
func NewReviewer(next pattern.CategorySuggester, reg *registry.Registry, in io.Reader, out io.Writer) *Reviewer {
	return &Reviewer{
		next:     next,
		registry: reg,
		reader:   NewLineReader(in),
		writer:   out,
	}
}

// Wrap sets the suggester being reviewed and returns the reviewer. Stats carry over, so one
// reviewer can serve several runs.
func (r *Reviewer) Wrap(next pattern.CategorySuggester) pattern.CategorySuggester {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = next
	return r
}

// Suggest implements pattern.CategorySuggester.
func (r *Reviewer) Suggest(ctx context.Context, description string, amt decimal.Decimal) (pattern.Suggestion, error) {
	suggestion, err := r.next.Suggest(ctx, description, amt)
	if err != nil {
		return suggestion, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exhausted {
		return suggestion, nil
	}

	reviewed, err := r.review(ctx, description, amt, suggestion)
	if errors.Is(err, io.EOF) {
		r.exhausted = true
		r.println(FormatWarning("No more input, applying remaining suggestions unreviewed"))
		return suggestion, nil
	}
	if errors.Is(err, ErrInputCancelled) {
		return pattern.Suggestion{}, ctx.Err()
	}
	return reviewed, err
}

// Stats returns the decisions made so far.
func (r *Reviewer) Stats() ReviewStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Reviewer) review(ctx context.Context, description string, amt decimal.Decimal, s pattern.Suggestion) (pattern.Suggestion, error) {
	r.println(RenderBox("Transaction", formatSuggestion(description, amt, s)))

	hasSuggestion := !model.IsUncategorized(s.Category)
	choices := []string{"c", "s"}
	if hasSuggestion {
		r.println(fmt.Sprintf("  [A] Accept %s", BoldStyle.Render(s.Category)))
		choices = append(choices, "a")
	}
	r.println("  [C] Choose another category")
	r.println("  [S] Skip, leave uncategorized")

	choice, err := r.promptChoice(ctx, "Choice", choices)
	if err != nil {
		return pattern.Suggestion{}, err
	}

	switch choice {
	case "a":
		r.stats.Accepted++
		return pattern.Suggestion{Category: s.Category, Confidence: 1, Reason: "confirmed by user"}, nil
	case "c":
		category, err := r.promptCategory(ctx)
		if err != nil {
			return pattern.Suggestion{}, err
		}
		if category != "" {
			r.stats.Overridden++
			return pattern.Suggestion{Category: category, Confidence: 1, Reason: "chosen by user"}, nil
		}
	}

	r.stats.Skipped++
	return pattern.Suggestion{Category: model.Uncategorized, Reason: "skipped by user"}, nil
}

func (r *Reviewer) promptChoice(ctx context.Context, prompt string, valid []string) (string, error) {
	for {
		r.print(FormatPrompt(prompt))
		input, err := r.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}
		r.println(FormatError("Invalid choice. Please try again."))
	}
}

// promptCategory reads a category name until it resolves against the chart. A blank answer
// returns "".
func (r *Reviewer) promptCategory(ctx context.Context) (string, error) {
	r.println(SubtleStyle.Render(strings.Join(r.registry.Names(), ", ")))
	for {
		r.print(FormatPrompt("Category"))
		input, err := r.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		if input == "" {
			return "", nil
		}
		if canonical, ok := r.registry.Resolve(input); ok {
			return canonical, nil
		}
		r.println(FormatError(fmt.Sprintf("%q is not in the chart of accounts", input)))
	}
}

func formatSuggestion(description string, amt decimal.Decimal, s pattern.Suggestion) string {
	lines := []string{
		BoldStyle.Render(description),
		"Amount:     " + amount.Format(amt),
		fmt.Sprintf("Suggestion: %s (%.0f%%)", s.Category, s.Confidence*100),
	}
	if s.Reason != "" {
		lines = append(lines, SubtleStyle.Render(s.Reason))
	}
	return strings.Join(lines, "\n")
}

func (r *Reviewer) print(s string) {
	if _, err := fmt.Fprint(r.writer, s); err != nil {
		slog.Warn("Failed to write prompt", "error", err)
	}
}

func (r *Reviewer) println(s string) {
	if _, err := fmt.Fprintln(r.writer, s); err != nil {
		slog.Warn("Failed to write prompt", "error", err)
	}
}
