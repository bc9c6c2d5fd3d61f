package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the provider answers without any choices.
var ErrEmptyCompletion = errors.New("no completion choices returned")

// Client is a raw chat completion client.
type Client interface {
	// Complete sends a system and user message and returns the first reply's text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
