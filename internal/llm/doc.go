// Package llm asks a chat completion model to pick a category for a transaction when the
// similarity matcher found comparable history. Requests are rate limited, retried on
// transient failures and cached per description.
package llm
