package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/model"
	"github.com/Veraticus/bookkeeper/internal/pattern"
	"github.com/Veraticus/bookkeeper/internal/service"
)

const systemPrompt = "You are a financial categorization assistant."

// fallbackConfidence is assigned to replies that name a category without the JSON envelope.
const fallbackConfidence = 0.5

// Config holds configuration for the LLM classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// Classifier implements pattern.Assistant on top of a chat completion Client.
type Classifier struct {
	client      Client
	cache       *suggestionCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

var _ pattern.Assistant = (*Classifier)(nil)

// NewClassifier creates a new LLM-based classifier.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, logger), nil
}

// NewClassifierWithClient wraps an existing client.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Classifier{
		client:      client,
		cache:       newSuggestionCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// SuggestCategory asks the model which of the available categories fits the request. The answer
// is returned as given; callers validate it against the chart of accounts.
func (c *Classifier) SuggestCategory(ctx context.Context, req pattern.AssistantRequest) (pattern.AssistantResponse, error) {
	key := cacheKey(req)
	if cached, found := c.cache.get(key); found {
		c.logger.Debug("cache hit for description", "description", req.Description)
		return cached, nil
	}

	prompt := buildPrompt(req)

	var content string
	err := common.WithRetry(ctx, func() error {
		if err := c.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}
		var callErr error
		content, callErr = c.client.Complete(ctx, systemPrompt, prompt)
		return callErr
	}, c.retryOpts)
	if err != nil {
		return pattern.AssistantResponse{}, fmt.Errorf("%w: %w", common.ErrAssistantUnavailable, err)
	}

	resp, err := parseResponse(content)
	if err != nil {
		return pattern.AssistantResponse{}, err
	}

	c.cache.set(key, resp)
	c.logger.Info("transaction classified",
		"description", req.Description,
		"category", resp.Category,
		"confidence", resp.Confidence)

	return resp, nil
}

// Close stops the background goroutines.
func (c *Classifier) Close() error {
	c.rateLimiter.Close()
	c.cache.Close()
	return nil
}

func buildPrompt(req pattern.AssistantRequest) string {
	var sb strings.Builder

	sb.WriteString("You must find a matching historical transaction to categorize this one.\n\n")
	fmt.Fprintf(&sb, "Current transaction: %s\n\n", req.Description)

	sb.WriteString("Similar historical transactions:\n")
	if len(req.Similar) == 0 {
		sb.WriteString("No similar transactions found\n")
	}
	for _, m := range req.Similar {
		fmt.Fprintf(&sb, "- %s → %s\n", m.Description, m.Category)
	}

	sb.WriteString("\nSTRICT RULE: Only categorize if you find a very similar transaction above. ")
	sb.WriteString("Otherwise return '" + model.Uncategorized + "'.\n\n")

	names := make([]string, len(req.Categories))
	for i, cat := range req.Categories {
		names[i] = cat.Name
	}
	fmt.Fprintf(&sb, "Available categories: %s\n\n", strings.Join(names, ", "))

	sb.WriteString(`Respond with JSON: {"category": "category name", "confidence": 0.0-1.0}`)
	return sb.String()
}

// parseResponse reads the model's JSON answer. A reply without any JSON object is taken as a
// bare category name.
func parseResponse(content string) (pattern.AssistantResponse, error) {
	content = cleanMarkdownWrapper(content)

	if !strings.Contains(content, "{") {
		return pattern.AssistantResponse{
			Category:   strings.TrimSpace(content),
			Confidence: fallbackConfidence,
		}, nil
	}

	var jsonResp struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return pattern.AssistantResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if jsonResp.Category == "" {
		return pattern.AssistantResponse{}, fmt.Errorf("no category found in response")
	}

	return pattern.AssistantResponse{
		Category:   strings.TrimSpace(jsonResp.Category),
		Confidence: jsonResp.Confidence,
	}, nil
}

// cleanMarkdownWrapper strips a ```json fence and any prose around the outermost object.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

func cacheKey(req pattern.AssistantRequest) string {
	names := make([]string, len(req.Categories))
	for i, cat := range req.Categories {
		names[i] = cat.Name
	}
	return strings.ToLower(strings.TrimSpace(req.Description)) + "\x00" + strings.Join(names, "\x00")
}
