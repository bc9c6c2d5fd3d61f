package config

import (
	"os"

	"github.com/Veraticus/bookkeeper/internal/llm"
	"github.com/spf13/viper"
)

// LoadLLMConfig loads the categorization assistant settings. The API key falls back to
// OPENAI_API_KEY, which a .env file may provide.
func LoadLLMConfig() llm.Config {
	return llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      firstNonEmpty(viper.GetString("llm.api_key"), os.Getenv("OPENAI_API_KEY")),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		RateLimit:   viper.GetInt("llm.requests_per_minute"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
}

// LLMEnabled reports whether an assistant should be used. It is on when a key is available
// unless llm.enabled is explicitly false.
func LLMEnabled() bool {
	if viper.IsSet("llm.enabled") && !viper.GetBool("llm.enabled") {
		return false
	}
	return LoadLLMConfig().APIKey != ""
}
