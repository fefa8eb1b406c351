package llm

import (
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config describes an OpenAI-compatible chat-completion endpoint.
type Config struct {
	BaseURL         string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey          string        `envconfig:"API_KEY" split_words:"true"`
	Model           string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	MaxOutputTokens int           `envconfig:"MAX_OUTPUT_TOKENS" split_words:"true" default:"150"`
	Timeout         time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// NewClient creates an OpenAI SDK client for the configured endpoint.
// Returns nil when no API key is configured; callers treat a nil client
// as "assistant unavailable" and fall back to canned replies.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}

	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
