package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

const (
	ProviderAnthropic = "anthropic"
	// ProviderOpenRouter drives an eino chat model over OpenRouter.
	ProviderOpenRouter = "openrouter"
	// ProviderOpenAI calls any OpenAI compatible chat completions endpoint,
	// OpenRouter by default.
	ProviderOpenAI = "openai"
)

// Config selects and tunes the reasoning collaborator. OpenRouter and
// OpenAI providers take their endpoint, key and model from the OPENROUTER_*
// settings instead.
type Config struct {
	Provider         string        `envconfig:"LLM_PROVIDER" default:"anthropic"`
	Model            string        `envconfig:"MODEL_NAME" default:"claude-sonnet-4-5"`
	AnthropicAPIKey  string        `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `envconfig:"ANTHROPIC_BASE_URL"`
	MaxTokens        int           `envconfig:"LLM_MAX_TOKENS" default:"4096"`
	Temperature      float64       `envconfig:"LLM_TEMPERATURE" default:"0"`
	Timeout          time.Duration `envconfig:"LLM_TIMEOUT" default:"90s"`
}

func (c Config) Validate() error {
	switch c.ProviderName() {
	case ProviderAnthropic:
		if strings.TrimSpace(c.AnthropicAPIKey) == "" {
			return fmt.Errorf("%w: anthropic api key is required", contractx.ErrInvalidInput)
		}
		if strings.TrimSpace(c.Model) == "" {
			return fmt.Errorf("%w: model name is required", contractx.ErrInvalidInput)
		}
	case ProviderOpenRouter, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrInvalidInput, c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive", contractx.ErrInvalidInput)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("%w: temperature must be >= 0", contractx.ErrInvalidInput)
	}
	return nil
}

func (c Config) ProviderName() string {
	return strings.ToLower(strings.TrimSpace(c.Provider))
}
