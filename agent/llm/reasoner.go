package llm

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/prompt"
	openrouterx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/openrouter"
)

// New builds the reasoner selected by cfg.Provider. orCfg is only used by
// the OpenRouter and OpenAI providers.
func New(ctx context.Context, cfg Config, orCfg *openrouterx.Config, specs []contractx.ToolSpec, prompts prompt.PromptSet) (contractx.Reasoner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.ProviderName() {
	case ProviderAnthropic:
		return NewAnthropicReasoner(cfg, specs, prompts)
	case ProviderOpenRouter:
		if orCfg == nil {
			return nil, errors.New("openrouter config is required")
		}
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, err
		}
		return NewChatModelReasoner(chatModel, specs, prompts)
	case ProviderOpenAI:
		if orCfg == nil {
			return nil, errors.New("openrouter config is required")
		}
		client := openrouterx.NewClient(*orCfg)
		if client == nil {
			return nil, errors.New("failed to initialize openrouter client")
		}
		maxTokens := cfg.MaxTokens
		if orCfg.MaxCompletionToken != nil {
			maxTokens = *orCfg.MaxCompletionToken
		}
		return NewOpenAIReasoner(client, OpenAIOptions{
			Model:       orCfg.Model,
			MaxTokens:   maxTokens,
			Temperature: float64(orCfg.Temperature),
		}, specs, prompts)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", contractx.ErrInvalidInput, cfg.Provider)
	}
}
