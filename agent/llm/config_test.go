package llm

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Provider: "Anthropic", Model: "claude-sonnet-4-5", AnthropicAPIKey: "k", MaxTokens: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := map[string]Config{
		"missing key":      {Provider: "anthropic", Model: "m", MaxTokens: 1},
		"unknown provider": {Provider: "gemini", MaxTokens: 1},
		"zero tokens":      {Provider: "openrouter"},
		"negative temp":    {Provider: "openai", MaxTokens: 1, Temperature: -0.1},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); !errors.Is(err, contractx.ErrInvalidInput) {
			t.Fatalf("%s: Validate() error = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestNewRequiresOpenRouterConfig(t *testing.T) {
	t.Parallel()

	for _, provider := range []string{ProviderOpenRouter, ProviderOpenAI} {
		if _, err := New(context.Background(), Config{Provider: provider, MaxTokens: 1}, nil, nil, testPrompts); err == nil {
			t.Fatalf("New(%s) without openrouter config: error = nil", provider)
		}
	}

	r, err := New(context.Background(), Config{Provider: ProviderAnthropic, Model: "m", AnthropicAPIKey: "k", MaxTokens: 1}, nil, testSpecs(), testPrompts)
	if err != nil {
		t.Fatalf("New(anthropic) error = %v", err)
	}
	if _, ok := r.(*AnthropicReasoner); !ok {
		t.Fatalf("New(anthropic) returned %T", r)
	}
}
