package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/prompt"
)

const anthropicProvider = "anthropic"

// AnthropicReasoner plans and replies through the Anthropic Messages API.
type AnthropicReasoner struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	tools       []anthropic.ToolUnionParam
	prompts     prompt.PromptSet
}

var _ contractx.Reasoner = (*AnthropicReasoner)(nil)

func NewAnthropicReasoner(cfg Config, specs []contractx.ToolSpec, prompts prompt.PromptSet, opts ...option.RequestOption) (*AnthropicReasoner, error) {
	if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
		return nil, errors.New("anthropic api key is required")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.AnthropicAPIKey)),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.AnthropicBaseURL); base != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	clientOpts = append(clientOpts, opts...)

	return &AnthropicReasoner{
		client:      anthropic.NewClient(clientOpts...),
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
		tools:       anthropicTools(specs),
		prompts:     prompts,
	}, nil
}

func (r *AnthropicReasoner) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.PlanResponse, error) {
	msgs := anthropicHistory(req.History)
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Message)))

	msg, err := r.client.Messages.New(ctx, r.params(r.prompts.PlannerSystem(req.TripParams), msgs))
	if err != nil {
		return contractx.PlanResponse{}, upstreamError(anthropicProvider, err)
	}

	var (
		text  strings.Builder
		calls []contractx.ToolCallRequest
	)
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			args, err := decodeArgs(b.Name, string(b.Input))
			if err != nil {
				return contractx.PlanResponse{}, err
			}
			calls = append(calls, contractx.ToolCallRequest{ID: b.ID, Tool: b.Name, Args: args})
		}
	}

	if len(calls) > 0 {
		return contractx.PlanResponse{ToolCalls: withCallIDs(calls), Reply: strings.TrimSpace(text.String())}, nil
	}
	reply, err := finalText(anthropicProvider, text.String())
	if err != nil {
		return contractx.PlanResponse{}, err
	}
	return contractx.PlanResponse{Reply: reply}, nil
}

func (r *AnthropicReasoner) Respond(ctx context.Context, req contractx.RespondRequest) (string, error) {
	msgs := anthropicHistory(req.History)
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Message)))

	callBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.ToolCalls)+1)
	if preamble := strings.TrimSpace(req.Preamble); preamble != "" {
		callBlocks = append(callBlocks, anthropic.NewTextBlock(preamble))
	}
	for _, call := range req.ToolCalls {
		callBlocks = append(callBlocks, anthropic.NewToolUseBlock(call.ID, json.RawMessage(argsJSON(call.Args)), call.Tool))
	}
	msgs = append(msgs, anthropic.NewAssistantMessage(callBlocks...))

	resultBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Results))
	for _, res := range req.Results {
		resultBlocks = append(resultBlocks, anthropic.NewToolResultBlock(res.ID, resultContent(res), !res.Succeeded()))
	}
	msgs = append(msgs, anthropic.NewUserMessage(resultBlocks...))

	msg, err := r.client.Messages.New(ctx, r.params(r.prompts.ResponderSystem(req.TripParams), msgs))
	if err != nil {
		return "", upstreamError(anthropicProvider, err)
	}

	parts := make([]string, 0, len(msg.Content))
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, b.Text)
		}
	}
	return finalText(anthropicProvider, parts...)
}

func (r *AnthropicReasoner) params(system string, msgs []anthropic.MessageParam) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(r.model),
		MaxTokens:   r.maxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    msgs,
		Tools:       r.tools,
		Temperature: anthropic.Float(r.temperature),
	}
}

func anthropicHistory(history []contractx.Turn) []anthropic.MessageParam {
	hist := historyMessages(history)
	out := make([]anthropic.MessageParam, 0, len(hist)+2)
	for _, m := range hist {
		block := anthropic.NewTextBlock(m.content)
		if m.role == contractx.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return out
}

func anthropicTools(specs []contractx.ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        spec.Name,
				Description: anthropic.String(spec.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: spec.Properties,
					Required:   spec.Required,
				},
			},
		})
	}
	return out
}
