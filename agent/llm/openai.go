package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/prompt"
)

const openAIProvider = "chat completions"

// OpenAIReasoner plans and replies through an OpenAI compatible chat
// completions endpoint.
type OpenAIReasoner struct {
	client      *openai.Client
	model       string
	maxTokens   int64
	temperature float64
	tools       []openai.ChatCompletionToolParam
	prompts     prompt.PromptSet
}

var _ contractx.Reasoner = (*OpenAIReasoner)(nil)

type OpenAIOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewOpenAIReasoner(client *openai.Client, opts OpenAIOptions, specs []contractx.ToolSpec, prompts prompt.PromptSet) (*OpenAIReasoner, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("model is required")
	}
	return &OpenAIReasoner{
		client:      client,
		model:       strings.TrimSpace(opts.Model),
		maxTokens:   int64(opts.MaxTokens),
		temperature: opts.Temperature,
		tools:       openAITools(specs),
		prompts:     prompts,
	}, nil
}

func (r *OpenAIReasoner) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.PlanResponse, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(r.prompts.PlannerSystem(req.TripParams))}
	msgs = append(msgs, openAIHistory(req.History)...)
	msgs = append(msgs, openai.UserMessage(req.Message))

	resp, err := r.client.Chat.Completions.New(ctx, r.params(msgs))
	if err != nil {
		return contractx.PlanResponse{}, upstreamError(openAIProvider, err)
	}
	if len(resp.Choices) == 0 {
		return contractx.PlanResponse{}, finalTextError()
	}
	msg := resp.Choices[0].Message

	calls := make([]contractx.ToolCallRequest, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		args, err := decodeArgs(call.Function.Name, call.Function.Arguments)
		if err != nil {
			return contractx.PlanResponse{}, err
		}
		calls = append(calls, contractx.ToolCallRequest{ID: call.ID, Tool: call.Function.Name, Args: args})
	}

	if len(calls) > 0 {
		return contractx.PlanResponse{ToolCalls: withCallIDs(calls), Reply: strings.TrimSpace(msg.Content)}, nil
	}
	reply, err := finalText(openAIProvider, msg.Content)
	if err != nil {
		return contractx.PlanResponse{}, err
	}
	return contractx.PlanResponse{Reply: reply}, nil
}

func (r *OpenAIReasoner) Respond(ctx context.Context, req contractx.RespondRequest) (string, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(r.prompts.ResponderSystem(req.TripParams))}
	msgs = append(msgs, openAIHistory(req.History)...)
	msgs = append(msgs, openai.UserMessage(req.Message))

	assistant := openai.ChatCompletionAssistantMessageParam{}
	if preamble := strings.TrimSpace(req.Preamble); preamble != "" {
		assistant.Content.OfString = openai.String(preamble)
	}
	for _, call := range req.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Tool,
				Arguments: argsJSON(call.Args),
			},
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
	for _, res := range req.Results {
		msgs = append(msgs, openai.ToolMessage(resultContent(res), res.ID))
	}

	resp, err := r.client.Chat.Completions.New(ctx, r.params(msgs))
	if err != nil {
		return "", upstreamError(openAIProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", finalTextError()
	}
	return finalText(openAIProvider, resp.Choices[0].Message.Content)
}

func (r *OpenAIReasoner) params(msgs []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(r.model),
		Messages:    msgs,
		Tools:       r.tools,
		Temperature: openai.Float(r.temperature),
	}
	if r.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(r.maxTokens)
	}
	return params
}

func finalTextError() error {
	_, err := finalText(openAIProvider)
	return err
}

func openAIHistory(history []contractx.Turn) []openai.ChatCompletionMessageParamUnion {
	hist := historyMessages(history)
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(hist))
	for _, m := range hist {
		if m.role == contractx.RoleAssistant {
			out = append(out, openai.AssistantMessage(m.content))
		} else {
			out = append(out, openai.UserMessage(m.content))
		}
	}
	return out
}

func openAITools(specs []contractx.ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, spec := range specs {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: openai.String(spec.Description),
				Parameters:  openai.FunctionParameters(spec.Parameters()),
			},
		})
	}
	return out
}
