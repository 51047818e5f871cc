package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/prompt"
)

const chatModelProvider = "chat model"

// ChatModelReasoner drives any eino tool calling chat model, such as the
// OpenRouter model built by pkg/openrouter.
type ChatModelReasoner struct {
	runner  compose.Runnable[map[string]any, *schema.Message]
	prompts prompt.PromptSet
}

var _ contractx.Reasoner = (*ChatModelReasoner)(nil)

func NewChatModelReasoner(chatModel einomodel.ToolCallingChatModel, specs []contractx.ToolSpec, prompts prompt.PromptSet) (*ChatModelReasoner, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	toolModel, err := chatModel.WithTools(ToolInfos(specs))
	if err != nil {
		return nil, fmt.Errorf("bind tools: %w", err)
	}
	runner, err := compileChatModelGraph(context.Background(), toolModel)
	if err != nil {
		return nil, err
	}
	return &ChatModelReasoner{runner: runner, prompts: prompts}, nil
}

// compileChatModelGraph renders the system prompt, replays history and the
// current exchange, then calls the model once.
func compileChatModelGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.MessagesPlaceholder("exchange", false),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add reasoner prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add reasoner model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add reasoner edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add reasoner edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add reasoner edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("llm.chat_model_reasoner"))
	if err != nil {
		return nil, fmt.Errorf("compile chat model reasoner graph: %w", err)
	}
	return runner, nil
}

func (r *ChatModelReasoner) generate(ctx context.Context, system string, history []contractx.Turn, exchange []*schema.Message) (*schema.Message, error) {
	out, err := r.runner.Invoke(ctx, map[string]any{
		"system":   system,
		"history":  einoHistory(history),
		"exchange": exchange,
	})
	if err != nil {
		return nil, upstreamError(chatModelProvider, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s returned no message", contractx.ErrExternalFailure, chatModelProvider)
	}
	return out, nil
}

func (r *ChatModelReasoner) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.PlanResponse, error) {
	out, err := r.generate(ctx, r.prompts.PlannerSystem(req.TripParams), req.History,
		[]*schema.Message{schema.UserMessage(req.Message)})
	if err != nil {
		return contractx.PlanResponse{}, err
	}

	calls := make([]contractx.ToolCallRequest, 0, len(out.ToolCalls))
	for _, call := range out.ToolCalls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return contractx.PlanResponse{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrExternalFailure)
		}
		args, err := decodeArgs(name, call.Function.Arguments)
		if err != nil {
			return contractx.PlanResponse{}, err
		}
		calls = append(calls, contractx.ToolCallRequest{ID: call.ID, Tool: name, Args: args})
	}

	if len(calls) > 0 {
		return contractx.PlanResponse{ToolCalls: withCallIDs(calls), Reply: strings.TrimSpace(out.Content)}, nil
	}
	reply, err := finalText(chatModelProvider, out.Content)
	if err != nil {
		return contractx.PlanResponse{}, err
	}
	return contractx.PlanResponse{Reply: reply}, nil
}

func (r *ChatModelReasoner) Respond(ctx context.Context, req contractx.RespondRequest) (string, error) {
	toolCalls := make([]schema.ToolCall, 0, len(req.ToolCalls))
	for _, call := range req.ToolCalls {
		toolCalls = append(toolCalls, schema.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      call.Tool,
				Arguments: argsJSON(call.Args),
			},
		})
	}

	exchange := []*schema.Message{
		schema.UserMessage(req.Message),
		schema.AssistantMessage(strings.TrimSpace(req.Preamble), toolCalls),
	}
	for _, res := range req.Results {
		exchange = append(exchange, schema.ToolMessage(resultContent(res), res.ID))
	}

	out, err := r.generate(ctx, r.prompts.ResponderSystem(req.TripParams), req.History, exchange)
	if err != nil {
		return "", err
	}
	return finalText(chatModelProvider, out.Content)
}

func einoHistory(history []contractx.Turn) []*schema.Message {
	hist := historyMessages(history)
	out := make([]*schema.Message, 0, len(hist))
	for _, m := range hist {
		if m.role == contractx.RoleAssistant {
			out = append(out, schema.AssistantMessage(m.content, nil))
		} else {
			out = append(out, schema.UserMessage(m.content))
		}
	}
	return out
}

// ToolInfos converts tool specs into eino tool descriptions.
func ToolInfos(specs []contractx.ToolSpec) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(specs))
	for _, spec := range specs {
		required := make(map[string]bool, len(spec.Required))
		for _, r := range spec.Required {
			required[r] = true
		}
		params := make(map[string]*schema.ParameterInfo, len(spec.Properties))
		for name, raw := range spec.Properties {
			params[name] = parameterInfo(raw, required[name])
		}
		out = append(out, &schema.ToolInfo{
			Name:        spec.Name,
			Desc:        spec.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return out
}

func parameterInfo(raw any, required bool) *schema.ParameterInfo {
	prop, _ := raw.(map[string]any)
	info := &schema.ParameterInfo{Required: required}
	if desc, ok := prop["description"].(string); ok {
		info.Desc = desc
	}
	if enum, ok := prop["enum"].([]any); ok {
		for _, v := range enum {
			info.Enum = append(info.Enum, fmt.Sprint(v))
		}
	}

	switch prop["type"] {
	case "integer":
		info.Type = schema.Integer
	case "number":
		info.Type = schema.Number
	case "boolean":
		info.Type = schema.Boolean
	case "array":
		info.Type = schema.Array
		info.ElemInfo = parameterInfo(prop["items"], false)
	case "object":
		info.Type = schema.Object
		req := map[string]bool{}
		if list, ok := prop["required"].([]any); ok {
			for _, r := range list {
				req[fmt.Sprint(r)] = true
			}
		}
		if sub, ok := prop["properties"].(map[string]any); ok {
			info.SubParams = make(map[string]*schema.ParameterInfo, len(sub))
			for name, v := range sub {
				info.SubParams[name] = parameterInfo(v, req[name])
			}
		}
	default:
		info.Type = schema.String
	}
	return info
}
