package contract

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a thread. Assistant turns carry the tool calls
// issued while producing them, paired with their results.
type Turn struct {
	Role        Role              `json:"role"`
	Content     string            `json:"content"`
	ToolCalls   []ToolCallRequest `json:"tool_calls,omitempty"`
	ToolResults []ToolCallResult  `json:"tool_results,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ToolCallRequest struct {
	// ID is the provider-assigned call id, if any.
	ID   string         `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolCallStatus string

const (
	ToolCallSucceeded ToolCallStatus = "succeeded"
	ToolCallFailed    ToolCallStatus = "failed"
)

type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	return string(f.Kind) + ": " + f.Message
}

// ToolCallResult is exactly one of success (Output set) or failure (Failure set).
type ToolCallResult struct {
	ID       string         `json:"id,omitempty"`
	Tool     string         `json:"tool"`
	Args     map[string]any `json:"args,omitempty"`
	Status   ToolCallStatus `json:"status"`
	Output   any            `json:"output,omitempty"`
	Failure  *Failure       `json:"failure,omitempty"`
	Duration time.Duration  `json:"duration_ns,omitempty"`
}

func (r ToolCallResult) Succeeded() bool {
	return r.Status == ToolCallSucceeded
}

// ToolSpec describes a registered tool to a reasoning collaborator.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Properties  map[string]any `json:"properties"`
	Required    []string       `json:"required,omitempty"`
}

// Parameters returns the tool input as a JSON-schema object.
func (s ToolSpec) Parameters() map[string]any {
	props := s.Properties
	if props == nil {
		props = map[string]any{}
	}
	params := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		params["required"] = s.Required
	}
	return params
}

type PlanRequest struct {
	ThreadID   string         `json:"thread_id"`
	History    []Turn         `json:"history"`
	Message    string         `json:"message"`
	TripParams map[string]any `json:"trip_params,omitempty"`
}

// PlanResponse either requests tools or answers directly with Reply.
type PlanResponse struct {
	ToolCalls []ToolCallRequest `json:"tool_calls,omitempty"`
	Reply     string            `json:"reply,omitempty"`
}

type RespondRequest struct {
	ThreadID   string            `json:"thread_id"`
	History    []Turn            `json:"history"`
	Message    string            `json:"message"`
	TripParams map[string]any    `json:"trip_params,omitempty"`
	Preamble   string            `json:"preamble,omitempty"`
	ToolCalls  []ToolCallRequest `json:"tool_calls"`
	Results    []ToolCallResult  `json:"results"`
}
