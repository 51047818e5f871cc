package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

// historyMessage is a prior turn reduced to role and text. Tool traffic of
// earlier turns is not replayed; the trip parameters carry what matters.
type historyMessage struct {
	role    contractx.Role
	content string
}

func historyMessages(history []contractx.Turn) []historyMessage {
	out := make([]historyMessage, 0, len(history))
	for _, t := range history {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		out = append(out, historyMessage{role: t.Role, content: content})
	}
	return out
}

// decodeArgs parses a provider's raw JSON arguments. Empty input means no
// arguments.
func decodeArgs(tool, raw string) (map[string]any, error) {
	args := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrExternalFailure, tool, err)
	}
	return args, nil
}

// withCallIDs fills in missing call ids so results can be paired with the
// calls that produced them.
func withCallIDs(calls []contractx.ToolCallRequest) []contractx.ToolCallRequest {
	for i := range calls {
		if strings.TrimSpace(calls[i].ID) == "" {
			calls[i].ID = fmt.Sprintf("call_%d", i+1)
		}
	}
	return calls
}

// resultContent renders a tool result for the model.
func resultContent(res contractx.ToolCallResult) string {
	var payload any
	if res.Succeeded() {
		payload = res.Output
	} else {
		payload = map[string]any{"error": res.Failure}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return `{"error":{"kind":"internal_fault","message":"result could not be encoded"}}`
	}
	return string(b)
}

func argsJSON(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// finalText checks the reply a provider produced.
func finalText(provider string, parts ...string) (string, error) {
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", fmt.Errorf("%w: %s returned an empty reply", contractx.ErrExternalFailure, provider)
	}
	return text, nil
}

func upstreamError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", contractx.ErrExternalFailure, provider, err)
}
