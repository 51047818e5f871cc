package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	statex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/state"
)

var (
	ErrInvalidMessage = fmt.Errorf("%w: message is empty", contractx.ErrInvalidInput)
	ErrInvalidThread  = fmt.Errorf("%w: %w", contractx.ErrInvalidInput, statex.ErrInvalidThread)
)

type GraphInput struct {
	ThreadID string
	Text     string
}

type GraphOutput struct {
	ThreadID string
	Reply    string
	Version  int64
}

// GraphState is carried through every node of one turn.
type GraphState struct {
	ThreadID string
	Text     string
	Now      time.Time

	Thread     *statex.ThreadState
	TripParams map[string]any

	Plan    contractx.PlanResponse
	Results []contractx.ToolCallResult
	Reply   string

	Committed *statex.ThreadState
}

// HasToolCalls reports whether the plan requested any tool.
func (s *GraphState) HasToolCalls() bool {
	return s != nil && len(s.Plan.ToolCalls) > 0
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	threadID := strings.TrimSpace(in.ThreadID)
	if !statex.ValidThreadID(threadID) {
		return nil, ErrInvalidThread
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		ThreadID: threadID,
		Text:     text,
		Now:      nowFn().UTC(),
	}, nil
}

func requireState(in *GraphState, node string) error {
	if in == nil {
		return fmt.Errorf("%w: %s: graph state is nil", contractx.ErrInternalFault, node)
	}
	return nil
}
