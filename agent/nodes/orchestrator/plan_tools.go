package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
)

// PlanTools asks the reasoner once per turn which tools to call. A plan
// without tool calls must already carry the reply.
func PlanTools(ctx context.Context, in *GraphState, reasoner contractx.Reasoner) (*GraphState, error) {
	if err := requireState(in, "plan_tools"); err != nil {
		return nil, err
	}

	plan, err := reasoner.Plan(ctx, contractx.PlanRequest{
		ThreadID:   in.ThreadID,
		History:    history(in),
		Message:    in.Text,
		TripParams: in.TripParams,
	})
	if err != nil {
		return nil, err
	}

	if len(plan.ToolCalls) == 0 && strings.TrimSpace(plan.Reply) == "" {
		return nil, fmt.Errorf("%w: reasoner returned neither tool calls nor a reply", contractx.ErrExternalFailure)
	}

	logx.Debug().
		Str("thread_id", in.ThreadID).
		Int("tool_calls", len(plan.ToolCalls)).
		Msg("turn planned")

	in.Plan = plan
	if len(plan.ToolCalls) == 0 {
		in.Reply = strings.TrimSpace(plan.Reply)
	}
	return in, nil
}

func history(in *GraphState) []contractx.Turn {
	if in.Thread == nil {
		return nil
	}
	return in.Thread.Turns
}
