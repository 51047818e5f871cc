package orchestratornode

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

func DispatchTools(ctx context.Context, in *GraphState, tools contractx.ToolGateway) (*GraphState, error) {
	if err := requireState(in, "dispatch_tools"); err != nil {
		return nil, err
	}
	if !in.HasToolCalls() {
		return in, nil
	}

	results, err := tools.Execute(ctx, in.Plan.ToolCalls)
	if err != nil {
		return nil, err
	}
	in.Results = results
	return in, nil
}
