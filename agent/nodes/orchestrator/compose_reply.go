package orchestratornode

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

// ComposeReply renders the reply from tool results. It is a no-op when the
// plan answered directly.
func ComposeReply(ctx context.Context, in *GraphState, reasoner contractx.Reasoner) (*GraphState, error) {
	if err := requireState(in, "compose_reply"); err != nil {
		return nil, err
	}
	if !in.HasToolCalls() {
		return in, nil
	}

	reply, err := reasoner.Respond(ctx, contractx.RespondRequest{
		ThreadID:   in.ThreadID,
		History:    history(in),
		Message:    in.Text,
		TripParams: in.TripParams,
		Preamble:   strings.TrimSpace(in.Plan.Reply),
		ToolCalls:  in.Plan.ToolCalls,
		Results:    in.Results,
	})
	if err != nil {
		return nil, err
	}
	in.Reply = strings.TrimSpace(reply)
	return in, nil
}
