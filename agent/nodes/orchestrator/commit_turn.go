package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	statex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/state"
)

// CommitTurn appends the user turn and the assistant turn in one call. It
// runs only once the reply is ready and refuses to commit after ctx ended.
func CommitTurn(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if err := requireState(in, "commit_turn"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Reply) == "" {
		return nil, fmt.Errorf("%w: reasoner returned an empty reply", contractx.ErrExternalFailure)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user := contractx.Turn{
		Role:      contractx.RoleUser,
		Content:   in.Text,
		CreatedAt: in.Now,
	}
	assistant := contractx.Turn{
		Role:        contractx.RoleAssistant,
		Content:     in.Reply,
		ToolCalls:   in.Plan.ToolCalls,
		ToolResults: in.Results,
		CreatedAt:   in.Now,
	}

	st, err := store.Append(ctx, in.ThreadID, user, assistant)
	if err != nil {
		return nil, err
	}
	in.Committed = st
	return in, nil
}
