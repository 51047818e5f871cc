package contract

import "context"

// Reasoner decides which tools to call and renders the final reply.
type Reasoner interface {
	Plan(ctx context.Context, req PlanRequest) (PlanResponse, error)
	Respond(ctx context.Context, req RespondRequest) (string, error)
}

type ToolGateway interface {
	Execute(ctx context.Context, reqs []ToolCallRequest) ([]ToolCallResult, error)
}
