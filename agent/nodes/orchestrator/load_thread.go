package orchestratornode

import (
	"context"

	statex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/state"
)

func LoadThread(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if err := requireState(in, "load_thread"); err != nil {
		return nil, err
	}

	st, err := store.Resolve(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	in.Thread = st
	in.TripParams = st.TripParams()
	return in, nil
}
