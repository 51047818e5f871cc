package orchestratornode

import (
	"strings"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if err := requireState(in, "finalize_reply"); err != nil {
		return GraphOutput{}, err
	}

	out := GraphOutput{
		ThreadID: in.ThreadID,
		Reply:    strings.TrimSpace(in.Reply),
	}
	if in.Committed != nil {
		out.Version = in.Committed.Version
	}
	return out, nil
}
