package orchestratornode

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	statex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/state"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 8, 0, 0, 0, time.FixedZone("CET", 3600))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	st, err := ValidateRequest(GraphInput{ThreadID: " t1 ", Text: "  hi  "}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.ThreadID != "t1" || st.Text != "hi" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.Now.Location() != time.UTC {
		t.Fatalf("now not normalized to UTC: %v", st.Now)
	}

	if _, err := ValidateRequest(GraphInput{ThreadID: "", Text: "hi"}, fixedNow); !errors.Is(err, statex.ErrInvalidThread) {
		t.Fatalf("expected ErrInvalidThread, got %v", err)
	}
	if _, err := ValidateRequest(GraphInput{ThreadID: "t1", Text: " "}, fixedNow); !errors.Is(err, contractx.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCommitTurnRefusesEmptyReplyAndDeadContext(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	in := &GraphState{ThreadID: "t1", Text: "hi", Now: fixedNow()}

	if _, err := CommitTurn(context.Background(), in, store); !errors.Is(err, contractx.ErrExternalFailure) {
		t.Fatalf("expected ErrExternalFailure for empty reply, got %v", err)
	}

	in.Reply = "hello"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CommitTurn(ctx, in, store); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("commit touched the store")
	}

	out, err := CommitTurn(context.Background(), in, store)
	if err != nil {
		t.Fatalf("CommitTurn() error = %v", err)
	}
	if out.Committed == nil || out.Committed.Version != 1 || len(out.Committed.Turns) != 2 {
		t.Fatalf("unexpected committed state: %+v", out.Committed)
	}
}

func TestDispatchAndComposeSkipWithoutToolCalls(t *testing.T) {
	t.Parallel()

	in := &GraphState{ThreadID: "t1", Text: "hi", Reply: "direct"}
	out, err := DispatchTools(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("DispatchTools() error = %v", err)
	}
	out, err = ComposeReply(context.Background(), out, nil)
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if out.Reply != "direct" {
		t.Fatalf("reply = %q", out.Reply)
	}
}
