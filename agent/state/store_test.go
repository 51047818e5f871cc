package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

func userTurn(content string) contractx.Turn {
	return contractx.Turn{Role: contractx.RoleUser, Content: content, CreatedAt: time.Now().UTC()}
}

func assistantTurn(content string) contractx.Turn {
	return contractx.Turn{Role: contractx.RoleAssistant, Content: content, CreatedAt: time.Now().UTC()}
}

// exerciseStore runs the behaviour every Store variant must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Resolve(ctx, "thread-a")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(st.Turns) != 0 || st.Version != 0 {
		t.Fatalf("new thread = %+v, want empty", st)
	}
	if st.CreatedAt.IsZero() {
		t.Fatal("new thread has zero CreatedAt")
	}

	again, err := store.Resolve(ctx, "thread-a")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !again.CreatedAt.Equal(st.CreatedAt) {
		t.Fatalf("Resolve is not idempotent: %v != %v", again.CreatedAt, st.CreatedAt)
	}

	st, err = store.Append(ctx, "thread-a", userTurn("hi"), assistantTurn("hello"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(st.Turns) != 2 || st.Version != 1 {
		t.Fatalf("after first append: turns=%d version=%d", len(st.Turns), st.Version)
	}

	st, err = store.Append(ctx, "thread-a", userTurn("plan Paris"), assistantTurn("done"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(st.Turns) != 4 || st.Version != 2 {
		t.Fatalf("after second append: turns=%d version=%d", len(st.Turns), st.Version)
	}
	if st.Turns[0].Content != "hi" || st.Turns[3].Content != "done" {
		t.Fatalf("turn order broken: %+v", st.Turns)
	}

	other, err := store.Resolve(ctx, "thread-b")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(other.Turns) != 0 {
		t.Fatalf("threads are not isolated: %+v", other.Turns)
	}

	if _, err := store.Append(ctx, "thread-a"); !errors.Is(err, ErrNoTurns) {
		t.Fatalf("Append() without turns error = %v, want ErrNoTurns", err)
	}
	if _, err := store.Resolve(ctx, " "); !errors.Is(err, ErrInvalidThread) {
		t.Fatalf("Resolve(blank) error = %v, want ErrInvalidThread", err)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreReturnsSnapshots(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	st, err := store.Append(ctx, "t", userTurn("hi"))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	st.Turns[0].Content = "mutated"
	st.Turns = append(st.Turns, userTurn("extra"))

	fresh, err := store.Resolve(ctx, "t")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(fresh.Turns) != 1 || fresh.Turns[0].Content != "hi" {
		t.Fatalf("caller mutation leaked into store: %+v", fresh.Turns)
	}
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	const threads, perThread = 4, 25
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		id := fmt.Sprintf("thread-%d", i)
		for j := 0; j < perThread; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Append(ctx, id, userTurn("q"), assistantTurn("a")); err != nil {
					t.Errorf("Append() error = %v", err)
				}
			}()
		}
	}
	wg.Wait()

	for i := 0; i < threads; i++ {
		st, err := store.Resolve(ctx, fmt.Sprintf("thread-%d", i))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if len(st.Turns) != 2*perThread || st.Version != perThread {
			t.Fatalf("thread %d: turns=%d version=%d", i, len(st.Turns), st.Version)
		}
		for k := 0; k < len(st.Turns); k += 2 {
			if st.Turns[k].Role != contractx.RoleUser || st.Turns[k+1].Role != contractx.RoleAssistant {
				t.Fatalf("thread %d: appends interleaved at %d", i, k)
			}
		}
	}
	if store.Len() != threads {
		t.Fatalf("Len() = %d, want %d", store.Len(), threads)
	}
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore().Append(ctx, "t", userTurn("hi")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Append() error = %v, want context.Canceled", err)
	}
}

func sampleResult() contractx.ToolCallResult {
	return contractx.ToolCallResult{
		ID:     "call-1",
		Tool:   "get_route",
		Args:   map[string]any{"start_point": "Amsterdam", "end_point": "Copenhagen"},
		Status: contractx.ToolCallSucceeded,
		Output: map[string]any{"distance_km": 780.0},
	}
}
