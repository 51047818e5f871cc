package state

import (
	"errors"
	"maps"
	"slices"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

var (
	ErrInvalidThread = errors.New("thread id is empty")
	ErrNoTurns       = errors.New("append requires at least one turn")
)

// ThreadState is the conversation history of one thread. Version counts
// successful appends.
type ThreadState struct {
	ThreadID  string           `json:"thread_id"`
	Turns     []contractx.Turn `json:"turns"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewThreadState(threadID string, now time.Time) *ThreadState {
	return &ThreadState{
		ThreadID:  threadID,
		Turns:     []contractx.Turn{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *ThreadState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Clone returns a copy that shares no slices or maps with s.
func (s *ThreadState) Clone() *ThreadState {
	if s == nil {
		return nil
	}
	out := *s
	out.Turns = make([]contractx.Turn, len(s.Turns))
	for i, t := range s.Turns {
		out.Turns[i] = cloneTurn(t)
	}
	return &out
}

// TripParams folds the arguments of every successful tool call, oldest
// first, so later values override earlier ones.
func (s *ThreadState) TripParams() map[string]any {
	params := map[string]any{}
	if s == nil {
		return params
	}
	for _, turn := range s.Turns {
		for _, res := range turn.ToolResults {
			if !res.Succeeded() {
				continue
			}
			maps.Copy(params, res.Args)
		}
	}
	return params
}

func cloneTurn(t contractx.Turn) contractx.Turn {
	out := t
	if t.ToolCalls != nil {
		out.ToolCalls = make([]contractx.ToolCallRequest, len(t.ToolCalls))
		for i, c := range t.ToolCalls {
			c.Args = maps.Clone(c.Args)
			out.ToolCalls[i] = c
		}
	}
	if t.ToolResults != nil {
		out.ToolResults = slices.Clone(t.ToolResults)
		for i := range out.ToolResults {
			out.ToolResults[i].Args = maps.Clone(out.ToolResults[i].Args)
			if f := out.ToolResults[i].Failure; f != nil {
				cp := *f
				out.ToolResults[i].Failure = &cp
			}
		}
	}
	return out
}

func cloneTurns(turns []contractx.Turn) []contractx.Turn {
	out := make([]contractx.Turn, len(turns))
	for i, t := range turns {
		out[i] = cloneTurn(t)
	}
	return out
}
