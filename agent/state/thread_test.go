package state

import (
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

func TestThreadStateTripParams(t *testing.T) {
	t.Parallel()

	st := NewThreadState("t", time.Now())
	st.Turns = []contractx.Turn{
		{Role: contractx.RoleUser, Content: "Amsterdam to Copenhagen"},
		{
			Role: contractx.RoleAssistant,
			ToolResults: []contractx.ToolCallResult{
				{Tool: "get_route", Status: contractx.ToolCallSucceeded, Args: map[string]any{"start_point": "Amsterdam", "end_point": "Copenhagen", "daily_distance_km": 100.0}},
				{Tool: "get_weather", Status: contractx.ToolCallFailed, Args: map[string]any{"location": "Atlantis"}},
			},
		},
		{
			Role: contractx.RoleAssistant,
			ToolResults: []contractx.ToolCallResult{
				{Tool: "get_route", Status: contractx.ToolCallSucceeded, Args: map[string]any{"daily_distance_km": 80.0}},
			},
		},
	}

	params := st.TripParams()
	if params["start_point"] != "Amsterdam" || params["end_point"] != "Copenhagen" {
		t.Fatalf("TripParams() = %v", params)
	}
	if params["daily_distance_km"] != 80.0 {
		t.Fatalf("later value did not override: %v", params["daily_distance_km"])
	}
	if _, ok := params["location"]; ok {
		t.Fatalf("failed call leaked into params: %v", params)
	}
}

func TestThreadStateCloneIsDeep(t *testing.T) {
	t.Parallel()

	st := NewThreadState("t", time.Now())
	st.Turns = []contractx.Turn{{
		Role:      contractx.RoleAssistant,
		ToolCalls: []contractx.ToolCallRequest{{Tool: "get_route", Args: map[string]any{"start_point": "Paris"}}},
		ToolResults: []contractx.ToolCallResult{{
			Tool:    "get_route",
			Status:  contractx.ToolCallFailed,
			Args:    map[string]any{"start_point": "Paris"},
			Failure: &contractx.Failure{Kind: contractx.KindNotFound, Message: "no route"},
		}},
	}}

	cp := st.Clone()
	cp.Turns[0].ToolCalls[0].Args["start_point"] = "Rome"
	cp.Turns[0].ToolResults[0].Args["start_point"] = "Rome"
	cp.Turns[0].ToolResults[0].Failure.Message = "changed"

	if st.Turns[0].ToolCalls[0].Args["start_point"] != "Paris" ||
		st.Turns[0].ToolResults[0].Args["start_point"] != "Paris" ||
		st.Turns[0].ToolResults[0].Failure.Message != "no route" {
		t.Fatalf("Clone shares memory with original: %+v", st.Turns[0])
	}
	if (*ThreadState)(nil).Clone() != nil {
		t.Fatal("nil Clone should be nil")
	}
}
