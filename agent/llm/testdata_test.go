package llm

import (
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/prompt"
)

var testPrompts = prompt.PromptSet{Planner: "plan trips", Responder: "reply now"}

func testSpecs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name:        "get_route",
			Description: "Get a cycling route",
			Properties: map[string]any{
				"start_point":       map[string]any{"type": "string", "description": "Start"},
				"end_point":         map[string]any{"type": "string", "description": "End"},
				"daily_distance_km": map[string]any{"type": "number"},
			},
			Required: []string{"start_point", "end_point"},
		},
		{
			Name:        "find_accommodation",
			Description: "Find places to sleep",
			Properties: map[string]any{
				"location":           map[string]any{"type": "string"},
				"accommodation_type": map[string]any{"type": "string", "enum": []any{"all", "camping", "hostel", "hotel"}},
			},
			Required: []string{"location"},
		},
	}
}

func testHistory() []contractx.Turn {
	return []contractx.Turn{
		{Role: contractx.RoleUser, Content: "I want to ride from Amsterdam to Copenhagen"},
		{Role: contractx.RoleAssistant, Content: "Great, how far per day?"},
		{Role: contractx.RoleAssistant, Content: "   "},
	}
}

func testRespondRequest() contractx.RespondRequest {
	return contractx.RespondRequest{
		ThreadID: "t1",
		History:  testHistory(),
		Message:  "100 km a day",
		Preamble: "Let me check.",
		ToolCalls: []contractx.ToolCallRequest{
			{ID: "call_a", Tool: "get_route", Args: map[string]any{"start_point": "Amsterdam", "end_point": "Copenhagen"}},
			{ID: "call_b", Tool: "find_accommodation", Args: map[string]any{"location": "Atlantis"}},
		},
		Results: []contractx.ToolCallResult{
			{ID: "call_a", Tool: "get_route", Status: contractx.ToolCallSucceeded, Output: map[string]any{"distance_km": 780}},
			{ID: "call_b", Tool: "find_accommodation", Status: contractx.ToolCallFailed, Failure: &contractx.Failure{Kind: contractx.KindNotFound, Message: "no accommodation near Atlantis"}},
		},
	}
}
