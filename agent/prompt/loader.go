package prompt

import (
	_ "embed"
	"encoding/json"
	"strings"
)

var (
	//go:embed template/planner.txt
	plannerRaw string

	//go:embed template/responder.txt
	responderRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Planner   string
	Responder string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Planner:   strings.TrimSpace(plannerRaw),
		Responder: strings.TrimSpace(responderRaw),
	}
}

// PlannerSystem appends the known trip parameters to the planner prompt.
func (p PromptSet) PlannerSystem(tripParams map[string]any) string {
	if len(tripParams) == 0 {
		return p.Planner
	}
	b, err := json.Marshal(tripParams)
	if err != nil {
		return p.Planner
	}
	return p.Planner + "\n\nKnown trip details: " + string(b)
}

// ResponderSystem is the planner system prompt followed by the reply
// instructions.
func (p PromptSet) ResponderSystem(tripParams map[string]any) string {
	return p.PlannerSystem(tripParams) + "\n\n" + p.Responder
}
