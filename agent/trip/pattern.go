package trip

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

// Matches "every 4th night", "every 3 nights", "every 2nd day".
var preferencePattern = regexp.MustCompile(`^every\s+(\d+)\s*(?:st|nd|rd|th)?\s+(?:night|nights|day|days)$`)

// ParsePattern turns a phrase like "every 4th night" into a Rule. The phrase
// counts from the start of the trip, so the first special night is night k.
func ParsePattern(pattern string) (Rule, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(pattern)), " ")
	m := preferencePattern.FindStringSubmatch(normalized)
	if m == nil {
		return Rule{}, fmt.Errorf("%w: unrecognized preference pattern %q (try \"every 4th night\")", contractx.ErrInvalidInput, pattern)
	}

	k, err := strconv.Atoi(m[1])
	if err != nil || k < 1 {
		return Rule{}, fmt.Errorf("%w: pattern interval must be a positive number, got %q", contractx.ErrInvalidInput, m[1])
	}
	return Rule{Interval: k, Offset: k - 1}, nil
}
