package state

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var threadIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)

// ThreadIDs normalizes caller-supplied thread ids. Generate defaults to a
// random uuid.
type ThreadIDs struct {
	Generate func() string
}

// Normalize keeps raw (trimmed) when it is well formed and otherwise
// returns a fresh id with generated set.
func (g ThreadIDs) Normalize(raw string) (id string, generated bool) {
	id = strings.TrimSpace(raw)
	if ValidThreadID(id) {
		return id, false
	}
	gen := g.Generate
	if gen == nil {
		gen = uuid.NewString
	}
	return gen(), true
}

func ValidThreadID(id string) bool {
	return threadIDPattern.MatchString(id)
}
