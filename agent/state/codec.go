package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

// Field names of the per-thread metadata hash.
const (
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldVersion   = "version"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeTurns(turns []contractx.Turn) ([]any, error) {
	payloads := make([]any, 0, len(turns))
	for i, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("marshal turn %d: %w", i, err)
		}
		payloads = append(payloads, string(b))
	}
	return payloads, nil
}

// decodeThread rebuilds a ThreadState from the metadata hash and the turn
// list. Tool outputs come back as generic JSON values.
func decodeThread(threadID string, meta map[string]string, rows []string) (*ThreadState, error) {
	st := &ThreadState{
		ThreadID: threadID,
		Turns:    make([]contractx.Turn, 0, len(rows)),
	}

	var err error
	if v := meta[fieldVersion]; v != "" {
		if st.Version, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("parse thread version: %w", err)
		}
	}
	if v := meta[fieldCreatedAt]; v != "" {
		if st.CreatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("parse thread created_at: %w", err)
		}
	}
	if v := meta[fieldUpdatedAt]; v != "" {
		if st.UpdatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("parse thread updated_at: %w", err)
		}
	}

	for i, row := range rows {
		var t contractx.Turn
		if err := json.Unmarshal([]byte(row), &t); err != nil {
			return nil, fmt.Errorf("unmarshal turn at index %d: %w", i, err)
		}
		st.Turns = append(st.Turns, t)
	}
	return st, nil
}
