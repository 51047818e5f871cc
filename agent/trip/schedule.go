package trip

import (
	"fmt"

	"github.com/maypok86/otter"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

type Category string

const (
	CategoryOrdinary Category = "ordinary"
	CategorySpecial  Category = "special"
)

// Rule marks every Interval-th night as special, starting after Offset nights.
type Rule struct {
	Interval int `json:"interval"`
	Offset   int `json:"offset"`
}

func (r Rule) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval must be >= 1, got %d", contractx.ErrInvalidInput, r.Interval)
	}
	if r.Offset < 0 || r.Offset >= r.Interval {
		return fmt.Errorf("%w: offset must be in [0, %d), got %d", contractx.ErrInvalidInput, r.Interval, r.Offset)
	}
	return nil
}

// IsSpecial reports whether 1-based night i matches the rule.
func (r Rule) IsSpecial(night int) bool {
	i := night - 1
	return i >= r.Offset && (i-r.Offset)%r.Interval == 0
}

type ScheduleEntry struct {
	Night     int      `json:"night"`
	Category  Category `json:"category"`
	Rationale string   `json:"rationale"`
}

// Schedule assigns a category to each of nights 1..nights. It fails as a
// whole on invalid input.
func Schedule(nights int, rule Rule) ([]ScheduleEntry, error) {
	if nights < 1 {
		return nil, fmt.Errorf("%w: nights must be >= 1, got %d", contractx.ErrInvalidInput, nights)
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, nights)
	for night := 1; night <= nights; night++ {
		entry := ScheduleEntry{Night: night, Category: CategoryOrdinary}
		if rule.IsSpecial(night) {
			entry.Category = CategorySpecial
			entry.Rationale = fmt.Sprintf("every %d nights starting at night %d", rule.Interval, rule.Offset+1)
		} else {
			entry.Rationale = "between periodic stops"
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SpecialNights lists the special night numbers in order.
func SpecialNights(entries []ScheduleEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.Category == CategorySpecial {
			out = append(out, e.Night)
		}
	}
	return out
}

type scheduleKey struct {
	nights   int
	interval int
	offset   int
}

// Scheduler memoizes schedules. Safe for concurrent use.
type Scheduler struct {
	cache otter.Cache[scheduleKey, []ScheduleEntry]
}

func NewScheduler(capacity int) (*Scheduler, error) {
	if capacity <= 0 {
		capacity = 256
	}
	cache, err := otter.MustBuilder[scheduleKey, []ScheduleEntry](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("build schedule cache: %w", err)
	}
	return &Scheduler{cache: cache}, nil
}

func (s *Scheduler) Schedule(nights int, rule Rule) ([]ScheduleEntry, error) {
	key := scheduleKey{nights: nights, interval: rule.Interval, offset: rule.Offset}
	if cached, ok := s.cache.Get(key); ok {
		return append([]ScheduleEntry(nil), cached...), nil
	}

	entries, err := Schedule(nights, rule)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, entries)
	return append([]ScheduleEntry(nil), entries...), nil
}
