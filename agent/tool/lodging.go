package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/trip"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tripdata"
)

type AccommodationInput struct {
	Location          string `json:"location" jsonschema:"minLength=1" jsonschema_description:"Location to search near"`
	AccommodationType string `json:"accommodation_type,omitempty" jsonschema:"enum=all,enum=camping,enum=hostel,enum=hotel" jsonschema_description:"Type of accommodation (default all)"`
}

type AccommodationOutput struct {
	Location string                   `json:"location"`
	Type     string                   `json:"type"`
	Count    int                      `json:"count"`
	Options  []tripdata.Accommodation `json:"options"`
}

func (t *tripTools) findAccommodation(_ context.Context, in AccommodationInput) (AccommodationOutput, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return AccommodationOutput{}, fmt.Errorf("%w: location must not be blank", contractx.ErrInvalidInput)
	}
	kind := in.AccommodationType
	if kind == "" {
		kind = "all"
	}

	options, err := t.src.Accommodations(location, kind)
	if err != nil {
		return AccommodationOutput{}, err
	}
	return AccommodationOutput{
		Location: options[0].Location,
		Type:     kind,
		Count:    len(options),
		Options:  options,
	}, nil
}

const (
	defaultSpecialType  = "hostel"
	defaultOrdinaryType = "camping"
)

type ScheduleInput struct {
	TotalNights       int    `json:"total_nights" jsonschema:"minimum=1" jsonschema_description:"Number of nights in the trip"`
	Interval          int    `json:"interval,omitempty" jsonschema:"minimum=1" jsonschema_description:"Use the special type every N nights"`
	Offset            *int   `json:"offset,omitempty" jsonschema:"minimum=0" jsonschema_description:"Ordinary nights before the first special one (default 0 with interval)"`
	PreferencePattern string `json:"preference_pattern,omitempty" jsonschema_description:"Natural phrasing such as 'every 4th night' when interval is not given"`
	SpecialType       string `json:"special_type,omitempty" jsonschema:"enum=camping,enum=hostel,enum=hotel" jsonschema_description:"Accommodation on special nights (default hostel)"`
	DefaultType       string `json:"default_type,omitempty" jsonschema:"enum=camping,enum=hostel,enum=hotel" jsonschema_description:"Accommodation on other nights (default camping)"`
}

type NightPlan struct {
	Night         int           `json:"night"`
	Category      trip.Category `json:"category"`
	Accommodation string        `json:"accommodation"`
	Rationale     string        `json:"rationale"`
}

type ScheduleOutput struct {
	TotalNights    int         `json:"total_nights"`
	Interval       int         `json:"interval"`
	Offset         int         `json:"offset"`
	SpecialType    string      `json:"special_type"`
	DefaultType    string      `json:"default_type"`
	SpecialNights  []int       `json:"special_nights"`
	SpecialCount   int         `json:"special_count"`
	DefaultCount   int         `json:"default_count"`
	Nights         []NightPlan `json:"nights"`
	Interpretation string      `json:"interpretation"`
}

func (t *tripTools) accommodationSchedule(_ context.Context, in ScheduleInput) (ScheduleOutput, error) {
	rule, err := resolveRule(in.Interval, in.Offset, in.PreferencePattern)
	if err != nil {
		return ScheduleOutput{}, err
	}

	entries, err := t.scheduler.Schedule(in.TotalNights, rule)
	if err != nil {
		return ScheduleOutput{}, err
	}

	special := orDefault(in.SpecialType, defaultSpecialType)
	ordinary := orDefault(in.DefaultType, defaultOrdinaryType)

	nights := make([]NightPlan, 0, len(entries))
	for _, e := range entries {
		stay := ordinary
		if e.Category == trip.CategorySpecial {
			stay = special
		}
		nights = append(nights, NightPlan{Night: e.Night, Category: e.Category, Accommodation: stay, Rationale: e.Rationale})
	}

	specialNights := trip.SpecialNights(entries)
	return ScheduleOutput{
		TotalNights:    in.TotalNights,
		Interval:       rule.Interval,
		Offset:         rule.Offset,
		SpecialType:    special,
		DefaultType:    ordinary,
		SpecialNights:  specialNights,
		SpecialCount:   len(specialNights),
		DefaultCount:   len(entries) - len(specialNights),
		Nights:         nights,
		Interpretation: interpretSchedule(specialNights, special, ordinary),
	}, nil
}

// resolveRule prefers an explicit interval over a phrased pattern.
func resolveRule(interval int, offset *int, pattern string) (trip.Rule, error) {
	var rule trip.Rule
	switch {
	case interval > 0:
		rule = trip.Rule{Interval: interval}
	case strings.TrimSpace(pattern) != "":
		parsed, err := trip.ParsePattern(pattern)
		if err != nil {
			return trip.Rule{}, err
		}
		rule = parsed
	default:
		return trip.Rule{}, fmt.Errorf("%w: interval or preference_pattern is required", contractx.ErrInvalidInput)
	}
	if offset != nil {
		rule.Offset = *offset
	}
	return rule, rule.Validate()
}

func interpretSchedule(specialNights []int, special, ordinary string) string {
	if len(specialNights) == 0 {
		return fmt.Sprintf("%s every night; no night falls on the %s pattern", capitalize(ordinary), special)
	}
	nums := make([]string, len(specialNights))
	for i, n := range specialNights {
		nums[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s on nights %s; %s on all other nights", capitalize(special), strings.Join(nums, ", "), ordinary)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
