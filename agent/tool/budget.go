package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/trip"
)

type BudgetInput struct {
	Nights                int      `json:"nights" jsonschema:"minimum=0" jsonschema_description:"Number of nights; the trip lasts nights+1 days"`
	Travelers             int      `json:"travelers,omitempty" jsonschema:"minimum=1" jsonschema_description:"Number of travellers (default 1)"`
	AccommodationOrdinary *float64 `json:"accommodation_ordinary,omitempty" jsonschema:"minimum=0" jsonschema_description:"EUR per person for an ordinary night (default 15, camping)"`
	AccommodationSpecial  *float64 `json:"accommodation_special,omitempty" jsonschema:"minimum=0" jsonschema_description:"EUR per person for a special night (default 25, hostel)"`
	FoodPerDay            *float64 `json:"food_per_day,omitempty" jsonschema:"minimum=0" jsonschema_description:"EUR per person per day for food (default 40)"`
	MaintenancePerDay     *float64 `json:"maintenance_per_day,omitempty" jsonschema:"minimum=0" jsonschema_description:"EUR per person per day for bike maintenance (default 8)"`
	MiscPerDay            *float64 `json:"misc_per_day,omitempty" jsonschema:"minimum=0" jsonschema_description:"EUR per person per day for everything else (default 15)"`
	SpecialInterval       int      `json:"special_interval,omitempty" jsonschema:"minimum=1" jsonschema_description:"Price every N-th night at the special rate"`
	SpecialOffset         *int     `json:"special_offset,omitempty" jsonschema:"minimum=0" jsonschema_description:"Ordinary nights before the first special one"`
	PreferencePattern     string   `json:"preference_pattern,omitempty" jsonschema_description:"Natural phrasing such as 'every 4th night' instead of special_interval"`
}

type BudgetOutput struct {
	Currency       string     `json:"currency"`
	Nights         int        `json:"nights"`
	Days           int        `json:"days"`
	Travelers      int        `json:"travelers"`
	OrdinaryNights int        `json:"ordinary_nights"`
	SpecialNights  int        `json:"special_nights"`
	Rates          trip.Rates `json:"rates"`

	// Amounts are fixed to cents; Total is their exact sum.
	Accommodation string `json:"accommodation"`
	Food          string `json:"food"`
	Maintenance   string `json:"maintenance"`
	Misc          string `json:"misc"`
	Total         string `json:"total"`
}

func (t *tripTools) estimateBudget(_ context.Context, in BudgetInput) (BudgetOutput, error) {
	travelers := in.Travelers
	if travelers == 0 {
		travelers = 1
	}

	rates := trip.DefaultRates
	override(&rates.AccommodationOrdinary, in.AccommodationOrdinary)
	override(&rates.AccommodationSpecial, in.AccommodationSpecial)
	override(&rates.FoodPerDay, in.FoodPerDay)
	override(&rates.MaintenancePerDay, in.MaintenancePerDay)
	override(&rates.MiscPerDay, in.MiscPerDay)

	hasRule := in.SpecialInterval > 0 || strings.TrimSpace(in.PreferencePattern) != ""
	if in.SpecialOffset != nil && !hasRule {
		return BudgetOutput{}, fmt.Errorf("%w: special_offset needs special_interval or preference_pattern", contractx.ErrInvalidInput)
	}

	var schedule []trip.ScheduleEntry
	if in.Nights > 0 && hasRule {
		rule, err := resolveRule(in.SpecialInterval, in.SpecialOffset, in.PreferencePattern)
		if err != nil {
			return BudgetOutput{}, err
		}
		schedule, err = t.scheduler.Schedule(in.Nights, rule)
		if err != nil {
			return BudgetOutput{}, err
		}
	}

	b, err := trip.EstimateBudget(trip.BudgetInput{
		Nights:    in.Nights,
		Travelers: travelers,
		Rates:     rates,
		Schedule:  schedule,
	})
	if err != nil {
		return BudgetOutput{}, err
	}

	return BudgetOutput{
		Currency:       trip.Currency,
		Nights:         b.Nights,
		Days:           b.Days,
		Travelers:      b.Travelers,
		OrdinaryNights: b.OrdinaryNights,
		SpecialNights:  b.SpecialNights,
		Rates:          rates,
		Accommodation:  b.Accommodation.StringFixed(2),
		Food:           b.Food.StringFixed(2),
		Maintenance:    b.Maintenance.StringFixed(2),
		Misc:           b.Misc.StringFixed(2),
		Total:          b.Total.StringFixed(2),
	}, nil
}

func override(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
