package trip

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

const Currency = "EUR"

// Per-person rates in EUR.
type Rates struct {
	AccommodationOrdinary float64 `json:"accommodation_ordinary"`
	AccommodationSpecial  float64 `json:"accommodation_special"`
	FoodPerDay            float64 `json:"food_per_day"`
	MaintenancePerDay     float64 `json:"maintenance_per_day"`
	MiscPerDay            float64 `json:"misc_per_day"`
}

// DefaultRates prices ordinary nights as camping and special nights as hostel.
var DefaultRates = Rates{
	AccommodationOrdinary: 15,
	AccommodationSpecial:  25,
	FoodPerDay:            40,
	MaintenancePerDay:     8,
	MiscPerDay:            15,
}

func (r Rates) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"accommodation_ordinary", r.AccommodationOrdinary},
		{"accommodation_special", r.AccommodationSpecial},
		{"food_per_day", r.FoodPerDay},
		{"maintenance_per_day", r.MaintenancePerDay},
		{"misc_per_day", r.MiscPerDay},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", contractx.ErrInvalidInput, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", contractx.ErrInvalidInput, f.name, f.value)
		}
	}
	return nil
}

type BudgetInput struct {
	Nights    int
	Travelers int
	Rates     Rates
	// Schedule is optional; nil prices every night as ordinary.
	Schedule []ScheduleEntry
}

type BudgetBreakdown struct {
	Nights         int
	Days           int
	Travelers      int
	OrdinaryNights int
	SpecialNights  int

	Accommodation decimal.Decimal
	Food          decimal.Decimal
	Maintenance   decimal.Decimal
	Misc          decimal.Decimal
	Total         decimal.Decimal
}

// EstimateBudget computes the four category subtotals, each rounded half-up
// to cents, and their exact sum.
func EstimateBudget(in BudgetInput) (BudgetBreakdown, error) {
	if in.Nights < 0 {
		return BudgetBreakdown{}, fmt.Errorf("%w: nights must be >= 0, got %d", contractx.ErrInvalidInput, in.Nights)
	}
	if in.Travelers < 1 {
		return BudgetBreakdown{}, fmt.Errorf("%w: travelers must be >= 1, got %d", contractx.ErrInvalidInput, in.Travelers)
	}
	if err := in.Rates.Validate(); err != nil {
		return BudgetBreakdown{}, err
	}

	ordinary, special, err := countNights(in.Nights, in.Schedule)
	if err != nil {
		return BudgetBreakdown{}, err
	}

	days := in.Nights + 1
	travelers := decimal.NewFromInt(int64(in.Travelers))
	dayCount := decimal.NewFromInt(int64(days))

	accommodation := decimal.NewFromFloat(in.Rates.AccommodationOrdinary).Mul(decimal.NewFromInt(int64(ordinary))).
		Add(decimal.NewFromFloat(in.Rates.AccommodationSpecial).Mul(decimal.NewFromInt(int64(special)))).
		Mul(travelers)

	out := BudgetBreakdown{
		Nights:         in.Nights,
		Days:           days,
		Travelers:      in.Travelers,
		OrdinaryNights: ordinary,
		SpecialNights:  special,
		Accommodation:  roundCents(accommodation),
		Food:           roundCents(perDay(in.Rates.FoodPerDay, dayCount, travelers)),
		Maintenance:    roundCents(perDay(in.Rates.MaintenancePerDay, dayCount, travelers)),
		Misc:           roundCents(perDay(in.Rates.MiscPerDay, dayCount, travelers)),
	}
	out.Total = out.Accommodation.Add(out.Food).Add(out.Maintenance).Add(out.Misc)
	return out, nil
}

func countNights(nights int, schedule []ScheduleEntry) (ordinary, special int, err error) {
	if schedule == nil {
		return nights, 0, nil
	}
	if len(schedule) != nights {
		return 0, 0, fmt.Errorf("%w: schedule covers %d nights, expected %d", contractx.ErrInvalidInput, len(schedule), nights)
	}
	for _, e := range schedule {
		switch e.Category {
		case CategorySpecial:
			special++
		case CategoryOrdinary:
			ordinary++
		default:
			return 0, 0, fmt.Errorf("%w: unknown category %q for night %d", contractx.ErrInvalidInput, e.Category, e.Night)
		}
	}
	return ordinary, special, nil
}

func perDay(rate float64, days, travelers decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(rate).Mul(days).Mul(travelers)
}

// Round rounds half away from zero, which is half-up for non-negative amounts.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
