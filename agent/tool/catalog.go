package tool

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/trip"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tripdata"
)

const (
	ToolGetRoute              = "get_route"
	ToolFindAccommodation     = "find_accommodation"
	ToolAccommodationSchedule = "calculate_accommodation_schedule"
	ToolGetWeather            = "get_weather"
	ToolElevationProfile      = "get_elevation_profile"
	ToolPointsOfInterest      = "get_points_of_interest"
	ToolVisaRequirements      = "check_visa_requirements"
	ToolEstimateBudget        = "estimate_budget"
)

// Registry maps tool names to definitions. It is fixed at construction and
// read-only afterwards.
type Registry struct {
	tools map[string]*Definition
	order []string
}

func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{tools: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if d == nil {
			continue
		}
		if _, dup := r.tools[d.Name()]; dup {
			return nil, fmt.Errorf("tool=%s registered twice", d.Name())
		}
		r.tools[d.Name()] = d
		r.order = append(r.order, d.Name())
	}
	return r, nil
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.tools[name]
	return d, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Specs lists every tool in registration order.
func (r *Registry) Specs() []contractx.ToolSpec {
	out := make([]contractx.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Spec())
	}
	return out
}

// NewTripRegistry registers the trip planning tools over src.
func NewTripRegistry(src tripdata.Source, scheduler *trip.Scheduler) (*Registry, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: trip data source is required", contractx.ErrInvalidInput)
	}
	if scheduler == nil {
		s, err := trip.NewScheduler(0)
		if err != nil {
			return nil, err
		}
		scheduler = s
	}

	t := &tripTools{src: src, scheduler: scheduler}
	builders := []func() (*Definition, error){
		func() (*Definition, error) {
			return New(ToolGetRoute, "Get a cycling route between two locations with distance, waypoints and estimated days.", t.getRoute)
		},
		func() (*Definition, error) {
			return New(ToolFindAccommodation, "Find places to stay near a location (camping, hostels, hotels).", t.findAccommodation)
		},
		func() (*Definition, error) {
			return New(ToolAccommodationSchedule, "Plan which nights of a trip use the special accommodation type, e.g. a hostel every 4th night and camping otherwise.", t.accommodationSchedule)
		},
		func() (*Definition, error) {
			return New(ToolGetWeather, "Get typical weather for a location and month.", t.getWeather)
		},
		func() (*Definition, error) {
			return New(ToolElevationProfile, "Get terrain difficulty: elevation of one location, or gain, loss and difficulty rating for a route.", t.elevationProfile)
		},
		func() (*Definition, error) {
			return New(ToolPointsOfInterest, "Find points of interest near a location, optionally filtered by category.", t.pointsOfInterest)
		},
		func() (*Definition, error) {
			return New(ToolVisaRequirements, "Check visa requirements for a nationality travelling to a destination country.", t.visaRequirements)
		},
		func() (*Definition, error) {
			return New(ToolEstimateBudget, "Estimate trip cost in EUR broken down into accommodation, food, maintenance and miscellaneous.", t.estimateBudget)
		},
	}

	built := make([]*Definition, 0, len(builders))
	for _, build := range builders {
		def, err := build()
		if err != nil {
			return nil, err
		}
		built = append(built, def)
	}
	return NewRegistry(built...)
}

type tripTools struct {
	src       tripdata.Source
	scheduler *trip.Scheduler
}
