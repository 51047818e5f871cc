package tool

import (
	"context"
	"fmt"
	"math"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/trip"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tripdata"
)

const defaultDailyDistanceKM = 80

type RouteInput struct {
	StartPoint      string  `json:"start_point" jsonschema:"minLength=1" jsonschema_description:"Starting city or location"`
	EndPoint        string  `json:"end_point" jsonschema:"minLength=1" jsonschema_description:"Destination city or location"`
	DailyDistanceKM float64 `json:"daily_distance_km,omitempty" jsonschema:"exclusiveMinimum=0" jsonschema_description:"Planned kilometres per day (default 80)"`
}

type RouteOutput struct {
	StartPoint      string              `json:"start_point"`
	EndPoint        string              `json:"end_point"`
	DistanceKM      float64             `json:"distance_km"`
	Difficulty      string              `json:"difficulty"`
	Description     string              `json:"description"`
	Countries       []string            `json:"countries,omitempty"`
	Waypoints       []tripdata.Waypoint `json:"waypoints"`
	DailyDistanceKM float64             `json:"daily_distance_km"`
	EstimatedDays   int                 `json:"estimated_days"`
	EstimatedNights int                 `json:"estimated_nights"`
}

func (t *tripTools) getRoute(_ context.Context, in RouteInput) (RouteOutput, error) {
	start, end, err := requirePair("start_point", in.StartPoint, "end_point", in.EndPoint)
	if err != nil {
		return RouteOutput{}, err
	}

	route, err := t.src.Route(start, end)
	if err != nil {
		return RouteOutput{}, err
	}

	daily := in.DailyDistanceKM
	if daily <= 0 {
		daily = defaultDailyDistanceKM
	}
	days := int(math.Ceil(route.DistanceKM / daily))
	if days < 1 {
		days = 1
	}

	return RouteOutput{
		StartPoint:      route.StartPoint,
		EndPoint:        route.EndPoint,
		DistanceKM:      route.DistanceKM,
		Difficulty:      route.Difficulty,
		Description:     route.Description,
		Countries:       route.Countries,
		Waypoints:       route.Waypoints,
		DailyDistanceKM: daily,
		EstimatedDays:   days,
		EstimatedNights: days - 1,
	}, nil
}

type ElevationInput struct {
	Location   string `json:"location,omitempty" jsonschema_description:"Single location to get elevation for (use this OR start_point + end_point)"`
	StartPoint string `json:"start_point,omitempty" jsonschema_description:"Route start for an elevation profile (use with end_point)"`
	EndPoint   string `json:"end_point,omitempty" jsonschema_description:"Route end for an elevation profile (use with start_point)"`
}

type ElevationOutput struct {
	Mode       string  `json:"mode"`
	Location   string  `json:"location,omitempty"`
	ElevationM float64 `json:"elevation_m,omitempty"`

	StartPoint string               `json:"start_point,omitempty"`
	EndPoint   string               `json:"end_point,omitempty"`
	Summary    *trip.ProfileSummary `json:"summary,omitempty"`
	Profile    []trip.ProfilePoint  `json:"profile,omitempty"`
}

func (t *tripTools) elevationProfile(_ context.Context, in ElevationInput) (ElevationOutput, error) {
	location := strings.TrimSpace(in.Location)
	start := strings.TrimSpace(in.StartPoint)
	end := strings.TrimSpace(in.EndPoint)

	switch {
	case start != "" && end != "":
		return t.routeElevation(start, end)
	case start != "" || end != "":
		return ElevationOutput{}, fmt.Errorf("%w: start_point and end_point must be given together", contractx.ErrInvalidInput)
	case location != "":
		e, err := t.src.Elevation(location)
		if err != nil {
			return ElevationOutput{}, err
		}
		return ElevationOutput{Mode: "location", Location: e.Location, ElevationM: e.ElevationM}, nil
	default:
		return ElevationOutput{}, fmt.Errorf("%w: provide location, or both start_point and end_point", contractx.ErrInvalidInput)
	}
}

func (t *tripTools) routeElevation(start, end string) (ElevationOutput, error) {
	route, err := t.src.Route(start, end)
	if err != nil {
		return ElevationOutput{}, err
	}

	points := make([]trip.ProfilePoint, 0, len(route.Waypoints))
	var missing []string
	for _, wp := range route.Waypoints {
		e, err := t.src.Elevation(wp.Name)
		if err != nil {
			missing = append(missing, wp.Name)
			continue
		}
		points = append(points, trip.ProfilePoint{Name: wp.Name, KM: wp.KM, ElevationM: e.ElevationM})
	}
	if len(missing) > 0 {
		return ElevationOutput{}, fmt.Errorf("%w: no elevation data for %s", contractx.ErrNotFound, strings.Join(missing, ", "))
	}

	summary, err := trip.SummarizeProfile(points, route.DistanceKM)
	if err != nil {
		return ElevationOutput{}, err
	}
	return ElevationOutput{
		Mode:       "route",
		StartPoint: route.StartPoint,
		EndPoint:   route.EndPoint,
		Summary:    &summary,
		Profile:    points,
	}, nil
}

func requirePair(aName, a, bName, b string) (string, string, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" {
		return "", "", fmt.Errorf("%w: %s must not be blank", contractx.ErrInvalidInput, aName)
	}
	if b == "" {
		return "", "", fmt.Errorf("%w: %s must not be blank", contractx.ErrInvalidInput, bName)
	}
	return a, b, nil
}
