package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tripdata"
)

type WeatherInput struct {
	Location string `json:"location" jsonschema:"minLength=1" jsonschema_description:"Location to get weather for"`
	Month    string `json:"month" jsonschema:"minLength=1" jsonschema_description:"Month name or number (e.g. July or 7)"`
}

type WeatherOutput struct {
	tripdata.Weather
}

func (t *tripTools) getWeather(_ context.Context, in WeatherInput) (WeatherOutput, error) {
	location, month, err := requirePair("location", in.Location, "month", in.Month)
	if err != nil {
		return WeatherOutput{}, err
	}
	w, err := t.src.Weather(location, month)
	if err != nil {
		return WeatherOutput{}, err
	}
	return WeatherOutput{Weather: w}, nil
}

type PointsOfInterestInput struct {
	Location string `json:"location" jsonschema:"minLength=1" jsonschema_description:"Location to search near"`
	Category string `json:"category,omitempty" jsonschema_description:"Optional category filter such as historical, natural or cultural"`
}

type PointsOfInterestOutput struct {
	Location string                     `json:"location"`
	Category string                     `json:"category,omitempty"`
	Count    int                        `json:"count"`
	Points   []tripdata.PointOfInterest `json:"points"`
}

func (t *tripTools) pointsOfInterest(_ context.Context, in PointsOfInterestInput) (PointsOfInterestOutput, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return PointsOfInterestOutput{}, fmt.Errorf("%w: location must not be blank", contractx.ErrInvalidInput)
	}
	points, err := t.src.PointsOfInterest(location, in.Category)
	if err != nil {
		return PointsOfInterestOutput{}, err
	}
	return PointsOfInterestOutput{
		Location: points[0].Location,
		Category: strings.TrimSpace(in.Category),
		Count:    len(points),
		Points:   points,
	}, nil
}

type VisaInput struct {
	Destination string `json:"destination" jsonschema:"minLength=1" jsonschema_description:"Destination country"`
	Nationality string `json:"nationality" jsonschema:"minLength=1" jsonschema_description:"Traveller's nationality or passport country"`
}

type VisaOutput struct {
	tripdata.VisaRule
}

func (t *tripTools) visaRequirements(_ context.Context, in VisaInput) (VisaOutput, error) {
	destination, nationality, err := requirePair("destination", in.Destination, "nationality", in.Nationality)
	if err != nil {
		return VisaOutput{}, err
	}
	rule, err := t.src.Visa(destination, nationality)
	if err != nil {
		return VisaOutput{}, err
	}
	return VisaOutput{VisaRule: rule}, nil
}
