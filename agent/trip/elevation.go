package trip

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

type ProfilePoint struct {
	Name       string  `json:"name"`
	KM         float64 `json:"km"`
	ElevationM float64 `json:"elevation_m"`
}

type ProfileSummary struct {
	DistanceKM            float64 `json:"distance_km"`
	TotalGainM            float64 `json:"total_elevation_gain_m"`
	TotalLossM            float64 `json:"total_elevation_loss_m"`
	MaxElevationM         float64 `json:"max_elevation_m"`
	MaxElevationWaypoint  string  `json:"max_elevation_waypoint"`
	MinElevationM         float64 `json:"min_elevation_m"`
	MinElevationWaypoint  string  `json:"min_elevation_waypoint"`
	AverageGradientMPerKM float64 `json:"average_gradient_m_per_km"`
	Difficulty            string  `json:"difficulty_rating"`
}

// DifficultyRating grades climbing effort in metres gained per kilometre.
func DifficultyRating(gainPerKM float64) string {
	switch {
	case gainPerKM < 10:
		return "Easy"
	case gainPerKM < 30:
		return "Moderate"
	case gainPerKM < 50:
		return "Hard"
	default:
		return "Very Hard"
	}
}

// SummarizeProfile accumulates gain and loss between consecutive points.
func SummarizeProfile(points []ProfilePoint, distanceKM float64) (ProfileSummary, error) {
	if len(points) < 2 {
		return ProfileSummary{}, fmt.Errorf("%w: need at least 2 profile points, got %d", contractx.ErrInvalidInput, len(points))
	}
	if distanceKM <= 0 {
		return ProfileSummary{}, fmt.Errorf("%w: distance must be > 0, got %v", contractx.ErrInvalidInput, distanceKM)
	}

	out := ProfileSummary{
		DistanceKM:           distanceKM,
		MaxElevationM:        points[0].ElevationM,
		MaxElevationWaypoint: points[0].Name,
		MinElevationM:        points[0].ElevationM,
		MinElevationWaypoint: points[0].Name,
	}
	for i, p := range points {
		if p.ElevationM > out.MaxElevationM {
			out.MaxElevationM, out.MaxElevationWaypoint = p.ElevationM, p.Name
		}
		if p.ElevationM < out.MinElevationM {
			out.MinElevationM, out.MinElevationWaypoint = p.ElevationM, p.Name
		}
		if i == 0 {
			continue
		}
		if delta := p.ElevationM - points[i-1].ElevationM; delta > 0 {
			out.TotalGainM += delta
		} else {
			out.TotalLossM -= delta
		}
	}
	out.AverageGradientMPerKM = out.TotalGainM / distanceKM
	out.Difficulty = DifficultyRating(out.AverageGradientMPerKM)
	return out, nil
}
