package tripdata

type Waypoint struct {
	Name string  `yaml:"name" json:"name"`
	KM   float64 `yaml:"km" json:"km"`
}

type Route struct {
	StartPoint  string     `yaml:"start_point" json:"start_point"`
	EndPoint    string     `yaml:"end_point" json:"end_point"`
	DistanceKM  float64    `yaml:"distance_km" json:"distance_km"`
	Difficulty  string     `yaml:"difficulty" json:"difficulty"`
	Description string     `yaml:"description" json:"description"`
	Countries   []string   `yaml:"countries" json:"countries,omitempty"`
	Waypoints   []Waypoint `yaml:"waypoints" json:"waypoints"`
}

type Accommodation struct {
	Name          string  `yaml:"name" json:"name"`
	Type          string  `yaml:"type" json:"type"`
	Location      string  `yaml:"location" json:"location"`
	PricePerNight float64 `yaml:"price_per_night" json:"price_per_night"`
	Currency      string  `yaml:"currency" json:"currency"`
	Rating        float64 `yaml:"rating" json:"rating,omitempty"`
	Description   string  `yaml:"description" json:"description,omitempty"`
}

type Weather struct {
	Location           string  `yaml:"location" json:"location"`
	Month              string  `yaml:"month" json:"month"`
	AvgTemperatureC    float64 `yaml:"avg_temperature_c" json:"avg_temperature_c"`
	MinTemperatureC    float64 `yaml:"min_temperature_c" json:"min_temperature_c"`
	MaxTemperatureC    float64 `yaml:"max_temperature_c" json:"max_temperature_c"`
	PrecipitationMM    float64 `yaml:"precipitation_mm" json:"precipitation_mm"`
	RainyDays          int     `yaml:"rainy_days" json:"rainy_days"`
	Conditions         string  `yaml:"conditions" json:"conditions"`
	CyclingSuitability string  `yaml:"cycling_suitability" json:"cycling_suitability"`
}

type Elevation struct {
	Location   string  `yaml:"location" json:"location"`
	ElevationM float64 `yaml:"elevation_m" json:"elevation_m"`
}

type PointOfInterest struct {
	Name                 string  `yaml:"name" json:"name"`
	Category             string  `yaml:"category" json:"category"`
	Location             string  `yaml:"location" json:"location"`
	Description          string  `yaml:"description" json:"description,omitempty"`
	Rating               float64 `yaml:"rating" json:"rating,omitempty"`
	DistanceFromCenterKM float64 `yaml:"distance_from_center_km" json:"distance_from_center_km"`
}

type VisaRule struct {
	Destination    string  `json:"destination"`
	Nationality    string  `json:"nationality"`
	VisaRequired   bool    `json:"visa_required"`
	VisaType       string  `json:"visa_type"`
	ProcessingTime string  `json:"processing_time"`
	DurationOfStay string  `json:"duration_of_stay"`
	CostUSD        float64 `json:"cost_usd"`
	Notes          string  `json:"notes,omitempty"`
}

type dataset struct {
	Routes           []Route           `yaml:"routes"`
	Accommodations   []Accommodation   `yaml:"accommodations"`
	Weather          []Weather         `yaml:"weather"`
	Elevations       []Elevation       `yaml:"elevations"`
	PointsOfInterest []PointOfInterest `yaml:"points_of_interest"`
	Visas            []visaEntry       `yaml:"visas"`
}

// visaEntry covers every destination/nationality pair it lists.
type visaEntry struct {
	Destinations   []string `yaml:"destinations"`
	Nationalities  []string `yaml:"nationalities"`
	VisaRequired   bool     `yaml:"visa_required"`
	VisaType       string   `yaml:"visa_type"`
	ProcessingTime string   `yaml:"processing_time"`
	DurationOfStay string   `yaml:"duration_of_stay"`
	CostUSD        float64  `yaml:"cost_usd"`
	Notes          string   `yaml:"notes"`
}
