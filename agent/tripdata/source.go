package tripdata

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agext/levenshtein"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"gopkg.in/yaml.v3"
)

// SimilarityThreshold is the minimum normalized Levenshtein similarity for
// a name to count as a match.
const SimilarityThreshold = 0.70

//go:embed data/*.yaml
var embedded embed.FS

// Source is the read-only trip data lookup used by the tools. Misses wrap
// contract.ErrNotFound.
type Source interface {
	Route(start, end string) (Route, error)
	Accommodations(location, kind string) ([]Accommodation, error)
	Weather(location, month string) (Weather, error)
	Elevation(location string) (Elevation, error)
	PointsOfInterest(location, category string) ([]PointOfInterest, error)
	Visa(destination, nationality string) (VisaRule, error)
}

// Catalog serves lookups from an in-memory dataset. It is immutable after
// construction and safe for concurrent use.
type Catalog struct {
	data dataset
}

var _ Source = (*Catalog)(nil)

// LoadEmbedded parses the dataset compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFS(embedded, "data")
}

func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var ds dataset
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if err := yaml.Unmarshal(raw, &ds); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
	}
	return &Catalog{data: ds}, nil
}

// Parse builds a Catalog from a single YAML document.
func Parse(raw []byte) (*Catalog, error) {
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return &Catalog{data: ds}, nil
}

func (c *Catalog) Route(start, end string) (Route, error) {
	best := -1
	bestScore := 0.0
	for i, r := range c.data.Routes {
		startScore := similarity(start, r.StartPoint)
		endScore := similarity(end, r.EndPoint)
		if startScore < SimilarityThreshold || endScore < SimilarityThreshold {
			continue
		}
		if avg := (startScore + endScore) / 2; avg > bestScore {
			best, bestScore = i, avg
		}
	}
	if best < 0 {
		return Route{}, fmt.Errorf("%w: no route from %q to %q", contractx.ErrNotFound, start, end)
	}
	return cloneRoute(c.data.Routes[best]), nil
}

// Accommodations lists places to stay at the best-matching location. kind
// is camping, hostel, hotel or all.
func (c *Catalog) Accommodations(location, kind string) ([]Accommodation, error) {
	kind = normalizeKind(kind)
	matched, ok := bestName(location, accommodationLocations(c.data.Accommodations))
	if !ok {
		return nil, fmt.Errorf("%w: no accommodation near %q", contractx.ErrNotFound, location)
	}

	var out []Accommodation
	for _, a := range c.data.Accommodations {
		if a.Location != matched {
			continue
		}
		if kind != "all" && a.Type != kind {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %s accommodation near %q", contractx.ErrNotFound, kind, location)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerNight < out[j].PricePerNight })
	return out, nil
}

func (c *Catalog) Weather(location, month string) (Weather, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return Weather{}, err
	}

	names := make([]string, 0, len(c.data.Weather))
	for _, w := range c.data.Weather {
		names = append(names, w.Location)
	}
	matched, ok := bestName(location, names)
	if !ok {
		return Weather{}, fmt.Errorf("%w: no weather data for %q", contractx.ErrNotFound, location)
	}
	for _, w := range c.data.Weather {
		if w.Location == matched && strings.EqualFold(w.Month, m.String()) {
			return w, nil
		}
	}
	return Weather{}, fmt.Errorf("%w: no weather data for %s in %s", contractx.ErrNotFound, matched, m)
}

func (c *Catalog) Elevation(location string) (Elevation, error) {
	names := make([]string, 0, len(c.data.Elevations))
	for _, e := range c.data.Elevations {
		names = append(names, e.Location)
	}
	matched, ok := bestName(location, names)
	if !ok {
		return Elevation{}, fmt.Errorf("%w: no elevation data for %q", contractx.ErrNotFound, location)
	}
	for _, e := range c.data.Elevations {
		if e.Location == matched {
			return e, nil
		}
	}
	return Elevation{}, fmt.Errorf("%w: no elevation data for %q", contractx.ErrNotFound, location)
}

func (c *Catalog) PointsOfInterest(location, category string) ([]PointOfInterest, error) {
	category = normalize(category)
	names := make([]string, 0, len(c.data.PointsOfInterest))
	for _, p := range c.data.PointsOfInterest {
		names = append(names, p.Location)
	}
	matched, ok := bestName(location, names)
	if !ok {
		return nil, fmt.Errorf("%w: no points of interest near %q", contractx.ErrNotFound, location)
	}

	var out []PointOfInterest
	for _, p := range c.data.PointsOfInterest {
		if p.Location != matched {
			continue
		}
		if category != "" && category != "all" && normalize(p.Category) != category {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %s points of interest near %q", contractx.ErrNotFound, category, location)
	}
	return out, nil
}

func (c *Catalog) Visa(destination, nationality string) (VisaRule, error) {
	bestScore := 0.0
	var found *visaEntry
	var foundDest string

	for i := range c.data.Visas {
		entry := &c.data.Visas[i]
		dest, destScore := bestMatch(destination, entry.Destinations)
		_, natScore := bestMatch(nationality, entry.Nationalities)
		if destScore < SimilarityThreshold || natScore < SimilarityThreshold {
			continue
		}
		if avg := (destScore + natScore) / 2; avg > bestScore {
			bestScore = avg
			found, foundDest = entry, dest
		}
	}
	if found == nil {
		return VisaRule{}, fmt.Errorf("%w: no visa rule for %q travelling to %q", contractx.ErrNotFound, nationality, destination)
	}

	return VisaRule{
		Destination:    foundDest,
		Nationality:    found.Nationalities[0],
		VisaRequired:   found.VisaRequired,
		VisaType:       found.VisaType,
		ProcessingTime: found.ProcessingTime,
		DurationOfStay: found.DurationOfStay,
		CostUSD:        found.CostUSD,
		Notes:          found.Notes,
	}, nil
}

// ParseMonth accepts a month name, a three-letter abbreviation or 1..12.
func ParseMonth(s string) (time.Month, error) {
	v := normalize(s)
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), nil
		}
		return 0, fmt.Errorf("%w: month must be between 1 and 12, got %d", contractx.ErrInvalidInput, n)
	}
	if len(v) >= 3 {
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), v) {
				return m, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unrecognized month %q", contractx.ErrInvalidInput, s)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func similarity(a, b string) float64 {
	return levenshtein.Similarity(normalize(a), normalize(b), nil)
}

func bestMatch(query string, candidates []string) (string, float64) {
	best, bestScore := "", 0.0
	for _, c := range candidates {
		if score := similarity(query, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

func bestName(query string, candidates []string) (string, bool) {
	name, score := bestMatch(query, candidates)
	return name, score >= SimilarityThreshold
}

func normalizeKind(kind string) string {
	switch k := normalize(kind); k {
	case "", "all", "any":
		return "all"
	case "hostels":
		return "hostel"
	case "hotels":
		return "hotel"
	case "campsite", "campsites", "camp":
		return "camping"
	default:
		return k
	}
}

func accommodationLocations(items []Accommodation) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Location)
	}
	return out
}

func cloneRoute(r Route) Route {
	r.Countries = append([]string(nil), r.Countries...)
	r.Waypoints = append([]Waypoint(nil), r.Waypoints...)
	return r
}
