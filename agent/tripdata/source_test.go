package tripdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadEmbedded()
	require.NoError(t, err)
	return c
}

func TestLoadEmbeddedHasEveryCollection(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	require.NotEmpty(t, c.data.Routes)
	require.NotEmpty(t, c.data.Accommodations)
	require.NotEmpty(t, c.data.Weather)
	require.NotEmpty(t, c.data.Elevations)
	require.NotEmpty(t, c.data.PointsOfInterest)
	require.NotEmpty(t, c.data.Visas)
}

func TestEveryRouteWaypointHasElevation(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	for _, r := range c.data.Routes {
		for _, wp := range r.Waypoints {
			_, err := c.Elevation(wp.Name)
			require.NoErrorf(t, err, "route %s -> %s waypoint %s", r.StartPoint, r.EndPoint, wp.Name)
		}
	}
}

func TestRouteFuzzyMatch(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	r, err := c.Route("  PARIS ", "Londn")
	require.NoError(t, err)
	require.Equal(t, "Paris", r.StartPoint)
	require.Equal(t, "London", r.EndPoint)
	require.NotEmpty(t, r.Waypoints)
}

func TestRouteMissIsNotFound(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	_, err := c.Route("Lisbon", "Madrid")
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestRouteReturnsCopy(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	r, err := c.Route("Paris", "London")
	require.NoError(t, err)
	r.Waypoints[0].Name = "changed"

	again, err := c.Route("Paris", "London")
	require.NoError(t, err)
	require.Equal(t, "Paris", again.Waypoints[0].Name)
}

func TestAccommodationsFilterByKind(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	all, err := c.Accommodations("paris", "all")
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		require.LessOrEqual(t, all[i-1].PricePerNight, all[i].PricePerNight)
	}

	hostels, err := c.Accommodations("Paris", "hostels")
	require.NoError(t, err)
	require.Len(t, hostels, 1)
	require.Equal(t, "hostel", hostels[0].Type)

	_, err = c.Accommodations("Groningen", "hotel")
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestWeatherAcceptsMonthForms(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	for _, month := range []string{"July", "jul", "7", " JULY "} {
		w, err := c.Weather("Paris", month)
		require.NoErrorf(t, err, "month %q", month)
		require.Equal(t, "July", w.Month)
	}

	_, err := c.Weather("Paris", "13")
	require.ErrorIs(t, err, contractx.ErrInvalidInput)

	_, err = c.Weather("Paris", "December")
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestPointsOfInterestCategory(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	pois, err := c.PointsOfInterest("Paris", "Historical")
	require.NoError(t, err)
	require.Len(t, pois, 1)
	require.Equal(t, "Eiffel Tower", pois[0].Name)

	all, err := c.PointsOfInterest("Paris", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestVisaMatchesAliases(t *testing.T) {
	t.Parallel()

	c := loadCatalog(t)
	rule, err := c.Visa("france", "USA")
	require.NoError(t, err)
	require.Equal(t, "France", rule.Destination)
	require.Equal(t, "United States", rule.Nationality)
	require.False(t, rule.VisaRequired)

	rule, err = c.Visa("Germany", "Thai")
	require.NoError(t, err)
	require.True(t, rule.VisaRequired)

	_, err = c.Visa("Japan", "US")
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestParseFromDocument(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(`
elevations:
  - {location: Oslo, elevation_m: 23}
`))
	require.NoError(t, err)

	e, err := c.Elevation("oslo")
	require.NoError(t, err)
	require.Equal(t, 23.0, e.ElevationM)
}

func TestParseMonth(t *testing.T) {
	t.Parallel()

	m, err := ParseMonth("sept")
	require.NoError(t, err)
	require.Equal(t, time.September, m)

	_, err = ParseMonth("ju")
	require.ErrorIs(t, err, contractx.ErrInvalidInput)
}
