package isochrone

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/storage"
)

func TestLV95RoundTrip(t *testing.T) {
	// Bern's Zytglogge, a swisstopo reference point.
	lat, lon := 46.9480, 7.4474

	east, north := wgs84ToLV95(lat, lon)
	assert.InDelta(t, 2600690, east, 100)
	assert.InDelta(t, 1199740, north, 100)

	lat2, lon2 := lv95ToWGS84(east, north)
	assert.InDelta(t, lat, lat2, 0.0005)
	assert.InDelta(t, lon, lon2, 0.0005)
	assert.LessOrEqual(t, mathAbs(lat2), 90.0)
	assert.LessOrEqual(t, mathAbs(lon2), 180.0)
}

func mathAbs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func fixture(t *testing.T) *storage.DataStore {
	t.Helper()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := storage.New()
	ds.Metadata = &model.TimetableMetadata{StartDate: start, EndDate: end}

	a := model.NewLV95Coordinates(2600000, 1200000)
	b := model.NewLV95Coordinates(2610000, 1200000)
	ds.Stops.Put(1, &model.Stop{ID: 1, Name: "A", LV95: &a})
	ds.Stops.Put(2, &model.Stop{ID: 2, Name: "B", LV95: &b})

	dep := model.NewServiceTimeHHMM(800)
	arr := model.NewServiceTimeHHMM(820)
	ds.Journeys.Put(100, &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			{StopID: 1, Departure: &dep},
			{StopID: 2, Arrival: &arr},
		},
	})

	require.NoError(t, ds.BuildIndices())
	ds.Calendar = calendar.NewEngine(ds.Metadata, nil)
	return ds
}

func TestQueryCircles(t *testing.T) {
	ds := fixture(t)
	d := New(ds)

	originLat, originLon := lv95ToWGS84(2600000, 1200000)
	c, err := d.Query(context.Background(), Request{
		OriginLat:   originLat,
		OriginLon:   originLon,
		DepartureAt: time.Date(2024, 6, 1, 7, 55, 0, 0, time.UTC),
		TimeLimit:   30 * time.Minute,
		Interval:    15 * time.Minute,
		Mode:        ModeCircles,
	})
	require.NoError(t, err)
	require.Len(t, c.Isochrones, 2)

	// First band (15 min): the journey has not arrived at B yet, so
	// only the origin point and its boarding stop contribute disks.
	assert.Len(t, c.Isochrones[0].Polygons, 2)

	// Second band (30 min): additionally a disk around B, reached at
	// 08:20 with 5 minutes to spare.
	assert.Len(t, c.Isochrones[1].Polygons, 3)

	for _, iso := range c.Isochrones {
		for _, poly := range iso.Polygons {
			require.NotEmpty(t, poly)
			for _, pt := range poly[0] {
				assert.LessOrEqual(t, mathAbs(pt[1]), 90.0)
				assert.LessOrEqual(t, mathAbs(pt[0]), 180.0)
			}
		}
	}
}

func TestQueryContour(t *testing.T) {
	ds := fixture(t)
	d := New(ds)

	originLat, originLon := lv95ToWGS84(2600000, 1200000)
	c, err := d.Query(context.Background(), Request{
		OriginLat:   originLat,
		OriginLon:   originLon,
		DepartureAt: time.Date(2024, 6, 1, 7, 55, 0, 0, time.UTC),
		TimeLimit:   30 * time.Minute,
		Interval:    30 * time.Minute,
		Mode:        ModeContourLine,
	})
	require.NoError(t, err)
	require.Len(t, c.Isochrones, 1)
	require.NotEmpty(t, c.Isochrones[0].Polygons)

	// Every ring is closed.
	for _, poly := range c.Isochrones[0].Polygons {
		ring := poly[0]
		assert.Equal(t, ring[0], ring[len(ring)-1])
	}
}

func TestQueryRejectsBadInterval(t *testing.T) {
	ds := fixture(t)
	d := New(ds)

	_, err := d.Query(context.Background(), Request{
		OriginLat:   46.9,
		OriginLon:   7.44,
		DepartureAt: time.Date(2024, 6, 1, 7, 55, 0, 0, time.UTC),
		TimeLimit:   30 * time.Minute,
		Interval:    45 * time.Minute,
	})
	assert.Error(t, err)
}
