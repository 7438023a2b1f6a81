package routing

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

func newFixture(t *testing.T, start, end time.Time) *storage.DataStore {
	t.Helper()
	ds := storage.New()
	ds.Metadata = &model.TimetableMetadata{StartDate: start, EndDate: end}
	return ds
}

func addStop(ds *storage.DataStore, id int, name string) {
	ds.Stops.Put(id, &model.Stop{ID: id, Name: name})
}

func timeEntry(stopID int, arrival, departure int) model.JourneyRouteEntry {
	e := model.JourneyRouteEntry{StopID: stopID}
	if arrival >= 0 {
		t := model.NewServiceTimeHHMM(arrival)
		e.Arrival = &t
	}
	if departure >= 0 {
		t := model.NewServiceTimeHHMM(departure)
		e.Departure = &t
	}
	return e
}

func addDailyBitField(ds *storage.DataStore, id int, activeOffsets ...int) {
	days := calendar.DaysBetween(ds.Metadata.StartDate, ds.Metadata.EndDate)
	bits := make([]bool, days)
	for _, o := range activeOffsets {
		bits[o] = true
	}
	ds.BitFields.Put(id, &model.BitField{ID: id, Bits: bits})
}

func build(t *testing.T, ds *storage.DataStore) {
	t.Helper()
	require.NoError(t, ds.BuildIndices())
	ds.Calendar = calendar.NewEngine(ds.Metadata, nil)
}

// Single journey, single active day, direct query.
func TestPlanBasic(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := newFixture(t, start, end)
	addStop(ds, 1, "A")
	addStop(ds, 2, "B")
	addDailyBitField(ds, 1, 0)
	bf := 1
	journey := &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(2, 830, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	ds.Journeys.Put(journey.ID, journey)
	build(t, ds)

	departAt := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	route, err := Plan(context.Background(), ds, 1, 2, departAt)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), route.ArrivalAt())
	assert.Equal(t, 1, route.CountConnections())
}

// A walking leg onto the stop the journey boards at.
func TestPlanWalkThenRide(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := newFixture(t, start, end)
	addStop(ds, 1, "A")
	addStop(ds, 2, "B")
	addStop(ds, 3, "C")
	addDailyBitField(ds, 1, 0)
	bf := 1
	journey := &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(2, 830, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	ds.Journeys.Put(journey.ID, journey)
	ds.StopConnections.Put(0, &model.StopConnection{ID: 0, StopID1: 3, StopID2: 1, DurationMinutes: 5})
	build(t, ds)

	departAt := time.Date(2024, 6, 1, 7, 50, 0, 0, time.UTC)
	route, err := Plan(context.Background(), ds, 3, 2, departAt)
	require.NoError(t, err)
	require.Len(t, route.Sections, 2)
	assert.True(t, route.Sections[0].IsWalk())
	assert.Equal(t, time.Date(2024, 6, 1, 7, 55, 0, 0, time.UTC), route.Sections[0].ArrivalAt)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), route.ArrivalAt())
}

// A journey whose times roll past midnight.
func TestPlanDayRollover(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := newFixture(t, start, end)
	addStop(ds, 1, "A")
	addStop(ds, 2, "B")
	addDailyBitField(ds, 1, 0)
	bf := 1
	journey := &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 2350),
			timeEntry(2, 20, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	ds.Journeys.Put(journey.ID, journey)
	build(t, ds)

	departAt := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	route, err := Plan(context.Background(), ds, 1, 2, departAt)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 20, 0, 0, time.UTC), route.ArrivalAt())
}

// Two journeys reach B at the same instant; the fewer-section one wins.
func TestPlanInterchangeDominance(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := newFixture(t, start, end)
	addStop(ds, 1, "A")
	addStop(ds, 2, "X")
	addStop(ds, 3, "B")
	addDailyBitField(ds, 1, 0)
	bf := 1

	direct := &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(2, 830, 830),
			timeEntry(3, 900, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	viaThird := &model.Journey{
		ID: 200,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(2, 820, 820),
			timeEntry(3, 900, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	ds.Journeys.Put(direct.ID, direct)
	ds.Journeys.Put(viaThird.ID, viaThird)
	build(t, ds)

	departAt := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	route, err := Plan(context.Background(), ds, 1, 3, departAt)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), route.ArrivalAt())
	assert.Equal(t, 1, route.CountConnections())
}

// The only journey does not operate on the query date.
func TestPlanCalendarSkip(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := newFixture(t, start, end)
	addStop(ds, 1, "A")
	addStop(ds, 2, "B")
	addDailyBitField(ds, 1, 0) // active on 2024-06-01 only
	bf := 1
	journey := &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(2, 830, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	ds.Journeys.Put(journey.ID, journey)
	build(t, ds)

	departAt := time.Date(2024, 6, 2, 7, 30, 0, 0, time.UTC)
	_, err := Plan(context.Background(), ds, 1, 2, departAt)
	require.Error(t, err)
}

// Reachability within a fixed time budget.
func TestReachabilityTimeLimit(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := newFixture(t, start, end)
	addStop(ds, 1, "A")
	addStop(ds, 2, "B")
	addStop(ds, 3, "C")
	addDailyBitField(ds, 1, 0)
	bf := 1
	near := &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(2, 830, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	far := &model.Journey{
		ID: 200,
		Route: []model.JourneyRouteEntry{
			timeEntry(1, -1, 800),
			timeEntry(3, 900, -1),
		},
		Metadata: []model.JourneyMetadataEntry{{Type: model.MetaBitField, BitFieldID: &bf}},
	}
	ds.Journeys.Put(near.ID, near)
	ds.Journeys.Put(far.ID, far)
	build(t, ds)

	departAt := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	reach, err := Reachability(context.Background(), ds, 1, departAt, 30*time.Minute)
	require.NoError(t, err)
	arrival, ok := reach[2]
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), arrival)
	_, ok = reach[3]
	assert.False(t, ok)
}
