package timetable_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/testutil"
)

func TestLoadMaterializesAllStores(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)
	ds := tt.DataStore()

	meta := tt.Metadata()
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), meta.StartDate)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), meta.EndDate)
	assert.Equal(t, "SBB", meta.Provider)
	assert.Equal(t, "1.0", meta.Version)

	bern, err := tt.Stop(1)
	require.NoError(t, err)
	assert.Equal(t, "Bern", bern.Name)
	assert.Equal(t, "BN", bern.Abbreviation)
	require.NotNil(t, bern.LV95)
	assert.Equal(t, 2600000.0, bern.LV95.Easting())
	require.NotNil(t, bern.WGS84)
	assert.Equal(t, 46.95, bern.WGS84.Latitude())
	assert.Equal(t, 7.44, bern.WGS84.Longitude())
	assert.Equal(t, "3", bern.RestrictionCode)
	assert.Equal(t, []string{"ch:1:sloid:7000"}, bern.SLOIDs)
	assert.Equal(t, []string{"1A"}, bern.BoardingAreas)
	assert.Equal(t, 5, bern.InterchangeTime.InterCity)
	assert.Equal(t, 3, bern.InterchangeTime.Other)
	assert.Equal(t, []int{3}, bern.NearbyStopIDs)

	assert.Equal(t, 2, ds.Journeys.Len())
	assert.Equal(t, 1, ds.BitFields.Len())
	assert.Equal(t, 1, ds.StopConnections.Len())
	assert.Equal(t, 2, ds.Platforms.Len())
	assert.Len(t, ds.ThroughServices, 1)
	assert.Len(t, ds.ExchangeTimesAdministration, 1)
	assert.Len(t, ds.ExchangeTimesLine, 1)
	assert.Len(t, ds.ExchangeTimesJourney, 1)
	assert.Equal(t, 1, ds.Holidays.Len())
	assert.Equal(t, 2, ds.TransportTypes.Len())

	platform, err := ds.Platforms.Find(0)
	require.NoError(t, err)
	assert.Equal(t, "1", platform.Code)
	assert.Equal(t, "A", platform.Sector)
	require.NotNil(t, platform.LV95)
	assert.Equal(t, 2600010.0, platform.LV95.Easting())
	assert.Equal(t, "ch:1:sloid:7000:1:1", platform.SLOID)
}

func TestPlanDirect(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)

	route, err := tt.Plan(context.Background(), 1, 2, time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), route.ArrivalAt())
	assert.Equal(t, 1, route.CountConnections())
	assert.NotEmpty(t, tt.Itinerary(route))
}

func TestPlanWalkThenRide(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)

	route, err := tt.Plan(context.Background(), 3, 2, time.Date(2024, 6, 1, 7, 50, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, route.Sections, 2)
	assert.True(t, route.Sections[0].IsWalk())
	assert.Equal(t, time.Date(2024, 6, 1, 7, 55, 0, 0, time.UTC), route.Sections[0].ArrivalAt)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), route.ArrivalAt())
}

func TestPlanWithInterchange(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)

	// The IC reaches Thun at 08:30; the onward S departs 08:40. The pair
	// is a declared through service at Thun, so no exchange time applies.
	route, err := tt.Plan(context.Background(), 1, 3, time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 55, 0, 0, time.UTC), route.ArrivalAt())
	assert.Equal(t, 2, route.CountConnections())
}

func TestPlanOutsideCalendar(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)

	_, err := tt.Plan(context.Background(), 1, 2, time.Date(2024, 6, 2, 7, 30, 0, 0, time.UTC))
	var queryErr *errs.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, errs.NoSolution, queryErr.Kind)
}

func TestPlanUnknownStop(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)

	_, err := tt.Plan(context.Background(), 404, 2, time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC))
	var queryErr *errs.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, errs.UnknownStop, queryErr.Kind)
}

func TestReachability(t *testing.T) {
	tt := testutil.LoadTimetable(t, nil)

	arrivals, err := tt.Reachability(context.Background(), 1, time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC), 90*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), arrivals[2])
	assert.Equal(t, time.Date(2024, 6, 1, 8, 55, 0, 0, time.UTC), arrivals[3])
}

// Re-parsing the same corpus must produce identical stores.
func TestParseIdempotence(t *testing.T) {
	first := testutil.LoadTimetable(t, nil)
	second := testutil.LoadTimetable(t, nil)

	assert.Equal(t, first.DataStore().Stops.Values(), second.DataStore().Stops.Values())
	assert.Equal(t, first.DataStore().Journeys.Values(), second.DataStore().Journeys.Values())
	assert.Equal(t, first.DataStore().BitFields.Values(), second.DataStore().BitFields.Values())
}
