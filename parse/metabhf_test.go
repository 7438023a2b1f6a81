package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/model"
)

func TestParseMetabhf(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "METABHF",
		"0000003 0000001 005\n"+
			"*A Y\n"+
			"0000001 0000002 010\n"+
			"0000001: 0000003 0000002\n")

	ds := testStore()
	ds.Stops.Put(1, &model.Stop{ID: 1})
	ds.Stops.Put(2, &model.Stop{ID: 2})
	ds.Stops.Put(3, &model.Stop{ID: 3})
	require.NoError(t, ParseMetabhf(dir, ds))

	require.Equal(t, 2, ds.StopConnections.Len())

	first, err := ds.StopConnections.Find(0)
	require.NoError(t, err)
	assert.Equal(t, 3, first.StopID1)
	assert.Equal(t, 1, first.StopID2)
	assert.Equal(t, 5, first.DurationMinutes)
	assert.Equal(t, []string{"Y"}, first.Attributes)

	second, err := ds.StopConnections.Find(1)
	require.NoError(t, err)
	assert.Equal(t, 10, second.DurationMinutes)
	assert.Empty(t, second.Attributes)

	stop, err := ds.Stops.Find(1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, stop.NearbyStopIDs)
}

func TestParseMetabhfConnectionsAreDirected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "METABHF", "0000003 0000001 005\n")

	ds := testStore()
	ds.Stops.Put(1, &model.Stop{ID: 1})
	ds.Stops.Put(3, &model.Stop{ID: 3})
	require.NoError(t, ParseMetabhf(dir, ds))
	require.NoError(t, ds.BuildIndices())

	assert.NotEmpty(t, ds.StopsByConnection.Find(3))
	assert.Empty(t, ds.StopsByConnection.Find(1))
}
