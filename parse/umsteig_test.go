package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/model"
)

func TestParseUmsteigV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UMSTEIGV",
		"9999999 000011 000022 02\n"+
			"0000001 000011 000022 05\n")

	ds := testStore()
	require.NoError(t, ParseUmsteigV(dir, ds))

	require.Len(t, ds.ExchangeTimesAdministration, 2)
	assert.Equal(t, "000011", ds.ExchangeTimesAdministration[0].Administration1)
	assert.Equal(t, "000022", ds.ExchangeTimesAdministration[0].Administration2)
	assert.Equal(t, 2, ds.ExchangeTimesAdministration[0].Minutes)
	require.NotNil(t, ds.ExchangeTimesAdministration[1].StopID)
	assert.Equal(t, 1, *ds.ExchangeTimesAdministration[1].StopID)
}

func TestParseUmsteigL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UMSTEIGL",
		"0000002 000011 IC  0000001  1 000022 S   *        2 003\n")

	ds := testStore()
	require.NoError(t, ParseUmsteigL(dir, ds))

	require.Len(t, ds.ExchangeTimesLine, 1)
	e := ds.ExchangeTimesLine[0]
	require.NotNil(t, e.StopID)
	assert.Equal(t, 2, *e.StopID)
	assert.Equal(t, "000011", e.Administration1)
	assert.Equal(t, "IC", e.TransportType1)
	assert.Equal(t, "0000001", e.Line1)
	assert.Equal(t, model.ExchangeIncoming, e.Direction1)
	assert.Equal(t, "000022", e.Administration2)
	assert.Equal(t, "S", e.TransportType2)
	assert.Empty(t, e.Line2) // "*" normalizes to match-anything
	assert.Equal(t, model.ExchangeOutgoing, e.Direction2)
	assert.Equal(t, 3, e.Minutes)
}

func TestParseUmsteigZ(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UMSTEIGZ",
		"0000002 012345 000011 012346 000011 003  000001\n"+
			"0000002 099999 000099 012346 000011 004  000001\n")

	ds := testStore()
	journeyLegacyID := func(legacyID int, admin string) (int, bool) {
		switch legacyID {
		case 12345:
			return 100, true
		case 12346:
			return 200, true
		}
		return 0, false
	}
	require.NoError(t, ParseUmsteigZ(dir, ds, journeyLegacyID))

	// The second row names a journey the corpus doesn't carry and is
	// skipped.
	require.Len(t, ds.ExchangeTimesJourney, 1)
	e := ds.ExchangeTimesJourney[0]
	assert.Equal(t, 100, e.Journey1ID)
	assert.Equal(t, 200, e.Journey2ID)
	assert.Equal(t, 3, e.Minutes)
	require.NotNil(t, e.BitFieldID)
	assert.Equal(t, 1, *e.BitFieldID)
}

func TestParseUmsteigB(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UMSTEIGB",
		"0000001 05 03\n"+
			"9999999 04 02\n")

	ds := testStore()
	ds.Stops.Put(1, &model.Stop{ID: 1})
	require.NoError(t, ParseUmsteigB(dir, ds))

	stop, err := ds.Stops.Find(1)
	require.NoError(t, err)
	assert.Equal(t, 5, stop.InterchangeTime.InterCity)
	assert.Equal(t, 3, stop.InterchangeTime.Other)

	// The sentinel row materializes the default pseudo stop.
	def, err := ds.Stops.Find(model.DefaultStopID)
	require.NoError(t, err)
	assert.Equal(t, 4, def.InterchangeTime.InterCity)
	assert.Equal(t, 2, def.InterchangeTime.Other)
}
