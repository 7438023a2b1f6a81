package parse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/model"
)

func gleisJourneyRow(stopID, legacyID int, admin string, index int, hhmm, bitField string) string {
	return fmt.Sprintf("%07d %6d %-6s #%07d %4s %6s", stopID, legacyID, admin, index, hhmm, bitField)
}

func gleisPlatformRow(stopID, index int, descriptor string) string {
	return fmt.Sprintf("%07d #%07d %s", stopID, index, descriptor)
}

func gleisCoordinateRow(stopID, index int, x, y float64) string {
	return fmt.Sprintf("%07d #%07d K %7.0f %7.0f", stopID, index, x, y)
}

func gleisSLOIDRow(stopID, index int, sloid string) string {
	return fmt.Sprintf("%07d #%07d I A %s", stopID, index, sloid)
}

func gleisFixture(t *testing.T) (string, func(int, string) (int, bool)) {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "GLEIS",
		gleisJourneyRow(1, 12345, "000011", 1, "0800", "000001")+"\n"+
			gleisJourneyRow(2, 12345, "000011", 2, "", "")+"\n"+
			gleisPlatformRow(1, 1, `G '1' A 'A'`)+"\n"+
			gleisPlatformRow(2, 2, `G '2'`)+"\n")
	writeFile(t, dir, "GLEIS_LV95",
		gleisJourneyRow(1, 12345, "000011", 1, "0800", "000001")+"\n"+
			gleisJourneyRow(2, 12345, "000011", 2, "", "")+"\n"+
			gleisCoordinateRow(1, 1, 2600010, 1200010)+"\n"+
			gleisSLOIDRow(1, 1, "ch:1:sloid:7000:1:1")+"\n")
	writeFile(t, dir, "GLEIS_WGS",
		gleisJourneyRow(1, 12345, "000011", 1, "0800", "000001")+"\n"+
			gleisJourneyRow(2, 12345, "000011", 2, "", "")+"\n"+
			gleisCoordinateRow(1, 1, 7, 46)+"\n")

	journeyLegacyID := func(legacyID int, admin string) (int, bool) {
		if legacyID == 12345 && admin == "000011" {
			return 100, true
		}
		return 0, false
	}
	return dir, journeyLegacyID
}

func TestParsePlatforms(t *testing.T) {
	dir, journeyLegacyID := gleisFixture(t)

	ds := testStore()
	ds.Stops.Put(1, &model.Stop{ID: 1})
	ds.Stops.Put(2, &model.Stop{ID: 2})
	require.NoError(t, ParsePlatforms(dir, ds, journeyLegacyID))

	require.Equal(t, 2, ds.Platforms.Len())
	first, err := ds.Platforms.Find(0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.StopID)
	assert.Equal(t, "1", first.Code)
	assert.Equal(t, "A", first.Sector)

	second, err := ds.Platforms.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "2", second.Code)
	assert.Empty(t, second.Sector)

	require.Equal(t, 2, ds.JourneyPlatforms.Len())
	jp, err := ds.JourneyPlatforms.Find(0)
	require.NoError(t, err)
	assert.Equal(t, 100, jp.JourneyID)
	assert.Equal(t, 0, jp.PlatformID)
	require.NotNil(t, jp.Time)
	assert.Equal(t, "08:00:00", jp.Time.String())
	require.NotNil(t, jp.BitFieldID)
	assert.Equal(t, 1, *jp.BitFieldID)
}

func TestParsePlatformsCoordinateContinuation(t *testing.T) {
	dir, journeyLegacyID := gleisFixture(t)

	ds := testStore()
	ds.Stops.Put(1, &model.Stop{ID: 1})
	ds.Stops.Put(2, &model.Stop{ID: 2})
	require.NoError(t, ParsePlatforms(dir, ds, journeyLegacyID))

	platform, err := ds.Platforms.Find(0)
	require.NoError(t, err)
	require.NotNil(t, platform.LV95)
	assert.Equal(t, 2600010.0, platform.LV95.Easting())
	assert.Equal(t, 1200010.0, platform.LV95.Northing())
	require.NotNil(t, platform.WGS84)
	assert.Equal(t, 46.0, platform.WGS84.Latitude())
	assert.Equal(t, 7.0, platform.WGS84.Longitude())
	assert.Equal(t, "ch:1:sloid:7000:1:1", platform.SLOID)
}

func TestParsePlatformsSkipsUnknownJourney(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "GLEIS",
		gleisJourneyRow(1, 99999, "000099", 1, "", "")+"\n"+
			gleisPlatformRow(1, 1, `G '1'`)+"\n")
	writeFile(t, dir, "GLEIS_LV95", gleisJourneyRow(1, 99999, "000099", 1, "", "")+"\n")
	writeFile(t, dir, "GLEIS_WGS", gleisJourneyRow(1, 99999, "000099", 1, "", "")+"\n")

	ds := testStore()
	ds.Stops.Put(1, &model.Stop{ID: 1})
	require.NoError(t, ParsePlatforms(dir, ds, func(int, string) (int, bool) { return 0, false }))

	assert.Equal(t, 1, ds.Platforms.Len())
	assert.Equal(t, 0, ds.JourneyPlatforms.Len())
}
