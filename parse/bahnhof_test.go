package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBahnhof(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BAHNHOF",
		"0000001     Bern$<1>BN$<3>Berne$<4>Berna$<4>\n"+
			"0000002     Thun$<1>\n")

	ds := testStore()
	require.NoError(t, ParseBahnhof(dir, ds))

	require.Equal(t, 2, ds.Stops.Len())

	bern, err := ds.Stops.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Bern", bern.Name)
	assert.Equal(t, "BN", bern.Abbreviation)
	assert.Equal(t, []string{"Berne", "Berna"}, bern.Synonyms)

	thun, err := ds.Stops.Find(2)
	require.NoError(t, err)
	assert.Equal(t, "Thun", thun.Name)
	assert.Empty(t, thun.Abbreviation)
}

func TestParseBahnhofMergesExistingStop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BAHNHOF", "0000001     Bern neu$<1>\n")

	ds := testStore()
	require.NoError(t, ParseBahnhof(dir, ds))

	writeFile(t, dir, "BAHNHOF", "0000001     $<1>BN$<3>\n")
	require.NoError(t, ParseBahnhof(dir, ds))

	bern, err := ds.Stops.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Bern neu", bern.Name)
	assert.Equal(t, "BN", bern.Abbreviation)
}

func TestParseBahnhofBadID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BAHNHOF", "x000001     Bern$<1>\n")

	err := ParseBahnhof(dir, testStore())
	assert.Error(t, err)
}
