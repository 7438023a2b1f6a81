package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribut(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ATTRIBUT",
		"BH 0 430 10\n"+
			"VR 1 500 20\n"+
			"# a comment row\n"+
			"<de>\n"+
			"BH Haltestelle\n"+
			"<en>\n"+
			"BH Stop\n")

	ds := testStore()
	require.NoError(t, ParseAttribut(dir, ds))

	require.Equal(t, 2, ds.Attributes.Len())
	bh, err := ds.Attributes.Find(0)
	require.NoError(t, err)
	assert.Equal(t, "BH", bh.Code)
	assert.Equal(t, 430, bh.MainSortPriority)
	assert.Equal(t, "Haltestelle", bh.Names["de"])
	assert.Equal(t, "Stop", bh.Names["en"])
}

func TestParseZugart(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ZUGART",
		"IC  1 10 10 00 N InterCity\n"+
			"S   3 20 20 00 N S-Bahn\n")

	ds := testStore()
	require.NoError(t, ParseZugart(dir, ds))

	require.Equal(t, 2, ds.TransportTypes.Len())
	ic, err := ds.TransportTypes.Find(0)
	require.NoError(t, err)
	assert.Equal(t, "IC", ic.ID)
	assert.Equal(t, 1, ic.ProductClass)
	assert.Equal(t, "InterCity", ic.LongNames["de"])
}

func TestParseFeiertag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "FEIERTAG",
		"01.08.2024 Bundesfeiertag<de>$National day<en>$\n")

	ds := testStore()
	require.NoError(t, ParseFeiertag(dir, ds))

	require.Equal(t, 1, ds.Holidays.Len())
	h, err := ds.Holidays.Find(0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), h.Date)
	assert.Equal(t, "Bundesfeiertag", h.Names["de"])
	assert.Equal(t, "National day", h.Names["en"])
}

func TestParseLinieAndRichtung(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "LINIE",
		"0000001 K S1\n"+
			"0000001 N T Bern - Thun\n")
	writeFile(t, dir, "RICHTUNG", "R000001 Thun\n")

	ds := testStore()
	require.NoError(t, ParseLinie(dir, ds))
	require.NoError(t, ParseRichtung(dir, ds))

	l, err := ds.Lines.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "S1", l.Names["short"])
	assert.Equal(t, "Bern - Thun", l.Names["long"])

	r, err := ds.Directions.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Thun", r.Names["de"])
}

func TestParseInfotextPerLanguage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "INFOTEXT_DE", "0000001 Klimatisierter Zug\n")
	writeFile(t, dir, "INFOTEXT_EN", "0000001 Air-conditioned train\n")

	ds := testStore()
	require.NoError(t, ParseInfotext(dir, ds))

	info, err := ds.InformationTexts.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Klimatisierter Zug", info.Names["de"])
	assert.Equal(t, "Air-conditioned train", info.Names["en"])
}

func TestParseInfotextRequiresGerman(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "INFOTEXT_EN", "0000001 English only\n")

	assert.Error(t, ParseInfotext(dir, testStore()))
}

func TestParseBetrieb(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BETRIEB_DE",
		"00011  K \"SBB\"\n"+
			"00011  L \"Schweizerische Bundesbahnen\"\n")

	ds := testStore()
	require.NoError(t, ParseBetrieb(dir, ds))

	tc, err := ds.TransportCompanies.Find(11)
	require.NoError(t, err)
	assert.Equal(t, "SBB", tc.Names["short/de"])
	assert.Equal(t, "Schweizerische Bundesbahnen", tc.Names["long/de"])
}

func TestParseDurchbi(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "DURCHBI",
		"012345 000011 0000002 012346 000011 000001\n"+
			"099999 000099 0000002 012346 000011 000001\n")

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
	require.NoError(t, ParseDurchbi(dir, ds, journeyLegacyID))

	require.Len(t, ds.ThroughServices, 1)
	ts := ds.ThroughServices[0]
	assert.Equal(t, 100, ts.Journey1ID)
	assert.Equal(t, 200, ts.Journey2ID)
	assert.Equal(t, 2, ts.StopID)
}
