// Package testutil builds miniature HRDF corpora for tests: a complete
// set of files, down to the column, small enough to read in a failure
// message. The default corpus models three stops -- Bern (1), Thun (2)
// and Ostermundigen (3) -- one IC from Bern to Thun, one S-Bahn
// onward from Thun, and a declared walking connection from
// Ostermundigen to Bern, all valid 2024-06-01 through 2024-06-10 with
// service on the first day only.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable"
)

// RouteRow renders an FPLAN route entry row: stop id, optional HHMM
// arrival and departure, each in its fixed column.
func RouteRow(stopID int, arrival, departure string) string {
	return fmt.Sprintf("%07d%22s%6s %6s", stopID, "", arrival, departure)
}

// GleisJourneyRow renders a GLEIS section-1 row binding a journey to a
// platform index at a stop.
func GleisJourneyRow(stopID, legacyID int, admin string, index int, hhmm, bitField string) string {
	return fmt.Sprintf("%07d %6d %-6s #%07d %4s %6s", stopID, legacyID, admin, index, hhmm, bitField)
}

// GleisPlatformRow renders a GLEIS section-2 row declaring a platform.
func GleisPlatformRow(stopID, index int, descriptor string) string {
	return fmt.Sprintf("%07d #%07d %s", stopID, index, descriptor)
}

// GleisCoordinateRow renders a GLEIS_LV95/GLEIS_WGS continuation row
// carrying a platform's coordinates.
func GleisCoordinateRow(stopID, index int, x, y float64) string {
	return fmt.Sprintf("%07d #%07d K %7.0f %7.0f", stopID, index, x, y)
}

// GleisSLOIDRow renders a GLEIS_LV95 continuation row carrying a
// platform's SLOID.
func GleisSLOIDRow(stopID, index int, sloid string) string {
	return fmt.Sprintf("%07d #%07d I A %s", stopID, index, sloid)
}

// bitFieldHex is a BITFELD hex run with only the bit for day offset 0
// set: the leading nibble 8, then 95 zero nibbles.
var bitFieldHex = "8" + strings.Repeat("0", 95)

// Corpus returns the default corpus as file name -> content. Callers
// may override entries before writing.
func Corpus() map[string]string {
	files := map[string]string{
		"ECKDATEN": join(
			"01.06.2024",
			"10.06.2024",
			"Fahrplan 2024$2024-05-01$1.0$SBB",
		),
		"BITFELD": join(
			"000001 " + bitFieldHex,
		),
		"FEIERTAG": join(
			"01.08.2024 Bundesfeiertag<de>$National day<en>$",
		),
		"ATTRIBUT": join(
			"BH 0 430 10",
			"<de>",
			"BH Haltestelle",
		),
		"RICHTUNG": join(
			"R000001 Thun",
		),
		"LINIE": join(
			"0000001 K S1",
			"0000001 N T Bern - Thun",
		),
		"INFOTEXT_DE": join(
			"0000001 Klimatisierter Zug",
		),
		"BETRIEB_DE": join(
			`00011  K "SBB"`,
			`00011  L "Schweizerische Bundesbahnen"`,
		),
		"ZUGART": join(
			"IC  1 10 10 00 N InterCity",
			"S   3 20 20 00 N S-Bahn",
		),
		"BAHNHOF": join(
			"0000001     Bern$<1>BN$<3>",
			"0000002     Thun$<1>TH$<3>",
			"0000003     Ostermundigen$<1>",
		),
		"BFKOORD_LV95": join(
			"0000001 2600000.000 1200000.000    540",
			"0000002 2615000.000 1178000.000    560",
			"0000003 2603000.000 1200500.000    550",
		),
		"BFKOORD_WGS": join(
			"0000001 7.440000000 46.95000000    540",
			"0000002 7.630000000 46.76000000    560",
			"0000003 7.480000000 46.96000000    550",
		),
		"METABHF": join(
			"0000003 0000001 005",
			"*A Y",
			"0000001: 0000003",
		),
		"UMSTEIGB": join(
			"0000001 05 03",
			"9999999 04 02",
		),
		"BHFART_60": join(
			"0000001 B 3",
			"0000001 A ch:1:sloid:7000",
			"0000001 a 1A",
		),
		"FPLAN": join(
			"*Z 012345 000011",
			"*G IC 0000001 0000002",
			"*A VE 000001 0000001 0000002",
			"*A BH 0000001 0000002",
			"*I hi 0000001 0000002",
			"*L 0000001 0000001 0000002",
			"*R R000001 0000001 0000002",
			RouteRow(1, "", "0800"),
			RouteRow(2, "0830", ""),
			"*Z 012346 000011",
			"*G S 0000002 0000003",
			"*A VE 000001 0000002 0000003",
			RouteRow(2, "", "0840"),
			RouteRow(3, "0855", ""),
		),
		"GLEIS": join(
			GleisJourneyRow(1, 12345, "000011", 1, "0800", "000001"),
			GleisJourneyRow(2, 12345, "000011", 2, "", ""),
			GleisPlatformRow(1, 1, `G '1' A 'A'`),
			GleisPlatformRow(2, 2, `G '2'`),
		),
		"DURCHBI": join(
			"012345 000011 0000002 012346 000011 000001",
		),
		"UMSTEIGV": join(
			"9999999 000011 000011 02",
		),
		"UMSTEIGL": join(
			"0000002 000011 IC  0000001  1 000011 S   *        2 003",
		),
		"UMSTEIGZ": join(
			"0000002 012345 000011 012346 000011 003  000001",
		),
	}

	// GLEIS_LV95 and GLEIS_WGS repeat GLEIS's layout and append
	// coordinate/SLOID continuation rows after the section-2 offset.
	files["GLEIS_LV95"] = join(
		GleisJourneyRow(1, 12345, "000011", 1, "0800", "000001"),
		GleisJourneyRow(2, 12345, "000011", 2, "", ""),
		GleisCoordinateRow(1, 1, 2600010, 1200010),
		GleisCoordinateRow(2, 2, 2615010, 1178010),
		GleisSLOIDRow(1, 1, "ch:1:sloid:7000:1:1"),
	)
	files["GLEIS_WGS"] = join(
		GleisJourneyRow(1, 12345, "000011", 1, "0800", "000001"),
		GleisJourneyRow(2, 12345, "000011", 2, "", ""),
		GleisCoordinateRow(1, 1, 7, 46),
		GleisCoordinateRow(2, 2, 7, 46),
	)

	return files
}

func join(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// WriteCorpus writes files into a fresh temporary directory and
// returns its path.
func WriteCorpus(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// LoadTimetable ingests files (or the default Corpus when nil) and
// returns the resulting Timetable.
func LoadTimetable(t testing.TB, files map[string]string) *timetable.Timetable {
	t.Helper()

	if files == nil {
		files = Corpus()
	}
	tt, err := timetable.Load(WriteCorpus(t, files))
	require.NoError(t, err)
	return tt
}
