package parse

import (
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

// BfkoordVersion selects between the legacy and newer BFKOORD column
// layouts: legacy reads x from columns 9-18 and y from 20-29, the newer
// version x from 9-19 and y from 21-31. Altitude is not read in either.
type BfkoordVersion int

const (
	BfkoordLegacy BfkoordVersion = iota
	BfkoordV2
)

func bfkoordFields(v BfkoordVersion) (id, x, y fixedwidth.FieldSpec) {
	if v == BfkoordV2 {
		return fixedwidth.FieldSpec{Start: 1, Stop: 7},
			fixedwidth.FieldSpec{Start: 9, Stop: 19},
			fixedwidth.FieldSpec{Start: 21, Stop: 31}
	}
	return fixedwidth.FieldSpec{Start: 1, Stop: 7},
		fixedwidth.FieldSpec{Start: 9, Stop: 18},
		fixedwidth.FieldSpec{Start: 20, Stop: 29}
}

// ParseBfkoordLV95 reads BFKOORD_LV95, filling in each Stop's LV95
// easting/northing.
func ParseBfkoordLV95(dir string, ds *storage.DataStore, v BfkoordVersion) error {
	return parseBfkoord(dir, "BFKOORD_LV95", ds, v, false)
}

// ParseBfkoordWGS reads BFKOORD_WGS, filling in each Stop's WGS84
// latitude/longitude. The two coordinate columns are swapped relative
// to LV95 for historical reasons (longitude first, then latitude) and
// must be re-swapped on ingest.
func ParseBfkoordWGS(dir string, ds *storage.DataStore, v BfkoordVersion) error {
	return parseBfkoord(dir, "BFKOORD_WGS", ds, v, true)
}

func parseBfkoord(dir, name string, ds *storage.DataStore, v BfkoordVersion, swapped bool) error {
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	idField, xField, yField := bfkoordFields(v)

	s := f.Scanner()
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		id, err := fixedwidth.ParseInt(name, lineNo, idField.Extract(line))
		if err != nil {
			return err
		}
		x, err := fixedwidth.ParseFloat(name, lineNo, xField.Extract(line))
		if err != nil {
			return err
		}
		y, err := fixedwidth.ParseFloat(name, lineNo, yField.Extract(line))
		if err != nil {
			return err
		}

		stop, err := ds.Stops.Find(id)
		if err != nil {
			return err
		}

		if swapped {
			// File stores (lon, lat); re-swap to (lat, lon).
			coords := model.NewWGS84Coordinates(y, x)
			stop.WGS84 = &coords
		} else {
			coords := model.NewLV95Coordinates(x, y)
			stop.LV95 = &coords
		}
	}
	return nil
}
