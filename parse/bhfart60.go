package parse

import (
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var (
	bhfart60StopField  = fixedwidth.FieldSpec{Start: 1, Stop: 7}
	bhfart60KindField  = fixedwidth.FieldSpec{Start: 9, Stop: 9}
	bhfart60ValueField = fixedwidth.FieldSpec{Start: 11, Stop: -1}
)

// ParseBhfart60 reads BHFART_60, three row kinds per stop: "B" carries
// a restriction code, "A" a SLOID, and "a" a boarding area. Rows for
// stops the corpus doesn't declare are skipped rather than fatal --
// the file routinely describes more locations than BAHNHOF does.
func ParseBhfart60(dir string, ds *storage.DataStore) error {
	const name = "BHFART_60"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	s := f.Scanner()
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if line == "" || line[0] == '%' {
			continue
		}

		stopID, err := fixedwidth.ParseInt(name, lineNo, bhfart60StopField.Extract(line))
		if err != nil {
			return err
		}
		value := bhfart60ValueField.Extract(line)
		if value == "" {
			continue
		}

		stop, err := ds.Stops.Find(stopID)
		if err != nil {
			continue
		}

		switch bhfart60KindField.Extract(line) {
		case "B":
			stop.RestrictionCode = value
		case "A":
			stop.SLOIDs = append(stop.SLOIDs, value)
		case "a":
			stop.BoardingAreas = append(stop.BoardingAreas, value)
		}
	}
	return nil
}
