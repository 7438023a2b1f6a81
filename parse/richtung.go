package parse

import (
	"strings"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var richtungFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: -1},
}

// ParseRichtung reads RICHTUNG: a direction code (the value a *R
// journey metadata record points at) plus its display text.
func ParseRichtung(dir string, ds *storage.DataStore) error {
	const name = "RICHTUNG"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	s := f.Scanner()
	for {
		line, _, ok := s.Next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		id := resourceCodeToID(richtungFields[0].Extract(line))
		text := strings.TrimSpace(richtungFields[1].Extract(line))

		direction, err := ds.Directions.Find(id)
		if err != nil {
			direction = &model.Direction{ID: id, Names: map[string]string{}}
			ds.Directions.Put(id, direction)
		}
		direction.Names["de"] = text
	}
	return nil
}

// resourceCodeToID extracts the trailing run of digits from an HRDF
// resource code (e.g. "R000001" -> 1, "000042" -> 42), the common
// convention across RICHTUNG/LINIE/INFOTEXT ids, falling back to 0 for
// a code with no digits at all.
func resourceCodeToID(code string) int {
	code = strings.TrimSpace(code)
	start := len(code)
	for start > 0 && code[start-1] >= '0' && code[start-1] <= '9' {
		start--
	}
	digits := code[start:]
	if digits == "" {
		return 0
	}
	v := 0
	for _, c := range digits {
		v = v*10 + int(c-'0')
	}
	return v
}
