package parse

import (
	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var bitfeldFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 6},
	{Start: 8, Stop: 103},
}

// ParseBitfeld reads BITFELD, expanding each hex run into a day-offset
// bit vector via calendar.ParseHexBits.
func ParseBitfeld(dir string, ds *storage.DataStore) error {
	const name = "BITFELD"
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
		if line == "" {
			continue
		}

		id, err := fixedwidth.ParseInt(name, lineNo, bitfeldFields[0].Extract(line))
		if err != nil {
			return err
		}
		hex := bitfeldFields[1].Extract(line)
		bits, err := calendar.ParseHexBits(hex)
		if err != nil {
			return &fixedwidth.Error{File: name, Line: lineNo, Kind: fixedwidth.BadField, Err: err}
		}
		ds.BitFields.Put(id, &model.BitField{ID: id, Bits: bits})
	}
	return nil
}
