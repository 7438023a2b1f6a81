package parse

import (
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var umsteigBFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: 10},
	{Start: 12, Stop: 13},
}

// ParseUmsteigB reads UMSTEIGB: each stop's own interchange time as an
// (intercity minutes, other minutes) pair. Stop id 9999999 carries the
// process-wide default and is materialized as a pseudo stop so the
// exchange-time resolution can look it up like any other.
func ParseUmsteigB(dir string, ds *storage.DataStore) error {
	const name = "UMSTEIGB"
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

		stopID, err := fixedwidth.ParseInt(name, lineNo, umsteigBFields[0].Extract(line))
		if err != nil {
			return err
		}
		interCity, err := fixedwidth.ParseInt(name, lineNo, umsteigBFields[1].Extract(line))
		if err != nil {
			return err
		}
		other, err := fixedwidth.ParseInt(name, lineNo, umsteigBFields[2].Extract(line))
		if err != nil {
			return err
		}

		stop, err := ds.Stops.Find(stopID)
		if err != nil {
			if stopID != model.DefaultStopID {
				continue
			}
			stop = &model.Stop{ID: stopID, Name: "default"}
			ds.Stops.Put(stopID, stop)
		}
		stop.InterchangeTime = model.InterchangeTime{InterCity: interCity, Other: other}
	}
	return nil
}
