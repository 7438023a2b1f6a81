package parse

import (
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var durchbiFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 6},
	{Start: 8, Stop: 13},
	{Start: 15, Stop: 21},
	{Start: 23, Stop: 28},
	{Start: 30, Stop: 35},
	{Start: 37, Stop: 42},
	{Start: 44, Stop: 50},
}

// ParseDurchbi reads DURCHBI: through-service records joining two
// journeys at a stop so a passenger may remain seated across the
// join.
func ParseDurchbi(dir string, ds *storage.DataStore, journeyLegacyID func(legacyID int, administration string) (int, bool)) error {
	const name = "DURCHBI"
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

		legacy1, err := fixedwidth.ParseInt(name, lineNo, durchbiFields[0].Extract(line))
		if err != nil {
			return err
		}
		admin1 := durchbiFields[1].Extract(line)
		stopID, err := fixedwidth.ParseInt(name, lineNo, durchbiFields[2].Extract(line))
		if err != nil {
			return err
		}
		legacy2, err := fixedwidth.ParseInt(name, lineNo, durchbiFields[3].Extract(line))
		if err != nil {
			return err
		}
		admin2 := durchbiFields[4].Extract(line)
		bitFieldID, err := fixedwidth.ParseInt(name, lineNo, durchbiFields[5].Extract(line))
		if err != nil {
			return err
		}

		journey1, ok := journeyLegacyID(legacy1, admin1)
		if !ok {
			continue
		}
		journey2, ok := journeyLegacyID(legacy2, admin2)
		if !ok {
			continue
		}

		ts := &model.ThroughService{Journey1ID: journey1, StopID: stopID, Journey2ID: journey2, BitFieldID: &bitFieldID}
		ds.ThroughServices = append(ds.ThroughServices, ts)
	}
	return nil
}
