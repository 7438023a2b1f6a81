package parse

import (
	"regexp"
	"strings"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var stopConnectionPattern = regexp.MustCompile(`^[0-9]{7} [0-9]{7} [0-9]{3}`)

var metabhfConnectionFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: 15},
	{Start: 17, Stop: 19},
}

// ParseMetabhf reads METABHF's two sections: declared stop-to-stop
// walking connections (with optional trailing "*A" attribute lines),
// and each stop's list of nearby stops.
func ParseMetabhf(dir string, ds *storage.DataStore) error {
	const name = "METABHF"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	nextID := 0
	var current *model.StopConnection

	s := f.Scanner()
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		switch {
		case stopConnectionPattern.MatchString(line):
			stopID1, err := fixedwidth.ParseInt(name, lineNo, metabhfConnectionFields[0].Extract(line))
			if err != nil {
				return err
			}
			stopID2, err := fixedwidth.ParseInt(name, lineNo, metabhfConnectionFields[1].Extract(line))
			if err != nil {
				return err
			}
			duration, err := fixedwidth.ParseInt(name, lineNo, metabhfConnectionFields[2].Extract(line))
			if err != nil {
				return err
			}
			current = &model.StopConnection{ID: nextID, StopID1: stopID1, StopID2: stopID2, DurationMinutes: duration}
			nextID++
			ds.StopConnections.Put(current.ID, current)

		case strings.HasPrefix(line, "*A") && current != nil:
			attr := fixedwidth.FieldSpec{Start: 4, Stop: 5}.Extract(line)
			current.Attributes = append(current.Attributes, attr)

		case len(line) >= 8 && line[7] == ':':
			// Section 2: a stop's nearby stops, whitespace-separated.
			stopID, err := fixedwidth.ParseInt(name, lineNo, fixedwidth.FieldSpec{Start: 1, Stop: 7}.Extract(line))
			if err != nil {
				return err
			}
			stop, err := ds.Stops.Find(stopID)
			if err != nil {
				return err
			}
			for _, tok := range strings.Fields(line[8:]) {
				if id, err := fixedwidth.ParseInt(name, lineNo, tok); err == nil {
					stop.NearbyStopIDs = append(stop.NearbyStopIDs, id)
				}
			}
		}
	}
	return nil
}
