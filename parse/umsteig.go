package parse

import (
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var umsteigVFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: 14},
	{Start: 16, Stop: 21},
	{Start: 23, Stop: 24},
}

// ParseUmsteigV reads UMSTEIGV: exchange times between administrations.
func ParseUmsteigV(dir string, ds *storage.DataStore) error {
	const name = "UMSTEIGV"
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
		e := &model.ExchangeTimeAdministration{
			Administration1: umsteigVFields[1].Extract(line),
			Administration2: umsteigVFields[2].Extract(line),
		}
		if v, ok, _ := fixedwidth.OptionalInt(name, lineNo, umsteigVFields[0].Extract(line)); ok {
			e.StopID = &v
		}
		minutes, err := fixedwidth.ParseInt(name, lineNo, umsteigVFields[3].Extract(line))
		if err != nil {
			return err
		}
		e.Minutes = minutes
		ds.ExchangeTimesAdministration = append(ds.ExchangeTimesAdministration, e)
	}
	return nil
}

var umsteigLFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: 14},
	{Start: 16, Stop: 18},
	{Start: 20, Stop: 27},
	{Start: 29, Stop: 29},
	{Start: 31, Stop: 36},
	{Start: 38, Stop: 40},
	{Start: 42, Stop: 49},
	{Start: 51, Stop: 51},
	{Start: 53, Stop: 55},
}

// ParseUmsteigL reads UMSTEIGL: exchange times between lines, with "*"
// wildcards for administration/transport-type/line/direction.
func ParseUmsteigL(dir string, ds *storage.DataStore) error {
	const name = "UMSTEIGL"
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

		e := &model.ExchangeTimeLine{
			Administration1: wildcard(umsteigLFields[1].Extract(line)),
			TransportType1:  wildcard(umsteigLFields[2].Extract(line)),
			Line1:           wildcard(umsteigLFields[3].Extract(line)),
			Administration2: wildcard(umsteigLFields[5].Extract(line)),
			TransportType2:  wildcard(umsteigLFields[6].Extract(line)),
			Line2:           wildcard(umsteigLFields[7].Extract(line)),
		}
		if v, ok, _ := fixedwidth.OptionalInt(name, lineNo, umsteigLFields[0].Extract(line)); ok {
			e.StopID = &v
		}
		e.Direction1 = directionFromCode(umsteigLFields[4].Extract(line))
		e.Direction2 = directionFromCode(umsteigLFields[8].Extract(line))
		minutes, err := fixedwidth.ParseInt(name, lineNo, umsteigLFields[9].Extract(line))
		if err != nil {
			return err
		}
		e.Minutes = minutes
		ds.ExchangeTimesLine = append(ds.ExchangeTimesLine, e)
	}
	return nil
}

func wildcard(v string) string {
	if v == "*" {
		return ""
	}
	return v
}

func directionFromCode(v string) model.ExchangeDirection {
	switch v {
	case "1":
		return model.ExchangeIncoming
	case "2":
		return model.ExchangeOutgoing
	default:
		return model.ExchangeAny
	}
}

var umsteigZFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: 14},
	{Start: 16, Stop: 21},
	{Start: 23, Stop: 28},
	{Start: 30, Stop: 35},
	{Start: 37, Stop: 39},
	{Start: 42, Stop: 47},
}

// ParseUmsteigZ reads UMSTEIGZ: exchange times between two specific
// journeys, optionally bit-field constrained.
func ParseUmsteigZ(dir string, ds *storage.DataStore, journeyLegacyID func(legacyID int, administration string) (int, bool)) error {
	const name = "UMSTEIGZ"
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

		stopID, err := fixedwidth.ParseInt(name, lineNo, umsteigZFields[0].Extract(line))
		if err != nil {
			return err
		}
		legacy1, err := fixedwidth.ParseInt(name, lineNo, umsteigZFields[1].Extract(line))
		if err != nil {
			return err
		}
		admin1 := umsteigZFields[2].Extract(line)
		legacy2, err := fixedwidth.ParseInt(name, lineNo, umsteigZFields[3].Extract(line))
		if err != nil {
			return err
		}
		admin2 := umsteigZFields[4].Extract(line)
		minutes, err := fixedwidth.ParseInt(name, lineNo, umsteigZFields[5].Extract(line))
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

		e := &model.ExchangeTimeJourney{StopID: &stopID, Journey1ID: journey1, Journey2ID: journey2, Minutes: minutes}
		if v, ok, _ := fixedwidth.OptionalInt(name, lineNo, umsteigZFields[6].Extract(line)); ok {
			e.BitFieldID = &v
		}
		ds.ExchangeTimesJourney = append(ds.ExchangeTimesJourney, e)
	}
	return nil
}
