package parse

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var fplanRouteFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 30, Stop: 35},
	{Start: 37, Stop: 42},
}

// ParseFplan reads FPLAN, the multi-row journey records: a leading
// "*Z" header, zero or more "*G"/"*A"/"*I"/"*L"/"*R"/"*CI"/"*CO"
// metadata lines each scoped to a stop-id range, and plain rows that
// are route entries (stop id, arrival, departure).
func ParseFplan(dir string, ds *storage.DataStore, nextJourneyID func() int) error {
	const name = "FPLAN"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	var current *model.Journey

	flush := func() error {
		if current == nil {
			return nil
		}
		if len(current.Route) < 2 {
			// Invariant violation: a journey route must have at least
			// 2 entries. Logged and dropped rather than aborting
			// ingestion.
			log.Printf("%v", &errs.InternalError{
				Context: name,
				Detail:  fmt.Sprintf("journey %d/%s has %d route entries, dropped", current.LegacyID, current.Administration, len(current.Route)),
			})
			current = nil
			return nil
		}
		ds.Journeys.Put(current.ID, current)
		current = nil
		return nil
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

		switch {
		case strings.HasPrefix(line, "*Z"):
			if err := flush(); err != nil {
				return err
			}
			legacyID, _ := fixedwidth.ParseInt(name, lineNo, fixedwidth.FieldSpec{Start: 4, Stop: 9}.Extract(line))
			admin := strings.TrimSpace(fixedwidth.FieldSpec{Start: 11, Stop: 16}.Extract(line))
			current = &model.Journey{ID: nextJourneyID(), LegacyID: legacyID, Administration: admin}

		case strings.HasPrefix(line, "*G"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[2:])
			if len(fields) == 0 {
				continue
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaTransportType, ResourceID: &fields[0]}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*A VE"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[5:])
			if len(fields) == 0 {
				continue
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				return &fixedwidth.Error{File: name, Line: lineNo, Kind: fixedwidth.BadField, Err: errors.Wrap(err, "parsing *A VE bit field id")}
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaBitField, BitFieldID: &id}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*A"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[2:])
			if len(fields) == 0 {
				continue
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaAttribute, ResourceID: &fields[0]}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*I"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[2:])
			if len(fields) == 0 {
				continue
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaInformationText, ResourceID: &fields[0]}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*L"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[2:])
			if len(fields) == 0 {
				continue
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaLine, ResourceID: &fields[0]}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*R"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[2:])
			if len(fields) == 0 {
				continue
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaDirection, ResourceID: &fields[0]}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*CI"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[3:])
			if len(fields) == 0 {
				continue
			}
			minutes, err := strconv.Atoi(fields[0])
			if err != nil {
				return &fixedwidth.Error{File: name, Line: lineNo, Kind: fixedwidth.BadField, Err: errors.Wrap(err, "parsing *CI minutes")}
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaTransferTimeBoarding, ExtraInt: &minutes}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*CO"):
			if current == nil {
				continue
			}
			fields := strings.Fields(line[3:])
			if len(fields) == 0 {
				continue
			}
			minutes, err := strconv.Atoi(fields[0])
			if err != nil {
				return &fixedwidth.Error{File: name, Line: lineNo, Kind: fixedwidth.BadField, Err: errors.Wrap(err, "parsing *CO minutes")}
			}
			entry := model.JourneyMetadataEntry{Type: model.MetaTransferTimeDisembarking, ExtraInt: &minutes}
			setRange(&entry, fields, 1)
			current.Metadata = append(current.Metadata, entry)

		case strings.HasPrefix(line, "*"):
			// Unrecognized metadata kind; ignore rather than fail the
			// whole ingest, matching the relaxed-prefix-dispatch
			// framework described for this file family.
			continue

		default:
			if current == nil {
				continue
			}
			stopID, err := fixedwidth.ParseInt(name, lineNo, fplanRouteFields[0].Extract(line))
			if err != nil {
				return err
			}
			arrivalRaw := fplanRouteFields[1].Extract(line)
			departureRaw := fplanRouteFields[2].Extract(line)

			entry := model.JourneyRouteEntry{StopID: stopID}
			if arrivalRaw != "" {
				v, err := fixedwidth.ParseInt(name, lineNo, arrivalRaw)
				if err != nil {
					return err
				}
				t := model.NewServiceTimeHHMM(v)
				entry.Arrival = &t
			}
			if departureRaw != "" {
				v, err := fixedwidth.ParseInt(name, lineNo, departureRaw)
				if err != nil {
					return err
				}
				t := model.NewServiceTimeHHMM(v)
				entry.Departure = &t
			}
			current.Route = append(current.Route, entry)
		}
	}
	return flush()
}

// setRange parses an optional (from_stop, until_stop) pair out of
// fields[idx:idx+2] into entry, leaving both nil ("from start"/"to
// end") when absent or non-numeric.
func setRange(entry *model.JourneyMetadataEntry, fields []string, idx int) {
	if len(fields) > idx {
		if v, err := strconv.Atoi(fields[idx]); err == nil {
			entry.FromStopID = &v
		}
	}
	if len(fields) > idx+1 {
		if v, err := strconv.Atoi(fields[idx+1]); err == nil {
			entry.UntilStopID = &v
		}
	}
}
