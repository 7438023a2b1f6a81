package parse

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

// journeyPlatformRow is the intermediate shape of a GLEIS section-1
// row: it names its journey by the (legacy id, administration) pair
// and its platform by (stop id, platform index), neither of which is
// a final numeric id yet (the final journey id is only known once
// ParseFplan has assigned one, and the final platform id only once
// ParsePlatforms has auto-incremented one below).
type journeyPlatformRow struct {
	stopID          int
	legacyJourneyID int
	administration  string
	platformIndex   int
	time            *model.ServiceTime
	bitFieldID      *int
}

var gleisRowA = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: 14},
	{Start: 16, Stop: 21},
	{Start: 24, Stop: 30}, // columns 23-30 nominally, but column 23 is the '#' marker itself
	{Start: 32, Stop: 35},
	{Start: 37, Stop: 42},
}

var gleisRowB = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 10, Stop: 16}, // columns 9-16 nominally, but column 9 is the '#' marker itself
	{Start: 18, Stop: -1},
}

// platformKey identifies a platform by its legacy (stop id, index)
// pair, the only identity GLEIS's section 2 carries before this
// package assigns a final numeric Platform id.
type platformKey struct {
	stopID int
	index  int
}

// ParsePlatforms reads GLEIS then GLEIS_LV95/GLEIS_WGS, producing the
// Platform and JourneyPlatform stores. journeyLegacyID resolves a
// (legacy id, administration) pair to the final Journey id assigned by
// ParseFplan.
func ParsePlatforms(dir string, ds *storage.DataStore, journeyLegacyID func(legacyID int, administration string) (int, bool)) error {
	const name = "GLEIS"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	platformIDs := map[platformKey]int{}
	nextPlatformID := 0

	var rowsA []journeyPlatformRow
	var sectionTwoOffset int

	s := f.Scanner()
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		if len(line) < 9 || line[8] != '#' {
			// Section 1: journey-to-platform binding.
			stopID, err := fixedwidth.ParseInt(name, lineNo, gleisRowA[0].Extract(line))
			if err != nil {
				return err
			}
			legacyID, err := fixedwidth.ParseInt(name, lineNo, gleisRowA[1].Extract(line))
			if err != nil {
				return err
			}
			admin := gleisRowA[2].Extract(line)
			index, err := fixedwidth.ParseInt(name, lineNo, gleisRowA[3].Extract(line))
			if err != nil {
				return err
			}
			row := journeyPlatformRow{stopID: stopID, legacyJourneyID: legacyID, administration: admin, platformIndex: index}
			if v, ok, _ := fixedwidth.OptionalInt(name, lineNo, gleisRowA[4].Extract(line)); ok {
				t := model.NewServiceTimeHHMM(v)
				row.time = &t
			}
			if v, ok, _ := fixedwidth.OptionalInt(name, lineNo, gleisRowA[5].Extract(line)); ok {
				row.bitFieldID = &v
			}
			rowsA = append(rowsA, row)
			sectionTwoOffset = s.Offset()
			continue
		}

		// Section 2: platform descriptor.
		stopID, err := fixedwidth.ParseInt(name, lineNo, gleisRowB[0].Extract(line))
		if err != nil {
			return err
		}
		index, err := fixedwidth.ParseInt(name, lineNo, gleisRowB[1].Extract(line))
		if err != nil {
			return err
		}
		code, sector, err := parsePlatformDescriptor(name, lineNo, gleisRowB[2].Extract(line))
		if err != nil {
			return err
		}

		id := nextPlatformID
		nextPlatformID++
		key := platformKey{stopID: stopID, index: index}
		platformIDs[key] = id
		ds.Platforms.Put(id, &model.Platform{ID: id, StopID: stopID, Code: code, Sector: sector})
	}

	nextJourneyPlatformID := 0
	for _, row := range rowsA {
		journeyID, ok := journeyLegacyID(row.legacyJourneyID, row.administration)
		if !ok {
			continue
		}
		platformID, ok := platformIDs[platformKey{stopID: row.stopID, index: row.platformIndex}]
		if !ok {
			continue
		}
		jp := &model.JourneyPlatform{JourneyID: journeyID, PlatformID: platformID, Time: row.time, BitFieldID: row.bitFieldID}
		ds.JourneyPlatforms.Put(nextJourneyPlatformID, jp)
		nextJourneyPlatformID++
	}

	if err := parsePlatformCoordinates(dir, "GLEIS_LV95", sectionTwoOffset, platformIDs, ds, true); err != nil {
		return err
	}
	if err := parsePlatformCoordinates(dir, "GLEIS_WGS", sectionTwoOffset, platformIDs, ds, false); err != nil {
		return err
	}
	return nil
}

func parsePlatformDescriptor(file string, lineNo int, raw string) (code, sector string, err error) {
	raw = strings.TrimSpace(raw) + " "
	for _, part := range strings.Split(raw, "' ") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, " '", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "G":
			code = kv[1]
		case "A":
			sector = kv[1]
		}
	}
	if code == "" {
		return "", "", &fixedwidth.Error{File: file, Line: lineNo, Kind: fixedwidth.BadField, Err: errors.New(`platform descriptor missing "G" entry`)}
	}
	return code, sector, nil
}

// parsePlatformCoordinates re-reads GLEIS_LV95/GLEIS_WGS starting at
// the byte (here, line) offset where GLEIS's section 2 began: rows
// with 'K' at column 18 carry coordinates, 'I A' at column 18 carries
// the SLOID (only meaningful once, when reading the LV95 pass).
func parsePlatformCoordinates(dir, name string, offset int, platformIDs map[platformKey]int, ds *storage.DataStore, isLV95 bool) error {
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	s := f.Scanner()
	s.SeekLine(offset)
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if len(line) < 18 {
			continue
		}

		marker := line[17]
		switch {
		case marker == 'K':
			stopID, err := fixedwidth.ParseInt(name, lineNo, fixedwidth.FieldSpec{Start: 1, Stop: 7}.Extract(line))
			if err != nil {
				return err
			}
			index, err := fixedwidth.ParseInt(name, lineNo, fixedwidth.FieldSpec{Start: 10, Stop: 16}.Extract(line))
			if err != nil {
				return err
			}
			x, err := fixedwidth.ParseFloat(name, lineNo, fixedwidth.FieldSpec{Start: 20, Stop: 26}.Extract(line))
			if err != nil {
				return err
			}
			y, err := fixedwidth.ParseFloat(name, lineNo, fixedwidth.FieldSpec{Start: 28, Stop: 34}.Extract(line))
			if err != nil {
				return err
			}
			id, ok := platformIDs[platformKey{stopID, index}]
			if !ok {
				continue
			}
			platform, err := ds.Platforms.Find(id)
			if err != nil {
				return err
			}
			if isLV95 {
				c := model.NewLV95Coordinates(x, y)
				platform.LV95 = &c
			} else {
				c := model.NewWGS84Coordinates(y, x) // stored reversed for WGS84
				platform.WGS84 = &c
			}

		case len(line) >= 20 && line[17:20] == "I A":
			if !isLV95 {
				continue // SLOID only carried in the LV95 pass
			}
			stopID, err := fixedwidth.ParseInt(name, lineNo, fixedwidth.FieldSpec{Start: 1, Stop: 7}.Extract(line))
			if err != nil {
				return err
			}
			index, err := fixedwidth.ParseInt(name, lineNo, fixedwidth.FieldSpec{Start: 10, Stop: 16}.Extract(line))
			if err != nil {
				return err
			}
			sloid := fixedwidth.FieldSpec{Start: 22, Stop: -1}.Extract(line)
			id, ok := platformIDs[platformKey{stopID, index}]
			if !ok {
				continue
			}
			platform, err := ds.Platforms.Find(id)
			if err != nil {
				return err
			}
			platform.SLOID = sloid
		}
	}
	return nil
}
