package parse

import (
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

const (
	bahnhofNameTagDisplay = 1
	bahnhofNameTagLong    = 2
	bahnhofNameTagAbbrev  = 3
	bahnhofNameTagSynonym = 4
)

var bahnhofFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 13, Stop: -1},
}

// ParseBahnhof reads BAHNHOF and registers a Stop per row (coordinates
// are filled in later by ParseBfkoord). Column 13 to end-of-line
// carries the name, with embedded "value$<k>" tagged designations
// (k=1 display name, 2 long name, 3 abbreviation, 4 synonym).
func ParseBahnhof(dir string, ds *storage.DataStore) error {
	const name = "BAHNHOF"
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

		id, err := fixedwidth.ParseInt(name, lineNo, bahnhofFields[0].Extract(line))
		if err != nil {
			return err
		}

		tagged := fixedwidth.ParseInlineValues(bahnhofFields[1].Extract(line))

		stop := &model.Stop{ID: id}
		if v := tagged[bahnhofNameTagDisplay]; len(v) > 0 {
			stop.Name = v[0]
		}
		if v := tagged[bahnhofNameTagLong]; len(v) > 0 {
			stop.LongName = v[0]
		}
		if v := tagged[bahnhofNameTagAbbrev]; len(v) > 0 {
			stop.Abbreviation = v[0]
		}
		stop.Synonyms = tagged[bahnhofNameTagSynonym]

		if existing, err := ds.Stops.Find(id); err == nil {
			*existing = *mergeStop(existing, stop)
			continue
		}
		ds.Stops.Put(id, stop)
	}
	return nil
}

func mergeStop(existing, update *model.Stop) *model.Stop {
	merged := *existing
	if update.Name != "" {
		merged.Name = update.Name
	}
	if update.LongName != "" {
		merged.LongName = update.LongName
	}
	if update.Abbreviation != "" {
		merged.Abbreviation = update.Abbreviation
	}
	if len(update.Synonyms) > 0 {
		merged.Synonyms = update.Synonyms
	}
	return &merged
}
