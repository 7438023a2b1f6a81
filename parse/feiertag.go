package parse

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var feiertagFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 10},
	{Start: 12, Stop: -1},
}

// ParseFeiertag reads FEIERTAG: a date plus "name<lang>$" tagged
// translations.
func ParseFeiertag(dir string, ds *storage.DataStore) error {
	const name = "FEIERTAG"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	nextID := 0
	s := f.Scanner()
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		date, err := time.Parse("02.01.2006", strings.TrimSpace(feiertagFields[0].Extract(line)))
		if err != nil {
			return &fixedwidth.Error{File: name, Line: lineNo, Kind: fixedwidth.BadField, Err: errors.Wrap(err, "parsing date")}
		}

		names := parseLanguageTaggedNames(feiertagFields[1].Extract(line))
		h := &model.Holiday{Localised: model.Localised{ID: nextID, Names: names}, Date: date}
		ds.Holidays.Put(nextID, h)
		nextID++
	}
	return nil
}

// parseLanguageTaggedNames parses a "value<lang>$..." run (value then
// its language tag) into a language -> name map, the mirror image of
// ParseInlineValues's numeric tags.
func parseLanguageTaggedNames(raw string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(raw, ">") {
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "$", "")
		segments := strings.SplitN(part, "<", 2)
		if len(segments) != 2 {
			continue
		}
		out[segments[1]] = segments[0]
	}
	return out
}
