package parse

import (
	"strings"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var linieIDField = fixedwidth.FieldSpec{Start: 1, Stop: 7}
var linieKeyField = fixedwidth.FieldSpec{Start: 9, Stop: 9}
var linieValueField = fixedwidth.FieldSpec{Start: 11, Stop: -1}

// ParseLinie reads LINIE: one or more "<id> <key> <value>" rows per
// line (the target of a *L journey metadata record), K for the short
// display name and N T for the long name; other keys (color, etc.) are
// ignored.
func ParseLinie(dir string, ds *storage.DataStore) error {
	const name = "LINIE"
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

		id, err := fixedwidth.ParseInt(name, lineNo, linieIDField.Extract(line))
		if err != nil {
			return err
		}
		key := linieKeyField.Extract(line)
		value := strings.TrimSpace(linieValueField.Extract(line))

		l, err := ds.Lines.Find(id)
		if err != nil {
			l = &model.Line{ID: id, Names: map[string]string{}}
			ds.Lines.Put(id, l)
		}

		switch key {
		case "K":
			l.Names["short"] = value
		case "N":
			l.Names["long"] = strings.TrimPrefix(value, "T ")
		}
	}
	return nil
}
