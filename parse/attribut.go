package parse

import (
	"regexp"
	"strings"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var (
	attributRowA = fixedwidth.RowDefinition{
		Name:    "definition",
		Matcher: fixedwidth.RowMatcher{Kind: fixedwidth.MatchRegex, Regex: regexp.MustCompile(`^.{2} [0-9] [0-9 ]{3} [0-9 ]{2}$`)},
		Fields: []fixedwidth.FieldSpec{
			{Start: 1, Stop: 2},
			{Start: 4, Stop: 4},
			{Start: 6, Stop: 8},
			{Start: 10, Stop: 11},
		},
	}
	attributRowComment = fixedwidth.RowDefinition{
		Name:    "comment",
		Matcher: fixedwidth.RowMatcher{Kind: fixedwidth.MatchPrefix, Col: 1, Literal: "#"},
	}
	attributRowLanguage = fixedwidth.RowDefinition{
		Name:    "language",
		Matcher: fixedwidth.RowMatcher{Kind: fixedwidth.MatchPrefix, Col: 1, Literal: "<"},
		Fields:  []fixedwidth.FieldSpec{{Start: 1, Stop: -1}},
	}
	attributRowDescription = fixedwidth.RowDefinition{
		Name:    "description",
		Matcher: fixedwidth.RowMatcher{Kind: fixedwidth.MatchRegex, Regex: regexp.MustCompile(`^.{2} .+$`)},
		Fields: []fixedwidth.FieldSpec{
			{Start: 1, Stop: 2},
			{Start: 4, Stop: -1},
		},
	}
	attributRows = []fixedwidth.RowDefinition{attributRowA, attributRowComment, attributRowLanguage, attributRowDescription}
)

// ParseAttribut reads ATTRIBUT: journey/stop qualifiers keyed by a
// short code, their sorting priorities, and a per-language
// description block introduced by a "<lang>" marker row. Dispatches
// on row shape via fixedwidth.Match, the one file family genuinely
// needing the matcher framework's multi-kind dispatch rather than a
// single fixed layout.
func ParseAttribut(dir string, ds *storage.DataStore) error {
	const name = "ATTRIBUT"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	byCode := map[string]*model.Attribute{}
	nextID := 0
	currentLang := "de"

	s := f.Scanner()
	for {
		line, lineNo, ok := s.Next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		def, ok := fixedwidth.Match(attributRows, line)
		if !ok {
			continue
		}

		switch def.Name {
		case "definition":
			code := def.Fields[0].Extract(line)
			stopScope, err := fixedwidth.ParseInt(name, lineNo, def.Fields[1].Extract(line))
			if err != nil {
				return err
			}
			main, err := fixedwidth.ParseInt(name, lineNo, def.Fields[2].Extract(line))
			if err != nil {
				return err
			}
			secondary, err := fixedwidth.ParseInt(name, lineNo, def.Fields[3].Extract(line))
			if err != nil {
				return err
			}
			attr := &model.Attribute{
				ID:                    nextID,
				Code:                  code,
				StopScope:             stopScope,
				MainSortPriority:      main,
				SecondarySortPriority: secondary,
				Names:                 map[string]string{},
			}
			nextID++
			byCode[code] = attr
			ds.Attributes.Put(attr.ID, attr)

		case "language":
			lang := strings.Trim(def.Fields[0].Extract(line), "<>")
			if lang != "text" {
				currentLang = lang
			}

		case "description":
			code := def.Fields[0].Extract(line)
			description := def.Fields[1].Extract(line)
			if attr, ok := byCode[code]; ok {
				attr.Names[currentLang] = description
			}
		}
	}
	return nil
}
