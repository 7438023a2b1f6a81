package parse

import (
	"os"

	"github.com/pkg/errors"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var infotextFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 7},
	{Start: 9, Stop: -1},
}

// languageFiles maps the language code used in translation maps to the
// file suffix the per-language catalogues (INFOTEXT_*, BETRIEB_*) use.
var languageFiles = []struct {
	lang   string
	suffix string
}{
	{"de", "DE"},
	{"en", "EN"},
	{"fr", "FR"},
	{"it", "IT"},
}

// ParseInfotext reads INFOTEXT_DE/EN/FR/IT: free-form journey remarks
// (the target of a *I journey metadata record), one line per id. The
// German file is required; the other languages are optional since not
// every export ships all four.
func ParseInfotext(dir string, ds *storage.DataStore) error {
	for _, lf := range languageFiles {
		name := "INFOTEXT_" + lf.suffix
		f, err := fixedwidth.Open(dir + "/" + name)
		if err != nil {
			if lf.lang != "de" && errors.Is(err, os.ErrNotExist) {
				continue
			}
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

			id, err := fixedwidth.ParseInt(name, lineNo, infotextFields[0].Extract(line))
			if err != nil {
				return err
			}
			text := infotextFields[1].Extract(line)

			info, err := ds.InformationTexts.Find(id)
			if err != nil {
				info = &model.InformationText{ID: id, Names: map[string]string{}}
				ds.InformationTexts.Put(id, info)
			}
			info.Names[lf.lang] = text
		}
	}
	return nil
}
