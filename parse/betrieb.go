package parse

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var (
	betriebCodeField  = fixedwidth.FieldSpec{Start: 1, Stop: 6}
	betriebKindField  = fixedwidth.FieldSpec{Start: 8, Stop: 8}
	betriebValueField = fixedwidth.FieldSpec{Start: 10, Stop: -1}
)

// ParseBetrieb reads BETRIEB_DE/EN/FR/IT: the transport-company
// catalog, keyed by the same administration code FPLAN's *Z records
// carry, with K for the short name and L for the long name per
// language. The German file is required, the others optional.
func ParseBetrieb(dir string, ds *storage.DataStore) error {
	for _, lf := range languageFiles {
		name := "BETRIEB_" + lf.suffix
		f, err := fixedwidth.Open(dir + "/" + name)
		if err != nil {
			if lf.lang != "de" && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		s := f.Scanner()
		for {
			line, _, ok := s.Next()
			if !ok {
				break
			}
			if line == "" {
				continue
			}

			code := strings.TrimSpace(betriebCodeField.Extract(line))
			id := resourceCodeToID(code)
			kind := betriebKindField.Extract(line)
			value := strings.TrimSpace(betriebValueField.Extract(line))

			tc, err := ds.TransportCompanies.Find(id)
			if err != nil {
				tc = &model.TransportCompany{ID: id, Names: map[string]string{"code": code}}
				ds.TransportCompanies.Put(id, tc)
			}

			switch kind {
			case "K":
				tc.Names["short/"+lf.lang] = strings.Trim(value, `"`)
			case "L":
				tc.Names["long/"+lf.lang] = strings.Trim(value, `"`)
			}
		}
	}
	return nil
}
