package parse

import (
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var zugartFields = []fixedwidth.FieldSpec{
	{Start: 1, Stop: 3},
	{Start: 5, Stop: 5},
	{Start: 7, Stop: 8},
	{Start: 10, Stop: 11},
	{Start: 13, Stop: 14},
	{Start: 16, Stop: 16},
	{Start: 18, Stop: -1},
}

// ParseZugart reads ZUGART: the transport-type catalog (product class,
// tariff group, surcharge) a journey's *G metadata record points at,
// and which the exchange-time resolution consults to split a stop's intercity-vs-other
// interchange time.
func ParseZugart(dir string, ds *storage.DataStore) error {
	const name = "ZUGART"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return err
	}

	// TransportType is keyed internally by a sequential int (Store
	// requires one) even though ZUGART itself keys rows by a short
	// string code; codeToKey tracks that mapping for this parse.
	codeToKey := map[string]int{}
	for _, tt := range ds.TransportTypes.Values() {
		codeToKey[tt.ID] = len(codeToKey)
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

		id := zugartFields[0].Extract(line)
		productClass, _, _ := fixedwidth.OptionalInt(name, lineNo, zugartFields[1].Extract(line))
		tariffGroup := zugartFields[2].Extract(line)
		outputControl := zugartFields[3].Extract(line)
		surcharge, _, _ := fixedwidth.OptionalInt(name, lineNo, zugartFields[4].Extract(line))
		flag := zugartFields[5].Extract(line)
		longName := zugartFields[6].Extract(line)

		tt := &model.TransportType{
			ID:                id,
			ProductClass:      productClass,
			TariffGroup:       tariffGroup,
			OutputControl:     outputControl,
			ShortName:         id,
			Surcharge:         surcharge,
			Flag:              flag,
			ProductClassNames: map[string]string{},
			LongNames:         map[string]string{"de": longName},
		}

		key, ok := codeToKey[id]
		if !ok {
			key = len(codeToKey)
			codeToKey[id] = key
		}
		ds.TransportTypes.Put(key, tt)
	}
	return nil
}
