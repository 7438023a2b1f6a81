package timetable

import (
	"errors"
	"os"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/parse"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

// Load reads a full HRDF directory into a ready-to-query Timetable:
// time-relevant data first, then master data, then stop data, then
// timetable data, then transfer times. Every parse error is fatal here
// -- ingestion either succeeds completely or Load returns an
// errs.IngestError and the caller should not proceed.
func Load(dir string) (*Timetable, error) {
	metadata, err := parse.ParseEckdaten(dir)
	if err != nil {
		return nil, ingestError("ECKDATEN", err)
	}

	ds := storage.New()
	ds.Metadata = metadata

	// Time-relevant data.
	if err := parse.ParseBitfeld(dir, ds); err != nil {
		return nil, ingestError("BITFELD", err)
	}
	if err := parse.ParseFeiertag(dir, ds); err != nil {
		return nil, ingestError("FEIERTAG", err)
	}

	// Master data.
	if err := parse.ParseAttribut(dir, ds); err != nil {
		return nil, ingestError("ATTRIBUT", err)
	}
	if err := parse.ParseRichtung(dir, ds); err != nil {
		return nil, ingestError("RICHTUNG", err)
	}
	if err := parse.ParseLinie(dir, ds); err != nil {
		return nil, ingestError("LINIE", err)
	}
	if err := parse.ParseInfotext(dir, ds); err != nil {
		return nil, ingestError("INFOTEXT", err)
	}
	if err := parse.ParseBetrieb(dir, ds); err != nil {
		return nil, ingestError("BETRIEB", err)
	}
	if err := parse.ParseZugart(dir, ds); err != nil {
		return nil, ingestError("ZUGART", err)
	}

	// Stop data.
	if err := parse.ParseBahnhof(dir, ds); err != nil {
		return nil, ingestError("BAHNHOF", err)
	}
	if err := parse.ParseBfkoordLV95(dir, ds, parse.BfkoordV2); err != nil {
		return nil, ingestError("BFKOORD_LV95", err)
	}
	if err := parse.ParseBfkoordWGS(dir, ds, parse.BfkoordV2); err != nil {
		return nil, ingestError("BFKOORD_WGS", err)
	}
	if err := parse.ParseMetabhf(dir, ds); err != nil {
		return nil, ingestError("METABHF", err)
	}
	if err := parse.ParseUmsteigB(dir, ds); err != nil {
		return nil, ingestError("UMSTEIGB", err)
	}
	if err := parse.ParseBhfart60(dir, ds); err != nil {
		return nil, ingestError("BHFART_60", err)
	}

	// Timetable data. FPLAN assigns the final numeric journey ids;
	// everything downstream names a journey by its (legacy id,
	// administration) pair and resolves it through journeyLegacyID.
	nextJourneyID := 0
	if err := parse.ParseFplan(dir, ds, func() int {
		id := nextJourneyID
		nextJourneyID++
		return id
	}); err != nil {
		return nil, ingestError("FPLAN", err)
	}

	legacyIndex := make(map[legacyJourneyKey]int, ds.Journeys.Len())
	for _, j := range ds.Journeys.Values() {
		legacyIndex[legacyJourneyKey{legacyID: j.LegacyID, administration: j.Administration}] = j.ID
	}
	journeyLegacyID := func(legacyID int, administration string) (int, bool) {
		id, ok := legacyIndex[legacyJourneyKey{legacyID: legacyID, administration: administration}]
		return id, ok
	}

	if err := parse.ParsePlatforms(dir, ds, journeyLegacyID); err != nil {
		return nil, ingestError("GLEIS", err)
	}
	if err := parse.ParseDurchbi(dir, ds, journeyLegacyID); err != nil {
		return nil, ingestError("DURCHBI", err)
	}

	// Transfer times.
	if err := parse.ParseUmsteigV(dir, ds); err != nil {
		return nil, ingestError("UMSTEIGV", err)
	}
	if err := parse.ParseUmsteigL(dir, ds); err != nil {
		return nil, ingestError("UMSTEIGL", err)
	}
	if err := parse.ParseUmsteigZ(dir, ds, journeyLegacyID); err != nil {
		return nil, ingestError("UMSTEIGZ", err)
	}

	if err := ds.BuildIndices(); err != nil {
		return nil, &errs.IngestError{File: "BITFELD", Kind: errs.UnknownReference, Err: err}
	}
	if err := ds.Validate(); err != nil {
		return nil, &errs.IngestError{File: dir, Kind: errs.UnknownReference, Err: err}
	}
	ds.Calendar = calendar.NewEngine(ds.Metadata, ds.Holidays.Values())

	return &Timetable{ds: ds}, nil
}

// ingestError classifies a parser failure into the ingest taxonomy: a
// missing file, a row no matcher recognized, a truncated row, or a
// field that failed conversion.
func ingestError(file string, err error) error {
	kind := errs.BadField
	var ferr *fixedwidth.Error
	switch {
	case errors.Is(err, os.ErrNotExist):
		kind = errs.FileMissing
	case errors.As(err, &ferr):
		switch ferr.Kind {
		case fixedwidth.UnknownRowKind:
			kind = errs.UnknownRowKind
		case fixedwidth.Truncated, fixedwidth.BadField:
			kind = errs.BadField
		}
	}
	return &errs.IngestError{File: file, Kind: kind, Err: err}
}

// legacyJourneyKey is how every file family past FPLAN names a journey
// before ingestion completes: a train number paired with its
// administration, since the train number alone is not unique across
// administrations.
type legacyJourneyKey struct {
	legacyID       int
	administration string
}
