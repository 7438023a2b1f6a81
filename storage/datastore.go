package storage

import (
	"fmt"
	"time"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/model"
)

// DataStore is the full in-memory relational model built once at
// ingestion time: time-relevant data, master data, stop data,
// timetable data, and transfer times, each behind its own per-entity
// Store.
type DataStore struct {
	// Time-relevant data.
	BitFields *Store[model.BitField]
	Holidays  *Store[model.Holiday]
	Metadata  *model.TimetableMetadata

	// Master data.
	Attributes         *Store[model.Attribute]
	InformationTexts   *Store[model.InformationText]
	Directions         *Store[model.Direction]
	Lines              *Store[model.Line]
	TransportCompanies *Store[model.TransportCompany]
	TransportTypes     *Store[model.TransportType]

	// Stop data.
	Stops           *Store[model.Stop]
	StopConnections *Store[model.StopConnection]

	// Timetable data.
	Journeys         *Store[model.Journey]
	JourneyPlatforms *Store[model.JourneyPlatform]
	Platforms        *Store[model.Platform]
	ThroughServices  []*model.ThroughService

	// Transfer times.
	ExchangeTimesAdministration []*model.ExchangeTimeAdministration
	ExchangeTimesLine           []*model.ExchangeTimeLine
	ExchangeTimesJourney        []*model.ExchangeTimeJourney

	// Indices, built by BuildIndices once every entity above is
	// populated.
	JourneysByStop    *ByStopIndex
	JourneysByDay     *ByDayIndex
	StopsByConnection *ByStopIndex

	Calendar *calendar.Engine
}

// New assembles an empty DataStore with all sub-stores initialized,
// ready for the parsers to fill in.
func New() *DataStore {
	return &DataStore{
		BitFields:          NewStore[model.BitField]("bit_field"),
		Holidays:           NewStore[model.Holiday]("holiday"),
		Attributes:         NewStore[model.Attribute]("attribute"),
		InformationTexts:   NewStore[model.InformationText]("information_text"),
		Directions:         NewStore[model.Direction]("direction"),
		Lines:              NewStore[model.Line]("line"),
		TransportCompanies: NewStore[model.TransportCompany]("transport_company"),
		TransportTypes:     NewStore[model.TransportType]("transport_type"),
		Stops:              NewStore[model.Stop]("stop"),
		StopConnections:    NewStore[model.StopConnection]("stop_connection"),
		Journeys:           NewStore[model.Journey]("journey"),
		JourneyPlatforms:   NewStore[model.JourneyPlatform]("journey_platform"),
		Platforms:          NewStore[model.Platform]("platform"),
		JourneysByStop:     NewByStopIndex(),
		JourneysByDay:      NewByDayIndex(),
		StopsByConnection:  NewByStopIndex(),
	}
}

// Validate checks the cross-entity referential invariants: every stop id referenced by a journey route entry, stop
// connection, or platform must exist. Returns the first violation
// found, wrapped so callers can identify it as an unresolved
// reference.
func (d *DataStore) Validate() error {
	for _, j := range d.Journeys.Values() {
		for _, e := range j.Route {
			if !d.Stops.Contains(e.StopID) {
				return fmt.Errorf("journey %d references unknown stop %d: %w", j.ID, e.StopID, &ErrUnknownID{Kind: "stop", ID: e.StopID})
			}
		}
	}
	for _, c := range d.StopConnections.Values() {
		if !d.Stops.Contains(c.StopID1) {
			return fmt.Errorf("stop connection %d references unknown stop %d: %w", c.ID, c.StopID1, &ErrUnknownID{Kind: "stop", ID: c.StopID1})
		}
		if !d.Stops.Contains(c.StopID2) {
			return fmt.Errorf("stop connection %d references unknown stop %d: %w", c.ID, c.StopID2, &ErrUnknownID{Kind: "stop", ID: c.StopID2})
		}
	}
	for _, p := range d.Platforms.Values() {
		if !d.Stops.Contains(p.StopID) {
			return fmt.Errorf("platform %d references unknown stop %d: %w", p.ID, p.StopID, &ErrUnknownID{Kind: "stop", ID: p.StopID})
		}
	}
	return nil
}

// BuildIndices constructs the journey indices: by stop, from every route entry (including pass-through stops), and by_day
// by inverting each journey's bit field across the timetable's
// validity window rather than scanning every journey for every day.
func (d *DataStore) BuildIndices() error {
	for _, c := range d.StopConnections.Values() {
		d.StopsByConnection.Add(c.StopID1, c.ID)
	}

	for _, j := range d.Journeys.Values() {
		seen := map[int]bool{}
		for _, e := range j.Route {
			if !seen[e.StopID] {
				d.JourneysByStop.Add(e.StopID, j.ID)
				seen[e.StopID] = true
			}
		}

		bitFieldID := j.BitFieldID()
		if bitFieldID == nil {
			for day := d.Metadata.StartDate; !day.After(d.Metadata.EndDate); day = day.AddDate(0, 0, 1) {
				d.JourneysByDay.Add(day, j.ID)
			}
			continue
		}

		bf, err := d.BitFields.Find(*bitFieldID)
		if err != nil {
			return fmt.Errorf("journey %d: %w", j.ID, err)
		}
		for offset, active := range bf.Bits {
			if !active {
				continue
			}
			day := d.Metadata.StartDate.AddDate(0, 0, offset)
			if day.After(d.Metadata.EndDate) {
				break
			}
			d.JourneysByDay.Add(day, j.ID)
		}
	}
	return nil
}

// FindJourneysByStop returns the ids of journeys whose route visits stopID.
func (d *DataStore) FindJourneysByStop(stopID int) []int {
	return d.JourneysByStop.Find(stopID)
}

// FindJourneysByDay returns the ids of journeys active on day.
func (d *DataStore) FindJourneysByDay(day time.Time) []int {
	return d.JourneysByDay.Find(day)
}
