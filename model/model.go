// Package model holds all entity types of the HRDF timetable: stops,
// calendars, journeys and their metadata, platforms, exchange times and
// the query-time Route value. See individual file families in package
// parse for how each type is populated.
package model

import (
	"fmt"
	"time"
)

// ServiceTime is a time-of-day offset in seconds, as found in HRDF's
// HHMM/HHMMSS encoding. It is not a wall-clock time: combining it with a
// reference date (via At) is the caller's job, since the same ServiceTime
// can land on the reference date or the day after depending on rollover.
type ServiceTime int

// NewServiceTimeHHMM builds a ServiceTime from an HRDF HHMM (or HHMMSS)
// integer, e.g. 830 -> 08:30:00, 2215 -> 22:15:00, 123045 -> 12:30:45.
func NewServiceTimeHHMM(v int) ServiceTime {
	if v >= 10000 {
		h := v / 10000
		m := (v / 100) % 100
		s := v % 100
		return ServiceTime(h*3600 + m*60 + s)
	}
	h := v / 100
	m := v % 100
	return ServiceTime(h*3600 + m*60)
}

// At combines the ServiceTime with a reference date, producing a wall
// clock value. Does not itself perform rollover detection; the
// "decreasing sequence means +1 day" rule lives in
// Journey.ArrivalAtFromOrigin.
func (t ServiceTime) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(t) * time.Second)
}

func (t ServiceTime) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// CoordinateSystem tags a Coordinates value.
type CoordinateSystem int

const (
	LV95 CoordinateSystem = iota
	WGS84
)

// Coordinates is a tagged pair in either the LV95 or the WGS84 system.
type Coordinates struct {
	System CoordinateSystem
	X      float64 // easting (LV95) or latitude (WGS84)
	Y      float64 // northing (LV95) or longitude (WGS84)
}

func NewLV95Coordinates(easting, northing float64) Coordinates {
	return Coordinates{System: LV95, X: easting, Y: northing}
}

func NewWGS84Coordinates(lat, lon float64) Coordinates {
	return Coordinates{System: WGS84, X: lat, Y: lon}
}

func (c Coordinates) Easting() float64   { return c.X }
func (c Coordinates) Northing() float64  { return c.Y }
func (c Coordinates) Latitude() float64  { return c.X }
func (c Coordinates) Longitude() float64 { return c.Y }

// InterchangeTime is the minutes needed to change at a stop, split into an intercity value and a value for all other services.
type InterchangeTime struct {
	InterCity int
	Other     int
}

// DefaultStopID is the UMSTEIGB sentinel stop id (9999999) carrying the
// process-wide default exchange time.
const DefaultStopID = 9999999

// Stop is a stop or station. Immutable after ingestion.
type Stop struct {
	ID                  int
	Name                string
	LongName            string
	Abbreviation        string
	Synonyms            []string
	LV95                *Coordinates
	WGS84               *Coordinates
	InterchangePriority *int
	NoInterchange       bool // true when the stop may never be used as an exchange point
	InterchangeTime     InterchangeTime
	SLOIDs              []string
	RestrictionCode     string
	BoardingAreas       []string
	NearbyStopIDs       []int // declared in METABHF's second section
}

// CanBeUsedAsExchangePoint is the stop-level half of the exchange-point
// test: the journey-level "is this a pass-through stop on this journey"
// half lives on Journey.
func (s *Stop) CanBeUsedAsExchangePoint() bool {
	return !s.NoInterchange
}

// BitField is a calendar of operating days, indexed by day
// offset from the timetable's start date.
type BitField struct {
	ID   int
	Bits []bool
}

// OperatesOnOffset reports whether the bit field is set for the given
// zero-based day offset from the timetable start date.
func (b *BitField) OperatesOnOffset(offset int) bool {
	if offset < 0 || offset >= len(b.Bits) {
		return false
	}
	return b.Bits[offset]
}

// TimetableMetadata is ECKDATEN: the timetable's validity window and
// provenance.
type TimetableMetadata struct {
	StartDate time.Time
	EndDate   time.Time
	Provider  string
	CreatedAt string
	Version   string
	Name      string
}

// DayOffset returns the zero-based offset of date within the timetable,
// and whether that date actually falls in [StartDate, EndDate].
func (m *TimetableMetadata) DayOffset(date time.Time) (int, bool) {
	d := int(date.Sub(m.StartDate).Hours() / 24)
	if date.Before(m.StartDate) || date.After(m.EndDate) {
		return d, false
	}
	return d, true
}

// TransportType is ZUGART: a transport product code (e.g. "IC", "S") with
// localised names.
type TransportType struct {
	ID                string
	ProductClass      int
	TariffGroup       string
	OutputControl     string
	ShortName         string
	Surcharge         int
	Flag              string
	ProductClassNames map[string]string // lang -> name
	LongNames         map[string]string // lang -> name
}

// Localised is the common shape of LINIE, RICHTUNG, ATTRIBUT, INFOTEXT,
// FEIERTAG and BETRIEB catalogue entries: an id plus per-language names.
type Localised struct {
	ID    int
	Names map[string]string // lang -> name
}

type Line Localised
type Direction Localised
type InformationText Localised
type TransportCompany Localised

// Attribute is ATTRIBUT: a journey/stop qualifier keyed by a short
// alphanumeric Code (e.g. "AG", "BT") rather than a numeric id, plus
// its sorting priorities and per-language description.
type Attribute struct {
	ID                    int // sequential store key, assigned at parse time
	Code                  string
	StopScope             int
	MainSortPriority      int
	SecondarySortPriority int
	Names                 map[string]string // lang -> description
}

// Holiday is FEIERTAG: a calendar date with translated names.
type Holiday struct {
	Localised
	Date time.Time
}

// MetadataType enumerates the kinds of JourneyMetadataEntry.
type MetadataType int

const (
	MetaTransportType MetadataType = iota
	MetaBitField
	MetaAttribute
	MetaInformationText
	MetaLine
	MetaDirection
	MetaTransferTimeBoarding
	MetaTransferTimeDisembarking
)

// JourneyMetadataEntry is one *G/*A/*I/*L/*R/*CI/*CO record attached to a
// journey, scoped to a stop-id range.
type JourneyMetadataEntry struct {
	Type          MetadataType
	FromStopID    *int
	UntilStopID   *int
	ResourceID    *string
	BitFieldID    *int
	DepartureTime *ServiceTime
	ArrivalTime   *ServiceTime
	ExtraString   string
	ExtraInt      *int
}

// InRange reports whether stopID falls within [FromStopID, UntilStopID]
// as positioned in routeStopIDs (nil bound means "from start"/"to end").
func (e *JourneyMetadataEntry) InRange(routeStopIDs []int, stopID int) bool {
	pos := -1
	for i, id := range routeStopIDs {
		if id == stopID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return false
	}
	if e.FromStopID != nil {
		fromPos := indexOf(routeStopIDs, *e.FromStopID)
		if fromPos == -1 || pos < fromPos {
			return false
		}
	}
	if e.UntilStopID != nil {
		untilPos := indexOf(routeStopIDs, *e.UntilStopID)
		if untilPos == -1 || pos > untilPos {
			return false
		}
	}
	return true
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// JourneyRouteEntry is one row of a journey's stop sequence.
// Pass-through stops carry neither time and may not be used for exchange.
type JourneyRouteEntry struct {
	StopID    int
	Arrival   *ServiceTime
	Departure *ServiceTime
}

// IsPassThrough reports whether the vehicle does not stop here.
func (e *JourneyRouteEntry) IsPassThrough() bool {
	return e.Arrival == nil && e.Departure == nil
}

// Journey is a single scheduled service: an ordered route plus scoped
// metadata entries.
type Journey struct {
	ID             int
	LegacyID       int // FPLAN's *Z train number, unique only paired with Administration
	Administration string
	Route          []JourneyRouteEntry
	Metadata       []JourneyMetadataEntry
}

// FirstStopID and LastStopID are the journey's origin/terminus.
func (j *Journey) FirstStopID() int { return j.Route[0].StopID }
func (j *Journey) LastStopID() int  { return j.Route[len(j.Route)-1].StopID }

// StopIDs returns the ordered list of stop ids visited by the route,
// including pass-through entries. Used for metadata-range resolution.
func (j *Journey) StopIDs() []int {
	ids := make([]int, len(j.Route))
	for i, e := range j.Route {
		ids[i] = e.StopID
	}
	return ids
}

// IsLastStop reports whether stopID is the journey's terminal stop.
func (j *Journey) IsLastStop(stopID int) bool {
	return j.Route[len(j.Route)-1].StopID == stopID
}

// DepartureTimeAt returns the departure time at the first route entry
// matching stopID, if any.
func (j *Journey) DepartureTimeAt(stopID int) (ServiceTime, bool) {
	for _, e := range j.Route {
		if e.StopID == stopID && e.Departure != nil {
			return *e.Departure, true
		}
	}
	return 0, false
}

// ArrivalTimeAt returns the arrival time at the first route entry
// matching stopID, if any.
func (j *Journey) ArrivalTimeAt(stopID int) (ServiceTime, bool) {
	for _, e := range j.Route {
		if e.StopID == stopID && e.Arrival != nil {
			return *e.Arrival, true
		}
	}
	return 0, false
}

// CountStops returns the number of route entries strictly between
// fromStopID and toStopID (their first occurrences), used as the
// less-walking proxy the solution tie-break uses.
func (j *Journey) CountStops(fromStopID, toStopID int) int {
	from, to := -1, -1
	for i, e := range j.Route {
		if from == -1 && e.StopID == fromStopID {
			from = i
		}
		if from != -1 && e.StopID == toStopID {
			to = i
			break
		}
	}
	if from == -1 || to == -1 || to <= from {
		return 0
	}
	return to - from - 1
}

// RouteFingerprint is a stable key for "this journey, boarded at this
// stop" used to fingerprint candidate routes-to-ignore during exploration
// (prevents reboarding the exact same service).
func (j *Journey) RouteFingerprint(stopID int) (string, bool) {
	for _, e := range j.Route {
		if e.StopID == stopID {
			return fmt.Sprintf("%d@%d", j.ID, stopID), true
		}
	}
	return "", false
}

// ArrivalAtFromOrigin walks the journey's route from originStopID to
// targetStopID, combining each entry's ServiceTime with refDate and
// rolling the date forward whenever a time is smaller than the time
// that preceded it -- a decreasing time sequence means a day rollover,
// applied cumulatively so a multi-leg overnight journey
// accrues more than one rollover. originIsDeparture selects whether
// refDate is anchored to originStopID's departure (boarding there) or
// arrival (already aboard, continuing past it).
func (j *Journey) ArrivalAtFromOrigin(originStopID int, refDate time.Time, originIsDeparture bool, targetStopID int) time.Time {
	originIdx := -1
	for i, e := range j.Route {
		if e.StopID == originStopID {
			originIdx = i
			break
		}
	}
	if originIdx == -1 {
		return refDate
	}

	entry := j.Route[originIdx]
	var prev ServiceTime
	switch {
	case originIsDeparture && entry.Departure != nil:
		prev = *entry.Departure
	case entry.Arrival != nil:
		prev = *entry.Arrival
	case entry.Departure != nil:
		prev = *entry.Departure
	}

	date := refDate
	for i := originIdx + 1; i < len(j.Route); i++ {
		e := j.Route[i]
		if e.Arrival != nil {
			if *e.Arrival < prev {
				date = date.AddDate(0, 0, 1)
			}
			prev = *e.Arrival
		}
		if e.Departure != nil {
			if *e.Departure < prev {
				date = date.AddDate(0, 0, 1)
			}
			prev = *e.Departure
		}
		if e.StopID == targetStopID {
			if e.Arrival != nil {
				return e.Arrival.At(date)
			}
			return e.Departure.At(date)
		}
	}
	return date
}

// BitFieldID returns the journey's calendar bit-field id, if it has one.
func (j *Journey) BitFieldID() *int {
	for _, m := range j.Metadata {
		if m.Type == MetaBitField {
			return m.BitFieldID
		}
	}
	return nil
}

// TransportTypeIDAt returns the transport-type code in effect at stopID,
// honoring the metadata entry's stop range.
func (j *Journey) TransportTypeIDAt(stopID int) string {
	ids := j.StopIDs()
	for _, m := range j.Metadata {
		if m.Type != MetaTransportType || m.ResourceID == nil {
			continue
		}
		if m.InRange(ids, stopID) {
			return *m.ResourceID
		}
	}
	return ""
}

// LineIDAt and DirectionIDAt mirror TransportTypeIDAt for the other
// metadata kinds the line-level exchange-time match needs.
func (j *Journey) LineIDAt(stopID int) string {
	return j.resourceIDAt(MetaLine, stopID)
}

func (j *Journey) DirectionIDAt(stopID int) string {
	return j.resourceIDAt(MetaDirection, stopID)
}

func (j *Journey) resourceIDAt(kind MetadataType, stopID int) string {
	ids := j.StopIDs()
	for _, m := range j.Metadata {
		if m.Type != kind || m.ResourceID == nil {
			continue
		}
		if m.InRange(ids, stopID) {
			return *m.ResourceID
		}
	}
	return ""
}

// JourneyPlatform binds (journey, platform) optionally scoped to a time
// and bit field.
type JourneyPlatform struct {
	JourneyID  int
	PlatformID int
	Time       *ServiceTime
	BitFieldID *int
}

// Platform is a boarding point at a stop.
type Platform struct {
	ID     int
	Code   string
	Sector string
	StopID int
	SLOID  string
	LV95   *Coordinates
	WGS84  *Coordinates
}

// StopConnection is a directed declared pedestrian connection between two
// stops.
type StopConnection struct {
	ID              int
	StopID1         int
	StopID2         int
	DurationMinutes int
	Attributes      []string
}

// ExchangeDirection constrains an ExchangeTimeLine to inbound/outbound
// legs of the transfer.
type ExchangeDirection int

const (
	ExchangeAny ExchangeDirection = iota
	ExchangeIncoming
	ExchangeOutgoing
)

// ExchangeTimeAdministration is UMSTEIGV: minutes to change between two
// administrations at an (optional) stop.
type ExchangeTimeAdministration struct {
	StopID          *int
	Administration1 string
	Administration2 string
	Minutes         int
}

// ExchangeTimeLine is UMSTEIGL: minutes to change between two lines,
// optionally scoped by administration/transport type/direction, with "*"
// wildcards. Each side of the transfer carries its own direction
// constraint: Direction1 for the arriving leg, Direction2 for the
// departing one.
type ExchangeTimeLine struct {
	StopID          *int
	Administration1 string
	Administration2 string
	TransportType1  string
	TransportType2  string
	Line1           string
	Line2           string
	Direction1      ExchangeDirection
	Direction2      ExchangeDirection
	Minutes         int
}

// ExchangeTimeJourney is UMSTEIGZ: minutes to change between two specific
// journeys at an (optional) stop, optionally bit-field constrained.
type ExchangeTimeJourney struct {
	StopID     *int
	Journey1ID int
	Journey2ID int
	BitFieldID *int
	Minutes    int
}

// ThroughService joins two journeys at a stop so a passenger may remain
// seated across the join.
type ThroughService struct {
	Journey1ID int
	StopID     int
	Journey2ID int
	BitFieldID *int
}
