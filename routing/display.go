package routing

import (
	"fmt"
	"strings"

	"github.com/hrdf/timetable/storage"
)

// Itinerary renders r as a human-readable trip description, one block
// per section: a walking leg's duration and destination, or a
// journey's id followed by every intermediate stop it calls at between
// the section's boarding and alighting points. Returns a string rather than printing: a library
// has no business writing to stdout.
func (r Route) Itinerary(ds *storage.DataStore) string {
	var b strings.Builder

	for _, section := range r.Sections {
		if section.IsWalk() {
			stop, err := ds.Stops.Find(section.ArrivalStopID)
			name := "?"
			if err == nil {
				name = stop.Name
			}
			fmt.Fprintf(&b, "Approx. %d-minute walk to %s\n", *section.DurationMinutes, name)
			continue
		}

		journey, err := ds.Journeys.Find(*section.JourneyID)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "Journey #%d\n", journey.ID)

		startIdx := -1
		for i, e := range journey.Route {
			if e.StopID == section.DepartureStopID {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			continue
		}
		endIdx := startIdx
		for i := startIdx; i < len(journey.Route); i++ {
			endIdx = i
			if journey.Route[i].StopID == section.ArrivalStopID {
				break
			}
		}

		leg := journey.Route[startIdx : endIdx+1]
		for i, entry := range leg {
			arrival := "     "
			if i != 0 && entry.Arrival != nil {
				arrival = entry.Arrival.String()
			}
			departure := "     "
			if i != len(leg)-1 && entry.Departure != nil {
				departure = entry.Departure.String()
			}

			stop, err := ds.Stops.Find(entry.StopID)
			name := "?"
			if err == nil {
				name = stop.Name
			}
			fmt.Fprintf(&b, "  %07d %-36s %s - %s\n", entry.StopID, name, arrival, departure)
		}

		fmt.Fprintf(&b, "  Arrival date: %s\n", section.ArrivalAt.Format("2006-01-02"))
	}

	return b.String()
}
