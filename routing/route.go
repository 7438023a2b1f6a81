package routing

import (
	"time"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/storage"
)

// canBeUsedAsExchangePoint is the combined stop+journey predicate: "true iff the stop has no interchange-flag forbidding it
// and is not a pass-through entry on this journey".
func canBeUsedAsExchangePoint(entry model.JourneyRouteEntry, stop *model.Stop) bool {
	return !entry.IsPassThrough() && stop.CanBeUsedAsExchangePoint()
}

// findNextSection locates departureStopID in journey's route,
// then scans forward collecting visited stops until either the
// journey's terminal stop or an exchange point is reached.
func findNextSection(ds *storage.DataStore, journey *model.Journey, departureStopID int, refAt time.Time, refIsDeparture bool) (RouteSection, map[int]bool, bool) {
	startIdx := -1
	for i, e := range journey.Route {
		if e.StopID == departureStopID {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		return RouteSection{}, nil, false
	}

	visited := map[int]bool{}
	for i := startIdx + 1; i < len(journey.Route); i++ {
		entry := journey.Route[i]
		stop, err := ds.Stops.Find(entry.StopID)
		if err != nil {
			continue
		}
		visited[stop.ID] = true

		isLast := i == len(journey.Route)-1
		if canBeUsedAsExchangePoint(entry, stop) || isLast {
			arrivalAt := journey.ArrivalAtFromOrigin(departureStopID, refAt, refIsDeparture, stop.ID)
			section := RouteSection{
				JourneyID:       &journey.ID,
				DepartureStopID: departureStopID,
				ArrivalStopID:   stop.ID,
				ArrivalAt:       arrivalAt,
			}
			return section, visited, true
		}
	}
	return RouteSection{}, nil, false
}

// extendRoute extends route along journeyID, boarding (or continuing
// on) it at route's current arrival stop at departureAt. The
// same-journey continuation in the main loop and a fresh boarding at a
// connection are the same procedure, so both call sites share this one
// implementation.
func extendRoute(ds *storage.DataStore, route Route, journeyID int, departureAt time.Time) (Route, bool) {
	journey, err := ds.Journeys.Find(journeyID)
	if err != nil {
		return Route{}, false
	}

	if journey.IsLastStop(route.ArrivalStopID()) {
		return Route{}, false
	}

	last := route.LastSection()
	isSameJourney := last.JourneyID != nil && *last.JourneyID == journeyID

	// Continuing the same journey anchors on the current arrival
	// instant at this stop; boarding a fresh journey anchors on its
	// scheduled departure instant there (computed by the caller via
	// nextDepartures).
	newSection, visited, ok := findNextSection(ds, journey, route.ArrivalStopID(), departureAt, !isSameJourney)
	if !ok {
		return Route{}, false
	}

	if route.HasVisitedAnyStops(visited) && newSection.ArrivalStopID != journey.FirstStopID() {
		// Loop guard: reject unless the extension closes a
		// circular service back to its own origin.
		return Route{}, false
	}

	newRoute := route.clone(func(sections []RouteSection, visitedStops map[int]bool) []RouteSection {
		if isSameJourney {
			sections[len(sections)-1].ArrivalStopID = newSection.ArrivalStopID
			sections[len(sections)-1].ArrivalAt = newSection.ArrivalAt
		} else {
			sections = append(sections, newSection)
		}
		for id := range visited {
			visitedStops[id] = true
		}
		return sections
	})
	return newRoute, true
}

// seedSection builds the first RouteSection of a brand-new Route,
// boarding journey at departureStopID at departureAt. Identical scan
// to findNextSection but with no existing Route to merge into.
func seedSection(ds *storage.DataStore, journey *model.Journey, departureStopID int, departureAt time.Time) (Route, bool) {
	section, visited, ok := findNextSection(ds, journey, departureStopID, departureAt, true)
	if !ok {
		return Route{}, false
	}
	visited[departureStopID] = true
	return NewRoute(section, visited), true
}
