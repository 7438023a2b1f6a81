package routing

import (
	"fmt"
	"sort"
	"time"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/storage"
)

// departureCandidate pairs a journey with its computed departure
// wall-clock time at the stop under consideration.
type departureCandidate struct {
	journey     *model.Journey
	departureAt time.Time
}

// nextDepartures returns every journey
// departing stopID in [notBefore, notBefore+MaxLookaheadHours] that
// operates on the relevant calendar day and is not a reboarding of a
// route fingerprint already seen in routesToIgnore.
func nextDepartures(ds *storage.DataStore, stopID int, notBefore time.Time, routesToIgnore map[string]bool) []departureCandidate {
	maxAt := notBefore.Add(MaxLookaheadHours * time.Hour)

	type candidate struct {
		journey *model.Journey
		at      time.Time
	}
	var raw []candidate

	startDay := time.Date(notBefore.Year(), notBefore.Month(), notBefore.Day(), 0, 0, 0, 0, notBefore.Location())
	endDay := time.Date(maxAt.Year(), maxAt.Month(), maxAt.Day(), 0, 0, 0, 0, maxAt.Location())
	for dayOnly := startDay; !dayOnly.After(endDay); dayOnly = dayOnly.AddDate(0, 0, 1) {
		for _, jid := range ds.FindJourneysByDay(dayOnly) {
			journey, err := ds.Journeys.Find(jid)
			if err != nil {
				continue
			}
			if journey.IsLastStop(stopID) {
				continue
			}
			depTime, ok := journey.DepartureTimeAt(stopID)
			if !ok {
				continue
			}
			at := depTime.At(dayOnly)
			if at.Before(notBefore) || at.After(maxAt) {
				continue
			}
			raw = append(raw, candidate{journey: journey, at: at})
		}
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].at.Before(raw[j].at) })

	ignore := map[string]bool{}
	for k := range routesToIgnore {
		ignore[k] = true
	}

	out := make([]departureCandidate, 0, len(raw))
	for _, c := range raw {
		fp, ok := c.journey.RouteFingerprint(stopID)
		if ok {
			if ignore[fp] {
				continue
			}
			ignore[fp] = true
		}
		out = append(out, departureCandidate{journey: c.journey, departureAt: c.at})
	}
	return out
}

// routeFingerprints is the set
// of (journey, stop) fingerprints already ridden by route, so
// getConnections never re-offers a service the route has already
// boarded along the way.
func routeFingerprints(route Route) map[string]bool {
	out := map[string]bool{}
	for _, s := range route.Sections {
		if s.JourneyID == nil {
			continue
		}
		// Matches model.Journey.RouteFingerprint's format.
		out[fmt.Sprintf("%d@%d", *s.JourneyID, s.DepartureStopID)] = true
	}
	return out
}

// createInitialRoutes seeds one Route per eligible departure out of
// the origin, plus one per declared pedestrian StopConnection.
func createInitialRoutes(ds *storage.DataStore, departureStopID int, departureAt time.Time) []Route {
	var routes []Route

	for _, c := range nextDepartures(ds, departureStopID, departureAt, nil) {
		if route, ok := seedSection(ds, c.journey, departureStopID, c.departureAt); ok {
			routes = append(routes, route)
		}
	}

	for _, id := range ds.StopsByConnection.Find(departureStopID) {
		conn, err := ds.StopConnections.Find(id)
		if err != nil {
			continue
		}
		visited := map[int]bool{conn.StopID1: true, conn.StopID2: true}
		section := RouteSection{
			DepartureStopID: conn.StopID1,
			ArrivalStopID:   conn.StopID2,
			ArrivalAt:       departureAt.Add(time.Duration(conn.DurationMinutes) * time.Minute),
			DurationMinutes: &conn.DurationMinutes,
		}
		routes = append(routes, NewRoute(section, visited))
	}

	sortRoutes(routes)
	return routes
}

// getConnections fans route out into every next departure from its
// arrival stop, each producing a new Route continuing from route,
// honoring the exchange-time floor on top of the stop's raw
// next-departure window.
func getConnections(ds *storage.DataStore, cal *calendar.Engine, route Route) []Route {
	ignore := routeFingerprints(route)
	var lastJourneyID *int
	if last := route.LastSection(); last.JourneyID != nil {
		lastJourneyID = last.JourneyID
	}

	// The exchange-time floor depends on the candidate
	// journey, so it can't be folded into the notBefore bound passed
	// to nextDepartures; each candidate is checked individually below.
	var out []Route
	for _, c := range nextDepartures(ds, route.ArrivalStopID(), route.ArrivalAt(), ignore) {
		if lastJourneyID != nil {
			exchangeMinutes := resolveExchangeTime(ds, cal, route.ArrivalStopID(), route.ArrivalAt(), lastJourneyID, c.journey.ID)
			earliestBoardable := route.ArrivalAt().Add(time.Duration(exchangeMinutes) * time.Minute)
			if c.departureAt.Before(earliestBoardable) {
				continue
			}
		}
		if newRoute, ok := extendRoute(ds, route, c.journey.ID, c.departureAt); ok {
			out = append(out, newRoute)
		}
	}
	return out
}

// getNearbyStopConnections expands route by one walking leg: every
// declared StopConnection from its arrival stop, rejecting
// already-visited destinations and forbidding two consecutive
// pedestrian legs.
func getNearbyStopConnections(ds *storage.DataStore, route Route) []Route {
	if route.LastSection().IsWalk() {
		return nil
	}

	var out []Route
	for _, id := range ds.StopsByConnection.Find(route.ArrivalStopID()) {
		conn, err := ds.StopConnections.Find(id)
		if err != nil {
			continue
		}
		if !ds.Stops.Contains(conn.StopID2) {
			continue
		}
		if route.VisitedStops[conn.StopID2] {
			continue
		}
		newRoute := route.clone(func(sections []RouteSection, visited map[int]bool) []RouteSection {
			sections = append(sections, RouteSection{
				DepartureStopID: conn.StopID1,
				ArrivalStopID:   conn.StopID2,
				ArrivalAt:       route.ArrivalAt().Add(time.Duration(conn.DurationMinutes) * time.Minute),
				DurationMinutes: &conn.DurationMinutes,
			})
			visited[conn.StopID2] = true
			return sections
		})
		out = append(out, newRoute)
	}
	return out
}

func sortRoutes(routes []Route) {
	sort.Slice(routes, func(i, j int) bool { return routes[i].ArrivalAt().Before(routes[j].ArrivalAt()) })
}

// sortedInsert inserts route into the sorted (by arrival time) queue,
// keeping the best-first queue ordered without a full re-sort per push.
func sortedInsert(routes []Route, route Route) []Route {
	idx := sort.Search(len(routes), func(i int) bool { return route.ArrivalAt().Before(routes[i].ArrivalAt()) })
	routes = append(routes, Route{})
	copy(routes[idx+1:], routes[idx:])
	routes[idx] = route
	return routes
}
