package routing

import (
	"context"
	"time"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/storage"
)

// Plan is the best-first search: find the earliest-arrival Route from
// departureStopID to arrivalStopID departing no earlier than
// departureAt. ctx's deadline, if any, is checked at the top of every
// round -- the engine returns the best solution found
// so far (possibly none) on expiry rather than blocking further.
func Plan(ctx context.Context, ds *storage.DataStore, departureStopID, arrivalStopID int, departureAt time.Time) (*Route, error) {
	if !ds.Stops.Contains(departureStopID) {
		return nil, &errs.QueryError{Kind: errs.UnknownStop, Detail: "departure stop"}
	}
	if !ds.Stops.Contains(arrivalStopID) {
		return nil, &errs.QueryError{Kind: errs.UnknownStop, Detail: "arrival stop"}
	}

	routes := createInitialRoutes(ds, departureStopID, departureAt)

	var solution *Route
	journeysToIgnore := map[int]bool{}
	earliestArrivalByStop := map[int]time.Time{}

	for round := 0; round < MaxConnectionCount; round++ {
		select {
		case <-ctx.Done():
			return solution, nil
		default:
		}

		var connections []Route
		routes, connections, solution = processRound(ctx, ds, ds.Calendar, routes, arrivalStopID, round, solution, journeysToIgnore, earliestArrivalByStop)
		if len(connections) == 0 {
			break
		}
		routes = connections
	}

	if solution == nil {
		return nil, &errs.QueryError{Kind: errs.NoSolution}
	}
	return solution, nil
}

// processRound pops every pending Route (best-first,
// since routes is kept sorted by arrival time), either record it as
// an improved solution, extend it along its current journey, or fan
// it out into further connections and nearby-stop walks. Returns the
// next round's candidate queue.
func processRound(ctx context.Context, ds *storage.DataStore, cal *calendar.Engine, routes []Route, targetStopID int, round int, solution *Route, journeysToIgnore map[int]bool, earliestArrivalByStop map[int]time.Time) ([]Route, []Route, *Route) {
	var connections []Route

	for len(routes) > 0 {
		if ctx.Err() != nil {
			break
		}
		route := routes[0]
		routes = routes[1:]

		if !canImproveSolution(solution, route) {
			continue
		}

		if isImprovingSolution(ds, solution, route, targetStopID) {
			solution = &route
			continue
		}

		// Loop guard for self-overlapping journeys: a section that
		// ends where it started would re-extend forever.
		if last := route.LastSection(); last.DepartureStopID == last.ArrivalStopID {
			continue
		}

		if last := route.LastSection(); last.JourneyID != nil {
			journeysToIgnore[*last.JourneyID] = true
			if next, ok := extendRoute(ds, route, *last.JourneyID, route.ArrivalAt()); ok {
				routes = sortedInsert(routes, next)
			}
		}

		if round == MaxConnectionCount-1 {
			continue
		}

		if !canExploreConnections(route, earliestArrivalByStop) {
			continue
		}

		connections = append(connections, getConnections(ds, cal, route)...)
		for _, r := range getNearbyStopConnections(ds, route) {
			routes = sortedInsert(routes, r)
		}
	}

	connections = filterIgnoredJourneys(connections, journeysToIgnore)
	sortRoutes(connections)
	return routes, connections, solution
}

// canImproveSolution: a candidate is worth
// continuing only if it could still arrive no later than the current
// solution.
func canImproveSolution(solution *Route, candidate Route) bool {
	if solution == nil {
		return true
	}
	return !candidate.ArrivalAt().After(solution.ArrivalAt())
}

// isImprovingSolution is the full tie-break chain: earlier arrival,
// then fewer connections, then more intermediate stops per
// corresponding leg.
func isImprovingSolution(ds *storage.DataStore, solution *Route, candidate Route, targetStopID int) bool {
	if candidate.ArrivalStopID() != targetStopID {
		return false
	}
	if solution == nil {
		return true
	}

	t1, t2 := candidate.ArrivalAt(), solution.ArrivalAt()
	if !t1.Equal(t2) {
		return t1.Before(t2)
	}

	c1, c2 := candidate.CountConnections(), solution.CountConnections()
	if c1 != c2 {
		return c1 < c2
	}

	sections1 := candidate.SectionsWithJourney()
	sections2 := solution.SectionsWithJourney()
	for i := 0; i < c1; i++ {
		n1 := countStops(ds, sections1[i])
		n2 := countStops(ds, sections2[i])
		if n1 != n2 {
			return n1 > n2
		}
	}
	return false
}

// countStops is the "less-walking" proxy: the number of
// intermediate route entries the journey makes between the section's
// two stops, via model.Journey.CountStops.
func countStops(ds *storage.DataStore, s RouteSection) int {
	if s.JourneyID == nil {
		return 0
	}
	journey, err := ds.Journeys.Find(*s.JourneyID)
	if err != nil {
		return 0
	}
	return journey.CountStops(s.DepartureStopID, s.ArrivalStopID)
}

// canExploreConnections consults and updates the earliest-arrival
// dominance table. Strict "<": equal-time arrivals are dominated to
// avoid re-exploring duplicates.
func canExploreConnections(route Route, earliestArrivalByStop map[int]time.Time) bool {
	stopID := route.ArrivalStopID()
	arrivalAt := route.ArrivalAt()

	if earliest, ok := earliestArrivalByStop[stopID]; ok {
		if arrivalAt.Before(earliest) {
			earliestArrivalByStop[stopID] = arrivalAt
			return true
		}
		return false
	}
	earliestArrivalByStop[stopID] = arrivalAt
	return true
}

func filterIgnoredJourneys(connections []Route, journeysToIgnore map[int]bool) []Route {
	out := connections[:0]
	for _, r := range connections {
		last := r.LastSection()
		if last.JourneyID != nil && journeysToIgnore[*last.JourneyID] {
			continue
		}
		out = append(out, r)
	}
	return out
}
