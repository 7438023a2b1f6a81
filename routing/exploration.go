package routing

import (
	"context"
	"time"

	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/storage"
)

// Reachability is the isochrone-facing variant of the engine behind
// Plan: instead of searching for one target stop, it explores every
// route out of departureStopID and keeps the earliest arrival reached
// at every stop, discarding any candidate whose arrival would exceed
// departureAt+timeLimit. Same loop as processRound, with the
// target-stop/solution bookkeeping replaced by a "still inside the
// time budget" predicate. Feeds the isochrone driver.
func Reachability(ctx context.Context, ds *storage.DataStore, departureStopID int, departureAt time.Time, timeLimit time.Duration) (map[int]time.Time, error) {
	if !ds.Stops.Contains(departureStopID) {
		return nil, &errs.QueryError{Kind: errs.UnknownStop, Detail: "departure stop"}
	}

	deadline := departureAt.Add(timeLimit)
	canContinue := func(route Route) bool { return !route.ArrivalAt().After(deadline) }

	routes := createInitialRoutes(ds, departureStopID, departureAt)
	journeysToIgnore := map[int]bool{}
	earliestArrivalByStop := map[int]time.Time{departureStopID: departureAt}

	for round := 0; round < MaxConnectionCount; round++ {
		select {
		case <-ctx.Done():
			return earliestArrivalByStop, nil
		default:
		}

		var connections []Route
		routes, connections = exploreRound(ctx, ds, routes, journeysToIgnore, earliestArrivalByStop, canContinue)
		if len(connections) == 0 {
			break
		}
		routes = connections
	}

	return earliestArrivalByStop, nil
}

// exploreRound is processRound shorn of the Plan-specific
// target/solution handling: every surviving route updates
// earliestArrivalByStop as it is popped, extends along its current
// journey, and -- if its arrival is the earliest yet seen at that stop
// -- fans out into further connections and nearby-stop walks. Routes
// past the time budget are dropped before any of this.
func exploreRound(ctx context.Context, ds *storage.DataStore, routes []Route, journeysToIgnore map[int]bool, earliestArrivalByStop map[int]time.Time, canContinue func(Route) bool) ([]Route, []Route) {
	var connections []Route

	for len(routes) > 0 {
		if ctx.Err() != nil {
			break
		}
		route := routes[0]
		routes = routes[1:]

		if !canContinue(route) {
			continue
		}

		last := route.LastSection()
		if last.DepartureStopID == last.ArrivalStopID {
			continue
		}

		improved := recordArrival(route, earliestArrivalByStop)

		if last.JourneyID != nil {
			journeysToIgnore[*last.JourneyID] = true
			if next, ok := extendRoute(ds, route, *last.JourneyID, route.ArrivalAt()); ok {
				routes = sortedInsert(routes, next)
			}
		}

		if !improved {
			continue
		}

		connections = append(connections, getConnections(ds, ds.Calendar, route)...)
		for _, r := range getNearbyStopConnections(ds, route) {
			routes = sortedInsert(routes, r)
		}
	}

	connections = filterIgnoredJourneys(connections, journeysToIgnore)
	sortRoutes(connections)
	return routes, connections
}

// recordArrival keeps earliestArrivalByStop as the running
// reachability answer: this map, once exploration stops, is the result.
// Reports whether route's arrival is the earliest yet seen at its stop.
func recordArrival(route Route, earliestArrivalByStop map[int]time.Time) bool {
	stopID := route.ArrivalStopID()
	arrivalAt := route.ArrivalAt()
	if earliest, ok := earliestArrivalByStop[stopID]; !ok || arrivalAt.Before(earliest) {
		earliestArrivalByStop[stopID] = arrivalAt
		return true
	}
	return false
}
