// Package routing is the trip-planning and reachability engine: the
// Route/RouteSection value types, the route extension state machine,
// and the best-first exploration that serves both point-to-point
// planning (Plan) and isochrone reachability (Reachability). Routes
// hold numeric ids, never pointers, into the immutable
// *storage.DataStore, which is what makes a Route cheap to clone while
// exploring.
package routing

import "time"

// RouteSection is either a ride on one journey between two stops, or
// (JourneyID == nil) a pedestrian leg.
type RouteSection struct {
	JourneyID       *int
	DepartureStopID int
	ArrivalStopID   int
	ArrivalAt       time.Time
	DurationMinutes *int // set only for pedestrian legs
}

// IsWalk reports whether this section is a pedestrian leg.
func (s RouteSection) IsWalk() bool { return s.JourneyID == nil }

// Route is a query-time candidate path: an ordered list of sections
// plus the set of stops visited so far, used for loop detection.
// Route values are independent copies -- they never
// share backing arrays once cloned.
type Route struct {
	Sections     []RouteSection
	VisitedStops map[int]bool
}

// NewRoute builds a one-section Route, copying visited into a fresh
// map so the caller's set can be reused or discarded freely.
func NewRoute(section RouteSection, visited map[int]bool) Route {
	v := make(map[int]bool, len(visited))
	for id := range visited {
		v[id] = true
	}
	return Route{Sections: []RouteSection{section}, VisitedStops: v}
}

// clone produces an independent copy of r with f applied to the
// cloned sections and visited-stops set.
func (r Route) clone(f func(sections []RouteSection, visited map[int]bool) []RouteSection) Route {
	sections := make([]RouteSection, len(r.Sections))
	copy(sections, r.Sections)
	visited := make(map[int]bool, len(r.VisitedStops))
	for id := range r.VisitedStops {
		visited[id] = true
	}
	sections = f(sections, visited)
	return Route{Sections: sections, VisitedStops: visited}
}

// LastSection returns the most recently added section. A Route always
// has at least one.
func (r Route) LastSection() RouteSection { return r.Sections[len(r.Sections)-1] }

// ArrivalStopID is the arrival stop of the last section.
func (r Route) ArrivalStopID() int { return r.LastSection().ArrivalStopID }

// ArrivalAt is the arrival time of the last section.
func (r Route) ArrivalAt() time.Time { return r.LastSection().ArrivalAt }

// HasVisitedAnyStops reports whether r has already visited any stop in
// stops. Loop guard for route extension.
func (r Route) HasVisitedAnyStops(stops map[int]bool) bool {
	for id := range stops {
		if r.VisitedStops[id] {
			return true
		}
	}
	return false
}

// SectionsWithJourney returns the sections that ride a journey (not a
// walk), in order, for the solution tie-break.
func (r Route) SectionsWithJourney() []RouteSection {
	out := make([]RouteSection, 0, len(r.Sections))
	for _, s := range r.Sections {
		if !s.IsWalk() {
			out = append(out, s)
		}
	}
	return out
}

// CountConnections is the number of journey-carrying sections, the
// primary tie-break term between equal-arrival solutions.
func (r Route) CountConnections() int { return len(r.SectionsWithJourney()) }
