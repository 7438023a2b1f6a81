// Package timetable is the root façade over an ingested HRDF
// timetable: load a directory once with Load, then call Plan or
// Reachability concurrently against the result. Modeled on the
// usual manager/feed split -- one long-lived, read-only value
// built once, queried many times from possibly many goroutines.
package timetable

import (
	"context"
	"time"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/routing"
	"github.com/hrdf/timetable/storage"
)

// Timetable is an ingested HRDF feed, ready to answer trip-planning
// and reachability queries. A *Timetable is never mutated after Load
// returns, so it may be shared freely across goroutines.
type Timetable struct {
	ds *storage.DataStore
}

// NewFromDataStore wraps an already-built DataStore (e.g. one loaded
// from a storage.Snapshot) as a queryable Timetable.
func NewFromDataStore(ds *storage.DataStore) *Timetable {
	return &Timetable{ds: ds}
}

// Plan finds the earliest-arrival Route from departureStopID to
// arrivalStopID departing no earlier than departureAt. See
// routing.Plan for the search semantics.
func (t *Timetable) Plan(ctx context.Context, departureStopID, arrivalStopID int, departureAt time.Time) (*routing.Route, error) {
	return routing.Plan(ctx, t.ds, departureStopID, arrivalStopID, departureAt)
}

// Reachability returns the earliest arrival time at every stop
// reachable from departureStopID within timeLimit of departureAt. See
// routing.Reachability; this is the isochrone driver's direct input.
func (t *Timetable) Reachability(ctx context.Context, departureStopID int, departureAt time.Time, timeLimit time.Duration) (map[int]time.Time, error) {
	return routing.Reachability(ctx, t.ds, departureStopID, departureAt, timeLimit)
}

// Itinerary renders route as a human-readable trip description.
func (t *Timetable) Itinerary(route *routing.Route) string {
	return route.Itinerary(t.ds)
}

// Stop looks up a stop by id.
func (t *Timetable) Stop(id int) (*model.Stop, error) {
	return t.ds.Stops.Find(id)
}

// Metadata returns the timetable's validity window and provenance.
func (t *Timetable) Metadata() *model.TimetableMetadata {
	return t.ds.Metadata
}

// DataStore exposes the underlying ingested store, for packages (like
// isochrone) that need direct read access beyond the Plan/Reachability
// surface.
func (t *Timetable) DataStore() *storage.DataStore {
	return t.ds
}
