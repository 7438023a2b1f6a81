// Package isochrone turns routing.Reachability output into renderable
// polygons: for each interval boundary inside the time budget, the
// area on foot from the stops reached by then, either as one disk per
// stop or as a contour polygon traced on a metric grid.
package isochrone

import (
	"context"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/tidwall/rtree"

	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/routing"
	"github.com/hrdf/timetable/storage"
)

// WalkingMetersPerMinute is the walking speed the rendering assumes
// when converting leftover time budget into a reachable radius.
const WalkingMetersPerMinute = 80.0

// DisplayMode selects the rendering of each isochrone band.
type DisplayMode string

const (
	ModeCircles     DisplayMode = "circles"
	ModeContourLine DisplayMode = "contour_line"
)

// Request is one isochrone query: an origin point, a departure
// date-time, a total time budget, and the band interval.
type Request struct {
	OriginLat   float64
	OriginLon   float64
	DepartureAt time.Time
	TimeLimit   time.Duration
	Interval    time.Duration
	Mode        DisplayMode
}

// Isochrone is one band: every polygon reachable within TimeLimit of
// the request's departure.
type Isochrone struct {
	TimeLimit time.Duration
	Polygons  []orb.Polygon
}

// Collection is the full response for one Request: the origin echoed
// back in WGS84 plus one Isochrone per interval boundary, smallest
// budget first.
type Collection struct {
	OriginLat   float64
	OriginLon   float64
	DepartureAt time.Time
	Isochrones  []Isochrone
}

// Driver answers isochrone requests against one immutable DataStore.
// Safe for concurrent use: the spatial index is built once in New and
// only read afterward.
type Driver struct {
	ds    *storage.DataStore
	stops rtree.RTreeG[int]
}

// New builds a Driver, indexing every stop that carries LV95
// coordinates.
func New(ds *storage.DataStore) *Driver {
	d := &Driver{ds: ds}
	for _, stop := range ds.Stops.Values() {
		if stop.LV95 == nil {
			continue
		}
		p := [2]float64{stop.LV95.Easting(), stop.LV95.Northing()}
		d.stops.Insert(p, p, stop.ID)
	}
	return d
}

// nearestStop returns the stop closest to the given LV95 point and its
// distance in metres.
func (d *Driver) nearestStop(east, north float64) (stopID int, distance float64, ok bool) {
	target := [2]float64{east, north}
	d.stops.Nearby(
		rtree.BoxDist[float64, int](target, target, nil),
		func(min, max [2]float64, id int, dist float64) bool {
			stopID = id
			distance = dist
			ok = true
			return false
		},
	)
	return stopID, distance, ok
}

// reachedStop is one entry of the reachability map, resolved to LV95
// coordinates and a minute offset from the departure time.
type reachedStop struct {
	east, north   float64
	offsetMinutes float64
}

// Query runs the reachability search and renders one Isochrone per
// interval boundary. The walk from the origin point to its nearest
// stop consumes budget at walking speed before the first vehicle can
// be boarded.
func (d *Driver) Query(ctx context.Context, req Request) (*Collection, error) {
	if req.Interval <= 0 || req.TimeLimit <= 0 || req.Interval > req.TimeLimit {
		return nil, errors.New("interval must be positive and no larger than the time limit")
	}

	east, north := wgs84ToLV95(req.OriginLat, req.OriginLon)
	originStopID, accessMeters, ok := d.nearestStop(east, north)
	if !ok {
		return nil, &errs.QueryError{Kind: errs.UnknownStop, Detail: "no stop with coordinates near origin"}
	}

	accessWalk := time.Duration(math.Ceil(accessMeters/WalkingMetersPerMinute)) * time.Minute
	if accessWalk >= req.TimeLimit {
		// The whole budget is spent getting to the first stop; the
		// result is walking-only disks around the origin.
		return d.collectBands(req, nil), nil
	}

	boardAt := req.DepartureAt.Add(accessWalk)
	arrivals, err := routing.Reachability(ctx, d.ds, originStopID, boardAt, req.TimeLimit-accessWalk)
	if err != nil {
		return nil, err
	}

	reached := make([]reachedStop, 0, len(arrivals))
	for stopID, arrivalAt := range arrivals {
		stop, err := d.ds.Stops.Find(stopID)
		if err != nil || stop.LV95 == nil {
			continue
		}
		reached = append(reached, reachedStop{
			east:          stop.LV95.Easting(),
			north:         stop.LV95.Northing(),
			offsetMinutes: arrivalAt.Sub(req.DepartureAt).Minutes(),
		})
	}

	return d.collectBands(req, reached), nil
}

// collectBands renders one Isochrone per interval boundary. The origin
// point itself always contributes a walking disk, so even an
// unreachable network yields the on-foot area.
func (d *Driver) collectBands(req Request, reached []reachedStop) *Collection {
	east, north := wgs84ToLV95(req.OriginLat, req.OriginLon)
	withOrigin := append([]reachedStop{{east: east, north: north, offsetMinutes: 0}}, reached...)

	c := &Collection{
		OriginLat:   req.OriginLat,
		OriginLon:   req.OriginLon,
		DepartureAt: req.DepartureAt,
	}
	for band := req.Interval; band <= req.TimeLimit; band += req.Interval {
		budget := band.Minutes()

		var polygons []orb.Polygon
		switch req.Mode {
		case ModeContourLine:
			polygons = contourPolygons(withOrigin, budget)
		default:
			polygons = circlePolygons(withOrigin, budget)
		}
		c.Isochrones = append(c.Isochrones, Isochrone{TimeLimit: band, Polygons: polygons})
	}
	return c
}

const circleSegments = 24

// circlePolygons renders the union-of-disks display: one disk per
// reached stop, radius the leftover minutes at walking speed.
func circlePolygons(reached []reachedStop, budgetMinutes float64) []orb.Polygon {
	var out []orb.Polygon
	for _, rs := range reached {
		remaining := budgetMinutes - rs.offsetMinutes
		if remaining <= 0 {
			continue
		}
		radius := remaining * WalkingMetersPerMinute

		ring := make(orb.Ring, 0, circleSegments+1)
		for i := 0; i <= circleSegments; i++ {
			angle := 2 * math.Pi * float64(i) / circleSegments
			lat, lon := lv95ToWGS84(rs.east+radius*math.Cos(angle), rs.north+radius*math.Sin(angle))
			ring = append(ring, orb.Point{lon, lat})
		}
		out = append(out, orb.Polygon{ring})
	}
	return out
}
