package isochrone

import (
	"math"
	"runtime"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// Contour rendering: lay a metric grid over the reached stops, compute
// the minutes needed to reach every grid corner (vehicle time to the
// stop plus walking time from it), and trace the boundary of the
// region within budget with marching squares.

const (
	// maxGridCells bounds one axis of the contour grid; the cell size
	// grows with the reachable area instead.
	maxGridCells = 256
	// minCellMeters keeps tiny queries from producing sub-walking-step
	// cells.
	minCellMeters = 50.0
)

type grid struct {
	minEast, maxNorth float64
	cell              float64
	nx, ny            int       // cells per axis
	minutes           []float64 // (nx+1) * (ny+1) corner values, row-major
}

func (g *grid) at(ix, iy int) float64 { return g.minutes[iy*(g.nx+1)+ix] }

// corner returns the LV95 position of grid corner (ix, iy). iy grows
// southward from the grid's north edge.
func (g *grid) corner(ix, iy int) (east, north float64) {
	return g.minEast + float64(ix)*g.cell, g.maxNorth - float64(iy)*g.cell
}

// buildGrid computes the time-to-reach field. Each corner is scored
// against every reached stop; rows fan out across a worker pool since
// the field is the dominant cost of a contour query and each row is
// independent.
func buildGrid(reached []reachedStop, budgetMinutes float64) *grid {
	maxRadius := budgetMinutes * WalkingMetersPerMinute

	minE, maxE := math.Inf(1), math.Inf(-1)
	minN, maxN := math.Inf(1), math.Inf(-1)
	for _, rs := range reached {
		minE = math.Min(minE, rs.east)
		maxE = math.Max(maxE, rs.east)
		minN = math.Min(minN, rs.north)
		maxN = math.Max(maxN, rs.north)
	}
	minE -= maxRadius
	maxE += maxRadius
	minN -= maxRadius
	maxN += maxRadius

	cell := math.Max(minCellMeters, math.Max(maxE-minE, maxN-minN)/maxGridCells)
	nx := int(math.Ceil((maxE-minE)/cell)) + 1
	ny := int(math.Ceil((maxN-minN)/cell)) + 1

	g := &grid{
		minEast:  minE,
		maxNorth: maxN,
		cell:     cell,
		nx:       nx,
		ny:       ny,
		minutes:  make([]float64, (nx+1)*(ny+1)),
	}

	var pool errgroup.Group
	pool.SetLimit(runtime.GOMAXPROCS(0))
	for iy := 0; iy <= ny; iy++ {
		iy := iy
		pool.Go(func() error {
			for ix := 0; ix <= nx; ix++ {
				east, north := g.corner(ix, iy)
				best := math.Inf(1)
				for _, rs := range reached {
					d := math.Hypot(east-rs.east, north-rs.north)
					if m := rs.offsetMinutes + d/WalkingMetersPerMinute; m < best {
						best = m
					}
				}
				g.minutes[iy*(g.nx+1)+ix] = best
			}
			return nil
		})
	}
	_ = pool.Wait()
	return g
}

// halfPoint is an edge midpoint in half-cell integer coordinates, the
// exact-match key ring chaining needs.
type halfPoint struct{ hx, hy int }

// contourPolygons traces the budget boundary with marching squares:
// per cell, directed boundary segments with the inside region kept to
// the left, then chained into closed rings.
func contourPolygons(reached []reachedStop, budgetMinutes float64) []orb.Polygon {
	if len(reached) == 0 {
		return nil
	}
	g := buildGrid(reached, budgetMinutes)

	inside := func(ix, iy int) bool { return g.at(ix, iy) <= budgetMinutes }

	next := make(map[halfPoint]halfPoint)
	addSegment := func(from, to halfPoint) { next[from] = to }

	for iy := 0; iy < g.ny; iy++ {
		for ix := 0; ix < g.nx; ix++ {
			code := 0
			if inside(ix, iy) {
				code |= 1 // top-left
			}
			if inside(ix+1, iy) {
				code |= 2 // top-right
			}
			if inside(ix+1, iy+1) {
				code |= 4 // bottom-right
			}
			if inside(ix, iy+1) {
				code |= 8 // bottom-left
			}

			top := halfPoint{2*ix + 1, 2 * iy}
			right := halfPoint{2*ix + 2, 2*iy + 1}
			bottom := halfPoint{2*ix + 1, 2*iy + 2}
			left := halfPoint{2 * ix, 2*iy + 1}

			switch code {
			case 1:
				addSegment(left, top)
			case 2:
				addSegment(top, right)
			case 3:
				addSegment(left, right)
			case 4:
				addSegment(right, bottom)
			case 5:
				addSegment(left, top)
				addSegment(right, bottom)
			case 6:
				addSegment(top, bottom)
			case 7:
				addSegment(left, bottom)
			case 8:
				addSegment(bottom, left)
			case 9:
				addSegment(bottom, top)
			case 10:
				addSegment(top, right)
				addSegment(bottom, left)
			case 11:
				addSegment(bottom, right)
			case 12:
				addSegment(right, left)
			case 13:
				addSegment(right, top)
			case 14:
				addSegment(top, left)
			}
		}
	}

	var polygons []orb.Polygon
	for start := range next {
		ring := orb.Ring{g.halfToWGS84(start)}
		p, ok := start, true
		for {
			p, ok = popSegment(next, p)
			if !ok {
				break
			}
			ring = append(ring, g.halfToWGS84(p))
			if p == start {
				break
			}
		}
		if len(ring) >= 4 && ring[0] == ring[len(ring)-1] {
			polygons = append(polygons, orb.Polygon{ring})
		}
	}
	return polygons
}

func popSegment(next map[halfPoint]halfPoint, from halfPoint) (halfPoint, bool) {
	to, ok := next[from]
	if ok {
		delete(next, from)
	}
	return to, ok
}

func (g *grid) halfToWGS84(p halfPoint) orb.Point {
	east := g.minEast + float64(p.hx)*g.cell/2
	north := g.maxNorth - float64(p.hy)*g.cell/2
	lat, lon := lv95ToWGS84(east, north)
	return orb.Point{lon, lat}
}
