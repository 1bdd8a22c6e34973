package zones

import (
	"errors"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrInvalidPoint is returned when the point to resolve is not a usable
// coordinate. It is a caller error, never a lookup failure.
var ErrInvalidPoint = errors.New("invalid point")

// Resolve returns the first zone in zs whose polygon contains p, or nil when
// none does. Zones with fewer than three vertices, non-finite vertices or zero
// area are skipped. Points on an edge or vertex are inside, which is the
// convention of planar.RingContains.
//
// Zone boundaries are expected to be simple rings. Area is the signed net
// area, so a self-intersecting ring whose lobes cancel out (a symmetric
// bowtie) counts as zero area and is skipped too.
//
// The returned pointer aliases zs; zs itself is never modified.
func Resolve(p Point, zs []Zone) (*Zone, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pt := toOrb(p)
	for i := range zs {
		ring, ok := zs[i].Polygon.ring()
		if !ok {
			continue
		}
		if planar.RingContains(ring, pt) {
			return &zs[i], nil
		}
	}
	return nil, nil
}

// ResolveAll returns every zone containing p, in input order.
func ResolveAll(p Point, zs []Zone) ([]*Zone, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pt := toOrb(p)
	var hits []*Zone
	for i := range zs {
		ring, ok := zs[i].Polygon.ring()
		if !ok {
			continue
		}
		if planar.RingContains(ring, pt) {
			hits = append(hits, &zs[i])
		}
	}
	return hits, nil
}

// ActiveOrdered returns the active zones of zs in resolution order, sort_order
// then code, which is the order ListActive reads them from storage. zs is not
// modified.
func ActiveOrdered(zs []Zone) []Zone {
	out := make([]Zone, 0, len(zs))
	for _, z := range zs {
		if z.Active {
			out = append(out, z)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Closed returns a copy of p whose last vertex equals its first. Polygons with
// fewer than three vertices are copied unchanged.
func (p Polygon) Closed() Polygon {
	out := make(Polygon, len(p), len(p)+1)
	copy(out, p)
	if len(p) < 3 || p.isClosed() {
		return out
	}
	return append(out, p[0])
}

// Valid reports whether the polygon can take part in resolution.
func (p Polygon) Valid() bool {
	_, ok := p.ring()
	return ok
}

func (p Polygon) isClosed() bool {
	return len(p) > 1 && p[0] == p[len(p)-1]
}

// vertices counts distinct ring positions, ignoring an explicit closing vertex.
func (p Polygon) vertices() int {
	if p.isClosed() {
		return len(p) - 1
	}
	return len(p)
}

// ring converts to the closed orb ring with x=lng, y=lat.
func (p Polygon) ring() (orb.Ring, bool) {
	if p.vertices() < 3 {
		return nil, false
	}
	for _, c := range p {
		if !c.finite() {
			return nil, false
		}
	}

	closed := p.Closed()
	ring := make(orb.Ring, len(closed))
	for i, c := range closed {
		ring[i] = orb.Point{c.Lng, c.Lat}
	}
	if math.Abs(planar.Area(ring)) == 0 {
		return nil, false
	}
	return ring, true
}

func toOrb(p Point) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
