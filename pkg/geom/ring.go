package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Ring is a closed polygon ring in pixel space. Closure is implicit. It
// caches an orb ring and its bound so repeated containment tests stay cheap.
type Ring struct {
	pts   []Point
	ring  orb.Ring
	bound Rect
}

// NewRing builds a ring from pts. A repeated closing point is dropped.
func NewRing(pts []Point) Ring {
	pts = Open(pts)
	r := Ring{pts: pts, bound: Bounds(pts)}
	r.ring = make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r.ring = append(r.ring, orb.Point{p.X, p.Y})
	}
	if len(pts) > 0 {
		r.ring = append(r.ring, orb.Point{pts[0].X, pts[0].Y})
	}
	return r
}

// Open drops a trailing point equal to the first one.
func Open(pts []Point) []Point {
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		return pts[:n-1]
	}
	return pts
}

// Points returns the ring vertices without the closing point.
func (r Ring) Points() []Point { return r.pts }

// Len returns the number of distinct vertices.
func (r Ring) Len() int { return len(r.pts) }

// Bounds returns the bounding box of the ring.
func (r Ring) Bounds() Rect { return r.bound }

// Contains reports whether p is inside r or on its boundary. Rings with
// fewer than three vertices contain nothing.
func (r Ring) Contains(p Point) bool {
	if len(r.pts) < 3 || !r.bound.Contains(p) {
		return false
	}
	return planar.RingContains(r.ring, orb.Point{p.X, p.Y})
}

// SignedArea returns the shoelace area: positive when the ring winds
// counter-clockwise in a y-up frame.
func SignedArea(pts []Point) float64 {
	var a float64
	n := len(pts)
	for i := range n {
		j := (i + 1) % n
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

// Area returns the absolute ring area.
func (r Ring) Area() float64 {
	return math.Abs(SignedArea(r.pts))
}

// Centroid returns the area centroid, or the vertex mean for a ring with
// zero area.
func (r Ring) Centroid() Point {
	n := len(r.pts)
	if n == 0 {
		return Point{}
	}
	a := SignedArea(r.pts)
	if math.Abs(a) < Epsilon {
		var c Point
		for _, p := range r.pts {
			c = c.Add(p)
		}
		return c.Mul(1 / float64(n))
	}
	var cx, cy float64
	for i := range n {
		p, q := r.pts[i], r.pts[(i+1)%n]
		f := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * f
		cy += (p.Y + q.Y) * f
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// BoundaryDist returns the distance from p to the nearest ring edge.
func (r Ring) BoundaryDist(p Point) float64 {
	n := len(r.pts)
	switch n {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(r.pts[0])
	}
	best := math.Inf(1)
	for i := range n {
		best = math.Min(best, SegmentDist(p, r.pts[i], r.pts[(i+1)%n]))
	}
	return best
}

// Transform returns a new ring with every vertex mapped by m.
func (r Ring) Transform(m Affine) Ring {
	return NewRing(m.ApplyAll(r.pts))
}
