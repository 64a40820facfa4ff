// Package mask finishes a rendered map: it mutes everything outside the
// boundary and computes the offset ring the boundary outline is stroked on.
package mask

import (
	"math"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// DefaultMiterLimit caps a vertex offset at this multiple of the requested
// offset.
const DefaultMiterLimit = 5.0

// Offset returns ring pushed outwards by offset pixels. Each vertex moves
// along the bisector of its two edge normals by offset/cos(turn/2), which is
// offset/sin(half the interior angle), capped at offset*miterLimit. Rings
// with fewer than three points are returned as a copy.
func Offset(ring []geom.Point, offset, miterLimit float64) []geom.Point {
	ring = geom.Open(ring)
	n := len(ring)
	out := make([]geom.Point, n)
	copy(out, ring)
	if n < 3 || offset == 0 {
		return out
	}
	if miterLimit <= 0 {
		miterLimit = DefaultMiterLimit
	}

	// (dy, -dx) points outwards for a ring with positive shoelace area.
	sign := 1.0
	if geom.SignedArea(ring) < 0 {
		sign = -1
	}
	normal := func(a, b geom.Point) geom.Point {
		e := b.Sub(a).Unit()
		return geom.Pt(e.Y, -e.X).Mul(sign)
	}

	maxDist := offset * miterLimit
	for i := range n {
		prev, cur, next := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
		n1, n2 := normal(prev, cur), normal(cur, next)
		switch {
		case n1 == (geom.Point{}):
			n1 = n2
		case n2 == (geom.Point{}):
			n2 = n1
		}

		bisector := n1.Add(n2).Unit()
		if bisector == (geom.Point{}) {
			// Edges fold back on themselves.
			out[i] = cur.Add(n1.Mul(offset))
			continue
		}
		cosHalf := bisector.Dot(n1)
		dist := maxDist
		if cosHalf > geom.Epsilon {
			dist = math.Min(offset/cosHalf, maxDist)
		}
		out[i] = cur.Add(bisector.Mul(dist))
	}
	return out
}
