package orient

import (
	"math"

	"github.com/matzehuels/smapshot/pkg/geom"
)

const (
	// minEdge is the shortest hull edge the calipers consider.
	minEdge = 1e-12

	// tieTolerance is the relative area difference treated as a tie, so
	// rounding in the rotation cannot override first-found order.
	tieTolerance = 1e-9
)

// Rect is a minimum-area bounding rectangle. Angle is the direction, in
// degrees, of the hull edge the rectangle is aligned with.
type Rect struct {
	Angle  float64
	Width  float64
	Height float64
}

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// MinAreaRect runs rotating calipers over hull. For every edge it rotates the
// hull so the edge lies on the x axis and measures the axis-aligned box. The
// smallest area wins and the first edge found wins ties. A hull with fewer
// than two points yields the zero Rect.
func MinAreaRect(hull []geom.Point) Rect {
	n := len(hull)
	if n <= 1 {
		return Rect{}
	}

	best := Rect{}
	bestArea := math.Inf(1)
	for i := range n {
		a, b := hull[i], hull[(i+1)%n]
		edge := b.Sub(a)
		if edge.Len() < minEdge {
			continue
		}
		theta := math.Atan2(edge.Y, edge.X)

		box := geom.EmptyRect()
		for _, p := range hull {
			box = box.Extend(p.Rotate(-theta))
		}
		if area := box.Area(); area < bestArea*(1-tieTolerance) || math.IsInf(bestArea, 1) {
			bestArea = area
			best = Rect{Angle: geom.Rad2Deg(theta), Width: box.Width(), Height: box.Height()}
		}
	}
	return best
}
