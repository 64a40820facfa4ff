package label

import (
	"math"
	"slices"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// Candidate is one possible anchor along a polyline.
type Candidate struct {
	// Start is the index of the first window point.
	Start  int
	Anchor geom.Point
	// Angle is the direction of the window in radians.
	Angle float64
	// Length is the straight-line length of the window, used as a
	// straightness score.
	Length float64
	// Inside is the fraction of window points inside the render polygon.
	Inside float64
}

// Candidates slides a window of window points along pts and keeps the
// windows at least minLength long with at least insideFraction of their
// points inside ring. When no window qualifies, the longest two-point
// segment is returned regardless of containment. Results are sorted by
// length, longest first.
func Candidates(pts []geom.Point, ring geom.Ring, window int, minLength, insideFraction float64) []Candidate {
	if window < 2 {
		window = 2
	}
	var out []Candidate
	for j := 0; j+window <= len(pts); j++ {
		a, b := pts[j], pts[j+window-1]
		c := segment(j, a, b)
		if c.Length < minLength {
			continue
		}
		inside := 0
		for _, p := range pts[j : j+window] {
			if ring.Contains(p) {
				inside++
			}
		}
		if float64(inside) < insideFraction*float64(window) {
			continue
		}
		c.Inside = float64(inside) / float64(window)
		out = append(out, c)
	}
	if len(out) == 0 {
		best := -1
		var bestLen float64
		for j := 0; j+1 < len(pts); j++ {
			if l := pts[j].Dist(pts[j+1]); l > bestLen {
				best, bestLen = j, l
			}
		}
		if best >= 0 {
			out = append(out, segment(best, pts[best], pts[best+1]))
		}
	}
	slices.SortStableFunc(out, func(x, y Candidate) int {
		switch {
		case x.Length > y.Length:
			return -1
		case x.Length < y.Length:
			return 1
		}
		return 0
	})
	return out
}

func segment(start int, a, b geom.Point) Candidate {
	d := b.Sub(a)
	return Candidate{
		Start:  start,
		Anchor: a.Lerp(b, 0.5),
		Angle:  math.Atan2(d.Y, d.X),
		Length: d.Len(),
	}
}

// TextAngle converts a direction in radians to a reading angle in degrees
// within [-90, 90], so text is never upside down.
func TextAngle(rad float64) float64 {
	deg := geom.Rad2Deg(rad)
	for deg > 90 {
		deg -= 180
	}
	for deg < -90 {
		deg += 180
	}
	return deg
}

// PolylineLength returns the summed segment length of pts.
func PolylineLength(pts []geom.Point) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i-1].Dist(pts[i])
	}
	return l
}

// textCorners returns the corners of a w x h box centred on anchor and
// rotated by rad.
func textCorners(anchor geom.Point, w, h, rad float64) [4]geom.Point {
	local := geom.RectAround(geom.Point{}, w, h).Corners()
	var out [4]geom.Point
	for i, c := range local {
		out[i] = c.Rotate(rad).Add(anchor)
	}
	return out
}

func cornersBounds(cs [4]geom.Point) geom.Rect {
	return geom.Bounds(cs[:])
}
