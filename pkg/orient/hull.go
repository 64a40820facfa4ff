package orient

import (
	"sort"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// ConvexHull returns the convex hull of pts in counter-clockwise order
// (y-up), starting at the lowest point. Collinear boundary points are
// dropped. Inputs of three points or fewer are returned as a copy.
func ConvexHull(pts []geom.Point) []geom.Point {
	if len(pts) <= 3 {
		out := make([]geom.Point, len(pts))
		copy(out, pts)
		return out
	}

	sorted := make([]geom.Point, len(pts))
	copy(sorted, pts)

	lo := 0
	for i, p := range sorted {
		if p.Y < sorted[lo].Y || (p.Y == sorted[lo].Y && p.X < sorted[lo].X) {
			lo = i
		}
	}
	sorted[0], sorted[lo] = sorted[lo], sorted[0]
	pivot := sorted[0]

	rest := sorted[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		c := geom.Cross(pivot, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		return pivot.Dist(rest[i]) < pivot.Dist(rest[j])
	})

	hull := make([]geom.Point, 0, len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && geom.Cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}
