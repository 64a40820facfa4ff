package orient

import (
	"math"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// LineLikeMaxPoints is the input size below which a hull of at most two
// points is treated as a line rather than a flat rectangle.
const LineLikeMaxPoints = 5

// Result is the outcome of Solve.
type Result struct {
	// Angle is the canvas rotation in degrees, in (-90, 90].
	Angle float64
	// Width and Height describe the minimum-area rectangle after any
	// quarter turn was applied.
	Width, Height float64
	// LineLike is set when the boundary collapsed to a line.
	LineLike bool
	// Rotated is set when a quarter turn was added to match the page.
	Rotated bool
}

// Solve returns the rotation that best fits pts onto a page with the given
// width/height ratio. Degenerate inputs never fail: no points, a single
// point or a zero-area rectangle return the unrotated calipers angle.
func Solve(pts []geom.Point, targetRatio float64) Result {
	hull := ConvexHull(pts)

	if len(hull) <= 2 && len(pts) < LineLikeMaxPoints {
		return solveLine(pts)
	}
	if len(hull) <= 1 {
		return Result{}
	}

	rect := MinAreaRect(hull)
	res := Result{Angle: Normalize(rect.Angle), Width: rect.Width, Height: rect.Height}
	if !validSide(rect.Width) || !validSide(rect.Height) || !validSide(targetRatio) {
		return res
	}

	current := math.Abs(rect.Width/rect.Height - targetRatio)
	swapped := math.Abs(rect.Height/rect.Width - targetRatio)
	if swapped < current {
		res.Angle = Normalize(rect.Angle + 90)
		res.Width, res.Height = rect.Height, rect.Width
		res.Rotated = true
	}
	return res
}

func solveLine(pts []geom.Point) Result {
	res := Result{LineLike: true}
	if len(pts) < 2 {
		return res
	}
	first, last := pts[0], pts[len(pts)-1]
	d := last.Sub(first)
	if d.Len() < geom.Epsilon {
		return res
	}
	angle := geom.Rad2Deg(math.Atan2(d.Y, d.X))
	if closerToHorizontal(angle) {
		angle += 90
		res.Rotated = true
	}
	res.Angle = Normalize(angle)
	res.Width = d.Len()
	return res
}

// closerToHorizontal reports whether a direction in degrees is nearer the x
// axis than the y axis.
func closerToHorizontal(deg float64) bool {
	a := math.Abs(Normalize(deg))
	return a < 45
}

func validSide(v float64) bool {
	return v > geom.Epsilon && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Normalize maps deg into (-90, 90]. Rectangles and lines are symmetric
// under a half turn, so this never changes the fitted orientation.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 180)
	if deg > 90 {
		deg -= 180
	} else if deg <= -90 {
		deg += 180
	}
	return deg
}
