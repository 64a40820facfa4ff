// Package orient chooses the page rotation for a boundary polygon.
//
// The solver takes the convex hull of the boundary, finds the minimum-area
// bounding rectangle with rotating calipers and then decides whether a
// further quarter turn brings the rectangle closer to the page aspect ratio.
//
// Angles are in degrees and normalized into (-90, 90]. Input points are in
// a y-up frame (longitude-corrected degrees); applying the returned angle as
// a canvas rotation in a y-down frame aligns the rectangle with the page.
//
//	res := orient.Solve(pts, 2500.0/3250.0)
//	fmt.Println(res.Angle, res.Rotated)
package orient
