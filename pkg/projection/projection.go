// Package projection maps geographic coordinates onto the output canvas.
//
// Two frames are involved. The working frame is an equirectangular pixel
// grid over the padded download region: longitude is scaled by the cosine
// of the region's mean latitude and y grows southwards. The canvas frame is
// the working frame rotated about the boundary's center and scaled to fit
// the page. One affine transform connects them.
package projection

import (
	"math"

	"github.com/matzehuels/smapshot/pkg/geo"
	"github.com/matzehuels/smapshot/pkg/geom"
)

// DefaultRegionScale is the pixels-per-degree used when the boundary has no
// extent in either direction.
const DefaultRegionScale = 100000.0

// Params describe the output page.
type Params struct {
	CanvasWidth  int
	CanvasHeight int
	// Margin is the fraction of each canvas side left empty, e.g. 0.1.
	Margin float64
	// Angle is the canvas rotation in degrees from the orientation solver.
	Angle float64
}

// Projection holds the scales and transform for one render job. It is
// immutable after New.
type Projection struct {
	region        geo.BoundingBox
	lonCorrection float64
	scale         float64
	fitScale      float64
	center        geom.Point
	workW, workH  int
	toCanvas      geom.Affine
	fromCanvas    geom.Affine
}

// New builds the projection for boundary drawn inside region.
func New(region geo.BoundingBox, boundary geo.Polygon, p Params) *Projection {
	pr := &Projection{
		region:        region,
		lonCorrection: math.Cos(geom.Deg2Rad((region.North + region.South) / 2)),
	}
	pr.scale = RegionScale(boundary.Bounds(), pr.lonCorrection, p)
	pr.workW = int(math.Ceil(region.Width() * pr.lonCorrection * pr.scale))
	pr.workH = int(math.Ceil(region.Height() * pr.scale))

	ring := make([]geom.Point, len(boundary))
	for i, gp := range boundary {
		ring[i] = pr.GeoToPixel(gp.Lon, gp.Lat)
	}
	pr.center = geom.Bounds(ring).Center()
	if len(ring) == 0 {
		pr.center = geom.Pt(float64(pr.workW)/2, float64(pr.workH)/2)
	}
	pr.fitScale = FitScale(ring, pr.center, p)

	cx, cy := float64(p.CanvasWidth)/2, float64(p.CanvasHeight)/2
	pr.toCanvas = geom.Translate(-pr.center.X, -pr.center.Y).
		Then(geom.Scale(pr.fitScale, pr.fitScale)).
		Then(geom.Rotate(geom.Deg2Rad(p.Angle))).
		Then(geom.Translate(cx, cy))
	pr.fromCanvas, _ = pr.toCanvas.Invert()
	return pr
}

// RegionScale returns pixels per degree of latitude such that the boundary
// box fits the effective canvas. A missing extent on one axis defers to the
// other; none on either yields DefaultRegionScale.
func RegionScale(b geo.BoundingBox, lonCorrection float64, p Params) float64 {
	effW := float64(p.CanvasWidth) * (1 - p.Margin)
	effH := float64(p.CanvasHeight) * (1 - p.Margin)
	lonSpan := b.Width() * lonCorrection
	latSpan := b.Height()

	sx, sy := math.Inf(1), math.Inf(1)
	if lonSpan > 0 {
		sx = effW / lonSpan
	}
	if latSpan > 0 {
		sy = effH / latSpan
	}
	s := math.Min(sx, sy)
	if math.IsInf(s, 0) || math.IsNaN(s) || s <= 0 {
		return DefaultRegionScale
	}
	return s
}

// FitScale returns the factor that fits ring, rotated by p.Angle about
// center, into the effective canvas. It falls back to the unrotated box when
// the rotated one has no area, and to 1 when both are degenerate.
func FitScale(ring []geom.Point, center geom.Point, p Params) float64 {
	effW := float64(p.CanvasWidth) * (1 - p.Margin)
	effH := float64(p.CanvasHeight) * (1 - p.Margin)

	rot := geom.Translate(-center.X, -center.Y).Then(geom.Rotate(geom.Deg2Rad(p.Angle)))
	if s, ok := fit(geom.Bounds(rot.ApplyAll(ring)), effW, effH); ok {
		return s
	}
	if s, ok := fit(geom.Bounds(ring), effW, effH); ok {
		return s
	}
	return 1
}

func fit(b geom.Rect, w, h float64) (float64, bool) {
	if b.Area() <= geom.Epsilon {
		return 0, false
	}
	s := math.Min(w/b.Width(), h/b.Height())
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 0, false
	}
	return s, true
}

// GeoToPixel maps a coordinate into the working frame. North maps to
// smaller y.
func (p *Projection) GeoToPixel(lon, lat float64) geom.Point {
	return geom.Point{
		X: (lon - p.region.West) * p.lonCorrection * p.scale,
		Y: (p.region.North - lat) * p.scale,
	}
}

// PixelToGeo inverts GeoToPixel.
func (p *Projection) PixelToGeo(pt geom.Point) (lon, lat float64) {
	lon = pt.X/(p.lonCorrection*p.scale) + p.region.West
	lat = p.region.North - pt.Y/p.scale
	return lon, lat
}

// GeoToCanvas maps a coordinate onto the output canvas.
func (p *Projection) GeoToCanvas(lon, lat float64) geom.Point {
	return p.toCanvas.Apply(p.GeoToPixel(lon, lat))
}

// CanvasToGeo inverts GeoToCanvas.
func (p *Projection) CanvasToGeo(pt geom.Point) (lon, lat float64) {
	return p.PixelToGeo(p.fromCanvas.Apply(pt))
}

// Project maps a polygon onto the canvas.
func (p *Projection) Project(poly geo.Polygon) []geom.Point {
	out := make([]geom.Point, len(poly))
	for i, gp := range poly {
		out[i] = p.GeoToCanvas(gp.Lon, gp.Lat)
	}
	return out
}

// Transform returns the working-to-canvas transform.
func (p *Projection) Transform() geom.Affine { return p.toCanvas }

// Scale returns the region scale in pixels per degree of latitude.
func (p *Projection) Scale() float64 { return p.scale }

// FitScale returns the fit-to-page factor.
func (p *Projection) FitScale() float64 { return p.fitScale }

// LonCorrection returns cos(mean latitude of the region).
func (p *Projection) LonCorrection() float64 { return p.lonCorrection }

// WorkingSize returns the working bitmap dimensions.
func (p *Projection) WorkingSize() (w, h int) { return p.workW, p.workH }

// InWorkingRegion reports whether a working-frame point lies on the working bitmap.
func (p *Projection) InWorkingRegion(pt geom.Point) bool {
	return pt.X >= 0 && pt.Y >= 0 && pt.X <= float64(p.workW) && pt.Y <= float64(p.workH)
}
