package render

import (
	"image"
	"image/color"
	"image/draw"
	"slices"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/smapshot/pkg/feature"
	"github.com/matzehuels/smapshot/pkg/geom"
	"github.com/matzehuels/smapshot/pkg/mask"
	"github.com/matzehuels/smapshot/pkg/style"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// drawOrder lists road categories from the bottom of the stack to the top.
// Unknown categories are drawn first.
var drawOrder = []string{
	"service", "residential", "unclassified", "tertiary", "secondary", "primary", "trunk", "motorway",
}

func drawRank(category string) int {
	return slices.Index(drawOrder, strings.TrimSuffix(category, "_link"))
}

// OutlineWidth returns the casing width for a road of width w.
func OutlineWidth(w float64) float64 {
	if w <= 2 {
		return w + 0.5
	}
	return w + 2
}

// WaterwayWidth returns the stroke width of a waterway before scaling. A
// parsed width tag wins; otherwise the category sets a minimum over base.
func WaterwayWidth(w feature.Waterway, base float64) float64 {
	if w.Width > 0 {
		return w.Width
	}
	switch w.Category {
	case "river":
		return max(base, 4)
	case "canal":
		return max(base, 3)
	case "stream":
		return max(base, 2)
	}
	return max(base, 1.5)
}

func (j *job) draw() (*image.RGBA, error) {
	st := j.e.style
	dc := gg.NewContext(j.e.opts.Width, j.e.opts.Height)
	dc.SetColor(style.Opaque(st.Background, white))
	dc.Clear()
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	j.drawWaterBodies(dc)
	j.drawWaterways(dc)
	j.drawBuildings(dc)
	j.drawRoads(dc)

	return toRGBA(dc.Image()), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func tracePath(dc *gg.Context, pts []geom.Point, closed bool) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
}

func (j *job) fillArea(dc *gg.Context, pts []geom.Point, a style.AreaStyle) {
	if len(pts) < 3 {
		return
	}
	tracePath(dc, pts, true)
	dc.SetColor(style.Opaque(a.Fill, white))
	if a.Stroke == "" || a.StrokeWidth <= 0 {
		dc.Fill()
		return
	}
	dc.FillPreserve()
	dc.SetColor(style.Opaque(a.Stroke, black))
	dc.SetLineWidth(a.StrokeWidth * j.out.FitScale)
	dc.Stroke()
}

func (j *job) drawWaterBodies(dc *gg.Context) {
	for _, w := range j.in.Features.WaterBodies() {
		j.fillArea(dc, j.points(w.NodeIDs), j.e.style.Water)
	}
}

func (j *job) drawBuildings(dc *gg.Context) {
	for _, b := range j.in.Features.Buildings() {
		j.fillArea(dc, j.points(b.NodeIDs), j.e.style.Building)
	}
}

func (j *job) drawWaterways(dc *gg.Context) {
	ws := j.e.style.Waterway
	dc.SetColor(style.Color(ws.Color, 230, white))
	for _, w := range j.in.Features.Waterways() {
		pts := j.points(w.NodeIDs)
		if len(pts) < 2 {
			continue
		}
		tracePath(dc, pts, false)
		dc.SetLineWidth(WaterwayWidth(w, ws.Width) * j.out.FitScale)
		dc.Stroke()
	}
}

// drawRoads strokes the kept roads in two passes, casings first, from the
// least to the most important category.
func (j *job) drawRoads(dc *gg.Context) {
	kept := slices.Clone(j.net.Kept())
	slices.SortStableFunc(kept, func(a, b int) int {
		return drawRank(j.roads[a].Category) - drawRank(j.roads[b].Category)
	})

	paths := make([][]geom.Point, len(kept))
	for i, idx := range kept {
		paths[i] = j.points(j.roads[idx].NodeIDs)
	}
	for _, casing := range []bool{true, false} {
		for i, idx := range kept {
			pts := paths[i]
			if len(pts) < 2 {
				continue
			}
			rs := j.e.style.Road(j.roads[idx].Category)
			w := rs.Width
			c := style.Opaque(rs.Color, white)
			if casing {
				w = OutlineWidth(w)
				c = style.Opaque(rs.Outline, black)
			}
			tracePath(dc, pts, false)
			dc.SetColor(c)
			dc.SetLineWidth(w * j.out.FitScale)
			dc.Stroke()
		}
	}
}

func (j *job) outline(img *image.RGBA) error {
	ol := j.e.style.Outline
	if ol.Width <= 0 || len(j.out.Outline) < 2 {
		return nil
	}
	ring := mask.Offset(j.out.Outline, ol.Width/2, mask.DefaultMiterLimit)
	dc := gg.NewContextForRGBA(img)
	dc.SetLineJoin(gg.LineJoinRound)
	tracePath(dc, ring, true)
	dc.SetColor(style.Opaque(ol.Color, black))
	dc.SetLineWidth(ol.Width)
	dc.Stroke()
	return nil
}
