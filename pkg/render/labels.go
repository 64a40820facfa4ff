package render

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/smapshot/pkg/geom"
	"github.com/matzehuels/smapshot/pkg/label"
	"github.com/matzehuels/smapshot/pkg/style"
)

// haloOffsets approximate a text stroke by redrawing around the anchor.
var haloOffsets = []geom.Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

func (j *job) labelOptions() label.Options {
	st := j.e.style
	opts := j.e.opts.Labels
	opts.RoadFace = label.Face{Size: st.RoadLabel.FontSize, Italic: st.RoadLabel.Italic}
	opts.WaterFace = label.Face{Size: st.WaterLabel.FontSize, Italic: st.WaterLabel.Italic}
	opts.PlaceFace = label.Face{Size: st.PlaceLabel.FontSize, Italic: st.PlaceLabel.Italic}
	if opts.Padding == 0 {
		opts.Padding = st.RoadLabel.Padding
	}
	return opts
}

// labels places road, water and place labels in that order and draws them
// onto img.
func (j *job) labels(img *image.RGBA) error {
	p := label.NewPlacer(j.ring, j.e.fonts, j.labelOptions())

	kept := j.net.Kept()
	lines := make([]label.Line, 0, len(kept))
	for _, i := range kept {
		r := j.roads[i]
		lines = append(lines, label.Line{
			Points:     j.points(r.NodeIDs),
			Category:   r.Category,
			Text:       r.Label(),
			Roundabout: r.Roundabout(),
		})
	}
	p.PlaceRoads(lines)

	var areas []label.Area
	for _, w := range j.in.Features.WaterBodies() {
		areas = append(areas, label.Area{Ring: j.points(w.NodeIDs), Name: w.Name})
	}
	p.PlaceWaterBodies(areas)

	var spots []label.Spot
	for _, pl := range j.in.Features.Places() {
		spots = append(spots, label.Spot{
			Pos:      j.proj.GeoToCanvas(pl.Lon, pl.Lat),
			Name:     pl.Name,
			Category: pl.Category,
		})
	}
	p.PlacePlaces(spots)

	j.out.Labels = p.Labels()
	return j.drawLabels(gg.NewContextForRGBA(img), j.out.Labels)
}

func (j *job) labelStyle(k label.Kind) style.LabelStyle {
	switch k {
	case label.KindWater:
		return j.e.style.WaterLabel
	case label.KindPlace:
		return j.e.style.PlaceLabel
	}
	return j.e.style.RoadLabel
}

func (j *job) drawLabels(dc *gg.Context, labels []label.Placed) error {
	faces := make(map[label.Face]font.Face)
	for _, l := range labels {
		face, ok := faces[l.Face]
		if !ok {
			var err error
			if face, err = j.e.fonts.NewFace(l.Face); err != nil {
				return err
			}
			faces[l.Face] = face
		}
		drawLabel(dc, l, face, j.labelStyle(l.Kind))
	}
	return nil
}

func drawLabel(dc *gg.Context, l label.Placed, face font.Face, ls style.LabelStyle) {
	x, y := l.Anchor.X, l.Anchor.Y
	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(geom.Deg2Rad(l.Angle), x, y)
	dc.SetFontFace(face)

	if ls.Background != "" && ls.Opacity > 0 {
		dc.SetColor(style.Color(ls.Background, ls.Opacity, white))
		dc.DrawRoundedRectangle(x-l.Width/2, y-l.Height/2, l.Width, l.Height, ls.CornerRadius)
		dc.Fill()
	}
	if ls.Halo != "" && ls.HaloWidth > 0 {
		dc.SetColor(style.Color(ls.Halo, 230, white))
		for _, o := range haloOffsets {
			dc.DrawStringAnchored(l.Text, x+o.X*ls.HaloWidth, y+o.Y*ls.HaloWidth, 0.5, 0.5)
		}
	}
	dc.SetColor(style.Opaque(ls.Color, black))
	dc.DrawStringAnchored(l.Text, x, y, 0.5, 0.5)
}
