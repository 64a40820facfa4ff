package mask

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// DefaultBrightness is the factor applied to grayscale pixels outside the
// boundary.
const DefaultBrightness = 0.8

// Apply returns a copy of img in which every pixel outside ring is converted
// to grayscale and multiplied by brightness. Pixels inside keep their color.
// The ring is filled with antialiasing, so edge pixels blend the two.
func Apply(img image.Image, ring []geom.Point, brightness float64) *image.RGBA {
	b := img.Bounds()
	muted := Mute(img, brightness)

	out := image.NewRGBA(b)
	draw.Draw(out, b, muted, b.Min, draw.Src)
	if len(geom.Open(ring)) < 3 {
		return out
	}
	draw.DrawMask(out, b, img, b.Min, Fill(b, ring), b.Min, draw.Over)
	return out
}

// Mute desaturates img and scales every channel by brightness.
func Mute(img image.Image, brightness float64) *image.NRGBA {
	gray := imaging.Grayscale(img)
	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scale(c.R, brightness),
			G: scale(c.G, brightness),
			B: scale(c.B, brightness),
			A: c.A,
		}
	})
}

// Fill rasterizes ring into an alpha mask the size of bounds.
func Fill(bounds image.Rectangle, ring []geom.Point) *image.Alpha {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	for i, p := range geom.Open(ring) {
		x, y := p.X-float64(bounds.Min.X), p.Y-float64(bounds.Min.Y)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetRGB(0, 0, 0)
	dc.Fill()

	m := dc.AsMask()
	if bounds.Min == (image.Point{}) {
		return m
	}
	m.Rect = m.Rect.Add(bounds.Min)
	return m
}

func scale(v uint8, f float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(float64(v)*f))))
}
