package document

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/smapshot/pkg/errors"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	return img
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(testImage(4, 3))
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
}

func TestImageRect(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH float64
	}{
		{"tall", 2500, 3250, 575, 747.5},
		{"narrow", 100, 1000, 77.2, 772},
		{"wide", 1000, 100, 575, 57.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := ImageRect(tt.w, tt.h)
			if math.Abs(w-tt.wantW) > 1e-6 || math.Abs(h-tt.wantH) > 1e-6 {
				t.Errorf("size = %vx%v, want %vx%v", w, h, tt.wantW, tt.wantH)
			}
			if x < PageMargin || x+w > PageWidth-PageMargin+1e-9 {
				t.Errorf("x range [%v, %v] leaves the page", x, x+w)
			}
			if y < PageMargin+HeaderHeight || y+h > PageHeight-PageMargin+1e-9 {
				t.Errorf("y range [%v, %v] overlaps header or margin", y, y+h)
			}
		})
	}
}

func TestComposeSVG(t *testing.T) {
	date := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svg, err := ComposeSVG(testImage(10, 10), Page{Source: "KML", Title: "Fish & Chips", Date: date})
	if err != nil {
		t.Fatalf("ComposeSVG() error = %v", err)
	}
	s := string(svg)
	for _, want := range []string{
		`width="595pt"`,
		"Map from KML: Fish &amp; Chips",
		"Generated: 2024-05-01 09:30",
		"data:image/png;base64,",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestComposePDFUnavailable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := ComposePDF(context.Background(), testImage(20, 30), Page{Title: "test"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ComposePDF() without rsvg-convert error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestComposePDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ComposePDF(context.Background(), testImage(20, 30), Page{Title: "test"})
	if err != nil {
		t.Fatalf("ComposePDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF")
	}
}
