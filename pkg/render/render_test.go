package render

import (
	"context"
	"math"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/feature"
	"github.com/matzehuels/smapshot/pkg/geo"
	"github.com/matzehuels/smapshot/pkg/geom"
	"github.com/matzehuels/smapshot/pkg/label"
	"github.com/matzehuels/smapshot/pkg/style"
)

type testFonts struct{}

func (testFonts) Measure(text string, f label.Face) (float64, float64) {
	return float64(len(text)) * f.Size * 0.6, f.Size
}

func (testFonts) NewFace(label.Face) (font.Face, error) { return basicfont.Face7x13, nil }

func unitSquare() geo.Polygon {
	return geo.NewPolygon([]geo.GeoPoint{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0}, {Lat: 0, Lon: 0},
	})
}

func squareFeatures() *feature.Set {
	s := feature.NewSet()
	s.Nodes.Add(feature.MapNode{ID: 1, Lat: 0.1, Lon: 0.5})
	s.Nodes.Add(feature.MapNode{ID: 2, Lat: 0.9, Lon: 0.5})
	s.Add(feature.Road{NodeIDs: []int64{1, 2}, Category: "primary", Name: "Main St"})
	return s
}

func newTestEngine() *Engine {
	return NewEngine(style.Default(), testFonts{}, Options{Width: 1000, Height: 1000})
}

func TestRenderUnitSquare(t *testing.T) {
	poly := unitSquare()
	out, err := newTestEngine().Render(context.Background(), Input{
		Boundary: poly,
		Region:   poly.Bounds(),
		Features: squareFeatures(),
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if out.Orientation.Angle != 0 {
		t.Errorf("angle = %v, want 0", out.Orientation.Angle)
	}
	if b := out.Image.Bounds(); b.Dx() != 1000 || b.Dy() != 1000 {
		t.Errorf("image bounds = %v, want 1000x1000", b)
	}
	if out.Network.Kept != 1 {
		t.Errorf("kept roads = %d, want 1", out.Network.Kept)
	}
	if len(out.Labels) != 1 {
		t.Fatalf("labels = %d, want 1", len(out.Labels))
	}
	l := out.Labels[0]
	if !geom.NewRing(out.Outline).Contains(l.Anchor) {
		t.Errorf("label anchor %v outside the boundary", l.Anchor)
	}
	if math.Abs(math.Abs(l.Angle)-90) > 1e-6 {
		t.Errorf("label angle = %v, want +-90", l.Angle)
	}
	if l.Text != "Main St" {
		t.Errorf("label text = %q", l.Text)
	}

	// The corner lies outside the boundary and is muted to gray.
	c := out.Image.RGBAAt(5, 5)
	if c.R != c.G || c.G != c.B {
		t.Errorf("pixel (5,5) = %v, want gray", c)
	}
	for _, stage := range []string{"orient", "project", "network", "draw", "labels", "mask", "outline"} {
		if _, ok := out.Stages[stage]; !ok {
			t.Errorf("stage %q not recorded", stage)
		}
	}
}

func TestRenderDropsDisconnectedRoads(t *testing.T) {
	s := squareFeatures()
	s.Nodes.Add(feature.MapNode{ID: 3, Lat: 0.2, Lon: 0.2})
	s.Nodes.Add(feature.MapNode{ID: 4, Lat: 0.3, Lon: 0.2})
	s.Add(feature.Road{NodeIDs: []int64{3, 4}, Category: "tertiary", Name: "Lonely Ln"})

	poly := unitSquare()
	out, err := newTestEngine().Render(context.Background(), Input{Boundary: poly, Region: poly.Bounds(), Features: s})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Network.Roads != 2 || out.Network.Kept != 1 {
		t.Errorf("network = %+v, want 1 of 2 roads kept", out.Network)
	}
	for _, l := range out.Labels {
		if l.Text == "Lonely Ln" {
			t.Error("dropped road was labelled")
		}
	}
}

func TestRenderValidation(t *testing.T) {
	poly := unitSquare()
	tests := []struct {
		name string
		eng  *Engine
		in   Input
		code errors.Code
	}{
		{"empty boundary", newTestEngine(), Input{Features: feature.NewSet()}, errors.ErrCodeInvalidBoundary},
		{"nan boundary", newTestEngine(), Input{Boundary: geo.Polygon{{Lat: math.NaN()}}, Features: feature.NewSet()}, errors.ErrCodeInvalidBoundary},
		{"nil features", newTestEngine(), Input{Boundary: poly}, errors.ErrCodeNoFeatures},
		{"huge canvas", NewEngine(style.Default(), testFonts{}, Options{Width: 50000, Height: 10}), Input{Boundary: poly, Features: feature.NewSet()}, errors.ErrCodeInvalidCanvas},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.eng.Render(context.Background(), tt.in)
			if !errors.Is(err, tt.code) {
				t.Errorf("Render() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	poly := unitSquare()
	_, err := newTestEngine().Render(ctx, Input{Boundary: poly, Features: squareFeatures()})
	if err != context.Canceled {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRenderDegenerateBoundary(t *testing.T) {
	a, b := geo.GeoPoint{Lat: 10, Lon: 10}, geo.GeoPoint{Lat: 10, Lon: 10.01}
	tests := []struct {
		name     string
		boundary geo.Polygon
	}{
		{"open", geo.Polygon{a, b}},
		{"closed", geo.Polygon{a, b, a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewEngine(style.Default(), testFonts{}, Options{Width: 200, Height: 300, NoLabels: true}).
				Render(context.Background(), Input{Boundary: tt.boundary, Features: feature.NewSet()})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !out.Orientation.LineLike || out.Orientation.Angle != 90 {
				t.Errorf("orientation = %+v, want a vertical line", out.Orientation)
			}
			if out.Image == nil || out.Image.Bounds().Dx() != 200 {
				t.Errorf("image = %v, want 200 wide", out.Image.Bounds())
			}
		})
	}
}

func TestOutlineWidth(t *testing.T) {
	tests := []struct{ w, want float64 }{
		{1, 1.5},
		{2, 2.5},
		{8, 10},
	}
	for _, tt := range tests {
		if got := OutlineWidth(tt.w); got != tt.want {
			t.Errorf("OutlineWidth(%v) = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestWaterwayWidth(t *testing.T) {
	tests := []struct {
		w    feature.Waterway
		want float64
	}{
		{feature.Waterway{Category: "river"}, 4},
		{feature.Waterway{Category: "stream"}, 2},
		{feature.Waterway{Category: "canal"}, 3},
		{feature.Waterway{Category: "drain"}, 1.5},
		{feature.Waterway{Category: "river", Width: 12}, 12},
	}
	for _, tt := range tests {
		if got := WaterwayWidth(tt.w, 1.5); got != tt.want {
			t.Errorf("WaterwayWidth(%+v) = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestDrawRank(t *testing.T) {
	if !(drawRank("motorway") > drawRank("primary") && drawRank("primary") > drawRank("residential")) {
		t.Error("drawRank does not stack major roads on top")
	}
	if drawRank("trunk_link") != drawRank("trunk") {
		t.Error("link roads should stack with their category")
	}
	if drawRank("bus_guideway") >= drawRank("service") {
		t.Error("unknown categories should draw first")
	}
}
