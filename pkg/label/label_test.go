package label

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// fixedMeasurer makes every glyph 0.6em wide and one em tall.
type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string, f Face) (float64, float64) {
	return float64(len(text)) * f.Size * 0.6, f.Size
}

func square(min, max float64) geom.Ring {
	return geom.NewRing([]geom.Point{{X: min, Y: min}, {X: max, Y: min}, {X: max, Y: max}, {X: min, Y: max}})
}

func TestCandidates(t *testing.T) {
	ring := square(-10, 400)
	pts := []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 300, Y: 0}}
	got := Candidates(pts, ring, 2, 80, 0.75)
	if len(got) != 2 {
		t.Fatalf("Candidates() returned %d, want 2", len(got))
	}
	if got[0].Length != 200 || got[0].Start != 1 {
		t.Errorf("first candidate = %+v, want the 200px window starting at 1", got[0])
	}
	if got[0].Anchor != (geom.Point{X: 200, Y: 0}) {
		t.Errorf("anchor = %v, want (200,0)", got[0].Anchor)
	}
	if got[0].Inside != 1 {
		t.Errorf("inside = %v, want 1", got[0].Inside)
	}
}

func TestCandidatesFallback(t *testing.T) {
	ring := square(0, 10)
	// Every window is short and outside, so only the longest segment remains.
	pts := []geom.Point{{X: 100, Y: 100}, {X: 110, Y: 100}, {X: 140, Y: 100}, {X: 145, Y: 100}}
	got := Candidates(pts, ring, 2, 80, 0.75)
	if len(got) != 1 {
		t.Fatalf("Candidates() returned %d, want 1 fallback", len(got))
	}
	if got[0].Start != 1 || got[0].Length != 30 {
		t.Errorf("fallback = %+v, want segment 1 of length 30", got[0])
	}

	if got := Candidates([]geom.Point{{X: 1, Y: 1}}, ring, 2, 80, 0.75); len(got) != 0 {
		t.Errorf("Candidates(single point) = %v, want none", got)
	}
}

func TestTextAngle(t *testing.T) {
	tests := []struct {
		rad  float64
		want float64
	}{
		{0, 0},
		{math.Pi, 0},
		{math.Pi / 2, 90},
		{-math.Pi / 2, -90},
		{3 * math.Pi / 4, -45},
		{-3 * math.Pi / 4, 45},
	}
	for _, tt := range tests {
		if got := TextAngle(tt.rad); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TextAngle(%v) = %v, want %v", tt.rad, got, tt.want)
		}
	}
}

func TestPlaceRoadNorthSouth(t *testing.T) {
	p := NewPlacer(square(0, 1000), fixedMeasurer{}, Options{})
	n := p.PlaceRoads([]Line{{
		Points:   []geom.Point{{X: 500, Y: 100}, {X: 500, Y: 900}},
		Category: "primary",
		Text:     "Main St",
	}})
	if n != 1 {
		t.Fatalf("PlaceRoads() = %d, want 1", n)
	}
	l := p.Labels()[0]
	if l.Anchor != (geom.Point{X: 500, Y: 500}) {
		t.Errorf("anchor = %v, want road midpoint", l.Anchor)
	}
	if math.Abs(l.Angle-90) > 1e-9 {
		t.Errorf("angle = %v, want 90", l.Angle)
	}
	if !l.Face.Bold || l.Face.Size != 28*1.2 {
		t.Errorf("face = %+v, want bold at 1.2x", l.Face)
	}
	// The box of a vertical label is taller than wide.
	if l.Box.Height() <= l.Box.Width() {
		t.Errorf("box = %+v, want rotated to vertical", l.Box)
	}
}

func TestPlaceRoadsSkips(t *testing.T) {
	seg := []geom.Point{{X: 100, Y: 500}, {X: 900, Y: 500}}
	tests := []struct {
		name string
		line Line
	}{
		{"excluded category", Line{Points: seg, Category: "residential", Text: "Elm"}},
		{"roundabout", Line{Points: seg, Category: "primary", Text: "Circle", Roundabout: true}},
		{"no text", Line{Points: seg, Category: "primary"}},
		{"single point", Line{Points: seg[:1], Category: "primary", Text: "Dot"}},
		{"outside", Line{Points: []geom.Point{{X: 2000, Y: 0}, {X: 3000, Y: 0}}, Category: "primary", Text: "Far"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlacer(square(0, 1000), fixedMeasurer{}, Options{})
			if n := p.PlaceRoads([]Line{tt.line}); n != 0 {
				t.Errorf("PlaceRoads() = %d, want 0", n)
			}
		})
	}
}

func TestPlaceRoadsOverlapAndSpacing(t *testing.T) {
	ring := square(0, 1000)

	// Two major roads crossing at the centre share their only anchor.
	p := NewPlacer(ring, fixedMeasurer{}, Options{})
	n := p.PlaceRoads([]Line{
		{Points: []geom.Point{{X: 500, Y: 100}, {X: 500, Y: 900}}, Category: "primary", Text: "North Rd"},
		{Points: []geom.Point{{X: 100, Y: 500}, {X: 900, Y: 500}}, Category: "primary", Text: "East Rd"},
	})
	if n != 1 {
		t.Errorf("crossing roads placed %d labels, want 1", n)
	}

	// Parallel roads with the same name sit closer than the minimum distance.
	p = NewPlacer(ring, fixedMeasurer{}, Options{})
	n = p.PlaceRoads([]Line{
		{Points: []geom.Point{{X: 100, Y: 300}, {X: 900, Y: 300}}, Category: "tertiary", Text: "Mill Ln"},
		{Points: []geom.Point{{X: 100, Y: 700}, {X: 900, Y: 700}}, Category: "tertiary", Text: "Mill Ln"},
	})
	if n != 1 {
		t.Errorf("same-name roads placed %d labels, want 1", n)
	}
}

func TestPlaceRoadNudge(t *testing.T) {
	p := NewPlacer(square(0, 1000), fixedMeasurer{}, Options{})
	// Blocks the road's midpoint and the first step on the +y side.
	p.commit(Placed{Text: "block", Anchor: geom.Point{X: 500, Y: 530}, Box: geom.Rect{MinX: 0, MinY: 500, MaxX: 1000, MaxY: 560}})

	n := p.PlaceRoads([]Line{{
		Points:   []geom.Point{{X: 100, Y: 500}, {X: 900, Y: 500}},
		Category: "tertiary",
		Text:     "Main",
	}})
	if n != 1 {
		t.Fatalf("PlaceRoads() = %d, want 1", n)
	}
	got := p.Labels()[1].Anchor
	if want := (geom.Point{X: 500, Y: 476}); got.Dist(want) > 1e-9 {
		t.Errorf("nudged anchor = %v, want %v", got, want)
	}
}

func TestNudges(t *testing.T) {
	got := nudges(2, 24)
	want := []float64{0, 24, -24, 48, -48}
	if len(got) != len(want) {
		t.Fatalf("nudges(2, 24) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("nudges(2, 24)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlaceRoadsPriority(t *testing.T) {
	p := NewPlacer(square(0, 1000), fixedMeasurer{}, Options{})
	p.PlaceRoads([]Line{
		{Points: []geom.Point{{X: 100, Y: 500}, {X: 900, Y: 500}}, Category: "tertiary", Text: "Side"},
		{Points: []geom.Point{{X: 500, Y: 100}, {X: 500, Y: 900}}, Category: "motorway", Text: "A1"},
	})
	ls := p.Labels()
	if len(ls) == 0 || ls[0].Text != "A1" {
		t.Fatalf("Labels() = %+v, want the motorway first", ls)
	}
	if ls[0].Feature != 1 {
		t.Errorf("Feature = %d, want index 1", ls[0].Feature)
	}
}

func TestPole(t *testing.T) {
	ring := square(0, 100)
	pole := Pole(ring)
	if d := ring.BoundaryDist(pole); math.Abs(d-40) > 1e-9 {
		t.Errorf("Pole() = %v at distance %v, want 40", pole, d)
	}

	// An L shape has no sample at its bounds centre.
	l := geom.NewRing([]geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 100}, {X: 0, Y: 100}})
	if pt := Pole(l); !l.Contains(pt) {
		t.Errorf("Pole(L) = %v, want inside", pt)
	}
}

func TestPlaceWaterBodies(t *testing.T) {
	rect := func(x, y, w, h float64) []geom.Point {
		return []geom.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	}
	p := NewPlacer(square(0, 2000), fixedMeasurer{}, Options{})
	n := p.PlaceWaterBodies([]Area{
		{Ring: rect(100, 100, 20, 20), Name: "Puddle"},
		{Ring: rect(1000, 1000, 30, 30), Name: "Pond"},
		{Ring: rect(200, 200, 300, 300), Name: "Lake"},
		{Ring: rect(1500, 100, 300, 300)},
	})
	if n != 2 {
		t.Fatalf("PlaceWaterBodies() = %d, want 2", n)
	}
	ls := p.Labels()
	if ls[0].Text != "Lake" || ls[1].Text != "Pond" {
		t.Errorf("order = %q, %q, want Lake then Pond", ls[0].Text, ls[1].Text)
	}
	if !ls[0].Face.Italic || ls[0].Face.Size != 22*1.4 {
		t.Errorf("Lake face = %+v, want italic at 1.4x", ls[0].Face)
	}
	if ls[1].Anchor != (geom.Point{X: 1015, Y: 1015}) {
		t.Errorf("Pond anchor = %v, want bounds centre", ls[1].Anchor)
	}
	if ls[1].Face.Size != 22*0.85 {
		t.Errorf("Pond size = %v, want 0.85x", ls[1].Face.Size)
	}
}

func TestPlacePlaces(t *testing.T) {
	p := NewPlacer(square(0, 3000), fixedMeasurer{}, Options{})
	n := p.PlacePlaces([]Spot{
		{Pos: geom.Point{X: 500, Y: 500}, Name: "Springfield", Category: "town"},
		{Pos: geom.Point{X: 2000, Y: 2000}, Name: "Springfield", Category: "city"},
		{Pos: geom.Point{X: 1000, Y: 2500}, Name: "Elmwood", Category: "hamlet"},
		{Pos: geom.Point{X: 5000, Y: 5000}, Name: "Outside", Category: "city"},
		{Pos: geom.Point{X: 10, Y: 10}, Category: "village"},
	})
	if n != 2 {
		t.Fatalf("PlacePlaces() = %d, want 2", n)
	}
	ls := p.Labels()
	if ls[0].Text != "Springfield" || ls[0].Anchor != (geom.Point{X: 2000, Y: 2000}) {
		t.Errorf("first = %+v, want the city instance of Springfield", ls[0])
	}
	if !ls[0].Face.Bold || ls[0].Face.Size != 30*1.5 {
		t.Errorf("city face = %+v, want bold 1.5x", ls[0].Face)
	}
	if ls[1].Face.Bold || ls[1].Face.Size != 30*0.9 {
		t.Errorf("hamlet face = %+v, want regular 0.9x", ls[1].Face)
	}
}

func TestNoOverlapFuzz(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	names := []string{"Main St", "High St", "A1", "River Rd", "Oak Ave", "Lake", "Old Town", "Mill Ln"}
	cats := []string{"motorway", "primary", "secondary", "tertiary", "unclassified", "residential"}
	places := []string{"city", "town", "village", "hamlet", "suburb", "locality"}
	pt := func() geom.Point { return geom.Point{X: r.Float64() * 2000, Y: r.Float64() * 2000} }

	for iter := 0; iter < 50; iter++ {
		p := NewPlacer(square(0, 2000), fixedMeasurer{}, Options{})

		var roads []Line
		for range 30 {
			var pts []geom.Point
			for range 2 + r.IntN(5) {
				pts = append(pts, pt())
			}
			roads = append(roads, Line{Points: pts, Category: cats[r.IntN(len(cats))], Text: names[r.IntN(len(names))]})
		}
		var areas []Area
		for range 10 {
			c := pt()
			w, h := 20+r.Float64()*400, 20+r.Float64()*400
			areas = append(areas, Area{Ring: []geom.Point{c, c.Add(geom.Point{X: w}), c.Add(geom.Point{X: w, Y: h}), c.Add(geom.Point{Y: h})}, Name: names[r.IntN(len(names))]})
		}
		var spots []Spot
		for range 20 {
			spots = append(spots, Spot{Pos: pt(), Name: names[r.IntN(len(names))], Category: places[r.IntN(len(places))]})
		}

		p.PlaceRoads(roads)
		p.PlaceWaterBodies(areas)
		p.PlacePlaces(spots)

		ls := p.Labels()
		for i := range ls {
			for j := i + 1; j < len(ls); j++ {
				if ls[i].Box.Intersects(ls[j].Box) {
					t.Fatalf("iteration %d: labels %q and %q overlap: %+v %+v", iter, ls[i].Text, ls[j].Text, ls[i].Box, ls[j].Box)
				}
				if ls[i].Text == ls[j].Text && ls[i].Anchor.Dist(ls[j].Anchor) < DefaultMinLabelDistance {
					t.Fatalf("iteration %d: %q placed twice within %v", iter, ls[i].Text, DefaultMinLabelDistance)
				}
			}
		}
	}
}

func TestFontBook(t *testing.T) {
	b := NewFontBook()
	face := Face{Size: 20}
	w1, h := b.Measure("m", face)
	w4, _ := b.Measure("mmmm", face)
	if w1 <= 0 || h <= 0 {
		t.Fatalf("Measure(m) = %v x %v, want positive", w1, h)
	}
	if math.Abs(w4-4*w1) > 0.1 {
		t.Errorf("Measure(mmmm) = %v, want 4 x %v", w4, w1)
	}
	w2, h2 := b.Measure("m", Face{Size: 40})
	if math.Abs(w2-2*w1) > 0.5 || h2 <= h {
		t.Errorf("doubling size gave %v x %v from %v x %v", w2, h2, w1, h)
	}
	for _, f := range []Face{{Size: 12, Bold: true}, {Size: 12, Italic: true}, {Size: 12, Bold: true, Italic: true}} {
		if _, err := b.NewFace(f); err != nil {
			t.Errorf("NewFace(%+v) error = %v", f, err)
		}
	}
}
