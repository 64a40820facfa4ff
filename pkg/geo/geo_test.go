package geo

import (
	"math"
	"testing"
)

func TestNewPolygonDropsClosingPoint(t *testing.T) {
	p := NewPolygon([]GeoPoint{{0, 0}, {0, 1}, {1, 1}, {0, 0}})
	if len(p) != 3 {
		t.Fatalf("len = %d, want 3", len(p))
	}
	if got := len(p.Ring()); got != 4 {
		t.Errorf("len(Ring()) = %d, want 4 (closed)", got)
	}
	if got := NewPolygon([]GeoPoint{{1, 1}, {1, 1}, {1, 1}}).Distinct(); got != 1 {
		t.Errorf("Distinct() = %d, want 1", got)
	}
}

func TestPolygonBounds(t *testing.T) {
	p := NewPolygon([]GeoPoint{{Lat: 52.5, Lon: 13.3}, {Lat: 52.6, Lon: 13.5}, {Lat: 52.4, Lon: 13.4}})
	b := p.Bounds()
	want := BoundingBox{North: 52.6, South: 52.4, East: 13.5, West: 13.3}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
	if got := p.MeanLat(); math.Abs(got-52.5) > 1e-12 {
		t.Errorf("MeanLat() = %v, want 52.5", got)
	}
}

func TestPadDoesNotMutate(t *testing.T) {
	b := BoundingBox{North: 2, South: 0, East: 4, West: 0}
	p := b.Pad(0.5)

	if b != (BoundingBox{North: 2, South: 0, East: 4, West: 0}) {
		t.Errorf("Pad mutated receiver: %+v", b)
	}
	want := BoundingBox{North: 3, South: -1, East: 6, West: -2}
	if p != want {
		t.Errorf("Pad(0.5) = %+v, want %+v", p, want)
	}
	if got := b.PadFixed(1); got != (BoundingBox{North: 3, South: -1, East: 5, West: -1}) {
		t.Errorf("PadFixed(1) = %+v", got)
	}
}

func TestExpandDegenerate(t *testing.T) {
	pt := BoundingBox{North: 10, South: 10, East: 20, West: 20}
	got := pt.Expand(0.5, 0.01)
	if got.Degenerate() {
		t.Errorf("Expand() = %+v, still degenerate", got)
	}
	if !got.Contains(GeoPoint{Lat: 10, Lon: 20}) {
		t.Errorf("Expand() = %+v, lost the original point", got)
	}
}

func TestQuery(t *testing.T) {
	b := BoundingBox{North: 1, South: -1, East: 2, West: -2}
	if got, want := b.Query(), "-2.0000000,-1.0000000,2.0000000,1.0000000"; got != want {
		t.Errorf("Query() = %q, want %q", got, want)
	}
}
