package geo

import (
	"fmt"
	"math"
)

// BoundingBox is a latitude/longitude rectangle. It never crosses the
// antimeridian.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

func (b BoundingBox) Width() float64  { return b.East - b.West }
func (b BoundingBox) Height() float64 { return b.North - b.South }

// Center returns the midpoint of the box.
func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{Lat: (b.North + b.South) / 2, Lon: (b.East + b.West) / 2}
}

// Degenerate reports whether the box has zero width or height.
func (b BoundingBox) Degenerate() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Pad returns a box grown by frac of its height in latitude and frac of its
// width in longitude on every side.
func (b BoundingBox) Pad(frac float64) BoundingBox {
	dLat := b.Height() * frac
	dLon := b.Width() * frac
	return BoundingBox{
		North: math.Min(b.North+dLat, 90),
		South: math.Max(b.South-dLat, -90),
		East:  math.Min(b.East+dLon, 180),
		West:  math.Max(b.West-dLon, -180),
	}
}

// PadFixed returns a box grown by deg degrees on every side.
func (b BoundingBox) PadFixed(deg float64) BoundingBox {
	return BoundingBox{
		North: math.Min(b.North+deg, 90),
		South: math.Max(b.South-deg, -90),
		East:  math.Min(b.East+deg, 180),
		West:  math.Max(b.West-deg, -180),
	}
}

// Expand pads proportionally, falling back to minDeg on a degenerate side.
func (b BoundingBox) Expand(frac, minDeg float64) BoundingBox {
	out := b.Pad(frac)
	if out.Height() <= 0 {
		out.North = math.Min(out.North+minDeg, 90)
		out.South = math.Max(out.South-minDeg, -90)
	}
	if out.Width() <= 0 {
		out.East = math.Min(out.East+minDeg, 180)
		out.West = math.Max(out.West-minDeg, -180)
	}
	return out
}

// Contains reports whether p lies in the box, edges included.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lon >= b.West && p.Lon <= b.East
}

// Query formats the box as the W,S,E,N list used by map data APIs.
func (b BoundingBox) Query() string {
	return fmt.Sprintf("%.7f,%.7f,%.7f,%.7f", b.West, b.South, b.East, b.North)
}
