// Package geo defines geographic value types: points, boundary polygons and
// latitude/longitude bounding boxes.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// Orb converts p to an orb point (x=lon, y=lat).
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb point (x=lon, y=lat).
func FromOrb(p orb.Point) GeoPoint {
	return GeoPoint{Lat: p.Lat(), Lon: p.Lon()}
}

// Polygon is a single simple ring. The closing point is implicit.
type Polygon []GeoPoint

// NewPolygon copies pts and drops a repeated closing point.
func NewPolygon(pts []GeoPoint) Polygon {
	out := make(Polygon, len(pts))
	copy(out, pts)
	if n := len(out); n > 1 && out[0] == out[n-1] {
		out = out[:n-1]
	}
	return out
}

// FromOrbRing converts an orb ring.
func FromOrbRing(r orb.Ring) Polygon {
	pts := make([]GeoPoint, len(r))
	for i, p := range r {
		pts[i] = FromOrb(p)
	}
	return NewPolygon(pts)
}

// Ring converts the polygon to a closed orb ring.
func (p Polygon) Ring() orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, pt := range p {
		r = append(r, pt.Orb())
	}
	if len(p) > 0 {
		r = append(r, p[0].Orb())
	}
	return r
}

// Distinct returns the number of distinct vertices.
func (p Polygon) Distinct() int {
	seen := make(map[GeoPoint]struct{}, len(p))
	for _, pt := range p {
		seen[pt] = struct{}{}
	}
	return len(seen)
}

// Bounds returns the bounding box of the polygon.
func (p Polygon) Bounds() BoundingBox {
	if len(p) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{North: p[0].Lat, South: p[0].Lat, East: p[0].Lon, West: p[0].Lon}
	for _, pt := range p[1:] {
		b.North = math.Max(b.North, pt.Lat)
		b.South = math.Min(b.South, pt.Lat)
		b.East = math.Max(b.East, pt.Lon)
		b.West = math.Min(b.West, pt.Lon)
	}
	return b
}

// MeanLat returns the latitude halfway between the extremes.
func (p Polygon) MeanLat() float64 {
	b := p.Bounds()
	return (b.North + b.South) / 2
}
