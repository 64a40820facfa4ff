// Package feature models the map content of one render job: a node table
// and a list of tagged features that reference nodes by id.
package feature

import (
	"strconv"
	"strings"

	"github.com/matzehuels/smapshot/pkg/geo"
)

// Kind identifies a Feature variant.
type Kind int

const (
	KindRoad Kind = iota
	KindWaterway
	KindWaterBody
	KindBuilding
	KindPlace
)

func (k Kind) String() string {
	switch k {
	case KindRoad:
		return "road"
	case KindWaterway:
		return "waterway"
	case KindWaterBody:
		return "water"
	case KindBuilding:
		return "building"
	case KindPlace:
		return "place"
	}
	return "unknown"
}

// Feature is implemented by Road, Waterway, WaterBody, Building and Place.
type Feature interface {
	Kind() Kind
	// Refs returns the referenced node ids, nil for point features.
	Refs() []int64
	// Label returns the display name, possibly empty.
	Label() string
}

// Road is a highway way.
type Road struct {
	NodeIDs  []int64
	Category string
	Name     string
	Ref      string
	Junction string
}

// Waterway is a linear watercourse. Width is in meters; zero means unknown.
type Waterway struct {
	NodeIDs  []int64
	Category string
	Name     string
	Width    float64
}

// WaterBody is a closed water area.
type WaterBody struct {
	NodeIDs  []int64
	Category string
	Name     string
}

// Building is a closed building outline.
type Building struct {
	NodeIDs  []int64
	Category string
	Name     string
}

// Place is a named settlement point.
type Place struct {
	Lat, Lon float64
	Name     string
	Category string
}

func (Road) Kind() Kind      { return KindRoad }
func (Waterway) Kind() Kind  { return KindWaterway }
func (WaterBody) Kind() Kind { return KindWaterBody }
func (Building) Kind() Kind  { return KindBuilding }
func (Place) Kind() Kind     { return KindPlace }

func (r Road) Refs() []int64      { return r.NodeIDs }
func (w Waterway) Refs() []int64  { return w.NodeIDs }
func (w WaterBody) Refs() []int64 { return w.NodeIDs }
func (b Building) Refs() []int64  { return b.NodeIDs }
func (Place) Refs() []int64       { return nil }

// Label returns the road name, falling back to its ref.
func (r Road) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Ref
}

func (w Waterway) Label() string  { return w.Name }
func (w WaterBody) Label() string { return w.Name }
func (b Building) Label() string  { return b.Name }
func (p Place) Label() string     { return p.Name }

// Roundabout reports whether the road is part of a ring junction.
func (r Road) Roundabout() bool {
	return r.Junction == "roundabout" || r.Junction == "circular"
}

// Anchor categories seed road connectivity analysis.
var anchorCategories = map[string]bool{
	"motorway":  true,
	"trunk":     true,
	"primary":   true,
	"secondary": true,
}

// IsAnchorCategory reports whether a highway category is top tier.
func IsAnchorCategory(category string) bool {
	return anchorCategories[strings.TrimSuffix(category, "_link")]
}

// ParseWidth reads an OSM width tag such as "12", "12 m" or "7.5m".
// It returns 0 when the value cannot be read.
func ParseWidth(v string) float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "m"))
	w, err := strconv.ParseFloat(v, 64)
	if err != nil || w < 0 {
		return 0
	}
	return w
}

// MapNode is an entry of the node table.
type MapNode struct {
	ID       int64
	Lat, Lon float64
	Name     string
}

// Point returns the node position.
func (n MapNode) Point() geo.GeoPoint {
	return geo.GeoPoint{Lat: n.Lat, Lon: n.Lon}
}
