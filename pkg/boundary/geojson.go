package boundary

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/geo"
)

// ParseGeoJSON reads the first usable geometry of a GeoJSON document.
// A Polygon contributes its outer ring and a MultiPolygon its largest
// polygon. A LineString is accepted as an open outline.
func ParseGeoJSON(data []byte) (*Boundary, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid GeoJSON")
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid GeoJSON")
		}
		for _, f := range fc.Features {
			if poly, ok := polygonOf(f.Geometry); ok {
				return check(&Boundary{Name: nameOf(f), Polygon: poly})
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidBoundary, "no polygon in feature collection")
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid GeoJSON")
		}
		poly, ok := polygonOf(f.Geometry)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidBoundary, "unsupported geometry %s", geometryType(f.Geometry))
		}
		return check(&Boundary{Name: nameOf(f), Polygon: poly})
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid GeoJSON")
		}
		poly, ok := polygonOf(g.Geometry())
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidBoundary, "unsupported geometry %s", probe.Type)
		}
		return check(&Boundary{Polygon: poly})
	}
}

func polygonOf(g orb.Geometry) (geo.Polygon, bool) {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil, false
		}
		return geo.FromOrbRing(g[0]), true
	case orb.MultiPolygon:
		var best orb.Ring
		bestArea := -1.0
		for _, p := range g {
			if len(p) == 0 {
				continue
			}
			if a := planar.Area(p[0]); a > bestArea {
				best, bestArea = p[0], a
			}
		}
		if best == nil {
			return nil, false
		}
		return geo.FromOrbRing(best), true
	case orb.LineString:
		return geo.FromOrbRing(orb.Ring(g)), len(g) > 0
	}
	return nil, false
}

func nameOf(f *geojson.Feature) string {
	for _, k := range []string{"name", "NAME", "title"} {
		if s, ok := f.Properties[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "null"
	}
	return g.GeoJSONType()
}
