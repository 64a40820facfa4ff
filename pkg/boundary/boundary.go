// Package boundary reads the closed region a map is rendered for.
//
// Two formats are supported: GeoJSON (FeatureCollection, Feature or a bare
// geometry) and KML. Either way the result is a single ring in geographic
// coordinates.
package boundary

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/geo"
)

// Boundary is a named region outline.
type Boundary struct {
	Name    string
	Polygon geo.Polygon
}

// Read loads a boundary file, choosing the parser by extension.
func Read(path string) (*Boundary, error) {
	if err := errors.ValidateBoundaryFilename(filepath.Base(path)); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "boundary %s", path)
		}
		return nil, err
	}

	var b *Boundary
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kml":
		b, err = ParseKML(data)
	default:
		b, err = ParseGeoJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if b.Name == "" {
		b.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return b, nil
}

// Source names the input format for page headers.
func Source(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kml":
		return "KML"
	default:
		return "GeoJSON"
	}
}

func check(b *Boundary) (*Boundary, error) {
	if len(b.Polygon) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBoundary, "boundary has no points")
	}
	return b, nil
}
