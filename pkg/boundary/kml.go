package boundary

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/geo"
)

// ParseKML reads the outer ring of the first polygon in a KML document.
// Without a polygon the first coordinates element is used. The name is
// the first name element found.
func ParseKML(data []byte) (*Boundary, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		name      string
		outer     string
		first     string
		stack     []string
		haveOuter bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid KML")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			switch t.Name.Local {
			case "name":
				if name != "" {
					continue
				}
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid KML")
				}
				name = strings.TrimSpace(s)
				stack = stack[:len(stack)-1]
			case "coordinates":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "invalid KML")
				}
				if first == "" {
					first = s
				}
				if !haveOuter && within(stack, "outerBoundaryIs") {
					outer, haveOuter = s, true
				}
				stack = stack[:len(stack)-1]
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	raw := outer
	if !haveOuter {
		raw = first
	}
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New(errors.ErrCodeInvalidBoundary, "no coordinates in KML")
	}
	pts, err := parseCoordinates(raw)
	if err != nil {
		return nil, err
	}
	return check(&Boundary{Name: name, Polygon: geo.NewPolygon(pts)})
}

func within(stack []string, elem string) bool {
	for _, s := range stack {
		if s == elem {
			return true
		}
	}
	return false
}

// parseCoordinates reads whitespace separated lon,lat[,alt] tuples.
func parseCoordinates(s string) ([]geo.GeoPoint, error) {
	var pts []geo.GeoPoint
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidBoundary, "bad coordinate %q", tuple)
		}
		lon, err1 := strconv.ParseFloat(parts[0], 64)
		lat, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return nil, errors.New(errors.ErrCodeInvalidBoundary, "bad coordinate %q", tuple)
		}
		pts = append(pts, geo.GeoPoint{Lat: lat, Lon: lon})
	}
	return pts, nil
}
