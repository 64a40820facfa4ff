// Package pipeline runs complete map jobs: read the boundary, download or
// load the map data, render, and encode the requested outputs.
//
// The same Runner backs the CLI and the HTTP server so both apply the same
// defaults and caching.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Boundary: "district.kml",
//	    Formats:  []string{"png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Several boundaries run concurrently with [Runner.RunJobs]. A failing job
// records its error and leaves the others running.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smapshot/pkg/boundary"
	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/geo"
	"github.com/matzehuels/smapshot/pkg/render"
	"github.com/matzehuels/smapshot/pkg/roadnet"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = render.DefaultHeight

	// DefaultPadding grows the boundary box on every side by this fraction
	// so roads leaving the region stay connected.
	DefaultPadding = 0.5

	// BoundsPadding is the fixed first padding step applied to the
	// boundary's box before DefaultPadding.
	BoundsPadding = 0.1

	// MinRegionDeg keeps a degenerate boundary box from collapsing.
	MinRegionDeg = 0.001
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// DefaultFormats are rendered when none are requested.
var DefaultFormats = []string{FormatPNG, FormatPDF}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Job Configuration
// =============================================================================

// Options configures one map job. It is JSON serializable for server jobs.
type Options struct {
	// Boundary is the path of a GeoJSON or KML boundary file.
	Boundary string `json:"boundary,omitempty"`
	// Shape is an already parsed boundary. It takes precedence over Boundary.
	Shape *boundary.Boundary `json:"-"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// Margin overrides the style margin when positive.
	Margin  float64 `json:"margin,omitempty"`
	Padding float64 `json:"padding,omitempty"`

	StylePath string   `json:"style,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	NoLabels  bool     `json:"no_labels,omitempty"`

	// OSMFile renders from a local OSM XML file instead of downloading.
	OSMFile string `json:"osm_file,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a job.
type Result struct {
	Name   string
	Region geo.BoundingBox

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Output is the render result. It is nil when every artifact came from
	// the cache.
	Output *render.Output

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains job timing and size information.
type Stats struct {
	Features   int
	Network    roadnet.Stats
	Labels     int
	FetchTime  time.Duration
	ParseTime  time.Duration
	RenderTime time.Duration
	EncodeTime time.Duration
	Stages     map[string]time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	OSMHit      bool // map data came from cache
	ArtifactHit bool // all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again has no effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Shape == nil && o.Boundary == "" {
		return errors.New(errors.ErrCodeInvalidInput, "boundary is required")
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	if o.Margin != 0 {
		if err := errors.ValidateMargin(o.Margin); err != nil {
			return err
		}
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative, got %v", o.Padding)
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Clone returns an unvalidated copy of o, for use as per-request defaults.
func (o Options) Clone() Options {
	o.Formats = append([]string(nil), o.Formats...)
	o.validated = false
	return o
}

// Region returns the map data region for a boundary: its box padded by
// BoundsPadding, then by padding.
func Region(p geo.Polygon, padding float64) geo.BoundingBox {
	return p.Bounds().Expand(BoundsPadding, MinRegionDeg).Pad(padding)
}
