package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"

	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/feature"
	"github.com/matzehuels/smapshot/pkg/geo"
	"github.com/matzehuels/smapshot/pkg/geom"
	"github.com/matzehuels/smapshot/pkg/label"
	"github.com/matzehuels/smapshot/pkg/mask"
	"github.com/matzehuels/smapshot/pkg/observability"
	"github.com/matzehuels/smapshot/pkg/orient"
	"github.com/matzehuels/smapshot/pkg/projection"
	"github.com/matzehuels/smapshot/pkg/roadnet"
	"github.com/matzehuels/smapshot/pkg/style"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 2500
	DefaultHeight = 3250
)

// regionMinDeg pads a degenerate boundary when no region is given.
const regionMinDeg = 0.001

// Fonts measures text and serves faces for drawing it.
// *label.FontBook implements it.
type Fonts interface {
	label.Measurer
	NewFace(f label.Face) (font.Face, error)
}

// Options configure an Engine.
type Options struct {
	Width  int
	Height int
	// Network tunes road network filtering.
	Network roadnet.Options
	// Labels tunes label placement. Faces are derived from the style.
	Labels label.Options
	// NoLabels skips label placement.
	NoLabels bool
	Logger   *log.Logger
}

// Input is everything one render needs.
type Input struct {
	Boundary geo.Polygon
	// Region is the padded box the features were fetched for. A zero
	// region falls back to the boundary bounds.
	Region   geo.BoundingBox
	Features *feature.Set
}

// Output is a finished render.
type Output struct {
	Image       *image.RGBA
	Orientation orient.Result
	// Scale is the region scale in working pixels per degree.
	Scale float64
	// FitScale maps working pixels to canvas pixels.
	FitScale float64
	Network  roadnet.Stats
	// Graph is the filtered road network, for debugging output.
	Graph  *roadnet.Network
	Labels []label.Placed
	// Outline is the boundary in canvas pixels.
	Outline []geom.Point
	Stages  map[string]time.Duration
}

// Engine renders maps with a fixed style.
type Engine struct {
	style  style.Style
	fonts  Fonts
	opts   Options
	logger *log.Logger
}

// NewEngine returns an engine. A nil fonts uses a new label.FontBook.
func NewEngine(st style.Style, fonts Fonts, opts Options) *Engine {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if fonts == nil {
		fonts = label.NewFontBook()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{style: st.Clone(), fonts: fonts, opts: opts, logger: logger}
}

// Style returns the engine's style.
func (e *Engine) Style() style.Style { return e.style.Clone() }

// job carries the state of one Render call.
type job struct {
	e      *Engine
	in     Input
	proj   *projection.Projection
	ring   geom.Ring
	net    *roadnet.Network
	roads  []feature.Road
	canvas map[int64]geom.Point
	out    *Output
}

// Render draws in. It fails with INVALID_BOUNDARY for an empty boundary,
// NO_FEATURES for a nil feature set and INVALID_CANVAS for a bad size.
func (e *Engine) Render(ctx context.Context, in Input) (*Output, error) {
	if err := e.validate(in); err != nil {
		return nil, err
	}
	in.Boundary = geo.NewPolygon(in.Boundary)
	if in.Region == (geo.BoundingBox{}) {
		in.Region = in.Boundary.Bounds().Expand(0, regionMinDeg)
	}
	j := &job{
		e:      e,
		in:     in,
		canvas: make(map[int64]geom.Point, len(in.Features.Nodes)),
		out:    &Output{Stages: make(map[string]time.Duration)},
	}

	stages := []struct {
		name string
		run  func() error
	}{
		{"orient", j.orient},
		{"project", j.project},
		{"network", j.network},
	}
	for _, s := range stages {
		if err := j.stage(ctx, s.name, s.run); err != nil {
			return nil, err
		}
	}

	var img *image.RGBA
	if err := j.stage(ctx, "draw", func() error {
		var err error
		img, err = j.draw()
		return err
	}); err != nil {
		return nil, err
	}
	if !e.opts.NoLabels {
		if err := j.stage(ctx, "labels", func() error { return j.labels(img) }); err != nil {
			return nil, err
		}
	}
	if err := j.stage(ctx, "mask", func() error {
		img = mask.Apply(img, j.out.Outline, e.style.MaskBrightness)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := j.stage(ctx, "outline", func() error { return j.outline(img) }); err != nil {
		return nil, err
	}

	j.out.Image = img
	e.logger.Debug("rendered map",
		"angle", j.out.Orientation.Angle,
		"fit_scale", j.out.FitScale,
		"roads", j.out.Network.Kept,
		"labels", len(j.out.Labels))
	return j.out, nil
}

func (e *Engine) validate(in Input) error {
	if err := errors.ValidateCanvas(e.opts.Width, e.opts.Height); err != nil {
		return err
	}
	if len(in.Boundary) == 0 {
		return errors.New(errors.ErrCodeInvalidBoundary, "boundary has no points")
	}
	for _, p := range in.Boundary {
		if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
			return errors.New(errors.ErrCodeInvalidBoundary, "boundary point %v is not finite", p)
		}
	}
	if in.Features == nil {
		return errors.New(errors.ErrCodeNoFeatures, "no feature set")
	}
	if err := errors.ValidateMargin(e.style.Margin); err != nil {
		return err
	}
	return nil
}

func (j *job) stage(ctx context.Context, name string, run func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := observability.Stage(ctx, name)
	err := run()
	d := done(err)
	j.out.Stages[name] = d
	j.e.logger.Debug("stage complete", "stage", name, "duration", d)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (j *job) orient() error {
	corr := math.Cos(geom.Deg2Rad((j.in.Region.North + j.in.Region.South) / 2))
	pts := make([]geom.Point, len(j.in.Boundary))
	for i, p := range j.in.Boundary {
		pts[i] = geom.Point{X: p.Lon * corr, Y: p.Lat}
	}
	ratio := float64(j.e.opts.Width) / float64(j.e.opts.Height)
	j.out.Orientation = orient.Solve(pts, ratio)
	return nil
}

func (j *job) project() error {
	j.proj = projection.New(j.in.Region, j.in.Boundary, projection.Params{
		CanvasWidth:  j.e.opts.Width,
		CanvasHeight: j.e.opts.Height,
		Margin:       j.e.style.Margin,
		Angle:        j.out.Orientation.Angle,
	})
	j.out.Scale = j.proj.Scale()
	j.out.FitScale = j.proj.FitScale()
	j.out.Outline = j.proj.Project(j.in.Boundary)
	j.ring = geom.NewRing(j.out.Outline)

	for id, n := range j.in.Features.Nodes {
		j.canvas[id] = j.proj.GeoToCanvas(n.Lon, n.Lat)
	}
	return nil
}

// points resolves ids to canvas points, skipping dangling ids.
func (j *job) points(ids []int64) []geom.Point {
	pts := make([]geom.Point, 0, len(ids))
	for _, id := range ids {
		if p, ok := j.canvas[id]; ok {
			pts = append(pts, p)
		}
	}
	return pts
}
