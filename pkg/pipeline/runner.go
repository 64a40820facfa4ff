package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smapshot/pkg/boundary"
	"github.com/matzehuels/smapshot/pkg/cache"
	"github.com/matzehuels/smapshot/pkg/label"
	"github.com/matzehuels/smapshot/pkg/osm"
	"github.com/matzehuels/smapshot/pkg/render"
	"github.com/matzehuels/smapshot/pkg/style"
)

// Runner executes jobs with caching.
//
// The Runner holds no per-job state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	OSM    *osm.Client
	Fonts  render.Fonts

	// now stamps PDF pages.
	now func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Map data is downloaded from osm.DefaultBaseURL; replace OSM to change it.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		OSM:    osm.NewClient(osm.DefaultBaseURL, c, keyer, logger),
		Fonts:  label.NewFontBook(),
		now:    time.Now,
	}
}

// prepared is a job after its inputs are loaded.
type prepared struct {
	opts     Options
	boundary *boundary.Boundary
	style    style.Style
	data     []byte
	result   *Result
}

// Execute runs one job: boundary, map data, render, encode.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	p, err := r.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger := p.opts.Logger
	result := p.result

	keys, err := r.artifactKeys(p.boundary, p.data, p.style, p.opts)
	if err != nil {
		return nil, err
	}
	if !p.opts.Refresh && r.cachedArtifacts(ctx, keys, result) {
		result.CacheInfo.ArtifactHit = true
		logger.Info("artifacts from cache", "formats", p.opts.Formats)
		return result, nil
	}

	if err := r.render(ctx, p); err != nil {
		return nil, err
	}

	// Stage 4: encode
	encodeStart := time.Now()
	page := pageFor(p.opts, p.boundary, r.now())
	for _, format := range p.opts.Formats {
		art, err := encode(ctx, format, result.Output, page)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		result.Artifacts[format] = art
		if err := r.Cache.Set(ctx, keys[format], art, cache.ArtifactTTL); err != nil {
			logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	result.Stats.EncodeTime = time.Since(encodeStart)
	return result, nil
}

// Render runs a job up to the rendered image without encoding or
// consulting the artifact cache. Result.Output is always set.
func (r *Runner) Render(ctx context.Context, opts Options) (*Result, error) {
	p, err := r.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := r.render(ctx, p); err != nil {
		return nil, err
	}
	return p.result, nil
}

// prepare validates opts and loads the boundary, the style and the map data.
func (r *Runner) prepare(ctx context.Context, opts Options) (*prepared, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	b, err := loadBoundary(opts)
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}
	st, err := style.Load(opts.StylePath)
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	if opts.Margin > 0 {
		st = st.WithMargin(opts.Margin)
	}

	result := &Result{
		Name:      b.Name,
		Region:    Region(b.Polygon, opts.Padding),
		Artifacts: make(map[string][]byte),
	}
	logger.Info("region", "name", b.Name, "bbox", result.Region.Query())

	// Stage 1: map data
	fetchStart := time.Now()
	data, hit, err := r.mapData(ctx, result.Region, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.OSMHit = hit
	logger.Info("loaded map data",
		"bytes", len(data),
		"cached", hit,
		"duration", result.Stats.FetchTime)

	return &prepared{opts: opts, boundary: b, style: st, data: data, result: result}, nil
}

// render parses the map data and draws it.
func (r *Runner) render(ctx context.Context, p *prepared) error {
	logger := p.opts.Logger
	result := p.result

	// Stage 2: parse
	parseStart := time.Now()
	set, err := osm.ParseBytes(ctx, p.data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Features = len(set.Features)
	logger.Info("parsed map data",
		"nodes", len(set.Nodes),
		"features", len(set.Features),
		"duration", result.Stats.ParseTime)

	// Stage 3: render
	renderStart := time.Now()
	engine := render.NewEngine(p.style, r.Fonts, render.Options{
		Width:    p.opts.Width,
		Height:   p.opts.Height,
		NoLabels: p.opts.NoLabels,
		Logger:   logger,
	})
	out, err := engine.Render(ctx, render.Input{Boundary: p.boundary.Polygon, Region: result.Region, Features: set})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Network = out.Network
	result.Stats.Labels = len(out.Labels)
	result.Stats.Stages = out.Stages
	logger.Info("rendered map",
		"angle", out.Orientation.Angle,
		"roads", out.Network.Kept,
		"labels", len(out.Labels),
		"duration", result.Stats.RenderTime)
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
