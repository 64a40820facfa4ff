package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output directory
	formats  string // comma-separated output formats
	osmFile  string // local OSM XML instead of downloading
	style    string // style TOML file
	width    int
	height   int
	margin   float64
	padding  float64
	jobs     int
	noLabels bool
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		width:   pipeline.DefaultWidth,
		height:  pipeline.DefaultHeight,
		padding: pipeline.DefaultPadding,
		jobs:    2,
	}

	cmd := &cobra.Command{
		Use:   "render <boundary|dir>...",
		Short: "Render boundary files to PNG and PDF maps",
		Long: `Render one map per boundary file (.geojson, .json or .kml). A directory
argument renders every boundary file in it.

Map data is downloaded from Overpass for the padded region of each
boundary and cached. Outputs are written as <name>.<format> into the
output directory.`,
		Example: `  smapshot render district.kml
  smapshot render a.geojson b.geojson -o maps --format png --jobs 4
  smapshot render park.kml --osm park.osm --style print.toml
  smapshot render boundaries/ -o maps`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, pdf (comma-separated, default both)")
	cmd.Flags().StringVar(&opts.osmFile, "osm", "", "render from a local OSM XML file instead of downloading")
	cmd.Flags().StringVar(&opts.style, "style", "", "style TOML file (see 'smapshot style default')")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "page margin as a fraction of the canvas (default from style)")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "region padding around the boundary")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "maps rendered concurrently")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "skip road, water and place labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "download map data again and re-render")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, paths []string, opts renderOpts) error {
	ctx := cmd.Context()
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	paths, err := expandBoundaries(paths)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	jobs := make([]pipeline.Job, len(paths))
	for i, p := range paths {
		jobs[i] = pipeline.Job{Options: pipeline.Options{
			Boundary:  p,
			Width:     opts.width,
			Height:    opts.height,
			Margin:    opts.margin,
			Padding:   opts.padding,
			StylePath: opts.style,
			Formats:   formats,
			NoLabels:  opts.noLabels,
			OSMFile:   opts.osmFile,
			Refresh:   opts.refresh,
		}}
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d map(s)...", len(jobs)))
	spinner.Start()
	results := runner.RunJobs(ctx, jobs, opts.jobs)
	spinner.Stop()

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			printError("%s: %s", paths[i], errors.UserMessage(res.Err))
			continue
		}
		written, err := writeArtifacts(opts.output, outputStem(paths[i]), res.Result, formats)
		if err != nil {
			return err
		}
		printSuccess("%s", res.Name)
		fmt.Println(statsLine(res.Result.Stats.Network.Kept, res.Result.Stats.Labels, res.Result.CacheInfo.ArtifactHit))
		for _, f := range written {
			printFile(f)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d of %d maps", len(results)-failed, len(results)))
	if failed > 0 {
		return fmt.Errorf("%d of %d maps failed", failed, len(results))
	}
	return nil
}

// expandBoundaries replaces each directory in paths with the boundary files
// it contains, in name order. Files named directly must be boundary files.
func expandBoundaries(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			if err := errors.ValidateBoundaryFilename(filepath.Base(p)); err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		n := 0
		for _, e := range entries {
			if e.IsDir() || errors.ValidateBoundaryFilename(e.Name()) != nil {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
			n++
		}
		if n == 0 {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no boundary files in %s", p)
		}
	}
	return out, nil
}

// outputStem names outputs after the boundary file.
func outputStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeArtifacts(dir, stem string, res *pipeline.Result, formats []string) ([]string, error) {
	var written []string
	for _, f := range formats {
		data, ok := res.Artifacts[f]
		if !ok {
			continue
		}
		path := filepath.Join(dir, stem+"."+f)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
