// Package cli implements the smapshot command-line interface.
//
// # Commands
//
//   - render: render boundary files to PNG and PDF maps
//   - network: dump the filtered road network of a boundary as DOT or SVG
//   - style: print the default style
//   - serve: run the HTTP render server
//   - cache: manage the download and artifact cache
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Environment
//
//   - XDG_CACHE_HOME: parent of the cache directory
//   - SMAPSHOT_REDIS_ADDR: use Redis instead of the file cache
//   - SMAPSHOT_OVERPASS_URL: Overpass endpoint for map downloads
//   - SMAPSHOT_CACHE_SCOPE: key prefix separating deployments sharing a cache
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/smapshot/pkg/buildinfo"
	"github.com/matzehuels/smapshot/pkg/cache"
	"github.com/matzehuels/smapshot/pkg/osm"
	"github.com/matzehuels/smapshot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "smapshot"

	envRedisAddr   = "SMAPSHOT_REDIS_ADDR"
	envOverpassURL = "SMAPSHOT_OVERPASS_URL"
	envCacheScope  = "SMAPSHOT_CACHE_SCOPE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	installHooks(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Smapshot renders print-ready maps of a boundary",
		Long:         `Smapshot turns a GeoJSON or KML boundary into a rotated, labelled street map with everything outside the boundary dimmed, ready to print as PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.networkCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if scope := os.Getenv(envCacheScope); scope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), scope)
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	if base := os.Getenv(envOverpassURL); base != "" {
		r.OSM = osm.NewClient(base, store, r.Keyer, c.Logger)
	}
	return r, nil
}

// newCache picks Redis when configured, the file cache otherwise. A cache
// directory that cannot be resolved disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		c.Logger.Debug("using redis cache", "addr", addr)
		return cache.NewRedisCache(ctx, addr)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/smapshot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return append([]string(nil), pipeline.DefaultFormats...)
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
