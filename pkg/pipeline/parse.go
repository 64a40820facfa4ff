package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/matzehuels/smapshot/pkg/boundary"
	"github.com/matzehuels/smapshot/pkg/cache"
	"github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/geo"
	"github.com/matzehuels/smapshot/pkg/style"
)

func loadBoundary(opts Options) (*boundary.Boundary, error) {
	if opts.Shape != nil {
		if len(opts.Shape.Polygon) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidBoundary, "boundary has no points")
		}
		return opts.Shape, nil
	}
	return boundary.Read(opts.Boundary)
}

// mapData reads the local OSM file when one is set and downloads the
// region otherwise.
func (r *Runner) mapData(ctx context.Context, region geo.BoundingBox, opts Options) ([]byte, bool, error) {
	if opts.OSMFile != "" {
		data, err := os.ReadFile(opts.OSMFile)
		if os.IsNotExist(err) {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "osm file %s", opts.OSMFile)
		}
		return data, false, err
	}
	return r.OSM.Fetch(ctx, region, opts.Refresh)
}

// artifactKeys returns the cache key of every requested format. The input
// hash covers the boundary with its name and source type, which appear in
// the PDF header, and the map data; the options cover the canvas and the
// style.
func (r *Runner) artifactKeys(b *boundary.Boundary, data []byte, st style.Style, opts Options) (map[string]string, error) {
	ident, err := json.Marshal(struct {
		Name    string
		Source  string
		Polygon geo.Polygon
	}{b.Name, pageFor(opts, b, time.Time{}).Source, b.Polygon})
	if err != nil {
		return nil, err
	}
	input := cache.Hash(append(append(ident, 0), data...))

	var buf bytes.Buffer
	if err := style.Encode(&buf, st); err != nil {
		return nil, err
	}
	styleHash := cache.Hash(buf.Bytes())

	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(input, cache.ArtifactKeyOpts{
			Format:    format,
			Width:     opts.Width,
			Height:    opts.Height,
			Margin:    st.Margin,
			StyleHash: styleHash + boolSuffix(opts.NoLabels),
		})
	}
	return keys, nil
}

func boolSuffix(noLabels bool) string {
	if noLabels {
		return ":nolabels"
	}
	return ""
}

// cachedArtifacts fills result when every format is cached.
func (r *Runner) cachedArtifacts(ctx context.Context, keys map[string]string, result *Result) bool {
	found := make(map[string][]byte, len(keys))
	for format, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			return false
		}
		found[format] = data
	}
	result.Artifacts = found
	return true
}
