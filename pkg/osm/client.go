package osm

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smapshot/pkg/buildinfo"
	"github.com/matzehuels/smapshot/pkg/cache"
	smerrors "github.com/matzehuels/smapshot/pkg/errors"
	"github.com/matzehuels/smapshot/pkg/geo"
	"github.com/matzehuels/smapshot/pkg/httputil"
)

// DefaultBaseURL is the public Overpass API.
const DefaultBaseURL = "https://overpass-api.de"

// Client fetches OSM XML through a cache.
type Client struct {
	base   string
	http   *httputil.Client
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewClient returns a client for base. Empty base uses DefaultBaseURL, a
// nil cache disables caching and a nil keyer uses the default keyer.
func NewClient(base string, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   httputil.NewClient(map[string]string{"User-Agent": buildinfo.UserAgent()}),
		cache:  c,
		keyer:  keyer,
		ttl:    cache.OSMTTL,
		logger: logger,
	}
}

// WithHTTP returns a copy of c using h for requests.
func (c *Client) WithHTTP(h *httputil.Client) *Client {
	cp := *c
	cp.http = h
	return &cp
}

// URL returns the request URL for box.
func (c *Client) URL(box geo.BoundingBox) string {
	return c.base + "/api/map?bbox=" + box.Query()
}

// Fetch returns the OSM XML for box and whether it came from the cache.
// refresh skips the cache lookup but still stores the new response.
func (c *Client) Fetch(ctx context.Context, box geo.BoundingBox, refresh bool) ([]byte, bool, error) {
	if box.Degenerate() {
		return nil, false, smerrors.New(smerrors.ErrCodeInvalidBoundary, "empty region %s", box.Query())
	}
	key := c.keyer.OSMKey(c.base, box)
	if !refresh {
		data, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", "err", err)
		} else if hit {
			return data, true, nil
		}
	}

	url := c.URL(box)
	c.logger.Debug("downloading map data", "url", url)
	data, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, false, classify(err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return smerrors.Wrap(smerrors.ErrCodeTimeout, err, "map download timed out")
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, httputil.ErrNotFound):
		return smerrors.Wrap(smerrors.ErrCodeNotFound, err, "map endpoint not found")
	case errors.Is(err, httputil.ErrRateLimited):
		return smerrors.Wrap(smerrors.ErrCodeRateLimited, err, "map server rate limit")
	}
	return smerrors.Wrap(smerrors.ErrCodeNetwork, err, "map download failed")
}
