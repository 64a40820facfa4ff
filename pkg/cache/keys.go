package cache

import (
	"fmt"

	"github.com/matzehuels/smapshot/pkg/geo"
)

// Keyer builds cache keys.
type Keyer interface {
	// OSMKey identifies the raw OSM download for a region.
	OSMKey(source string, box geo.BoundingBox) string
	// ArtifactKey identifies a rendered output.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	// JobKey identifies the stored result of a server job.
	JobKey(id string) string
}

// ArtifactKeyOpts are the render settings an artifact depends on.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Margin    float64 `json:"margin"`
	StyleHash string  `json:"style_hash"`
}

// DefaultKeyer produces keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// OSMKey hashes the source URL and the box rounded to the query precision.
func (DefaultKeyer) OSMKey(source string, box geo.BoundingBox) string {
	return hashKey("osm", source, box.Query())
}

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

func (DefaultKeyer) JobKey(id string) string {
	return fmt.Sprintf("job:%s", id)
}

// ScopedKeyer prefixes every key of an inner Keyer, e.g. to separate
// server tenants sharing one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) OSMKey(source string, box geo.BoundingBox) string {
	return k.prefix + k.inner.OSMKey(source, box)
}

func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

func (k *ScopedKeyer) JobKey(id string) string {
	return k.prefix + k.inner.JobKey(id)
}
