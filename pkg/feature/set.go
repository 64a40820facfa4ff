package feature

import "github.com/matzehuels/smapshot/pkg/geo"

// NodeTable indexes nodes by id. It is built once per job.
type NodeTable map[int64]MapNode

// Add inserts or replaces n.
func (t NodeTable) Add(n MapNode) { t[n.ID] = n }

// Lookup returns the node with id.
func (t NodeTable) Lookup(id int64) (MapNode, bool) {
	n, ok := t[id]
	return n, ok
}

// Resolve returns the positions of ids, skipping dangling references.
func (t NodeTable) Resolve(ids []int64) []geo.GeoPoint {
	out := make([]geo.GeoPoint, 0, len(ids))
	for _, id := range ids {
		if n, ok := t[id]; ok {
			out = append(out, n.Point())
		}
	}
	return out
}

// Set is the content of one render job.
type Set struct {
	Nodes    NodeTable
	Features []Feature
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{Nodes: make(NodeTable)}
}

// Add appends features.
func (s *Set) Add(fs ...Feature) {
	s.Features = append(s.Features, fs...)
}

// Roads returns the road features in input order.
func (s *Set) Roads() []Road { return collect[Road](s.Features) }

// Waterways returns the waterway features in input order.
func (s *Set) Waterways() []Waterway { return collect[Waterway](s.Features) }

// WaterBodies returns the water body features in input order.
func (s *Set) WaterBodies() []WaterBody { return collect[WaterBody](s.Features) }

// Buildings returns the building features in input order.
func (s *Set) Buildings() []Building { return collect[Building](s.Features) }

// Places returns the place features in input order.
func (s *Set) Places() []Place { return collect[Place](s.Features) }

func collect[T Feature](fs []Feature) []T {
	var out []T
	for _, f := range fs {
		if v, ok := f.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Counts returns the number of features per kind.
func (s *Set) Counts() map[Kind]int {
	out := make(map[Kind]int)
	for _, f := range s.Features {
		out[f.Kind()]++
	}
	return out
}

// Empty reports whether the set has no features.
func (s *Set) Empty() bool {
	return s == nil || len(s.Features) == 0
}
