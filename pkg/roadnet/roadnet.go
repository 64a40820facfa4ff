// Package roadnet filters projected roads down to the coherent street
// network inside a boundary.
//
// Clipping a road map to a polygon leaves debris: short fragments that cross
// a corner of the boundary, or islands of minor roads with no link to the
// rest. Build keeps the largest connected component that contains a
// top-tier road, strips short stubs dangling off boundary vertices, and then
// keeps only roads that connect back to an interior node.
package roadnet

import (
	"slices"

	"github.com/matzehuels/smapshot/pkg/feature"
	"github.com/matzehuels/smapshot/pkg/geom"
)

const (
	// DefaultBorderThreshold is the pixel distance to a boundary vertex
	// within which a node counts as a border node.
	DefaultBorderThreshold = 2.0

	// DefaultMaxStubNodes is the largest node count a prunable stub may have.
	DefaultMaxStubNodes = 3
)

// Node is a projected road node.
type Node struct {
	ID  int64
	Pos geom.Point
}

// Road is one projected road.
type Road struct {
	Nodes    []Node
	Category string
	Name     string
}

// Options tune the filter.
type Options struct {
	BorderThreshold float64
	MaxStubNodes    int
}

func (o Options) withDefaults() Options {
	if o.BorderThreshold <= 0 {
		o.BorderThreshold = DefaultBorderThreshold
	}
	if o.MaxStubNodes <= 0 {
		o.MaxStubNodes = DefaultMaxStubNodes
	}
	return o
}

// Status records why a road was kept or dropped.
type Status int

const (
	StatusKept Status = iota
	StatusEmpty
	StatusOffMain
	StatusStub
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusKept:
		return "kept"
	case StatusEmpty:
		return "empty"
	case StatusOffMain:
		return "off-main"
	case StatusStub:
		return "stub"
	case StatusUnreachable:
		return "unreachable"
	}
	return "unknown"
}

// Stats summarise a Build.
type Stats struct {
	Roads       int
	Components  int
	MainSize    int
	Stubs       int
	Unreachable int
	Kept        int
}

// Network is the result of Build.
type Network struct {
	roads   []Road
	nodes   [][]int64 // per road, node ids inside the reference region
	index   map[int64][]int
	anchor  []bool
	status  []Status
	border  map[int64]bool
	kept    []int
	stats   Stats
	hasMain bool
}

// Build runs the filter. inside selects the nodes that belong to the
// reference region; a nil inside keeps every node. boundary holds the
// projected boundary vertices used for border detection.
func Build(roads []Road, inside func(id int64) bool, boundary []geom.Point, opts Options) *Network {
	opts = opts.withDefaults()
	n := &Network{
		roads:  roads,
		nodes:  make([][]int64, len(roads)),
		index:  make(map[int64][]int),
		anchor: make([]bool, len(roads)),
		status: make([]Status, len(roads)),
		border: make(map[int64]bool),
	}
	n.stats.Roads = len(roads)

	pos := make(map[int64]geom.Point)
	for i, r := range roads {
		for _, nd := range r.Nodes {
			if inside != nil && !inside(nd.ID) {
				continue
			}
			n.nodes[i] = append(n.nodes[i], nd.ID)
			pos[nd.ID] = nd.Pos
		}
		for _, id := range unique(n.nodes[i]) {
			n.index[id] = append(n.index[id], i)
		}
		n.anchor[i] = feature.IsAnchorCategory(r.Category)
		if len(n.nodes[i]) == 0 {
			n.status[i] = StatusEmpty
		}
	}

	main := n.mainComponent()
	for i := range roads {
		if n.status[i] == StatusKept && !main[i] {
			n.status[i] = StatusOffMain
		}
	}
	if len(main) == 0 {
		return n
	}

	for id, p := range pos {
		for _, v := range boundary {
			if p.Dist(v) <= opts.BorderThreshold {
				n.border[id] = true
				break
			}
		}
	}

	n.pruneStubs(main, opts.MaxStubNodes)
	n.refineReachable(main)

	for i := range roads {
		if n.status[i] == StatusKept {
			n.kept = append(n.kept, i)
		}
	}
	n.stats.Kept = len(n.kept)
	return n
}

// mainComponent returns the largest connected component with an anchor
// road. Ties keep the first component found.
func (n *Network) mainComponent() map[int]bool {
	visited := make([]bool, len(n.roads))
	var best []int
	for start := range n.roads {
		if visited[start] || len(n.nodes[start]) == 0 {
			continue
		}
		comp, hasAnchor := n.component(start, visited)
		n.stats.Components++
		if hasAnchor && len(comp) > len(best) {
			best = comp
		}
	}
	main := make(map[int]bool, len(best))
	for _, i := range best {
		main[i] = true
	}
	n.hasMain = len(best) > 0
	n.stats.MainSize = len(best)
	return main
}

func (n *Network) component(start int, visited []bool) ([]int, bool) {
	queue := []int{start}
	visited[start] = true
	var comp []int
	hasAnchor := false
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		comp = append(comp, i)
		hasAnchor = hasAnchor || n.anchor[i]
		for _, id := range n.nodes[i] {
			for _, j := range n.index[id] {
				if !visited[j] {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
	}
	return comp, hasAnchor
}

// pruneStubs repeatedly removes short roads whose first or last node is a
// border node with degree at most one.
func (n *Network) pruneStubs(main map[int]bool, maxNodes int) {
	// Degree counts roads through a node; a way that revisits the node
	// still counts once.
	degree := make(map[int64]int)
	for i := range main {
		for _, id := range unique(n.nodes[i]) {
			degree[id]++
		}
	}

	order := sortedKeys(main)
	for changed := true; changed; {
		changed = false
		for _, i := range order {
			if n.status[i] != StatusKept {
				continue
			}
			ids := n.nodes[i]
			if len(ids) > maxNodes {
				continue
			}
			first, last := ids[0], ids[len(ids)-1]
			if !(n.dangling(first, degree) || n.dangling(last, degree)) {
				continue
			}
			n.status[i] = StatusStub
			n.stats.Stubs++
			for _, id := range unique(ids) {
				degree[id]--
			}
			changed = true
		}
	}
}

func (n *Network) dangling(id int64, degree map[int64]int) bool {
	return n.border[id] && degree[id] <= 1
}

// refineReachable keeps the roads reachable from an interior node.
func (n *Network) refineReachable(main map[int]bool) {
	alive := func(i int) bool { return main[i] && n.status[i] == StatusKept }

	reached := make(map[int]bool)
	seen := make(map[int64]bool)
	var queue []int64
	for _, i := range sortedKeys(main) {
		if !alive(i) {
			continue
		}
		for _, id := range n.nodes[i] {
			if !n.border[id] && !seen[id] {
				seen[id] = true
				queue = append(queue, id)
			}
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, j := range n.index[id] {
			if reached[j] || !alive(j) {
				continue
			}
			reached[j] = true
			for _, next := range n.nodes[j] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	for i := range main {
		if alive(i) && !reached[i] {
			n.status[i] = StatusUnreachable
			n.stats.Unreachable++
		}
	}
}

// Kept returns the surviving road indices in ascending order.
func (n *Network) Kept() []int { return n.kept }

// Contains reports whether road i survived.
func (n *Network) Contains(i int) bool {
	return i >= 0 && i < len(n.status) && n.status[i] == StatusKept && n.hasMain
}

// Status returns the fate of road i.
func (n *Network) Status(i int) Status { return n.status[i] }

// IsBorder reports whether node id was classified as a border node.
func (n *Network) IsBorder(id int64) bool { return n.border[id] }

// Stats returns counters for logging.
func (n *Network) Stats() Stats { return n.stats }

// Adjacency returns, per road, the sorted indices of roads that share a node.
func (n *Network) Adjacency() [][]int {
	adj := make([][]int, len(n.roads))
	for i := range n.roads {
		var nb []int
		for _, id := range n.nodes[i] {
			for _, j := range n.index[id] {
				if j != i {
					nb = append(nb, j)
				}
			}
		}
		slices.Sort(nb)
		adj[i] = slices.Compact(nb)
	}
	return adj
}

func unique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
