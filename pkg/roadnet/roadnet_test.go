package roadnet

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/smapshot/pkg/geom"
)

// gridID numbers the nodes of a 4x4 grid with 10px spacing.
func gridID(x, y int) int64 { return int64(100 + y*4 + x) }

func node(id int64, x, y float64) Node { return Node{ID: id, Pos: geom.Pt(x, y)} }

func gridNode(x, y int) Node { return node(gridID(x, y), float64(10+x*10), float64(10+y*10)) }

// grid builds horizontal and vertical residential roads over a 4x4 node
// grid. The first road is primary.
func grid() []Road {
	var roads []Road
	for y := range 4 {
		r := Road{Category: "residential"}
		for x := range 4 {
			r.Nodes = append(r.Nodes, gridNode(x, y))
		}
		roads = append(roads, r)
	}
	for x := range 4 {
		r := Road{Category: "residential"}
		for y := range 4 {
			r.Nodes = append(r.Nodes, gridNode(x, y))
		}
		roads = append(roads, r)
	}
	roads[0].Category = "primary"
	return roads
}

var square = []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}

func TestGridIsMainComponent(t *testing.T) {
	roads := append(grid(), Road{
		Category: "residential",
		Nodes:    []Node{node(1, 80, 80), node(2, 90, 90)},
	})
	n := Build(roads, nil, square, Options{})

	for i := range 8 {
		if !n.Contains(i) {
			t.Errorf("grid road %d dropped (%s)", i, n.Status(i))
		}
	}
	if n.Contains(8) {
		t.Error("isolated road kept")
	}
	if got := n.Status(8); got != StatusOffMain {
		t.Errorf("Status(isolated) = %s, want %s", got, StatusOffMain)
	}
	if s := n.Stats(); s.Components != 2 || s.MainSize != 8 || s.Kept != 8 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestNoAnchorKeepsNothing(t *testing.T) {
	roads := grid()
	roads[0].Category = "residential"
	n := Build(roads, nil, square, Options{})
	if len(n.Kept()) != 0 {
		t.Errorf("Kept() = %v, want none without an anchor", n.Kept())
	}
}

func TestLargestAnchoredComponentWins(t *testing.T) {
	roads := grid()
	roads[0].Category = "residential"
	// A small separate network with a motorway.
	roads = append(roads,
		Road{Category: "motorway", Nodes: []Node{node(1, 70, 5), node(2, 80, 5)}},
		Road{Category: "service", Nodes: []Node{node(2, 80, 5), node(3, 90, 5)}},
	)
	n := Build(roads, nil, square, Options{})
	if got, want := n.Kept(), []int{8, 9}; !slices.Equal(got, want) {
		t.Errorf("Kept() = %v, want %v", got, want)
	}
}

func TestBorderStubPruning(t *testing.T) {
	// Stub from grid corner (10,10) to the boundary vertex (0,0).
	stub := Road{Category: "service", Nodes: []Node{gridNode(0, 0), node(1, 0.5, 0.5)}}

	t.Run("dangling stub removed", func(t *testing.T) {
		n := Build(append(grid(), stub), nil, square, Options{})
		if n.Contains(8) {
			t.Error("stub kept")
		}
		if got := n.Status(8); got != StatusStub {
			t.Errorf("Status = %s, want %s", got, StatusStub)
		}
		if !n.IsBorder(1) {
			t.Error("node 1 should be a border node")
		}
	})

	t.Run("stub linked onward retained", func(t *testing.T) {
		// Another road continues from the border node into the grid, so
		// the border end has degree 2.
		onward := Road{Category: "service", Nodes: []Node{node(1, 0.5, 0.5), gridNode(0, 1)}}
		n := Build(append(grid(), stub, onward), nil, square, Options{})
		if !n.Contains(8) || !n.Contains(9) {
			t.Errorf("linked stub dropped: %s, %s", n.Status(8), n.Status(9))
		}
	})

	t.Run("loop through border node counts once", func(t *testing.T) {
		loop := Road{Category: "service", Nodes: []Node{node(1, 0.5, 0.5), gridNode(0, 0), node(1, 0.5, 0.5)}}
		n := Build(append(grid(), loop), nil, square, Options{})
		if got := n.Status(8); got != StatusStub {
			t.Errorf("Status(loop) = %s, want %s", got, StatusStub)
		}
	})

	t.Run("long road retained", func(t *testing.T) {
		long := Road{Category: "service", Nodes: []Node{
			gridNode(0, 0), node(2, 7, 7), node(3, 4, 4), node(1, 0.5, 0.5),
		}}
		n := Build(append(grid(), long), nil, square, Options{})
		if !n.Contains(8) {
			t.Errorf("four-node road dropped: %s", n.Status(8))
		}
	})

	t.Run("cascade", func(t *testing.T) {
		// Two short roads chained off the boundary: removing the outer one
		// leaves the inner one dangling at a border node too.
		outer := Road{Category: "service", Nodes: []Node{node(5, 1, 99), node(6, 0.5, 99.5)}}
		inner := Road{Category: "service", Nodes: []Node{gridNode(0, 3), node(5, 1, 99)}}
		bnd := append(slices.Clone(square), geom.Pt(1, 99))
		n := Build(append(grid(), inner, outer), nil, bnd, Options{})
		if n.Contains(8) || n.Contains(9) {
			t.Errorf("cascade not pruned: %s, %s", n.Status(8), n.Status(9))
		}
	})
}

func TestReachability(t *testing.T) {
	// An anchor road made only of border nodes, linked to nothing interior.
	bnd := []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 50, Y: 0}}
	edge := Road{Category: "primary", Nodes: []Node{node(1, 0, 0), node(2, 50, 0), node(3, 100, 0), node(4, 100, 100)}}
	n := Build([]Road{edge}, nil, bnd, Options{})
	if n.Contains(0) {
		t.Errorf("road with only border nodes kept (%s)", n.Status(0))
	}
	if got := n.Status(0); got != StatusUnreachable {
		t.Errorf("Status = %s, want %s", got, StatusUnreachable)
	}
}

func TestInsideFilter(t *testing.T) {
	roads := grid()
	outside := map[int64]bool{gridID(3, 0): true, gridID(3, 1): true, gridID(3, 2): true, gridID(3, 3): true}
	n := Build(roads, func(id int64) bool { return !outside[id] }, square, Options{})

	// Column x=3 loses every node and cannot be kept.
	if n.Contains(7) {
		t.Error("road with no inside nodes kept")
	}
	if got := n.Status(7); got != StatusEmpty {
		t.Errorf("Status = %s, want %s", got, StatusEmpty)
	}
	if !n.Contains(0) {
		t.Error("clipped anchor road dropped")
	}
}

func TestAdjacencyAndDOT(t *testing.T) {
	n := Build(grid(), nil, square, Options{})
	adj := n.Adjacency()
	// Row 0 crosses every column.
	if got, want := adj[0], []int{4, 5, 6, 7}; !slices.Equal(got, want) {
		t.Errorf("Adjacency()[0] = %v, want %v", got, want)
	}
	dot := n.DOT()
	if !strings.HasPrefix(dot, "graph roads {") || !strings.Contains(dot, "r0 -- r4;") {
		t.Errorf("DOT() missing header or edge:\n%s", dot)
	}
	if !strings.Contains(dot, "rounded,bold") {
		t.Error("DOT() does not mark the anchor road")
	}
}
