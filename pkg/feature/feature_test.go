package feature

import "testing"

func TestResolveSkipsDangling(t *testing.T) {
	s := NewSet()
	s.Nodes.Add(MapNode{ID: 1, Lat: 1, Lon: 2})
	s.Nodes.Add(MapNode{ID: 3, Lat: 3, Lon: 4})

	got := s.Nodes.Resolve([]int64{1, 2, 3})
	if len(got) != 2 {
		t.Fatalf("Resolve() = %v, want 2 points", got)
	}
	if got[1].Lat != 3 || got[1].Lon != 4 {
		t.Errorf("Resolve()[1] = %v, want node 3", got[1])
	}
}

func TestSetAccessors(t *testing.T) {
	s := NewSet()
	s.Add(
		Road{NodeIDs: []int64{1, 2}, Category: "primary", Name: "Main St"},
		Waterway{Category: "river", Name: "Spree"},
		Place{Name: "Mitte", Category: "suburb"},
		Road{NodeIDs: []int64{2, 3}, Category: "residential", Ref: "B96"},
	)
	if got := len(s.Roads()); got != 2 {
		t.Errorf("len(Roads()) = %d, want 2", got)
	}
	if got := s.Roads()[1].Label(); got != "B96" {
		t.Errorf("Label() = %q, want ref fallback %q", got, "B96")
	}
	if got := s.Counts()[KindPlace]; got != 1 {
		t.Errorf("Counts()[place] = %d, want 1", got)
	}
	if s.Empty() {
		t.Error("Empty() = true, want false")
	}
	var nilSet *Set
	if !nilSet.Empty() {
		t.Error("nil set should be empty")
	}
}

func TestIsAnchorCategory(t *testing.T) {
	tests := []struct {
		category string
		want     bool
	}{
		{"motorway", true},
		{"trunk_link", true},
		{"secondary", true},
		{"tertiary", false},
		{"residential", false},
	}
	for _, tt := range tests {
		if got := IsAnchorCategory(tt.category); got != tt.want {
			t.Errorf("IsAnchorCategory(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"7.5 m", 7.5},
		{"3m", 3},
		{"wide", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseWidth(tt.in); got != tt.want {
			t.Errorf("ParseWidth(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoundabout(t *testing.T) {
	if !(Road{Junction: "roundabout"}).Roundabout() {
		t.Error("Roundabout() = false for junction=roundabout")
	}
	if (Road{}).Roundabout() {
		t.Error("Roundabout() = true for plain road")
	}
}
