package osm

import (
	"bytes"
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/matzehuels/smapshot/pkg/feature"
)

var waterwayCategories = map[string]bool{
	"river":  true,
	"stream": true,
	"canal":  true,
	"drain":  true,
	"ditch":  true,
}

var waterLanduse = map[string]bool{
	"reservoir": true,
	"basin":     true,
}

// Parse reads OSM XML from r into a feature set.
func Parse(ctx context.Context, r io.Reader) (*feature.Set, error) {
	set := feature.NewSet()
	sc := osmxml.New(ctx, r)
	defer sc.Close()

	for sc.Scan() {
		switch o := sc.Object().(type) {
		case *osm.Node:
			addNode(set, o)
		case *osm.Way:
			addWay(set, o)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(ctx context.Context, data []byte) (*feature.Set, error) {
	return Parse(ctx, bytes.NewReader(data))
}

func addNode(set *feature.Set, n *osm.Node) {
	name := n.Tags.Find("name")
	set.Nodes.Add(feature.MapNode{ID: int64(n.ID), Lat: n.Lat, Lon: n.Lon, Name: name})
	if place := n.Tags.Find("place"); place != "" && name != "" {
		set.Add(feature.Place{Lat: n.Lat, Lon: n.Lon, Name: name, Category: place})
	}
}

func addWay(set *feature.Set, w *osm.Way) {
	ids := make([]int64, len(w.Nodes))
	for i, wn := range w.Nodes {
		ids[i] = int64(wn.ID)
	}
	if len(ids) < 2 {
		return
	}
	tags := w.Tags
	name := tags.Find("name")

	if hw := tags.Find("highway"); hw != "" {
		set.Add(feature.Road{
			NodeIDs:  ids,
			Category: hw,
			Name:     name,
			Ref:      tags.Find("ref"),
			Junction: tags.Find("junction"),
		})
		return
	}
	if ww := tags.Find("waterway"); waterwayCategories[ww] {
		set.Add(feature.Waterway{
			NodeIDs:  ids,
			Category: ww,
			Name:     name,
			Width:    feature.ParseWidth(tags.Find("width")),
		})
		return
	}

	ring, closed := closedRing(ids)
	if !closed {
		return
	}
	switch {
	case tags.Find("natural") == "water" || tags.Find("water") != "" || waterLanduse[tags.Find("landuse")]:
		category := tags.Find("water")
		if category == "" {
			category = "water"
		}
		set.Add(feature.WaterBody{NodeIDs: ring, Category: category, Name: name})
	case tags.Find("building") != "":
		set.Add(feature.Building{NodeIDs: ring, Category: tags.Find("building"), Name: name})
	}
}

// closedRing drops the repeated closing node of a closed way.
func closedRing(ids []int64) ([]int64, bool) {
	n := len(ids)
	if n < 4 || ids[0] != ids[n-1] {
		return nil, false
	}
	return ids[:n-1], true
}
