package render

import (
	"github.com/matzehuels/smapshot/pkg/roadnet"
)

// network projects the roads and filters them down to the connected
// street network inside the boundary.
func (j *job) network() error {
	j.roads = j.in.Features.Roads()
	rs := make([]roadnet.Road, len(j.roads))
	for i, r := range j.roads {
		rn := roadnet.Road{Category: r.Category, Name: r.Label()}
		for _, id := range r.NodeIDs {
			n, ok := j.in.Features.Nodes.Lookup(id)
			if !ok || !j.proj.InWorkingRegion(j.proj.GeoToPixel(n.Lon, n.Lat)) {
				continue
			}
			rn.Nodes = append(rn.Nodes, roadnet.Node{ID: id, Pos: j.canvas[id]})
		}
		rs[i] = rn
	}
	inside := func(id int64) bool {
		p, ok := j.canvas[id]
		return ok && j.ring.Contains(p)
	}
	j.net = roadnet.Build(rs, inside, j.out.Outline, j.e.opts.Network)
	j.out.Network = j.net.Stats()
	j.out.Graph = j.net
	return nil
}
