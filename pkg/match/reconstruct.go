package match

import (
	"fmt"

	"mapmatch/pkg/candidate"
	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/trellis"
)

// chosenCandidates walks pred from Target back to Start, returning the
// winning candidate for each observation in trajectory order.
func chosenCandidates(tr *trellis.Trellis, pred map[string]string) ([]*candidate.Candidate, error) {
	var names []string
	cur := trellis.Target
	for cur != trellis.Start {
		next, ok := pred[cur]
		if !ok {
			return nil, fmt.Errorf("match: broken predecessor chain at %q", cur)
		}
		if !trellis.IsSentinel(cur) {
			names = append(names, cur)
		}
		cur = next
	}

	chosen := make([]*candidate.Candidate, len(names))
	for i, name := range names {
		chosen[len(names)-1-i] = tr.Candidates[name]
	}
	return chosen, nil
}

// collapseAdjacentDuplicates removes consecutive equal node ids, per
// spec.md §4.G: a successor's first node equals its predecessor's last
// node wherever two concatenated shortest paths share an endpoint.
func collapseAdjacentDuplicates(ids []graph.NodeID) []graph.NodeID {
	if len(ids) == 0 {
		return ids
	}
	out := make([]graph.NodeID, 1, len(ids))
	out[0] = ids[0]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// Reconstruct concatenates the shortest path between every consecutive
// pair of chosen candidates into a single deduplicated node sequence and
// its (lat, lon) polyline, per spec.md §4.G.
func Reconstruct(pf *graph.PathFinder, g *graph.Graph, tr *trellis.Trellis, pred map[string]string) ([]graph.NodeID, []geo.LatLon, error) {
	chosen, err := chosenCandidates(tr, pred)
	if err != nil {
		return nil, nil, err
	}
	if len(chosen) == 0 {
		return nil, nil, nil
	}

	nodeIDs := []graph.NodeID{chosen[0].NodeID}
	for i := 1; i < len(chosen); i++ {
		path, err := pf.ShortestPath(chosen[i-1].NodeID, chosen[i].NodeID)
		if err != nil {
			return nil, nil, err
		}
		nodeIDs = append(nodeIDs, path.NodeIDs...)
	}
	nodeIDs = collapseAdjacentDuplicates(nodeIDs)

	polyline := make([]geo.LatLon, len(nodeIDs))
	for i, id := range nodeIDs {
		n := g.Node(id)
		if n == nil {
			return nil, nil, fmt.Errorf("match: reconstructed node %d missing from graph", id)
		}
		polyline[i] = geo.LatLon{Lat: n.Lat, Lon: n.Lon}
	}

	return nodeIDs, polyline, nil
}
