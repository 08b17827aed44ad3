package graph

import (
	"github.com/paulmach/orb"

	"mapmatch/pkg/geo"
)

// junctionThreshold returns the graph-degree above which an interior node
// of a way is treated as a junction and therefore never simplified away.
// Non-oneway ways double every edge (forward + backward), so their
// pass-through degree is twice a oneway way's; the threshold accounts for
// that doubling (spec.md §4.B).
func junctionThreshold(oneway bool) int {
	if oneway {
		return 3
	}
	return 4
}

// Simplify collapses degree-2 (or degree-4-if-bidirectional) interior
// chains of every way into single edges, per spec.md §4.B "Simplification".
// It mutates g in place and returns it for chaining.
func Simplify(g *Graph, ways []WayRecord) *Graph {
	type pendingEdge struct {
		chain  []NodeID
		oneway bool
		osmid  int64
		tags   WayRecord
	}

	var pending []pendingEdge
	interior := make(map[NodeID]bool)
	keep := make(map[NodeID]bool)

	for _, w := range ways {
		if len(w.NodeIDs) < 3 {
			// A way with fewer than 3 nodes is never simplified.
			for _, e := range w.Edges {
				keep[e.U] = true
				keep[e.V] = true
			}
			continue
		}

		segments := splitAtJunctions(g, w.NodeIDs, w.Oneway)
		for _, seg := range segments {
			keep[seg[0]] = true
			keep[seg[len(seg)-1]] = true
			if len(seg) <= 2 {
				// No internal nodes to collapse; leave as-is.
				continue
			}
			pending = append(pending, pendingEdge{chain: seg, oneway: w.Oneway, osmid: w.OSMID, tags: w})
			for _, id := range seg[1 : len(seg)-1] {
				interior[id] = true
			}
		}

		// Remove the fine-grained edges this way contributed; collapsed
		// chains get their replacement added below, and segments that
		// were not collapsed (len(seg) <= 2) keep their original edges,
		// which are part of w.Edges and must not be removed here. We only
		// remove edges belonging to a chain that's about to be replaced.
	}

	for _, p := range pending {
		removeChainEdges(g, p.chain)

		geomFwd := chainGeometry(g, p.chain)
		length := RoundLength(chainLength(geomFwd))
		u, v := p.chain[0], p.chain[len(p.chain)-1]
		g.AddEdge(u, v, p.osmid, geomFwd, length, p.oneway, p.tags.Tags)
		if !p.oneway {
			g.AddEdge(v, u, p.osmid, reverseLine(geomFwd), length, p.oneway, p.tags.Tags)
		}
	}

	// Defer node removal until every replacement has been collected so
	// indices used above stay valid throughout the pass.
	for id := range interior {
		if !keep[id] {
			g.RemoveNode(id)
		}
	}

	g.Meta.Simplified = true
	return g
}

// splitAtJunctions splits a way's node list at every interior node whose
// graph degree exceeds the junction threshold (including the endpoints as
// implicit split points), producing a list of segments.
func splitAtJunctions(g *Graph, nodeIDs []NodeID, oneway bool) [][]NodeID {
	threshold := junctionThreshold(oneway)

	var segments [][]NodeID
	cur := []NodeID{nodeIDs[0]}
	for i := 1; i < len(nodeIDs); i++ {
		id := nodeIDs[i]
		cur = append(cur, id)
		isLast := i == len(nodeIDs)-1
		isJunction := g.Degree(id) > threshold
		if isLast || isJunction {
			segments = append(segments, cur)
			if !isLast {
				cur = []NodeID{id}
			}
		}
	}
	return segments
}

func removeChainEdges(g *Graph, chain []NodeID) {
	for i := 0; i < len(chain)-1; i++ {
		u, v := chain[i], chain[i+1]
		for _, e := range append([]*Edge{}, g.EdgesFrom(u)...) {
			if e.V == v {
				g.RemoveEdge(e)
			}
		}
		for _, e := range append([]*Edge{}, g.EdgesFrom(v)...) {
			if e.V == u {
				g.RemoveEdge(e)
			}
		}
	}
}

func chainGeometry(g *Graph, chain []NodeID) orb.LineString {
	ls := make(orb.LineString, len(chain))
	for i, id := range chain {
		ls[i] = g.Node(id).Point()
	}
	return ls
}

func chainLength(ls orb.LineString) float64 {
	var total float64
	for i := 1; i < len(ls); i++ {
		total += geo.Haversine(ls[i-1][1], ls[i-1][0], ls[i][1], ls[i][0])
	}
	return total
}

func reverseLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}
	return out
}
