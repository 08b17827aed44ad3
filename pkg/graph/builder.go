package graph

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"mapmatch/pkg/geo"
	"mapmatch/pkg/osmdata"
)

// onewayNegative and onewayReversed classify the values an "oneway*"-prefixed tag can
// take, per the graph builder's contract (spec.md §4.B step 3).
var onewayNegative = map[string]bool{
	"no": true, "false": true, "0": true, "reversible": true, "alternating": true,
}

var onewayReversed = map[string]bool{
	"-1": true, "reverse": true, "T": true,
}

// BuildOptions configures graph construction from parsed OSM data.
type BuildOptions struct {
	// ForceBidirectional, if set, ignores oneway tags entirely.
	ForceBidirectional bool
}

// WayRecord is the per-way bookkeeping the simplification pass needs: the
// way's final (post-reversal) node order and whether it is oneway.
type WayRecord struct {
	OSMID   int64
	NodeIDs []NodeID
	Oneway  bool
	Tags    osm.Tags
	// Edges holds every fine-grained edge FromOSM created for this way (both
	// directions if bidirectional), so Simplify can remove exactly the
	// edges a collapsed chain replaces.
	Edges []*Edge
}

// FromOSM builds an unsimplified directed multigraph from parsed OSM data,
// per spec.md §4.B steps 1-5. It returns the graph together with the
// per-way records the subsequent Simplify pass needs.
func FromOSM(pr *osmdata.ParseResult, opts BuildOptions) (*Graph, []WayRecord, error) {
	g := New()

	for _, n := range pr.Nodes {
		g.AddNode(&Node{ID: NodeID(n.ID), Lon: n.Lon, Lat: n.Lat, Tags: n.Tags})
	}

	var records []WayRecord
	for _, w := range pr.Ways {
		if len(w.NodeIDs) < 2 {
			continue
		}
		oneway, reversed := classifyOneway(w.Tags, opts.ForceBidirectional)

		nodeIDs := make([]NodeID, len(w.NodeIDs))
		for i, id := range w.NodeIDs {
			nodeIDs[i] = NodeID(id)
		}
		if oneway && reversed {
			reverseInPlace(nodeIDs)
		}

		// Skip ways referencing nodes we have no coordinates for.
		ok := true
		for _, id := range nodeIDs {
			if !g.HasNode(id) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		var wayEdges []*Edge
		for i := 0; i < len(nodeIDs)-1; i++ {
			u, v := nodeIDs[i], nodeIDs[i+1]
			length := edgeLength(g, u, v)
			fwd, err := g.AddEdge(u, v, int64(w.ID), segmentGeometry(g, u, v), length, oneway, w.Tags)
			if err != nil {
				continue
			}
			wayEdges = append(wayEdges, fwd)
			if !oneway {
				bwd, err := g.AddEdge(v, u, int64(w.ID), segmentGeometry(g, v, u), length, oneway, w.Tags)
				if err != nil {
					continue
				}
				wayEdges = append(wayEdges, bwd)
			}
		}

		records = append(records, WayRecord{OSMID: int64(w.ID), NodeIDs: nodeIDs, Oneway: oneway, Tags: w.Tags, Edges: wayEdges})
	}

	return g, records, nil
}

// classifyOneway implements spec.md §4.B step 3, plus the corrected
// treatment of junction=roundabout (see SPEC_FULL.md §9 open questions):
// a roundabout is oneway even without an explicit oneway tag.
func classifyOneway(tags osm.Tags, forceBidirectional bool) (oneway, reversed bool) {
	if forceBidirectional {
		return false, false
	}

	var values []string
	for _, t := range tags {
		if strings.HasPrefix(t.Key, "oneway") {
			values = append(values, t.Value)
		}
	}

	oneway = len(values) > 0 && !intersects(values, onewayNegative)
	reversed = intersects(values, onewayReversed)

	if tags.Find("junction") == "roundabout" && len(values) == 0 {
		oneway = true
	}

	return oneway, reversed
}

func intersects(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}

func reverseInPlace(ids []NodeID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func edgeLength(g *Graph, u, v NodeID) float64 {
	nu, nv := g.Node(u), g.Node(v)
	return RoundLength(geo.Haversine(nu.Lat, nu.Lon, nv.Lat, nv.Lon))
}

func segmentGeometry(g *Graph, u, v NodeID) orb.LineString {
	nu, nv := g.Node(u), g.Node(v)
	return orb.LineString{nu.Point(), nv.Point()}
}
