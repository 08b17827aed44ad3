// Package graph implements the road-network multigraph: construction from
// parsed OSM data, junction-based simplification, geodesic edge
// interpolation, shortest-path queries and optional on-disk caching.
package graph

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// NodeID is a stable integer node identifier: an OSM node id for
// unsimplified nodes, or geo.StableGeoID(lon, lat) for interpolated ones.
type NodeID int64

// ErrEmptyGraph is returned when a graph has no nodes or no edges after
// construction/filtering — there is nothing to match against.
var ErrEmptyGraph = errors.New("graph: empty graph (no nodes or no edges)")

// ErrDegenerateGeometry is returned when an edge's geometry has fewer than
// two points and cannot be used to compute a length or be interpolated.
var ErrDegenerateGeometry = errors.New("graph: degenerate edge geometry")

// Node is a graph vertex.
type Node struct {
	ID   NodeID
	Lon  float64
	Lat  float64
	Tags osm.Tags
}

// Point returns the node's coordinate as an orb.Point (lon, lat order, per
// orb convention).
func (n *Node) Point() orb.Point { return orb.Point{n.Lon, n.Lat} }

// EdgeKey uniquely identifies a parallel edge between two nodes.
type EdgeKey struct {
	U, V NodeID
	K    int
}

// Edge is a directed edge. Geometry runs from U's coordinate to V's
// coordinate inclusive.
type Edge struct {
	U, V     NodeID
	K        int
	OSMID    int64
	Geometry orb.LineString
	Length   float64
	Oneway   bool
	Tags     osm.Tags
}

// Key returns the edge's (u, v, k) identity.
func (e *Edge) Key() EdgeKey { return EdgeKey{e.U, e.V, e.K} }

// Meta carries graph-level metadata, mirroring the Python reference
// implementation's attribute bag.
type Meta struct {
	CRS          string
	Simplified   bool
	Interpolated bool
	CreatedDate  time.Time
}

// Graph is a mutable directed multigraph over geographic nodes. Unlike a
// fixed CSR layout, nodes and edges can be added and removed, which the
// builder's simplification pass and the interpolator both require.
type Graph struct {
	Meta Meta

	nodes map[NodeID]*Node
	out   map[NodeID][]*Edge
	in    map[NodeID][]*Edge
	nextK map[[2]NodeID]int
}

// New returns an empty graph with EPSG:4326 metadata.
func New() *Graph {
	return &Graph{
		Meta:  Meta{CRS: "epsg:4326", CreatedDate: time.Now()},
		nodes: make(map[NodeID]*Node),
		out:   make(map[NodeID][]*Edge),
		in:    make(map[NodeID][]*Edge),
		nextK: make(map[[2]NodeID]int),
	}
}

// AddNode inserts or overwrites a node.
func (g *Graph) AddNode(n *Node) {
	g.nodes[n.ID] = n
	if _, ok := g.out[n.ID]; !ok {
		g.out[n.ID] = nil
	}
	if _, ok := g.in[n.ID]; !ok {
		g.in[n.ID] = nil
	}
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of directed edges.
func (g *Graph) NumEdges() int {
	n := 0
	for _, es := range g.out {
		n += len(es)
	}
	return n
}

// AddEdge appends a new parallel edge u->v, assigning the next free key for
// that (u, v) pair, and returns it.
func (g *Graph) AddEdge(u, v NodeID, osmid int64, geometry orb.LineString, length float64, oneway bool, tags osm.Tags) (*Edge, error) {
	if len(geometry) < 2 {
		return nil, fmt.Errorf("%w: edge %d->%d has %d geometry points", ErrDegenerateGeometry, u, v, len(geometry))
	}
	key := [2]NodeID{u, v}
	k := g.nextK[key]
	g.nextK[key] = k + 1

	e := &Edge{U: u, V: v, K: k, OSMID: osmid, Geometry: geometry, Length: length, Oneway: oneway, Tags: tags}
	g.out[u] = append(g.out[u], e)
	g.in[v] = append(g.in[v], e)
	return e, nil
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id NodeID) {
	for _, e := range g.out[id] {
		g.in[e.V] = removeEdge(g.in[e.V], e)
	}
	for _, e := range g.in[id] {
		g.out[e.U] = removeEdge(g.out[e.U], e)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
}

// RemoveEdge deletes a single directed edge.
func (g *Graph) RemoveEdge(e *Edge) {
	g.out[e.U] = removeEdge(g.out[e.U], e)
	g.in[e.V] = removeEdge(g.in[e.V], e)
}

func removeEdge(es []*Edge, target *Edge) []*Edge {
	for i, e := range es {
		if e == target {
			return append(es[:i], es[i+1:]...)
		}
	}
	return es
}

// EdgesFrom returns the outgoing edges of a node.
func (g *Graph) EdgesFrom(id NodeID) []*Edge { return g.out[id] }

// EdgesTo returns the incoming edges of a node.
func (g *Graph) EdgesTo(id NodeID) []*Edge { return g.in[id] }

// Degree returns deg(v) = in-degree + out-degree, the measure the builder's
// simplification pass uses to detect junctions.
func (g *Graph) Degree(id NodeID) int { return len(g.out[id]) + len(g.in[id]) }

// Nodes returns every node, in no particular order.
func (g *Graph) Nodes() []*Node {
	ns := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		ns = append(ns, n)
	}
	return ns
}

// Edges returns every directed edge, in no particular order.
func (g *Graph) Edges() []*Edge {
	es := make([]*Edge, 0, g.NumEdges())
	for _, list := range g.out {
		es = append(es, list...)
	}
	return es
}

// Validate returns ErrEmptyGraph if the graph has no nodes or no edges.
func (g *Graph) Validate() error {
	if g.NumNodes() == 0 || g.NumEdges() == 0 {
		return ErrEmptyGraph
	}
	return nil
}

// RoundLength rounds a length in meters to 3 decimals, mapping NaN to 0 per
// the builder's edge-annotation contract.
func RoundLength(meters float64) float64 {
	if math.IsNaN(meters) {
		return 0
	}
	return math.Round(meters*1000) / 1000
}
