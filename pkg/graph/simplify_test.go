package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTJunction constructs, by hand, a small oneway network:
//
//	A -> B -> C -> D -> E      (mainline, degree(C) bumped by two branches)
//	           C -> F          (branch out)
//	      G -> C               (branch in)
//
// B and D are plain pass-through nodes (degree 2, below the oneway
// threshold of 3) and must be simplified away; C has degree 4 and must
// survive as a junction.
func buildTJunction(t *testing.T) (*Graph, []WayRecord) {
	t.Helper()
	g := New()
	coords := map[NodeID][2]float64{
		1: {0, 0}, 2: {0, 0.0005}, 3: {0, 0.001}, 4: {0, 0.0015}, 5: {0, 0.002}, // A..E
		6: {0.0005, 0.001}, // F
		7: {-0.0005, 0.001}, // G
	}
	for id, c := range coords {
		g.AddNode(&Node{ID: id, Lon: c[0], Lat: c[1]})
	}
	line := func(a, b NodeID) []NodeID { return []NodeID{a, b} }
	mkEdges := func(chain []NodeID, osmid int64) []*Edge {
		var es []*Edge
		for i := 0; i < len(chain)-1; i++ {
			u, v := chain[i], chain[i+1]
			e, err := g.AddEdge(u, v, osmid, segmentGeometry(g, u, v), edgeLength(g, u, v), true, nil)
			require.NoError(t, err)
			es = append(es, e)
		}
		return es
	}

	mainChain := []NodeID{1, 2, 3, 4, 5}
	mainEdges := mkEdges(mainChain, 100)
	branchOutEdges := mkEdges(line(3, 6), 200)
	branchInEdges := mkEdges(line(7, 3), 300)

	ways := []WayRecord{
		{OSMID: 100, NodeIDs: mainChain, Oneway: true, Edges: mainEdges},
		{OSMID: 200, NodeIDs: []NodeID{3, 6}, Oneway: true, Edges: branchOutEdges},
		{OSMID: 300, NodeIDs: []NodeID{7, 3}, Oneway: true, Edges: branchInEdges},
	}
	return g, ways
}

func TestSimplifyCollapsesPassThroughNodes(t *testing.T) {
	g, ways := buildTJunction(t)
	require.Equal(t, 4, g.Degree(3), "junction node must have degree 4 before simplification")

	Simplify(g, ways)

	assert.False(t, g.HasNode(2), "pass-through node B must be removed")
	assert.False(t, g.HasNode(4), "pass-through node D must be removed")
	assert.True(t, g.HasNode(3), "junction node C must survive exactly once")
	assert.True(t, g.HasNode(1))
	assert.True(t, g.HasNode(5))
	assert.True(t, g.HasNode(6))
	assert.True(t, g.HasNode(7))

	assert.Equal(t, 5, g.NumNodes())
	assert.Equal(t, 4, g.NumEdges())

	fromA := g.EdgesFrom(1)
	require.Len(t, fromA, 1)
	assert.Equal(t, NodeID(3), fromA[0].V)
	assert.Len(t, fromA[0].Geometry, 3, "collapsed geometry must retain every intermediate vertex")
}

func TestSimplifyLeavesShortWaysAlone(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: 1, Lon: 0, Lat: 0})
	g.AddNode(&Node{ID: 2, Lon: 0, Lat: 0.001})
	e, err := g.AddEdge(1, 2, 1, segmentGeometry(g, 1, 2), edgeLength(g, 1, 2), true, nil)
	require.NoError(t, err)

	ways := []WayRecord{{OSMID: 1, NodeIDs: []NodeID{1, 2}, Oneway: true, Edges: []*Edge{e}}}
	Simplify(g, ways)

	assert.Equal(t, 2, g.NumNodes())
	assert.Equal(t, 1, g.NumEdges())
}

func TestJunctionThreshold(t *testing.T) {
	assert.Equal(t, 3, junctionThreshold(true))
	assert.Equal(t, 4, junctionThreshold(false))
}
