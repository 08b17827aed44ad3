package graph

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind()

	for i := NodeID(0); i < 5; i++ {
		assert.Equal(t, i, uf.Find(i))
	}

	uf.Union(0, 1)
	assert.Equal(t, uf.Find(0), uf.Find(1))

	uf.Union(2, 3)
	assert.Equal(t, uf.Find(2), uf.Find(3))
	assert.NotEqual(t, uf.Find(0), uf.Find(2))

	uf.Union(1, 3)
	assert.Equal(t, uf.Find(0), uf.Find(3))
}

func twoComponentGraph() *Graph {
	g := New()
	coords := map[NodeID][2]float64{
		10: {103.0, 1.0}, 20: {103.1, 1.1}, 30: {103.2, 1.2},
		40: {104.0, 2.0}, 50: {104.1, 2.1},
	}
	for id, c := range coords {
		g.AddNode(&Node{ID: id, Lon: c[0], Lat: c[1]})
	}
	line := func(a, b NodeID) orb.LineString {
		na, nb := g.Node(a), g.Node(b)
		return orb.LineString{na.Point(), nb.Point()}
	}
	// Component 1: triangle 10-20-30.
	g.AddEdge(10, 20, 1, line(10, 20), 100, true, nil)
	g.AddEdge(20, 30, 1, line(20, 30), 200, true, nil)
	g.AddEdge(30, 10, 1, line(30, 10), 300, true, nil)
	// Component 2: isolated pair 40-50.
	g.AddEdge(40, 50, 2, line(40, 50), 400, true, nil)
	return g
}

func TestLargestComponent(t *testing.T) {
	g := twoComponentGraph()
	nodes := LargestComponent(g)
	require.Len(t, nodes, 3)
}

func TestFilterToComponent(t *testing.T) {
	g := twoComponentGraph()
	nodes := LargestComponent(g)
	filtered := FilterToComponent(g, nodes)

	assert.Equal(t, 3, filtered.NumNodes())
	assert.Equal(t, 3, filtered.NumEdges())

	var total float64
	for _, e := range filtered.Edges() {
		total += e.Length
	}
	assert.Equal(t, 600.0, total)
}

func TestLargestComponentEmptyGraph(t *testing.T) {
	g := New()
	nodes := LargestComponent(g)
	assert.Nil(t, nodes)

	filtered := FilterToComponent(g, nil)
	assert.Equal(t, 0, filtered.NumNodes())
	assert.Equal(t, 0, filtered.NumEdges())
}
