package match

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/osmdata"
)

// Scenario 1: straight segment (spec.md §8, scenario 1).
func TestMatchStraightSegment(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: 1, Lon: 0, Lat: 0})
	g.AddNode(&graph.Node{ID: 2, Lon: 0.001, Lat: 0})
	_, err := g.AddEdge(1, 2, 1, orb.LineString{{0, 0}, {0.001, 0}}, 111.2, true, nil)
	require.NoError(t, err)

	traj := []geo.LatLon{{Lat: 0, Lon: 0.00025}, {Lat: 0, Lon: 0.0005}, {Lat: 0, Lon: 0.00075}}
	res, err := Match(g, traj, DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, graph.NodeID(1), res.ChosenNodeIDs[0])
	require.Equal(t, graph.NodeID(2), res.ChosenNodeIDs[len(res.ChosenNodeIDs)-1])
	for i := 1; i < len(res.Polyline); i++ {
		assert.GreaterOrEqual(t, res.Polyline[i].Lon, res.Polyline[i-1].Lon)
	}
	assert.False(t, math.IsInf(res.JointLogProb, 0) || math.IsNaN(res.JointLogProb))
	assertAlternationFree(t, res.ChosenNodeIDs)
}

// Scenario 2: T-junction (spec.md §8, scenario 2). Mainline A-J-B with a
// branch J-C; the trajectory runs along the mainline then turns onto the
// branch, so J must appear in the chosen path exactly once.
func TestMatchTJunction(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: 1, Lon: 0, Lat: 0})      // A
	g.AddNode(&graph.Node{ID: 2, Lon: 0.001, Lat: 0})  // J
	g.AddNode(&graph.Node{ID: 3, Lon: 0.002, Lat: 0})  // B
	g.AddNode(&graph.Node{ID: 4, Lon: 0.001, Lat: 0.001}) // C (branch)

	_, err := g.AddEdge(1, 2, 1, orb.LineString{{0, 0}, {0.001, 0}}, 111.2, true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge(2, 3, 2, orb.LineString{{0.001, 0}, {0.002, 0}}, 111.2, true, nil)
	require.NoError(t, err)
	_, err = g.AddEdge(2, 4, 3, orb.LineString{{0.001, 0}, {0.001, 0.001}}, 111.2, true, nil)
	require.NoError(t, err)

	traj := []geo.LatLon{
		{Lat: 0, Lon: 0.0003},
		{Lat: 0, Lon: 0.0007},
		{Lat: 0.0003, Lon: 0.001},
		{Lat: 0.0007, Lon: 0.001},
	}
	res, err := Match(g, traj, DefaultOptions())
	require.NoError(t, err)

	// Matching runs on the interpolated graph, where J is named by the
	// stable id of its coordinate rather than its original id 2.
	jID := graph.NodeID(geo.StableGeoID(0.001, 0))
	count := 0
	for _, id := range res.ChosenNodeIDs {
		if id == jID {
			count++
		}
	}
	assert.Equal(t, 1, count, "junction node must appear exactly once")
	assertAlternationFree(t, res.ChosenNodeIDs)
}

// Scenario 3: oneway correctness (spec.md §8, scenario 3). A way tagged
// oneway=yes and its reversed counterpart tagged oneway=-1 must each
// produce exactly one directed edge in the declared direction, and a
// trajectory along the declared direction must match.
func TestMatchOnewayCorrectness(t *testing.T) {
	pr := &osmdata.ParseResult{
		Nodes: map[osm.NodeID]*osmdata.NodeData{
			1: {ID: 1, Lon: 0, Lat: 0},
			2: {ID: 2, Lon: 0.001, Lat: 0},
		},
		Ways: map[osm.WayID]*osmdata.WayData{
			10: {ID: 10, NodeIDs: []osm.NodeID{1, 2}, Tags: wayTags(map[string]string{"highway": "primary", "oneway": "yes"})},
		},
	}
	g, _, err := graph.FromOSM(pr, graph.BuildOptions{})
	require.NoError(t, err)

	require.Len(t, g.EdgesFrom(1), 1)
	require.Len(t, g.EdgesFrom(2), 0)

	forward := []geo.LatLon{{Lat: 0, Lon: 0.00025}, {Lat: 0, Lon: 0.00075}}
	res, err := Match(g, forward, DefaultOptions())
	require.NoError(t, err)
	assert.Less(t, res.Polyline[0].Lon, res.Polyline[len(res.Polyline)-1].Lon, "matched path must run in the declared 1 -> 2 direction")

	reversedPR := &osmdata.ParseResult{
		Nodes: pr.Nodes,
		Ways: map[osm.WayID]*osmdata.WayData{
			10: {ID: 10, NodeIDs: []osm.NodeID{1, 2}, Tags: wayTags(map[string]string{"highway": "primary", "oneway": "-1"})},
		},
	}
	rg, _, err := graph.FromOSM(reversedPR, graph.BuildOptions{})
	require.NoError(t, err)
	require.Len(t, rg.EdgesFrom(2), 1)
	require.Len(t, rg.EdgesFrom(1), 0)
}

// Scenario 4: loop/roundabout (spec.md §8, scenario 4). A 4-node ring
// tagged junction=roundabout, built directly with one edge per direction
// of travel; a trajectory encircling it must traverse the ring exactly
// once with no node revisited.
func TestMatchLoopRoundabout(t *testing.T) {
	g := graph.New()
	pts := []struct{ lon, lat float64 }{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}}
	for i, p := range pts {
		g.AddNode(&graph.Node{ID: graph.NodeID(i + 1), Lon: p.lon, Lat: p.lat})
	}
	tags := wayTags(map[string]string{"highway": "primary", "junction": "roundabout"})
	for i := 0; i < 4; i++ {
		u := graph.NodeID(i + 1)
		v := graph.NodeID((i+1)%4 + 1)
		_, err := g.AddEdge(u, v, int64(i+1), orb.LineString{{pts[i].lon, pts[i].lat}, {pts[(i+1)%4].lon, pts[(i+1)%4].lat}}, 111.2, true, tags)
		require.NoError(t, err)
	}

	traj := []geo.LatLon{
		{Lat: 0, Lon: 0.0005},
		{Lat: 0.0005, Lon: 0.001},
		{Lat: 0.001, Lon: 0.0005},
		{Lat: 0.0005, Lon: 0},
	}
	res, err := Match(g, traj, DefaultOptions())
	require.NoError(t, err)

	seen := map[graph.NodeID]bool{}
	for _, id := range res.ChosenNodeIDs {
		assert.False(t, seen[id], "ring node %d revisited", id)
		seen[id] = true
	}
}

// Scenario 5: unreachable (spec.md §8, scenario 5). Two disconnected
// components; observations spanning both must fail with Unreachable.
func TestMatchUnreachable(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: 1, Lon: 0, Lat: 0})
	g.AddNode(&graph.Node{ID: 2, Lon: 0.001, Lat: 0})
	_, err := g.AddEdge(1, 2, 1, orb.LineString{{0, 0}, {0.001, 0}}, 111.2, true, nil)
	require.NoError(t, err)

	g.AddNode(&graph.Node{ID: 3, Lon: 10, Lat: 10})
	g.AddNode(&graph.Node{ID: 4, Lon: 10.001, Lat: 10})
	_, err = g.AddEdge(3, 4, 2, orb.LineString{{10, 10}, {10.001, 10}}, 111.2, true, nil)
	require.NoError(t, err)

	traj := []geo.LatLon{{Lat: 0, Lon: 0.0005}, {Lat: 10, Lon: 10.0005}}
	_, err = Match(g, traj, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnreachable)
}

// Scenario 6: hash stability (spec.md §8, scenario 6).
func TestHashStability(t *testing.T) {
	a := geo.StableGeoID(12.4920, 41.8900)
	b := geo.StableGeoID(12.4920, 41.8900)
	c := geo.StableGeoID(12.4921, 41.8900)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func assertAlternationFree(t *testing.T, ids []graph.NodeID) {
	t.Helper()
	for i := 1; i < len(ids); i++ {
		assert.NotEqual(t, ids[i-1], ids[i], "adjacent chosen node ids must differ")
	}
}

func wayTags(m map[string]string) osm.Tags {
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	return tags
}
