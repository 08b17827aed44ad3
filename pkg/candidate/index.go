// Package candidate implements the spatial-index-backed radius search that
// turns a noisy GPS observation into a finite set of road-network
// candidates (spec.md §4.D).
package candidate

import (
	"github.com/tidwall/rtree"

	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
)

// point is a single interpolated edge endpoint indexed for radius search.
type point struct {
	NodeID graph.NodeID
	OSMID  int64
	Lat    float64
	Lon    float64
}

// Index is a coarse-then-exact spatial index over a graph's edge endpoints:
// github.com/tidwall/rtree narrows a query to a bounding box, and an exact
// haversine pass filters to the true radius. This mirrors the teacher
// repo's own nearest-edge snapper (a sorted-grid + exact-distance two-stage
// design), generalised from "nearest neighbour" to "every neighbour within
// radius", and is the one place in this module that exercises
// tidwall/rtree — declared in the teacher's go.mod but never imported
// there.
//
// The spec names a BallTree under the haversine metric; an R-tree over a
// locally-planar bounding box is a different member of the same "any
// metric tree works" family the design notes call out, trading exact
// haversine pruning for a cheap rectangular pre-filter that the exact pass
// below corrects for.
type Index struct {
	tree rtree.RTree
}

// BuildIndex indexes both endpoints of every edge in g (expected to already
// be interpolated, so every edge is a two-vertex segment).
func BuildIndex(g *graph.Graph) *Index {
	idx := &Index{}
	for _, e := range g.Edges() {
		idx.insert(e.U, e.OSMID, e.Geometry[0])
		idx.insert(e.V, e.OSMID, e.Geometry[len(e.Geometry)-1])
	}
	return idx
}

func (idx *Index) insert(id graph.NodeID, osmid int64, p [2]float64) {
	lon, lat := p[0], p[1]
	entry := point{NodeID: id, OSMID: osmid, Lat: lat, Lon: lon}
	idx.tree.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, entry)
}

// Hit is a single indexed point within a query's radius.
type Hit struct {
	NodeID graph.NodeID
	OSMID  int64
	Lat    float64
	Lon    float64
	Dist   float64 // haversine distance from the query point, in meters
}

// Query returns every indexed point within radiusMeters of (lat, lon).
func (idx *Index) Query(lat, lon, radiusMeters float64) []Hit {
	n, s, w, e := geo.EnlargeBBox(lat, lat, lon, lon, radiusMeters)

	var hits []Hit
	idx.tree.Search([2]float64{w, s}, [2]float64{e, n}, func(min, max [2]float64, data interface{}) bool {
		p := data.(point)
		d := geo.Haversine(lat, lon, p.Lat, p.Lon)
		if d <= radiusMeters {
			hits = append(hits, Hit{NodeID: p.NodeID, OSMID: p.OSMID, Lat: p.Lat, Lon: p.Lon, Dist: d})
		}
		return true
	})
	return hits
}
