package graph

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"mapmatch/pkg/geo"
)

// ErrInvalidSpacing is returned when Interpolate is called with a
// non-positive spacing.
var ErrInvalidSpacing = errors.New("graph: interpolation spacing must be positive")

// Interpolate returns a new graph in which every edge of g has been
// replaced by a chain of straight two-vertex edges of approximately length
// d meters, per spec.md §4.C. g is not mutated.
func Interpolate(g *Graph, d float64) (*Graph, error) {
	if d <= 0 {
		return nil, ErrInvalidSpacing
	}

	ng := New()
	ng.Meta.Simplified = g.Meta.Simplified

	for _, e := range g.Edges() {
		pts := lineToLatLon(e.Geometry)
		length := geo.LineLength(pts)
		n := int(math.Round(length / d))
		if n < 1 {
			n = 1
		}

		points := make([]geo.LatLon, n+1)
		for i := 0; i <= n; i++ {
			points[i] = geo.PointAtFraction(pts, float64(i)/float64(n))
		}

		for i := 0; i < n; i++ {
			a, b := points[i], points[i+1]
			idA := NodeID(geo.StableGeoID(a.Lon, a.Lat))
			idB := NodeID(geo.StableGeoID(b.Lon, b.Lat))
			ng.AddNode(&Node{ID: idA, Lon: a.Lon, Lat: a.Lat})
			ng.AddNode(&Node{ID: idB, Lon: b.Lon, Lat: b.Lat})
			geometry := orb.LineString{orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat}}
			ng.AddEdge(idA, idB, e.OSMID, geometry, d, e.Oneway, e.Tags)
		}
	}

	for _, n := range ng.Nodes() {
		if ng.Degree(n.ID) == 0 {
			ng.RemoveNode(n.ID)
		}
	}

	ng.Meta.Interpolated = true
	return ng, nil
}

func lineToLatLon(ls orb.LineString) []geo.LatLon {
	pts := make([]geo.LatLon, len(ls))
	for i, p := range ls {
		pts[i] = geo.LatLon{Lon: p[0], Lat: p[1]}
	}
	return pts
}
