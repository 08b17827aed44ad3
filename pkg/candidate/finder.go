package candidate

import (
	"errors"
	"fmt"

	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
)

// ErrNoCandidates is returned (or, when gaps are permitted, recorded) when
// an observation has zero candidates within the search radius.
var ErrNoCandidates = errors.New("candidate: no candidates within radius")

// Candidate is an immutable candidate projection of a GPS observation onto
// the road network, per spec.md §3.
type Candidate struct {
	NodeID      graph.NodeID
	EdgeOSMID   int64
	Observation geo.LatLon
	GreatDist   float64
	Coord       geo.LatLon
}

// Set is the per-observation CandidateSet: the observation, its ordered
// candidates, and a selection flag vector the decoder fills in.
type Set struct {
	Observation   geo.LatLon
	Candidates    []Candidate
	CandidateType []bool
}

// Options configures FindCandidates.
type Options struct {
	InterpDist float64 // meters; default 1
	Radius     float64 // meters; default 10
	Closest    bool    // default true
	// AllowGaps, if true, lets observations with zero candidates pass
	// through with an empty Set instead of failing FindCandidates outright
	// (spec.md §7: "NoCandidates is recoverable if the caller permits
	// gaps; otherwise it surfaces").
	AllowGaps bool
}

// DefaultOptions returns spec.md §6's default match() parameters.
func DefaultOptions() Options {
	return Options{InterpDist: 1, Radius: 10, Closest: true}
}

// FindCandidates interpolates g at opts.InterpDist and, for every
// observation, returns the candidates within opts.Radius, per spec.md
// §4.D. It returns the interpolated graph alongside the per-observation
// sets since the decoder and reconstructor both need to run further
// shortest-path queries over it.
func FindCandidates(g *graph.Graph, observations []geo.LatLon, opts Options) (*graph.Graph, []Set, error) {
	if opts.InterpDist <= 0 {
		opts.InterpDist = 1
	}
	if opts.Radius <= 0 {
		opts.Radius = 10
	}

	interp, err := graph.Interpolate(g, opts.InterpDist)
	if err != nil {
		return nil, nil, err
	}

	idx := BuildIndex(interp)

	sets := make([]Set, len(observations))
	for i, obs := range observations {
		hits := idx.Query(obs.Lat, obs.Lon, opts.Radius)

		var candidates []Candidate
		if opts.Closest {
			candidates = closestPerEdge(obs, hits)
		} else {
			candidates = make([]Candidate, len(hits))
			for j, h := range hits {
				candidates[j] = Candidate{
					NodeID: h.NodeID, EdgeOSMID: h.OSMID, Observation: obs,
					GreatDist: h.Dist, Coord: geo.LatLon{Lat: h.Lat, Lon: h.Lon},
				}
			}
		}

		sets[i] = Set{Observation: obs, Candidates: candidates, CandidateType: make([]bool, len(candidates))}

		if len(candidates) == 0 && !opts.AllowGaps {
			return nil, nil, fmt.Errorf("%w: observation %d", ErrNoCandidates, i)
		}
	}

	return interp, sets, nil
}

// closestPerEdge groups hits by edge osmid and keeps only the closest hit
// per edge, breaking ties by first occurrence (spec.md §4.D step 5).
func closestPerEdge(obs geo.LatLon, hits []Hit) []Candidate {
	bestIdx := make(map[int64]int)
	order := make([]int64, 0, len(hits))

	for i, h := range hits {
		if cur, ok := bestIdx[h.OSMID]; ok {
			if h.Dist < hits[cur].Dist {
				bestIdx[h.OSMID] = i
			}
			continue
		}
		bestIdx[h.OSMID] = i
		order = append(order, h.OSMID)
	}

	candidates := make([]Candidate, 0, len(order))
	for _, osmid := range order {
		h := hits[bestIdx[osmid]]
		candidates = append(candidates, Candidate{
			NodeID: h.NodeID, EdgeOSMID: h.OSMID, Observation: obs,
			GreatDist: h.Dist, Coord: geo.LatLon{Lat: h.Lat, Lon: h.Lon},
		})
	}
	return candidates
}
