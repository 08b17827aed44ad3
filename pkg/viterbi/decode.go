package viterbi

import (
	"math"

	"mapmatch/pkg/candidate"
	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/trellis"
)

// Options configures Decode.
type Options struct {
	Sigma float64 // GPS noise std-dev, meters; default DefaultSigma
	Beta  float64 // route/great-circle discrepancy scale; default DefaultBeta
}

// DefaultOptions returns the spec's default decoder parameters.
func DefaultOptions() Options {
	return Options{Sigma: DefaultSigma, Beta: DefaultBeta}
}

// Decode runs the forward Viterbi sweep over tr, using pf to resolve the
// network route length between consecutive candidates. It walks
// tr.Layers strictly in order — a topological sweep, not a generic
// FIFO/BFS over an explicit edge list, since the trellis is already
// layered and fully bipartite between adjacent layers (spec.md §4.F).
//
// It returns the joint log-probability of the most likely path and its
// predecessor map (trellis node name -> trellis node name), or
// ErrUnreachable if the target sentinel is never reached.
func Decode(pf *graph.PathFinder, tr *trellis.Trellis, opts Options) (float64, map[string]string, error) {
	if opts.Sigma <= 0 {
		opts.Sigma = DefaultSigma
	}
	if opts.Beta <= 0 {
		opts.Beta = DefaultBeta
	}

	logProb := map[string]float64{trellis.Start: 0}
	pred := map[string]string{}

	for l := 0; l < len(tr.Layers)-1; l++ {
		for _, u := range tr.Layers[l] {
			ju, ok := logProb[u]
			if !ok || math.IsInf(ju, -1) {
				continue
			}
			cu := tr.Candidates[u]

			for _, v := range tr.Layers[l+1] {
				cv := tr.Candidates[v]

				step, ok := transitionLogProb(pf, cu, cv, opts)
				if !ok {
					continue
				}

				cand := ju + step
				if cur, seen := logProb[v]; !seen || cand > cur {
					logProb[v] = cand
					pred[v] = u
				}
			}
		}
	}

	final, ok := logProb[trellis.Target]
	if !ok || math.IsInf(final, -1) {
		return 0, nil, ErrUnreachable
	}
	return final, pred, nil
}

// transitionLogProb returns the log-probability of stepping from cu to cv
// (either may be nil, denoting a sentinel). The bool is false when the
// step is impossible — zero emission probability, or no route exists
// between the two candidates — in which case the relaxation must be
// skipped entirely rather than folded in as log(0).
func transitionLogProb(pf *graph.PathFinder, cu, cv *candidate.Candidate, opts Options) (float64, bool) {
	emission := 1.0 // sentinel target: no observation to score
	if cv != nil {
		emission = EmissionProb(cv.GreatDist, opts.Sigma)
		if emission <= 0 {
			return 0, false
		}
	}

	if cu == nil || cv == nil {
		return math.Log10(emission), true
	}

	path, err := pf.ShortestPath(cu.NodeID, cv.NodeID)
	if err != nil {
		return 0, false
	}

	greatCircle := geo.Haversine(cu.Coord.Lat, cu.Coord.Lon, cv.Coord.Lat, cv.Coord.Lon)
	transition := TransitionProb(path.Length, greatCircle, opts.Beta)
	if transition <= 0 {
		return 0, false
	}

	return math.Log10(emission) + math.Log10(transition), true
}
