// Package match wires the Candidate Finder, Trellis, Viterbi Decoder and
// Path Reconstructor into the single top-level matching entry point
// (spec.md §6).
package match

import (
	"mapmatch/pkg/candidate"
	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/trellis"
	"mapmatch/pkg/viterbi"
)

// Options configures a matching session. Zero values of the numeric
// fields fall back to spec.md §6's defaults; a zero Closest means false.
type Options struct {
	InterpDist     float64 // default 1m
	Radius         float64 // default 10m
	Closest        bool    // default true; set via DefaultOptions
	Sigma          float64 // default viterbi.DefaultSigma
	Beta           float64 // default viterbi.DefaultBeta
	AllowGaps      bool    // permit observations with zero candidates
	MaxRouteLength float64 // 0 = uncapped
}

// DefaultOptions returns spec.md §6's literal defaults:
// interp_dist=1m, radius=10m, closest=true, σ=4.07, β=20.
func DefaultOptions() Options {
	return Options{
		InterpDist: 1,
		Radius:     10,
		Closest:    true,
		Sigma:      viterbi.DefaultSigma,
		Beta:       viterbi.DefaultBeta,
	}
}

// Result is the outcome of a matching session: the deduplicated node-id
// path, its polyline, and the joint log-probability of the winning path
// through the trellis.
type Result struct {
	ChosenNodeIDs []graph.NodeID
	Polyline      []geo.LatLon
	JointLogProb  float64
}

// Match runs a full map-matching session over g for the given ordered
// GPS trajectory: interpolate, find candidates, build the trellis,
// decode with Viterbi, and reconstruct the node path and polyline
// (spec.md §6's `match()`).
func Match(g *graph.Graph, trajectory []geo.LatLon, opts Options) (Result, error) {
	interp, sets, err := candidate.FindCandidates(g, trajectory, candidate.Options{
		InterpDist: opts.InterpDist,
		Radius:     opts.Radius,
		Closest:    opts.Closest,
		AllowGaps:  opts.AllowGaps,
	})
	if err != nil {
		return Result{}, err
	}

	tr := trellis.Build(sets)
	pf := graph.NewPathFinder(interp, opts.MaxRouteLength)

	jointLogProb, pred, err := viterbi.Decode(pf, tr, viterbi.Options{Sigma: opts.Sigma, Beta: opts.Beta})
	if err != nil {
		return Result{}, err
	}

	nodeIDs, polyline, err := Reconstruct(pf, interp, tr, pred)
	if err != nil {
		return Result{}, err
	}

	return Result{ChosenNodeIDs: nodeIDs, Polyline: polyline, JointLogProb: jointLogProb}, nil
}
