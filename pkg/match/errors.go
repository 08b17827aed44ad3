package match

import (
	"mapmatch/pkg/candidate"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/viterbi"
)

// Re-exported sentinels from the packages Match orchestrates, so callers
// that only import pkg/match can still errors.Is against the full
// taxonomy without reaching into pkg/candidate, pkg/graph or pkg/viterbi
// directly (spec.md §7).
var (
	ErrNoCandidates       = candidate.ErrNoCandidates
	ErrNoRoute            = graph.ErrNoRoute
	ErrUnreachable        = viterbi.ErrUnreachable
	ErrEmptyGraph         = graph.ErrEmptyGraph
	ErrDegenerateGeometry = graph.ErrDegenerateGeometry
)
