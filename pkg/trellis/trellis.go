// Package trellis builds the layered DAG the Viterbi decoder searches: one
// layer per GPS observation, nodes named by (observation, candidate) index,
// bracketed by virtual start/target sentinels (spec.md §4.E).
package trellis

import (
	"fmt"

	"mapmatch/pkg/candidate"
)

// Start and Target are the sentinel node names.
const (
	Start  = "start"
	Target = "target"
)

// Trellis is a layered DAG: Layers[0] is always {Start}, Layers[len-1] is
// always {Target}, and every layer is fully connected to the next — the
// decoder does not need an explicit edge list to walk it.
type Trellis struct {
	Layers     [][]string
	Candidates map[string]*candidate.Candidate // nil for Start/Target
}

// NodeName returns the trellis node name for candidate j of observation i.
func NodeName(i, j int) string { return fmt.Sprintf("%d_%d", i, j) }

// Build constructs a Trellis from the per-observation candidate sets
// produced by pkg/candidate.FindCandidates.
func Build(sets []candidate.Set) *Trellis {
	t := &Trellis{Candidates: make(map[string]*candidate.Candidate)}

	t.Layers = append(t.Layers, []string{Start})
	t.Candidates[Start] = nil

	for i, s := range sets {
		layer := make([]string, len(s.Candidates))
		for j := range s.Candidates {
			name := NodeName(i, j)
			layer[j] = name
			c := s.Candidates[j]
			t.Candidates[name] = &c
		}
		t.Layers = append(t.Layers, layer)
	}

	t.Layers = append(t.Layers, []string{Target})
	t.Candidates[Target] = nil

	return t
}

// IsSentinel reports whether name is the Start or Target virtual node.
func IsSentinel(name string) bool { return name == Start || name == Target }
