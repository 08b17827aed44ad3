package graph

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
)

// ErrNoRoute is returned when no path exists between two nodes, or the
// shortest path found exceeds the PathFinder's configured length cap.
// Wrap with fmt.Errorf("%w: %d -> %d", ErrNoRoute, a, b) so callers can
// still match with errors.Is while recovering the endpoints from the
// message, mirroring the sentinel-error convention used throughout this
// module (see SPEC_FULL.md §7).
var ErrNoRoute = errors.New("graph: no route")

// Path is a shortest path between two nodes.
type Path struct {
	NodeIDs []NodeID
	Length  float64
}

// pqItem is a min-heap entry. Using a concrete struct (not an interface)
// avoids boxing allocations on every push/pop of a hot Dijkstra loop.
type pqItem struct {
	node NodeID
	dist float64
}

type minHeap []pqItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(pqItem)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// PathFinder computes shortest paths over a graph using bidirectional
// Dijkstra with a meet-in-the-middle termination test, memoising results
// within the session (spec.md §5, §9: "memoise (u,v)->length ... consider
// bidirectional Dijkstra with a length cap").
type PathFinder struct {
	g         *Graph
	maxLength float64 // 0 = uncapped
	cache     map[[2]NodeID]Path
}

// NewPathFinder returns a PathFinder over g. maxLength bounds route length;
// routes longer than maxLength are treated as unreachable. A maxLength of
// 0 disables the cap.
func NewPathFinder(g *Graph, maxLength float64) *PathFinder {
	return &PathFinder{g: g, maxLength: maxLength, cache: make(map[[2]NodeID]Path)}
}

// ShortestPath returns the shortest path from u to v, memoised for the
// lifetime of the PathFinder.
func (pf *PathFinder) ShortestPath(u, v NodeID) (Path, error) {
	key := [2]NodeID{u, v}
	if p, ok := pf.cache[key]; ok {
		return p, nil
	}
	p, err := pf.search(u, v)
	if err != nil {
		return Path{}, err
	}
	pf.cache[key] = p
	return p, nil
}

func (pf *PathFinder) search(u, v NodeID) (Path, error) {
	noRoute := fmt.Errorf("%w: %d -> %d", ErrNoRoute, u, v)

	if !pf.g.HasNode(u) || !pf.g.HasNode(v) {
		return Path{}, noRoute
	}
	if u == v {
		return Path{NodeIDs: []NodeID{u}, Length: 0}, nil
	}

	fwdDist := map[NodeID]float64{u: 0}
	bwdDist := map[NodeID]float64{v: 0}
	fwdPred := map[NodeID]NodeID{}
	bwdPred := map[NodeID]NodeID{}
	fwdDone := map[NodeID]bool{}
	bwdDone := map[NodeID]bool{}

	fwdPQ := &minHeap{{node: u, dist: 0}}
	bwdPQ := &minHeap{{node: v, dist: 0}}
	heap.Init(fwdPQ)
	heap.Init(bwdPQ)

	mu := math.Inf(1)
	var meet NodeID
	found := false

	for fwdPQ.Len() > 0 || bwdPQ.Len() > 0 {
		if fwdPQ.Len() > 0 {
			item := heap.Pop(fwdPQ).(pqItem)
			if !fwdDone[item.node] {
				fwdDone[item.node] = true
				if d, ok := bwdDist[item.node]; ok {
					if cand := item.dist + d; cand < mu {
						mu, meet, found = cand, item.node, true
					}
				}
				for _, e := range pf.g.EdgesFrom(item.node) {
					nd := item.dist + e.Length
					if pf.maxLength > 0 && nd > pf.maxLength {
						continue
					}
					if old, ok := fwdDist[e.V]; !ok || nd < old {
						fwdDist[e.V] = nd
						fwdPred[e.V] = item.node
						heap.Push(fwdPQ, pqItem{node: e.V, dist: nd})
					}
				}
			}
		}
		if bwdPQ.Len() > 0 {
			item := heap.Pop(bwdPQ).(pqItem)
			if !bwdDone[item.node] {
				bwdDone[item.node] = true
				if d, ok := fwdDist[item.node]; ok {
					if cand := item.dist + d; cand < mu {
						mu, meet, found = cand, item.node, true
					}
				}
				for _, e := range pf.g.EdgesTo(item.node) {
					nd := item.dist + e.Length
					if pf.maxLength > 0 && nd > pf.maxLength {
						continue
					}
					if old, ok := bwdDist[e.U]; !ok || nd < old {
						bwdDist[e.U] = nd
						bwdPred[e.U] = item.node
						heap.Push(bwdPQ, pqItem{node: e.U, dist: nd})
					}
				}
			}
		}

		fwdMin, bwdMin := math.Inf(1), math.Inf(1)
		if fwdPQ.Len() > 0 {
			fwdMin = (*fwdPQ)[0].dist
		}
		if bwdPQ.Len() > 0 {
			bwdMin = (*bwdPQ)[0].dist
		}
		if found && fwdMin+bwdMin >= mu {
			break
		}
	}

	if !found || (pf.maxLength > 0 && mu > pf.maxLength) {
		return Path{}, noRoute
	}

	var fwdPart []NodeID
	for cur := meet; ; {
		fwdPart = append(fwdPart, cur)
		if cur == u {
			break
		}
		cur = fwdPred[cur]
	}
	for i, j := 0, len(fwdPart)-1; i < j; i, j = i+1, j-1 {
		fwdPart[i], fwdPart[j] = fwdPart[j], fwdPart[i]
	}

	var bwdPart []NodeID
	for cur := meet; cur != v; {
		cur = bwdPred[cur]
		bwdPart = append(bwdPart, cur)
	}

	return Path{NodeIDs: append(fwdPart, bwdPart...), Length: mu}, nil
}
