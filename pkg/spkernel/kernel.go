// Package spkernel implements the shortest-path kernels the contraction
// pipeline runs once per partition cell per resolution step: given the
// shortcuts currently assigned to one cell, compute, for every reachable
// (src, dst) pair among them, the minimum cost and a representative via
// edge. PURE is a columnar join over the group expressed as iterative
// relaxation (best suited to the sparse local neighborhoods at fine
// resolutions); SCIPY builds a sparse adjacency once and runs an
// all-pairs Dijkstra one source at a time, reusing a single heap (best
// suited to the denser neighborhoods contraction sees at coarse
// resolutions). Both are exact and deterministic, breaking cost ties by
// the smaller via edge id.
package spkernel

import (
	"sort"

	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// Method names one of the two underlying shortest-path kernels.
type Method int

const (
	PURE Method = iota
	SCIPY
)

func (m Method) String() string {
	if m == PURE {
		return "PURE"
	}
	return "SCIPY"
}

// GroupEdge is one directed edge considered by a group's all-pairs
// computation: a shortcut currently assigned to the cell, carrying
// whatever via edge it already has (store.NoEdge for an original base
// turn).
type GroupEdge struct {
	From, To store.EdgeID
	Cost     uint32
	Via      store.EdgeID
}

// PathResult is one (From, To) entry of a group's all-pairs output: the
// cheapest cost between them within the group, and a representative via
// edge satisfying the mid-edge property — (From, Via) and (Via, To), if
// either is itself a multi-hop pair, decompose further through entries
// this same computation produced.
type PathResult struct {
	From, To store.EdgeID
	Cost     uint32
	Via      store.EdgeID
}

// RunGroup executes the all-pairs kernel over one partition cell's
// currently assigned edges, dispatching to PURE when res >= hybridRes and
// to SCIPY otherwise. This boundary is ">=", confirmed against the
// resolution dispatch rule the generator this module's design is
// grounded on uses.
func RunGroup(res, hybridRes int8, edges []GroupEdge) ([]PathResult, Method) {
	if res >= hybridRes {
		return RunPureAllPairs(edges), PURE
	}
	return RunScipyAllPairs(edges), SCIPY
}

// indexNodes collects the distinct edge ids appearing as either end of
// group, in sorted order, so both kernels iterate and break ties
// deterministically regardless of the input slice's own order.
func indexNodes(edges []GroupEdge) ([]store.EdgeID, map[store.EdgeID]int) {
	seen := make(map[store.EdgeID]struct{}, 2*len(edges))
	for _, e := range edges {
		seen[e.From] = struct{}{}
		seen[e.To] = struct{}{}
	}
	nodes := make([]store.EdgeID, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	idx := make(map[store.EdgeID]int, len(nodes))
	for i, n := range nodes {
		idx[n] = i
	}
	return nodes, idx
}

// RunPureAllPairs computes the group's all-pairs shortest paths as a
// dense join: seed a cost/via matrix from the direct edges, then relax
// every (i, j) pair through each candidate midpoint k in turn — the
// classic Floyd-Warshall all-pairs join, expressed here over the group's
// own dense node index rather than the full edge table.
func RunPureAllPairs(edges []GroupEdge) []PathResult {
	nodes, idx := indexNodes(edges)
	n := len(nodes)
	if n == 0 {
		return nil
	}

	dist := make([][]uint32, n)
	via := make([][]store.EdgeID, n)
	for i := range dist {
		dist[i] = make([]uint32, n)
		via[i] = make([]store.EdgeID, n)
		for j := range dist[i] {
			dist[i][j] = Inf
			via[i][j] = store.NoEdge
		}
		dist[i][i] = 0
	}

	for _, e := range edges {
		i, j := idx[e.From], idx[e.To]
		if i == j {
			continue
		}
		if e.Cost < dist[i][j] || (e.Cost == dist[i][j] && e.Via < via[i][j]) {
			dist[i][j] = e.Cost
			via[i][j] = e.Via
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if i == k || dist[i][k] == Inf {
				continue
			}
			for j := 0; j < n; j++ {
				if j == k || j == i || dist[k][j] == Inf {
					continue
				}
				cand := dist[i][k] + dist[k][j]
				if cand < dist[i][j] || (cand == dist[i][j] && nodes[k] < via[i][j]) {
					dist[i][j] = cand
					via[i][j] = nodes[k]
				}
			}
		}
	}

	var out []PathResult
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || dist[i][j] == Inf {
				continue
			}
			out = append(out, PathResult{From: nodes[i], To: nodes[j], Cost: dist[i][j], Via: via[i][j]})
		}
	}
	return out
}

// RunScipyAllPairs computes the group's all-pairs shortest paths by
// building a sparse adjacency once and running Dijkstra from every node
// in turn, reusing one MinHeap and one distance slice across sources. The
// via recorded for a multi-hop path is the predecessor node on the
// shortest-path tree, which is always itself reachable from the same
// source within this same pass, satisfying the mid-edge property; a
// direct single-hop edge keeps its own stored via unchanged.
func RunScipyAllPairs(edges []GroupEdge) []PathResult {
	nodes, idx := indexNodes(edges)
	n := len(nodes)
	if n == 0 {
		return nil
	}

	adj := make(map[store.EdgeID][]GroupEdge, n)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
	}

	dist := make([]uint32, n)
	via := make([]store.EdgeID, n)
	var pq MinHeap

	var out []PathResult
	for si, src := range nodes {
		for i := range dist {
			dist[i] = Inf
			via[i] = store.NoEdge
		}
		dist[si] = 0
		pq.Reset()
		pq.Push(src, 0)

		for pq.Len() > 0 {
			cur := pq.Pop()
			ci := idx[cur.Edge]
			if cur.Cost > dist[ci] {
				continue
			}
			for _, e := range adj[cur.Edge] {
				ni := idx[e.To]
				next := cur.Cost + e.Cost

				candidateVia := cur.Edge
				if ci == si {
					candidateVia = e.Via
				}

				if next < dist[ni] || (next == dist[ni] && candidateVia < via[ni]) {
					dist[ni] = next
					via[ni] = candidateVia
					pq.Push(e.To, next)
				}
			}
		}

		for di, dst := range nodes {
			if di == si || dist[di] == Inf {
				continue
			}
			out = append(out, PathResult{From: src, To: dst, Cost: dist[di], Via: via[di]})
		}
	}
	return out
}
