package contract

import (
	"time"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/partition"
	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// edgeOwners reports the cell(s) a base edge belongs to at resolution r,
// treating the edge's own FromCell/ToCell/LCARes as its inner/outer span
// — the same membership rule partition.Owners applies to shortcuts,
// since a base edge is just a shortcut with no further decomposition.
func edgeOwners(edges *store.EdgeTable, e store.EdgeID, r int8) []hex.Cell {
	i := int(e)
	from, to, lcaRes := edges.FromCell[i], edges.ToCell[i], edges.LCARes[i]
	return partition.Owners(from, to, hex.Resolution(from), hex.Resolution(to), lcaRes, r)
}

// buildShortcut joins (from, to) against the base edge table to recompute
// a shortcut's own hierarchy span, per the join-on-base-edges rule: inner
// is from's own starting cell, outer is to's own ending cell, and lca_res
// is their common ancestor's resolution.
func buildShortcut(from, to store.EdgeID, cost uint32, via store.EdgeID, edges *store.EdgeTable) store.Shortcut {
	inner := edges.FromCell[int(from)]
	outer := edges.ToCell[int(to)]
	_, lcaRes := hex.LCA(inner, outer)
	return store.Shortcut{
		FromEdge:  from,
		ToEdge:    to,
		Cost:      cost,
		ViaEdge:   via,
		InnerCell: inner,
		OuterCell: outer,
		InnerRes:  hex.Resolution(inner),
		OuterRes:  hex.Resolution(outer),
		LCARes:    lcaRes,
	}
}

// seedFromAdjacency builds the initial shortcut set a partition starts
// contraction from: one base pair per allowed turn between two of the
// partition's own member edges, priced at the from edge's own traversal
// cost (the to edge's cost is added by the query at the target), with no via (IsBasePair is true) and a hierarchy span
// freshly joined from the base edge table.
func seedFromAdjacency(members []store.EdgeID, adj *store.AdjacencyTable, edges *store.EdgeTable) []store.Shortcut {
	memberSet := make(map[store.EdgeID]struct{}, len(members))
	for _, m := range members {
		memberSet[m] = struct{}{}
	}

	var out []store.Shortcut
	for _, from := range members {
		for _, to := range adj.Continuations(from) {
			if _, ok := memberSet[to]; !ok {
				continue
			}
			out = append(out, buildShortcut(from, to, edges.Cost[int(from)], store.NoEdge, edges))
		}
	}
	return out
}

// dedupByEndpoints collapses shortcuts that share a (from_edge, to_edge)
// pair down to the single cheapest one, breaking cost ties by the
// smaller via edge id — the merge step Phase 2 runs before every
// resolution's assign/group/kernel cycle, concatenating what would
// otherwise be each child cell's own shard table.
func dedupByEndpoints(shortcuts []store.Shortcut) []store.Shortcut {
	type key struct{ from, to store.EdgeID }
	best := make(map[key]store.Shortcut, len(shortcuts))
	for _, s := range shortcuts {
		k := key{s.FromEdge, s.ToEdge}
		cur, ok := best[k]
		if !ok || s.Cost < cur.Cost || (s.Cost == cur.Cost && s.ViaEdge < cur.ViaEdge) {
			best[k] = s
		}
	}
	out := make([]store.Shortcut, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	return out
}

// runGroupKernel runs the SP kernel over one cell's group of shortcuts as
// a genuine all-pairs computation, recording the method and duration
// against stats, and rebuilds every result as a store.Shortcut with its
// hierarchy span freshly joined from the base edge table.
func runGroupKernel(group []store.Shortcut, edges *store.EdgeTable, r, hybridRes int8, stats *PhaseStats) []store.Shortcut {
	if len(group) == 0 {
		return nil
	}

	ge := make([]spkernel.GroupEdge, len(group))
	for i, s := range group {
		ge[i] = spkernel.GroupEdge{From: s.FromEdge, To: s.ToEdge, Cost: s.Cost, Via: s.ViaEdge}
	}

	start := time.Now()
	results, method := spkernel.RunGroup(r, hybridRes, ge)
	if stats != nil {
		stats.Record(r, method, time.Since(start))
	}

	out := make([]store.Shortcut, len(results))
	for i, pr := range results {
		out[i] = buildShortcut(pr.From, pr.To, pr.Cost, pr.Via, edges)
	}
	return out
}

// runAssignGroupReplace executes one resolution step of the assign,
// group, run-kernel, replace cycle every phase is built from: every
// shortcut in current is assigned the cell(s) it belongs to at r (zero,
// one, or two, per partition.Owners), grouped by cell, run through the SP
// kernel as an all-pairs computation, and replaced wholesale by the
// kernel's output. A shortcut assigned to no cell is removed from active
// and returned in deactivated instead. A shortcut assigned to two cells
// is processed — and so may reappear, independently refreshed — in both
// groups; later merge/dedup steps reconcile the duplicates.
func runAssignGroupReplace(current []store.Shortcut, edges *store.EdgeTable, r, hybridRes int8, stats *PhaseStats) (active, deactivated []store.Shortcut) {
	groups := make(map[hex.Cell][]store.Shortcut)
	for _, s := range current {
		cells := partition.Owners(s.InnerCell, s.OuterCell, s.InnerRes, s.OuterRes, s.LCARes, r)
		if len(cells) == 0 {
			deactivated = append(deactivated, s)
			continue
		}
		for _, c := range cells {
			groups[c] = append(groups[c], s)
		}
	}

	for _, group := range groups {
		active = append(active, runGroupKernel(group, edges, r, hybridRes, stats)...)
	}
	return active, deactivated
}

// maxRes returns the finer (numerically larger) of a shortcut's own
// inner and outer resolutions — how far its span reaches away from the
// root, used by Phase 3 and Phase 4 to decide when a shortcut can no
// longer be refined.
func maxRes(s store.Shortcut) int8 {
	if s.InnerRes > s.OuterRes {
		return s.InnerRes
	}
	return s.OuterRes
}
