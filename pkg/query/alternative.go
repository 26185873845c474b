package query

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// DefaultPenaltyFactor is the alternative-route cost multiplier applied
// to shortcuts that overlap the primary path, used whenever a caller
// does not supply its own.
const DefaultPenaltyFactor = 2.0

// Alternative finds a second route between source and target that
// diverges from primaryExpanded (the already-computed, fully expanded
// primary path): it reruns the phased unidirectional search with the
// cost of any shortcut touching that path's edges multiplied by
// penaltyFactor. A shortcut is penalized if its FromEdge, ToEdge, or
// ViaEdge belongs to the primary path — penalizing individual edges
// rather than whole shortcuts, so a shortcut only partially overlapping
// the primary route still gets penalized.
func Alternative(edges *store.EdgeTable, shorts *store.ShortcutTable, primaryExpanded []store.EdgeID, source, target store.EdgeID, penaltyFactor float64) (uint32, []store.EdgeID, bool) {
	if penaltyFactor <= 0 {
		penaltyFactor = DefaultPenaltyFactor
	}
	penalized := penalizedEdgeSet(primaryExpanded)
	return uniLCAPenalized(edges, shorts, source, target, penalized, penaltyFactor)
}

func penalizedEdgeSet(path []store.EdgeID) map[store.EdgeID]bool {
	set := make(map[store.EdgeID]bool, len(path))
	for _, e := range path {
		set[e] = true
	}
	return set
}

func penalizedCost(s store.Shortcut, penalized map[store.EdgeID]bool, factor float64) uint32 {
	if penalized[s.FromEdge] || penalized[s.ToEdge] || penalized[s.ViaEdge] {
		return uint32(float64(s.Cost) * factor)
	}
	return s.Cost
}

// uniLCAPenalized is UniLCA with every shortcut's cost run through
// penalizedCost before relaxation, the same phase machine otherwise.
func uniLCAPenalized(edges *store.EdgeTable, shorts *store.ShortcutTable, source, target store.EdgeID, penalized map[store.EdgeID]bool, factor float64) (uint32, []store.EdgeID, bool) {
	if source == target {
		return edges.Cost[int(source)], []store.EdgeID{source}, true
	}
	lca := ComputeHighCell(edges, source, target)

	dist := make(map[phaseState]uint32)
	pred := make(map[phaseState]phaseState)

	start := phaseState{source, phaseAscending}
	dist[start] = 0
	pred[start] = start

	var pq phaseHeap
	pq.push(start, 0)

	for pq.len() > 0 {
		item := pq.pop()
		if item.cost > dist[item.state] {
			continue
		}
		u := item.state
		if u.edge == target {
			cost := item.cost + edges.Cost[int(target)]
			return cost, reconstructPhase(pred, u), true
		}
		for _, s := range shorts.Forward(u.edge) {
			cellRes := hex.Resolution(s.Cell)
			nextPh, ok := uniNextPhase(u.ph, s, cellRes, lca.Res)
			if !ok {
				continue
			}
			nextState := phaseState{s.ToEdge, nextPh}
			nd := item.cost + penalizedCost(s, penalized, factor)
			if cur, seen := dist[nextState]; !seen || nd < cur {
				dist[nextState] = nd
				pred[nextState] = u
				pq.push(nextState, nd)
			}
		}
	}
	return 0, nil, false
}
