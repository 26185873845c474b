package query

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// UniDijkstra is textbook unidirectional Dijkstra over the full shortcut
// adjacency, no hierarchy filtering — the correctness baseline every
// pruned algorithm is checked against.
func UniDijkstra(edges *store.EdgeTable, shorts *store.ShortcutTable, scratch *Scratch, source, target store.EdgeID) (uint32, []store.EdgeID, bool) {
	if source == target {
		return edges.Cost[int(source)], []store.EdgeID{source}, true
	}
	scratch.Reset()
	scratch.relaxFwd(source, 0, source)
	scratch.FwdPQ.Push(source, 0)

	for scratch.FwdPQ.Len() > 0 {
		item := scratch.FwdPQ.Pop()
		if item.Cost > scratch.DistFwd[item.Edge] {
			continue
		}
		u := item.Edge
		if u == target {
			break
		}
		for _, s := range shorts.Forward(u) {
			nd := item.Cost + s.Cost
			if scratch.relaxFwd(s.ToEdge, nd, u) {
				scratch.FwdPQ.Push(s.ToEdge, nd)
			}
		}
	}

	if scratch.DistFwd[target] == spkernel.Inf {
		return 0, nil, false
	}
	cost := scratch.DistFwd[target] + edges.Cost[int(target)]
	path := reconstructFwd(scratch.PredFwd, target)
	return cost, path, true
}

// BiDijkstra is bidirectional Dijkstra over the full shortcut adjacency,
// alternating expansion toward whichever side's heap top is currently
// smaller and stopping once neither side's frontier can still improve on
// the best meeting cost found so far.
func BiDijkstra(edges *store.EdgeTable, shorts *store.ShortcutTable, scratch *Scratch, source, target store.EdgeID) (uint32, []store.EdgeID, bool) {
	if source == target {
		return edges.Cost[int(source)], []store.EdgeID{source}, true
	}
	scratch.Reset()
	scratch.relaxFwd(source, 0, source)
	scratch.relaxBwd(target, edges.Cost[int(target)], target)
	scratch.FwdPQ.Push(source, 0)
	scratch.BwdPQ.Push(target, edges.Cost[int(target)])

	best := spkernel.Inf
	var meet store.EdgeID = store.NoEdge

	for scratch.FwdPQ.Len() > 0 && scratch.BwdPQ.Len() > 0 {
		if scratch.FwdPQ.PeekCost()+scratch.BwdPQ.PeekCost() >= best {
			break
		}
		if scratch.FwdPQ.PeekCost() <= scratch.BwdPQ.PeekCost() {
			expandFwd(shorts, scratch, &best, &meet)
		} else {
			expandBwd(shorts, scratch, &best, &meet)
		}
	}

	if meet == store.NoEdge {
		return 0, nil, false
	}
	return best, joinMeeting(scratch.PredFwd, scratch.PredBwd, meet), true
}

func expandFwd(shorts *store.ShortcutTable, scratch *Scratch, best *uint32, meet *store.EdgeID) {
	item := scratch.FwdPQ.Pop()
	if item.Cost > scratch.DistFwd[item.Edge] {
		return
	}
	u := item.Edge
	if scratch.DistBwd[u] != spkernel.Inf {
		if total := item.Cost + scratch.DistBwd[u]; total < *best {
			*best = total
			*meet = u
		}
	}
	for _, s := range shorts.Forward(u) {
		nd := item.Cost + s.Cost
		if scratch.relaxFwd(s.ToEdge, nd, u) {
			scratch.FwdPQ.Push(s.ToEdge, nd)
		}
	}
}

func expandBwd(shorts *store.ShortcutTable, scratch *Scratch, best *uint32, meet *store.EdgeID) {
	item := scratch.BwdPQ.Pop()
	if item.Cost > scratch.DistBwd[item.Edge] {
		return
	}
	u := item.Edge
	if scratch.DistFwd[u] != spkernel.Inf {
		if total := item.Cost + scratch.DistFwd[u]; total < *best {
			*best = total
			*meet = u
		}
	}
	for _, s := range shorts.Backward(u) {
		nd := item.Cost + s.Cost
		if scratch.relaxBwd(s.FromEdge, nd, u) {
			scratch.BwdPQ.Push(s.FromEdge, nd)
		}
	}
}
