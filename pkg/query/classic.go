package query

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// Classic runs the bidirectional search with inside filtering: the forward
// side only ever expands upward (Inside == InsideAfter) shortcuts, the
// backward side only downward-or-lateral (InsideBefore or InsideAt) ones.
// Unlike BiDijkstra's sum-of-tops stopping rule, classic stops once both
// heap tops individually reach the best cost found so far.
func Classic(edges *store.EdgeTable, shorts *store.ShortcutTable, scratch *Scratch, source, target store.EdgeID) (uint32, []store.EdgeID, bool) {
	return M2M(edges, shorts, scratch, []store.EdgeID{source}, []store.EdgeID{target})
}

// M2M is classic's many-to-many generalization: every source starts its
// forward search at cost 0, every target starts its backward search at
// its own Cost(target), and the result is the best path over every
// (source, target) pair.
func M2M(edges *store.EdgeTable, shorts *store.ShortcutTable, scratch *Scratch, sources, targets []store.EdgeID) (uint32, []store.EdgeID, bool) {
	scratch.Reset()

	for _, s := range sources {
		scratch.relaxFwd(s, 0, s)
		scratch.FwdPQ.Push(s, 0)
	}
	for _, t := range targets {
		c := edges.Cost[int(t)]
		scratch.relaxBwd(t, c, t)
		scratch.BwdPQ.Push(t, c)
	}

	best := spkernel.Inf
	var meet store.EdgeID = store.NoEdge

	for scratch.FwdPQ.Len() > 0 || scratch.BwdPQ.Len() > 0 {
		fwdTop, bwdTop := spkernel.Inf, spkernel.Inf
		if scratch.FwdPQ.Len() > 0 {
			fwdTop = scratch.FwdPQ.PeekCost()
		}
		if scratch.BwdPQ.Len() > 0 {
			bwdTop = scratch.BwdPQ.PeekCost()
		}
		if fwdTop >= best && bwdTop >= best {
			break
		}
		if fwdTop <= bwdTop {
			classicExpandFwd(shorts, scratch, &best, &meet)
		} else {
			classicExpandBwd(shorts, scratch, &best, &meet)
		}
	}

	if meet == store.NoEdge {
		return 0, nil, false
	}
	return best, joinMeeting(scratch.PredFwd, scratch.PredBwd, meet), true
}

func classicExpandFwd(shorts *store.ShortcutTable, scratch *Scratch, best *uint32, meet *store.EdgeID) {
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
		if s.Inside != store.InsideAfter {
			continue
		}
		nd := item.Cost + s.Cost
		if scratch.relaxFwd(s.ToEdge, nd, u) {
			scratch.FwdPQ.Push(s.ToEdge, nd)
		}
	}
}

func classicExpandBwd(shorts *store.ShortcutTable, scratch *Scratch, best *uint32, meet *store.EdgeID) {
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
		if s.Inside != store.InsideBefore && s.Inside != store.InsideAt {
			continue
		}
		nd := item.Cost + s.Cost
		if scratch.relaxBwd(s.FromEdge, nd, u) {
			scratch.BwdPQ.Push(s.FromEdge, nd)
		}
	}
}
