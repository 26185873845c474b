package query

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// phase is a node's position in the hierarchy traversal: ascending toward
// the query's LCA, at the peak (lateral), or descending away from it.
// Transitions are monotone — ascending -> peak -> descending only, never
// backward — matching spec's "uni_lca" phase machine.
type phase int8

const (
	phaseAscending phase = iota
	phasePeak
	phaseDescending
)

// phaseState is one (edge, phase) search node for the phased algorithms;
// the extra phase dimension is why these use their own map-based
// scratch rather than the flat-array Scratch the unfiltered and classic
// searches share.
type phaseState struct {
	edge store.EdgeID
	ph   phase
}

type phaseItem struct {
	state phaseState
	cost  uint32
}

// phaseHeap is a concrete binary min-heap over phaseItem, the same shape
// as spkernel.MinHeap but keyed by the composite (edge, phase) state these
// algorithms need.
type phaseHeap struct {
	items []phaseItem
}

func (h *phaseHeap) push(s phaseState, cost uint32) {
	h.items = append(h.items, phaseItem{s, cost})
	i := len(h.items) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].cost >= h.items[parent].cost {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *phaseHeap) pop() phaseItem {
	n := len(h.items)
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	n--
	i := 0
	for {
		smallest := i
		l, r := 2*i+1, 2*i+2
		if l < n && h.items[l].cost < h.items[smallest].cost {
			smallest = l
		}
		if r < n && h.items[r].cost < h.items[smallest].cost {
			smallest = r
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
	return top
}

func (h *phaseHeap) len() int { return len(h.items) }

// uniNextPhase decides whether shortcut s may be taken while in phase p,
// and which phase the traversal is in afterward. cellRes is s.Cell's own
// resolution; lcaRes is the query's high-cell resolution.
func uniNextPhase(p phase, s store.Shortcut, cellRes, lcaRes int8) (phase, bool) {
	switch p {
	case phaseAscending:
		if s.Inside == store.InsideAfter && cellRes > lcaRes {
			return phaseAscending, true
		}
		if s.Inside != store.InsideAfter {
			return phasePeak, true
		}
		return 0, false
	case phasePeak:
		if s.Inside == store.InsideBefore {
			return phaseDescending, true
		}
		if s.Inside != store.InsideAfter {
			return phasePeak, true
		}
		return 0, false
	default: // phaseDescending
		if s.Inside == store.InsideBefore {
			return phaseDescending, true
		}
		return 0, false
	}
}

// bwdNextPhase is uniNextPhase's mirror for bi_lca's backward side: the
// roles of InsideAfter (upward) and InsideBefore (downward) swap, since
// the backward search runs from the target toward the LCA the same way
// the forward search runs from the source toward it.
func bwdNextPhase(p phase, s store.Shortcut, cellRes, lcaRes int8) (phase, bool) {
	switch p {
	case phaseAscending:
		if s.Inside == store.InsideBefore && cellRes > lcaRes {
			return phaseAscending, true
		}
		if s.Inside != store.InsideBefore {
			return phasePeak, true
		}
		return 0, false
	case phasePeak:
		if s.Inside == store.InsideAfter {
			return phaseDescending, true
		}
		if s.Inside != store.InsideBefore {
			return phasePeak, true
		}
		return 0, false
	default:
		if s.Inside == store.InsideAfter {
			return phaseDescending, true
		}
		return 0, false
	}
}

// UniLCA is the unidirectional phased search: it ascends the hierarchy
// toward the query's LCA using only upward (Inside == InsideAfter)
// shortcuts, crosses the peak laterally, then descends using only
// downward shortcuts, never reversing the order of those three stages.
func UniLCA(edges *store.EdgeTable, shorts *store.ShortcutTable, source, target store.EdgeID) (uint32, []store.EdgeID, bool) {
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
			nd := item.cost + s.Cost
			if cur, seen := dist[nextState]; !seen || nd < cur {
				dist[nextState] = nd
				pred[nextState] = u
				pq.push(nextState, nd)
			}
		}
	}
	return 0, nil, false
}

func reconstructPhase(pred map[phaseState]phaseState, m phaseState) []store.EdgeID {
	var rev []store.EdgeID
	for cur := m; ; {
		rev = append(rev, cur.edge)
		p := pred[cur]
		if p == cur {
			break
		}
		cur = p
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// BiLCA is bi_lca: a phased bidirectional search where the backward side
// runs the same three-stage machine as the forward side with upward and
// downward swapped (bwdNextPhase), meeting in the middle.
func BiLCA(edges *store.EdgeTable, shorts *store.ShortcutTable, source, target store.EdgeID) (uint32, []store.EdgeID, bool) {
	if source == target {
		return edges.Cost[int(source)], []store.EdgeID{source}, true
	}
	lca := ComputeHighCell(edges, source, target)

	distFwd := make(map[phaseState]uint32)
	predFwd := make(map[phaseState]phaseState)
	distBwd := make(map[phaseState]uint32)
	predBwd := make(map[phaseState]phaseState)

	fwdStart := phaseState{source, phaseAscending}
	distFwd[fwdStart] = 0
	predFwd[fwdStart] = fwdStart
	bwdStart := phaseState{target, phaseAscending}
	distBwd[bwdStart] = edges.Cost[int(target)]
	predBwd[bwdStart] = bwdStart

	var fwdPQ, bwdPQ phaseHeap
	fwdPQ.push(fwdStart, 0)
	bwdPQ.push(bwdStart, edges.Cost[int(target)])

	best := spkernel.Inf
	var meetEdge store.EdgeID = store.NoEdge

	for fwdPQ.len() > 0 || bwdPQ.len() > 0 {
		fwdTop, bwdTop := spkernel.Inf, spkernel.Inf
		if fwdPQ.len() > 0 {
			fwdTop = fwdPQ.items[0].cost
		}
		if bwdPQ.len() > 0 {
			bwdTop = bwdPQ.items[0].cost
		}
		if fwdTop+bwdTop >= best {
			break
		}
		if fwdTop <= bwdTop {
			item := fwdPQ.pop()
			if item.cost > distFwd[item.state] {
				continue
			}
			u := item.state
			if _, bwdDist, ok := bestStateForEdge(distBwd, u.edge); ok {
				if total := item.cost + bwdDist; total < best {
					best = total
					meetEdge = u.edge
				}
			}
			for _, s := range shorts.Forward(u.edge) {
				cellRes := hex.Resolution(s.Cell)
				nextPh, ok := uniNextPhase(u.ph, s, cellRes, lca.Res)
				if !ok {
					continue
				}
				nextState := phaseState{s.ToEdge, nextPh}
				nd := item.cost + s.Cost
				if cur, seen := distFwd[nextState]; !seen || nd < cur {
					distFwd[nextState] = nd
					predFwd[nextState] = u
					fwdPQ.push(nextState, nd)
				}
			}
		} else {
			item := bwdPQ.pop()
			if item.cost > distBwd[item.state] {
				continue
			}
			u := item.state
			if _, fwdDist, ok := bestStateForEdge(distFwd, u.edge); ok {
				if total := fwdDist + item.cost; total < best {
					best = total
					meetEdge = u.edge
				}
			}
			for _, s := range shorts.Backward(u.edge) {
				cellRes := hex.Resolution(s.Cell)
				nextPh, ok := bwdNextPhase(u.ph, s, cellRes, lca.Res)
				if !ok {
					continue
				}
				nextState := phaseState{s.FromEdge, nextPh}
				nd := item.cost + s.Cost
				if cur, seen := distBwd[nextState]; !seen || nd < cur {
					distBwd[nextState] = nd
					predBwd[nextState] = u
					bwdPQ.push(nextState, nd)
				}
			}
		}
	}

	if meetEdge == store.NoEdge {
		return 0, nil, false
	}
	fm, _, _ := bestStateForEdge(distFwd, meetEdge)
	bm, _, _ := bestStateForEdge(distBwd, meetEdge)
	fwdPath := reconstructPhase(predFwd, fm)
	bwdPath := reconstructPhase(predBwd, bm)
	for i, j := 0, len(bwdPath)-1; i < j; i, j = i+1, j-1 {
		bwdPath[i], bwdPath[j] = bwdPath[j], bwdPath[i]
	}
	return best, append(fwdPath, bwdPath[1:]...), true
}

// bestStateForEdge returns the phase state for edge e with the lowest
// recorded distance in dist, used both to find the cheapest known
// distance to e from a given side and to resolve which phase a meeting
// edge was actually reached in when joining the two half-searches.
func bestStateForEdge(dist map[phaseState]uint32, e store.EdgeID) (phaseState, uint32, bool) {
	best := spkernel.Inf
	var result phaseState
	found := false
	for _, ph := range []phase{phaseAscending, phasePeak, phaseDescending} {
		s := phaseState{e, ph}
		if d, ok := dist[s]; ok && d < best {
			best = d
			result = s
			found = true
		}
	}
	return result, best, found
}

// BiLCARes is bi_lca_res: bidirectional with resolution-based pruning
// instead of a phase machine. A forward frontier edge only expands
// shortcuts whose own cell resolution is at least the query's LCA
// resolution; a backward edge's allowed Inside set depends on whether its
// resolution is at or above the LCA resolution (mirroring the forward
// rule the same way bi_lca mirrors uni_lca). Each side also records a
// min_arrival value, the cheapest meeting total that side has discovered;
// besides the sum-of-tops rule, the search stops once both heap tops
// reach the smaller of the two.
func BiLCARes(edges *store.EdgeTable, shorts *store.ShortcutTable, scratch *Scratch, source, target store.EdgeID) (uint32, []store.EdgeID, bool) {
	if source == target {
		return edges.Cost[int(source)], []store.EdgeID{source}, true
	}
	lca := ComputeHighCell(edges, source, target)
	scratch.Reset()
	scratch.relaxFwd(source, 0, source)
	scratch.relaxBwd(target, edges.Cost[int(target)], target)
	scratch.FwdPQ.Push(source, 0)
	scratch.BwdPQ.Push(target, edges.Cost[int(target)])

	best := spkernel.Inf
	minArrivalFwd, minArrivalBwd := spkernel.Inf, spkernel.Inf
	var meet store.EdgeID = store.NoEdge

	for scratch.FwdPQ.Len() > 0 || scratch.BwdPQ.Len() > 0 {
		fwdTop, bwdTop := spkernel.Inf, spkernel.Inf
		if scratch.FwdPQ.Len() > 0 {
			fwdTop = scratch.FwdPQ.PeekCost()
		}
		if scratch.BwdPQ.Len() > 0 {
			bwdTop = scratch.BwdPQ.PeekCost()
		}
		bound := minArrivalFwd
		if minArrivalBwd < bound {
			bound = minArrivalBwd
		}
		if fwdTop+bwdTop >= best || (bound != spkernel.Inf && fwdTop >= bound && bwdTop >= bound) {
			break
		}
		if fwdTop <= bwdTop {
			item := scratch.FwdPQ.Pop()
			if item.Cost > scratch.DistFwd[item.Edge] {
				continue
			}
			u := item.Edge
			if scratch.DistBwd[u] != spkernel.Inf {
				if total := item.Cost + scratch.DistBwd[u]; total < best {
					best = total
					meet = u
				}
				if total := item.Cost + scratch.DistBwd[u]; total < minArrivalFwd {
					minArrivalFwd = total
				}
			}
			for _, s := range shorts.Forward(u) {
				if hex.Resolution(s.Cell) < lca.Res {
					continue
				}
				nd := item.Cost + s.Cost
				if scratch.relaxFwd(s.ToEdge, nd, u) {
					scratch.FwdPQ.Push(s.ToEdge, nd)
				}
			}
		} else {
			item := scratch.BwdPQ.Pop()
			if item.Cost > scratch.DistBwd[item.Edge] {
				continue
			}
			u := item.Edge
			if scratch.DistFwd[u] != spkernel.Inf {
				if total := item.Cost + scratch.DistFwd[u]; total < best {
					best = total
					meet = u
				}
				if total := item.Cost + scratch.DistFwd[u]; total < minArrivalBwd {
					minArrivalBwd = total
				}
			}
			for _, s := range shorts.Backward(u) {
				res := hex.Resolution(s.Cell)
				allowed := res >= lca.Res
				if allowed && s.Inside != store.InsideBefore && s.Inside != store.InsideAt {
					continue
				}
				if !allowed && s.Inside != store.InsideAfter {
					continue
				}
				nd := item.Cost + s.Cost
				if scratch.relaxBwd(s.FromEdge, nd, u) {
					scratch.BwdPQ.Push(s.FromEdge, nd)
				}
			}
		}
	}

	if meet == store.NoEdge {
		return 0, nil, false
	}
	return best, joinMeeting(scratch.PredFwd, scratch.PredBwd, meet), true
}
