package store

import "sort"

// ShortcutTable holds every shortcut produced by contraction, along with
// two CSR indexes over it: one keyed by FromEdge (for forward search) and
// one keyed by ToEdge (for backward search), mirroring the fwd_adj/bwd_adj
// preload the query engine needs once per dataset load rather than once
// per query.
type ShortcutTable struct {
	Records []Shortcut

	fwdFirstOut []uint32 // indexed by FromEdge
	fwdOrder    []uint32 // indices into Records, grouped by FromEdge

	bwdFirstOut []uint32 // indexed by ToEdge
	bwdOrder    []uint32 // indices into Records, grouped by ToEdge
}

// NewShortcutTable builds both indexes over records. numEdges bounds the
// dense edge-id space the indexes are built over.
func NewShortcutTable(records []Shortcut, numEdges int) *ShortcutTable {
	t := &ShortcutTable{Records: records}
	t.reindex(numEdges)
	return t
}

func (t *ShortcutTable) reindex(numEdges int) {
	n := len(t.Records)

	fwdOrder := make([]uint32, n)
	for i := range fwdOrder {
		fwdOrder[i] = uint32(i)
	}
	sort.Slice(fwdOrder, func(i, j int) bool {
		a, b := t.Records[fwdOrder[i]], t.Records[fwdOrder[j]]
		if a.FromEdge != b.FromEdge {
			return a.FromEdge < b.FromEdge
		}
		return a.ToEdge < b.ToEdge
	})
	fwdFirstOut := make([]uint32, numEdges+1)
	for _, idx := range fwdOrder {
		fwdFirstOut[int(t.Records[idx].FromEdge)+1]++
	}
	for i := 1; i <= numEdges; i++ {
		fwdFirstOut[i] += fwdFirstOut[i-1]
	}

	bwdOrder := make([]uint32, n)
	for i := range bwdOrder {
		bwdOrder[i] = uint32(i)
	}
	sort.Slice(bwdOrder, func(i, j int) bool {
		a, b := t.Records[bwdOrder[i]], t.Records[bwdOrder[j]]
		if a.ToEdge != b.ToEdge {
			return a.ToEdge < b.ToEdge
		}
		return a.FromEdge < b.FromEdge
	})
	bwdFirstOut := make([]uint32, numEdges+1)
	for _, idx := range bwdOrder {
		bwdFirstOut[int(t.Records[idx].ToEdge)+1]++
	}
	for i := 1; i <= numEdges; i++ {
		bwdFirstOut[i] += bwdFirstOut[i-1]
	}

	t.fwdFirstOut, t.fwdOrder = fwdFirstOut, fwdOrder
	t.bwdFirstOut, t.bwdOrder = bwdFirstOut, bwdOrder
}

// Forward returns the shortcuts starting at edge e.
func (t *ShortcutTable) Forward(e EdgeID) []Shortcut {
	return t.slice(t.fwdFirstOut, t.fwdOrder, e)
}

// Backward returns the shortcuts ending at edge e.
func (t *ShortcutTable) Backward(e EdgeID) []Shortcut {
	return t.slice(t.bwdFirstOut, t.bwdOrder, e)
}

func (t *ShortcutTable) slice(firstOut []uint32, order []uint32, e EdgeID) []Shortcut {
	i := int(e)
	if i < 0 || i+1 >= len(firstOut) {
		return nil
	}
	lo, hi := firstOut[i], firstOut[i+1]
	if lo == hi {
		return nil
	}
	out := make([]Shortcut, 0, hi-lo)
	for _, idx := range order[lo:hi] {
		out = append(out, t.Records[idx])
	}
	return out
}

// Len returns the number of shortcut records.
func (t *ShortcutTable) Len() int {
	return len(t.Records)
}
