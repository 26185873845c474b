package query

import (
	"testing"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// chainFixture builds a five base-edge chain 0->1->2->3->4 with one
// base-pair shortcut per hop, forming the single path every algorithm in
// this package is exercised against. The first two shortcuts are tagged
// InsideAfter at resolutions above the chain's LCA (computed below as 0),
// the last two InsideBefore, so classic's inside filtering and the
// phased hierarchy algorithms all have a legal ascend/peak/descend route
// through it. Every edge's own Cost is 1; shortcut costs are 2,3,4,5 in
// hop order, so the whole-chain cost comes out to 15 regardless of which
// algorithm or which node a bidirectional search happens to meet at.
func chainFixture(t *testing.T) (*store.EdgeTable, *store.ShortcutTable) {
	t.Helper()

	cellAt := func(d ...uint8) hex.Cell {
		return hex.NewCell(int8(len(d)), 1, d)
	}
	cells := []hex.Cell{
		cellAt(0, 0),
		cellAt(0, 1),
		cellAt(0, 2),
		cellAt(1, 0),
		cellAt(1, 1),
		cellAt(1, 2),
	}

	edges := store.NewEdgeTable(5)
	for i := 0; i < 5; i++ {
		_, lcaRes := hex.LCA(cells[i], cells[i+1])
		edges.Set(store.BaseEdge{
			ID:       store.EdgeID(i),
			FromCell: cells[i],
			ToCell:   cells[i+1],
			LCARes:   lcaRes,
			Cost:     1,
		})
	}

	records := []store.Shortcut{
		{FromEdge: 0, ToEdge: 1, Cost: 2, ViaEdge: store.NoEdge, Inside: store.InsideAfter, Cell: cellAt(0, 0)},
		{FromEdge: 1, ToEdge: 2, Cost: 3, ViaEdge: store.NoEdge, Inside: store.InsideAfter, Cell: cellAt(0)},
		{FromEdge: 2, ToEdge: 3, Cost: 4, ViaEdge: store.NoEdge, Inside: store.InsideBefore, Cell: cellAt(0)},
		{FromEdge: 3, ToEdge: 4, Cost: 5, ViaEdge: store.NoEdge, Inside: store.InsideBefore, Cell: cellAt(0, 0)},
	}
	shorts := store.NewShortcutTable(records, 5)
	return edges, shorts
}

func edgeIDs(ids ...int) []store.EdgeID {
	out := make([]store.EdgeID, len(ids))
	for i, id := range ids {
		out[i] = store.EdgeID(id)
	}
	return out
}
