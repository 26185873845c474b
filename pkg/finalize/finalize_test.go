package finalize

import (
	"testing"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// threeEdges builds three base edges at resolution 2, base cell 1, so
// LCARes/InnerRes/OuterRes can be set to concrete, checkable values.
func threeEdges(t *testing.T) *store.EdgeTable {
	t.Helper()
	cellAt := func(d0, d1 uint8) hex.Cell {
		return hex.NewCell(2, 1, []uint8{d0, d1})
	}
	et := store.NewEdgeTable(3)
	cells := []hex.Cell{cellAt(0, 0), cellAt(0, 1), cellAt(0, 2), cellAt(0, 3)}
	for i := 0; i < 3; i++ {
		et.Set(store.BaseEdge{ID: store.EdgeID(i), FromCell: cells[i], ToCell: cells[i+1], Cost: 10})
		_, lca := hex.LCA(cells[i], cells[i+1])
		et.LCARes[i] = lca
	}
	return et
}

func TestFinalizeDedupsKeepingCheapest(t *testing.T) {
	edges := threeEdges(t)
	inner := edges.FromCell[0]
	outer := edges.ToCell[2]
	cheap := store.Shortcut{
		FromEdge: 0, ToEdge: 2, Cost: 20, ViaEdge: 1,
		InnerCell: inner, OuterCell: outer,
		InnerRes: hex.Resolution(inner), OuterRes: hex.Resolution(outer),
		LCARes: 0,
	}
	expensive := cheap
	expensive.Cost = 50
	expensive.ViaEdge = 9

	out := Finalize([]store.Shortcut{expensive, cheap}, edges)
	if len(out) != 1 {
		t.Fatalf("expected 1 shortcut after dedup, got %d", len(out))
	}
	if out[0].Cost != 20 {
		t.Errorf("expected the cheaper shortcut to survive dedup, got cost %d", out[0].Cost)
	}
}

func TestFinalizeComputesInsideAndCell(t *testing.T) {
	edges := threeEdges(t)
	inner := edges.FromCell[0]
	outer := edges.ToCell[2]

	s := store.Shortcut{
		FromEdge: 0, ToEdge: 2, Cost: 20, ViaEdge: 1,
		InnerCell: inner, OuterCell: outer,
		InnerRes: hex.Resolution(inner), OuterRes: hex.Resolution(outer),
		LCARes: 0,
	}
	out := Finalize([]store.Shortcut{s}, edges)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving shortcut, got %d", len(out))
	}
	got := out[0]

	lcaIn := edges.LCARes[0]
	lcaOut := edges.LCARes[2]
	var wantInside store.Inside
	switch {
	case got.LCARes > got.InnerRes:
		wantInside = store.InsideUnset
	case lcaIn == lcaOut:
		wantInside = store.InsideAt
	case lcaIn < lcaOut:
		wantInside = store.InsideBefore
	default:
		wantInside = store.InsideAfter
	}
	if got.Inside != wantInside {
		t.Errorf("Inside = %d, want %d", got.Inside, wantInside)
	}

	minLCA := lcaIn
	if lcaOut < minLCA {
		minLCA = lcaOut
	}
	wantCell := hex.Parent(outer, minLCA)
	if got.Cell != wantCell {
		t.Errorf("Cell = %d, want %d", got.Cell, wantCell)
	}
}

func TestFinalizeDiscardsUnreachableShortcuts(t *testing.T) {
	edges := threeEdges(t)
	inner := edges.FromCell[0]
	outer := edges.ToCell[2]

	// lca_res above both inner_res and outer_res: entirely below its own
	// annotation, the query engine can never reach it.
	s := store.Shortcut{
		FromEdge: 0, ToEdge: 2, Cost: 20, ViaEdge: 1,
		InnerCell: inner, OuterCell: outer,
		InnerRes: 1, OuterRes: 1,
		LCARes: 2,
	}
	out := Finalize([]store.Shortcut{s}, edges)
	if len(out) != 0 {
		t.Errorf("expected unreachable shortcut to be discarded, got %+v", out)
	}
}

func TestFinalizeKeepsOuterOnlyWithInsideUnset(t *testing.T) {
	edges := threeEdges(t)
	inner := edges.FromCell[0]
	outer := edges.ToCell[2]

	// lca_res > inner_res but <= outer_res: outer-only base edge, kept
	// with Inside == InsideUnset rather than discarded.
	s := store.Shortcut{
		FromEdge: 0, ToEdge: 2, Cost: 20, ViaEdge: 1,
		InnerCell: inner, OuterCell: outer,
		InnerRes: 1, OuterRes: 3,
		LCARes: 2,
	}
	out := Finalize([]store.Shortcut{s}, edges)
	if len(out) != 1 {
		t.Fatalf("expected the outer-only shortcut to survive, got %d", len(out))
	}
	if out[0].Inside != store.InsideUnset {
		t.Errorf("Inside = %d, want InsideUnset(-2)", out[0].Inside)
	}
}
