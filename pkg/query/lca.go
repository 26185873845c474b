package query

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// HighCell is the LCA of a query's source and target edges, computed once
// per query and used to phase every "*_lca" algorithm's filtering.
type HighCell struct {
	Cell hex.Cell
	Res  int8
}

// ComputeHighCell coarsens source and target's own ToCell up to their own
// LCARes, then takes the LCA of the two results. Returns HighCell{0, -1}
// immediately if either edge id is absent from the table, before any cell
// math runs — matching the original engine's compute_high_cell, which
// short-circuits on a missing edge rather than letting a zero-valued cell
// silently propagate into the phase machine.
func ComputeHighCell(edges *store.EdgeTable, source, target store.EdgeID) HighCell {
	src, ok := edges.Get(source)
	if !ok {
		return HighCell{0, -1}
	}
	tgt, ok := edges.Get(target)
	if !ok {
		return HighCell{0, -1}
	}

	srcCell := coarsen(src.ToCell, src.LCARes)
	tgtCell := coarsen(tgt.ToCell, tgt.LCARes)
	if srcCell == 0 || tgtCell == 0 {
		return HighCell{0, -1}
	}

	lca, res := hex.LCA(srcCell, tgtCell)
	return HighCell{lca, res}
}

func coarsen(c hex.Cell, res int8) hex.Cell {
	if c == 0 || res < 0 {
		return 0
	}
	return hex.Parent(c, res)
}
