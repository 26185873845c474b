// Package partition implements the partition planner: the rule that
// decides which hierarchy cell, at a given resolution, "owns" a
// shortcut record for the purposes of partition-parallel contraction and
// sharded storage.
package partition

import "github.com/Khoshkhah/h3-routing-platform/pkg/hex"

// Owners reports every cell at resolution r that owns a shortcut spanning
// (innerCell, innerRes) and (outerCell, outerRes) with lowest common
// ancestor resolution lcaRes: parent(innerCell, r) when innerRes >= r, and
// parent(outerCell, r) when outerRes >= r. Both conditions can hold at
// once (two distinct owners), only one can hold, or — once lcaRes > r —
// neither. The two candidates are deduplicated, so a shortcut whose inner
// and outer ends already share a parent at r is reported once, not twice.
//
// The root level (r == -1) owns every shortcut: the synthetic universal
// cell is an ancestor of everything, per hex.IsAncestor.
func Owners(innerCell, outerCell hex.Cell, innerRes, outerRes, lcaRes, r int8) []hex.Cell {
	if r == -1 {
		return []hex.Cell{0}
	}
	if lcaRes > r {
		return nil
	}

	var out []hex.Cell
	if innerRes >= r {
		out = append(out, hex.Parent(innerCell, r))
	}
	if outerRes >= r {
		c := hex.Parent(outerCell, r)
		if len(out) == 0 || out[0] != c {
			out = append(out, c)
		}
	}
	return out
}

// Belongs reports whether a shortcut spanning the given cells/resolutions
// belongs to cell owner at resolution r.
func Belongs(innerCell, outerCell hex.Cell, innerRes, outerRes, lcaRes, r int8, owner hex.Cell) bool {
	for _, c := range Owners(innerCell, outerCell, innerRes, outerRes, lcaRes, r) {
		if c == owner {
			return true
		}
	}
	return false
}

// CellsAtResolution enumerates the partition cells a shortcut could be
// assigned to across a descending run of resolutions, from res down to
// floor inclusive, stopping as soon as Owners no longer resolves (lcaRes
// exceeded). A resolution where the shortcut has two owners contributes
// both. Used by the contraction coordinator to determine which
// partitions a record's lifetime spans.
func CellsAtResolution(innerCell, outerCell hex.Cell, innerRes, outerRes, lcaRes int8, res, floor int8) []hex.Cell {
	var out []hex.Cell
	for r := res; r >= floor; r-- {
		owners := Owners(innerCell, outerCell, innerRes, outerRes, lcaRes, r)
		if len(owners) == 0 {
			break
		}
		out = append(out, owners...)
	}
	return out
}
