// Package finalize runs the single sequential pass that turns the raw
// backward-deactivated shortcut set the four-phase contractor produces
// into the persisted shortcuts table the query engine reads: dedup by
// (from_edge, to_edge), annotate inside/cell, and drop anything the
// query engine could never reach anyway.
package finalize

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// key identifies a (from_edge, to_edge) pair for dedup.
type key struct {
	from, to store.EdgeID
}

// Finalize dedups shortcuts by (FromEdge, ToEdge), keeping the cheapest
// (ties broken by the lower ViaEdge id), then computes each survivor's
// Inside and Cell fields by joining against the base edge table, and
// drops anything unreachable from the query engine's point of view.
func Finalize(shortcuts []store.Shortcut, edges *store.EdgeTable) []store.Shortcut {
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
		lcaIn := edges.LCARes[int(s.FromEdge)]
		lcaOut := edges.LCARes[int(s.ToEdge)]

		if s.LCARes > s.InnerRes && s.LCARes > s.OuterRes {
			continue
		}

		switch {
		case s.LCARes > s.InnerRes:
			s.Inside = store.InsideUnset // -2: outer-only base edge
		case lcaIn == lcaOut:
			s.Inside = store.InsideAt
		case lcaIn < lcaOut:
			s.Inside = store.InsideBefore
		default:
			s.Inside = store.InsideAfter
		}

		minLCA := lcaIn
		if lcaOut < minLCA {
			minLCA = lcaOut
		}
		s.Cell = hex.Parent(s.OuterCell, minLCA)

		out = append(out, s)
	}
	return out
}
