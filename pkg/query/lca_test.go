package query

import (
	"testing"

	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

func TestComputeHighCellOnChainFixture(t *testing.T) {
	edges, _ := chainFixture(t)
	high := ComputeHighCell(edges, 0, 4)
	if high.Res != 0 {
		t.Errorf("expected the chain's two ends to share only the base-cell root (res 0), got res %d", high.Res)
	}
}

func TestComputeHighCellShortCircuitsOnMissingEdge(t *testing.T) {
	edges, _ := chainFixture(t)
	high := ComputeHighCell(edges, 0, store.EdgeID(99))
	if high.Res != -1 || high.Cell != 0 {
		t.Fatalf("expected HighCell{0,-1} for a missing edge, got %+v", high)
	}
}

func TestComputeHighCellSameEdgeIsItsOwnAncestor(t *testing.T) {
	edges, _ := chainFixture(t)
	// Edge 0's own lca with itself coarsens its ToCell up to its own LCARes
	// on both sides, so the result must be at least that resolution.
	high := ComputeHighCell(edges, 0, 0)
	if high.Res < 0 {
		t.Errorf("expected a valid high cell for identical source/target, got res %d", high.Res)
	}
}
