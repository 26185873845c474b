package partition

import (
	"testing"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
)

func TestOwnersRootOwnsEverything(t *testing.T) {
	inner := hex.NewCell(5, 1, []uint8{0, 0, 0, 0, 0})
	outer := hex.NewCell(5, 2, []uint8{1, 1, 1, 1, 1})
	owners := Owners(inner, outer, 5, 5, 3, -1)
	if len(owners) != 1 || owners[0] != 0 {
		t.Fatalf("Owners at root = %v, want [0]", owners)
	}
}

func TestOwnersAboveLCAResFails(t *testing.T) {
	inner := hex.NewCell(5, 1, []uint8{0, 0, 0, 0, 0})
	outer := hex.NewCell(5, 1, []uint8{0, 0, 1, 1, 1})
	owners := Owners(inner, outer, 5, 5, 4, 1)
	if len(owners) != 0 {
		t.Fatalf("expected no owners when r < lcaRes, got %v", owners)
	}
}

func TestOwnersSingleWhenInnerAndOuterShareParent(t *testing.T) {
	inner := hex.NewCell(5, 1, []uint8{0, 0, 0, 0, 0})
	outer := hex.NewCell(5, 1, []uint8{0, 0, 1, 1, 1})
	// At r=2 both truncate to the shared prefix {0,0}: one owner, not two.
	owners := Owners(inner, outer, 5, 5, 2, 2)
	if len(owners) != 1 {
		t.Fatalf("owners = %v, want exactly 1 (shared parent)", owners)
	}
	want := hex.Parent(inner, 2)
	if owners[0] != want {
		t.Fatalf("owners[0] = %d, want %d", owners[0], want)
	}
}

func TestOwnersReturnsBothWhenInnerAndOuterDiverge(t *testing.T) {
	inner := hex.NewCell(5, 1, []uint8{0, 0, 0, 0, 0})
	outer := hex.NewCell(5, 1, []uint8{0, 0, 1, 1, 1})
	// At r=3 inner and outer still truncate to different prefixes
	// ({0,0,0} vs {0,0,1}): the shortcut belongs to both cells.
	owners := Owners(inner, outer, 5, 5, 2, 3)
	if len(owners) != 2 {
		t.Fatalf("owners = %v, want 2 distinct cells", owners)
	}
	wantInner := hex.Parent(inner, 3)
	wantOuter := hex.Parent(outer, 3)
	if owners[0] != wantInner || owners[1] != wantOuter {
		t.Fatalf("owners = %v, want [%d %d]", owners, wantInner, wantOuter)
	}
}

func TestOwnersFallsBackToOuterCell(t *testing.T) {
	inner := hex.NewCell(2, 1, []uint8{0, 0})
	outer := hex.NewCell(5, 1, []uint8{0, 0, 1, 1, 1})
	// innerRes (2) < r (3), so only outer qualifies.
	owners := Owners(inner, outer, 2, 5, 1, 3)
	if len(owners) != 1 {
		t.Fatalf("owners = %v, want exactly 1 (outer only)", owners)
	}
	want := hex.Parent(outer, 3)
	if owners[0] != want {
		t.Fatalf("owners[0] = %d, want %d (parent of outer)", owners[0], want)
	}
}

func TestBelongs(t *testing.T) {
	inner := hex.NewCell(5, 1, []uint8{0, 0, 0, 0, 0})
	outer := hex.NewCell(5, 1, []uint8{0, 0, 1, 1, 1})
	owner := hex.Parent(inner, 3)
	if !Belongs(inner, outer, 5, 5, 2, 3, owner) {
		t.Fatal("expected shortcut to belong to computed inner owner")
	}
	outerOwner := hex.Parent(outer, 3)
	if !Belongs(inner, outer, 5, 5, 2, 3, outerOwner) {
		t.Fatal("expected shortcut to also belong to computed outer owner")
	}
	if Belongs(inner, outer, 5, 5, 2, 3, hex.Cell(12345)) {
		t.Fatal("did not expect shortcut to belong to an unrelated cell")
	}
}

func TestCellsAtResolutionCountsBothOwnersPerLevel(t *testing.T) {
	inner := hex.NewCell(5, 1, []uint8{0, 0, 0, 0, 0})
	outer := hex.NewCell(5, 1, []uint8{0, 0, 1, 1, 1})
	cells := CellsAtResolution(inner, outer, 5, 5, 2, 4, 0)
	// res 4 and 3 resolve to two distinct owners each (inner/outer still
	// diverge), res 2 resolves to one shared owner; res 1,0 < lcaRes=2.
	if len(cells) != 5 {
		t.Fatalf("len(cells) = %d, want 5 (2+2+1 across res 4,3,2)", len(cells))
	}
}
