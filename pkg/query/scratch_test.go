package query

import (
	"testing"

	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

func TestNewScratchStartsAllUnreached(t *testing.T) {
	s := NewScratch(4)
	for i := 0; i < 4; i++ {
		if s.DistFwd[i] != spkernel.Inf || s.DistBwd[i] != spkernel.Inf {
			t.Fatalf("expected edge %d to start unreached on both sides", i)
		}
		if s.PredFwd[i] != store.NoEdge || s.PredBwd[i] != store.NoEdge {
			t.Fatalf("expected edge %d to start with no predecessor", i)
		}
	}
}

func TestScratchRelaxImprovesOnly(t *testing.T) {
	s := NewScratch(4)
	if !s.relaxFwd(1, 10, 0) {
		t.Fatal("expected the first relax to improve from Inf")
	}
	if s.relaxFwd(1, 20, 0) {
		t.Fatal("expected a worse cost not to improve")
	}
	if !s.relaxFwd(1, 5, 0) {
		t.Fatal("expected a strictly better cost to improve")
	}
	if s.DistFwd[1] != 5 || s.PredFwd[1] != 0 {
		t.Fatalf("expected DistFwd[1]=5 PredFwd[1]=0, got %d %d", s.DistFwd[1], s.PredFwd[1])
	}
}

func TestScratchResetClearsOnlyTouchedEntries(t *testing.T) {
	s := NewScratch(4)
	s.relaxFwd(1, 10, 0)
	s.relaxBwd(2, 20, 3)
	s.Reset()

	for i := 0; i < 4; i++ {
		if s.DistFwd[i] != spkernel.Inf || s.DistBwd[i] != spkernel.Inf {
			t.Fatalf("expected edge %d to be back to unreached after reset", i)
		}
	}
	// A fresh relax after reset must behave exactly as it did on a brand
	// new scratch.
	if !s.relaxFwd(1, 7, 0) {
		t.Fatal("expected relax to improve again after reset")
	}
}
