package query

import (
	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// Scratch is one query's working state: tentative distances and
// predecessors on both search directions, plus the two priority queues.
// A touched-list lets Reset clear only what this query actually visited.
type Scratch struct {
	DistFwd []uint32
	DistBwd []uint32
	PredFwd []store.EdgeID
	PredBwd []store.EdgeID

	touched []store.EdgeID

	FwdPQ spkernel.MinHeap
	BwdPQ spkernel.MinHeap
}

// NewScratch allocates scratch state for a dataset with numEdges base
// edges (shortcut endpoints always fall in this same dense id space).
func NewScratch(numEdges int) *Scratch {
	s := &Scratch{
		DistFwd: make([]uint32, numEdges),
		DistBwd: make([]uint32, numEdges),
		PredFwd: make([]store.EdgeID, numEdges),
		PredBwd: make([]store.EdgeID, numEdges),
	}
	for i := range s.DistFwd {
		s.DistFwd[i] = spkernel.Inf
		s.DistBwd[i] = spkernel.Inf
		s.PredFwd[i] = store.NoEdge
		s.PredBwd[i] = store.NoEdge
	}
	return s
}

// Reset clears only the entries touched since the last reset.
func (s *Scratch) Reset() {
	for _, e := range s.touched {
		s.DistFwd[e] = spkernel.Inf
		s.DistBwd[e] = spkernel.Inf
		s.PredFwd[e] = store.NoEdge
		s.PredBwd[e] = store.NoEdge
	}
	s.touched = s.touched[:0]
	s.FwdPQ.Reset()
	s.BwdPQ.Reset()
}

func (s *Scratch) touch(e store.EdgeID) {
	if s.DistFwd[e] == spkernel.Inf && s.DistBwd[e] == spkernel.Inf {
		s.touched = append(s.touched, e)
	}
}

// relaxFwd updates the forward side's tentative distance for e, returning
// true if it improved.
func (s *Scratch) relaxFwd(e store.EdgeID, cost uint32, pred store.EdgeID) bool {
	if cost >= s.DistFwd[e] {
		return false
	}
	s.touch(e)
	s.DistFwd[e] = cost
	s.PredFwd[e] = pred
	return true
}

// relaxBwd is relaxFwd's backward-side twin.
func (s *Scratch) relaxBwd(e store.EdgeID, cost uint32, pred store.EdgeID) bool {
	if cost >= s.DistBwd[e] {
		return false
	}
	s.touch(e)
	s.DistBwd[e] = cost
	s.PredBwd[e] = pred
	return true
}
