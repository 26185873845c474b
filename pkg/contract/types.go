// Package contract implements the four-phase partition-parallel
// contraction pipeline, each phase built from the same assign/group/
// SP-kernel/replace cycle run at a sweep of resolutions: Phase 1 contracts
// each partition-resolution cell independently from the finest resolution
// down to the partition resolution; Phase 2 sequentially merges the
// resulting per-partition overlays up through the coarser resolutions to
// the synthetic root, deactivating whatever never finds an owner on the
// way; Phase 3 sequentially refines the deactivated set back down to the
// partition resolution, dropping anything whose own reach is already
// coarser than the current step, and shards the survivors per partition
// cell; Phase 4 contracts each partition cell's remaining fine-resolution
// interior in parallel again, using Phase 3's shards as input.
package contract

import (
	"time"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/spkernel"
)

// MethodCount tracks how many group-kernel runs, and how much wall time,
// a phase spent in each of the two all-pairs shortest-path kernels — the
// Go analogue of the (res, method, duration) timing_info rows the Python
// generator this pipeline is grounded on accumulates.
type MethodCount struct {
	Count    int64
	Duration time.Duration
}

// PhaseStats accumulates per-resolution, per-method counters for one
// phase of the pipeline.
type PhaseStats struct {
	Phase       int
	ByResMethod map[int8]map[spkernel.Method]*MethodCount
	Shortcuts   int64
	Started     time.Time
	Finished    time.Time
}

// NewPhaseStats returns an empty PhaseStats for the given phase number
// (1-4).
func NewPhaseStats(phase int) *PhaseStats {
	return &PhaseStats{
		Phase:       phase,
		ByResMethod: make(map[int8]map[spkernel.Method]*MethodCount),
		Started:     timeNow(),
	}
}

// Record adds one group-kernel observation (which method ran the group's
// all-pairs computation at this resolution, and how long it took) to the
// stats.
func (s *PhaseStats) Record(res int8, method spkernel.Method, d time.Duration) {
	m, ok := s.ByResMethod[res]
	if !ok {
		m = make(map[spkernel.Method]*MethodCount)
		s.ByResMethod[res] = m
	}
	c, ok := m[method]
	if !ok {
		c = &MethodCount{}
		m[method] = c
	}
	c.Count++
	c.Duration += d
}

// Config holds the tunables contraction needs from the loaded
// configuration (algorithm.*, parallel.* keys).
type Config struct {
	PartitionRes  int8
	HybridRes     int8
	WorkersPhase1 int
	WorkersPhase4 int
	RunDir        string
	FreshStart    bool
}

// PartitionCells enumerates the distinct cells at res PartitionRes that
// the base edge table touches, by walking each base edge's endpoints up
// to that resolution.
func PartitionCells(fromCells, toCells []hex.Cell, partitionRes int8) []hex.Cell {
	seen := make(map[hex.Cell]struct{})
	var out []hex.Cell
	add := func(c hex.Cell) {
		p := hex.Parent(c, partitionRes)
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	for _, c := range fromCells {
		add(c)
	}
	for _, c := range toCells {
		add(c)
	}
	return out
}

// timeNow exists so tests can be written without depending on wall-clock
// behavior beyond "some duration elapsed"; production code always calls
// the real clock through this indirection point.
var timeNow = time.Now
