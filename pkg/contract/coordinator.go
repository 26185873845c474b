package contract

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
	"github.com/Khoshkhah/h3-routing-platform/pkg/partition"
	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// Coordinator drives the four-phase assign/group/SP-kernel/replace
// pipeline: Phase 1 and Phase 4 dispatch one goroutine per partition
// cell, each working from its own immutable slice of the base tables and
// writing its own shard files; Phase 2 and Phase 3 run single-threaded
// over the whole accumulated shortcut set, since resolutions coarser than
// the partition level span more than one partition cell at once.
type Coordinator struct {
	cfg   Config
	edges *store.EdgeTable
	adj   *store.AdjacencyTable

	Stats [4]*PhaseStats
}

// NewCoordinator builds a Coordinator over the given base tables.
func NewCoordinator(cfg Config, edges *store.EdgeTable, adj *store.AdjacencyTable) *Coordinator {
	return &Coordinator{cfg: cfg, edges: edges, adj: adj}
}

func (c *Coordinator) phaseMarker(phase int) string {
	return filepath.Join(c.cfg.RunDir, fmt.Sprintf(".phase%d.done", phase))
}

func (c *Coordinator) phaseDone(phase int) bool {
	if c.cfg.FreshStart {
		return false
	}
	_, err := os.Stat(c.phaseMarker(phase))
	return err == nil
}

func (c *Coordinator) markPhaseDone(phase int) error {
	if c.cfg.RunDir == "" {
		return nil
	}
	return os.WriteFile(c.phaseMarker(phase), []byte("done\n"), 0644)
}

// Run executes all four phases and returns the accumulated, unfinalized
// shortcut records (pkg/finalize computes Inside/Cell afterward). The
// returned set is the union of what Phase 3 and Phase 4 each finally
// deactivate — every shortcut's lifetime ends as a deactivation, forward
// (out of the ascending Phase 1/2 sweep) or backward (out of the
// descending Phase 3/4 sweep).
func (c *Coordinator) Run(ctx context.Context) ([]store.Shortcut, error) {
	if c.cfg.RunDir != "" {
		if err := os.MkdirAll(c.cfg.RunDir, 0755); err != nil {
			return nil, fmt.Errorf("create run dir: %w", err)
		}
	}

	cells := PartitionCells(c.edges.FromCell, c.edges.ToCell, c.cfg.PartitionRes)
	log.Printf("contraction: %d partition cells at resolution %d", len(cells), c.cfg.PartitionRes)

	var phase1Active, phase1Deactivated []store.Shortcut
	if c.phaseDone(1) {
		log.Printf("phase 1: resuming from shard files in %s", c.cfg.RunDir)
		active, err := c.loadPhaseShards(1, "active", cells)
		if err != nil {
			return nil, err
		}
		deactivated, err := c.loadPhaseShards(1, "deactivated", cells)
		if err != nil {
			return nil, err
		}
		phase1Active, phase1Deactivated = active, deactivated
	} else {
		var err error
		phase1Active, phase1Deactivated, err = c.runPhase1(ctx, cells)
		if err != nil {
			return nil, fmt.Errorf("phase 1: %w", err)
		}
		if err := c.markPhaseDone(1); err != nil {
			return nil, err
		}
	}
	log.Printf("phase 1 complete: %d active, %d deactivated", len(phase1Active), len(phase1Deactivated))

	phase2Deactivated, err := c.runPhase2(phase1Active)
	if err != nil {
		return nil, fmt.Errorf("phase 2: %w", err)
	}
	log.Printf("phase 2 complete: %d shortcuts deactivated forward", len(phase2Deactivated))

	forwardDeactivated := append(append([]store.Shortcut(nil), phase1Deactivated...), phase2Deactivated...)

	phase3Shards, phase3Deactivated, err := c.runPhase3(forwardDeactivated, cells)
	if err != nil {
		return nil, fmt.Errorf("phase 3: %w", err)
	}
	log.Printf("phase 3 complete: %d shortcuts refined into per-cell shards, %d deactivated backward", len(phase3Shards), len(phase3Deactivated))

	phase4Deactivated, err := c.runPhase4(ctx, phase3Shards, cells)
	if err != nil {
		return nil, fmt.Errorf("phase 4: %w", err)
	}
	log.Printf("phase 4 complete: %d shortcuts deactivated backward", len(phase4Deactivated))

	all := append(phase3Deactivated, phase4Deactivated...)
	log.Printf("contraction complete: %d shortcuts total", len(all))
	return all, nil
}

// runPhase1 contracts each partition cell independently in parallel via
// errgroup — a worker failing (e.g. an OOM on one oversized partition)
// cancels the rest rather than silently losing work. Each worker starts
// from the base turns between its own member edges and sweeps r
// descending from the finest resolution to its own partition resolution,
// running the assign/group/kernel/replace cycle at every step; shortcuts
// that fall out of the cycle (no owner at some r) are its forward
// deactivations, and whatever survives to the partition resolution is its
// active output, handed to Phase 2.
func (c *Coordinator) runPhase1(ctx context.Context, cells []hex.Cell) (active, deactivated []store.Shortcut, err error) {
	stats := NewPhaseStats(1)
	c.Stats[0] = stats

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.cfg.WorkersPhase1))

	activeByCell := make([][]store.Shortcut, len(cells))
	deactivatedByCell := make([][]store.Shortcut, len(cells))
	for i, cell := range cells {
		i, cell := i, cell
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			members := c.membersOf(cell, c.cfg.PartitionRes)
			current := seedFromAdjacency(members, c.adj, c.edges)
			var cellDeactivated []store.Shortcut

			for r := int8(hex.MaxRes); r >= c.cfg.PartitionRes; r-- {
				var step []store.Shortcut
				current, step = runAssignGroupReplace(current, c.edges, r, c.cfg.HybridRes, stats)
				cellDeactivated = append(cellDeactivated, step...)
			}

			if c.cfg.RunDir != "" {
				if err := store.WriteShardFile(c.shardPath(1, "active", cell), current); err != nil {
					return fmt.Errorf("partition %d phase1 active shard write: %w", cell, err)
				}
				if err := store.WriteShardFile(c.shardPath(1, "deactivated", cell), cellDeactivated); err != nil {
					return fmt.Errorf("partition %d phase1 deactivated shard write: %w", cell, err)
				}
			}
			activeByCell[i] = current
			deactivatedByCell[i] = cellDeactivated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i := range cells {
		active = append(active, activeByCell[i]...)
		deactivated = append(deactivated, deactivatedByCell[i]...)
	}
	return active, deactivated, nil
}

// runPhase2 sequentially sweeps r descending from partition_res-1 to -1,
// the single-threaded coordinator owning the whole accumulated shortcut
// set since resolutions above the partition level span more than one
// partition cell at once. At each r, the current set is first
// concatenated and deduplicated by (from_edge, to_edge) — collapsing what
// would otherwise be each child cell's own contribution — before running
// the assign/group/kernel/replace cycle. Everything that survives all the
// way to r == -1 (the synthetic root, which owns every shortcut) is
// deactivated there too: Phase 2 has no coarser level left to hand
// anything on to.
func (c *Coordinator) runPhase2(phase1Active []store.Shortcut) ([]store.Shortcut, error) {
	stats := NewPhaseStats(2)
	c.Stats[1] = stats

	var forwardDeactivated []store.Shortcut
	current := dedupByEndpoints(phase1Active)

	for r := int8(c.cfg.PartitionRes) - 1; r >= -1; r-- {
		current = dedupByEndpoints(current)
		var step []store.Shortcut
		current, step = runAssignGroupReplace(current, c.edges, r, c.cfg.HybridRes, stats)
		forwardDeactivated = append(forwardDeactivated, step...)

		if r == -1 {
			forwardDeactivated = append(forwardDeactivated, current...)
			current = nil
		}
	}
	return forwardDeactivated, nil
}

// runPhase3 refines the accumulated forward-deactivated set back down
// toward the partition resolution: for r ascending from 0 to
// partition_res-1, shortcuts whose own reach (maxRes) is already coarser
// than r can never be refined further and are moved straight to the
// backward-deactivated set; everything else runs the assign/group/
// kernel/replace cycle at r. Once the loop reaches partition_res, what
// remains is sharded per cell (a shortcut belonging to two cells at
// partition_res is written into both shards) for Phase 4 to pick up;
// anything with no owner left at partition_res is finalized here too,
// since Phase 4 would never see it.
func (c *Coordinator) runPhase3(forwardDeactivated []store.Shortcut, cells []hex.Cell) (shards []store.Shortcut, deactivated []store.Shortcut, err error) {
	stats := NewPhaseStats(3)
	c.Stats[2] = stats

	active := forwardDeactivated
	for r := int8(0); r < c.cfg.PartitionRes; r++ {
		var survivors []store.Shortcut
		for _, s := range active {
			if maxRes(s) < r {
				deactivated = append(deactivated, s)
				continue
			}
			survivors = append(survivors, s)
		}

		var step []store.Shortcut
		survivors, step = runAssignGroupReplace(survivors, c.edges, r, c.cfg.HybridRes, stats)
		deactivated = append(deactivated, step...)
		active = survivors
	}

	byOwner := make(map[hex.Cell][]store.Shortcut)
	for _, s := range active {
		owners := partition.Owners(s.InnerCell, s.OuterCell, s.InnerRes, s.OuterRes, s.LCARes, c.cfg.PartitionRes)
		if len(owners) == 0 {
			deactivated = append(deactivated, s)
			continue
		}
		for _, owner := range owners {
			byOwner[owner] = append(byOwner[owner], s)
			shards = append(shards, s)
		}
	}

	if c.cfg.RunDir != "" {
		for _, cell := range cells {
			if err := store.WriteShardFile(c.shardPath(3, "shard", cell), byOwner[cell]); err != nil {
				return nil, nil, fmt.Errorf("partition %d phase3 shard write: %w", cell, err)
			}
		}
	}
	return shards, deactivated, nil
}

// runPhase4 re-runs contraction in parallel, one worker per partition
// cell, sweeping r ascending from partition_res to the finest resolution.
// At each r, shortcuts whose reach doesn't extend to r yet (r >
// maxRes(s)) are moved to the backward-deactivated set; the rest run the
// assign/group/kernel/replace cycle. At the finest resolution, whatever
// remains active has nowhere left to go and is deactivated there too —
// Phase 4's accumulated deactivations, together with Phase 3's, are the
// final shortcut table.
func (c *Coordinator) runPhase4(ctx context.Context, phase3Shards []store.Shortcut, cells []hex.Cell) ([]store.Shortcut, error) {
	stats := NewPhaseStats(4)
	c.Stats[3] = stats

	byCell := make(map[hex.Cell][]store.Shortcut, len(cells))
	for _, s := range phase3Shards {
		for _, owner := range partition.Owners(s.InnerCell, s.OuterCell, s.InnerRes, s.OuterRes, s.LCARes, c.cfg.PartitionRes) {
			byCell[owner] = append(byCell[owner], s)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.cfg.WorkersPhase4))

	results := make([][]store.Shortcut, len(cells))
	for i, cell := range cells {
		i, cell := i, cell
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			active := dedupByEndpoints(byCell[cell])
			var cellDeactivated []store.Shortcut

			for r := c.cfg.PartitionRes; r <= hex.MaxRes; r++ {
				var survivors []store.Shortcut
				for _, s := range active {
					if r > maxRes(s) {
						cellDeactivated = append(cellDeactivated, s)
						continue
					}
					survivors = append(survivors, s)
				}

				var step []store.Shortcut
				survivors, step = runAssignGroupReplace(survivors, c.edges, r, c.cfg.HybridRes, stats)
				cellDeactivated = append(cellDeactivated, step...)
				active = survivors

				if r == hex.MaxRes {
					cellDeactivated = append(cellDeactivated, active...)
					active = nil
				}
			}

			if c.cfg.RunDir != "" {
				if err := store.WriteShardFile(c.shardPath(4, "deactivated", cell), cellDeactivated); err != nil {
					return fmt.Errorf("partition %d phase4 shard write: %w", cell, err)
				}
			}
			results[i] = cellDeactivated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []store.Shortcut
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// membersOf collects every base edge belonging to owner at resolution r,
// per edgeOwners — an edge that straddles the boundary between two
// partition cells at r belongs to both, so it appears in both cells'
// member lists.
func (c *Coordinator) membersOf(owner hex.Cell, r int8) []store.EdgeID {
	var out []store.EdgeID
	for i := 0; i < c.edges.Len(); i++ {
		e := store.EdgeID(i)
		for _, cell := range edgeOwners(c.edges, e, r) {
			if cell == owner {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (c *Coordinator) shardPath(phase int, kind string, cell hex.Cell) string {
	return filepath.Join(c.cfg.RunDir, fmt.Sprintf("phase%d-%s-cell%x.shard", phase, kind, uint64(cell)))
}

func (c *Coordinator) loadPhaseShards(phase int, kind string, cells []hex.Cell) ([]store.Shortcut, error) {
	var all []store.Shortcut
	for _, cell := range cells {
		records, err := store.ReadShardFile(c.shardPath(phase, kind, cell))
		if err != nil {
			return nil, fmt.Errorf("resume phase %d cell %d: %w", phase, cell, err)
		}
		all = append(all, records...)
	}
	return all, nil
}
