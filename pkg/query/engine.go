package query

import "github.com/Khoshkhah/h3-routing-platform/pkg/store"

// Algorithm selects which search strategy RouteByEdge/RouteM2M runs.
type Algorithm string

const (
	AlgoDijkstra       Algorithm = "dijkstra"
	AlgoBiDijkstra     Algorithm = "bidijkstra"
	AlgoClassic        Algorithm = "classic"
	AlgoUnidirectional Algorithm = "unidirectional"
	AlgoUniLCA         Algorithm = "uni_lca"
	AlgoBiLCA          Algorithm = "bi_lca"
	AlgoPruned         Algorithm = "pruned"
	AlgoM2M            Algorithm = "m2m"
)

// Engine runs queries against one loaded dataset snapshot. It owns the
// dataset's edge and shortcut tables plus a via lookup for path
// expansion, and lends out a Scratch per call so concurrent callers don't
// share search state.
type Engine struct {
	Edges  *store.EdgeTable
	Shorts *store.ShortcutTable
	Via    ViaLookup
}

// NewEngine builds an Engine over a loaded dataset, indexing its via
// lookup once up front.
func NewEngine(edges *store.EdgeTable, shorts *store.ShortcutTable) *Engine {
	return &Engine{
		Edges:  edges,
		Shorts: shorts,
		Via:    BuildViaLookup(shorts),
	}
}

// NewScratch allocates search scratch state sized for this engine's
// dataset.
func (e *Engine) NewScratch() *Scratch {
	return NewScratch(e.Edges.Len())
}

// RouteByEdge computes a point-to-point route between source and target
// under algo, unrecognized algorithm names falling back to classic (the
// same default the original router applies). When includeAlternative is
// true and the primary route succeeds, a second route is computed with
// shortcuts overlapping the primary path penalized by penaltyFactor (0
// selects DefaultPenaltyFactor).
func (e *Engine) RouteByEdge(scratch *Scratch, source, target store.EdgeID, algo Algorithm, includeAlternative bool, penaltyFactor float64) (Result, *Result) {
	cost, path, ok := e.dispatch(scratch, source, target, algo)
	if !ok {
		return notReachable, nil
	}
	result := Result{
		Success:      true,
		Cost:         cost,
		ShortcutPath: path,
		ExpandedPath: Expand(e.Via, path),
	}

	if !includeAlternative {
		return result, nil
	}
	altCost, altPath, altOK := Alternative(e.Edges, e.Shorts, result.ExpandedPath, source, target, penaltyFactor)
	if !altOK {
		return result, nil
	}
	alt := Result{
		Success:      true,
		Cost:         altCost,
		ShortcutPath: altPath,
		ExpandedPath: Expand(e.Via, altPath),
	}
	return result, &alt
}

// RouteM2M runs the many-to-many classic search over sources and
// targets, returning the single cheapest route discovered. includeAlternative
// behaves as in RouteByEdge, using the best source/target pair the
// primary pass discovered as the alternative search's endpoints.
func (e *Engine) RouteM2M(scratch *Scratch, sources, targets []store.EdgeID, includeAlternative bool, penaltyFactor float64) (Result, *Result) {
	cost, path, ok := M2M(e.Edges, e.Shorts, scratch, sources, targets)
	if !ok || len(path) == 0 {
		return notReachable, nil
	}
	result := Result{
		Success:      true,
		Cost:         cost,
		ShortcutPath: path,
		ExpandedPath: Expand(e.Via, path),
	}

	if !includeAlternative {
		return result, nil
	}
	bestSrc, bestTgt := path[0], path[len(path)-1]
	altCost, altPath, altOK := Alternative(e.Edges, e.Shorts, result.ExpandedPath, bestSrc, bestTgt, penaltyFactor)
	if !altOK {
		return result, nil
	}
	alt := Result{
		Success:      true,
		Cost:         altCost,
		ShortcutPath: altPath,
		ExpandedPath: Expand(e.Via, altPath),
	}
	return result, &alt
}

func (e *Engine) dispatch(scratch *Scratch, source, target store.EdgeID, algo Algorithm) (uint32, []store.EdgeID, bool) {
	switch algo {
	case AlgoDijkstra:
		return UniDijkstra(e.Edges, e.Shorts, scratch, source, target)
	case AlgoBiDijkstra:
		return BiDijkstra(e.Edges, e.Shorts, scratch, source, target)
	case AlgoUnidirectional, AlgoUniLCA:
		return UniLCA(e.Edges, e.Shorts, source, target)
	case AlgoBiLCA:
		return BiLCA(e.Edges, e.Shorts, source, target)
	case AlgoPruned:
		return BiLCARes(e.Edges, e.Shorts, scratch, source, target)
	case AlgoM2M:
		return M2M(e.Edges, e.Shorts, scratch, []store.EdgeID{source}, []store.EdgeID{target})
	case AlgoClassic:
		return Classic(e.Edges, e.Shorts, scratch, source, target)
	default:
		return Classic(e.Edges, e.Shorts, scratch, source, target)
	}
}
