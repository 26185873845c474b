package query

import "testing"

func TestEngineRouteByEdgeDispatchesPerAlgorithm(t *testing.T) {
	edges, shorts := chainFixture(t)
	engine := NewEngine(edges, shorts)

	for _, algo := range []Algorithm{AlgoDijkstra, AlgoBiDijkstra, AlgoClassic, AlgoUniLCA, AlgoBiLCA, AlgoM2M, Algorithm("not-a-real-algorithm")} {
		scratch := engine.NewScratch()
		result, alt := engine.RouteByEdge(scratch, 0, 4, algo, false, 0)
		if !result.Success {
			t.Fatalf("algorithm %q: expected success", algo)
		}
		if result.Cost != 15 {
			t.Errorf("algorithm %q: expected cost 15, got %d", algo, result.Cost)
		}
		if len(result.ExpandedPath) == 0 || result.ExpandedPath[0] != 0 || result.ExpandedPath[len(result.ExpandedPath)-1] != 4 {
			t.Errorf("algorithm %q: expected expanded path from 0 to 4, got %v", algo, result.ExpandedPath)
		}
		if alt != nil {
			t.Errorf("algorithm %q: expected no alternative when not requested", algo)
		}
	}
}

func TestEngineRouteByEdgeIncludesAlternative(t *testing.T) {
	edges, shorts := chainFixture(t)
	engine := NewEngine(edges, shorts)
	scratch := engine.NewScratch()

	result, alt := engine.RouteByEdge(scratch, 0, 4, AlgoClassic, true, 0)
	if !result.Success {
		t.Fatal("expected primary route to succeed")
	}
	if alt == nil {
		t.Fatal("expected an alternative route")
	}
	if !alt.Success {
		t.Fatal("expected alternative route to succeed")
	}
	if alt.Cost <= result.Cost {
		t.Errorf("expected the penalized alternative (%d) to cost more than the primary (%d)", alt.Cost, result.Cost)
	}
}

func TestEngineRouteByEdgeUnreachableFails(t *testing.T) {
	edges, shorts := chainFixture(t)
	engine := NewEngine(edges, shorts)
	scratch := engine.NewScratch()

	result, alt := engine.RouteByEdge(scratch, 4, 0, AlgoDijkstra, false, 0)
	if result.Success {
		t.Fatal("expected failure routing against the chain's only direction")
	}
	if alt != nil {
		t.Fatal("expected no alternative on a failed primary route")
	}
}

func TestEngineRouteM2M(t *testing.T) {
	edges, shorts := chainFixture(t)
	engine := NewEngine(edges, shorts)
	scratch := engine.NewScratch()

	result, alt := engine.RouteM2M(scratch, edgeIDs(0), edgeIDs(4), false, 0)
	if !result.Success || result.Cost != 15 {
		t.Fatalf("expected successful M2M route at cost 15, got success=%v cost=%d", result.Success, result.Cost)
	}
	if alt != nil {
		t.Fatal("expected no alternative when not requested")
	}
}
