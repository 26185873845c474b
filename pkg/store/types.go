// Package store holds the columnar data model the rest of the platform
// operates on: base (directed) edges of the road network's dual graph,
// the turn-table adjacency between them, and the shortcut records the
// contraction pipeline produces. Tables are plain parallel slices indexed
// by a dense edge id, in the CSR spirit the rest of this codebase uses
// for every hot-path structure.
package store

import "github.com/Khoshkhah/h3-routing-platform/pkg/hex"

// EdgeID is a dense, zero-based index into the base edge table. EdgeID(0)
// is a valid edge id; the sentinel "no edge" value is NoEdge.
type EdgeID uint32

// NoEdge marks the absence of an edge reference (e.g. a Shortcut with no
// via edge).
const NoEdge EdgeID = 1<<32 - 1

// BaseEdge is one directed edge of the road network's dual (edge-based)
// graph: a traversable segment with its covering cell and travel cost.
type BaseEdge struct {
	ID EdgeID

	// FromCell and ToCell are the finest-resolution cells containing the
	// edge's two endpoints.
	FromCell hex.Cell
	ToCell   hex.Cell

	// LCARes is the resolution of the finest common ancestor of FromCell
	// and ToCell — precomputed once at ingestion since every later phase
	// needs it.
	LCARes int8

	// Cost is the directed travel cost of traversing the edge, in the
	// same integer unit used throughout (e.g. deciseconds).
	Cost uint32

	// Geometry is an opaque, ingestion-supplied blob (e.g. an encoded
	// polyline) carried through for callers that render the resulting
	// route. Never interpreted by this module.
	Geometry []byte
}

// AdjacencyEntry records one allowed turn: traveling in on FromEdge, a
// traveler may continue onto ToEdge. The base graph's "edges" are really
// the nodes of this turn graph.
type AdjacencyEntry struct {
	FromEdge EdgeID
	ToEdge   EdgeID
}

// Inside encodes which way a shortcut moves through the cell hierarchy,
// as assigned by the finalizer (pkg/finalize) from the LCARes of its
// from edge and its to edge.
type Inside int8

const (
	// InsideUnset marks an outer-only shortcut: its own lca_res is finer
	// than its inner_res. It is not the zero value of Inside (that is
	// InsideAt).
	InsideUnset Inside = -2
	// InsideBefore means the from edge's LCARes is coarser than the to
	// edge's (the shortcut descends toward finer cells).
	InsideBefore Inside = -1
	// InsideAt means the from edge and the to edge have the same LCARes.
	InsideAt Inside = 0
	// InsideAfter means the from edge's LCARes is finer than the to
	// edge's (the shortcut ascends toward coarser cells).
	InsideAfter Inside = 1
)

// Shortcut is one record produced by contraction: a cheapest known path
// from FromEdge to ToEdge, annotated with the hierarchy cells it spans so
// that query-time pruning can decide which resolution levels need it.
type Shortcut struct {
	FromEdge EdgeID
	ToEdge   EdgeID
	Cost     uint32

	// ViaEdge is the midpoint of the two half-shortcuts this one was
	// assembled from, for recursive unpacking. A value of NoEdge, 0, or one
	// equal to FromEdge or ToEdge, all mean the same thing: this is a base
	// pair with no further decomposition (see Expand in pkg/query).
	ViaEdge EdgeID

	InnerCell hex.Cell
	OuterCell hex.Cell
	InnerRes  int8
	OuterRes  int8

	// LCARes is the resolution of the finest common ancestor of InnerCell
	// and OuterCell.
	LCARes int8

	// Inside and Cell are set by the finalizer (pkg/finalize) after
	// contraction completes; both are zero-valued (Inside 0, Cell 0)
	// on shortcuts fresh out of the contraction phases.
	Inside Inside
	Cell   hex.Cell
}

// IsBasePair reports whether s has no further recursive decomposition —
// its via edge is absent (NoEdge or 0) or coincides with one of its two ends.
func (s Shortcut) IsBasePair() bool {
	return s.ViaEdge == NoEdge || s.ViaEdge == 0 || s.ViaEdge == s.FromEdge || s.ViaEdge == s.ToEdge
}
