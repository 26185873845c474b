package store

import "github.com/Khoshkhah/h3-routing-platform/pkg/hex"

// EdgeTable is the columnar base-edge store: parallel slices indexed by
// EdgeID, built once at ingestion and read-only for the rest of a
// dataset's lifetime.
type EdgeTable struct {
	FromCell []hex.Cell
	ToCell   []hex.Cell
	LCARes   []int8
	Cost     []uint32
	Geometry [][]byte
}

// NewEdgeTable preallocates a table for n edges.
func NewEdgeTable(n int) *EdgeTable {
	return &EdgeTable{
		FromCell: make([]hex.Cell, n),
		ToCell:   make([]hex.Cell, n),
		LCARes:   make([]int8, n),
		Cost:     make([]uint32, n),
		Geometry: make([][]byte, n),
	}
}

// Len returns the number of edges in the table.
func (t *EdgeTable) Len() int {
	return len(t.FromCell)
}

// Set stores e at its own ID. The table must already have room for that
// index (callers append ids in increasing order starting at 0).
func (t *EdgeTable) Set(e BaseEdge) {
	i := int(e.ID)
	t.FromCell[i] = e.FromCell
	t.ToCell[i] = e.ToCell
	t.LCARes[i] = e.LCARes
	t.Cost[i] = e.Cost
	t.Geometry[i] = e.Geometry
}

// Append adds e to the end of the table, assigning it the next dense id,
// and returns that id.
func (t *EdgeTable) Append(e BaseEdge) EdgeID {
	id := EdgeID(len(t.FromCell))
	t.FromCell = append(t.FromCell, e.FromCell)
	t.ToCell = append(t.ToCell, e.ToCell)
	t.LCARes = append(t.LCARes, e.LCARes)
	t.Cost = append(t.Cost, e.Cost)
	t.Geometry = append(t.Geometry, e.Geometry)
	return id
}

// Get materializes the BaseEdge at id. ok is false if id is out of range.
func (t *EdgeTable) Get(id EdgeID) (BaseEdge, bool) {
	i := int(id)
	if i < 0 || i >= len(t.FromCell) {
		return BaseEdge{}, false
	}
	return BaseEdge{
		ID:       id,
		FromCell: t.FromCell[i],
		ToCell:   t.ToCell[i],
		LCARes:   t.LCARes[i],
		Cost:     t.Cost[i],
		Geometry: t.Geometry[i],
	}, true
}
