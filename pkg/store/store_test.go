package store

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
)

func sampleEdges() *EdgeTable {
	t := NewEdgeTable(3)
	t.Set(BaseEdge{ID: 0, FromCell: hex.NewCell(3, 1, []uint8{0, 0, 0}), ToCell: hex.NewCell(3, 1, []uint8{0, 0, 1}), LCARes: 2, Cost: 10})
	t.Set(BaseEdge{ID: 1, FromCell: hex.NewCell(3, 1, []uint8{0, 0, 1}), ToCell: hex.NewCell(3, 1, []uint8{0, 1, 0}), LCARes: 1, Cost: 20, Geometry: []byte("abc")})
	t.Set(BaseEdge{ID: 2, FromCell: hex.NewCell(3, 1, []uint8{0, 1, 0}), ToCell: hex.NewCell(3, 1, []uint8{1, 0, 0}), LCARes: 0, Cost: 30})
	return t
}

func TestEdgeTableGet(t *testing.T) {
	et := sampleEdges()
	e, ok := et.Get(1)
	if !ok {
		t.Fatal("expected edge 1 to exist")
	}
	if e.Cost != 20 || !bytes.Equal(e.Geometry, []byte("abc")) {
		t.Errorf("unexpected edge: %+v", e)
	}
	if _, ok := et.Get(99); ok {
		t.Error("expected out-of-range Get to fail")
	}
}

func TestAdjacencyTableContinuations(t *testing.T) {
	entries := []AdjacencyEntry{
		{FromEdge: 0, ToEdge: 1},
		{FromEdge: 0, ToEdge: 2},
		{FromEdge: 1, ToEdge: 2},
	}
	adj := BuildAdjacencyTable(entries, 3)

	got := adj.Continuations(0)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Continuations(0) = %v, want [1 2]", got)
	}
	if !adj.Allowed(1, 2) {
		t.Error("expected turn 1->2 to be allowed")
	}
	if adj.Allowed(2, 0) {
		t.Error("did not expect turn 2->0 to be allowed")
	}
	if len(adj.Continuations(2)) != 0 {
		t.Error("expected no continuations from edge 2")
	}
}

func TestShortcutTableForwardBackward(t *testing.T) {
	records := []Shortcut{
		{FromEdge: 0, ToEdge: 2, Cost: 40, ViaEdge: 1},
		{FromEdge: 0, ToEdge: 1, Cost: 10, ViaEdge: NoEdge},
		{FromEdge: 1, ToEdge: 2, Cost: 20, ViaEdge: NoEdge},
	}
	st := NewShortcutTable(records, 3)

	fwd := st.Forward(0)
	if len(fwd) != 2 {
		t.Fatalf("Forward(0) len = %d, want 2", len(fwd))
	}
	if fwd[0].ToEdge != 1 || fwd[1].ToEdge != 2 {
		t.Errorf("Forward(0) not sorted by ToEdge: %+v", fwd)
	}

	bwd := st.Backward(2)
	if len(bwd) != 2 {
		t.Fatalf("Backward(2) len = %d, want 2", len(bwd))
	}
}

func TestShortcutIsBasePair(t *testing.T) {
	cases := []struct {
		s    Shortcut
		want bool
	}{
		{Shortcut{FromEdge: 0, ToEdge: 1, ViaEdge: NoEdge}, true},
		{Shortcut{FromEdge: 0, ToEdge: 1, ViaEdge: 0}, true},
		{Shortcut{FromEdge: 0, ToEdge: 1, ViaEdge: 1}, true},
		{Shortcut{FromEdge: 0, ToEdge: 5, ViaEdge: 3}, false},
	}
	for _, c := range cases {
		if got := c.s.IsBasePair(); got != c.want {
			t.Errorf("IsBasePair(%+v) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/dataset.bin"

	edges := sampleEdges()
	adj := BuildAdjacencyTable([]AdjacencyEntry{{FromEdge: 0, ToEdge: 1}, {FromEdge: 1, ToEdge: 2}}, 3)
	shorts := NewShortcutTable([]Shortcut{
		{FromEdge: 0, ToEdge: 2, Cost: 30, ViaEdge: 1, InnerCell: hex.NewCell(2, 1, []uint8{0, 0}), OuterCell: hex.NewCell(1, 1, []uint8{0}), InnerRes: 2, OuterRes: 1, LCARes: 1, Inside: InsideAt, Cell: hex.NewCell(1, 1, []uint8{0})},
	}, 3)

	if err := WriteBinary(path, edges, adj, shorts); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	gotEdges, gotAdj, gotShorts, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if gotEdges.Len() != edges.Len() {
		t.Fatalf("edge count = %d, want %d", gotEdges.Len(), edges.Len())
	}
	for i := 0; i < edges.Len(); i++ {
		if gotEdges.FromCell[i] != edges.FromCell[i] || gotEdges.ToCell[i] != edges.ToCell[i] {
			t.Errorf("edge %d cells mismatch", i)
		}
		if gotEdges.Cost[i] != edges.Cost[i] {
			t.Errorf("edge %d cost mismatch", i)
		}
	}
	if !bytes.Equal(gotEdges.Geometry[1], []byte("abc")) {
		t.Errorf("edge 1 geometry mismatch: %v", gotEdges.Geometry[1])
	}

	if len(gotAdj.ToEdge) != len(adj.ToEdge) {
		t.Fatalf("adjacency entry count mismatch")
	}

	if gotShorts.Len() != shorts.Len() {
		t.Fatalf("shortcut count mismatch")
	}
	rec := gotShorts.Records[0]
	if rec.Cost != 30 || rec.Inside != InsideAt {
		t.Errorf("shortcut round-trip mismatch: %+v", rec)
	}
}

func TestBinaryInvalidMagic(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.bin"
	if err := os.WriteFile(path, []byte("NOT_A_VALID_HEADER_AT_ALL_PADDING_BYTES"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := ReadBinary(path); err == nil {
		t.Fatal("expected error for invalid magic bytes")
	}
}

func TestLoadEdgesCSV(t *testing.T) {
	csv := "id,from_cell,to_cell,cost,geometry\n" +
		"0,1,2,10,\n" +
		"1,2,3,20,deadbeef\n"
	et, err := LoadEdgesCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadEdgesCSV: %v", err)
	}
	if et.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", et.Len())
	}
	if et.Cost[1] != 20 {
		t.Errorf("Cost[1] = %d, want 20", et.Cost[1])
	}
}

func TestShardFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/cell.shard"

	records := []Shortcut{
		{FromEdge: 0, ToEdge: 2, Cost: 15, ViaEdge: NoEdge},
		{FromEdge: 1, ToEdge: 3, Cost: 25, ViaEdge: 0},
	}
	if err := WriteShardFile(path, records); err != nil {
		t.Fatalf("WriteShardFile: %v", err)
	}
	got, err := ReadShardFile(path)
	if err != nil {
		t.Fatalf("ReadShardFile: %v", err)
	}
	if len(got) != 2 || got[0].Cost != 15 || got[1].FromEdge != 1 {
		t.Fatalf("round-tripped records mismatch: %+v", got)
	}
}

func TestLoadAdjacencyCSV(t *testing.T) {
	csv := "from_edge,to_edge\n0,1\n0,2\n"
	adj, err := LoadAdjacencyCSV(strings.NewReader(csv), 3)
	if err != nil {
		t.Fatalf("LoadAdjacencyCSV: %v", err)
	}
	if len(adj.Continuations(0)) != 2 {
		t.Errorf("expected 2 continuations from edge 0")
	}
}
