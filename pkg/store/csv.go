package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
)

// LoadEdgesCSV reads edges.csv (header: id,from_cell,to_cell,cost,geometry)
// into a fresh EdgeTable. Cells are parsed as base-16 64-bit integers;
// geometry is taken as a raw hex-encoded byte string and may be empty.
// LCARes is computed here rather than trusted from the file, since it is
// derived data every other phase depends on being correct.
func LoadEdgesCSV(r io.Reader) (*EdgeTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read edges.csv: %w", err)
	}
	if len(rows) == 0 {
		return NewEdgeTable(0), nil
	}
	rows = skipHeaderIfPresent(rows, "id")

	t := NewEdgeTable(len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			return nil, fmt.Errorf("edges.csv: row %v has fewer than 4 fields", row)
		}
		id, err := strconv.ParseUint(row[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("edges.csv: bad id %q: %w", row[0], err)
		}
		fromCell, err := strconv.ParseUint(row[1], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("edges.csv: bad from_cell %q: %w", row[1], err)
		}
		toCell, err := strconv.ParseUint(row[2], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("edges.csv: bad to_cell %q: %w", row[2], err)
		}
		cost, err := strconv.ParseUint(row[3], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("edges.csv: bad cost %q: %w", row[3], err)
		}
		var geom []byte
		if len(row) >= 5 && row[4] != "" {
			geom = []byte(row[4])
		}

		from := hex.Cell(fromCell)
		to := hex.Cell(toCell)
		_, lcaRes := hex.LCA(from, to)

		if int(id) >= t.Len() {
			return nil, fmt.Errorf("edges.csv: id %d out of range for %d rows (ids must be dense 0..n-1)", id, t.Len())
		}
		t.Set(BaseEdge{
			ID:       EdgeID(id),
			FromCell: from,
			ToCell:   to,
			LCARes:   lcaRes,
			Cost:     uint32(cost),
			Geometry: geom,
		})
	}
	return t, nil
}

// LoadAdjacencyCSV reads adjacency.csv (header: from_edge,to_edge) into a
// built AdjacencyTable, sized against numEdges.
func LoadAdjacencyCSV(r io.Reader, numEdges int) (*AdjacencyTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read adjacency.csv: %w", err)
	}
	rows = skipHeaderIfPresent(rows, "from_edge")

	entries := make([]AdjacencyEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("adjacency.csv: row %v has fewer than 2 fields", row)
		}
		from, err := strconv.ParseUint(row[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("adjacency.csv: bad from_edge %q: %w", row[0], err)
		}
		to, err := strconv.ParseUint(row[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("adjacency.csv: bad to_edge %q: %w", row[1], err)
		}
		entries = append(entries, AdjacencyEntry{FromEdge: EdgeID(from), ToEdge: EdgeID(to)})
	}
	return BuildAdjacencyTable(entries, numEdges), nil
}

func skipHeaderIfPresent(rows [][]string, firstColumnHeader string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	if rows[0][0] == firstColumnHeader {
		return rows[1:]
	}
	return rows
}
