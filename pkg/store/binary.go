package store

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/Khoshkhah/h3-routing-platform/pkg/hex"
)

const (
	magicBytes = "H3SHRTCT"
	version    = uint32(1)
)

type fileHeader struct {
	Magic        [8]byte
	Version      uint32
	NumEdges     uint32
	NumAdjacency uint32
	NumShortcuts uint32
}

// WriteBinary serializes a dataset's edge table, adjacency table and
// shortcut table to a single binary file. Writes to a temp file and
// renames atomically so readers never observe a partial file.
func WriteBinary(path string, edges *EdgeTable, adj *AdjacencyTable, shortcuts *ShortcutTable) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}

	hdr := fileHeader{
		Version:      version,
		NumEdges:     uint32(edges.Len()),
		NumAdjacency: uint32(len(adj.ToEdge)),
		NumShortcuts: uint32(shortcuts.Len()),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := writeUint64Slice(cw, cellSliceToUint64(edges.FromCell)); err != nil {
		return fmt.Errorf("write FromCell: %w", err)
	}
	if err := writeUint64Slice(cw, cellSliceToUint64(edges.ToCell)); err != nil {
		return fmt.Errorf("write ToCell: %w", err)
	}
	if err := writeInt8Slice(cw, edges.LCARes); err != nil {
		return fmt.Errorf("write LCARes: %w", err)
	}
	if err := writeUint32Slice(cw, edges.Cost); err != nil {
		return fmt.Errorf("write Cost: %w", err)
	}
	if err := writeGeometryBlobs(cw, edges.Geometry); err != nil {
		return fmt.Errorf("write Geometry: %w", err)
	}

	if err := writeUint32Slice(cw, adj.FirstOut); err != nil {
		return fmt.Errorf("write AdjFirstOut: %w", err)
	}
	if err := writeEdgeIDSlice(cw, adj.ToEdge); err != nil {
		return fmt.Errorf("write AdjToEdge: %w", err)
	}

	if err := writeShortcutRecords(cw, shortcuts.Records); err != nil {
		return fmt.Errorf("write Shortcuts: %w", err)
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadBinary deserializes a dataset's tables from path, reconstructing
// the CSR indexes on the adjacency and shortcut tables.
func ReadBinary(path string) (*EdgeTable, *AdjacencyTable, *ShortcutTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, nil, nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, nil, nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}

	n := int(hdr.NumEdges)
	edges := NewEdgeTable(n)

	fromCellU64, err := readUint64Slice(cr, n)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read FromCell: %w", err)
	}
	edges.FromCell = uint64SliceToCell(fromCellU64)

	toCellU64, err := readUint64Slice(cr, n)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read ToCell: %w", err)
	}
	edges.ToCell = uint64SliceToCell(toCellU64)

	if edges.LCARes, err = readInt8Slice(cr, n); err != nil {
		return nil, nil, nil, fmt.Errorf("read LCARes: %w", err)
	}
	if edges.Cost, err = readUint32Slice(cr, n); err != nil {
		return nil, nil, nil, fmt.Errorf("read Cost: %w", err)
	}
	if edges.Geometry, err = readGeometryBlobs(cr, n); err != nil {
		return nil, nil, nil, fmt.Errorf("read Geometry: %w", err)
	}

	adjFirstOut, err := readUint32Slice(cr, n+1)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read AdjFirstOut: %w", err)
	}
	adjToEdge, err := readEdgeIDSlice(cr, int(hdr.NumAdjacency))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read AdjToEdge: %w", err)
	}
	adj := &AdjacencyTable{FirstOut: adjFirstOut, ToEdge: adjToEdge}

	records, err := readShortcutRecords(cr, int(hdr.NumShortcuts))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read Shortcuts: %w", err)
	}
	shortcuts := NewShortcutTable(records, n)

	expectedCRC := cr.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, nil, nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, nil, nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	return edges, adj, shortcuts, nil
}

func cellSliceToUint64(s []hex.Cell) []uint64 {
	out := make([]uint64, len(s))
	for i, c := range s {
		out[i] = uint64(c)
	}
	return out
}

func uint64SliceToCell(s []uint64) []hex.Cell {
	out := make([]hex.Cell, len(s))
	for i, v := range s {
		out[i] = hex.Cell(v)
	}
	return out
}

func writeShortcutRecords(w io.Writer, records []Shortcut) error {
	for _, s := range records {
		fields := [8]uint64{
			uint64(s.FromEdge), uint64(s.ToEdge), uint64(s.Cost), uint64(s.ViaEdge),
			uint64(s.InnerCell), uint64(s.OuterCell), uint64(int64(s.InnerRes)), uint64(int64(s.OuterRes)),
		}
		if err := binary.Write(w, binary.LittleEndian, &fields); err != nil {
			return err
		}
		tail := [2]int8{s.LCARes, int8(s.Inside)}
		if err := binary.Write(w, binary.LittleEndian, &tail); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(s.Cell)); err != nil {
			return err
		}
	}
	return nil
}

func readShortcutRecords(r io.Reader, n int) ([]Shortcut, error) {
	out := make([]Shortcut, n)
	for i := range out {
		var fields [8]uint64
		if err := binary.Read(r, binary.LittleEndian, &fields); err != nil {
			return nil, err
		}
		var tail [2]int8
		if err := binary.Read(r, binary.LittleEndian, &tail); err != nil {
			return nil, err
		}
		var cell uint64
		if err := binary.Read(r, binary.LittleEndian, &cell); err != nil {
			return nil, err
		}
		out[i] = Shortcut{
			FromEdge:  EdgeID(fields[0]),
			ToEdge:    EdgeID(fields[1]),
			Cost:      uint32(fields[2]),
			ViaEdge:   EdgeID(fields[3]),
			InnerCell: hex.Cell(fields[4]),
			OuterCell: hex.Cell(fields[5]),
			InnerRes:  int8(int64(fields[6])),
			OuterRes:  int8(int64(fields[7])),
			LCARes:    tail[0],
			Inside:    Inside(tail[1]),
			Cell:      hex.Cell(cell),
		}
	}
	return out, nil
}

func writeGeometryBlobs(w io.Writer, blobs [][]byte) error {
	for _, b := range blobs {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
			return err
		}
		if len(b) > 0 {
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func readGeometryBlobs(r io.Reader, n int) ([][]byte, error) {
	out := make([][]byte, n)
	for i := range out {
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, err
		}
		if l == 0 {
			continue
		}
		b := make([]byte, l)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Zero-copy I/O helpers, generalized from the teacher's graph/binary.go.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeUint64Slice(w io.Writer, s []uint64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeInt8Slice(w io.Writer, s []int8) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s))
	_, err := w.Write(b)
	return err
}

func writeEdgeIDSlice(w io.Writer, s []EdgeID) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readUint64Slice(r io.Reader, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readInt8Slice(r io.Reader, n int) ([]int8, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int8, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readEdgeIDSlice(r io.Reader, n int) ([]EdgeID, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]EdgeID, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
