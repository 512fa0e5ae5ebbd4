package binio

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/DataDog/zstd"

	"github.com/cfields-hep/lattice/lib/geom"
	"github.com/cfields-hep/lattice/lib/layout"
)

// Snapshot is a single lattice field stored in layout order: Data[i] is the
// field value at the site with linear index i under Scheme.
type Snapshot struct {
	Name    string
	Scheme  layout.Scheme
	Extents []int
	Data    []float64
}

// zstdLevel trades compression for speed. Field snapshots are written far
// more often than they are read back, so stay near the fast end.
const zstdLevel = 1

// WriteSnapshot writes a field snapshot to a stream: magic/version framing,
// the geometry and scheme needed to interpret the site ordering, the
// zstd-compressed field data, and a trailing checksum of everything before
// it.
func WriteSnapshot(
	out io.Writer, l *layout.Layout, name string, data []float64,
) error {
	g := l.Geometry()
	if len(data) != g.Volume() {
		return fmt.Errorf("The lattice has %d sites, but the field '%s' "+
			"has %d values.", g.Volume(), name, len(data))
	}

	raw := &bytes.Buffer{}
	rawWriter := NewWriter(raw, SystemByteOrder())
	rawWriter.WriteFloat64s(data)
	if rawWriter.Fail() {
		return rawWriter.Err()
	}

	compressed, err := zstd.CompressLevel(nil, raw.Bytes(), zstdLevel)
	if err != nil {
		return err
	}

	w := NewWriter(out, SystemByteOrder())
	writeHeader(w)
	w.WriteString(name)
	w.WriteInt32(int32(l.Scheme()))
	w.WriteInts(g.Extents())
	w.WriteInt64(int64(len(data)))
	w.WriteInt64(int64(len(compressed)))
	w.WriteBytes(compressed)
	w.WriteUint32(w.Checksum())
	return w.Err()
}

// ReadSnapshot reads a field snapshot written by WriteSnapshot. It verifies
// the framing and the checksum, but does not rebuild a Layout: callers that
// want coordinates create one from the returned scheme and extents.
func ReadSnapshot(in io.Reader) (*Snapshot, error) {
	r := NewReader(in, SystemByteOrder())
	if err := readHeader(r); err != nil {
		return nil, err
	}

	s := &Snapshot{}
	s.Name = r.ReadString()
	s.Scheme = layout.Scheme(r.ReadInt32())
	s.Extents = r.ReadInts()
	n := r.ReadInt64()
	nCompressed := r.ReadInt64()
	if r.Err() != nil {
		return nil, r.Err()
	}

	// The length fields come off the stream, so they cannot be trusted to
	// size allocations until they agree with the extents. The bound on n
	// also keeps the compressBound arithmetic below from overflowing.
	g, err := geom.New(s.Extents)
	if err != nil {
		return nil, fmt.Errorf("The snapshot '%s' is corrupted: %v",
			s.Name, err)
	}
	if n != int64(g.Volume()) || n > math.MaxInt64/16 {
		return nil, fmt.Errorf("The snapshot '%s' is corrupted: it claims "+
			"%d values on a lattice with %d sites.", s.Name, n, g.Volume())
	}
	if nCompressed < 0 || nCompressed > compressBound(8*n) {
		return nil, fmt.Errorf("The snapshot '%s' is corrupted: its "+
			"compressed block claims %d bytes for %d values.",
			s.Name, nCompressed, n)
	}

	compressed := make([]byte, nCompressed)
	r.ReadBytes(compressed)
	sum := r.Checksum()
	storedSum := r.ReadUint32()
	if r.Err() != nil {
		return nil, r.Err()
	}
	if sum != storedSum {
		return nil, fmt.Errorf("The snapshot '%s' is corrupted: its "+
			"checksum is %#x, expected %#x.", s.Name, sum, storedSum)
	}

	raw, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) != 8*n {
		return nil, fmt.Errorf("The snapshot '%s' should hold %d values, "+
			"but decompressed to %d bytes.", s.Name, n, len(raw))
	}

	s.Data = make([]float64, n)
	rawReader := NewReader(bytes.NewReader(raw), SystemByteOrder())
	rawReader.ReadFloat64s(s.Data)
	if rawReader.Err() != nil {
		return nil, rawReader.Err()
	}

	return s, nil
}

// compressBound is zstd's worst-case output size for raw bytes of
// incompressible input.
func compressBound(raw int64) int64 {
	return raw + raw/255 + 64
}
