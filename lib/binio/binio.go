/*package binio provides the lattice's binary stream primitives: a byte-order
aware writer/reader pair with running checksums, and zstd-compressed lattice
field snapshots framed by a magic number and version.
*/
package binio

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"unsafe"
)

const (
	// MagicNumber is an arbitrary number at the start of all lattice files
	// which should help identify when the code is run on something else by
	// accident.
	MagicNumber uint32 = 0x1a77c0de
	// ReverseMagicNumber is the magic number if read on a machine with
	// flipped endianness.
	ReverseMagicNumber uint32 = 0xdec0771a
	// Version is the current snapshot format version.
	Version uint32 = 1
	// maxSliceLen bounds the length prefixes read back from a stream.
	// Nothing the lattice writes comes close, so a longer prefix means the
	// stream is corrupted and sizing an allocation from it would be a
	// multi-gigabyte mistake.
	maxSliceLen uint32 = 1 << 27
)

// SystemByteOrder returns the byte order of the machine the process is
// running on.
func SystemByteOrder() binary.ByteOrder {
	b := [2]byte{}
	*(*uint16)(unsafe.Pointer(&b[0])) = uint16(0x0001)
	if b[0] == 0 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Writer writes primitives to a stream in a fixed byte order, accumulating a
// CRC32 checksum over everything written. The first I/O error latches: later
// writes become no-ops and Err returns it, so callers can check once after a
// batch of writes.
type Writer struct {
	w     io.Writer
	order binary.ByteOrder
	sum   uint32
	n     int
	err   error
	buf   [8]byte
}

// NewWriter creates a Writer targeting w with a given byte ordering.
func NewWriter(w io.Writer, order binary.ByteOrder) *Writer {
	return &Writer{w: w, order: order}
}

// Err returns the first error encountered by the writer, if any.
func (w *Writer) Err() error { return w.err }

// Fail returns true if some failure occurred in a previous write.
func (w *Writer) Fail() bool { return w.err != nil }

// Checksum returns the CRC32 of every byte written so far.
func (w *Writer) Checksum() uint32 { return w.sum }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.n }

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	w.sum = crc32.Update(w.sum, crc32.IEEETable, p)
	n, err := w.w.Write(p)
	w.n += n
	w.err = err
}

// WriteUint32 writes a single uint32.
func (w *Writer) WriteUint32(x uint32) {
	w.order.PutUint32(w.buf[:4], x)
	w.write(w.buf[:4])
}

// WriteUint64 writes a single uint64.
func (w *Writer) WriteUint64(x uint64) {
	w.order.PutUint64(w.buf[:8], x)
	w.write(w.buf[:8])
}

// WriteInt32 writes a single int32.
func (w *Writer) WriteInt32(x int32) { w.WriteUint32(uint32(x)) }

// WriteInt64 writes a single int64.
func (w *Writer) WriteInt64(x int64) { w.WriteUint64(uint64(x)) }

// WriteFloat32 writes a single float32.
func (w *Writer) WriteFloat32(x float32) {
	w.WriteUint32(math.Float32bits(x))
}

// WriteFloat64 writes a single float64.
func (w *Writer) WriteFloat64(x float64) {
	w.WriteUint64(math.Float64bits(x))
}

// WriteBool writes a single bool as one byte.
func (w *Writer) WriteBool(x bool) {
	w.buf[0] = 0
	if x {
		w.buf[0] = 1
	}
	w.write(w.buf[:1])
}

// WriteString writes a length-prefixed string.
func (w *Writer) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.write([]byte(s))
}

// WriteBytes writes raw bytes with no length prefix.
func (w *Writer) WriteBytes(p []byte) { w.write(p) }

// WriteInts writes a length-prefixed []int as int64s.
func (w *Writer) WriteInts(xs []int) {
	w.WriteUint32(uint32(len(xs)))
	for _, x := range xs {
		w.WriteInt64(int64(x))
	}
}

// WriteFloat64s writes the elements of a []float64 with no length prefix.
func (w *Writer) WriteFloat64s(xs []float64) {
	for _, x := range xs {
		w.WriteFloat64(x)
	}
}

// Reader reads primitives written by Writer, accumulating the same checksum.
// Like Writer, the first error latches.
type Reader struct {
	r     io.Reader
	order binary.ByteOrder
	sum   uint32
	err   error
	buf   [8]byte
}

// NewReader creates a Reader over r with a given byte ordering.
func NewReader(r io.Reader, order binary.ByteOrder) *Reader {
	return &Reader{r: r, order: order}
}

// Err returns the first error encountered by the reader, if any.
func (r *Reader) Err() error { return r.err }

// Checksum returns the CRC32 of every byte read so far.
func (r *Reader) Checksum() uint32 { return r.sum }

func (r *Reader) read(p []byte) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, p); err != nil {
		r.err = err
		return false
	}
	r.sum = crc32.Update(r.sum, crc32.IEEETable, p)
	return true
}

// ReadUint32 reads a single uint32.
func (r *Reader) ReadUint32() uint32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return r.order.Uint32(r.buf[:4])
}

// ReadUint64 reads a single uint64.
func (r *Reader) ReadUint64() uint64 {
	if !r.read(r.buf[:8]) {
		return 0
	}
	return r.order.Uint64(r.buf[:8])
}

// ReadInt32 reads a single int32.
func (r *Reader) ReadInt32() int32 { return int32(r.ReadUint32()) }

// ReadInt64 reads a single int64.
func (r *Reader) ReadInt64() int64 { return int64(r.ReadUint64()) }

// ReadFloat32 reads a single float32.
func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

// ReadFloat64 reads a single float64.
func (r *Reader) ReadFloat64() float64 {
	return math.Float64frombits(r.ReadUint64())
}

// ReadBool reads a single bool.
func (r *Reader) ReadBool() bool {
	if !r.read(r.buf[:1]) {
		return false
	}
	return r.buf[0] != 0
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() string {
	n := r.ReadUint32()
	if r.err != nil {
		return ""
	}
	if n > maxSliceLen {
		r.err = fmt.Errorf("A string length prefix of %d bytes is too "+
			"long to be real.", n)
		return ""
	}
	p := make([]byte, n)
	if !r.read(p) {
		return ""
	}
	return string(p)
}

// ReadBytes reads exactly len(p) raw bytes into p.
func (r *Reader) ReadBytes(p []byte) { r.read(p) }

// ReadInts reads a length-prefixed []int written by WriteInts.
func (r *Reader) ReadInts() []int {
	n := r.ReadUint32()
	if r.err != nil {
		return nil
	}
	if n > maxSliceLen {
		r.err = fmt.Errorf("An array length prefix of %d elements is too "+
			"long to be real.", n)
		return nil
	}
	xs := make([]int, n)
	for i := range xs {
		xs[i] = int(r.ReadInt64())
	}
	return xs
}

// ReadFloat64s reads len(xs) float64s into xs.
func (r *Reader) ReadFloat64s(xs []float64) {
	for i := range xs {
		xs[i] = r.ReadFloat64()
	}
}

// writeHeader writes the magic number and version framing.
func writeHeader(w *Writer) {
	w.WriteUint32(MagicNumber)
	w.WriteUint32(Version)
}

// readHeader reads and validates the magic number and version framing. A
// reversed magic number means the file was written on a machine with the
// opposite endianness.
func readHeader(r *Reader) error {
	magic := r.ReadUint32()
	if r.err != nil {
		return r.err
	}
	switch magic {
	case MagicNumber:
	case ReverseMagicNumber:
		return fmt.Errorf("This file was written on a machine with the " +
			"opposite endianness.")
	default:
		return fmt.Errorf("This file does not look like a lattice file: "+
			"its magic number is %#x, expected %#x.", magic, MagicNumber)
	}

	if version := r.ReadUint32(); version != Version {
		return fmt.Errorf("This file has format version %d, but this "+
			"build reads version %d.", version, Version)
	}
	return nil
}
