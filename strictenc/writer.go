package strictenc

import "encoding/binary"

// LibName is the library tag name "RGB". No encoder or commitment in this
// module reads it: it is not folded into any type's encoding or identity.
const LibName = "RGB"

// Writer accumulates a strict encoding. All integers are little-endian,
// fixed width; there is no padding.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer with cap pre-reserved.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) PutU8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) PutU16(v uint16) *Writer {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
	return w
}

func (w *Writer) PutU32(v uint32) *Writer {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
	return w
}

func (w *Writer) PutU64(v uint64) *Writer {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
	return w
}

func (w *Writer) PutI64(v int64) *Writer {
	return w.PutU64(uint64(v))
}

func (w *Writer) PutBytes(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// PutBounded writes the length of b as the narrowest unsigned width that
// fits max, then the bytes themselves. max must match the static bound the
// caller's type declares; it is the caller's responsibility to have already
// checked len(b) <= max.
func (w *Writer) PutBounded(b []byte, max uint64) *Writer {
	putBoundedLen(w, uint64(len(b)), max)
	w.buf = append(w.buf, b...)
	return w
}

// PutLen writes n using the narrowest width that fits max, without
// following bytes. Used by collection encoders that then loop and encode
// each element themselves.
func (w *Writer) PutLen(n int, max uint64) *Writer {
	putBoundedLen(w, uint64(n), max)
	return w
}

func putBoundedLen(w *Writer, n uint64, max uint64) {
	switch {
	case max <= 0xff:
		w.PutU8(uint8(n))
	case max <= 0xffff:
		w.PutU16(uint16(n))
	case max <= 0xffff_ffff:
		w.PutU32(uint32(n))
	default:
		w.PutU64(n)
	}
}

// LenWidth returns the number of bytes PutLen/PutBounded will use for a
// given max bound — callers sizing a backing buffer can use this.
func LenWidth(max uint64) int {
	switch {
	case max <= 0xff:
		return 1
	case max <= 0xffff:
		return 2
	case max <= 0xffff_ffff:
		return 4
	default:
		return 8
	}
}
