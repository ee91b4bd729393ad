package strictenc

import "encoding/binary"

// Reader walks a strict-encoded buffer front to back. It never panics;
// every accessor returns a *DecodeError on malformed or truncated input.
type Reader struct {
	b   []byte
	pos int
}

func NewReader(b []byte) *Reader {
	return &Reader{b: b, pos: 0}
}

func (r *Reader) remaining() int {
	if r.pos >= len(r.b) {
		return 0
	}
	return len(r.b) - r.pos
}

func (r *Reader) readExact(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, decErr(ErrTruncated, "")
	}
	start := r.pos
	r.pos += n
	return r.b[start:r.pos], nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.readExact(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Len reads a bounded-collection length prefix sized for max, and rejects
// any value exceeding max.
func (r *Reader) Len(max uint64) (uint64, error) {
	var n uint64
	var err error
	switch {
	case max <= 0xff:
		var v uint8
		v, err = r.U8()
		n = uint64(v)
	case max <= 0xffff:
		var v uint16
		v, err = r.U16()
		n = uint64(v)
	case max <= 0xffff_ffff:
		var v uint32
		v, err = r.U32()
		n = uint64(v)
	default:
		n, err = r.U64()
	}
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, decErr(ErrBoundExceeded, "")
	}
	return n, nil
}

// Bounded reads a length prefix sized for max (mirroring PutBounded's width
// choice) followed by that many bytes.
func (r *Reader) Bounded(max uint64) ([]byte, error) {
	n, err := r.Len(max)
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}

// Remaining returns the number of unread bytes left in the buffer.
func (r *Reader) Remaining() int { return r.remaining() }

// Done rejects trailing, unread bytes — every decoder must call this once
// it believes it has consumed the whole buffer.
func (r *Reader) Done() error {
	if r.remaining() != 0 {
		return decErr(ErrTrailingData, "")
	}
	return nil
}
