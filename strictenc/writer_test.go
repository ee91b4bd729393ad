package strictenc

import (
	"encoding/hex"
	"testing"
)

func TestWriterFixedWidthLittleEndian(t *testing.T) {
	cases := []struct {
		name string
		enc  []byte
		hex  string
	}{
		{"u8", NewWriter(0).PutU8(0x42).Bytes(), "42"},
		{"u16", NewWriter(0).PutU16(0x1234).Bytes(), "3412"},
		{"u32", NewWriter(0).PutU32(0x12345678).Bytes(), "78563412"},
		{"u64", NewWriter(0).PutU64(0x0102030405060708).Bytes(), "0807060504030201"},
		{"i64_negative", NewWriter(0).PutI64(-1).Bytes(), "ffffffffffffffff"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hex.EncodeToString(tc.enc); got != tc.hex {
				t.Fatalf("got %s want %s", got, tc.hex)
			}
		})
	}
}

func TestPutBoundedWidthSelection(t *testing.T) {
	cases := []struct {
		name string
		max  uint64
		n    int
		hex  string
	}{
		{"tiny", MaxTiny, 3, "03" + "010203"},
		{"small", MaxSmall, 3, "0300" + "010203"},
		{"medium", MaxMedium, 3, "03000000" + "010203"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := []byte{1, 2, 3}[:tc.n]
			w := NewWriter(0)
			w.PutBounded(data, tc.max)
			if got := hex.EncodeToString(w.Bytes()); got != tc.hex {
				t.Fatalf("got %s want %s", got, tc.hex)
			}
		})
	}
}

func TestLenWidthMatchesPutBounded(t *testing.T) {
	cases := []struct {
		max  uint64
		want int
	}{
		{MaxTiny, 1},
		{MaxSmall, 2},
		{MaxMedium, 4},
		{1<<64 - 1, 8},
	}
	for _, tc := range cases {
		if got := LenWidth(tc.max); got != tc.want {
			t.Fatalf("LenWidth(%d) = %d, want %d", tc.max, got, tc.want)
		}
		w := NewWriter(0)
		w.PutLen(0, tc.max)
		if len(w.Bytes()) != tc.want {
			t.Fatalf("PutLen wrote %d bytes, want %d", len(w.Bytes()), tc.want)
		}
	}
}

func TestReaderRoundtripsWriter(t *testing.T) {
	w := NewWriter(0)
	w.PutU8(9).PutU16(300).PutU32(70000).PutU64(1 << 40).PutBytes([]byte("abc"))

	r := NewReader(w.Bytes())
	if v, err := r.U8(); err != nil || v != 9 {
		t.Fatalf("U8: v=%d err=%v", v, err)
	}
	if v, err := r.U16(); err != nil || v != 300 {
		t.Fatalf("U16: v=%d err=%v", v, err)
	}
	if v, err := r.U32(); err != nil || v != 70000 {
		t.Fatalf("U32: v=%d err=%v", v, err)
	}
	if v, err := r.U64(); err != nil || v != 1<<40 {
		t.Fatalf("U64: v=%d err=%v", v, err)
	}
	if b, err := r.Bytes(3); err != nil || string(b) != "abc" {
		t.Fatalf("Bytes: b=%q err=%v", b, err)
	}
	if err := r.Done(); err != nil {
		t.Fatalf("Done: %v", err)
	}
}

func TestReaderTruncatedErrors(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.U32(); err == nil {
		t.Fatalf("expected truncation error")
	} else if de, ok := err.(*DecodeError); !ok || de.Kind != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestReaderDoneRejectsTrailingData(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.U8(); err != nil {
		t.Fatalf("U8: %v", err)
	}
	if err := r.Done(); err == nil {
		t.Fatalf("expected trailing data error")
	} else if de, ok := err.(*DecodeError); !ok || de.Kind != ErrTrailingData {
		t.Fatalf("got %v, want ErrTrailingData", err)
	}
}

func TestReaderLenRejectsOverBound(t *testing.T) {
	w := NewWriter(0)
	w.PutU8(5) // a tiny-bounded length of 5
	r := NewReader(w.Bytes())
	if _, err := r.Len(3); err == nil {
		t.Fatalf("expected bound-exceeded error")
	} else if de, ok := err.(*DecodeError); !ok || de.Kind != ErrBoundExceeded {
		t.Fatalf("got %v, want ErrBoundExceeded", err)
	}
}

func TestSortedKeysIsAscending(t *testing.T) {
	m := map[uint16]string{30: "c", 10: "a", 20: "b"}
	keys := SortedKeys(m)
	want := []uint16{10, 20, 30}
	if len(keys) != len(want) {
		t.Fatalf("got %v want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v want %v", keys, want)
		}
	}
}

func TestCheckAscendingNoDup(t *testing.T) {
	if err := CheckAscendingNoDup(5, true, 5); err == nil {
		t.Fatalf("expected repeated-key error")
	}
	if err := CheckAscendingNoDup(5, true, 3); err == nil {
		t.Fatalf("expected unordered-key error")
	}
	if err := CheckAscendingNoDup(5, true, 6); err != nil {
		t.Fatalf("unexpected error for ascending pair: %v", err)
	}
	if err := CheckAscendingNoDup(0, false, 0); err != nil {
		t.Fatalf("first key should never fail: %v", err)
	}
}

func TestCheckCardinality(t *testing.T) {
	if err := CheckCardinality(0, 1, 5); err == nil {
		t.Fatalf("expected bound error below min")
	}
	if err := CheckCardinality(6, 1, 5); err == nil {
		t.Fatalf("expected bound error above max")
	}
	if err := CheckCardinality(3, 1, 5); err != nil {
		t.Fatalf("unexpected error in range: %v", err)
	}
}
