package operation

import (
	"testing"

	"rgbcore.dev/core/idtypes"
)

func TestMetadataFieldTypesAreAscending(t *testing.T) {
	m := Metadata{3: {{1}}, 1: {{2}}, 2: {{3}}}
	types := m.FieldTypes()
	want := []idtypes.FieldType{1, 2, 3}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v want %v", types, want)
		}
	}
}

func TestMetadataStrictEncodeDeterministic(t *testing.T) {
	m := Metadata{1: {{0xaa}, {0xbb}}, 2: {{0xcc}}}
	if string(m.StrictEncode()) != string(m.StrictEncode()) {
		t.Fatalf("encoding should be deterministic")
	}
}

func TestMetadataStrictEncodeEmptyIsStable(t *testing.T) {
	var m Metadata
	if len(m.StrictEncode()) != 2 {
		t.Fatalf("empty metadata should encode to just a two-byte zero length prefix, got %d bytes", len(m.StrictEncode()))
	}
}
