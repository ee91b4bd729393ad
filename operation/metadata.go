// Package operation implements the Genesis/Transition/Extension operation
// nodes, their identity commitments, and the derived read-only queries
// every node type exposes (spec §4.5).
package operation

import (
	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/strictenc"
)

// Metadata maps a field type to its bounded list of typed values. Each value
// is carried as its own already-strict-encoded blob: the core does not
// interpret field payloads, only bounds and orders them (spec §3).
type Metadata map[idtypes.FieldType][][]byte

// FieldTypes returns the declared field types in ascending order.
func (m Metadata) FieldTypes() []idtypes.FieldType {
	return strictenc.SortedKeys(m)
}

// StrictEncode serializes Metadata as a sorted map of field-type to a
// bounded list of bounded-length value blobs (spec §4.1).
func (m Metadata) StrictEncode() []byte {
	w := strictenc.NewWriter(64)
	types := m.FieldTypes()
	w.PutLen(len(types), strictenc.MaxSmall)
	for _, t := range types {
		w.PutU16(uint16(t))
		values := m[t]
		w.PutLen(len(values), strictenc.MaxSmall)
		for _, v := range values {
			w.PutBounded(v, strictenc.MaxMedium)
		}
	}
	return w.Bytes()
}

// DecodeMetadata parses a strict-encoded Metadata map, rejecting any
// out-of-order or duplicate field-type key (spec §4.1).
func DecodeMetadata(b []byte) (Metadata, error) {
	r := strictenc.NewReader(b)
	out := make(Metadata)
	n, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return nil, err
	}
	var prev idtypes.FieldType
	havePrev := false
	for i := uint64(0); i < n; i++ {
		tb, err := r.U16()
		if err != nil {
			return nil, err
		}
		t := idtypes.FieldType(tb)
		if err := strictenc.CheckAscendingNoDup(prev, havePrev, t); err != nil {
			return nil, err
		}
		prev, havePrev = t, true
		valCount, err := r.Len(strictenc.MaxSmall)
		if err != nil {
			return nil, err
		}
		values := make([][]byte, valCount)
		for j := range values {
			if values[j], err = r.Bounded(strictenc.MaxMedium); err != nil {
				return nil, err
			}
		}
		out[t] = values
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return out, nil
}
