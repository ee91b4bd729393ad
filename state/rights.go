package state

import (
	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/strictenc"
)

// OwnedRights maps each owned-right type a node declares to the typed
// assignments living under it (spec §3, §4.4).
type OwnedRights map[idtypes.OwnedRightType]TypedAssignments

// PublicRights is the ordered set of public-right types a node declares;
// public rights carry no state, only the type's presence matters (spec §3).
type PublicRights map[idtypes.PublicRightType]struct{}

// ParentOwnedRights indexes, per ancestor node, which of its owned-right
// outputs this node consumes (by type and output index) — spec §3's
// "parent_owned_rights" table used to resolve a Transition's inputs.
type ParentOwnedRights map[idtypes.NodeId]map[idtypes.OwnedRightType][]uint16

// ParentPublicRights is the Extension analogue of ParentOwnedRights: which
// public rights of an ancestor node this node extends (spec §3).
type ParentPublicRights map[idtypes.NodeId][]idtypes.PublicRightType

// OwnedRightTypes returns the declared types in ascending order.
func (r OwnedRights) OwnedRightTypes() []idtypes.OwnedRightType {
	return strictenc.SortedKeys(r)
}

// PublicRightTypes returns the declared types in ascending order.
func (r PublicRights) PublicRightTypes() []idtypes.PublicRightType {
	return strictenc.SortedKeys(r)
}

// ConcealBytes serializes owned rights as a sorted-by-type map: a bounded
// count prefix followed by (type, strategy byte, TypedAssignments-conceal-
// bytes) entries, ascending by type. This is the form Genesis/Transition/
// Extension commit over — lossy by design, since a node's identity commits
// only to concealed state (spec §4.2). Use StrictEncode/DecodeOwnedRights
// for the lossless wire form.
func (r OwnedRights) ConcealBytes() []byte {
	w := strictenc.NewWriter(64)
	types := r.OwnedRightTypes()
	w.PutLen(len(types), strictenc.MaxSmall)
	for _, t := range types {
		w.PutU16(uint16(t))
		ta := r[t]
		w.PutU8(uint8(ta.Strategy))
		body := ta.ConcealBytes()
		w.PutBounded(body, strictenc.MaxMedium)
	}
	return w.Bytes()
}

// StrictEncode serializes owned rights losslessly: a sorted-by-type map of
// (type, TypedAssignments.StrictEncode()) pairs (spec §4.1, §4.4).
func (r OwnedRights) StrictEncode() []byte {
	w := strictenc.NewWriter(64)
	types := r.OwnedRightTypes()
	w.PutLen(len(types), strictenc.MaxSmall)
	for _, t := range types {
		w.PutU16(uint16(t))
		ta := r[t]
		w.PutBounded(ta.StrictEncode(), strictenc.MaxMedium)
	}
	return w.Bytes()
}

// DecodeOwnedRights parses a strict-encoded OwnedRights map, rejecting any
// out-of-order or duplicate type key (spec §4.1).
func DecodeOwnedRights(b []byte) (OwnedRights, error) {
	r := strictenc.NewReader(b)
	out := make(OwnedRights)
	n, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return nil, err
	}
	var prev idtypes.OwnedRightType
	havePrev := false
	for i := uint64(0); i < n; i++ {
		tb, err := r.U16()
		if err != nil {
			return nil, err
		}
		t := idtypes.OwnedRightType(tb)
		if err := strictenc.CheckAscendingNoDup(prev, havePrev, t); err != nil {
			return nil, err
		}
		prev, havePrev = t, true
		body, err := r.Bounded(strictenc.MaxMedium)
		if err != nil {
			return nil, err
		}
		ta, err := DecodeTypedAssignments(body)
		if err != nil {
			return nil, err
		}
		out[t] = ta
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return out, nil
}

// StrictEncode serializes public rights as a sorted bounded set of type
// codes (spec §4.1 bounded-set encoding).
func (r PublicRights) StrictEncode() []byte {
	w := strictenc.NewWriter(2 + 2*len(r))
	types := r.PublicRightTypes()
	w.PutLen(len(types), strictenc.MaxSmall)
	for _, t := range types {
		w.PutU16(uint16(t))
	}
	return w.Bytes()
}

// DecodePublicRights parses a strict-encoded PublicRights set, rejecting
// any out-of-order or duplicate type code.
func DecodePublicRights(b []byte) (PublicRights, error) {
	r := strictenc.NewReader(b)
	out := make(PublicRights)
	n, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return nil, err
	}
	var prev idtypes.PublicRightType
	havePrev := false
	for i := uint64(0); i < n; i++ {
		tb, err := r.U16()
		if err != nil {
			return nil, err
		}
		t := idtypes.PublicRightType(tb)
		if err := strictenc.CheckAscendingNoDup(prev, havePrev, t); err != nil {
			return nil, err
		}
		prev, havePrev = t, true
		out[t] = struct{}{}
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return out, nil
}

// StrictEncode serializes parent owned rights as a sorted map of NodeId to
// a sorted map of OwnedRightType to the list of output indices in stored
// order (spec
// §3, §4.1).
func (r ParentOwnedRights) StrictEncode() []byte {
	w := strictenc.NewWriter(128)
	nodeIds := sortedNodeIds(r)
	w.PutLen(len(nodeIds), strictenc.MaxMedium)
	for _, id := range nodeIds {
		w.PutBytes(id[:])
		byType := r[id]
		types := strictenc.SortedKeys(byType)
		w.PutLen(len(types), strictenc.MaxSmall)
		for _, t := range types {
			w.PutU16(uint16(t))
			nos := byType[t]
			w.PutLen(len(nos), strictenc.MaxSmall)
			for _, no := range nos {
				w.PutU16(no)
			}
		}
	}
	return w.Bytes()
}

// DecodeParentOwnedRights parses a strict-encoded ParentOwnedRights map,
// rejecting any out-of-order or duplicate NodeId or OwnedRightType key.
func DecodeParentOwnedRights(b []byte) (ParentOwnedRights, error) {
	r := strictenc.NewReader(b)
	out := make(ParentOwnedRights)
	n, err := r.Len(strictenc.MaxMedium)
	if err != nil {
		return nil, err
	}
	var prevID idtypes.NodeId
	haveID := false
	for i := uint64(0); i < n; i++ {
		idBytes, err := r.Bytes(32)
		if err != nil {
			return nil, err
		}
		var id idtypes.NodeId
		copy(id[:], idBytes)
		if haveID && !lessNodeId(prevID, id) {
			return nil, &strictenc.DecodeError{Kind: strictenc.ErrUnorderedKey, Detail: "parent owned rights node id"}
		}
		prevID, haveID = id, true

		typeCount, err := r.Len(strictenc.MaxSmall)
		if err != nil {
			return nil, err
		}
		byType := make(map[idtypes.OwnedRightType][]uint16, typeCount)
		var prevType idtypes.OwnedRightType
		haveType := false
		for j := uint64(0); j < typeCount; j++ {
			tb, err := r.U16()
			if err != nil {
				return nil, err
			}
			t := idtypes.OwnedRightType(tb)
			if err := strictenc.CheckAscendingNoDup(prevType, haveType, t); err != nil {
				return nil, err
			}
			prevType, haveType = t, true

			noCount, err := r.Len(strictenc.MaxSmall)
			if err != nil {
				return nil, err
			}
			nos := make([]uint16, noCount)
			for k := range nos {
				if nos[k], err = r.U16(); err != nil {
					return nil, err
				}
			}
			byType[t] = nos
		}
		out[id] = byType
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return out, nil
}

// StrictEncode serializes parent public rights the same way, minus the
// output-index level (spec §3, §4.1).
func (r ParentPublicRights) StrictEncode() []byte {
	w := strictenc.NewWriter(128)
	nodeIds := sortedNodeIds(r)
	w.PutLen(len(nodeIds), strictenc.MaxMedium)
	for _, id := range nodeIds {
		w.PutBytes(id[:])
		types := r[id]
		w.PutLen(len(types), strictenc.MaxSmall)
		for _, t := range types {
			w.PutU16(uint16(t))
		}
	}
	return w.Bytes()
}

// DecodeParentPublicRights parses a strict-encoded ParentPublicRights map.
func DecodeParentPublicRights(b []byte) (ParentPublicRights, error) {
	r := strictenc.NewReader(b)
	out := make(ParentPublicRights)
	n, err := r.Len(strictenc.MaxMedium)
	if err != nil {
		return nil, err
	}
	var prevID idtypes.NodeId
	haveID := false
	for i := uint64(0); i < n; i++ {
		idBytes, err := r.Bytes(32)
		if err != nil {
			return nil, err
		}
		var id idtypes.NodeId
		copy(id[:], idBytes)
		if haveID && !lessNodeId(prevID, id) {
			return nil, &strictenc.DecodeError{Kind: strictenc.ErrUnorderedKey, Detail: "parent public rights node id"}
		}
		prevID, haveID = id, true

		typeCount, err := r.Len(strictenc.MaxSmall)
		if err != nil {
			return nil, err
		}
		types := make([]idtypes.PublicRightType, typeCount)
		for j := range types {
			tb, err := r.U16()
			if err != nil {
				return nil, err
			}
			types[j] = idtypes.PublicRightType(tb)
		}
		out[id] = types
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return out, nil
}

func sortedNodeIds[V any](m map[idtypes.NodeId]V) []idtypes.NodeId {
	ids := make([]idtypes.NodeId, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && lessNodeId(ids[j], ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

func lessNodeId(a, b idtypes.NodeId) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
