// Package idtypes holds the small, dependency-free identifier types shared
// across the operation, schema, state and validation layers: NodeId,
// ContractId, SchemaId, NodeOutpoint, and the u16 type-code aliases that
// index into a Schema (spec §3).
package idtypes

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// NodeId is the content-addressed identity of a Genesis, Transition or
// Extension node: the tagged commitment of its strict encoding (spec §3).
type NodeId [32]byte

func (id NodeId) String() string { return hex.EncodeToString(id[:]) }

func (id NodeId) IsZero() bool { return id == NodeId{} }

// MarshalText/UnmarshalText let NodeId serve as a JSON object key (the
// archive stores operations and anchors keyed by NodeId).
func (id NodeId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *NodeId) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeId(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseNodeId parses a lowercase-hex NodeId.
func ParseNodeId(s string) (NodeId, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return NodeId{}, fmt.Errorf("idtypes: invalid node id %q", s)
	}
	var id NodeId
	copy(id[:], b)
	return id, nil
}

// SchemaId is the commitment of a Schema's strict encoding (spec §3).
type SchemaId [32]byte

func (id SchemaId) String() string { return hex.EncodeToString(id[:]) }

// MarshalText/UnmarshalText let SchemaId serve as a JSON object key (the
// archive stores schemas keyed by SchemaId).
func (id SchemaId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *SchemaId) UnmarshalText(b []byte) error {
	raw, err := hex.DecodeString(string(b))
	if err != nil || len(raw) != 32 {
		return fmt.Errorf("idtypes: invalid schema id %q", b)
	}
	copy(id[:], raw)
	return nil
}

// ContractId equals the genesis NodeId, but is displayed distinctly
// (Base58-with-checksum, HRI "rgb") to avoid confusing the two in
// human-facing output (spec §3, §6).
type ContractId [32]byte

func ContractIdFromNodeId(id NodeId) ContractId { return ContractId(id) }

func (id ContractId) NodeId() NodeId { return NodeId(id) }

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// String renders the ContractId as "rgb1<base58-with-checksum>".
func (id ContractId) String() string {
	return "rgb1" + base58CheckEncode(id[:])
}

// ParseContractId parses the "rgb1<base58>" human-readable form.
func ParseContractId(s string) (ContractId, error) {
	const prefix = "rgb1"
	if !strings.HasPrefix(s, prefix) {
		return ContractId{}, fmt.Errorf("idtypes: contract id missing %q prefix", prefix)
	}
	raw, err := base58CheckDecode(s[len(prefix):])
	if err != nil || len(raw) != 32 {
		return ContractId{}, fmt.Errorf("idtypes: invalid contract id %q: %w", s, err)
	}
	var id ContractId
	copy(id[:], raw)
	return id, nil
}

// base58CheckEncode appends a 4-byte checksum (first 4 bytes of
// double-SHA256) before Base58-encoding, standard Bitcoin-style alphabet.
func base58CheckEncode(payload []byte) string {
	csum := checksum(payload)
	full := append(append([]byte(nil), payload...), csum[:]...)
	return base58Encode(full)
}

func base58CheckDecode(s string) ([]byte, error) {
	full, err := base58Decode(s)
	if err != nil {
		return nil, err
	}
	if len(full) < 4 {
		return nil, fmt.Errorf("idtypes: base58check too short")
	}
	payload, csum := full[:len(full)-4], full[len(full)-4:]
	want := checksum(payload)
	if string(csum) != string(want[:]) {
		return nil, fmt.Errorf("idtypes: base58check checksum mismatch")
	}
	return payload, nil
}

func checksum(payload []byte) [4]byte {
	h1 := sha256sum(payload)
	h2 := sha256sum(h1[:])
	var out [4]byte
	copy(out[:], h2[:4])
	return out
}

// NodeOutpoint identifies one assignment output of one node:
// "{node_id_hex}/{owned_right_type}/{output_no}" (spec §3, §6, §8).
type NodeOutpoint struct {
	NodeId NodeId
	Type   OwnedRightType
	No     uint16
}

func NewNodeOutpoint(id NodeId, ty OwnedRightType, no uint16) NodeOutpoint {
	return NodeOutpoint{NodeId: id, Type: ty, No: no}
}

func (o NodeOutpoint) String() string {
	return fmt.Sprintf("%s/%d/%d", o.NodeId, o.Type, o.No)
}

// OutpointParseErrorKind names why NodeOutpoint parsing failed (spec §8).
type OutpointParseErrorKind string

const (
	WrongFormat      OutpointParseErrorKind = "WRONG_FORMAT"
	InvalidNodeId    OutpointParseErrorKind = "INVALID_NODE_ID"
	InvalidType      OutpointParseErrorKind = "INVALID_TYPE"
	InvalidOutputNo  OutpointParseErrorKind = "INVALID_OUTPUT_NO"
)

type OutpointParseError struct {
	Kind OutpointParseErrorKind
	Raw  string
}

func (e *OutpointParseError) Error() string {
	return fmt.Sprintf("node outpoint parse error (%s): %q", e.Kind, e.Raw)
}

// ParseNodeOutpoint requires exactly two '/' separators; anything else is
// WrongFormat (spec §8: "a/b/c/d" and "a/b" both fail).
func ParseNodeOutpoint(s string) (NodeOutpoint, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return NodeOutpoint{}, &OutpointParseError{Kind: WrongFormat, Raw: s}
	}
	id, err := ParseNodeId(parts[0])
	if err != nil {
		return NodeOutpoint{}, &OutpointParseError{Kind: InvalidNodeId, Raw: s}
	}
	ty, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return NodeOutpoint{}, &OutpointParseError{Kind: InvalidType, Raw: s}
	}
	no, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return NodeOutpoint{}, &OutpointParseError{Kind: InvalidOutputNo, Raw: s}
	}
	return NodeOutpoint{NodeId: id, Type: OwnedRightType(ty), No: uint16(no)}, nil
}

// Type-code aliases indexing into a Schema (spec §3, §4.6).
type (
	FieldType      uint16
	OwnedRightType uint16
	PublicRightType uint16
	TransitionType uint16
	ExtensionType  uint16
)
