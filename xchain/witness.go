// Package xchain defines the layer-1 tag, txid, and witness-ordering types
// shared by the seal and validation layers (spec §4.3, §6; grounded on
// original_source's lnp/presentation/encoding.rs).
package xchain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Layer1 distinguishes which chain a seal or witness lives on.
type Layer1 uint8

const (
	Bitcoin Layer1 = 0x00
	Liquid  Layer1 = 0x01
)

func (l Layer1) String() string {
	switch l {
	case Bitcoin:
		return "bitcoin"
	case Liquid:
		return "liquid"
	default:
		return fmt.Sprintf("layer1(%d)", uint8(l))
	}
}

// Txid is a 32-byte transaction identifier, displayed as lowercase hex.
type Txid [32]byte

func (t Txid) String() string { return hex.EncodeToString(t[:]) }

// WitnessPos is the mined position of a witness transaction: height and
// Unix timestamp. height must be >= 1 and timestamp must be >= the Bitcoin
// genesis block's timestamp (1231006505); spec §3, §8.
type WitnessPos struct {
	height    uint32
	timestamp int64
}

const bitcoinGenesisTimestamp int64 = 1231006505

// NewWitnessPos validates and constructs a WitnessPos. Returns false if
// height == 0 or timestamp predates the Bitcoin genesis block.
func NewWitnessPos(height uint32, timestamp int64) (WitnessPos, bool) {
	if height == 0 || timestamp < bitcoinGenesisTimestamp {
		return WitnessPos{}, false
	}
	return WitnessPos{height: height, timestamp: timestamp}, true
}

func (p WitnessPos) Height() uint32   { return p.height }
func (p WitnessPos) Timestamp() int64 { return p.timestamp }
func (p WitnessPos) String() string   { return fmt.Sprintf("%d@%d", p.height, p.timestamp) }

// Less orders two WitnessPos by timestamp, matching the teacher's named-
// comparator convention (design note: redefined Ord kept explicit, not
// derived structural ordering).
func (p WitnessPos) Less(other WitnessPos) bool { return p.timestamp < other.timestamp }

// WitnessOrd totally orders witnesses for contract-state ordering purposes:
// OffChain sorts after every OnChain position, and OnChain positions sort
// by timestamp (spec §3, §8).
type WitnessOrd struct {
	onChain bool
	pos     WitnessPos
}

func OnChain(pos WitnessPos) WitnessOrd { return WitnessOrd{onChain: true, pos: pos} }

func OffChain() WitnessOrd { return WitnessOrd{onChain: false} }

func (w WitnessOrd) IsOnChain() bool      { return w.onChain }
func (w WitnessOrd) Pos() (WitnessPos, bool) { return w.pos, w.onChain }

// Less implements the total order: OffChain > all OnChain; OnChain ordered
// by timestamp.
func (w WitnessOrd) Less(other WitnessOrd) bool {
	switch {
	case w.onChain && other.onChain:
		return w.pos.Less(other.pos)
	case w.onChain && !other.onChain:
		return true
	default:
		return false
	}
}

func (w WitnessOrd) String() string {
	if !w.onChain {
		return "offchain"
	}
	return w.pos.String()
}

// WitnessId identifies a witness transaction on a specific layer-1. Two
// WitnessIds never share a txid within one validation context even when
// their layers differ (spec §3).
type WitnessId struct {
	layer Layer1
	txid  Txid
}

func NewWitnessId(layer Layer1, txid Txid) WitnessId { return WitnessId{layer: layer, txid: txid} }

func (w WitnessId) Layer1() Layer1 { return w.layer }
func (w WitnessId) Txid() Txid     { return w.txid }

func (w WitnessId) String() string {
	return fmt.Sprintf("%s:%s", w.layer, w.txid)
}

// Less orders WitnessId as the original implementation does: Bitcoin
// sorts after Liquid when layers differ, otherwise compare txids.
func (w WitnessId) Less(other WitnessId) bool {
	if w.layer != other.layer {
		return w.layer == Liquid // Liquid < Bitcoin
	}
	return lessBytes(w.txid[:], other.txid[:])
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// MarshalJSON/UnmarshalJSON round-trip a WitnessId through its "layer:hex"
// string form, since its fields are unexported (the archive persists
// anchors keyed by, and containing, a WitnessId).
func (w WitnessId) MarshalJSON() ([]byte, error) { return json.Marshal(w.String()) }

func (w *WitnessId) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseWitnessId(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ParseWitnessId parses "bitcoin:<hex>" or "liquid:<hex>".
func ParseWitnessId(s string) (WitnessId, error) {
	prefix, rest, ok := splitPrefix(s)
	if !ok {
		return WitnessId{}, fmt.Errorf("xchain: missing prefix in %q", s)
	}
	var layer Layer1
	switch prefix {
	case "bitcoin":
		layer = Bitcoin
	case "liquid":
		layer = Liquid
	default:
		return WitnessId{}, &UnknownPrefixError{Prefix: prefix}
	}
	raw, err := hex.DecodeString(rest)
	if err != nil || len(raw) != 32 {
		return WitnessId{}, fmt.Errorf("xchain: invalid txid hex %q", rest)
	}
	var txid Txid
	copy(txid[:], raw)
	return WitnessId{layer: layer, txid: txid}, nil
}

// UnknownPrefixError is returned by FromStr-style parsers when a
// "layer:" prefix names neither "bitcoin" nor "liquid" (spec §8).
type UnknownPrefixError struct{ Prefix string }

func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("unknown seal prefix %q; only 'bitcoin:' and 'liquid:' are currently supported", e.Prefix)
}

func splitPrefix(s string) (prefix, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:], true
		}
	}
	return "", s, false
}
