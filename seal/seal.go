// Package seal implements the single-use-seal abstraction over a
// transaction output (spec §4.3): a promise that a specific output will be
// spent at most once with a specific commitment embedded.
package seal

import (
	"encoding/hex"
	"fmt"

	"rgbcore.dev/core/commit"
	"rgbcore.dev/core/strictenc"
	"rgbcore.dev/core/xchain"
)

// CloseMethod names how a seal's closing commitment is embedded in its
// witness transaction.
type CloseMethod uint8

const (
	MethodTapret CloseMethod = 0x00
	MethodOpret  CloseMethod = 0x01
)

var sealTag = commit.NewTag("urn:lnpbp:rgb:seal:v01#202302")

// Revealed is the fully-disclosed form of a single-use seal. Txid may be
// absent ("witness-tx placeholder") for seals created by the same node
// that produces the witness transaction; WitnessTx reports that case.
type Revealed struct {
	Method    CloseMethod
	WitnessTx bool // true iff Txid is a placeholder for "this node's own witness"
	Txid      xchain.Txid
	Vout      uint32
	Blinding  uint64
}

// Outpoint is a concrete, fully-resolved transaction output reference.
type Outpoint struct {
	Txid xchain.Txid
	Vout uint32
}

// StrictEncode serializes the revealed seal per spec §4.1: method (1
// byte), witness-placeholder flag (1 byte), txid (32 bytes, zero when
// placeholder), vout (4 bytes LE), blinding (8 bytes LE).
func (r Revealed) StrictEncode() []byte {
	w := strictenc.NewWriter(1 + 1 + 32 + 4 + 8)
	w.PutU8(uint8(r.Method))
	if r.WitnessTx {
		w.PutU8(1)
		w.PutBytes(make([]byte, 32))
	} else {
		w.PutU8(0)
		w.PutBytes(r.Txid[:])
	}
	w.PutU32(r.Vout)
	w.PutU64(r.Blinding)
	return w.Bytes()
}

// DecodeRevealed parses a Revealed seal from its strict encoding.
func DecodeRevealed(b []byte) (Revealed, error) {
	r := strictenc.NewReader(b)
	v, err := DecodeRevealedFrom(r)
	if err != nil {
		return Revealed{}, err
	}
	if err := r.Done(); err != nil {
		return Revealed{}, err
	}
	return v, nil
}

// DecodeRevealedFrom reads a Revealed seal off a shared Reader without
// requiring it to be the only content in the buffer — used when a seal is
// embedded inside a larger strict-encoded structure (spec §4.1, §4.4).
func DecodeRevealedFrom(r *strictenc.Reader) (Revealed, error) {
	method, err := r.U8()
	if err != nil {
		return Revealed{}, err
	}
	placeholder, err := r.U8()
	if err != nil {
		return Revealed{}, err
	}
	txidBytes, err := r.Bytes(32)
	if err != nil {
		return Revealed{}, err
	}
	vout, err := r.U32()
	if err != nil {
		return Revealed{}, err
	}
	blinding, err := r.U64()
	if err != nil {
		return Revealed{}, err
	}
	var txid xchain.Txid
	copy(txid[:], txidBytes)
	return Revealed{
		Method:    CloseMethod(method),
		WitnessTx: placeholder != 0,
		Txid:      txid,
		Vout:      vout,
		Blinding:  blinding,
	}, nil
}

// ConcealBytes satisfies commit.Concealable: sealing commits over the
// revealed seal's own strict encoding (it has no further "more revealed"
// form to conceal from).
func (r Revealed) ConcealBytes() []byte { return r.StrictEncode() }

// ConfidentialDataError reports that a revealed form was required but only
// the concealed form is available (spec §7 SealError).
type ConfidentialDataError struct{}

func (ConfidentialDataError) Error() string { return "seal: only confidential form available" }

// SecretSeal is the concealed (tagged-hash) form of a Revealed seal.
type SecretSeal [32]byte

func (s SecretSeal) String() string { return hex.EncodeToString(s[:]) }

// Conceal computes the SecretSeal committing to r (spec §4.3: "conceal").
// Concealing twice is idempotent because the second call re-derives the
// same digest from the same revealed bytes — there is no mutable state.
func Conceal(r Revealed) SecretSeal {
	return SecretSeal(commit.CommitStrict(sealTag, r.StrictEncode()))
}

// OutpointOr substitutes witnessTxid for a witness-tx placeholder,
// returning the concrete outpoint this seal refers to.
func (r Revealed) OutpointOr(witnessTxid xchain.Txid) Outpoint {
	if r.WitnessTx {
		return Outpoint{Txid: witnessTxid, Vout: r.Vout}
	}
	return Outpoint{Txid: r.Txid, Vout: r.Vout}
}

// ToOutputSeal returns the concrete outpoint when Txid is not a
// placeholder, or ok=false otherwise.
func (r Revealed) ToOutputSeal() (Outpoint, bool) {
	if r.WitnessTx {
		return Outpoint{}, false
	}
	return Outpoint{Txid: r.Txid, Vout: r.Vout}, true
}

// TryToOutputSeal succeeds iff witnessID's layer matches layer1, returning
// the concrete outpoint with the placeholder substituted (spec §4.3).
func TryToOutputSeal(r Revealed, layer1 xchain.Layer1, witnessID xchain.WitnessId) (Outpoint, error) {
	if witnessID.Layer1() != layer1 {
		return Outpoint{}, &LayerMismatchError{Seal: layer1, Witness: witnessID.Layer1()}
	}
	return r.OutpointOr(witnessID.Txid()), nil
}

// LayerMismatchError reports a seal whose layer-1 tag does not match the
// witness transaction's layer (spec §7 SealError, §8 scenario 6).
type LayerMismatchError struct {
	Seal, Witness xchain.Layer1
}

func (e *LayerMismatchError) Error() string {
	return fmt.Sprintf("seal: layer1 mismatch (seal=%s witness=%s)", e.Seal, e.Witness)
}

// XSeal wraps a seal with its layer-1 tag, so the same seal type serves
// both Bitcoin and Liquid contracts (spec §4.3, §6).
type XSeal struct {
	Layer1  xchain.Layer1
	Revealed
}

// With constructs an XSeal for the given layer.
func With(layer1 xchain.Layer1, inner Revealed) XSeal {
	return XSeal{Layer1: layer1, Revealed: inner}
}

func (x XSeal) String() string {
	return fmt.Sprintf("%s:%s", x.Layer1, sealInnerString(x.Revealed))
}

func sealInnerString(r Revealed) string {
	if r.WitnessTx {
		return fmt.Sprintf("~:%d#%d", r.Vout, r.Blinding)
	}
	return fmt.Sprintf("%s:%d#%d", r.Txid, r.Vout, r.Blinding)
}

// Conceal computes the SecretSeal of the wrapped revealed seal. The
// layer-1 tag is not part of the concealed form: a SecretSeal is
// layer-agnostic, matching the original ConcealStrict-over-the-inner-seal
// behaviour.
func (x XSeal) Conceal() SecretSeal { return Conceal(x.Revealed) }

// ToOutputSeal and TryToOutputSeal proxy to the wrapped Revealed seal.
func (x XSeal) ToOutputSeal() (Outpoint, bool) { return x.Revealed.ToOutputSeal() }

func (x XSeal) TryToOutputSeal(witnessID xchain.WitnessId) (Outpoint, error) {
	return TryToOutputSeal(x.Revealed, x.Layer1, witnessID)
}

// ParseXSeal parses "bitcoin:<inner>" or "liquid:<inner>"; a bare form with
// no prefix parses as bitcoin: (spec §6).
func ParseXSeal(s string, parseInner func(string) (Revealed, error)) (XSeal, error) {
	prefix, rest, ok := splitOnce(s, ':')
	if !ok {
		inner, err := parseInner(s)
		if err != nil {
			return XSeal{}, err
		}
		return XSeal{Layer1: xchain.Bitcoin, Revealed: inner}, nil
	}
	var layer xchain.Layer1
	switch prefix {
	case "bitcoin":
		layer = xchain.Bitcoin
	case "liquid":
		layer = xchain.Liquid
	default:
		return XSeal{}, &xchain.UnknownPrefixError{Prefix: prefix}
	}
	inner, err := parseInner(rest)
	if err != nil {
		return XSeal{}, err
	}
	return XSeal{Layer1: layer, Revealed: inner}, nil
}

func splitOnce(s string, sep byte) (before, after string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return "", s, false
}
