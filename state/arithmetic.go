package state

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"rgbcore.dev/core/strictenc"
)

// curve is the secp256k1 group the Pedersen commitments in this package
// are built over.
var curve = btcec.S256()

// pedersenH is the second generator used by Pedersen commitments, derived
// as a scalar multiple of the curve's base point from a fixed label.
//
// This is development-grade, not an audited nothing-up-my-sleeve
// construction: a real deployment must derive H so that its discrete log
// relative to G is unknown to any party (e.g. hash-to-curve), otherwise
// commitments are not binding. It makes no claim of production security.
var pedersenHx, pedersenHy = deriveH()

func deriveH() (x, y *big.Int) {
	h := sha256.Sum256([]byte("rgb:pedersen:H-generator:v01"))
	k := new(big.Int).SetBytes(h[:])
	k.Mod(k, curve.Params().N)
	return curve.ScalarBaseMult(k.Bytes())
}

// RangeProofBits is the bit-width proven by VerifyRangeProof: values must
// lie in [0, 2^RangeProofBits).
const RangeProofBits = 64

// PedersenRevealed is the fully-disclosed form of an Arithmetic
// (homomorphic) owned-state assignment: a value blinded with a scalar so
// that sums can be verified without revealing individual amounts.
type PedersenRevealed struct {
	Value    uint64
	Blinding [32]byte // big-endian scalar, reduced mod curve order
}

// PedersenConfidential is the concealed form: a Pedersen commitment to the
// value plus a range proof that it lies in [0, 2^64).
type PedersenConfidential struct {
	Commitment [33]byte // SEC1 compressed point
	RangeProof []byte
}

func (r PedersenRevealed) StrictEncode() []byte {
	w := strictenc.NewWriter(8 + 32)
	w.PutU64(r.Value)
	w.PutBytes(r.Blinding[:])
	return w.Bytes()
}

func (c PedersenConfidential) StrictEncode() []byte {
	w := strictenc.NewWriter(33 + strictenc.LenWidth(strictenc.MaxMedium) + len(c.RangeProof))
	w.PutBytes(c.Commitment[:])
	w.PutBounded(c.RangeProof, strictenc.MaxMedium)
	return w.Bytes()
}

// ConcealBytes makes PedersenRevealed satisfy commit.Concealable: the
// commitment invariant (spec §8) requires commit(x) == commit(x.conceal())
// for every state kind, so the revealed form's concealment hash must be
// derived from the same fields Conceal() would commit to.
func (r PedersenRevealed) ConcealBytes() []byte { return r.Conceal().StrictEncode() }

// DecodePedersenRevealedFrom reads a PedersenRevealed off a shared Reader.
func DecodePedersenRevealedFrom(r *strictenc.Reader) (PedersenRevealed, error) {
	value, err := r.U64()
	if err != nil {
		return PedersenRevealed{}, err
	}
	blinding, err := r.Bytes(32)
	if err != nil {
		return PedersenRevealed{}, err
	}
	var out PedersenRevealed
	out.Value = value
	copy(out.Blinding[:], blinding)
	return out, nil
}

// DecodePedersenConfidentialFrom reads a PedersenConfidential off a shared
// Reader.
func DecodePedersenConfidentialFrom(r *strictenc.Reader) (PedersenConfidential, error) {
	commitment, err := r.Bytes(33)
	if err != nil {
		return PedersenConfidential{}, err
	}
	proof, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return PedersenConfidential{}, err
	}
	var out PedersenConfidential
	copy(out.Commitment[:], commitment)
	out.RangeProof = proof
	return out, nil
}

func scalarFromBlinding(b [32]byte) *big.Int {
	s := new(big.Int).SetBytes(b[:])
	return s.Mod(s, curve.Params().N)
}

func compressPoint(x, y *big.Int) [33]byte {
	var out [33]byte
	if y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := x.Bytes()
	copy(out[33-len(xb):], xb)
	return out
}

func decompressPoint(b [33]byte) (x, y *big.Int, err error) {
	if b[0] != 0x02 && b[0] != 0x03 {
		return nil, nil, fmt.Errorf("state: invalid compressed point prefix")
	}
	p := curve.Params().P
	x = new(big.Int).SetBytes(b[1:])
	ySq := new(big.Int).Exp(x, big.NewInt(3), p)
	ySq.Add(ySq, curve.Params().B)
	ySq.Mod(ySq, p)
	y = new(big.Int).ModSqrt(ySq, p)
	if y == nil {
		return nil, nil, fmt.Errorf("state: point not on curve")
	}
	wantOdd := b[0] == 0x03
	if (y.Bit(0) == 1) != wantOdd {
		y.Sub(p, y)
	}
	return x, y, nil
}

func pointNeg(x, y *big.Int) (nx, ny *big.Int) {
	ny = new(big.Int).Sub(curve.Params().P, y)
	ny.Mod(ny, curve.Params().P)
	return x, ny
}

// pedersenCommit computes value*G + blinding*H.
func pedersenCommit(value uint64, blinding *big.Int) (x, y *big.Int) {
	vx, vy := curve.ScalarBaseMult(new(big.Int).SetUint64(value).Bytes())
	hx, hy := curve.ScalarMult(pedersenHx, pedersenHy, blinding.Bytes())
	return curve.Add(vx, vy, hx, hy)
}

// Conceal computes the Pedersen commitment and a fresh range proof for r.
func (r PedersenRevealed) Conceal() PedersenConfidential {
	blinding := scalarFromBlinding(r.Blinding)
	x, y := pedersenCommit(r.Value, blinding)
	proof := proveRange(r.Value, blinding, x, y)
	return PedersenConfidential{Commitment: compressPoint(x, y), RangeProof: proof}
}

// VerifyRangeProof checks that c.Commitment commits to some value within
// [0, 2^RangeProofBits) without learning the value itself (spec §4.6:
// "InvalidBulletproofs" failure on rejection).
func (c PedersenConfidential) VerifyRangeProof() error {
	cx, cy, err := decompressPoint(c.Commitment)
	if err != nil {
		return err
	}
	return verifyRange(cx, cy, c.RangeProof)
}
