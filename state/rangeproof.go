package state

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"rgbcore.dev/core/strictenc"
)

// This file implements a bit-decomposition range proof over Pedersen
// commitments (the pre-Bulletproofs Back/Maxwell Confidential Transactions
// construction): the committed value is split into RangeProofBits bits,
// each bit gets its own commitment and a Schnorr "1-of-2" disjunctive proof
// that it opens to 0 or 1, and the verifier checks the weighted sum of bit
// commitments reconstructs the original commitment. Proof size is linear in
// the bit count rather than logarithmic, unlike real Bulletproofs, but the
// soundness and zero-knowledge properties are the same textbook
// construction spec §4.4 calls "InvalidBulletproofs" against.

type bitProof struct {
	// Per-branch (b=0, b=1) Schnorr commitments, challenges and responses.
	a0, a1 point
	c0, c1 *big.Int
	s0, s1 *big.Int
}

type point struct{ X, Y *big.Int }

func proveRange(value uint64, blinding *big.Int, commitX, commitY *big.Int) []byte {
	n := curve.Params().N
	bitBlindings := make([]*big.Int, RangeProofBits)
	bitCommits := make([]point, RangeProofBits)
	remaining := new(big.Int).Set(blinding)

	for i := 0; i < RangeProofBits; i++ {
		var r *big.Int
		if i == RangeProofBits-1 {
			weight := new(big.Int).Lsh(big.NewInt(1), uint(i))
			r = new(big.Int).Mul(remaining, new(big.Int).ModInverse(weight, n))
			r.Mod(r, n)
		} else {
			r = randScalar(fmt.Sprintf("bit-blind:%d", i), blinding, value, i)
			weight := new(big.Int).Lsh(big.NewInt(1), uint(i))
			weighted := new(big.Int).Mul(r, weight)
			remaining.Sub(remaining, weighted)
			remaining.Mod(remaining, n)
		}
		bitBlindings[i] = r
		bit := (value >> uint(i)) & 1
		x, y := pedersenCommit(bit, r)
		bitCommits[i] = point{x, y}
	}

	proofs := make([]bitProof, RangeProofBits)
	for i := 0; i < RangeProofBits; i++ {
		bit := (value >> uint(i)) & 1
		proofs[i] = proveBit(bitCommits[i], bit, bitBlindings[i], i)
	}

	return encodeRangeProof(bitCommits, proofs)
}

func verifyRange(commitX, commitY *big.Int, raw []byte) error {
	bitCommits, proofs, err := decodeRangeProof(raw)
	if err != nil {
		return err
	}
	if len(bitCommits) != RangeProofBits {
		return fmt.Errorf("state: range proof bit count mismatch")
	}

	// 1. Each bit commitment opens to 0 or 1.
	for i, bp := range bitCommits {
		if err := verifyBit(bp, proofs[i], i); err != nil {
			return fmt.Errorf("state: range proof bit %d: %w", i, err)
		}
	}

	// 2. The weighted sum of bit commitments reconstructs the commitment.
	sumX, sumY := weightedSum(bitCommits)
	if sumX.Cmp(commitX) != 0 || sumY.Cmp(commitY) != 0 {
		return fmt.Errorf("state: range proof does not reconstruct commitment")
	}
	return nil
}

func weightedSum(bitCommits []point) (x, y *big.Int) {
	var accX, accY *big.Int
	for i, bp := range bitCommits {
		weight := new(big.Int).Lsh(big.NewInt(1), uint(i))
		wx, wy := curve.ScalarMult(bp.X, bp.Y, weight.Bytes())
		if accX == nil {
			accX, accY = wx, wy
			continue
		}
		accX, accY = curve.Add(accX, accY, wx, wy)
	}
	if accX == nil {
		return big.NewInt(0), big.NewInt(0)
	}
	return accX, accY
}

// proveBit produces a CDS94 1-of-2 Schnorr proof (base H) that commit
// opens to bit*G + blinding*H for bit in {0,1}, without revealing bit.
func proveBit(commit point, bit uint64, blinding *big.Int, idx int) bitProof {
	n := curve.Params().N

	y0x, y0y := commit.X, commit.Y                  // commit = r*H iff bit == 0
	y1x, y1y := pointSub(commit.X, commit.Y, gx, gy) // commit - G = r*H iff bit == 1

	fakeC := randScalar("fake-c", blinding, bit, idx)
	fakeS := randScalar("fake-s", blinding, bit, idx+1000)
	realK := randScalar("real-k", blinding, bit, idx+2000)

	var a0x, a0y, a1x, a1y *big.Int
	var c0, c1, s0, s1 *big.Int

	if bit == 0 {
		// real branch 0, fake branch 1
		a0x, a0y = curve.ScalarMult(hx, hy, realK.Bytes())
		fc := new(big.Int).Mod(fakeC, n)
		sH_x, sH_y := curve.ScalarMult(hx, hy, fakeS.Bytes())
		cY_x, cY_y := curve.ScalarMult(y1x, y1y, fc.Bytes())
		ncYx, ncYy := pointNeg(cY_x, cY_y)
		a1x, a1y = curve.Add(sH_x, sH_y, ncYx, ncYy)

		c1 = fc
		c := challenge(commit, point{a0x, a0y}, point{a1x, a1y})
		c0 = new(big.Int).Sub(c, c1)
		c0.Mod(c0, n)
		s0 = new(big.Int).Mul(c0, blinding)
		s0.Add(s0, realK)
		s0.Mod(s0, n)
		s1 = fakeS
	} else {
		a1x, a1y = curve.ScalarMult(hx, hy, realK.Bytes())
		fc := new(big.Int).Mod(fakeC, n)
		sH_x, sH_y := curve.ScalarMult(hx, hy, fakeS.Bytes())
		cY_x, cY_y := curve.ScalarMult(y0x, y0y, fc.Bytes())
		ncYx, ncYy := pointNeg(cY_x, cY_y)
		a0x, a0y = curve.Add(sH_x, sH_y, ncYx, ncYy)

		c0 = fc
		c := challenge(commit, point{a0x, a0y}, point{a1x, a1y})
		c1 = new(big.Int).Sub(c, c0)
		c1.Mod(c1, n)
		s1 = new(big.Int).Mul(c1, blinding)
		s1.Add(s1, realK)
		s1.Mod(s1, n)
		s0 = fakeS
	}

	return bitProof{
		a0: point{a0x, a0y}, a1: point{a1x, a1y},
		c0: c0, c1: c1, s0: s0, s1: s1,
	}
}

func verifyBit(commit point, bp bitProof, idx int) error {
	n := curve.Params().N
	c := challenge(commit, bp.a0, bp.a1)
	sum := new(big.Int).Add(bp.c0, bp.c1)
	sum.Mod(sum, n)
	if sum.Cmp(new(big.Int).Mod(c, n)) != 0 {
		return fmt.Errorf("challenge split mismatch")
	}

	y0x, y0y := commit.X, commit.Y
	y1x, y1y := pointSub(commit.X, commit.Y, gx, gy)

	lhs0x, lhs0y := curve.ScalarMult(hx, hy, bp.s0.Bytes())
	rhs0x, rhs0y := curve.ScalarMult(y0x, y0y, bp.c0.Bytes())
	rhs0x, rhs0y = curve.Add(bp.a0.X, bp.a0.Y, rhs0x, rhs0y)
	if lhs0x.Cmp(rhs0x) != 0 || lhs0y.Cmp(rhs0y) != 0 {
		return fmt.Errorf("branch 0 verification failed")
	}

	lhs1x, lhs1y := curve.ScalarMult(hx, hy, bp.s1.Bytes())
	rhs1x, rhs1y := curve.ScalarMult(y1x, y1y, bp.c1.Bytes())
	rhs1x, rhs1y = curve.Add(bp.a1.X, bp.a1.Y, rhs1x, rhs1y)
	if lhs1x.Cmp(rhs1x) != 0 || lhs1y.Cmp(rhs1y) != 0 {
		return fmt.Errorf("branch 1 verification failed")
	}
	return nil
}

var (
	gx = curve.Params().Gx
	gy = curve.Params().Gy
	hx = pedersenHx
	hy = pedersenHy
)

func pointSub(x1, y1, x2, y2 *big.Int) (x, y *big.Int) {
	nx2, ny2 := pointNeg(x2, y2)
	return curve.Add(x1, y1, nx2, ny2)
}

func challenge(pts ...point) *big.Int {
	h := sha256.New()
	for _, p := range pts {
		h.Write(p.X.Bytes())
		h.Write(p.Y.Bytes())
	}
	sum := h.Sum(nil)
	c := new(big.Int).SetBytes(sum)
	return c.Mod(c, curve.Params().N)
}

// randScalar derives a deterministic-but-unpredictable-to-verifiers nonce
// from the proof's own secret material via a domain-separated hash. Using
// a derived nonce (RFC6979-style) instead of crypto/rand keeps proof
// generation reproducible in tests without weakening soundness, since the
// verifier never sees the blinding factor these nonces are derived from.
func randScalar(label string, blinding *big.Int, bit uint64, idx int) *big.Int {
	h := sha256.New()
	h.Write([]byte(label))
	h.Write(blinding.Bytes())
	var tmp [9]byte
	tmp[0] = byte(bit)
	for i := 0; i < 8; i++ {
		tmp[1+i] = byte(idx >> (8 * i))
	}
	h.Write(tmp[:])
	sum := h.Sum(nil)
	s := new(big.Int).SetBytes(sum)
	return s.Mod(s, curve.Params().N)
}

func encodeRangeProof(bitCommits []point, proofs []bitProof) []byte {
	w := strictenc.NewWriter(RangeProofBits * bitProofWire)
	for i, bp := range bitCommits {
		writePoint(w, bp)
		p := proofs[i]
		writePoint(w, p.a0)
		writePoint(w, p.a1)
		writeScalar(w, p.c0)
		writeScalar(w, p.s0)
		writeScalar(w, p.c1)
		writeScalar(w, p.s1)
	}
	return w.Bytes()
}

func writePoint(w *strictenc.Writer, p point) {
	cb := compressPoint(p.X, p.Y)
	w.PutBytes(cb[:])
}

func writeScalar(w *strictenc.Writer, s *big.Int) {
	var b [32]byte
	s.FillBytes(b[:])
	w.PutBytes(b[:])
}

// bitProofWire is the wire size of one bit's commitment plus its OR-proof:
// commitment + a0 + a1 (33 bytes each, SEC1 compressed) + c0,s0,c1,s1 (32
// bytes each, curve-order scalars).
const bitProofWire = 33 + 33 + 33 + 32 + 32 + 32 + 32

func decodeRangeProof(raw []byte) ([]point, []bitProof, error) {
	if len(raw) != RangeProofBits*bitProofWire {
		return nil, nil, fmt.Errorf("state: malformed range proof length")
	}
	bitCommits := make([]point, RangeProofBits)
	proofs := make([]bitProof, RangeProofBits)
	r := strictenc.NewReader(raw)
	for i := 0; i < RangeProofBits; i++ {
		cb, err := readCompressed(r)
		if err != nil {
			return nil, nil, err
		}
		x, y, err := decompressPoint(cb)
		if err != nil {
			return nil, nil, err
		}
		bitCommits[i] = point{x, y}

		a0, err := readPoint(r)
		if err != nil {
			return nil, nil, err
		}
		a1, err := readPoint(r)
		if err != nil {
			return nil, nil, err
		}
		c0, err := readScalar(r)
		if err != nil {
			return nil, nil, err
		}
		s0, err := readScalar(r)
		if err != nil {
			return nil, nil, err
		}
		c1, err := readScalar(r)
		if err != nil {
			return nil, nil, err
		}
		s1, err := readScalar(r)
		if err != nil {
			return nil, nil, err
		}
		proofs[i] = bitProof{a0: a0, a1: a1, c0: c0, s0: s0, c1: c1, s1: s1}
	}
	if err := r.Done(); err != nil {
		return nil, nil, err
	}
	return bitCommits, proofs, nil
}

func readCompressed(r *strictenc.Reader) ([33]byte, error) {
	var out [33]byte
	b, err := r.Bytes(33)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func readPoint(r *strictenc.Reader) (point, error) {
	cb, err := readCompressed(r)
	if err != nil {
		return point{}, err
	}
	x, y, err := decompressPoint(cb)
	if err != nil {
		return point{}, err
	}
	return point{x, y}, nil
}

func readScalar(r *strictenc.Reader) (*big.Int, error) {
	b, err := r.Bytes(32)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
