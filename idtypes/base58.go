package idtypes

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

func sha256sum(b []byte) [32]byte { return sha256.Sum256(b) }

var base58Big = big.NewInt(58)

// base58Encode implements the standard Bitcoin Base58 alphabet, including
// leading-zero-byte preservation as leading '1' characters.
func base58Encode(b []byte) string {
	x := new(big.Int).SetBytes(b)
	mod := new(big.Int)
	var out []byte
	zero := big.NewInt(0)
	for x.Cmp(zero) > 0 {
		x.DivMod(x, base58Big, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	for _, c := range b {
		if c != 0 {
			break
		}
		out = append(out, base58Alphabet[0])
	}
	reverse(out)
	return string(out)
}

func base58Decode(s string) ([]byte, error) {
	x := big.NewInt(0)
	for _, r := range s {
		idx := indexByte(base58Alphabet, byte(r))
		if idx < 0 {
			return nil, fmt.Errorf("idtypes: invalid base58 character %q", r)
		}
		x.Mul(x, base58Big)
		x.Add(x, big.NewInt(int64(idx)))
	}
	decoded := x.Bytes()
	leadingZeros := 0
	for _, c := range s {
		if c != rune(base58Alphabet[0]) {
			break
		}
		leadingZeros++
	}
	out := make([]byte, leadingZeros+len(decoded))
	copy(out[leadingZeros:], decoded)
	return out, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
