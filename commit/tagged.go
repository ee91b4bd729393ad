// Package commit implements the tagged-hash commitment scheme (spec §4.2):
// every consensus identity is commit_id(x) = SHA256(SHA256(tag) ||
// SHA256(tag) || strict_encode(x)), the LNPBP-style tagged hash.
package commit

import "crypto/sha256"

// Tag is a fixed per-type 32-byte ASCII commitment tag, e.g.
// "urn:lnpbp:rgb:genesis:v01#202302".
type Tag [32]byte

// NewTag pads or truncates s into a fixed-size ASCII tag. Callers should
// only ever pass compile-time string literals of the documented form.
func NewTag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

// TaggedHash computes the LNPBP tagged-hash digest of msg under tag.
func TaggedHash(tag Tag, msg []byte) [32]byte {
	tagHash := sha256.Sum256(tag[:])
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	h.Write(msg)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Strategy selects how a commit-id is derived from a value: directly on
// its strict encoding, or on the strict encoding of its concealed form.
type Strategy int

const (
	// StrategyStrict commits directly on strict_encode(x).
	StrategyStrict Strategy = iota
	// StrategyConcealStrict commits on strict_encode(x.conceal()).
	StrategyConcealStrict
)

// Concealable is satisfied by any revealed datum with a deterministic,
// lossy concealed form (spec §4.2, §4.4). The concealed form must itself
// be strict-encodable so ConcealStrict commitments can hash it.
type Concealable interface {
	// ConcealBytes returns the strict encoding of this value's concealed
	// form (idempotent: concealing an already-concealed value is a no-op).
	ConcealBytes() []byte
}

// CommitStrict computes a tagged commitment directly over encoded, the
// strict encoding of a value that uses StrategyStrict.
func CommitStrict(tag Tag, encoded []byte) [32]byte {
	return TaggedHash(tag, encoded)
}

// CommitConcealStrict computes a tagged commitment over the strict
// encoding of v's concealed form, for values using StrategyConcealStrict.
func CommitConcealStrict(tag Tag, v Concealable) [32]byte {
	return TaggedHash(tag, v.ConcealBytes())
}
