package state

import (
	"crypto/sha256"

	"rgbcore.dev/core/strictenc"
)

// StructuredRevealed carries schema-typed state data plus a salt, so that
// concealing it (hashing) does not leak low-entropy values to a dictionary
// attack (spec §4.4 "Structured" strategy).
type StructuredRevealed struct {
	Data []byte
	Salt [32]byte
}

// StructuredConfidential is the concealed form: a hash over the salted data.
type StructuredConfidential struct {
	Hash [32]byte
}

func (r StructuredRevealed) StrictEncode() []byte {
	w := strictenc.NewWriter(strictenc.LenWidth(strictenc.MaxMedium) + len(r.Data) + 32)
	w.PutBounded(r.Data, strictenc.MaxMedium)
	w.PutBytes(r.Salt[:])
	return w.Bytes()
}

func (c StructuredConfidential) StrictEncode() []byte {
	w := strictenc.NewWriter(32)
	w.PutBytes(c.Hash[:])
	return w.Bytes()
}

func (r StructuredRevealed) Conceal() StructuredConfidential {
	return StructuredConfidential{Hash: sha256.Sum256(r.StrictEncode())}
}

func (r StructuredRevealed) ConcealBytes() []byte { return r.Conceal().StrictEncode() }

// DecodeStructuredRevealedFrom reads a StructuredRevealed off a shared Reader.
func DecodeStructuredRevealedFrom(r *strictenc.Reader) (StructuredRevealed, error) {
	data, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return StructuredRevealed{}, err
	}
	salt, err := r.Bytes(32)
	if err != nil {
		return StructuredRevealed{}, err
	}
	var out StructuredRevealed
	out.Data = data
	copy(out.Salt[:], salt)
	return out, nil
}

// DecodeStructuredConfidentialFrom reads a StructuredConfidential off a
// shared Reader.
func DecodeStructuredConfidentialFrom(r *strictenc.Reader) (StructuredConfidential, error) {
	h, err := r.Bytes(32)
	if err != nil {
		return StructuredConfidential{}, err
	}
	var out StructuredConfidential
	copy(out.Hash[:], h)
	return out, nil
}
