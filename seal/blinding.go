package seal

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveBlinding derives a reproducible 64-bit blinding nonce from a
// per-contract shared secret and a domain-separating label, so sender and
// receiver of a transfer can independently regenerate the same seal
// blinding without exchanging it again (spec §3 Ownership: "seal blinding
// data is a shared secret between sender and receiver"). This is wallet
// tooling built atop the consensus core, not a consensus rule itself: any
// uint64 blinding value is equally valid to the validator.
func DeriveBlinding(secret []byte, label string, index uint32) (uint64, error) {
	info := make([]byte, len(label)+4)
	copy(info, label)
	binary.LittleEndian.PutUint32(info[len(label):], index)

	kdf := hkdf.New(sha256.New, secret, nil, info)
	var out [8]byte
	if _, err := io.ReadFull(kdf, out[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(out[:]), nil
}
