package state

import (
	"crypto/sha256"

	"rgbcore.dev/core/strictenc"
)

// AttachmentRevealed references externally-stored binary content (e.g. a
// media file) by its hash, so the content itself never has to live inside a
// consignment (spec §4.4 "Attachment" strategy).
type AttachmentRevealed struct {
	ContentHash [32]byte
	MIME        string
}

// AttachmentConfidential is the concealed form: a commitment over the
// content hash and MIME type, hiding which attachment is referenced.
type AttachmentConfidential struct {
	Commitment [32]byte
}

const maxMIMELen = 0xff

func (r AttachmentRevealed) StrictEncode() []byte {
	w := strictenc.NewWriter(32 + 1 + len(r.MIME))
	w.PutBytes(r.ContentHash[:])
	w.PutBounded([]byte(r.MIME), maxMIMELen)
	return w.Bytes()
}

func (c AttachmentConfidential) StrictEncode() []byte {
	w := strictenc.NewWriter(32)
	w.PutBytes(c.Commitment[:])
	return w.Bytes()
}

func (r AttachmentRevealed) Conceal() AttachmentConfidential {
	return AttachmentConfidential{Commitment: sha256.Sum256(r.StrictEncode())}
}

func (r AttachmentRevealed) ConcealBytes() []byte { return r.Conceal().StrictEncode() }

// DecodeAttachmentRevealedFrom reads an AttachmentRevealed off a shared Reader.
func DecodeAttachmentRevealedFrom(r *strictenc.Reader) (AttachmentRevealed, error) {
	hash, err := r.Bytes(32)
	if err != nil {
		return AttachmentRevealed{}, err
	}
	mime, err := r.Bounded(maxMIMELen)
	if err != nil {
		return AttachmentRevealed{}, err
	}
	var out AttachmentRevealed
	copy(out.ContentHash[:], hash)
	out.MIME = string(mime)
	return out, nil
}

// DecodeAttachmentConfidentialFrom reads an AttachmentConfidential off a
// shared Reader.
func DecodeAttachmentConfidentialFrom(r *strictenc.Reader) (AttachmentConfidential, error) {
	c, err := r.Bytes(32)
	if err != nil {
		return AttachmentConfidential{}, err
	}
	var out AttachmentConfidential
	copy(out.Commitment[:], c)
	return out, nil
}
