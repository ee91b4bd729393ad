package state

import (
	"rgbcore.dev/core/commit"
	"rgbcore.dev/core/seal"
	"rgbcore.dev/core/strictenc"
)

var assignmentTag = commit.NewTag("urn:lnpbp:rgb:assignment:v01#202302")

// DeclarativeAssignment, ArithmeticAssignment, StructuredAssignment and
// AttachmentAssignment are the four concrete instantiations of the
// revealed/concealed-seal x revealed/concealed-state cross-product (spec
// §4.4). Each carries its own Kind discriminant plus exactly the fields Kind
// says are populated; callers that read the "wrong" field for Kind get the
// zero value, matching how a concealed field is represented on the wire.

type DeclarativeAssignment struct {
	Kind         Kind
	RevealedSeal seal.Revealed
	SecretSeal   seal.SecretSeal
}

type ArithmeticAssignment struct {
	Kind          Kind
	RevealedSeal  seal.Revealed
	SecretSeal    seal.SecretSeal
	RevealedState PedersenRevealed
	ConfState     PedersenConfidential
}

type StructuredAssignment struct {
	Kind          Kind
	RevealedSeal  seal.Revealed
	SecretSeal    seal.SecretSeal
	RevealedState StructuredRevealed
	ConfState     StructuredConfidential
}

type AttachmentAssignment struct {
	Kind          Kind
	RevealedSeal  seal.Revealed
	SecretSeal    seal.SecretSeal
	RevealedState AttachmentRevealed
	ConfState     AttachmentConfidential
}

// sealBytes returns the strict encoding to commit over for the seal half:
// the revealed seal's bytes if Kind.SealRevealed(), else the secret seal
// itself (already a commitment, so it passes through unchanged).
func sealBytes(k Kind, revealed seal.Revealed, secret seal.SecretSeal) []byte {
	if k.SealRevealed() {
		return revealed.StrictEncode()
	}
	return secret[:]
}

func sealConceal(revealed seal.Revealed, have bool, secret seal.SecretSeal) seal.SecretSeal {
	if have {
		return secret
	}
	return seal.Conceal(revealed)
}

// ConcealSeals returns a copy with the seal concealed regardless of current
// Kind (spec §4.4 conceal_seals), bumping Kind accordingly. It is idempotent.
func (a DeclarativeAssignment) ConcealSeals() DeclarativeAssignment {
	if !a.Kind.SealRevealed() {
		return a
	}
	a.SecretSeal = seal.Conceal(a.RevealedSeal)
	a.RevealedSeal = seal.Revealed{}
	a.Kind = concealSealKind(a.Kind)
	return a
}

func (a DeclarativeAssignment) ConcealState() DeclarativeAssignment {
	// declarative state carries no data to conceal; only its Kind advances.
	a.Kind = concealStateKind(a.Kind)
	return a
}

// ConcealBytes always yields the fully-concealed (Kind==KindConfidential)
// commitment bytes, satisfying commit.Concealable regardless of current Kind
// — spec §8's invariant that commit_id is stable across every conceal step.
func (a DeclarativeAssignment) ConcealBytes() []byte {
	secret := sealConceal(a.RevealedSeal, !a.Kind.SealRevealed(), a.SecretSeal)
	return commit.TaggedHash(assignmentTag, secret[:])[:]
}

func (a ArithmeticAssignment) ConcealSeals() ArithmeticAssignment {
	if !a.Kind.SealRevealed() {
		return a
	}
	a.SecretSeal = seal.Conceal(a.RevealedSeal)
	a.RevealedSeal = seal.Revealed{}
	a.Kind = concealSealKind(a.Kind)
	return a
}

func (a ArithmeticAssignment) ConcealState() ArithmeticAssignment {
	if a.Kind.StateRevealed() {
		a.ConfState = a.RevealedState.Conceal()
		a.RevealedState = PedersenRevealed{}
	}
	a.Kind = concealStateKind(a.Kind)
	return a
}

func (a ArithmeticAssignment) ConcealBytes() []byte {
	secret := sealConceal(a.RevealedSeal, !a.Kind.SealRevealed(), a.SecretSeal)
	conf := a.ConfState
	if a.Kind.StateRevealed() {
		conf = a.RevealedState.Conceal()
	}
	w := append(append([]byte(nil), secret[:]...), conf.StrictEncode()...)
	return commit.TaggedHash(assignmentTag, w)[:]
}

func (a StructuredAssignment) ConcealSeals() StructuredAssignment {
	if !a.Kind.SealRevealed() {
		return a
	}
	a.SecretSeal = seal.Conceal(a.RevealedSeal)
	a.RevealedSeal = seal.Revealed{}
	a.Kind = concealSealKind(a.Kind)
	return a
}

func (a StructuredAssignment) ConcealState() StructuredAssignment {
	if a.Kind.StateRevealed() {
		a.ConfState = a.RevealedState.Conceal()
		a.RevealedState = StructuredRevealed{}
	}
	a.Kind = concealStateKind(a.Kind)
	return a
}

func (a StructuredAssignment) ConcealBytes() []byte {
	secret := sealConceal(a.RevealedSeal, !a.Kind.SealRevealed(), a.SecretSeal)
	conf := a.ConfState
	if a.Kind.StateRevealed() {
		conf = a.RevealedState.Conceal()
	}
	w := append(append([]byte(nil), secret[:]...), conf.StrictEncode()...)
	return commit.TaggedHash(assignmentTag, w)[:]
}

func (a AttachmentAssignment) ConcealSeals() AttachmentAssignment {
	if !a.Kind.SealRevealed() {
		return a
	}
	a.SecretSeal = seal.Conceal(a.RevealedSeal)
	a.RevealedSeal = seal.Revealed{}
	a.Kind = concealSealKind(a.Kind)
	return a
}

func (a AttachmentAssignment) ConcealState() AttachmentAssignment {
	if a.Kind.StateRevealed() {
		a.ConfState = a.RevealedState.Conceal()
		a.RevealedState = AttachmentRevealed{}
	}
	a.Kind = concealStateKind(a.Kind)
	return a
}

func (a AttachmentAssignment) ConcealBytes() []byte {
	secret := sealConceal(a.RevealedSeal, !a.Kind.SealRevealed(), a.SecretSeal)
	conf := a.ConfState
	if a.Kind.StateRevealed() {
		conf = a.RevealedState.Conceal()
	}
	w := append(append([]byte(nil), secret[:]...), conf.StrictEncode()...)
	return commit.TaggedHash(assignmentTag, w)[:]
}

// encodeSealHalf writes an assignment's seal half per Kind: the revealed
// seal's own encoding when the seal is revealed, else the raw secret seal
// (already a commitment, so it needs no further framing).
func encodeSealHalf(w *strictenc.Writer, k Kind, revealed seal.Revealed, secret seal.SecretSeal) {
	if k.SealRevealed() {
		w.PutBytes(revealed.StrictEncode())
		return
	}
	w.PutBytes(secret[:])
}

// decodeSealHalf is encodeSealHalf's inverse: it reads the branch Kind says
// is present, leaving the other field at its zero value.
func decodeSealHalf(r *strictenc.Reader, k Kind) (seal.Revealed, seal.SecretSeal, error) {
	if k.SealRevealed() {
		revealed, err := seal.DecodeRevealedFrom(r)
		return revealed, seal.SecretSeal{}, err
	}
	b, err := r.Bytes(32)
	if err != nil {
		return seal.Revealed{}, seal.SecretSeal{}, err
	}
	var secret seal.SecretSeal
	copy(secret[:], b)
	return seal.Revealed{}, secret, nil
}

// StrictEncode serializes the full assignment — Kind plus exactly the
// fields Kind says are populated — so it can be decoded back without loss
// (spec §4.1, §4.4). This is distinct from ConcealBytes, which always
// commits to the fully-concealed form regardless of Kind.
func (a DeclarativeAssignment) StrictEncode() []byte {
	w := strictenc.NewWriter(1 + 46)
	w.PutU8(uint8(a.Kind))
	encodeSealHalf(w, a.Kind, a.RevealedSeal, a.SecretSeal)
	return w.Bytes()
}

// DecodeDeclarativeAssignmentFrom reads a DeclarativeAssignment off a
// shared Reader.
func DecodeDeclarativeAssignmentFrom(r *strictenc.Reader) (DeclarativeAssignment, error) {
	kb, err := r.U8()
	if err != nil {
		return DeclarativeAssignment{}, err
	}
	k := Kind(kb)
	revealed, secret, err := decodeSealHalf(r, k)
	if err != nil {
		return DeclarativeAssignment{}, err
	}
	return DeclarativeAssignment{Kind: k, RevealedSeal: revealed, SecretSeal: secret}, nil
}

// DecodeDeclarativeAssignment parses a standalone strict-encoded
// DeclarativeAssignment.
func DecodeDeclarativeAssignment(b []byte) (DeclarativeAssignment, error) {
	r := strictenc.NewReader(b)
	a, err := DecodeDeclarativeAssignmentFrom(r)
	if err != nil {
		return DeclarativeAssignment{}, err
	}
	if err := r.Done(); err != nil {
		return DeclarativeAssignment{}, err
	}
	return a, nil
}

func (a ArithmeticAssignment) StrictEncode() []byte {
	w := strictenc.NewWriter(1 + 46 + 73)
	w.PutU8(uint8(a.Kind))
	encodeSealHalf(w, a.Kind, a.RevealedSeal, a.SecretSeal)
	if a.Kind.StateRevealed() {
		w.PutBytes(a.RevealedState.StrictEncode())
	} else {
		w.PutBytes(a.ConfState.StrictEncode())
	}
	return w.Bytes()
}

func DecodeArithmeticAssignmentFrom(r *strictenc.Reader) (ArithmeticAssignment, error) {
	kb, err := r.U8()
	if err != nil {
		return ArithmeticAssignment{}, err
	}
	k := Kind(kb)
	revealed, secret, err := decodeSealHalf(r, k)
	if err != nil {
		return ArithmeticAssignment{}, err
	}
	out := ArithmeticAssignment{Kind: k, RevealedSeal: revealed, SecretSeal: secret}
	if k.StateRevealed() {
		out.RevealedState, err = DecodePedersenRevealedFrom(r)
	} else {
		out.ConfState, err = DecodePedersenConfidentialFrom(r)
	}
	if err != nil {
		return ArithmeticAssignment{}, err
	}
	return out, nil
}

func DecodeArithmeticAssignment(b []byte) (ArithmeticAssignment, error) {
	r := strictenc.NewReader(b)
	a, err := DecodeArithmeticAssignmentFrom(r)
	if err != nil {
		return ArithmeticAssignment{}, err
	}
	if err := r.Done(); err != nil {
		return ArithmeticAssignment{}, err
	}
	return a, nil
}

func (a StructuredAssignment) StrictEncode() []byte {
	w := strictenc.NewWriter(1 + 46 + 64)
	w.PutU8(uint8(a.Kind))
	encodeSealHalf(w, a.Kind, a.RevealedSeal, a.SecretSeal)
	if a.Kind.StateRevealed() {
		w.PutBytes(a.RevealedState.StrictEncode())
	} else {
		w.PutBytes(a.ConfState.StrictEncode())
	}
	return w.Bytes()
}

func DecodeStructuredAssignmentFrom(r *strictenc.Reader) (StructuredAssignment, error) {
	kb, err := r.U8()
	if err != nil {
		return StructuredAssignment{}, err
	}
	k := Kind(kb)
	revealed, secret, err := decodeSealHalf(r, k)
	if err != nil {
		return StructuredAssignment{}, err
	}
	out := StructuredAssignment{Kind: k, RevealedSeal: revealed, SecretSeal: secret}
	if k.StateRevealed() {
		out.RevealedState, err = DecodeStructuredRevealedFrom(r)
	} else {
		out.ConfState, err = DecodeStructuredConfidentialFrom(r)
	}
	if err != nil {
		return StructuredAssignment{}, err
	}
	return out, nil
}

func DecodeStructuredAssignment(b []byte) (StructuredAssignment, error) {
	r := strictenc.NewReader(b)
	a, err := DecodeStructuredAssignmentFrom(r)
	if err != nil {
		return StructuredAssignment{}, err
	}
	if err := r.Done(); err != nil {
		return StructuredAssignment{}, err
	}
	return a, nil
}

func (a AttachmentAssignment) StrictEncode() []byte {
	w := strictenc.NewWriter(1 + 46 + 64)
	w.PutU8(uint8(a.Kind))
	encodeSealHalf(w, a.Kind, a.RevealedSeal, a.SecretSeal)
	if a.Kind.StateRevealed() {
		w.PutBytes(a.RevealedState.StrictEncode())
	} else {
		w.PutBytes(a.ConfState.StrictEncode())
	}
	return w.Bytes()
}

func DecodeAttachmentAssignmentFrom(r *strictenc.Reader) (AttachmentAssignment, error) {
	kb, err := r.U8()
	if err != nil {
		return AttachmentAssignment{}, err
	}
	k := Kind(kb)
	revealed, secret, err := decodeSealHalf(r, k)
	if err != nil {
		return AttachmentAssignment{}, err
	}
	out := AttachmentAssignment{Kind: k, RevealedSeal: revealed, SecretSeal: secret}
	if k.StateRevealed() {
		out.RevealedState, err = DecodeAttachmentRevealedFrom(r)
	} else {
		out.ConfState, err = DecodeAttachmentConfidentialFrom(r)
	}
	if err != nil {
		return AttachmentAssignment{}, err
	}
	return out, nil
}

func DecodeAttachmentAssignment(b []byte) (AttachmentAssignment, error) {
	r := strictenc.NewReader(b)
	a, err := DecodeAttachmentAssignmentFrom(r)
	if err != nil {
		return AttachmentAssignment{}, err
	}
	if err := r.Done(); err != nil {
		return AttachmentAssignment{}, err
	}
	return a, nil
}
