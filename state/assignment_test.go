package state

import (
	"reflect"
	"testing"

	"rgbcore.dev/core/seal"
)

func revealedSeal(b byte) seal.Revealed {
	return seal.Revealed{Txid: [32]byte{b}, Vout: uint32(b), Blinding: uint64(b)}
}

func TestDeclarativeAssignmentConcealSealsAndStateAreIdempotent(t *testing.T) {
	a := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(1)}

	concealed := a.ConcealSeals()
	if concealed.Kind != KindConfidentialSeal {
		t.Fatalf("expected KindConfidentialSeal, got %v", concealed.Kind)
	}
	if concealed.RevealedSeal != (seal.Revealed{}) {
		t.Fatalf("revealed seal should be cleared after conceal")
	}

	concealedAgain := concealed.ConcealSeals()
	if concealedAgain != concealed {
		t.Fatalf("ConcealSeals must be idempotent: %+v != %+v", concealedAgain, concealed)
	}

	concealedState := concealed.ConcealState()
	if concealedState.Kind != KindConfidential {
		t.Fatalf("expected full conceal KindConfidential, got %v", concealedState.Kind)
	}
}

func TestDeclarativeAssignmentConcealBytesStableAcrossConcealSteps(t *testing.T) {
	a := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(2)}
	want := a.ConcealBytes()

	if got := a.ConcealSeals().ConcealBytes(); string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after ConcealSeals: got %x want %x", got, want)
	}
	if got := a.ConcealState().ConcealBytes(); string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after ConcealState: got %x want %x", got, want)
	}
	if got := a.ConcealSeals().ConcealState().ConcealBytes(); string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after full conceal: got %x want %x", got, want)
	}
}

func TestArithmeticAssignmentConcealBytesStableAcrossConcealSteps(t *testing.T) {
	a := ArithmeticAssignment{
		Kind:          KindRevealed,
		RevealedSeal:  revealedSeal(3),
		RevealedState: PedersenRevealed{Value: 100, Blinding: [32]byte{1, 2, 3}},
	}
	want := a.ConcealBytes()

	if got := a.ConcealState().ConcealBytes(); string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after ConcealState: got %x want %x", got, want)
	}
	if got := a.ConcealSeals().ConcealBytes(); string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after ConcealSeals: got %x want %x", got, want)
	}
}

func TestArithmeticAssignmentConcealStateClearsRevealedState(t *testing.T) {
	a := ArithmeticAssignment{
		Kind:          KindRevealed,
		RevealedState: PedersenRevealed{Value: 7, Blinding: [32]byte{9}},
	}
	concealed := a.ConcealState()
	if concealed.RevealedState != (PedersenRevealed{}) {
		t.Fatalf("revealed state should be cleared after conceal")
	}
	if concealed.ConfState.Commitment == ([33]byte{}) {
		t.Fatalf("expected a non-zero commitment after conceal")
	}
}

func TestStructuredAssignmentConcealBytesStable(t *testing.T) {
	a := StructuredAssignment{
		Kind:          KindRevealed,
		RevealedSeal:  revealedSeal(4),
		RevealedState: StructuredRevealed{Data: []byte("hello"), Salt: [32]byte{1}},
	}
	want := a.ConcealBytes()
	got := a.ConcealSeals().ConcealState().ConcealBytes()
	if string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after full conceal: got %x want %x", got, want)
	}
}

func TestAttachmentAssignmentConcealBytesStable(t *testing.T) {
	a := AttachmentAssignment{
		Kind:          KindRevealed,
		RevealedSeal:  revealedSeal(5),
		RevealedState: AttachmentRevealed{ContentHash: [32]byte{2}, MIME: "image/png"},
	}
	want := a.ConcealBytes()
	got := a.ConcealSeals().ConcealState().ConcealBytes()
	if string(got) != string(want) {
		t.Fatalf("ConcealBytes changed after full conceal: got %x want %x", got, want)
	}
}

func TestDeclarativeAssignmentStrictEncodeDecodeRoundtrip(t *testing.T) {
	revealed := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(6)}
	decoded, err := DecodeDeclarativeAssignment(revealed.StrictEncode())
	if err != nil {
		t.Fatalf("decode revealed: %v", err)
	}
	if decoded != revealed {
		t.Fatalf("revealed roundtrip mismatch: got %+v want %+v", decoded, revealed)
	}

	concealed := revealed.ConcealSeals().ConcealState()
	decodedConcealed, err := DecodeDeclarativeAssignment(concealed.StrictEncode())
	if err != nil {
		t.Fatalf("decode concealed: %v", err)
	}
	if decodedConcealed != concealed {
		t.Fatalf("concealed roundtrip mismatch: got %+v want %+v", decodedConcealed, concealed)
	}
}

func TestArithmeticAssignmentStrictEncodeDecodeRoundtrip(t *testing.T) {
	a := ArithmeticAssignment{
		Kind:          KindRevealed,
		RevealedSeal:  revealedSeal(7),
		RevealedState: PedersenRevealed{Value: 42, Blinding: [32]byte{4, 5, 6}},
	}
	decoded, err := DecodeArithmeticAssignment(a.StrictEncode())
	if err != nil {
		t.Fatalf("decode revealed: %v", err)
	}
	if !reflect.DeepEqual(decoded, a) {
		t.Fatalf("revealed roundtrip mismatch: got %+v want %+v", decoded, a)
	}

	concealed := a.ConcealSeals().ConcealState()
	decodedConcealed, err := DecodeArithmeticAssignment(concealed.StrictEncode())
	if err != nil {
		t.Fatalf("decode concealed: %v", err)
	}
	if !reflect.DeepEqual(decodedConcealed, concealed) {
		t.Fatalf("concealed roundtrip mismatch: got %+v want %+v", decodedConcealed, concealed)
	}
}

func TestStructuredAssignmentStrictEncodeDecodeRoundtrip(t *testing.T) {
	a := StructuredAssignment{
		Kind:          KindRevealed,
		RevealedSeal:  revealedSeal(8),
		RevealedState: StructuredRevealed{Data: []byte("hello"), Salt: [32]byte{1}},
	}
	decoded, err := DecodeStructuredAssignment(a.StrictEncode())
	if err != nil {
		t.Fatalf("decode revealed: %v", err)
	}
	if string(decoded.RevealedState.Data) != string(a.RevealedState.Data) || decoded.RevealedSeal != a.RevealedSeal {
		t.Fatalf("revealed roundtrip mismatch: got %+v want %+v", decoded, a)
	}
}

func TestAttachmentAssignmentStrictEncodeDecodeRoundtrip(t *testing.T) {
	a := AttachmentAssignment{
		Kind:          KindRevealed,
		RevealedSeal:  revealedSeal(9),
		RevealedState: AttachmentRevealed{ContentHash: [32]byte{2}, MIME: "image/png"},
	}
	decoded, err := DecodeAttachmentAssignment(a.StrictEncode())
	if err != nil {
		t.Fatalf("decode revealed: %v", err)
	}
	if decoded != a {
		t.Fatalf("revealed roundtrip mismatch: got %+v want %+v", decoded, a)
	}
}

func TestKindSealAndStateRevealedPredicates(t *testing.T) {
	cases := []struct {
		k              Kind
		sealRevealed   bool
		stateRevealed  bool
	}{
		{KindRevealed, true, true},
		{KindConfidentialSeal, false, true},
		{KindConfidentialState, true, false},
		{KindConfidential, false, false},
	}
	for _, tc := range cases {
		if got := tc.k.SealRevealed(); got != tc.sealRevealed {
			t.Fatalf("%v.SealRevealed() = %v, want %v", tc.k, got, tc.sealRevealed)
		}
		if got := tc.k.StateRevealed(); got != tc.stateRevealed {
			t.Fatalf("%v.StateRevealed() = %v, want %v", tc.k, got, tc.stateRevealed)
		}
	}
}
