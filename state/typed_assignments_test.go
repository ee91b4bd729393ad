package state

import (
	"testing"

	"rgbcore.dev/core/seal"
)

func TestTypedAssignmentsRevealedSealsFailsOnAnyConcealed(t *testing.T) {
	revealed := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(1)}
	concealedSeal := revealed.ConcealSeals()

	ta := TypedAssignments{Strategy: Declarative, Declarative: []DeclarativeAssignment{revealed, concealedSeal}}

	_, err := ta.RevealedSeals()
	if err == nil {
		t.Fatalf("expected ConfidentialDataError when one seal is concealed")
	}
	if _, ok := err.(seal.ConfidentialDataError); !ok {
		t.Fatalf("expected seal.ConfidentialDataError, got %T", err)
	}
}

func TestTypedAssignmentsFilterRevealedSealsSkipsConcealed(t *testing.T) {
	revealed := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(1)}
	concealed := revealed.ConcealSeals()

	ta := TypedAssignments{Strategy: Declarative, Declarative: []DeclarativeAssignment{revealed, concealed}}
	out := ta.FilterRevealedSeals()
	if len(out) != 1 || out[0] != revealed.RevealedSeal {
		t.Fatalf("expected exactly the one revealed seal, got %+v", out)
	}
}

func TestTypedAssignmentsRevealedSealOutputsPreservesIndex(t *testing.T) {
	a0 := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(1)}
	a1 := a0.ConcealSeals()
	a2 := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(3)}

	ta := TypedAssignments{Strategy: Declarative, Declarative: []DeclarativeAssignment{a0, a1, a2}}
	out := ta.RevealedSealOutputs()
	if len(out) != 2 {
		t.Fatalf("expected 2 revealed outputs, got %d", len(out))
	}
	if out[0].No != 0 || out[1].No != 2 {
		t.Fatalf("expected output indices [0,2], got [%d,%d]", out[0].No, out[1].No)
	}
}

func TestTypedAssignmentsConcealStateExceptKeepsSelectedSeals(t *testing.T) {
	a0 := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(1)}
	a1 := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(2)}
	keepSecret := seal.Conceal(a0.RevealedSeal)

	ta := TypedAssignments{Strategy: Declarative, Declarative: []DeclarativeAssignment{a0, a1}}
	n := ta.ConcealStateExcept([]seal.SecretSeal{keepSecret})
	if n != 1 {
		t.Fatalf("expected exactly 1 assignment concealed, got %d", n)
	}
	if ta.Declarative[0].Kind != KindRevealed {
		t.Fatalf("kept assignment's state kind should be unchanged")
	}
	if ta.Declarative[1].Kind == KindRevealed {
		t.Fatalf("non-kept assignment's state should be concealed")
	}
}

func TestTypedAssignmentsStrictEncodeDecodeRoundtrip(t *testing.T) {
	a0 := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(1)}
	a1 := DeclarativeAssignment{Kind: KindRevealed, RevealedSeal: revealedSeal(2)}.ConcealSeals()

	ta := TypedAssignments{Strategy: Declarative, Declarative: []DeclarativeAssignment{a0, a1}}
	decoded, err := DecodeTypedAssignments(ta.StrictEncode())
	if err != nil {
		t.Fatalf("decode typed assignments: %v", err)
	}
	if decoded.Strategy != ta.Strategy || len(decoded.Declarative) != len(ta.Declarative) {
		t.Fatalf("roundtrip shape mismatch: got %+v want %+v", decoded, ta)
	}
	if string(decoded.StrictEncode()) != string(ta.StrictEncode()) {
		t.Fatalf("decoded typed assignments did not re-encode identically")
	}
}

func TestTypedAssignmentsLenDispatchesOnStrategy(t *testing.T) {
	ta := TypedAssignments{Strategy: Arithmetic, Arithmetic: []ArithmeticAssignment{{}, {}, {}}}
	if ta.Len() != 3 {
		t.Fatalf("expected Len()==3, got %d", ta.Len())
	}
	empty := TypedAssignments{Strategy: Declarative}
	if empty.Len() != 0 {
		t.Fatalf("expected Len()==0 for empty strategy slice")
	}
}
