// Package state implements the four owned-state strategies
// (Declarative/Arithmetic/Structured/Attachment), the Assignment
// revealed/concealed cross-product, and the typed collections built on top
// of them (spec §4.4).
package state

// Strategy names which of the four validation strategies a TypedAssignments
// instance (and the OwnedRightType it is keyed by) uses. A single instance
// holds only one strategy — cross-strategy mixing within one owned-right
// type is a schema violation (spec §4.4).
type Strategy uint8

const (
	Declarative Strategy = iota
	Arithmetic
	Structured
	Attachment
)

func (s Strategy) String() string {
	switch s {
	case Declarative:
		return "declarative"
	case Arithmetic:
		return "arithmetic"
	case Structured:
		return "structured"
	case Attachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// Kind is the 2x2 cross-product of (seal revealed?, state revealed?) that
// every concrete assignment type (Declarative/Arithmetic/Structured/
// AttachmentAssignment) carries (spec §3, §4.4).
type Kind uint8

const (
	// KindRevealed: seal revealed, state revealed.
	KindRevealed Kind = iota
	// KindConfidentialSeal: seal concealed, state revealed.
	KindConfidentialSeal
	// KindConfidentialState: seal revealed, state concealed.
	KindConfidentialState
	// KindConfidential: seal concealed, state concealed.
	KindConfidential
)

func (k Kind) SealRevealed() bool  { return k == KindRevealed || k == KindConfidentialState }
func (k Kind) StateRevealed() bool { return k == KindRevealed || k == KindConfidentialSeal }

// concealStateKind maps a kind to its state-concealed counterpart; it is
// idempotent on kinds whose state is already concealed.
func concealStateKind(k Kind) Kind {
	switch k {
	case KindRevealed:
		return KindConfidentialState
	case KindConfidentialSeal:
		return KindConfidential
	default:
		return k
	}
}

// concealSealKind maps a kind to its seal-concealed counterpart; it is
// idempotent on kinds whose seal is already concealed.
func concealSealKind(k Kind) Kind {
	switch k {
	case KindRevealed:
		return KindConfidentialSeal
	case KindConfidentialState:
		return KindConfidential
	default:
		return k
	}
}
