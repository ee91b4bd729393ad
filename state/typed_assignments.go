package state

import (
	"rgbcore.dev/core/seal"
	"rgbcore.dev/core/strictenc"
)

// TypedAssignments is the strategy-indexed tagged union holding all
// assignments for one OwnedRightType: exactly one of the four slices is
// populated, selected by Strategy (spec §4.4 "TypedAssignments").
type TypedAssignments struct {
	Strategy    Strategy
	Declarative []DeclarativeAssignment
	Arithmetic  []ArithmeticAssignment
	Structured  []StructuredAssignment
	Attachment  []AttachmentAssignment
}

// Len returns the number of assignments under whichever strategy is active.
func (t TypedAssignments) Len() int {
	switch t.Strategy {
	case Declarative:
		return len(t.Declarative)
	case Arithmetic:
		return len(t.Arithmetic)
	case Structured:
		return len(t.Structured)
	case Attachment:
		return len(t.Attachment)
	default:
		return 0
	}
}

// RevealedSeals returns every assignment's seal in revealed form, failing
// with seal.ConfidentialDataError if any one of them is concealed (spec §4.4:
// "fails if any seal is confidential" vs. the infallible Filter* variant).
func (t TypedAssignments) RevealedSeals() ([]seal.Revealed, error) {
	out := make([]seal.Revealed, 0, t.Len())
	switch t.Strategy {
	case Declarative:
		for _, a := range t.Declarative {
			if !a.Kind.SealRevealed() {
				return nil, seal.ConfidentialDataError{}
			}
			out = append(out, a.RevealedSeal)
		}
	case Arithmetic:
		for _, a := range t.Arithmetic {
			if !a.Kind.SealRevealed() {
				return nil, seal.ConfidentialDataError{}
			}
			out = append(out, a.RevealedSeal)
		}
	case Structured:
		for _, a := range t.Structured {
			if !a.Kind.SealRevealed() {
				return nil, seal.ConfidentialDataError{}
			}
			out = append(out, a.RevealedSeal)
		}
	case Attachment:
		for _, a := range t.Attachment {
			if !a.Kind.SealRevealed() {
				return nil, seal.ConfidentialDataError{}
			}
			out = append(out, a.RevealedSeal)
		}
	}
	return out, nil
}

// FilterRevealedSeals is the infallible counterpart to RevealedSeals: it
// silently skips assignments whose seal is concealed (spec §4.4).
func (t TypedAssignments) FilterRevealedSeals() []seal.Revealed {
	out := make([]seal.Revealed, 0, t.Len())
	switch t.Strategy {
	case Declarative:
		for _, a := range t.Declarative {
			if a.Kind.SealRevealed() {
				out = append(out, a.RevealedSeal)
			}
		}
	case Arithmetic:
		for _, a := range t.Arithmetic {
			if a.Kind.SealRevealed() {
				out = append(out, a.RevealedSeal)
			}
		}
	case Structured:
		for _, a := range t.Structured {
			if a.Kind.SealRevealed() {
				out = append(out, a.RevealedSeal)
			}
		}
	case Attachment:
		for _, a := range t.Attachment {
			if a.Kind.SealRevealed() {
				out = append(out, a.RevealedSeal)
			}
		}
	}
	return out
}

// RevealedSealOutput pairs a revealed seal with its true position within
// the owned-right-type's assignment list (spec §4.5 "node_outputs").
type RevealedSealOutput struct {
	No   uint16
	Seal seal.Revealed
}

// RevealedSealOutputs is like FilterRevealedSeals but keeps each seal's
// real output index instead of its position among only the revealed ones.
func (t TypedAssignments) RevealedSealOutputs() []RevealedSealOutput {
	var out []RevealedSealOutput
	switch t.Strategy {
	case Declarative:
		for i, a := range t.Declarative {
			if a.Kind.SealRevealed() {
				out = append(out, RevealedSealOutput{No: uint16(i), Seal: a.RevealedSeal})
			}
		}
	case Arithmetic:
		for i, a := range t.Arithmetic {
			if a.Kind.SealRevealed() {
				out = append(out, RevealedSealOutput{No: uint16(i), Seal: a.RevealedSeal})
			}
		}
	case Structured:
		for i, a := range t.Structured {
			if a.Kind.SealRevealed() {
				out = append(out, RevealedSealOutput{No: uint16(i), Seal: a.RevealedSeal})
			}
		}
	case Attachment:
		for i, a := range t.Attachment {
			if a.Kind.SealRevealed() {
				out = append(out, RevealedSealOutput{No: uint16(i), Seal: a.RevealedSeal})
			}
		}
	}
	return out
}

// secretOf returns the secret seal an assignment's seal commits to,
// computing it from the revealed form when necessary, without mutating the
// assignment.
func secretOf(k Kind, revealed seal.Revealed, secret seal.SecretSeal) seal.SecretSeal {
	if k.SealRevealed() {
		return seal.Conceal(revealed)
	}
	return secret
}

// ConcealStateExcept conceals the state of every assignment whose seal does
// not resolve to one of keep, leaving those that do fully revealed (spec
// §4.4: used when preparing a consignment for a counterparty who should
// only see the state behind seals they themselves are party to). Returns
// the number of assignments whose state this call concealed; assignments
// whose state is already concealed are left as they are and not counted.
func (t *TypedAssignments) ConcealStateExcept(keep []seal.SecretSeal) int {
	inSet := func(s seal.SecretSeal) bool {
		for _, k := range keep {
			if k == s {
				return true
			}
		}
		return false
	}
	count := 0
	switch t.Strategy {
	case Declarative:
		for i, a := range t.Declarative {
			if !a.Kind.StateRevealed() || inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Declarative[i] = a.ConcealState()
			count++
		}
	case Arithmetic:
		for i, a := range t.Arithmetic {
			if !a.Kind.StateRevealed() || inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Arithmetic[i] = a.ConcealState()
			count++
		}
	case Structured:
		for i, a := range t.Structured {
			if !a.Kind.StateRevealed() || inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Structured[i] = a.ConcealState()
			count++
		}
	case Attachment:
		for i, a := range t.Attachment {
			if !a.Kind.StateRevealed() || inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Attachment[i] = a.ConcealState()
			count++
		}
	}
	return count
}

// ConcealSeals conceals the seal of every assignment whose resolved secret
// seal is in targets, leaving the rest untouched (spec §4.4). Returns the
// number of assignments whose seal was concealed.
func (t *TypedAssignments) ConcealSeals(targets []seal.SecretSeal) int {
	inSet := func(s seal.SecretSeal) bool {
		for _, k := range targets {
			if k == s {
				return true
			}
		}
		return false
	}
	count := 0
	switch t.Strategy {
	case Declarative:
		for i, a := range t.Declarative {
			if !a.Kind.SealRevealed() || !inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Declarative[i] = a.ConcealSeals()
			count++
		}
	case Arithmetic:
		for i, a := range t.Arithmetic {
			if !a.Kind.SealRevealed() || !inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Arithmetic[i] = a.ConcealSeals()
			count++
		}
	case Structured:
		for i, a := range t.Structured {
			if !a.Kind.SealRevealed() || !inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Structured[i] = a.ConcealSeals()
			count++
		}
	case Attachment:
		for i, a := range t.Attachment {
			if !a.Kind.SealRevealed() || !inSet(secretOf(a.Kind, a.RevealedSeal, a.SecretSeal)) {
				continue
			}
			t.Attachment[i] = a.ConcealSeals()
			count++
		}
	}
	return count
}

// StrictEncode serializes the full TypedAssignments union: strategy tag,
// element count, then each assignment's own full (decodable) encoding.
// This is the wire form; ConcealBytes below remains the separate
// always-concealed commitment form (spec §4.1, §4.4).
func (t TypedAssignments) StrictEncode() []byte {
	w := strictenc.NewWriter(64)
	w.PutU8(uint8(t.Strategy))
	w.PutLen(t.Len(), strictenc.MaxSmall)
	switch t.Strategy {
	case Declarative:
		for _, a := range t.Declarative {
			w.PutBytes(a.StrictEncode())
		}
	case Arithmetic:
		for _, a := range t.Arithmetic {
			w.PutBytes(a.StrictEncode())
		}
	case Structured:
		for _, a := range t.Structured {
			w.PutBytes(a.StrictEncode())
		}
	case Attachment:
		for _, a := range t.Attachment {
			w.PutBytes(a.StrictEncode())
		}
	}
	return w.Bytes()
}

// DecodeTypedAssignmentsFrom reads a TypedAssignments off a shared Reader.
func DecodeTypedAssignmentsFrom(r *strictenc.Reader) (TypedAssignments, error) {
	sb, err := r.U8()
	if err != nil {
		return TypedAssignments{}, err
	}
	strategy := Strategy(sb)
	n, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return TypedAssignments{}, err
	}
	out := TypedAssignments{Strategy: strategy}
	switch strategy {
	case Declarative:
		out.Declarative = make([]DeclarativeAssignment, n)
		for i := range out.Declarative {
			if out.Declarative[i], err = DecodeDeclarativeAssignmentFrom(r); err != nil {
				return TypedAssignments{}, err
			}
		}
	case Arithmetic:
		out.Arithmetic = make([]ArithmeticAssignment, n)
		for i := range out.Arithmetic {
			if out.Arithmetic[i], err = DecodeArithmeticAssignmentFrom(r); err != nil {
				return TypedAssignments{}, err
			}
		}
	case Structured:
		out.Structured = make([]StructuredAssignment, n)
		for i := range out.Structured {
			if out.Structured[i], err = DecodeStructuredAssignmentFrom(r); err != nil {
				return TypedAssignments{}, err
			}
		}
	case Attachment:
		out.Attachment = make([]AttachmentAssignment, n)
		for i := range out.Attachment {
			if out.Attachment[i], err = DecodeAttachmentAssignmentFrom(r); err != nil {
				return TypedAssignments{}, err
			}
		}
	default:
		return TypedAssignments{}, &strictenc.DecodeError{Kind: strictenc.ErrUnknownTag, Detail: "typed assignments strategy"}
	}
	return out, nil
}

// DecodeTypedAssignments parses a standalone strict-encoded TypedAssignments.
func DecodeTypedAssignments(b []byte) (TypedAssignments, error) {
	r := strictenc.NewReader(b)
	v, err := DecodeTypedAssignmentsFrom(r)
	if err != nil {
		return TypedAssignments{}, err
	}
	if err := r.Done(); err != nil {
		return TypedAssignments{}, err
	}
	return v, nil
}

// ConcealBytes concatenates each assignment's fully-concealed commitment
// bytes in slice order, giving TypedAssignments itself a stable concealed
// form usable by commit.CommitConcealStrict.
func (t TypedAssignments) ConcealBytes() []byte {
	var out []byte
	switch t.Strategy {
	case Declarative:
		for _, a := range t.Declarative {
			out = append(out, a.ConcealBytes()...)
		}
	case Arithmetic:
		for _, a := range t.Arithmetic {
			out = append(out, a.ConcealBytes()...)
		}
	case Structured:
		for _, a := range t.Structured {
			out = append(out, a.ConcealBytes()...)
		}
	case Attachment:
		for _, a := range t.Attachment {
			out = append(out, a.ConcealBytes()...)
		}
	}
	return out
}
