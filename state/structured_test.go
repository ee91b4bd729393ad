package state

import "testing"

func TestStructuredRevealedConcealIsDeterministic(t *testing.T) {
	r := StructuredRevealed{Data: []byte("payload"), Salt: [32]byte{1, 2, 3}}
	a := r.Conceal()
	b := r.Conceal()
	if a != b {
		t.Fatalf("Conceal must be deterministic: %+v != %+v", a, b)
	}
}

func TestStructuredRevealedConcealDiffersOnSalt(t *testing.T) {
	a := StructuredRevealed{Data: []byte("payload"), Salt: [32]byte{1}}
	b := StructuredRevealed{Data: []byte("payload"), Salt: [32]byte{2}}
	if a.Conceal() == b.Conceal() {
		t.Fatalf("different salts must produce different concealed hashes")
	}
}

func TestAttachmentRevealedConcealIsDeterministic(t *testing.T) {
	r := AttachmentRevealed{ContentHash: [32]byte{9}, MIME: "application/pdf"}
	if r.Conceal() != r.Conceal() {
		t.Fatalf("Conceal must be deterministic")
	}
}

func TestAttachmentRevealedConcealDiffersOnMIME(t *testing.T) {
	a := AttachmentRevealed{ContentHash: [32]byte{9}, MIME: "image/png"}
	b := AttachmentRevealed{ContentHash: [32]byte{9}, MIME: "image/jpeg"}
	if a.Conceal() == b.Conceal() {
		t.Fatalf("different MIME types must produce different concealed hashes")
	}
}

func TestDeclarativeStrictEncodeIsEmpty(t *testing.T) {
	if len(DeclarativeRevealed{}.StrictEncode()) != 0 {
		t.Fatalf("declarative state must carry no data")
	}
	if len(DeclarativeConfidential{}.StrictEncode()) != 0 {
		t.Fatalf("declarative confidential state must carry no data")
	}
}
