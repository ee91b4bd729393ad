package state

import "rgbcore.dev/core/strictenc"

// DeclarativeRevealed and DeclarativeConfidential both carry no data: a
// declarative right is a bare type-match (spec §4.4 table).
type DeclarativeRevealed struct{}
type DeclarativeConfidential struct{}

func (DeclarativeRevealed) Conceal() DeclarativeConfidential { return DeclarativeConfidential{} }

func (DeclarativeRevealed) StrictEncode() []byte     { return nil }
func (DeclarativeConfidential) StrictEncode() []byte { return nil }
func (DeclarativeRevealed) ConcealBytes() []byte     { return nil }

// DecodeDeclarativeRevealedFrom and DecodeDeclarativeConfidentialFrom
// consume nothing: both forms are the zero-width unit value (spec §4.4).
func DecodeDeclarativeRevealedFrom(*strictenc.Reader) (DeclarativeRevealed, error) {
	return DeclarativeRevealed{}, nil
}

func DecodeDeclarativeConfidentialFrom(*strictenc.Reader) (DeclarativeConfidential, error) {
	return DeclarativeConfidential{}, nil
}
