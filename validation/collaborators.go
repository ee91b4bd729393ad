package validation

import "rgbcore.dev/core/xchain"

// WitnessState is the SealResolver's answer for one WitnessId (spec §6).
type WitnessState uint8

const (
	WitnessUnknown WitnessState = iota
	WitnessMempool
	WitnessConfirmed
	WitnessErrored
)

// WitnessResolution is a WitnessId's current chain state: Confirmed carries
// the WitnessPos it was mined at, Errored carries the resolver's error.
type WitnessResolution struct {
	State WitnessState
	Pos   xchain.WitnessPos
	Err   error
}

// SealResolver answers whether a WitnessId is confirmed on chain, and at
// what position, external to the consensus core (spec §4.7 step 5, §6).
type SealResolver interface {
	Resolve(id xchain.WitnessId) WitnessResolution
}

// AnchorProof is an opaque deterministic-bitcoin-commitment (DBC) proof
// blob; the core threads it to AnchorVerifier without interpreting it
// (spec §4.7 step 5).
type AnchorProof []byte

// AnchorVerifier checks that a node's commitment is embedded in the
// closing transaction of the seals it spends, via the given DBC anchor
// proof (spec §6).
type AnchorVerifier interface {
	Verify(anchor AnchorProof, witnessTxid xchain.Txid, nodeCommitment [32]byte) bool
}

// ScriptContext is the read-only view of (self, parents) a ScriptEngine
// evaluates custom business-logic entry points against (spec §4.7 step 6).
type ScriptContext struct {
	EntryPoint []byte
	Self       []byte // strict encoding of the node being validated
	Parents    [][]byte
}

// ScriptEngine evaluates a schema-declared virtual-machine entry point; a
// non-zero result is a validation failure (spec §6).
type ScriptEngine interface {
	Run(ctx ScriptContext) (int, error)
}
