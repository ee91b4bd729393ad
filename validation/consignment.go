package validation

import (
	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/operation"
	"rgbcore.dev/core/schema"
	"rgbcore.dev/core/xchain"
)

// Anchor pairs the witness a node's closing commitment was embedded in
// with the DBC proof an AnchorVerifier checks it against (spec §4.7 step 5,
// §6 "anchor map NodeId -> (WitnessId, AnchorProof)").
type Anchor struct {
	WitnessID xchain.WitnessId
	Proof     AnchorProof
}

// Consignment is the transient bundle handed to a validator: a genesis,
// the reachable transitions/extensions built on top of it, the schema(s)
// referenced, and an anchor per non-genesis node (spec §3, §6).
type Consignment struct {
	ContractId idtypes.ContractId
	Genesis    operation.Genesis
	Operations map[idtypes.NodeId]operation.Operation
	Schemas    map[idtypes.SchemaId]schema.Schema
	Anchors    map[idtypes.NodeId]Anchor
}

// schema looks up the schema the genesis declares.
func (c Consignment) schema() (schema.Schema, bool) {
	s, ok := c.Schemas[c.Genesis.SchemaId]
	return s, ok
}

// contractLayer derives the single-layer-per-contract Bitcoin/Liquid tag
// from the genesis's declared chain (spec §3 Genesis.chain; seals within
// one contract share one layer, matching the source's per-contract bp::Chain).
func (c Consignment) contractLayer() xchain.Layer1 {
	if c.Genesis.Chain == "liquid" {
		return xchain.Liquid
	}
	return xchain.Bitcoin
}
