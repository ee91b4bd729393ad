package store

import (
	"testing"

	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/operation"
	"rgbcore.dev/core/schema"
	"rgbcore.dev/core/seal"
	"rgbcore.dev/core/state"
	"rgbcore.dev/core/validation"
	"rgbcore.dev/core/xchain"
)

func testGenesis() operation.Genesis {
	return operation.Genesis{
		Chain: "bitcoin",
		OwnedRights: state.OwnedRights{
			1: {Strategy: state.Declarative, Declarative: []state.DeclarativeAssignment{
				{Kind: state.KindRevealed, RevealedSeal: seal.Revealed{WitnessTx: true, Vout: 1, Blinding: 7}},
			}},
		},
	}
}

func TestDB_PutGetGenesisOperationSchemaAnchor(t *testing.T) {
	datadir := t.TempDir()
	g := testGenesis()
	contractID := g.ContractId()

	db, err := Open(datadir, contractID.String())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PutGenesis(contractID, g); err != nil {
		t.Fatalf("PutGenesis: %v", err)
	}
	gotGenesis, ok, err := db.GetGenesis(contractID)
	if err != nil || !ok {
		t.Fatalf("GetGenesis: ok=%v err=%v", ok, err)
	}
	if gotGenesis.NodeId() != g.NodeId() {
		t.Fatalf("genesis roundtrip mismatch")
	}

	sch := schema.Schema{
		OwnedRightTypes: map[idtypes.OwnedRightType]schema.StateSchema{
			1: {Strategy: schema.StrategyDeclarative},
		},
	}
	if err := db.PutSchema(sch); err != nil {
		t.Fatalf("PutSchema: %v", err)
	}
	gotSchema, ok, err := db.GetSchema(sch.SchemaId())
	if err != nil || !ok {
		t.Fatalf("GetSchema: ok=%v err=%v", ok, err)
	}
	if gotSchema.SchemaId() != sch.SchemaId() {
		t.Fatalf("schema roundtrip mismatch")
	}

	tr := operation.Transition{
		TransitionType: 1,
		ParentOwnedRights: state.ParentOwnedRights{
			g.NodeId(): {1: {0}},
		},
	}
	op := operation.FromTransition(tr)
	if err := db.PutOperation(op); err != nil {
		t.Fatalf("PutOperation: %v", err)
	}
	gotOp, ok, err := db.GetOperation(op.NodeId())
	if err != nil || !ok {
		t.Fatalf("GetOperation: ok=%v err=%v", ok, err)
	}
	if gotOp.NodeId() != op.NodeId() {
		t.Fatalf("operation roundtrip mismatch")
	}
	if gotOp.Kind != operation.KindTransition {
		t.Fatalf("expected transition kind, got %v", gotOp.Kind)
	}
	parentIDs := map[idtypes.NodeId]bool{}
	for id := range gotOp.ParentOwnedRights() {
		parentIDs[id] = true
	}
	if !parentIDs[g.NodeId()] {
		t.Fatalf("parent owned rights did not round-trip NodeId key")
	}

	anchor := validation.Anchor{
		WitnessID: xchain.NewWitnessId(xchain.Bitcoin, xchain.Txid{1, 2, 3}),
		Proof:     validation.AnchorProof{0xde, 0xad},
	}
	if err := db.PutAnchor(op.NodeId(), anchor); err != nil {
		t.Fatalf("PutAnchor: %v", err)
	}
	gotAnchor, ok, err := db.GetAnchor(op.NodeId())
	if err != nil || !ok {
		t.Fatalf("GetAnchor: ok=%v err=%v", ok, err)
	}
	if gotAnchor.WitnessID != anchor.WitnessID {
		t.Fatalf("anchor witness id roundtrip mismatch")
	}

	if err := db.SetManifest(&Manifest{
		SchemaVersion:    SchemaVersionV1,
		ContractIdHex:    contractID.String(),
		SchemaIdHex:      sch.SchemaId().String(),
		GenesisNodeIdHex: g.NodeId().String(),
	}); err != nil {
		t.Fatalf("SetManifest: %v", err)
	}
	if db.Manifest() == nil {
		t.Fatalf("expected manifest to be set")
	}

	cons, err := db.Consignment(contractID)
	if err != nil {
		t.Fatalf("Consignment: %v", err)
	}
	if len(cons.Operations) != 1 || len(cons.Schemas) != 1 || len(cons.Anchors) != 1 {
		t.Fatalf("unexpected consignment shape: %+v", cons)
	}
}

func TestDB_PutGenesisSeedsTipFrontier(t *testing.T) {
	datadir := t.TempDir()
	g := testGenesis()
	contractID := g.ContractId()

	db, err := Open(datadir, contractID.String())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PutGenesis(contractID, g); err != nil {
		t.Fatalf("PutGenesis: %v", err)
	}
	m := db.Manifest()
	if m == nil {
		t.Fatalf("expected PutGenesis to seed a manifest")
	}
	if m.GenesisNodeIdHex != g.NodeId().String() {
		t.Fatalf("manifest genesis node id mismatch: got %s want %s", m.GenesisNodeIdHex, g.NodeId())
	}
	if len(m.TipNodeIdsHex) != 1 || m.TipNodeIdsHex[0] != g.NodeId().String() {
		t.Fatalf("expected tip frontier to seed with genesis alone, got %v", m.TipNodeIdsHex)
	}

	tr := operation.Transition{
		TransitionType:    1,
		ParentOwnedRights: state.ParentOwnedRights{g.NodeId(): {1: {0}}},
	}
	op := operation.FromTransition(tr)
	if err := db.PutOperation(op); err != nil {
		t.Fatalf("PutOperation: %v", err)
	}
	m = db.Manifest()
	if len(m.TipNodeIdsHex) != 1 || m.TipNodeIdsHex[0] != op.NodeId().String() {
		t.Fatalf("expected tip frontier to replace consumed genesis with the new transition, got %v", m.TipNodeIdsHex)
	}
}

func TestDB_ReopenLoadsManifest(t *testing.T) {
	datadir := t.TempDir()
	g := testGenesis()
	contractID := g.ContractId()

	db, err := Open(datadir, contractID.String())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.SetManifest(&Manifest{SchemaVersion: SchemaVersionV1, ContractIdHex: contractID.String()}); err != nil {
		t.Fatalf("SetManifest: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(datadir, contractID.String())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	if reopened.Manifest() == nil || reopened.Manifest().ContractIdHex != contractID.String() {
		t.Fatalf("manifest not restored on reopen: %+v", reopened.Manifest())
	}
}
