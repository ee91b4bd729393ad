package operation

import (
	"rgbcore.dev/core/commit"
	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/seal"
	"rgbcore.dev/core/state"
	"rgbcore.dev/core/strictenc"
	"rgbcore.dev/core/xchain"
)

var (
	genesisTag    = commit.NewTag("urn:lnpbp:rgb:genesis:v01#202302")
	transitionTag = commit.NewTag("urn:lnpbp:rgb:transition:v01#32A")
	extensionTag  = commit.NewTag("urn:lnpbp:rgb:extension:v01#2023")
)

// Genesis is the contract's root node: no parents, contract_id == node_id.
type Genesis struct {
	SchemaId     idtypes.SchemaId
	Chain        string
	Metadata     Metadata
	OwnedRights  state.OwnedRights
	PublicRights state.PublicRights
}

// Transition consumes one or more parent owned rights and produces new
// ones; it carries no contract-id or public-right parents of its own.
type Transition struct {
	TransitionType    idtypes.TransitionType
	Metadata          Metadata
	ParentOwnedRights state.ParentOwnedRights
	OwnedRights       state.OwnedRights
	PublicRights      state.PublicRights
}

// Extension carries forward a genesis's public rights without closing any
// seal; it references its contract directly since it has no owned-right
// parent chain to derive it from.
type Extension struct {
	ExtensionType      idtypes.ExtensionType
	ContractId         idtypes.ContractId
	Metadata           Metadata
	OwnedRights        state.OwnedRights
	ParentPublicRights state.ParentPublicRights
	PublicRights       state.PublicRights
}

// ConcealBytes is the form Genesis commits over: owned rights reduced to
// their concealed commitment bytes rather than fully encoded (spec §4.2,
// §4.4 — a node's identity commits only to concealed state).
func (g Genesis) ConcealBytes() []byte {
	w := strictenc.NewWriter(256)
	w.PutBytes(g.SchemaId[:])
	w.PutBounded([]byte(g.Chain), strictenc.MaxTiny)
	w.PutBounded(g.Metadata.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(g.OwnedRights.ConcealBytes(), strictenc.MaxMedium)
	w.PutBounded(g.PublicRights.StrictEncode(), strictenc.MaxMedium)
	return w.Bytes()
}

// StrictEncode serializes Genesis losslessly for archival/consignment use
// (spec §4.1); NodeId instead commits over ConcealBytes.
func (g Genesis) StrictEncode() []byte {
	w := strictenc.NewWriter(256)
	w.PutBytes(g.SchemaId[:])
	w.PutBounded([]byte(g.Chain), strictenc.MaxTiny)
	w.PutBounded(g.Metadata.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(g.OwnedRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(g.PublicRights.StrictEncode(), strictenc.MaxMedium)
	return w.Bytes()
}

// DecodeGenesis parses a strict-encoded Genesis.
func DecodeGenesis(b []byte) (Genesis, error) {
	r := strictenc.NewReader(b)
	schemaIdBytes, err := r.Bytes(32)
	if err != nil {
		return Genesis{}, err
	}
	chain, err := r.Bounded(strictenc.MaxTiny)
	if err != nil {
		return Genesis{}, err
	}
	metaBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Genesis{}, err
	}
	metadata, err := DecodeMetadata(metaBytes)
	if err != nil {
		return Genesis{}, err
	}
	ownedBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Genesis{}, err
	}
	owned, err := state.DecodeOwnedRights(ownedBytes)
	if err != nil {
		return Genesis{}, err
	}
	pubBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Genesis{}, err
	}
	pub, err := state.DecodePublicRights(pubBytes)
	if err != nil {
		return Genesis{}, err
	}
	if err := r.Done(); err != nil {
		return Genesis{}, err
	}
	var schemaId idtypes.SchemaId
	copy(schemaId[:], schemaIdBytes)
	return Genesis{
		SchemaId:     schemaId,
		Chain:        string(chain),
		Metadata:     metadata,
		OwnedRights:  owned,
		PublicRights: pub,
	}, nil
}

// ConcealBytes is the form Transition commits over (spec §4.2, §4.4).
func (t Transition) ConcealBytes() []byte {
	w := strictenc.NewWriter(256)
	w.PutU16(uint16(t.TransitionType))
	w.PutBounded(t.Metadata.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(t.ParentOwnedRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(t.OwnedRights.ConcealBytes(), strictenc.MaxMedium)
	w.PutBounded(t.PublicRights.StrictEncode(), strictenc.MaxMedium)
	return w.Bytes()
}

// StrictEncode serializes Transition losslessly (spec §4.1).
func (t Transition) StrictEncode() []byte {
	w := strictenc.NewWriter(256)
	w.PutU16(uint16(t.TransitionType))
	w.PutBounded(t.Metadata.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(t.ParentOwnedRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(t.OwnedRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(t.PublicRights.StrictEncode(), strictenc.MaxMedium)
	return w.Bytes()
}

// DecodeTransition parses a strict-encoded Transition.
func DecodeTransition(b []byte) (Transition, error) {
	r := strictenc.NewReader(b)
	typeBits, err := r.U16()
	if err != nil {
		return Transition{}, err
	}
	metaBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Transition{}, err
	}
	metadata, err := DecodeMetadata(metaBytes)
	if err != nil {
		return Transition{}, err
	}
	parentBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Transition{}, err
	}
	parent, err := state.DecodeParentOwnedRights(parentBytes)
	if err != nil {
		return Transition{}, err
	}
	ownedBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Transition{}, err
	}
	owned, err := state.DecodeOwnedRights(ownedBytes)
	if err != nil {
		return Transition{}, err
	}
	pubBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Transition{}, err
	}
	pub, err := state.DecodePublicRights(pubBytes)
	if err != nil {
		return Transition{}, err
	}
	if err := r.Done(); err != nil {
		return Transition{}, err
	}
	return Transition{
		TransitionType:    idtypes.TransitionType(typeBits),
		Metadata:          metadata,
		ParentOwnedRights: parent,
		OwnedRights:       owned,
		PublicRights:      pub,
	}, nil
}

// ConcealBytes is the form Extension commits over (spec §4.2, §4.4).
func (e Extension) ConcealBytes() []byte {
	w := strictenc.NewWriter(256)
	w.PutU16(uint16(e.ExtensionType))
	w.PutBytes(e.ContractId[:])
	w.PutBounded(e.Metadata.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(e.OwnedRights.ConcealBytes(), strictenc.MaxMedium)
	w.PutBounded(e.ParentPublicRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(e.PublicRights.StrictEncode(), strictenc.MaxMedium)
	return w.Bytes()
}

// StrictEncode serializes Extension losslessly (spec §4.1).
func (e Extension) StrictEncode() []byte {
	w := strictenc.NewWriter(256)
	w.PutU16(uint16(e.ExtensionType))
	w.PutBytes(e.ContractId[:])
	w.PutBounded(e.Metadata.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(e.OwnedRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(e.ParentPublicRights.StrictEncode(), strictenc.MaxMedium)
	w.PutBounded(e.PublicRights.StrictEncode(), strictenc.MaxMedium)
	return w.Bytes()
}

// DecodeExtension parses a strict-encoded Extension.
func DecodeExtension(b []byte) (Extension, error) {
	r := strictenc.NewReader(b)
	typeBits, err := r.U16()
	if err != nil {
		return Extension{}, err
	}
	contractIdBytes, err := r.Bytes(32)
	if err != nil {
		return Extension{}, err
	}
	metaBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Extension{}, err
	}
	metadata, err := DecodeMetadata(metaBytes)
	if err != nil {
		return Extension{}, err
	}
	ownedBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Extension{}, err
	}
	owned, err := state.DecodeOwnedRights(ownedBytes)
	if err != nil {
		return Extension{}, err
	}
	parentBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Extension{}, err
	}
	parentPub, err := state.DecodeParentPublicRights(parentBytes)
	if err != nil {
		return Extension{}, err
	}
	pubBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Extension{}, err
	}
	pub, err := state.DecodePublicRights(pubBytes)
	if err != nil {
		return Extension{}, err
	}
	if err := r.Done(); err != nil {
		return Extension{}, err
	}
	var contractId idtypes.ContractId
	copy(contractId[:], contractIdBytes)
	return Extension{
		ExtensionType:      idtypes.ExtensionType(typeBits),
		ContractId:         contractId,
		Metadata:           metadata,
		OwnedRights:        owned,
		ParentPublicRights: parentPub,
		PublicRights:       pub,
	}, nil
}

// NodeId computes each node type's content-addressed identity (spec §4.2):
// a commitment over the concealed form, never the lossless wire encoding.
func (g Genesis) NodeId() idtypes.NodeId    { return idtypes.NodeId(commit.CommitConcealStrict(genesisTag, g)) }
func (t Transition) NodeId() idtypes.NodeId { return idtypes.NodeId(commit.CommitConcealStrict(transitionTag, t)) }
func (e Extension) NodeId() idtypes.NodeId  { return idtypes.NodeId(commit.CommitConcealStrict(extensionTag, e)) }

// ContractId equals node_id for genesis (spec §3).
func (g Genesis) ContractId() idtypes.ContractId { return idtypes.ContractIdFromNodeId(g.NodeId()) }

// NodeKind tags which of Genesis/Transition/Extension an Operation wraps.
type NodeKind uint8

const (
	KindGenesis NodeKind = iota
	KindTransition
	KindExtension
)

func (k NodeKind) String() string {
	switch k {
	case KindGenesis:
		return "genesis"
	case KindTransition:
		return "transition"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Operation is the tagged variant over the three node types (spec §9
// "polymorphic node surface" design note): exactly one of G/T/E is set,
// selected by Kind. Fields the active variant does not carry (e.g. a
// genesis's parent-owned-rights) are simply absent rather than reachable
// through a panicking accessor — the precondition failure the original
// source raised via runtime panic becomes unrepresentable here.
type Operation struct {
	Kind NodeKind
	G    *Genesis
	T    *Transition
	E    *Extension
}

func FromGenesis(g Genesis) Operation       { return Operation{Kind: KindGenesis, G: &g} }
func FromTransition(t Transition) Operation { return Operation{Kind: KindTransition, T: &t} }
func FromExtension(e Extension) Operation   { return Operation{Kind: KindExtension, E: &e} }

// StrictEncode serializes an Operation as its Kind byte followed by the
// active variant's own lossless encoding (spec §4.1). Used as
// ScriptContext.Self; the store archive does not use it and persists
// operations as JSON instead.
func (o Operation) StrictEncode() []byte {
	w := strictenc.NewWriter(256)
	w.PutU8(uint8(o.Kind))
	switch o.Kind {
	case KindGenesis:
		w.PutBytes(o.G.StrictEncode())
	case KindTransition:
		w.PutBytes(o.T.StrictEncode())
	case KindExtension:
		w.PutBytes(o.E.StrictEncode())
	}
	return w.Bytes()
}

// DecodeOperation parses a strict-encoded Operation.
func DecodeOperation(b []byte) (Operation, error) {
	r := strictenc.NewReader(b)
	kb, err := r.U8()
	if err != nil {
		return Operation{}, err
	}
	kind := NodeKind(kb)
	rest, err := r.Bytes(r.Remaining())
	if err != nil {
		return Operation{}, err
	}
	if err := r.Done(); err != nil {
		return Operation{}, err
	}
	switch kind {
	case KindGenesis:
		g, err := DecodeGenesis(rest)
		if err != nil {
			return Operation{}, err
		}
		return FromGenesis(g), nil
	case KindTransition:
		t, err := DecodeTransition(rest)
		if err != nil {
			return Operation{}, err
		}
		return FromTransition(t), nil
	case KindExtension:
		e, err := DecodeExtension(rest)
		if err != nil {
			return Operation{}, err
		}
		return FromExtension(e), nil
	default:
		return Operation{}, &strictenc.DecodeError{Kind: strictenc.ErrUnknownTag, Detail: "operation kind"}
	}
}

func (o Operation) NodeId() idtypes.NodeId {
	switch o.Kind {
	case KindGenesis:
		return o.G.NodeId()
	case KindTransition:
		return o.T.NodeId()
	case KindExtension:
		return o.E.NodeId()
	default:
		return idtypes.NodeId{}
	}
}

// ContractId returns the genesis's own id for a genesis node, the carried
// contract id for an extension, and false for a transition (whose contract
// id is only recoverable by walking the graph back to genesis).
func (o Operation) ContractId() (idtypes.ContractId, bool) {
	switch o.Kind {
	case KindGenesis:
		return o.G.ContractId(), true
	case KindExtension:
		return o.E.ContractId, true
	default:
		return idtypes.ContractId{}, false
	}
}

func (o Operation) TransitionType() (idtypes.TransitionType, bool) {
	if o.Kind == KindTransition {
		return o.T.TransitionType, true
	}
	return 0, false
}

func (o Operation) ExtensionType() (idtypes.ExtensionType, bool) {
	if o.Kind == KindExtension {
		return o.E.ExtensionType, true
	}
	return 0, false
}

func (o Operation) Metadata() Metadata {
	switch o.Kind {
	case KindGenesis:
		return o.G.Metadata
	case KindTransition:
		return o.T.Metadata
	case KindExtension:
		return o.E.Metadata
	default:
		return nil
	}
}

func (o Operation) OwnedRights() state.OwnedRights {
	switch o.Kind {
	case KindGenesis:
		return o.G.OwnedRights
	case KindTransition:
		return o.T.OwnedRights
	case KindExtension:
		return o.E.OwnedRights
	default:
		return nil
	}
}

func (o Operation) PublicRights() state.PublicRights {
	switch o.Kind {
	case KindGenesis:
		return o.G.PublicRights
	case KindTransition:
		return o.T.PublicRights
	case KindExtension:
		return o.E.PublicRights
	default:
		return nil
	}
}

// ParentOwnedRights is non-empty only for transitions (spec §4.5).
func (o Operation) ParentOwnedRights() state.ParentOwnedRights {
	if o.Kind == KindTransition {
		return o.T.ParentOwnedRights
	}
	return nil
}

// ParentPublicRights is non-empty only for extensions (spec §4.5).
func (o Operation) ParentPublicRights() state.ParentPublicRights {
	if o.Kind == KindExtension {
		return o.E.ParentPublicRights
	}
	return nil
}

func (o Operation) FieldTypes() []idtypes.FieldType { return o.Metadata().FieldTypes() }

func (o Operation) OwnedRightTypes() []idtypes.OwnedRightType {
	return o.OwnedRights().OwnedRightTypes()
}

func (o Operation) PublicRightTypes() []idtypes.PublicRightType {
	return o.PublicRights().PublicRightTypes()
}

func (o Operation) ParentPublicRightTypes() []idtypes.PublicRightType {
	var out []idtypes.PublicRightType
	for _, types := range o.ParentPublicRights() {
		out = append(out, types...)
	}
	return out
}

// ParentOutputs flattens parent-owned-rights into the NodeOutpoint set
// (spec §4.5).
func (o Operation) ParentOutputs() []idtypes.NodeOutpoint {
	return o.ParentOutputsByTypes(nil)
}

// ParentOutputsByTypes filters ParentOutputs by owned-right-type; a nil or
// empty types selects all types.
func (o Operation) ParentOutputsByTypes(types []idtypes.OwnedRightType) []idtypes.NodeOutpoint {
	wantAll := len(types) == 0
	want := make(map[idtypes.OwnedRightType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []idtypes.NodeOutpoint
	for nodeID, byType := range o.ParentOwnedRights() {
		for ty, nos := range byType {
			if !wantAll && !want[ty] {
				continue
			}
			for _, no := range nos {
				out = append(out, idtypes.NewNodeOutpoint(nodeID, ty, no))
			}
		}
	}
	return out
}

// RevealedSeals collects every assignment's seal across all owned-right
// types, failing if any one of them is concealed (spec §4.5).
func (o Operation) RevealedSeals() ([]seal.Revealed, error) {
	var out []seal.Revealed
	for _, ty := range o.OwnedRightTypes() {
		revealed, err := o.OwnedRights()[ty].RevealedSeals()
		if err != nil {
			return nil, err
		}
		out = append(out, revealed...)
	}
	return out, nil
}

// FilterRevealedSeals is the infallible counterpart of RevealedSeals.
func (o Operation) FilterRevealedSeals() []seal.Revealed {
	var out []seal.Revealed
	for _, ty := range o.OwnedRightTypes() {
		out = append(out, o.OwnedRights()[ty].FilterRevealedSeals()...)
	}
	return out
}

// NodeOutputs maps every revealed-seal assignment output of this node to
// its concrete outpoint, substituting witnessTxid for any witness-tx
// placeholder seal (spec §4.5).
func (o Operation) NodeOutputs(witnessTxid xchain.Txid) map[idtypes.NodeOutpoint]seal.Outpoint {
	nodeID := o.NodeId()
	res := make(map[idtypes.NodeOutpoint]seal.Outpoint)
	for _, ty := range o.OwnedRightTypes() {
		ta := o.OwnedRights()[ty]
		for _, entry := range ta.RevealedSealOutputs() {
			outpoint := entry.Seal.OutpointOr(witnessTxid)
			res[idtypes.NewNodeOutpoint(nodeID, ty, entry.No)] = outpoint
		}
	}
	return res
}

// ConcealStateExcept conceals state for every assignment across all
// owned-right types except those whose seal resolves into keep, returning
// the total count concealed (spec §4.4, applied node-wide per §4.5).
func (o Operation) ConcealStateExcept(keep []seal.SecretSeal) int {
	count := 0
	rights := o.OwnedRights()
	for _, ty := range o.OwnedRightTypes() {
		ta := rights[ty]
		count += ta.ConcealStateExcept(keep)
		rights[ty] = ta
	}
	return count
}

// ConcealSeals conceals the seal of every assignment across all
// owned-right types whose resolved secret seal is in targets.
func (o Operation) ConcealSeals(targets []seal.SecretSeal) int {
	count := 0
	rights := o.OwnedRights()
	for _, ty := range o.OwnedRightTypes() {
		ta := rights[ty]
		count += ta.ConcealSeals(targets)
		rights[ty] = ta
	}
	return count
}
