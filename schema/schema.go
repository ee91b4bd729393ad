// Package schema implements contract schemas: the declared legal field,
// owned-right, public-right, transition and extension types together with
// their occurrence bounds and per-state-type validation strategy (spec
// §4.6).
package schema

import (
	"rgbcore.dev/core/commit"
	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/strictenc"
)

var schemaTag = commit.NewTag("urn:lnpbp:rgb:schema:v01#2023020")

// Occurrences bounds how many times a type may appear (inclusive range).
type Occurrences struct {
	Min, Max uint16
}

func (o Occurrences) Check(n int) bool {
	return n >= int(o.Min) && n <= int(o.Max)
}

// StateSchema names which of the four owned-state strategies an
// owned-right type uses, plus any strategy-specific parameter (spec §4.4,
// §4.6): Arithmetic carries a numeric-format tag, Structured a semantic
// type id; Declarative and Attachment carry none.
type StateSchema struct {
	Strategy StrategyTag
	Format   uint8          // meaningful only for StrategyArithmetic
	SemId    idtypes.SchemaId // meaningful only for StrategyStructured; reuses SchemaId's 32-byte shape as a semantic-type id
}

type StrategyTag uint8

const (
	StrategyDeclarative StrategyTag = iota
	StrategyArithmetic
	StrategyStructured
	StrategyAttachment
)

// FieldSchema declares a field type's semantic type id and occurrence
// bounds (spec §4.6 "global field types").
type FieldSchema struct {
	SemId       idtypes.SchemaId
	Occurrences Occurrences
}

// NodeSchema is the shared shape of GenesisSchema/TransitionSchema/
// ExtensionSchema: permitted metadata fields and owned/public right
// inputs/outputs, each with occurrence bounds (spec §4.6).
type NodeSchema struct {
	MetadataFields map[idtypes.FieldType]Occurrences
	OwnedRightsIn  map[idtypes.OwnedRightType]Occurrences // inputs consumed from parents; empty for Genesis
	OwnedRightsOut map[idtypes.OwnedRightType]Occurrences // outputs produced
	PublicRightsIn map[idtypes.PublicRightType]struct{}   // parent public rights referenced; Extension only
	PublicRights   map[idtypes.PublicRightType]struct{}   // public rights produced
}

// Schema is the full contract template: legal types, their bounds, and the
// per-node-kind schemas that validate genesis/transitions/extensions
// against it.
type Schema struct {
	FieldTypes      map[idtypes.FieldType]FieldSchema
	OwnedRightTypes map[idtypes.OwnedRightType]StateSchema
	PublicRightTypes map[idtypes.PublicRightType]struct{}

	GenesisSchema     NodeSchema
	TransitionSchemas map[idtypes.TransitionType]NodeSchema
	ExtensionSchemas  map[idtypes.ExtensionType]NodeSchema

	// ScriptLibrary names the entry points a ScriptEngine resolves custom
	// business-logic validation against, keyed by node kind/type. Left as
	// an opaque blob: the core only has to thread it through to the
	// external ScriptEngine, never interpret it itself (spec §6).
	ScriptLibrary []byte
}

// StrictEncode serializes a NodeSchema as its five sorted, bounded maps/sets
// (spec §4.6).
func (n NodeSchema) StrictEncode() []byte {
	w := strictenc.NewWriter(64)

	metaTypes := strictenc.SortedKeys(n.MetadataFields)
	w.PutLen(len(metaTypes), strictenc.MaxSmall)
	for _, t := range metaTypes {
		occ := n.MetadataFields[t]
		w.PutU16(uint16(t))
		w.PutU16(occ.Min)
		w.PutU16(occ.Max)
	}

	inTypes := strictenc.SortedKeys(n.OwnedRightsIn)
	w.PutLen(len(inTypes), strictenc.MaxSmall)
	for _, t := range inTypes {
		occ := n.OwnedRightsIn[t]
		w.PutU16(uint16(t))
		w.PutU16(occ.Min)
		w.PutU16(occ.Max)
	}

	outTypes := strictenc.SortedKeys(n.OwnedRightsOut)
	w.PutLen(len(outTypes), strictenc.MaxSmall)
	for _, t := range outTypes {
		occ := n.OwnedRightsOut[t]
		w.PutU16(uint16(t))
		w.PutU16(occ.Min)
		w.PutU16(occ.Max)
	}

	pubInTypes := strictenc.SortedKeys(n.PublicRightsIn)
	w.PutLen(len(pubInTypes), strictenc.MaxSmall)
	for _, t := range pubInTypes {
		w.PutU16(uint16(t))
	}

	pubTypes := strictenc.SortedKeys(n.PublicRights)
	w.PutLen(len(pubTypes), strictenc.MaxSmall)
	for _, t := range pubTypes {
		w.PutU16(uint16(t))
	}

	return w.Bytes()
}

// DecodeNodeSchemaFrom reads a NodeSchema off a shared Reader.
func DecodeNodeSchemaFrom(r *strictenc.Reader) (NodeSchema, error) {
	var out NodeSchema

	metaCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return NodeSchema{}, err
	}
	out.MetadataFields = make(map[idtypes.FieldType]Occurrences, metaCount)
	var prevField idtypes.FieldType
	haveField := false
	for i := uint64(0); i < metaCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return NodeSchema{}, err
		}
		t := idtypes.FieldType(tb)
		if err := strictenc.CheckAscendingNoDup(prevField, haveField, t); err != nil {
			return NodeSchema{}, err
		}
		prevField, haveField = t, true
		min, err := r.U16()
		if err != nil {
			return NodeSchema{}, err
		}
		max, err := r.U16()
		if err != nil {
			return NodeSchema{}, err
		}
		out.MetadataFields[t] = Occurrences{Min: min, Max: max}
	}

	readRightOccurrences := func() (map[idtypes.OwnedRightType]Occurrences, error) {
		n, err := r.Len(strictenc.MaxSmall)
		if err != nil {
			return nil, err
		}
		m := make(map[idtypes.OwnedRightType]Occurrences, n)
		var prev idtypes.OwnedRightType
		have := false
		for i := uint64(0); i < n; i++ {
			tb, err := r.U16()
			if err != nil {
				return nil, err
			}
			t := idtypes.OwnedRightType(tb)
			if err := strictenc.CheckAscendingNoDup(prev, have, t); err != nil {
				return nil, err
			}
			prev, have = t, true
			min, err := r.U16()
			if err != nil {
				return nil, err
			}
			max, err := r.U16()
			if err != nil {
				return nil, err
			}
			m[t] = Occurrences{Min: min, Max: max}
		}
		return m, nil
	}

	if out.OwnedRightsIn, err = readRightOccurrences(); err != nil {
		return NodeSchema{}, err
	}
	if out.OwnedRightsOut, err = readRightOccurrences(); err != nil {
		return NodeSchema{}, err
	}

	pubInCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return NodeSchema{}, err
	}
	out.PublicRightsIn = make(map[idtypes.PublicRightType]struct{}, pubInCount)
	var prevPubIn idtypes.PublicRightType
	havePubIn := false
	for i := uint64(0); i < pubInCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return NodeSchema{}, err
		}
		t := idtypes.PublicRightType(tb)
		if err := strictenc.CheckAscendingNoDup(prevPubIn, havePubIn, t); err != nil {
			return NodeSchema{}, err
		}
		prevPubIn, havePubIn = t, true
		out.PublicRightsIn[t] = struct{}{}
	}

	pubCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return NodeSchema{}, err
	}
	out.PublicRights = make(map[idtypes.PublicRightType]struct{}, pubCount)
	var prevPub idtypes.PublicRightType
	havePub := false
	for i := uint64(0); i < pubCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return NodeSchema{}, err
		}
		t := idtypes.PublicRightType(tb)
		if err := strictenc.CheckAscendingNoDup(prevPub, havePub, t); err != nil {
			return NodeSchema{}, err
		}
		prevPub, havePub = t, true
		out.PublicRights[t] = struct{}{}
	}

	return out, nil
}

func (s Schema) StrictEncode() []byte {
	w := strictenc.NewWriter(256)

	fieldTypes := strictenc.SortedKeys(s.FieldTypes)
	w.PutLen(len(fieldTypes), strictenc.MaxSmall)
	for _, t := range fieldTypes {
		fs := s.FieldTypes[t]
		w.PutU16(uint16(t))
		w.PutBytes(fs.SemId[:])
		w.PutU16(fs.Occurrences.Min)
		w.PutU16(fs.Occurrences.Max)
	}

	rightTypes := strictenc.SortedKeys(s.OwnedRightTypes)
	w.PutLen(len(rightTypes), strictenc.MaxSmall)
	for _, t := range rightTypes {
		ss := s.OwnedRightTypes[t]
		w.PutU16(uint16(t))
		w.PutU8(uint8(ss.Strategy))
		w.PutU8(ss.Format)
		w.PutBytes(ss.SemId[:])
	}

	pubTypes := strictenc.SortedKeys(s.PublicRightTypes)
	w.PutLen(len(pubTypes), strictenc.MaxSmall)
	for _, t := range pubTypes {
		w.PutU16(uint16(t))
	}

	w.PutBounded(s.GenesisSchema.StrictEncode(), strictenc.MaxMedium)

	transitionTypes := strictenc.SortedKeys(s.TransitionSchemas)
	w.PutLen(len(transitionTypes), strictenc.MaxSmall)
	for _, t := range transitionTypes {
		w.PutU16(uint16(t))
		w.PutBounded(s.TransitionSchemas[t].StrictEncode(), strictenc.MaxMedium)
	}

	extensionTypes := strictenc.SortedKeys(s.ExtensionSchemas)
	w.PutLen(len(extensionTypes), strictenc.MaxSmall)
	for _, t := range extensionTypes {
		w.PutU16(uint16(t))
		w.PutBounded(s.ExtensionSchemas[t].StrictEncode(), strictenc.MaxMedium)
	}

	w.PutBounded(s.ScriptLibrary, strictenc.MaxMedium)
	return w.Bytes()
}

// DecodeSchema parses a strict-encoded Schema.
func DecodeSchema(b []byte) (Schema, error) {
	r := strictenc.NewReader(b)
	var s Schema

	fieldCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return Schema{}, err
	}
	s.FieldTypes = make(map[idtypes.FieldType]FieldSchema, fieldCount)
	var prevField idtypes.FieldType
	haveField := false
	for i := uint64(0); i < fieldCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		t := idtypes.FieldType(tb)
		if err := strictenc.CheckAscendingNoDup(prevField, haveField, t); err != nil {
			return Schema{}, err
		}
		prevField, haveField = t, true
		semIdBytes, err := r.Bytes(32)
		if err != nil {
			return Schema{}, err
		}
		min, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		max, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		var semId idtypes.SchemaId
		copy(semId[:], semIdBytes)
		s.FieldTypes[t] = FieldSchema{SemId: semId, Occurrences: Occurrences{Min: min, Max: max}}
	}

	rightCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return Schema{}, err
	}
	s.OwnedRightTypes = make(map[idtypes.OwnedRightType]StateSchema, rightCount)
	var prevRight idtypes.OwnedRightType
	haveRight := false
	for i := uint64(0); i < rightCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		t := idtypes.OwnedRightType(tb)
		if err := strictenc.CheckAscendingNoDup(prevRight, haveRight, t); err != nil {
			return Schema{}, err
		}
		prevRight, haveRight = t, true
		strategy, err := r.U8()
		if err != nil {
			return Schema{}, err
		}
		format, err := r.U8()
		if err != nil {
			return Schema{}, err
		}
		semIdBytes, err := r.Bytes(32)
		if err != nil {
			return Schema{}, err
		}
		var semId idtypes.SchemaId
		copy(semId[:], semIdBytes)
		s.OwnedRightTypes[t] = StateSchema{Strategy: StrategyTag(strategy), Format: format, SemId: semId}
	}

	pubCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return Schema{}, err
	}
	s.PublicRightTypes = make(map[idtypes.PublicRightType]struct{}, pubCount)
	var prevPub idtypes.PublicRightType
	havePub := false
	for i := uint64(0); i < pubCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		t := idtypes.PublicRightType(tb)
		if err := strictenc.CheckAscendingNoDup(prevPub, havePub, t); err != nil {
			return Schema{}, err
		}
		prevPub, havePub = t, true
		s.PublicRightTypes[t] = struct{}{}
	}

	genesisBytes, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Schema{}, err
	}
	genesisReader := strictenc.NewReader(genesisBytes)
	s.GenesisSchema, err = DecodeNodeSchemaFrom(genesisReader)
	if err != nil {
		return Schema{}, err
	}
	if err := genesisReader.Done(); err != nil {
		return Schema{}, err
	}

	transitionCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return Schema{}, err
	}
	s.TransitionSchemas = make(map[idtypes.TransitionType]NodeSchema, transitionCount)
	var prevTransition idtypes.TransitionType
	haveTransition := false
	for i := uint64(0); i < transitionCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		t := idtypes.TransitionType(tb)
		if err := strictenc.CheckAscendingNoDup(prevTransition, haveTransition, t); err != nil {
			return Schema{}, err
		}
		prevTransition, haveTransition = t, true
		nsBytes, err := r.Bounded(strictenc.MaxMedium)
		if err != nil {
			return Schema{}, err
		}
		nsReader := strictenc.NewReader(nsBytes)
		ns, err := DecodeNodeSchemaFrom(nsReader)
		if err != nil {
			return Schema{}, err
		}
		if err := nsReader.Done(); err != nil {
			return Schema{}, err
		}
		s.TransitionSchemas[t] = ns
	}

	extensionCount, err := r.Len(strictenc.MaxSmall)
	if err != nil {
		return Schema{}, err
	}
	s.ExtensionSchemas = make(map[idtypes.ExtensionType]NodeSchema, extensionCount)
	var prevExtension idtypes.ExtensionType
	haveExtension := false
	for i := uint64(0); i < extensionCount; i++ {
		tb, err := r.U16()
		if err != nil {
			return Schema{}, err
		}
		t := idtypes.ExtensionType(tb)
		if err := strictenc.CheckAscendingNoDup(prevExtension, haveExtension, t); err != nil {
			return Schema{}, err
		}
		prevExtension, haveExtension = t, true
		nsBytes, err := r.Bounded(strictenc.MaxMedium)
		if err != nil {
			return Schema{}, err
		}
		nsReader := strictenc.NewReader(nsBytes)
		ns, err := DecodeNodeSchemaFrom(nsReader)
		if err != nil {
			return Schema{}, err
		}
		if err := nsReader.Done(); err != nil {
			return Schema{}, err
		}
		s.ExtensionSchemas[t] = ns
	}

	scriptLib, err := r.Bounded(strictenc.MaxMedium)
	if err != nil {
		return Schema{}, err
	}
	s.ScriptLibrary = scriptLib

	if err := r.Done(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// SchemaId computes the commitment identity of this schema (spec §3).
func (s Schema) SchemaId() idtypes.SchemaId {
	return idtypes.SchemaId(commit.CommitStrict(schemaTag, s.StrictEncode()))
}
