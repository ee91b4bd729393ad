// Package validation implements the operation-graph validation engine:
// graph traversal, per-node schema checks, seal-witness resolution, and
// Status aggregation (spec §4.7).
package validation

import (
	"fmt"

	"rgbcore.dev/core/idtypes"
)

// FailureKind enumerates every reason a node or assignment can fail
// validation (spec §7 SchemaViolation/SealError/WitnessError/ScriptFailure/
// ConsignmentError taxonomy, folded into one discriminated Failure type).
type FailureKind string

const (
	SchemaMismatchedStateType FailureKind = "SCHEMA_MISMATCHED_STATE_TYPE"
	InvalidBulletproofs       FailureKind = "INVALID_BULLETPROOFS"
	FieldCardinalityOutOfBounds FailureKind = "FIELD_CARDINALITY_OUT_OF_BOUNDS"
	RightCardinalityOutOfBounds FailureKind = "RIGHT_CARDINALITY_OUT_OF_BOUNDS"
	UnknownFieldType          FailureKind = "UNKNOWN_FIELD_TYPE"
	UnknownOwnedRightType     FailureKind = "UNKNOWN_OWNED_RIGHT_TYPE"
	UnknownPublicRightType    FailureKind = "UNKNOWN_PUBLIC_RIGHT_TYPE"
	ParentOutputIndexOutOfRange FailureKind = "PARENT_OUTPUT_INDEX_OUT_OF_RANGE"
	SealLayerMismatch         FailureKind = "SEAL_LAYER_MISMATCH"
	ConfidentialSealData      FailureKind = "CONFIDENTIAL_SEAL_DATA"
	WitnessUnresolved         FailureKind = "WITNESS_UNRESOLVED"
	AnchorInvalid             FailureKind = "ANCHOR_INVALID"
	ScriptFailure             FailureKind = "SCRIPT_FAILURE"
	UnknownParent             FailureKind = "UNKNOWN_PARENT"
	GenesisMismatch           FailureKind = "GENESIS_MISMATCH"
	ContractIdMismatch        FailureKind = "CONTRACT_ID_MISMATCH"
	SchemaNotFound            FailureKind = "SCHEMA_NOT_FOUND"
	ParentOutputTypeMismatch  FailureKind = "PARENT_OUTPUT_TYPE_MISMATCH"
)

// Failure is one validation failure, always attributed to the node (and,
// where applicable, the owned-right type) it pertains to (spec §4.7
// "tie-breaks", §7 "every entry carries the node_id, assignment_id").
type Failure struct {
	Kind         FailureKind
	NodeId       idtypes.NodeId
	AssignmentId idtypes.OwnedRightType
	HasAssignment bool
	Detail       string
}

func (f Failure) Error() string {
	if f.HasAssignment {
		return fmt.Sprintf("%s: node %s assignment %d: %s", f.Kind, f.NodeId, f.AssignmentId, f.Detail)
	}
	return fmt.Sprintf("%s: node %s: %s", f.Kind, f.NodeId, f.Detail)
}

// InfoKind enumerates non-fatal informational entries (spec §4.6).
type InfoKind string

const (
	UncheckableConfidentialStateData InfoKind = "UNCHECKABLE_CONFIDENTIAL_STATE_DATA"
	StrictTypeValidationUnimplemented InfoKind = "STRICT_TYPE_VALIDATION_UNIMPLEMENTED"
)

type Info struct {
	Kind         InfoKind
	NodeId       idtypes.NodeId
	AssignmentId idtypes.OwnedRightType
	Detail       string
}

// WarningKind enumerates non-fatal warnings the validator can surface.
type WarningKind string

const (
	WitnessInMempool WarningKind = "WITNESS_IN_MEMPOOL"
)

type Warning struct {
	Kind   WarningKind
	NodeId idtypes.NodeId
	Detail string
}

// Status accumulates every failure, warning and info produced across a
// validation run; failures never stop traversal of sibling branches (spec
// §4.7 "aggregation").
type Status struct {
	Failures []Failure
	Warnings []Warning
	Infos    []Info
}

func NewStatus() *Status { return &Status{} }

func (s *Status) AddFailure(f Failure) { s.Failures = append(s.Failures, f) }
func (s *Status) AddWarning(w Warning) { s.Warnings = append(s.Warnings, w) }
func (s *Status) AddInfo(i Info)       { s.Infos = append(s.Infos, i) }

// Merge appends another status's entries onto s.
func (s *Status) Merge(other *Status) {
	if other == nil {
		return
	}
	s.Failures = append(s.Failures, other.Failures...)
	s.Warnings = append(s.Warnings, other.Warnings...)
	s.Infos = append(s.Infos, other.Infos...)
}

// IsValid reports whether no failures were recorded (spec §7, §8).
func (s *Status) IsValid() bool { return len(s.Failures) == 0 }
