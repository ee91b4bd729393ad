package validation

import (
	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/schema"
	"rgbcore.dev/core/state"
)

// validateState dispatches assignments to the strategy the schema declares
// for this owned-right type (spec §4.6 "StateSchema::validate", §9
// "strategy-indexed tagged union" — no runtime downcasting, a mismatch is
// simply an unreachable switch arm).
func validateState(ss schema.StateSchema, nodeID idtypes.NodeId, assignmentID idtypes.OwnedRightType, ta state.TypedAssignments) *Status {
	st := NewStatus()

	wantStrategy := stateStrategyFor(ss.Strategy)
	if ta.Strategy != wantStrategy {
		st.AddFailure(Failure{
			Kind: SchemaMismatchedStateType, NodeId: nodeID,
			AssignmentId: assignmentID, HasAssignment: true,
		})
		return st
	}

	switch ss.Strategy {
	case schema.StrategyDeclarative, schema.StrategyAttachment:
		// type-match only; nothing further to check (spec §4.4 table).
	case schema.StrategyArithmetic:
		for _, a := range ta.Arithmetic {
			if a.Kind.StateRevealed() {
				continue
			}
			if err := a.ConfState.VerifyRangeProof(); err != nil {
				st.AddFailure(Failure{
					Kind: InvalidBulletproofs, NodeId: nodeID,
					AssignmentId: assignmentID, HasAssignment: true,
					Detail: err.Error(),
				})
			}
		}
	case schema.StrategyStructured:
		for _, a := range ta.Structured {
			if a.Kind.StateRevealed() {
				st.AddInfo(Info{
					Kind: StrictTypeValidationUnimplemented, NodeId: nodeID,
					AssignmentId: assignmentID,
				})
			} else {
				st.AddInfo(Info{
					Kind: UncheckableConfidentialStateData, NodeId: nodeID,
					AssignmentId: assignmentID,
				})
			}
		}
	}
	return st
}

func stateStrategyFor(s schema.StrategyTag) state.Strategy {
	switch s {
	case schema.StrategyDeclarative:
		return state.Declarative
	case schema.StrategyArithmetic:
		return state.Arithmetic
	case schema.StrategyStructured:
		return state.Structured
	case schema.StrategyAttachment:
		return state.Attachment
	default:
		return state.Declarative
	}
}
