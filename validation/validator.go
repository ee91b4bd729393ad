package validation

import (
	"fmt"
	"sort"

	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/operation"
	"rgbcore.dev/core/schema"
	"rgbcore.dev/core/seal"
	"rgbcore.dev/core/state"
)

// Validator runs the graph-walking validation algorithm against a
// Consignment (spec §4.7). It holds no mutable state between runs: each
// Validate call is an independent, single-threaded, purely functional pass.
type Validator struct {
	Resolver SealResolver
	Anchors  AnchorVerifier
	Scripts  ScriptEngine
}

// Validate executes the full seven-step algorithm and returns the
// aggregated Status (spec §4.7). Failures on one branch never stop
// traversal of the rest of the graph.
func (v Validator) Validate(c Consignment) *Status {
	status := NewStatus()

	sch, ok := c.schema()
	if !ok {
		status.AddFailure(Failure{Kind: SchemaNotFound, NodeId: c.Genesis.NodeId()})
		return status
	}

	// Step 1: genesis check.
	genesisID := c.Genesis.NodeId()
	if genesisID != c.ContractId.NodeId() {
		status.AddFailure(Failure{Kind: ContractIdMismatch, NodeId: genesisID})
	}
	genesisOp := operation.FromGenesis(c.Genesis)
	status.Merge(v.validateNodeSchema(genesisOp, sch.GenesisSchema, sch))

	// Step 2: topological walk — deterministic breadth-first from genesis,
	// siblings ordered by NodeId ascending (spec §4.7 "ordering").
	reachable := map[idtypes.NodeId]operation.Operation{genesisID: genesisOp}
	order := v.topoOrder(c, reachable, status)

	// Step 6 for genesis: it has no parents, so only its own entry point runs.
	status.Merge(v.validateScript(sch, genesisOp, reachable))

	// Steps 3-6 per reachable non-genesis node, in deterministic order.
	for _, id := range order {
		op := reachable[id]
		var nodeSchema schema.NodeSchema
		switch op.Kind {
		case operation.KindTransition:
			tt, _ := op.TransitionType()
			ns, ok := sch.TransitionSchemas[tt]
			if !ok {
				status.AddFailure(Failure{Kind: SchemaNotFound, NodeId: id})
				continue
			}
			nodeSchema = ns
		case operation.KindExtension:
			et, _ := op.ExtensionType()
			ns, ok := sch.ExtensionSchemas[et]
			if !ok {
				status.AddFailure(Failure{Kind: SchemaNotFound, NodeId: id})
				continue
			}
			nodeSchema = ns
		}

		status.Merge(v.validateNodeSchema(op, nodeSchema, sch))
		status.Merge(v.validateParentRefs(op, reachable))
		status.Merge(v.validateSealWitness(c, op))
		// Step 6: custom business-logic validation (spec §4.7 step 6, §6).
		status.Merge(v.validateScript(sch, op, reachable))
	}

	return status
}

// validateScript dispatches a node to the schema's declared ScriptEngine
// entry point, passing the node's own encoding and its parents' encodings
// as context (spec §4.7 step 6). A schema with no ScriptLibrary, or a
// Validator with no Scripts engine wired, has nothing to run.
func (v Validator) validateScript(sch schema.Schema, op operation.Operation, reachable map[idtypes.NodeId]operation.Operation) *Status {
	status := NewStatus()
	if v.Scripts == nil || len(sch.ScriptLibrary) == 0 {
		return status
	}

	nodeID := op.NodeId()
	result, err := v.Scripts.Run(ScriptContext{
		EntryPoint: sch.ScriptLibrary,
		Self:       op.StrictEncode(),
		Parents:    v.parentOperationBytes(op, reachable),
	})
	if err != nil {
		status.AddFailure(Failure{Kind: ScriptFailure, NodeId: nodeID, Detail: err.Error()})
		return status
	}
	if result != 0 {
		status.AddFailure(Failure{Kind: ScriptFailure, NodeId: nodeID, Detail: fmt.Sprintf("entry point returned %d", result)})
	}
	return status
}

// parentOperationBytes gathers the strict encoding of every distinct
// reachable parent of op, ordered by NodeId ascending, for ScriptContext
// (spec §4.7 step 6).
func (v Validator) parentOperationBytes(op operation.Operation, reachable map[idtypes.NodeId]operation.Operation) [][]byte {
	seen := make(map[idtypes.NodeId]struct{})
	for parentID := range op.ParentOwnedRights() {
		seen[parentID] = struct{}{}
	}
	for parentID := range op.ParentPublicRights() {
		seen[parentID] = struct{}{}
	}
	ids := make([]idtypes.NodeId, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessNodeID(ids[i], ids[j]) })

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		if parent, ok := reachable[id]; ok {
			out = append(out, parent.StrictEncode())
		}
	}
	return out
}

// topoOrder resolves every operation whose parents are already reachable,
// repeating fixed-point style until no more become reachable; anything
// left over references a parent absent from the consignment (spec §4.7
// step 2, §8 scenario 5 "dangling parent").
func (v Validator) topoOrder(c Consignment, reachable map[idtypes.NodeId]operation.Operation, status *Status) []idtypes.NodeId {
	pending := make(map[idtypes.NodeId]operation.Operation, len(c.Operations))
	for id, op := range c.Operations {
		pending[id] = op
	}

	var order []idtypes.NodeId
	for {
		var ready []idtypes.NodeId
		for id, op := range pending {
			if parentsResolved(op, reachable) {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			break
		}
		sort.Slice(ready, func(i, j int) bool { return lessNodeID(ready[i], ready[j]) })
		for _, id := range ready {
			reachable[id] = pending[id]
			delete(pending, id)
			order = append(order, id)
		}
	}

	// Whatever never resolved references an unknown or unreachable parent.
	leftover := make([]idtypes.NodeId, 0, len(pending))
	for id := range pending {
		leftover = append(leftover, id)
	}
	sort.Slice(leftover, func(i, j int) bool { return lessNodeID(leftover[i], leftover[j]) })
	for _, id := range leftover {
		status.AddFailure(Failure{Kind: UnknownParent, NodeId: id})
	}

	return order
}

func parentsResolved(op operation.Operation, reachable map[idtypes.NodeId]operation.Operation) bool {
	for parentID := range op.ParentOwnedRights() {
		if _, ok := reachable[parentID]; !ok {
			return false
		}
	}
	for parentID := range op.ParentPublicRights() {
		if _, ok := reachable[parentID]; !ok {
			return false
		}
	}
	return true
}

func lessNodeID(a, b idtypes.NodeId) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// validateNodeSchema checks metadata/owned-right/public-right cardinality
// against the declared node schema, then dispatches each owned-right
// type's assignments to validateState (spec §4.7 steps 3-4).
func (v Validator) validateNodeSchema(op operation.Operation, ns schema.NodeSchema, sch schema.Schema) *Status {
	status := NewStatus()
	nodeID := op.NodeId()

	for ft, occ := range ns.MetadataFields {
		n := len(op.Metadata()[ft])
		if !occ.Check(n) {
			status.AddFailure(Failure{Kind: FieldCardinalityOutOfBounds, NodeId: nodeID})
		}
	}

	rights := op.OwnedRights()
	for ty, occ := range ns.OwnedRightsOut {
		n := rights[ty].Len()
		if !occ.Check(n) {
			status.AddFailure(Failure{
				Kind: RightCardinalityOutOfBounds, NodeId: nodeID,
				AssignmentId: ty, HasAssignment: true,
			})
		}
	}

	if len(ns.OwnedRightsIn) > 0 {
		inputCounts := make(map[idtypes.OwnedRightType]int)
		for _, out := range op.ParentOutputs() {
			inputCounts[out.Type]++
		}
		for ty, occ := range ns.OwnedRightsIn {
			if !occ.Check(inputCounts[ty]) {
				status.AddFailure(Failure{
					Kind: RightCardinalityOutOfBounds, NodeId: nodeID,
					AssignmentId: ty, HasAssignment: true,
				})
			}
		}
	}

	for _, ty := range op.OwnedRightTypes() {
		ss, ok := sch.OwnedRightTypes[ty]
		if !ok {
			status.AddFailure(Failure{
				Kind: UnknownOwnedRightType, NodeId: nodeID,
				AssignmentId: ty, HasAssignment: true,
			})
			continue
		}
		status.Merge(validateState(ss, nodeID, ty, rights[ty]))
	}

	for _, ty := range op.PublicRightTypes() {
		if _, ok := sch.PublicRightTypes[ty]; !ok {
			status.AddFailure(Failure{Kind: UnknownPublicRightType, NodeId: nodeID})
		}
	}

	if len(ns.PublicRightsIn) > 0 {
		for _, ty := range op.ParentPublicRightTypes() {
			if _, ok := ns.PublicRightsIn[ty]; !ok {
				status.AddFailure(Failure{Kind: UnknownPublicRightType, NodeId: nodeID})
			}
		}
	}

	return status
}

// validateParentRefs checks that each referenced parent output index and
// owned-right type actually exists on the parent (spec §4.7 step 3).
func (v Validator) validateParentRefs(op operation.Operation, reachable map[idtypes.NodeId]operation.Operation) *Status {
	status := NewStatus()
	nodeID := op.NodeId()

	for parentID, byType := range op.ParentOwnedRights() {
		parent, ok := reachable[parentID]
		if !ok {
			continue // already reported by topoOrder
		}
		parentRights := parent.OwnedRights()
		for ty, nos := range byType {
			ta, ok := parentRights[ty]
			if !ok {
				status.AddFailure(Failure{
					Kind: ParentOutputTypeMismatch, NodeId: nodeID,
					AssignmentId: ty, HasAssignment: true,
				})
				continue
			}
			for _, no := range nos {
				if int(no) >= ta.Len() {
					status.AddFailure(Failure{
						Kind: ParentOutputIndexOutOfRange, NodeId: nodeID,
						AssignmentId: ty, HasAssignment: true,
					})
				}
			}
		}
	}

	for parentID, types := range op.ParentPublicRights() {
		parent, ok := reachable[parentID]
		if !ok {
			continue
		}
		parentPublic := parent.PublicRights()
		for _, t := range types {
			if _, ok := parentPublic[t]; !ok {
				status.AddFailure(Failure{Kind: UnknownPublicRightType, NodeId: nodeID})
			}
		}
	}

	return status
}

// validateSealWitness confirms, for each parent owned-right this node
// consumes, that the parent's seal at that index is closed by a confirmed
// witness transaction embedding this node's commitment (spec §4.7 step 5).
func (v Validator) validateSealWitness(c Consignment, op operation.Operation) *Status {
	status := NewStatus()
	nodeID := op.NodeId()

	if len(op.ParentOwnedRights()) == 0 {
		return status
	}

	anchor, ok := c.Anchors[nodeID]
	if !ok {
		status.AddFailure(Failure{Kind: WitnessUnresolved, NodeId: nodeID})
		return status
	}

	if v.Resolver != nil {
		res := v.Resolver.Resolve(anchor.WitnessID)
		switch res.State {
		case WitnessConfirmed:
			// proceed
		case WitnessMempool:
			status.AddWarning(Warning{Kind: WitnessInMempool, NodeId: nodeID})
		default:
			status.AddFailure(Failure{Kind: WitnessUnresolved, NodeId: nodeID})
			return status
		}
	}

	layer := c.contractLayer()
	for parentID, byType := range op.ParentOwnedRights() {
		parent, ok := c.Operations[parentID]
		if parentID == c.Genesis.NodeId() {
			parent = operation.FromGenesis(c.Genesis)
			ok = true
		}
		if !ok {
			continue
		}
		parentRights := parent.OwnedRights()
		for ty, nos := range byType {
			ta, ok := parentRights[ty]
			if !ok {
				continue
			}
			for _, no := range nos {
				r, err := assignmentRevealedSeal(ta, no)
				if err != nil {
					status.AddFailure(Failure{
						Kind: ConfidentialSealData, NodeId: nodeID,
						AssignmentId: ty, HasAssignment: true,
					})
					continue
				}
				if _, err := seal.TryToOutputSeal(r, layer, anchor.WitnessID); err != nil {
					status.AddFailure(Failure{
						Kind: SealLayerMismatch, NodeId: nodeID,
						AssignmentId: ty, HasAssignment: true,
						Detail: err.Error(),
					})
				}
			}
		}
	}

	if v.Anchors != nil {
		commitment := [32]byte(nodeID)
		if !v.Anchors.Verify(anchor.Proof, anchor.WitnessID.Txid(), commitment) {
			status.AddFailure(Failure{Kind: AnchorInvalid, NodeId: nodeID})
		}
	}

	return status
}

func assignmentRevealedSeal(ta state.TypedAssignments, no uint16) (seal.Revealed, error) {
	for _, entry := range ta.RevealedSealOutputs() {
		if entry.No == no {
			return entry.Seal, nil
		}
	}
	return seal.Revealed{}, seal.ConfidentialDataError{}
}
