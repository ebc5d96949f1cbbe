package symbolic

import "github.com/borzacchiello/symex/arch"

// snapshot is a single backup slot: a shallow-copied-but-independent view
// of every table the engine mutates, including path constraints, since the
// façade's restore semantics are defined to undo branching decisions too.
type snapshot struct {
	memMap map[uint64]uint64
	regMap map[arch.RegisterID]uint64

	exprs      map[uint64]*SymbolicExpression
	nextExprID uint64

	vars       map[uint64]*SymbolicVariable
	varsByName map[string]uint64
	nextVarID  uint64

	pathConstraints []PathConstraint

	alignedWrites map[alignedKey]alignedBinding
}

// BackupSymbolicEngine snapshots all engine state into the single backup
// slot, overwriting any previous backup, and transitions the state to
// BackedUp.
func (e *Engine) BackupSymbolicEngine() {
	snap := &snapshot{
		memMap:          make(map[uint64]uint64, len(e.memMap)),
		regMap:          make(map[arch.RegisterID]uint64, len(e.regMap)),
		exprs:           make(map[uint64]*SymbolicExpression, len(e.exprs)),
		nextExprID:      e.nextExprID,
		vars:            make(map[uint64]*SymbolicVariable, len(e.vars)),
		varsByName:      make(map[string]uint64, len(e.varsByName)),
		nextVarID:       e.nextVarID,
		pathConstraints: make([]PathConstraint, len(e.pathConstraints)),
		alignedWrites:   make(map[alignedKey]alignedBinding, len(e.alignedWrites)),
	}
	for k, v := range e.memMap {
		snap.memMap[k] = v
	}
	for k, v := range e.regMap {
		snap.regMap[k] = v
	}
	for k, v := range e.exprs {
		snap.exprs[k] = v
	}
	for k, v := range e.vars {
		snap.vars[k] = v
	}
	for k, v := range e.varsByName {
		snap.varsByName[k] = v
	}
	copy(snap.pathConstraints, e.pathConstraints)
	for k, v := range e.alignedWrites {
		snap.alignedWrites[k] = v
	}

	e.backup = snap
	e.state = BackedUp
}

// RestoreSymbolicEngine restores the state captured by the last
// BackupSymbolicEngine call. It is a no-op if no backup exists.
func (e *Engine) RestoreSymbolicEngine() {
	if e.backup == nil {
		return
	}
	snap := e.backup
	e.memMap = snap.memMap
	e.regMap = snap.regMap
	e.exprs = snap.exprs
	e.nextExprID = snap.nextExprID
	e.vars = snap.vars
	e.varsByName = snap.varsByName
	e.nextVarID = snap.nextVarID
	e.pathConstraints = snap.pathConstraints
	e.alignedWrites = snap.alignedWrites

	e.backup = nil
	e.state = Running
}
