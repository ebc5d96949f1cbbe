package symbolic

import "github.com/borzacchiello/symex/ast"

// AddPathConstraint appends one branch point to the path constraint list:
// taken is the predicate of the direction actually followed at
// instAddress, alternative is the predicate of the direction not taken.
func (e *Engine) AddPathConstraint(instAddress uint64, taken, alternative *ast.BoolExprPtr) {
	e.pathConstraints = append(e.pathConstraints, PathConstraint{
		InstructionAddress: instAddress,
		Taken:              taken,
		Alternative:        alternative,
	})
}

// PathConstraints returns a copy of the recorded path constraints, in the
// order they were added.
func (e *Engine) PathConstraints() []PathConstraint {
	out := make([]PathConstraint, len(e.pathConstraints))
	copy(out, e.pathConstraints)
	return out
}

// GetPathConstraintsAst conjuncts every taken predicate recorded so far
// into a single boolean node. With no path constraint recorded it returns
// the constant true, the empty conjunction.
func (e *Engine) GetPathConstraintsAst() (*ast.BoolExprPtr, error) {
	if len(e.pathConstraints) == 0 {
		return e.eb.BoolVal(true), nil
	}
	conj := e.pathConstraints[0].Taken
	for _, pc := range e.pathConstraints[1:] {
		var err error
		conj, err = e.eb.BoolAnd(conj, pc.Taken)
		if err != nil {
			return nil, err
		}
	}
	return conj, nil
}

// ClearPathConstraints empties the path constraint list, keeping every
// other piece of engine state intact.
func (e *Engine) ClearPathConstraints() {
	e.pathConstraints = nil
}
