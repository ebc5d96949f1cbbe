package symbolic

import "github.com/borzacchiello/symex/ast"

// processSimplification is the pure simplification pipeline: (1) run the
// registered SYMBOLIC_SIMPLIFICATION callbacks in order, each feeding the
// next; (2) if useExternal and an external simplifier is wired, round-trip
// the result through it; (3) re-intern the final node. It never mutates
// node itself.
func (e *Engine) processSimplification(node ast.AbstractNode, useExternal bool) (ast.AbstractNode, error) {
	result := node

	if e.cb != nil {
		simplified, err := e.cb.ProcessSimplification(result)
		if err != nil {
			return nil, err
		}
		result = simplified
	}

	if useExternal && e.solv != nil {
		simplified, err := e.solv(result)
		if err != nil {
			return nil, err
		}
		result = simplified
	}

	return e.eb.RecordAstNode(result), nil
}
