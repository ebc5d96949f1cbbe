package ast

import (
	"fmt"
	"io"
	"runtime"
)

// AbstractNode is the AST node handle exposed to the rest of the façade.
// It is satisfied by both *BVExprPtr and *BoolExprPtr.
type AbstractNode = ExprPtr

func wrapInternal(eb *ExprBuilder, e internalExpr) AbstractNode {
	if bv, ok := e.(internalBVExpr); ok {
		return eb.getOrCreateBV(bv)
	}
	if b, ok := e.(internalBoolExpr); ok {
		return eb.getOrCreateBool(b)
	}
	panic("wrapInternal(): unknown internal expression kind")
}

// RecordAstNode interns n, returning either n itself (first time a
// structurally-equal node is seen) or the existing canonical representative.
// Idempotent: RecordAstNode(RecordAstNode(n)) == RecordAstNode(n).
func (eb *ExprBuilder) RecordAstNode(n AbstractNode) AbstractNode {
	return wrapInternal(eb, n.getInternal())
}

// ExtractUniqueAstNodes performs a post-order traversal of root, returning
// each distinct node (by identity) exactly once.
func (eb *ExprBuilder) ExtractUniqueAstNodes(root AbstractNode) []AbstractNode {
	visited := make(map[uintptr]bool)
	order := make([]AbstractNode, 0)

	var visit func(internalExpr)
	visit = func(e internalExpr) {
		if visited[e.rawPtr()] {
			return
		}
		visited[e.rawPtr()] = true
		for _, c := range e.subexprs() {
			visit(c)
		}
		order = append(order, wrapInternal(eb, e))
	}
	visit(root.getInternal())
	return order
}

// FreeAstNodes releases nodes from the dictionary ahead of garbage
// collection: for each node it runs the finalizer now, dropping that
// node's one dictionary reference, and a cache entry is removed once its
// reference count reaches zero.
func (eb *ExprBuilder) FreeAstNodes(nodes []AbstractNode) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *BVExprPtr:
			runtime.SetFinalizer(v, nil)
			eb.bvFinalizer(v)
		case *BoolExprPtr:
			runtime.SetFinalizer(v, nil)
			eb.boolFinalizer(v)
		}
	}
}

// FreeAllAstNodes tears down the whole dictionary.
func (eb *ExprBuilder) FreeAllAstNodes() {
	eb.lock.Lock()
	defer eb.lock.Unlock()
	eb.bvcache = map[uint64][]bvexpr{}
	eb.boolcache = map[uint64][]boolexpr{}
	eb.Stats = ExprBuilderStats{}
}

// GetAllocatedAstNodes returns every node currently held live in the
// dictionary, across both the bitvector and boolean caches.
func (eb *ExprBuilder) GetAllocatedAstNodes() []AbstractNode {
	eb.lock.RLock()
	defer eb.lock.RUnlock()

	nodes := make([]AbstractNode, 0)
	for _, bucket := range eb.bvcache {
		for i := range bucket {
			nodes = append(nodes, &BVExprPtr{bucket[i].exp})
		}
	}
	for _, bucket := range eb.boolcache {
		for i := range bucket {
			nodes = append(nodes, &BoolExprPtr{bucket[i].exp})
		}
	}
	return nodes
}

// SetAllocatedAstNodes replaces the live dictionary wholesale, used when
// restoring a previously captured snapshot.
func (eb *ExprBuilder) SetAllocatedAstNodes(nodes []AbstractNode) {
	eb.FreeAllAstNodes()
	for _, n := range nodes {
		eb.RecordAstNode(n)
	}
}

// RecordVariableAstNode binds name to node in the variable registry.
// Rebinding an existing name overwrites the previous binding.
func (eb *ExprBuilder) RecordVariableAstNode(name string, node AbstractNode) {
	eb.varLock.Lock()
	defer eb.varLock.Unlock()
	eb.variables[name] = node
}

// GetAstVariableNode returns the node currently bound to name, if any.
func (eb *ExprBuilder) GetAstVariableNode(name string) (AbstractNode, bool) {
	eb.varLock.RLock()
	defer eb.varLock.RUnlock()
	n, ok := eb.variables[name]
	return n, ok
}

// GetAstVariableNodes returns a copy of the whole variable registry.
func (eb *ExprBuilder) GetAstVariableNodes() map[string]AbstractNode {
	eb.varLock.RLock()
	defer eb.varLock.RUnlock()
	out := make(map[string]AbstractNode, len(eb.variables))
	for k, v := range eb.variables {
		out[k] = v
	}
	return out
}

// SetAstVariableNodes replaces the variable registry wholesale.
func (eb *ExprBuilder) SetAstVariableNodes(vars map[string]AbstractNode) {
	eb.varLock.Lock()
	defer eb.varLock.Unlock()
	eb.variables = make(map[string]AbstractNode, len(vars))
	for k, v := range vars {
		eb.variables[k] = v
	}
}

// AstDictionariesStats reports dictionary occupancy, the structured
// counterpart of PrintStats.
func (eb *ExprBuilder) AstDictionariesStats() ExprBuilderStats {
	eb.lock.RLock()
	defer eb.lock.RUnlock()
	return eb.Stats
}

// BVVFromConst wraps an already-built BVConst as a constant bitvector node,
// without the int64 round trip BVV(val int64, ...) forces a caller to go
// through. Needed for constants wider than 64 bits (register containers,
// e.g. the 512-bit AVX state) where the value is only available as a
// *big.Int and would be silently truncated by a cast to int64.
func (eb *ExprBuilder) BVVFromConst(c *BVConst) *BVExprPtr {
	return eb.getOrCreateBV(mkinternalBVVFromConst(*c))
}

// BrowseAstDictionaries returns, for each node kind currently interned, how
// many distinct nodes of that kind are live.
func (eb *ExprBuilder) BrowseAstDictionaries() map[int]int {
	eb.lock.RLock()
	defer eb.lock.RUnlock()

	counts := make(map[int]int)
	for _, bucket := range eb.bvcache {
		for i := range bucket {
			counts[bucket[i].exp.kind()]++
		}
	}
	for _, bucket := range eb.boolcache {
		for i := range bucket {
			counts[bucket[i].exp.kind()]++
		}
	}
	return counts
}

// AstRepresentationMode selects the textual formatter used by
// PrintAstRepresentation.
type AstRepresentationMode int

const (
	ReprSMT AstRepresentationMode = iota
	ReprPython
)

func (eb *ExprBuilder) SetAstRepresentationMode(mode AstRepresentationMode) {
	eb.reprMode = mode
}

func (eb *ExprBuilder) GetAstRepresentationMode() AstRepresentationMode {
	return eb.reprMode
}

// PrintAstRepresentation writes node to w in the builder's current
// representation mode.
func (eb *ExprBuilder) PrintAstRepresentation(w io.Writer, node AbstractNode) error {
	switch eb.reprMode {
	case ReprSMT:
		_, err := io.WriteString(w, toSMTLIB(node.getInternal()))
		return err
	case ReprPython:
		_, err := io.WriteString(w, node.getInternal().String())
		return err
	default:
		return fmt.Errorf("PrintAstRepresentation(): unknown representation mode %d", eb.reprMode)
	}
}

// toSMTLIB renders an internal node as an SMT-LIB2 s-expression, mirroring
// the opcode set z3backend.convert translates into z3 terms.
func toSMTLIB(e internalExpr) string {
	nary := func(op string, children []internalExpr) string {
		s := "(" + op
		for _, c := range children {
			s += " " + toSMTLIB(c)
		}
		return s + ")"
	}

	switch e.kind() {
	case TY_SYM:
		return e.(*internalBVS).name
	case TY_CONST:
		v := e.(*internalBVV)
		return fmt.Sprintf("(_ bv%s %d)", v.Value.value.String(), v.Value.Size)
	case TY_BOOL_CONST:
		if e.(*internalBoolVal).Value.Value {
			return "true"
		}
		return "false"
	case TY_EXTRACT:
		v := e.(*internalBVExprExtract)
		return fmt.Sprintf("((_ extract %d %d) %s)", v.high, v.low, toSMTLIB(v.child.e))
	case TY_CONCAT:
		v := e.(*internalBVExprConcat)
		children := make([]internalExpr, len(v.children))
		for i, c := range v.children {
			children[i] = c.e
		}
		return nary("concat", children)
	case TY_ZEXT:
		v := e.(*internalBVExprExtend)
		return fmt.Sprintf("((_ zero_extend %d) %s)", v.n, toSMTLIB(v.child.e))
	case TY_SEXT:
		v := e.(*internalBVExprExtend)
		return fmt.Sprintf("((_ sign_extend %d) %s)", v.n, toSMTLIB(v.child.e))
	case TY_ITE:
		v := e.(*internalBVExprITE)
		return fmt.Sprintf("(ite %s %s %s)", toSMTLIB(v.cond.e), toSMTLIB(v.iftrue.e), toSMTLIB(v.iffalse.e))
	case TY_NOT:
		return nary("bvnot", []internalExpr{e.(*internalBVExprUnArithmetic).child.e})
	case TY_NEG:
		return nary("bvneg", []internalExpr{e.(*internalBVExprUnArithmetic).child.e})
	case TY_BOOL_NOT:
		return nary("not", []internalExpr{e.(*internalBoolUnArithmetic).child.e})
	}

	opNames := map[int]string{
		TY_SHL: "bvshl", TY_LSHR: "bvlshr", TY_ASHR: "bvashr",
		TY_AND: "bvand", TY_OR: "bvor", TY_XOR: "bvxor",
		TY_ADD: "bvadd", TY_MUL: "bvmul",
		TY_SDIV: "bvsdiv", TY_UDIV: "bvudiv", TY_SREM: "bvsrem", TY_UREM: "bvurem",
	}
	if op, ok := opNames[e.kind()]; ok {
		v := e.(*internalBVExprBinArithmetic)
		children := make([]internalExpr, len(v.children))
		for i, c := range v.children {
			children[i] = c.e
		}
		return nary(op, children)
	}

	cmpNames := map[int]string{
		TY_ULT: "bvult", TY_ULE: "bvule", TY_UGT: "bvugt", TY_UGE: "bvuge",
		TY_SLT: "bvslt", TY_SLE: "bvsle", TY_SGT: "bvsgt", TY_SGE: "bvsge",
		TY_EQ: "=",
	}
	if op, ok := cmpNames[e.kind()]; ok {
		v := e.(*internalBoolExprCmp)
		return nary(op, []internalExpr{v.lhs.e, v.rhs.e})
	}

	switch e.kind() {
	case TY_BOOL_AND:
		v := e.(*internalBoolExprNaryOp)
		children := make([]internalExpr, len(v.children))
		for i, c := range v.children {
			children[i] = c.e
		}
		return nary("and", children)
	case TY_BOOL_OR:
		v := e.(*internalBoolExprNaryOp)
		children := make([]internalExpr, len(v.children))
		for i, c := range v.children {
			children[i] = c.e
		}
		return nary("or", children)
	}

	panic("toSMTLIB(): unknown node kind")
}
