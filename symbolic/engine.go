package symbolic

import (
	"fmt"

	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/callbacks"
)

// ExternalSimplifier is the second stage of the simplification pipeline: a
// function from AST to AST. The façade wires an identity function that
// returns its input unchanged; the symbolic engine only depends on the
// function shape.
type ExternalSimplifier func(ast.AbstractNode) (ast.AbstractNode, error)

// Engine is the symbolic engine: register/memory -> expression-id maps,
// the expression and variable tables, path constraints, and one backup
// slot, all built on top of an ast.ExprBuilder.
type Engine struct {
	state State

	eb   *ast.ExprBuilder
	a    *arch.Arch
	cpu  *arch.State
	cb   *callbacks.Registry
	solv ExternalSimplifier

	memMap map[uint64]uint64          // address -> expression id
	regMap map[arch.RegisterID]uint64 // parent register id -> expression id

	exprs      map[uint64]*SymbolicExpression
	nextExprID uint64

	vars      map[uint64]*SymbolicVariable
	varsByName map[string]uint64
	nextVarID uint64

	pathConstraints []PathConstraint

	optimizations map[Optimization]bool

	// alignedWrites remembers the full, unsplit node produced by the most
	// recent aligned multi-byte write at an address, keyed by
	// (address, size), to support the AlignedMemory optimisation. It is
	// kept separate from exprs/memMap, which only ever hold single-byte
	// nodes: the full node belongs to no one byte and must never be
	// written into a byte expression's Node field.
	alignedWrites map[alignedKey]alignedBinding

	backup *snapshot
}

type alignedKey struct {
	addr uint64
	size uint
}

// alignedBinding pairs the expression id of the last byte of an aligned
// write (used to detect when that byte is later converted to a fresh
// symbolic variable, invalidating the binding) with the full multi-byte
// node the write produced.
type alignedBinding struct {
	lastByteID uint64
	node       *ast.BVExprPtr
}

func NewEngine(a *arch.Arch, cpu *arch.State, cb *callbacks.Registry) *Engine {
	return &Engine{
		state:         Uninitialised,
		eb:            ast.NewExprBuilder(),
		a:             a,
		cpu:           cpu,
		cb:            cb,
		memMap:        make(map[uint64]uint64),
		regMap:        make(map[arch.RegisterID]uint64),
		exprs:         make(map[uint64]*SymbolicExpression),
		vars:          make(map[uint64]*SymbolicVariable),
		varsByName:    make(map[string]uint64),
		optimizations: defaultOptimizations(),
		alignedWrites: make(map[alignedKey]alignedBinding),
	}
}

func defaultOptimizations() map[Optimization]bool {
	return map[Optimization]bool{
		AstDictionaries:  true,
		AlignedMemory:    false,
		OnlyOnTainted:    false,
		OnlyOnSymbolized: false,
	}
}

// SetExternalSimplifier wires an optional external simplifier into the
// simplification pipeline's second stage.
func (e *Engine) SetExternalSimplifier(s ExternalSimplifier) {
	e.solv = s
}

func (e *Engine) Builder() *ast.ExprBuilder { return e.eb }

// Init transitions the engine UNINITIALISED -> INITIALISED.
func (e *Engine) Init() {
	e.state = Initialised
}

// Reset clears all engine state but keeps it INITIALISED.
func (e *Engine) Reset() {
	e.eb = ast.NewExprBuilder()
	e.memMap = make(map[uint64]uint64)
	e.regMap = make(map[arch.RegisterID]uint64)
	e.exprs = make(map[uint64]*SymbolicExpression)
	e.nextExprID = 0
	e.vars = make(map[uint64]*SymbolicVariable)
	e.varsByName = make(map[string]uint64)
	e.nextVarID = 0
	e.pathConstraints = nil
	e.alignedWrites = make(map[alignedKey]alignedBinding)
	e.backup = nil
	e.state = Initialised
}

// Remove tears the engine down; no further operations are valid.
func (e *Engine) Remove() {
	e.state = TornDown
}

func (e *Engine) checkSymbolic() error {
	if e.state == Uninitialised || e.state == TornDown {
		return fmt.Errorf("%w (state=%v)", ErrSymbolicEngineNotInitialised, e.state)
	}
	return nil
}

func (e *Engine) State() State { return e.state }

// SetOptimization toggles one optimisation flag.
func (e *Engine) SetOptimization(opt Optimization, enabled bool) {
	e.optimizations[opt] = enabled
	if opt == AstDictionaries {
		e.eb.SetInterningEnabled(enabled)
	}
}

func (e *Engine) IsOptimizationEnabled(opt Optimization) bool {
	return e.optimizations[opt]
}

// GetSymbolicExpressionFromId looks an expression up by id.
func (e *Engine) GetSymbolicExpressionFromId(id uint64) (*SymbolicExpression, error) {
	expr, ok := e.exprs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSymbolicExpressionId, id)
	}
	return expr, nil
}

// GetSymbolicRegisters returns a copy of the parent-register -> expression
// id map.
func (e *Engine) GetSymbolicRegisters() map[arch.RegisterID]uint64 {
	out := make(map[arch.RegisterID]uint64, len(e.regMap))
	for k, v := range e.regMap {
		out[k] = v
	}
	return out
}

// GetSymbolicMemory returns a copy of the address -> expression id map.
func (e *Engine) GetSymbolicMemory() map[uint64]uint64 {
	out := make(map[uint64]uint64, len(e.memMap))
	for k, v := range e.memMap {
		out[k] = v
	}
	return out
}

// Expressions returns every symbolic expression created this session, in
// id order.
func (e *Engine) Expressions() []*SymbolicExpression {
	out := make([]*SymbolicExpression, 0, len(e.exprs))
	for i := uint64(0); i < e.nextExprID; i++ {
		if expr, ok := e.exprs[i]; ok {
			out = append(out, expr)
		}
	}
	return out
}
