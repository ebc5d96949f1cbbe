// Package symbolic implements the symbolic engine: it maps registers and
// memory bytes to symbolic expression ids, builds per-operand symbolic
// operands, creates named expressions/variables, records path constraints,
// and runs the simplification pipeline. It composes the ast, arch and
// callbacks packages the way Triton's own symbolic engine composes the AST
// context, CPU state and callback dispatcher.
package symbolic

import (
	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
)

// Origin tags where a SymbolicExpression's value came from.
type Origin int

const (
	OriginUndef Origin = iota
	OriginMemory
	OriginRegister
	OriginVolatile
)

// VariableOrigin records where a SymbolicVariable came from when it was
// introduced via concretisation, rather than as a fresh free input.
type VariableOrigin struct {
	HasOrigin bool
	Address   uint64
	Register  arch.RegisterID
}

// SymbolicVariable is a free bit-vector introduced into the AST to stand
// for an unknown input.
type SymbolicVariable struct {
	ID      uint64
	Name    string
	Size    uint
	Comment string
	Origin  VariableOrigin
}

// DestinationKind distinguishes what a SymbolicExpression is bound to.
type DestinationKind int

const (
	DestNone DestinationKind = iota
	DestRegister
	DestMemory
)

// Destination identifies the register or memory range a SymbolicExpression
// is currently bound to; DestNone expressions are volatile.
type Destination struct {
	Kind DestinationKind
	Reg  arch.RegisterID
	Addr uint64
	Size uint
}

// SymbolicExpression is an append-only, uniquely-id'd AST root with an
// origin tag and, for non-volatile expressions, a destination.
type SymbolicExpression struct {
	ID      uint64
	Node    ast.AbstractNode
	Origin  Origin
	Dest    Destination
	Comment string
	Tainted bool
}

// PathConstraint is one branch point recorded along the trace: the
// predicate of the direction actually taken, and the predicate of the
// direction not taken.
type PathConstraint struct {
	InstructionAddress uint64
	Taken              *ast.BoolExprPtr
	Alternative        *ast.BoolExprPtr
}

// Optimization is one of the individually-toggleable engine optimisation
// flags.
type Optimization int

const (
	// AstDictionaries gates hash-consing in the underlying ast.ExprBuilder.
	// Disabling it stops structurally equal nodes from being unified into
	// one cached representative, so every expression construction call
	// allocates its own node. Nodes built while it is disabled are not
	// added to the dictionary, so BrowseAstDictionaries and
	// AstDictionariesStats do not count them.
	AstDictionaries Optimization = iota
	// AlignedMemory short-circuits N-byte reads where a contiguous
	// expression at the same address already exists from a previous
	// aligned write of the same size.
	AlignedMemory
	// OnlyOnTainted names the option of skipping symbolic expression
	// creation when no input to the instruction is tainted. The flag is
	// stored and reported by IsOptimizationEnabled; nothing in this module
	// reads it, so expressions are created whether or not it is set.
	OnlyOnTainted
	// OnlyOnSymbolized names the option of skipping symbolic expression
	// creation when no input to the instruction is already symbolised
	// (purely-concrete instructions). The flag is stored and reported by
	// IsOptimizationEnabled; nothing in this module reads it, so
	// expressions are created whether or not it is set.
	OnlyOnSymbolized
)

// State is the symbolic engine's lifecycle state machine.
type State int

const (
	Uninitialised State = iota
	Initialised
	Running
	BackedUp
	TornDown
)

// InstructionSink receives the symbolic expressions createSymbolic*
// attaches to an instruction's output list. The façade's Instruction type
// implements this; the symbolic engine only depends on the interface so it
// never imports the façade package.
type InstructionSink interface {
	AddSymbolicExpression(*SymbolicExpression)
	MarkInputOperand(ast.AbstractNode)
}
