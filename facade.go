// Package symex is a dynamic binary analysis façade composing concrete
// execution, symbolic execution and bit-granular taint propagation behind
// one session object. Disassembly and per-opcode lifting are external
// collaborators; this package specifies their contracts and ships a small
// representative lifter set to exercise the pipeline end to end.
package symex

import (
	"context"
	"fmt"

	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/callbacks"
	"github.com/borzacchiello/symex/symbolic"
	"github.com/borzacchiello/symex/taint"
)

// State mirrors the symbolic engine's lifecycle; the façade drives both the
// symbolic and taint engines through it in lockstep.
type State int

const (
	Uninitialised State = iota
	Initialised
	TornDown
)

// Options configures a session at construction time: a small option
// struct taking Go values, matching the teacher's constructor-argument
// convention rather than a config file.
type Options struct {
	Architecture  arch.ID
	Optimizations map[symbolic.Optimization]bool
}

// Facade is a single analysis session: CPU state, the symbolic engine, the
// taint engine and the callback dispatcher, plus a Z3-backed solver exposed
// directly for constraint solving. The symbolic engine's external
// simplifier is wired to an identity function: it returns its input
// unchanged and performs no SMT round trip.
type Facade struct {
	state State

	a   *arch.Arch
	cpu *arch.State
	cb  *callbacks.Registry
	sym *symbolic.Engine
	tnt *taint.Engine
	slv *ast.Solver
}

// New constructs an uninitialised façade for the given architecture.
func New(opts Options) (*Facade, error) {
	var a *arch.Arch
	switch opts.Architecture {
	case arch.ArchX86_64, arch.ArchInvalid:
		a = arch.NewX86_64()
	default:
		return nil, fmt.Errorf("%w: %v", arch.ErrUnsupportedArchitecture, opts.Architecture)
	}

	cpu := arch.NewState(a)
	cb := callbacks.NewRegistry()
	sym := symbolic.NewEngine(a, cpu, cb)
	tnt := taint.NewEngine(a)
	slv := ast.NewZ3Solver(sym.Builder())

	sym.SetExternalSimplifier(func(n ast.AbstractNode) (ast.AbstractNode, error) {
		return n, nil
	})

	f := &Facade{a: a, cpu: cpu, cb: cb, sym: sym, tnt: tnt, slv: slv}
	for opt, enabled := range opts.Optimizations {
		sym.SetOptimization(opt, enabled)
	}
	return f, nil
}

// Init transitions the session UNINITIALISED -> INITIALISED, bringing the
// symbolic engine up with it.
func (f *Facade) Init() {
	f.sym.Init()
	f.state = Initialised
}

// Reset clears all architecture, symbolic and taint state, keeping the
// session INITIALISED.
func (f *Facade) Reset() {
	f.cpu.Clear()
	f.sym.Reset()
	f.tnt.Reset()
	f.slv = ast.NewZ3Solver(f.sym.Builder())
}

// Remove tears the session down; no further operations are valid.
func (f *Facade) Remove() {
	f.sym.Remove()
	f.state = TornDown
}

func (f *Facade) Architecture() *arch.Arch   { return f.a }
func (f *Facade) CPU() *arch.State           { return f.cpu }
func (f *Facade) Callbacks() *callbacks.Registry { return f.cb }
func (f *Facade) Symbolic() *symbolic.Engine { return f.sym }
func (f *Facade) Taint() *taint.Engine       { return f.tnt }
func (f *Facade) Solver() *ast.Solver        { return f.slv }

// CheckSat solves query against the accumulated path condition, respecting
// ctx's cancellation.
func (f *Facade) CheckSat(ctx context.Context, query *ast.BoolExprPtr) int {
	return f.slv.CheckSatContext(ctx, query)
}

// GetTaintedSymbolicExpressions filters every symbolic expression recorded
// this session down to those whose destination is currently tainted. A
// direct composition of the symbolic and taint engines that neither leaf
// package can express without importing the other.
func (f *Facade) GetTaintedSymbolicExpressions() []*symbolic.SymbolicExpression {
	all := f.sym.Expressions()
	out := make([]*symbolic.SymbolicExpression, 0, len(all))
	for _, expr := range all {
		switch expr.Dest.Kind {
		case symbolic.DestRegister:
			if f.tnt.IsRegisterTainted(expr.Dest.Reg) {
				out = append(out, expr)
			}
		case symbolic.DestMemory:
			if f.tnt.IsMemoryTainted(expr.Dest.Addr, expr.Dest.Size) {
				out = append(out, expr)
			}
		}
	}
	return out
}
