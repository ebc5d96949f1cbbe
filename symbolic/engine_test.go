package symbolic

import (
	"math/big"
	"testing"

	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/callbacks"
)

type fakeSink struct {
	outputs []*SymbolicExpression
	inputs  []ast.AbstractNode
}

func (s *fakeSink) AddSymbolicExpression(e *SymbolicExpression) { s.outputs = append(s.outputs, e) }
func (s *fakeSink) MarkInputOperand(n ast.AbstractNode)         { s.inputs = append(s.inputs, n) }

func newTestEngine() (*Engine, *arch.Arch, *arch.State) {
	a := arch.NewX86_64()
	cpu := arch.NewState(a)
	cb := callbacks.NewRegistry()
	e := NewEngine(a, cpu, cb)
	e.Init()
	return e, a, cpu
}

// literal scenario 1: writing EAX (bits 31:0) on x86_64 zero-extends into
// RAX's upper 32 bits.
func TestSubRegisterWriteZeroExtends(t *testing.T) {
	e, _, cpu := newTestEngine()
	cpu.WriteRegister(arch.RAX, big.NewInt(0).SetUint64(0xffffffffffffffff))

	node := e.Builder().BVV(0x11223344, 32)
	sink := &fakeSink{}
	expr, err := e.CreateSymbolicRegisterExpression(sink, node, arch.EAX, "mov eax, imm")
	if err != nil {
		t.Fatalf("CreateSymbolicRegisterExpression: %v", err)
	}
	if expr.Node.(*ast.BVExprPtr).Size() != 64 {
		t.Fatalf("expected a 64-bit bound node, got %d", expr.Node.(*ast.BVExprPtr).Size())
	}
	c, err := expr.Node.(*ast.BVExprPtr).GetConst()
	if err != nil {
		t.Fatalf("GetConst: %v", err)
	}
	if c.AsULong() != 0x11223344 {
		t.Fatalf("expected rax == 0x11223344, got 0x%x", c.AsULong())
	}
	if len(sink.outputs) != 1 {
		t.Fatalf("expected one output expression recorded on the sink")
	}
}

// literal scenario 2: a 4-byte memory read after a 4-byte write reassembles
// the bytes little-endian.
func TestMultiByteMemoryRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine()
	node := e.Builder().BVV(0xdeadbeef, 32)
	if _, err := e.CreateSymbolicMemoryExpression(nil, node, 0x1000, 4, "store"); err != nil {
		t.Fatalf("CreateSymbolicMemoryExpression: %v", err)
	}

	read, err := e.BuildSymbolicMemory(0x1000, 4)
	if err != nil {
		t.Fatalf("BuildSymbolicMemory: %v", err)
	}
	c, err := read.GetConst()
	if err != nil {
		t.Fatalf("GetConst: %v", err)
	}
	if c.AsULong() != 0xdeadbeef {
		t.Fatalf("expected 0xdeadbeef, got 0x%x", c.AsULong())
	}
}

// literal scenario 6: path constraints accumulate in order and clear
// independently of every other piece of engine state.
func TestPathConstraintsAccumulateAndClear(t *testing.T) {
	e, _, _ := newTestEngine()
	x := e.Builder().BVS("x", 32)
	zero := e.Builder().BVV(0, 32)
	taken, _ := e.Builder().Eq(x, zero)
	notTaken, _ := e.Builder().BoolNot(taken)

	e.AddPathConstraint(0x400000, taken, notTaken)
	e.AddPathConstraint(0x400010, notTaken, taken)

	if len(e.PathConstraints()) != 2 {
		t.Fatalf("expected 2 path constraints")
	}
	conj, err := e.GetPathConstraintsAst()
	if err != nil {
		t.Fatalf("GetPathConstraintsAst: %v", err)
	}
	if conj == nil {
		t.Fatalf("expected a non-nil conjunction")
	}

	e.ClearPathConstraints()
	if len(e.PathConstraints()) != 0 {
		t.Fatalf("expected path constraints to be cleared")
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine()
	node := e.Builder().BVV(1, 64)
	if _, err := e.CreateSymbolicRegisterExpression(nil, node, arch.RAX, "seed"); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	e.BackupSymbolicEngine()
	if e.State() != BackedUp {
		t.Fatalf("expected state BackedUp")
	}

	node2 := e.Builder().BVV(2, 64)
	if _, err := e.CreateSymbolicRegisterExpression(nil, node2, arch.RAX, "clobber"); err != nil {
		t.Fatalf("clobbering write: %v", err)
	}

	e.RestoreSymbolicEngine()
	if e.State() != Running {
		t.Fatalf("expected state Running after restore")
	}
	exprID := e.GetSymbolicRegisters()[arch.RAX]
	expr, err := e.GetSymbolicExpressionFromId(exprID)
	if err != nil {
		t.Fatalf("GetSymbolicExpressionFromId: %v", err)
	}
	c, err := expr.Node.(*ast.BVExprPtr).GetConst()
	if err != nil {
		t.Fatalf("GetConst: %v", err)
	}
	if c.AsULong() != 1 {
		t.Fatalf("expected restored rax == 1, got %d", c.AsULong())
	}
}

func TestConvertExpressionToSymbolicVariableRebindsDestinations(t *testing.T) {
	e, _, _ := newTestEngine()
	node := e.Builder().BVV(42, 64)
	expr, err := e.CreateSymbolicRegisterExpression(nil, node, arch.RAX, "seed")
	if err != nil {
		t.Fatalf("seed write: %v", err)
	}

	v, err := e.ConvertExpressionToSymbolicVariable(expr.ID, 64, "user input")
	if err != nil {
		t.Fatalf("ConvertExpressionToSymbolicVariable: %v", err)
	}
	if !v.Origin.HasOrigin || v.Origin.Register != arch.RAX {
		t.Fatalf("expected origin to record the RAX destination")
	}

	newID := e.GetSymbolicRegisters()[arch.RAX]
	if newID == expr.ID {
		t.Fatalf("expected regMap to be rebound to a new expression id")
	}
	newExpr, err := e.GetSymbolicExpressionFromId(newID)
	if err != nil {
		t.Fatalf("GetSymbolicExpressionFromId: %v", err)
	}
	if _, isConst := newExpr.Node.(*ast.BVExprPtr); !isConst {
		t.Fatalf("expected the rebound node to still be a bitvector node")
	}
	if newExpr.Node.(*ast.BVExprPtr).IsConst() {
		t.Fatalf("expected the rebound node to be a free variable, not a constant")
	}
}
