package symex

import (
	"math/big"
	"testing"

	"github.com/borzacchiello/symex/arch"
)

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	f, err := New(Options{Architecture: arch.ArchX86_64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.Init()
	return f
}

// A full mov lifter call: rbx is unbound, so its concrete value is read,
// and the write binds rax symbolically and records one output expression
// on the instruction.
func TestProcessMovRegisterToRegister(t *testing.T) {
	f := newTestFacade(t)
	f.CPU().WriteRegister(arch.RBX, big.NewInt(0x42))

	inst := NewInstruction(0x1000, "mov", RegOperand(arch.RAX), RegOperand(arch.RBX))
	ok, err := f.Process(inst)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !ok {
		t.Fatalf("expected Process to report success")
	}

	if len(inst.SymbolicExpressions()) != 1 {
		t.Fatalf("expected one output expression")
	}
	regs := f.Symbolic().GetSymbolicRegisters()
	if _, ok := regs[arch.RAX]; !ok {
		t.Fatalf("expected rax to be bound symbolically")
	}
}

func TestProcessAddPropagatesTaint(t *testing.T) {
	f := newTestFacade(t)
	f.Taint().TaintRegister(arch.RBX)

	inst := NewInstruction(0x1000, "add", RegOperand(arch.RAX), RegOperand(arch.RBX))
	if _, err := f.Process(inst); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !f.Taint().IsRegisterTainted(arch.RAX) {
		t.Fatalf("expected rax to become tainted from a tainted rbx operand")
	}
	tainted := f.GetTaintedSymbolicExpressions()
	if len(tainted) != 1 {
		t.Fatalf("expected exactly one tainted symbolic expression, got %d", len(tainted))
	}
}

func TestProcessCmpThenConditionalBranchRecordsPathConstraint(t *testing.T) {
	f := newTestFacade(t)

	cmp := NewInstruction(0x2000, "cmp", RegOperand(arch.RAX), ImmOperand(0, 64))
	if _, err := f.Process(cmp); err != nil {
		t.Fatalf("Process(cmp): %v", err)
	}

	jz := NewInstruction(0x2004, "jz", ImmOperand(0x3000, 64))
	if _, err := f.Process(jz); err != nil {
		t.Fatalf("Process(jz): %v", err)
	}

	pcs := f.Symbolic().PathConstraints()
	if len(pcs) != 1 {
		t.Fatalf("expected one path constraint, got %d", len(pcs))
	}
	if pcs[0].InstructionAddress != 0x2004 {
		t.Fatalf("expected the path constraint to be tagged with the branch address")
	}
}
