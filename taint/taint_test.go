package taint

import (
	"testing"

	"github.com/borzacchiello/symex/arch"
)

func TestTaintMonotonicity(t *testing.T) {
	e := NewEngine(arch.NewX86_64())
	e.TaintRegister(arch.RAX)
	if !e.IsRegisterTainted(arch.RAX) {
		t.Errorf("expected RAX tainted")
	}
	e.UntaintRegister(arch.RAX)
	if e.IsRegisterTainted(arch.RAX) {
		t.Errorf("expected RAX untainted")
	}
}

func TestTaintRegisterAtParentGranularity(t *testing.T) {
	e := NewEngine(arch.NewX86_64())
	e.TaintRegister(arch.EAX)
	if !e.IsRegisterTainted(arch.RAX) {
		t.Errorf("tainting EAX should taint parent RAX")
	}
}

func TestTaintUnionAssignmentSemantics(t *testing.T) {
	e := NewEngine(arch.NewX86_64())
	e.TaintRegister(arch.RAX)

	r2Tainted := e.TaintAssignment(RegisterOperand(arch.RBX), RegisterOperand(arch.RAX))
	if !r2Tainted || !e.IsRegisterTainted(arch.RBX) {
		t.Errorf("expected RBX tainted after assignment from tainted RAX")
	}

	r2After := e.TaintAssignment(RegisterOperand(arch.RBX), ImmediateOperand())
	if r2After || e.IsRegisterTainted(arch.RBX) {
		t.Errorf("expected RBX untainted after assignment from immediate")
	}
}

func TestTaintAssignmentImmediateAlwaysFalse(t *testing.T) {
	e := NewEngine(arch.NewX86_64())
	e.TaintRegister(arch.RCX)
	if got := e.TaintAssignment(RegisterOperand(arch.RCX), ImmediateOperand()); got {
		t.Errorf("taintAssignmentRegisterImmediate should always return false, got %v", got)
	}
}

func TestTaintUnionImmediateEqualsPriorState(t *testing.T) {
	e := NewEngine(arch.NewX86_64())
	e.TaintRegister(arch.RDX)
	before := e.IsRegisterTainted(arch.RDX)
	got := e.TaintUnion(RegisterOperand(arch.RDX), ImmediateOperand())
	if got != before {
		t.Errorf("taintUnionRegisterImmediate should equal prior state")
	}
}

func TestMemoryTaintByteGranularity(t *testing.T) {
	e := NewEngine(arch.NewX86_64())
	e.TaintMemory(0x1000, 1)
	if !e.IsMemoryTainted(0x1000, 1) {
		t.Errorf("expected byte 0x1000 tainted")
	}
	if e.IsMemoryTainted(0x1001, 1) {
		t.Errorf("expected byte 0x1001 untainted")
	}
}
