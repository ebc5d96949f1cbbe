package symex

import (
	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/symbolic"
)

// OperandKind tags what an Operand refers to.
type OperandKind int

const (
	OperandImmediate OperandKind = iota
	OperandRegister
	OperandMemory
)

// Immediate is a constant operand.
type Immediate struct {
	Value int64
	Size  uint
}

// Register is a register operand, identified by architecture register id.
type Register struct {
	ID arch.RegisterID
}

// MemoryAccess is a memory operand: a byte address and access width.
type MemoryAccess struct {
	Address uint64
	Size    uint
}

// Operand is one decoded instruction operand, exactly one of Imm/Reg/Mem
// populated according to Kind.
type Operand struct {
	Kind OperandKind
	Imm  Immediate
	Reg  Register
	Mem  MemoryAccess
}

func ImmOperand(value int64, size uint) Operand {
	return Operand{Kind: OperandImmediate, Imm: Immediate{Value: value, Size: size}}
}
func RegOperand(r arch.RegisterID) Operand {
	return Operand{Kind: OperandRegister, Reg: Register{ID: r}}
}
func MemOperand(addr uint64, size uint) Operand {
	return Operand{Kind: OperandMemory, Mem: MemoryAccess{Address: addr, Size: size}}
}

// Instruction is the disassembler's contract: an address, mnemonic and
// operand list filled in externally, with symbolic inputs/outputs
// accumulated as the façade processes it. It implements
// symbolic.InstructionSink so the symbolic engine can attach its outputs
// without importing this package.
type Instruction struct {
	Address  uint64
	Mnemonic string
	Operands []Operand

	symbolicInputs  []ast.AbstractNode
	symbolicOutputs []*symbolic.SymbolicExpression
	tainted         bool
}

func NewInstruction(addr uint64, mnemonic string, operands ...Operand) *Instruction {
	return &Instruction{Address: addr, Mnemonic: mnemonic, Operands: operands}
}

// AddSymbolicExpression implements symbolic.InstructionSink.
func (i *Instruction) AddSymbolicExpression(e *symbolic.SymbolicExpression) {
	i.symbolicOutputs = append(i.symbolicOutputs, e)
	if e.Tainted {
		i.tainted = true
	}
}

// MarkInputOperand implements symbolic.InstructionSink.
func (i *Instruction) MarkInputOperand(n ast.AbstractNode) {
	i.symbolicInputs = append(i.symbolicInputs, n)
}

func (i *Instruction) SymbolicInputs() []ast.AbstractNode { return i.symbolicInputs }
func (i *Instruction) SymbolicExpressions() []*symbolic.SymbolicExpression {
	return i.symbolicOutputs
}
func (i *Instruction) IsTainted() bool { return i.tainted }
