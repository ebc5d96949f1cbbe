// Package taint implements bit-granular taint propagation over registers
// (tracked at parent-register granularity) and memory (tracked per byte).
// The set representation follows the sparse map-of-struct{} style used for
// tainted-node tracking elsewhere in this corpus, simplified here to plain
// maps rather than sync.Map since the façade's concurrency model is
// single-threaded cooperative.
package taint

import "github.com/borzacchiello/symex/arch"

// OperandKind distinguishes the three operand shapes the propagation
// primitives dispatch on.
type OperandKind int

const (
	KindImmediate OperandKind = iota
	KindRegister
	KindMemory
)

// Operand is the minimal shape taintUnion/taintAssignment need to dispatch:
// a kind tag plus either a register id or a memory range.
type Operand struct {
	Kind OperandKind
	Reg  arch.RegisterID
	Addr uint64
	Size uint
}

func RegisterOperand(r arch.RegisterID) Operand { return Operand{Kind: KindRegister, Reg: r} }
func MemoryOperand(addr uint64, size uint) Operand {
	return Operand{Kind: KindMemory, Addr: addr, Size: size}
}
func ImmediateOperand() Operand { return Operand{Kind: KindImmediate} }

// Engine tracks tainted registers (whole parent-register identities) and
// tainted memory bytes.
type Engine struct {
	a                *arch.Arch
	taintedRegisters map[arch.RegisterID]struct{}
	taintedMemory    map[uint64]struct{}
}

func NewEngine(a *arch.Arch) *Engine {
	return &Engine{
		a:                a,
		taintedRegisters: make(map[arch.RegisterID]struct{}),
		taintedMemory:    make(map[uint64]struct{}),
	}
}

func (e *Engine) Reset() {
	e.taintedRegisters = make(map[arch.RegisterID]struct{})
	e.taintedMemory = make(map[uint64]struct{})
}

// --- primitive queries ---

func (e *Engine) IsRegisterTainted(r arch.RegisterID) bool {
	parent := e.a.Parent(r)
	_, ok := e.taintedRegisters[parent]
	return ok
}

func (e *Engine) IsMemoryTainted(addr uint64, size uint) bool {
	for i := uint64(0); i < uint64(size); i++ {
		if _, ok := e.taintedMemory[addr+i]; ok {
			return true
		}
	}
	return false
}

// IsTainted dispatches by operand kind; immediates are never tainted.
func (e *Engine) IsTainted(op Operand) bool {
	switch op.Kind {
	case KindRegister:
		return e.IsRegisterTainted(op.Reg)
	case KindMemory:
		size := op.Size
		if size == 0 {
			size = 1
		}
		return e.IsMemoryTainted(op.Addr, size)
	default:
		return false
	}
}

// --- primitive setters ---

func (e *Engine) SetTaintRegister(r arch.RegisterID, tainted bool) bool {
	parent := e.a.Parent(r)
	if tainted {
		e.taintedRegisters[parent] = struct{}{}
	} else {
		delete(e.taintedRegisters, parent)
	}
	return tainted
}

func (e *Engine) SetTaintMemory(addr uint64, size uint, tainted bool) bool {
	for i := uint64(0); i < uint64(size); i++ {
		if tainted {
			e.taintedMemory[addr+i] = struct{}{}
		} else {
			delete(e.taintedMemory, addr+i)
		}
	}
	return tainted
}

func (e *Engine) TaintRegister(r arch.RegisterID) bool   { return e.SetTaintRegister(r, true) }
func (e *Engine) UntaintRegister(r arch.RegisterID) bool { return e.SetTaintRegister(r, false) }
func (e *Engine) TaintMemory(addr uint64, size uint) bool {
	return e.SetTaintMemory(addr, size, true)
}
func (e *Engine) UntaintMemory(addr uint64, size uint) bool {
	return e.SetTaintMemory(addr, size, false)
}

// TaintedRegisters returns the set of currently tainted parent-register
// identities.
func (e *Engine) TaintedRegisters() []arch.RegisterID {
	out := make([]arch.RegisterID, 0, len(e.taintedRegisters))
	for r := range e.taintedRegisters {
		out = append(out, r)
	}
	return out
}

// TaintedMemory returns the set of currently tainted byte addresses.
func (e *Engine) TaintedMemory() []uint64 {
	out := make([]uint64, 0, len(e.taintedMemory))
	for a := range e.taintedMemory {
		out = append(out, a)
	}
	return out
}

func (e *Engine) destTaint(dst Operand) bool {
	switch dst.Kind {
	case KindRegister:
		return e.IsRegisterTainted(dst.Reg)
	case KindMemory:
		size := dst.Size
		if size == 0 {
			size = 1
		}
		return e.IsMemoryTainted(dst.Addr, size)
	default:
		return false
	}
}

func (e *Engine) setDestTaint(dst Operand, tainted bool) bool {
	switch dst.Kind {
	case KindRegister:
		return e.SetTaintRegister(dst.Reg, tainted)
	case KindMemory:
		size := dst.Size
		if size == 0 {
			size = 1
		}
		return e.SetTaintMemory(dst.Addr, size, tainted)
	default:
		return false
	}
}

// TaintUnion implements the union propagation policy across the
// {Mem, Reg, Imm} x {Mem, Reg, Imm} cross-product: the destination becomes
// tainted iff it was already tainted OR the source is tainted. Returns the
// resulting taint state of dst.
func (e *Engine) TaintUnion(dst, src Operand) bool {
	if e.destTaint(dst) || e.IsTainted(src) {
		return e.setDestTaint(dst, true)
	}
	return e.destTaint(dst)
}

// TaintAssignment implements the assignment propagation policy: the
// destination becomes tainted iff the source is tainted, destroying any
// prior taint on the destination. Returns the resulting taint state of dst.
func (e *Engine) TaintAssignment(dst, src Operand) bool {
	return e.setDestTaint(dst, e.IsTainted(src))
}
