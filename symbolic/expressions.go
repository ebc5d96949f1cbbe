package symbolic

import (
	"fmt"

	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
)

// NewSymbolicExpression interns node, assigns it a fresh id, and records it
// as a volatile (unbound) expression. Binding to a register or memory
// range happens separately via the CreateSymbolic* family. The node is
// stored as given: processSimplification is not run on it.
func (e *Engine) NewSymbolicExpression(node ast.AbstractNode, comment string) *SymbolicExpression {
	id := e.nextExprID
	e.nextExprID++
	expr := &SymbolicExpression{
		ID:      id,
		Node:    e.eb.RecordAstNode(node),
		Origin:  OriginVolatile,
		Dest:    Destination{Kind: DestNone},
		Comment: comment,
	}
	e.exprs[id] = expr
	return expr
}

// CreateSymbolicVolatileExpression creates and records an expression with
// no destination: it exists only to be referenced by other expressions or
// returned to the caller (e.g. a temporary used within one instruction's
// semantics).
func (e *Engine) CreateSymbolicVolatileExpression(node ast.AbstractNode, comment string) *SymbolicExpression {
	return e.NewSymbolicExpression(node, comment)
}

// CreateSymbolicRegisterExpression binds node to reg, applying the
// architecture's sub-register write policy: when reg is narrower than its
// parent and the architecture zero-extends writes to it, the new value is
// zero-extended to the parent's width; otherwise the parent's untouched
// bits are preserved by concatenation around the new value.
func (e *Engine) CreateSymbolicRegisterExpression(sink InstructionSink, node *ast.BVExprPtr, reg arch.RegisterID, comment string) (*SymbolicExpression, error) {
	info, err := e.a.Geometry(reg)
	if err != nil {
		return nil, err
	}

	full := node
	parentInfo, _ := e.a.Geometry(info.Parent)
	if info.Size() != parentInfo.Size() && e.a.ZeroExtendsOnWrite(reg) {
		full, err = e.eb.ZExt(node, parentInfo.Size()-info.Size())
		if err != nil {
			return nil, err
		}
	} else if info.Size() != parentInfo.Size() {
		existing, err := e.BuildSymbolicRegister(info.Parent)
		if err != nil {
			return nil, err
		}
		full = existing
		if info.High < parentInfo.Size()-1 {
			high, herr := e.eb.Extract(existing, parentInfo.Size()-1, info.High+1)
			if herr != nil {
				return nil, herr
			}
			full, err = e.eb.Concat(high, node)
			if err != nil {
				return nil, err
			}
		} else {
			full = node
		}
		if info.Low > 0 {
			low, lerr := e.eb.Extract(existing, info.Low-1, 0)
			if lerr != nil {
				return nil, lerr
			}
			full, err = e.eb.Concat(full, low)
			if err != nil {
				return nil, err
			}
		}
	}

	expr := e.NewSymbolicExpression(full, comment)
	expr.Origin = OriginRegister
	expr.Dest = Destination{Kind: DestRegister, Reg: info.Parent, Size: parentInfo.Size()}
	e.regMap[info.Parent] = expr.ID

	if sink != nil {
		sink.AddSymbolicExpression(expr)
	}
	return expr, nil
}

// CreateSymbolicFlagExpression binds a single-bit node to a flag register;
// flags never widen across a parent boundary the way GPR sub-registers do.
func (e *Engine) CreateSymbolicFlagExpression(sink InstructionSink, node *ast.BVExprPtr, flag arch.RegisterID, comment string) (*SymbolicExpression, error) {
	info, err := e.a.Geometry(flag)
	if err != nil {
		return nil, err
	}
	if !e.a.IsFlag(flag) {
		return nil, fmt.Errorf("%w: register %d is not a flag", ErrAstTypingError, flag)
	}

	expr := e.NewSymbolicExpression(node, comment)
	expr.Origin = OriginRegister
	expr.Dest = Destination{Kind: DestRegister, Reg: info.Parent, Size: info.Size()}
	e.regMap[info.Parent] = expr.ID

	if sink != nil {
		sink.AddSymbolicExpression(expr)
	}
	return expr, nil
}

// CreateSymbolicMemoryExpression binds an N-byte node to [addr, addr+size),
// splitting it byte-wise: each byte gets its own expression id and memMap
// entry, matching Triton's byte-granular memory symbolic map.
func (e *Engine) CreateSymbolicMemoryExpression(sink InstructionSink, node *ast.BVExprPtr, addr uint64, size uint, comment string) ([]*SymbolicExpression, error) {
	if node.Size() != size*8 {
		return nil, fmt.Errorf("%w: node is %d bits, expected %d for a %d-byte write", ErrAstTypingError, node.Size(), size*8, size)
	}

	out := make([]*SymbolicExpression, 0, size)
	for i := uint(0); i < size; i++ {
		byteNode, err := e.eb.Extract(node, 8*i+7, 8*i)
		if err != nil {
			return nil, err
		}
		byteAddr := addr + uint64(i)
		expr := e.NewSymbolicExpression(byteNode, fmt.Sprintf("%s[%d]", comment, i))
		expr.Origin = OriginMemory
		expr.Dest = Destination{Kind: DestMemory, Addr: byteAddr, Size: 1}
		e.memMap[byteAddr] = expr.ID
		out = append(out, expr)

		if sink != nil {
			sink.AddSymbolicExpression(expr)
		}
	}

	if e.optimizations[AlignedMemory] && size > 0 {
		last := out[len(out)-1]
		e.alignedWrites[alignedKey{addr, size}] = alignedBinding{lastByteID: last.ID, node: node}
	}

	return out, nil
}

// ConcretizeRegister drops any symbolic binding for reg's parent register,
// leaving future reads to fall back to the concrete CPU state.
func (e *Engine) ConcretizeRegister(reg arch.RegisterID) error {
	info, err := e.a.Geometry(reg)
	if err != nil {
		return err
	}
	delete(e.regMap, info.Parent)
	return nil
}

// ConcretizeAllRegisters drops every symbolic register binding.
func (e *Engine) ConcretizeAllRegisters() {
	e.regMap = make(map[arch.RegisterID]uint64)
}

// ConcretizeMemory drops any symbolic binding for [addr, addr+size).
func (e *Engine) ConcretizeMemory(addr uint64, size uint) {
	for i := uint64(0); i < uint64(size); i++ {
		delete(e.memMap, addr+i)
	}
}

// ConcretizeAllMemory drops every symbolic memory binding.
func (e *Engine) ConcretizeAllMemory() {
	e.memMap = make(map[uint64]uint64)
}

// ConvertExpressionToSymbolicVariable replaces the expression id's node
// with a fresh free SymbolicVariable of the given size, and rewrites every
// destination in regMap/memMap currently pointing at that expression id to
// point at the new one instead.
func (e *Engine) ConvertExpressionToSymbolicVariable(id uint64, size uint, comment string) (*SymbolicVariable, error) {
	old, ok := e.exprs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSymbolicExpressionId, id)
	}

	varID := e.nextVarID
	e.nextVarID++
	name := fmt.Sprintf("symvar_%d", varID)
	v := &SymbolicVariable{
		ID:      varID,
		Name:    name,
		Size:    size,
		Comment: comment,
	}
	switch old.Dest.Kind {
	case DestRegister:
		v.Origin = VariableOrigin{HasOrigin: true, Register: old.Dest.Reg}
	case DestMemory:
		v.Origin = VariableOrigin{HasOrigin: true, Address: old.Dest.Addr}
	}
	e.vars[varID] = v
	e.varsByName[name] = varID
	node := e.eb.BVS(name, size)
	e.eb.RecordVariableAstNode(name, node)

	newID := e.nextExprID
	e.nextExprID++
	newExpr := &SymbolicExpression{
		ID:      newID,
		Node:    node,
		Origin:  old.Origin,
		Dest:    old.Dest,
		Comment: old.Comment,
	}
	e.exprs[newID] = newExpr
	delete(e.exprs, id)

	for reg, boundID := range e.regMap {
		if boundID == id {
			e.regMap[reg] = newID
		}
	}
	for addr, boundID := range e.memMap {
		if boundID == id {
			e.memMap[addr] = newID
		}
	}
	for key, binding := range e.alignedWrites {
		if binding.lastByteID == id {
			// The aligned write's cached full node has one byte replaced by
			// a fresh free variable; the cached node no longer reflects
			// memory, so drop the binding instead of patching it.
			delete(e.alignedWrites, key)
		}
	}

	return v, nil
}

// GetSymbolicVariableFromId looks a symbolic variable up by id.
func (e *Engine) GetSymbolicVariableFromId(id uint64) (*SymbolicVariable, error) {
	v, ok := e.vars[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSymbolicVariable, id)
	}
	return v, nil
}

// GetSymbolicVariableFromName looks a symbolic variable up by name.
func (e *Engine) GetSymbolicVariableFromName(name string) (*SymbolicVariable, error) {
	id, ok := e.varsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbolicVariable, name)
	}
	return e.vars[id], nil
}
