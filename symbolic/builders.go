package symbolic

import (
	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/callbacks"
)

// BuildSymbolicImmediate returns a constant node of size bits for an
// immediate operand value.
func (e *Engine) BuildSymbolicImmediate(value int64, size uint) *ast.BVExprPtr {
	return e.eb.BVV(value, size)
}

// BuildSymbolicRegister returns the AST currently bound to reg's parent,
// extracted down to reg's own bit range. If the parent is unbound, the
// GET_CONCRETE_REGISTER_VALUE callbacks fire, then the current concrete
// value is returned as a constant.
func (e *Engine) BuildSymbolicRegister(reg arch.RegisterID) (*ast.BVExprPtr, error) {
	info, err := e.a.Geometry(reg)
	if err != nil {
		return nil, err
	}

	exprID, bound := e.regMap[info.Parent]
	if !bound {
		if e.cb != nil {
			if err := e.cb.ProcessRegisterRead(callbacks.Register{ID: uint32(reg), Name: info.Name}); err != nil {
				return nil, err
			}
		}
		parentInfo, _ := e.a.Geometry(info.Parent)
		concrete, rerr := e.cpu.ReadRegister(info.Parent)
		if rerr != nil {
			return nil, rerr
		}
		// concrete is the parent register's full-width big.Int (e.g. 512
		// bits for an AVX container); BVVFromConst carries its bit pattern
		// directly instead of truncating it through int64.
		node := e.eb.BVVFromConst(ast.MakeBVConstFromBigint(concrete, parentInfo.Size()))
		return e.eb.Extract(node, info.High, info.Low)
	}

	parentExpr, err := e.GetSymbolicExpressionFromId(exprID)
	if err != nil {
		return nil, err
	}
	bv, ok := parentExpr.Node.(*ast.BVExprPtr)
	if !ok {
		return nil, ErrAstTypingError
	}
	if info.High == bv.Size()-1 && info.Low == 0 {
		return bv, nil
	}
	return e.eb.Extract(bv, info.High, info.Low)
}

// BuildSymbolicRegisterOperand additionally records reg's current build as
// an input of inst.
func (e *Engine) BuildSymbolicRegisterOperand(inst InstructionSink, reg arch.RegisterID) (*ast.BVExprPtr, error) {
	bv, err := e.BuildSymbolicRegister(reg)
	if err != nil {
		return nil, err
	}
	inst.MarkInputOperand(bv)
	return bv, nil
}

// BuildSymbolicMemory returns concat(byte_{addr+size-1}, ..., byte_{addr})
// for an size-byte memory access. Each byte either returns its bound
// expression or, on a miss, triggers GET_CONCRETE_MEMORY_VALUE and wraps
// the concrete byte as a constant.
func (e *Engine) BuildSymbolicMemory(addr uint64, size uint) (*ast.BVExprPtr, error) {
	if e.optimizations[AlignedMemory] {
		if binding, ok := e.alignedWrites[alignedKey{addr, size}]; ok {
			return binding.node, nil
		}
	}

	var result *ast.BVExprPtr
	for i := uint(0); i < size; i++ {
		byteAddr := addr + uint64(i)
		byteExpr, err := e.buildSymbolicByte(byteAddr)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = byteExpr
		} else {
			result, err = e.eb.Concat(byteExpr, result)
			if err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (e *Engine) buildSymbolicByte(addr uint64) (*ast.BVExprPtr, error) {
	exprID, bound := e.memMap[addr]
	if bound {
		expr, err := e.GetSymbolicExpressionFromId(exprID)
		if err != nil {
			return nil, err
		}
		bv, ok := expr.Node.(*ast.BVExprPtr)
		if !ok {
			return nil, ErrAstTypingError
		}
		return bv, nil
	}

	if e.cb != nil {
		if err := e.cb.ProcessMemoryRead(callbacks.MemoryAccess{Address: addr, Size: 1}); err != nil {
			return nil, err
		}
	}
	concrete := e.cpu.ReadMemory(addr, 1)
	return e.eb.BVV(concrete.Int64(), 8), nil
}

// BuildSymbolicMemoryOperand additionally records the memory access as an
// input of inst.
func (e *Engine) BuildSymbolicMemoryOperand(inst InstructionSink, addr uint64, size uint) (*ast.BVExprPtr, error) {
	bv, err := e.BuildSymbolicMemory(addr, size)
	if err != nil {
		return nil, err
	}
	inst.MarkInputOperand(bv)
	return bv, nil
}
