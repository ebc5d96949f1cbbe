package symex

import (
	"fmt"

	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/symbolic"
	"github.com/borzacchiello/symex/taint"
)

// Lifter constructs symbolic expressions and taint events for one decoded
// instruction. The core specifies how a lifter uses the façade (operand
// builders, expression creation, taint propagation); it does not mandate
// the semantics of every opcode. Lifter may return an error (an operand
// shape the lifter doesn't understand, a build failure).
type Lifter func(f *Facade, inst *Instruction) error

// lifters is the minimal representative opcode set wired to exercise
// processing(inst) end to end.
var lifters = map[string]Lifter{
	"mov":  liftMov,
	"add":  liftBinArith("add", (*ast.ExprBuilder).Add),
	"sub":  liftBinArith("sub", subBV),
	"and":  liftBinArith("and", (*ast.ExprBuilder).And),
	"or":   liftBinArith("or", (*ast.ExprBuilder).Or),
	"xor":  liftBinArith("xor", (*ast.ExprBuilder).Xor),
	"cmp":  liftCmp,
	"test": liftTest,
	"jz":   liftCondBranch(true),
	"jnz":  liftCondBranch(false),
}

// processing runs inst through disassembly (already done by the caller),
// the per-opcode lifter, taint propagation, and path-constraint
// bookkeeping, in that order. Expression creation interns each node
// without running the simplification pipeline, so registered
// SYMBOLIC_SIMPLIFICATION callbacks are not invoked here. A mnemonic with
// no registered lifter is reported as (false, nil); any other failure is
// returned as an error. Observers of id counters see strictly monotonic
// sequences within one call.
func (f *Facade) processing(inst *Instruction) (bool, error) {
	if err := f.checkInitialised(); err != nil {
		return false, err
	}
	lifter, ok := lifters[inst.Mnemonic]
	if !ok {
		return false, nil
	}
	if err := lifter(f, inst); err != nil {
		return false, err
	}
	return true, nil
}

// Process is the public entry point wrapping processing(inst).
func (f *Facade) Process(inst *Instruction) (bool, error) {
	return f.processing(inst)
}

func operandTaint(op Operand) taint.Operand {
	switch op.Kind {
	case OperandRegister:
		return taint.RegisterOperand(op.Reg.ID)
	case OperandMemory:
		return taint.MemoryOperand(op.Mem.Address, op.Mem.Size)
	default:
		return taint.ImmediateOperand()
	}
}

func buildOperand(f *Facade, inst *Instruction, op Operand) (*ast.BVExprPtr, error) {
	switch op.Kind {
	case OperandImmediate:
		return f.sym.BuildSymbolicImmediate(op.Imm.Value, op.Imm.Size), nil
	case OperandRegister:
		return f.sym.BuildSymbolicRegisterOperand(inst, op.Reg.ID)
	case OperandMemory:
		return f.sym.BuildSymbolicMemoryOperand(inst, op.Mem.Address, op.Mem.Size)
	default:
		return nil, fmt.Errorf("%w: unknown operand kind %v", ErrAstTypingError, op.Kind)
	}
}

// bindDestination creates the destination expression for op and propagates
// taint from src into it by assignment, tagging the resulting expression's
// Tainted flag.
func bindDestination(f *Facade, inst *Instruction, op Operand, node *ast.BVExprPtr, comment string, src ...Operand) (*symbolic.SymbolicExpression, error) {
	var expr *symbolic.SymbolicExpression
	var err error
	switch op.Kind {
	case OperandRegister:
		expr, err = f.sym.CreateSymbolicRegisterExpression(inst, node, op.Reg.ID, comment)
	case OperandMemory:
		var exprs []*symbolic.SymbolicExpression
		exprs, err = f.sym.CreateSymbolicMemoryExpression(inst, node, op.Mem.Address, op.Mem.Size, comment)
		if err == nil && len(exprs) > 0 {
			expr = exprs[len(exprs)-1]
		}
	default:
		return nil, fmt.Errorf("%w: cannot write to operand kind %v", ErrAstTypingError, op.Kind)
	}
	if err != nil {
		return nil, err
	}

	dstTaint := operandTaint(op)
	tainted := false
	for i, s := range src {
		if i == 0 {
			tainted = f.tnt.TaintAssignment(dstTaint, operandTaint(s))
			continue
		}
		tainted = f.tnt.TaintUnion(dstTaint, operandTaint(s)) || tainted
	}
	if expr != nil {
		expr.Tainted = tainted
	}
	return expr, nil
}

func liftMov(f *Facade, inst *Instruction) error {
	if len(inst.Operands) != 2 {
		return fmt.Errorf("mov: expected 2 operands, got %d", len(inst.Operands))
	}
	dst, src := inst.Operands[0], inst.Operands[1]
	node, err := buildOperand(f, inst, src)
	if err != nil {
		return err
	}
	_, err = bindDestination(f, inst, dst, node, inst.Mnemonic, src)
	return err
}

func liftBinArith(name string, op func(*ast.ExprBuilder, *ast.BVExprPtr, *ast.BVExprPtr) (*ast.BVExprPtr, error)) Lifter {
	return func(f *Facade, inst *Instruction) error {
		if len(inst.Operands) != 2 {
			return fmt.Errorf("%s: expected 2 operands, got %d", name, len(inst.Operands))
		}
		dst, src := inst.Operands[0], inst.Operands[1]
		lhs, err := buildOperand(f, inst, dst)
		if err != nil {
			return err
		}
		rhs, err := buildOperand(f, inst, src)
		if err != nil {
			return err
		}
		result, err := op(f.sym.Builder(), lhs, rhs)
		if err != nil {
			return err
		}
		_, err = bindDestination(f, inst, dst, result, name, dst, src)
		return err
	}
}

func liftCmp(f *Facade, inst *Instruction) error {
	if len(inst.Operands) != 2 {
		return fmt.Errorf("cmp: expected 2 operands, got %d", len(inst.Operands))
	}
	lhs, err := buildOperand(f, inst, inst.Operands[0])
	if err != nil {
		return err
	}
	rhs, err := buildOperand(f, inst, inst.Operands[1])
	if err != nil {
		return err
	}
	eq, err := f.sym.Builder().Eq(lhs, rhs)
	if err != nil {
		return err
	}
	zf, err := asBVFromBool(f.sym.Builder(), eq)
	if err != nil {
		return err
	}
	_, err = f.sym.CreateSymbolicFlagExpression(inst, zf, zfRegister(f), "cmp")
	return err
}

func liftTest(f *Facade, inst *Instruction) error {
	if len(inst.Operands) != 2 {
		return fmt.Errorf("test: expected 2 operands, got %d", len(inst.Operands))
	}
	lhs, err := buildOperand(f, inst, inst.Operands[0])
	if err != nil {
		return err
	}
	rhs, err := buildOperand(f, inst, inst.Operands[1])
	if err != nil {
		return err
	}
	and, err := f.sym.Builder().And(lhs, rhs)
	if err != nil {
		return err
	}
	zero := f.sym.Builder().BVV(0, and.Size())
	eq, err := f.sym.Builder().Eq(and, zero)
	if err != nil {
		return err
	}
	zf, err := asBVFromBool(f.sym.Builder(), eq)
	if err != nil {
		return err
	}
	_, err = f.sym.CreateSymbolicFlagExpression(inst, zf, zfRegister(f), "test")
	return err
}

// liftCondBranch returns a lifter for a single-flag conditional jump: the
// flag itself must already be bound (by a preceding cmp/test), and the
// instruction's one operand is the jump target, carried only as the taken
// predicate's record, not executed.
func liftCondBranch(jumpOnZero bool) Lifter {
	return func(f *Facade, inst *Instruction) error {
		zfExpr, err := f.sym.BuildSymbolicRegister(zfRegister(f))
		if err != nil {
			return err
		}
		zero := f.sym.Builder().BVV(0, zfExpr.Size())
		isZero, err := f.sym.Builder().Eq(zfExpr, zero)
		if err != nil {
			return err
		}
		notZero, err := f.sym.Builder().BoolNot(isZero)
		if err != nil {
			return err
		}

		taken, alternative := isZero, notZero
		if !jumpOnZero {
			taken, alternative = notZero, isZero
		}
		f.sym.AddPathConstraint(inst.Address, taken, alternative)
		return nil
	}
}

// subBV computes lhs - rhs as lhs + (-rhs); the expression builder has no
// TY_SUB node kind, only TY_ADD and TY_NEG, so subtraction is built from
// the two rather than adding a new node kind.
func subBV(eb *ast.ExprBuilder, lhs, rhs *ast.BVExprPtr) (*ast.BVExprPtr, error) {
	return eb.Add(lhs, eb.Neg(rhs))
}

func zfRegister(f *Facade) arch.RegisterID {
	id, _ := f.a.ByName("zf")
	return id
}

func asBVFromBool(eb *ast.ExprBuilder, b *ast.BoolExprPtr) (*ast.BVExprPtr, error) {
	one := eb.BVV(1, 1)
	zero := eb.BVV(0, 1)
	return eb.ITE(b, one, zero)
}
