package callbacks

import (
	"testing"

	"github.com/borzacchiello/symex/ast"
)

func TestMemoryReadCallbackPopulatesOnMiss(t *testing.T) {
	r := NewRegistry()
	var seen MemoryAccess
	memory := map[uint64]byte{}
	r.AddMemoryReadCallback(func(a MemoryAccess) {
		seen = a
		memory[a.Address] = 0xDE
	})

	if err := r.ProcessMemoryRead(MemoryAccess{Address: 0x200, Size: 1}); err != nil {
		t.Fatalf("ProcessMemoryRead: %v", err)
	}
	if seen.Address != 0x200 {
		t.Errorf("handler did not see the expected access")
	}
	if memory[0x200] != 0xDE {
		t.Errorf("expected the handler to populate 0x200 with 0xde, got 0x%x", memory[0x200])
	}
}

func TestSimplificationChainComposes(t *testing.T) {
	eb := ast.NewExprBuilder()
	x := eb.BVS("x", 32)
	zero := eb.BVV(0, 32)
	one := eb.BVV(1, 32)

	xPlusZero, err := eb.Add(x, zero)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	expr, err := eb.Mul(xPlusZero, one)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}

	r := NewRegistry()
	r.AddSimplificationCallback(func(n ast.AbstractNode) ast.AbstractNode {
		bv, ok := n.(*ast.BVExprPtr)
		if !ok || bv.Kind() != ast.TY_ADD {
			return n
		}
		return x
	})
	r.AddSimplificationCallback(func(n ast.AbstractNode) ast.AbstractNode {
		bv, ok := n.(*ast.BVExprPtr)
		if !ok || bv.Kind() != ast.TY_MUL {
			return n
		}
		return x
	})

	result, err := r.ProcessSimplification(expr)
	if err != nil {
		t.Fatalf("ProcessSimplification: %v", err)
	}
	if result == nil {
		t.Errorf("expected a result node")
	}
	if bv, ok := result.(*ast.BVExprPtr); !ok || bv.Id() != x.Id() {
		t.Errorf("expected the chain to yield x, got %v", result)
	}
}

func TestRemoveCallbackByIdentity(t *testing.T) {
	r := NewRegistry()
	calls := 0
	ref := r.AddRegisterReadCallback(func(Register) { calls++ })
	r.RemoveCallback(ref)

	if err := r.ProcessRegisterRead(Register{ID: 1, Name: "rax"}); err != nil {
		t.Fatalf("ProcessRegisterRead: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected removed handler not to fire, got %d calls", calls)
	}
}
