package arch

import (
	"math/big"
	"testing"
)

func TestEAXWriteZeroExtendsRAX(t *testing.T) {
	s := NewState(NewX86_64())

	full, _ := new(big.Int).SetString("AAAABBBBCCCCDDDD", 16)
	if err := s.WriteRegister(RAX, full); err != nil {
		t.Fatalf("WriteRegister(RAX): %v", err)
	}

	if err := s.WriteRegister(EAX, big.NewInt(0x11112222)); err != nil {
		t.Fatalf("WriteRegister(EAX): %v", err)
	}

	got, err := s.ReadRegister(RAX)
	if err != nil {
		t.Fatalf("ReadRegister(RAX): %v", err)
	}

	want := big.NewInt(0x11112222)
	if got.Cmp(want) != 0 {
		t.Errorf("RAX = %x, want %x (EAX write should clear RAX's upper 32 bits)", got, want)
	}
}

func TestSubRegisterWritePreservesParentBitsWithoutZeroExtend(t *testing.T) {
	a := NewX86_64()
	a.SetZeroExtend32On64WritePolicy(false)
	s := NewState(a)

	full, _ := new(big.Int).SetString("AAAABBBBCCCCDDDD", 16)
	if err := s.WriteRegister(RAX, full); err != nil {
		t.Fatalf("WriteRegister(RAX): %v", err)
	}

	if err := s.WriteRegister(EAX, big.NewInt(0x11112222)); err != nil {
		t.Fatalf("WriteRegister(EAX): %v", err)
	}

	got, err := s.ReadRegister(RAX)
	if err != nil {
		t.Fatalf("ReadRegister(RAX): %v", err)
	}

	want, _ := new(big.Int).SetString("AAAABBBB11112222", 16)
	if got.Cmp(want) != 0 {
		t.Errorf("RAX = %x, want %x", got, want)
	}
}

func TestMemoryReadWriteLittleEndian(t *testing.T) {
	s := NewState(NewX86_64())
	s.WriteMemory(0x100, 1, big.NewInt(0x01))
	s.WriteMemory(0x101, 1, big.NewInt(0x02))
	s.WriteMemory(0x102, 1, big.NewInt(0x03))
	s.WriteMemory(0x103, 1, big.NewInt(0x04))

	v := s.ReadMemory(0x100, 4)
	if v.Uint64() != 0x04030201 {
		t.Errorf("ReadMemory = %x, want 0x04030201", v)
	}
}

func TestMemoryMappedAndUnmap(t *testing.T) {
	s := NewState(NewX86_64())
	if s.IsMemoryMapped(0x200, 1) {
		t.Errorf("expected 0x200 to be unmapped")
	}
	s.WriteMemory(0x200, 1, big.NewInt(1))
	if !s.IsMemoryMapped(0x200, 1) {
		t.Errorf("expected 0x200 to be mapped after write")
	}
	if err := s.UnmapMemory(0x200, 1); err != nil {
		t.Fatalf("UnmapMemory: %v", err)
	}
	if s.IsMemoryMapped(0x200, 1) {
		t.Errorf("expected 0x200 to be unmapped after UnmapMemory")
	}
}

func TestInvalidRegisterGeometry(t *testing.T) {
	s := NewState(NewX86_64())
	if _, err := s.ReadRegister(RegisterID(9999)); err == nil {
		t.Errorf("expected error for invalid register")
	}
}
