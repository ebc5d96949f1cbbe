package arch

import (
	"fmt"
	"math/big"
)

// regWidth is the width, in bits, of the widest register container a
// parent register can hold.
const regWidth = 512

var regMask = func() *big.Int {
	m := big.NewInt(1)
	m.Lsh(m, regWidth)
	m.Sub(m, big.NewInt(1))
	return m
}()

// State holds the concrete CPU state the symbolic and taint engines read
// concrete values from on a cache miss: a register file (little-endian,
// one big.Int per parent register) and a sparse byte-addressed memory map,
// grounded on the map[address]value sparse-memory style used by data-flow
// trackers in this corpus rather than a flat byte slice, since analysed
// address spaces are large and mostly unwritten.
type State struct {
	arch *Arch
	regs map[RegisterID]*big.Int
	mem  map[uint64]byte
}

func NewState(a *Arch) *State {
	return &State{
		arch: a,
		regs: make(map[RegisterID]*big.Int),
		mem:  make(map[uint64]byte),
	}
}

func (s *State) Arch() *Arch { return s.arch }

func (s *State) Clear() {
	s.regs = make(map[RegisterID]*big.Int)
	s.mem = make(map[uint64]byte)
}

// ReadRegister reads r, automatically narrowing from the parent container
// to r's own bit range.
func (s *State) ReadRegister(r RegisterID) (*big.Int, error) {
	info, err := s.arch.Geometry(r)
	if err != nil {
		return nil, err
	}
	parent := s.regs[info.Parent]
	if parent == nil {
		parent = big.NewInt(0)
	}
	v := new(big.Int).Rsh(parent, info.Low)
	mask := new(big.Int).Lsh(big.NewInt(1), info.Size())
	mask.Sub(mask, big.NewInt(1))
	v.And(v, mask)
	return v, nil
}

// WriteRegister writes value into r, widening across the parent boundary.
// If r is narrower than its parent and the architecture's
// ZeroExtendsOnWrite policy applies to r (e.g. x86_64 EAX->RAX), the rest
// of the parent is cleared rather than left intact.
func (s *State) WriteRegister(r RegisterID, value *big.Int) error {
	info, err := s.arch.Geometry(r)
	if err != nil {
		return err
	}
	parentInfo, err := s.arch.Geometry(info.Parent)
	if err != nil {
		return err
	}
	parent := s.regs[info.Parent]
	if parent == nil {
		parent = big.NewInt(0)
	}
	width := info.Size()
	fieldMask := new(big.Int).Lsh(big.NewInt(1), width)
	fieldMask.Sub(fieldMask, big.NewInt(1))

	var newParent *big.Int
	if width != parentInfo.Size() && s.arch.ZeroExtendsOnWrite(r) {
		newParent = big.NewInt(0)
	} else {
		cleared := new(big.Int).Not(new(big.Int).Lsh(fieldMask, info.Low))
		cleared.And(cleared, regMask)
		newParent = new(big.Int).And(parent, cleared)
	}

	shifted := new(big.Int).And(value, fieldMask)
	shifted.Lsh(shifted, info.Low)
	newParent.Or(newParent, shifted)

	s.regs[info.Parent] = newParent
	return nil
}

// ReadMemory reads size bytes starting at addr, little-endian, as a single
// integer. Reads never allocate an entry for an unmapped byte; they read 0.
func (s *State) ReadMemory(addr uint64, size uint) *big.Int {
	v := big.NewInt(0)
	for i := uint(0); i < size; i++ {
		b := s.mem[addr+uint64(i)]
		term := new(big.Int).Lsh(big.NewInt(int64(b)), 8*i)
		v.Or(v, term)
	}
	return v
}

// WriteMemory writes size bytes of value starting at addr, little-endian.
// Writes allocate map entries implicitly.
func (s *State) WriteMemory(addr uint64, size uint, value *big.Int) {
	mask := big.NewInt(0xff)
	for i := uint(0); i < size; i++ {
		b := new(big.Int).Rsh(value, 8*i)
		b.And(b, mask)
		s.mem[addr+uint64(i)] = byte(b.Uint64())
	}
}

func (s *State) IsMemoryMapped(addr uint64, size uint) bool {
	for i := uint64(0); i < uint64(size); i++ {
		if _, ok := s.mem[addr+i]; !ok {
			return false
		}
	}
	return size > 0
}

// UnmapMemory removes [addr, addr+size) from the memory map.
func (s *State) UnmapMemory(addr uint64, size uint) error {
	if size == 0 {
		return fmt.Errorf("%w: zero-length range at 0x%x", ErrInvalidMemoryRange, addr)
	}
	for i := uint64(0); i < uint64(size); i++ {
		delete(s.mem, addr+i)
	}
	return nil
}
