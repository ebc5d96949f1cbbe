package arch

// Register ids for the x86_64 architecture, the one architecture shipped by
// default. GPR ids are stable small integers so they can double as slice
// indices where convenient; sub-registers and flags get ids above the GPR
// range.
const (
	RAX RegisterID = iota + 1
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	RIP

	EAX
	EBX
	ECX
	EDX
	ESI
	EDI
	EBP
	ESP

	AX
	AL
	AH

	CF
	PF
	AF
	ZF
	SF
	OF
)

func x86_64Registers() map[RegisterID]RegisterInfo {
	gpr := func(id RegisterID, name string) RegisterInfo {
		return RegisterInfo{Name: name, High: 63, Low: 0, Parent: id}
	}

	regs := map[RegisterID]RegisterInfo{
		RAX: gpr(RAX, "rax"),
		RBX: gpr(RBX, "rbx"),
		RCX: gpr(RCX, "rcx"),
		RDX: gpr(RDX, "rdx"),
		RSI: gpr(RSI, "rsi"),
		RDI: gpr(RDI, "rdi"),
		RBP: gpr(RBP, "rbp"),
		RSP: gpr(RSP, "rsp"),
		R8:  gpr(R8, "r8"),
		R9:  gpr(R9, "r9"),
		R10: gpr(R10, "r10"),
		R11: gpr(R11, "r11"),
		R12: gpr(R12, "r12"),
		R13: gpr(R13, "r13"),
		R14: gpr(R14, "r14"),
		R15: gpr(R15, "r15"),
		RIP: gpr(RIP, "rip"),

		EAX: {Name: "eax", High: 31, Low: 0, Parent: RAX},
		EBX: {Name: "ebx", High: 31, Low: 0, Parent: RBX},
		ECX: {Name: "ecx", High: 31, Low: 0, Parent: RCX},
		EDX: {Name: "edx", High: 31, Low: 0, Parent: RDX},
		ESI: {Name: "esi", High: 31, Low: 0, Parent: RSI},
		EDI: {Name: "edi", High: 31, Low: 0, Parent: RDI},
		EBP: {Name: "ebp", High: 31, Low: 0, Parent: RBP},
		ESP: {Name: "esp", High: 31, Low: 0, Parent: RSP},

		AX: {Name: "ax", High: 15, Low: 0, Parent: RAX},
		AL: {Name: "al", High: 7, Low: 0, Parent: RAX},
		AH: {Name: "ah", High: 15, Low: 8, Parent: RAX},

		CF: {Name: "cf", High: 0, Low: 0, Parent: CF, Flag: true},
		PF: {Name: "pf", High: 0, Low: 0, Parent: PF, Flag: true},
		AF: {Name: "af", High: 0, Low: 0, Parent: AF, Flag: true},
		ZF: {Name: "zf", High: 0, Low: 0, Parent: ZF, Flag: true},
		SF: {Name: "sf", High: 0, Low: 0, Parent: SF, Flag: true},
		OF: {Name: "of", High: 0, Low: 0, Parent: OF, Flag: true},
	}
	return regs
}

// NewX86_64 returns the register geometry table for x86_64.
func NewX86_64() *Arch {
	return newArch(ArchX86_64, x86_64Registers())
}
