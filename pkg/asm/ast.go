// Package asm defines the x86-64 assembly representation emitted by the code
// generator, printed in AT&T syntax for the GNU assembler.
package asm

// Reg is a machine register
type Reg int

const (
	RAX Reg = iota // primary result register
	RCX            // secondary operand register
	RDX            // high half of the idiv dividend
	RBP            // frame base
	RSP            // stack pointer
	AL             // low byte of RAX, target of setCC
)

func (r Reg) String() string {
	names := []string{"rax", "rcx", "rdx", "rbp", "rsp", "al"}
	if r >= 0 && int(r) < len(names) {
		return names[r]
	}
	return "?"
}

// Label is a branch target or symbol name
type Label string

// Cond is a flag condition used by setCC and jCC
type Cond int

const (
	CondE Cond = iota
	CondNE
	CondL
	CondLE
	CondG
	CondGE
)

func (c Cond) String() string {
	names := []string{"e", "ne", "l", "le", "g", "ge"}
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "?"
}

// --- Operands ---

// Operand is a register, immediate or memory reference
type Operand interface {
	implOperand()
}

// Imm is an immediate operand ($n)
type Imm int64

// Mem is a base+displacement memory operand (ofs(%base))
type Mem struct {
	Base Reg
	Ofs  int64
}

func (Reg) implOperand() {}
func (Imm) implOperand() {}
func (Mem) implOperand() {}

// --- Instruction Interface ---

// Instruction is the interface for assembly lines: machine instructions,
// label definitions and assembler directives.
type Instruction interface {
	implInstruction()
}

// Code is a flat, ordered instruction stream
type Code []Instruction

// --- Data Movement ---

// MOVQ - 64-bit move
type MOVQ struct {
	Src, Dst Operand
}

// MOVABSQ - load a full 64-bit immediate
type MOVABSQ struct {
	Imm int64
	Dst Reg
}

// PUSHQ - push onto the machine stack
type PUSHQ struct {
	Src Operand
}

// POPQ - pop from the machine stack
type POPQ struct {
	Dst Reg
}

// XCHGQ - swap two registers
type XCHGQ struct {
	A, B Reg
}

// --- Arithmetic ---

// ADDQ - Dst += Src
type ADDQ struct {
	Src, Dst Operand
}

// SUBQ - Dst -= Src
type SUBQ struct {
	Src, Dst Operand
}

// IMULQ - Dst *= Src (signed)
type IMULQ struct {
	Src, Dst Operand
}

// CQTO - sign-extend RAX into RDX:RAX
type CQTO struct{}

// IDIVQ - signed divide RDX:RAX by Src; quotient in RAX
type IDIVQ struct {
	Src Operand
}

// NEGQ - two's complement negate in place
type NEGQ struct {
	Dst Reg
}

// NOTQ - bitwise complement in place
type NOTQ struct {
	Dst Reg
}

// --- Compare and Branch ---

// CMPQ - set flags from Dst - Src
type CMPQ struct {
	Src, Dst Operand
}

// SETCC - set a byte register to 1 if Cond holds, else 0
type SETCC struct {
	Cond Cond
	Dst  Reg
}

// JMP - unconditional jump
type JMP struct {
	Target Label
}

// JCC - conditional jump
type JCC struct {
	Cond   Cond
	Target Label
}

// RET - return from procedure
type RET struct{}

// --- Pseudo Instructions ---

// LabelDef places a label
type LabelDef struct {
	Name Label
}

// Directive is an assembler directive such as .globl or .cfi_startproc
type Directive struct {
	Name string
	Args []string
}

// Marker methods for interface implementation
func (MOVQ) implInstruction()      {}
func (MOVABSQ) implInstruction()   {}
func (PUSHQ) implInstruction()     {}
func (POPQ) implInstruction()      {}
func (XCHGQ) implInstruction()     {}
func (ADDQ) implInstruction()      {}
func (SUBQ) implInstruction()      {}
func (IMULQ) implInstruction()     {}
func (CQTO) implInstruction()      {}
func (IDIVQ) implInstruction()     {}
func (NEGQ) implInstruction()      {}
func (NOTQ) implInstruction()      {}
func (CMPQ) implInstruction()      {}
func (SETCC) implInstruction()     {}
func (JMP) implInstruction()       {}
func (JCC) implInstruction()       {}
func (RET) implInstruction()       {}
func (LabelDef) implInstruction()  {}
func (Directive) implInstruction() {}
