package codegen

import (
	"errors"
	"fmt"
	"math"

	"github.com/raymyers/crustcc/pkg/asm"
)

// errTrap is what the simulator reports where the CPU would raise #DE
var errTrap = errors.New("divide error")

// machine executes the instruction subset the generator emits, so lowering
// can be checked for behaviour without an assembler.
type machine struct {
	code   asm.Code
	labels map[asm.Label]int
	regs   map[asm.Reg]int64
	mem    map[int64]int64
	cmpDst int64
	cmpSrc int64
	steps  int
}

const (
	simStackTop   = 1 << 20
	simReturnAddr = -1
	simMaxSteps   = 1_000_000
)

func newMachine(code asm.Code) *machine {
	m := &machine{
		code:   code,
		labels: make(map[asm.Label]int),
		regs:   make(map[asm.Reg]int64),
		mem:    make(map[int64]int64),
	}
	for i, inst := range code {
		if l, ok := inst.(asm.LabelDef); ok {
			m.labels[l.Name] = i
		}
	}
	return m
}

// call runs the function at symbol fn until it returns and yields %rax
func (m *machine) call(fn string) (int64, error) {
	pc, ok := m.labels[asm.Label(fn)]
	if !ok {
		return 0, fmt.Errorf("no symbol %s", fn)
	}
	m.regs[asm.RSP] = simStackTop
	m.regs[asm.RBP] = 0x7777
	m.push(simReturnAddr)

	for {
		if m.steps++; m.steps > simMaxSteps {
			return 0, errors.New("step limit exceeded")
		}
		if pc >= len(m.code) {
			return 0, fmt.Errorf("%s fell off the end of the code", fn)
		}
		next, done, err := m.exec(pc)
		if err != nil {
			return 0, fmt.Errorf("at %d (%T): %w", pc, m.code[pc], err)
		}
		if done {
			if m.regs[asm.RBP] != 0x7777 || m.regs[asm.RSP] != simStackTop {
				return 0, errors.New("caller frame not restored")
			}
			return m.regs[asm.RAX], nil
		}
		pc = next
	}
}

func (m *machine) push(v int64) {
	m.regs[asm.RSP] -= 8
	m.mem[m.regs[asm.RSP]] = v
}

func (m *machine) pop() int64 {
	v := m.mem[m.regs[asm.RSP]]
	m.regs[asm.RSP] += 8
	return v
}

func (m *machine) read(o asm.Operand) int64 {
	switch v := o.(type) {
	case asm.Imm:
		return int64(v)
	case asm.Reg:
		if v == asm.AL {
			return m.regs[asm.RAX] & 0xff
		}
		return m.regs[v]
	case asm.Mem:
		return m.mem[m.regs[v.Base]+v.Ofs]
	}
	panic(fmt.Sprintf("bad operand %T", o))
}

func (m *machine) write(o asm.Operand, val int64) {
	switch v := o.(type) {
	case asm.Reg:
		if v == asm.AL {
			m.regs[asm.RAX] = m.regs[asm.RAX]&^0xff | val&0xff
			return
		}
		m.regs[v] = val
	case asm.Mem:
		m.mem[m.regs[v.Base]+v.Ofs] = val
	default:
		panic(fmt.Sprintf("bad destination %T", o))
	}
}

func (m *machine) holds(c asm.Cond) bool {
	a, b := m.cmpDst, m.cmpSrc
	switch c {
	case asm.CondE:
		return a == b
	case asm.CondNE:
		return a != b
	case asm.CondL:
		return a < b
	case asm.CondLE:
		return a <= b
	case asm.CondG:
		return a > b
	case asm.CondGE:
		return a >= b
	}
	panic("bad condition")
}

func (m *machine) jump(l asm.Label) (int, error) {
	pc, ok := m.labels[l]
	if !ok {
		return 0, fmt.Errorf("undefined label %s", l)
	}
	return pc, nil
}

func (m *machine) exec(pc int) (next int, done bool, err error) {
	next = pc + 1
	switch i := m.code[pc].(type) {
	case asm.MOVQ:
		m.write(i.Dst, m.read(i.Src))
	case asm.MOVABSQ:
		m.write(i.Dst, i.Imm)
	case asm.PUSHQ:
		m.push(m.read(i.Src))
	case asm.POPQ:
		m.write(i.Dst, m.pop())
	case asm.XCHGQ:
		m.regs[i.A], m.regs[i.B] = m.regs[i.B], m.regs[i.A]
	case asm.ADDQ:
		m.write(i.Dst, m.read(i.Dst)+m.read(i.Src))
	case asm.SUBQ:
		m.write(i.Dst, m.read(i.Dst)-m.read(i.Src))
	case asm.IMULQ:
		m.write(i.Dst, m.read(i.Dst)*m.read(i.Src))
	case asm.CQTO:
		m.regs[asm.RDX] = m.regs[asm.RAX] >> 63
	case asm.IDIVQ:
		d := m.read(i.Src)
		if d == 0 || (d == -1 && m.regs[asm.RAX] == math.MinInt64) {
			return 0, false, errTrap
		}
		if m.regs[asm.RDX] != m.regs[asm.RAX]>>63 {
			return 0, false, errors.New("dividend not sign-extended")
		}
		a := m.regs[asm.RAX]
		m.regs[asm.RAX], m.regs[asm.RDX] = a/d, a%d
	case asm.NEGQ:
		m.regs[i.Dst] = -m.regs[i.Dst]
	case asm.NOTQ:
		m.regs[i.Dst] = ^m.regs[i.Dst]
	case asm.CMPQ:
		m.cmpDst, m.cmpSrc = m.read(i.Dst), m.read(i.Src)
	case asm.SETCC:
		v := int64(0)
		if m.holds(i.Cond) {
			v = 1
		}
		m.write(i.Dst, v)
	case asm.JMP:
		next, err = m.jump(i.Target)
	case asm.JCC:
		if m.holds(i.Cond) {
			next, err = m.jump(i.Target)
		}
	case asm.RET:
		if m.pop() == simReturnAddr {
			return 0, true, nil
		}
		return 0, false, errors.New("return to unknown address")
	case asm.LabelDef, asm.Directive:
	default:
		return 0, false, fmt.Errorf("cannot simulate %T", i)
	}
	return next, false, err
}
