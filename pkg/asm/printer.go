package asm

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs x86-64 assembly in GNU as (AT&T) syntax
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new assembly printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintCode outputs every line of an instruction stream
func (p *Printer) PrintCode(code Code) {
	for _, inst := range code {
		p.printInstruction(inst)
	}
}

// String renders code as assembly text
func (code Code) String() string {
	var sb strings.Builder
	NewPrinter(&sb).PrintCode(code)
	return sb.String()
}

func (p *Printer) printInstruction(inst Instruction) {
	switch i := inst.(type) {
	case MOVQ:
		p.op("movq", operand(i.Src), operand(i.Dst))
	case MOVABSQ:
		p.op("movabsq", operand(Imm(i.Imm)), operand(i.Dst))
	case PUSHQ:
		p.op("pushq", operand(i.Src))
	case POPQ:
		p.op("popq", operand(i.Dst))
	case XCHGQ:
		p.op("xchgq", operand(i.A), operand(i.B))
	case ADDQ:
		p.op("addq", operand(i.Src), operand(i.Dst))
	case SUBQ:
		p.op("subq", operand(i.Src), operand(i.Dst))
	case IMULQ:
		p.op("imulq", operand(i.Src), operand(i.Dst))
	case CQTO:
		p.op("cqto")
	case IDIVQ:
		p.op("idivq", operand(i.Src))
	case NEGQ:
		p.op("negq", operand(i.Dst))
	case NOTQ:
		p.op("notq", operand(i.Dst))
	case CMPQ:
		p.op("cmpq", operand(i.Src), operand(i.Dst))
	case SETCC:
		p.op("set"+i.Cond.String(), operand(i.Dst))
	case JMP:
		p.op("jmp", string(i.Target))
	case JCC:
		p.op("j"+i.Cond.String(), string(i.Target))
	case RET:
		p.op("ret")
	case LabelDef:
		fmt.Fprintf(p.w, "%s:\n", i.Name)
	case Directive:
		p.op(i.Name, i.Args...)
	default:
		fmt.Fprintf(p.w, "\t# unknown instruction %T\n", inst)
	}
}

func (p *Printer) op(mnemonic string, args ...string) {
	if len(args) == 0 {
		fmt.Fprintf(p.w, "\t%s\n", mnemonic)
		return
	}
	fmt.Fprintf(p.w, "\t%s\t%s\n", mnemonic, strings.Join(args, ", "))
}

func operand(o Operand) string {
	switch v := o.(type) {
	case Reg:
		return "%" + v.String()
	case Imm:
		return fmt.Sprintf("$%d", int64(v))
	case Mem:
		if v.Ofs == 0 {
			return fmt.Sprintf("(%%%s)", v.Base)
		}
		return fmt.Sprintf("%d(%%%s)", v.Ofs, v.Base)
	default:
		return fmt.Sprintf("?%T", o)
	}
}
