package asm

import (
	"bytes"
	"testing"
)

func TestPrintDataMovementInstructions(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{"MOVQ imm", MOVQ{Src: Imm(5), Dst: RAX}, "\tmovq\t$5, %rax\n"},
		{"MOVQ negative imm", MOVQ{Src: Imm(-3), Dst: RAX}, "\tmovq\t$-3, %rax\n"},
		{"MOVQ load", MOVQ{Src: Mem{Base: RBP, Ofs: -8}, Dst: RAX}, "\tmovq\t-8(%rbp), %rax\n"},
		{"MOVQ store", MOVQ{Src: RAX, Dst: Mem{Base: RBP, Ofs: -16}}, "\tmovq\t%rax, -16(%rbp)\n"},
		{"MOVQ zero offset", MOVQ{Src: Mem{Base: RSP}, Dst: RCX}, "\tmovq\t(%rsp), %rcx\n"},
		{"MOVABSQ", MOVABSQ{Imm: 1 << 40, Dst: RAX}, "\tmovabsq\t$1099511627776, %rax\n"},
		{"PUSHQ", PUSHQ{Src: RAX}, "\tpushq\t%rax\n"},
		{"POPQ", POPQ{Dst: RCX}, "\tpopq\t%rcx\n"},
		{"XCHGQ", XCHGQ{A: RAX, B: RCX}, "\txchgq\t%rax, %rcx\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintArithmeticInstructions(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{"ADDQ", ADDQ{Src: RCX, Dst: RAX}, "\taddq\t%rcx, %rax\n"},
		{"ADDQ imm", ADDQ{Src: Imm(16), Dst: RSP}, "\taddq\t$16, %rsp\n"},
		{"SUBQ", SUBQ{Src: RAX, Dst: RCX}, "\tsubq\t%rax, %rcx\n"},
		{"IMULQ", IMULQ{Src: RCX, Dst: RAX}, "\timulq\t%rcx, %rax\n"},
		{"CQTO", CQTO{}, "\tcqto\n"},
		{"IDIVQ", IDIVQ{Src: RCX}, "\tidivq\t%rcx\n"},
		{"NEGQ", NEGQ{Dst: RAX}, "\tnegq\t%rax\n"},
		{"NOTQ", NOTQ{Dst: RAX}, "\tnotq\t%rax\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintBranchInstructions(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{"CMPQ", CMPQ{Src: Imm(0), Dst: RAX}, "\tcmpq\t$0, %rax\n"},
		{"SETE", SETCC{Cond: CondE, Dst: AL}, "\tsete\t%al\n"},
		{"SETNE", SETCC{Cond: CondNE, Dst: AL}, "\tsetne\t%al\n"},
		{"SETLE", SETCC{Cond: CondLE, Dst: AL}, "\tsetle\t%al\n"},
		{"SETGE", SETCC{Cond: CondGE, Dst: AL}, "\tsetge\t%al\n"},
		{"JMP", JMP{Target: ".Lend3"}, "\tjmp\t.Lend3\n"},
		{"JE", JCC{Cond: CondE, Target: ".Lelse2"}, "\tje\t.Lelse2\n"},
		{"JNE", JCC{Cond: CondNE, Target: ".Land_rhs0"}, "\tjne\t.Land_rhs0\n"},
		{"RET", RET{}, "\tret\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintPseudoInstructions(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{"label", LabelDef{Name: "main"}, "main:\n"},
		{"local label", LabelDef{Name: ".LFB0"}, ".LFB0:\n"},
		{"bare directive", Directive{Name: ".cfi_startproc"}, "\t.cfi_startproc\n"},
		{"directive with args", Directive{Name: ".size", Args: []string{"main", ".-main"}}, "\t.size\tmain, .-main\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.printInstruction(tt.inst)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeString(t *testing.T) {
	code := Code{
		LabelDef{Name: "f"},
		MOVQ{Src: Imm(1), Dst: RAX},
		RET{},
	}
	want := "f:\n\tmovq\t$1, %rax\n\tret\n"
	if got := code.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNames(t *testing.T) {
	if RBP.String() != "rbp" || AL.String() != "al" || Reg(42).String() != "?" {
		t.Error("unexpected register names")
	}
	if CondG.String() != "g" || Cond(-1).String() != "?" {
		t.Error("unexpected condition names")
	}
}
