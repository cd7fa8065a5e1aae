package codegen

import (
	"github.com/raymyers/crustcc/pkg/asm"
	"github.com/raymyers/crustcc/pkg/ast"
)

// LowerFunction emits one function: symbol directives, prologue, body and,
// when the body can fall off its end, an implicit "return 0".
func (g *Generator) LowerFunction(fn ast.FunDef) (asm.Code, error) {
	c := &genContext{labels: g.labels, fn: fn.Name}
	if fn.Body == nil {
		return nil, c.errorf(ErrStructural, "function has no body")
	}

	name := fn.Name
	code := asm.Code{
		asm.Directive{Name: ".globl", Args: []string{name}},
		asm.Directive{Name: ".type", Args: []string{name, "@function"}},
		asm.LabelDef{Name: asm.Label(name)},
		asm.LabelDef{Name: g.labels.Next("FB")},
		asm.Directive{Name: ".cfi_startproc"},
		asm.PUSHQ{Src: asm.RBP},
		asm.Directive{Name: ".cfi_def_cfa_offset", Args: []string{"16"}},
		asm.Directive{Name: ".cfi_offset", Args: []string{"6", "-16"}},
		asm.MOVQ{Src: asm.RSP, Dst: asm.RBP},
		asm.Directive{Name: ".cfi_def_cfa_register", Args: []string{"6"}},
	}

	body, err := c.lowerBlock(*fn.Body, Frame{})
	if err != nil {
		return nil, err
	}
	code = append(code, body...)

	if !AlwaysReturns(*fn.Body) {
		code = append(code, asm.MOVQ{Src: asm.Imm(0), Dst: asm.RAX})
		code = append(code, epilogue()...)
	}

	code = append(code,
		asm.Directive{Name: ".cfi_endproc"},
		asm.LabelDef{Name: g.labels.Next("FE")},
		asm.Directive{Name: ".size", Args: []string{name, ".-" + name}},
	)
	return code, nil
}
