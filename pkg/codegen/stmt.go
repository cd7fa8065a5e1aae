package codegen

import (
	"github.com/raymyers/crustcc/pkg/asm"
	"github.com/raymyers/crustcc/pkg/ast"
)

// lowerBlock lowers a compound statement. Declarations thread a fresh scope
// and the frame through the block; on exit the slots declared directly here
// are released.
func (c *genContext) lowerBlock(block ast.Block, frame Frame) (asm.Code, error) {
	var code asm.Code
	scope := Scope{}

	for _, item := range block.Items {
		var part asm.Code
		var err error
		if decl, ok := item.(ast.Decl); ok {
			frame, scope, part, err = c.declare(decl, frame, scope)
		} else {
			part, err = c.lowerStmt(item, frame)
		}
		if err != nil {
			return nil, err
		}
		code = append(code, part...)
	}

	if n := scope.releaseBytes(); n > 0 {
		code = append(code, asm.ADDQ{Src: asm.Imm(n), Dst: asm.RSP})
	}
	return code, nil
}

// declare allocates a slot for decl and initializes it, to zero when there
// is no initializer. The initializer already sees the new binding.
func (c *genContext) declare(decl ast.Decl, frame Frame, scope Scope) (Frame, Scope, asm.Code, error) {
	if scope.Has(decl.Name) {
		return frame, scope, nil, c.errorf(ErrRedeclaration,
			"variable %q is already declared in this block", decl.Name)
	}
	frame = frame.bind(decl.Name)
	scope = scope.with(decl.Name)

	var code asm.Code
	if decl.Init == nil {
		code = asm.Code{asm.MOVQ{Src: asm.Imm(0), Dst: asm.RAX}}
	} else {
		init, err := c.lowerExpr(decl.Init, frame)
		if err != nil {
			return frame, scope, nil, err
		}
		code = init
	}
	code = append(code, asm.PUSHQ{Src: asm.RAX})
	return frame, scope, code, nil
}

func (c *genContext) lowerStmt(stmt ast.Stmt, frame Frame) (asm.Code, error) {
	switch s := stmt.(type) {
	case ast.Return:
		if s.Expr == nil {
			return nil, c.errorf(ErrStructural, "return statement has no value")
		}
		code, err := c.lowerExpr(s.Expr, frame)
		if err != nil {
			return nil, err
		}
		return append(code, epilogue()...), nil

	case ast.If:
		return c.lowerIf(s, frame)

	case ast.Block:
		return c.lowerBlock(s, frame)

	case ast.ExprStmt:
		if s.Expr == nil {
			return nil, nil
		}
		return c.lowerExpr(s.Expr, frame)

	case ast.Decl:
		return nil, c.errorf(ErrUnsupportedConstruct,
			"declaration of %q outside a block", s.Name)

	case nil:
		return nil, c.errorf(ErrStructural, "missing statement")

	default:
		return nil, c.errorf(ErrUnsupportedConstruct, "statement %T", stmt)
	}
}

// lowerIf branches to the else label when the condition is zero. Every if
// takes an else and an end label; without an else branch the else label
// sits directly before the end label.
func (c *genContext) lowerIf(s ast.If, frame Frame) (asm.Code, error) {
	if s.Cond == nil || s.Then == nil {
		return nil, c.errorf(ErrStructural, "if statement is missing its condition or body")
	}

	code, err := c.lowerExpr(s.Cond, frame)
	if err != nil {
		return nil, err
	}
	then, err := c.lowerStmt(s.Then, frame)
	if err != nil {
		return nil, err
	}

	var els asm.Code
	if s.Else != nil {
		els, err = c.lowerStmt(s.Else, frame)
		if err != nil {
			return nil, err
		}
	}
	elseLabel := c.labels.Next("else")
	end := c.labels.Next("endif")

	code = append(code, asm.CMPQ{Src: asm.Imm(0), Dst: asm.RAX})
	code = append(code, asm.JCC{Cond: asm.CondE, Target: elseLabel})
	code = append(code, then...)
	if s.Else == nil {
		return append(code, asm.LabelDef{Name: elseLabel}, asm.LabelDef{Name: end}), nil
	}
	code = append(code, asm.JMP{Target: end}, asm.LabelDef{Name: elseLabel})
	code = append(code, els...)
	return append(code, asm.LabelDef{Name: end}), nil
}
