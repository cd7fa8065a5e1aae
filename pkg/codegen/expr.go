package codegen

import (
	"math"

	"github.com/raymyers/crustcc/pkg/asm"
	"github.com/raymyers/crustcc/pkg/ast"
)

// relationalConds maps comparison operators to the setCC condition that
// holds when left OP right, given flags from cmpq %rax, %rcx.
var relationalConds = map[ast.BinaryOp]asm.Cond{
	ast.OpLt: asm.CondL,
	ast.OpLe: asm.CondLE,
	ast.OpGt: asm.CondG,
	ast.OpGe: asm.CondGE,
	ast.OpEq: asm.CondE,
	ast.OpNe: asm.CondNE,
}

// lowerExpr lowers e so that its value ends up in %rax
func (c *genContext) lowerExpr(e ast.Expr, frame Frame) (asm.Code, error) {
	switch ex := e.(type) {
	case ast.Constant:
		return loadConstant(ex.Value), nil

	case ast.Variable:
		ofs, ok := frame.Lookup(ex.Name)
		if !ok {
			return nil, c.errorf(ErrUndeclaredVariable, "%q", ex.Name)
		}
		return asm.Code{asm.MOVQ{Src: asm.Mem{Base: asm.RBP, Ofs: ofs}, Dst: asm.RAX}}, nil

	case ast.Assign:
		ofs, ok := frame.Lookup(ex.Name)
		if !ok {
			return nil, c.errorf(ErrUndeclaredVariable, "%q", ex.Name)
		}
		if ex.Value == nil {
			return nil, c.errorf(ErrStructural, "assignment to %q has no value", ex.Name)
		}
		code, err := c.lowerExpr(ex.Value, frame)
		if err != nil {
			return nil, err
		}
		return append(code, asm.MOVQ{Src: asm.RAX, Dst: asm.Mem{Base: asm.RBP, Ofs: ofs}}), nil

	case ast.Unary:
		return c.lowerUnary(ex, frame)

	case ast.Binary:
		if ex.Op == ast.OpAnd || ex.Op == ast.OpOr {
			return c.lowerLogical(ex, frame)
		}
		return c.lowerBinary(ex, frame)

	case ast.Conditional:
		return c.lowerConditional(ex, frame)

	case nil:
		return nil, c.errorf(ErrStructural, "missing expression")

	default:
		return nil, c.errorf(ErrUnsupportedConstruct, "expression %T", e)
	}
}

func loadConstant(v int64) asm.Code {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return asm.Code{asm.MOVABSQ{Imm: v, Dst: asm.RAX}}
	}
	return asm.Code{asm.MOVQ{Src: asm.Imm(v), Dst: asm.RAX}}
}

func (c *genContext) lowerUnary(ex ast.Unary, frame Frame) (asm.Code, error) {
	if ex.Expr == nil {
		return nil, c.errorf(ErrStructural, "unary %s has no operand", ex.Op)
	}

	var tail asm.Code
	switch ex.Op {
	case ast.OpNeg:
		tail = asm.Code{asm.NEGQ{Dst: asm.RAX}}
	case ast.OpBitNot:
		tail = asm.Code{asm.NOTQ{Dst: asm.RAX}}
	case ast.OpNot:
		tail = asm.Code{
			asm.CMPQ{Src: asm.Imm(0), Dst: asm.RAX},
			asm.MOVQ{Src: asm.Imm(0), Dst: asm.RAX},
			asm.SETCC{Cond: asm.CondE, Dst: asm.AL},
		}
	default:
		return nil, c.errorf(ErrUnsupportedConstruct, "unary operator %d", int(ex.Op))
	}

	code, err := c.lowerExpr(ex.Expr, frame)
	if err != nil {
		return nil, err
	}
	return append(code, tail...), nil
}

// lowerBinary evaluates the left operand first and keeps it on the stack
// while the right operand is computed. After the pop, %rcx holds the left
// operand and %rax the right one.
func (c *genContext) lowerBinary(ex ast.Binary, frame Frame) (asm.Code, error) {
	if ex.Left == nil || ex.Right == nil {
		return nil, c.errorf(ErrStructural, "binary %s is missing an operand", ex.Op)
	}

	var tail asm.Code
	switch ex.Op {
	case ast.OpAdd:
		tail = asm.Code{asm.ADDQ{Src: asm.RCX, Dst: asm.RAX}}
	case ast.OpMul:
		tail = asm.Code{asm.IMULQ{Src: asm.RCX, Dst: asm.RAX}}
	case ast.OpSub:
		tail = asm.Code{
			asm.SUBQ{Src: asm.RAX, Dst: asm.RCX},
			asm.MOVQ{Src: asm.RCX, Dst: asm.RAX},
		}
	case ast.OpDiv:
		// idivq divides %rdx:%rax, so the dividend moves into %rax.
		tail = asm.Code{
			asm.XCHGQ{A: asm.RAX, B: asm.RCX},
			asm.CQTO{},
			asm.IDIVQ{Src: asm.RCX},
		}
	default:
		cond, ok := relationalConds[ex.Op]
		if !ok {
			return nil, c.errorf(ErrUnsupportedConstruct, "binary operator %d", int(ex.Op))
		}
		tail = asm.Code{
			asm.CMPQ{Src: asm.RAX, Dst: asm.RCX},
			asm.MOVQ{Src: asm.Imm(0), Dst: asm.RAX},
			asm.SETCC{Cond: cond, Dst: asm.AL},
		}
	}

	left, err := c.lowerExpr(ex.Left, frame)
	if err != nil {
		return nil, err
	}
	right, err := c.lowerExpr(ex.Right, frame)
	if err != nil {
		return nil, err
	}

	code := append(left, asm.PUSHQ{Src: asm.RAX})
	code = append(code, right...)
	code = append(code, asm.POPQ{Dst: asm.RCX})
	return append(code, tail...), nil
}

// lowerLogical lowers && and || with short-circuit evaluation. The right
// operand is only reached when the left one does not decide the result, and
// the result is always 0 or 1.
func (c *genContext) lowerLogical(ex ast.Binary, frame Frame) (asm.Code, error) {
	if ex.Left == nil || ex.Right == nil {
		return nil, c.errorf(ErrStructural, "binary %s is missing an operand", ex.Op)
	}

	left, err := c.lowerExpr(ex.Left, frame)
	if err != nil {
		return nil, err
	}
	right, err := c.lowerExpr(ex.Right, frame)
	if err != nil {
		return nil, err
	}

	code := append(left, asm.CMPQ{Src: asm.Imm(0), Dst: asm.RAX})
	var rhs, end asm.Label
	if ex.Op == ast.OpAnd {
		rhs = c.labels.Next("and_rhs")
		end = c.labels.Next("and_end")
		// %rax is already 0 on the jump to end.
		code = append(code,
			asm.JCC{Cond: asm.CondNE, Target: rhs},
			asm.JMP{Target: end},
		)
	} else {
		rhs = c.labels.Next("or_rhs")
		end = c.labels.Next("or_end")
		code = append(code,
			asm.JCC{Cond: asm.CondE, Target: rhs},
			asm.MOVQ{Src: asm.Imm(1), Dst: asm.RAX},
			asm.JMP{Target: end},
		)
	}

	code = append(code, asm.LabelDef{Name: rhs})
	code = append(code, right...)
	code = append(code,
		asm.CMPQ{Src: asm.Imm(0), Dst: asm.RAX},
		asm.MOVQ{Src: asm.Imm(0), Dst: asm.RAX},
		asm.SETCC{Cond: asm.CondNE, Dst: asm.AL},
		asm.LabelDef{Name: end},
	)
	return code, nil
}

func (c *genContext) lowerConditional(ex ast.Conditional, frame Frame) (asm.Code, error) {
	if ex.Cond == nil || ex.Then == nil || ex.Else == nil {
		return nil, c.errorf(ErrStructural, "conditional expression is missing an operand")
	}

	code, err := c.lowerExpr(ex.Cond, frame)
	if err != nil {
		return nil, err
	}
	then, err := c.lowerExpr(ex.Then, frame)
	if err != nil {
		return nil, err
	}
	els, err := c.lowerExpr(ex.Else, frame)
	if err != nil {
		return nil, err
	}

	elseLabel := c.labels.Next("cond_else")
	end := c.labels.Next("cond_end")
	code = append(code,
		asm.CMPQ{Src: asm.Imm(0), Dst: asm.RAX},
		asm.JCC{Cond: asm.CondE, Target: elseLabel},
	)
	code = append(code, then...)
	code = append(code, asm.JMP{Target: end}, asm.LabelDef{Name: elseLabel})
	code = append(code, els...)
	return append(code, asm.LabelDef{Name: end}), nil
}
