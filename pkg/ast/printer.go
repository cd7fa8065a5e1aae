package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs the AST as fully parenthesized C
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program
func (p *Printer) PrintProgram(prog *Program) {
	for _, def := range prog.Definitions {
		p.printDefinition(def)
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printDefinition(def Definition) {
	switch d := def.(type) {
	case FunDef:
		fmt.Fprintf(p.w, "int %s()\n", d.Name)
		if d.Body != nil {
			p.printBlock(*d.Body)
		} else {
			fmt.Fprintln(p.w, "{\n}")
		}
	default:
		fmt.Fprintf(p.w, "/* unknown definition %T */\n", def)
	}
}

func (p *Printer) printBlock(b Block) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, item := range b.Items {
		p.printStmt(item)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printStmt(s Stmt) {
	switch st := s.(type) {
	case Block:
		p.printBlock(st)
		return
	case If:
		p.writeIndent()
		fmt.Fprintf(p.w, "if (%s)\n", ExprString(st.Cond))
		p.printNested(st.Then)
		if st.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.printNested(st.Else)
		}
		return
	}

	p.writeIndent()
	switch st := s.(type) {
	case Decl:
		if st.Init != nil {
			fmt.Fprintf(p.w, "int %s = %s;\n", st.Name, ExprString(st.Init))
		} else {
			fmt.Fprintf(p.w, "int %s;\n", st.Name)
		}
	case Return:
		fmt.Fprintf(p.w, "return %s;\n", ExprString(st.Expr))
	case ExprStmt:
		if st.Expr == nil {
			fmt.Fprintln(p.w, ";")
		} else {
			fmt.Fprintf(p.w, "%s;\n", ExprString(st.Expr))
		}
	default:
		fmt.Fprintf(p.w, "/* unknown statement %T */\n", s)
	}
}

// printNested prints an if branch; blocks stay at the current level, single
// statements are indented one step.
func (p *Printer) printNested(s Stmt) {
	if b, ok := s.(Block); ok {
		p.printBlock(b)
		return
	}
	p.indent++
	p.printStmt(s)
	p.indent--
}

// ExprString renders an expression with every compound subexpression
// parenthesized, so grouping chosen by the parser is visible.
func ExprString(e Expr) string {
	switch ex := e.(type) {
	case nil:
		return "<nil>"
	case Constant:
		return fmt.Sprintf("%d", ex.Value)
	case Variable:
		return ex.Name
	case Assign:
		return fmt.Sprintf("(%s = %s)", ex.Name, ExprString(ex.Value))
	case Unary:
		if _, nested := ex.Expr.(Unary); nested {
			return fmt.Sprintf("%s(%s)", ex.Op, ExprString(ex.Expr))
		}
		return fmt.Sprintf("%s%s", ex.Op, ExprString(ex.Expr))
	case Binary:
		return fmt.Sprintf("(%s %s %s)", ExprString(ex.Left), ex.Op, ExprString(ex.Right))
	case Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", ExprString(ex.Cond), ExprString(ex.Then), ExprString(ex.Else))
	default:
		return fmt.Sprintf("/* unknown expression %T */", e)
	}
}
