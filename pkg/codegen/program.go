package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/crustcc/pkg/asm"
	"github.com/raymyers/crustcc/pkg/ast"
	"golang.org/x/sync/errgroup"
)

// GenerateProgram lowers every function of prog, in source order, and wraps
// them in the file-level directives. Any error aborts the whole unit.
func (g *Generator) GenerateProgram(prog *ast.Program) (asm.Code, error) {
	if prog == nil {
		return nil, &Error{Kind: ErrStructural, Detail: "no program"}
	}

	funcs := make([]ast.FunDef, len(prog.Definitions))
	for i, def := range prog.Definitions {
		fn, ok := def.(ast.FunDef)
		if !ok {
			return nil, &Error{Kind: ErrUnsupportedConstruct,
				Detail: "top-level definition " + strconv.Quote(typeName(def)) + " is not a function"}
		}
		funcs[i] = fn
	}

	bodies, err := g.lowerFunctions(funcs)
	if err != nil {
		return nil, err
	}

	code := asm.Code{
		asm.Directive{Name: ".file", Args: []string{strconv.Quote(prog.Name)}},
		asm.Directive{Name: ".text"},
	}
	for _, body := range bodies {
		code = append(code, body...)
	}
	code = append(code,
		asm.Directive{Name: ".ident", Args: []string{strconv.Quote(g.opts.Ident)}},
		asm.Directive{Name: ".section", Args: []string{".note.GNU-stack", `""`, "@progbits"}},
	)
	return code, nil
}

// LowerProgram returns the assembly text for prog
func (g *Generator) LowerProgram(prog *ast.Program) (string, error) {
	code, err := g.GenerateProgram(prog)
	if err != nil {
		return "", err
	}
	return code.String(), nil
}

// lowerFunctions lowers funcs, concurrently when Jobs > 1. The reported
// error is the one from the earliest function in source order.
func (g *Generator) lowerFunctions(funcs []ast.FunDef) ([]asm.Code, error) {
	bodies := make([]asm.Code, len(funcs))
	errs := make([]error, len(funcs))

	if g.opts.Jobs <= 1 {
		for i, fn := range funcs {
			body, err := g.LowerFunction(fn)
			if err != nil {
				return nil, err
			}
			bodies[i] = body
		}
		return bodies, nil
	}

	var eg errgroup.Group
	eg.SetLimit(g.opts.Jobs)
	for i, fn := range funcs {
		eg.Go(func() error {
			bodies[i], errs[i] = g.LowerFunction(fn)
			return errs[i]
		})
	}
	if eg.Wait() != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return bodies, nil
}

func typeName(def ast.Definition) string {
	if def == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", def), "ast.")
}
