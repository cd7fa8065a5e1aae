// Package codegen lowers the AST straight to x86-64 assembly.
//
// Expressions leave their value in %rax. Binary operators spill the left
// operand on the machine stack while the right one is evaluated, then pop
// it into %rcx. Local variables live in 8-byte slots below %rbp; a
// declaration's push is the slot's allocation, and each block releases the
// slots it declared when control leaves it.
package codegen

import (
	"fmt"

	"github.com/raymyers/crustcc/pkg/asm"
)

// DefaultIdent is the .ident text used when Options.Ident is empty
const DefaultIdent = "crustcc"

// Options configures a Generator
type Options struct {
	Ident string // contents of the trailing .ident directive
	Jobs  int    // functions lowered concurrently; <= 1 lowers sequentially
}

// Generator lowers whole programs. The label allocator it owns is shared by
// every function it lowers, so labels stay unique across the unit.
type Generator struct {
	labels *LabelAllocator
	opts   Options
}

// New creates a Generator
func New(opts Options) *Generator {
	if opts.Ident == "" {
		opts.Ident = DefaultIdent
	}
	return &Generator{labels: NewLabelAllocator(), opts: opts}
}

// genContext holds state while lowering one function
type genContext struct {
	labels *LabelAllocator
	fn     string
}

func (c *genContext) errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Function: c.fn, Detail: fmt.Sprintf(format, args...)}
}

// epilogue restores the caller's frame and returns. The CFI state is saved
// around it because code may follow a return inside the same function.
func epilogue() asm.Code {
	return asm.Code{
		asm.Directive{Name: ".cfi_remember_state"},
		asm.MOVQ{Src: asm.RBP, Dst: asm.RSP},
		asm.POPQ{Dst: asm.RBP},
		asm.Directive{Name: ".cfi_def_cfa", Args: []string{"7", "8"}},
		asm.RET{},
		asm.Directive{Name: ".cfi_restore_state"},
	}
}
