package codegen

import (
	"fmt"
	"sync/atomic"

	"github.com/raymyers/crustcc/pkg/asm"
)

// LabelAllocator hands out labels that are unique across a whole compilation
// run. It is safe for concurrent use; numbers only promise uniqueness, not a
// particular order between functions lowered in parallel.
type LabelAllocator struct {
	next atomic.Int64
}

// NewLabelAllocator returns an allocator whose first label is numbered 0
func NewLabelAllocator() *LabelAllocator {
	return &LabelAllocator{}
}

// Next returns a fresh label of the form .L<prefix><n>
func (a *LabelAllocator) Next(prefix string) asm.Label {
	n := a.next.Add(1) - 1
	return asm.Label(fmt.Sprintf(".L%s%d", prefix, n))
}
