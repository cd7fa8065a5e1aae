package codegen

import "maps"

// slotSize is the width of one local variable's stack slot in bytes
const slotSize = 8

// Frame maps visible variable names to their offset from %rbp. Frames are
// values: binding a name returns a new Frame and leaves the receiver as it
// was, so a nested block can never disturb its parent's view.
type Frame struct {
	offsets map[string]int64
	cursor  int64 // offset of the most recently allocated slot, 0 when empty
}

// Lookup returns the frame offset of name
func (f Frame) Lookup(name string) (int64, bool) {
	ofs, ok := f.offsets[name]
	return ofs, ok
}

// Cursor returns the current allocation cursor
func (f Frame) Cursor() int64 {
	return f.cursor
}

// bind allocates the next slot below the cursor for name. A name that is
// already visible is shadowed.
func (f Frame) bind(name string) Frame {
	offsets := maps.Clone(f.offsets)
	if offsets == nil {
		offsets = make(map[string]int64)
	}
	cursor := f.cursor - slotSize
	offsets[name] = cursor
	return Frame{offsets: offsets, cursor: cursor}
}

// Scope is the set of names declared directly in one block
type Scope map[string]struct{}

// Has reports whether name was declared in this block
func (s Scope) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// with returns a copy of s that also contains name
func (s Scope) with(name string) Scope {
	out := make(Scope, len(s)+1)
	maps.Copy(out, s)
	out[name] = struct{}{}
	return out
}

// releaseBytes is the stack space owned by this block's declarations
func (s Scope) releaseBytes() int64 {
	return int64(len(s)) * slotSize
}
