package codegen

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestFrameSlotsDecreaseByEight(t *testing.T) {
	var f Frame
	prev := f.Cursor()
	for _, name := range []string{"a", "b", "c", "d"} {
		f = f.bind(name)
		ofs, ok := f.Lookup(name)
		be.True(t, ok)
		be.Equal(t, ofs, prev-slotSize)
		be.Equal(t, f.Cursor(), ofs)
		prev = ofs
	}
}

func TestFrameBindDoesNotMutateParent(t *testing.T) {
	parent := Frame{}.bind("x")
	child := parent.bind("y").bind("x")

	_, ok := parent.Lookup("y")
	be.True(t, !ok)

	ofs, _ := parent.Lookup("x")
	be.Equal(t, ofs, int64(-8))

	shadow, _ := child.Lookup("x")
	be.Equal(t, shadow, int64(-24))
	be.Equal(t, parent.Cursor(), int64(-8))
}

func TestScopeWithCopies(t *testing.T) {
	s := Scope{}
	s2 := s.with("a")
	s3 := s2.with("b")

	be.True(t, !s.Has("a"))
	be.True(t, s2.Has("a"))
	be.True(t, !s2.Has("b"))
	be.True(t, s3.Has("a") && s3.Has("b"))
	be.Equal(t, s.releaseBytes(), int64(0))
	be.Equal(t, s3.releaseBytes(), int64(16))
}
