package codegen

import "github.com/raymyers/crustcc/pkg/ast"

// AlwaysReturns reports whether every control path through s ends in a
// return statement. It is conservative: conditions are never evaluated, so
// "if (1) return 1;" does not count.
func AlwaysReturns(s ast.Stmt) bool {
	switch st := s.(type) {
	case ast.Return:
		return true
	case ast.Block:
		// Items after a guaranteed return are unreachable.
		for _, item := range st.Items {
			if AlwaysReturns(item) {
				return true
			}
		}
		return false
	case ast.If:
		return st.Else != nil && AlwaysReturns(st.Then) && AlwaysReturns(st.Else)
	default:
		return false
	}
}
