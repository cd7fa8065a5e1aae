// Package ast defines the abstract syntax tree for the C subset accepted by
// crustcc. Precedence levels of the grammar are folded away by the parser,
// so every node here carries meaning of its own.
package ast

// Node is the base interface for all AST nodes
type Node interface {
	implNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implExpr()
}

// Stmt is the interface for all block items (statements and declarations)
type Stmt interface {
	Node
	implStmt()
}

// Definition is the interface for top-level definitions
type Definition interface {
	Node
	implDefinition()
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd // &&
	OpOr  // ||
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "<", "<=", ">", ">=", "==", "!=", "&&", "||"}
	if op >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpNeg    UnaryOp = iota // -
	OpNot                   // !
	OpBitNot                // ~
)

func (op UnaryOp) String() string {
	names := []string{"-", "!", "~"}
	if op >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Constant represents an integer constant
type Constant struct {
	Value int64
}

// Variable represents an identifier expression
type Variable struct {
	Name string
}

// Assign stores Value into an existing variable; the expression's value is
// the stored value.
type Assign struct {
	Name  string
	Value Expr
}

// Unary represents a unary expression
type Unary struct {
	Op   UnaryOp
	Expr Expr
}

// Binary represents a binary expression
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Conditional represents the ternary operator: cond ? then : else
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Decl declares a local variable, optionally initialized
type Decl struct {
	Name string
	Init Expr // nil when absent
}

// Return represents a return statement
type Return struct {
	Expr Expr
}

// If represents a conditional statement
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when there is no else branch
}

// ExprStmt evaluates an expression for its side effects. A nil Expr is the
// null statement ";".
type ExprStmt struct {
	Expr Expr
}

// Block represents a compound statement (block)
type Block struct {
	Items []Stmt
}

// FunDef represents a function definition
type FunDef struct {
	Name string
	Body *Block
}

// Program is a whole translation unit
type Program struct {
	Name        string // source file name, used for the .file directive
	Definitions []Definition
}

// Marker methods for interface implementation
func (Constant) implNode() {}
func (Constant) implExpr() {}

func (Variable) implNode() {}
func (Variable) implExpr() {}

func (Assign) implNode() {}
func (Assign) implExpr() {}

func (Unary) implNode() {}
func (Unary) implExpr() {}

func (Binary) implNode() {}
func (Binary) implExpr() {}

func (Conditional) implNode() {}
func (Conditional) implExpr() {}

func (Decl) implNode() {}
func (Decl) implStmt() {}

func (Return) implNode() {}
func (Return) implStmt() {}

func (If) implNode() {}
func (If) implStmt() {}

func (ExprStmt) implNode() {}
func (ExprStmt) implStmt() {}

func (Block) implNode() {}
func (Block) implStmt() {}

func (FunDef) implNode()       {}
func (FunDef) implDefinition() {}

func (Program) implNode() {}
