package ast

// Expr represents an expression.  All expression nodes implement the `Expr`
// interface.  Expressions are untyped at this stage: types are attached
// during IR construction.
type Expr interface {
	Node

	// expr distinguishes expressions from other nodes; it is never called.
	expr()
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	NodeBase
}

func (eb ExprBase) expr() {}

// -----------------------------------------------------------------------------

// IntLit represents an integer literal.
type IntLit struct {
	ExprBase

	Value int64
}

// FloatLit represents a floating-point literal.
type FloatLit struct {
	ExprBase

	Value float64
}

// StringLit represents a string literal.
type StringLit struct {
	ExprBase

	Value string
}

// BoolLit represents a boolean literal.
type BoolLit struct {
	ExprBase

	Value bool
}

// ListLit represents a list literal: `[1, 2, 3]`.
type ListLit struct {
	ExprBase

	// The element expressions in source order.
	Elems []Expr
}

// Name represents a reference to a declared name.
type Name struct {
	ExprBase

	Value string
}

// BinOp represents an arithmetic, bitwise or shift binary operation.
type BinOp struct {
	ExprBase

	Left Expr

	// The operator spelling: one of + - * / // % << >> & | ^.
	Op string

	Right Expr
}

// UnaryOp represents a unary operation.  Only numeric negation survives IR
// construction.
type UnaryOp struct {
	ExprBase

	// The operator spelling.
	Op string

	X Expr
}

// Compare represents a single comparison: `a < b`.  Chained comparisons are
// split apart by the parser.
type Compare struct {
	ExprBase

	Left Expr

	// The operator spelling: one of < <= > >= == !=.
	Op string

	Right Expr
}

// BoolOp represents a short-circuiting boolean operation.
type BoolOp struct {
	ExprBase

	Left Expr

	// The operator spelling: `and` or `or`.
	Op string

	Right Expr
}

// Call represents a direct call of a named function or builtin.
type Call struct {
	ExprBase

	// The called name.
	Func string

	// The argument expressions in order.
	Args []Expr
}

// MethodCall represents a call through an attribute: `recv.method(args)`.
// These are rewritten into runtime pseudo-calls during IR construction.
type MethodCall struct {
	ExprBase

	// The receiver expression.
	Recv Expr

	// The method name.
	Method string

	// The argument expressions in order.
	Args []Expr
}

// Index represents a subscript read: `xs[i]`.
type Index struct {
	ExprBase

	// The subscripted expression.
	X Expr

	// The index expression.
	Idx Expr
}
