package sir

import "pyrite/report"

// Expr represents an IR expression.  Every expression carries its result
// type.
type Expr interface {
	Node

	// Type returns the result type of the expression.
	Type() Type
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	NodeBase

	typ Type
}

// NewExprBase creates a new expression base with the given result type and
// span.
func NewExprBase(typ Type, span *report.TextSpan) ExprBase {
	return ExprBase{NodeBase: NewNodeBase(KindExpression, span), typ: typ}
}

func (eb *ExprBase) Type() Type {
	return eb.typ
}

// -----------------------------------------------------------------------------

// BinaryOp is a binary operation.  The operator spelling together with the
// result type selects the lowered instruction family.
type BinaryOp struct {
	ExprBase

	Left Expr

	// The operator spelling.
	Op string

	Right Expr
}

// NewBinaryOp creates a new binary operation node.
func NewBinaryOp(left Expr, op string, right Expr, typ Type, span *report.TextSpan) *BinaryOp {
	n := &BinaryOp{ExprBase: NewExprBase(typ, span), Left: left, Op: op, Right: right}
	AddChild(n, left)
	AddChild(n, right)

	return n
}

// Literal is a literal value.  Value holds an int64, float64, bool or string
// for scalar literals, a []Expr for composite (list) literals, or nil for
// the builder's lenient placeholder.
type Literal struct {
	ExprBase

	Value interface{}
}

// NewLiteral creates a new literal node.
func NewLiteral(value interface{}, typ Type, span *report.TextSpan) *Literal {
	n := &Literal{ExprBase: NewExprBase(typ, span), Value: value}
	if elems, ok := value.([]Expr); ok {
		for _, e := range elems {
			AddChild(n, e)
		}
	}

	return n
}

// Elems returns the sub-expressions of a composite literal, or nil for
// scalar literals.
func (l *Literal) Elems() []Expr {
	elems, _ := l.Value.([]Expr)
	return elems
}

// VarRef is a reference to a variable.  Its result type is the referenced
// variable's declared type.
type VarRef struct {
	ExprBase

	Ref *Var
}

// NewVarRef creates a new variable reference node.
func NewVarRef(v *Var, span *report.TextSpan) *VarRef {
	return &VarRef{ExprBase: NewExprBase(v.Typ, span), Ref: v}
}

// The synthetic pseudo-method names produced by the builder for container
// mutation and indexing.  The lowering engine translates them directly into
// runtime ABI calls; the operand-side container values are already
// addresses.
const (
	PseudoListAppend = "__list_append"
	PseudoListGet    = "__list_get"
	PseudoListSet    = "__list_set"
)

// Call is a direct call of a named function.  The name may also be a runtime
// routine or one of the builder's synthetic container pseudo-methods; the
// lowering engine resolves those families before consulting the function
// table.
type Call struct {
	ExprBase

	// The called name.
	Name string

	// The argument expressions in order.
	Args []Expr
}

// NewCall creates a new call node.
func NewCall(name string, args []Expr, returnType Type, span *report.TextSpan) *Call {
	n := &Call{ExprBase: NewExprBase(returnType, span), Name: name, Args: args}
	for _, a := range args {
		AddChild(n, a)
	}

	return n
}

// Cast is an explicit conversion of a value to the node's result type.
type Cast struct {
	ExprBase

	X Expr
}

// NewCast creates a new cast node.
func NewCast(x Expr, typ Type, span *report.TextSpan) *Cast {
	n := &Cast{ExprBase: NewExprBase(typ, span), X: x}
	AddChild(n, x)

	return n
}
