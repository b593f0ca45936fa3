package sir

import "pyrite/report"

// Stmt represents an IR statement.  All statement nodes implement the `Stmt`
// interface.
type Stmt interface {
	Node

	// stmt distinguishes statements from other nodes; it is never called.
	stmt()
}

// StmtBase is the base struct for all statements.
type StmtBase struct {
	NodeBase
}

// NewStmtBase creates a new statement base with the given span.
func NewStmtBase(span *report.TextSpan) StmtBase {
	return StmtBase{NodeBase: NewNodeBase(KindStatement, span)}
}

func (sb *StmtBase) stmt() {}

// -----------------------------------------------------------------------------

// Assign is an assignment to a variable.  Value may be nil, in which case
// the node is a pure declaration of the target.
type Assign struct {
	StmtBase

	// The assigned variable.
	Target *Var

	// The assigned value.  May be nil.
	Value Expr
}

// NewAssign creates a new assignment node.  The target is attached as a
// child only when nothing owns it yet: a declared variable already belongs
// to its function and the assignment merely references it.
func NewAssign(target *Var, value Expr, span *report.TextSpan) *Assign {
	a := &Assign{StmtBase: NewStmtBase(span), Target: target, Value: value}
	if target.Parent() == nil {
		AddChild(a, target)
	}
	if value != nil {
		AddChild(a, value)
	}

	return a
}

// Return is a return statement.  Value may be nil.
type Return struct {
	StmtBase

	Value Expr
}

// NewReturn creates a new return node.
func NewReturn(value Expr, span *report.TextSpan) *Return {
	r := &Return{StmtBase: NewStmtBase(span), Value: value}
	if value != nil {
		AddChild(r, value)
	}

	return r
}

// If is a conditional statement.
type If struct {
	StmtBase

	Cond Expr
	Then []Stmt
	Else []Stmt
}

// NewIf creates a new conditional node.
func NewIf(cond Expr, then, els []Stmt, span *report.TextSpan) *If {
	n := &If{StmtBase: NewStmtBase(span), Cond: cond, Then: then, Else: els}
	AddChild(n, cond)
	for _, s := range then {
		AddChild(n, s)
	}
	for _, s := range els {
		AddChild(n, s)
	}

	return n
}

// While is a while loop.
type While struct {
	StmtBase

	Cond Expr
	Body []Stmt
}

// NewWhile creates a new while loop node.
func NewWhile(cond Expr, body []Stmt, span *report.TextSpan) *While {
	n := &While{StmtBase: NewStmtBase(span), Cond: cond, Body: body}
	AddChild(n, cond)
	for _, s := range body {
		AddChild(n, s)
	}

	return n
}

// For is a range-based for loop with explicit start, end and step
// expressions.  Step may be nil, meaning a step of one.
type For struct {
	StmtBase

	Var   *Var
	Start Expr
	End   Expr
	Step  Expr
	Body  []Stmt
}

// NewFor creates a new range loop node.
func NewFor(v *Var, start, end, step Expr, body []Stmt, span *report.TextSpan) *For {
	n := &For{StmtBase: NewStmtBase(span), Var: v, Start: start, End: end, Step: step, Body: body}
	if v.Parent() == nil {
		AddChild(n, v)
	}
	AddChild(n, start)
	AddChild(n, end)
	if step != nil {
		AddChild(n, step)
	}
	for _, s := range body {
		AddChild(n, s)
	}

	return n
}

// Break is a break statement.
type Break struct {
	StmtBase
}

// NewBreak creates a new break node.
func NewBreak(span *report.TextSpan) *Break {
	return &Break{StmtBase: NewStmtBase(span)}
}

// Continue is a continue statement.
type Continue struct {
	StmtBase
}

// NewContinue creates a new continue node.
func NewContinue(span *report.TextSpan) *Continue {
	return &Continue{StmtBase: NewStmtBase(span)}
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	StmtBase

	X Expr
}

// NewExprStmt creates a new expression statement node.
func NewExprStmt(x Expr, span *report.TextSpan) *ExprStmt {
	n := &ExprStmt{StmtBase: NewStmtBase(span), X: x}
	AddChild(n, x)

	return n
}
