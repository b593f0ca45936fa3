package ast

// Stmt represents a statement.  All statement nodes implement the `Stmt`
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

func (sb StmtBase) stmt() {}

// -----------------------------------------------------------------------------

// VarDecl represents an annotated variable declaration, optionally carrying
// an initializer: `x: int = 10` or `x: int`.
type VarDecl struct {
	StmtBase

	// The name of the declared variable.
	Name string

	// The spelling of the type annotation.
	Annot string

	// The initializer expression.  May be nil for a pure declaration.
	Value Expr
}

// Assign represents a plain assignment to an already-declared name.
type Assign struct {
	StmtBase

	// The name being assigned to.
	Name string

	// The assigned value.
	Value Expr
}

// IndexAssign represents an assignment through a subscript: `xs[i] = v`.
type IndexAssign struct {
	StmtBase

	// The subscripted expression.
	Target Expr

	// The index expression.
	Index Expr

	// The assigned value.
	Value Expr
}

// Return represents a return statement.
type Return struct {
	StmtBase

	// The returned value.  May be nil.
	Value Expr
}

// If represents an if statement.  `elif` chains are represented as a nested
// If inside the Else slice, mirroring the source parser's layout.
type If struct {
	StmtBase

	// The branch condition.
	Cond Expr

	// The statements run when the condition holds.
	Body []Stmt

	// The statements run otherwise.  May be empty.
	Else []Stmt
}

// While represents a while loop.
type While struct {
	StmtBase

	// The loop condition.
	Cond Expr

	// The loop body.
	Body []Stmt
}

// For represents a for loop over an iterable expression.  Only range-based
// iterables survive IR construction; anything else is rejected there.
type For struct {
	StmtBase

	// The name of the loop variable.
	Var string

	// The iterable expression.
	Iter Expr

	// The loop body.
	Body []Stmt
}

// Break represents a break statement.
type Break struct {
	StmtBase
}

// Continue represents a continue statement.
type Continue struct {
	StmtBase
}

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	StmtBase

	// The wrapped expression.
	X Expr
}
