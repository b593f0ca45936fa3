// Package ast defines the syntax tree for the statically-annotated scripting
// subset.  The tree is the input boundary of the compiler: it is produced by
// an external parser and consumed by the IR builder.  No parsing happens in
// this module.
package ast

import "pyrite/report"

// The abstract interface for all syntax tree nodes.
type Node interface {
	// The text span of the node.
	Span() *report.TextSpan
}

// A utility base struct for all syntax tree nodes.
type NodeBase struct {
	// The span over which the node occurs.
	span *report.TextSpan
}

// NewNodeBaseOn creates a new node base with the given span.
func NewNodeBaseOn(span *report.TextSpan) NodeBase {
	return NodeBase{span: span}
}

// NewNodeBaseOver creates a new node base spanning over two spans.
func NewNodeBaseOver(start, end *report.TextSpan) NodeBase {
	return NodeBase{span: report.NewSpanOver(start, end)}
}

func (nb NodeBase) Span() *report.TextSpan {
	return nb.span
}

// -----------------------------------------------------------------------------

// Module is the root node of a parsed source file.
type Module struct {
	NodeBase

	// The name of the module.
	Name string

	// The top level function definitions in declaration order.
	Funcs []*FuncDef
}

// FuncDef represents a top level function definition.
type FuncDef struct {
	NodeBase

	// The name of the function.
	Name string

	// The declared parameters in order.
	Params []*Param

	// The spelling of the return annotation.  Empty when the function has no
	// return annotation.
	ReturnAnnot string

	// The statements making up the function body.
	Body []Stmt
}

// Param represents a single declared function parameter.
type Param struct {
	NodeBase

	// The name of the parameter.
	Name string

	// The spelling of the type annotation.  Empty when unannotated.
	Annot string
}
