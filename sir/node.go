package sir

import "pyrite/report"

// NodeKind enumerates the kinds of IR nodes.
type NodeKind int

// Enumeration of node kinds.
const (
	KindModule NodeKind = iota
	KindFunction
	KindVariable
	KindExpression
	KindStatement
	KindTypeDecl
	KindControlFlow
)

// Node is the abstract interface for all IR nodes.  The node set is closed:
// only this package defines implementations, so consumers can type switch
// exhaustively over the concrete kinds.
type Node interface {
	// Kind returns the kind of the node.
	Kind() NodeKind

	// Span returns the source span the node was built from, if any.
	Span() *report.TextSpan

	// Parent returns the node owning this node, or nil for the root.  The
	// parent link is a non-owning back-reference used only for ancestor
	// queries.
	Parent() Node

	// Children returns the ordered child nodes.
	Children() []Node

	// base exposes the embedded node base, sealing the interface.
	base() *NodeBase
}

// NodeBase is the base struct embedded by all IR nodes.
type NodeBase struct {
	kind     NodeKind
	span     *report.TextSpan
	parent   Node
	children []Node
}

// NewNodeBase creates a new node base of the given kind and span.
func NewNodeBase(kind NodeKind, span *report.TextSpan) NodeBase {
	return NodeBase{kind: kind, span: span}
}

func (nb *NodeBase) Kind() NodeKind {
	return nb.kind
}

func (nb *NodeBase) Span() *report.TextSpan {
	return nb.span
}

func (nb *NodeBase) Parent() Node {
	return nb.parent
}

func (nb *NodeBase) Children() []Node {
	return nb.children
}

func (nb *NodeBase) base() *NodeBase {
	return nb
}

// -----------------------------------------------------------------------------

// AddChild attaches a child node to a parent, maintaining the parent
// back-reference.  A child is exclusively owned by exactly one parent: the
// IR is a tree, not a DAG.
func AddChild(parent, child Node) {
	if child == nil {
		return
	}

	child.base().parent = parent

	pb := parent.base()
	pb.children = append(pb.children, child)
}

// RemoveChild detaches a child node from a parent.
func RemoveChild(parent, child Node) {
	pb := parent.base()
	for i, c := range pb.children {
		if c == child {
			child.base().parent = nil
			pb.children = append(pb.children[:i], pb.children[i+1:]...)
			return
		}
	}
}

// Ancestors returns the ancestor chain of a node, nearest first.
func Ancestors(n Node) []Node {
	var ancestors []Node
	for current := n.Parent(); current != nil; current = current.Parent() {
		ancestors = append(ancestors, current)
	}

	return ancestors
}

// ChildrenOfKind returns the direct children of a node matching a kind.
func ChildrenOfKind(n Node, kind NodeKind) []Node {
	var matched []Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			matched = append(matched, c)
		}
	}

	return matched
}
