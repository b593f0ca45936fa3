package sir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeWiring(t *testing.T) {
	mod := NewModule("m")
	fn := NewFunc("f", TypeOf(Int), nil)
	mod.AddFunc(fn)

	v := NewVar("x", TypeOf(Int), nil)
	fn.AddLocal(v)

	assert.Same(t, mod, fn.Parent())
	assert.Same(t, fn, v.Parent())

	ancestors := Ancestors(v)
	require.Len(t, ancestors, 2)
	assert.Same(t, fn, ancestors[0])
	assert.Same(t, mod, ancestors[1])
}

func TestAssignDoesNotStealOwnedTarget(t *testing.T) {
	fn := NewFunc("f", TypeOf(Void), nil)

	v := NewVar("x", TypeOf(Int), nil)
	fn.AddLocal(v)

	// An assignment to a declared variable references it; the function
	// keeps ownership.
	a := NewAssign(v, NewLiteral(int64(1), TypeOf(Int), nil), nil)
	fn.AddStmt(a)

	assert.Same(t, fn, v.Parent())
	assert.NotContains(t, a.Children(), Node(v))
}

func TestAssignAdoptsUnownedTarget(t *testing.T) {
	v := NewVar("x", TypeOf(Int), nil)
	a := NewAssign(v, nil, nil)

	assert.Same(t, a, v.Parent())
}

func TestRemoveChild(t *testing.T) {
	fn := NewFunc("f", TypeOf(Void), nil)
	v := NewVar("x", TypeOf(Int), nil)
	fn.AddLocal(v)

	RemoveChild(fn, v)

	assert.Nil(t, v.Parent())
	assert.Empty(t, ChildrenOfKind(fn, KindVariable))
}

func TestChildrenOfKind(t *testing.T) {
	fn := NewFunc("f", TypeOf(Void), nil)
	fn.AddParam(NewVar("a", TypeOf(Int), nil))
	fn.AddParam(NewVar("b", TypeOf(Int), nil))
	fn.AddStmt(NewReturn(nil, nil))

	assert.Len(t, ChildrenOfKind(fn, KindVariable), 2)
	assert.Len(t, ChildrenOfKind(fn, KindStatement), 1)
}

func TestLiteralElems(t *testing.T) {
	elems := []Expr{
		NewLiteral(int64(1), TypeOf(Int), nil),
		NewLiteral(int64(2), TypeOf(Int), nil),
	}
	lit := NewLiteral(elems, StructType("vec_int"), nil)

	require.Len(t, lit.Elems(), 2)

	scalar := NewLiteral(int64(3), TypeOf(Int), nil)
	assert.Nil(t, scalar.Elems())
}

func TestSignature(t *testing.T) {
	fn := NewFunc("add", TypeOf(Int), nil)
	fn.AddParam(NewVar("a", TypeOf(Int), nil))
	fn.AddParam(NewVar("b", TypeOf(Int), nil))

	assert.Equal(t, "long long add(long long a, long long b)", fn.Signature())
}
