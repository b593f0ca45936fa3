package sir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclScalar(t *testing.T) {
	assert.Equal(t, "long long x", TypeOf(Int).Decl("x"))
	assert.Equal(t, "double ratio", TypeOf(Float).Decl("ratio"))
	assert.Equal(t, "char* name", TypeOf(String).Decl("name"))
}

func TestDeclPointer(t *testing.T) {
	pt := TypeOf(Int)
	pt.IsPointer = true

	// A pointer type with no recorded depth still gets one star.
	assert.Equal(t, "long long *p", pt.Decl("p"))

	pt.PointerDepth = 2
	assert.Equal(t, "long long **p", pt.Decl("p"))
}

func TestDeclArray(t *testing.T) {
	at := TypeOf(Int)
	at.ArrayDims = []int{4, 8}

	assert.Equal(t, "long long grid[4][8]", at.Decl("grid"))
}

func TestDeclStruct(t *testing.T) {
	st := StructType("vec_int")

	assert.Equal(t, "struct vec_int v", st.Decl("v"))
	assert.True(t, st.IsAggregate())
}

func TestDeclConstQualified(t *testing.T) {
	ct := TypeOf(Int)
	ct.Const = true

	assert.Equal(t, "const long long k", ct.Decl("k"))
}

func TestDeclUnknownBaseIsVoid(t *testing.T) {
	var bad Type
	bad.Base = DataType(999)

	assert.Equal(t, "void x", bad.Decl("x"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, TypeOf(Int).IsNumeric())
	assert.True(t, TypeOf(Float).IsNumeric())
	assert.False(t, TypeOf(String).IsNumeric())
	assert.False(t, StructType("vec_int").IsNumeric())
}

func TestIsAggregate(t *testing.T) {
	assert.False(t, TypeOf(Int).IsAggregate())
	assert.True(t, StructType("str_array").IsAggregate())

	at := TypeOf(Int)
	at.ArrayDims = []int{3}
	assert.True(t, at.IsAggregate())
}
