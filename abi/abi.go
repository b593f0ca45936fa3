// Package abi describes the runtime library's ABI to the lowering engine:
// the external struct layouts and function signatures generated code is
// allowed to call.  Declarations are built lazily and deduplicated, so the
// lowering engine may request the same struct or function from any number of
// call sites within one module.
//
// The layouts here are a bit-exact contract with the compiled runtime
// library.  Field order and widths must match it exactly: a mismatch is a
// silent memory-corruption risk in the produced binary, not a caught error.
package abi

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Table tracks the runtime declarations made on one LLVM module.
type Table struct {
	mod *ir.Module

	structs map[string]*types.StructType
	funcs   map[string]*ir.Func
}

// NewTable creates an empty declaration table bound to the given module.
func NewTable(mod *ir.Module) *Table {
	return &Table{
		mod:     mod,
		structs: make(map[string]*types.StructType),
		funcs:   make(map[string]*ir.Func),
	}
}

// Func returns the declared runtime function with the given name.  It fails
// if the function is requested before its declaration group has been
// registered.
func (t *Table) Func(name string) (*ir.Func, error) {
	fn, ok := t.funcs[name]
	if !ok {
		return nil, fmt.Errorf("runtime function `%s` requested before its declaration group was registered", name)
	}

	return fn, nil
}

// declare adds one extern function declaration, returning the existing
// handle if the name was already declared.
func (t *Table) declare(name string, ret types.Type, params ...*ir.Param) *ir.Func {
	if fn, ok := t.funcs[name]; ok {
		return fn
	}

	fn := t.mod.NewFunc(name, ret, params...)
	t.funcs[name] = fn

	return fn
}

// -----------------------------------------------------------------------------

// VecInt returns the dynamic vector-of-int struct type, creating it on first
// request:
//
//	struct vec_int { i64* data; i64 size; i64 capacity; }
func (t *Table) VecInt() *types.StructType {
	if st, ok := t.structs["vec_int"]; ok {
		return st
	}

	st := types.NewStruct(
		types.NewPointer(types.I64), // data
		types.I64,                   // size
		types.I64,                   // capacity
	)
	t.mod.NewTypeDef("vec_int", st)
	t.structs["vec_int"] = st

	return st
}

// VecVecInt returns the vector-of-vector-of-int struct type:
//
//	struct vec_vec_int { vec_int* data; i64 size; i64 capacity; }
func (t *Table) VecVecInt() *types.StructType {
	if st, ok := t.structs["vec_vec_int"]; ok {
		return st
	}

	st := types.NewStruct(
		types.NewPointer(t.VecInt()), // data
		types.I64,                    // size
		types.I64,                    // capacity
	)
	t.mod.NewTypeDef("vec_vec_int", st)
	t.structs["vec_vec_int"] = st

	return st
}

// StrArray returns the string array struct type:
//
//	struct str_array { i8** strings; i64 count; i64 capacity; }
func (t *Table) StrArray() *types.StructType {
	if st, ok := t.structs["str_array"]; ok {
		return st
	}

	st := types.NewStruct(
		types.NewPointer(types.I8Ptr), // strings
		types.I64,                     // count
		types.I64,                     // capacity
	)
	t.mod.NewTypeDef("str_array", st)
	t.structs["str_array"] = st

	return st
}

// Struct returns the runtime struct type with the given name, or nil if the
// name is not a runtime aggregate.
func (t *Table) Struct(name string) *types.StructType {
	switch name {
	case "vec_int":
		return t.VecInt()
	case "vec_vec_int":
		return t.VecVecInt()
	case "str_array":
		return t.StrArray()
	}

	return nil
}

// -----------------------------------------------------------------------------

// DeclareVecInt registers the vec_int runtime function group.  Redeclaring a
// group is a no-op.
func (t *Table) DeclareVecInt() {
	vecPtr := types.NewPointer(t.VecInt())
	i64Ptr := types.NewPointer(types.I64)

	t.declare("vec_int_init_ptr", types.Void, ir.NewParam("out", vecPtr))
	t.declare("vec_int_push", types.Void, ir.NewParam("vec", vecPtr), ir.NewParam("value", types.I64))
	t.declare("vec_int_at", types.I64, ir.NewParam("vec", vecPtr), ir.NewParam("index", types.I64))
	t.declare("vec_int_set", types.Void, ir.NewParam("vec", vecPtr), ir.NewParam("index", types.I64), ir.NewParam("value", types.I64))
	t.declare("vec_int_size", types.I64, ir.NewParam("vec", vecPtr))
	t.declare("vec_int_data", i64Ptr, ir.NewParam("vec", vecPtr))
	t.declare("vec_int_clear", types.Void, ir.NewParam("vec", vecPtr))
	t.declare("vec_int_reserve", types.Void, ir.NewParam("vec", vecPtr), ir.NewParam("new_capacity", types.I64))
	t.declare("vec_int_free", types.Void, ir.NewParam("vec", vecPtr))
}

// DeclareVecVecInt registers the vec_vec_int runtime function group.  Rows
// are passed by pointer to avoid struct-by-value calls at the ABI boundary.
func (t *Table) DeclareVecVecInt() {
	vvPtr := types.NewPointer(t.VecVecInt())
	vecPtr := types.NewPointer(t.VecInt())

	t.declare("vec_vec_int_init_ptr", types.Void, ir.NewParam("out", vvPtr))
	t.declare("vec_vec_int_push", types.Void, ir.NewParam("vec", vvPtr), ir.NewParam("row", vecPtr))
	t.declare("vec_vec_int_at", vecPtr, ir.NewParam("vec", vvPtr), ir.NewParam("index", types.I64))
	t.declare("vec_vec_int_size", types.I64, ir.NewParam("vec", vvPtr))
	t.declare("vec_vec_int_clear", types.Void, ir.NewParam("vec", vvPtr))
	t.declare("vec_vec_int_free", types.Void, ir.NewParam("vec", vvPtr))
}

// DeclareStrings registers the string manipulation and string array function
// groups.
func (t *Table) DeclareStrings() {
	arrPtr := types.NewPointer(t.StrArray())

	t.declare("str_split", arrPtr, ir.NewParam("str", types.I8Ptr), ir.NewParam("delimiter", types.I8Ptr))
	t.declare("str_lower", types.I8Ptr, ir.NewParam("str", types.I8Ptr))
	t.declare("str_strip", types.I8Ptr, ir.NewParam("str", types.I8Ptr))
	t.declare("str_concat", types.I8Ptr, ir.NewParam("str1", types.I8Ptr), ir.NewParam("str2", types.I8Ptr))
	t.declare("str_array_get", types.I8Ptr, ir.NewParam("arr", arrPtr), ir.NewParam("index", types.I64))
	t.declare("str_array_size", types.I64, ir.NewParam("arr", arrPtr))
	t.declare("str_array_free", types.Void, ir.NewParam("arr", arrPtr))
}

// DeclareLibc registers the C library externs generated code leans on for
// string measurement, allocation and formatted output.
func (t *Table) DeclareLibc() {
	t.declare("strlen", types.I64, ir.NewParam("str", types.I8Ptr))
	t.declare("strcpy", types.I8Ptr, ir.NewParam("dst", types.I8Ptr), ir.NewParam("src", types.I8Ptr))
	t.declare("strcat", types.I8Ptr, ir.NewParam("dst", types.I8Ptr), ir.NewParam("src", types.I8Ptr))
	t.declare("malloc", types.I8Ptr, ir.NewParam("size", types.I64))

	printf := t.declare("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true
}

// DeclareAll registers every runtime declaration group.
func (t *Table) DeclareAll() {
	t.DeclareVecInt()
	t.DeclareVecVecInt()
	t.DeclareStrings()
	t.DeclareLibc()
}
