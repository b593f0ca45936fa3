// Package sir defines the statically-typed intermediate representation that
// sits between the parsed syntax tree and the low-level LLVM module.  The IR
// is a tree of nodes built by the `irgen` package and consumed by the `lower`
// package; nodes are never mutated once lowering begins.
package sir

import (
	"fmt"
	"sort"
	"strings"
)

// DataType enumerates the base kinds of IR types.
type DataType int

// Enumeration of base type kinds.
const (
	Void DataType = iota
	Int
	Float
	Bool
	String
	Pointer
	Array
	Struct
	Union
	FuncPtr
)

// cSpellings maps each base kind to the C-equivalent spelling used for
// declaration synthesis.  The source language's `int` is 64-bit and its
// `float` is double precision.
var cSpellings = map[DataType]string{
	Void:    "void",
	Int:     "long long",
	Float:   "double",
	Bool:    "bool",
	String:  "char*",
	Pointer: "*",
	Array:   "[]",
	Struct:  "struct",
	Union:   "union",
	FuncPtr: "(*)",
}

// names maps each base kind to its source-language spelling.
var names = map[DataType]string{
	Void:    "void",
	Int:     "int",
	Float:   "float",
	Bool:    "bool",
	String:  "str",
	Pointer: "pointer",
	Array:   "array",
	Struct:  "struct",
	Union:   "union",
	FuncPtr: "function_ptr",
}

// CSpelling returns the C-equivalent spelling of the base kind.  Unknown
// kinds spell as `void`.
func (dt DataType) CSpelling() string {
	if s, ok := cSpellings[dt]; ok {
		return s
	}

	return "void"
}

func (dt DataType) String() string {
	if s, ok := names[dt]; ok {
		return s
	}

	return "void"
}

// -----------------------------------------------------------------------------

// Type is the type of an IR value.  Every expression node carries one: this
// is the sole type-propagation mechanism of the IR; there is no separate
// unification pass.
type Type struct {
	// The base kind of the type.
	Base DataType

	// Whether the type is const-qualified.
	Const bool

	// Whether the type is a pointer.  PointerDepth gives the number of
	// levels of indirection; a pointer with depth zero still renders with
	// one star.
	IsPointer    bool
	PointerDepth int

	// The ordered array dimensions, outermost first.  A zero entry is a
	// dimension of unknown size.  Non-empty only for array-shaped values.
	ArrayDims []int

	// The aggregate name for struct and union types.
	StructName string
	UnionName  string

	// Additional qualifier spellings.
	Qualifiers map[string]struct{}
}

// TypeOf returns a plain type of the given base kind.
func TypeOf(base DataType) Type {
	return Type{Base: base}
}

// StructType returns a struct type with the given aggregate name.
func StructType(name string) Type {
	return Type{Base: Struct, StructName: name}
}

// IsNumeric returns whether the type is numeric.
func (t Type) IsNumeric() bool {
	return t.Base == Int || t.Base == Float
}

// IsAggregate returns whether the type is an aggregate (struct, union or
// array shaped).
func (t Type) IsAggregate() bool {
	return t.Base == Struct || t.Base == Union || len(t.ArrayDims) > 0
}

// Decl synthesizes a C-like declaration string for a value of this type with
// the given name.  It is used for diagnostics only.  There is no error path:
// unknown base kinds render as `void`.
func (t Type) Decl(name string) string {
	base := t.Base.CSpelling()

	if t.Base == Struct && t.StructName != "" {
		base = "struct " + t.StructName
	} else if t.Base == Union && t.UnionName != "" {
		base = "union " + t.UnionName
	}

	if t.Const {
		base = "const " + base
	}

	if len(t.Qualifiers) > 0 {
		quals := make([]string, 0, len(t.Qualifiers))
		for q := range t.Qualifiers {
			quals = append(quals, q)
		}

		// Qualifier sets are unordered; sort for deterministic output.
		sort.Strings(quals)

		base += " " + strings.Join(quals, " ")
	}

	stars := strings.Repeat("*", t.PointerDepth)
	if t.IsPointer && t.PointerDepth == 0 {
		stars = "*"
	}

	var dims strings.Builder
	for _, dim := range t.ArrayDims {
		if dim > 0 {
			dims.WriteString(fmt.Sprintf("[%d]", dim))
		} else {
			dims.WriteString("[]")
		}
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s%s%s", base, stars, name, dims.String()))
}

func (t Type) String() string {
	return t.Decl("")
}
