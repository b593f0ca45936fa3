package lower

import (
	"github.com/llir/llvm/ir/types"

	"pyrite/sir"
)

// convType maps an IR type to the LLVM type of its storage.
func (l *Lowerer) convType(t sir.Type) types.Type {
	var base types.Type
	switch t.Base {
	case sir.Void:
		base = types.Void
	case sir.Int:
		base = types.I64
	case sir.Float:
		base = types.Double
	case sir.Bool:
		base = types.I1
	case sir.String:
		base = types.I8Ptr
	case sir.Struct:
		base = l.structType(t.StructName, nil)
	default:
		base = types.Void
	}

	depth := t.PointerDepth
	if t.IsPointer && depth == 0 {
		depth = 1
	}
	for i := 0; i < depth; i++ {
		base = types.NewPointer(base)
	}

	// Inner dimensions bind tighter, so the list is walked outward.
	for i := len(t.ArrayDims) - 1; i >= 0; i-- {
		if d := t.ArrayDims[i]; d > 0 {
			base = types.NewArray(uint64(d), base)
		} else {
			base = types.NewPointer(base)
		}
	}

	return base
}

// convValueType maps an IR type to the LLVM type used to pass one of
// its values around.  Aggregates are carried by address.
func (l *Lowerer) convValueType(t sir.Type) types.Type {
	base := l.convType(t)
	if t.IsAggregate() && !t.IsPointer && t.PointerDepth == 0 && len(t.ArrayDims) == 0 {
		return types.NewPointer(base)
	}

	return base
}
