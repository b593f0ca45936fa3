package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"pyrite/sir"
)

// lowerCall dispatches a call: list pseudo-operations first, then the
// builtins, then user functions, then runtime routines.
func (l *Lowerer) lowerCall(c *sir.Call) value.Value {
	switch c.Name {
	case sir.PseudoListAppend:
		return l.lowerListAppend(c)
	case sir.PseudoListGet:
		return l.lowerListGet(c)
	case sir.PseudoListSet:
		return l.lowerListSet(c)
	case "len":
		return l.lowerLen(c)
	case "print":
		return l.lowerPrint(c)
	}

	args := make([]value.Value, len(c.Args))
	for i, arg := range c.Args {
		args[i] = l.lowerExpr(arg)
	}

	if fn, ok := l.funcs[c.Name]; ok {
		return l.block.NewCall(fn, args...)
	}

	if fn, err := l.rt.Func(c.Name); err == nil {
		return l.block.NewCall(fn, args...)
	}

	l.fatalf(c.Span(), "function `%s` not found in any symbol table", c.Name)
	return nil
}

// -----------------------------------------------------------------------------

func (l *Lowerer) lowerListAppend(c *sir.Call) value.Value {
	recv := l.lowerExpr(c.Args[0])
	elem := l.lowerExpr(c.Args[1])

	switch c.Args[0].Type().StructName {
	case "vec_int":
		return l.block.NewCall(l.rtFunc("vec_int_push"), recv, elem)
	case "vec_vec_int":
		return l.block.NewCall(l.rtFunc("vec_vec_int_push"), recv, elem)
	default:
		l.fatalf(c.Span(), "append is not supported for type `%s`", c.Args[0].Type().String())
		return nil
	}
}

func (l *Lowerer) lowerListGet(c *sir.Call) value.Value {
	recv := l.lowerExpr(c.Args[0])
	index := l.lowerExpr(c.Args[1])

	switch c.Args[0].Type().StructName {
	case "vec_int":
		return l.block.NewCall(l.rtFunc("vec_int_at"), recv, index)
	case "vec_vec_int":
		return l.block.NewCall(l.rtFunc("vec_vec_int_at"), recv, index)
	case "str_array":
		return l.block.NewCall(l.rtFunc("str_array_get"), recv, index)
	default:
		l.fatalf(c.Span(), "indexing is not supported for type `%s`", c.Args[0].Type().String())
		return nil
	}
}

func (l *Lowerer) lowerListSet(c *sir.Call) value.Value {
	recv := l.lowerExpr(c.Args[0])
	index := l.lowerExpr(c.Args[1])
	elem := l.lowerExpr(c.Args[2])

	switch c.Args[0].Type().StructName {
	case "vec_int":
		return l.block.NewCall(l.rtFunc("vec_int_set"), recv, index, elem)
	default:
		l.fatalf(c.Span(), "index assignment is not supported for type `%s`", c.Args[0].Type().String())
		return nil
	}
}

// -----------------------------------------------------------------------------

// lowerLen lowers the `len` builtin, which measures strings with
// strlen and containers through their runtime size accessors.
func (l *Lowerer) lowerLen(c *sir.Call) value.Value {
	operand := c.Args[0]
	val := l.lowerExpr(operand)

	if operand.Type().Base == sir.String {
		return l.block.NewCall(l.rtFunc("strlen"), val)
	}

	switch operand.Type().StructName {
	case "vec_int":
		return l.block.NewCall(l.rtFunc("vec_int_size"), val)
	case "vec_vec_int":
		return l.block.NewCall(l.rtFunc("vec_vec_int_size"), val)
	case "str_array":
		return l.block.NewCall(l.rtFunc("str_array_size"), val)
	default:
		l.fatalf(c.Span(), "len is not supported for type `%s`", operand.Type().String())
		return nil
	}
}

// lowerPrint lowers the `print` builtin to a printf call with a format
// string chosen by the operand's type.  Each call site gets its own
// format global.
func (l *Lowerer) lowerPrint(c *sir.Call) value.Value {
	operand := c.Args[0]
	val := l.lowerExpr(operand)

	var format string
	switch operand.Type().Base {
	case sir.Int:
		format = "%lld\n"
	case sir.Float:
		format = "%g\n"
	case sir.Bool:
		val = l.block.NewZExt(val, types.I64)
		format = "%lld\n"
	case sir.String:
		format = "%s\n"
	default:
		l.fatalf(c.Span(), "print is not supported for type `%s`", operand.Type().String())
	}

	name := fmt.Sprintf("__fmt.%d", l.globalCounter)
	l.globalCounter++

	glob := l.mod.NewGlobalDef(name, constant.NewCharArrayFromString(format+"\x00"))
	glob.Immutable = true

	zero := constant.NewInt(types.I32, 0)
	fmtPtr := l.block.NewGetElementPtr(glob.Typ.ElemType, glob, zero, zero)

	return l.block.NewCall(l.rtFunc("printf"), fmtPtr, val)
}
