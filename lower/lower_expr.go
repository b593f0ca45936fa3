package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"pyrite/sir"
)

func (l *Lowerer) lowerExpr(e sir.Expr) value.Value {
	switch v := e.(type) {
	case *sir.Literal:
		return l.lowerLiteral(v)
	case *sir.VarRef:
		return l.lowerVarRef(v)
	case *sir.BinaryOp:
		return l.lowerBinaryOp(v)
	case *sir.Call:
		return l.lowerCall(v)
	case *sir.Cast:
		return l.lowerCast(v)
	default:
		l.fatalf(e.Span(), "expression not supported by lowering")
		return nil
	}
}

// -----------------------------------------------------------------------------

func (l *Lowerer) lowerLiteral(lit *sir.Literal) value.Value {
	if lit.Type().IsAggregate() {
		return l.lowerListLit(lit)
	}

	switch v := lit.Value.(type) {
	case int64:
		return constant.NewInt(types.I64, v)
	case float64:
		return constant.NewFloat(types.Double, v)
	case bool:
		return constant.NewBool(v)
	case string:
		return l.internString(v)
	case nil:
		// Placeholder produced for an expression the builder could not
		// type in lenient mode.  It carries no meaningful value.
		return constant.NewNull(types.I8Ptr)
	default:
		l.fatalf(lit.Span(), "literal of kind %T not supported by lowering", v)
		return nil
	}
}

// internString emits the literal's bytes as an immutable global and
// returns a pointer to its first character.
func (l *Lowerer) internString(s string) value.Value {
	data := l.internStringData(s)

	zero := constant.NewInt(types.I32, 0)
	return l.block.NewGetElementPtr(data.Typ.ElemType, data, zero, zero)
}

// lowerListLit materializes a list literal: a fresh stack slot is
// initialized empty and the elements are pushed left to right.  The
// value of the literal is the slot's address.
func (l *Lowerer) lowerListLit(lit *sir.Literal) value.Value {
	structName := lit.Type().StructName

	var initName, pushName string
	switch structName {
	case "vec_int":
		initName, pushName = "vec_int_init_ptr", "vec_int_push"
	case "vec_vec_int":
		initName, pushName = "vec_vec_int_init_ptr", "vec_vec_int_push"
	default:
		l.fatalf(lit.Span(), "list literals of type `%s` are not supported", lit.Type().String())
	}

	slot := l.entryAlloca(l.structType(structName, lit.Span()))
	l.block.NewCall(l.rtFunc(initName), slot)

	push := l.rtFunc(pushName)
	for _, elem := range lit.Elems() {
		l.block.NewCall(push, slot, l.lowerExpr(elem))
	}

	return slot
}

func (l *Lowerer) lowerVarRef(ref *sir.VarRef) value.Value {
	id, ok := l.lookupValue(ref.Ref.Name)
	if !ok {
		l.fatalf(ref.Span(), "variable `%s` not found in any symbol table", ref.Ref.Name)
	}

	if id.Addr {
		return id.Val
	}

	return l.block.NewLoad(id.Val.Type().(*types.PointerType).ElemType, id.Val)
}

// -----------------------------------------------------------------------------

func (l *Lowerer) lowerBinaryOp(b *sir.BinaryOp) value.Value {
	if b.Op == "and" || b.Op == "or" {
		return l.lowerShortCircuit(b)
	}

	switch b.Type().Base {
	case sir.Int:
		return l.lowerIntOp(b)
	case sir.Float:
		return l.lowerFloatOp(b)
	case sir.Bool:
		return l.lowerComparison(b)
	case sir.String:
		if b.Op == "+" {
			return l.lowerStrConcat(b)
		}
	}

	l.fatalf(b.Span(), "operator `%s` not supported for type `%s`", b.Op, b.Type().String())
	return nil
}

func (l *Lowerer) lowerIntOp(b *sir.BinaryOp) value.Value {
	lhs := l.lowerExpr(b.Left)
	rhs := l.lowerExpr(b.Right)

	switch b.Op {
	case "+":
		return l.block.NewAdd(lhs, rhs)
	case "-":
		return l.block.NewSub(lhs, rhs)
	case "*":
		return l.block.NewMul(lhs, rhs)
	case "/":
		// True division between ints keeps C semantics: a plain
		// truncating division.
		return l.block.NewSDiv(lhs, rhs)
	case "//":
		return l.lowerFloorDiv(lhs, rhs)
	case "%":
		return l.lowerFloorRem(lhs, rhs)
	case "<<":
		return l.block.NewShl(lhs, rhs)
	case ">>":
		return l.block.NewAShr(lhs, rhs)
	case "&":
		return l.block.NewAnd(lhs, rhs)
	case "|":
		return l.block.NewOr(lhs, rhs)
	case "^":
		return l.block.NewXor(lhs, rhs)
	default:
		l.fatalf(b.Span(), "operator `%s` not supported for type `int`", b.Op)
		return nil
	}
}

// needsFloorFix computes whether a truncating quotient or remainder has
// to be adjusted to floor semantics: the remainder is nonzero and the
// operands have opposite signs.
func (l *Lowerer) needsFloorFix(rem, rhs value.Value) value.Value {
	zero := constant.NewInt(types.I64, 0)

	remNeg := l.block.NewICmp(enum.IPredSLT, rem, zero)
	rhsNeg := l.block.NewICmp(enum.IPredSLT, rhs, zero)
	signsDiffer := l.block.NewXor(remNeg, rhsNeg)

	remNonzero := l.block.NewICmp(enum.IPredNE, rem, zero)
	return l.block.NewAnd(signsDiffer, remNonzero)
}

// lowerFloorDiv lowers `//`: a truncating division whose quotient is
// decremented when truncation rounded toward zero instead of down.
func (l *Lowerer) lowerFloorDiv(lhs, rhs value.Value) value.Value {
	quot := l.block.NewSDiv(lhs, rhs)
	rem := l.block.NewSRem(lhs, rhs)

	fix := l.needsFloorFix(rem, rhs)
	fixed := l.block.NewSub(quot, constant.NewInt(types.I64, 1))
	return l.block.NewSelect(fix, fixed, quot)
}

// lowerFloorRem lowers `%` with floored semantics: the result takes the
// sign of the divisor, so -7 % 3 is 2 rather than C's -1.
func (l *Lowerer) lowerFloorRem(lhs, rhs value.Value) value.Value {
	rem := l.block.NewSRem(lhs, rhs)

	fix := l.needsFloorFix(rem, rhs)
	fixed := l.block.NewAdd(rem, rhs)
	return l.block.NewSelect(fix, fixed, rem)
}

func (l *Lowerer) lowerFloatOp(b *sir.BinaryOp) value.Value {
	lhs := l.lowerExpr(b.Left)
	rhs := l.lowerExpr(b.Right)

	switch b.Op {
	case "+":
		return l.block.NewFAdd(lhs, rhs)
	case "-":
		return l.block.NewFSub(lhs, rhs)
	case "*":
		return l.block.NewFMul(lhs, rhs)
	case "/":
		return l.block.NewFDiv(lhs, rhs)
	default:
		l.fatalf(b.Span(), "operator `%s` not supported for type `float`", b.Op)
		return nil
	}
}

// lowerComparison lowers a comparison, dispatching on the type of the
// left operand.
func (l *Lowerer) lowerComparison(b *sir.BinaryOp) value.Value {
	lhs := l.lowerExpr(b.Left)
	rhs := l.lowerExpr(b.Right)

	switch b.Left.Type().Base {
	case sir.Int:
		var preds = map[string]enum.IPred{
			"==": enum.IPredEQ,
			"!=": enum.IPredNE,
			"<":  enum.IPredSLT,
			"<=": enum.IPredSLE,
			">":  enum.IPredSGT,
			">=": enum.IPredSGE,
		}

		if pred, ok := preds[b.Op]; ok {
			return l.block.NewICmp(pred, lhs, rhs)
		}
	case sir.Float:
		var preds = map[string]enum.FPred{
			"==": enum.FPredOEQ,
			"!=": enum.FPredONE,
			"<":  enum.FPredOLT,
			"<=": enum.FPredOLE,
			">":  enum.FPredOGT,
			">=": enum.FPredOGE,
		}

		if pred, ok := preds[b.Op]; ok {
			return l.block.NewFCmp(pred, lhs, rhs)
		}
	case sir.Bool:
		switch b.Op {
		case "==":
			return l.block.NewICmp(enum.IPredEQ, lhs, rhs)
		case "!=":
			return l.block.NewICmp(enum.IPredNE, lhs, rhs)
		}
	}

	l.fatalf(b.Span(), "comparison `%s` not supported for type `%s`", b.Op, b.Left.Type().String())
	return nil
}

// lowerShortCircuit lowers `and` and `or` without evaluating the right
// operand unless it is needed.  The result is a phi over the two paths.
func (l *Lowerer) lowerShortCircuit(b *sir.BinaryOp) value.Value {
	left := l.lowerExpr(b.Left)
	leftBlock := l.block

	rightBlock := l.appendBlock()
	mergeBlock := l.appendBlock()

	var short constant.Constant
	if b.Op == "and" {
		leftBlock.NewCondBr(left, rightBlock, mergeBlock)
		short = constant.False
	} else {
		leftBlock.NewCondBr(left, mergeBlock, rightBlock)
		short = constant.True
	}

	l.block = rightBlock
	right := l.lowerExpr(b.Right)

	// Lowering the right operand may itself have branched, so the phi
	// edge must come from wherever evaluation actually ended, not from
	// rightBlock.
	rightPred := l.block
	rightPred.NewBr(mergeBlock)

	l.block = mergeBlock
	return mergeBlock.NewPhi(ir.NewIncoming(short, leftBlock), ir.NewIncoming(right, rightPred))
}

// lowerStrConcat lowers string `+` by measuring both operands and
// copying them into a fresh buffer.  The buffer is handed to the rest
// of the program without a matching free: one allocation leaks per
// concatenation.
func (l *Lowerer) lowerStrConcat(b *sir.BinaryOp) value.Value {
	lhs := l.lowerExpr(b.Left)
	rhs := l.lowerExpr(b.Right)

	strlen := l.rtFunc("strlen")
	len1 := l.block.NewCall(strlen, lhs)
	len2 := l.block.NewCall(strlen, rhs)

	total := l.block.NewAdd(len1, len2)
	size := l.block.NewAdd(total, constant.NewInt(types.I64, 1))

	buf := l.block.NewCall(l.rtFunc("malloc"), size)
	l.block.NewCall(l.rtFunc("strcpy"), buf, lhs)
	l.block.NewCall(l.rtFunc("strcat"), buf, rhs)

	return buf
}

// -----------------------------------------------------------------------------

func (l *Lowerer) lowerCast(c *sir.Cast) value.Value {
	src := c.X.Type().Base
	dst := c.Type().Base

	x := l.lowerExpr(c.X)
	if src == dst {
		return x
	}

	switch {
	case src == sir.Int && dst == sir.Float:
		return l.block.NewSIToFP(x, types.Double)
	case src == sir.Float && dst == sir.Int:
		return l.block.NewFPToSI(x, types.I64)
	case src == sir.Bool && dst == sir.Int:
		return l.block.NewZExt(x, types.I64)
	case src == sir.Int && dst == sir.Bool:
		return l.block.NewICmp(enum.IPredNE, x, constant.NewInt(types.I64, 0))
	case src == sir.Float && dst == sir.Bool:
		return l.block.NewFCmp(enum.FPredONE, x, constant.NewFloat(types.Double, 0))
	default:
		l.fatalf(c.Span(), "cast from `%s` to `%s` is not implemented", c.X.Type().String(), c.Type().String())
		return nil
	}
}
