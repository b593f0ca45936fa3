package irgen

import (
	"pyrite/ast"
	"pyrite/report"
	"pyrite/sir"
)

// buildExpr builds one expression, attaching its result type.
func (b *Builder) buildExpr(e ast.Expr) sir.Expr {
	switch v := e.(type) {
	case *ast.IntLit:
		return sir.NewLiteral(v.Value, sir.TypeOf(sir.Int), v.Span())
	case *ast.FloatLit:
		return sir.NewLiteral(v.Value, sir.TypeOf(sir.Float), v.Span())
	case *ast.BoolLit:
		return sir.NewLiteral(v.Value, sir.TypeOf(sir.Bool), v.Span())
	case *ast.StringLit:
		return sir.NewLiteral(v.Value, sir.TypeOf(sir.String), v.Span())
	case *ast.ListLit:
		return b.buildListLit(v)
	case *ast.Name:
		return b.buildName(v)
	case *ast.BinOp:
		{
			left := b.buildExpr(v.Left)
			right := b.buildExpr(v.Right)

			// The operand types are trusted to agree; the left type is the
			// result type.
			return sir.NewBinaryOp(left, v.Op, right, left.Type(), v.Span())
		}
	case *ast.Compare:
		return sir.NewBinaryOp(b.buildExpr(v.Left), v.Op, b.buildExpr(v.Right), sir.TypeOf(sir.Bool), v.Span())
	case *ast.BoolOp:
		return sir.NewBinaryOp(b.buildExpr(v.Left), v.Op, b.buildExpr(v.Right), sir.TypeOf(sir.Bool), v.Span())
	case *ast.UnaryOp:
		// Numeric negation is rewritten as a subtraction from zero; no
		// other unary operator has a rule.
		if v.Op == "-" {
			x := b.buildExpr(v.X)

			var zero sir.Expr
			if x.Type().Base == sir.Float {
				zero = sir.NewLiteral(float64(0), sir.TypeOf(sir.Float), v.Span())
			} else {
				zero = sir.NewLiteral(int64(0), sir.TypeOf(sir.Int), v.Span())
			}

			return sir.NewBinaryOp(zero, "-", x, x.Type(), v.Span())
		}
	case *ast.Call:
		return b.buildCall(v)
	case *ast.MethodCall:
		return b.buildMethodCall(v)
	case *ast.Index:
		return b.buildIndex(v)
	}

	return b.degrade(e)
}

// degrade handles an expression the builder has no rule for.  In lenient
// mode it substitutes a void placeholder literal; the module still compiles,
// so an unsupported construct can flow through undetected.  Strict mode
// turns the same condition into a compile error.
func (b *Builder) degrade(e ast.Expr) sir.Expr {
	if b.opts.Strict {
		panic(report.RaiseIn(b.fnName(), e.Span(), "unsupported expression"))
	}

	return sir.NewLiteral(nil, sir.TypeOf(sir.Void), e.Span())
}

// buildName builds a reference to a declared name.  Unknown names get a void
// placeholder variable so later references agree with each other.
func (b *Builder) buildName(n *ast.Name) sir.Expr {
	v, ok := b.symbols[n.Value]
	if !ok {
		v = sir.NewVar(n.Value, sir.TypeOf(sir.Void), n.Span())
		b.symbols[n.Value] = v
	}

	return sir.NewVarRef(v, n.Span())
}

// buildListLit builds a composite list literal.  The container aggregate is
// chosen from the first element's type; an empty literal is a vector of
// ints.
func (b *Builder) buildListLit(ll *ast.ListLit) sir.Expr {
	elems := make([]sir.Expr, len(ll.Elems))
	for i, e := range ll.Elems {
		elems[i] = b.buildExpr(e)
	}

	structName := "vec_int"
	if len(elems) > 0 {
		switch {
		case elems[0].Type().Base == sir.Int:
			structName = "vec_int"
		case elems[0].Type().StructName == "vec_int":
			structName = "vec_vec_int"
		default:
			return b.degrade(ll)
		}
	}

	return sir.NewLiteral(elems, sir.StructType(structName), ll.Span())
}

// buildCall builds a direct call.  Builtins are typed here; conversion
// builtins become cast nodes.  Calls to unknown names are still built (with
// a void result) and resolved, or rejected, during lowering.
func (b *Builder) buildCall(c *ast.Call) sir.Expr {
	switch c.Func {
	case "len":
		if len(c.Args) == 1 {
			return sir.NewCall("len", []sir.Expr{b.buildExpr(c.Args[0])}, sir.TypeOf(sir.Int), c.Span())
		}
	case "print":
		if len(c.Args) == 1 {
			return sir.NewCall("print", []sir.Expr{b.buildExpr(c.Args[0])}, sir.TypeOf(sir.Void), c.Span())
		}
	case "int":
		if len(c.Args) == 1 {
			return sir.NewCast(b.buildExpr(c.Args[0]), sir.TypeOf(sir.Int), c.Span())
		}
	case "float":
		if len(c.Args) == 1 {
			return sir.NewCast(b.buildExpr(c.Args[0]), sir.TypeOf(sir.Float), c.Span())
		}
	case "bool":
		if len(c.Args) == 1 {
			return sir.NewCast(b.buildExpr(c.Args[0]), sir.TypeOf(sir.Bool), c.Span())
		}
	default:
		{
			args := make([]sir.Expr, len(c.Args))
			for i, a := range c.Args {
				args[i] = b.buildExpr(a)
			}

			returnType, ok := b.funcRets[c.Func]
			if !ok {
				returnType = sir.TypeOf(sir.Void)
			}

			return sir.NewCall(c.Func, args, returnType, c.Span())
		}
	}

	return b.degrade(c)
}

// buildMethodCall rewrites container and string method calls into their
// runtime forms.
func (b *Builder) buildMethodCall(mc *ast.MethodCall) sir.Expr {
	recv := b.buildExpr(mc.Recv)

	switch recv.Type().StructName {
	case "vec_int", "vec_vec_int":
		if mc.Method == "append" && len(mc.Args) == 1 {
			args := []sir.Expr{recv, b.buildExpr(mc.Args[0])}
			return sir.NewCall(sir.PseudoListAppend, args, sir.TypeOf(sir.Void), mc.Span())
		}
	}

	if recv.Type().Base == sir.String {
		switch mc.Method {
		case "split":
			if len(mc.Args) == 1 {
				args := []sir.Expr{recv, b.buildExpr(mc.Args[0])}
				return sir.NewCall("str_split", args, sir.StructType("str_array"), mc.Span())
			}
		case "lower":
			if len(mc.Args) == 0 {
				return sir.NewCall("str_lower", []sir.Expr{recv}, sir.TypeOf(sir.String), mc.Span())
			}
		case "strip":
			if len(mc.Args) == 0 {
				return sir.NewCall("str_strip", []sir.Expr{recv}, sir.TypeOf(sir.String), mc.Span())
			}
		}
	}

	return b.degrade(mc)
}

// buildIndex rewrites a subscript read into the synthetic index-get
// pseudo-call typed by the container's element type.
func (b *Builder) buildIndex(ix *ast.Index) sir.Expr {
	x := b.buildExpr(ix.X)
	idx := b.buildExpr(ix.Idx)
	args := []sir.Expr{x, idx}

	switch x.Type().StructName {
	case "vec_int":
		return sir.NewCall(sir.PseudoListGet, args, sir.TypeOf(sir.Int), ix.Span())
	case "vec_vec_int":
		return sir.NewCall(sir.PseudoListGet, args, sir.StructType("vec_int"), ix.Span())
	case "str_array":
		return sir.NewCall(sir.PseudoListGet, args, sir.TypeOf(sir.String), ix.Span())
	}

	return b.degrade(ix)
}
