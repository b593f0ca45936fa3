package irgen

import (
	"pyrite/ast"
	"pyrite/sir"
)

// buildStmt builds one statement.  It returns nil for statements the builder
// has no rule for: those are dropped from the IR.
func (b *Builder) buildStmt(s ast.Stmt) sir.Stmt {
	switch v := s.(type) {
	case *ast.VarDecl:
		return b.buildVarDecl(v)
	case *ast.Assign:
		return b.buildAssign(v)
	case *ast.IndexAssign:
		return b.buildIndexAssign(v)
	case *ast.Return:
		var value sir.Expr
		if v.Value != nil {
			value = b.buildExpr(v.Value)
		}

		return sir.NewReturn(value, v.Span())
	case *ast.If:
		return sir.NewIf(b.buildExpr(v.Cond), b.buildBlock(v.Body), b.buildBlock(v.Else), v.Span())
	case *ast.While:
		return sir.NewWhile(b.buildExpr(v.Cond), b.buildBlock(v.Body), v.Span())
	case *ast.For:
		return b.buildFor(v)
	case *ast.Break:
		return sir.NewBreak(v.Span())
	case *ast.Continue:
		return sir.NewContinue(v.Span())
	case *ast.ExprStmt:
		return sir.NewExprStmt(b.buildExpr(v.X), v.Span())
	}

	return nil
}

// buildBlock builds a statement list, dropping statements with no rule.
func (b *Builder) buildBlock(stmts []ast.Stmt) []sir.Stmt {
	var built []sir.Stmt
	for _, s := range stmts {
		if st := b.buildStmt(s); st != nil {
			built = append(built, st)
		}
	}

	return built
}

// buildVarDecl builds an annotated variable declaration, optionally with an
// initializer.
func (b *Builder) buildVarDecl(vd *ast.VarDecl) sir.Stmt {
	v := sir.NewVar(vd.Name, annotToType(vd.Annot), vd.Span())
	b.symbols[vd.Name] = v

	if b.fn != nil {
		b.fn.AddLocal(v)
	}

	var value sir.Expr
	if vd.Value != nil {
		value = b.buildExpr(vd.Value)
	}

	return sir.NewAssign(v, value, vd.Span())
}

// buildAssign builds a plain assignment.  The target name must already be
// known; assignments to undeclared names are dropped.
func (b *Builder) buildAssign(as *ast.Assign) sir.Stmt {
	target, ok := b.symbols[as.Name]
	if !ok {
		return nil
	}

	return sir.NewAssign(target, b.buildExpr(as.Value), as.Span())
}

// buildIndexAssign rewrites `xs[i] = v` into the synthetic index-set
// pseudo-call.
func (b *Builder) buildIndexAssign(ia *ast.IndexAssign) sir.Stmt {
	recv := b.buildExpr(ia.Target)
	idx := b.buildExpr(ia.Index)
	value := b.buildExpr(ia.Value)

	call := sir.NewCall(sir.PseudoListSet, []sir.Expr{recv, idx, value}, sir.TypeOf(sir.Void), ia.Span())

	return sir.NewExprStmt(call, ia.Span())
}

// buildFor builds a range-based for loop.  Non-range iterables have no
// lowering and are dropped.
func (b *Builder) buildFor(f *ast.For) sir.Stmt {
	rangeCall, ok := f.Iter.(*ast.Call)
	if !ok || rangeCall.Func != "range" {
		return nil
	}

	intType := sir.TypeOf(sir.Int)

	var start, end, step sir.Expr
	switch len(rangeCall.Args) {
	case 1:
		start = sir.NewLiteral(int64(0), intType, f.Span())
		end = b.buildExpr(rangeCall.Args[0])
		step = sir.NewLiteral(int64(1), intType, f.Span())
	case 2:
		start = b.buildExpr(rangeCall.Args[0])
		end = b.buildExpr(rangeCall.Args[1])
		step = sir.NewLiteral(int64(1), intType, f.Span())
	case 3:
		start = b.buildExpr(rangeCall.Args[0])
		end = b.buildExpr(rangeCall.Args[1])
		step = b.buildExpr(rangeCall.Args[2])
	default:
		return nil
	}

	loopVar := sir.NewVar(f.Var, intType, f.Span())
	b.symbols[f.Var] = loopVar

	return sir.NewFor(loopVar, start, end, step, b.buildBlock(f.Body), f.Span())
}
