package lower

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"pyrite/sir"
)

// lowerBody lowers a statement list.  Statements after a terminator in
// the same block are unreachable and dropped.
func (l *Lowerer) lowerBody(stmts []sir.Stmt) {
	for _, s := range stmts {
		if l.block.Term != nil {
			return
		}

		l.lowerStmt(s)
	}
}

func (l *Lowerer) lowerStmt(s sir.Stmt) {
	if l.block == nil {
		l.fatalf(s.Span(), "statement lowered with no active block")
	}

	switch v := s.(type) {
	case *sir.Assign:
		l.lowerAssign(v)
	case *sir.Return:
		l.lowerReturn(v)
	case *sir.If:
		l.lowerIf(v)
	case *sir.While:
		l.lowerWhile(v)
	case *sir.For:
		l.lowerFor(v)
	case *sir.Break:
		if len(l.loopExits) == 0 {
			l.fatalf(v.Span(), "break used outside of a loop")
		}

		l.block.NewBr(l.loopExits[len(l.loopExits)-1])
	case *sir.Continue:
		if len(l.loopConts) == 0 {
			l.fatalf(v.Span(), "continue used outside of a loop")
		}

		l.block.NewBr(l.loopConts[len(l.loopConts)-1])
	case *sir.ExprStmt:
		l.lowerExpr(v.X)
	default:
		l.fatalf(s.Span(), "statement not supported by lowering")
	}
}

// -----------------------------------------------------------------------------

// lowerAssign lowers both variable declarations and reassignments: the
// first write to a name allocates its stack slot, later writes store
// through the existing slot.  Globals take precedence over locals when
// the target is resolved.
func (l *Lowerer) lowerAssign(a *sir.Assign) {
	if id, ok := l.lookupTarget(a.Target.Name); ok {
		l.storeTo(id, a)
		return
	}

	typ := a.Target.Typ

	if typ.IsAggregate() {
		l.declareAggregate(a, typ)
		return
	}

	slot := l.entryAlloca(l.convType(typ))
	l.locals[a.Target.Name] = ident{Val: slot}

	var val value.Value
	if a.Value != nil {
		val = l.lowerExpr(a.Value)
	} else {
		val = l.zeroConst(typ)
	}

	l.block.NewStore(val, slot)
}

// declareAggregate introduces an aggregate variable.  With an
// initializer the name is bound directly to the initializer's storage;
// without one a fresh zeroed slot is allocated and registered with the
// runtime.
func (l *Lowerer) declareAggregate(a *sir.Assign, typ sir.Type) {
	if a.Value != nil {
		addr := l.lowerExpr(a.Value)
		l.locals[a.Target.Name] = ident{Val: addr, Addr: true}
		return
	}

	st := l.structType(typ.StructName, a.Span())
	slot := l.entryAlloca(st)
	l.locals[a.Target.Name] = ident{Val: slot, Addr: true}

	switch typ.StructName {
	case "vec_int":
		l.block.NewCall(l.rtFunc("vec_int_init_ptr"), slot)
	case "vec_vec_int":
		l.block.NewCall(l.rtFunc("vec_vec_int_init_ptr"), slot)
	default:
		l.block.NewStore(constant.NewZeroInitializer(st), slot)
	}
}

// storeTo writes an assignment's value through an already known slot.
func (l *Lowerer) storeTo(id ident, a *sir.Assign) {
	if a.Value == nil {
		return
	}

	val := l.lowerExpr(a.Value)

	if a.Target.Typ.IsAggregate() {
		// Aggregates are carried by address, so reassignment is a
		// struct copy between the two storage locations.
		st := l.structType(a.Target.Typ.StructName, a.Span())
		tmp := l.block.NewLoad(st, val)
		l.block.NewStore(tmp, l.aggregateAddr(id))
		return
	}

	l.block.NewStore(val, id.Val)
}

// aggregateAddr returns the address of the aggregate an identifier
// names.  Parameter slots hold the address indirectly and need a load.
func (l *Lowerer) aggregateAddr(id ident) value.Value {
	if id.Addr {
		return id.Val
	}

	return l.block.NewLoad(id.Val.Type().(*types.PointerType).ElemType, id.Val)
}

func (l *Lowerer) lowerReturn(r *sir.Return) {
	if r.Value == nil {
		l.block.NewRet(nil)
		return
	}

	l.block.NewRet(l.lowerExpr(r.Value))
}

// -----------------------------------------------------------------------------

func (l *Lowerer) lowerIf(stmt *sir.If) {
	cond := l.lowerExpr(stmt.Cond)

	thenBlock := l.appendBlock()
	elseBlock := l.appendBlock()
	mergeBlock := l.appendBlock()

	l.block.NewCondBr(cond, thenBlock, elseBlock)

	l.block = thenBlock
	l.lowerBody(stmt.Then)
	if l.block.Term == nil {
		l.block.NewBr(mergeBlock)
	}

	l.block = elseBlock
	l.lowerBody(stmt.Else)
	if l.block.Term == nil {
		l.block.NewBr(mergeBlock)
	}

	l.block = mergeBlock
}

func (l *Lowerer) lowerWhile(stmt *sir.While) {
	condBlock := l.appendBlock()
	bodyBlock := l.appendBlock()
	exitBlock := l.appendBlock()

	l.loopExits = append(l.loopExits, exitBlock)
	l.loopConts = append(l.loopConts, condBlock)

	l.block.NewBr(condBlock)

	// The condition is re-evaluated on every iteration, so it gets its
	// own block rather than being folded into the predecessor.
	l.block = condBlock
	cond := l.lowerExpr(stmt.Cond)
	l.block.NewCondBr(cond, bodyBlock, exitBlock)

	l.block = bodyBlock
	l.lowerBody(stmt.Body)
	if l.block.Term == nil {
		l.block.NewBr(condBlock)
	}

	l.loopExits = l.loopExits[:len(l.loopExits)-1]
	l.loopConts = l.loopConts[:len(l.loopConts)-1]

	l.block = exitBlock
}

// lowerFor lowers a counted range loop.  The loop variable lives in a
// stack slot so the body may freely read and even reassign it, and
// `continue` branches to the increment block so the step still runs.
func (l *Lowerer) lowerFor(stmt *sir.For) {
	slot := l.entryAlloca(types.I64)
	l.locals[stmt.Var.Name] = ident{Val: slot}

	start := l.lowerExpr(stmt.Start)
	l.block.NewStore(start, slot)

	condBlock := l.appendBlock()
	bodyBlock := l.appendBlock()
	incBlock := l.appendBlock()
	exitBlock := l.appendBlock()

	l.loopExits = append(l.loopExits, exitBlock)
	l.loopConts = append(l.loopConts, incBlock)

	l.block.NewBr(condBlock)

	l.block = condBlock
	cur := l.block.NewLoad(types.I64, slot)
	end := l.lowerExpr(stmt.End)

	var cond value.Value
	if stepIsNegative(stmt.Step) {
		cond = l.block.NewICmp(enum.IPredSGT, cur, end)
	} else {
		cond = l.block.NewICmp(enum.IPredSLT, cur, end)
	}
	l.block.NewCondBr(cond, bodyBlock, exitBlock)

	l.block = bodyBlock
	l.lowerBody(stmt.Body)
	if l.block.Term == nil {
		l.block.NewBr(incBlock)
	}

	l.block = incBlock
	cur = l.block.NewLoad(types.I64, slot)

	var step value.Value
	if stmt.Step != nil {
		step = l.lowerExpr(stmt.Step)
	} else {
		step = constant.NewInt(types.I64, 1)
	}

	l.block.NewStore(l.block.NewAdd(cur, step), slot)
	l.block.NewBr(condBlock)

	l.loopExits = l.loopExits[:len(l.loopExits)-1]
	l.loopConts = l.loopConts[:len(l.loopConts)-1]

	l.block = exitBlock
}

// stepIsNegative reports whether a loop step is a syntactically
// negative constant, which flips the loop condition from `<` to `>`.
// Steps whose sign is only known at run time count downward loops as
// upward and exit immediately, matching the source language.
func stepIsNegative(step sir.Expr) bool {
	switch s := step.(type) {
	case *sir.Literal:
		if n, ok := s.Value.(int64); ok {
			return n < 0
		}
	case *sir.BinaryOp:
		// Negation is built as `0 - x`, so a negated positive literal
		// is also a negative constant.
		if s.Op != "-" {
			return false
		}

		left, ok := s.Left.(*sir.Literal)
		if !ok {
			return false
		}

		if n, ok := left.Value.(int64); !ok || n != 0 {
			return false
		}

		if right, ok := s.Right.(*sir.Literal); ok {
			if n, ok := right.Value.(int64); ok {
				return n > 0
			}
		}
	}

	return false
}
