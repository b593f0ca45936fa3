package lower

import (
	"fmt"

	"pyrite/abi"
	"pyrite/config"
	"pyrite/report"
	"pyrite/sir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Lowerer is responsible for converting a typed IR module into an LLVM
// module.  One Lowerer is used per module and is discarded afterwards.
type Lowerer struct {
	// mod is the LLVM module being generated.
	mod *ir.Module

	// rt is the runtime declaration table of mod.
	rt *abi.Table

	// opts stores the compilation options the lowerer honors.
	opts config.Options

	// funcs maps IR function names to their lowered LLVM functions.
	funcs map[string]*ir.Func

	// userStructs maps declared struct names to their LLVM type defs.
	userStructs map[string]*types.StructType

	// globals maps global variable names to their value slots.
	globals map[string]ident

	// locals maps local variable names to their value slots.  It is
	// reset at the start of every function.
	locals map[string]ident

	// fn is the LLVM function currently being generated.
	fn *ir.Func

	// fnName is the IR name of fn, used to attribute errors.
	fnName string

	// block is the block instructions are currently appended to.
	block *ir.Block

	// loopExits is the stack of blocks `break` branches to.
	loopExits []*ir.Block

	// loopConts is the stack of blocks `continue` branches to.
	loopConts []*ir.Block

	// globalCounter makes interned string and format globals unique.
	globalCounter int
}

// ident represents a named LLVM value such as a variable.
type ident struct {
	// Val is the slot or address backing the identifier.
	Val value.Value

	// Addr indicates that Val is already the address of the value it
	// names, as is the case for aggregates, and must not be loaded.
	Addr bool
}

// Lower converts an IR module into an LLVM module.
func Lower(m *sir.Module, opts config.Options) (llMod *ir.Module, err error) {
	defer report.Catch(&err)

	l := &Lowerer{
		mod:         ir.NewModule(),
		opts:        opts,
		funcs:       make(map[string]*ir.Func),
		userStructs: make(map[string]*types.StructType),
		globals:     make(map[string]ident),
	}

	l.mod.SourceFilename = m.Name
	if opts.Triple != "" {
		l.mod.TargetTriple = opts.Triple
	}

	// Runtime declarations come first so that every function body can
	// reference them and so that repeated runs of the lowerer produce
	// byte-identical modules.
	l.rt = abi.NewTable(l.mod)
	l.rt.DeclareAll()

	for _, td := range m.TypeDecls {
		l.lowerTypeDecl(td)
	}

	for _, g := range m.Globals {
		l.lowerGlobal(g)
	}

	for _, fn := range m.Funcs {
		l.lowerFunc(fn)
	}

	return l.mod, nil
}

// -----------------------------------------------------------------------------

// lowerTypeDecl emits an LLVM type definition for a struct declaration.
// Non-struct declarations carry no code and are skipped.
func (l *Lowerer) lowerTypeDecl(td *sir.TypeDecl) {
	if td.DeclKind != "struct" {
		return
	}

	fieldTypes := make([]types.Type, len(td.Fields))
	for i, f := range td.Fields {
		fieldTypes[i] = l.convType(f.Typ)
	}

	st := types.NewStruct(fieldTypes...)
	l.mod.NewTypeDef(td.Name, st)
	l.userStructs[td.Name] = st
}

// lowerGlobal emits a global variable definition.  Globals are lowered
// before any function so no block is active; their initializers must
// therefore be literals or absent.
func (l *Lowerer) lowerGlobal(v *sir.Var) {
	init := l.zeroConst(v.Typ)

	if v.Init != nil {
		lit, ok := v.Init.(*sir.Literal)
		if !ok {
			l.fatalf(v.Init.Span(), "global `%s` must be initialized with a literal", v.Name)
		}

		init = l.literalConst(v.Typ, lit)
	}

	glob := l.mod.NewGlobalDef(v.Name, init)
	l.globals[v.Name] = ident{Val: glob, Addr: v.Typ.IsAggregate()}
}

// lowerFunc generates an LLVM function from an IR function.
func (l *Lowerer) lowerFunc(fn *sir.Func) {
	params := make([]*ir.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ir.NewParam(p.Name, l.convValueType(p.Typ))
	}

	f := l.mod.NewFunc(fn.Name, l.convValueType(fn.ReturnType), params...)
	l.funcs[fn.Name] = f

	l.fn = f
	l.fnName = fn.Name
	l.locals = make(map[string]ident)
	l.loopExits = nil
	l.loopConts = nil

	l.block = f.NewBlock("entry")

	// Every parameter is spilled into a stack slot so that assignments
	// to parameters behave like assignments to any other variable.
	for i, p := range fn.Params {
		slot := l.block.NewAlloca(params[i].Typ)
		l.block.NewStore(params[i], slot)
		l.locals[p.Name] = ident{Val: slot}
	}

	l.lowerBody(fn.Body)

	// Control that falls off the end of the function returns implicitly.
	if l.block.Term == nil {
		switch {
		case fn.ReturnType.Base == sir.Void:
			l.block.NewRet(nil)
		case fn.ReturnType.IsAggregate():
			// Aggregate values travel as addresses.
			st := l.structType(fn.ReturnType.StructName, fn.Span())
			l.block.NewRet(constant.NewNull(types.NewPointer(st)))
		default:
			l.block.NewRet(l.zeroConst(fn.ReturnType))
		}
	}
}

// -----------------------------------------------------------------------------

// appendBlock adds a new basic block to the current function.
func (l *Lowerer) appendBlock() *ir.Block {
	return l.fn.NewBlock(fmt.Sprintf("bb%d", len(l.fn.Blocks)))
}

// entryAlloca places an alloca in the entry block of the current
// function so the slot dominates every use.
func (l *Lowerer) entryAlloca(typ types.Type) *ir.InstAlloca {
	return l.fn.Blocks[0].NewAlloca(typ)
}

// lookupValue resolves a name for reading, checking locals before
// globals so that locals shadow globals.
func (l *Lowerer) lookupValue(name string) (ident, bool) {
	if id, ok := l.locals[name]; ok {
		return id, true
	}

	id, ok := l.globals[name]
	return id, ok
}

// lookupTarget resolves an assignment target.  Globals take precedence
// over locals for writes.
func (l *Lowerer) lookupTarget(name string) (ident, bool) {
	if id, ok := l.globals[name]; ok {
		return id, true
	}

	id, ok := l.locals[name]
	return id, ok
}

// rtFunc fetches a runtime routine or fails compilation.
func (l *Lowerer) rtFunc(name string) *ir.Func {
	fn, err := l.rt.Func(name)
	if err != nil {
		panic(&report.CompileError{Message: err.Error(), Func: l.fnName})
	}

	return fn
}

// fatalf aborts lowering with a compile error attributed to the
// current function.
func (l *Lowerer) fatalf(span *report.TextSpan, format string, args ...interface{}) {
	panic(report.RaiseIn(l.fnName, span, format, args...))
}

// -----------------------------------------------------------------------------

// zeroConst returns the zero value constant for a type.
func (l *Lowerer) zeroConst(t sir.Type) constant.Constant {
	if t.IsAggregate() {
		return constant.NewZeroInitializer(l.structType(t.StructName, nil))
	}

	switch t.Base {
	case sir.Int:
		return constant.NewInt(types.I64, 0)
	case sir.Float:
		return constant.NewFloat(types.Double, 0)
	case sir.Bool:
		return constant.NewBool(false)
	case sir.String:
		return constant.NewNull(types.I8Ptr)
	default:
		l.fatalf(nil, "no default value exists for type `%s`", t.String())
		return nil
	}
}

// literalConst converts a scalar literal into an LLVM constant for use
// in a global initializer.
func (l *Lowerer) literalConst(t sir.Type, lit *sir.Literal) constant.Constant {
	switch v := lit.Value.(type) {
	case int64:
		return constant.NewInt(types.I64, v)
	case float64:
		return constant.NewFloat(types.Double, v)
	case bool:
		return constant.NewBool(v)
	case string:
		data := l.internStringData(v)
		zero := constant.NewInt(types.I32, 0)
		return constant.NewGetElementPtr(data.Typ.ElemType, data, zero, zero)
	default:
		l.fatalf(lit.Span(), "global initializer of type `%s` is not a constant", t.String())
		return nil
	}
}

// internStringData emits an immutable global holding the NUL-terminated
// bytes of a string literal.
func (l *Lowerer) internStringData(s string) *ir.Global {
	name := fmt.Sprintf("__str.%d", l.globalCounter)
	l.globalCounter++

	glob := l.mod.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	glob.Immutable = true
	return glob
}

// structType resolves a named struct: runtime structs first, then user
// declared ones.
func (l *Lowerer) structType(name string, span *report.TextSpan) *types.StructType {
	if st := l.rt.Struct(name); st != nil {
		return st
	}

	if st, ok := l.userStructs[name]; ok {
		return st
	}

	l.fatalf(span, "no struct named `%s` has been declared", name)
	return nil
}
