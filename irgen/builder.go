// Package irgen builds the typed IR from a parsed syntax tree.  The builder
// attaches a result type to every expression as it goes; there is no
// separate type checking pass, and the lowering engine trusts the types put
// here.
package irgen

import (
	"pyrite/ast"
	"pyrite/config"
	"pyrite/report"
	"pyrite/sir"
)

// Builder converts a syntax tree into an IR module.
type Builder struct {
	// opts controls strict versus lenient handling of unsupported syntax.
	opts config.Options

	// mod is the module under construction.
	mod *sir.Module

	// fn is the function currently being built, if any.
	fn *sir.Func

	// symbols maps in-scope names to their IR variables.  It is reset at
	// each function so names never leak between bodies.
	symbols map[string]*sir.Var

	// funcRets maps every top level function name to its declared return
	// type.  It is populated before any body is built so calls to functions
	// defined later still carry real return types.
	funcRets map[string]sir.Type
}

// Build converts a syntax tree into an IR module.  The first error aborts
// the whole module; there is no partial-success mode.
func Build(m *ast.Module, opts config.Options) (irMod *sir.Module, err error) {
	defer report.Catch(&err)

	b := &Builder{
		opts:     opts,
		symbols:  make(map[string]*sir.Var),
		funcRets: make(map[string]sir.Type),
	}

	name := m.Name
	if opts.ModuleName != "" {
		name = opts.ModuleName
	}
	b.mod = sir.NewModule(name)

	// Register every signature before building any body.
	for _, fd := range m.Funcs {
		b.funcRets[fd.Name] = annotToType(fd.ReturnAnnot)
	}

	for _, fd := range m.Funcs {
		b.mod.AddFunc(b.buildFunc(fd))
	}

	return b.mod, nil
}

// buildFunc builds one function definition.
func (b *Builder) buildFunc(fd *ast.FuncDef) *sir.Func {
	fn := sir.NewFunc(fd.Name, annotToType(fd.ReturnAnnot), fd.Span())
	b.fn = fn
	b.symbols = make(map[string]*sir.Var)

	for _, p := range fd.Params {
		v := sir.NewVar(p.Name, annotToType(p.Annot), p.Span())
		fn.AddParam(v)
		b.symbols[p.Name] = v
	}

	for _, s := range fd.Body {
		if st := b.buildStmt(s); st != nil {
			fn.AddStmt(st)
		}
	}

	return fn
}

// fnName returns the name of the function being built, for diagnostics.
func (b *Builder) fnName() string {
	if b.fn == nil {
		return ""
	}

	return b.fn.Name
}
