package sir

import "pyrite/report"

// Module is the root IR node.  It owns all functions, globals and type
// declarations of one compilation unit.
type Module struct {
	NodeBase

	// The name of the module.
	Name string

	// The imported module names.  Carried for diagnostics; imports do not
	// participate in lowering.
	Imports []string

	// The functions in declaration order.
	Funcs []*Func

	// The global variables in declaration order.
	Globals []*Var

	// The aggregate type declarations in declaration order.
	TypeDecls []*TypeDecl
}

// NewModule creates a new empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		NodeBase: NewNodeBase(KindModule, nil),
		Name:     name,
	}
}

// AddFunc adds a function to the module.
func (m *Module) AddFunc(fn *Func) {
	AddChild(m, fn)
	m.Funcs = append(m.Funcs, fn)
}

// AddGlobal adds a global variable to the module.
func (m *Module) AddGlobal(v *Var) {
	v.IsGlobal = true
	AddChild(m, v)
	m.Globals = append(m.Globals, v)
}

// AddTypeDecl adds an aggregate type declaration to the module.
func (m *Module) AddTypeDecl(td *TypeDecl) {
	AddChild(m, td)
	m.TypeDecls = append(m.TypeDecls, td)
}

// -----------------------------------------------------------------------------

// Complexity classifies how involved a function body is.  It is advisory
// metadata attached by the builder; lowering does not consult it.
type Complexity int

const (
	ComplexitySimple Complexity = iota
	ComplexityModerate
	ComplexityComplex
)

// Func is the IR node for a function definition.
type Func struct {
	NodeBase

	// The name of the function.  Lowered names are never mangled: the
	// runtime ABI and cross-module calls rely on literal name matching.
	Name string

	// The declared return type.
	ReturnType Type

	// The parameters in declaration order.
	Params []*Var

	// The local variables in declaration order.
	Locals []*Var

	// The body statements in order.
	Body []Stmt

	// Declaration modifiers.
	IsStatic bool
	IsInline bool

	// The advisory complexity classification.
	Complexity Complexity
}

// NewFunc creates a new function node with no parameters or body.
func NewFunc(name string, returnType Type, span *report.TextSpan) *Func {
	return &Func{
		NodeBase:   NewNodeBase(KindFunction, span),
		Name:       name,
		ReturnType: returnType,
	}
}

// AddParam adds a parameter to the function.
func (f *Func) AddParam(v *Var) {
	v.IsParam = true
	AddChild(f, v)
	f.Params = append(f.Params, v)
}

// AddLocal adds a local variable to the function.
func (f *Func) AddLocal(v *Var) {
	AddChild(f, v)
	f.Locals = append(f.Locals, v)
}

// AddStmt appends a statement to the function body.
func (f *Func) AddStmt(s Stmt) {
	AddChild(f, s)
	f.Body = append(f.Body, s)
}

// Signature synthesizes a C-like signature string for diagnostics.
func (f *Func) Signature() string {
	params := ""
	for i, p := range f.Params {
		if i > 0 {
			params += ", "
		}

		params += p.Typ.Decl(p.Name)
	}

	if params == "" {
		params = "void"
	}

	prefix := ""
	if f.IsStatic {
		prefix += "static "
	}
	if f.IsInline {
		prefix += "inline "
	}

	return prefix + f.ReturnType.Decl(f.Name) + "(" + params + ")"
}

// -----------------------------------------------------------------------------

// Var is the IR node for a variable: a parameter, local or global.
type Var struct {
	NodeBase

	// The name of the variable.
	Name string

	// The declared type.
	Typ Type

	// The initializer expression.  May be nil.
	Init Expr

	// Variable classification flags.
	IsParam  bool
	IsGlobal bool
	IsStatic bool

	// The name of the enclosing scope, if recorded.
	Scope string
}

// NewVar creates a new variable node.
func NewVar(name string, typ Type, span *report.TextSpan) *Var {
	return &Var{
		NodeBase: NewNodeBase(KindVariable, span),
		Name:     name,
		Typ:      typ,
	}
}

// -----------------------------------------------------------------------------

// TypeDecl is the IR node for an aggregate type declaration.
type TypeDecl struct {
	NodeBase

	// The name of the declared aggregate.
	Name string

	// The kind of declaration: `struct`, `union` or `enum`.
	DeclKind string

	// The fields in declaration order.
	Fields []*Var
}

// NewTypeDecl creates a new aggregate type declaration node.
func NewTypeDecl(name, declKind string, span *report.TextSpan) *TypeDecl {
	return &TypeDecl{
		NodeBase: NewNodeBase(KindTypeDecl, span),
		Name:     name,
		DeclKind: declKind,
	}
}

// AddField adds a field to the declaration.
func (td *TypeDecl) AddField(v *Var) {
	AddChild(td, v)
	td.Fields = append(td.Fields, v)
}
