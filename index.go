// index.go — sidecar resolution indexes for validated programs.
//
// The tree never stores resolution results in node fields: a validated
// Program stays byte-identical to the one the front-end built. Instead the
// validator records everything it learned in sidecar maps keyed by node
// identity, bundled here as Checked. This mirrors the sidecar-span
// technique: a read-only map built in one pass, safe to share for
// concurrent reads, leaving the tree free of back-references.
//
// Checked is the validator's success artifact and the input contract of the
// backend: every expression has a resolved type, every variable reference
// and call site a resolved binding.
package cir

// Binding is the resolved identity behind a name reference: a *VarSym for
// variable references and field/index bases, or a *FuncSym for call sites
// that name a declared function.
type Binding any

// Checked bundles a validated Program with its resolution sidecars. It is
// read-only after construction.
type Checked struct {
	Program *Program
	Symbols *SymbolTable

	types    map[*Expr]Type
	bindings map[*Expr]Binding
}

func newChecked(p *Program, syms *SymbolTable) *Checked {
	return &Checked{
		Program:  p,
		Symbols:  syms,
		types:    map[*Expr]Type{},
		bindings: map[*Expr]Binding{},
	}
}

// TypeOf returns the resolved type of an expression node. The boolean is
// false only for nodes that are not part of the checked program.
func (c *Checked) TypeOf(e *Expr) (Type, bool) {
	if c == nil {
		return Invalid, false
	}
	t, ok := c.types[e]
	return t, ok
}

// BindingOf returns the declaration identity behind a reference node: the
// *VarSym for an EVar, or the *FuncSym for an ECall's callee when the call
// goes through a declared function rather than a function-pointer value.
func (c *Checked) BindingOf(e *Expr) (Binding, bool) {
	if c == nil {
		return nil, false
	}
	b, ok := c.bindings[e]
	return b, ok
}

// VarSymOf is BindingOf narrowed to variable bindings.
func (c *Checked) VarSymOf(e *Expr) (*VarSym, bool) {
	b, ok := c.BindingOf(e)
	if !ok {
		return nil, false
	}
	v, ok := b.(*VarSym)
	return v, ok
}

// FuncSymOf is BindingOf narrowed to function bindings.
func (c *Checked) FuncSymOf(e *Expr) (*FuncSym, bool) {
	b, ok := c.BindingOf(e)
	if !ok {
		return nil, false
	}
	f, ok := b.(*FuncSym)
	return f, ok
}
