// scope.go — lexical scopes and the per-program symbol table.
//
// Scoping is a pure static stack discipline: a frame is pushed on block
// entry and popped on block exit, lookups walk parent-ward, and nothing
// captured here outlives validation. Scopes bind *variables only*; types
// and functions live in the flat top-level namespaces of SymbolTable,
// where forward references are legal because the validator registers all
// top-level declarations before it checks any body.
package cir

// VarSym is the resolved identity of one storage location. Exactly one of
// Decl/Param is set: Decl for var declarations (local or global), Param for
// function parameters.
type VarSym struct {
	Name  string
	Type  Type
	Decl  *VarDecl
	Param *Param
}

// FuncSym is the resolved identity of one function. Decl is always set;
// Def additionally when the program carries a body. Type is the resolved
// TFunc signature.
type FuncSym struct {
	Name string
	Type Type
	Decl *FuncDecl
	Def  *FuncDef
}

// SymbolTable holds the three top-level kind-namespaces of one translation
// unit. Names are unique within a namespace but may repeat across them.
// Read-only after validation; safe for concurrent reads.
type SymbolTable struct {
	Types   *TypeTable
	Funcs   map[string]*FuncSym
	Globals map[string]*VarSym
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Types:   NewTypeTable(),
		Funcs:   map[string]*FuncSym{},
		Globals: map[string]*VarSym{},
	}
}

// Scope is one lexical frame with a parent link: Define binds in the
// current frame, Lookup walks parent-ward.
type Scope struct {
	parent *Scope
	table  map[string]*VarSym
}

// NewScope creates a frame with the given parent (which may be nil).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, table: map[string]*VarSym{}}
}

// Define binds name in the current frame, shadowing any outer binding.
func (s *Scope) Define(sym *VarSym) { s.table[sym.Name] = sym }

// DefinedHere reports whether name is bound in this frame itself, ignoring
// ancestors. Used for duplicate-declaration checks: shadowing an outer
// binding is legal, colliding within one scope is not.
func (s *Scope) DefinedHere(name string) bool {
	_, ok := s.table[name]
	return ok
}

// Lookup retrieves the nearest visible binding for name.
func (s *Scope) Lookup(name string) (*VarSym, bool) {
	for f := s; f != nil; f = f.parent {
		if sym, ok := f.table[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
