// ast.go — node taxonomy for the C-subset compiler IR.
//
// WHAT THIS MODULE DOES
// =====================
// This file defines every node a front-end may hand to the validator and a
// backend may consume afterwards: literals, expressions, statements,
// declarations, and the top-level Program. Each syntactic category is a
// closed tagged union in the same shape as a tagged runtime value: a small
// struct carrying a tag constant plus a per-tag payload, so consumers
// dispatch with an exhaustive switch on the tag.
//
// Nodes are immutable by convention: the package never rewrites a node after
// construction, and neither should callers. Name references stay symbolic
// (plain strings); resolution results live in sidecar indexes built by the
// validator (see index.go), never in node fields. That keeps a validated
// tree safely shareable across passes and goroutines.
//
// Every node carries a Pos supplied by the producing front-end. Pos is
// opaque to this layer: it is round-tripped into diagnostics unchanged so
// the caller can map them back to source text.
//
// DEPENDENCIES (OTHER FILES)
// --------------------------
//   - types.go: AstType, the type-expression side of the taxonomy.
//   - validate.go: consumes these nodes and enforces the semantic rules.
//   - printer.go: renders a Program back to C-like text.
package cir

// Pos is a 1-based source coordinate supplied by the front-end. The zero
// value means "no position" (programs built in memory, e.g. the catalogue).
type Pos struct {
	Line int
	Col  int
}

// IsZero reports whether the position carries no source information.
func (p Pos) IsZero() bool { return p.Line == 0 && p.Col == 0 }

////////////////////////////////////////////////////////////////////////////////
//                                  LITERALS
////////////////////////////////////////////////////////////////////////////////

// LitKind enumerates the constant kinds a Literal may hold.
type LitKind int

const (
	LitInt    LitKind = iota // Int int64
	LitFloat                 // Float float64
	LitBool                  // Bool bool
	LitChar                  // Char rune
	LitString                // Str string
)

// Literal is a constant value. Exactly one payload field is meaningful,
// selected by Kind. An untyped integer literal defaults to i32 and an
// untyped float literal to f64; both are refined to the expected type when
// the literal sits in a typed context (initializer, argument, return).
type Literal struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Char  rune
	Str   string
}

// Equal reports value equality: same kind, same payload. A char and an int
// of the same numeric value are not equal.
func (l *Literal) Equal(o *Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case LitInt:
		return l.Int == o.Int
	case LitFloat:
		return l.Float == o.Float
	case LitBool:
		return l.Bool == o.Bool
	case LitChar:
		return l.Char == o.Char
	default:
		return l.Str == o.Str
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

// ExprTag discriminates the Expr union. The tag determines the dynamic type
// of Expr.Data (noted per constant).
type ExprTag int

const (
	EBad       ExprTag = iota // nil (placeholder for recovered front-ends)
	ELit                      // *Literal
	EVar                      // *VarRef
	EBinary                   // *Binary
	EUnary                    // *Unary
	ECall                     // *Call
	EStructLit                // *StructLit
	EEnumLit                  // *EnumLit
	EField                    // *Field
	EIndex                    // *Index
)

// Expr is a value-producing node. Recursion terminates at ELit and EVar.
type Expr struct {
	Tag  ExprTag
	Data any
	Pos  Pos
}

// VarRef names a storage location declared elsewhere (variable, parameter,
// or global). The binding is resolved by the validator, not stored here.
type VarRef struct {
	Name string
}

// BinaryOp tags the binary operator set. Comparison operators always
// produce bool regardless of operand type.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod

	OpEq
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe

	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// IsComparison reports whether the operator belongs to the comparison class
// (result type bool).
func (op BinaryOp) IsComparison() bool { return op >= OpEq && op <= OpLe }

// IsEquality reports whether the operator is == or != (legal on any pair of
// compatible operands, unlike the ordering comparisons).
func (op BinaryOp) IsEquality() bool { return op == OpEq || op == OpNe }

// IsBitwise reports whether the operator requires integer operands.
func (op BinaryOp) IsBitwise() bool { return op >= OpBitAnd && op <= OpShr }

// IsArithmetic reports whether the operator requires numeric operands.
func (op BinaryOp) IsArithmetic() bool { return op >= OpAdd && op <= OpMod }

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	default:
		return "?"
	}
}

// UnaryOp tags the unary operator set. Deref and AddrOf cover the pointer
// programs in the catalogue; Not is bool-only and Neg numeric-only.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpDeref
	OpAddrOf
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpDeref:
		return "*"
	case OpAddrOf:
		return "&"
	default:
		return "?"
	}
}

// Binary applies op to two operands.
type Binary struct {
	Op BinaryOp
	L  *Expr
	R  *Expr
}

// Unary applies op to one operand.
type Unary struct {
	Op UnaryOp
	X  *Expr
}

// Call invokes a callee with positional arguments. The callee is usually an
// EVar naming a declared function; any expression of function type (a
// function-pointer variable, a dereferenced pointer) is also legal.
type Call struct {
	Callee *Expr
	Args   []*Expr
}

// FieldInit is one field of a struct construction.
type FieldInit struct {
	Name  string
	Value *Expr
}

// StructLit constructs a value of a declared struct type. Its field set must
// equal the declaration's field set by name and count.
type StructLit struct {
	Name   string
	Fields []FieldInit
}

// EnumLit constructs a value of a declared enum type. Value must be present
// iff the declaration gives the variant a payload type.
type EnumLit struct {
	Name    string
	Variant string
	Value   *Expr
}

// Field accesses a named member of a struct-typed base expression.
type Field struct {
	X    *Expr
	Name string
}

// Index accesses an element of an array- or pointer-typed base expression.
type Index struct {
	X   *Expr
	Idx *Expr
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

// StmtTag discriminates the Stmt union. The tag determines the dynamic type
// of Stmt.Data (noted per constant).
type StmtTag int

const (
	SBad        StmtTag = iota // nil
	SVarDecl                   // *VarDecl
	SAssign                    // *Assign
	SBlock                     // *Block
	SIf                        // *If
	SLoop                      // *Loop
	SReturn                    // *Return
	SBreak                     // nil
	SContinue                  // nil
	SExpr                      // *Expr
	SSwitch                    // *Switch
	SStructDecl                // *StructDecl
	SEnumDecl                  // *EnumDecl
	SAliasDecl                 // *AliasDecl
	SFuncDecl                  // *FuncDecl
	SFuncDef                   // *FuncDef
)

// Stmt is a unit of execution or a declaration. Declarations appear both at
// top level and (for variables) inside blocks.
type Stmt struct {
	Tag  StmtTag
	Data any
	Pos  Pos
}

// VarDecl declares a named storage location, optionally initialized. Names
// are unique within their declaring scope; inner scopes may shadow.
type VarDecl struct {
	Name string
	Type AstType
	Init *Expr // optional
}

// Assign stores Value into Target. Target must be an lvalue: a variable,
// field access, index, or pointer dereference.
type Assign struct {
	Target *Expr
	Value  *Expr
}

// Block is an ordered statement sequence introducing a fresh lexical scope.
// Declarations inside are invisible after the block closes.
type Block struct {
	Stmts []*Stmt
}

// If branches on a bool condition. There is no integer truthiness; the
// front-end must produce an explicit comparison. Else is optional.
type If struct {
	Cond *Expr
	Then *Stmt // SBlock
	Else *Stmt // optional; SBlock or SIf (else-if chain)
}

// Loop is the single looping construct (while; for desugars to it). Its body
// establishes the breakable context for Break/Continue.
type Loop struct {
	Cond *Expr
	Body *Stmt // SBlock
}

// Return exits the enclosing function. Value presence must match the
// declared return type: present iff the function declares one.
type Return struct {
	Value *Expr // optional
}

// SwitchArm is one (literal pattern, body) pair. Arms match in order by
// value equality; there is no fall-through, each arm implicitly breaks.
type SwitchArm struct {
	Pattern *Expr // ELit
	Body    *Stmt // SBlock
}

// Switch matches a scrutinee against literal arms with an optional default.
type Switch struct {
	Scrutinee *Expr
	Arms      []SwitchArm
	Default   *Stmt // optional; SBlock
}

// Select returns the body a scrutinee value selects: the first arm whose
// literal pattern equals v, else the default body (nil when absent).
func (sw *Switch) Select(v *Literal) *Stmt {
	for _, arm := range sw.Arms {
		if lit, ok := arm.Pattern.Data.(*Literal); ok && lit.Equal(v) {
			return arm.Body
		}
	}
	return sw.Default
}

////////////////////////////////////////////////////////////////////////////////
//                                DECLARATIONS
////////////////////////////////////////////////////////////////////////////////

// StructField is one (name, type) member of a struct declaration.
type StructField struct {
	Name string
	Type AstType
}

// StructDecl declares a struct type with an ordered field list.
type StructDecl struct {
	Name   string
	Fields []StructField
}

// FieldType returns the declared type of the named field.
func (d *StructDecl) FieldType(name string) (AstType, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return AstType{}, false
}

// EnumVariant is one variant of an enum declaration. Payload is nil for
// plain (C-style) variants.
type EnumVariant struct {
	Name    string
	Payload *AstType // optional
}

// EnumDecl declares an enum type with an ordered variant list.
type EnumDecl struct {
	Name     string
	Variants []EnumVariant
}

// Variant returns the named variant, if declared.
func (d *EnumDecl) Variant(name string) (EnumVariant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// AliasDecl declares a type alias. Alias chains resolve one hop per step;
// cycles are rejected by the validator.
type AliasDecl struct {
	Name   string
	Target AstType
}

// Param is one (name, type) function parameter.
type Param struct {
	Name string
	Type AstType
}

// FuncDecl is a function signature without a body: either a forward
// declaration or an external import (the catalogue's printf). A nil Ret
// means the function returns nothing. Variadic functions accept extra
// arguments after the fixed parameters.
type FuncDecl struct {
	Name     string
	Params   []Param
	Ret      *AstType // optional
	Variadic bool
}

// FuncDef is a signature plus a body.
type FuncDef struct {
	Decl FuncDecl
	Body *Stmt // SBlock
}

// Program is a whole translation unit: an ordered sequence of top-level
// statements (type declarations, function declarations and definitions,
// global variables). Top-level names are unique per kind-namespace: types,
// functions, and globals each form one namespace; a name may repeat across
// namespaces but not within one.
type Program struct {
	Stmts []*Stmt
}

////////////////////////////////////////////////////////////////////////////////
//                          CONSTRUCTION CONVENIENCE
////////////////////////////////////////////////////////////////////////////////

// The constructors below build nodes with a zero Pos; front-ends with real
// source coordinates use At to attach them.

// At returns a copy of e carrying the given position.
func (e *Expr) At(p Pos) *Expr { c := *e; c.Pos = p; return &c }

// At returns a copy of s carrying the given position.
func (s *Stmt) At(p Pos) *Stmt { c := *s; c.Pos = p; return &c }

func IntLit(v int64) *Expr     { return &Expr{Tag: ELit, Data: &Literal{Kind: LitInt, Int: v}} }
func FloatLit(v float64) *Expr { return &Expr{Tag: ELit, Data: &Literal{Kind: LitFloat, Float: v}} }
func BoolLit(v bool) *Expr     { return &Expr{Tag: ELit, Data: &Literal{Kind: LitBool, Bool: v}} }
func CharLit(v rune) *Expr     { return &Expr{Tag: ELit, Data: &Literal{Kind: LitChar, Char: v}} }
func StrLit(v string) *Expr    { return &Expr{Tag: ELit, Data: &Literal{Kind: LitString, Str: v}} }

func Var(name string) *Expr { return &Expr{Tag: EVar, Data: &VarRef{Name: name}} }

func Bin(op BinaryOp, l, r *Expr) *Expr { return &Expr{Tag: EBinary, Data: &Binary{Op: op, L: l, R: r}} }
func Un(op UnaryOp, x *Expr) *Expr      { return &Expr{Tag: EUnary, Data: &Unary{Op: op, X: x}} }

func CallExpr(callee *Expr, args ...*Expr) *Expr {
	return &Expr{Tag: ECall, Data: &Call{Callee: callee, Args: args}}
}

// CallNamed is the common case: call a function by name.
func CallNamed(name string, args ...*Expr) *Expr { return CallExpr(Var(name), args...) }

func StructVal(name string, fields ...FieldInit) *Expr {
	return &Expr{Tag: EStructLit, Data: &StructLit{Name: name, Fields: fields}}
}

func EnumVal(name, variant string) *Expr {
	return &Expr{Tag: EEnumLit, Data: &EnumLit{Name: name, Variant: variant}}
}

func EnumValPayload(name, variant string, value *Expr) *Expr {
	return &Expr{Tag: EEnumLit, Data: &EnumLit{Name: name, Variant: variant, Value: value}}
}

func FieldOf(x *Expr, name string) *Expr { return &Expr{Tag: EField, Data: &Field{X: x, Name: name}} }
func IndexOf(x, idx *Expr) *Expr         { return &Expr{Tag: EIndex, Data: &Index{X: x, Idx: idx}} }

func Declare(name string, t AstType, init *Expr) *Stmt {
	return &Stmt{Tag: SVarDecl, Data: &VarDecl{Name: name, Type: t, Init: init}}
}

func AssignTo(target, value *Expr) *Stmt {
	return &Stmt{Tag: SAssign, Data: &Assign{Target: target, Value: value}}
}

func BlockOf(stmts ...*Stmt) *Stmt { return &Stmt{Tag: SBlock, Data: &Block{Stmts: stmts}} }

func IfStmt(cond *Expr, then, els *Stmt) *Stmt {
	return &Stmt{Tag: SIf, Data: &If{Cond: cond, Then: then, Else: els}}
}

func While(cond *Expr, body *Stmt) *Stmt {
	return &Stmt{Tag: SLoop, Data: &Loop{Cond: cond, Body: body}}
}

func Ret(value *Expr) *Stmt { return &Stmt{Tag: SReturn, Data: &Return{Value: value}} }
func BreakStmt() *Stmt      { return &Stmt{Tag: SBreak} }
func ContinueStmt() *Stmt   { return &Stmt{Tag: SContinue} }
func ExprStmt(e *Expr) *Stmt {
	return &Stmt{Tag: SExpr, Data: e}
}

func SwitchStmt(scrutinee *Expr, def *Stmt, arms ...SwitchArm) *Stmt {
	return &Stmt{Tag: SSwitch, Data: &Switch{Scrutinee: scrutinee, Arms: arms, Default: def}}
}

func DeclStruct(name string, fields ...StructField) *Stmt {
	return &Stmt{Tag: SStructDecl, Data: &StructDecl{Name: name, Fields: fields}}
}

func DeclEnum(name string, variants ...EnumVariant) *Stmt {
	return &Stmt{Tag: SEnumDecl, Data: &EnumDecl{Name: name, Variants: variants}}
}

func DeclAlias(name string, target AstType) *Stmt {
	return &Stmt{Tag: SAliasDecl, Data: &AliasDecl{Name: name, Target: target}}
}

func DeclFunc(name string, ret *AstType, params ...Param) *Stmt {
	return &Stmt{Tag: SFuncDecl, Data: &FuncDecl{Name: name, Params: params, Ret: ret}}
}

func DeclVariadicFunc(name string, ret *AstType, params ...Param) *Stmt {
	return &Stmt{Tag: SFuncDecl, Data: &FuncDecl{Name: name, Params: params, Ret: ret, Variadic: true}}
}

func DefFunc(name string, ret *AstType, params []Param, body *Stmt) *Stmt {
	return &Stmt{Tag: SFuncDef, Data: &FuncDef{Decl: FuncDecl{Name: name, Params: params, Ret: ret}, Body: body}}
}
