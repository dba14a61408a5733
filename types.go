// types.go — the type model: type expressions, resolution, compatibility.
//
// Two representations exist side by side:
//
//   - AstType is the *syntactic* type expression a front-end writes into the
//     tree. Named forms (struct/enum/alias references) are unresolved: they
//     carry only a name.
//   - Type is the *resolved* form produced by TypeTable.Resolve: aliases
//     substituted away, named forms bound to their declarations, ready for
//     compatibility checks. A resolved Type never has Kind TAlias.
//
// Resolution is non-recursive beyond one alias hop per step and rejects
// alias cycles (Alias(A) -> Alias(B) -> Alias(A)) with CyclicTypeAlias,
// guarded by a seen-set.
//
// Compatibility is deliberately stricter than C: integer widths widen toward
// the larger width, signed/unsigned mismatch at equal width is rejected
// rather than coerced, integers never silently become floats, and structs
// and enums are compatible only with themselves (by declared name, not by
// shape).
package cir

import (
	"fmt"
	"strings"
)

// TypeKind enumerates every type-expression variant. TInt and TFloat carry
// explicit widths; there is no bare "int".
type TypeKind int

const (
	TInvalid TypeKind = iota // error placeholder; compatible with everything
	TInt                     // Width 8/16/32/64, Signed
	TFloat                   // Width 32/64
	TBool
	TChar
	TString
	TStruct // Name (resolved: Struct)
	TEnum   // Name (resolved: Enum)
	TAlias  // Name; never appears in a resolved Type
	TPtr    // Elem
	TArray  // Elem, Len
	TFunc   // Params, Ret, Variadic
)

// AstType is a syntactic type expression.
type AstType struct {
	Kind   TypeKind
	Width  int
	Signed bool
	Name   string

	Elem *AstType
	Len  int

	Params   []AstType
	Ret      *AstType
	Variadic bool
}

// Scalar type constants, named after the surface syntax.
var (
	I8  = AstType{Kind: TInt, Width: 8, Signed: true}
	I16 = AstType{Kind: TInt, Width: 16, Signed: true}
	I32 = AstType{Kind: TInt, Width: 32, Signed: true}
	I64 = AstType{Kind: TInt, Width: 64, Signed: true}
	U8  = AstType{Kind: TInt, Width: 8}
	U16 = AstType{Kind: TInt, Width: 16}
	U32 = AstType{Kind: TInt, Width: 32}
	U64 = AstType{Kind: TInt, Width: 64}
	F32 = AstType{Kind: TFloat, Width: 32}
	F64 = AstType{Kind: TFloat, Width: 64}

	BoolType   = AstType{Kind: TBool}
	CharType   = AstType{Kind: TChar}
	StringType = AstType{Kind: TString}
)

func StructType(name string) AstType { return AstType{Kind: TStruct, Name: name} }
func EnumType(name string) AstType   { return AstType{Kind: TEnum, Name: name} }
func AliasType(name string) AstType  { return AstType{Kind: TAlias, Name: name} }

func PtrTo(t AstType) AstType { return AstType{Kind: TPtr, Elem: &t} }

func ArrayOf(t AstType, n int) AstType { return AstType{Kind: TArray, Elem: &t, Len: n} }

func FuncType(params []AstType, ret *AstType) AstType {
	return AstType{Kind: TFunc, Params: params, Ret: ret}
}

// Ref returns a pointer to a copy of t, for the optional-type slots
// (function return types, enum payloads).
func (t AstType) Ref() *AstType { c := t; return &c }

func (t AstType) String() string {
	switch t.Kind {
	case TInvalid:
		return "<invalid>"
	case TInt:
		if t.Signed {
			return fmt.Sprintf("i%d", t.Width)
		}
		return fmt.Sprintf("u%d", t.Width)
	case TFloat:
		return fmt.Sprintf("f%d", t.Width)
	case TBool:
		return "bool"
	case TChar:
		return "char"
	case TString:
		return "string"
	case TStruct, TEnum, TAlias:
		return t.Name
	case TPtr:
		return "*" + t.Elem.String()
	case TArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
	case TFunc:
		parts := make([]string, 0, len(t.Params))
		for _, p := range t.Params {
			parts = append(parts, p.String())
		}
		if t.Variadic {
			parts = append(parts, "...")
		}
		s := "fn(" + strings.Join(parts, ", ") + ")"
		if t.Ret != nil {
			s += " -> " + t.Ret.String()
		}
		return s
	default:
		return "<unknown>"
	}
}

////////////////////////////////////////////////////////////////////////////////
//                               RESOLVED TYPES
////////////////////////////////////////////////////////////////////////////////

// Type is a resolved type: aliases are substituted and named forms carry
// their declaration. The zero value is the invalid type (Kind TInvalid),
// used by the validator to suppress cascading diagnostics after a reported
// error.
type Type struct {
	Kind   TypeKind
	Width  int
	Signed bool

	Name   string
	Struct *StructDecl // Kind TStruct
	Enum   *EnumDecl   // Kind TEnum

	Elem *Type
	Len  int

	Params   []Type
	Ret      *Type
	Variadic bool
}

// Invalid is the error-placeholder resolved type.
var Invalid = Type{}

func (t Type) IsInvalid() bool { return t.Kind == TInvalid }
func (t Type) IsInteger() bool { return t.Kind == TInt }
func (t Type) IsNumeric() bool { return t.Kind == TInt || t.Kind == TFloat }

func (t Type) String() string {
	switch t.Kind {
	case TInvalid:
		return "<invalid>"
	case TInt:
		if t.Signed {
			return fmt.Sprintf("i%d", t.Width)
		}
		return fmt.Sprintf("u%d", t.Width)
	case TFloat:
		return fmt.Sprintf("f%d", t.Width)
	case TBool:
		return "bool"
	case TChar:
		return "char"
	case TString:
		return "string"
	case TStruct:
		return "struct " + t.Name
	case TEnum:
		return "enum " + t.Name
	case TPtr:
		return "*" + t.Elem.String()
	case TArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
	case TFunc:
		parts := make([]string, 0, len(t.Params))
		for _, p := range t.Params {
			parts = append(parts, p.String())
		}
		if t.Variadic {
			parts = append(parts, "...")
		}
		s := "fn(" + strings.Join(parts, ", ") + ")"
		if t.Ret != nil {
			s += " -> " + t.Ret.String()
		}
		return s
	default:
		return "<unknown>"
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                 RESOLUTION
////////////////////////////////////////////////////////////////////////////////

// TypeTable holds the type namespace of one translation unit: every struct,
// enum, and alias declared at top level. It is built by the validator's
// registration pass and read-only afterwards.
type TypeTable struct {
	Structs map[string]*StructDecl
	Enums   map[string]*EnumDecl
	Aliases map[string]*AliasDecl
}

// NewTypeTable returns an empty table.
func NewTypeTable() *TypeTable {
	return &TypeTable{
		Structs: map[string]*StructDecl{},
		Enums:   map[string]*EnumDecl{},
		Aliases: map[string]*AliasDecl{},
	}
}

// Resolve turns a syntactic type expression into a resolved Type. On
// failure it returns the invalid type plus the diagnostic kind and message;
// the caller attaches the position. A zero DiagKind means success.
func (tt *TypeTable) Resolve(t AstType) (Type, DiagKind, string) {
	return tt.resolve(t, map[string]bool{})
}

func (tt *TypeTable) resolve(t AstType, seen map[string]bool) (Type, DiagKind, string) {
	switch t.Kind {
	case TInt, TFloat:
		return Type{Kind: t.Kind, Width: t.Width, Signed: t.Signed}, 0, ""
	case TBool, TChar, TString:
		return Type{Kind: t.Kind}, 0, ""

	case TStruct:
		d, ok := tt.Structs[t.Name]
		if !ok {
			return Invalid, UnknownType, fmt.Sprintf("no struct named %q in scope", t.Name)
		}
		return Type{Kind: TStruct, Name: t.Name, Struct: d}, 0, ""

	case TEnum:
		d, ok := tt.Enums[t.Name]
		if !ok {
			return Invalid, UnknownType, fmt.Sprintf("no enum named %q in scope", t.Name)
		}
		return Type{Kind: TEnum, Name: t.Name, Enum: d}, 0, ""

	case TAlias:
		if seen[t.Name] {
			return Invalid, CyclicTypeAlias, fmt.Sprintf("type alias cycle through %q", t.Name)
		}
		d, ok := tt.Aliases[t.Name]
		if !ok {
			return Invalid, UnknownType, fmt.Sprintf("no type named %q in scope", t.Name)
		}
		seen[t.Name] = true
		defer delete(seen, t.Name)
		return tt.resolve(d.Target, seen)

	case TPtr:
		elem, k, msg := tt.resolve(*t.Elem, seen)
		if k != 0 {
			return Invalid, k, msg
		}
		return Type{Kind: TPtr, Elem: &elem}, 0, ""

	case TArray:
		elem, k, msg := tt.resolve(*t.Elem, seen)
		if k != 0 {
			return Invalid, k, msg
		}
		return Type{Kind: TArray, Elem: &elem, Len: t.Len}, 0, ""

	case TFunc:
		out := Type{Kind: TFunc, Variadic: t.Variadic}
		for _, p := range t.Params {
			rp, k, msg := tt.resolve(p, seen)
			if k != 0 {
				return Invalid, k, msg
			}
			out.Params = append(out.Params, rp)
		}
		if t.Ret != nil {
			rr, k, msg := tt.resolve(*t.Ret, seen)
			if k != 0 {
				return Invalid, k, msg
			}
			out.Ret = &rr
		}
		return out, 0, ""

	default:
		return Invalid, UnknownType, "malformed type expression"
	}
}

////////////////////////////////////////////////////////////////////////////////
//                          COMPATIBILITY & PROMOTION
////////////////////////////////////////////////////////////////////////////////

// SameType reports structural identity of two resolved types. Structs and
// enums compare by declared name.
func SameType(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TInt:
		return a.Width == b.Width && a.Signed == b.Signed
	case TFloat:
		return a.Width == b.Width
	case TBool, TChar, TString, TInvalid:
		return true
	case TStruct, TEnum:
		return a.Name == b.Name
	case TPtr:
		return SameType(*a.Elem, *b.Elem)
	case TArray:
		return a.Len == b.Len && SameType(*a.Elem, *b.Elem)
	case TFunc:
		if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic {
			return false
		}
		for i := range a.Params {
			if !SameType(a.Params[i], b.Params[i]) {
				return false
			}
		}
		if (a.Ret == nil) != (b.Ret == nil) {
			return false
		}
		return a.Ret == nil || SameType(*a.Ret, *b.Ret)
	default:
		return false
	}
}

// Assignable reports whether a value of type `from` may flow into a slot of
// type `to`: identical types, or a widening numeric promotion. Signedness
// never changes, integers never become floats implicitly, and derived types
// require identical components. Invalid types pass so one reported error
// does not cascade.
func Assignable(from, to Type) bool {
	if from.IsInvalid() || to.IsInvalid() {
		return true
	}
	if SameType(from, to) {
		return true
	}
	if from.Kind == TInt && to.Kind == TInt {
		return from.Signed == to.Signed && from.Width < to.Width
	}
	if from.Kind == TFloat && to.Kind == TFloat {
		return from.Width < to.Width
	}
	return false
}

// Promote finds the common type of two operands for a binary operator:
// identical types, or the wider of two same-signedness integers, or the
// wider of two floats. Reports false when no promotion exists.
func Promote(a, b Type) (Type, bool) {
	if a.IsInvalid() {
		return a, true
	}
	if b.IsInvalid() {
		return b, true
	}
	if SameType(a, b) {
		return a, true
	}
	if a.Kind == TInt && b.Kind == TInt && a.Signed == b.Signed {
		if a.Width >= b.Width {
			return a, true
		}
		return b, true
	}
	if a.Kind == TFloat && b.Kind == TFloat {
		if a.Width >= b.Width {
			return a, true
		}
		return b, true
	}
	return Invalid, false
}

// FitsInt reports whether the integer constant v is representable in the
// integer type t. Used to refine untyped integer literals against a typed
// context without ever silently truncating.
func FitsInt(v int64, t Type) bool {
	if t.Kind != TInt {
		return false
	}
	if !t.Signed {
		if v < 0 {
			return false
		}
		if t.Width == 64 {
			return true
		}
		return uint64(v) <= (uint64(1)<<uint(t.Width))-1
	}
	if t.Width == 64 {
		return true
	}
	lim := int64(1) << uint(t.Width-1)
	return v >= -lim && v <= lim-1
}
