package cir

import "testing"

func mustResolve(t *testing.T, tt *TypeTable, at AstType) Type {
	t.Helper()
	rt, kind, msg := tt.Resolve(at)
	if kind != noDiag {
		t.Fatalf("resolve %s: unexpected %s: %s", at, kind, msg)
	}
	return rt
}

func wantResolveError(t *testing.T, tt *TypeTable, at AstType, kind DiagKind) {
	t.Helper()
	rt, got, _ := tt.Resolve(at)
	if got != kind {
		t.Fatalf("resolve %s: want %s, got %s", at, kind, got)
	}
	if !rt.IsInvalid() {
		t.Fatalf("resolve %s: failed resolution must yield the invalid type, got %s", at, rt)
	}
}

// --- resolution -------------------------------------------------------------

func Test_Resolve_Scalars(t *testing.T) {
	tt := NewTypeTable()
	for _, at := range []AstType{I8, I16, I32, I64, U8, U16, U32, U64, F32, F64, BoolType, CharType, StringType} {
		rt := mustResolve(t, tt, at)
		if rt.String() != at.String() {
			t.Fatalf("scalar %s resolved to %s", at, rt)
		}
	}
}

func Test_Resolve_DerivedTypes(t *testing.T) {
	tt := NewTypeTable()

	ptr := mustResolve(t, tt, PtrTo(I32))
	if ptr.Kind != TPtr || ptr.Elem.String() != "i32" {
		t.Fatalf("*i32 resolved to %s", ptr)
	}

	arr := mustResolve(t, tt, ArrayOf(F64, 8))
	if arr.Kind != TArray || arr.Len != 8 || arr.Elem.Kind != TFloat {
		t.Fatalf("[8]f64 resolved to %s", arr)
	}

	sig := mustResolve(t, tt, FuncType([]AstType{I32, I32}, I32.Ref()))
	if sig.Kind != TFunc || len(sig.Params) != 2 || sig.Ret == nil || sig.Ret.String() != "i32" {
		t.Fatalf("fn(i32, i32) -> i32 resolved to %s", sig)
	}
}

func Test_Resolve_NamedTypes(t *testing.T) {
	tt := NewTypeTable()
	pointDecl := &StructDecl{Name: "Point", Fields: []StructField{{"x", I32}, {"y", I32}}}
	tt.Structs["Point"] = pointDecl
	tt.Enums["Color"] = &EnumDecl{Name: "Color", Variants: []EnumVariant{{Name: "RED"}}}

	st := mustResolve(t, tt, StructType("Point"))
	if st.Kind != TStruct || st.Struct != pointDecl {
		t.Fatalf("struct reference not bound to its declaration: %s", st)
	}
	en := mustResolve(t, tt, EnumType("Color"))
	if en.Kind != TEnum || en.Enum == nil {
		t.Fatalf("enum reference not bound to its declaration: %s", en)
	}

	wantResolveError(t, tt, StructType("Nope"), UnknownType)
	wantResolveError(t, tt, EnumType("Nope"), UnknownType)
	wantResolveError(t, tt, AliasType("Nope"), UnknownType)
}

func Test_Resolve_AliasChain(t *testing.T) {
	tt := NewTypeTable()
	tt.Aliases["Meters"] = &AliasDecl{Name: "Meters", Target: I64}
	tt.Aliases["Distance"] = &AliasDecl{Name: "Distance", Target: AliasType("Meters")}

	rt := mustResolve(t, tt, AliasType("Distance"))
	if rt.String() != "i64" {
		t.Fatalf("alias chain Distance -> Meters -> i64 resolved to %s", rt)
	}
	if rt.Kind == TAlias {
		t.Fatalf("a resolved type must never have kind TAlias")
	}
}

func Test_Resolve_AliasCycle(t *testing.T) {
	tt := NewTypeTable()
	tt.Aliases["A"] = &AliasDecl{Name: "A", Target: AliasType("B")}
	tt.Aliases["B"] = &AliasDecl{Name: "B", Target: AliasType("A")}
	wantResolveError(t, tt, AliasType("A"), CyclicTypeAlias)

	tt2 := NewTypeTable()
	tt2.Aliases["Self"] = &AliasDecl{Name: "Self", Target: AliasType("Self")}
	wantResolveError(t, tt2, AliasType("Self"), CyclicTypeAlias)
}

func Test_Resolve_AliasInsideDerived(t *testing.T) {
	tt := NewTypeTable()
	tt.Aliases["Meters"] = &AliasDecl{Name: "Meters", Target: I64}
	got := mustResolve(t, tt, PtrTo(AliasType("Meters")))
	if got.Kind != TPtr || got.Elem.String() != "i64" {
		t.Fatalf("*Meters resolved to %s", got)
	}
}

// --- compatibility ----------------------------------------------------------

func rt(t *testing.T, at AstType) Type {
	t.Helper()
	return mustResolve(t, NewTypeTable(), at)
}

func Test_Assignable_WideningOnly(t *testing.T) {
	cases := []struct {
		from, to AstType
		want     bool
	}{
		{I32, I32, true},
		{I8, I64, true},
		{I64, I8, false},  // narrowing
		{I32, U32, false}, // signedness change
		{U8, U16, true},
		{F32, F64, true},
		{F64, F32, false},
		{I32, F64, false}, // int never becomes float implicitly
		{F32, I64, false},
		{BoolType, I8, false},
		{CharType, I32, false},
	}
	for _, c := range cases {
		if got := Assignable(rt(t, c.from), rt(t, c.to)); got != c.want {
			t.Errorf("Assignable(%s, %s) = %t, want %t", c.from, c.to, got, c.want)
		}
	}
}

func Test_Assignable_StructsAreNominal(t *testing.T) {
	tt := NewTypeTable()
	tt.Structs["A"] = &StructDecl{Name: "A", Fields: []StructField{{"x", I32}}}
	tt.Structs["B"] = &StructDecl{Name: "B", Fields: []StructField{{"x", I32}}}
	a := mustResolve(t, tt, StructType("A"))
	b := mustResolve(t, tt, StructType("B"))
	if Assignable(a, b) {
		t.Fatalf("identically shaped structs with different names must not be assignable")
	}
	if !Assignable(a, a) {
		t.Fatalf("a struct must be assignable to itself")
	}
}

func Test_Assignable_InvalidPassesEverywhere(t *testing.T) {
	if !Assignable(Invalid, rt(t, I32)) || !Assignable(rt(t, I32), Invalid) {
		t.Fatalf("the invalid type must be compatible with everything")
	}
}

func Test_Promote_PicksWiderWidth(t *testing.T) {
	out, ok := Promote(rt(t, I16), rt(t, I64))
	if !ok || out.String() != "i64" {
		t.Fatalf("Promote(i16, i64) = %s, %t", out, ok)
	}
	out, ok = Promote(rt(t, F64), rt(t, F32))
	if !ok || out.String() != "f64" {
		t.Fatalf("Promote(f64, f32) = %s, %t", out, ok)
	}
}

func Test_Promote_RejectsMixedClasses(t *testing.T) {
	if _, ok := Promote(rt(t, I32), rt(t, U32)); ok {
		t.Fatalf("Promote(i32, u32) must fail")
	}
	if _, ok := Promote(rt(t, I32), rt(t, F32)); ok {
		t.Fatalf("Promote(i32, f32) must fail")
	}
	if _, ok := Promote(rt(t, BoolType), rt(t, I8)); ok {
		t.Fatalf("Promote(bool, i8) must fail")
	}
}

func Test_FitsInt_Boundaries(t *testing.T) {
	cases := []struct {
		v    int64
		t    AstType
		want bool
	}{
		{127, I8, true},
		{128, I8, false},
		{-128, I8, true},
		{-129, I8, false},
		{255, U8, true},
		{256, U8, false},
		{-1, U8, false},
		{-1, U64, false},
		{1 << 40, I64, true},
		{1 << 40, I32, false},
		{-(1 << 62), I64, true},
	}
	for _, c := range cases {
		if got := FitsInt(c.v, rt(t, c.t)); got != c.want {
			t.Errorf("FitsInt(%d, %s) = %t, want %t", c.v, c.t, got, c.want)
		}
	}
}
