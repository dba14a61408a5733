package cir

import (
	"reflect"
	"testing"
)

// --- small helpers ----------------------------------------------------------

func mustValidate(t *testing.T, p *Program) *Checked {
	t.Helper()
	checked, diags := Validate(p)
	if len(diags) != 0 {
		t.Fatalf("want zero diagnostics, got:\n%s", diags.Error())
	}
	if checked == nil {
		t.Fatalf("nil Checked with zero diagnostics")
	}
	return checked
}

func wantKinds(t *testing.T, p *Program, kinds ...DiagKind) DiagList {
	t.Helper()
	checked, diags := Validate(p)
	if checked != nil {
		t.Fatalf("want diagnostics %v, got a Checked artifact", kinds)
	}
	if len(diags) == 0 {
		t.Fatalf("want diagnostics %v, got none", kinds)
	}
	for _, k := range kinds {
		found := false
		for _, d := range diags {
			if d.Kind == k {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("want a %s diagnostic, got:\n%s", k, diags.Error())
		}
	}
	return diags
}

// mainWith wraps statements into a minimal i32 main program.
func mainWith(stmts ...*Stmt) *Program {
	body := append(stmts, Ret(IntLit(0)))
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(body...)),
	}}
}

// --- determinism ------------------------------------------------------------

func Test_Validate_Deterministic_Success(t *testing.T) {
	prog := progNestedStruct()
	a := mustValidate(t, prog)
	b := mustValidate(t, prog)

	for e, ta := range a.types {
		tb, ok := b.TypeOf(e)
		if !ok || !SameType(ta, tb) {
			t.Fatalf("type for %s differs across runs: %s vs %s", FormatExpr(e), ta, tb)
		}
	}
	if len(a.types) != len(b.types) {
		t.Fatalf("type index size differs across runs: %d vs %d", len(a.types), len(b.types))
	}
}

func Test_Validate_Deterministic_Diagnostics(t *testing.T) {
	prog := mainWith(
		ExprStmt(Var("ghost")),
		ExprStmt(CallNamed("phantom")),
		AssignTo(IntLit(1), IntLit(2)),
	)
	_, d1 := Validate(prog)
	_, d2 := Validate(prog)
	if !reflect.DeepEqual(d1, d2) {
		t.Fatalf("diagnostic lists differ across runs:\n%s\n---\n%s", d1.Error(), d2.Error())
	}
}

// --- scoping ----------------------------------------------------------------

func Test_Scope_BlockLocal_InvisibleAfterClose(t *testing.T) {
	prog := mainWith(
		BlockOf(Declare("x", I32, IntLit(1))),
		ExprStmt(Var("x")),
	)
	wantKinds(t, prog, UndeclaredVariable)
}

func Test_Scope_Shadowing_IsLegal(t *testing.T) {
	mustValidate(t, mainWith(
		Declare("x", I32, IntLit(1)),
		BlockOf(
			Declare("x", I64, IntLit(2)),
			ExprStmt(Var("x")),
		),
		ExprStmt(Var("x")),
	))
}

func Test_Scope_DuplicateInSameScope(t *testing.T) {
	prog := mainWith(
		Declare("x", I32, IntLit(1)),
		Declare("x", I32, IntLit(2)),
	)
	wantKinds(t, prog, DuplicateName)
}

func Test_Scope_GlobalInit_NoForwardReference(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{
		Declare("a", I32, Var("b")), // b not yet declared at this point
		Declare("b", I32, IntLit(1)),
		progReturnZero().Stmts[0],
	}}
	wantKinds(t, prog, UndeclaredVariable)
}

func Test_Scope_FunctionForwardReference_IsLegal(t *testing.T) {
	mustValidate(t, progAddCall())
}

// --- literals ---------------------------------------------------------------

func Test_Literal_WidensToDeclaredType(t *testing.T) {
	lit := IntLit(1)
	checked := mustValidate(t, mainWith(Declare("x", I64, lit)))
	got, ok := checked.TypeOf(lit)
	if !ok {
		t.Fatalf("literal not in the type index")
	}
	if got.Kind != TInt || got.Width != 64 || !got.Signed {
		t.Fatalf("want i64, got %s", got)
	}
}

func Test_Literal_NeverSilentlyTruncates(t *testing.T) {
	wantKinds(t, mainWith(Declare("x", I8, IntLit(300))), OperatorTypeMismatch)
	wantKinds(t, mainWith(Declare("x", U32, IntLit(-1))), OperatorTypeMismatch)
}

func Test_Literal_DefaultTypes(t *testing.T) {
	i, f := IntLit(7), FloatLit(2.5)
	checked := mustValidate(t, mainWith(ExprStmt(i), ExprStmt(f)))
	ti, _ := checked.TypeOf(i)
	tf, _ := checked.TypeOf(f)
	if ti.String() != "i32" {
		t.Fatalf("untyped integer literal: want i32, got %s", ti)
	}
	if tf.String() != "f64" {
		t.Fatalf("untyped float literal: want f64, got %s", tf)
	}
}

// --- structs ----------------------------------------------------------------

func Test_Struct_RoundTrip(t *testing.T) {
	xVal, yVal := IntLit(1), IntLit(2)
	prog := &Program{Stmts: []*Stmt{
		DeclStruct("Point", StructField{"x", I32}, StructField{"y", I32}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("p", StructType("Point"),
				StructVal("Point", FieldInit{"x", xVal}, FieldInit{"y", yVal})),
			Ret(FieldOf(Var("p"), "x")),
		)),
	}}
	checked := mustValidate(t, prog)
	for _, v := range []*Expr{xVal, yVal} {
		got, ok := checked.TypeOf(v)
		if !ok || got.String() != "i32" {
			t.Fatalf("field value %s: want i32, got %s", FormatExpr(v), got)
		}
	}
}

func Test_Struct_FieldSetMustMatch(t *testing.T) {
	decl := DeclStruct("Point", StructField{"x", I32}, StructField{"y", I32})

	missing := &Program{Stmts: []*Stmt{decl,
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("p", StructType("Point"), StructVal("Point", FieldInit{"x", IntLit(1)})),
			Ret(IntLit(0)),
		))}}
	wantKinds(t, missing, FieldMismatch)

	extra := &Program{Stmts: []*Stmt{decl,
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("p", StructType("Point"), StructVal("Point",
				FieldInit{"x", IntLit(1)}, FieldInit{"y", IntLit(2)}, FieldInit{"z", IntLit(3)})),
			Ret(IntLit(0)),
		))}}
	wantKinds(t, extra, FieldMismatch)
}

func Test_Struct_UnknownFieldAccess(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{
		DeclStruct("Point", StructField{"x", I32}, StructField{"y", I32}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("p", StructType("Point"),
				StructVal("Point", FieldInit{"x", IntLit(1)}, FieldInit{"y", IntLit(2)})),
			Ret(FieldOf(Var("p"), "z")),
		)),
	}}
	wantKinds(t, prog, FieldMismatch)
}

// --- enums ------------------------------------------------------------------

func Test_Enum_PayloadPresenceMustMatch(t *testing.T) {
	decl := DeclEnum("Color", EnumVariant{Name: "RED"})

	payloadWhereNone := &Program{Stmts: []*Stmt{decl,
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("c", EnumType("Color"), EnumValPayload("Color", "RED", IntLit(1))),
			Ret(IntLit(0)),
		))}}
	wantKinds(t, payloadWhereNone, FieldMismatch)

	withPayload := DeclEnum("Shape", EnumVariant{Name: "CIRCLE", Payload: I32.Ref()})
	nonePayloadWhereSome := &Program{Stmts: []*Stmt{withPayload,
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("s", EnumType("Shape"), EnumVal("Shape", "CIRCLE")),
			Ret(IntLit(0)),
		))}}
	wantKinds(t, nonePayloadWhereSome, FieldMismatch)
}

func Test_Enum_UnknownVariant(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{
		DeclEnum("Color", EnumVariant{Name: "RED"}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("c", EnumType("Color"), EnumVal("Color", "MAGENTA")),
			Ret(IntLit(0)),
		)),
	}}
	wantKinds(t, prog, FieldMismatch)
}

// --- loops, break/continue --------------------------------------------------

func Test_Break_InsideLoop_IsLegal(t *testing.T) {
	mustValidate(t, mainWith(
		While(BoolLit(true), BlockOf(BreakStmt())),
	))
}

func Test_Break_AtTopLevel_IsIllegal(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{
		BreakStmt(),
		progReturnZero().Stmts[0],
	}}
	wantKinds(t, prog, IllegalBreakOrContinue)
}

func Test_Break_OutsideLoopInsideFunction_IsIllegal(t *testing.T) {
	wantKinds(t, mainWith(BreakStmt()), IllegalBreakOrContinue)
	wantKinds(t, mainWith(ContinueStmt()), IllegalBreakOrContinue)
}

func Test_Loop_ConditionMustBeBool(t *testing.T) {
	wantKinds(t, mainWith(While(IntLit(1), BlockOf())), OperatorTypeMismatch)
}

func Test_If_ConditionMustBeBool(t *testing.T) {
	wantKinds(t, mainWith(IfStmt(IntLit(1), BlockOf(), nil)), OperatorTypeMismatch)
}

// --- switch -----------------------------------------------------------------

func Test_Switch_ValidArms(t *testing.T) {
	mustValidate(t, progSwitch())
}

func Test_Switch_DuplicateCaseLabel(t *testing.T) {
	prog := mainWith(
		Declare("x", I32, IntLit(1)),
		SwitchStmt(Var("x"),
			BlockOf(),
			SwitchArm{Pattern: IntLit(0), Body: BlockOf()},
			SwitchArm{Pattern: IntLit(1), Body: BlockOf()},
			SwitchArm{Pattern: IntLit(1), Body: BlockOf()},
		),
	)
	wantKinds(t, prog, DuplicateCaseLabel)
}

func Test_Switch_ArmSelection(t *testing.T) {
	armA, armB, def := BlockOf(), BlockOf(), BlockOf()
	sw := SwitchStmt(Var("x"), def,
		SwitchArm{Pattern: IntLit(0), Body: armA},
		SwitchArm{Pattern: IntLit(1), Body: armB},
	).Data.(*Switch)

	if got := sw.Select(&Literal{Kind: LitInt, Int: 1}); got != armB {
		t.Fatalf("scrutinee 1 must select the second arm")
	}
	if got := sw.Select(&Literal{Kind: LitInt, Int: 0}); got != armA {
		t.Fatalf("scrutinee 0 must select the first arm")
	}
	if got := sw.Select(&Literal{Kind: LitInt, Int: 7}); got != def {
		t.Fatalf("unmatched scrutinee must fall to the default")
	}
	if got := sw.Select(&Literal{Kind: LitChar, Char: 0}); got != def {
		t.Fatalf("a char scrutinee must not match an int pattern of the same value")
	}

	noDefault := SwitchStmt(Var("x"), nil,
		SwitchArm{Pattern: IntLit(0), Body: armA},
	).Data.(*Switch)
	if got := noDefault.Select(&Literal{Kind: LitInt, Int: 9}); got != nil {
		t.Fatalf("unmatched scrutinee without a default must select nothing")
	}
}

func Test_Switch_ScrutineeMustBeIntegerOrChar(t *testing.T) {
	prog := mainWith(
		Declare("s", StringType, StrLit("x")),
		SwitchStmt(Var("s"), nil, SwitchArm{Pattern: StrLit("x"), Body: BlockOf()}),
	)
	wantKinds(t, prog, OperatorTypeMismatch)
}

// --- calls ------------------------------------------------------------------

func twoParamAdd() *Stmt {
	return DefFunc("add", I32.Ref(), []Param{{"a", I32}, {"b", I32}}, BlockOf(
		Ret(Bin(OpAdd, Var("a"), Var("b"))),
	))
}

func Test_Call_ArityMismatch(t *testing.T) {
	tooFew := &Program{Stmts: []*Stmt{twoParamAdd(),
		DefFunc("main", I32.Ref(), nil, BlockOf(Ret(CallNamed("add", IntLit(1)))))}}
	wantKinds(t, tooFew, ArityMismatch)

	tooMany := &Program{Stmts: []*Stmt{twoParamAdd(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(CallNamed("add", IntLit(1), IntLit(2), IntLit(3)))))}}
	wantKinds(t, tooMany, ArityMismatch)
}

func Test_Call_ArgumentTypeMismatch(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{twoParamAdd(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(CallNamed("add", StrLit("one"), BoolLit(true)))))}}
	diags := wantKinds(t, prog, ArgumentTypeMismatch)
	n := 0
	for _, d := range diags {
		if d.Kind == ArgumentTypeMismatch {
			n++
		}
	}
	if n != 2 {
		t.Fatalf("want two ArgumentTypeMismatch diagnostics, got %d:\n%s", n, diags.Error())
	}
}

func Test_Call_UndeclaredFunction(t *testing.T) {
	wantKinds(t, mainWith(ExprStmt(CallNamed("nothere"))), UndeclaredFunction)
}

func Test_Call_Variadic_ExtraArgsLegal(t *testing.T) {
	mustValidate(t, progPrintfVariadic())
}

func Test_Call_Variadic_FixedParamsStillChecked(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{
		DeclVariadicFunc("printf", I32.Ref(), Param{"fmt", StringType}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			ExprStmt(CallNamed("printf", IntLit(42))),
			Ret(IntLit(0)),
		)),
	}}
	wantKinds(t, prog, ArgumentTypeMismatch)
}

func Test_Call_ThroughFunctionPointer(t *testing.T) {
	mustValidate(t, progFunctionPointer())
}

func voidSide() *Stmt {
	return DefFunc("side", nil, nil, BlockOf(Ret(nil)))
}

func Test_Call_VoidResultIsNotAValue(t *testing.T) {
	asInit := &Program{Stmts: []*Stmt{voidSide(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("x", I32, CallNamed("side")),
			Ret(IntLit(0)),
		))}}
	diags := wantKinds(t, asInit, OperatorTypeMismatch)
	if len(diags) != 1 {
		t.Fatalf("want exactly one diagnostic at the call site, got:\n%s", diags.Error())
	}

	asOperand := &Program{Stmts: []*Stmt{voidSide(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("b", BoolType, Bin(OpEq, CallNamed("side"), IntLit(1))),
			Ret(IntLit(0)),
		))}}
	diags = wantKinds(t, asOperand, OperatorTypeMismatch)
	if len(diags) != 1 {
		t.Fatalf("want exactly one diagnostic at the call site, got:\n%s", diags.Error())
	}

	asReturn := &Program{Stmts: []*Stmt{voidSide(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(CallNamed("side")),
		))}}
	wantKinds(t, asReturn, OperatorTypeMismatch)
}

func Test_Call_VoidAsStatement_IsLegal(t *testing.T) {
	mustValidate(t, &Program{Stmts: []*Stmt{voidSide(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			ExprStmt(CallNamed("side")),
			Ret(IntLit(0)),
		))}})
}

// --- returns ----------------------------------------------------------------

func Test_Return_PresenceMustMatch(t *testing.T) {
	missing := &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(Ret(nil))),
	}}
	wantKinds(t, missing, ReturnTypeMismatch)

	valueFromVoid := &Program{Stmts: []*Stmt{
		DefFunc("side", nil, nil, BlockOf(Ret(IntLit(1)))),
	}}
	wantKinds(t, valueFromVoid, ReturnTypeMismatch)
}

func Test_Return_TypeMustMatch(t *testing.T) {
	prog := &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(Ret(StrLit("nope")))),
	}}
	wantKinds(t, prog, ReturnTypeMismatch)
}

// --- assignment & lvalues ---------------------------------------------------

func Test_Assign_TargetMustBeLValue(t *testing.T) {
	wantKinds(t, mainWith(AssignTo(IntLit(1), IntLit(2))), NotAssignable)
	wantKinds(t, mainWith(AssignTo(Bin(OpAdd, IntLit(1), IntLit(2)), IntLit(3))), NotAssignable)
}

func Test_Assign_ThroughDerefAndIndex(t *testing.T) {
	mustValidate(t, progPointer())
	mustValidate(t, progArraySum())
}

func Test_Assign_SignednessNeverCoerced(t *testing.T) {
	prog := mainWith(
		Declare("a", I32, IntLit(1)),
		Declare("b", U32, IntLit(1)),
		AssignTo(Var("a"), Var("b")),
	)
	wantKinds(t, prog, OperatorTypeMismatch)
}

// --- operators --------------------------------------------------------------

func Test_Binary_ComparisonProducesBool(t *testing.T) {
	cmp := Bin(OpLt, Var("a"), Var("b"))
	checked := mustValidate(t, mainWith(
		Declare("a", I64, IntLit(1)),
		Declare("b", I64, IntLit(2)),
		Declare("c", BoolType, cmp),
	))
	got, _ := checked.TypeOf(cmp)
	if got.Kind != TBool {
		t.Fatalf("comparison result: want bool, got %s", got)
	}
}

func Test_Binary_WidthsWidenTowardLarger(t *testing.T) {
	sum := Bin(OpAdd, Var("a"), Var("b"))
	checked := mustValidate(t, mainWith(
		Declare("a", I16, IntLit(1)),
		Declare("b", I64, IntLit(2)),
		Declare("c", I64, sum),
	))
	got, _ := checked.TypeOf(sum)
	if got.String() != "i64" {
		t.Fatalf("i16 + i64: want i64, got %s", got)
	}
}

func Test_Binary_MixedSignednessRejected(t *testing.T) {
	prog := mainWith(
		Declare("a", I32, IntLit(1)),
		Declare("b", U32, IntLit(1)),
		ExprStmt(Bin(OpAdd, Var("a"), Var("b"))),
	)
	wantKinds(t, prog, OperatorTypeMismatch)
}

func Test_Binary_BitwiseRequiresIntegers(t *testing.T) {
	prog := mainWith(
		Declare("f", F64, FloatLit(1.5)),
		ExprStmt(Bin(OpBitAnd, Var("f"), Var("f"))),
	)
	wantKinds(t, prog, OperatorTypeMismatch)
}

func Test_Unary_NotRequiresBool(t *testing.T) {
	wantKinds(t, mainWith(ExprStmt(Un(OpNot, IntLit(1)))), OperatorTypeMismatch)
}

func Test_Unary_DerefRequiresPointer(t *testing.T) {
	prog := mainWith(
		Declare("x", I32, IntLit(1)),
		ExprStmt(Un(OpDeref, Var("x"))),
	)
	wantKinds(t, prog, OperatorTypeMismatch)
}

func Test_Unary_AddrOfRequiresLValue(t *testing.T) {
	wantKinds(t, mainWith(ExprStmt(Un(OpAddrOf, IntLit(1)))), NotAssignable)
}

// --- top-level namespaces ---------------------------------------------------

func Test_Program_DuplicateWithinNamespace(t *testing.T) {
	dupTypes := &Program{Stmts: []*Stmt{
		DeclStruct("T", StructField{"x", I32}),
		DeclEnum("T", EnumVariant{Name: "A"}),
		progReturnZero().Stmts[0],
	}}
	wantKinds(t, dupTypes, DuplicateName)
}

func Test_Program_ShadowAcrossNamespaces_IsLegal(t *testing.T) {
	// "point" as a type, a function, and a global at once.
	prog := &Program{Stmts: []*Stmt{
		DeclStruct("point", StructField{"x", I32}),
		Declare("point", I32, IntLit(1)),
		DefFunc("point", I32.Ref(), nil, BlockOf(Ret(IntLit(2)))),
		progReturnZero().Stmts[0],
	}}
	mustValidate(t, prog)
}

func Test_Program_ResolvedArtifact_BindsNames(t *testing.T) {
	ref := Var("x")
	call := CallNamed("add", IntLit(1), IntLit(2))
	prog := &Program{Stmts: []*Stmt{twoParamAdd(),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("x", I32, IntLit(5)),
			ExprStmt(ref),
			Ret(call),
		))}}
	checked := mustValidate(t, prog)

	vs, ok := checked.VarSymOf(ref)
	if !ok || vs.Decl == nil || vs.Decl.Name != "x" {
		t.Fatalf("variable reference not bound to its declaration")
	}
	callee := call.Data.(*Call).Callee
	fs, ok := checked.FuncSymOf(callee)
	if !ok || fs.Name != "add" || fs.Def == nil {
		t.Fatalf("call site not bound to the function definition")
	}
}
