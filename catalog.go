// catalog.go — the documented backend test programs as IR values.
//
// Each entry is one of the programs the code-generation backend is
// exercised with: control flow, arithmetic, structs, arrays, pointers,
// heap allocation, function pointers, variadics, enums, type aliases,
// switch. They double as
// living documentation of the IR (the inspector REPL prints them) and as a
// validation corpus: every entry must validate with zero diagnostics, which
// catalog_test.go enforces.
//
// Programs are built with the ast.go constructors and zero positions.
// Validation never mutates a tree, so one entry can be validated from any
// number of goroutines at once.
package cir

// CatalogEntry is one named test program.
type CatalogEntry struct {
	Name string
	Note string
	Prog *Program
}

// Catalog returns the full test-program catalogue in a stable order.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{"return-zero", "smallest possible program: main returns a constant", progReturnZero()},
		{"if-else", "branch on an explicit comparison, return per branch", progIfElse()},
		{"while-count", "count to ten in a loop", progWhileCount()},
		{"break-continue", "sum even numbers below ten, skipping odd ones", progBreakContinue()},
		{"add-call", "two functions, one call, forward reference legal", progAddCall()},
		{"arithmetic", "all five arithmetic operators combined", progArithmetic()},
		{"struct-point", "declare, construct, and read a two-field struct", progStructPoint()},
		{"nested-struct", "a struct whose fields are themselves structs", progNestedStruct()},
		{"array-sum", "fill a fixed array by index, sum it in a loop", progArraySum()},
		{"pointer", "write through a pointer, observe via the pointee", progPointer()},
		{"heap-alloc", "allocate through declared externs, write, sum, free", progHeapAlloc()},
		{"function-pointer", "pass a function as a value and call through it", progFunctionPointer()},
		{"printf-variadic", "declare a variadic import and call it", progPrintfVariadic()},
		{"enum-color", "plain enum, construct and compare", progEnumColor()},
		{"enum-payload", "enum variant carrying a payload value", progEnumPayload()},
		{"type-alias", "declare an alias and use it interchangeably", progTypeAlias()},
		{"globals", "a global with an initializer read from main", progGlobals()},
		{"switch", "literal arms with a default, no fall-through", progSwitch()},
	}
}

// CatalogEntryByName returns the named entry.
func CatalogEntryByName(name string) (CatalogEntry, bool) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// i32 main() { return 0; }
func progReturnZero() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(IntLit(0)),
		)),
	}}
}

// i32 main() { if (0 == 1) { return 1; } else { return 0; } }
func progIfElse() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			IfStmt(Bin(OpEq, IntLit(0), IntLit(1)),
				BlockOf(Ret(IntLit(1))),
				BlockOf(Ret(IntLit(0)))),
		)),
	}}
}

// i32 main() { i32 i = 0; while (i < 10) { i = i + 1; } return i; }
func progWhileCount() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("i", I32, IntLit(0)),
			While(Bin(OpLt, Var("i"), IntLit(10)), BlockOf(
				AssignTo(Var("i"), Bin(OpAdd, Var("i"), IntLit(1))),
			)),
			Ret(Var("i")),
		)),
	}}
}

// Sum the even numbers below 10; continue past odd ones, break at 10.
func progBreakContinue() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("sum", I32, IntLit(0)),
			Declare("i", I32, IntLit(0)),
			While(BoolLit(true), BlockOf(
				IfStmt(Bin(OpGe, Var("i"), IntLit(10)),
					BlockOf(BreakStmt()), nil),
				AssignTo(Var("i"), Bin(OpAdd, Var("i"), IntLit(1))),
				IfStmt(Bin(OpEq, Bin(OpMod, Var("i"), IntLit(2)), IntLit(1)),
					BlockOf(ContinueStmt()), nil),
				AssignTo(Var("sum"), Bin(OpAdd, Var("sum"), Var("i"))),
			)),
			Ret(Var("sum")),
		)),
	}}
}

// i32 add(i32 a, i32 b) { return a + b; }  i32 main() { return add(1, 2); }
// main comes first: top-level forward references are legal.
func progAddCall() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(CallNamed("add", IntLit(1), IntLit(2))),
		)),
		DefFunc("add", I32.Ref(), []Param{{"a", I32}, {"b", I32}}, BlockOf(
			Ret(Bin(OpAdd, Var("a"), Var("b"))),
		)),
	}}
}

// sum + diff + prod + quot + rem of (10, 3) == 54.
func progArithmetic() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("a", I32, IntLit(10)),
			Declare("b", I32, IntLit(3)),
			Declare("sum", I32, Bin(OpAdd, Var("a"), Var("b"))),
			Declare("diff", I32, Bin(OpSub, Var("a"), Var("b"))),
			Declare("prod", I32, Bin(OpMul, Var("a"), Var("b"))),
			Declare("quot", I32, Bin(OpDiv, Var("a"), Var("b"))),
			Declare("rem", I32, Bin(OpMod, Var("a"), Var("b"))),
			Ret(Bin(OpAdd,
				Bin(OpAdd, Bin(OpAdd, Var("sum"), Var("diff")), Bin(OpAdd, Var("prod"), Var("quot"))),
				Var("rem"))),
		)),
	}}
}

// struct Point { x, y: i32 }; construct and sum the fields.
func progStructPoint() *Program {
	return &Program{Stmts: []*Stmt{
		DeclStruct("Point", StructField{"x", I32}, StructField{"y", I32}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("p", StructType("Point"),
				StructVal("Point",
					FieldInit{"x", IntLit(1)},
					FieldInit{"y", IntLit(2)})),
			Ret(Bin(OpAdd, FieldOf(Var("p"), "x"), FieldOf(Var("p"), "y"))),
		)),
	}}
}

// struct Line { start, end: Point }; sum all four coordinates (== 10).
func progNestedStruct() *Program {
	point := func(x, y int64) *Expr {
		return StructVal("Point",
			FieldInit{"x", IntLit(x)},
			FieldInit{"y", IntLit(y)})
	}
	return &Program{Stmts: []*Stmt{
		DeclStruct("Point", StructField{"x", I32}, StructField{"y", I32}),
		DeclStruct("Line", StructField{"start", StructType("Point")}, StructField{"end", StructType("Point")}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("line", StructType("Line"),
				StructVal("Line",
					FieldInit{"start", point(1, 2)},
					FieldInit{"end", point(3, 4)})),
			Ret(Bin(OpAdd,
				Bin(OpAdd, FieldOf(FieldOf(Var("line"), "start"), "x"), FieldOf(FieldOf(Var("line"), "start"), "y")),
				Bin(OpAdd, FieldOf(FieldOf(Var("line"), "end"), "x"), FieldOf(FieldOf(Var("line"), "end"), "y")))),
		)),
	}}
}

// i32 arr[4]; fill 1..4 by index; sum in a loop (== 10).
func progArraySum() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("arr", ArrayOf(I32, 4), nil),
			Declare("i", I32, IntLit(0)),
			While(Bin(OpLt, Var("i"), IntLit(4)), BlockOf(
				AssignTo(IndexOf(Var("arr"), Var("i")), Bin(OpAdd, Var("i"), IntLit(1))),
				AssignTo(Var("i"), Bin(OpAdd, Var("i"), IntLit(1))),
			)),
			Declare("sum", I32, IntLit(0)),
			Declare("j", I32, IntLit(0)),
			While(Bin(OpLt, Var("j"), IntLit(4)), BlockOf(
				AssignTo(Var("sum"), Bin(OpAdd, Var("sum"), IndexOf(Var("arr"), Var("j")))),
				AssignTo(Var("j"), Bin(OpAdd, Var("j"), IntLit(1))),
			)),
			Ret(Var("sum")),
		)),
	}}
}

// i32 x = 42; i32* p = &x; *p = 100; return x;
func progPointer() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("x", I32, IntLit(42)),
			Declare("p", PtrTo(I32), Un(OpAddrOf, Var("x"))),
			AssignTo(Un(OpDeref, Var("p")), IntLit(100)),
			Ret(Var("x")),
		)),
	}}
}

// u8* p = malloc(2); p[0] = 7; p[1] = 35; sum the cells; free(p).
// malloc and free are external imports: signatures without bodies.
func progHeapAlloc() *Program {
	return &Program{Stmts: []*Stmt{
		DeclFunc("malloc", PtrTo(U8).Ref(), Param{"size", U64}),
		DeclFunc("free", nil, Param{"ptr", PtrTo(U8)}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("p", PtrTo(U8), CallNamed("malloc", IntLit(2))),
			AssignTo(IndexOf(Var("p"), IntLit(0)), IntLit(7)),
			AssignTo(IndexOf(Var("p"), IntLit(1)), IntLit(35)),
			Declare("sum", U8, Bin(OpAdd,
				IndexOf(Var("p"), IntLit(0)),
				IndexOf(Var("p"), IntLit(1)))),
			ExprStmt(CallNamed("free", Var("p"))),
			IfStmt(Bin(OpEq, Var("sum"), IntLit(42)),
				BlockOf(Ret(IntLit(0))), nil),
			Ret(IntLit(1)),
		)),
	}}
}

// apply(op, a, b) calls through its function-typed parameter.
func progFunctionPointer() *Program {
	binop := FuncType([]AstType{I32, I32}, I32.Ref())
	return &Program{Stmts: []*Stmt{
		DefFunc("add", I32.Ref(), []Param{{"a", I32}, {"b", I32}}, BlockOf(
			Ret(Bin(OpAdd, Var("a"), Var("b"))),
		)),
		DefFunc("apply", I32.Ref(), []Param{{"op", binop}, {"a", I32}, {"b", I32}}, BlockOf(
			Ret(CallNamed("op", Var("a"), Var("b"))),
		)),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("f", binop, Var("add")),
			Declare("direct", I32, CallNamed("apply", Var("add"), IntLit(20), IntLit(22))),
			Declare("indirect", I32, CallNamed("f", IntLit(1), IntLit(2))),
			Ret(Bin(OpAdd, Var("direct"), Var("indirect"))),
		)),
	}}
}

// i32 printf(string fmt, ...); main prints one formatted line.
func progPrintfVariadic() *Program {
	return &Program{Stmts: []*Stmt{
		DeclVariadicFunc("printf", I32.Ref(), Param{"fmt", StringType}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			ExprStmt(CallNamed("printf", StrLit("Hello, %d!\n"), IntLit(42))),
			Ret(IntLit(0)),
		)),
	}}
}

// enum Color { RED, GREEN, BLUE }; compare a constructed value.
func progEnumColor() *Program {
	return &Program{Stmts: []*Stmt{
		DeclEnum("Color",
			EnumVariant{Name: "RED"},
			EnumVariant{Name: "GREEN"},
			EnumVariant{Name: "BLUE"}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("c", EnumType("Color"), EnumVal("Color", "RED")),
			IfStmt(Bin(OpEq, Var("c"), EnumVal("Color", "RED")),
				BlockOf(Ret(IntLit(1))), nil),
			Ret(IntLit(0)),
		)),
	}}
}

// enum Shape with a payload-carrying variant.
func progEnumPayload() *Program {
	return &Program{Stmts: []*Stmt{
		DeclEnum("Shape",
			EnumVariant{Name: "POINT"},
			EnumVariant{Name: "CIRCLE", Payload: I32.Ref()}),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Declare("s", EnumType("Shape"), EnumValPayload("Shape", "CIRCLE", IntLit(7))),
			IfStmt(Bin(OpEq, Var("s"), EnumVal("Shape", "POINT")),
				BlockOf(Ret(IntLit(0))), nil),
			Ret(IntLit(1)),
		)),
	}}
}

// type Meters = i64; aliases are interchangeable with their target.
func progTypeAlias() *Program {
	return &Program{Stmts: []*Stmt{
		DeclAlias("Meters", I64),
		DefFunc("twice", I64.Ref(), []Param{{"d", AliasType("Meters")}}, BlockOf(
			Ret(Bin(OpAdd, Var("d"), Var("d"))),
		)),
		DefFunc("main", I64.Ref(), nil, BlockOf(
			Declare("d", AliasType("Meters"), IntLit(21)),
			Ret(CallNamed("twice", Var("d"))),
		)),
	}}
}

// A global initialized at top level, read (and scaled) from main.
func progGlobals() *Program {
	return &Program{Stmts: []*Stmt{
		Declare("SCALE", I32, IntLit(3)),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(Bin(OpMul, Var("SCALE"), IntLit(14))),
		)),
	}}
}

// switch with two literal arms and a default; each arm returns directly.
func progSwitch() *Program {
	return &Program{Stmts: []*Stmt{
		DefFunc("classify", I32.Ref(), []Param{{"x", I32}}, BlockOf(
			SwitchStmt(Var("x"),
				BlockOf(Ret(IntLit(300))),
				SwitchArm{Pattern: IntLit(0), Body: BlockOf(Ret(IntLit(100)))},
				SwitchArm{Pattern: IntLit(1), Body: BlockOf(Ret(IntLit(200)))},
			),
			Ret(IntLit(0)),
		)),
		DefFunc("main", I32.Ref(), nil, BlockOf(
			Ret(CallNamed("classify", IntLit(1))),
		)),
	}}
}
