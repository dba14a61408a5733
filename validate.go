// validate.go — the well-formedness validator.
//
// WHAT THIS MODULE DOES
// =====================
// One depth-first traversal over a Program that either produces a fully
// resolved Checked artifact (every expression typed, every name reference
// bound) or a non-empty DiagList — never a partially resolved tree.
//
// The traversal order is fixed:
//
//  1. Registration: every top-level declaration lands in its kind-namespace
//     (types / functions / globals), so forward references between
//     functions and types are legal. Duplicates within one namespace are
//     DuplicateName diagnostics.
//  2. Signature resolution: struct fields, enum payloads, alias targets
//     (with cycle detection), function signatures, and global types are
//     resolved against the completed type namespace.
//  3. Global initializers, in program order: each initializer sees only the
//     globals declared before it.
//  4. Function bodies, in program order, each with a fresh scope stack
//     seeded from the global frame and its parameters.
//
// The pass is pure on its input: nodes are never mutated, all resolution
// lands in the Checked sidecars. After any diagnostic the affected
// expression types as Invalid, which is compatible with everything, so one
// error does not cascade into a wall of noise.
package cir

import "fmt"

// Validate checks a Program against the full invariant set. On success it
// returns the resolution artifact and a nil list; on failure a nil artifact
// and every accumulated diagnostic, in traversal order.
func Validate(p *Program) (*Checked, DiagList) {
	v := &validator{checked: newChecked(p, NewSymbolTable())}
	v.run(p)
	if len(v.diags) > 0 {
		return nil, v.diags
	}
	return v.checked, nil
}

type validator struct {
	checked *Checked
	diags   DiagList
}

// funcCtx carries what checkStmt needs to know about the enclosing
// function: the declared return type (nil for none) and the loop nesting
// depth that makes break/continue legal.
type funcCtx struct {
	ret       *Type
	loopDepth int
}

func (v *validator) errf(kind DiagKind, pos Pos, format string, args ...any) {
	v.diags = append(v.diags, Diagnostic{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (v *validator) syms() *SymbolTable { return v.checked.Symbols }

// resolveT resolves a syntactic type, reporting failures at pos.
func (v *validator) resolveT(t AstType, pos Pos) Type {
	rt, kind, msg := v.syms().Types.Resolve(t)
	if kind != 0 {
		v.errf(kind, pos, "%s", msg)
	}
	return rt
}

func (v *validator) record(e *Expr, t Type) Type {
	v.checked.types[e] = t
	return t
}

////////////////////////////////////////////////////////////////////////////////
//                              TOP-LEVEL PASSES
////////////////////////////////////////////////////////////////////////////////

func (v *validator) run(p *Program) {
	type globalInit struct {
		decl *VarDecl
		sym  *VarSym
		pos  Pos
	}
	syms := v.syms()
	var globalsInOrder []globalInit
	var defsInOrder []*FuncSym

	// Pass 1: register every top-level name in its kind-namespace.
	for _, s := range p.Stmts {
		switch s.Tag {
		case SStructDecl:
			d := s.Data.(*StructDecl)
			if v.typeNameTaken(d.Name) {
				v.errf(DuplicateName, s.Pos, "type %q declared more than once", d.Name)
				continue
			}
			syms.Types.Structs[d.Name] = d
		case SEnumDecl:
			d := s.Data.(*EnumDecl)
			if v.typeNameTaken(d.Name) {
				v.errf(DuplicateName, s.Pos, "type %q declared more than once", d.Name)
				continue
			}
			syms.Types.Enums[d.Name] = d
		case SAliasDecl:
			d := s.Data.(*AliasDecl)
			if v.typeNameTaken(d.Name) {
				v.errf(DuplicateName, s.Pos, "type %q declared more than once", d.Name)
				continue
			}
			syms.Types.Aliases[d.Name] = d
		case SFuncDecl:
			d := s.Data.(*FuncDecl)
			if prev, ok := syms.Funcs[d.Name]; ok {
				if prev.Def == nil && sameSignature(prev.Decl, d) {
					continue // harmless re-declaration
				}
				v.errf(DuplicateName, s.Pos, "function %q declared more than once", d.Name)
				continue
			}
			syms.Funcs[d.Name] = &FuncSym{Name: d.Name, Decl: d}
		case SFuncDef:
			d := s.Data.(*FuncDef)
			if prev, ok := syms.Funcs[d.Decl.Name]; ok {
				if prev.Def == nil && sameSignature(prev.Decl, &d.Decl) {
					prev.Decl = &d.Decl
					prev.Def = d
					defsInOrder = append(defsInOrder, prev)
					continue
				}
				v.errf(DuplicateName, s.Pos, "function %q defined more than once", d.Decl.Name)
				continue
			}
			sym := &FuncSym{Name: d.Decl.Name, Decl: &d.Decl, Def: d}
			syms.Funcs[d.Decl.Name] = sym
			defsInOrder = append(defsInOrder, sym)
		case SVarDecl:
			d := s.Data.(*VarDecl)
			if _, ok := syms.Globals[d.Name]; ok {
				v.errf(DuplicateName, s.Pos, "global %q declared more than once", d.Name)
				continue
			}
			sym := &VarSym{Name: d.Name, Decl: d}
			syms.Globals[d.Name] = sym
			globalsInOrder = append(globalsInOrder, globalInit{decl: d, sym: sym, pos: s.Pos})
		case SBreak, SContinue:
			v.errf(IllegalBreakOrContinue, s.Pos, "%s outside any enclosing loop", stmtWord(s.Tag))
		case SBad:
			// front-end placeholder; nothing to register
		default:
			// Executable statements are not legal at top level beyond the
			// declarations above; the structural contract leaves them to the
			// front-end, but break/continue are semantic and caught above.
		}
	}

	// Pass 2: resolve declared shapes against the completed type namespace.
	for _, s := range p.Stmts {
		switch s.Tag {
		case SStructDecl:
			d := s.Data.(*StructDecl)
			if syms.Types.Structs[d.Name] != d {
				continue // duplicate; only the first registration is checked
			}
			seen := map[string]bool{}
			for _, f := range d.Fields {
				if seen[f.Name] {
					v.errf(DuplicateName, s.Pos, "struct %q field %q declared more than once", d.Name, f.Name)
				}
				seen[f.Name] = true
				v.resolveT(f.Type, s.Pos)
			}
		case SEnumDecl:
			d := s.Data.(*EnumDecl)
			if syms.Types.Enums[d.Name] != d {
				continue
			}
			seen := map[string]bool{}
			for _, variant := range d.Variants {
				if seen[variant.Name] {
					v.errf(DuplicateName, s.Pos, "enum %q variant %q declared more than once", d.Name, variant.Name)
				}
				seen[variant.Name] = true
				if variant.Payload != nil {
					v.resolveT(*variant.Payload, s.Pos)
				}
			}
		case SAliasDecl:
			d := s.Data.(*AliasDecl)
			if syms.Types.Aliases[d.Name] != d {
				continue
			}
			// Resolving the alias *name* (not just the target) walks the full
			// chain and catches cycles through this declaration.
			v.resolveT(AliasType(d.Name), s.Pos)
		}
	}
	for _, sym := range orderedFuncs(p, syms) {
		sym.Type = v.resolveSignature(sym.Decl, declPos(p, sym))
	}
	for _, g := range globalsInOrder {
		g.sym.Type = v.resolveT(g.decl.Type, g.pos)
	}

	// Pass 3: global initializers, program order, progressive visibility.
	globalScope := NewScope(nil)
	for _, g := range globalsInOrder {
		if g.decl.Init != nil {
			got := v.checkExpr(g.decl.Init, &g.sym.Type, globalScope)
			if !Assignable(got, g.sym.Type) {
				v.errf(OperatorTypeMismatch, g.pos,
					"cannot initialize %s %q with %s", g.sym.Type, g.decl.Name, got)
			}
		}
		globalScope.Define(g.sym)
	}

	// Pass 4: function bodies.
	for _, sym := range defsInOrder {
		v.checkFuncBody(sym, globalScope)
	}
}

func (v *validator) typeNameTaken(name string) bool {
	tt := v.syms().Types
	if _, ok := tt.Structs[name]; ok {
		return true
	}
	if _, ok := tt.Enums[name]; ok {
		return true
	}
	_, ok := tt.Aliases[name]
	return ok
}

func (v *validator) resolveSignature(d *FuncDecl, pos Pos) Type {
	out := Type{Kind: TFunc, Variadic: d.Variadic}
	for _, p := range d.Params {
		out.Params = append(out.Params, v.resolveT(p.Type, pos))
	}
	if d.Ret != nil {
		rt := v.resolveT(*d.Ret, pos)
		out.Ret = &rt
	}
	return out
}

func (v *validator) checkFuncBody(sym *FuncSym, globalScope *Scope) {
	def := sym.Def
	scope := NewScope(globalScope)
	seen := map[string]bool{}
	for i := range def.Decl.Params {
		p := &def.Decl.Params[i]
		if seen[p.Name] {
			v.errf(DuplicateName, def.Body.Pos, "parameter %q declared more than once in %q", p.Name, sym.Name)
		}
		seen[p.Name] = true
		var pt Type
		if i < len(sym.Type.Params) {
			pt = sym.Type.Params[i]
		}
		scope.Define(&VarSym{Name: p.Name, Type: pt, Param: p})
	}
	fn := &funcCtx{ret: sym.Type.Ret}
	v.checkBlock(def.Body, scope, fn)
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func stmtWord(tag StmtTag) string {
	if tag == SBreak {
		return "break"
	}
	return "continue"
}

// checkBlock enters a fresh lexical frame for the block's statements.
func (v *validator) checkBlock(s *Stmt, parent *Scope, fn *funcCtx) {
	b, ok := s.Data.(*Block)
	if !ok {
		return
	}
	scope := NewScope(parent)
	for _, st := range b.Stmts {
		v.checkStmt(st, scope, fn)
	}
}

func (v *validator) checkStmt(s *Stmt, scope *Scope, fn *funcCtx) {
	switch s.Tag {
	case SVarDecl:
		d := s.Data.(*VarDecl)
		t := v.resolveT(d.Type, s.Pos)
		if d.Init != nil {
			got := v.checkExpr(d.Init, &t, scope)
			if !Assignable(got, t) {
				v.errf(OperatorTypeMismatch, s.Pos,
					"cannot initialize %s %q with %s", t, d.Name, got)
			}
		}
		if scope.DefinedHere(d.Name) {
			v.errf(DuplicateName, s.Pos, "variable %q declared more than once in this scope", d.Name)
			return
		}
		scope.Define(&VarSym{Name: d.Name, Type: t, Decl: d})

	case SAssign:
		a := s.Data.(*Assign)
		target := v.checkExpr(a.Target, nil, scope)
		if !isLValue(a.Target) {
			v.errf(NotAssignable, s.Pos, "assignment target is not an lvalue")
		}
		got := v.checkExpr(a.Value, &target, scope)
		if !Assignable(got, target) {
			v.errf(OperatorTypeMismatch, s.Pos, "cannot assign %s to %s", got, target)
		}

	case SBlock:
		v.checkBlock(s, scope, fn)

	case SIf:
		st := s.Data.(*If)
		v.requireBool(st.Cond, scope, "if condition")
		v.checkBlock(st.Then, scope, fn)
		if st.Else != nil {
			// else-if chains arrive as a nested SIf
			v.checkStmt(st.Else, scope, fn)
		}

	case SLoop:
		st := s.Data.(*Loop)
		v.requireBool(st.Cond, scope, "loop condition")
		fn.loopDepth++
		v.checkBlock(st.Body, scope, fn)
		fn.loopDepth--

	case SReturn:
		st := s.Data.(*Return)
		switch {
		case fn.ret == nil && st.Value != nil:
			got := v.checkExpr(st.Value, nil, scope)
			v.errf(ReturnTypeMismatch, s.Pos, "returning %s from a function with no return type", got)
		case fn.ret != nil && st.Value == nil:
			v.errf(ReturnTypeMismatch, s.Pos, "missing return value (want %s)", *fn.ret)
		case fn.ret != nil:
			got := v.checkExpr(st.Value, fn.ret, scope)
			if !Assignable(got, *fn.ret) {
				v.errf(ReturnTypeMismatch, s.Pos, "cannot return %s (want %s)", got, *fn.ret)
			}
		}

	case SBreak, SContinue:
		if fn.loopDepth == 0 {
			v.errf(IllegalBreakOrContinue, s.Pos, "%s outside any enclosing loop", stmtWord(s.Tag))
		}

	case SExpr:
		// Expression-statement position is the one place a call to a
		// function with no return type is legal.
		e := s.Data.(*Expr)
		if e.Tag == ECall {
			v.record(e, v.callType(e, scope, false))
		} else {
			v.checkExpr(e, nil, scope)
		}

	case SSwitch:
		v.checkSwitch(s, scope, fn)

	case SBad:
		// front-end placeholder

	default:
		// Nested type/function declarations are structurally excluded by the
		// front-end contract; nothing to check here.
	}
}

func (v *validator) requireBool(cond *Expr, scope *Scope, what string) {
	boolT := Type{Kind: TBool}
	got := v.checkExpr(cond, &boolT, scope)
	if !got.IsInvalid() && got.Kind != TBool {
		v.errf(OperatorTypeMismatch, cond.Pos,
			"%s must be bool, got %s (no integer truthiness; compare explicitly)", what, got)
	}
}

func (v *validator) checkSwitch(s *Stmt, scope *Scope, fn *funcCtx) {
	sw := s.Data.(*Switch)
	scrut := v.checkExpr(sw.Scrutinee, nil, scope)
	if !scrut.IsInvalid() && scrut.Kind != TInt && scrut.Kind != TChar {
		v.errf(OperatorTypeMismatch, sw.Scrutinee.Pos,
			"switch scrutinee must be an integer or char, got %s", scrut)
	}
	seen := map[string]Pos{}
	for _, arm := range sw.Arms {
		lit, ok := arm.Pattern.Data.(*Literal)
		if arm.Pattern.Tag != ELit || !ok {
			v.errf(OperatorTypeMismatch, arm.Pattern.Pos, "switch arm pattern must be a literal")
		} else {
			key := litKey(lit)
			if prev, dup := seen[key]; dup {
				v.errf(DuplicateCaseLabel, arm.Pattern.Pos,
					"duplicate case label %s (first at %d:%d)", litText(lit), prev.Line, prev.Col)
			} else {
				seen[key] = arm.Pattern.Pos
			}
			got := v.checkExpr(arm.Pattern, &scrut, scope)
			if !Assignable(got, scrut) && !scrut.IsInvalid() {
				v.errf(OperatorTypeMismatch, arm.Pattern.Pos,
					"case label %s is not comparable with scrutinee type %s", got, scrut)
			}
		}
		v.checkBlock(arm.Body, scope, fn)
	}
	if sw.Default != nil {
		v.checkBlock(sw.Default, scope, fn)
	}
}

func litKey(l *Literal) string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("i:%d", l.Int)
	case LitFloat:
		return fmt.Sprintf("f:%g", l.Float)
	case LitBool:
		return fmt.Sprintf("b:%t", l.Bool)
	case LitChar:
		return fmt.Sprintf("c:%d", l.Char)
	default:
		return "s:" + l.Str
	}
}

func litText(l *Literal) string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.Int)
	case LitFloat:
		return fmt.Sprintf("%g", l.Float)
	case LitBool:
		return fmt.Sprintf("%t", l.Bool)
	case LitChar:
		return fmt.Sprintf("%q", l.Char)
	default:
		return fmt.Sprintf("%q", l.Str)
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                 EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

// checkExpr derives the type of e, records it in the sidecar, and returns
// it. hint is the optional expected type threaded down from a typed context
// (initializer, argument, return value); it refines untyped literals and is
// advisory everywhere else — the *caller* enforces assignability.
func (v *validator) checkExpr(e *Expr, hint *Type, scope *Scope) Type {
	switch e.Tag {
	case ELit:
		return v.record(e, v.literalType(e, hint))

	case EVar:
		r := e.Data.(*VarRef)
		if sym, ok := scope.Lookup(r.Name); ok {
			v.checked.bindings[e] = sym
			return v.record(e, sym.Type)
		}
		// A bare function name is a function designator: it types as the
		// function's signature, which is how function-pointer variables and
		// arguments get their values.
		if fsym, ok := v.syms().Funcs[r.Name]; ok {
			v.checked.bindings[e] = fsym
			return v.record(e, fsym.Type)
		}
		v.errf(UndeclaredVariable, e.Pos, "no variable named %q in scope", r.Name)
		return v.record(e, Invalid)

	case EBinary:
		return v.record(e, v.binaryType(e, scope))

	case EUnary:
		return v.record(e, v.unaryType(e, hint, scope))

	case ECall:
		return v.record(e, v.callType(e, scope, true))

	case EStructLit:
		return v.record(e, v.structLitType(e, scope))

	case EEnumLit:
		return v.record(e, v.enumLitType(e, scope))

	case EField:
		f := e.Data.(*Field)
		base := v.checkExpr(f.X, nil, scope)
		if base.IsInvalid() {
			return v.record(e, Invalid)
		}
		if base.Kind != TStruct {
			v.errf(OperatorTypeMismatch, e.Pos, "field access on non-struct type %s", base)
			return v.record(e, Invalid)
		}
		ft, ok := base.Struct.FieldType(f.Name)
		if !ok {
			v.errf(FieldMismatch, e.Pos, "struct %q has no field %q", base.Name, f.Name)
			return v.record(e, Invalid)
		}
		return v.record(e, v.resolveT(ft, e.Pos))

	case EIndex:
		ix := e.Data.(*Index)
		base := v.checkExpr(ix.X, nil, scope)
		intHint := Type{Kind: TInt, Width: 64, Signed: true}
		idx := v.checkExpr(ix.Idx, &intHint, scope)
		if !idx.IsInvalid() && idx.Kind != TInt {
			v.errf(OperatorTypeMismatch, ix.Idx.Pos, "array index must be an integer, got %s", idx)
		}
		switch base.Kind {
		case TArray, TPtr:
			return v.record(e, *base.Elem)
		case TInvalid:
			return v.record(e, Invalid)
		default:
			v.errf(OperatorTypeMismatch, e.Pos, "cannot index into %s", base)
			return v.record(e, Invalid)
		}

	default:
		return v.record(e, Invalid)
	}
}

// literalType gives a literal its intrinsic type, refined to the expected
// type when it fits. Integer literals never silently truncate: a literal
// out of range for the expected width is a diagnostic, not a wrap-around.
func (v *validator) literalType(e *Expr, hint *Type) Type {
	l := e.Data.(*Literal)
	switch l.Kind {
	case LitInt:
		if hint != nil && hint.Kind == TInt {
			if FitsInt(l.Int, *hint) {
				return *hint
			}
			v.errf(OperatorTypeMismatch, e.Pos,
				"integer literal %d does not fit in %s", l.Int, *hint)
			return Invalid
		}
		return Type{Kind: TInt, Width: 32, Signed: true}
	case LitFloat:
		if hint != nil && hint.Kind == TFloat {
			return *hint
		}
		return Type{Kind: TFloat, Width: 64}
	case LitBool:
		return Type{Kind: TBool}
	case LitChar:
		return Type{Kind: TChar}
	default:
		return Type{Kind: TString}
	}
}

func (v *validator) binaryType(e *Expr, scope *Scope) Type {
	b := e.Data.(*Binary)

	// Type the non-literal side first so an untyped literal operand can be
	// refined against it (e.g. x + 1 with x: i64).
	var lt, rt Type
	if b.L.Tag == ELit && b.R.Tag != ELit {
		rt = v.checkExpr(b.R, nil, scope)
		lt = v.checkExpr(b.L, &rt, scope)
	} else {
		lt = v.checkExpr(b.L, nil, scope)
		rt = v.checkExpr(b.R, &lt, scope)
	}
	if lt.IsInvalid() || rt.IsInvalid() {
		if b.Op.IsComparison() {
			return Type{Kind: TBool}
		}
		return Invalid
	}

	switch {
	case b.Op.IsArithmetic():
		if !lt.IsNumeric() || !rt.IsNumeric() {
			v.errf(OperatorTypeMismatch, e.Pos,
				"operator %s requires numeric operands, got %s and %s", b.Op, lt, rt)
			return Invalid
		}
		if b.Op == OpMod && (lt.Kind != TInt || rt.Kind != TInt) {
			v.errf(OperatorTypeMismatch, e.Pos,
				"operator %% requires integer operands, got %s and %s", lt, rt)
			return Invalid
		}
		out, ok := Promote(lt, rt)
		if !ok {
			v.errf(OperatorTypeMismatch, e.Pos,
				"incompatible operands for %s: %s and %s", b.Op, lt, rt)
			return Invalid
		}
		return out

	case b.Op.IsBitwise():
		if lt.Kind != TInt || rt.Kind != TInt {
			v.errf(OperatorTypeMismatch, e.Pos,
				"operator %s requires integer operands, got %s and %s", b.Op, lt, rt)
			return Invalid
		}
		out, ok := Promote(lt, rt)
		if !ok {
			v.errf(OperatorTypeMismatch, e.Pos,
				"incompatible operands for %s: %s and %s", b.Op, lt, rt)
			return Invalid
		}
		return out

	default: // comparison; always bool, never the operand type
		if _, ok := Promote(lt, rt); !ok {
			v.errf(OperatorTypeMismatch, e.Pos,
				"incomparable operands for %s: %s and %s", b.Op, lt, rt)
		} else if !b.Op.IsEquality() && !lt.IsNumeric() && lt.Kind != TChar {
			v.errf(OperatorTypeMismatch, e.Pos,
				"ordering operator %s requires numeric or char operands, got %s", b.Op, lt)
		}
		return Type{Kind: TBool}
	}
}

func (v *validator) unaryType(e *Expr, hint *Type, scope *Scope) Type {
	u := e.Data.(*Unary)
	switch u.Op {
	case OpNot:
		boolT := Type{Kind: TBool}
		got := v.checkExpr(u.X, &boolT, scope)
		if !got.IsInvalid() && got.Kind != TBool {
			v.errf(OperatorTypeMismatch, e.Pos, "operator ! requires a bool operand, got %s", got)
		}
		return boolT

	case OpNeg:
		got := v.checkExpr(u.X, hint, scope)
		if got.IsInvalid() {
			return Invalid
		}
		if !got.IsNumeric() {
			v.errf(OperatorTypeMismatch, e.Pos, "operator - requires a numeric operand, got %s", got)
			return Invalid
		}
		return got

	case OpDeref:
		got := v.checkExpr(u.X, nil, scope)
		if got.IsInvalid() {
			return Invalid
		}
		if got.Kind != TPtr {
			v.errf(OperatorTypeMismatch, e.Pos, "cannot dereference non-pointer type %s", got)
			return Invalid
		}
		return *got.Elem

	default: // OpAddrOf
		got := v.checkExpr(u.X, nil, scope)
		if !isLValue(u.X) {
			v.errf(NotAssignable, e.Pos, "cannot take the address of a non-lvalue")
			return Invalid
		}
		if got.IsInvalid() {
			return Invalid
		}
		return Type{Kind: TPtr, Elem: &got}
	}
}

// callType checks a call site. valueUsed reports whether the call's result
// is consumed; a call to a function with no return type is legal only as an
// expression statement.
func (v *validator) callType(e *Expr, scope *Scope, valueUsed bool) Type {
	c := e.Data.(*Call)

	var sig Type
	var calleeName string
	switch {
	case c.Callee.Tag == EVar:
		name := c.Callee.Data.(*VarRef).Name
		calleeName = name
		// A function-pointer variable shadows a function of the same name:
		// variables are lexically closer than the flat function namespace.
		if sym, ok := scope.Lookup(name); ok {
			v.checked.bindings[c.Callee] = sym
			v.record(c.Callee, sym.Type)
			if sym.Type.Kind != TFunc && !sym.Type.IsInvalid() {
				v.errf(OperatorTypeMismatch, e.Pos, "%q is not callable (type %s)", name, sym.Type)
				return Invalid
			}
			sig = sym.Type
		} else if fsym, ok := v.syms().Funcs[name]; ok {
			v.checked.bindings[c.Callee] = fsym
			v.record(c.Callee, fsym.Type)
			sig = fsym.Type
		} else {
			v.errf(UndeclaredFunction, e.Pos, "no function named %q in scope", name)
			v.record(c.Callee, Invalid)
			return Invalid
		}
	default:
		sig = v.checkExpr(c.Callee, nil, scope)
		if sig.IsInvalid() {
			return Invalid
		}
		if sig.Kind != TFunc {
			v.errf(OperatorTypeMismatch, e.Pos, "called value is not a function (type %s)", sig)
			return Invalid
		}
		calleeName = "<expression>"
	}
	if sig.IsInvalid() {
		return Invalid
	}

	fixed := len(sig.Params)
	switch {
	case sig.Variadic && len(c.Args) < fixed:
		v.errf(ArityMismatch, e.Pos,
			"%s takes at least %d argument(s), got %d", calleeName, fixed, len(c.Args))
	case !sig.Variadic && len(c.Args) != fixed:
		v.errf(ArityMismatch, e.Pos,
			"%s takes %d argument(s), got %d", calleeName, fixed, len(c.Args))
	}

	for i, arg := range c.Args {
		if i < fixed {
			want := sig.Params[i]
			got := v.checkExpr(arg, &want, scope)
			if !Assignable(got, want) {
				v.errf(ArgumentTypeMismatch, arg.Pos,
					"argument %d of %s: cannot use %s as %s", i+1, calleeName, got, want)
			}
			continue
		}
		// Extra variadic arguments carry no declared type; they must still be
		// something a C-style callee can receive through the ellipsis.
		got := v.checkExpr(arg, nil, scope)
		if got.IsInvalid() {
			continue
		}
		switch got.Kind {
		case TInt, TFloat, TBool, TChar, TString, TPtr:
		default:
			v.errf(ArgumentTypeMismatch, arg.Pos,
				"argument %d of %s: %s cannot be passed variadically", i+1, calleeName, got)
		}
	}

	if sig.Ret == nil {
		if valueUsed {
			v.errf(OperatorTypeMismatch, e.Pos,
				"%s returns nothing and cannot be used as a value", calleeName)
		}
		return Invalid
	}
	return *sig.Ret
}

func (v *validator) structLitType(e *Expr, scope *Scope) Type {
	lit := e.Data.(*StructLit)
	decl, ok := v.syms().Types.Structs[lit.Name]
	if !ok {
		v.errf(UnknownType, e.Pos, "no struct named %q in scope", lit.Name)
		for _, f := range lit.Fields {
			v.checkExpr(f.Value, nil, scope)
		}
		return Invalid
	}

	// The field set must equal the declaration's set by name and count.
	given := map[string]bool{}
	for _, f := range lit.Fields {
		if given[f.Name] {
			v.errf(FieldMismatch, e.Pos, "field %q given more than once in %s literal", f.Name, lit.Name)
		}
		given[f.Name] = true

		ft, declared := decl.FieldType(f.Name)
		if !declared {
			v.errf(FieldMismatch, e.Pos, "struct %q has no field %q", lit.Name, f.Name)
			v.checkExpr(f.Value, nil, scope)
			continue
		}
		want := v.resolveT(ft, e.Pos)
		got := v.checkExpr(f.Value, &want, scope)
		if !Assignable(got, want) {
			v.errf(FieldMismatch, e.Pos,
				"field %q of struct %q: cannot use %s as %s", f.Name, lit.Name, got, want)
		}
	}
	for _, f := range decl.Fields {
		if !given[f.Name] {
			v.errf(FieldMismatch, e.Pos, "missing field %q in %s literal", f.Name, lit.Name)
		}
	}
	return Type{Kind: TStruct, Name: decl.Name, Struct: decl}
}

func (v *validator) enumLitType(e *Expr, scope *Scope) Type {
	lit := e.Data.(*EnumLit)
	decl, ok := v.syms().Types.Enums[lit.Name]
	if !ok {
		v.errf(UnknownType, e.Pos, "no enum named %q in scope", lit.Name)
		if lit.Value != nil {
			v.checkExpr(lit.Value, nil, scope)
		}
		return Invalid
	}

	variant, ok := decl.Variant(lit.Variant)
	if !ok {
		v.errf(FieldMismatch, e.Pos, "enum %q has no variant %q", lit.Name, lit.Variant)
		if lit.Value != nil {
			v.checkExpr(lit.Value, nil, scope)
		}
		return Type{Kind: TEnum, Name: decl.Name, Enum: decl}
	}

	switch {
	case variant.Payload == nil && lit.Value != nil:
		v.checkExpr(lit.Value, nil, scope)
		v.errf(FieldMismatch, e.Pos,
			"variant %q of enum %q carries no payload, but a value was given", lit.Variant, lit.Name)
	case variant.Payload != nil && lit.Value == nil:
		v.errf(FieldMismatch, e.Pos,
			"variant %q of enum %q requires a payload of type %s", lit.Variant, lit.Name, *variant.Payload)
	case variant.Payload != nil:
		want := v.resolveT(*variant.Payload, e.Pos)
		got := v.checkExpr(lit.Value, &want, scope)
		if !Assignable(got, want) {
			v.errf(FieldMismatch, e.Pos,
				"payload of %s.%s: cannot use %s as %s", lit.Name, lit.Variant, got, want)
		}
	}
	return Type{Kind: TEnum, Name: decl.Name, Enum: decl}
}

////////////////////////////////////////////////////////////////////////////////
//                                   HELPERS
////////////////////////////////////////////////////////////////////////////////

// isLValue reports whether e designates a storage location: a variable, a
// struct field of an lvalue, an indexed element, or a dereferenced pointer.
func isLValue(e *Expr) bool {
	switch e.Tag {
	case EVar:
		return true
	case EField:
		return isLValue(e.Data.(*Field).X)
	case EIndex:
		return true
	case EUnary:
		return e.Data.(*Unary).Op == OpDeref
	default:
		return false
	}
}

func sameSignature(a, b *FuncDecl) bool {
	if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic {
		return false
	}
	for i := range a.Params {
		if !sameAstType(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	if (a.Ret == nil) != (b.Ret == nil) {
		return false
	}
	return a.Ret == nil || sameAstType(*a.Ret, *b.Ret)
}

func sameAstType(a, b AstType) bool {
	if a.Kind != b.Kind || a.Width != b.Width || a.Signed != b.Signed ||
		a.Name != b.Name || a.Len != b.Len || a.Variadic != b.Variadic {
		return false
	}
	if (a.Elem == nil) != (b.Elem == nil) {
		return false
	}
	if a.Elem != nil && !sameAstType(*a.Elem, *b.Elem) {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !sameAstType(a.Params[i], b.Params[i]) {
			return false
		}
	}
	if (a.Ret == nil) != (b.Ret == nil) {
		return false
	}
	return a.Ret == nil || sameAstType(*a.Ret, *b.Ret)
}

// orderedFuncs yields function symbols in first-appearance program order so
// diagnostics come out deterministically (map iteration would not).
func orderedFuncs(p *Program, syms *SymbolTable) []*FuncSym {
	seen := map[string]bool{}
	out := make([]*FuncSym, 0, len(syms.Funcs))
	for _, s := range p.Stmts {
		var name string
		switch s.Tag {
		case SFuncDecl:
			name = s.Data.(*FuncDecl).Name
		case SFuncDef:
			name = s.Data.(*FuncDef).Decl.Name
		default:
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		if sym, ok := syms.Funcs[name]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// declPos finds the first top-level statement position naming the function.
func declPos(p *Program, sym *FuncSym) Pos {
	for _, s := range p.Stmts {
		switch s.Tag {
		case SFuncDecl:
			if s.Data.(*FuncDecl).Name == sym.Name {
				return s.Pos
			}
		case SFuncDef:
			if s.Data.(*FuncDef).Decl.Name == sym.Name {
				return s.Pos
			}
		}
	}
	return Pos{}
}
