// diagnostics.go — structured validator diagnostics and snippet rendering.
//
// The validator never stops at the first problem: it accumulates one
// Diagnostic per violation across a single traversal, so a test-generation
// front-end sees every failure at once. A Diagnostic carries a machine
// kind, the offending node's position (round-tripped from the front-end
// unchanged), and a human message.
//
// Rendering is a presentation layer on top of the structured list. When the
// caller still has the original source text, Render produces a caret
// snippet pointing at the offending column, with one line of context on
// each side:
//
//	VALIDATION ERROR (UndeclaredVariable) at 3:12: no variable named "y" in scope
//
//	   2 | i32 main() {
//	   3 |     return y;
//	     |            ^
//	   4 | }
//
// Without source, each diagnostic renders as a single "kind at L:C: msg"
// line. Positions are 1-based and clamped to the source bounds so a
// malformed position never breaks rendering.
package cir

import (
	"fmt"
	"strings"
)

// DiagKind enumerates every validator failure. All are non-fatal: each
// yields a Diagnostic, never a panic.
type DiagKind int

const (
	// The zero value is reserved as "no error" for (Type, DiagKind, string)
	// style returns in the type model.
	noDiag DiagKind = iota

	UnknownType            // named type reference with no matching declaration
	CyclicTypeAlias        // alias chain revisits a type already being resolved
	UndeclaredVariable     // variable name with no visible binding
	UndeclaredFunction     // callee name with no visible binding
	OperatorTypeMismatch   // operand/operator or assignment type disagreement
	ArityMismatch          // wrong argument count at a call site
	ArgumentTypeMismatch   // wrong argument type at a call site
	ReturnTypeMismatch     // return value disagrees with the declared return type
	DuplicateCaseLabel     // repeated literal in a switch arm set
	IllegalBreakOrContinue // break/continue outside any enclosing loop
	FieldMismatch          // struct/enum construction disagrees with its declaration
	DuplicateName          // top-level name repeated within one kind-namespace
	NotAssignable          // assignment target is not an lvalue
)

func (k DiagKind) String() string {
	switch k {
	case UnknownType:
		return "UnknownType"
	case CyclicTypeAlias:
		return "CyclicTypeAlias"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case UndeclaredFunction:
		return "UndeclaredFunction"
	case OperatorTypeMismatch:
		return "OperatorTypeMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case ArgumentTypeMismatch:
		return "ArgumentTypeMismatch"
	case ReturnTypeMismatch:
		return "ReturnTypeMismatch"
	case DuplicateCaseLabel:
		return "DuplicateCaseLabel"
	case IllegalBreakOrContinue:
		return "IllegalBreakOrContinue"
	case FieldMismatch:
		return "FieldMismatch"
	case DuplicateName:
		return "DuplicateName"
	case NotAssignable:
		return "NotAssignable"
	default:
		return "Unknown"
	}
}

// Diagnostic is one validator finding.
type Diagnostic struct {
	Kind DiagKind
	Pos  Pos
	Msg  string
}

func (d Diagnostic) String() string {
	if d.Pos.IsZero() {
		return fmt.Sprintf("%s: %s", d.Kind, d.Msg)
	}
	return fmt.Sprintf("%s at %d:%d: %s", d.Kind, d.Pos.Line, d.Pos.Col, d.Msg)
}

// DiagList is the validator's error surface. It implements error so
// Validate can return it through a plain error slot.
type DiagList []Diagnostic

func (ds DiagList) Error() string {
	if len(ds) == 0 {
		return "no diagnostics"
	}
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Render formats every diagnostic against the original source text as a
// caret snippet. Diagnostics without a position fall back to single-line
// form. Src may be empty, in which case everything falls back.
func (ds DiagList) Render(src string) string {
	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteByte('\n')
		}
		if src == "" || d.Pos.IsZero() {
			b.WriteString(d.String())
			b.WriteByte('\n')
			continue
		}
		b.WriteString(snippet(src, "VALIDATION ERROR ("+d.Kind.String()+")", d.Pos.Line, d.Pos.Col, d.Msg))
	}
	return b.String()
}

// snippet builds a Python-like excerpt with a header and a caret. It shows
// at most one previous and one next line. Coordinates are 1-based and
// clamped to the source bounds.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
