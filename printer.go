// printer.go — renders a Program back to C-like surface text.
//
// The output is for humans: catalogue listings, REPL inspection, test
// failure messages. It is deterministic (same Program, same text) and makes
// no attempt to be re-parseable by any particular front-end. Nested binary
// and unary operands are parenthesized instead of reproducing a precedence
// table, which keeps the printer small and the output unambiguous.
package cir

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a whole Program.
func Format(p *Program) string {
	var b strings.Builder
	o := &printer{b: &b}
	for i, s := range p.Stmts {
		if i > 0 {
			o.nl()
		}
		o.stmt(s)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FormatStmt renders a single statement (at indent zero).
func FormatStmt(s *Stmt) string {
	var b strings.Builder
	o := &printer{b: &b}
	o.stmt(s)
	return strings.TrimRight(b.String(), "\n")
}

// FormatExpr renders a single expression.
func FormatExpr(e *Expr) string {
	o := &printer{b: &strings.Builder{}}
	return o.expr(e)
}

/* ---------- small writer with indentation ---------- */

type printer struct {
	b     *strings.Builder
	depth int
}

func (o *printer) write(s string) { o.b.WriteString(s) }
func (o *printer) nl()            { o.b.WriteByte('\n') }
func (o *printer) pad() {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString("    ")
	}
}
func (o *printer) line(s string)        { o.pad(); o.write(s); o.nl() }
func (o *printer) withIndent(fn func()) { o.depth++; fn(); o.depth-- }

/* ---------- statements & declarations ---------- */

func (o *printer) stmt(s *Stmt) {
	switch s.Tag {
	case SVarDecl:
		d := s.Data.(*VarDecl)
		if d.Init != nil {
			o.line(fmt.Sprintf("let %s: %s = %s;", d.Name, d.Type, o.expr(d.Init)))
		} else {
			o.line(fmt.Sprintf("let %s: %s;", d.Name, d.Type))
		}

	case SAssign:
		a := s.Data.(*Assign)
		o.line(fmt.Sprintf("%s = %s;", o.expr(a.Target), o.expr(a.Value)))

	case SBlock:
		o.line("{")
		o.withIndent(func() {
			for _, st := range s.Data.(*Block).Stmts {
				o.stmt(st)
			}
		})
		o.line("}")

	case SIf:
		st := s.Data.(*If)
		o.pad()
		o.write("if " + o.expr(st.Cond) + " ")
		o.blockInline(st.Then)
		for st.Else != nil {
			if st.Else.Tag == SIf {
				st = st.Else.Data.(*If)
				o.write(" else if " + o.expr(st.Cond) + " ")
				o.blockInline(st.Then)
				continue
			}
			o.write(" else ")
			o.blockInline(st.Else)
			break
		}
		o.nl()

	case SLoop:
		st := s.Data.(*Loop)
		o.pad()
		o.write("while " + o.expr(st.Cond) + " ")
		o.blockInline(st.Body)
		o.nl()

	case SReturn:
		st := s.Data.(*Return)
		if st.Value != nil {
			o.line("return " + o.expr(st.Value) + ";")
		} else {
			o.line("return;")
		}

	case SBreak:
		o.line("break;")
	case SContinue:
		o.line("continue;")

	case SExpr:
		o.line(o.expr(s.Data.(*Expr)) + ";")

	case SSwitch:
		sw := s.Data.(*Switch)
		o.line("switch " + o.expr(sw.Scrutinee) + " {")
		o.withIndent(func() {
			for _, arm := range sw.Arms {
				o.pad()
				o.write("case " + o.expr(arm.Pattern) + ": ")
				o.blockInline(arm.Body)
				o.nl()
			}
			if sw.Default != nil {
				o.pad()
				o.write("default: ")
				o.blockInline(sw.Default)
				o.nl()
			}
		})
		o.line("}")

	case SStructDecl:
		d := s.Data.(*StructDecl)
		o.line("struct " + d.Name + " {")
		o.withIndent(func() {
			for _, f := range d.Fields {
				o.line(fmt.Sprintf("%s: %s;", f.Name, f.Type))
			}
		})
		o.line("}")

	case SEnumDecl:
		d := s.Data.(*EnumDecl)
		o.line("enum " + d.Name + " {")
		o.withIndent(func() {
			for _, variant := range d.Variants {
				if variant.Payload != nil {
					o.line(fmt.Sprintf("%s(%s),", variant.Name, *variant.Payload))
				} else {
					o.line(variant.Name + ",")
				}
			}
		})
		o.line("}")

	case SAliasDecl:
		d := s.Data.(*AliasDecl)
		o.line(fmt.Sprintf("type %s = %s;", d.Name, d.Target))

	case SFuncDecl:
		d := s.Data.(*FuncDecl)
		o.line("fn " + signature(d) + ";")

	case SFuncDef:
		d := s.Data.(*FuncDef)
		o.pad()
		o.write("fn " + signature(&d.Decl) + " ")
		o.blockInline(d.Body)
		o.nl()

	default:
		o.line("<bad stmt>;")
	}
}

// blockInline prints a block whose opening brace continues the current
// line (if/while/fn headers).
func (o *printer) blockInline(s *Stmt) {
	b, ok := s.Data.(*Block)
	if !ok {
		o.write("{}")
		return
	}
	if len(b.Stmts) == 0 {
		o.write("{}")
		return
	}
	o.write("{")
	o.nl()
	o.withIndent(func() {
		for _, st := range b.Stmts {
			o.stmt(st)
		}
	})
	o.pad()
	o.write("}")
}

func signature(d *FuncDecl) string {
	parts := make([]string, 0, len(d.Params)+1)
	for _, p := range d.Params {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, p.Type))
	}
	if d.Variadic {
		parts = append(parts, "...")
	}
	s := d.Name + "(" + strings.Join(parts, ", ") + ")"
	if d.Ret != nil {
		s += " -> " + d.Ret.String()
	}
	return s
}

/* ---------- expressions ---------- */

func (o *printer) expr(e *Expr) string {
	switch e.Tag {
	case ELit:
		return litString(e.Data.(*Literal))

	case EVar:
		return e.Data.(*VarRef).Name

	case EBinary:
		b := e.Data.(*Binary)
		return fmt.Sprintf("%s %s %s", o.operand(b.L), b.Op, o.operand(b.R))

	case EUnary:
		u := e.Data.(*Unary)
		return u.Op.String() + o.operand(u.X)

	case ECall:
		c := e.Data.(*Call)
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = o.expr(a)
		}
		return o.operand(c.Callee) + "(" + strings.Join(args, ", ") + ")"

	case EStructLit:
		l := e.Data.(*StructLit)
		fields := make([]string, len(l.Fields))
		for i, f := range l.Fields {
			fields[i] = f.Name + ": " + o.expr(f.Value)
		}
		return l.Name + " { " + strings.Join(fields, ", ") + " }"

	case EEnumLit:
		l := e.Data.(*EnumLit)
		if l.Value != nil {
			return l.Name + "::" + l.Variant + "(" + o.expr(l.Value) + ")"
		}
		return l.Name + "::" + l.Variant

	case EField:
		f := e.Data.(*Field)
		return o.operand(f.X) + "." + f.Name

	case EIndex:
		ix := e.Data.(*Index)
		return o.operand(ix.X) + "[" + o.expr(ix.Idx) + "]"

	default:
		return "<bad expr>"
	}
}

// operand parenthesizes compound sub-expressions instead of carrying a
// precedence table.
func (o *printer) operand(e *Expr) string {
	s := o.expr(e)
	switch e.Tag {
	case EBinary, EUnary:
		return "(" + s + ")"
	default:
		return s
	}
}

func litString(l *Literal) string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitChar:
		return strconv.QuoteRune(l.Char)
	default:
		return strconv.Quote(l.Str)
	}
}
