// Command cir is an interactive inspector for the compiler IR: it lists the
// catalogue of backend test programs, renders them as C-like text, and runs
// the validator over them, with a liner-backed REPL for poking at entries.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	cir "github.com/daios-ai/cir"
)

const (
	appName     = "cir"
	historyFile = ".cir_history"
	promptMain  = "==> "
)

var banner = fmt.Sprintf("cir %s IR inspector\nCtrl+C cancels input, Ctrl+D exits. Type help for commands.", cir.Version)

const helpText = `commands:
  list             List the catalogue entries
  show <name>      Render an entry as C-like text
  types <name>     Validate an entry and dump inferred expression types
  check [name...]  Validate entries (default: all)
  quit             Exit
`

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}

	cmd := os.Args[1]
	switch cmd {
	case "list":
		os.Exit(cmdList())
	case "show":
		os.Exit(cmdShow(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(cir.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`cir %s

Usage:
  %s                    Start the inspector REPL.
  %s list               List the catalogue of backend test programs.
  %s show <name>        Render one program as C-like text.
  %s check [name...]    Validate programs (default: all); exit 1 on diagnostics.
  %s version            Print the version.

`, cir.Version, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// list / show / check
// -----------------------------------------------------------------------------

func cmdList() int {
	for _, e := range cir.Catalog() {
		fmt.Printf("%-18s %s\n", e.Name, e.Note)
	}
	return 0
}

func cmdShow(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s show <name>\n", appName)
		return 2
	}
	e, ok := cir.CatalogEntryByName(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: no catalogue entry named %q\n", appName, args[0])
		return 1
	}
	fmt.Print(cir.Format(e.Prog))
	return 0
}

func cmdCheck(args []string) int {
	entries := cir.Catalog()
	if len(args) > 0 {
		entries = entries[:0]
		for _, name := range args {
			e, ok := cir.CatalogEntryByName(name)
			if !ok {
				fmt.Fprintf(os.Stderr, "%s: no catalogue entry named %q\n", appName, name)
				return 1
			}
			entries = append(entries, e)
		}
	}

	bad := 0
	for _, e := range entries {
		if _, diags := cir.Validate(e.Prog); len(diags) > 0 {
			bad++
			fmt.Printf("%s %s\n%s\n", red("FAIL"), e.Name, diags.Error())
			continue
		}
		fmt.Printf("%s %s\n", green("ok  "), e.Name)
	}
	if bad > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	names := make([]string, 0, len(cir.Catalog()))
	for _, e := range cir.Catalog() {
		names = append(names, e.Name)
	}
	ln.SetCompleter(func(line string) []string {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil
		}
		var out []string
		for _, n := range names {
			if strings.HasPrefix(n, fields[1]) {
				out = append(out, fields[0]+" "+n)
			}
		}
		return out
	})

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit", ":quit":
			return 0
		case "help", "?":
			fmt.Print(helpText)
		case "list":
			cmdList()
		case "show":
			replShow(fields[1:])
		case "types":
			replTypes(fields[1:])
		case "check":
			cmdCheck(fields[1:])
		default:
			fmt.Printf("unknown command %q. Type help for commands.\n", fields[0])
		}
	}
}

func replShow(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: show <name>")
		return
	}
	e, ok := cir.CatalogEntryByName(args[0])
	if !ok {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("no catalogue entry named %q", args[0])))
		return
	}
	fmt.Print(colorize(cir.Format(e.Prog)))
}

// replTypes validates an entry and prints every statement with the inferred
// types of its top-level expressions, a quick way to see literal refinement
// and promotion at work.
func replTypes(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: types <name>")
		return
	}
	e, ok := cir.CatalogEntryByName(args[0])
	if !ok {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("no catalogue entry named %q", args[0])))
		return
	}
	checked, diags := cir.Validate(e.Prog)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, red(diags.Error()))
		return
	}
	for _, s := range e.Prog.Stmts {
		printStmtTypes(checked, s, 0)
	}
}

func printStmtTypes(checked *cir.Checked, s *cir.Stmt, depth int) {
	pad := strings.Repeat("  ", depth)
	show := func(e *cir.Expr) {
		if e == nil {
			return
		}
		if t, ok := checked.TypeOf(e); ok {
			fmt.Printf("%s%s %s %s\n", pad, blue(cir.FormatExpr(e)), green(":"), green(t.String()))
		}
	}
	switch s.Tag {
	case cir.SVarDecl:
		show(s.Data.(*cir.VarDecl).Init)
	case cir.SAssign:
		a := s.Data.(*cir.Assign)
		show(a.Target)
		show(a.Value)
	case cir.SBlock:
		for _, st := range s.Data.(*cir.Block).Stmts {
			printStmtTypes(checked, st, depth+1)
		}
	case cir.SIf:
		st := s.Data.(*cir.If)
		show(st.Cond)
		printStmtTypes(checked, st.Then, depth)
		if st.Else != nil {
			printStmtTypes(checked, st.Else, depth)
		}
	case cir.SLoop:
		st := s.Data.(*cir.Loop)
		show(st.Cond)
		printStmtTypes(checked, st.Body, depth)
	case cir.SReturn:
		show(s.Data.(*cir.Return).Value)
	case cir.SExpr:
		show(s.Data.(*cir.Expr))
	case cir.SSwitch:
		sw := s.Data.(*cir.Switch)
		show(sw.Scrutinee)
		for _, arm := range sw.Arms {
			printStmtTypes(checked, arm.Body, depth+1)
		}
		if sw.Default != nil {
			printStmtTypes(checked, sw.Default, depth+1)
		}
	case cir.SFuncDef:
		fmt.Printf("%s%s\n", pad, s.Data.(*cir.FuncDef).Decl.Name)
		printStmtTypes(checked, s.Data.(*cir.FuncDef).Body, depth)
	}
}

// colorize paints rendered IR for the terminal: declaration keywords stay
// plain, everything else blue.
func colorize(src string) string {
	lines := strings.Split(src, "\n")
	for i, ln := range lines {
		trimmed := strings.TrimLeft(ln, " ")
		switch {
		case strings.HasPrefix(trimmed, "fn "),
			strings.HasPrefix(trimmed, "struct "),
			strings.HasPrefix(trimmed, "enum "),
			strings.HasPrefix(trimmed, "type "):
			// keep declaration headers uncolored
		case strings.TrimSpace(ln) == "":
		default:
			lines[i] = blue(ln)
		}
	}
	return strings.Join(lines, "\n")
}
