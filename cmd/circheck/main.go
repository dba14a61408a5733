// Command circheck runs the validator over the whole catalogue (or a named
// subset) with structured logging, one worker per program. It is the batch
// counterpart of the interactive cir tool: exit 0 iff every program
// validates cleanly, which makes it usable as a CI gate.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	cir "github.com/daios-ai/cir"
)

type result struct {
	entry cir.CatalogEntry
	diags cir.DiagList
	took  time.Duration
}

func main() {
	verbose := flag.Bool("v", false, "log per-expression type counts")
	workers := flag.Int("workers", 4, "concurrent validations")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "circheck: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	entries := cir.Catalog()
	if args := flag.Args(); len(args) > 0 {
		entries = entries[:0]
		for _, name := range args {
			e, ok := cir.CatalogEntryByName(name)
			if !ok {
				logger.Fatal("unknown catalogue entry", zap.String("name", name))
			}
			entries = append(entries, e)
		}
	}

	logger.Info("starting validation",
		zap.String("version", cir.Version),
		zap.Int("programs", len(entries)),
		zap.Int("workers", *workers),
	)

	jobs := make(chan cir.CatalogEntry)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				start := time.Now()
				checked, diags := cir.Validate(e.Prog)
				r := result{entry: e, diags: diags, took: time.Since(start)}
				if *verbose && checked != nil {
					logExprCount(logger, e, checked)
				}
				results <- r
			}
		}()
	}
	go func() {
		for _, e := range entries {
			jobs <- e
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	failed := 0
	for r := range results {
		if len(r.diags) > 0 {
			failed++
			logger.Error("validation failed",
				zap.String("program", r.entry.Name),
				zap.Int("diagnostics", len(r.diags)),
				zap.Duration("took", r.took),
			)
			for _, d := range r.diags {
				logger.Error("diagnostic",
					zap.String("program", r.entry.Name),
					zap.String("kind", d.Kind.String()),
					zap.String("msg", d.Msg),
				)
			}
			continue
		}
		logger.Info("validated",
			zap.String("program", r.entry.Name),
			zap.Duration("took", r.took),
		)
	}

	if failed > 0 {
		logger.Error("validation finished with failures",
			zap.Int("failed", failed),
			zap.Int("total", len(entries)),
		)
		os.Exit(1)
	}
	logger.Info("all programs validated", zap.Int("total", len(entries)))
}

func logExprCount(logger *zap.Logger, e cir.CatalogEntry, checked *cir.Checked) {
	count := 0
	for _, s := range e.Prog.Stmts {
		count += exprCount(checked, s)
	}
	logger.Info("typed expressions",
		zap.String("program", e.Name),
		zap.Int("expressions", count),
	)
}

func exprCount(checked *cir.Checked, s *cir.Stmt) int {
	n := 0
	walk := func(e *cir.Expr) {
		if e == nil {
			return
		}
		if _, ok := checked.TypeOf(e); ok {
			n++
		}
	}
	switch s.Tag {
	case cir.SVarDecl:
		walk(s.Data.(*cir.VarDecl).Init)
	case cir.SAssign:
		a := s.Data.(*cir.Assign)
		walk(a.Target)
		walk(a.Value)
	case cir.SBlock:
		for _, st := range s.Data.(*cir.Block).Stmts {
			n += exprCount(checked, st)
		}
	case cir.SIf:
		st := s.Data.(*cir.If)
		walk(st.Cond)
		n += exprCount(checked, st.Then)
		if st.Else != nil {
			n += exprCount(checked, st.Else)
		}
	case cir.SLoop:
		st := s.Data.(*cir.Loop)
		walk(st.Cond)
		n += exprCount(checked, st.Body)
	case cir.SReturn:
		walk(s.Data.(*cir.Return).Value)
	case cir.SExpr:
		walk(s.Data.(*cir.Expr))
	case cir.SSwitch:
		sw := s.Data.(*cir.Switch)
		walk(sw.Scrutinee)
		for _, arm := range sw.Arms {
			walk(arm.Pattern)
			n += exprCount(checked, arm.Body)
		}
		if sw.Default != nil {
			n += exprCount(checked, sw.Default)
		}
	case cir.SFuncDef:
		n += exprCount(checked, s.Data.(*cir.FuncDef).Body)
	}
	return n
}
