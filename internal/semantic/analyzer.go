// Package semantic type-checks a parsed WACC program.
package semantic

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/diag"
	"github.com/louisheal/wacc/internal/symtab"
	"github.com/louisheal/wacc/internal/typesys"
)

// Options tunes the analyzer. The zero value checks bodies sequentially.
type Options struct {
	Parallel bool
	Workers  int // max concurrent body checks; <= 0 means unbounded
}

// Result is the outcome of one analysis run.
type Result struct {
	Diagnostics diag.List
	Signatures  *symtab.Signatures
	// Types holds the inferred type of every expression in the program.
	Types map[ast.Expression]typesys.Type
}

// OK reports whether the program is checked, i.e. produced no diagnostics.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// TypeOf returns the inferred type of e, or Unknown if e was never checked.
func (r *Result) TypeOf(e ast.Expression) typesys.Type {
	if t, ok := r.Types[e]; ok {
		return t
	}
	return typesys.Unknown
}

// Analyzer runs the two checking passes over a program.
type Analyzer struct {
	opts Options
}

func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze checks prog with default options.
func Analyze(ctx context.Context, prog *ast.Program) (*Result, error) {
	return New(Options{}).Analyze(ctx, prog)
}

// Analyze collects every function signature, then checks each function body
// and the main body. The only error it returns is ctx's; semantic problems
// are reported in Result.Diagnostics.
func (a *Analyzer) Analyze(ctx context.Context, prog *ast.Program) (*Result, error) {
	res := &Result{
		Signatures: symtab.NewSignatures(),
		Types:      make(map[ast.Expression]typesys.Type),
	}
	res.Diagnostics = collectSignatures(prog, res.Signatures)

	// Every body gets a private checker; the signature table is read-only
	// from here on.
	checkers := make([]*checker, len(prog.Functions))
	checkFn := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := newChecker(res.Signatures, prog.Functions[i])
		c.checkFunction(prog.Functions[i])
		checkers[i] = c
		return nil
	}

	if a.opts.Parallel && len(prog.Functions) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		if a.opts.Workers > 0 {
			g.SetLimit(a.opts.Workers)
		}
		for i := range prog.Functions {
			g.Go(func() error { return checkFn(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range prog.Functions {
			if err := checkFn(ctx, i); err != nil {
				return nil, err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	main := newChecker(res.Signatures, nil)
	main.checkMain(prog.Body)
	checkers = append(checkers, main)

	for _, c := range checkers {
		res.Diagnostics = append(res.Diagnostics, c.diags...)
		for e, t := range c.types {
			res.Types[e] = t
		}
	}
	return res, nil
}

// collectSignatures is the first pass: it makes every function callable from
// every body regardless of declaration order.
func collectSignatures(prog *ast.Program, sigs *symtab.Signatures) diag.List {
	var diags diag.List
	for _, fn := range prog.Functions {
		params := make([]typesys.Type, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, p.Type)
		}
		sig := &symtab.Signature{Name: fn.Name, Params: params, Return: fn.ReturnType, Site: fn.Token}
		if err := sigs.Declare(sig); err != nil {
			diags = append(diags, diag.Redeclared(fn, "Function", fn.Name))
		}
	}
	return diags
}
