// Package compiler wires the checker and the code generator into one
// pipeline behind a pluggable parser.
package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/codegen"
	"github.com/louisheal/wacc/internal/config"
	"github.com/louisheal/wacc/internal/diag"
	"github.com/louisheal/wacc/internal/semantic"
)

// Status is the process exit status a driver reports for a compilation.
type Status int

const (
	StatusOK            Status = 0
	StatusSyntaxError   Status = 100
	StatusSemanticError Status = 200
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSyntaxError:
		return "syntax error"
	case StatusSemanticError:
		return "semantic error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Parser turns source text into a syntax tree. Any error it returns is a
// syntax error.
type Parser interface {
	Parse(ctx context.Context, name string, src []byte) (*ast.Program, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, name string, src []byte) (*ast.Program, error)

func (f ParserFunc) Parse(ctx context.Context, name string, src []byte) (*ast.Program, error) {
	return f(ctx, name, src)
}

// Result is the outcome of one compilation. Status describes the program.
// Err holds the parse error under StatusSyntaxError; with StatusOK it
// reports a failure that is not the program's fault, such as cancellation
// or a generator defect.
type Result struct {
	Status      Status
	Diagnostics diag.List
	Output      *codegen.Output
	Err         error
}

// Assembly renders the generated program, or "" when there is none.
func (r *Result) Assembly() string {
	if r.Output == nil {
		return ""
	}
	return r.Output.String()
}

// Pipeline runs analysis and generation with one configuration.
type Pipeline struct {
	Config config.Config
	Logger *slog.Logger
}

// New returns a pipeline that logs to logger, or nowhere if logger is nil.
func New(cfg config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{Config: cfg, Logger: logger}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

// CompileSource parses src and compiles the tree.
func (p *Pipeline) CompileSource(ctx context.Context, parser Parser, name string, src []byte) Result {
	log := p.logger().With("file", name)
	start := time.Now()
	prog, err := parser.Parse(ctx, name, src)
	if err != nil {
		log.Info("Syntax error", "err", err, "elapsed", time.Since(start))
		return Result{Status: StatusSyntaxError, Err: err}
	}
	log.Debug("Parsed program", "functions", len(prog.Functions), "elapsed", time.Since(start))
	return p.compile(ctx, log, prog)
}

// Compile checks prog and, if it has no diagnostics, generates code.
func (p *Pipeline) Compile(ctx context.Context, prog *ast.Program) Result {
	return p.compile(ctx, p.logger(), prog)
}

func (p *Pipeline) compile(ctx context.Context, log *slog.Logger, prog *ast.Program) Result {
	start := time.Now()
	analyzer := semantic.New(semantic.Options{
		Parallel: p.Config.Analysis.Parallel,
		Workers:  p.Config.Analysis.Workers,
	})
	res, err := analyzer.Analyze(ctx, prog)
	if err != nil {
		log.Warn("Analysis aborted", "err", err)
		return Result{Err: err}
	}
	log.Debug("Analysed program", "functions", len(prog.Functions), "diagnostics", len(res.Diagnostics),
		"parallel", p.Config.Analysis.Parallel, "elapsed", time.Since(start))
	if !res.OK() {
		log.Info("Semantic errors", "count", len(res.Diagnostics))
		return Result{Status: StatusSemanticError, Diagnostics: res.Diagnostics}
	}

	start = time.Now()
	gen := codegen.New(codegen.Options{Comments: p.Config.Codegen.EmitComments})
	out, err := gen.Generate(prog, res)
	if err != nil {
		log.Error("Code generation failed", "err", err)
		return Result{Err: fmt.Errorf("generate: %w", err)}
	}
	log.Debug("Generated assembly", "data", len(out.Data), "text", len(out.Text), "elapsed", time.Since(start))
	return Result{Status: StatusOK, Output: out}
}

// Report writes the problems in res to w: the syntax error, or the semantic
// diagnostics as the Diagnostics configuration asks. src is the program text
// used for source excerpts and may be nil.
func (p *Pipeline) Report(w io.Writer, res Result, src []byte) error {
	if res.Status == StatusSyntaxError {
		_, err := fmt.Fprintf(w, "Syntax Error: %v\n", res.Err)
		return err
	}
	f, _ := w.(*os.File)
	opts := diag.RenderOptions{Color: p.Config.Diagnostics.ColorEnabled(f)}
	if p.Config.Diagnostics.ShowSource {
		opts.Source = string(src)
	}
	return diag.Render(w, res.Diagnostics, opts)
}
