// Package codegen lowers a checked WACC program to ARM11 assembly.
package codegen

import (
	"fmt"

	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/semantic"
	"github.com/louisheal/wacc/internal/support"
	"github.com/louisheal/wacc/internal/symtab"
	"github.com/louisheal/wacc/internal/typesys"
)

// Options tunes the generated text. The zero value emits plain code.
type Options struct {
	// Comments precedes each statement with its source form as an
	// assembler comment.
	Comments bool
}

// CodeGen holds the state for code generation. Labels and the literal pool
// are program-wide; everything else belongs to the body being generated.
type CodeGen struct {
	opts Options

	types    map[ast.Expression]typesys.Type
	sigs     *symtab.Signatures
	pool     *support.Pool
	routines *support.Catalogue

	labelCount int
	errors     []*InvariantViolation

	frame *frame
	out   []arm.Instruction
}

// Output is a generated program, split by section.
type Output struct {
	Data []arm.Instruction // pooled literals
	Text []arm.Instruction // user functions, main, then runtime routines
}

// Instructions returns the whole program in emission order.
func (o *Output) Instructions() []arm.Instruction {
	out := make([]arm.Instruction, 0, len(o.Data)+len(o.Text)+4)
	if len(o.Data) > 0 {
		out = append(out, arm.Data())
		out = append(out, o.Data...)
	}
	out = append(out, arm.Text(), arm.Global("main"))
	out = append(out, o.Text...)
	return append(out, arm.Ltorg())
}

// String renders the program as assembler source.
func (o *Output) String() string { return arm.Render(o.Instructions()) }

// New creates a new code generator
func New(opts Options) *CodeGen {
	return &CodeGen{opts: opts}
}

// Generate lowers prog with default options.
func Generate(prog *ast.Program, res *semantic.Result) (*Output, error) {
	return New(Options{}).Generate(prog, res)
}

// Generate lowers prog, which must have been analysed into res without
// diagnostics. Any error is an *InvariantViolation.
func (cg *CodeGen) Generate(prog *ast.Program, res *semantic.Result) (*Output, error) {
	if prog == nil || res == nil {
		return nil, &InvariantViolation{Reason: "no checked program to generate"}
	}
	if !res.OK() {
		return nil, &InvariantViolation{Reason: fmt.Sprintf("program has %d diagnostics", len(res.Diagnostics))}
	}
	cg.reset(res)

	var text []arm.Instruction
	for _, fn := range prog.Functions {
		text = append(text, cg.function(fn)...)
	}
	text = append(text, cg.mainBody(prog.Body)...)
	text = append(text, cg.routines.Instructions(cg.pool)...)

	if len(cg.errors) > 0 {
		return nil, cg.errors[0]
	}
	return &Output{Data: cg.pool.Instructions(), Text: text}, nil
}

func (cg *CodeGen) reset(res *semantic.Result) {
	cg.types = res.Types
	cg.sigs = res.Signatures
	cg.pool = support.NewPool()
	cg.routines = support.NewCatalogue()
	cg.labelCount = 0
	cg.errors = nil
	cg.frame = nil
	cg.out = nil
}

// emit appends instructions to the current body
func (cg *CodeGen) emit(instrs ...arm.Instruction) {
	cg.out = append(cg.out, instrs...)
}

func (cg *CodeGen) newLabel() string {
	label := fmt.Sprintf("L%d", cg.labelCount)
	cg.labelCount++
	return label
}

// valueRegs is the expression value stack, bottom first.
var valueRegs = [...]arm.Reg{arm.R4, arm.R5, arm.R6, arm.R7, arm.R8, arm.R9, arm.R10}

// next pushes a value register for node's result.
func (cg *CodeGen) next(node ast.Node) arm.Reg {
	f := cg.frame
	if f.depth >= len(valueRegs) {
		cg.fail(node, "expression needs more than 7 value registers")
		f.depth++
		return valueRegs[len(valueRegs)-1]
	}
	r := valueRegs[f.depth]
	f.depth++
	if f.depth > f.high {
		f.high = f.depth
	}
	return r
}

// release pops the top value register.
func (cg *CodeGen) release() {
	cg.frame.depth--
}

// call branches to a runtime routine, requisitioning it.
func (cg *CodeGen) call(r support.Routine) arm.Instruction {
	return arm.BranchLink(cg.routines.Require(r))
}
