package codegen

import (
	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/ast"
)

// Frame layout, from high to low addresses:
//
//	fp+8+4i   argument i, pushed by the caller
//	fp+4      saved lr
//	fp        saved fp
//	fp-4...   locals, one word each
//	          saved value registers
//	sp        outgoing arguments while a call is being set up

// function lowers fn to a block labelled f_<name>. Parameters live in the
// outer scope and the body in a child scope, as in the checker.
func (cg *CodeGen) function(fn *ast.Function) []arm.Instruction {
	cg.enterFrame(functionLabel(fn.Name))
	for i, p := range fn.Params {
		cg.declareParam(i, p)
	}
	cg.block(fn.Body)
	return cg.leaveFrame()
}

// mainBody lowers the program body. Falling off its end exits with 0.
func (cg *CodeGen) mainBody(body ast.Statement) []arm.Instruction {
	cg.enterFrame("main")
	if body != nil {
		cg.stmt(body)
	}
	cg.emit(arm.Ldr(arm.R0, arm.Lit(0)))
	return cg.leaveFrame()
}

func functionLabel(name string) string { return "f_" + name }

// VisitCall pushes the arguments last to first so argument i ends up at
// sp+4i on entry, calls, pops them and takes the result from r0.
func (cg *CodeGen) VisitCall(e *ast.CallExpression) arm.Reg {
	if _, err := cg.sigs.Lookup(e.Function); err != nil {
		cg.fail(e, err.Error())
	}
	for i := len(e.Arguments) - 1; i >= 0; i-- {
		v := cg.expr(e.Arguments[i])
		cg.emit(arm.Str(v, arm.PreDec(arm.SP, 4)))
		cg.release()
	}
	cg.emit(arm.BranchLink(functionLabel(e.Function)))
	cg.emit(addImm(arm.SP, arm.SP, int32(4*len(e.Arguments)))...)

	r := cg.next(e)
	cg.emit(arm.Mov(r, arm.R0))
	return r
}

func (cg *CodeGen) VisitReturn(s *ast.ReturnStatement) struct{} {
	v := cg.expr(s.ReturnValue)
	cg.emit(
		arm.Mov(arm.R0, v),
		arm.Branch(cg.frame.retLabel),
	)
	cg.release()
	return struct{}{}
}
