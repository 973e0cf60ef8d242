package codegen

import (
	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/symtab"
)

// frame is the per-body state: where each visible name lives relative to
// fp, how much local space the body needs and how deep its value stack got.
type frame struct {
	label    string
	retLabel string
	slots    *symtab.Table[int32] // name -> fp offset
	locals   int32                // bytes below fp
	depth    int
	high     int
}

func (cg *CodeGen) enterFrame(label string) {
	cg.frame = &frame{
		label:    label,
		retLabel: cg.newLabel(),
		slots:    symtab.New[int32](),
	}
	cg.out = nil
}

// leaveFrame wraps the generated body in its prologue and epilogue. The body
// is complete by now, so the saved-register set is exact.
func (cg *CodeGen) leaveFrame() []arm.Instruction {
	f := cg.frame
	saved := append([]arm.Reg(nil), valueRegs[:min(f.high, len(valueRegs))]...)

	out := []arm.Instruction{
		arm.Label(f.label),
		arm.Push(arm.FP, arm.LR),
		arm.Mov(arm.FP, arm.SP),
	}
	out = append(out, addImm(arm.SP, arm.SP, -f.locals)...)
	if len(saved) > 0 {
		out = append(out, arm.Push(saved...))
	}
	out = append(out, cg.out...)
	out = append(out, arm.Label(f.retLabel))
	if len(saved) > 0 {
		out = append(out, arm.Pop(saved...))
	}
	out = append(out, arm.Mov(arm.SP, arm.FP), arm.Pop(arm.FP, arm.PC))

	cg.frame, cg.out = nil, nil
	return out
}

// block generates s in a child scope.
func (cg *CodeGen) block(s ast.Statement) {
	cg.frame.slots.EnterScope()
	defer cg.frame.slots.ExitScope()
	cg.stmt(s)
}

// declare gives a local a fresh slot. Shadowing names never share one.
func (cg *CodeGen) declare(id *ast.Identifier) int32 {
	f := cg.frame
	f.locals += 4
	off := -f.locals
	if err := f.slots.Declare(id.Value, off, id.Token); err != nil {
		cg.fail(id, err.Error())
	}
	return off
}

// declareParam binds parameter i to its slot above the saved fp and lr.
func (cg *CodeGen) declareParam(i int, p *ast.Param) {
	if err := cg.frame.slots.Declare(p.Name, int32(8+4*i), p.Token); err != nil {
		cg.fail(p, err.Error())
	}
}

func (cg *CodeGen) slot(id *ast.Identifier) int32 {
	b, err := cg.frame.slots.Lookup(id.Value)
	if err != nil {
		cg.fail(id, err.Error())
		return 0
	}
	return b.Value
}
