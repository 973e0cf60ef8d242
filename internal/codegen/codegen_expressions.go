package codegen

import (
	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/typesys"
)

// expr evaluates e into a freshly pushed value register.
func (cg *CodeGen) expr(e ast.Expression) arm.Reg {
	return ast.WalkExpr[arm.Reg](cg, e)
}

func (cg *CodeGen) VisitIntegerLiteral(e *ast.IntegerLiteral) arm.Reg {
	r := cg.next(e)
	cg.emit(arm.Ldr(r, arm.Lit(e.Value)))
	return r
}

func (cg *CodeGen) VisitBooleanLiteral(e *ast.BooleanLiteral) arm.Reg {
	r := cg.next(e)
	v := arm.Imm(0)
	if e.Value {
		v = 1
	}
	cg.emit(arm.Mov(r, v))
	return r
}

func (cg *CodeGen) VisitCharLiteral(e *ast.CharLiteral) arm.Reg {
	r := cg.next(e)
	cg.emit(arm.Mov(r, arm.Imm(int32(e.Value))))
	return r
}

// VisitStringLiteral loads the address of the pooled copy: a length word
// followed by the bytes.
func (cg *CodeGen) VisitStringLiteral(e *ast.StringLiteral) arm.Reg {
	r := cg.next(e)
	cg.emit(arm.Ldr(r, arm.LitLabel(cg.pool.Intern(e.Value))))
	return r
}

func (cg *CodeGen) VisitNullLiteral(e *ast.NullLiteral) arm.Reg {
	r := cg.next(e)
	cg.emit(arm.Mov(r, arm.Imm(0)))
	return r
}

// VisitArrayLiteral allocates 4+n*size bytes, stores the length word and
// then each element.
func (cg *CodeGen) VisitArrayLiteral(e *ast.ArrayLiteral) arm.Reg {
	size := cg.elemSize(e)
	n := len(e.Elements)
	cg.emit(
		arm.Ldr(arm.R0, arm.Lit(int32(4+n*size))),
		arm.BranchLink("malloc"),
	)
	arr := cg.next(e)
	cg.emit(arm.Mov(arr, arm.R0))
	for i, el := range e.Elements {
		v := cg.expr(el)
		cg.store(size, v, arr, int32(4+i*size))
		cg.release()
	}
	length := cg.next(e)
	cg.emit(
		arm.Ldr(length, arm.Lit(int32(n))),
		arm.Str(length, arm.Deref(arr)),
	)
	cg.release()
	return arr
}

func (cg *CodeGen) VisitIdentifier(e *ast.Identifier) arm.Reg {
	r := cg.next(e)
	cg.load(cg.sizeOf(e), r, arm.FP, cg.slot(e))
	return r
}

func (cg *CodeGen) VisitArrayElem(e *ast.ArrayElem) arm.Reg {
	addr := cg.elemAddr(e)
	cg.load(cg.sizeOf(e), addr, addr, 0)
	return addr
}

// elemAddr leaves the address of name[i][j]... in a register, checking
// every index against its array's bounds on the way down.
func (cg *CodeGen) elemAddr(e *ast.ArrayElem) arm.Reg {
	arr := cg.expr(e.Name)
	t := cg.typeOf(e.Name)
	for k, idx := range e.Indices {
		i := cg.expr(idx)
		cg.checkBounds(i, arr)

		elem, ok := typesys.Elem(t, k+1)
		if !ok {
			cg.failf(e, "%s cannot be indexed %d times", t, k+1)
			elem = typesys.Int
		}
		cg.emit(arm.Add(arr, arr, arm.Imm(4)))
		if elem.Size() == 4 {
			cg.emit(arm.Add(arr, arr, arm.Shifted{Reg: i, Shift: arm.LSL, Amount: 2}))
		} else {
			cg.emit(arm.Add(arr, arr, i))
		}
		cg.release()

		if k < len(e.Indices)-1 {
			cg.emit(arm.Ldr(arr, arm.Deref(arr)))
		}
	}
	return arr
}

func (cg *CodeGen) VisitPairElem(e *ast.PairElem) arm.Reg {
	addr := cg.pairAddr(e)
	cg.load(cg.sizeOf(e), addr, addr, 0)
	return addr
}

// pairAddr leaves the address of the element's box in a register.
func (cg *CodeGen) pairAddr(e *ast.PairElem) arm.Reg {
	p := cg.expr(e.Value)
	cg.checkNull(p)
	off := int32(0)
	if e.Side == ast.Snd {
		off = 4
	}
	cg.emit(arm.Ldr(p, arm.At(p, off)))
	return p
}

func (cg *CodeGen) VisitUnary(e *ast.UnaryExpression) arm.Reg {
	r := cg.expr(e.Operand)
	switch e.Operator {
	case ast.Neg:
		cg.emit(arm.Rsb(r, r, arm.Imm(0)).S())
		cg.checkOverflow(arm.VS)
	case ast.Not:
		cg.emit(arm.Eor(r, r, arm.Imm(1)))
	case ast.Len:
		cg.emit(arm.Ldr(r, arm.Deref(r)))
	case ast.Ord, ast.Chr:
		// chars are held as small ints already
	}
	return r
}

var compareConds = map[ast.BinaryOp]arm.Cond{
	ast.Gt: arm.GT,
	ast.Ge: arm.GE,
	ast.Lt: arm.LT,
	ast.Le: arm.LE,
	ast.Eq: arm.EQ,
	ast.Ne: arm.NE,
}

func (cg *CodeGen) VisitBinary(e *ast.BinaryExpression) arm.Reg {
	if e.Operator.IsLogical() {
		return cg.shortCircuit(e)
	}
	l := cg.expr(e.Left)
	r := cg.expr(e.Right)

	switch e.Operator {
	case ast.Add:
		cg.emit(arm.Add(l, l, r).S())
		cg.checkOverflow(arm.VS)
	case ast.Sub:
		cg.emit(arm.Sub(l, l, r).S())
		cg.checkOverflow(arm.VS)
	case ast.Mul:
		// the high word must be the sign extension of the low word
		cg.emit(
			arm.Smull(l, r, l, r),
			arm.Cmp(r, arm.Shifted{Reg: l, Shift: arm.ASR, Amount: 31}),
		)
		cg.checkOverflow(arm.NE)
	case ast.Div, ast.Mod:
		cg.checkDivisor(l, r)
		if e.Operator == ast.Div {
			cg.emit(arm.BranchLink("__aeabi_idiv"), arm.Mov(l, arm.R0))
		} else {
			cg.emit(arm.BranchLink("__aeabi_idivmod"), arm.Mov(l, arm.R1))
		}
	default:
		cond, ok := compareConds[e.Operator]
		if !ok {
			cg.failf(e, "no lowering for operator %s", e.Operator)
			break
		}
		cg.emit(
			arm.Cmp(l, r),
			arm.Mov(l, arm.Imm(1)).If(cond),
			arm.Mov(l, arm.Imm(0)).If(cond.Invert()),
		)
	}
	cg.release()
	return l
}

// shortCircuit skips the right operand when the left one decides the
// result: false for &&, true for ||.
func (cg *CodeGen) shortCircuit(e *ast.BinaryExpression) arm.Reg {
	end := cg.newLabel()
	l := cg.expr(e.Left)
	decided := arm.EQ
	if e.Operator == ast.Or {
		decided = arm.NE
	}
	cg.emit(arm.Cmp(l, arm.Imm(0)), arm.Branch(end).If(decided))
	cg.release()

	if r := cg.expr(e.Right); r != l {
		cg.fail(e, "short-circuit operands landed in different registers")
	}
	cg.emit(arm.Label(end))
	return l
}

func (cg *CodeGen) VisitBracketed(e *ast.BracketedExpression) arm.Reg {
	return cg.expr(e.Inner)
}

// VisitNewPair allocates the 8-byte pair cell and one box per element.
func (cg *CodeGen) VisitNewPair(e *ast.NewPairExpression) arm.Reg {
	cg.emit(
		arm.Ldr(arm.R0, arm.Lit(8)),
		arm.BranchLink("malloc"),
	)
	p := cg.next(e)
	cg.emit(arm.Mov(p, arm.R0))
	for i, el := range []ast.Expression{e.Fst, e.Snd} {
		v := cg.expr(el)
		size := cg.sizeOf(el)
		cg.emit(
			arm.Ldr(arm.R0, arm.Lit(int32(size))),
			arm.BranchLink("malloc"),
		)
		cg.store(size, v, arm.R0, 0)
		cg.emit(arm.Str(arm.R0, arm.At(p, int32(4*i))))
		cg.release()
	}
	return p
}
