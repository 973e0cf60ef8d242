package codegen

import (
	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/support"
	"github.com/louisheal/wacc/internal/typesys"
)

var (
	_ ast.StmtVisitor[struct{}] = (*CodeGen)(nil)
	_ ast.ExprVisitor[arm.Reg]  = (*CodeGen)(nil)
)

const commentWidth = 60

func (cg *CodeGen) stmt(s ast.Statement) {
	if _, seq := s.(*ast.ConcatStatement); cg.opts.Comments && !seq {
		text := s.String()
		if len(text) > commentWidth {
			text = text[:commentWidth] + "..."
		}
		cg.emit(arm.Comment(text))
	}
	ast.WalkStmt[struct{}](cg, s)
}

func (cg *CodeGen) VisitSkip(*ast.SkipStatement) struct{} { return struct{}{} }

// VisitDeclaration evaluates the initialiser before binding the name, so
// int x = x reads any outer x.
func (cg *CodeGen) VisitDeclaration(s *ast.DeclarationStatement) struct{} {
	v := cg.expr(s.Value)
	off := cg.declare(s.Name)
	cg.store(s.Type.Size(), v, arm.FP, off)
	cg.release()
	return struct{}{}
}

func (cg *CodeGen) VisitAssign(s *ast.AssignStatement) struct{} {
	v := cg.expr(s.Value)
	size := cg.sizeOf(s.Target)
	switch t := s.Target.(type) {
	case *ast.Identifier:
		cg.store(size, v, arm.FP, cg.slot(t))
	case *ast.ArrayElem:
		addr := cg.elemAddr(t)
		cg.store(size, v, addr, 0)
		cg.release()
	case *ast.PairElem:
		addr := cg.pairAddr(t)
		cg.store(size, v, addr, 0)
		cg.release()
	default:
		cg.failf(s, "cannot assign to %T", s.Target)
	}
	cg.release()
	return struct{}{}
}

// VisitRead hands scanf the target's address.
func (cg *CodeGen) VisitRead(s *ast.ReadStatement) struct{} {
	var addr arm.Reg
	switch t := s.Target.(type) {
	case *ast.Identifier:
		addr = cg.next(t)
		cg.emit(addImm(addr, arm.FP, cg.slot(t))...)
	case *ast.ArrayElem:
		addr = cg.elemAddr(t)
	case *ast.PairElem:
		addr = cg.pairAddr(t)
	default:
		cg.failf(s, "cannot read into %T", s.Target)
		return struct{}{}
	}
	routine := support.ReadInt
	if cg.typeOf(s.Target).Equals(typesys.Char) {
		routine = support.ReadChar
	}
	cg.emit(arm.Mov(arm.R0, addr), cg.call(routine))
	cg.release()
	return struct{}{}
}

// VisitFree releases a pair with both its element boxes, or an array.
func (cg *CodeGen) VisitFree(s *ast.FreeStatement) struct{} {
	v := cg.expr(s.Value)
	cg.emit(arm.Mov(arm.R0, v))
	if cg.typeOf(s.Value).Kind() == typesys.KindPair {
		cg.emit(cg.call(support.FreePair))
	} else {
		cg.emit(cg.call(support.CheckNullPointer), arm.BranchLink("free"))
	}
	cg.release()
	return struct{}{}
}

func (cg *CodeGen) VisitExit(s *ast.ExitStatement) struct{} {
	v := cg.expr(s.Code)
	cg.emit(arm.Mov(arm.R0, v), arm.BranchLink("exit"))
	cg.release()
	return struct{}{}
}

func (cg *CodeGen) VisitPrint(s *ast.PrintStatement) struct{} {
	cg.print(s.Value)
	return struct{}{}
}

func (cg *CodeGen) VisitPrintln(s *ast.PrintlnStatement) struct{} {
	cg.print(s.Value)
	cg.emit(cg.call(support.PrintLn))
	return struct{}{}
}

// print picks the output routine by type. A char array shares the string
// layout, so it prints as text.
func (cg *CodeGen) print(e ast.Expression) {
	v := cg.expr(e)
	cg.emit(arm.Mov(arm.R0, v))
	switch t := cg.typeOf(e); t.Kind() {
	case typesys.KindChar:
		cg.emit(arm.BranchLink("putchar"))
	case typesys.KindInt:
		cg.emit(cg.call(support.PrintInt))
	case typesys.KindBool:
		cg.emit(cg.call(support.PrintBool))
	case typesys.KindString:
		cg.emit(cg.call(support.PrintString))
	default:
		if elem, ok := typesys.Elem(t, 1); ok && elem.Equals(typesys.Char) {
			cg.emit(cg.call(support.PrintString))
		} else if typesys.IsHeap(t) {
			cg.emit(cg.call(support.PrintReference))
		} else {
			cg.failf(e, "cannot print %s", t)
		}
	}
	cg.release()
}

func (cg *CodeGen) VisitIf(s *ast.IfStatement) struct{} {
	elseLabel, endLabel := cg.newLabel(), cg.newLabel()
	c := cg.expr(s.Condition)
	cg.emit(arm.Cmp(c, arm.Imm(0)), arm.Branch(elseLabel).If(arm.EQ))
	cg.release()

	cg.block(s.Consequence)
	cg.emit(arm.Branch(endLabel), arm.Label(elseLabel))
	cg.block(s.Alternative)
	cg.emit(arm.Label(endLabel))
	return struct{}{}
}

// VisitWhile puts the condition after the body so each iteration takes a
// single conditional branch.
func (cg *CodeGen) VisitWhile(s *ast.WhileStatement) struct{} {
	checkLabel, bodyLabel := cg.newLabel(), cg.newLabel()
	cg.emit(arm.Branch(checkLabel), arm.Label(bodyLabel))
	cg.block(s.Body)
	cg.emit(arm.Label(checkLabel))
	c := cg.expr(s.Condition)
	cg.emit(arm.Cmp(c, arm.Imm(1)), arm.Branch(bodyLabel).If(arm.EQ))
	cg.release()
	return struct{}{}
}

func (cg *CodeGen) VisitBegin(s *ast.BeginStatement) struct{} {
	cg.block(s.Body)
	return struct{}{}
}

func (cg *CodeGen) VisitConcat(s *ast.ConcatStatement) struct{} {
	cg.stmt(s.First)
	cg.stmt(s.Second)
	return struct{}{}
}
