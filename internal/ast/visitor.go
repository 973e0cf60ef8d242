package ast

import "fmt"

// StmtVisitor has one method per statement variant. The checker and the
// code generator both implement it, so a new variant does not compile until
// both handle it.
type StmtVisitor[T any] interface {
	VisitSkip(*SkipStatement) T
	VisitDeclaration(*DeclarationStatement) T
	VisitAssign(*AssignStatement) T
	VisitRead(*ReadStatement) T
	VisitFree(*FreeStatement) T
	VisitReturn(*ReturnStatement) T
	VisitExit(*ExitStatement) T
	VisitPrint(*PrintStatement) T
	VisitPrintln(*PrintlnStatement) T
	VisitIf(*IfStatement) T
	VisitWhile(*WhileStatement) T
	VisitBegin(*BeginStatement) T
	VisitConcat(*ConcatStatement) T
}

// ExprVisitor has one method per expression variant.
type ExprVisitor[T any] interface {
	VisitIntegerLiteral(*IntegerLiteral) T
	VisitBooleanLiteral(*BooleanLiteral) T
	VisitCharLiteral(*CharLiteral) T
	VisitStringLiteral(*StringLiteral) T
	VisitArrayLiteral(*ArrayLiteral) T
	VisitNullLiteral(*NullLiteral) T
	VisitIdentifier(*Identifier) T
	VisitArrayElem(*ArrayElem) T
	VisitPairElem(*PairElem) T
	VisitUnary(*UnaryExpression) T
	VisitBinary(*BinaryExpression) T
	VisitBracketed(*BracketedExpression) T
	VisitNewPair(*NewPairExpression) T
	VisitCall(*CallExpression) T
}

// WalkStmt dispatches s to the matching visitor method.
func WalkStmt[T any](v StmtVisitor[T], s Statement) T {
	switch s := s.(type) {
	case *SkipStatement:
		return v.VisitSkip(s)
	case *DeclarationStatement:
		return v.VisitDeclaration(s)
	case *AssignStatement:
		return v.VisitAssign(s)
	case *ReadStatement:
		return v.VisitRead(s)
	case *FreeStatement:
		return v.VisitFree(s)
	case *ReturnStatement:
		return v.VisitReturn(s)
	case *ExitStatement:
		return v.VisitExit(s)
	case *PrintStatement:
		return v.VisitPrint(s)
	case *PrintlnStatement:
		return v.VisitPrintln(s)
	case *IfStatement:
		return v.VisitIf(s)
	case *WhileStatement:
		return v.VisitWhile(s)
	case *BeginStatement:
		return v.VisitBegin(s)
	case *ConcatStatement:
		return v.VisitConcat(s)
	}
	// statementNode is unexported, so no other package can add a variant.
	panic(fmt.Sprintf("ast: unhandled statement %T", s))
}

// WalkExpr dispatches e to the matching visitor method.
func WalkExpr[T any](v ExprVisitor[T], e Expression) T {
	switch e := e.(type) {
	case *IntegerLiteral:
		return v.VisitIntegerLiteral(e)
	case *BooleanLiteral:
		return v.VisitBooleanLiteral(e)
	case *CharLiteral:
		return v.VisitCharLiteral(e)
	case *StringLiteral:
		return v.VisitStringLiteral(e)
	case *ArrayLiteral:
		return v.VisitArrayLiteral(e)
	case *NullLiteral:
		return v.VisitNullLiteral(e)
	case *Identifier:
		return v.VisitIdentifier(e)
	case *ArrayElem:
		return v.VisitArrayElem(e)
	case *PairElem:
		return v.VisitPairElem(e)
	case *UnaryExpression:
		return v.VisitUnary(e)
	case *BinaryExpression:
		return v.VisitBinary(e)
	case *BracketedExpression:
		return v.VisitBracketed(e)
	case *NewPairExpression:
		return v.VisitNewPair(e)
	case *CallExpression:
		return v.VisitCall(e)
	}
	panic(fmt.Sprintf("ast: unhandled expression %T", e))
}

// Inspect calls fn for every statement and expression reachable from n in
// pre-order. Returning false from fn skips the node's children.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, f := range n.Functions {
			Inspect(f, fn)
		}
		Inspect(n.Body, fn)
	case *Function:
		Inspect(n.Body, fn)
	case *DeclarationStatement:
		Inspect(n.Name, fn)
		Inspect(n.Value, fn)
	case *AssignStatement:
		Inspect(n.Target, fn)
		Inspect(n.Value, fn)
	case *ReadStatement:
		Inspect(n.Target, fn)
	case *FreeStatement:
		Inspect(n.Value, fn)
	case *ReturnStatement:
		Inspect(n.ReturnValue, fn)
	case *ExitStatement:
		Inspect(n.Code, fn)
	case *PrintStatement:
		Inspect(n.Value, fn)
	case *PrintlnStatement:
		Inspect(n.Value, fn)
	case *IfStatement:
		Inspect(n.Condition, fn)
		Inspect(n.Consequence, fn)
		Inspect(n.Alternative, fn)
	case *WhileStatement:
		Inspect(n.Condition, fn)
		Inspect(n.Body, fn)
	case *BeginStatement:
		Inspect(n.Body, fn)
	case *ConcatStatement:
		Inspect(n.First, fn)
		Inspect(n.Second, fn)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			Inspect(e, fn)
		}
	case *ArrayElem:
		Inspect(n.Name, fn)
		for _, e := range n.Indices {
			Inspect(e, fn)
		}
	case *PairElem:
		Inspect(n.Value, fn)
	case *UnaryExpression:
		Inspect(n.Operand, fn)
	case *BinaryExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *BracketedExpression:
		Inspect(n.Inner, fn)
	case *NewPairExpression:
		Inspect(n.Fst, fn)
		Inspect(n.Snd, fn)
	case *CallExpression:
		for _, e := range n.Arguments {
			Inspect(e, fn)
		}
	}
}
