package ast

import (
	"strconv"

	"github.com/louisheal/wacc/internal/token"
	"github.com/louisheal/wacc/internal/typesys"
)

// Constructors for building trees by hand. Positions are left at zero; use
// At to stamp one on a node that diagnostics will point at.

func tok(tt token.TokenType, lit string) token.Token { return token.Token{Type: tt, Literal: lit} }

func Int(v int32) *IntegerLiteral {
	return &IntegerLiteral{Token: tok(token.INT, strconv.FormatInt(int64(v), 10)), Value: v}
}

func Bool(v bool) *BooleanLiteral {
	if v {
		return &BooleanLiteral{Token: tok(token.TRUE, "true"), Value: true}
	}
	return &BooleanLiteral{Token: tok(token.FALSE, "false"), Value: false}
}

func Char(c byte) *CharLiteral {
	return &CharLiteral{Token: tok(token.CHAR, string(c)), Value: c}
}

func Str(s string) *StringLiteral {
	return &StringLiteral{Token: tok(token.STRING, s), Value: s}
}

func Null() *NullLiteral { return &NullLiteral{Token: tok(token.NULL, "null")} }

func ArrayLit(elems ...Expression) *ArrayLiteral {
	return &ArrayLiteral{Token: tok(token.LBRACKET, "["), Elements: elems}
}

func Ident(name string) *Identifier {
	return &Identifier{Token: tok(token.IDENT, name), Value: name}
}

func Index(name string, indices ...Expression) *ArrayElem {
	return &ArrayElem{Token: tok(token.IDENT, name), Name: Ident(name), Indices: indices}
}

func First(e Expression) *PairElem {
	return &PairElem{Token: tok(token.FST, "fst"), Side: Fst, Value: e}
}

func Second(e Expression) *PairElem {
	return &PairElem{Token: tok(token.SND, "snd"), Side: Snd, Value: e}
}

func Unary(op UnaryOp, e Expression) *UnaryExpression {
	return &UnaryExpression{Token: tok(token.TokenType(op.String()), op.String()), Operator: op, Operand: e}
}

func Binary(op BinaryOp, l, r Expression) *BinaryExpression {
	return &BinaryExpression{Token: tok(token.TokenType(op.String()), op.String()), Left: l, Operator: op, Right: r}
}

func Paren(e Expression) *BracketedExpression {
	return &BracketedExpression{Token: tok(token.LPAREN, "("), Inner: e}
}

func NewPair(fst, snd Expression) *NewPairExpression {
	return &NewPairExpression{Token: tok(token.NEWPAIR, "newpair"), Fst: fst, Snd: snd}
}

func Call(name string, args ...Expression) *CallExpression {
	return &CallExpression{Token: tok(token.CALL, "call"), Function: name, Arguments: args}
}

func Skip() *SkipStatement { return &SkipStatement{Token: tok(token.SKIP, "skip")} }

func Decl(t typesys.Type, name string, value Expression) *DeclarationStatement {
	return &DeclarationStatement{Token: tok(token.IDENT, t.String()), Type: t, Name: Ident(name), Value: value}
}

func Assign(target LHS, value Expression) *AssignStatement {
	return &AssignStatement{Token: tok(token.ASSIGN, "="), Target: target, Value: value}
}

func Read(target LHS) *ReadStatement {
	return &ReadStatement{Token: tok(token.READ, "read"), Target: target}
}

func Free(e Expression) *FreeStatement {
	return &FreeStatement{Token: tok(token.FREE, "free"), Value: e}
}

func Return(e Expression) *ReturnStatement {
	return &ReturnStatement{Token: tok(token.RETURN, "return"), ReturnValue: e}
}

func Exit(e Expression) *ExitStatement {
	return &ExitStatement{Token: tok(token.EXIT, "exit"), Code: e}
}

func Print(e Expression) *PrintStatement {
	return &PrintStatement{Token: tok(token.PRINT, "print"), Value: e}
}

func Println(e Expression) *PrintlnStatement {
	return &PrintlnStatement{Token: tok(token.PRINTLN, "println"), Value: e}
}

func If(cond Expression, then, els Statement) *IfStatement {
	return &IfStatement{Token: tok(token.IF, "if"), Condition: cond, Consequence: then, Alternative: els}
}

func While(cond Expression, body Statement) *WhileStatement {
	return &WhileStatement{Token: tok(token.WHILE, "while"), Condition: cond, Body: body}
}

func Begin(body Statement) *BeginStatement {
	return &BeginStatement{Token: tok(token.BEGIN, "begin"), Body: body}
}

// Seq chains statements into a right-leaning Concat list.
func Seq(stmts ...Statement) Statement {
	switch len(stmts) {
	case 0:
		return Skip()
	case 1:
		return stmts[0]
	}
	return &ConcatStatement{First: stmts[0], Second: Seq(stmts[1:]...)}
}

func NewParam(t typesys.Type, name string) *Param {
	return &Param{Token: tok(token.IDENT, name), Name: name, Type: t}
}

func Func(ret typesys.Type, name string, params []*Param, body Statement) *Function {
	return &Function{Token: tok(token.IDENT, name), Name: name, Params: params, ReturnType: ret, Body: body}
}

func Prog(body Statement, funcs ...*Function) *Program {
	return &Program{Functions: funcs, Body: body}
}

// At sets the source position of n's token and returns n.
func At[N Node](n N, line, col int) N {
	switch v := any(n).(type) {
	case *IntegerLiteral:
		v.Token.Line, v.Token.Column = line, col
	case *BooleanLiteral:
		v.Token.Line, v.Token.Column = line, col
	case *CharLiteral:
		v.Token.Line, v.Token.Column = line, col
	case *StringLiteral:
		v.Token.Line, v.Token.Column = line, col
	case *ArrayLiteral:
		v.Token.Line, v.Token.Column = line, col
	case *NullLiteral:
		v.Token.Line, v.Token.Column = line, col
	case *Identifier:
		v.Token.Line, v.Token.Column = line, col
	case *ArrayElem:
		v.Token.Line, v.Token.Column = line, col
	case *PairElem:
		v.Token.Line, v.Token.Column = line, col
	case *UnaryExpression:
		v.Token.Line, v.Token.Column = line, col
	case *BinaryExpression:
		v.Token.Line, v.Token.Column = line, col
	case *BracketedExpression:
		v.Token.Line, v.Token.Column = line, col
	case *NewPairExpression:
		v.Token.Line, v.Token.Column = line, col
	case *CallExpression:
		v.Token.Line, v.Token.Column = line, col
	case *SkipStatement:
		v.Token.Line, v.Token.Column = line, col
	case *DeclarationStatement:
		v.Token.Line, v.Token.Column = line, col
	case *AssignStatement:
		v.Token.Line, v.Token.Column = line, col
	case *ReadStatement:
		v.Token.Line, v.Token.Column = line, col
	case *FreeStatement:
		v.Token.Line, v.Token.Column = line, col
	case *ReturnStatement:
		v.Token.Line, v.Token.Column = line, col
	case *ExitStatement:
		v.Token.Line, v.Token.Column = line, col
	case *PrintStatement:
		v.Token.Line, v.Token.Column = line, col
	case *PrintlnStatement:
		v.Token.Line, v.Token.Column = line, col
	case *IfStatement:
		v.Token.Line, v.Token.Column = line, col
	case *WhileStatement:
		v.Token.Line, v.Token.Column = line, col
	case *BeginStatement:
		v.Token.Line, v.Token.Column = line, col
	case *Function:
		v.Token.Line, v.Token.Column = line, col
	}
	return n
}
