package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/louisheal/wacc/internal/token"
	"github.com/louisheal/wacc/internal/typesys"
)

// Node is the base interface for all AST nodes
// Every node must provide a TokenLiteral (for debugging) and String (for printing)
type Node interface {
	TokenLiteral() string
	String() string
	// Tok is the token that introduced the node; diagnostics use its position.
	Tok() token.Token
}

// Statement nodes don't produce values
type Statement interface {
	Node
	statementNode()
}

// Expression nodes produce values
type Expression interface {
	Node
	expressionNode()
}

// LHS is an expression that can be assigned to or read into:
// an identifier, an array element or a pair element.
type LHS interface {
	Expression
	lhsNode()
}

// Program is the root node: the user functions followed by the main body.
type Program struct {
	Functions []*Function
	Body      Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Functions) > 0 {
		return p.Functions[0].TokenLiteral()
	}
	if p.Body != nil {
		return p.Body.TokenLiteral()
	}
	return ""
}

func (p *Program) Tok() token.Token {
	if len(p.Functions) > 0 {
		return p.Functions[0].Token
	}
	if p.Body != nil {
		return p.Body.Tok()
	}
	return token.Token{}
}

// String builds the program back into source code (useful for debugging)
func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("begin ")
	for _, f := range p.Functions {
		out.WriteString(f.String())
		out.WriteString(" ")
	}
	if p.Body != nil {
		out.WriteString(p.Body.String())
	}
	out.WriteString(" end")
	return out.String()
}

// Param is one declared function parameter.
type Param struct {
	Token token.Token
	Name  string
	Type  typesys.Type
}

func (p *Param) TokenLiteral() string { return p.Token.Literal }
func (p *Param) Tok() token.Token     { return p.Token }
func (p *Param) String() string       { return p.Type.String() + " " + p.Name }

// Function is a user function: <type> <name>(<params>) is <body> end
type Function struct {
	Token      token.Token
	Name       string
	Params     []*Param
	ReturnType typesys.Type
	Body       Statement
}

func (f *Function) TokenLiteral() string { return f.Token.Literal }
func (f *Function) Tok() token.Token     { return f.Token }

func (f *Function) String() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	return f.ReturnType.String() + " " + f.Name + "(" + strings.Join(params, ", ") + ") is " + f.Body.String() + " end"
}

// ---- Expressions -----------------------------------------------------------

// IntegerLiteral represents a number like 5 or -42
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Tok() token.Token     { return il.Token }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(int64(il.Value), 10) }

// BooleanLiteral represents true or false
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Tok() token.Token     { return bl.Token }
func (bl *BooleanLiteral) String() string       { return strconv.FormatBool(bl.Value) }

// CharLiteral represents a character like 'a'
type CharLiteral struct {
	Token token.Token
	Value byte
}

func (cl *CharLiteral) expressionNode()      {}
func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CharLiteral) Tok() token.Token     { return cl.Token }
func (cl *CharLiteral) String() string       { return strconv.QuoteRuneToASCII(rune(cl.Value)) }

// StringLiteral represents a string like "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Tok() token.Token     { return sl.Token }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

// ArrayLiteral represents [expr1, expr2, ...]
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Tok() token.Token     { return al.Token }
func (al *ArrayLiteral) String() string       { return "[" + joinExprs(al.Elements) + "]" }

// NullLiteral represents the null pair.
type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) Tok() token.Token     { return nl.Token }
func (nl *NullLiteral) String() string       { return "null" }

// Identifier represents a variable name
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) lhsNode()             {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Tok() token.Token     { return i.Token }
func (i *Identifier) String() string       { return i.Value }

// ArrayElem represents name[i][j]...
type ArrayElem struct {
	Token   token.Token
	Name    *Identifier
	Indices []Expression
}

func (ae *ArrayElem) expressionNode()      {}
func (ae *ArrayElem) lhsNode()             {}
func (ae *ArrayElem) TokenLiteral() string { return ae.Token.Literal }
func (ae *ArrayElem) Tok() token.Token     { return ae.Token }

func (ae *ArrayElem) String() string {
	var out bytes.Buffer
	out.WriteString(ae.Name.String())
	for _, idx := range ae.Indices {
		out.WriteString("[")
		out.WriteString(idx.String())
		out.WriteString("]")
	}
	return out.String()
}

// PairSide selects the first or second element of a pair.
type PairSide int

const (
	Fst PairSide = iota
	Snd
)

func (s PairSide) String() string {
	if s == Fst {
		return "fst"
	}
	return "snd"
}

// PairElem represents fst expr or snd expr
type PairElem struct {
	Token token.Token
	Side  PairSide
	Value Expression
}

func (pe *PairElem) expressionNode()      {}
func (pe *PairElem) lhsNode()             {}
func (pe *PairElem) TokenLiteral() string { return pe.Token.Literal }
func (pe *PairElem) Tok() token.Token     { return pe.Token }
func (pe *PairElem) String() string       { return pe.Side.String() + " " + pe.Value.String() }

// UnaryOp is one of the five prefix operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	Len
	Ord
	Chr
)

var unaryNames = [...]string{Neg: "-", Not: "!", Len: "len", Ord: "ord", Chr: "chr"}

func (op UnaryOp) String() string { return unaryNames[op] }

// UnaryExpression represents <op> operand
type UnaryExpression struct {
	Token    token.Token
	Operator UnaryOp
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Tok() token.Token     { return ue.Token }

func (ue *UnaryExpression) String() string {
	if ue.Operator == Neg || ue.Operator == Not {
		return "(" + ue.Operator.String() + ue.Operand.String() + ")"
	}
	return "(" + ue.Operator.String() + " " + ue.Operand.String() + ")"
}

// BinaryOp is one of the infix operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Gt
	Ge
	Lt
	Le
	Eq
	Ne
	And
	Or
)

var binaryNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Gt: ">", Ge: ">=", Lt: "<", Le: "<=",
	Eq: "==", Ne: "!=",
	And: "&&", Or: "||",
}

func (op BinaryOp) String() string { return binaryNames[op] }

func (op BinaryOp) IsArithmetic() bool { return op >= Add && op <= Mod }
func (op BinaryOp) IsRelational() bool { return op >= Gt && op <= Le }
func (op BinaryOp) IsEquality() bool   { return op == Eq || op == Ne }
func (op BinaryOp) IsLogical() bool    { return op == And || op == Or }

// BinaryExpression represents left <op> right
type BinaryExpression struct {
	Token    token.Token
	Left     Expression
	Operator BinaryOp
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Tok() token.Token     { return be.Token }

func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator.String() + " " + be.Right.String() + ")"
}

// BracketedExpression represents (inner)
type BracketedExpression struct {
	Token token.Token
	Inner Expression
}

func (b *BracketedExpression) expressionNode()      {}
func (b *BracketedExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BracketedExpression) Tok() token.Token     { return b.Token }
func (b *BracketedExpression) String() string       { return "(" + b.Inner.String() + ")" }

// NewPairExpression represents newpair(fst, snd)
type NewPairExpression struct {
	Token token.Token
	Fst   Expression
	Snd   Expression
}

func (np *NewPairExpression) expressionNode()      {}
func (np *NewPairExpression) TokenLiteral() string { return np.Token.Literal }
func (np *NewPairExpression) Tok() token.Token     { return np.Token }

func (np *NewPairExpression) String() string {
	return "newpair(" + np.Fst.String() + ", " + np.Snd.String() + ")"
}

// CallExpression represents call name(args...)
type CallExpression struct {
	Token     token.Token
	Function  string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Tok() token.Token     { return ce.Token }

func (ce *CallExpression) String() string {
	return "call " + ce.Function + "(" + joinExprs(ce.Arguments) + ")"
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// ---- Statements ------------------------------------------------------------

// SkipStatement is the no-op statement.
type SkipStatement struct {
	Token token.Token
}

func (s *SkipStatement) statementNode()       {}
func (s *SkipStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SkipStatement) Tok() token.Token     { return s.Token }
func (s *SkipStatement) String() string       { return "skip" }

// DeclarationStatement represents: <type> <name> = <value>
type DeclarationStatement struct {
	Token token.Token
	Type  typesys.Type
	Name  *Identifier
	Value Expression
}

func (ds *DeclarationStatement) statementNode()       {}
func (ds *DeclarationStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DeclarationStatement) Tok() token.Token     { return ds.Token }

func (ds *DeclarationStatement) String() string {
	return ds.Type.String() + " " + ds.Name.String() + " = " + ds.Value.String()
}

// AssignStatement represents: <lhs> = <value>
type AssignStatement struct {
	Token  token.Token
	Target LHS
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Tok() token.Token     { return as.Token }
func (as *AssignStatement) String() string       { return as.Target.String() + " = " + as.Value.String() }

// ReadStatement represents: read <lhs>
type ReadStatement struct {
	Token  token.Token
	Target LHS
}

func (rs *ReadStatement) statementNode()       {}
func (rs *ReadStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReadStatement) Tok() token.Token     { return rs.Token }
func (rs *ReadStatement) String() string       { return "read " + rs.Target.String() }

// FreeStatement represents: free <expr>
type FreeStatement struct {
	Token token.Token
	Value Expression
}

func (fs *FreeStatement) statementNode()       {}
func (fs *FreeStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FreeStatement) Tok() token.Token     { return fs.Token }
func (fs *FreeStatement) String() string       { return "free " + fs.Value.String() }

// ReturnStatement represents: return <expr>
type ReturnStatement struct {
	Token       token.Token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Tok() token.Token     { return rs.Token }
func (rs *ReturnStatement) String() string       { return "return " + rs.ReturnValue.String() }

// ExitStatement represents: exit <expr>
type ExitStatement struct {
	Token token.Token
	Code  Expression
}

func (es *ExitStatement) statementNode()       {}
func (es *ExitStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExitStatement) Tok() token.Token     { return es.Token }
func (es *ExitStatement) String() string       { return "exit " + es.Code.String() }

// PrintStatement represents: print <expr>
type PrintStatement struct {
	Token token.Token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) Tok() token.Token     { return ps.Token }
func (ps *PrintStatement) String() string       { return "print " + ps.Value.String() }

// PrintlnStatement represents: println <expr>
type PrintlnStatement struct {
	Token token.Token
	Value Expression
}

func (ps *PrintlnStatement) statementNode()       {}
func (ps *PrintlnStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintlnStatement) Tok() token.Token     { return ps.Token }
func (ps *PrintlnStatement) String() string       { return "println " + ps.Value.String() }

// IfStatement represents: if <cond> then <stmt> else <stmt> fi
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Tok() token.Token     { return is.Token }

func (is *IfStatement) String() string {
	return "if " + is.Condition.String() + " then " + is.Consequence.String() + " else " + is.Alternative.String() + " fi"
}

// WhileStatement represents: while <cond> do <stmt> done
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Tok() token.Token     { return ws.Token }

func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " do " + ws.Body.String() + " done"
}

// BeginStatement represents a nested scope: begin <stmt> end
type BeginStatement struct {
	Token token.Token
	Body  Statement
}

func (bs *BeginStatement) statementNode()       {}
func (bs *BeginStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BeginStatement) Tok() token.Token     { return bs.Token }
func (bs *BeginStatement) String() string       { return "begin " + bs.Body.String() + " end" }

// ConcatStatement represents <first> ; <second>. Statement lists are
// right-leaning chains of these.
type ConcatStatement struct {
	First  Statement
	Second Statement
}

func (cs *ConcatStatement) statementNode()       {}
func (cs *ConcatStatement) TokenLiteral() string { return cs.First.TokenLiteral() }
func (cs *ConcatStatement) Tok() token.Token     { return cs.First.Tok() }
func (cs *ConcatStatement) String() string       { return cs.First.String() + "; " + cs.Second.String() }

// Last returns the final statement of a Concat chain.
func Last(s Statement) Statement {
	for {
		c, ok := s.(*ConcatStatement)
		if !ok {
			return s
		}
		s = c.Second
	}
}
