package semantic

import (
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/diag"
	"github.com/louisheal/wacc/internal/typesys"
)

// expr infers and records the type of e.
func (c *checker) expr(e ast.Expression) typesys.Type {
	t := ast.WalkExpr[typesys.Type](c, e)
	c.types[e] = t
	return t
}

func (c *checker) VisitIntegerLiteral(*ast.IntegerLiteral) typesys.Type { return typesys.Int }
func (c *checker) VisitBooleanLiteral(*ast.BooleanLiteral) typesys.Type { return typesys.Bool }
func (c *checker) VisitCharLiteral(*ast.CharLiteral) typesys.Type       { return typesys.Char }
func (c *checker) VisitStringLiteral(*ast.StringLiteral) typesys.Type   { return typesys.String }
func (c *checker) VisitNullLiteral(*ast.NullLiteral) typesys.Type       { return typesys.ErasedPair }

// VisitArrayLiteral types [e0, e1, ...] from its first element whose type
// is fully known, so an empty literal in any position takes its siblings'
// type. A literal with no such element stays partly unclassified until a
// declaration or call gives it a type, or settle picks a default.
func (c *checker) VisitArrayLiteral(e *ast.ArrayLiteral) typesys.Type {
	if len(e.Elements) == 0 {
		return typesys.Array(typesys.Unknown)
	}
	types := make([]typesys.Type, len(e.Elements))
	for i, el := range e.Elements {
		types[i] = c.expr(el)
	}
	elem := typesys.Error
	for _, t := range types {
		if typesys.IsValid(t) {
			elem = t
			break
		}
		if typesys.IsError(elem) {
			elem = t
		}
	}
	if typesys.IsError(elem) {
		return typesys.Error
	}
	for i, el := range e.Elements {
		c.expect(el, elem, el, types[i])
	}
	return typesys.Array(elem)
}

func (c *checker) VisitIdentifier(e *ast.Identifier) typesys.Type {
	b, err := c.scope.Lookup(e.Value)
	if err != nil {
		c.report(diag.UndefinedVariable(e, e.Value))
		return typesys.Error
	}
	return b.Value
}

func (c *checker) VisitArrayElem(e *ast.ArrayElem) typesys.Type {
	arr := c.expr(e.Name)
	for _, idx := range e.Indices {
		c.expect(idx, typesys.Int, idx, c.expr(idx))
	}
	if typesys.IsError(arr) {
		return typesys.Error
	}
	elem, ok := typesys.Elem(arr, len(e.Indices))
	if !ok {
		c.report(diag.IncompatibleKind(e, arr, typesys.KindArray))
		return typesys.Error
	}
	return elem
}

func (c *checker) VisitPairElem(e *ast.PairElem) typesys.Type {
	t := c.expr(e.Value)
	if typesys.IsError(t) {
		return typesys.Error
	}
	p, ok := t.(*typesys.PairType)
	if !ok {
		c.report(diag.IncompatibleKind(e, t, typesys.KindPair))
		return typesys.Error
	}
	if p.IsErased() {
		c.report(diag.UntypedPair(e, t))
		return typesys.Error
	}
	if e.Side == ast.Fst {
		return erase(p.Fst)
	}
	return erase(p.Snd)
}

// erase turns a pair nested inside a pair into the erased pair, matching how
// nested pair types are written.
func erase(t typesys.Type) typesys.Type {
	if t.Kind() == typesys.KindPair {
		return typesys.ErasedPair
	}
	return t
}

func (c *checker) VisitUnary(e *ast.UnaryExpression) typesys.Type {
	t := c.expr(e.Operand)
	switch e.Operator {
	case ast.Neg:
		c.expect(e.Operand, typesys.Int, e.Operand, t)
		return typesys.Int
	case ast.Not:
		c.expect(e.Operand, typesys.Bool, e.Operand, t)
		return typesys.Bool
	case ast.Len:
		if !typesys.IsError(t) && t.Kind() != typesys.KindArray {
			c.report(diag.IncompatibleKind(e.Operand, t, typesys.KindArray))
		}
		return typesys.Int
	case ast.Ord:
		c.expect(e.Operand, typesys.Char, e.Operand, t)
		return typesys.Int
	case ast.Chr:
		c.expect(e.Operand, typesys.Int, e.Operand, t)
		return typesys.Char
	}
	return typesys.Unknown
}

func (c *checker) VisitBinary(e *ast.BinaryExpression) typesys.Type {
	lt := c.expr(e.Left)
	rt := c.expr(e.Right)
	op := e.Operator
	switch {
	case op.IsArithmetic():
		c.expect(e.Left, typesys.Int, e.Left, lt)
		c.expect(e.Right, typesys.Int, e.Right, rt)
		return typesys.Int
	case op.IsRelational():
		if typesys.IsError(lt) {
			return typesys.Bool
		}
		if !typesys.IsComparable(lt) {
			c.report(diag.IncompatibleOneOf(e.Left, []typesys.Type{typesys.Int, typesys.Char}, lt))
			return typesys.Bool
		}
		c.expect(e.Right, lt, e.Right, rt)
		return typesys.Bool
	case op.IsEquality():
		if typesys.IsError(lt) {
			return typesys.Bool
		}
		// Check the side still holding an empty literal against the other.
		if !typesys.IsValid(lt) && typesys.IsValid(rt) {
			c.expect(e.Left, rt, e.Left, lt)
		} else {
			c.expect(e.Right, lt, e.Right, rt)
		}
		return typesys.Bool
	case op.IsLogical():
		c.expect(e.Left, typesys.Bool, e.Left, lt)
		c.expect(e.Right, typesys.Bool, e.Right, rt)
		return typesys.Bool
	}
	return typesys.Unknown
}

func (c *checker) VisitBracketed(e *ast.BracketedExpression) typesys.Type {
	return c.expr(e.Inner)
}

func (c *checker) VisitNewPair(e *ast.NewPairExpression) typesys.Type {
	fst := c.expr(e.Fst)
	snd := c.expr(e.Snd)
	if typesys.IsError(fst) || typesys.IsError(snd) {
		return typesys.Error
	}
	return typesys.Pair(fst, snd)
}

func (c *checker) VisitCall(e *ast.CallExpression) typesys.Type {
	args := make([]typesys.Type, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		args = append(args, c.expr(a))
	}
	sig, err := c.sigs.Lookup(e.Function)
	if err != nil {
		c.report(diag.UndefinedFunction(e, e.Function))
		return typesys.Error
	}
	if len(args) != len(sig.Params) {
		c.report(diag.Arity(e, e.Function, len(sig.Params), len(args)))
		return sig.Return
	}
	for i, a := range e.Arguments {
		c.expect(a, sig.Params[i], a, args[i])
	}
	return sig.Return
}
