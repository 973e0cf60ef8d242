package semantic

import (
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/diag"
	"github.com/louisheal/wacc/internal/symtab"
	"github.com/louisheal/wacc/internal/typesys"
)

// checker checks one body. It owns its scope table and diagnostics, so
// bodies can be checked concurrently; sigs is shared and read-only.
type checker struct {
	sigs  *symtab.Signatures
	scope *symtab.Table[typesys.Type]
	fn    *ast.Function // nil in the main body
	diags diag.List
	types map[ast.Expression]typesys.Type
}

var (
	_ ast.StmtVisitor[struct{}]     = (*checker)(nil)
	_ ast.ExprVisitor[typesys.Type] = (*checker)(nil)
)

func newChecker(sigs *symtab.Signatures, fn *ast.Function) *checker {
	return &checker{
		sigs:  sigs,
		scope: symtab.New[typesys.Type](),
		fn:    fn,
		types: make(map[ast.Expression]typesys.Type),
	}
}

func (c *checker) report(d diag.Diagnostic) {
	c.diags = append(c.diags, d)
}

// checkFunction binds the parameters in the root scope and checks the body
// in a child scope, so locals may shadow parameters.
func (c *checker) checkFunction(fn *ast.Function) {
	for _, p := range fn.Params {
		if err := c.scope.Declare(p.Name, p.Type, p.Token); err != nil {
			c.report(diag.Redeclared(p, "Parameter", p.Name))
		}
	}
	c.block(fn.Body)
	if !alwaysReturns(fn.Body) {
		c.report(diag.NoReturn(fn, fn.Name))
	}
	c.settle(fn.Body)
}

func (c *checker) checkMain(body ast.Statement) {
	if body == nil {
		return
	}
	c.stmt(body)
	c.settle(body)
}

func (c *checker) stmt(s ast.Statement) {
	ast.WalkStmt[struct{}](c, s)
}

// block checks s in a fresh child scope.
func (c *checker) block(s ast.Statement) {
	c.scope.EnterScope()
	defer c.scope.ExitScope()
	c.stmt(s)
}

// alwaysReturns reports whether every path through s ends in return or exit.
func alwaysReturns(s ast.Statement) bool {
	switch s := ast.Last(s).(type) {
	case *ast.ReturnStatement, *ast.ExitStatement:
		return true
	case *ast.IfStatement:
		return alwaysReturns(s.Consequence) && alwaysReturns(s.Alternative)
	case *ast.BeginStatement:
		return alwaysReturns(s.Body)
	}
	return false
}

// fits reports whether rhs, inferred as actual, may be stored where want is
// expected. Array literals and new pairs are matched element by element, so
// an empty literal at any depth fits any array type and takes that type.
func (c *checker) fits(want typesys.Type, rhs ast.Expression, actual typesys.Type) bool {
	if actual.Equals(want) {
		return true
	}
	switch e := rhs.(type) {
	case *ast.BracketedExpression:
		if !c.fits(want, e.Inner, c.types[e.Inner]) {
			return false
		}
	case *ast.ArrayLiteral:
		w, ok := want.(*typesys.ArrayType)
		if !ok {
			return false
		}
		for _, el := range e.Elements {
			if !c.fits(w.Elem, el, c.types[el]) {
				return false
			}
		}
	case *ast.NewPairExpression:
		w, ok := want.(*typesys.PairType)
		if !ok || w.IsErased() {
			return false
		}
		if !c.fits(w.Fst, e.Fst, c.types[e.Fst]) || !c.fits(w.Snd, e.Snd, c.types[e.Snd]) {
			return false
		}
	default:
		return false
	}
	c.types[rhs] = want
	return true
}

// settle gives every expression in n that is still typed with an Unknown
// element (an empty array literal nothing constrained, as in `println []`)
// int as that element, so no Unknown reaches code generation.
func (c *checker) settle(n ast.Node) {
	ast.Inspect(n, func(n ast.Node) bool {
		if e, ok := n.(ast.Expression); ok {
			if t, ok := c.types[e]; ok && !typesys.IsValid(t) {
				c.types[e] = typesys.Fill(t, typesys.Int)
			}
		}
		return true
	})
}

// expect records IncompatibleTypes at node unless actual fits want. Error
// operands were already reported and are let through.
func (c *checker) expect(node ast.Node, want typesys.Type, rhs ast.Expression, actual typesys.Type) {
	if typesys.IsError(actual) || typesys.IsError(want) {
		return
	}
	if !c.fits(want, rhs, actual) {
		c.report(diag.Incompatible(node, want, typesys.Fill(actual, typesys.Int)))
	}
}

func (c *checker) VisitSkip(*ast.SkipStatement) struct{} { return struct{}{} }

func (c *checker) VisitDeclaration(s *ast.DeclarationStatement) struct{} {
	rhs := c.expr(s.Value)
	c.expect(s, s.Type, s.Value, rhs)
	// Bind even on a type error so later uses do not cascade.
	if err := c.scope.Declare(s.Name.Value, s.Type, s.Name.Token); err != nil {
		c.report(diag.Redeclared(s.Name, "Variable", s.Name.Value))
	}
	c.types[s.Name] = s.Type
	return struct{}{}
}

func (c *checker) VisitAssign(s *ast.AssignStatement) struct{} {
	lhs := c.expr(s.Target)
	rhs := c.expr(s.Value)
	c.expect(s, lhs, s.Value, rhs)
	return struct{}{}
}

func (c *checker) VisitRead(s *ast.ReadStatement) struct{} {
	t := c.expr(s.Target)
	if typesys.IsError(t) {
		return struct{}{}
	}
	if !t.Equals(typesys.Int) && !t.Equals(typesys.Char) {
		c.report(diag.IncompatibleOneOf(s, []typesys.Type{typesys.Int, typesys.Char}, t))
	}
	return struct{}{}
}

func (c *checker) VisitFree(s *ast.FreeStatement) struct{} {
	t := c.expr(s.Value)
	if typesys.IsError(t) {
		return struct{}{}
	}
	if t.Kind() != typesys.KindPair && t.Kind() != typesys.KindArray {
		c.report(diag.IncompatibleKind(s, t, typesys.KindPair, typesys.KindArray))
	}
	return struct{}{}
}

func (c *checker) VisitReturn(s *ast.ReturnStatement) struct{} {
	t := c.expr(s.ReturnValue)
	if c.fn == nil {
		c.report(diag.ReturnOutsideFunction(s))
		return struct{}{}
	}
	c.expect(s, c.fn.ReturnType, s.ReturnValue, t)
	return struct{}{}
}

func (c *checker) VisitExit(s *ast.ExitStatement) struct{} {
	c.expect(s, typesys.Int, s.Code, c.expr(s.Code))
	return struct{}{}
}

func (c *checker) VisitPrint(s *ast.PrintStatement) struct{} {
	c.expr(s.Value)
	return struct{}{}
}

func (c *checker) VisitPrintln(s *ast.PrintlnStatement) struct{} {
	c.expr(s.Value)
	return struct{}{}
}

func (c *checker) VisitIf(s *ast.IfStatement) struct{} {
	c.expect(s.Condition, typesys.Bool, s.Condition, c.expr(s.Condition))
	c.block(s.Consequence)
	c.block(s.Alternative)
	return struct{}{}
}

func (c *checker) VisitWhile(s *ast.WhileStatement) struct{} {
	c.expect(s.Condition, typesys.Bool, s.Condition, c.expr(s.Condition))
	c.block(s.Body)
	return struct{}{}
}

func (c *checker) VisitBegin(s *ast.BeginStatement) struct{} {
	c.block(s.Body)
	return struct{}{}
}

func (c *checker) VisitConcat(s *ast.ConcatStatement) struct{} {
	c.stmt(s.First)
	c.stmt(s.Second)
	return struct{}{}
}
