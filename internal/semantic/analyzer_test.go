package semantic

import (
	"context"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/diag"
	"github.com/louisheal/wacc/internal/typesys"
)

func analyze(t *testing.T, prog *ast.Program) *Result {
	t.Helper()
	res, err := Analyze(context.Background(), prog)
	require.NoError(t, err)
	return res
}

func requireKinds(t *testing.T, res *Result, want ...diag.Kind) {
	t.Helper()
	if want == nil {
		want = []diag.Kind{}
	}
	require.Equal(t, want, res.Diagnostics.Kinds(), spew.Sdump(res.Diagnostics.Error()))
}

func TestExitOfDeclaredInt(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Int, "x", ast.Int(5)),
		ast.Exit(ast.Ident("x")),
	)))
	requireKinds(t, res)
	assert.True(t, res.OK())
}

func TestDeclarationMismatchReportsOnceAtSite(t *testing.T) {
	decl := ast.At(ast.Decl(typesys.Bool, "b", ast.Int(5)), 1, 0)
	res := analyze(t, ast.Prog(decl))

	requireKinds(t, res, diag.IncompatibleTypes)
	d := res.Diagnostics[0]
	assert.True(t, d.Expected.Equals(typesys.Bool))
	assert.True(t, d.Actual.Equals(typesys.Int))
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 0, d.Column)
	assert.False(t, res.OK())
}

func TestWhileOnUndeclaredReportsNotDefinedOnce(t *testing.T) {
	res := analyze(t, ast.Prog(ast.While(ast.Ident("undeclared"), ast.Skip())))
	requireKinds(t, res, diag.NotDefined)
	assert.Equal(t, "undeclared", res.Diagnostics[0].Name)
}

func TestErrorTypeSuppressesCascades(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Int, "x", ast.Binary(ast.Add, ast.Ident("y"), ast.Int(1))),
		ast.Decl(typesys.Bool, "b", ast.Binary(ast.Lt, ast.Ident("y"), ast.Int(1))),
		ast.Exit(ast.Unary(ast.Len, ast.Ident("y"))),
	)))
	requireKinds(t, res, diag.NotDefined, diag.NotDefined, diag.NotDefined)
}

func TestNullAndEmptyArrayInitialisers(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Pair(typesys.Int, typesys.Char), "p", ast.Null()),
		ast.Decl(typesys.Array(typesys.Int), "a", ast.ArrayLit()),
		ast.Decl(typesys.Pair(typesys.ErasedPair, typesys.Int), "q", ast.NewPair(ast.Ident("p"), ast.Int(1))),
	)))
	requireKinds(t, res)

	res = analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Int, "x", ast.Null()),
		ast.Decl(typesys.Int, "y", ast.ArrayLit()),
	)))
	requireKinds(t, res, diag.IncompatibleTypes, diag.IncompatibleTypes)
}

func TestEmptyArrayLiteralTakesDeclaredType(t *testing.T) {
	lit := ast.ArrayLit()
	res := analyze(t, ast.Prog(ast.Decl(typesys.Array(typesys.Char), "cs", lit)))
	requireKinds(t, res)
	assert.Equal(t, "char[]", res.TypeOf(lit).String())
}

func TestNestedEmptyArrayLiterals(t *testing.T) {
	grid := typesys.Array(typesys.Array(typesys.Int))
	tests := []struct {
		name string
		typ  typesys.Type
		rhs  func() ast.Expression
	}{
		{"only empty", grid, func() ast.Expression { return ast.ArrayLit(ast.ArrayLit()) }},
		{"empty first", grid, func() ast.Expression { return ast.ArrayLit(ast.ArrayLit(), ast.ArrayLit(ast.Int(1))) }},
		{"empty last", grid, func() ast.Expression { return ast.ArrayLit(ast.ArrayLit(ast.Int(1)), ast.ArrayLit()) }},
		{"bracketed", grid, func() ast.Expression { return ast.ArrayLit(ast.Paren(ast.ArrayLit())) }},
		{"in new pair", typesys.Pair(typesys.Array(typesys.Int), typesys.Int), func() ast.Expression {
			return ast.NewPair(ast.ArrayLit(), ast.Int(1))
		}},
		{"three deep", typesys.Array(grid), func() ast.Expression {
			return ast.ArrayLit(ast.ArrayLit(ast.ArrayLit()), ast.ArrayLit(ast.ArrayLit(ast.Int(2)), ast.ArrayLit()))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rhs := tt.rhs()
			res := analyze(t, ast.Prog(ast.Decl(tt.typ, "v", rhs)))
			requireKinds(t, res)
			ast.Inspect(rhs, func(n ast.Node) bool {
				e := n.(ast.Expression)
				assert.True(t, typesys.IsValid(res.TypeOf(e)), "%s typed %s", e, res.TypeOf(e))
				return true
			})
			assert.True(t, res.TypeOf(rhs).Equals(tt.typ))
		})
	}
}

func TestNestedEmptyArrayMismatch(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Decl(typesys.Array(typesys.Int), "a", ast.ArrayLit(ast.ArrayLit()))))
	requireKinds(t, res, diag.IncompatibleTypes)
	assert.NotContains(t, res.Diagnostics[0].Message, "<unknown>")
	assert.Contains(t, res.Diagnostics[0].Message, "actual: int[][]")
}

func TestUnconstrainedEmptyArrayGetsConcreteType(t *testing.T) {
	printed := ast.ArrayLit()
	left, right := ast.ArrayLit(), ast.ArrayLit(ast.Char('a'))
	nested := ast.ArrayLit(ast.ArrayLit())
	res := analyze(t, ast.Prog(ast.Seq(
		ast.Println(printed),
		ast.Println(ast.Binary(ast.Eq, left, right)),
		ast.Exit(ast.Unary(ast.Len, nested)),
	)))
	requireKinds(t, res)
	assert.Equal(t, "int[]", res.TypeOf(printed).String())
	assert.Equal(t, "char[]", res.TypeOf(left).String())
	assert.Equal(t, "int[][]", res.TypeOf(nested).String())
	assert.Equal(t, "int[]", res.TypeOf(nested.Elements[0]).String())
}

func TestArrayLiteralElementsMustAgree(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Decl(typesys.Array(typesys.Int), "a", ast.ArrayLit(ast.Int(1), ast.Char('c')))))
	requireKinds(t, res, diag.IncompatibleTypes)
}

func TestScopesAndShadowing(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Int, "x", ast.Int(1)),
		ast.Begin(ast.Seq(
			ast.Decl(typesys.Char, "x", ast.Char('a')),
			ast.Decl(typesys.Char, "c", ast.Ident("x")),
		)),
		ast.Decl(typesys.Int, "y", ast.Ident("x")),
		ast.Exit(ast.Ident("c")),
	)))
	requireKinds(t, res, diag.NotDefined)
	assert.Equal(t, "c", res.Diagnostics[0].Name)

	res = analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Int, "x", ast.Int(1)),
		ast.Decl(typesys.Bool, "x", ast.Bool(true)),
	)))
	requireKinds(t, res, diag.DuplicateDeclaration)
}

func TestIfAndWhileBodiesAreScoped(t *testing.T) {
	res := analyze(t, ast.Prog(ast.Seq(
		ast.If(ast.Bool(true), ast.Decl(typesys.Int, "x", ast.Int(1)), ast.Decl(typesys.Int, "x", ast.Int(2))),
		ast.While(ast.Bool(false), ast.Decl(typesys.Int, "x", ast.Int(3))),
		ast.Print(ast.Ident("x")),
	)))
	requireKinds(t, res, diag.NotDefined)

	res = analyze(t, ast.Prog(ast.If(ast.Int(1), ast.Skip(), ast.Skip())))
	requireKinds(t, res, diag.IncompatibleTypes)
	assert.True(t, res.Diagnostics[0].Expected.Equals(typesys.Bool))
}

func TestStatementRules(t *testing.T) {
	tests := []struct {
		name string
		body ast.Statement
		want []diag.Kind
	}{
		{"read int", ast.Seq(ast.Decl(typesys.Int, "x", ast.Int(0)), ast.Read(ast.Ident("x"))), nil},
		{"read char", ast.Seq(ast.Decl(typesys.Char, "c", ast.Char('a')), ast.Read(ast.Ident("c"))), nil},
		{"read bool", ast.Seq(ast.Decl(typesys.Bool, "b", ast.Bool(true)), ast.Read(ast.Ident("b"))), []diag.Kind{diag.IncompatibleTypes}},
		{"free pair", ast.Seq(ast.Decl(typesys.Pair(typesys.Int, typesys.Int), "p", ast.NewPair(ast.Int(1), ast.Int(2))), ast.Free(ast.Ident("p"))), nil},
		{"free array", ast.Seq(ast.Decl(typesys.Array(typesys.Int), "a", ast.ArrayLit(ast.Int(1))), ast.Free(ast.Ident("a"))), nil},
		{"free int", ast.Free(ast.Int(3)), []diag.Kind{diag.IncompatibleTypes}},
		{"exit char", ast.Exit(ast.Char('a')), []diag.Kind{diag.IncompatibleTypes}},
		{"print anything", ast.Seq(ast.Print(ast.Str("s")), ast.Println(ast.NewPair(ast.Int(1), ast.Bool(true)))), nil},
		{"return in main", ast.Return(ast.Int(0)), []diag.Kind{diag.MisplacedReturn}},
		{"assign undeclared", ast.Assign(ast.Ident("z"), ast.Int(1)), []diag.Kind{diag.NotDefined}},
		{"assign mismatch", ast.Seq(ast.Decl(typesys.Int, "x", ast.Int(0)), ast.Assign(ast.Ident("x"), ast.Str("s"))), []diag.Kind{diag.IncompatibleTypes}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKinds(t, analyze(t, ast.Prog(tt.body)), tt.want...)
		})
	}
}

func TestExpressionRules(t *testing.T) {
	arr := typesys.Array(typesys.Int)
	grid := typesys.Array(arr)
	pair := typesys.Pair(typesys.Int, typesys.Char)
	prelude := []ast.Statement{
		ast.Decl(arr, "a", ast.ArrayLit(ast.Int(1), ast.Int(2))),
		ast.Decl(grid, "g", ast.ArrayLit(ast.Ident("a"))),
		ast.Decl(pair, "p", ast.NewPair(ast.Int(1), ast.Char('c'))),
	}
	tests := []struct {
		name string
		decl ast.Statement
		want []diag.Kind
	}{
		{"index", ast.Decl(typesys.Int, "x", ast.Index("a", ast.Int(0))), nil},
		{"nested index", ast.Decl(typesys.Int, "x", ast.Index("g", ast.Int(0), ast.Int(1))), nil},
		{"partial index", ast.Decl(arr, "x", ast.Index("g", ast.Int(0))), nil},
		{"bool index", ast.Decl(typesys.Int, "x", ast.Index("a", ast.Bool(true))), []diag.Kind{diag.IncompatibleTypes}},
		{"too many indices", ast.Decl(typesys.Int, "x", ast.Index("a", ast.Int(0), ast.Int(0))), []diag.Kind{diag.IncompatibleTypes}},
		{"index non-array", ast.Decl(typesys.Int, "x", ast.Index("p", ast.Int(0))), []diag.Kind{diag.IncompatibleTypes}},
		{"elem type", ast.Decl(typesys.Char, "x", ast.Index("a", ast.Int(0))), []diag.Kind{diag.IncompatibleTypes}},
		{"fst", ast.Decl(typesys.Int, "x", ast.First(ast.Ident("p"))), nil},
		{"snd", ast.Decl(typesys.Char, "x", ast.Second(ast.Ident("p"))), nil},
		{"snd wrong", ast.Decl(typesys.Int, "x", ast.Second(ast.Ident("p"))), []diag.Kind{diag.IncompatibleTypes}},
		{"fst of int", ast.Decl(typesys.Int, "x", ast.First(ast.Index("a", ast.Int(0)))), []diag.Kind{diag.IncompatibleTypes}},
		{"fst null", ast.Decl(typesys.Int, "x", ast.First(ast.Null())), []diag.Kind{diag.IncompatibleTypes}},
		{"arith", ast.Decl(typesys.Int, "x", ast.Binary(ast.Mod, ast.Int(7), ast.Paren(ast.Unary(ast.Neg, ast.Int(2))))), nil},
		{"arith bool", ast.Decl(typesys.Int, "x", ast.Binary(ast.Mul, ast.Bool(true), ast.Int(2))), []diag.Kind{diag.IncompatibleTypes}},
		{"relational chars", ast.Decl(typesys.Bool, "x", ast.Binary(ast.Ge, ast.Char('a'), ast.Char('b'))), nil},
		{"relational mixed", ast.Decl(typesys.Bool, "x", ast.Binary(ast.Lt, ast.Int(1), ast.Char('b'))), []diag.Kind{diag.IncompatibleTypes}},
		{"relational bools", ast.Decl(typesys.Bool, "x", ast.Binary(ast.Gt, ast.Bool(true), ast.Bool(false))), []diag.Kind{diag.IncompatibleTypes}},
		{"equality pairs", ast.Decl(typesys.Bool, "x", ast.Binary(ast.Eq, ast.Ident("p"), ast.Null())), nil},
		{"equality mismatch", ast.Decl(typesys.Bool, "x", ast.Binary(ast.Ne, ast.Int(1), ast.Str("1"))), []diag.Kind{diag.IncompatibleTypes}},
		{"logical", ast.Decl(typesys.Bool, "x", ast.Binary(ast.Or, ast.Bool(true), ast.Unary(ast.Not, ast.Bool(false)))), nil},
		{"logical int", ast.Decl(typesys.Bool, "x", ast.Binary(ast.And, ast.Int(1), ast.Bool(false))), []diag.Kind{diag.IncompatibleTypes}},
		{"len", ast.Decl(typesys.Int, "x", ast.Unary(ast.Len, ast.Ident("g"))), nil},
		{"len int", ast.Decl(typesys.Int, "x", ast.Unary(ast.Len, ast.Int(3))), []diag.Kind{diag.IncompatibleTypes}},
		{"ord chr", ast.Decl(typesys.Char, "x", ast.Unary(ast.Chr, ast.Unary(ast.Ord, ast.Char('a')))), nil},
		{"ord int", ast.Decl(typesys.Int, "x", ast.Unary(ast.Ord, ast.Int(3))), []diag.Kind{diag.IncompatibleTypes}},
		{"neg bool", ast.Decl(typesys.Int, "x", ast.Unary(ast.Neg, ast.Bool(true))), []diag.Kind{diag.IncompatibleTypes}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := append(append([]ast.Statement{}, prelude...), tt.decl)
			requireKinds(t, analyze(t, ast.Prog(ast.Seq(stmts...))), tt.want...)
		})
	}
}

func TestForwardAndMutualCalls(t *testing.T) {
	n := func() *ast.Identifier { return ast.Ident("n") }
	isEven := ast.Func(typesys.Bool, "isEven", []*ast.Param{ast.NewParam(typesys.Int, "n")},
		ast.If(ast.Binary(ast.Eq, n(), ast.Int(0)),
			ast.Return(ast.Bool(true)),
			ast.Return(ast.Call("isOdd", ast.Binary(ast.Sub, n(), ast.Int(1))))))
	isOdd := ast.Func(typesys.Bool, "isOdd", []*ast.Param{ast.NewParam(typesys.Int, "n")},
		ast.If(ast.Binary(ast.Eq, n(), ast.Int(0)),
			ast.Return(ast.Bool(false)),
			ast.Return(ast.Call("isEven", ast.Binary(ast.Sub, n(), ast.Int(1))))))
	res := analyze(t, ast.Prog(ast.Decl(typesys.Bool, "b", ast.Call("isEven", ast.Int(10))), isEven, isOdd))
	requireKinds(t, res)
	assert.Equal(t, 2, res.Signatures.Len())
}

func TestCallChecks(t *testing.T) {
	f := ast.Func(typesys.Int, "f", []*ast.Param{ast.NewParam(typesys.Int, "a"), ast.NewParam(typesys.Char, "b")}, ast.Return(ast.Ident("a")))

	res := analyze(t, ast.Prog(ast.Decl(typesys.Int, "x", ast.Call("f", ast.Int(1))), f))
	requireKinds(t, res, diag.ArityMismatch)
	assert.Equal(t, 2, res.Diagnostics[0].Want)
	assert.Equal(t, 1, res.Diagnostics[0].Got)

	res = analyze(t, ast.Prog(ast.Decl(typesys.Int, "x", ast.Call("f", ast.Char('a'), ast.Int(1))), f))
	requireKinds(t, res, diag.IncompatibleTypes, diag.IncompatibleTypes)

	res = analyze(t, ast.Prog(ast.Decl(typesys.Int, "x", ast.Call("g")), f))
	requireKinds(t, res, diag.NotDefined)
	assert.Equal(t, "g", res.Diagnostics[0].Name)
}

func TestFunctionBodies(t *testing.T) {
	tests := []struct {
		name string
		fn   *ast.Function
		want []diag.Kind
	}{
		{"ok", ast.Func(typesys.Int, "f", nil, ast.Return(ast.Int(1))), nil},
		{"exit ends body", ast.Func(typesys.Int, "f", nil, ast.Exit(ast.Int(1))), nil},
		{"wrong return type", ast.Func(typesys.Int, "f", nil, ast.Return(ast.Bool(true))), []diag.Kind{diag.IncompatibleTypes}},
		{"missing return", ast.Func(typesys.Int, "f", nil, ast.Skip()), []diag.Kind{diag.MissingReturn}},
		{"if without return in one arm", ast.Func(typesys.Int, "f", nil, ast.If(ast.Bool(true), ast.Return(ast.Int(1)), ast.Skip())), []diag.Kind{diag.MissingReturn}},
		{"while is not a return", ast.Func(typesys.Int, "f", nil, ast.While(ast.Bool(true), ast.Return(ast.Int(1)))), []diag.Kind{diag.MissingReturn}},
		{"begin return", ast.Func(typesys.Int, "f", nil, ast.Begin(ast.Return(ast.Int(1)))), nil},
		{"duplicate params", ast.Func(typesys.Int, "f", []*ast.Param{ast.NewParam(typesys.Int, "a"), ast.NewParam(typesys.Bool, "a")}, ast.Return(ast.Int(1))), []diag.Kind{diag.DuplicateDeclaration}},
		{"local shadows param", ast.Func(typesys.Int, "f", []*ast.Param{ast.NewParam(typesys.Bool, "a")}, ast.Seq(ast.Decl(typesys.Int, "a", ast.Int(2)), ast.Return(ast.Ident("a")))), nil},
		{"main locals invisible", ast.Func(typesys.Int, "f", nil, ast.Return(ast.Ident("m"))), []diag.Kind{diag.NotDefined}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := ast.Prog(ast.Decl(typesys.Int, "m", ast.Int(0)), tt.fn)
			requireKinds(t, analyze(t, prog), tt.want...)
		})
	}
}

func TestDuplicateFunction(t *testing.T) {
	f1 := ast.Func(typesys.Int, "f", nil, ast.Return(ast.Int(1)))
	f2 := ast.Func(typesys.Bool, "f", nil, ast.Return(ast.Bool(true)))
	res := analyze(t, ast.Prog(ast.Skip(), f1, f2))
	requireKinds(t, res, diag.DuplicateDeclaration)
}

func TestTypesAreRecorded(t *testing.T) {
	idx := ast.Index("a", ast.Int(0))
	np := ast.NewPair(ast.Index("a", ast.Int(1)), ast.Str("s"))
	res := analyze(t, ast.Prog(ast.Seq(
		ast.Decl(typesys.Array(typesys.Char), "a", ast.ArrayLit(ast.Char('x'), ast.Char('y'))),
		ast.Print(idx),
		ast.Println(np),
	)))
	requireKinds(t, res)
	assert.Equal(t, "char", res.TypeOf(idx).String())
	assert.Equal(t, "pair(char, string)", res.TypeOf(np).String())
	assert.Equal(t, typesys.Unknown, res.TypeOf(ast.Int(3)))
}

func manyFunctions(n int) *ast.Program {
	var funcs []*ast.Function
	var calls []ast.Statement
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("f%d", i)
		var body ast.Statement = ast.Return(ast.Binary(ast.Add, ast.Ident("x"), ast.Int(int32(i))))
		if i%3 == 0 {
			body = ast.Seq(ast.Decl(typesys.Bool, "b", ast.Ident("x")), body)
		}
		if i%4 == 0 {
			body = ast.Seq(ast.Print(ast.Ident("missing")), body)
		}
		funcs = append(funcs, ast.Func(typesys.Int, name, []*ast.Param{ast.NewParam(typesys.Int, "x")}, body))
		calls = append(calls, ast.Println(ast.Call(name, ast.Int(int32(i)))))
	}
	return ast.Prog(ast.Seq(calls...), funcs...)
}

func TestParallelMatchesSequential(t *testing.T) {
	prog := manyFunctions(24)
	seq, err := New(Options{}).Analyze(context.Background(), prog)
	require.NoError(t, err)
	par, err := New(Options{Parallel: true, Workers: 4}).Analyze(context.Background(), prog)
	require.NoError(t, err)

	require.NotEmpty(t, seq.Diagnostics)
	assert.Equal(t, seq.Diagnostics.Error(), par.Diagnostics.Error())
	assert.Equal(t, seq.Diagnostics.Kinds(), par.Diagnostics.Kinds())
	assert.Equal(t, len(seq.Types), len(par.Types))
}

func TestAnalyzeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{Parallel: true}).Analyze(ctx, manyFunctions(4))
	require.ErrorIs(t, err, context.Canceled)

	_, err = Analyze(ctx, ast.Prog(ast.Skip()))
	require.ErrorIs(t, err, context.Canceled)
}
