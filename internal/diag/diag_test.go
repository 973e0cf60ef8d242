package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/typesys"
)

func TestIncompatibleMessage(t *testing.T) {
	decl := ast.At(ast.Decl(typesys.Bool, "b", ast.Int(5)), 1, 0)
	d := Incompatible(decl, typesys.Bool, typesys.Int)

	assert.Equal(t, IncompatibleTypes, d.Kind)
	assert.True(t, d.Expected.Equals(typesys.Bool))
	assert.True(t, d.Actual.Equals(typesys.Int))
	assert.Equal(t, "Semantic Error at 1:0 -- Incompatible type at bool b = 5 (expected: bool, actual: int)", d.Error())
}

func TestNamedDiagnostics(t *testing.T) {
	id := ast.At(ast.Ident("undeclared"), 3, 7)

	d := UndefinedVariable(id, "undeclared")
	assert.Equal(t, NotDefined, d.Kind)
	assert.Equal(t, "undeclared", d.Name)
	assert.Equal(t, "Semantic Error at 3:7 -- Variable undeclared is not defined in this scope", d.Error())

	d = Redeclared(id, "Variable", "x")
	assert.Equal(t, DuplicateDeclaration, d.Kind)
	assert.Contains(t, d.Message, "already declared")

	d = Arity(ast.Call("f"), "f", 2, 0)
	assert.Equal(t, ArityMismatch, d.Kind)
	assert.Equal(t, 2, d.Want)
	assert.Equal(t, 0, d.Got)
	assert.Equal(t, "Wrong number of arguments to f (expected: 2, actual: 0)", d.Message)

	d = IncompatibleOneOf(ast.Read(ast.Ident("b")), []typesys.Type{typesys.Int, typesys.Char}, typesys.Bool)
	assert.Equal(t, "Incompatible type at read b (expected: int or char, actual: bool)", d.Message)
}

func TestListError(t *testing.T) {
	var l List
	require.NoError(t, l.Err())

	l = append(l, ReturnOutsideFunction(ast.At(ast.Return(ast.Int(1)), 2, 0)), NoReturn(ast.Func(typesys.Int, "f", nil, ast.Skip()), "f"))
	err := l.Err()
	require.Error(t, err)
	assert.Equal(t, []Kind{MisplacedReturn, MissingReturn}, l.Kinds())
	assert.Contains(t, err.Error(), "Semantic Error at 2:0 -- Cannot return")
	assert.Contains(t, err.Error(), "\nSemantic Error at 0:0 -- Function f does not end")
	assert.Equal(t, "MissingReturn", MissingReturn.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestLocateContext(t *testing.T) {
	src := "begin\n  int x = 1 ;\n  exit x\nend\n"

	line, col, ok := LocateContext(src, "int x = 1")
	require.True(t, ok)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)

	line, col, ok = LocateContext(src, "exit x")
	require.True(t, ok)
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, col)

	_, _, ok = LocateContext(src, "")
	assert.False(t, ok, "empty context should fail")
	_, _, ok = LocateContext(src, "x")
	assert.False(t, ok, "ambiguous context should fail")
	_, _, ok = LocateContext(src, "does not exist")
	assert.False(t, ok, "missing context should fail")
}

func TestRenderWithSource(t *testing.T) {
	src := "begin\n  bool b = 5\nend\n"
	decl := ast.At(ast.Decl(typesys.Bool, "b", ast.Int(5)), 2, 3)
	l := List{Incompatible(decl, typesys.Bool, typesys.Int)}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, l, RenderOptions{Source: src}))
	want := "Semantic Error at 2:3 -- [IncompatibleTypes] Incompatible type at bool b = 5 (expected: bool, actual: int)\n" +
		"    bool b = 5\n" +
		"    ^\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderLocatesUnpositionedDiagnostic(t *testing.T) {
	src := "begin\n  exit true\nend\n"
	ex := ast.Exit(ast.Bool(true))
	l := List{Incompatible(ex, typesys.Int, typesys.Bool)}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, l, RenderOptions{Source: src}))
	assert.Contains(t, buf.String(), "Semantic Error at 2:3")
}

func TestRenderColor(t *testing.T) {
	l := List{UndefinedVariable(ast.Ident("x"), "x")}
	var plain, colored bytes.Buffer
	require.NoError(t, Render(&plain, l, RenderOptions{}))
	require.NoError(t, Render(&colored, l, RenderOptions{Color: true}))
	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestSourceLine(t *testing.T) {
	got, ok := SourceLine("a\n\tb\n", 2)
	require.True(t, ok)
	assert.Equal(t, " b", got)
	_, ok = SourceLine("a", 5)
	assert.False(t, ok)
	_, ok = SourceLine("", 1)
	assert.False(t, ok)
}

func TestShapeDiagnostics(t *testing.T) {
	d := IncompatibleKind(ast.Unary(ast.Len, ast.Int(3)), typesys.Int, typesys.KindArray)
	assert.Equal(t, "Incompatible type at (len 3) (expected: array, actual: int)", d.Message)
	assert.Nil(t, d.Expected)

	d = IncompatibleKind(ast.Free(ast.Int(1)), typesys.Int, typesys.KindPair, typesys.KindArray)
	assert.Equal(t, "Incompatible type at free 1 (expected: pair or array, actual: int)", d.Message)

	d = UntypedPair(ast.First(ast.Null()), typesys.ErasedPair)
	assert.Equal(t, IncompatibleTypes, d.Kind)
	assert.Equal(t, "Cannot access an element of untyped pair at fst null", d.Message)
}
