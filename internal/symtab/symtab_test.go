package symtab

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/louisheal/wacc/internal/token"
	"github.com/louisheal/wacc/internal/typesys"
)

func site(line int) token.Token { return token.New(token.IDENT, "x", line, 0) }

func TestNewTable(t *testing.T) {
	st := New[typesys.Type]()
	be.True(t, st != nil)
	be.Equal(t, 1, st.Depth())
}

func TestDeclareAndLookup(t *testing.T) {
	st := New[typesys.Type]()

	err := st.Declare("x", typesys.Int, site(1))
	be.Err(t, err, nil)

	b, err := st.Lookup("x")
	be.Err(t, err, nil)
	be.Equal(t, "x", b.Name)
	be.True(t, b.Value.Equals(typesys.Int))
	be.Equal(t, 1, b.Site.Line)
}

func TestDeclareDuplicate(t *testing.T) {
	st := New[typesys.Type]()
	be.Err(t, st.Declare("x", typesys.Int, site(1)), nil)

	err := st.Declare("x", typesys.Bool, site(2))
	be.Err(t, err, ErrDuplicateDeclaration)
	be.Equal(t, "variable 'x' already declared in this scope", err.Error())

	b, _ := st.Lookup("x")
	be.True(t, b.Value.Equals(typesys.Int))
}

func TestLookupUndefined(t *testing.T) {
	st := New[typesys.Type]()
	_, err := st.Lookup("undeclared")
	be.Err(t, err, ErrNotDefined)
	be.True(t, errors.Is(err, ErrNotDefined))
}

func TestShadowing(t *testing.T) {
	st := New[typesys.Type]()
	be.Err(t, st.Declare("x", typesys.Int, site(1)), nil)

	st.EnterScope()
	be.Equal(t, 2, st.Depth())
	be.Err(t, st.Declare("x", typesys.Char, site(2)), nil)
	b, err := st.Lookup("x")
	be.Err(t, err, nil)
	be.True(t, b.Value.Equals(typesys.Char))

	be.Err(t, st.Declare("y", typesys.Bool, site(3)), nil)
	st.ExitScope()

	b, err = st.Lookup("x")
	be.Err(t, err, nil)
	be.True(t, b.Value.Equals(typesys.Int))

	_, err = st.Lookup("y")
	be.Err(t, err, ErrNotDefined)
	be.Equal(t, 1, st.Depth())
}

func TestExitRootPanics(t *testing.T) {
	st := New[int]()
	defer func() {
		be.True(t, recover() != nil)
	}()
	st.ExitScope()
}

func TestSignatures(t *testing.T) {
	sigs := NewSignatures()
	f := &Signature{Name: "f", Params: []typesys.Type{typesys.Int, typesys.Array(typesys.Char)}, Return: typesys.Bool}
	be.Err(t, sigs.Declare(f), nil)
	be.Err(t, sigs.Declare(&Signature{Name: "g", Return: typesys.Int}), nil)

	err := sigs.Declare(&Signature{Name: "f", Return: typesys.Int})
	be.Err(t, err, ErrDuplicateDeclaration)
	be.Equal(t, "function 'f' already declared in this scope", err.Error())

	got, err := sigs.Lookup("f")
	be.Err(t, err, nil)
	be.Equal(t, f, got)
	be.Equal(t, "bool f(int, char[])", got.String())

	_, err = sigs.Lookup("h")
	be.Err(t, err, ErrNotDefined)

	be.Equal(t, 2, sigs.Len())
}
