package diag

import (
	"fmt"
	"strings"

	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/typesys"
)

// Kind classifies a semantic error.
type Kind int

const (
	IncompatibleTypes Kind = iota
	NotDefined
	DuplicateDeclaration
	ArityMismatch
	MisplacedReturn
	MissingReturn
)

var kindNames = [...]string{
	IncompatibleTypes:    "IncompatibleTypes",
	NotDefined:           "NotDefined",
	DuplicateDeclaration: "DuplicateDeclaration",
	ArityMismatch:        "ArityMismatch",
	MisplacedReturn:      "MisplacedReturn",
	MissingReturn:        "MissingReturn",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is one semantic error with the site it was found at.
type Diagnostic struct {
	Kind    Kind
	Message string
	Context string // source rendering of the offending node
	Line    int
	Column  int

	Name     string       // NotDefined, DuplicateDeclaration, ArityMismatch
	Expected typesys.Type // IncompatibleTypes
	Actual   typesys.Type // IncompatibleTypes
	Want     int          // ArityMismatch
	Got      int          // ArityMismatch
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("Semantic Error at %d:%d -- %s", d.Line, d.Column, d.Message)
}

func at(kind Kind, node ast.Node, msg string) Diagnostic {
	d := Diagnostic{Kind: kind, Message: msg}
	if node != nil {
		tok := node.Tok()
		d.Line, d.Column = tok.Line, tok.Column
		d.Context = node.String()
	}
	return d
}

func contextOf(node ast.Node) string {
	if node == nil {
		return ""
	}
	return node.String()
}

// Incompatible records that node has type actual where expected was needed.
func Incompatible(node ast.Node, expected, actual typesys.Type) Diagnostic {
	d := at(IncompatibleTypes, node, fmt.Sprintf("Incompatible type at %s (expected: %s, actual: %s)", contextOf(node), typeName(expected), typeName(actual)))
	d.Expected, d.Actual = expected, actual
	return d
}

// IncompatibleOneOf is Incompatible for checks accepting several types, such
// as read (int or char) and free (pair or array).
func IncompatibleOneOf(node ast.Node, expected []typesys.Type, actual typesys.Type) Diagnostic {
	names := make([]string, 0, len(expected))
	for _, t := range expected {
		names = append(names, typeName(t))
	}
	d := at(IncompatibleTypes, node, fmt.Sprintf("Incompatible type at %s (expected: %s, actual: %s)", contextOf(node), strings.Join(names, " or "), typeName(actual)))
	if len(expected) > 0 {
		d.Expected = expected[0]
	}
	d.Actual = actual
	return d
}

// IncompatibleKind is Incompatible for checks that only care about the shape
// of a type, such as indexing (any array) or free (any pair or array).
func IncompatibleKind(node ast.Node, actual typesys.Type, want ...typesys.Kind) Diagnostic {
	names := make([]string, 0, len(want))
	for _, k := range want {
		names = append(names, k.String())
	}
	d := at(IncompatibleTypes, node, fmt.Sprintf("Incompatible type at %s (expected: %s, actual: %s)", contextOf(node), strings.Join(names, " or "), typeName(actual)))
	d.Actual = actual
	return d
}

// UntypedPair records fst or snd applied to null or to a pair whose element
// types were erased by nesting.
func UntypedPair(node ast.Node, actual typesys.Type) Diagnostic {
	d := at(IncompatibleTypes, node, fmt.Sprintf("Cannot access an element of untyped pair at %s", contextOf(node)))
	d.Actual = actual
	return d
}

// UndefinedVariable records a lookup of an undeclared identifier.
func UndefinedVariable(node ast.Node, name string) Diagnostic {
	d := at(NotDefined, node, fmt.Sprintf("Variable %s is not defined in this scope", name))
	d.Name = name
	return d
}

// UndefinedFunction records a call to a function that was never declared.
func UndefinedFunction(node ast.Node, name string) Diagnostic {
	d := at(NotDefined, node, fmt.Sprintf("Function %s is not defined", name))
	d.Name = name
	return d
}

// Redeclared records a second declaration of name in the same scope.
func Redeclared(node ast.Node, what, name string) Diagnostic {
	d := at(DuplicateDeclaration, node, fmt.Sprintf("%s %s is already declared in this scope", what, name))
	d.Name = name
	return d
}

// Arity records a call with the wrong number of arguments.
func Arity(node ast.Node, name string, want, got int) Diagnostic {
	d := at(ArityMismatch, node, fmt.Sprintf("Wrong number of arguments to %s (expected: %d, actual: %d)", name, want, got))
	d.Name, d.Want, d.Got = name, want, got
	return d
}

// ReturnOutsideFunction records a return statement in the main body.
func ReturnOutsideFunction(node ast.Node) Diagnostic {
	return at(MisplacedReturn, node, "Cannot return from the main program body")
}

// NoReturn records a function whose body can fall off its end.
func NoReturn(node ast.Node, name string) Diagnostic {
	d := at(MissingReturn, node, fmt.Sprintf("Function %s does not end with a return or exit statement", name))
	d.Name = name
	return d
}

func typeName(t typesys.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}

// List holds diagnostics in discovery order.
type List []Diagnostic

func (l List) Error() string {
	parts := make([]string, 0, len(l))
	for _, d := range l {
		parts = append(parts, d.Error())
	}
	return strings.Join(parts, "\n")
}

// Err returns l as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Kinds lists the kind of each diagnostic, in order.
func (l List) Kinds() []Kind {
	out := make([]Kind, 0, len(l))
	for _, d := range l {
		out = append(out, d.Kind)
	}
	return out
}

// LocateContext finds the single source line matching context and returns
// its 1-based position. It fails when the context is empty, missing or
// ambiguous.
func LocateContext(source string, context string) (line int, col int, ok bool) {
	ctx := strings.TrimSpace(context)
	if ctx == "" {
		return 0, 0, false
	}
	lines := strings.Split(source, "\n")
	normalize := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "\t", "")
		return strings.TrimSuffix(s, ";")
	}
	normalizedCtx := normalize(ctx)

	matchLine := -1
	for i, ln := range lines {
		if normalize(ln) == normalizedCtx {
			if matchLine != -1 {
				return 0, 0, false
			}
			matchLine = i
		}
	}
	if matchLine >= 0 {
		ln := lines[matchLine]
		col := len(ln) - len(strings.TrimLeft(ln, " \t"))
		return matchLine + 1, col + 1, true
	}

	bestLine, bestCol := -1, -1
	for i, ln := range lines {
		if idx := strings.Index(ln, ctx); idx >= 0 {
			if bestLine != -1 {
				return 0, 0, false
			}
			bestLine, bestCol = i+1, idx+1
		}
	}
	if bestLine != -1 {
		return bestLine, bestCol, true
	}
	return 0, 0, false
}
