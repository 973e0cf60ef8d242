// Package symtab implements lexical scopes and the program-wide function
// signature table.
package symtab

import (
	"errors"
	"fmt"

	"github.com/louisheal/wacc/internal/token"
	"github.com/louisheal/wacc/internal/typesys"
)

var (
	ErrDuplicateDeclaration = errors.New("already declared in this scope")
	ErrNotDefined           = errors.New("is not defined in this scope")
)

// Binding is what a name resolves to, plus where it was declared.
type Binding[V any] struct {
	Name  string
	Value V
	Site  token.Token
}

// Scope is one lexical block. parent is only followed upwards.
type Scope[V any] struct {
	parent  *Scope[V]
	entries map[string]Binding[V]
}

func newScope[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{parent: parent, entries: make(map[string]Binding[V])}
}

func (s *Scope[V]) lookup(name string) (Binding[V], bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.entries[name]; ok {
			return b, true
		}
	}
	return Binding[V]{}, false
}

// Table is a chain of scopes with a movable current scope. The checker
// stores types in it; the code generator stores frame slots.
type Table[V any] struct {
	current *Scope[V]
	depth   int
}

// New returns a table with its root scope open.
func New[V any]() *Table[V] {
	return &Table[V]{current: newScope[V](nil), depth: 1}
}

// EnterScope opens a child of the current scope.
func (t *Table[V]) EnterScope() {
	t.current = newScope(t.current)
	t.depth++
}

// ExitScope discards the current scope and its bindings. Exiting the root
// scope is a programming error.
func (t *Table[V]) ExitScope() {
	if t.current.parent == nil {
		panic("symtab: ExitScope on root scope")
	}
	t.current = t.current.parent
	t.depth--
}

// Depth is the number of open scopes, root included.
func (t *Table[V]) Depth() int { return t.depth }

// Declare binds name in the current scope. Shadowing an outer binding is
// allowed; a second binding in the same scope is not.
func (t *Table[V]) Declare(name string, v V, site token.Token) error {
	if _, ok := t.current.entries[name]; ok {
		return fmt.Errorf("variable '%s' %w", name, ErrDuplicateDeclaration)
	}
	t.current.entries[name] = Binding[V]{Name: name, Value: v, Site: site}
	return nil
}

// Lookup resolves name from the current scope outwards.
func (t *Table[V]) Lookup(name string) (Binding[V], error) {
	if b, ok := t.current.lookup(name); ok {
		return b, nil
	}
	return Binding[V]{}, fmt.Errorf("variable '%s' %w", name, ErrNotDefined)
}

// Signature is a function's parameter and return types.
type Signature struct {
	Name   string
	Params []typesys.Type
	Return typesys.Type
	Site   token.Token
}

func (s *Signature) String() string {
	out := s.Return.String() + " " + s.Name + "("
	for i, p := range s.Params {
		if i > 0 {
			out += ", "
		}
		out += p.String()
	}
	return out + ")"
}

// Signatures is the program-wide function table. It is filled before any
// body is checked and only read afterwards, so concurrent readers are safe.
type Signatures struct {
	byName map[string]*Signature
	order  []string
}

func NewSignatures() *Signatures {
	return &Signatures{byName: make(map[string]*Signature)}
}

// Declare adds sig, failing if a function of the same name exists.
func (s *Signatures) Declare(sig *Signature) error {
	if _, ok := s.byName[sig.Name]; ok {
		return fmt.Errorf("function '%s' %w", sig.Name, ErrDuplicateDeclaration)
	}
	s.byName[sig.Name] = sig
	s.order = append(s.order, sig.Name)
	return nil
}

// Lookup finds the signature of name.
func (s *Signatures) Lookup(name string) (*Signature, error) {
	if sig, ok := s.byName[name]; ok {
		return sig, nil
	}
	return nil, fmt.Errorf("function '%s' %w", name, ErrNotDefined)
}

// Len is the number of declared functions.
func (s *Signatures) Len() int { return len(s.order) }
