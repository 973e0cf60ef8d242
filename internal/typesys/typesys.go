// Package typesys defines the WACC type model shared by the checker and the
// code generator.
package typesys

import "fmt"

// Kind categorizes the fundamental shape of a type.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindChar
	KindString
	KindPair
	KindArray
	KindError   // failed to resolve; suppresses further diagnostics
	KindUnknown // deliberately unclassified; never passes a check
)

var kindNames = [...]string{
	KindInt:     "int",
	KindBool:    "bool",
	KindChar:    "char",
	KindString:  "string",
	KindPair:    "pair",
	KindArray:   "array",
	KindError:   "<error>",
	KindUnknown: "<unknown>",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Type is implemented by every WACC type.
type Type interface {
	Kind() Kind
	String() string

	// Equals reports whether two types are structurally identical.
	Equals(other Type) bool

	// Size is the number of bytes a value of this type occupies in an array
	// slot or pair box.
	Size() int
}

type basicType struct {
	kind Kind
}

func (b *basicType) Kind() Kind     { return b.kind }
func (b *basicType) String() string { return b.kind.String() }

func (b *basicType) Equals(other Type) bool {
	if other == nil || b.kind == KindError || b.kind == KindUnknown {
		return false
	}
	return b.kind == other.Kind()
}

func (b *basicType) Size() int {
	switch b.kind {
	case KindBool, KindChar:
		return 1
	case KindInt, KindString:
		return 4
	default:
		return 0
	}
}

var (
	Int     Type = &basicType{kind: KindInt}
	Bool    Type = &basicType{kind: KindBool}
	Char    Type = &basicType{kind: KindChar}
	String  Type = &basicType{kind: KindString}
	Error   Type = &basicType{kind: KindError}
	Unknown Type = &basicType{kind: KindUnknown}
)

// PairType is pair(Fst, Snd). A pair with both elements nil is the erased
// "pair" written inside another pair type; it matches every pair.
type PairType struct {
	Fst Type
	Snd Type
}

// Pair builds pair(fst, snd).
func Pair(fst, snd Type) *PairType { return &PairType{Fst: fst, Snd: snd} }

// ErasedPair is the element-less pair, also the type of the null literal.
var ErasedPair = &PairType{}

func (p *PairType) Kind() Kind     { return KindPair }
func (p *PairType) Size() int      { return 4 }
func (p *PairType) IsErased() bool { return p.Fst == nil && p.Snd == nil }

func (p *PairType) String() string {
	if p.IsErased() {
		return "pair"
	}
	return fmt.Sprintf("pair(%s, %s)", elemString(p.Fst), elemString(p.Snd))
}

func (p *PairType) Equals(other Type) bool {
	o, ok := other.(*PairType)
	if !ok {
		return false
	}
	if p.IsErased() || o.IsErased() {
		return true
	}
	return p.Fst.Equals(o.Fst) && p.Snd.Equals(o.Snd)
}

// elemString prints nested pairs in their erased form, the way they are
// written in source.
func elemString(t Type) string {
	if t == nil {
		return "pair"
	}
	if t.Kind() == KindPair {
		return "pair"
	}
	return t.String()
}

// ArrayType is Elem[].
type ArrayType struct {
	Elem Type
}

// Array builds elem[].
func Array(elem Type) *ArrayType { return &ArrayType{Elem: elem} }

func (a *ArrayType) Kind() Kind     { return KindArray }
func (a *ArrayType) Size() int      { return 4 }
func (a *ArrayType) String() string { return a.Elem.String() + "[]" }

func (a *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	return a.Elem.Equals(o.Elem)
}

// Elem unwraps depth array dimensions from t. It reports false if t has
// fewer than depth dimensions.
func Elem(t Type, depth int) (Type, bool) {
	for i := 0; i < depth; i++ {
		a, ok := t.(*ArrayType)
		if !ok {
			return nil, false
		}
		t = a.Elem
	}
	return t, true
}

// IsComparable reports whether t may appear under an ordering operator.
func IsComparable(t Type) bool {
	return t != nil && (t.Kind() == KindInt || t.Kind() == KindChar)
}

// IsHeap reports whether values of t are pointers into the heap.
func IsHeap(t Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case KindPair, KindArray, KindString:
		return true
	}
	return false
}

// IsValid reports whether t, and every type nested inside it, is a real
// WACC type. Error and Unknown anywhere make it invalid.
func IsValid(t Type) bool {
	switch v := t.(type) {
	case nil:
		return false
	case *basicType:
		return v.kind != KindError && v.kind != KindUnknown
	case *ArrayType:
		return IsValid(v.Elem)
	case *PairType:
		if v.IsErased() {
			return true
		}
		return IsValid(v.Fst) && IsValid(v.Snd)
	}
	return false
}

// Fill replaces every Unknown nested inside t with def. A top-level Unknown
// or Error is returned as is.
func Fill(t, def Type) Type {
	switch v := t.(type) {
	case *ArrayType:
		return Array(fillElem(v.Elem, def))
	case *PairType:
		if v.IsErased() {
			return v
		}
		return Pair(fillElem(v.Fst, def), fillElem(v.Snd, def))
	}
	return t
}

func fillElem(t, def Type) Type {
	if t != nil && t.Kind() == KindUnknown {
		return def
	}
	return Fill(t, def)
}

// IsError reports whether t is the cascade-suppressing Error type.
func IsError(t Type) bool {
	return t != nil && t.Kind() == KindError
}
