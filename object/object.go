// Package object defines the universal runtime value shared by the
// tree-walking evaluator and the bytecode VM, together with the operator
// semantics both engines dispatch into.
package object

import (
	"io"
	"sort"
	"strconv"
	"strings"
)

// ObjectType is the canonical lowercase type name of a value.
type ObjectType string

const (
	NilType     ObjectType = "nil"
	BooleanType ObjectType = "boolean"
	IntegerType ObjectType = "integer"
	StringType  ObjectType = "string"
	ArrayType   ObjectType = "array"
	HashType    ObjectType = "hash"
	BuiltinType ObjectType = "builtin"
)

// Object is a runtime value. The set of implementations is closed to this
// package.
type Object interface {
	// Type returns the canonical type name used in error messages and by
	// the type builtin.
	Type() ObjectType
	// Inspect renders the value as human-readable text.
	Inspect() string
	object() // marker method
}

// ---------------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------------

// Nil is the absence of a value.
type Nil struct{}

func (*Nil) Type() ObjectType { return NilType }
func (*Nil) Inspect() string  { return "nil" }
func (*Nil) object()          {}

// Boolean is true or false.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BooleanType }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) object()          {}

// Integer is a 64-bit signed integer. Arithmetic wraps on overflow.
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return IntegerType }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) object()          {}

// String is a sequence of Unicode scalar values stored as UTF-8.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return StringType }
func (s *String) Inspect() string  { return s.Value }
func (s *String) object()          {}

// Shared immutable singletons.
var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// NativeBool returns the shared Boolean for b.
func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// ---------------------------------------------------------------------------
// Collections
// ---------------------------------------------------------------------------

// Array is an ordered sequence of values. Arrays are never mutated after
// construction; operations that "modify" an array build a new one.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ArrayType }
func (a *Array) object()          {}

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// HashPair keeps the original key object next to its value so a hash can be
// rendered and iterated.
type HashPair struct {
	Key   Object
	Value Object
}

// Hash maps hashable keys to values. Iteration order is unspecified.
type Hash struct {
	Pairs map[HashKey]HashPair
}

// NewHash creates an empty hash with room for n pairs.
func NewHash(n int) *Hash {
	return &Hash{Pairs: make(map[HashKey]HashPair, n)}
}

func (h *Hash) Type() ObjectType { return HashType }
func (h *Hash) object()          {}

// Inspect renders pairs sorted by key text so output is stable. Callers
// must not depend on any particular order.
func (h *Hash) Inspect() string {
	parts := make([]string, 0, len(h.Pairs))
	for _, p := range h.Pairs {
		parts = append(parts, p.Key.Inspect()+": "+p.Value.Inspect())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value stored under key, and whether it was present.
func (h *Hash) Get(key HashKey) (Object, bool) {
	p, ok := h.Pairs[key]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// BuiltinFunction is a native operation. out receives any text the
// operation prints; it is supplied by the calling engine.
type BuiltinFunction func(out io.Writer, args []Object) (Object, error)

// Builtin is a reference to a native operation.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BuiltinType }
func (b *Builtin) Inspect() string  { return "builtin(" + b.Name + ")" }
func (b *Builtin) object()          {}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// IsTruthy reports the truth value of o. Integers are truthy when non-zero;
// nil and false are falsy; every other value is truthy.
func IsTruthy(o Object) bool {
	switch o := o.(type) {
	case *Boolean:
		return o.Value
	case *Nil:
		return false
	case *Integer:
		return o.Value != 0
	default:
		return true
	}
}

// Equal reports deep structural equality of two values.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Boolean:
		bb, ok := b.(*Boolean)
		return ok && a.Value == bb.Value
	case *Integer:
		bi, ok := b.(*Integer)
		return ok && a.Value == bi.Value
	case *String:
		bs, ok := b.(*String)
		return ok && a.Value == bs.Value
	case *Array:
		ba, ok := b.(*Array)
		if !ok || len(a.Elements) != len(ba.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], ba.Elements[i]) {
				return false
			}
		}
		return true
	case *Hash:
		bh, ok := b.(*Hash)
		if !ok || len(a.Pairs) != len(bh.Pairs) {
			return false
		}
		for k, p := range a.Pairs {
			q, ok := bh.Pairs[k]
			if !ok || !Equal(p.Value, q.Value) {
				return false
			}
		}
		return true
	case *Builtin:
		bb, ok := b.(*Builtin)
		return ok && a.Name == bb.Name
	}
	return false
}

// Copy returns a value that shares no mutable structure with o. Scalars
// are immutable and returned as is.
func Copy(o Object) Object {
	switch o := o.(type) {
	case *Array:
		elems := make([]Object, len(o.Elements))
		for i, e := range o.Elements {
			elems[i] = Copy(e)
		}
		return &Array{Elements: elems}
	case *Hash:
		h := NewHash(len(o.Pairs))
		for k, p := range o.Pairs {
			h.Pairs[k] = HashPair{Key: p.Key, Value: Copy(p.Value)}
		}
		return h
	default:
		return o
	}
}
