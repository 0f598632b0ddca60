package object

// HashKey is the hashable projection of a value. It is a comparable struct,
// so Go map equality gives exact value equality: no two distinct keys can
// collide.
type HashKey struct {
	Type ObjectType
	Int  int64  // Integer value, or 0/1 for Boolean
	Str  string // String value
}

// Hashable is implemented by the variants usable as hash keys.
type Hashable interface {
	Object
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: IntegerType, Int: i.Value}
}

func (b *Boolean) HashKey() HashKey {
	var v int64
	if b.Value {
		v = 1
	}
	return HashKey{Type: BooleanType, Int: v}
}

func (s *String) HashKey() HashKey {
	return HashKey{Type: StringType, Str: s.Value}
}

// HashKeyOf projects o onto a HashKey, failing with ErrUnhashable for
// arrays, hashes, builtins and nil.
func HashKeyOf(o Object) (HashKey, error) {
	h, ok := o.(Hashable)
	if !ok {
		return HashKey{}, Errorf(ErrUnhashable, "unhashable type: '%s'", o.Type())
	}
	return h.HashKey(), nil
}
