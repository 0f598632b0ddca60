package bytecode

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/simian/object"
	"github.com/fxamacker/cbor/v2"
)

// WireVersion is the current CBOR format version. Increment when making
// incompatible changes to the encoding.
const WireVersion uint16 = 1

// ErrNotSerializable is returned when a constant pool holds a value with no
// wire form, such as a builtin.
var ErrNotSerializable = errors.New("constant is not serializable")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// constKind tags the variant of a wire constant.
type constKind uint8

const (
	constNil constKind = iota
	constBool
	constInt
	constString
	constArray
	constHash
)

// wireProgram is the serialized form of a Bytecode.
type wireProgram struct {
	Version      uint16         `cbor:"1,keyasint"`
	Constants    []wireConstant `cbor:"2,keyasint"`
	Instructions []byte         `cbor:"3,keyasint"`
}

// wireConstant is one constant pool entry. Only the fields relevant to Kind
// are populated.
type wireConstant struct {
	Kind  constKind      `cbor:"1,keyasint"`
	Bool  bool           `cbor:"2,keyasint,omitempty"`
	Int   int64          `cbor:"3,keyasint,omitempty"`
	Str   string         `cbor:"4,keyasint,omitempty"`
	Elems []wireConstant `cbor:"5,keyasint,omitempty"`
	Pairs []wireConstant `cbor:"6,keyasint,omitempty"` // alternating keys and values
}

// Marshal serializes a Bytecode to canonical CBOR. Equal programs encode to
// equal bytes, which makes the output usable as cache content.
func Marshal(b *Bytecode) ([]byte, error) {
	w := wireProgram{
		Version:      WireVersion,
		Constants:    make([]wireConstant, len(b.Constants)),
		Instructions: b.Instructions,
	}
	for i, c := range b.Constants {
		wc, err := toWire(c)
		if err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
		w.Constants[i] = wc
	}
	return cborEncMode.Marshal(&w)
}

// Unmarshal deserializes a Bytecode from CBOR bytes.
func Unmarshal(data []byte) (*Bytecode, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal: %w", err)
	}
	if w.Version != WireVersion {
		return nil, fmt.Errorf("bytecode: unsupported wire version %d (want %d)", w.Version, WireVersion)
	}
	b := &Bytecode{
		Constants:    make([]object.Object, len(w.Constants)),
		Instructions: w.Instructions,
	}
	if b.Instructions == nil {
		b.Instructions = []byte{}
	}
	for i, wc := range w.Constants {
		c, err := fromWire(wc)
		if err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
		b.Constants[i] = c
	}
	return b, nil
}

func toWire(o object.Object) (wireConstant, error) {
	switch o := o.(type) {
	case *object.Nil:
		return wireConstant{Kind: constNil}, nil
	case *object.Boolean:
		return wireConstant{Kind: constBool, Bool: o.Value}, nil
	case *object.Integer:
		return wireConstant{Kind: constInt, Int: o.Value}, nil
	case *object.String:
		return wireConstant{Kind: constString, Str: o.Value}, nil
	case *object.Array:
		elems := make([]wireConstant, len(o.Elements))
		for i, e := range o.Elements {
			we, err := toWire(e)
			if err != nil {
				return wireConstant{}, err
			}
			elems[i] = we
		}
		return wireConstant{Kind: constArray, Elems: elems}, nil
	case *object.Hash:
		// Map iteration order is random; sort so the encoding is canonical.
		keys := make([]object.HashKey, 0, len(o.Pairs))
		for k := range o.Pairs {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
		pairs := make([]wireConstant, 0, 2*len(keys))
		for _, k := range keys {
			p := o.Pairs[k]
			wk, err := toWire(p.Key)
			if err != nil {
				return wireConstant{}, err
			}
			wv, err := toWire(p.Value)
			if err != nil {
				return wireConstant{}, err
			}
			pairs = append(pairs, wk, wv)
		}
		return wireConstant{Kind: constHash, Pairs: pairs}, nil
	}
	return wireConstant{}, fmt.Errorf("%w: %s", ErrNotSerializable, o.Type())
}

func fromWire(w wireConstant) (object.Object, error) {
	switch w.Kind {
	case constNil:
		return object.NIL, nil
	case constBool:
		return object.NativeBool(w.Bool), nil
	case constInt:
		return &object.Integer{Value: w.Int}, nil
	case constString:
		return &object.String{Value: w.Str}, nil
	case constArray:
		elems := make([]object.Object, len(w.Elems))
		for i, we := range w.Elems {
			e, err := fromWire(we)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return &object.Array{Elements: elems}, nil
	case constHash:
		if len(w.Pairs)%2 != 0 {
			return nil, fmt.Errorf("hash constant has odd pair list length %d", len(w.Pairs))
		}
		kvs := make([]object.Object, len(w.Pairs))
		for i, wp := range w.Pairs {
			o, err := fromWire(wp)
			if err != nil {
				return nil, err
			}
			kvs[i] = o
		}
		h, err := object.BuildHash(kvs)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	return nil, fmt.Errorf("unknown constant kind %d", w.Kind)
}

func keyLess(a, b object.HashKey) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Int != b.Int {
		return a.Int < b.Int
	}
	return a.Str < b.Str
}
