// Package builtin holds the fixed catalog of native operations callable by
// name from programs. The catalog is built once at init and never modified,
// so it is safe to share between concurrent evaluations.
package builtin

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/chazu/simian/object"
)

// entry pairs a native operation with its one-line documentation.
type entry struct {
	builtin *object.Builtin
	doc     string
}

var catalog map[string]entry

func init() {
	defs := []struct {
		name string
		fn   object.BuiltinFunction
		doc  string
	}{
		{"type", builtinType, "type(x) -> string: the type name of x"},
		{"puts", builtinPuts, "puts(x, ...) -> nil: print the arguments separated by spaces"},
		{"len", builtinLen, "len(x) -> integer: characters in a string or elements in an array"},
		{"get", builtinGet, "get(collection, key) -> value: element or nil when absent"},
		{"push", builtinPush, "push(array, x) -> array: a new array with x appended"},
		{"cons", builtinCons, "cons(x, array) -> array: a new array with x prepended"},
		{"hd", builtinHd, "hd(array) -> value: the first element, or nil when empty"},
		{"tl", builtinTl, "tl(array) -> array: all but the first element, or nil when empty"},
	}
	catalog = make(map[string]entry, len(defs))
	for _, d := range defs {
		catalog[d.name] = entry{
			builtin: &object.Builtin{Name: d.name, Fn: d.fn},
			doc:     d.doc,
		}
	}
}

// Lookup returns the builtin bound to name. The boolean is false for
// unknown names; reporting that is the caller's job.
func Lookup(name string) (*object.Builtin, bool) {
	e, ok := catalog[name]
	if !ok {
		return nil, false
	}
	return e.builtin, true
}

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Doc returns the one-line documentation for name, or "" if unknown.
func Doc(name string) string {
	return catalog[name].doc
}

// ---------------------------------------------------------------------------
// Argument checking
// ---------------------------------------------------------------------------

func checkArity(name string, args []object.Object, want int) error {
	if len(args) != want {
		return object.Errorf(object.ErrArity,
			"wrong number of arguments to `%s`: expected %d, got %d", name, want, len(args))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

func builtinType(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("type", args, 1); err != nil {
		return nil, err
	}
	return &object.String{Value: string(args[0].Type())}, nil
}

func builtinPuts(out io.Writer, args []object.Object) (object.Object, error) {
	if len(args) == 0 {
		return nil, object.Errorf(object.ErrArity,
			"wrong number of arguments to `puts`: expected at least 1, got 0")
	}
	for i, arg := range args {
		sep := " "
		if i == len(args)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprint(out, arg.Inspect(), sep); err != nil {
			return nil, fmt.Errorf("puts: %w", err)
		}
	}
	return object.NIL, nil
}

func builtinLen(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("len", args, 1); err != nil {
		return nil, err
	}
	switch arg := args[0].(type) {
	case *object.String:
		return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}, nil
	case *object.Array:
		return &object.Integer{Value: int64(len(arg.Elements))}, nil
	default:
		return nil, object.Errorf(object.ErrType, "'%s' object has no len", arg.Type())
	}
}

func builtinGet(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("get", args, 2); err != nil {
		return nil, err
	}
	switch coll := args[0].(type) {
	case *object.Array:
		idx, ok := args[1].(*object.Integer)
		if !ok {
			return nil, object.Errorf(object.ErrType, "array index must be integer, not '%s'", args[1].Type())
		}
		if idx.Value < 0 || idx.Value >= int64(len(coll.Elements)) {
			return object.NIL, nil
		}
		return coll.Elements[idx.Value], nil
	case *object.Hash:
		key, err := object.HashKeyOf(args[1])
		if err != nil {
			return nil, err
		}
		if v, ok := coll.Get(key); ok {
			return v, nil
		}
		return object.NIL, nil
	default:
		return nil, object.Errorf(object.ErrType, "'%s' is not an array or hash object", coll.Type())
	}
}

func builtinPush(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("push", args, 2); err != nil {
		return nil, err
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, object.Errorf(object.ErrType, "first argument to `push` must be array, got '%s'", args[0].Type())
	}
	elems := make([]object.Object, len(arr.Elements), len(arr.Elements)+1)
	copy(elems, arr.Elements)
	return &object.Array{Elements: append(elems, args[1])}, nil
}

func builtinCons(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("cons", args, 2); err != nil {
		return nil, err
	}
	arr, ok := args[1].(*object.Array)
	if !ok {
		return nil, object.Errorf(object.ErrType, "second argument to `cons` must be array, got '%s'", args[1].Type())
	}
	elems := make([]object.Object, 0, len(arr.Elements)+1)
	elems = append(elems, args[0])
	return &object.Array{Elements: append(elems, arr.Elements...)}, nil
}

func builtinHd(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("hd", args, 1); err != nil {
		return nil, err
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, object.Errorf(object.ErrType, "argument to `hd` must be array, got '%s'", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return object.NIL, nil
	}
	return arr.Elements[0], nil
}

func builtinTl(_ io.Writer, args []object.Object) (object.Object, error) {
	if err := checkArity("tl", args, 1); err != nil {
		return nil, err
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, object.Errorf(object.ErrType, "argument to `tl` must be array, got '%s'", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return object.NIL, nil
	}
	tail := make([]object.Object, len(arr.Elements)-1)
	copy(tail, arr.Elements[1:])
	return &object.Array{Elements: tail}, nil
}
