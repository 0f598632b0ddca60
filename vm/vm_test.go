package vm

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chazu/simian/bytecode"
	"github.com/chazu/simian/compiler"
	"github.com/chazu/simian/evaluator"
	"github.com/chazu/simian/object"
)

func code(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func num(v int64) *object.Integer { return &object.Integer{Value: v} }

func runSource(t *testing.T, input string, opts ...Option) (*VM, error) {
	t.Helper()
	bc, err := compiler.CompileSource(input)
	if err != nil {
		t.Fatalf("CompileSource(%q): %v", input, err)
	}
	vm := New(bc, append([]Option{WithOutput(io.Discard)}, opts...)...)
	return vm, vm.Run()
}

func TestConstantsLeaveLastOnTop(t *testing.T) {
	bc := &bytecode.Bytecode{
		Constants: []object.Object{num(10), num(20), num(30)},
		Instructions: code(
			bytecode.Make(bytecode.OpConstant, 0),
			bytecode.Make(bytecode.OpConstant, 1),
			bytecode.Make(bytecode.OpConstant, 2),
		),
	}
	vm := New(bc)
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	top, ok := vm.StackTop()
	if !ok {
		t.Fatal("stack is empty")
	}
	if !object.Equal(top, num(30)) {
		t.Errorf("StackTop() = %s, want 30", top.Inspect())
	}
	if vm.SP() != 3 {
		t.Errorf("SP() = %d, want 3", vm.SP())
	}
	// Peeking does not consume.
	again, _ := vm.StackTop()
	if again != top {
		t.Error("StackTop is not idempotent")
	}
}

func TestEmptyProgram(t *testing.T) {
	vm := New(&bytecode.Bytecode{})
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if _, ok := vm.StackTop(); ok {
		t.Error("StackTop() on an empty stack should report absence")
	}
	if vm.Result() != object.NIL {
		t.Errorf("Result() = %s, want nil", vm.Result().Inspect())
	}
}

func TestConstantsAreCopied(t *testing.T) {
	arr := &object.Array{Elements: []object.Object{num(1)}}
	bc := &bytecode.Bytecode{
		Constants:    []object.Object{arr},
		Instructions: bytecode.Make(bytecode.OpConstant, 0),
	}
	vm := New(bc)
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	pushed := vm.Result().(*object.Array)
	pushed.Elements[0] = num(99)
	if arr.Elements[0].(*object.Integer).Value != 1 {
		t.Error("mutating a loaded constant changed the pool")
	}
}

func TestStackOverflow(t *testing.T) {
	bc := &bytecode.Bytecode{
		Instructions: code(
			bytecode.Make(bytecode.OpNil),
			bytecode.Make(bytecode.OpNil),
			bytecode.Make(bytecode.OpNil),
		),
	}
	vm := New(bc, WithStackSize(2))
	err := vm.Run()
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("Run() err = %v, want ErrStackOverflow", err)
	}
	if vm.SP() != 2 {
		t.Errorf("SP() after overflow = %d, want 2", vm.SP())
	}
	if object.KindName(err) != "stack-overflow" {
		t.Errorf("KindName = %q", object.KindName(err))
	}
}

func TestStackUnderflow(t *testing.T) {
	tests := []struct {
		name string
		code []byte
	}{
		{"pop", bytecode.Make(bytecode.OpPop)},
		{"add", code(bytecode.Make(bytecode.OpTrue), bytecode.Make(bytecode.OpAdd))},
		{"not", bytecode.Make(bytecode.OpNot)},
		{"call", bytecode.Make(bytecode.OpCall, 2)},
		{"array", code(bytecode.Make(bytecode.OpNil), bytecode.Make(bytecode.OpArray, 2))},
		{"hash", code(bytecode.Make(bytecode.OpNil), bytecode.Make(bytecode.OpHash, 1))},
	}
	for _, tt := range tests {
		err := New(&bytecode.Bytecode{Instructions: tt.code}).Run()
		if !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("%s: Run() err = %v, want ErrStackUnderflow", tt.name, err)
		}
	}
}

func TestBadConstantIndex(t *testing.T) {
	bc := &bytecode.Bytecode{
		Constants:    []object.Object{num(1)},
		Instructions: bytecode.Make(bytecode.OpConstant, 5),
	}
	err := New(bc).Run()
	if !errors.Is(err, ErrConstantIndex) {
		t.Fatalf("Run() err = %v, want ErrConstantIndex", err)
	}
	if want := "constant index 5 out of range"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestBadInstructions(t *testing.T) {
	tests := []struct {
		name string
		bc   *bytecode.Bytecode
		msg  string
	}{
		{
			"unknown opcode",
			&bytecode.Bytecode{Instructions: []byte{byte(bytecode.OpNil), 0xEE}},
			"unknown opcode 0xEE at offset 1",
		},
		{
			"truncated operand",
			&bytecode.Bytecode{Instructions: []byte{byte(bytecode.OpConstant), 0}},
			"truncated CONSTANT instruction at offset 0",
		},
		{
			"name operand not a string",
			&bytecode.Bytecode{
				Constants:    []object.Object{num(1)},
				Instructions: bytecode.Make(bytecode.OpLoadName, 0),
			},
			"LOAD_NAME operand 0 is integer, not string",
		},
	}
	for _, tt := range tests {
		err := New(tt.bc).Run()
		if !errors.Is(err, ErrBadInstruction) {
			t.Errorf("%s: Run() err = %v, want ErrBadInstruction", tt.name, err)
			continue
		}
		if err.Error() != tt.msg {
			t.Errorf("%s: message = %q, want %q", tt.name, err.Error(), tt.msg)
		}
	}
}

func TestRunResetsState(t *testing.T) {
	vm, err := runSource(t, "1; 2")
	if err != nil {
		t.Fatal(err)
	}
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if vm.SP() != 1 || !object.Equal(vm.Result(), num(2)) {
		t.Errorf("second Run: sp=%d result=%s", vm.SP(), vm.Result().Inspect())
	}
}

func TestStatementsLeaveOneValue(t *testing.T) {
	for _, input := range []string{"1", "1; 2; 3", "{1; 2}; {}", "puts(1); len([1])"} {
		vm, err := runSource(t, input)
		if err != nil {
			t.Errorf("Run(%q): %v", input, err)
			continue
		}
		if vm.SP() != 1 {
			t.Errorf("Run(%q) left %d values, want 1", input, vm.SP())
		}
	}
}

func TestWithOutputAndTrace(t *testing.T) {
	var out bytes.Buffer
	bc, err := compiler.CompileSource(`puts("hi", 1)`)
	if err != nil {
		t.Fatal(err)
	}
	vm := New(bc, WithOutput(&out), WithTrace(true))
	if err := vm.Run(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi 1\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestLargeArrayNeedsStack(t *testing.T) {
	src := "[" + strings.Repeat("1, ", 10) + "1]"
	_, err := runSource(t, src, WithStackSize(5))
	if !errors.Is(err, ErrStackOverflow) {
		t.Errorf("Run(11 elements, stack 5) err = %v, want ErrStackOverflow", err)
	}
	vm, err := runSource(t, src, WithStackSize(11))
	if err != nil {
		t.Fatalf("Run(11 elements, stack 11): %v", err)
	}
	if got := len(vm.Result().(*object.Array).Elements); got != 11 {
		t.Errorf("array has %d elements, want 11", got)
	}
}

// A program runs with exactly the stack its static depth asks for, and
// overflows with one slot less.
func TestStaticDepthMatchesRun(t *testing.T) {
	for _, src := range []string{
		"1 + 2; 3",
		"[1, [2, 3]]",
		`#{"a": [1, 2], "b": 3}`,
		"len(push([1], 2))",
		"-(1 + 2 * 3)",
		"get([1, 2], 0) == 1",
	} {
		bc, err := compiler.CompileSource(src)
		if err != nil {
			t.Fatalf("CompileSource(%q): %v", src, err)
		}
		depth, err := bc.MaxStackDepth()
		if err != nil {
			t.Fatalf("%q: MaxStackDepth: %v", src, err)
		}
		if err := New(bc, WithStackSize(depth)).Run(); err != nil {
			t.Errorf("%q: Run with stack %d: %v", src, depth, err)
		}
		if depth > 1 {
			err := New(bc, WithStackSize(depth-1)).Run()
			if !errors.Is(err, ErrStackOverflow) {
				t.Errorf("%q: Run with stack %d err = %v, want ErrStackOverflow", src, depth-1, err)
			}
		}
	}
}

// equivalencePrograms are run under both engines. Each must produce the
// same value, or the same error kind and message, and the same output.
var equivalencePrograms = []string{
	"",
	"1",
	"1; 2; 3",
	"{}",
	"{1; 2; 3}",
	"{1; {}}",
	"-5",
	"--5",
	"!0",
	"!1",
	"!nil",
	"!true",
	"!!true",
	`!""`,
	"5 + 5 * 2 - 10 / 2",
	"(5 + 10 * 2 + 15 / 3) * 2 + -10",
	"-7 / 2",
	"9223372036854775807 + 1",
	"-9223372036854775807 - 1",
	"(-9223372036854775807 - 1) / -1",
	"-(-9223372036854775807 - 1)",
	"1 < 2 == true",
	"1 >= 2 != false",
	"true == false",
	"5 / 0",
	"5 % 2",
	"2 ^ 3",
	"5 + true",
	"true + false",
	"true < false",
	`"a" + "b"`,
	`"a" == "a"`,
	"nil == nil",
	"-true",
	`-"x"`,
	"foobar",
	"1(2)",
	`"f"()`,
	"[1, 2 * 2, 3 + 3]",
	"[[], [[]]]",
	`#{"a": 1, 2: true, false: "x"}`,
	`#{"a": 1, "a": 2}`,
	`#{[1]: 2}`,
	`#{#{}: 1}`,
	`#{nil: 1}`,
	`#{len: 1}`,
	"len",
	`type(len)`,
	`type(#{})`,
	`len("héllo")`,
	`len([1, 2, 3])`,
	`len(1)`,
	`len()`,
	`len("a", "b")`,
	`puts()`,
	`puts(1, "two", [3], #{"k": 4})`,
	`get([1, 2, 3], 0)`,
	`get([1, 2, 3], -1)`,
	`get([1, 2, 3], 10)`,
	`get([1], "0")`,
	`get(#{"a": 1}, "a")`,
	`get(#{"a": 1}, "b")`,
	`get(#{"a": 1}, [1])`,
	`get(1, 1)`,
	`push([1, 2], 3)`,
	`push(1, 2)`,
	`cons(0, [1])`,
	`cons(0, 1)`,
	`hd([])`,
	`hd([1, 2])`,
	`tl([])`,
	`tl([1, 2, 3])`,
	`hd("abc")`,
	`len(push([1, 2], 3))`,
	`hd(tl(cons(1, cons(2, []))))`,
	`puts("left") == puts("right")`,
	`[puts(1), puts(2), puts(3)]`,
	`#{puts("k1"): puts("v1"), puts("k2"): 1}`,
	`puts(puts("inner"))`,
	`puts("a"); 1 / 0; puts("b")`,
	`puts("a"); let x = 1; puts("b")`,
	`[puts(1), foo, puts(2)]`,
	`puts(1, nope(puts(2)))`,
	`len(puts("x"), puts("y"))`,
	"let x = 5",
	"return 5",
	"return",
	"if (true) { 1 } else { 2 }",
	"fn(x) { x }",
	"[1, 2][0]",
	`puts(fn() { 1 })`,
	"{1; let y = 2; 3}",
}

func TestEngineEquivalence(t *testing.T) {
	for _, input := range equivalencePrograms {
		prog, err := compiler.Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}

		var evalOut bytes.Buffer
		evalVal, evalErr := evaluator.New(&evalOut).EvalProgram(prog)

		bc, err := compiler.Compile(prog)
		if err != nil {
			t.Fatalf("Compile(%q): %v", input, err)
		}
		var vmOut bytes.Buffer
		vm := New(bc, WithOutput(&vmOut))
		vmErr := vm.Run()

		if evalOut.String() != vmOut.String() {
			t.Errorf("%q: output differs: eval %q, vm %q", input, evalOut.String(), vmOut.String())
		}
		switch {
		case evalErr != nil || vmErr != nil:
			if evalErr == nil || vmErr == nil {
				t.Errorf("%q: eval err = %v, vm err = %v", input, evalErr, vmErr)
				continue
			}
			if object.KindName(evalErr) != object.KindName(vmErr) {
				t.Errorf("%q: kind differs: eval %q, vm %q", input, object.KindName(evalErr), object.KindName(vmErr))
			}
			if evalErr.Error() != vmErr.Error() {
				t.Errorf("%q: message differs: eval %q, vm %q", input, evalErr.Error(), vmErr.Error())
			}
		default:
			vmVal := vm.Result()
			if !object.Equal(evalVal, vmVal) {
				t.Errorf("%q: value differs: eval %s, vm %s", input, evalVal.Inspect(), vmVal.Inspect())
			}
			if evalVal.Type() != vmVal.Type() {
				t.Errorf("%q: type differs: eval %s, vm %s", input, evalVal.Type(), vmVal.Type())
			}
		}
	}
}
