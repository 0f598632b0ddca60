package bytecode

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/simian/ast"
	"github.com/chazu/simian/object"
	"github.com/google/go-cmp/cmp"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
	}
	if OpcodeCount() != len(AllOpcodes()) {
		t.Errorf("OpcodeCount() = %d, want %d", OpcodeCount(), len(AllOpcodes()))
	}
}

func TestOpcodeOperandLen(t *testing.T) {
	tests := []struct {
		op   Opcode
		want int
	}{
		{OpPop, 0},
		{OpConstant, 2},
		{OpNil, 0},
		{OpLoadName, 2},
		{OpAdd, 0},
		{OpNeg, 0},
		{OpCall, 1},
		{OpArray, 2},
		{OpHash, 2},
		{OpUnsupported, 2},
	}
	for _, tt := range tests {
		if got := tt.op.OperandLen(); got != tt.want {
			t.Errorf("%s.OperandLen() = %d, want %d", tt.op, got, tt.want)
		}
		if got := tt.op.InstructionLen(); got != tt.want+1 {
			t.Errorf("%s.InstructionLen() = %d, want %d", tt.op, got, tt.want+1)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	op := Opcode(0xEE)
	if got := op.String(); got != "UNKNOWN(0xEE)" {
		t.Errorf("Opcode(0xEE).String() = %q", got)
	}
	if _, ok := Lookup(op); ok {
		t.Error("Lookup(0xEE) should report undefined")
	}
}

func TestMake(t *testing.T) {
	tests := []struct {
		op       Opcode
		operands []int
		want     []byte
	}{
		{OpConstant, []int{65534}, []byte{byte(OpConstant), 0xFF, 0xFE}},
		{OpCall, []int{3}, []byte{byte(OpCall), 3}},
		{OpAdd, nil, []byte{byte(OpAdd)}},
		{OpArray, nil, []byte{byte(OpArray), 0, 0}},
		{Opcode(0xEE), []int{1}, []byte{0xEE}},
	}
	for _, tt := range tests {
		got := Make(tt.op, tt.operands...)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Make(%s, %v) mismatch (-want +got):\n%s", tt.op, tt.operands, diff)
		}
	}
}

func TestReadOperand(t *testing.T) {
	code := append(Make(OpConstant, 258), Make(OpCall, 7)...)
	if got := ReadOperand(code, 0); got != 258 {
		t.Errorf("ReadOperand(CONSTANT) = %d, want 258", got)
	}
	if got := ReadOperand(code, 3); got != 7 {
		t.Errorf("ReadOperand(CALL) = %d, want 7", got)
	}
}

func TestValidate(t *testing.T) {
	ok := &Bytecode{Instructions: append(Make(OpConstant, 0), Make(OpPop)...)}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := []struct {
		name string
		code []byte
		want string
	}{
		{"unknown", []byte{0xEE}, "unknown opcode 0xEE at offset 0"},
		{"truncated", []byte{byte(OpPop), byte(OpConstant), 0}, "truncated CONSTANT instruction at offset 1"},
	}
	for _, tt := range bad {
		err := (&Bytecode{Instructions: tt.code}).Validate()
		if err == nil || err.Error() != tt.want {
			t.Errorf("%s: Validate() = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestMaxStackDepth(t *testing.T) {
	concat := func(ins ...[]byte) []byte {
		var code []byte
		for _, in := range ins {
			code = append(code, in...)
		}
		return code
	}
	tests := []struct {
		name string
		code []byte
		want int
	}{
		{"empty", nil, 0},
		{"statements", concat(Make(OpConstant, 0), Make(OpPop), Make(OpTrue)), 1},
		{"call", concat(Make(OpLoadName, 0), Make(OpConstant, 1), Make(OpConstant, 2),
			Make(OpArray, 2), Make(OpCall, 1)), 3},
		{"hash", concat(Make(OpConstant, 0), Make(OpConstant, 1), Make(OpHash, 1), Make(OpNot)), 2},
		{"unsupported", concat(Make(OpUnsupported, 0), Make(OpPop), Make(OpNil)), 1},
	}
	for _, tt := range tests {
		got, err := (&Bytecode{Instructions: tt.code}).MaxStackDepth()
		if err != nil {
			t.Errorf("%s: MaxStackDepth() error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: MaxStackDepth() = %d, want %d", tt.name, got, tt.want)
		}
	}

	bad := []struct {
		name string
		code []byte
		want string
	}{
		{"pop", Make(OpPop), "POP at offset 0 pops 1 values from a stack of 0"},
		{"call", concat(Make(OpLoadName, 0), Make(OpConstant, 1), Make(OpCall, 2)),
			"CALL at offset 6 pops 3 values from a stack of 2"},
		{"unknown", []byte{0xEE}, "unknown opcode 0xEE at offset 0"},
	}
	for _, tt := range bad {
		_, err := (&Bytecode{Instructions: tt.code}).MaxStackDepth()
		if err == nil || err.Error() != tt.want {
			t.Errorf("%s: MaxStackDepth() = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestOperatorMapping(t *testing.T) {
	ops := []ast.Operator{
		ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod, ast.Pow,
		ast.Eq, ast.NotEq, ast.Lt, ast.LtEq, ast.Gt, ast.GtEq,
	}
	for _, op := range ops {
		code, ok := InfixOpcode(op)
		if !ok {
			t.Errorf("InfixOpcode(%s) undefined", op)
			continue
		}
		if !code.IsBinary() {
			t.Errorf("%s.IsBinary() = false", code)
		}
		back, ok := code.Operator()
		if !ok || back != op {
			t.Errorf("%s.Operator() = %v, %v, want %s", code, back, ok, op)
		}
	}
	for _, op := range []ast.Operator{ast.Neg, ast.Not} {
		code, ok := PrefixOpcode(op)
		if !ok {
			t.Errorf("PrefixOpcode(%s) undefined", op)
			continue
		}
		if back, _ := code.Operator(); back != op {
			t.Errorf("%s.Operator() = %s, want %s", code, back, op)
		}
	}
	if _, ok := InfixOpcode(ast.Not); ok {
		t.Error("! must not map to an infix opcode")
	}
}

func TestDisassemble(t *testing.T) {
	b := &Bytecode{
		Constants: []object.Object{&object.Integer{Value: 1}, &object.String{Value: "len"}},
		Instructions: concat(
			Make(OpLoadName, 1),
			Make(OpConstant, 0),
			Make(OpArray, 1),
			Make(OpCall, 1),
			Make(OpPop),
			[]byte{0xEE},
			Make(OpConstant, 9),
			[]byte{byte(OpHash), 0},
		),
	}
	got := b.Disassemble()
	for _, want := range []string{
		"[  0] integer 1",
		"[  1] string len",
		"0000  LOAD_NAME 1 ; len",
		"0003  CONSTANT 0 ; 1",
		"0006  ARRAY 1",
		"0009  CALL 1",
		"000B  POP",
		"000C  UNKNOWN(0xEE)",
		"000D  CONSTANT 9 ; <out of range>",
		"0010  HASH <truncated>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q:\n%s", want, got)
		}
	}
}

func TestWireRoundTrip(t *testing.T) {
	h, err := object.BuildHash([]object.Object{
		&object.String{Value: "a"}, &object.Integer{Value: 1},
		&object.Integer{Value: 2}, object.TRUE,
	})
	if err != nil {
		t.Fatal(err)
	}
	b := &Bytecode{
		Constants: []object.Object{
			object.NIL,
			object.FALSE,
			&object.Integer{Value: -9},
			&object.String{Value: "héllo"},
			&object.Array{Elements: []object.Object{&object.Integer{Value: 1}, &object.Array{Elements: []object.Object{}}}},
			h,
		},
		Instructions: concat(Make(OpConstant, 0), Make(OpPop), Make(OpConstant, 5)),
	}

	data, err := Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(b.Instructions, got.Instructions); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
	if len(got.Constants) != len(b.Constants) {
		t.Fatalf("got %d constants, want %d", len(got.Constants), len(b.Constants))
	}
	for i := range b.Constants {
		if !object.Equal(b.Constants[i], got.Constants[i]) {
			t.Errorf("constant %d = %s, want %s", i, got.Constants[i].Inspect(), b.Constants[i].Inspect())
		}
	}

	again, err := Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(data, again); diff != "" {
		t.Errorf("encoding is not deterministic (-first +second):\n%s", diff)
	}
}

func TestWireRejectsBuiltins(t *testing.T) {
	b := &Bytecode{Constants: []object.Object{&object.Builtin{Name: "len"}}}
	_, err := Marshal(b)
	if !errors.Is(err, ErrNotSerializable) {
		t.Errorf("Marshal(builtin) err = %v, want ErrNotSerializable", err)
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte{0xFF, 0x00}); err == nil {
		t.Error("Unmarshal of garbage should fail")
	}
}

func TestUnmarshalWrongVersion(t *testing.T) {
	data, err := cborEncMode.Marshal(&wireProgram{Version: WireVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Unmarshal(data)
	if err == nil || !strings.Contains(err.Error(), "unsupported wire version") {
		t.Errorf("Unmarshal(v+1) err = %v", err)
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
