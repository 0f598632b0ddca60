package main

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/simian/bytecode"
	"github.com/chazu/simian/server"
	"github.com/chazu/simian/store"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExpression(t *testing.T) {
	for _, engine := range []string{"eval", "vm"} {
		code, out, errOut := runCLI(t, "", "-engine", engine, "-e", `puts(len([1, 2, 3]), "x")`)
		if code != 0 {
			t.Fatalf("%s: exit %d, stderr %q", engine, code, errOut)
		}
		if out != "3 x\n" {
			t.Errorf("%s: stdout = %q", engine, out)
		}
	}
}

func TestRunFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.sm", `puts("start"); 1 + true`)
	code, out, errOut := runCLI(t, "", path)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if out != "start\n" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(errOut, "unsupported operand types for operator +: 'integer' and 'boolean'") {
		t.Errorf("stderr = %q", errOut)
	}

	path = writeFile(t, dir, "syntax.sm", "(1")
	code, _, errOut = runCLI(t, "", path)
	if code != 1 || !strings.Contains(errOut, "1:3: expected ')'") {
		t.Errorf("syntax error: exit %d, stderr %q", code, errOut)
	}

	code, _, _ = runCLI(t, "", filepath.Join(dir, "missing.sm"))
	if code != 1 {
		t.Errorf("missing file exit = %d, want 1", code)
	}
}

func TestBadFlags(t *testing.T) {
	if code, _, _ := runCLI(t, "", "-engine", "jit", "-e", "1"); code != 2 {
		t.Errorf("bad engine exit = %d, want 2", code)
	}
	if code, _, _ := runCLI(t, "", "-no-such-flag"); code != 2 {
		t.Errorf("unknown flag exit = %d, want 2", code)
	}
	if code, _, errOut := runCLI(t, "", "-h"); code != 0 || !strings.Contains(errOut, "Usage: simian") {
		t.Errorf("-h exit = %d, stderr %q", code, errOut)
	}
	if code, _, errOut := runCLI(t, "", "-stack-size", "0", "-e", "1"); code != 1 || !strings.Contains(errOut, "stack-size") {
		t.Errorf("stack-size 0: exit %d, stderr %q", code, errOut)
	}
}

func TestCompileAndRunBytecode(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "prog.sm", `puts(#{"k": [1, 2]})`)
	smb := filepath.Join(dir, "prog.smb")

	if code, _, errOut := runCLI(t, "", "-compile", smb, src); code != 0 {
		t.Fatalf("compile exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(smb)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bytecode.Unmarshal(data); err != nil {
		t.Fatalf("compiled file does not decode: %v", err)
	}

	code, out, errOut := runCLI(t, "", smb)
	if code != 0 {
		t.Fatalf("run .smb exit %d: %s", code, errOut)
	}
	if out != "{k: [1, 2]}\n" {
		t.Errorf("stdout = %q", out)
	}

	code, out, _ = runCLI(t, "", "-dis", smb)
	if code != 0 || !strings.Contains(out, "HASH 1") || !strings.Contains(out, "LOAD_NAME") {
		t.Errorf("-dis exit %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "; max stack depth 4\n") {
		t.Errorf("-dis output lacks the stack depth:\n%s", out)
	}

	bad := writeFile(t, dir, "bad.smb", "garbage")
	if code, _, _ := runCLI(t, "", bad); code != 1 {
		t.Errorf("garbage .smb exit = %d, want 1", code)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "simian.toml", `
[runtime]
engine = "vm"
stack-size = 2

[cache]
path = "cache.db"
`)

	code, _, errOut := runCLI(t, "", "-config", dir, "-e", "[1, 2, 3]")
	if code != 1 || !strings.Contains(errOut, "stack overflow") {
		t.Errorf("stack-size from config: exit %d, stderr %q", code, errOut)
	}

	// Flags override the file.
	code, _, errOut = runCLI(t, "", "-config", dir, "-stack-size", "16", "-e", "[1, 2, 3]")
	if code != 0 {
		t.Errorf("flag override: exit %d, stderr %q", code, errOut)
	}

	s, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if n, err := s.Len(t.Context()); err != nil || n == 0 {
		t.Errorf("cache entries = %d, %v, want at least 1", n, err)
	}

	bad := t.TempDir()
	writeFile(t, bad, "simian.toml", `[runtime]
engine = "nope"
`)
	if code, _, _ := runCLI(t, "", "-config", bad, "-e", "1"); code != 1 {
		t.Errorf("invalid config exit = %d, want 1", code)
	}
}

func TestForget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "simian.toml", "[cache]\npath = \"cache.db\"\n")
	prog := writeFile(t, dir, "prog.sm", "1 + 1")
	other := writeFile(t, dir, "other.sm", "2 + 2")
	for _, path := range []string{prog, other} {
		if code, _, errOut := runCLI(t, "", "-config", dir, path); code != 0 {
			t.Fatalf("run %s: exit %d, stderr %q", path, code, errOut)
		}
	}

	code, out, errOut := runCLI(t, "", "-config", dir, "-forget", prog)
	if code != 0 {
		t.Fatalf("-forget exit %d, stderr %q", code, errOut)
	}
	if !strings.HasPrefix(out, "1 cached programs remain in ") || !strings.HasSuffix(out, "cache.db\n") {
		t.Errorf("-forget stdout = %q", out)
	}

	s, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Get(t.Context(), store.KeyOf("1 + 1")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("forgotten program still cached: %v", err)
	}
	if _, err := s.Get(t.Context(), store.KeyOf("2 + 2")); err != nil {
		t.Errorf("other program lost: %v", err)
	}

	if code, _, _ := runCLI(t, "", "-no-cache", "-config", dir, "-forget", prog); code != 1 {
		t.Errorf("-forget without a cache exit = %d, want 1", code)
	}
}

func TestRemote(t *testing.T) {
	srv := server.New()
	ts := httptest.NewServer(srv.Handler())
	defer func() {
		ts.Close()
		srv.Stop()
	}()

	code, out, errOut := runCLI(t, "", "-remote", ts.URL, "-e", `puts("remote"); 1 + 1`)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "remote\n2\n" {
		t.Errorf("stdout = %q", out)
	}

	code, _, errOut = runCLI(t, "", "-remote", ts.URL, "-e", "nope")
	if code != 1 || !strings.Contains(errOut, "identifier not found: nope") {
		t.Errorf("remote failure: exit %d, stderr %q", code, errOut)
	}
}

func TestREPL(t *testing.T) {
	input := strings.Join([]string{
		"1 + 2",
		`puts("hi")`,
		"{1;",
		"2}",
		":engine eval",
		"#{",
		`"a": 1`,
		"}",
		"nope",
		":engine",
		":builtins",
		":bogus",
		"exit",
		"99",
	}, "\n")
	code, out, _ := runCLI(t, input)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	for _, want := range []string{
		">> 3\n",
		"hi\nnil\n",
		".. 2\n",
		"engine: eval\n",
		"{a: 1}\n",
		"Error: identifier not found: nope\n",
		">> eval\n",
		"len(x) -> integer",
		"Unknown command :bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("REPL output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "99") {
		t.Error("REPL kept reading after exit")
	}
}

func TestIncomplete(t *testing.T) {
	tests := map[string]bool{
		"1 + 2":       false,
		"{1;":         true,
		"[1, [2]":     true,
		`"abc`:        true,
		`"a{"`:        false,
		`"a\"{"`:      false,
		"#{\"k\": 1}": false,
		"(1))":        false,
	}
	for input, want := range tests {
		if got := incomplete(input); got != want {
			t.Errorf("incomplete(%q) = %v, want %v", input, got, want)
		}
	}
}
