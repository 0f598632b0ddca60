package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/simian/bytecode"
	"github.com/chazu/simian/compiler"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKeyOf(t *testing.T) {
	if KeyOf("1 + 2") != KeyOf("1 + 2") {
		t.Error("KeyOf is not deterministic")
	}
	if KeyOf("1 + 2") == KeyOf("1 + 3") {
		t.Error("different sources share a key")
	}
	// sha256("")
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := KeyOf("").String(); got != want {
		t.Errorf("KeyOf(\"\") = %s, want %s", got, want)
	}
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	src := `puts(#{"a": [1, true, nil]}, "x")`
	bc, err := compiler.CompileSource(src)
	if err != nil {
		t.Fatal(err)
	}
	key := KeyOf(src)

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Put err = %v, want ErrNotFound", err)
	}
	if err := s.Put(ctx, key, bc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(bc.Disassemble(), got.Disassemble()); diff != "" {
		t.Errorf("cached bytecode mismatch (-want +got):\n%s", diff)
	}

	// Overwrite is allowed.
	if err := s.Put(ctx, key, bc); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	if n, err := s.Len(ctx); err != nil || n != 1 {
		t.Errorf("Len() = %d, %v, want 1", n, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete err = %v, want ErrNotFound", err)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	bc := &bytecode.Bytecode{Instructions: bytecode.Make(bytecode.OpTrue)}
	if err := s.Put(ctx, KeyOf("true"), bc); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, KeyOf("true"))
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if diff := cmp.Diff(bc.Instructions, got.Instructions); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestStaleVersionIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	key := KeyOf("1")
	if _, err := s.db.Exec("INSERT INTO bytecode (key, version, data) VALUES (?, ?, ?)",
		key.String(), bytecode.WireVersion+1, []byte{0xA0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(stale) err = %v, want ErrNotFound", err)
	}
}

func TestCorruptEntry(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	key := KeyOf("1")
	if _, err := s.db.Exec("INSERT INTO bytecode (key, version, data) VALUES (?, ?, ?)",
		key.String(), bytecode.WireVersion, []byte("not cbor")); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(ctx, key)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get(corrupt) err = %v, want decode error", err)
	}
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if n, err := s.Len(context.Background()); err != nil || n != 0 {
		t.Errorf("Len() = %d, %v, want 0", n, err)
	}
}
