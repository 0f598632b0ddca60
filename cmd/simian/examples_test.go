package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestExamples runs every program under examples/ on both engines and
// compares stdout with the .out file next to it.
func TestExamples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.sm"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no example programs found")
	}

	for _, file := range files {
		want, err := os.ReadFile(strings.TrimSuffix(file, ".sm") + ".out")
		if err != nil {
			t.Fatal(err)
		}
		for _, engine := range []string{"eval", "vm"} {
			t.Run(filepath.Base(file)+"/"+engine, func(t *testing.T) {
				code, out, errOut := runCLI(t, "", "-no-cache", "-engine", engine, file)
				if code != 0 {
					t.Fatalf("exit %d: %s", code, errOut)
				}
				if out != string(want) {
					t.Errorf("stdout:\n%s\nwant:\n%s", out, want)
				}
			})
		}
	}
}
