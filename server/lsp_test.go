package server

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ---------------------------------------------------------------------------
// LSP text extraction helpers
// ---------------------------------------------------------------------------

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		text string
		line uint32
		char uint32
		want string
	}{
		{"len(x)", 0, 3, "len"},
		{"pu", 0, 2, "pu"},
		{"", 0, 0, ""},
		{"first line\nsecond line\nhd", 2, 2, "hd"},
		{"1 + le", 0, 6, "le"},
		{"get(a, ", 0, 7, ""},
		{"abc", 0, 99, "abc"},
		{"abc", 5, 0, ""},
		{`"é" + ty`, 0, 8, "ty"},
	}
	for _, tc := range tests {
		pos := protocol.Position{Line: tc.line, Character: tc.char}
		if got := extractPrefix(tc.text, pos); got != tc.want {
			t.Errorf("extractPrefix(%q, %d:%d) = %q, want %q", tc.text, tc.line, tc.char, got, tc.want)
		}
	}
}

func TestExtractWord(t *testing.T) {
	tests := []struct {
		text string
		char uint32
		want string
	}{
		{"puts(1)", 0, "puts"},
		{"puts(1)", 2, "puts"},
		{"puts(1)", 4, "puts"},
		{"x + len(y)", 6, "len"},
		{"a + b", 2, ""},
		{"snake_case", 5, "snake_case"},
	}
	for _, tc := range tests {
		pos := protocol.Position{Line: 0, Character: tc.char}
		if got := extractWord(tc.text, pos); got != tc.want {
			t.Errorf("extractWord(%q, %d) = %q, want %q", tc.text, tc.char, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Completion and hover
// ---------------------------------------------------------------------------

func labels(items []protocol.CompletionItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestComplete(t *testing.T) {
	got := strings.Join(labels(complete("t")), ",")
	if got != "tl,type,true" {
		t.Errorf("complete(t) = %s, want tl,type,true", got)
	}

	items := complete("pu")
	if len(items) != 2 {
		t.Fatalf("complete(pu) = %v, want push and puts", labels(items))
	}
	if *items[0].Kind != protocol.CompletionItemKindFunction {
		t.Errorf("builtin completion kind = %v", *items[0].Kind)
	}
	if !strings.HasPrefix(*items[0].Detail, "push(") {
		t.Errorf("detail = %q", *items[0].Detail)
	}

	items = complete("f")
	if len(items) != 2 || *items[0].Kind != protocol.CompletionItemKindKeyword {
		t.Errorf("complete(f) = %v", labels(items))
	}

	if items := complete("zz"); len(items) != 0 {
		t.Errorf("complete(zz) = %v, want none", labels(items))
	}
}

func TestHover(t *testing.T) {
	h := hover("len")
	if h == nil {
		t.Fatal("hover(len) = nil")
	}
	content := h.Contents.(protocol.MarkupContent)
	if content.Kind != protocol.MarkupKindMarkdown || !strings.Contains(content.Value, "len(x) -> integer") {
		t.Errorf("hover(len) = %+v", content)
	}

	h = hover("let")
	if h == nil || !strings.Contains(h.Contents.(protocol.MarkupContent).Value, "not executed") {
		t.Errorf("hover(let) = %+v", h)
	}

	if h := hover("unknownName"); h != nil {
		t.Errorf("hover(unknownName) = %+v, want nil", h)
	}
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

func TestDiagnose(t *testing.T) {
	if d := diagnose(`puts("ok")`); d == nil || len(d) != 0 {
		t.Errorf("diagnose(valid) = %v, want empty non-nil", d)
	}

	d := diagnose("1;\nlet = 2")
	if len(d) != 1 {
		t.Fatalf("diagnose = %d diagnostics, want 1: %+v", len(d), d)
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 5},
	}
	if d[0].Range != want {
		t.Errorf("range = %+v, want %+v", d[0].Range, want)
	}
	if d[0].Message != "expected 'IDENTIFIER', got '='" {
		t.Errorf("message = %q", d[0].Message)
	}
	if *d[0].Severity != protocol.DiagnosticSeverityError || *d[0].Source != lspName {
		t.Errorf("severity/source = %v/%v", *d[0].Severity, *d[0].Source)
	}
}

func TestDocuments(t *testing.T) {
	s := NewLSP()
	uri := protocol.DocumentUri("file:///a.sm")
	if _, ok := s.document(uri); ok {
		t.Error("unexpected document before open")
	}
	s.setDocument(uri, "len")
	if text, ok := s.document(uri); !ok || text != "len" {
		t.Errorf("document = %q, %v", text, ok)
	}
}
