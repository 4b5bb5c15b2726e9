package pyast

import (
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	t.Parallel()

	tree, err := Parse([]byte("import os\nprint(os.getcwd())\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	if got := tree.RootNode().Type(); got != "module" {
		t.Errorf("root type = %q, want module", got)
	}
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("x = 1\ndef broken(:\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid syntax at line 2") {
		t.Errorf("error = %q, want a line 2 syntax error", err)
	}
}

func TestDecodeLossy(t *testing.T) {
	t.Parallel()

	valid := []byte("x = 1\n")
	if got := DecodeLossy(valid); string(got) != string(valid) {
		t.Errorf("valid input changed: %q", got)
	}

	invalid := append([]byte("# "), 0xff, '\n')
	got := DecodeLossy(invalid)
	if !strings.Contains(string(got), "�") {
		t.Errorf("invalid byte not replaced: %q", got)
	}
	if _, err := Parse(got); err != nil {
		t.Errorf("lossy output should parse: %v", err)
	}
}

func TestLines(t *testing.T) {
	t.Parallel()

	lines := Lines([]byte("a\r\nb\nc"))
	want := []string{"a", "b", "c"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestStringLiteral(t *testing.T) {
	t.Parallel()

	src := []byte(`x = ["flask==2.0", 42]` + "\n")
	tree, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	// module > expression_statement > assignment > list
	list := tree.RootNode().NamedChild(0).NamedChild(0).ChildByFieldName("right")
	if list == nil || list.Type() != "list" {
		t.Fatalf("expected list node, got %v", list)
	}

	s, ok := StringLiteral(list.NamedChild(0), src)
	if !ok || s != "flask==2.0" {
		t.Errorf("StringLiteral = %q, %v", s, ok)
	}
	if _, ok := StringLiteral(list.NamedChild(1), src); ok {
		t.Error("integer should not be a string literal")
	}
}
