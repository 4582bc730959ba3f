package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"enumflags/internal/lexer"
	"enumflags/internal/source"
)

func lex(src string) (*source.FileSet, *lexer.Lexer) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.flags", []byte(src)))
	return fs, lexer.New(file, lexer.Options{})
}

func TestFormatTokensPretty(t *testing.T) {
	fs, lx := lex("/// doc\nenum A")
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, lx.All(), fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], `"enum"`) || !strings.Contains(lines[0], "at 2:1-2:5") || !strings.Contains(lines[0], "DocLine") {
		t.Fatalf("line 1: %q", lines[0])
	}
	if !strings.Contains(lines[2], "EOF") {
		t.Fatalf("stream must end with EOF: %q", lines[2])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	_, lx := lex("enum A { X = 1 }")
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, lx.All()); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 8 || out[1].Text != "A" || out[1].Span.Start != 5 {
		t.Fatalf("tokens: %+v", out)
	}
	if out[1].Leading == nil || out[0].Leading != nil {
		t.Fatalf("leading trivia: %+v %+v", out[0], out[1])
	}
}
