package format

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"enumflags/internal/source"
)

func formatString(t *testing.T, src string, opt Options) string {
	t.Helper()
	fs := source.NewFileSet()
	out, err := FormatFile(fs.Get(fs.AddVirtual("t.flags", []byte(src))), opt)
	if err != nil {
		t.Fatalf("FormatFile(%q): %v", src, err)
	}
	return string(out)
}

func TestFormatFile(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline body",
			in:   "enum   A{X=1,Y :2}",
			want: "enum A { X = 1, Y: 2 }\n",
		},
		{
			name: "attribute",
			in:   "# [ bitflags ( bits=8 , empty = None ) ]\npub ( crate ) enum A {}",
			want: "#[bitflags(bits = 8, empty = None)]\npub(crate) enum A {}\n",
		},
		{
			name: "multiline body is indented",
			in:   "enum A {\nX = 1,\n\t\tY = 0x2u8,\n}\n",
			want: "enum A {\n    X = 1,\n    Y = 0x2u8,\n}\n",
		},
		{
			name: "blank lines collapse",
			in:   "\n\npackage p\n\n\n\nenum A { X = 1 }\n\n\n",
			want: "package p\n\nenum A { X = 1 }\n",
		},
		{
			name: "comments are kept",
			in:   "/// doc\nenum A {\n  // first\n  X = 1, // trailing\n\n  /* block */ Y = 2\n}",
			want: "/// doc\nenum A {\n    // first\n    X = 1, // trailing\n\n    /* block */ Y = 2\n}\n",
		},
		{
			name: "trailing comment at end of file",
			in:   "enum A {}   // end   ",
			want: "enum A {} // end\n",
		},
		{
			name: "footer comment",
			in:   "enum A { X = 1 }\n// footer",
			want: "enum A { X = 1 }\n// footer\n",
		},
		{
			name: "block comment after the last token",
			in:   "enum A { X = 1 } /* tail */",
			want: "enum A { X = 1 } /* tail */\n",
		},
		{
			name: "comment-only file",
			in:   "\n\n// only\n\n",
			want: "// only\n",
		},
		{
			name: "empty file",
			in:   "\n\n",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatString(t, tt.in, Options{}); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTabs(t *testing.T) {
	got := formatString(t, "enum A {\n X = 1\n}", Options{UseTabs: true})
	if want := "enum A {\n\tX = 1\n}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = formatString(t, "enum A {\n X = 1\n}", Options{IndentWidth: 2})
	if want := "enum A {\n  X = 1\n}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatRejectsLexErrors(t *testing.T) {
	fs := source.NewFileSet()
	_, err := FormatFile(fs.Get(fs.AddVirtual("t.flags", []byte("enum A { X = 1 @ }"))), Options{})
	if !errors.Is(err, ErrLex) {
		t.Fatalf("want ErrLex, got %v", err)
	}
}

func TestCheckRoundTripKeepsTrailingComments(t *testing.T) {
	for _, src := range []string{
		"enum A {}   // end   ",
		"enum A { X = 1 }\n// footer",
		"enum A { X = 1 } /* tail */",
		"enum A { X = 1 }\n\n/// dangling doc\n",
	} {
		fs := source.NewFileSet()
		if ok, msg := CheckRoundTrip(fs.Get(fs.AddVirtual("t.flags", []byte(src))), Options{}); !ok {
			t.Fatalf("%q: %s", src, msg)
		}
	}
}

func TestStripSpace(t *testing.T) {
	if got := string(stripSpace([]byte(" enum\tA {\r\n// c \n}"))); got != "enumA{//c}" {
		t.Fatalf("stripSpace = %q", got)
	}
}

func TestCheckRoundTripCorpus(t *testing.T) {
	var paths []string
	for _, pattern := range []string{"../../testdata/*.flags", "../../examples/*/*.flags"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			t.Fatal(err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		t.Skip("no .flags corpus")
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		fs := source.NewFileSet()
		ok, msg := CheckRoundTrip(fs.Get(fs.AddVirtual(path, src)), Options{})
		if !ok {
			t.Fatalf("%s: %s", path, msg)
		}
	}
}
