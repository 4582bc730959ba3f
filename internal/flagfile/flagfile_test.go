package flagfile_test

import (
	"testing"

	"enumflags/internal/diag"
	"enumflags/internal/flagfile"
	"enumflags/internal/source"
	"enumflags/internal/token"
	"enumflags/internal/tree"
)

func parse(t *testing.T, src string) (*flagfile.File, bool, *diag.Bag, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.flags", []byte(src)))
	bag := diag.NewBag(16)
	f, ok := flagfile.Parse(file, diag.BagReporter{Bag: bag})
	return f, ok, bag, file
}

func TestParseUnits(t *testing.T) {
	src := `// colours used by the renderer
package colors

/// Primary colours.
#[bitflags(bits = 8, empty = Black)]
pub enum Color { Red = 1, Green = 2, Blue = 4 }

#[bitflags]
enum Mode { Read = 1 };

enum Plain { A = 1 }
`
	f, ok, bag, file := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	if f.Package != "colors" || file.Text(f.PackageSpan) != "colors" {
		t.Fatalf("package: %q", f.Package)
	}
	if len(f.Units) != 3 {
		t.Fatalf("want 3 units, got %d", len(f.Units))
	}

	color := f.Units[0]
	if got := tree.Nodes(color.Args); got != "bits = 8, empty = Black" {
		t.Fatalf("args: %q", got)
	}
	if got := tree.Nodes(color.Decl); got != "pub enum Color {Red = 1, Green = 2, Blue = 4}" {
		t.Fatalf("decl: %q", got)
	}
	var docs int
	for _, tv := range color.Decl[0].Tok.Leading {
		if tv.Kind == token.TriviaDocLine {
			docs++
		}
	}
	if docs != 1 {
		t.Fatalf("attribute doc must move to the declaration")
	}
	if file.Text(color.Span)[:2] != "#[" {
		t.Fatalf("unit span must start at the attribute: %q", file.Text(color.Span))
	}

	if f.Units[1].Args != nil || f.Units[1].Attr.Len() == 0 {
		t.Fatalf("bare attribute: %+v", f.Units[1])
	}
	if f.Units[2].Attr.Len() != 0 || len(f.Units[2].Decl) != 3 {
		t.Fatalf("unit without attribute: %+v", f.Units[2])
	}
}

func TestNoPackage(t *testing.T) {
	f, ok, bag, _ := parse(t, "enum A { X = 1 }")
	if !ok || f.Package != "" || len(f.Units) != 1 {
		t.Fatalf("unexpected: ok=%v pkg=%q units=%d %v", ok, f.Package, len(f.Units), bag.Items())
	}
}

func TestAlternativeAttrName(t *testing.T) {
	f, ok, bag, _ := parse(t, "#[EnumBitFlags(bits = 16)] enum A { X = 1 }")
	if !ok || len(f.Units) != 1 || len(f.Units[0].Args) != 3 {
		t.Fatalf("EnumBitFlags must be accepted: %v", bag.Items())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  diag.Code
		units int
	}{
		{"package without name", "package 1\nenum A { X = 1 }", diag.SynExpectPackageName, 1},
		{"hash without bracket", "# enum A { X = 1 }\nenum B { Y = 1 }", diag.SynExpectAttribute, 1},
		{"unknown attribute", "#[derive(Debug)] enum A { X = 1 }", diag.SynExpectAttribute, 0},
		{"args not in parens", "#[bitflags = 8] enum A { X = 1 }", diag.SynExpectAttribute, 0},
		{"attribute at end", "enum A { X = 1 }\n#[bitflags]", diag.SynEmptyDeclaration, 1},
		{"unclosed", "enum A { X = 1", diag.SynUnclosedDelimiter, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok, bag, _ := parse(t, tt.src)
			if ok {
				t.Fatalf("expected failure")
			}
			if items := bag.Items(); len(items) == 0 || items[0].Code != tt.code {
				t.Fatalf("want %s, got %v", tt.code.ID(), items)
			}
			if len(f.Units) != tt.units {
				t.Fatalf("want %d units, got %d", tt.units, len(f.Units))
			}
		})
	}
}
