package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"enumflags/internal/diag"
	"enumflags/internal/source"
)

func loadFile(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.flags")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	fs.SetBaseDir(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func withFix(code diag.Code, primary source.Span, title string, edits ...diag.FixEdit) *diag.Diagnostic {
	return diag.New(diag.SevError, code, primary, title).WithFix(title, edits...)
}

func TestApplyAllRewritesFile(t *testing.T) {
	const src = "#[bitflags(Bits = 8 ,)]\nenum A { X = 1 }\n"
	fs, id, path := loadFile(t, src)
	diagnostics := []*diag.Diagnostic{
		withFix(diag.CfgTrailingComma, source.Span{File: id, Start: 20, End: 21}, "remove comma",
			diag.FixEdit{Span: source.Span{File: id, Start: 20, End: 21}}),
		withFix(diag.CfgUnknownKey, source.Span{File: id, Start: 11, End: 15}, "write `bits`",
			diag.FixEdit{Span: source.Span{File: id, Start: 11, End: 15}, NewText: "bits"}),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	// сортировка по позиции: сначала fix ключа
	if res.Applied[0].Code != diag.CfgUnknownKey {
		t.Fatalf("fixes must be applied in source order: %+v", res.Applied)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "#[bitflags(bits = 8 )]\nenum A { X = 1 }\n"; string(got) != want {
		t.Fatalf("file content = %q, want %q", got, want)
	}
	if res.FileChanges[0].Path != "t.flags" {
		t.Fatalf("path = %q", res.FileChanges[0].Path)
	}
}

func TestApplyModes(t *testing.T) {
	fs, id, path := loadFile(t, "enum A { X = 1 }")
	a := withFix(diag.SemaDuplicateName, source.Span{File: id, Start: 9, End: 10}, "rename X",
		diag.FixEdit{Span: source.Span{File: id, Start: 9, End: 10}, NewText: "Y"})
	b := withFix(diag.SemaDuplicateName, source.Span{File: id, Start: 5, End: 6}, "rename A",
		diag.FixEdit{Span: source.Span{File: id, Start: 5, End: 6}, NewText: "B"})
	diagnostics := []*diag.Diagnostic{a, b}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("once: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Title != "rename A" {
		t.Fatalf("once must take the first fix in source order: %+v", res.Applied)
	}
	if string(res.FileChanges[0].Content) != "enum B { X = 1 }" {
		t.Fatalf("dry run content = %q", res.FileChanges[0].Content)
	}
	if data, _ := os.ReadFile(path); string(data) != "enum A { X = 1 }" {
		t.Fatalf("dry run must not write: %q", data)
	}

	res, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeID, TargetID: ID(a, 0), DryRun: true})
	if err != nil || res.Applied[0].Title != "rename X" {
		t.Fatalf("by id: %+v, %v", res, err)
	}

	res, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("unknown id: %+v, %v", res, err)
	}
}

func TestApplySkipsConflicts(t *testing.T) {
	fs, id, _ := loadFile(t, "enum A { X = 1 }")
	span := source.Span{File: id, Start: 5, End: 6}
	diagnostics := []*diag.Diagnostic{
		withFix(diag.SemaDuplicateName, span, "first", diag.FixEdit{Span: span, NewText: "B"}),
		withFix(diag.SemaDuplicateName, source.Span{File: id, Start: 5, End: 8}, "second",
			diag.FixEdit{Span: source.Span{File: id, Start: 5, End: 8}, NewText: "C {"}),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected one applied and one skipped: %+v", res)
	}
	if res.Skipped[0].Title != "second" {
		t.Fatalf("skipped %+v", res.Skipped)
	}
}

func TestApplyRejectsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem.flags", []byte("enum A {}"))
	span := source.Span{File: id, Start: 5, End: 6}
	res, err := Apply(fs, []*diag.Diagnostic{withFix(diag.SemaDuplicateName, span, "x", diag.FixEdit{Span: span})},
		ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("virtual target: %+v, %v", res, err)
	}
}

func TestSpansConflict(t *testing.T) {
	for _, tt := range []struct {
		a, b source.Span
		want bool
	}{
		{source.Span{Start: 0, End: 2}, source.Span{Start: 2, End: 4}, false},
		{source.Span{Start: 0, End: 3}, source.Span{Start: 2, End: 4}, true},
		{source.Span{Start: 2, End: 2}, source.Span{Start: 0, End: 4}, true},
		{source.Span{Start: 4, End: 4}, source.Span{Start: 0, End: 4}, false},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 1, End: 1}, true},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 2, End: 2}, false},
	} {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Fatalf("spansConflict(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
