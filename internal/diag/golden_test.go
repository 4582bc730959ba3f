package diag

import (
	"testing"

	"enumflags/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/flags/colors.flags", []byte("enum C {\n  A = 1,\n  B = 1,\n}\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     CfgEmptyNameUnused,
			Message:  "late",
			Primary:  source.Span{File: file, Start: 22, End: 23},
		},
		{
			Severity: SevError,
			Code:     SemaDuplicateValue,
			Message:  "Flag B and A have the same value",
			Primary:  source.Span{File: file, Start: 13, End: 14},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 11, End: 12}, Msg: "first defined\nhere"},
			},
		},
	}

	want := "error SEM3001 flags/colors.flags:2:5 Flag B and A have the same value\n" +
		"note SEM3001 flags/colors.flags:2:3 first defined here\n" +
		"warning CFG6012 flags/colors.flags:3:5 late"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	if got := FormatShortDiagnostics(diags[:1], fs, false); got != "warning CFG6012 flags/colors.flags:3:5 late" {
		t.Fatalf("without notes: %q", got)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexTokenTooLong:    "LEX1005",
		SynExpectAssign:    "SYN2008",
		SemaDuplicateName:  "SEM3002",
		IOLoadFileError:    "IO4001",
		ProjInvalidPackage: "PRJ5002",
		CfgUnknownKey:      "CFG6001",
		GenFormat:          "GEN7002",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(6999).Title() != "Unknown error" {
		t.Fatalf("unregistered code must fall back to unknown title")
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	bag.Add(NewError(SemaDuplicateName, sp(9), "b"))
	bag.Add(New(SevWarning, CfgEmptyNameUnused, sp(1), "w"))
	bag.Add(NewError(SemaDuplicateName, sp(9), "b again"))
	if bag.Add(NewError(SynUnexpectedToken, sp(0), "dropped")) {
		t.Fatalf("limit must reject the fourth diagnostic")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}

	bag.Sort()
	if bag.Items()[0].Primary.Start != 1 {
		t.Fatalf("sort: first item starts at %d", bag.Items()[0].Primary.Start)
	}
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("dedup: got %d items, want 2", bag.Len())
	}

	other := NewBag(5)
	other.Add(NewError(GenFormat, sp(4), "x"))
	other.Add(NewError(GenFormat, sp(5), "y"))
	bag.Merge(other)
	if bag.Len() != 4 || bag.Cap() < 4 {
		t.Fatalf("merge: len=%d cap=%d", bag.Len(), bag.Cap())
	}
}

func TestFirstErrorReporter(t *testing.T) {
	bag := NewBag(10)
	r := &FirstError{Next: BagReporter{Bag: bag}}

	ReportWarning(r, CfgEmptyNameUnused, source.Span{}, "warn").Emit()
	if r.Failed() {
		t.Fatalf("warnings must not fail")
	}
	ReportError(r, SemaDuplicateValue, source.Span{Start: 3}, "first").WithNote(source.Span{}, "n").Emit()
	ReportError(r, SemaDuplicateName, source.Span{Start: 5}, "second").Emit()

	if !r.Failed() || r.First.Message != "first" || len(r.First.Notes) != 1 {
		t.Fatalf("unexpected first error: %+v", r.First)
	}
	if bag.Len() != 3 {
		t.Fatalf("all diagnostics must be forwarded, got %d", bag.Len())
	}
	if r.First.Error() != "SEM3001: first" {
		t.Fatalf("Error() = %q", r.First.Error())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		r.Report(LexUnknownChar, SevError, source.Span{Start: 1, End: 2}, "unknown character", nil, nil)
	}
	r.Report(LexUnknownChar, SevError, source.Span{Start: 4, End: 5}, "unknown character", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("got %d diagnostics, want 2", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, CfgTrailingComma, source.Span{Start: 7, End: 8}, "trailing comma").
		WithFix("remove the comma", FixEdit{Span: source.Span{Start: 7, End: 8}})
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Emit must be idempotent, got %d", bag.Len())
	}
	if fixes := bag.Items()[0].Fixes; len(fixes) != 1 || fixes[0].Title != "remove the comma" {
		t.Fatalf("fix not recorded: %+v", fixes)
	}
}
