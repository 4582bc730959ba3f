package testkit_test

import (
	"context"
	"strings"
	"testing"

	"enumflags/internal/bitflags"
	"enumflags/internal/decl"
	"enumflags/internal/diag"
	"enumflags/internal/flagfile"
	"enumflags/internal/gen"
	"enumflags/internal/source"
	"enumflags/internal/testkit"
)

const sample = `package sample

#[bitflags(bits = 16)]
pub enum Perm { Read = 1, Write = 2, Exec = 4, None = 0 }

enum mode { Fast = 0x10, Slow = 0b1 }
`

func TestInvariantsHoldForSample(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("sample.flags", []byte(sample)))
	bag := diag.NewBag(16)
	f, ok := flagfile.Parse(file, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse: %v", bag.Items())
	}
	if err := testkit.CheckUnitSpans(f); err != nil {
		t.Fatalf("unit spans: %v", err)
	}

	var models []*decl.Model
	var frags [][]byte
	for _, u := range f.Units {
		res, ok := bitflags.Expand(context.Background(), u.Args, u.Decl, bitflags.Options{}, diag.BagReporter{Bag: bag})
		if !ok {
			t.Fatalf("expand: %v", bag.Items())
		}
		if err := testkit.CheckModel(res.Model); err != nil {
			t.Fatalf("model %s: %v", res.Model.Name, err)
		}
		models = append(models, res.Model)
		frags = append(frags, res.Source)
	}
	src, err := gen.File(f.Package, "sample.flags", frags...)
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckGenerated(src, models...); err != nil {
		t.Fatalf("generated: %v", err)
	}
}

func TestCheckModelCatchesBrokenModels(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.flags", []byte("enum T { A = 1, B = 2 }")))
	f, ok := flagfile.Parse(file, nil)
	if !ok {
		t.Fatal("parse failed")
	}
	res, ok := bitflags.Expand(context.Background(), nil, f.Units[0].Decl, bitflags.Options{}, nil)
	if !ok {
		t.Fatal("expand failed")
	}

	m := *res.Model
	m.Variants = append(m.Variants[:0:0], m.Variants...)
	m.Variants[1].Value = m.Variants[0].Value
	if err := testkit.CheckModel(&m); err == nil || !strings.Contains(err.Error(), "share value") {
		t.Fatalf("duplicate value not caught: %v", err)
	}

	m = *res.Model
	m.HasZeroFlag = true
	if err := testkit.CheckModel(&m); err == nil || !strings.Contains(err.Error(), "HasZeroFlag") {
		t.Fatalf("zero flag mismatch not caught: %v", err)
	}
}

func TestCheckGeneratedRejectsGarbage(t *testing.T) {
	if err := testkit.CheckGenerated([]byte("package x\n")); err == nil {
		t.Fatalf("missing header must fail")
	}
	if err := testkit.CheckGenerated([]byte(gen.Header + "\npackage\n")); err == nil {
		t.Fatalf("unparsable source must fail")
	}
}
