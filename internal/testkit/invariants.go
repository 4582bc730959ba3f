// Package testkit holds invariant checkers shared by unit tests and fuzz
// harnesses.
package testkit

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"fortio.org/safecast"
	"lukechampine.com/uint128"

	"enumflags/internal/decl"
	"enumflags/internal/flagfile"
	"enumflags/internal/gen"
	"enumflags/internal/names"
	"enumflags/internal/source"
)

// CheckUnitSpans runs span invariants on a split file:
// 1) every unit span is non-empty and within the file content
// 2) units do not overlap and come in source order
// 3) every declaration node lies inside its unit
func CheckUnitSpans(f *flagfile.File) error {
	if f == nil || f.Source == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(f.Source.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for i, u := range f.Units {
		sp := u.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("unit %d: empty span %v", i, sp)
		}
		if sp.File != f.Source.ID {
			return fmt.Errorf("unit %d: span file mismatch: got=%d want=%d", i, sp.File, f.Source.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("unit %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("unit %d: span %v overlaps the previous unit", i, sp)
		}
		prevEnd = sp.End
		for _, n := range u.Decl {
			if ns := n.Span(); ns.Start < sp.Start || ns.End > sp.End {
				return fmt.Errorf("unit %d: node %v outside unit %v", i, ns, sp)
			}
		}
	}
	return nil
}

// CheckModel verifies what every accepted declaration guarantees:
// values fit the width, values and case-folded names are unique, at most
// one flag is zero, and Union is the OR of all values.
func CheckModel(m *decl.Model) error {
	if m == nil {
		return fmt.Errorf("nil model")
	}
	limit := m.Width.Max()
	values := make(map[uint128.Uint128]string, len(m.Variants))
	union := uint128.Zero
	zeros := 0
	for i, v := range m.Variants {
		if v.Index != i {
			return fmt.Errorf("flag %s: index %d, want %d", v.Name, v.Index, i)
		}
		if v.Value.Cmp(limit) > 0 {
			return fmt.Errorf("flag %s: value %s exceeds %d bits", v.Name, v.Value, m.Width.Bits())
		}
		if prev, dup := values[v.Value]; dup {
			return fmt.Errorf("flags %s and %s share value %s", prev, v.Name, v.Value)
		}
		values[v.Value] = v.Name
		for _, other := range m.Variants[:i] {
			if names.EqualFold(other.Name, v.Name) {
				return fmt.Errorf("flags %s and %s differ only in case", other.Name, v.Name)
			}
		}
		if v.IsZero() {
			zeros++
		}
		if !containsSpan(m.Span, v.Span) {
			return fmt.Errorf("flag %s: span %v outside declaration %v", v.Name, v.Span, m.Span)
		}
		union = union.Or(v.Value)
	}
	if zeros > 1 {
		return fmt.Errorf("%d zero flags", zeros)
	}
	if (zeros == 1) != m.HasZeroFlag {
		return fmt.Errorf("HasZeroFlag=%v with %d zero flags", m.HasZeroFlag, zeros)
	}
	if zeros == 1 && m.SuppressEmpty {
		return fmt.Errorf("zero flag declared with the empty case suppressed")
	}
	if !union.Equals(m.Union) {
		return fmt.Errorf("union %s, want %s", m.Union, union)
	}
	display := m.Display()
	for i := 1; i < len(display); i++ {
		if display[i-1].Value.Cmp(display[i].Value) >= 0 {
			return fmt.Errorf("display order broken at %s", display[i].Name)
		}
	}
	return nil
}

// CheckGenerated verifies that src is a parseable generated Go file that
// declares every name of the given models.
func CheckGenerated(src []byte, models ...*decl.Model) error {
	if !strings.HasPrefix(string(src), gen.Header+"\n") {
		return fmt.Errorf("missing generated header")
	}
	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	if err != nil {
		return fmt.Errorf("generated source does not parse: %w", err)
	}
	declared := make(map[string]bool)
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				declared[d.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					declared[spec.Name.Name] = true
				case *ast.ValueSpec:
					for _, id := range spec.Names {
						declared[id.Name] = true
					}
				}
			}
		}
	}
	for _, m := range models {
		for _, name := range gen.Names(m) {
			if !declared[name] {
				return fmt.Errorf("%s is not declared", name)
			}
		}
	}
	return nil
}

func containsSpan(outer, inner source.Span) bool {
	return inner.File == outer.File && inner.Start >= outer.Start && inner.End <= outer.End
}
