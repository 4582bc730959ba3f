// Package decl parses a flag declaration
//
//	[pub [(scope)]] enum Name { Flag = literal, ... }
//
// into a validated Model: values fit the configured width, values and
// case-insensitive names are unique, and at most one flag is zero.
package decl

import (
	"slices"

	"enumflags/internal/config"
	"enumflags/internal/source"

	"lukechampine.com/uint128"
)

// Variant is one declared flag.
type Variant struct {
	Name      string
	Value     uint128.Uint128
	Literal   string // as written, suffix included
	Index     int    // declaration order
	Span      source.Span
	ValueSpan source.Span
	Doc       []string
}

// IsZero reports whether the flag is the declared empty case.
func (v Variant) IsZero() bool { return v.Value.IsZero() }

// Model is the parsed declaration. It is produced for exactly one declaration
// and read by the generator.
type Model struct {
	Name           string
	NameSpan       source.Span
	Visibility     string // verbatim qualifier, "" when private
	VisibilitySpan source.Span
	Doc            []string
	Span           source.Span

	Width         config.Width
	SuppressEmpty bool
	EmptyName     string
	HasZeroFlag   bool

	Variants []Variant
	Union    uint128.Uint128 // OR of every declared value

	valuesSeen map[uint128.Uint128]int // value -> index in Variants
	namesSeen  map[uint64][]int        // name hash -> indices in Variants
}

func newModel(cfg config.Config) *Model {
	return &Model{
		Width:         cfg.Width,
		SuppressEmpty: cfg.SuppressEmpty,
		EmptyName:     cfg.EmptyName,
		valuesSeen:    make(map[uint128.Uint128]int, 8),
		namesSeen:     make(map[uint64][]int, 8),
	}
}

// Exported reports whether a visibility qualifier was given.
func (m *Model) Exported() bool { return m.Visibility != "" }

// SynthesizesEmpty reports whether the generator must add a zero constant
// named EmptyName.
func (m *Model) SynthesizesEmpty() bool { return !m.HasZeroFlag && !m.SuppressEmpty }

// Display returns the non-zero flags in ascending value order, the order used
// when rendering a value.
func (m *Model) Display() []Variant {
	out := make([]Variant, 0, len(m.Variants))
	for _, v := range m.Variants {
		if !v.IsZero() {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b Variant) int { return a.Value.Cmp(b.Value) })
	return out
}

// Lookup finds a flag by exact name.
func (m *Model) Lookup(name string) (Variant, bool) {
	for _, v := range m.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
