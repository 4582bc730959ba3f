// Package gen renders a validated flag declaration as Go source.
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	gotoken "go/token"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"enumflags/internal/config"
	"enumflags/internal/decl"
	"enumflags/internal/numlit"

	"lukechampine.com/uint128"
)

var (
	ErrTemplate     = errors.New("template expansion failed")
	ErrFormat       = errors.New("generated code does not parse")
	ErrNameConflict = errors.New("generated identifier conflict")
)

// Options tune one Declaration call.
type Options struct {
	// Debug receives the resolved source when the declaration sets debug.
	Debug io.Writer
}

type flagData struct {
	Const   string
	Name    string
	Literal string
	Doc     []string
}

type declData struct {
	Type       string
	Storage    string
	Wide       bool
	Ctor       string
	Doc        []string
	Consts     []flagData
	Display    []flagData
	Bound      string
	BoundHi    string
	BoundLo    string
	Zero       string
	RawZero    string
	Suppress   bool
	Prefix     string
	EmptyLabel string
	Example    string
	BufSize    int
}

// locals are identifiers used inside generated method bodies; a package
// level name equal to one of them would be shadowed.
var locals = map[string]struct{}{
	"f": {}, "mask": {}, "other": {}, "raw": {}, "b": {}, "first": {},
	"bool": {}, "string": {}, "byte": {}, "append": {}, "make": {},
	"true": {}, "false": {}, "nil": {},
	"uint8": {}, "uint16": {}, "uint32": {}, "uint64": {},
}

// TypeName returns the Go type name for m: the first letter is upper-cased
// when m is exported and lower-cased otherwise.
func TypeName(m *decl.Model) string {
	if m.Exported() {
		return upperFirst(m.Name)
	}
	return lowerFirst(m.Name)
}

// Names lists the package level identifiers Declaration defines for m, the
// type name first.
func Names(m *decl.Model) []string {
	typ := TypeName(m)
	out := make([]string, 0, len(m.Variants)+3)
	out = append(out, typ, typ+"FromValue")
	for _, v := range m.Variants {
		out = append(out, typ+upperFirst(v.Name))
	}
	if m.SynthesizesEmpty() {
		out = append(out, typ+upperFirst(m.EmptyName))
	}
	return out
}

// Declaration renders the type, its constants and methods as a formatted Go
// fragment without a package clause.
func Declaration(cfg config.Config, m *decl.Model, opts Options) ([]byte, error) {
	if err := checkNames(m); err != nil {
		return nil, err
	}
	data := buildData(cfg, m)

	var buf bytes.Buffer
	if err := declTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, m.Name, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, m.Name, err)
	}
	if cfg.Debug && opts.Debug != nil {
		fmt.Fprintf(opts.Debug, "// enumflags: %s\n%s\n", m.Name, out)
	}
	return out, nil
}

func checkNames(m *decl.Model) error {
	seen := make(map[string]struct{}, len(m.Variants)+3)
	for _, name := range Names(m) {
		if gotoken.IsKeyword(name) {
			return fmt.Errorf("%w: `%s` is a Go keyword", ErrNameConflict, name)
		}
		if _, ok := locals[name]; ok {
			return fmt.Errorf("%w: `%s` shadows an identifier used by the generated methods", ErrNameConflict, name)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: `%s` is generated twice", ErrNameConflict, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func buildData(cfg config.Config, m *decl.Model) declData {
	typ := TypeName(m)
	d := declData{
		Type:     typ,
		Storage:  cfg.Width.Storage(),
		Wide:     cfg.Width == config.Width128,
		Ctor:     typ + "FromValue",
		Suppress: m.SuppressEmpty,
		Prefix:   m.Name + " (",
	}
	d.Zero, d.RawZero = "0", "raw == 0"
	if d.Wide {
		d.Zero, d.RawZero = d.Storage+"{}", "raw[0]|raw[1] == 0"
	}
	d.EmptyLabel = d.Prefix + m.EmptyName + ")"

	if d.Wide {
		d.BoundHi = fmt.Sprintf("%#x", m.Union.Hi)
		d.BoundLo = fmt.Sprintf("%#x", m.Union.Lo)
	} else {
		d.Bound = numlit.Hex(m.Union)
	}

	d.Doc = declDoc(typ, m, cfg)

	for _, v := range m.Variants {
		f := flagData{
			Const:   typ + upperFirst(v.Name),
			Name:    v.Name,
			Literal: literal(v.Value, d.Wide),
			Doc:     v.Doc,
		}
		if len(f.Doc) == 0 {
			f.Doc = []string{fmt.Sprintf("%s is the %s flag (%s).", f.Const, v.Name, v.Literal)}
		}
		d.Consts = append(d.Consts, f)
	}
	if m.SynthesizesEmpty() {
		name := typ + upperFirst(m.EmptyName)
		d.Consts = append(d.Consts, flagData{
			Const:   name,
			Name:    m.EmptyName,
			Literal: literal(uint128.Zero, d.Wide),
			Doc:     []string{name + " is the empty set."},
		})
	}

	d.BufSize = len(d.Prefix) + 1
	var example []string
	for _, v := range m.Display() {
		f := flagData{Const: typ + upperFirst(v.Name), Name: v.Name}
		d.Display = append(d.Display, f)
		d.BufSize += len(v.Name) + 3
		if len(example) < 2 {
			example = append(example, v.Name)
		}
	}
	d.Example = d.EmptyLabel
	if len(example) > 0 {
		d.Example = d.Prefix + strings.Join(example, " | ") + ")"
	}
	return d
}

func declDoc(typ string, m *decl.Model, cfg config.Config) []string {
	doc := []string{fmt.Sprintf("%s is a set of bit flags.", typ)}
	if len(m.Doc) > 0 {
		doc = slices.Clone(m.Doc)
	}
	doc = append(doc, "")
	line := fmt.Sprintf("Flags are stored on %d bits", cfg.Width)
	if m.Visibility != "" {
		line += fmt.Sprintf(" (declared `%s`)", m.Visibility)
	}
	line += ". The zero value is the empty set"
	if m.SuppressEmpty {
		line += ", which has no named constant."
	} else {
		line += fmt.Sprintf(", %s.", typ+upperFirst(m.EmptyName))
	}
	return append(doc, line)
}

func literal(v uint128.Uint128, wide bool) string {
	if wide {
		return fmt.Sprintf("[2]uint64{%#x, %#x}", v.Hi, v.Lo)
	}
	return numlit.Hex(v)
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
