package config

import (
	"fmt"
	"strings"

	"enumflags/internal/diag"
	"enumflags/internal/names"
	"enumflags/internal/numlit"
	"enumflags/internal/source"
	"enumflags/internal/token"
	"enumflags/internal/tree"
)

type state uint8

const (
	expectKey state = iota
	expectAssign
	expectValue
	expectComma
)

const (
	keyBits     = "bits"
	keyEmpty    = "empty"
	keySuppress = "disable_empty_generation"
	keyDebug    = "debug"
)

var knownKeys = map[string]struct{}{
	keyBits:     {},
	keyEmpty:    {},
	keySuppress: {},
	keyDebug:    {},
}

type parser struct {
	cfg   Config
	r     diag.Reporter
	state state
	key   token.Token
	seen  map[string]source.Span
	comma *token.Token
}

// Parse reads the attribute argument nodes on top of base. Parsing stops at the
// first error, which is reported to r; ok is false in that case and the
// returned Config must not be used.
func Parse(nodes []tree.Node, base Config, r diag.Reporter) (cfg Config, ok bool) {
	if r == nil {
		r = diag.NopReporter{}
	}
	p := &parser{cfg: base, r: r, seen: make(map[string]source.Span, len(knownKeys))}
	for _, n := range nodes {
		var step bool
		switch p.state {
		case expectKey:
			step = p.onKey(n)
		case expectAssign:
			step = p.onAssign(n)
		case expectValue:
			step = p.onValue(n)
		case expectComma:
			step = p.onComma(n)
		}
		if !step {
			return Config{}, false
		}
	}
	if !p.finish() {
		return Config{}, false
	}
	return p.cfg, true
}

func (p *parser) fail(code diag.Code, sp source.Span, msg string) bool {
	diag.ReportError(p.r, code, sp, msg).Emit()
	return false
}

func (p *parser) onKey(n tree.Node) bool {
	if n.Group != nil || !n.Tok.IsWord() {
		return p.fail(diag.CfgExpectKey, n.Span(),
			fmt.Sprintf("expecting a key (bits, empty, disable_empty_generation, debug) but got: `%s`", n.Text()))
	}
	key := n.Tok.Text
	if _, ok := knownKeys[key]; !ok {
		b := diag.ReportError(p.r, diag.CfgUnknownKey, n.Tok.Span,
			fmt.Sprintf("unknown key `%s` (known keys: bits, empty, disable_empty_generation, debug)", key))
		// ключи регистрозависимы
		if lower := strings.ToLower(key); lower != key {
			if _, ok := knownKeys[lower]; ok {
				b.WithFix(fmt.Sprintf("write `%s`", lower), diag.FixEdit{Span: n.Tok.Span, NewText: lower})
			}
		}
		b.Emit()
		return false
	}
	if prev, dup := p.seen[key]; dup {
		diag.ReportError(p.r, diag.CfgDuplicateKey, n.Tok.Span, fmt.Sprintf("key `%s` is specified twice", key)).
			WithNote(prev, "first specified here").
			Emit()
		return false
	}
	p.seen[key] = n.Tok.Span
	p.key = n.Tok
	p.state = expectAssign
	return true
}

func (p *parser) onAssign(n tree.Node) bool {
	if !n.IsToken(token.Assign) && !n.IsToken(token.Colon) {
		return p.fail(diag.CfgExpectAssign, n.Span(),
			fmt.Sprintf("expecting assignment ('=' or ':') after `%s` but got: `%s`", p.key.Text, n.Text()))
	}
	p.state = expectValue
	return true
}

func (p *parser) onValue(n tree.Node) bool {
	if n.Group != nil || !(n.Tok.IsWord() || n.Tok.IsLiteral()) {
		return p.fail(diag.CfgExpectValue, n.Span(),
			fmt.Sprintf("expecting a value for `%s` but got: `%s`", p.key.Text, n.Text()))
	}
	val := n.Tok
	var ok bool
	switch p.key.Text {
	case keyBits:
		ok = p.setBits(val)
	case keyEmpty:
		ok = p.setEmpty(val)
	case keySuppress:
		ok = p.setSuppress(val)
	case keyDebug:
		p.cfg.Debug = val.Text != "false" && val.Text != "no"
		ok = true
	}
	if !ok {
		return false
	}
	p.comma = nil
	p.state = expectComma
	return true
}

func (p *parser) onComma(n tree.Node) bool {
	if !n.IsToken(token.Comma) {
		return p.fail(diag.CfgExpectComma, n.Span(),
			fmt.Sprintf("expecting delimiter (',' comma) but got: `%s`", n.Text()))
	}
	comma := n.Tok
	p.comma = &comma
	p.state = expectKey
	return true
}

func (p *parser) finish() bool {
	switch p.state {
	case expectAssign, expectValue:
		diag.ReportError(p.r, diag.CfgMissingValue, p.key.Span,
			fmt.Sprintf("key `%s` has no value", p.key.Text)).
			Emit()
		return false
	case expectKey:
		if p.comma != nil {
			diag.ReportError(p.r, diag.CfgTrailingComma, p.comma.Span, "trailing comma is not allowed in bitflags arguments").
				WithFix("remove the trailing comma", diag.FixEdit{Span: p.comma.Span}).
				Emit()
			return false
		}
	}
	if p.cfg.EmptyNameSet && p.cfg.SuppressEmpty {
		diag.ReportWarning(p.r, diag.CfgEmptyNameUnused, p.cfg.EmptySpan,
			fmt.Sprintf("`empty = %s` has no constant to name because empty generation is disabled; it is only used when printing a zero value", p.cfg.EmptyName)).
			WithNote(p.cfg.SuppressSpan, "empty generation disabled here").
			Emit()
	}
	return true
}

func (p *parser) setBits(val token.Token) bool {
	if val.Kind != token.IntLit {
		return p.fail(diag.CfgInvalidWidth, val.Span,
			fmt.Sprintf("`bits` expects an integer (8, 16, 32, 64 or 128) but got: `%s`", val.Text))
	}
	n, err := numlit.Parse(val.Text)
	var w Width
	ok := err == nil && n.Hi == 0
	if ok {
		w, ok = WidthFromBits(n.Lo)
	}
	if !ok {
		return p.fail(diag.CfgInvalidWidth, val.Span,
			fmt.Sprintf("invalid value for `bits`: %s (allowed values are 8, 16, 32, 64 and 128)", val.Text))
	}
	p.cfg.Width = w
	p.cfg.WidthSpan = p.key.Span
	return true
}

func (p *parser) setEmpty(val token.Token) bool {
	if !val.IsWord() || !names.Valid(val.Text) {
		return p.fail(diag.CfgInvalidEmptyName, val.Span,
			fmt.Sprintf("invalid name for the empty case: `%s` (use letters, digits and '_', not starting with a digit)", val.Text))
	}
	p.cfg.EmptyName = val.Text
	p.cfg.EmptyNameSet = true
	p.cfg.EmptySpan = p.key.Span
	return true
}

func (p *parser) setSuppress(val token.Token) bool {
	switch val.Text {
	case "true", "yes":
		p.cfg.SuppressEmpty = true
	case "false", "no":
		p.cfg.SuppressEmpty = false
	default:
		return p.fail(diag.CfgInvalidBool, val.Span,
			fmt.Sprintf("`disable_empty_generation` expects true, yes, false or no but got: `%s`", val.Text))
	}
	p.cfg.SuppressSpan = p.key.Span
	return true
}
