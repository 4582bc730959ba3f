package decl

import (
	"fmt"

	"enumflags/internal/config"
	"enumflags/internal/diag"
	"enumflags/internal/names"
	"enumflags/internal/numlit"
	"enumflags/internal/source"
	"enumflags/internal/token"
	"enumflags/internal/tree"

	"golang.org/x/text/unicode/norm"
)

type state uint8

const (
	expectVisibility state = iota
	expectVisibilityGroup
	expectEnumKeyword
	expectTypeName
	expectOpenBody
	expectEnd

	// внутри тела
	expectFlagName
	expectEqual
	expectFlagValue
	expectSeparator
)

type parser struct {
	cfg   config.Config
	r     diag.Reporter
	m     *Model
	state state

	visNodes []tree.Node
	last     string // имя текущего флага
	lastTok  token.Token
	lastHash uint64
	lastEnd  source.Span
}

// Parse validates the declaration nodes against cfg. The first violation is
// reported to r and aborts parsing; in that case the model is nil.
func Parse(nodes []tree.Node, cfg config.Config, r diag.Reporter) (*Model, bool) {
	if r == nil {
		r = diag.NopReporter{}
	}
	p := &parser{cfg: cfg, r: r, m: newModel(cfg)}

	if len(nodes) == 0 {
		diag.ReportError(r, diag.SynEmptyDeclaration, source.Span{}, "expecting an enum declaration but got nothing").Emit()
		return nil, false
	}
	p.m.Doc = docLines(firstToken(nodes[0]).Leading)
	p.m.Span = nodes[0].Span().Cover(nodes[len(nodes)-1].Span())

	if !p.parseItem(nodes) {
		return nil, false
	}
	if !p.finishItem() {
		return nil, false
	}
	return p.m, true
}

func (p *parser) fail(code diag.Code, sp source.Span, msg string) bool {
	diag.ReportError(p.r, code, sp, msg).Emit()
	return false
}

func (p *parser) parseItem(nodes []tree.Node) bool {
	for _, n := range nodes {
		if !p.step(n) {
			return false
		}
		p.lastEnd = n.Span().ZeroideToEnd()
	}
	return true
}

func (p *parser) step(n tree.Node) bool {
	switch p.state {
	case expectVisibility:
		if n.IsToken(token.KwPub) {
			p.visNodes = append(p.visNodes, n)
			p.state = expectVisibilityGroup
			return true
		}
		p.state = expectEnumKeyword
		return p.step(n)

	case expectVisibilityGroup:
		if n.IsGroup(tree.DelimParen) {
			if len(n.Group.Children) == 0 {
				diag.ReportError(p.r, diag.SynBadVisibility, n.Span(), "empty visibility scope `pub()`").
					WithFix("remove the empty scope", diag.FixEdit{Span: n.Span()}).
					Emit()
				return false
			}
			p.visNodes = append(p.visNodes, n)
			p.state = expectEnumKeyword
			return true
		}
		p.state = expectEnumKeyword
		return p.step(n)

	case expectEnumKeyword:
		if !n.IsToken(token.KwEnum) {
			return p.fail(diag.SynExpectEnum, n.Span(),
				fmt.Sprintf("expecting an enum keyword but got: `%s`", n.Text()))
		}
		if len(p.visNodes) > 0 {
			p.m.Visibility = tree.Nodes(p.visNodes)
			p.m.VisibilitySpan = p.visNodes[0].Span().Cover(p.visNodes[len(p.visNodes)-1].Span())
		}
		p.state = expectTypeName
		return true

	case expectTypeName:
		if !n.IsToken(token.Ident) {
			return p.fail(diag.SynExpectTypeName, n.Span(),
				fmt.Sprintf("expecting the name of the enum but got: `%s`", n.Text()))
		}
		p.m.Name = norm.NFC.String(n.Tok.Text)
		p.m.NameSpan = n.Tok.Span
		p.state = expectOpenBody
		return true

	case expectOpenBody:
		if !n.IsGroup(tree.DelimBrace) {
			return p.fail(diag.SynExpectBody, n.Span(),
				fmt.Sprintf("expecting an open brace '{' after enum name but got: `%s`", n.Text()))
		}
		p.state = expectFlagName
		if !p.parseBody(n.Group) {
			return false
		}
		p.state = expectEnd
		return true

	case expectEnd:
		return p.fail(diag.SynTrailingTokens, n.Span(),
			fmt.Sprintf("unexpected `%s` after the enum body", n.Text()))
	}
	return p.fail(diag.SynUnexpectedToken, n.Span(), fmt.Sprintf("unexpected `%s`", n.Text()))
}

func (p *parser) parseBody(g *tree.Group) bool {
	for _, n := range g.Children {
		var ok bool
		switch p.state {
		case expectFlagName:
			ok = p.onFlagName(n)
		case expectEqual:
			ok = p.onEqual(n)
		case expectFlagValue:
			ok = p.onFlagValue(n)
		case expectSeparator:
			ok = p.onSeparator(n)
		}
		if !ok {
			return false
		}
	}
	switch p.state {
	case expectEqual:
		return p.fail(diag.SynExpectAssign, g.Close.Span,
			fmt.Sprintf("flag `%s` has no value (expecting '=' followed by an integer)", p.last))
	case expectFlagValue:
		return p.fail(diag.SynExpectFlagValue, g.Close.Span,
			fmt.Sprintf("flag `%s` has no value after '='", p.last))
	}
	return true
}

func (p *parser) onFlagName(n tree.Node) bool {
	if !n.IsToken(token.Ident) {
		return p.fail(diag.SynExpectFlagName, n.Span(),
			fmt.Sprintf("expecting the name of a flag but got: `%s`", n.Text()))
	}
	name := norm.NFC.String(n.Tok.Text)
	h := names.Hash(name)
	for _, idx := range p.m.namesSeen[h] {
		prev := p.m.Variants[idx]
		if !names.EqualFold(prev.Name, name) {
			// совпал только хеш: имена разные
			continue
		}
		diag.ReportError(p.r, diag.SemaDuplicateName, n.Tok.Span,
			fmt.Sprintf("flag `%s` is used twice in the enum (case is ignored: `%s` and `%s` are the same flag)", name, prev.Name, name)).
			WithNote(prev.Span, fmt.Sprintf("`%s` declared here", prev.Name)).
			Emit()
		return false
	}
	p.last = name
	p.lastTok = n.Tok
	p.lastHash = h
	p.state = expectEqual
	return true
}

func (p *parser) onEqual(n tree.Node) bool {
	if !n.IsToken(token.Assign) {
		return p.fail(diag.SynExpectAssign, n.Span(),
			fmt.Sprintf("expecting equal '=' after flag `%s` but got: `%s`", p.last, n.Text()))
	}
	p.state = expectFlagValue
	return true
}

func (p *parser) onFlagValue(n tree.Node) bool {
	if !n.IsToken(token.IntLit) {
		return p.fail(diag.SynExpectFlagValue, n.Span(),
			fmt.Sprintf("expecting an integer value for flag `%s` but got: `%s`", p.last, n.Text()))
	}
	lit := n.Tok
	value, err := numlit.Parse(lit.Text)
	if err != nil {
		return p.fail(diag.SemaInvalidLiteral, lit.Span,
			fmt.Sprintf("expecting an integer value for flag `%s`: %v", p.last, err))
	}

	if max := p.cfg.Width.Max(); value.Cmp(max) > 0 {
		b := diag.ReportError(p.r, diag.SemaValueOverflow, lit.Span,
			fmt.Sprintf("enum is set to store data on %d bits; the value %s is larger than %s (the maximum value allowed for a %d bit value), change the representation with the `bits` argument or change the value",
				p.cfg.Width, lit.Text, numlit.Hex(max), p.cfg.Width))
		if !p.cfg.WidthSpan.Empty() {
			b.WithNote(p.cfg.WidthSpan, fmt.Sprintf("width set to %d here", p.cfg.Width))
		}
		b.Emit()
		return false
	}

	if value.IsZero() && !p.acceptZero(lit) {
		return false
	}

	if idx, dup := p.m.valuesSeen[value]; dup {
		prev := p.m.Variants[idx]
		diag.ReportError(p.r, diag.SemaDuplicateValue, lit.Span,
			fmt.Sprintf("flag %s and %s have the same value (%s)", prev.Name, p.last, numlit.Hex(value))).
			WithNote(prev.ValueSpan, fmt.Sprintf("`%s` = %s declared here", prev.Name, prev.Literal)).
			Emit()
		return false
	}

	v := Variant{
		Name:      p.last,
		Value:     value,
		Literal:   lit.Text,
		Index:     len(p.m.Variants),
		Span:      p.lastTok.Span,
		ValueSpan: lit.Span,
		Doc:       docLines(p.lastTok.Leading),
	}
	p.m.Variants = append(p.m.Variants, v)
	p.m.valuesSeen[value] = v.Index
	p.m.namesSeen[p.lastHash] = append(p.m.namesSeen[p.lastHash], v.Index)
	p.m.Union = p.m.Union.Or(value)
	p.state = expectSeparator
	return true
}

// acceptZero applies the empty case rules to a zero-valued flag.
func (p *parser) acceptZero(lit token.Token) bool {
	switch {
	case p.cfg.SuppressEmpty:
		b := diag.ReportError(p.r, diag.SemaZeroSuppressed, lit.Span,
			fmt.Sprintf("empty variant generation is disabled, so no flag may have value 0; remove flag `%s` or remove `disable_empty_generation`", p.last))
		if !p.cfg.SuppressSpan.Empty() {
			b.WithNote(p.cfg.SuppressSpan, "disabled here")
		}
		b.Emit()
		return false

	case p.cfg.EmptyNameSet:
		b := diag.ReportError(p.r, diag.SemaEmptyAlreadySet, lit.Span,
			fmt.Sprintf("a variant for the case where no bits are set was already specified in the arguments: `%s`; remove flag `%s` or remove `empty = %s`",
				p.cfg.EmptyName, p.last, p.cfg.EmptyName))
		if !p.cfg.EmptySpan.Empty() {
			b.WithNote(p.cfg.EmptySpan, "empty case named here")
		}
		b.Emit()
		return false

	case p.m.HasZeroFlag:
		prev, _ := p.m.Lookup(p.m.EmptyName)
		diag.ReportError(p.r, diag.SemaEmptyAlreadySet, lit.Span,
			fmt.Sprintf("flag `%s` is already the empty case (value 0); `%s` cannot be zero as well", prev.Name, p.last)).
			WithNote(prev.ValueSpan, fmt.Sprintf("`%s` = %s declared here", prev.Name, prev.Literal)).
			Emit()
		return false
	}
	p.m.HasZeroFlag = true
	p.m.EmptyName = p.last
	return true
}

func (p *parser) onSeparator(n tree.Node) bool {
	if !n.IsToken(token.Comma) {
		return p.fail(diag.SynExpectSeparator, n.Span(),
			fmt.Sprintf("expecting ',' separator after flag `%s` but got: `%s`", p.last, n.Text()))
	}
	p.state = expectFlagName
	return true
}

func (p *parser) finishItem() bool {
	if p.state != expectEnd {
		at := p.lastEnd
		var msg string
		switch p.state {
		case expectVisibility, expectVisibilityGroup, expectEnumKeyword:
			msg = "expecting an enum keyword but the declaration ended"
		case expectTypeName:
			msg = "expecting the name of the enum but the declaration ended"
		default:
			msg = "expecting an open brace '{' after enum name but the declaration ended"
		}
		return p.fail(diag.SynExpectBody, at, msg)
	}

	if len(p.m.Variants) == 0 {
		diag.ReportWarning(p.r, diag.SemaNoFlags, p.m.NameSpan,
			fmt.Sprintf("enum `%s` declares no flags", p.m.Name)).
			Emit()
	}

	if p.m.SynthesizesEmpty() {
		h := names.Hash(p.m.EmptyName)
		for _, idx := range p.m.namesSeen[h] {
			v := p.m.Variants[idx]
			if !names.EqualFold(v.Name, p.m.EmptyName) {
				continue
			}
			b := diag.ReportError(p.r, diag.SemaEmptyNameConflict, v.Span,
				fmt.Sprintf("flag `%s` clashes with the generated empty case `%s`; give it value 0 or rename the empty case with `empty = ...`", v.Name, p.m.EmptyName))
			if !p.cfg.EmptySpan.Empty() {
				b.WithNote(p.cfg.EmptySpan, "empty case named here")
			}
			b.Emit()
			return false
		}
	}
	return true
}

func firstToken(n tree.Node) token.Token {
	if n.Group != nil {
		return n.Group.Open
	}
	return n.Tok
}

// docLines extracts /// comments without the marker.
func docLines(trivia []token.Trivia) []string {
	var out []string
	for _, tv := range trivia {
		if !tv.IsDoc() {
			continue
		}
		line := tv.Text[3:]
		if len(line) > 0 && line[0] == ' ' {
			line = line[1:]
		}
		out = append(out, line)
	}
	return out
}
