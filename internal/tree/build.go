package tree

import (
	"fmt"

	"enumflags/internal/diag"
	"enumflags/internal/lexer"
	"enumflags/internal/source"
	"enumflags/internal/token"
)

// Build groups tokens (EOF excluded) into a tree.
// Unclosed and mismatched delimiters are reported; the returned tree is still
// usable, missing closers are synthesized at the end of the input.
// Returns false when any delimiter error was reported.
func Build(tokens []token.Token, r diag.Reporter) ([]Node, bool) {
	b := builder{tokens: tokens, r: r, ok: true}
	nodes := b.list(nil)
	for b.pos < len(b.tokens) {
		// лишняя закрывающая скобка на верхнем уровне
		tok := b.tokens[b.pos]
		b.pos++
		if tok.Kind == token.EOF {
			continue
		}
		b.fail(diag.SynUnmatchedCloser, tok, fmt.Sprintf("unexpected closing delimiter '%s'", tok.Text))
		nodes = append(nodes, b.list(nil)...)
	}
	return nodes, b.ok
}

type builder struct {
	tokens []token.Token
	pos    int
	r      diag.Reporter
	ok     bool
}

func (b *builder) fail(code diag.Code, tok token.Token, msg string) {
	b.ok = false
	if b.r != nil {
		diag.ReportError(b.r, code, tok.Span, msg).Emit()
	}
}

// list collects nodes until a closer or end of input; the closer is not consumed.
func (b *builder) list(open *token.Token) []Node {
	var nodes []Node
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		if tok.Kind == token.EOF {
			return nodes
		}
		if tok.Kind.IsCloser() {
			if open == nil {
				return nodes
			}
			want, _ := open.Kind.Closer()
			if tok.Kind == want {
				return nodes
			}
			// чужая закрывающая скобка: закрываем текущую группу здесь
			b.fail(diag.SynUnmatchedCloser, tok,
				fmt.Sprintf("mismatched closing delimiter '%s' for '%s'", tok.Text, open.Text))
			return nodes
		}
		b.pos++
		if _, ok := tok.Kind.Closer(); ok {
			nodes = append(nodes, Node{Group: b.group(tok)})
			continue
		}
		nodes = append(nodes, Node{Tok: tok})
	}
	return nodes
}

func (b *builder) group(open token.Token) *Group {
	g := &Group{Delim: delimOf(open.Kind), Open: open}
	g.Children = b.list(&open)

	want, _ := open.Kind.Closer()
	if b.pos < len(b.tokens) && b.tokens[b.pos].Kind == want {
		g.Close = b.tokens[b.pos]
		b.pos++
		return g
	}
	if b.pos < len(b.tokens) && b.tokens[b.pos].Kind.IsCloser() {
		// несовпавшая скобка уже зарепорчена, съедаем её как закрывающую
		g.Close = b.tokens[b.pos]
		b.pos++
		return g
	}

	b.fail(diag.SynUnclosedDelimiter, open, fmt.Sprintf("unclosed delimiter '%s'", open.Text))
	end := open.Span.ZeroideToEnd()
	if n := len(g.Children); n > 0 {
		end = g.Children[n-1].Span().ZeroideToEnd()
	}
	g.Close = token.Token{Kind: want, Span: end}
	return g
}

// BuildSource lexes file and builds its tree. ok is false when the lexer or
// the builder reported an error.
func BuildSource(file *source.File, r diag.Reporter) ([]Node, bool) {
	guard := &diag.FirstError{Next: r}
	nodes, ok := Build(lexer.New(file, lexer.Options{Reporter: guard}).All(), guard)
	return nodes, ok && !guard.Failed()
}
