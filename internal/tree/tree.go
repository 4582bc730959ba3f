// Package tree groups a flat token stream into a token tree: leaves and
// delimited groups for (), [] and {}. Parsers in config and decl consume
// tree nodes, so a brace-delimited body arrives as one Group node.
package tree

import (
	"strings"

	"enumflags/internal/source"
	"enumflags/internal/token"
)

// Delim is the delimiter kind of a group.
type Delim uint8

const (
	DelimNone Delim = iota
	DelimParen
	DelimBracket
	DelimBrace
)

func (d Delim) String() string {
	switch d {
	case DelimParen:
		return "parenthesis"
	case DelimBracket:
		return "bracket"
	case DelimBrace:
		return "brace"
	default:
		return "none"
	}
}

func delimOf(k token.Kind) Delim {
	switch k {
	case token.LParen, token.RParen:
		return DelimParen
	case token.LBracket, token.RBracket:
		return DelimBracket
	case token.LBrace, token.RBrace:
		return DelimBrace
	default:
		return DelimNone
	}
}

// Node is either a leaf token (Group == nil) or a delimited group.
type Node struct {
	Tok   token.Token
	Group *Group
}

// Group holds the open and close tokens and everything between them.
type Group struct {
	Delim    Delim
	Open     token.Token
	Close    token.Token
	Children []Node
}

// IsGroup reports whether n is a group delimited by d.
func (n Node) IsGroup(d Delim) bool {
	return n.Group != nil && n.Group.Delim == d
}

// IsToken reports whether n is a leaf of kind k.
func (n Node) IsToken(k token.Kind) bool {
	return n.Group == nil && n.Tok.Kind == k
}

// Span covers the whole node, delimiters included.
func (n Node) Span() source.Span {
	if n.Group != nil {
		return n.Group.Open.Span.Cover(n.Group.Close.Span)
	}
	return n.Tok.Span
}

// Inner covers the content between the delimiters.
func (g *Group) Inner() source.Span {
	return source.Span{File: g.Open.Span.File, Start: g.Open.Span.End, End: g.Close.Span.Start}
}

// Text renders n compactly: tokens separated by single spaces, except
// before ',' ':' '::' or a parenthesized group and after '::'.
func (n Node) Text() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// Nodes renders a node list the same way Text does.
func Nodes(nodes []Node) string {
	var b strings.Builder
	writeList(&b, nodes)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	if n.Group == nil {
		b.WriteString(n.Tok.Text)
		return
	}
	b.WriteString(n.Group.Open.Text)
	writeList(b, n.Group.Children)
	b.WriteString(n.Group.Close.Text)
}

func writeList(b *strings.Builder, nodes []Node) {
	for i, child := range nodes {
		if i > 0 && needsSpace(nodes[i-1], child) {
			b.WriteByte(' ')
		}
		writeNode(b, child)
	}
}

// Leaves flattens nodes back into the token sequence they came from.
func Leaves(nodes []Node) []token.Token {
	var out []token.Token
	for _, n := range nodes {
		if n.Group == nil {
			out = append(out, n.Tok)
			continue
		}
		out = append(out, n.Group.Open)
		out = append(out, Leaves(n.Group.Children)...)
		out = append(out, n.Group.Close)
	}
	return out
}

func needsSpace(prev, next Node) bool {
	switch {
	case next.IsToken(token.Comma), next.IsToken(token.Colon), next.IsToken(token.ColonColon):
		return false
	case next.IsGroup(DelimParen), prev.IsToken(token.ColonColon):
		return false
	}
	return true
}
