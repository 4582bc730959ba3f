// Package flagfile splits a .flags source into its package clause and
// declaration units:
//
//	package colors
//
//	/// Primary colours.
//	#[bitflags(bits = 8, empty = Black)]
//	pub enum Color { Red = 1, Green = 2, Blue = 4 }
package flagfile

import (
	"fmt"
	"slices"

	"enumflags/internal/diag"
	"enumflags/internal/source"
	"enumflags/internal/token"
	"enumflags/internal/tree"
)

// AttrNames are the accepted attribute names.
var AttrNames = []string{"bitflags", "EnumBitFlags"}

// File is a parsed .flags source.
type File struct {
	Source      *source.File
	Package     string // "" when the file has no package clause
	PackageSpan source.Span
	Units       []Unit
}

// Unit is one attribute plus the declaration it applies to.
type Unit struct {
	Attr     source.Span // zero when there is no attribute
	Args     []tree.Node // inside bitflags(...)
	ArgsSpan source.Span
	Decl     []tree.Node // from the first token up to the body, inclusive
	Span     source.Span
}

// Parse splits file into units. Malformed units are reported and skipped;
// ok is false when anything was reported as an error.
func Parse(file *source.File, r diag.Reporter) (*File, bool) {
	guard := &diag.FirstError{Next: r}
	nodes, _ := tree.BuildSource(file, guard)
	out := &File{Source: file}

	rest := nodes
	if len(rest) > 0 && rest[0].IsToken(token.KwPackage) {
		rest = out.parsePackage(rest, guard)
	}
	for len(rest) > 0 {
		if rest[0].IsToken(token.Semicolon) {
			rest = rest[1:]
			continue
		}
		var u Unit
		var ok bool
		u, rest, ok = parseUnit(rest, guard)
		if ok {
			out.Units = append(out.Units, u)
		}
	}
	return out, !guard.Failed()
}

func (f *File) parsePackage(nodes []tree.Node, r diag.Reporter) []tree.Node {
	kw := nodes[0]
	if len(nodes) < 2 || !nodes[1].IsToken(token.Ident) {
		at := kw.Span().ZeroideToEnd()
		got := "end of file"
		if len(nodes) > 1 {
			at, got = nodes[1].Span(), "`"+nodes[1].Text()+"`"
		}
		diag.ReportError(r, diag.SynExpectPackageName, at,
			fmt.Sprintf("expecting a package name after `package` but got %s", got)).
			Emit()
		return nodes[1:]
	}
	f.Package = nodes[1].Tok.Text
	f.PackageSpan = nodes[1].Tok.Span
	return nodes[2:]
}

// parseUnit consumes one unit. On error it skips to the end of the
// offending declaration so the following units are still checked.
func parseUnit(nodes []tree.Node, r diag.Reporter) (Unit, []tree.Node, bool) {
	var u Unit
	var attrDoc []token.Trivia
	ok := true

	if nodes[0].IsToken(token.Hash) {
		hash := nodes[0].Tok
		attrDoc = hash.Leading
		if len(nodes) < 2 || !nodes[1].IsGroup(tree.DelimBracket) {
			diag.ReportError(r, diag.SynExpectAttribute, hash.Span,
				"expecting `[` after `#` (attributes are written #[bitflags(...)])").
				Emit()
			return u, skipDecl(nodes[1:]), false
		}
		group := nodes[1].Group
		u.Attr = hash.Span.Cover(group.Close.Span)
		if !u.parseAttr(group, r) {
			ok = false
		}
		nodes = nodes[2:]
	}

	end := slices.IndexFunc(nodes, func(n tree.Node) bool { return n.IsGroup(tree.DelimBrace) })
	if end < 0 {
		end = len(nodes) - 1
	}
	u.Decl = slices.Clone(nodes[:end+1])
	if len(u.Decl) == 0 {
		diag.ReportError(r, diag.SynEmptyDeclaration, u.Attr,
			"attribute is not followed by an enum declaration").
			Emit()
		return u, nil, false
	}
	if len(attrDoc) > 0 && u.Decl[0].Group == nil {
		first := &u.Decl[0].Tok
		first.Leading = append(slices.Clone(attrDoc), first.Leading...)
	}

	u.Span = u.Decl[0].Span().Cover(u.Decl[len(u.Decl)-1].Span())
	if u.Attr.Len() > 0 {
		u.Span = u.Attr.Cover(u.Span)
	}
	return u, nodes[end+1:], ok
}

func (u *Unit) parseAttr(group *tree.Group, r diag.Reporter) bool {
	kids := group.Children
	if len(kids) == 0 || !kids[0].IsToken(token.Ident) || !slices.Contains(AttrNames, kids[0].Tok.Text) {
		at := group.Inner()
		if len(kids) > 0 {
			at = kids[0].Span()
		}
		diag.ReportError(r, diag.SynExpectAttribute, at,
			fmt.Sprintf("unknown attribute `#[%s]` (expecting #[bitflags(...)])", tree.Nodes(kids))).
			Emit()
		return false
	}
	switch {
	case len(kids) == 1:
		u.ArgsSpan = kids[0].Span().ZeroideToEnd()
	case len(kids) == 2 && kids[1].IsGroup(tree.DelimParen):
		u.Args = kids[1].Group.Children
		u.ArgsSpan = kids[1].Group.Inner()
	default:
		diag.ReportError(r, diag.SynExpectAttribute, kids[1].Span(),
			fmt.Sprintf("expecting arguments in parentheses after `%s` but got: `%s`", kids[0].Tok.Text, kids[1].Text())).
			Emit()
		return false
	}
	return true
}

func skipDecl(nodes []tree.Node) []tree.Node {
	end := slices.IndexFunc(nodes, func(n tree.Node) bool { return n.IsGroup(tree.DelimBrace) })
	if end < 0 {
		return nil
	}
	return nodes[end+1:]
}
