package tree_test

import (
	"testing"

	"enumflags/internal/diag"
	"enumflags/internal/lexer"
	"enumflags/internal/source"
	"enumflags/internal/token"
	"enumflags/internal/tree"
)

func buildTree(t *testing.T, input string) ([]tree.Node, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("tree.flags", []byte(input)))
	bag := diag.NewBag(16)
	tokens := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
	nodes, ok := tree.Build(tokens, diag.BagReporter{Bag: bag})
	return nodes, bag, ok
}

func TestBuildNestedGroups(t *testing.T) {
	nodes, bag, ok := buildTree(t, "pub(crate) enum X { A = 1, B = 2 }")
	if !ok || bag.Len() != 0 {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if len(nodes) != 5 {
		t.Fatalf("got %d top-level nodes, want 5", len(nodes))
	}
	if !nodes[1].IsGroup(tree.DelimParen) || !nodes[4].IsGroup(tree.DelimBrace) {
		t.Fatalf("groups not recognized")
	}
	body := nodes[4].Group
	if len(body.Children) != 7 {
		t.Fatalf("body has %d children, want 7", len(body.Children))
	}
	if body.Close.Kind != token.RBrace {
		t.Fatalf("close = %v", body.Close.Kind)
	}
	if got := tree.Nodes(nodes[:2]); got != "pub(crate)" {
		t.Fatalf("visibility text = %q", got)
	}
	if got := nodes[4].Text(); got != "{A = 1, B = 2}" {
		t.Fatalf("body text = %q", got)
	}
}

func TestNodeText(t *testing.T) {
	nodes, _, _ := buildTree(t, "pub ( in crate :: ui )")
	if got := tree.Nodes(nodes); got != "pub(in crate::ui)" {
		t.Fatalf("text = %q", got)
	}
	nodes, _, _ = buildTree(t, "bits : 8 , debug=true")
	if got := tree.Nodes(nodes); got != "bits: 8, debug = true" {
		t.Fatalf("text = %q", got)
	}
}

func TestSpans(t *testing.T) {
	nodes, _, _ := buildTree(t, "x { a }")
	g := nodes[1]
	if sp := g.Span(); sp.Start != 2 || sp.End != 7 {
		t.Fatalf("group span = %v", sp)
	}
	if in := g.Group.Inner(); in.Start != 3 || in.End != 6 {
		t.Fatalf("inner span = %v", in)
	}
}

func TestDelimiterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unclosed brace", "enum X { A = 1", diag.SynUnclosedDelimiter},
		{"unclosed nested", "#[bitflags(bits = 8]", diag.SynUnmatchedCloser},
		{"stray closer", "enum X {} }", diag.SynUnmatchedCloser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag, ok := buildTree(t, tt.input)
			if ok {
				t.Fatalf("expected failure for %q", tt.input)
			}
			if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
				t.Fatalf("diagnostics = %v, want %s", bag.Items(), tt.code.ID())
			}
		})
	}
}

func TestUnclosedGroupStillUsable(t *testing.T) {
	nodes, _, _ := buildTree(t, "enum X { A = 1")
	if len(nodes) != 3 || !nodes[2].IsGroup(tree.DelimBrace) {
		t.Fatalf("expected synthesized brace group, got %d nodes", len(nodes))
	}
	if len(nodes[2].Group.Children) != 3 {
		t.Fatalf("children = %d", len(nodes[2].Group.Children))
	}
}

func TestLeavesRoundTrip(t *testing.T) {
	nodes, _, _ := buildTree(t, "#[a(b)] enum X { Y = 1 }")
	var kinds []token.Kind
	for _, tok := range tree.Leaves(nodes) {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.Hash, token.LBracket, token.Ident, token.LParen, token.Ident, token.RParen, token.RBracket,
		token.KwEnum, token.Ident, token.LBrace, token.Ident, token.Assign, token.IntLit, token.RBrace,
	}
	if len(kinds) != len(want) {
		t.Fatalf("leaves = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("leaf %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}
