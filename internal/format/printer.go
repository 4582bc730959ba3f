package format

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"enumflags/internal/diag"
	"enumflags/internal/lexer"
	"enumflags/internal/source"
	"enumflags/internal/token"
)

// ErrLex is returned for files the lexer rejects; they are left untouched.
var ErrLex = errors.New("format: file has lexical errors")

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	writer       *Writer
	started      bool // что-то уже напечатано
	afterComment bool
}

// FormatFile returns the canonical layout of sf.
func FormatFile(sf *source.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	toks, err := lex(sf)
	if err != nil {
		return nil, err
	}
	p := printer{writer: NewWriter(len(sf.Content), opt)}
	var prev token.Token
	for _, tok := range toks {
		broke := p.printTrivia(tok.Leading)
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.RBrace {
			p.writer.IndentPop()
		}
		if p.started && !broke && (p.afterComment || needSpace(prev, tok)) {
			p.writer.Space()
		}
		p.writer.WriteString(tok.Text)
		p.started = true
		p.afterComment = false
		if tok.Kind == token.LBrace {
			p.writer.IndentPush()
		}
		prev = tok
	}
	p.writer.Finish()
	return p.writer.Bytes(), nil
}

// printTrivia emits comments and line breaks; spaces are recomputed. It
// reports whether the next token starts a new line.
func (p *printer) printTrivia(trivia []token.Trivia) bool {
	newlines := 0
	lineOpen := false
	for _, tv := range trivia {
		switch tv.Kind {
		case token.TriviaSpace:
			continue
		case token.TriviaNewline:
			newlines += strings.Count(tv.Text, "\n")
			continue
		}
		p.breakLines(newlines)
		if newlines == 0 && p.started {
			// комментарий в конце строки
			p.writer.Space()
		}
		p.writer.WriteString(strings.TrimRight(tv.Text, " \t"))
		p.started = true
		p.afterComment = true
		newlines = 0
		lineOpen = tv.Kind != token.TriviaBlockComment
	}
	if lineOpen && newlines == 0 {
		newlines = 1
	}
	p.breakLines(newlines)
	return newlines > 0 && p.started
}

func (p *printer) breakLines(n int) {
	switch {
	case !p.started || n == 0:
	case n == 1:
		p.writer.Newline()
	default:
		p.writer.BlankLine()
	}
}

// needSpace decides the gap between two tokens on the same line.
func needSpace(prev, cur token.Token) bool {
	switch prev.Kind {
	case token.Hash, token.Bang, token.LBracket, token.LParen, token.Dot, token.ColonColon, token.Minus:
		return false
	case token.LBrace:
		return cur.Kind != token.RBrace
	}
	switch cur.Kind {
	case token.RBracket, token.RParen, token.Comma, token.Semicolon, token.Colon, token.Dot, token.ColonColon:
		return false
	case token.LBracket:
		return prev.Kind != token.Hash && prev.Kind != token.Bang
	case token.Bang:
		return prev.Kind != token.Hash
	case token.LParen:
		// bitflags(...), pub(...)
		return !prev.IsWord()
	}
	return true
}

func lex(sf *source.File) ([]token.Token, error) {
	bag := diag.NewBag(1)
	toks := lexer.New(sf, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
	if bag.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrLex, bag.Items()[0].Message)
	}
	return toks, nil
}

type shape struct {
	kind token.Kind
	text string
}

// shapeOf keeps tokens and comment texts, the parts formatting must not change.
func shapeOf(toks []token.Token) []shape {
	out := make([]shape, 0, len(toks))
	for _, tok := range toks {
		for _, tv := range tok.Leading {
			if tv.Kind == token.TriviaSpace || tv.Kind == token.TriviaNewline {
				continue
			}
			out = append(out, shape{kind: token.Invalid, text: strings.TrimRight(tv.Text, " \t")})
		}
		out = append(out, shape{kind: tok.Kind, text: tok.Text})
	}
	return out
}

// CheckRoundTrip formats the file and re-lexes the result, ensuring that
// tokens and comments remain identical and that formatting is idempotent.
func CheckRoundTrip(sf *source.File, opt Options) (ok bool, msg string) {
	orig, err := lex(sf)
	if err != nil {
		return false, "fmt-check: " + err.Error()
	}
	formatted, err := FormatFile(sf, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	fs2 := source.NewFileSet()
	rebuilt := fs2.Get(fs2.AddVirtual(sf.Path, formatted))
	again, err := lex(rebuilt)
	if err != nil {
		return false, "fmt-check: reparse failed: " + err.Error()
	}
	if !slices.Equal(shapeOf(orig), shapeOf(again)) {
		return false, "fmt-check: tokens differ after round-trip"
	}
	// сверка с исходными байтами, не с лексером
	if !bytes.Equal(stripSpace(sf.Content), stripSpace(formatted)) {
		return false, "fmt-check: non-whitespace text changed"
	}
	twice, err := FormatFile(rebuilt, opt)
	if err != nil || string(twice) != string(formatted) {
		return false, "fmt-check: formatting is not idempotent"
	}
	return true, "fmt-check: OK"
}

// stripSpace drops every byte the formatter is allowed to change.
func stripSpace(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		out = append(out, c)
	}
	return out
}
