package token

import (
	"enumflags/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is an integer or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == IntLit || t.Kind == StringLit
}

// IsPunctOrOp reports whether the token is punctuation.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Assign, Colon, ColonColon, Comma, Semicolon, Dot, Hash, Bang, Minus, Pipe,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwEnum, KwPub, KwPackage:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is an identifier or keyword.
// Configuration keys and values accept both.
func (t Token) IsWord() bool { return t.IsIdent() || t.IsKeyword() }
