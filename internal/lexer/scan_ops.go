package lexer

import (
	"enumflags/internal/diag"
	"enumflags/internal/token"
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	if lx.try2(':', ':') {
		return lx.emit(token.ColonColon, start)
	}

	switch lx.cursor.Bump() {
	case '=':
		return lx.emit(token.Assign, start)
	case ':':
		return lx.emit(token.Colon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '#':
		return lx.emit(token.Hash, start)
	case '!':
		return lx.emit(token.Bang, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '|':
		return lx.emit(token.Pipe, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	default:
		// неизвестный символ: забираем всю руну целиком
		lx.cursor.Reset(start)
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text))
		return tok
	}
}

func quoteText(s string) string {
	return "'" + s + "'"
}
