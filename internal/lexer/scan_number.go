package lexer

import (
	"enumflags/internal/token"
)

// scanNumber захватывает целый литерал вместе с префиксом базы и суффиксом типа:
// 0, 123, 0x1F, 0o17, 0b1010, 256u8, 0xFFi64.
// Лексер не проверяет цифры: всё, что похоже на продолжение идентификатора,
// входит в Text, а интерпретацию и ошибки берёт на себя numlit.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.IntLit, start)
}
