// Package token defines lexical token kinds and trivia for .flags sources.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly (Start..End).
//   - Integer literals keep their base prefix and type suffix in Text
//     (0x1Fu8 is a single IntLit); interpretation is left to numlit.
//   - Boolean words (true, yes, false, no) stay identifiers; only the
//     configuration parser gives them meaning.
//   - Comments are leading Trivia and never appear in the main token stream.
package token
