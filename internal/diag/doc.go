// Package diag defines diagnostics produced while lexing, parsing and
// expanding flag declarations.
//
// Every phase reports through a Reporter; the CLI collects into a Bag and
// renders it with diagfmt. Codes are grouped by phase:
//
//	LEX1xxx  lexer
//	SYN2xxx  declaration and file grammar
//	SEM3xxx  flag semantics (values, names, empty case)
//	IO4xxx   file system
//	PRJ5xxx  enumflags.toml
//	CFG6xxx  attribute arguments
//	GEN7xxx  code emission
package diag
