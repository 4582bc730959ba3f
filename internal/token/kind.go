package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwPackage represents the 'package' keyword of a .flags file.
	KwPackage // package

	// IntLit represents an integer literal with optional base prefix and type suffix.
	IntLit
	// StringLit represents a double-quoted string literal.
	StringLit

	// Assign represents the assign token.
	Assign // =
	// Colon represents the colon token.
	Colon // :
	// ColonColon represents the path separator token.
	ColonColon // ::
	// Comma represents the comma token.
	Comma // ,
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Dot represents the dot token.
	Dot // .
	// Hash represents the attribute introducer.
	Hash // #
	// Bang represents the bang token.
	Bang // !
	// Minus represents the minus token.
	Minus // -
	// Pipe represents the pipe token.
	Pipe // |
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	KwEnum:     "KwEnum",
	KwPub:      "KwPub",
	KwPackage:  "KwPackage",
	IntLit:     "IntLit",
	StringLit:  "StringLit",
	Assign:     "Assign",
	Colon:      "Colon",
	ColonColon: "ColonColon",
	Comma:      "Comma",
	Semicolon:  "Semicolon",
	Dot:        "Dot",
	Hash:       "Hash",
	Bang:       "Bang",
	Minus:      "Minus",
	Pipe:       "Pipe",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Closer returns the matching closing delimiter for an opening one.
func (k Kind) Closer() (Kind, bool) {
	switch k {
	case LParen:
		return RParen, true
	case LBrace:
		return RBrace, true
	case LBracket:
		return RBracket, true
	default:
		return Invalid, false
	}
}

// IsCloser reports whether k closes a delimited group.
func (k Kind) IsCloser() bool {
	return k == RParen || k == RBrace || k == RBracket
}
