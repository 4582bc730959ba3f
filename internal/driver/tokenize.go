package driver

import (
	"enumflags/internal/diag"
	"enumflags/internal/lexer"
	"enumflags/internal/source"
	"enumflags/internal/token"
)

// TokenizeResult holds the token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path and collects lexer diagnostics; it never fails on
// malformed input, only on I/O.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fileSet,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}, nil
}
