package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexTokenTooLong             Code = 1005

	// Грамматика объявления и файла
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynUnmatchedCloser   Code = 2003
	SynExpectEnum        Code = 2004
	SynExpectTypeName    Code = 2005
	SynExpectBody        Code = 2006
	SynExpectFlagName    Code = 2007
	SynExpectAssign      Code = 2008
	SynExpectFlagValue   Code = 2009
	SynExpectSeparator   Code = 2010
	SynTrailingTokens    Code = 2011
	SynExpectAttribute   Code = 2012
	SynExpectPackageName Code = 2013
	SynEmptyDeclaration  Code = 2014
	SynBadVisibility     Code = 2015

	// Семантика флагов
	SemaInfo              Code = 3000
	SemaDuplicateValue    Code = 3001
	SemaDuplicateName     Code = 3002
	SemaValueOverflow     Code = 3003
	SemaInvalidLiteral    Code = 3004
	SemaZeroSuppressed    Code = 3005
	SemaEmptyAlreadySet   Code = 3006
	SemaEmptyNameConflict Code = 3007
	SemaDuplicateType     Code = 3008
	SemaNoFlags           Code = 3009

	// Файловая система
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// enumflags.toml
	ProjInfo           Code = 5000
	ProjInvalidPackage Code = 5002

	// Аргументы атрибута
	CfgInfo             Code = 6000
	CfgUnknownKey       Code = 6001
	CfgExpectKey        Code = 6002
	CfgExpectAssign     Code = 6003
	CfgExpectValue      Code = 6004
	CfgExpectComma      Code = 6005
	CfgInvalidWidth     Code = 6006
	CfgInvalidEmptyName Code = 6007
	CfgInvalidBool      Code = 6008
	CfgDuplicateKey     Code = 6009
	CfgMissingValue     Code = 6010
	CfgTrailingComma    Code = 6011
	CfgEmptyNameUnused  Code = 6012

	// Генерация
	GenInfo         Code = 7000
	GenTemplate     Code = 7001
	GenFormat       Code = 7002
	GenOutputPath   Code = 7003
	GenNameConflict Code = 7004
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexTokenTooLong:             "Token too long",

	SynInfo:              "Syntax information",
	SynUnexpectedToken:   "Unexpected token",
	SynUnclosedDelimiter: "Unclosed delimiter",
	SynUnmatchedCloser:   "Unmatched closing delimiter",
	SynExpectEnum:        "Expected 'enum'",
	SynExpectTypeName:    "Expected type name",
	SynExpectBody:        "Expected declaration body",
	SynExpectFlagName:    "Expected flag name",
	SynExpectAssign:      "Expected '='",
	SynExpectFlagValue:   "Expected flag value",
	SynExpectSeparator:   "Expected ','",
	SynTrailingTokens:    "Unexpected tokens after declaration",
	SynExpectAttribute:   "Malformed attribute",
	SynExpectPackageName: "Expected package name",
	SynEmptyDeclaration:  "Empty declaration",
	SynBadVisibility:     "Malformed visibility",

	SemaInfo:              "Semantic information",
	SemaDuplicateValue:    "Duplicate flag value",
	SemaDuplicateName:     "Duplicate flag name",
	SemaValueOverflow:     "Flag value exceeds storage width",
	SemaInvalidLiteral:    "Invalid integer literal",
	SemaZeroSuppressed:    "Zero flag with empty generation disabled",
	SemaEmptyAlreadySet:   "Empty case already specified",
	SemaEmptyNameConflict: "Empty case name collides with a flag",
	SemaDuplicateType:     "Duplicate flag type",
	SemaNoFlags:           "Declaration without flags",

	IOInfo:          "I/O information",
	IOLoadFileError: "I/O load file error",
	IOWriteError:    "I/O write error",

	ProjInfo:           "Project information",
	ProjInvalidPackage: "Invalid package name",

	CfgInfo:             "Configuration information",
	CfgUnknownKey:       "Unknown configuration key",
	CfgExpectKey:        "Expected configuration key",
	CfgExpectAssign:     "Expected '=' or ':'",
	CfgExpectValue:      "Expected configuration value",
	CfgExpectComma:      "Expected ','",
	CfgInvalidWidth:     "Invalid bit width",
	CfgInvalidEmptyName: "Invalid empty case name",
	CfgInvalidBool:      "Invalid boolean",
	CfgDuplicateKey:     "Duplicate configuration key",
	CfgMissingValue:     "Missing configuration value",
	CfgTrailingComma:    "Trailing comma in configuration",
	CfgEmptyNameUnused:  "Empty case name without empty case",

	GenInfo:         "Generation information",
	GenTemplate:     "Template error",
	GenFormat:       "Generated code does not format",
	GenOutputPath:   "Output path conflict",
	GenNameConflict: "Generated identifier conflict",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
