// Package numlit parses integer literal text into 128-bit unsigned magnitudes.
//
// Accepted forms: decimal digits, or 0x / 0o / 0b followed by digits of that
// base, optionally followed by a type suffix u8..u128 or i8..i128. The suffix
// is checked and discarded; sign is never tracked. Prefixes are lowercase
// only and digit separators are not accepted.
package numlit

import (
	"errors"
	"fmt"
	"math/bits"

	"lukechampine.com/uint128"
)

var (
	ErrEmpty         = errors.New("empty literal")
	ErrNoDigits      = errors.New("no digits")
	ErrInvalidDigit  = errors.New("invalid digit")
	ErrInvalidSuffix = errors.New("invalid type suffix")
	ErrOverflow      = errors.New("value does not fit in 128 bits")
)

// Error describes why a literal was rejected. Offset is the byte index of the
// offending character inside Text.
type Error struct {
	Text   string
	Offset int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid integer literal %q: %v", e.Text, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Literal is a parsed literal with its spelling details.
type Literal struct {
	Value  uint128.Uint128
	Base   int
	Suffix string // "u8", "i64", ... or ""
}

// Parse returns the magnitude of text.
func Parse(text string) (uint128.Uint128, error) {
	lit, err := ParseLiteral(text)
	if err != nil {
		return uint128.Zero, err
	}
	return lit.Value, nil
}

// ParseLiteral parses text and keeps the base and suffix it was written with.
func ParseLiteral(text string) (Literal, error) {
	if text == "" {
		return Literal{}, &Error{Text: text, Err: ErrEmpty}
	}

	base, start := 10, 0
	if len(text) >= 2 && text[0] == '0' {
		switch text[1] {
		case 'x':
			base, start = 16, 2
		case 'o':
			base, start = 8, 2
		case 'b':
			base, start = 2, 2
		}
	}

	value := uint128.Zero
	digits := 0
	i := start
	for ; i < len(text); i++ {
		ch := text[i]
		if ch == 'u' || ch == 'i' {
			break
		}
		d, ok := digitValue(ch, base)
		if !ok {
			return Literal{}, &Error{Text: text, Offset: i, Err: ErrInvalidDigit}
		}
		next, ok := mulAdd(value, uint64(base), d)
		if !ok {
			return Literal{}, &Error{Text: text, Offset: i, Err: ErrOverflow}
		}
		value = next
		digits++
	}
	if digits == 0 {
		return Literal{}, &Error{Text: text, Offset: i, Err: ErrNoDigits}
	}

	suffix := text[i:]
	if suffix != "" && !validSuffix(suffix) {
		return Literal{}, &Error{Text: text, Offset: i, Err: ErrInvalidSuffix}
	}
	return Literal{Value: value, Base: base, Suffix: suffix}, nil
}

func digitValue(ch byte, base int) (uint64, bool) {
	var d uint64
	switch {
	case ch >= '0' && ch <= '9':
		d = uint64(ch - '0')
	case ch >= 'a' && ch <= 'f':
		d = uint64(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		d = uint64(ch-'A') + 10
	default:
		return 0, false
	}
	return d, d < uint64(base)
}

// validSuffix accepts [ui](8|16|32|64|128).
func validSuffix(s string) bool {
	if s[0] != 'u' && s[0] != 'i' {
		return false
	}
	switch s[1:] {
	case "8", "16", "32", "64", "128":
		return true
	}
	return false
}

// mulAdd returns v*base + digit, or false when the result needs more than 128 bits.
func mulAdd(v uint128.Uint128, base, digit uint64) (uint128.Uint128, bool) {
	carryLo, lo := bits.Mul64(v.Lo, base)
	carryHi, hi := bits.Mul64(v.Hi, base)
	if carryHi != 0 {
		return uint128.Zero, false
	}
	hi, c := bits.Add64(hi, carryLo, 0)
	if c != 0 {
		return uint128.Zero, false
	}
	lo, c = bits.Add64(lo, digit, 0)
	hi, c = bits.Add64(hi, 0, c)
	if c != 0 {
		return uint128.Zero, false
	}
	return uint128.New(lo, hi), true
}
