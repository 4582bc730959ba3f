// Package config parses the argument list of a bitflags attribute:
//
//	bits = 8, empty = Nothing, disable_empty_generation: true, debug = yes
//
// into a Config. Keys are separated from values by '=' or ':', pairs by ','.
package config

import (
	"strconv"

	"enumflags/internal/numlit"
	"enumflags/internal/source"

	"lukechampine.com/uint128"
)

// Width is the storage width of a generated flag type in bits.
type Width uint8

const (
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// DefaultEmptyName names the synthesized zero-valued constant.
const DefaultEmptyName = "None"

// WidthFromBits maps a bit count to a Width.
func WidthFromBits(n uint64) (Width, bool) {
	switch n {
	case 8, 16, 32, 64, 128:
		return Width(n), true
	}
	return 0, false
}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	_, ok := WidthFromBits(uint64(w))
	return ok
}

func (w Width) Bits() uint { return uint(w) }

// Max is the largest flag value the width can store.
func (w Width) Max() uint128.Uint128 {
	return numlit.MaxForBits(w.Bits())
}

// Storage is the Go type of the value field.
func (w Width) Storage() string {
	if w == Width128 {
		return "[2]uint64"
	}
	return "uint" + strconv.Itoa(int(w))
}

func (w Width) String() string {
	return strconv.Itoa(int(w))
}

// Config is the validated argument list of one declaration.
type Config struct {
	Width         Width
	EmptyName     string
	EmptyNameSet  bool // empty = X was given explicitly
	SuppressEmpty bool // disable_empty_generation
	Debug         bool

	// Spans of the keys as written, zero when the key is absent.
	WidthSpan    source.Span
	EmptySpan    source.Span
	SuppressSpan source.Span
}

// Default returns the configuration of an attribute without arguments.
func Default() Config {
	return Config{Width: Width32, EmptyName: DefaultEmptyName}
}
