package numlit

import (
	"errors"
	"strings"
	"testing"

	"lukechampine.com/uint128"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		text   string
		want   uint128.Uint128
		base   int
		suffix string
	}{
		{"0", uint128.Zero, 10, ""},
		{"255", uint128.From64(255), 10, ""},
		{"0xFF", uint128.From64(255), 16, ""},
		{"0xff", uint128.From64(255), 16, ""},
		{"0o17", uint128.From64(15), 8, ""},
		{"0b1010", uint128.From64(10), 2, ""},
		{"256u8", uint128.From64(256), 10, "u8"},
		{"0x8000i16", uint128.From64(0x8000), 16, "i16"},
		{"1u128", uint128.From64(1), 10, "u128"},
		{"007", uint128.From64(7), 10, ""},
		{"0x8000000000000000", uint128.From64(1 << 63), 16, ""},
		{"0x10000000000000000", uint128.New(0, 1), 16, ""},
		{"340282366920938463463374607431768211455", uint128.Max, 10, ""},
		{"0xffffffffffffffffffffffffffffffffu128", uint128.Max, 16, "u128"},
	}
	for _, tt := range tests {
		lit, err := ParseLiteral(tt.text)
		if err != nil {
			t.Fatalf("ParseLiteral(%q): %v", tt.text, err)
		}
		if !lit.Value.Equals(tt.want) {
			t.Fatalf("ParseLiteral(%q) = %s, want %s", tt.text, lit.Value, tt.want)
		}
		if lit.Base != tt.base || lit.Suffix != tt.suffix {
			t.Fatalf("ParseLiteral(%q): base=%d suffix=%q", tt.text, lit.Base, lit.Suffix)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		text   string
		want   error
		offset int
	}{
		{"", ErrEmpty, 0},
		{"0x", ErrNoDigits, 2},
		{"0bu8", ErrNoDigits, 2},
		{"0b102", ErrInvalidDigit, 4},
		{"0o8", ErrInvalidDigit, 2},
		{"12a", ErrInvalidDigit, 2},
		{"1_000", ErrInvalidDigit, 1},
		{"0X1F", ErrInvalidDigit, 1},
		{"5u", ErrInvalidSuffix, 1},
		{"5u7", ErrInvalidSuffix, 1},
		{"5u8x", ErrInvalidSuffix, 1},
		{"5f32", ErrInvalidDigit, 1},
		{"340282366920938463463374607431768211456", ErrOverflow, 38},
		{"0x100000000000000000000000000000000", ErrOverflow, 34},
	}
	for _, tt := range tests {
		_, err := Parse(tt.text)
		if !errors.Is(err, tt.want) {
			t.Fatalf("Parse(%q) error = %v, want %v", tt.text, err, tt.want)
		}
		var lerr *Error
		if !errors.As(err, &lerr) {
			t.Fatalf("Parse(%q): error is not *Error", tt.text)
		}
		if lerr.Offset != tt.offset {
			t.Fatalf("Parse(%q): offset = %d, want %d", tt.text, lerr.Offset, tt.offset)
		}
		if !strings.Contains(err.Error(), tt.text) {
			t.Fatalf("message %q must quote the literal", err.Error())
		}
	}
}

func TestMulAddCarries(t *testing.T) {
	// 2^127 * 2 переполняет, хотя младшее слово ноль
	v := uint128.New(0, 1<<63)
	if _, ok := mulAdd(v, 2, 0); ok {
		t.Fatalf("2^127*2 must overflow")
	}
	// Max + 1 переполняет только через перенос сложения
	if _, ok := mulAdd(uint128.Max.Rsh(1), 2, 1); !ok {
		t.Fatalf("(Max>>1)*2+1 == Max must fit")
	}
	if _, ok := mulAdd(uint128.Max, 1, 1); ok {
		t.Fatalf("Max+1 must overflow")
	}
	got, ok := mulAdd(uint128.From64(^uint64(0)), 16, 15)
	if !ok || !got.Equals(uint128.New(^uint64(0), 0xf)) {
		t.Fatalf("low word carry into high word broken: %v %v", got, ok)
	}
}

func TestHexAndMax(t *testing.T) {
	cases := map[string]uint128.Uint128{
		"0x0":                                uint128.Zero,
		"0xff":                               uint128.From64(255),
		"0x10000000000000000":                uint128.New(0, 1),
		"0xffffffffffffffffffffffffffffffff": uint128.Max,
		"0x80000000000000000000000000000001": uint128.New(1, 1<<63),
	}
	for want, v := range cases {
		if got := Hex(v); got != want {
			t.Fatalf("Hex(%s) = %q, want %q", v, got, want)
		}
	}
	if !MaxForBits(8).Equals64(0xff) || !MaxForBits(64).Equals64(^uint64(0)) || !MaxForBits(128).Equals(uint128.Max) {
		t.Fatalf("MaxForBits mismatch")
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, v := range []uint128.Uint128{uint128.From64(1), uint128.From64(0x8000), uint128.New(5, 7), uint128.Max} {
		back, err := Parse(Hex(v))
		if err != nil || !back.Equals(v) {
			t.Fatalf("round trip %s: %s %v", v, back, err)
		}
	}
}
