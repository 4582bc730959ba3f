package names

import (
	"hash/fnv"
	"strings"
	"testing"
)

func TestValid(t *testing.T) {
	tests := map[string]bool{
		"None":      true,
		"_":         true,
		"_private":  true,
		"NoBits2":   true,
		"a1_b2":     true,
		"":          false,
		"1st":       false,
		"has space": false,
		"dash-ed":   false,
		"Größe":     false,
		"tab\t":     false,
	}
	for name, want := range tests {
		if got := Valid(name); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestHashMatchesFNV1aOfLowercase(t *testing.T) {
	for _, name := range []string{"a", "Flag", "READ_WRITE", "x9", "Größe"} {
		h := fnv.New64a()
		h.Write([]byte(asciiLower(name)))
		if got, want := Hash(name), h.Sum64(); got != want {
			t.Fatalf("Hash(%q) = %#x, want %#x", name, got, want)
		}
	}
}

func TestHashKnownValues(t *testing.T) {
	if Hash("") != 0 {
		t.Fatalf("empty input must hash to 0")
	}
	// FNV-1a("a")
	if got := Hash("A"); got != 0xaf63dc4c8601ec8c {
		t.Fatalf("Hash(A) = %#x", got)
	}
}

func TestHashCaseInsensitive(t *testing.T) {
	pairs := [][2]string{{"Flag", "FLAG"}, {"flag", "fLaG"}, {"Read_Write", "READ_write"}}
	for _, p := range pairs {
		if Hash(p[0]) != Hash(p[1]) {
			t.Fatalf("%q and %q must share a hash", p[0], p[1])
		}
		if !EqualFold(p[0], p[1]) {
			t.Fatalf("%q and %q must compare equal", p[0], p[1])
		}
	}
	if Hash("Flag") == Hash("Flags") || EqualFold("Flag", "Flags") {
		t.Fatalf("different names must differ")
	}
	// регистр не-ASCII не сворачивается
	if EqualFold("Ä", "ä") {
		t.Fatalf("non-ASCII case must not fold")
	}
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
