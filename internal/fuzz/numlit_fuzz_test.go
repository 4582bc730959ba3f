package fuzztests

import (
	"testing"

	"enumflags/internal/numlit"
)

func FuzzNumlitHexRoundTrip(f *testing.F) {
	for _, s := range []string{"0", "1", "0x10", "0b101", "0o17", "1_000", "255u8", "0xffffffffffffffffffffffffffffffff"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, text string) {
		v, err := numlit.Parse(text)
		if err != nil {
			return
		}
		back, err := numlit.Parse(numlit.Hex(v))
		if err != nil {
			t.Fatalf("Hex(%s) = %q does not parse: %v", text, numlit.Hex(v), err)
		}
		if !back.Equals(v) {
			t.Fatalf("round trip of %q: %s != %s", text, back, v)
		}
	})
}
