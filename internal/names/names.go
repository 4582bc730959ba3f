// Package names validates configured identifiers and fingerprints flag names
// for case-insensitive duplicate detection.
package names

const (
	fnvOffset = 0xcbf29ce484222325
	fnvPrime  = 0x100000001b3
)

// lowerTable maps A-Z to a-z and every other byte to itself.
var lowerTable = func() (t [256]byte) {
	for i := range t {
		b := byte(i)
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		t[i] = b
	}
	return t
}()

// Valid reports whether name is a non-empty run of ASCII letters, digits and
// underscores that does not start with a digit.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Hash is 64-bit FNV-1a over the ASCII-lowercased bytes of name.
// The empty name hashes to 0.
func Hash(name string) uint64 {
	if name == "" {
		return 0
	}
	h := uint64(fnvOffset)
	for i := 0; i < len(name); i++ {
		h ^= uint64(lowerTable[name[i]])
		h *= fnvPrime
	}
	return h
}

// EqualFold compares a and b ignoring ASCII case only; other bytes must match exactly.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerTable[a[i]] != lowerTable[b[i]] {
			return false
		}
	}
	return true
}
