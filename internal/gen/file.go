package gen

import (
	"bytes"
	"fmt"
	"go/format"
)

// Header opens every generated file; go vet and linters recognize it.
const Header = "// Code generated by enumflags. DO NOT EDIT."

// File assembles declaration fragments into a complete Go file for package
// pkg. src names the input in the header and may be empty.
func File(pkg, src string, fragments ...[]byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')
	if src != "" {
		fmt.Fprintf(&buf, "// source: %s\n", src)
	}
	fmt.Fprintf(&buf, "\npackage %s\n", pkg)
	for _, frag := range fragments {
		buf.WriteByte('\n')
		buf.Write(bytes.TrimSpace(frag))
		buf.WriteByte('\n')
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: package %s: %w", ErrFormat, pkg, err)
	}
	return out, nil
}
