// Package project reads the enumflags.toml manifest that sets generation
// defaults for a source tree.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"enumflags/internal/config"
	"enumflags/internal/names"
)

var (
	ErrInvalidPackage = errors.New("invalid package name")
	ErrInvalidDefault = errors.New("invalid default")
)

// DefaultSuffix is appended to the base name of a .flags file.
const DefaultSuffix = "_flags.go"

// Generate is the [generate] table.
type Generate struct {
	Package string `toml:"package,omitempty"`
	Suffix  string `toml:"suffix"`
	Bits    int    `toml:"bits"`
	Empty   string `toml:"empty"`
	Jobs    int    `toml:"jobs"`
	Cache   bool   `toml:"cache"`
}

// Manifest is a decoded enumflags.toml. Path and Root are empty for the
// built-in defaults.
type Manifest struct {
	Path     string   `toml:"-"`
	Root     string   `toml:"-"`
	Generate Generate `toml:"generate"`
}

// Default returns the manifest used when no enumflags.toml is found.
func Default() *Manifest {
	return &Manifest{Generate: Generate{
		Suffix: DefaultSuffix,
		Bits:   int(config.Width32),
		Empty:  config.DefaultEmptyName,
	}}
}

// Load decodes path on top of the defaults and validates it.
func Load(path string) (*Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Discover finds and loads the manifest governing startDir. When there is none
// it returns Default() and ok is false.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	m, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Validate checks the [generate] values.
func (m *Manifest) Validate() error {
	g := m.Generate
	if g.Package != "" && !ValidPackage(g.Package) {
		return fmt.Errorf("%w: [generate].package %q", ErrInvalidPackage, g.Package)
	}
	if _, ok := config.WidthFromBits(uint64(max(g.Bits, 0))); !ok {
		return fmt.Errorf("%w: [generate].bits must be 8, 16, 32, 64 or 128, got %d", ErrInvalidDefault, g.Bits)
	}
	if !names.Valid(g.Empty) {
		return fmt.Errorf("%w: [generate].empty %q is not a valid identifier", ErrInvalidDefault, g.Empty)
	}
	if g.Suffix == "" || !strings.HasSuffix(g.Suffix, ".go") || strings.ContainsRune(g.Suffix, filepath.Separator) {
		return fmt.Errorf("%w: [generate].suffix %q must end in .go and contain no separator", ErrInvalidDefault, g.Suffix)
	}
	if g.Jobs < 0 {
		return fmt.Errorf("%w: [generate].jobs must not be negative", ErrInvalidDefault)
	}
	return nil
}

// BaseConfig returns the defaults attribute arguments are applied on.
func (m *Manifest) BaseConfig() config.Config {
	cfg := config.Default()
	if w, ok := config.WidthFromBits(uint64(max(m.Generate.Bits, 0))); ok {
		cfg.Width = w
	}
	if m.Generate.Empty != "" {
		cfg.EmptyName = m.Generate.Empty
	}
	return cfg
}

// OutputPath maps a .flags path to its generated file.
func (m *Manifest) OutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + m.Generate.Suffix
}

// ValidPackage reports whether name can be a Go package clause.
func ValidPackage(name string) bool {
	return names.Valid(name) && name != "_" && !token.IsKeyword(name)
}

// PackageFromDir derives a package name from a directory: lower-cased, with
// characters that cannot appear in an identifier dropped.
func PackageFromDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(dir)) {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || !ValidPackage(b.String()) {
		return "flags"
	}
	return b.String()
}

// Encode renders m as TOML.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates dir/enumflags.toml with the defaults. An existing
// manifest is never overwritten.
func WriteDefault(dir, pkg string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	m := Default()
	m.Generate.Package = pkg
	data, err := m.Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
