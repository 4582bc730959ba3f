package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"enumflags/internal/config"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[generate]
package = "colors"
suffix = "_gen.go"
bits = 8
empty = "Nothing"
jobs = 2
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := m.Generate
	if g.Package != "colors" || g.Suffix != "_gen.go" || g.Bits != 8 || g.Empty != "Nothing" || g.Jobs != 2 {
		t.Fatalf("decoded: %+v", g)
	}
	if m.Root != dir {
		t.Fatalf("root %q, want %q", m.Root, dir)
	}
	cfg := m.BaseConfig()
	if cfg.Width != config.Width8 || cfg.EmptyName != "Nothing" || cfg.EmptyNameSet {
		t.Fatalf("base config: %+v", cfg)
	}
	if got := m.OutputPath(filepath.Join("a", "perm.flags")); got != filepath.Join("a", "perm_gen.go") {
		t.Fatalf("output path: %s", got)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[generate]\npackage = \"x\"\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Generate.Suffix != DefaultSuffix || m.Generate.Bits != 32 || m.Generate.Empty != "None" {
		t.Fatalf("defaults lost: %+v", m.Generate)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		body string
		want error
		msg  string
	}{
		{"[generate]\nbits = 12\n", ErrInvalidDefault, "bits"},
		{"[generate]\nempty = \"1x\"\n", ErrInvalidDefault, "empty"},
		{"[generate]\nsuffix = \"_flags.txt\"\n", ErrInvalidDefault, "suffix"},
		{"[generate]\njobs = -1\n", ErrInvalidDefault, "jobs"},
		{"[generate]\npackage = \"func\"\n", ErrInvalidPackage, "func"},
		{"[generate]\nwidth = 8\n", nil, "unknown keys: generate.width"},
		{"[generate\n", nil, "failed to parse TOML"},
	}
	for _, tt := range tests {
		path := writeManifest(t, t.TempDir(), tt.body)
		_, err := Load(path)
		if err == nil {
			t.Fatalf("%q: expected error", tt.body)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Fatalf("%q: error %v is not %v", tt.body, err, tt.want)
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Fatalf("%q: error %q does not mention %q", tt.body, err, tt.msg)
		}
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[generate]\nbits = 16\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if m.Generate.Bits != 16 {
		t.Fatalf("bits: %d", m.Generate.Bits)
	}

	file := filepath.Join(nested, "x.flags")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := Discover(file); !ok {
		t.Fatalf("a file path must be searched from its directory")
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, "colors")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("written manifest must load: %v", err)
	}
	if m.Generate.Package != "colors" || m.Generate.Suffix != DefaultSuffix {
		t.Fatalf("round trip: %+v", m.Generate)
	}
	if _, err := WriteDefault(dir, "colors"); err == nil {
		t.Fatalf("existing manifest must not be overwritten")
	}
}

func TestPackageFromDir(t *testing.T) {
	for dir, want := range map[string]string{
		"/src/colors":     "colors",
		"/src/My-Flags":   "myflags",
		"/src/2d":         "d",
		"/src/---":        "flags",
		"/src/func":       "flags",
		"/src/v2_options": "v2_options",
	} {
		if got := PackageFromDir(dir); got != want {
			t.Fatalf("PackageFromDir(%q) = %q, want %q", dir, got, want)
		}
	}
}
