package config_test

import (
	"strings"
	"testing"

	"enumflags/internal/config"
	"enumflags/internal/diag"
	"enumflags/internal/lexer"
	"enumflags/internal/source"
	"enumflags/internal/tree"
)

func parseArgs(t *testing.T, input string, base config.Config) (config.Config, bool, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("args.flags", []byte(input)))
	bag := diag.NewBag(8)
	rep := diag.BagReporter{Bag: bag}
	nodes, ok := tree.Build(lexer.New(file, lexer.Options{Reporter: rep}).All(), rep)
	if !ok {
		t.Fatalf("tree build failed for %q: %v", input, bag.Items())
	}
	cfg, ok := config.Parse(nodes, base, rep)
	return cfg, ok, bag
}

func TestDefaults(t *testing.T) {
	cfg, ok, bag := parseArgs(t, "", config.Default())
	if !ok || bag.Len() != 0 {
		t.Fatalf("empty input must succeed: %v", bag.Items())
	}
	if cfg.Width != config.Width32 || cfg.EmptyName != "None" || cfg.EmptyNameSet || cfg.SuppressEmpty || cfg.Debug {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		input string
		check func(config.Config) bool
	}{
		{"bits = 8", func(c config.Config) bool { return c.Width == config.Width8 }},
		{"bits: 16", func(c config.Config) bool { return c.Width == config.Width16 }},
		{"bits = 0x40", func(c config.Config) bool { return c.Width == config.Width64 }},
		{"bits = 128", func(c config.Config) bool { return c.Width == config.Width128 }},
		{"empty = NoBitsSet", func(c config.Config) bool { return c.EmptyName == "NoBitsSet" && c.EmptyNameSet }},
		{"disable_empty_generation: true", func(c config.Config) bool { return c.SuppressEmpty }},
		{"disable_empty_generation = yes", func(c config.Config) bool { return c.SuppressEmpty }},
		{"disable_empty_generation = no", func(c config.Config) bool { return !c.SuppressEmpty }},
		{"debug = true", func(c config.Config) bool { return c.Debug }},
		{"debug = 1", func(c config.Config) bool { return c.Debug }},
		{`debug = "verbose"`, func(c config.Config) bool { return c.Debug }},
		{"debug = false", func(c config.Config) bool { return !c.Debug }},
		{"debug = no", func(c config.Config) bool { return !c.Debug }},
		{"bits : 8,empty=None", func(c config.Config) bool {
			return c.Width == config.Width8 && c.EmptyName == "None" && c.EmptyNameSet
		}},
	}
	for _, tt := range tests {
		cfg, ok, bag := parseArgs(t, tt.input, config.Default())
		if !ok {
			t.Fatalf("%q: unexpected failure: %v", tt.input, bag.Items())
		}
		if !tt.check(cfg) {
			t.Fatalf("%q: unexpected config %+v", tt.input, cfg)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		msg   string
	}{
		{"bits = 12", diag.CfgInvalidWidth, "invalid value for `bits`: 12"},
		{"bits = 256", diag.CfgInvalidWidth, "allowed values"},
		{"bits = eight", diag.CfgInvalidWidth, "expects an integer"},
		{"bits = 0x", diag.CfgInvalidWidth, "invalid value"},
		{"empty = 1abc", diag.CfgInvalidEmptyName, "`1abc`"},
		{`empty = "Name"`, diag.CfgInvalidEmptyName, "invalid name"},
		{"empty = Größe", diag.CfgInvalidEmptyName, "Größe"},
		{"disable_empty_generation = True", diag.CfgInvalidBool, "True"},
		{"colour = red", diag.CfgUnknownKey, "unknown key `colour`"},
		{"8 = bits", diag.CfgExpectKey, "expecting a key"},
		{"bits == 8", diag.CfgExpectValue, ""},
		{"bits - 8", diag.CfgExpectAssign, "'=' or ':'"},
		{"bits :: 8", diag.CfgExpectAssign, ""},
		{"bits = (8)", diag.CfgExpectValue, "(8)"},
		{"bits = 8; debug = true", diag.CfgExpectComma, "`;`"},
		{"bits = 8 debug = true", diag.CfgExpectComma, "`debug`"},
		{"bits = 8,", diag.CfgTrailingComma, "trailing comma"},
		{"bits", diag.CfgMissingValue, "no value"},
		{"bits =", diag.CfgMissingValue, "no value"},
		{"bits = 8, bits = 16", diag.CfgDuplicateKey, "specified twice"},
	}
	for _, tt := range tests {
		_, ok, bag := parseArgs(t, tt.input, config.Default())
		if ok {
			t.Fatalf("%q: expected failure", tt.input)
		}
		if bag.Len() != 1 {
			t.Fatalf("%q: expected exactly one diagnostic, got %v", tt.input, bag.Items())
		}
		d := bag.Items()[0]
		if d.Code != tt.code {
			t.Fatalf("%q: code %s, want %s (%s)", tt.input, d.Code.ID(), tt.code.ID(), d.Message)
		}
		if !strings.Contains(d.Message, tt.msg) {
			t.Fatalf("%q: message %q does not mention %q", tt.input, d.Message, tt.msg)
		}
	}
}

func TestEmptyNameCheckedByValidator(t *testing.T) {
	// значение-идентификатор, но со знаком подчёркивания в начале: допустимо
	cfg, ok, _ := parseArgs(t, "empty = _Zero9", config.Default())
	if !ok || cfg.EmptyName != "_Zero9" {
		t.Fatalf("unexpected result %+v", cfg)
	}
}

func TestDuplicateKeyPointsAtFirst(t *testing.T) {
	_, _, bag := parseArgs(t, "debug = yes, debug = no", config.Default())
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 0 {
		t.Fatalf("note must point at the first key: %+v", d.Notes)
	}
}

func TestTrailingCommaHasFix(t *testing.T) {
	_, _, bag := parseArgs(t, "bits = 8 ,", config.Default())
	d := bag.Items()[0]
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].Span.Start != 9 {
		t.Fatalf("fix must delete the comma: %+v", d.Fixes)
	}
}

func TestMiscasedKeyHasFix(t *testing.T) {
	_, ok, bag := parseArgs(t, "Bits = 8", config.Default())
	if ok {
		t.Fatalf("key lookup must be case sensitive")
	}
	d := bag.Items()[0]
	if d.Code != diag.CfgUnknownKey || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "bits" {
		t.Fatalf("expected a rename fix, got %+v", d)
	}
	_, _, bag = parseArgs(t, "width = 8", config.Default())
	if got := bag.Items()[0]; len(got.Fixes) != 0 {
		t.Fatalf("unrelated key must not get a fix: %+v", got.Fixes)
	}
}

func TestEmptyWithSuppressionWarns(t *testing.T) {
	cfg, ok, bag := parseArgs(t, "empty = Nothing, disable_empty_generation = true", config.Default())
	if !ok {
		t.Fatalf("combination must be accepted: %v", bag.Items())
	}
	if !cfg.SuppressEmpty || cfg.EmptyName != "Nothing" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !bag.HasWarnings() || bag.HasErrors() || bag.Items()[0].Code != diag.CfgEmptyNameUnused {
		t.Fatalf("expected a single warning, got %v", bag.Items())
	}
}

func TestBaseIsRespected(t *testing.T) {
	base := config.Config{Width: config.Width8, EmptyName: "Empty"}
	cfg, ok, _ := parseArgs(t, "debug = on", base)
	if !ok || cfg.Width != config.Width8 || cfg.EmptyName != "Empty" || cfg.EmptyNameSet {
		t.Fatalf("base overridden: %+v", cfg)
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		w       config.Width
		storage string
		max     string
	}{
		{config.Width8, "uint8", "255"},
		{config.Width16, "uint16", "65535"},
		{config.Width32, "uint32", "4294967295"},
		{config.Width64, "uint64", "18446744073709551615"},
		{config.Width128, "[2]uint64", "340282366920938463463374607431768211455"},
	}
	for _, tt := range tests {
		if !tt.w.Valid() || tt.w.Storage() != tt.storage || tt.w.Max().String() != tt.max {
			t.Fatalf("width %d: storage %q max %s", tt.w, tt.w.Storage(), tt.w.Max())
		}
	}
	if config.Width(24).Valid() {
		t.Fatalf("24 is not a valid width")
	}
}
