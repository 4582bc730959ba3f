package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var builtinSeeds = []string{
	"",
	"enum A { X = 1 }",
	"pub enum Test { V1 = 1, V2 = 2, V3 = 4, }",
	"package p\n#[bitflags(bits = 8, empty = Nothing)]\npub(crate) enum T { A = 0x1, B = 0b10, C = 0o4 }",
	"#[bitflags(bits = 128)]\nenum Wide { Top = 0x80000000000000000000000000000000, Low = 1u8 }",
	"#[EnumBitFlags(disable_empty_generation = true)]\nenum T { A = 1 }",
	"#[bitflags(debug = true)] enum T { None = 0, A = 1 }",
	"/// doc\nenum T {\n\t/// flag doc\n\tA: 1,\n}",
	"enum T { A = 1, a = 2 }",
	"enum T { A = 1 } enum T { B = 1 }",
	"enum { }",
	"#[bitflags(bits = 7,)] enum T { A = 256 }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	for _, root := range []string{
		filepath.Join("..", "..", "testdata"),
		filepath.Join("..", "..", "examples"),
	} {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		// проходим по дереву, добавляем все *.flags файлы
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".flags" {
				return nil
			}
			// #nosec G304 -- path comes from a repository walk
			src, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			f.Add(clampSeed(src))
			return nil
		})
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func truncateForLog(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	return data[:n]
}
