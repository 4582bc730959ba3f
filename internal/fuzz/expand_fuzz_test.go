package fuzztests

import (
	"context"
	"testing"
	"time"

	"enumflags/internal/bitflags"
	"enumflags/internal/decl"
	"enumflags/internal/diag"
	"enumflags/internal/flagfile"
	"enumflags/internal/gen"
	"enumflags/internal/source"
	"enumflags/internal/testkit"
)

// expandTimeout is the maximum time allowed for one input. Longer means a
// recovery loop that does not advance.
const expandTimeout = 5 * time.Second

func expandAll(ctx context.Context, input []byte) (*flagfile.File, []*decl.Model, [][]byte, bool) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.flags", input))
	bag := diag.NewBag(128)
	rep := diag.BagReporter{Bag: bag}

	ff, ok := flagfile.Parse(file, rep)
	if !ok {
		return ff, nil, nil, false
	}
	var models []*decl.Model
	var frags [][]byte
	for _, u := range ff.Units {
		res, ok := bitflags.Expand(ctx, u.Args, u.Decl, bitflags.Options{}, rep)
		if !ok {
			return ff, nil, nil, false
		}
		models = append(models, res.Model)
		frags = append(frags, res.Source)
	}
	return ff, models, frags, true
}

func FuzzExpandInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ff, models, frags, ok := expandAll(context.Background(), input)
		if ff != nil {
			if err := testkit.CheckUnitSpans(ff); err != nil {
				t.Fatalf("unit spans: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		}
		if !ok {
			return
		}
		for _, m := range models {
			if err := testkit.CheckModel(m); err != nil {
				t.Fatalf("model %s: %v\ninput: %q", m.Name, err, truncateForLog(input, 200))
			}
		}
		// одинаковые имена в разных юнитах ловит driver, здесь проверяем только одиночные
		if len(models) != 1 {
			return
		}
		src, err := gen.File("fuzz", "", frags...)
		if err != nil {
			t.Fatalf("accepted input produced invalid Go: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		if err := testkit.CheckGenerated(src, models...); err != nil {
			t.Fatalf("generated: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzExpandNoHang checks that error recovery always terminates.
func FuzzExpandNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("#[bitflags(bits = 8"))
	f.Add([]byte("#[[[[[[[[ enum"))
	f.Add([]byte("enum T { A = = = 1 ,,, }"))
	f.Add([]byte("package package package"))
	f.Add([]byte("#[bitflags] #[bitflags] enum"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), expandTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _, _, _ = expandAll(ctx, input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("hang detected: expansion took longer than %v\ninput (%d bytes): %q",
				expandTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
