// Package bitflags expands one flag declaration: attribute arguments and the
// declaration itself in, a formatted Go fragment out.
package bitflags

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"enumflags/internal/config"
	"enumflags/internal/decl"
	"enumflags/internal/diag"
	"enumflags/internal/gen"
	"enumflags/internal/source"
	"enumflags/internal/trace"
	"enumflags/internal/tree"
)

// Options configure an expansion.
type Options struct {
	// Base holds the defaults the arguments are applied on; the zero value
	// means config.Default().
	Base *config.Config
	// Debug receives the generated text of declarations with debug = true.
	// When nil the text goes to the tracer as a debug point.
	Debug io.Writer
}

// Result is a successful expansion.
type Result struct {
	Config config.Config
	Model  *decl.Model
	Source []byte
}

// Expand parses args and body, validates them and renders the fragment.
// Every problem is reported to r; ok is false when any error was reported.
func Expand(ctx context.Context, args, body []tree.Node, opts Options, r diag.Reporter) (*Result, bool) {
	guard := &diag.FirstError{Next: r}
	base := config.Default()
	if opts.Base != nil {
		base = *opts.Base
	}

	cfg, ok := config.Parse(args, base, guard)
	if !ok {
		return nil, false
	}
	m, ok := decl.Parse(body, cfg, guard)
	if !ok {
		return nil, false
	}

	ctx, span := trace.Start(ctx, trace.ScopeUnit, "unit:"+m.Name)
	defer span.End("")
	span.WithExtra("flags", strconv.Itoa(len(m.Variants))).WithExtra("bits", cfg.Width.String())

	var dump bytes.Buffer
	debug := opts.Debug
	if debug == nil && cfg.Debug {
		debug = &dump
	}
	src, err := gen.Declaration(cfg, m, gen.Options{Debug: debug})
	if err != nil {
		reportGenError(guard, m, err)
		return nil, false
	}
	if dump.Len() > 0 {
		trace.Point(ctx, trace.ScopeUnit, "debug:"+m.Name, dump.String())
	}
	return &Result{Config: cfg, Model: m, Source: src}, !guard.Failed()
}

func reportGenError(r diag.Reporter, m *decl.Model, err error) {
	code := diag.GenTemplate
	switch {
	case errors.Is(err, gen.ErrNameConflict):
		code = diag.GenNameConflict
	case errors.Is(err, gen.ErrFormat):
		code = diag.GenFormat
	}
	diag.ReportError(r, code, m.NameSpan, err.Error()).Emit()
}

// Error carries the diagnostics of a failed ExpandString.
type Error struct {
	Diagnostics []*diag.Diagnostic
	Files       *source.FileSet
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return "bitflags: expansion failed"
	}
	first := e.Diagnostics[0]
	msg := "bitflags: " + first.Error()
	if n := len(e.Diagnostics) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Unwrap exposes the diagnostics to errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		out[i] = d
	}
	return out
}

// ExpandString expands textual arguments and a declaration. The error is an
// *Error when the input is rejected.
func ExpandString(args, body string, opts Options) ([]byte, error) {
	fs := source.NewFileSet()
	bag := diag.NewBag(16)
	rep := diag.BagReporter{Bag: bag}

	argNodes, okArgs := tree.BuildSource(fs.Get(fs.AddVirtual("<args>", []byte(args))), rep)
	bodyNodes, okBody := tree.BuildSource(fs.Get(fs.AddVirtual("<decl>", []byte(body))), rep)
	if !okArgs || !okBody {
		return nil, &Error{Diagnostics: bag.Items(), Files: fs}
	}
	res, ok := Expand(context.Background(), argNodes, bodyNodes, opts, rep)
	if !ok || bag.HasErrors() {
		return nil, &Error{Diagnostics: bag.Items(), Files: fs}
	}
	return res.Source, nil
}
