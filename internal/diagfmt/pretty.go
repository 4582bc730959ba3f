package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"enumflags/internal/diag"
	"enumflags/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret, add, del *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgCyan),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		add:    mk(color.FgGreen),
		del:    mk(color.FgRed),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			filePath(f, fs, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, opts.Context, p)

		if opts.ShowNotes {
			for _, note := range d.Notes {
				nf := fs.Get(note.Span.File)
				pos, _ := fs.Resolve(note.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
					filePath(nf, fs, opts.PathMode), pos.Line, pos.Col, note.Msg)
				if opts.Context > 0 {
					writeSnippet(w, fs, note.Span, 0, p)
				}
			}
		}
		if opts.ShowFixes {
			writeFixes(w, fs, d.Fixes, opts, p)
		}
	}
}

// writeSnippet prints the lines around span with a caret line under it.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int8, p palette) {
	f := fs.Get(span.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	first := max(int(start.Line)-int(context), 1)
	last := int(start.Line) + int(context)
	lines := len(f.LineIdx) + 1
	last = min(last, lines)
	gutter := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text := f.GetLine(uint32(n))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, n), expandTabs(text))
		if n != int(start.Line) {
			continue
		}
		from := int(start.Col) - 1
		to := len(text)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		from = min(from, len(text))
		to = min(max(to, from), len(text))
		pad := runewidth.StringWidth(expandTabs(text[:from]))
		width := max(runewidth.StringWidth(expandTabs(text[from:to])), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

func writeFixes(w io.Writer, fs *source.FileSet, fixes []*diag.Fix, opts PrettyOpts, p palette) {
	for i, fix := range fixes {
		fmt.Fprintf(w, "  %s %s\n", p.note.Sprintf("fix #%d:", i+1), fix.Title)
		for _, edit := range fix.Edits {
			ef := fs.Get(edit.Span.File)
			pos, _ := fs.Resolve(edit.Span)
			fmt.Fprintf(w, "    %s:%d:%d apply=%q\n", filePath(ef, fs, opts.PathMode), pos.Line, pos.Col, edit.NewText)
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintf(w, "      %s\n", p.del.Sprint("- "+line))
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      %s\n", p.add.Sprint("+ "+line))
			}
		}
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
