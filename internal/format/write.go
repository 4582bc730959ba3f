package format

// Writer accumulates formatted output and tracks indentation.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer with room for sizeHint bytes.
func NewWriter(sizeHint int, opt Options) *Writer {
	return &Writer{
		opt: opt.withDefaults(),
		buf: make([]byte, 0, sizeHint),
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for range w.indentLevel * w.opt.IndentWidth {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line. Trailing spaces are dropped.
func (w *Writer) Newline() {
	w.trimSpaces()
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// BlankLine ends the current line and leaves exactly one empty line.
func (w *Writer) BlankLine() {
	w.Newline()
	if len(w.buf) == 0 {
		return
	}
	if len(w.buf) < 2 || w.buf[len(w.buf)-2] != '\n' {
		w.buf = append(w.buf, '\n')
	}
}

// Finish drops trailing blank lines and terminates a non-empty output with a
// single newline.
func (w *Writer) Finish() {
	for len(w.buf) > 0 {
		switch w.buf[len(w.buf)-1] {
		case ' ', '\t', '\n':
			w.buf = w.buf[:len(w.buf)-1]
			continue
		}
		break
	}
	if len(w.buf) > 0 {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

func (w *Writer) trimSpaces() {
	for len(w.buf) > 0 {
		last := w.buf[len(w.buf)-1]
		if last != ' ' && last != '\t' {
			return
		}
		w.buf = w.buf[:len(w.buf)-1]
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
