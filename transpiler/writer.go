package transpiler

import (
	"fmt"
	"strings"
)

// indentUnit is the emitted C indentation step.
const indentUnit = "    "

// cWriter manages indented C source output for the emitter. It
// encapsulates the output buffer and the current indentation level.
type cWriter struct {
	sb     strings.Builder
	indent int
}

// Linef writes an indented, formatted line with a trailing newline.
func (w *cWriter) Linef(format string, args ...interface{}) {
	w.sb.WriteString(strings.Repeat(indentUnit, w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// Raw writes unindented text directly to the buffer.
func (w *cWriter) Raw(s string) {
	w.sb.WriteString(s)
}

// Blank writes an empty line.
func (w *cWriter) Blank() {
	w.sb.WriteByte('\n')
}

// Indent increases the indentation level.
func (w *cWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *cWriter) Dedent() { w.indent-- }

// Len returns the number of bytes written so far.
func (w *cWriter) Len() int { return w.sb.Len() }

// String returns the accumulated output.
func (w *cWriter) String() string { return w.sb.String() }
