// Package document renders report content as CSV tables and as a minimal
// single-page PDF written without a layout library.
package document

import "unicode/utf8"

// Limits applied when a Document is built.
const (
	MaxLines      = 40
	MaxLineLength = 120
)

// Document is a title plus ordered text lines. It is immutable once built.
type Document struct {
	title string
	lines []string
}

// New builds a Document, keeping at most MaxLines lines and truncating each
// line (and the title) to MaxLineLength characters.
func New(title string, lines []string) Document {
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	kept := make([]string, len(lines))
	for i, ln := range lines {
		kept[i] = truncate(ln, MaxLineLength)
	}
	return Document{title: truncate(title, MaxLineLength), lines: kept}
}

// Title returns the document title.
func (d Document) Title() string {
	return d.title
}

// Lines returns a copy of the document lines.
func (d Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
