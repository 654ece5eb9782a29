// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"sort"
	"unicode/utf8"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Tracker maps offsets local to a slice of a document (typically the
// frontmatter body) to positions in the whole document. A Tracker is
// read-only after construction.
type Tracker struct {
	text       string
	base       int
	lineStarts []int
	baseLine   int
}

// NewTracker builds a tracker for the slice of text starting at byte offset
// base. Offsets outside the text are clamped.
func NewTracker(text string, base int) *Tracker {
	base = clamp(base, 0, len(text))
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	t := &Tracker{text: text, base: base, lineStarts: starts}
	t.baseLine = t.lineIndex(base)
	return t
}

// Position returns the document position of the byte at local offset off.
// Offsets past the end saturate at the last valid position.
func (t *Tracker) Position(off int) types.SourcePosition {
	abs := clamp(t.base+off, 0, len(t.text))
	// Never point into the middle of a UTF-8 sequence.
	for abs > 0 && abs < len(t.text) && !utf8.RuneStart(t.text[abs]) {
		abs--
	}
	li := t.lineIndex(abs)
	col := utf8.RuneCountInString(t.text[t.lineStarts[li]:abs]) + 1
	return types.SourcePosition{Line: li + 1, Column: col}
}

// NodePosition converts a 1-based (line, column) pair relative to the start of
// the tracked slice, as reported by the YAML parser, to a document position.
func (t *Tracker) NodePosition(line, column int) types.SourcePosition {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	if line == 1 {
		// The first line may start mid-line in the document.
		start := t.Position(0)
		return types.SourcePosition{Line: start.Line, Column: start.Column + column - 1}
	}
	docLine := t.baseLine + line
	if docLine > len(t.lineStarts) {
		return t.Position(len(t.text))
	}
	return types.SourcePosition{Line: docLine, Column: column}
}

// lineIndex returns the 0-based line containing absolute offset abs.
func (t *Tracker) lineIndex(abs int) int {
	return sort.Search(len(t.lineStarts), func(i int) bool { return t.lineStarts[i] > abs }) - 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
