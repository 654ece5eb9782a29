// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter locates the leading metadata block of a Markdown
// document and maps offsets inside it back to document positions.
package frontmatter

import (
	"fmt"
	"strings"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

const (
	// Fence is the exact line that opens and closes a frontmatter block.
	Fence = "---"

	// BOM is the UTF-8 byte order mark a document may start with.
	BOM = "\ufeff"
)

// Span describes where the frontmatter body sits in a document. All offsets
// are absolute byte offsets into the full text.
type Span struct {
	// Body is text[BodyStart:BodyEnd]: the lines between the fences.
	Body string

	// BodyStart is the first byte after the opening fence line.
	BodyStart int

	// BodyEnd is the first byte of the closing fence line.
	BodyEnd int

	// ContentStart is the first byte after the closing fence line. Everything
	// from here on is document content and is never interpreted.
	ContentStart int

	// LineEnding is the terminator of the opening fence line ("\n" or "\r\n").
	LineEnding string
}

// UnterminatedError reports an opening fence with no closing fence.
type UnterminatedError struct {
	Position types.SourcePosition
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("unterminated frontmatter opened at %s", e.Position)
}

// Extract returns the frontmatter span of text, or nil when the document does
// not open with a fence line. A document that opens a fence and never closes
// it is an error.
func Extract(text string) (*Span, error) {
	start := 0
	if strings.HasPrefix(text, BOM) {
		start = len(BOM)
	}

	line, next, ending := readLine(text, start)
	if line != Fence || ending == "" {
		if line == Fence {
			// "---" alone at end of input: opened, never closed.
			return nil, &UnterminatedError{Position: types.SourcePosition{Line: 1, Column: 1}}
		}
		return nil, nil
	}

	for pos := next; pos < len(text); {
		line, after, _ := readLine(text, pos)
		if line == Fence {
			return &Span{
				Body:         text[next:pos],
				BodyStart:    next,
				BodyEnd:      pos,
				ContentStart: after,
				LineEnding:   ending,
			}, nil
		}
		pos = after
	}

	return nil, &UnterminatedError{Position: types.SourcePosition{Line: 1, Column: 1}}
}

// readLine returns the line starting at pos without its terminator, the offset
// of the following line, and the terminator itself ("" at end of input).
func readLine(text string, pos int) (line string, next int, ending string) {
	i := strings.IndexByte(text[pos:], '\n')
	if i < 0 {
		return text[pos:], len(text), ""
	}
	end := pos + i
	ending = "\n"
	if end > pos && text[end-1] == '\r' {
		end--
		ending = "\r\n"
	}
	return text[pos:end], pos + i + 1, ending
}
