// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anchors locates ^anchor tokens in the Markdown body of a document.
// Tokens inside code spans and code blocks are not anchors.
package anchors

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/doc-dimensions/internal/frontmatter"
)

// Match is one occurrence of an anchor token.
type Match struct {
	// Offset is the byte offset of the caret within the body.
	Offset int `json:"offset"`

	// Line and Column locate the caret in the whole document.
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Matches lists every occurrence of one anchor, in body order.
type Matches struct {
	Anchor  string  `json:"anchor"`
	Matches []Match `json:"matches"`
}

var md = goldmark.New()

// Find returns the occurrences of ^anchor in the body of text. The anchor may
// be given with or without its leading caret. A malformed frontmatter block
// is treated as body.
func Find(text, anchor string) Matches {
	name := strings.TrimPrefix(strings.TrimSpace(anchor), "^")
	out := Matches{Anchor: name, Matches: []Match{}}
	if name == "" {
		return out
	}

	bodyStart := 0
	if span, err := frontmatter.Extract(text); err == nil && span != nil {
		bodyStart = span.ContentStart
	}
	body := text[bodyStart:]
	tracker := frontmatter.NewTracker(text, bodyStart)
	skip := codeRanges([]byte(body))

	token := "^" + name
	for from := 0; ; {
		i := strings.Index(body[from:], token)
		if i < 0 {
			break
		}
		off := from + i
		from = off + 1
		if off > 0 && !isSpace(body[off-1]) {
			continue
		}
		if end := off + len(token); end < len(body) && isAnchorByte(body[end]) {
			continue
		}
		if skip.contains(off) {
			continue
		}
		pos := tracker.Position(off)
		out.Matches = append(out.Matches, Match{Offset: off, Line: pos.Line, Column: pos.Column})
	}
	return out
}

// ranges is a sorted list of half-open byte intervals.
type ranges [][2]int

func (r ranges) contains(off int) bool {
	i := sort.Search(len(r), func(i int) bool { return r[i][1] > off })
	return i < len(r) && r[i][0] <= off
}

// codeRanges returns the byte ranges of src covered by code spans and code
// blocks.
func codeRanges(src []byte) ranges {
	doc := md.Parser().Parse(text.NewReader(src))
	var out ranges
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				out = append(out, [2]int{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindCodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					// Include the opening backtick so a caret right after it
					// is covered too.
					out = append(out, [2]int{t.Segment.Start - 1, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return merge(out)
}

func merge(r ranges) ranges {
	var out ranges
	for _, x := range r {
		if n := len(out); n > 0 && x[0] <= out[n-1][1] {
			if x[1] > out[n-1][1] {
				out[n-1][1] = x[1]
			}
			continue
		}
		out = append(out, x)
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isAnchorByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
