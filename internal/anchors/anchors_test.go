// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anchors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	text := "---\ntitle: x\n---\n" +
		"Intro paragraph ^intro\n" +
		"\n" +
		"Inline `^intro` code and ^intro-2 and x^intro.\n" +
		"\n" +
		"```\n" +
		"^intro inside a fence\n" +
		"```\n" +
		"\n" +
		"    ^intro indented code\n" +
		"\n" +
		"- item ^intro\n"

	m := Find(text, "^intro")
	assert.Equal(t, "intro", m.Anchor)
	if assert.Len(t, m.Matches, 2) {
		assert.Equal(t, Match{Offset: 16, Line: 4, Column: 17}, m.Matches[0])
		assert.Equal(t, 14, m.Matches[1].Line)
		assert.Equal(t, 8, m.Matches[1].Column)
	}
}

func TestFind_NoFrontmatter(t *testing.T) {
	m := Find("é ^a\n^a", "a")
	if assert.Len(t, m.Matches, 2) {
		assert.Equal(t, Match{Offset: 3, Line: 1, Column: 3}, m.Matches[0])
		assert.Equal(t, Match{Offset: 6, Line: 2, Column: 1}, m.Matches[1])
	}
}

func TestFind_Empty(t *testing.T) {
	assert.Empty(t, Find("^x", "").Matches)
	assert.NotNil(t, Find("nothing here", "x").Matches)
	assert.Empty(t, Find("nothing here", "x").Matches)
}

func TestRanges(t *testing.T) {
	r := merge(ranges{{0, 5}, {3, 8}, {10, 12}})
	assert.Equal(t, ranges{{0, 8}, {10, 12}}, r)
	assert.True(t, r.contains(7))
	assert.False(t, r.contains(8))
	assert.True(t, r.contains(10))
	assert.False(t, r.contains(12))
}
