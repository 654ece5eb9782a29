// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-dimensions/internal/config"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(config.Defaults())
	require.NoError(t, err)
	return v
}

func errorPaths(res types.ValidationResult) []string {
	out := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		out[i] = e.Path
	}
	return out
}

func warningCodes(res types.ValidationResult) []string {
	out := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		out[i] = w.Code
	}
	return out
}

func TestProvider(t *testing.T) {
	var p Provider
	assert.Equal(t, "1.0.0", p.Version())
	for _, doc := range [][]byte{p.FrontmatterSchema(), p.StubsSchema()} {
		var m map[string]any
		require.NoError(t, json.Unmarshal(doc, &m))
		assert.Contains(t, m["$id"], p.Version())
	}
}

func TestValidate_Valid(t *testing.T) {
	v := newTestValidator(t)
	text := `---
title: Ready
refinement: 0.92
audience: Public
form: stable
origin: ai_assisted
tags: [a, b]
---
# Body
`
	res := v.Validate(text, true)
	assert.True(t, res.IsValid, "%+v", res.Errors)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_NoFrontmatter(t *testing.T) {
	v := newTestValidator(t)
	res := v.Validate("# Hello\n", false)
	assert.True(t, res.IsValid)
	assert.Contains(t, warningCodes(res), types.WarnMissingTitle)
	assert.Contains(t, warningCodes(res), types.WarnGateNotMet)
}

func TestValidate_ReportsAllErrorsInOnePass(t *testing.T) {
	v := newTestValidator(t)
	text := `---
title: Broken
refinement: 1.5
audience: everyone
stubs:
  - verify: "ok"
  - stub_type: frobnicate
    description: "bad type"
  - link:
      description: x
      priority: urgent
  - type: draft
---
`
	res := v.Validate(text, false)
	require.False(t, res.IsValid)
	assert.Equal(t, []string{
		"/refinement",
		"/audience",
		"/stubs/1/stub_type",
		"/stubs/2/link/priority",
		"/stubs/3",
	}, errorPaths(res))

	byPath := map[string]types.SchemaError{}
	for _, e := range res.Errors {
		byPath[e.Path] = e
	}
	assert.Equal(t, types.SourcePosition{Line: 3, Column: 13}, byPath["/refinement"].Position)
	assert.Equal(t, "maximum", byPath["/refinement"].Keyword)

	aud := byPath["/audience"]
	assert.Equal(t, "enum", aud.Keyword)
	assert.Contains(t, aud.Message, `unknown audience "everyone"`)
	assert.Equal(t, types.SourcePosition{Line: 4, Column: 11}, aud.Position)

	prio := byPath["/stubs/2/link/priority"]
	assert.Contains(t, prio.Message, "unknown priority")
	assert.Equal(t, types.SourcePosition{Line: 11, Column: 17}, prio.Position)

	missing := byPath["/stubs/3"]
	assert.Equal(t, "required", missing.Keyword)
	assert.Contains(t, missing.Message, "description")
	assert.Equal(t, types.SourcePosition{Line: 12, Column: 5}, missing.Position)
}

func TestValidate_UnknownFields(t *testing.T) {
	v := newTestValidator(t)
	text := "---\ntitle: x\nrefinment: 0.5\nstubs:\n  - link:\n      description: d\n      priorty: low\n---\n"

	lenient := v.Validate(text, false)
	assert.True(t, lenient.IsValid)
	var unknown []types.Warning
	for _, w := range lenient.Warnings {
		if w.Code == types.WarnUnknownField {
			unknown = append(unknown, w)
		}
	}
	require.Len(t, unknown, 2)
	assert.Equal(t, "/refinment", unknown[0].Path)
	assert.Equal(t, `did you mean "refinement"?`, unknown[0].Suggestion)
	assert.Equal(t, types.SourcePosition{Line: 3, Column: 1}, *unknown[0].Position)
	assert.Equal(t, "/stubs/0/link/priorty", unknown[1].Path)
	assert.Equal(t, types.SourcePosition{Line: 7, Column: 7}, *unknown[1].Position)

	strict := v.Validate(text, true)
	assert.False(t, strict.IsValid)
	assert.Equal(t, []string{"/refinment", "/stubs/0/link/priorty"}, errorPaths(strict))
	assert.Equal(t, "additionalProperties", strict.Errors[0].Keyword)
	assert.NotContains(t, warningCodes(strict), types.WarnUnknownField)
}

func TestValidate_SyntaxAndStructure(t *testing.T) {
	v := newTestValidator(t)

	res := v.Validate("---\ntitle: [unclosed\n---\n", false)
	require.False(t, res.IsValid)
	assert.Equal(t, "syntax", res.Errors[0].Keyword)

	res = v.Validate("---\ntitle: x\n", false)
	require.False(t, res.IsValid)
	assert.Equal(t, types.SourcePosition{Line: 1, Column: 1}, res.Errors[0].Position)

	res = v.Validate("---\n- a\n---\n", false)
	require.False(t, res.IsValid)
	assert.Equal(t, "type", res.Errors[0].Keyword)

	res = v.Validate("---\ntitle: a\ntitle: b\n---\n", false)
	require.False(t, res.IsValid)
	assert.Equal(t, "duplicate", res.Errors[0].Keyword)
	assert.Equal(t, types.SourcePosition{Line: 3, Column: 1}, res.Errors[0].Position)
}

func TestValidate_LintAfterStructure(t *testing.T) {
	v := newTestValidator(t)
	text := "---\ntitle: x\nrefinement: 0.95\naudience: public\nstubs:\n  - verify: {description: check, stub_form: blocking, priority: high}\n---\n"
	res := v.Validate(text, false)
	assert.True(t, res.IsValid)
	assert.Contains(t, warningCodes(res), types.WarnBlockingHighRefined)
	assert.Contains(t, warningCodes(res), types.WarnRefinedWithStubs)
}

func TestCanonicalStub(t *testing.T) {
	c, paths := canonicalStub(map[string]any{"Verify": "check"}, "/stubs/0", "/0")
	assert.Equal(t, map[string]any{"stub_type": "Verify", "description": "check"}, c)
	assert.Equal(t, "/stubs/0/Verify", paths.source("/0/description"))
	assert.Equal(t, "/stubs/0", paths.source("/0/stub_type"))

	c, paths = canonicalStub(map[string]any{"type": "link", "description": "d"}, "/stubs/1", "/1")
	assert.Equal(t, map[string]any{"stub_type": "link", "description": "d"}, c)
	assert.Equal(t, "/stubs/1/type", paths.source("/1/stub_type"))
	assert.Equal(t, "/stubs/1/description", paths.source("/1/description"))

	c, paths = canonicalStub(map[string]any{"draft": map[string]any{"priority": "low"}}, "/stubs/2", "/2")
	assert.Equal(t, map[string]any{"stub_type": "draft", "priority": "low"}, c)
	assert.Equal(t, "/stubs/2/draft/priority", paths.source("/2/priority"))

	c, _ = canonicalStub("not a map", "/stubs/3", "/3")
	assert.Equal(t, "not a map", c)
}
