// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package switchboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-dimensions/internal/config"
	"github.com/pdiddy/doc-dimensions/internal/engine"
	"github.com/pdiddy/doc-dimensions/internal/metadata"
	"github.com/pdiddy/doc-dimensions/internal/repository"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

const sample = `---
title: Notes
custom_field: 42
refinement: 0.95
audience: public
stubs:
  - verify:
      description: check the numbers
      stub_form: blocking
      priority: high
  - link: cite the paper
---
# Notes

Body text ^anchor
`

func newSwitchboard(t *testing.T, repo repository.Repository) *Switchboard {
	t.Helper()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	sb, err := New(Config{
		Calculation: config.Defaults(),
		Repository:  repo,
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)
	return sb
}

func intPtr(i int) *int { return &i }

func body(text string) string {
	i := strings.LastIndex(text, "---\n")
	return text[i:]
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Health.RefinementWeight = -1
	_, err := New(Config{Calculation: cfg})
	var cerr *config.Error
	assert.True(t, errors.As(err, &cerr))
}

func TestParseDocument(t *testing.T) {
	sb := newSwitchboard(t, nil)

	p, err := sb.ParseDocument("# Hello")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultProperties(), p)

	p, err = sb.ParseDocument(sample)
	require.NoError(t, err)
	assert.Equal(t, "Notes", p.Title)
	assert.Len(t, p.Stubs, 2)

	_, err = sb.ParseDocument("---\nrefinement: 2\n---\n")
	var perr *metadata.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Position.Line)
}

func TestAnalyzeDocument(t *testing.T) {
	sb := newSwitchboard(t, nil)

	a, err := sb.AnalyzeDocument(sample, AnalyzeOptions{})
	require.NoError(t, err)
	// 0.10*1.5 + 0.02*1.0
	assert.InDelta(t, 0.17, a.Dimensions.StubPenalty, 1e-12)
	assert.InDelta(t, 0.78, a.Dimensions.State.Health, 1e-12)
	assert.InDelta(t, 0.05, a.Dimensions.State.Usefulness.Margin, 1e-12)
	assert.Equal(t, 1.0, a.Dimensions.State.Freshness)

	var codes []string
	for _, w := range a.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, types.WarnBlockingHighRefined)
	assert.Contains(t, codes, types.WarnRefinedWithStubs)
}

func TestAnalyzeDocument_BareDoc(t *testing.T) {
	sb := newSwitchboard(t, nil)
	a, err := sb.AnalyzeDocument("# Hello", AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Dimensions.State.Health)
	require.NotEmpty(t, a.Warnings)
	assert.Equal(t, types.WarnMissingTitle, a.Warnings[0].Code)
}

func TestAnalyzeDocument_Errors(t *testing.T) {
	sb := newSwitchboard(t, nil)

	_, err := sb.AnalyzeDocument("---\naudience: everyone\n---\n", AnalyzeOptions{})
	var aerr *AnalysisError
	require.True(t, errors.As(err, &aerr))
	var perr *metadata.ParseError
	assert.True(t, errors.As(err, &perr))

	days := -1.0
	a, err := sb.AnalyzeDocument(sample, AnalyzeOptions{DaysSinceUpdate: &days})
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.Dimensions.State.Freshness)
}

func TestAnalyzeDocument_Strict(t *testing.T) {
	sb := newSwitchboard(t, nil)
	a, err := sb.AnalyzeDocument("---\ntitle: x\ntitel: y\n---\n", AnalyzeOptions{Strict: true})
	require.NoError(t, err)
	require.NotEmpty(t, a.Warnings)
	assert.Equal(t, types.WarnUnknownField, a.Warnings[0].Code)
}

func TestAnalyzeDocument_Idempotent(t *testing.T) {
	sb := newSwitchboard(t, nil)
	first, err := sb.AnalyzeDocument(sample, AnalyzeOptions{})
	require.NoError(t, err)

	out, _, err := sb.AddStub(sample, types.NewStub(types.StubDraft, "tmp"))
	require.NoError(t, err)
	out, _, err = sb.ResolveStub(out, StubSelector{Index: intPtr(2)}, ResolutionRemove)
	require.NoError(t, err)

	second, err := sb.AnalyzeDocument(out, AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Properties, second.Properties)
	assert.Equal(t, first.Dimensions, second.Dimensions)
}

func TestValidateDocument(t *testing.T) {
	sb := newSwitchboard(t, nil)
	res := sb.ValidateDocument(sample, false)
	assert.True(t, res.IsValid)

	res = sb.ValidateDocument("---\nrefinement: 3\n---\n", false)
	assert.False(t, res.IsValid)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "/refinement", res.Errors[0].Path)
}

func TestCalculateHealth(t *testing.T) {
	sb := newSwitchboard(t, nil)
	p, err := sb.ParseDocument(sample)
	require.NoError(t, err)
	assert.Equal(t, engine.Health(p, config.Defaults()), sb.CalculateHealth(p))
}

func TestFindAnchorMatches(t *testing.T) {
	sb := newSwitchboard(t, nil)
	m := sb.FindAnchorMatches(sample, "^anchor")
	require.Len(t, m.Matches, 1)
	assert.Equal(t, 15, m.Matches[0].Line)
	assert.Equal(t, 11, m.Matches[0].Column)
}

func TestAddStub(t *testing.T) {
	sb := newSwitchboard(t, nil)

	out, res, err := sb.AddStub(sample, types.Stub{StubType: types.StubExample, Description: "  more detail "})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, types.NewStub(types.StubExample, "more detail"), res.Stub)
	assert.Equal(t, body(sample), body(out))
	assert.Contains(t, out, "custom_field: 42\n")

	p, err := sb.ParseDocument(out)
	require.NoError(t, err)
	require.Len(t, p.Stubs, 3)
	assert.Equal(t, res.Stub, p.Stubs[2])
	assert.Equal(t, 42, p.Extras["custom_field"])
}

func TestAddStub_Errors(t *testing.T) {
	sb := newSwitchboard(t, nil)

	_, _, err := sb.AddStub(sample, types.Stub{StubType: types.StubLink})
	assert.True(t, IsKind(err, KindInvalidStub))

	_, _, err = sb.AddStub(sample, types.Stub{StubType: "bogus", Description: "x"})
	assert.True(t, IsKind(err, KindInvalidStub))

	_, _, err = sb.AddStub("---\nrefinement: x\n---\n", types.NewStub(types.StubLink, "x"))
	var perr *metadata.ParseError
	assert.True(t, errors.As(err, &perr))

	aliased := "---\nbase: &s\n  - verify: a\nstubs: *s\n---\n"
	out, _, err := sb.AddStub(aliased, types.NewStub(types.StubLink, "x"))
	assert.True(t, IsKind(err, KindSerialization))
	assert.Empty(t, out)
}

func TestResolveStub(t *testing.T) {
	sb := newSwitchboard(t, nil)

	tests := []struct {
		name     string
		sel      StubSelector
		res      Resolution
		wantIdx  int
		wantLen  int
		wantKind Kind
	}{
		{name: "mark by index", sel: StubSelector{Index: intPtr(1)}, res: ResolutionMark, wantIdx: 1, wantLen: 2},
		{name: "remove by prefix", sel: StubSelector{DescriptionPrefix: "check"}, res: ResolutionRemove, wantIdx: 0, wantLen: 1},
		{name: "default resolution", sel: StubSelector{DescriptionPrefix: "cite"}, wantIdx: 1, wantLen: 2},
		{name: "index out of range", sel: StubSelector{Index: intPtr(7)}, wantKind: KindNotFound},
		{name: "no prefix match", sel: StubSelector{DescriptionPrefix: "nothing"}, wantKind: KindNotFound},
		{name: "empty selector", sel: StubSelector{}, wantKind: KindNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, res, err := sb.ResolveStub(sample, tc.sel, tc.res)
			if tc.wantKind != "" {
				assert.True(t, IsKind(err, tc.wantKind), "got %v", err)
				assert.Empty(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantIdx, res.Index)
			assert.Equal(t, body(sample), body(out))

			p, err := sb.ParseDocument(out)
			require.NoError(t, err)
			require.Len(t, p.Stubs, tc.wantLen)
			if res.Resolution == ResolutionMark {
				assert.Equal(t, types.SyncResolved, p.Stubs[tc.wantIdx].SyncStatus)
			}
		})
	}
}

func TestResolveStub_Ambiguous(t *testing.T) {
	sb := newSwitchboard(t, nil)
	text := "---\nstubs:\n  - verify: check a\n  - verify: check b\n---\n"
	_, _, err := sb.ResolveStub(text, StubSelector{DescriptionPrefix: "check"}, ResolutionMark)
	require.True(t, IsKind(err, KindAmbiguous))
	assert.Contains(t, err.Error(), "[0 1]")
}

func TestResolveStub_ClosedStubLeavesHealth(t *testing.T) {
	sb := newSwitchboard(t, nil)
	before, err := sb.ParseDocument(sample)
	require.NoError(t, err)

	out, _, err := sb.ResolveStub(sample, StubSelector{Index: intPtr(0)}, ResolutionMark)
	require.NoError(t, err)
	after, err := sb.ParseDocument(out)
	require.NoError(t, err)
	assert.Greater(t, sb.CalculateHealth(after), sb.CalculateHealth(before))
}

func TestUpdateStub(t *testing.T) {
	sb := newSwitchboard(t, nil)

	prio := types.PriorityCritical
	desc := "cite the 2024 paper"
	anchor := "anchor"
	out, res, err := sb.UpdateStub(sample, StubSelector{Index: intPtr(1)}, StubUpdates{
		Priority:     &prio,
		Description:  &desc,
		InlineAnchor: &anchor,
	})
	require.NoError(t, err)
	assert.Equal(t, "cite the paper", res.Previous.Description)
	assert.Equal(t, desc, res.Stub.Description)
	assert.Equal(t, body(sample), body(out))
	assert.Contains(t, out, "link:")

	p, err := sb.ParseDocument(out)
	require.NoError(t, err)
	assert.Equal(t, res.Stub, p.Stubs[1])
	assert.Equal(t, types.PriorityCritical, p.Stubs[1].Priority)
	assert.Equal(t, "anchor", p.Stubs[1].InlineAnchor)

	_, _, err = sb.UpdateStub(sample, StubSelector{Index: intPtr(0)}, StubUpdates{})
	assert.True(t, IsKind(err, KindInvalidStub))

	empty := ""
	_, _, err = sb.UpdateStub(sample, StubSelector{Index: intPtr(0)}, StubUpdates{Description: &empty})
	assert.True(t, IsKind(err, KindInvalidStub))
}

func TestParseResolution(t *testing.T) {
	for in, want := range map[string]Resolution{"": ResolutionMark, "Resolve": ResolutionMark, "remove": ResolutionRemove} {
		got, err := ParseResolution(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseResolution("archive")
	assert.Error(t, err)
}

func TestFileOperations(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/notes/a.md", []byte(sample), 0o644))
	modified := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/notes/a.md", modified, modified))

	sb := newSwitchboard(t, repository.NewFS(fsys))

	a, err := sb.AnalyzeFile("notes/a.md", AnalyzeOptions{})
	require.NoError(t, err)
	// developing form, 30 days old
	assert.Equal(t, types.FormDeveloping, a.Properties.Form)
	assert.InDelta(t, 0.5, a.Dimensions.State.Freshness, 1e-9)

	res, err := sb.AddStubToFile("notes/a.md", types.NewStub(types.StubDraft, "conclusion"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Index)

	_, err = sb.ResolveStubInFile("notes/a.md", StubSelector{DescriptionPrefix: "conclusion"}, ResolutionRemove)
	require.NoError(t, err)

	prio := types.PriorityLow
	_, err = sb.UpdateStubInFile("notes/a.md", StubSelector{Index: intPtr(0)}, StubUpdates{Priority: &prio})
	require.NoError(t, err)

	data, err := afero.ReadFile(fsys, "/notes/a.md")
	require.NoError(t, err)
	p, err := sb.ParseDocument(string(data))
	require.NoError(t, err)
	require.Len(t, p.Stubs, 2)
	assert.Equal(t, types.PriorityLow, p.Stubs[0].Priority)
	assert.Equal(t, body(sample), body(string(data)))

	vr, err := sb.ValidateFile("notes/a.md", false)
	require.NoError(t, err)
	assert.True(t, vr.IsValid)

	paths, err := sb.ListDocuments("**/*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/a.md"}, paths)
}

func TestFileOperations_Errors(t *testing.T) {
	sb := newSwitchboard(t, nil)
	_, err := sb.AnalyzeFile("a.md", AnalyzeOptions{})
	require.True(t, IsKind(err, KindRepository))
	assert.ErrorIs(t, err, ErrNoRepository)

	fsys := afero.NewMemMapFs()
	sb = newSwitchboard(t, repository.NewFS(fsys))
	_, err = sb.AnalyzeFile("missing.md", AnalyzeOptions{})
	require.True(t, IsKind(err, KindRepository))
	assert.True(t, repository.IsNotFound(err))

	// A failed edit leaves the file untouched.
	require.NoError(t, afero.WriteFile(fsys, "/a.md", []byte(sample), 0o644))
	_, err = sb.ResolveStubInFile("a.md", StubSelector{Index: intPtr(9)}, ResolutionMark)
	require.True(t, IsKind(err, KindNotFound))
	data, err := afero.ReadFile(fsys, "/a.md")
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))
}
