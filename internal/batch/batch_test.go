// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-dimensions/internal/config"
	"github.com/pdiddy/doc-dimensions/internal/repository"
	"github.com/pdiddy/doc-dimensions/internal/switchboard"
)

func newVault(t *testing.T, files map[string]string) *switchboard.Switchboard {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, c := range files {
		require.NoError(t, afero.WriteFile(fsys, "/"+p, []byte(c), 0o644))
	}
	sb, err := switchboard.New(switchboard.Config{
		Calculation: config.Defaults(),
		Repository:  repository.NewFS(fsys),
		Now:         time.Now,
	})
	require.NoError(t, err)
	return sb
}

func TestRun(t *testing.T) {
	sb := newVault(t, map[string]string{
		"b.md":   "---\ntitle: B\nrefinement: 0.8\n---\nbody\n",
		"a.md":   "---\ntitle: A\nrefinement: 0.75\n---\nbody\n",
		"bad.md": "---\naudience: everyone\n---\n",
	})

	var out bytes.Buffer
	days := 0.0
	sum, err := Run(context.Background(), sb, []string{"b.md", "bad.md", "a.md", "missing.md"}, Options{
		Workers: 2,
		Analyze: switchboard.AnalyzeOptions{DaysSinceUpdate: &days},
		Out:     &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, 2, sum.Failed)

	require.Len(t, sum.Reports, 4)
	var paths []string
	for _, r := range sum.Reports {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"a.md", "b.md", "bad.md", "missing.md"}, paths)

	assert.InDelta(t, 0.75, sum.Reports[0].Analysis.Dimensions.State.Health, 1e-12)
	assert.Nil(t, sum.Reports[2].Analysis)
	assert.Contains(t, sum.Reports[2].Error, "unknown audience")
	assert.True(t, repository.IsNotFound(sum.Reports[3].Err))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "analyzed a.md (health 0.75, 0 warnings)", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "failed   bad.md: "))
	assert.Equal(t, "analyzed: 2, failed: 2", lines[len(lines)-1])
}

func TestRun_Cancelled(t *testing.T) {
	sb := newVault(t, map[string]string{"a.md": "# A\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, sb, []string{"a.md"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sum.Failed)
	assert.ErrorIs(t, sum.Reports[0].Err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	sb := newVault(t, nil)
	sum, err := Run(context.Background(), sb, nil, Options{})
	require.NoError(t, err)
	assert.Zero(t, sum.Succeeded)
	assert.Empty(t, sum.Reports)
}
