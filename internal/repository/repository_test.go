// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, files map[string]string) *FS {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, c := range files {
		require.NoError(t, afero.WriteFile(fsys, "/"+p, []byte(c), 0o644))
	}
	return NewFS(fsys)
}

func TestReadWrite(t *testing.T) {
	r := newTestRepo(t, map[string]string{"notes/a.md": "alpha"})

	got, err := r.Read("notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	require.NoError(t, r.Write("notes/a.md", "beta"))
	got, err = r.Read("notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "beta", got)

	require.NoError(t, r.Write("new/deep/b.md", "gamma"))
	got, err = r.Read("new/deep/b.md")
	require.NoError(t, err)
	assert.Equal(t, "gamma", got)

	// no temp files left behind
	all, err := r.List("**")
	require.NoError(t, err)
	assert.Equal(t, []string{"new/deep/b.md", "notes/a.md"}, all)
}

func TestErrors(t *testing.T) {
	r := newTestRepo(t, nil)

	_, err := r.Read("missing.md")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "read", re.Op)
	assert.Equal(t, "missing.md", re.Path)

	_, err = r.Metadata("missing.md")
	assert.True(t, IsNotFound(err))

	for _, p := range []string{"", "/etc/passwd", "../outside.md", "a/../../b.md"} {
		_, err := r.Read(p)
		require.True(t, errors.As(err, &re), p)
		assert.Equal(t, KindInvalidPath, re.Kind, p)
	}
	err = r.Write("../x.md", "x")
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindInvalidPath, re.Kind)
}

func TestExistsAndMetadata(t *testing.T) {
	r := newTestRepo(t, map[string]string{"dir/a.md": "12345"})

	ok, err := r.Exists("dir/a.md")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Exists("dir/b.md")
	require.NoError(t, err)
	assert.False(t, ok)

	md, err := r.Metadata("dir/a.md")
	require.NoError(t, err)
	assert.Equal(t, int64(5), md.Size)
	assert.NotNil(t, md.Modified)
	assert.Nil(t, md.Created)
	assert.False(t, md.IsDirectory)

	md, err = r.Metadata("dir")
	require.NoError(t, err)
	assert.True(t, md.IsDirectory)
}

func TestList(t *testing.T) {
	r := newTestRepo(t, map[string]string{
		"a.md":           "",
		"b.txt":          "",
		"notes/c.md":     "",
		"notes/sub/d.md": "",
		"other/e.md":     "",
	})

	tests := []struct {
		pattern string
		want    []string
	}{
		{"*.md", []string{"a.md"}},
		{"**/*.md", []string{"a.md", "notes/c.md", "notes/sub/d.md", "other/e.md"}},
		{"notes/**/*.md", []string{"notes/c.md", "notes/sub/d.md"}},
		{"notes/*.md", []string{"notes/c.md"}},
		{"*.pdf", nil},
	}
	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			got, err := r.List(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := r.List("[")
	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindInvalidPath, re.Kind)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"**", "a/b/c", true},
		{"**/c", "c", true},
		{"a/**/c", "a/c", true},
		{"a/**/c", "a/x/y/c", true},
		{"a/*/c", "a/x/y/c", false},
		{"a", "a/b", false},
		{"*.md", "notes/a.md", false},
		{"**/*.{md,txt}", "notes/b.txt", true},
		{"a/**/b/**/c", "a/b/c", true},
		{"a/**/b/**/c", "a/x/b/y/z/c", true},
		{"[", "[", false},
	}
	for _, tc := range tests {
		t.Run(tc.pattern+"|"+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.pattern, tc.name))
		})
	}
}

func TestCompilePattern(t *testing.T) {
	p, err := CompilePattern("notes/**/*.md")
	require.NoError(t, err)
	assert.True(t, p.Match("notes/a.md"))
	assert.True(t, p.Match("notes/x/y/a.md"))
	assert.False(t, p.Match("other/a.md"))

	_, err = CompilePattern("[")
	assert.Error(t, err)
}

func TestNewDir(t *testing.T) {
	dir := t.TempDir()
	r := NewDir(dir)
	require.NoError(t, r.Write("notes/a.md", "alpha"))

	got, err := r.Read("notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	all, err := r.List("**/*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/a.md"}, all)
}
