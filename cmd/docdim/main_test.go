// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubAddCommand(t *testing.T) {
	dir := t.TempDir()
	doc := "---\ntitle: Notes\ncustom_field: 42\n---\n# Notes\n\nBody.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(doc), 0o644))

	rootCmd.SetArgs([]string{
		"--vault", dir,
		"stub", "add", "a.md",
		"--type", "Verify", "--description", "check the numbers", "--priority", "high",
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "---\ntitle: Notes\ncustom_field: 42\nstubs:\n"))
	assert.Contains(t, out, "stub_type: verify")
	assert.Contains(t, out, "priority: high")
	assert.True(t, strings.HasSuffix(out, "---\n# Notes\n\nBody.\n"))
}

func TestVaultPath(t *testing.T) {
	dir := t.TempDir()
	viper.Set("vault", dir)
	t.Cleanup(func() { viper.Set("vault", ".") })

	p, err := vaultPath("notes/../a.md")
	require.NoError(t, err)
	assert.Equal(t, "a.md", p)

	p, err = vaultPath(filepath.Join(dir, "notes", "b.md"))
	require.NoError(t, err)
	assert.Equal(t, "notes/b.md", p)
}
