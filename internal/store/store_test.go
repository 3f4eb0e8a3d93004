// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2301.07041", "2301.07041"},
		{"a/b", "a-b"},
		{`a\b`, "a-b"},
		{"hep-th/9901001", "hep-th-9901001"},
		{"../x", "..-x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeID(tt.in), "SanitizeID(%q)", tt.in)
	}
}

func TestSaveWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "arxiv")
	w := NewWriter(dir)

	res := w.Save("2301.07041", "# Title\n\nBody")
	require.False(t, res.Failed(), "save failed: %v", res.Err)

	assert.Equal(t, filepath.Join(dir, "2301.07041.md"), res.Path)
	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", string(data))
}

func TestSaveSanitizesSeparators(t *testing.T) {
	dir := t.TempDir()
	res := NewWriter(dir).Save("a/b", "text")
	require.NoError(t, res.Err)

	assert.Equal(t, filepath.Join(dir, "a-b.md"), res.Path)
	_, err := os.Stat(filepath.Join(dir, "a", "b.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveOverwrites(t *testing.T) {
	w := NewWriter(t.TempDir())

	first := w.Save("2301.07041", "first version")
	require.NoError(t, first.Err)
	second := w.Save("2301.07041", "second")
	require.NoError(t, second.Err)

	assert.Equal(t, first.Path, second.Path)
	data, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSaveFailures(t *testing.T) {
	res := NewWriter(t.TempDir()).Save("  ", "text")
	assert.True(t, res.Failed())

	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	res = NewWriter(filepath.Join(blocker, "out")).Save("2301.07041", "text")
	assert.True(t, res.Failed())
	assert.Contains(t, res.Err.Error(), "creating directory")
	assert.Empty(t, res.Path)
}
