// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelKeys(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, AnthropicAPIKey, "  sk-ant-api03-abc\n")
	writeSecret(t, dir, OllamaAPIKey, "ol_proxy_token\n")

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		AnthropicAPIKey: "sk-ant-api03-abc",
		OllamaAPIKey:    "ol_proxy_token",
	}, got)
}

func TestLoadIgnores(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, AnthropicAPIKey, "sk-ant-real")
	writeSecret(t, dir, OllamaAPIKey, " \n\t")
	writeSecret(t, dir, ".gitkeep", "")
	writeSecret(t, dir, ".anthropic-api-key", "old")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o700))
	writeSecret(t, filepath.Join(dir, "archive"), AnthropicAPIKey, "sk-ant-archived")

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{AnthropicAPIKey: "sk-ant-real"}, got)
}

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), DefaultDir))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoadPathIsAFile(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, DefaultDir, "not a directory")

	_, err := Load(filepath.Join(dir, DefaultDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secrets directory")
}

func TestLoadSkipsUnreadableKey(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeSecret(t, dir, AnthropicAPIKey, "sk-ant-ok")
	locked := filepath.Join(dir, OllamaAPIKey)
	require.NoError(t, os.WriteFile(locked, []byte("ol_locked"), 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o600) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{AnthropicAPIKey: "sk-ant-ok"}, got)
}

func TestNames(t *testing.T) {
	got := Names(map[string]string{OllamaAPIKey: "b", AnthropicAPIKey: "a"})
	assert.Equal(t, []string{AnthropicAPIKey, OllamaAPIKey}, got)
	assert.Empty(t, Names(nil))
}

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
}
