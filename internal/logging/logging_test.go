// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatJSON, false)
	require.NoError(t, err)

	logger.Info("paper_saved", "paper_id", "2401.00001")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "paper_saved", rec["msg"])
	assert.Equal(t, "2401.00001", rec["paper_id"])

	buf.Reset()
	logger, err = New(&buf, FormatText, false)
	require.NoError(t, err)
	logger.Info("paper_saved", "paper_id", "2401.00001")
	assert.Contains(t, buf.String(), "msg=paper_saved paper_id=2401.00001")

	_, err = New(&buf, "xml", false)
	assert.Error(t, err)
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	quiet, err := New(&buf, FormatText, false)
	require.NoError(t, err)
	quiet.Debug("hidden")
	assert.Empty(t, buf.String())

	loud, err := New(&buf, FormatText, true)
	require.NoError(t, err)
	loud.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestRedactsSecretKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatText, false)
	require.NoError(t, err)

	logger.Info("model_request", "x-api-key", "abc", "API_KEY", "def", "model", "claude-sonnet-4-5")
	out := buf.String()
	assert.NotContains(t, out, "abc")
	assert.NotContains(t, out, "def")
	assert.Contains(t, out, "x-api-key="+Mask)
	assert.Contains(t, out, "claude-sonnet-4-5")
}

func TestRedactsSecretValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, FormatJSON, false)
	require.NoError(t, err)

	logger.With("header", "Bearer abc.def").
		WithGroup("req").
		Error("model_call_failed sk-ant-api03-XYZ",
			"error", errors.New("rejected key sk-ant-api03-secret"),
			slog.Group("auth", "token", "t0k3n"),
		)
	out := buf.String()
	assert.NotContains(t, out, "sk-ant-api03")
	assert.NotContains(t, out, "abc.def")
	assert.NotContains(t, out, "t0k3n")
	assert.Contains(t, out, "rejected key "+Mask)
}
