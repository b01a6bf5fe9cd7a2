package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apiparser/internal/testutil"
)

const nonConformingRAML = "#%RAML 1.0\nversion: v1\nunknown: 1\n"

func TestSetupValidateFlags(t *testing.T) {
	fs, flags := SetupValidateFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, "AUTO", flags.Mode)
		assert.False(t, flags.NoWarnings, "expected NoWarnings to be false by default")
		assert.False(t, flags.Quiet, "expected Quiet to be false by default")
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"--no-warnings", "-q", "--format", "json", "--mode", "amf", "test.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.True(t, flags.NoWarnings, "expected NoWarnings to be true")
		assert.True(t, flags.Quiet, "expected Quiet to be true")
		assert.Equal(t, "json", flags.Format)
		assert.Equal(t, "amf", flags.Mode)
		assert.Equal(t, "test.yaml", fs.Arg(0))
	})
}

func TestHandleValidate_Conforming(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"api.raml": testutil.RAML08})

	var buf bytes.Buffer
	require.NoError(t, HandleValidate(context.Background(), []string{filepath.Join(dir, "api.raml")}, &buf))
	assert.Contains(t, buf.String(), "✓ Validation passed")
}

func TestHandleValidate_NotConforming(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"api.raml": nonConformingRAML})
	location := filepath.Join(dir, "api.raml")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		err := HandleValidate(context.Background(), []string{"--format", "json", location}, &buf)
		assert.ErrorIs(t, err, ErrNotConforming)

		var output ValidateOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
		assert.False(t, output.Conforms)
		assert.Equal(t, 1, output.ErrorCount)
		assert.Equal(t, 1, output.WarningCount)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "error", output.Results[0].Level)
		assert.Equal(t, "warning", output.Results[1].Level)
	})

	t.Run("no warnings keeps counts", func(t *testing.T) {
		var buf bytes.Buffer
		err := HandleValidate(context.Background(), []string{"--format", "json", "--no-warnings", location}, &buf)
		assert.ErrorIs(t, err, ErrNotConforming)

		var output ValidateOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
		assert.Equal(t, 1, output.WarningCount)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "error", output.Results[0].Level)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		err := HandleValidate(context.Background(), []string{location}, &buf)
		assert.ErrorIs(t, err, ErrNotConforming)
		assert.Contains(t, buf.String(), "[error] VALIDATION_ERROR: ")
		assert.Contains(t, buf.String(), "✗ Validation failed: 1 error(s), 1 warning(s)")
	})
}

func TestHandleValidate_NoArgs(t *testing.T) {
	assert.Error(t, HandleValidate(context.Background(), []string{}, &bytes.Buffer{}))
}

func TestHandleValidate_Help(t *testing.T) {
	assert.NoError(t, HandleValidate(context.Background(), []string{"--help"}, &bytes.Buffer{}))
}

func TestHandleValidate_InvalidFormat(t *testing.T) {
	assert.Error(t, HandleValidate(context.Background(), []string{"--format", "invalid", "test.yaml"}, &bytes.Buffer{}))
}
