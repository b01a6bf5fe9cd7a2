package validator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/erraggy/apiparser/internal/testutil"
	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConforming(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"api.raml": testutil.RAML08})
	location := filepath.Join(dir, "api.raml")

	report := Validate(context.Background(), location, strategy.ModeAuto)

	assert.True(t, report.Conforms())
	assert.Equal(t, location, report.Location)
	assert.Empty(t, report.Results)
}

func TestValidateOrdersErrorsFirst(t *testing.T) {
	raml := "#%RAML 1.0\nversion: v1\nunknown: 1\n"
	report := ValidateWithOptions(context.Background(), parser.WithContent("api.raml", []byte(raml)))

	assert.False(t, report.Conforms())
	assert.Equal(t, "api.raml", report.Location)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "error", report.Results[0].Level)
	assert.Equal(t, result.CodeValidationError, report.Results[0].Code)
	assert.Contains(t, report.Results[0].Message, "API title is required")
	assert.Equal(t, "warning", report.Results[1].Level)
	assert.Equal(t, result.CodeValidationWarning, report.Results[1].Code)
	assert.Equal(t, 1, report.ErrorCount())
	assert.Equal(t, 1, report.WarningCount())
}

func TestValidateUnresolvedInclude(t *testing.T) {
	raml := "#%RAML 1.0\ntitle: T\ntypes:\n  Pet: !include pet.raml\n"
	report := ValidateWithOptions(context.Background(),
		parser.WithContent("api.raml", []byte(raml)),
		parser.WithMode(strategy.ModeRAML),
	)

	require.Len(t, report.Results, 1)
	assert.Equal(t, result.CodeResolutionFailure, report.Results[0].Code)
	assert.Equal(t, "Include file not found: pet.raml (api.raml: Line 4,  Column 8)", report.Results[0].Message)
}
