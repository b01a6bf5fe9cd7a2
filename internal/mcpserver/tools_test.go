package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apiparser/internal/testutil"
)

func TestDetectTool(t *testing.T) {
	tests := []struct {
		name   string
		spec   specInput
		vendor string
		format string
	}{
		{"raml 0.8", specInput{Content: testutil.RAML08}, "RAML_08", "YAML"},
		{"oas 3.0 json", specInput{Content: testutil.OAS30JSON}, "OAS_30", "JSON"},
		{"swagger yaml", specInput{Content: testutil.OAS20YAML}, "OAS_20", "YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, output, err := handleDetect(context.Background(), &mcp.CallToolRequest{}, detectInput{Spec: tt.spec})
			require.NoError(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.vendor, output.Vendor)
			assert.Equal(t, tt.format, output.Format)
		})
	}
}

func TestDetectTool_Unrecognized(t *testing.T) {
	res, _, err := handleDetect(context.Background(), &mcp.CallToolRequest{}, detectInput{
		Spec: specInput{Content: "hello: world\n"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestParseTool_RAML(t *testing.T) {
	parseResults.reset()
	dir := testutil.WriteTree(t, map[string]string{
		"api.raml":              testutil.RAML10,
		"types/pet.raml":        testutil.PetType,
		"libraries/common.raml": testutil.CommonLibrary,
	})

	_, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{
		Spec: specInput{File: filepath.Join(dir, "api.raml")},
		Mode: "RAML",
	})
	require.NoError(t, err)
	assert.True(t, output.Success, "%v", output.Errors)
	assert.Equal(t, "RAML_10", output.Vendor)
	assert.Equal(t, "RAML", output.Backend)
	assert.Equal(t, "Pets", output.Title)
	assert.Equal(t, "v1", output.Version)
	assert.Equal(t, []string{"types/pet.raml", "libraries/common.raml"}, output.Includes)
	assert.Empty(t, output.Errors)
}

func TestParseTool_Unsupported(t *testing.T) {
	parseResults.reset()
	content := "openapi: 3.0.0\ninfo:\n  title: T\n  version: '1'\npaths: {}\n"

	_, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{
		Spec: specInput{Content: content},
	})
	require.NoError(t, err)
	assert.False(t, output.Success)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, "UNSUPPORTED_FEATURE", output.Errors[0].Code)
	assert.Empty(t, output.Vendor)
}

func TestParseTool_InvalidMode(t *testing.T) {
	res, _, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{
		Spec: specInput{Content: testutil.RAML08},
		Mode: "fastest",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestValidateTool_ValidSpec(t *testing.T) {
	parseResults.reset()
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec: specInput{Content: testutil.RAML08},
	})
	require.NoError(t, err)
	assert.True(t, output.Conforms)
	assert.Equal(t, "api.raml", output.Location)
	assert.Empty(t, output.Results)
}

func TestValidateTool_InvalidSpec(t *testing.T) {
	parseResults.reset()
	content := "#%RAML 1.0\nversion: v1\nunknown: 1\n"

	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec: specInput{Content: content},
	})
	require.NoError(t, err)
	assert.False(t, output.Conforms)
	assert.Equal(t, 1, output.ErrorCount)
	assert.Equal(t, 1, output.WarningCount)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "error", output.Results[0].Level)
	assert.Equal(t, "VALIDATION_ERROR", output.Results[0].Code)
	assert.Equal(t, "warning", output.Results[1].Level)
	assert.Equal(t, 2, output.Returned)

	_, output, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:       specInput{Content: content},
		NoWarnings: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, output.WarningCount)
	require.Len(t, output.Results, 1)
	assert.Equal(t, "error", output.Results[0].Level)

	_, output, err = handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:   specInput{Content: content},
		Offset: 1,
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, output.Results, 1)
	assert.Equal(t, "warning", output.Results[0].Level)
	assert.Equal(t, 1, output.ErrorCount, "counts are not paginated")
}

func TestValidateTool_MissingSpec(t *testing.T) {
	res, _, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestIncludesTool(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"api.raml":              testutil.RAML10,
		"types/pet.raml":        testutil.PetType,
		"libraries/common.raml": testutil.CommonLibrary,
	})

	_, output, err := handleIncludes(context.Background(), &mcp.CallToolRequest{}, includesInput{
		Spec: specInput{File: filepath.Join(dir, "api.raml")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, []string{"libraries/common.raml", "types/pet.raml"}, output.Includes)
}

func TestIncludesTool_MissingRoot(t *testing.T) {
	res, _, err := handleIncludes(context.Background(), &mcp.CallToolRequest{}, includesInput{
		Spec: specInput{File: filepath.Join(t.TempDir(), "missing.raml")},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
	assert.NotContains(t, res.Content[0].(*mcp.TextContent).Text, "/tmp/")
}
