package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeErrorRendering(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompositeError
		expected string
	}{
		{
			name:     "no children",
			err:      NewCompositeError("Unable to resolve root document"),
			expected: "Unable to resolve root document",
		},
		{
			name:     "children indented",
			err:      NewCompositeError("Unable to resolve root document \"api.raml\"", "path: specs/api.raml", "loader: api.raml"),
			expected: "Unable to resolve root document \"api.raml\"\n  path: specs/api.raml\n  loader: api.raml",
		},
		{
			name:     "multi-line child keeps indentation",
			err:      NewCompositeError("outer", "first\nsecond"),
			expected: "outer\n  first\n  second",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}

	issue := NewCompositeError("outer", "child").Issue(CodeResolutionFailure)
	assert.Equal(t, CodeResolutionFailure, issue.Code)
	assert.Equal(t, "outer\n  child", issue.Cause)
	assert.Equal(t, "RESOLUTION_FAILURE: outer\n  child", issue.String())
}

func TestResultSuccessAndHasCode(t *testing.T) {
	ok := New(&Specification{Location: "api.raml"}, nil, []Issue{NewIssue(CodeValidationWarning, "w")})
	assert.True(t, ok.Success())
	assert.True(t, ok.HasCode(CodeValidationWarning))
	assert.False(t, ok.HasCode(CodeValidationError))

	failed := Failure(NewIssue(CodeException, "boom"), NewIssue(CodeUnsupportedFeature, "nope"))
	assert.False(t, failed.Success())
	assert.Nil(t, failed.Specification)
	assert.True(t, failed.HasCode(CodeUnsupportedFeature))
	assert.Len(t, failed.Errors, 2)
}

func TestFromResult(t *testing.T) {
	res := New(nil,
		[]Issue{NewIssue(CodeValidationError, "e1"), NewIssue(CodeResolutionFailure, "e2")},
		[]Issue{NewIssue(CodeValidationWarning, "w1")},
	)

	report := FromResult("api.raml", res)
	assert.Equal(t, "api.raml", report.Location)
	require.Len(t, report.Results, 3)
	assert.Equal(t, []ValidationResult{
		{Severity: SeverityError, Level: "error", Code: CodeValidationError, Message: "e1"},
		{Severity: SeverityError, Level: "error", Code: CodeResolutionFailure, Message: "e2"},
		{Severity: SeverityWarning, Level: "warning", Code: CodeValidationWarning, Message: "w1"},
	}, report.Results)
	assert.False(t, report.Conforms())
	assert.Equal(t, 2, report.ErrorCount())
	assert.Equal(t, 1, report.WarningCount())
}

func TestFromResultWarningsOnlyConforms(t *testing.T) {
	report := FromResult("api.raml", New(nil, nil, []Issue{NewIssue(CodeValidationWarning, "w")}))
	assert.True(t, report.Conforms())
	assert.Equal(t, 0, report.ErrorCount())

	empty := FromResult("api.raml", New(nil, nil, nil))
	assert.True(t, empty.Conforms())
	assert.NotNil(t, empty.Results)
}
