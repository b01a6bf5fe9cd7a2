package options

import (
	"errors"
	"testing"

	"github.com/erraggy/apiparser/apierrors"
	"github.com/stretchr/testify/assert"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantMsg string
	}{
		{"none", []bool{false, false}, "no input"},
		{"one", []bool{false, true}, ""},
		{"two", []bool{true, true}, "too many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("no input", "too many", tt.sources...)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apierrors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
