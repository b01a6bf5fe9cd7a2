package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/strategy"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", FormatText, false},
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestOutputStructured(t *testing.T) {
	data := DetectOutput{Location: "api.raml", Vendor: "RAML_10", Format: "YAML"}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatJSON))
		assert.JSONEq(t, `{"location":"api.raml","vendor":"RAML_10","format":"YAML"}`, buf.String())
	})

	t.Run("yaml uses json tags", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatYAML))
		assert.YAMLEq(t, "location: api.raml\nvendor: RAML_10\nformat: YAML\n", buf.String())
	})

	t.Run("text is not structured", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputStructured(&buf, data, FormatText))
		assert.Empty(t, buf.String())
	})
}

func TestParseModeFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    strategy.Mode
		wantErr bool
	}{
		{"AUTO", strategy.ModeAuto, false},
		{"amf", strategy.ModeAMF, false},
		{"Raml", strategy.ModeRAML, false},
		{"", strategy.ModeAuto, false},
		{"fastest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseModeFlag(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid mode 'fastest'")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceFlagsOptions(t *testing.T) {
	t.Run("location only", func(t *testing.T) {
		f := &sourceFlags{Format: FormatText}
		opts, err := f.options("api.raml")
		require.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.Equal(t, "api.raml", parser.Source(opts...))
	})

	t.Run("all flags", func(t *testing.T) {
		f := &sourceFlags{Format: FormatJSON, Vendor: "raml-1.0", WorkingDir: "/proj", DependencyRepo: "/repo", Verbose: true}
		opts, err := f.options("api.raml")
		require.NoError(t, err)
		assert.Len(t, opts, 5)
	})

	t.Run("invalid vendor", func(t *testing.T) {
		f := &sourceFlags{Format: FormatText, Vendor: "wsdl"}
		_, err := f.options("api.raml")
		assert.ErrorContains(t, err, "invalid vendor 'wsdl'")
	})

	t.Run("invalid format", func(t *testing.T) {
		f := &sourceFlags{Format: "xml"}
		_, err := f.options("api.raml")
		assert.Error(t, err)
	})
}
