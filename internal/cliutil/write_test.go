package cliutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d cases, %v", "grades", 4, true)
	assert.Equal(t, "grades: 4 cases, true", buf.String())
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (errorWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}

func TestWritef_WriteError(t *testing.T) {
	// Should not panic
	Writef(errorWriter{}, "This will fail")
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateOutputFormat(f))
	}
	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Equal(t, "invalid format 'xml'. Valid formats: text, json, yaml", err.Error())
}

func TestWriteStructured(t *testing.T) {
	data := struct {
		Name  string `json:"name" yaml:"name"`
		Count int    `json:"count" yaml:"count"`
	}{"gpa", 2}

	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, "{\n  \"name\": \"gpa\",\n  \"count\": 2\n}\n"},
		{FormatYAML, "name: gpa\ncount: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteStructured(&buf, data, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	assert.Error(t, WriteStructured(&bytes.Buffer{}, data, FormatText))
	assert.Error(t, WriteStructured(errorWriter{}, data, FormatJSON))
}
