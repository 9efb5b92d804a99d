package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSingleInputSource(t *testing.T) {
	names := []string{"file", "url", "content"}

	tests := []struct {
		name    string
		sources map[string]bool
		wantErr string
	}{
		{"one source", map[string]bool{"url": true}, ""},
		{"none", map[string]bool{}, "exactly one of file, url, or content must be provided (got 0)"},
		{"two", map[string]bool{"file": true, "content": true}, "exactly one of file, url, or content must be provided (got 2)"},
		{"unknown names are ignored", map[string]bool{"stdin": true}, "(got 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource(names, tt.sources)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "", joinNames(nil))
	assert.Equal(t, "file", joinNames([]string{"file"}))
	assert.Equal(t, "file or url", joinNames([]string{"file", "url"}))
	assert.Equal(t, "a, b, or c", joinNames([]string{"a", "b", "c"}))
}
