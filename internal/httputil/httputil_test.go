package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantErr bool
	}{
		{100, false},
		{200, false},
		{404, false},
		{599, false},
		{99, true},
		{600, true},
		{0, true},
		{-200, true},
	}
	for _, tt := range tests {
		err := ValidateStatusCode(tt.code)
		if tt.wantErr {
			assert.Error(t, err, "code %d", tt.code)
		} else {
			assert.NoError(t, err, "code %d", tt.code)
		}
	}
}

func TestIsStandardStatusCode(t *testing.T) {
	assert.True(t, IsStandardStatusCode(200))
	assert.True(t, IsStandardStatusCode(418))
	assert.True(t, IsStandardStatusCode(511))
	assert.False(t, IsStandardStatusCode(299))
	assert.False(t, IsStandardStatusCode(420))
	assert.False(t, IsStandardStatusCode(600))
}
