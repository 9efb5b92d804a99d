package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/studentrecords/conformance/config"
)

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		debug     bool
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"defaults", config.LogConfig{}, false, zapcore.InfoLevel, false},
		{"warn text", config.LogConfig{Level: config.LogLevelWarn, Format: config.LogFormatText}, false, zapcore.WarnLevel, false},
		{"debug flag wins", config.LogConfig{Level: config.LogLevelError, Format: config.LogFormatJSON}, true, zapcore.DebugLevel, false},
		{"invalid level", config.LogConfig{Level: "loud"}, false, 0, true},
		{"invalid format", config.LogConfig{Format: "xml"}, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewZapLogger(tt.cfg, tt.debug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, logger.Level())
		})
	}
}

func TestNewZapLogger_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := NewZapLogger(config.LogConfig{Level: config.LogLevelInfo, Format: config.LogFormatJSON, File: path}, false)
	require.NoError(t, err)

	logger.Named("suite").Infow("case finished", "case", "gpa/valid-id", "passed", true)
	logger.Debugw("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "case finished", entry["msg"])
	assert.Equal(t, "suite", entry["logger"])
	assert.Equal(t, "gpa/valid-id", entry["case"])
	assert.Equal(t, true, entry["passed"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Infow("ignored", "k", "v") })
}
