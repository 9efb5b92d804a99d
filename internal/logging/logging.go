// Package logging builds the zap logger shared by the CLI and the suite.
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/studentrecords/conformance/config"
)

const timeLayout = "2006/01/02 15:04:05.000"

// NewZapLogger builds a logger from cfg. debug forces the debug level.
// Text format uses the console encoder and json the JSON encoder.
func NewZapLogger(cfg config.LogConfig, debug bool) (*zap.SugaredLogger, error) {
	levelName := string(cfg.Level)
	if levelName == "" {
		levelName = string(config.LogLevelInfo)
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if debug {
		level = zapcore.DebugLevel
	}

	format := cfg.Format
	if format == "" {
		format = config.LogFormatText
	}
	encodingMap := map[config.LogFormat]string{
		config.LogFormatText: "console",
		config.LogFormatJSON: "json",
	}
	encoderMap := map[config.LogFormat]zapcore.EncoderConfig{
		config.LogFormatText: zap.NewDevelopmentEncoderConfig(),
		config.LogFormatJSON: zap.NewProductionEncoderConfig(),
	}
	encoding, ok := encodingMap[format]
	if !ok {
		return nil, fmt.Errorf("logging: invalid format: %s", format)
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderMap[format],
	}
	zapConfig.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(timeLayout))
	}
	if format == config.LogFormatText {
		zapConfig.EncoderConfig.EncodeName = func(loggerName string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(fmt.Sprintf("%-10s", "["+loggerName+"]"))
		}
	}

	if cfg.File == "" {
		zapConfig.OutputPaths = []string{"stderr"}
	} else {
		zapConfig.OutputPaths = []string{cfg.File}
	}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
