// Package obslog builds the structured logger every jsrevive component
// threads through instead of printing to stderr directly, the way the
// teacher threaded a mainer.Stdio through its command layer.
package obslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap.Logger at the given level name (debug, info,
// warn, error; anything else falls back to info).
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Sugared is a convenience wrapper returning the *zap.SugaredLogger most
// components take as a dependency, mirroring how the teacher's commands took
// a mainer.Stdio rather than raw io.Writers.
func Sugared(level string) (*zap.SugaredLogger, error) {
	l, err := New(level)
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
