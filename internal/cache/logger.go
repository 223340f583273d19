package cache

import "go.uber.org/zap"

// Fields is a minimal structured field map for cache diagnostics.
type Fields map[string]any

// Logger is the logging collaborator injected into the cache layer.
// The cache never writes to a console or file directly; everything
// goes through this interface so callers pick the sink.
type Logger interface {
	Debug(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything. Useful in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// ZapLogger adapts a *zap.Logger to the cache Logger interface.
type ZapLogger struct {
	l *zap.Logger
}

// NewZapLogger wraps a zap logger for use by the cache layer.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l}
}

func (z *ZapLogger) Debug(msg string, f Fields) { z.l.Debug(msg, zapFields(f)...) }
func (z *ZapLogger) Warn(msg string, f Fields)  { z.l.Warn(msg, zapFields(f)...) }
func (z *ZapLogger) Error(msg string, f Fields) { z.l.Error(msg, zapFields(f)...) }

func zapFields(f Fields) []zap.Field {
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
