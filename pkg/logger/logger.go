// Package logger provides a zap-based application logger that stamps every
// record with the service name and, when present, the request's trace id.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the minimum level a logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// TraceIDFn extracts a trace id from the context for log correlation.
type TraceIDFn func(ctx context.Context) string

// Logger wraps zap with context-aware logging methods.
type Logger struct {
	log       *zap.SugaredLogger
	traceIDFn TraceIDFn
}

// New constructs a Logger writing JSON records to w at or above minLevel.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	var lvl zapcore.Level
	if err := lvl.Set(string(minLevel)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(w), lvl)
	log := zap.New(core).With(zap.String("service", service)).Sugar()
	return &Logger{log: log, traceIDFn: traceIDFn}
}

// Debug logs at debug level with key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log.Debugw(msg, l.with(ctx, args)...)
}

// Info logs at info level with key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log.Infow(msg, l.with(ctx, args)...)
}

// Warn logs at warn level with key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log.Warnw(msg, l.with(ctx, args)...)
}

// Error logs at error level with key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log.Errorw(msg, l.with(ctx, args)...)
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.log.Sync()
}

func (l *Logger) with(ctx context.Context, args []any) []any {
	if l.traceIDFn == nil {
		return args
	}
	if id := l.traceIDFn(ctx); id != "" {
		return append(args, "trace_id", id)
	}
	return args
}
