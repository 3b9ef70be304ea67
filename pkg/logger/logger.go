// Package logger wraps zap behind a small LogManager interface so the rest
// of the library can log without binding callers to a concrete backend.
package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ContextKey string

// RequestIDKey carries the per-request correlation id through contexts; the
// repository sets the same id on the outbound X-Request-ID header.
const RequestIDKey ContextKey = "requestID"

// LogManager is the logging surface used across the library.
type LogManager interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	DebugF(format string, args ...any)
	InfoF(format string, args ...any)
	WarnF(format string, args ...any)
	ErrorF(format string, args ...any)

	DebugFCtx(ctx context.Context, format string, args ...any)
	InfoFCtx(ctx context.Context, format string, args ...any)
	WarnFCtx(ctx context.Context, format string, args ...any)
	ErrorFCtx(ctx context.Context, format string, args ...any)

	With(keyValues ...any) LogManager

	Sync() error
	SetLogLevel(level string) error
}

// Options configures the zap backend.
type Options struct {
	Level        string
	Encoding     string // "json" or "console"
	OutputPaths  []string
	ErrorPaths   []string
	EnableCaller bool
	EnableStack  bool
	TimeFormat   string
}

// New builds a LogManager. The level can be changed later via SetLogLevel.
func New(opts Options) (LogManager, error) {
	atomicLevel := zap.NewAtomicLevel()
	if err := atomicLevel.UnmarshalText([]byte(opts.Level)); err != nil {
		atomicLevel.SetLevel(zap.InfoLevel)
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:       "time",
		LevelKey:      "level",
		NameKey:       "logger",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(timeFormat))
		},
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	if opts.EnableCaller {
		encoderCfg.CallerKey = "caller"
	}

	if opts.Encoding == "" {
		opts.Encoding = "console"
	}
	if len(opts.OutputPaths) == 0 {
		opts.OutputPaths = []string{"stdout"}
	}
	if len(opts.ErrorPaths) == 0 {
		opts.ErrorPaths = []string{"stderr"}
	}

	cfg := zap.Config{
		Level:            atomicLevel,
		Development:      opts.Level == "debug",
		Encoding:         opts.Encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      opts.OutputPaths,
		ErrorOutputPaths: opts.ErrorPaths,
	}

	zapLogger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, err
	}
	if opts.EnableStack {
		zapLogger = zapLogger.WithOptions(zap.AddStacktrace(zap.WarnLevel))
	}

	return &logger{
		log:         zapLogger.Sugar(),
		atomicLevel: atomicLevel,
	}, nil
}

// MustNewDefault returns an info-level console logger or exits.
func MustNewDefault() LogManager {
	l, err := New(Options{
		Level:        "info",
		Encoding:     "console",
		EnableCaller: true,
	})
	if err != nil {
		fmt.Println("failed to init logger:", err)
		os.Exit(1)
	}
	return l
}
