package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// logger adapts zap's sugared logger to LogManager.
type logger struct {
	log         *zap.SugaredLogger
	atomicLevel zap.AtomicLevel
}

func (l *logger) Debug(args ...any) { l.log.Debug(args...) }
func (l *logger) Info(args ...any)  { l.log.Info(args...) }
func (l *logger) Warn(args ...any)  { l.log.Warn(args...) }
func (l *logger) Error(args ...any) { l.log.Error(args...) }

func (l *logger) DebugF(format string, args ...any) { l.log.Debug(fmt.Sprintf(format, args...)) }
func (l *logger) InfoF(format string, args ...any)  { l.log.Info(fmt.Sprintf(format, args...)) }
func (l *logger) WarnF(format string, args ...any)  { l.log.Warn(fmt.Sprintf(format, args...)) }
func (l *logger) ErrorF(format string, args ...any) { l.log.Error(fmt.Sprintf(format, args...)) }

func (l *logger) DebugFCtx(ctx context.Context, format string, args ...any) {
	l.log.With(withContext(ctx)...).Debug(fmt.Sprintf(format, args...))
}
func (l *logger) InfoFCtx(ctx context.Context, format string, args ...any) {
	l.log.With(withContext(ctx)...).Info(fmt.Sprintf(format, args...))
}
func (l *logger) WarnFCtx(ctx context.Context, format string, args ...any) {
	l.log.With(withContext(ctx)...).Warn(fmt.Sprintf(format, args...))
}
func (l *logger) ErrorFCtx(ctx context.Context, format string, args ...any) {
	l.log.With(withContext(ctx)...).Error(fmt.Sprintf(format, args...))
}

func (l *logger) With(fields ...any) LogManager {
	return &logger{
		log:         l.log.With(fields...),
		atomicLevel: l.atomicLevel,
	}
}

func (l *logger) Sync() error {
	return l.log.Sync()
}

func (l *logger) SetLogLevel(level string) error {
	return l.atomicLevel.UnmarshalText([]byte(level))
}
