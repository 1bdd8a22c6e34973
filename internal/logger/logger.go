// Package logger holds the process-wide zap logger and hands out
// request-scoped children through context.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DevelopmentEnvironment = "development"
	ProductionEnvironment  = "production"
)

var defaultLogger = zap.NewNop()

// Setup replaces the default logger: JSON in production, console otherwise.
func Setup(environment string) {
	var (
		l   *zap.Logger
		err error
	)
	if environment == ProductionEnvironment {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return
	}
	defaultLogger = l
}

// L returns the default logger, for code that has no context at hand.
func L() *zap.Logger { return defaultLogger }

type key struct{}

// Get returns the logger stored in ctx, or the default one.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(key{}).(*zap.Logger); l != nil {
		return l
	}
	return defaultLogger
}

func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// WithFields derives a context whose logger carries fields on every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) { Get(ctx).Debug(msg, fields...) }
func Info(ctx context.Context, msg string, fields ...zapcore.Field)  { Get(ctx).Info(msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...zapcore.Field)  { Get(ctx).Warn(msg, fields...) }
func Error(ctx context.Context, msg string, fields ...zapcore.Field) { Get(ctx).Error(msg, fields...) }
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) { Get(ctx).Fatal(msg, fields...) }

func Sync() { _ = defaultLogger.Sync() }
