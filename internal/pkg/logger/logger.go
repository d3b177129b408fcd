package logger

import (
	"context"

	"go.uber.org/zap"
)

type key string

const loggerKey key = "loggerKey"

var defaultLogger = zap.NewNop().Sugar()

// New создает логгер приложения
func New() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}

// ToContext помещает логгер в context
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext достает логгер из context, если его нет - возвращает no-op логгер
func FromContext(ctx context.Context) *zap.SugaredLogger {
	l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger)
	if !ok {
		return defaultLogger
	}

	return l
}

// Infof ...
func Infof(ctx context.Context, template string, args ...any) {
	FromContext(ctx).Infof(template, args...)
}

// Errorf ...
func Errorf(ctx context.Context, template string, args ...any) {
	FromContext(ctx).Errorf(template, args...)
}
