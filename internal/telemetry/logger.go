package telemetry

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin key/value facade over zap's sugared logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a logger writing to path. An empty path discards output.
// Mode "prod" selects JSON encoding; anything else is the console encoder.
func NewLogger(mode, path string) (*Logger, error) {
	if strings.TrimSpace(path) == "" {
		return NewNop(), nil
	}
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return Wrap(z), nil
}

func NewNop() *Logger { return Wrap(zap.NewNop()) }

func Wrap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar()}
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.sugar.Errorw(msg, keysAndValues...)
}

// With returns a child logger that always carries the given pairs.
func (l *Logger) With(keysAndValues ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Close() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	// Sync on stdout/stderr returns EINVAL on some platforms; it carries no information.
	_ = l.sugar.Sync()
	return nil
}
