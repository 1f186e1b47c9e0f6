package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects log verbosity and output encoding.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

var (
	baseLogger *zap.Logger
	sugar      *zap.SugaredLogger
)

func init() {
	baseLogger = zap.NewNop()
	sugar = baseLogger.Sugar()
}

// Init builds the process logger. Safe to call once at startup; before
// Init all log calls are no-ops.
func Init(cfg Config) error {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "" {
		level = "info"
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = "console"
	}

	var zapCfg zap.Config
	switch format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	atomLevel := zap.NewAtomicLevel()
	if err := atomLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}
	zapCfg.Level = atomLevel

	logger, err := zapCfg.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	baseLogger = logger
	sugar = logger.Sugar()
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func Debugf(format string, args ...any) {
	sugar.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	sugar.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	sugar.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	sugar.Errorf(format, args...)
}

func Fatalf(format string, args ...any) {
	sugar.Fatalf(format, args...)
}
