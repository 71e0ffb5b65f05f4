// Package logging provides structured logging utilities.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger *zap.Logger = zap.NewNop()

	// Sugar is the sugared logger for convenience
	Sugar *zap.SugaredLogger = Logger.Sugar()
)

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level
	Level string `json:"level" hcl:"level,optional" envconfig:"LEVEL"`

	// Format is the output format (json, console)
	Format string `json:"format" hcl:"format,optional" envconfig:"FORMAT"`

	// Output is the output destination (stdout, stderr, file path)
	Output string `json:"output" hcl:"output,optional" envconfig:"OUTPUT"`

	// Development enables development mode
	Development bool `json:"development" hcl:"development,optional" envconfig:"DEVELOPMENT"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// New builds a logger without touching the globals
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "", "stderr":
		sink = zapcore.Lock(os.Stderr)
	case "stdout":
		sink = zapcore.Lock(os.Stdout)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, sink, level)
	if cfg.Development {
		return zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
	}
	return zap.New(core, zap.AddCaller()), nil
}

// Initialize sets up the global logger
func Initialize(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	Logger = logger
	Sugar = logger.Sugar()
	zap.ReplaceGlobals(logger)
	return nil
}

// Named returns a child of the global logger for a component
func Named(component string) *zap.Logger {
	return Logger.Named(component)
}

// Sync flushes the logger
func Sync() {
	_ = Logger.Sync()
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Warn logs at warn level
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Error logs at error level
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}
