package logger

import (
	"os"
	"strings"

	"github.com/cyphera/cyphera-vault/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log *zap.Logger
)

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level string `json:"level"`
	Stage string `json:"stage"`
	// ProgramID is the vault program the process serves; empty omits the field.
	ProgramID   string `json:"program_id"`
	EnableJSON  bool   `json:"enable_json"`
	EnableColor bool   `json:"enable_color"`
}

// InitLogger initializes the logger for stage without a program field.
func InitLogger(stage string) {
	InitServiceLogger(stage, "")
}

// InitServiceLogger initializes the logger for stage and tags every entry
// with programID. LOG_LEVEL overrides the stage default.
func InitServiceLogger(stage, programID string) {
	InitLoggerWithConfig(LoggerConfig{
		Level:       getEnvWithDefault("LOG_LEVEL", DefaultLevel(stage)),
		Stage:       stage,
		ProgramID:   programID,
		EnableJSON:  stage == constants.ProdEnvironment,
		EnableColor: stage == constants.LocalEnvironment || stage == constants.DevEnvironment,
	})
}

// DefaultLevel is the level used when LOG_LEVEL is unset: debug while
// developing locally, warn under test, info elsewhere.
func DefaultLevel(stage string) string {
	switch stage {
	case constants.LocalEnvironment:
		return "debug"
	case constants.TestEnvironment:
		return "warn"
	default:
		return "info"
	}
}

// InitLoggerWithConfig initializes the logger with custom configuration
func InitLoggerWithConfig(config LoggerConfig) {
	level := ParseLevel(config.Level)

	var zapConfig zap.Config
	if config.EnableJSON {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.MessageKey = "message"
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if config.EnableColor {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		zapConfig.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.InitialFields = initialFields(config)
	zapConfig.DisableStacktrace = config.Stage == constants.ProdEnvironment && level > zapcore.DebugLevel

	logger, err := zapConfig.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	Log = logger
}

// initialFields are attached to every entry. Console output for local work
// skips them.
func initialFields(config LoggerConfig) map[string]interface{} {
	if !config.EnableJSON && config.Stage == constants.LocalEnvironment {
		return nil
	}
	fields := map[string]interface{}{
		"service": constants.ServiceName,
		"stage":   config.Stage,
	}
	if config.ProgramID != "" {
		fields["program_id"] = config.ProgramID
	}
	return fields
}

// ParseLevel maps a textual level to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case constants.ErrorLevel:
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// OrNop returns the global logger, or a no-op logger when InitLogger was never called.
func OrNop() *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log
}

// getEnvWithDefault returns environment variable value or default
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zapcore.Field) {
	OrNop().Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zapcore.Field) {
	OrNop().Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zapcore.Field) {
	OrNop().Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zapcore.Field) {
	OrNop().Warn(msg, fields...)
}

// Fatal logs a message at FatalLevel
// and then calls os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) {
	OrNop().Fatal(msg, fields...)
}

// With creates a child logger and adds structured context to it
func With(fields ...zapcore.Field) *zap.Logger {
	return OrNop().With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return OrNop().Sync()
}
