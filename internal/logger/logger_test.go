package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestInitLoggerWithConfig(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	InitLoggerWithConfig(LoggerConfig{Level: "warn", Stage: "prod", EnableJSON: true})

	assert.NotNil(t, Log)
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))
}

func TestOrNopWithoutInit(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	Log = nil
	assert.NotNil(t, OrNop())
	assert.NotPanics(t, func() { Info("no logger configured") })
}

func TestDefaultLevel(t *testing.T) {
	assert.Equal(t, "debug", DefaultLevel("local"))
	assert.Equal(t, "warn", DefaultLevel("test"))
	assert.Equal(t, "info", DefaultLevel("dev"))
	assert.Equal(t, "info", DefaultLevel("prod"))
}

func TestInitialFields(t *testing.T) {
	tests := []struct {
		name   string
		config LoggerConfig
		want   map[string]interface{}
	}{
		{
			name:   "prod with program",
			config: LoggerConfig{Stage: "prod", ProgramID: "Prog1111", EnableJSON: true},
			want:   map[string]interface{}{"service": "cyphera-vault", "stage": "prod", "program_id": "Prog1111"},
		},
		{
			name:   "dev without program",
			config: LoggerConfig{Stage: "dev"},
			want:   map[string]interface{}{"service": "cyphera-vault", "stage": "dev"},
		},
		{
			name:   "local console",
			config: LoggerConfig{Stage: "local", ProgramID: "Prog1111"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, initialFields(tt.config))
		})
	}
}

func TestInitServiceLogger(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })
	t.Setenv("LOG_LEVEL", "")

	InitServiceLogger("test", "Prog1111")
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))
}
