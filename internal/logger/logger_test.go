package logger_test

import (
	"testing"

	"stockbook/internal/config"
	"stockbook/internal/logger"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggerConfig
		dev   bool
		level zapcore.Level
	}{
		{"production json", config.LoggerConfig{Level: "warn", Encoding: "json"}, false, zapcore.WarnLevel},
		{"development console", config.LoggerConfig{Level: "debug", Encoding: "console"}, true, zapcore.DebugLevel},
		{"unknown level", config.LoggerConfig{Level: "loud", Encoding: "json"}, false, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(tt.cfg, tt.dev)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !log.Core().Enabled(tt.level) {
				t.Errorf("level %s not enabled", tt.level)
			}
			if tt.level > zapcore.DebugLevel && log.Core().Enabled(tt.level-1) {
				t.Errorf("level %s should be disabled", tt.level-1)
			}
		})
	}
}
