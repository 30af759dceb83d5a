package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ValidLogLevels lists the accepted logging.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`   // empty = stderr
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if !validLevel(c.Level) {
		return fmt.Errorf("invalid logging.level: %q (valid: %v)", c.Level, ValidLogLevels)
	}
	switch c.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid logging.format: %q (valid: console, json)", c.Format)
	}
	return nil
}

func validLevel(level string) bool {
	for _, l := range ValidLogLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ZapConfig translates the settings into a zap configuration. verbose forces
// debug level.
func (c *LoggingConfig) ZapConfig(verbose bool) zap.Config {
	cfg := zap.NewProductionConfig()
	if c.Format != "json" {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if c.File != "" {
		cfg.OutputPaths = []string{c.File}
		cfg.ErrorOutputPaths = []string{c.File}
	}
	return cfg
}
