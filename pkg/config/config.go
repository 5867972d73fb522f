// Package config provides YAML-based configuration for dtannotate.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
)

// Sentinel validation errors.
var (
	ErrEmptySuffix      = errors.New("output suffix must not be empty")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidConfig    = errors.New("config file does not match schema")
	ErrSampleRatio      = errors.New("sample ratio must be within [0, 1]")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config is the top-level configuration struct for dtannotate.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Rules     RulesConfig     `mapstructure:"rules"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RulesConfig overrides the property-name sets of the classifier.
type RulesConfig struct {
	SingleHandle     []string `mapstructure:"single_handle"`
	FirstHandle      []string `mapstructure:"first_handle"`
	ListHandle       []string `mapstructure:"list_handle"`
	RawValueSegments []string `mapstructure:"raw_value_segments"`
	GPIOSubstring    string   `mapstructure:"gpio_substring"`
}

// OutputConfig controls the annotated file.
type OutputConfig struct {
	Suffix string `mapstructure:"suffix"`
	Header bool   `mapstructure:"header"`
	Verify bool   `mapstructure:"verify"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OTLP export and metrics file settings.
// OTLPHeaders is a "key=value,key=value" list sent as gRPC metadata.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Suffix) == "" {
		return ErrEmptySuffix
	}

	if _, ok := logLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// RuleSet builds the property classifier described by the rules section.
func (c *Config) RuleSet() *dts.RuleSet {
	return dts.NewRuleSet(dts.RuleSetConfig{
		SingleHandle:     c.Rules.SingleHandle,
		FirstHandle:      c.Rules.FirstHandle,
		ListHandle:       c.Rules.ListHandle,
		RawValueSegments: c.Rules.RawValueSegments,
		GPIOSubstring:    c.Rules.GPIOSubstring,
	})
}

// SlogLevel returns the configured level. Unknown names map to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(l.Level)]; ok {
		return level
	}

	return slog.LevelInfo
}

// JSON reports whether logs are written as JSON.
func (l LoggingConfig) JSON() bool {
	return l.Format == LogFormatJSON
}
