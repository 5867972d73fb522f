package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".dtannotate"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for dtannotate settings.
const envPrefix = "DTANNOTATE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	if used := viperCfg.ConfigFileUsed(); used != "" && readErr == nil {
		schemaErr := ValidateFile(used)
		if schemaErr != nil {
			return nil, schemaErr
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or env var is set.
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			SingleHandle:     DefaultSingleHandle,
			FirstHandle:      DefaultFirstHandle,
			ListHandle:       DefaultListHandle,
			RawValueSegments: DefaultRawValueSegments,
			GPIOSubstring:    DefaultGPIOSubstring,
		},
		Output: OutputConfig{
			Suffix: DefaultOutputSuffix,
			Header: DefaultOutputHeader,
			Verify: DefaultOutputVerify,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultOTLPEndpoint,
			OTLPInsecure: DefaultOTLPInsecure,
			OTLPHeaders:  DefaultOTLPHeaders,
			MetricsFile:  DefaultMetricsFile,
			SampleRatio:  DefaultSampleRatio,
		},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("rules.single_handle", DefaultSingleHandle)
	viperCfg.SetDefault("rules.first_handle", DefaultFirstHandle)
	viperCfg.SetDefault("rules.list_handle", DefaultListHandle)
	viperCfg.SetDefault("rules.raw_value_segments", DefaultRawValueSegments)
	viperCfg.SetDefault("rules.gpio_substring", DefaultGPIOSubstring)

	viperCfg.SetDefault("output.suffix", DefaultOutputSuffix)
	viperCfg.SetDefault("output.header", DefaultOutputHeader)
	viperCfg.SetDefault("output.verify", DefaultOutputVerify)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.otlp_headers", DefaultOTLPHeaders)
	viperCfg.SetDefault("telemetry.metrics_file", DefaultMetricsFile)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}
