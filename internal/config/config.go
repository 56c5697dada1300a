// Package config provides configuration loading and validation for the assoc tool.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
)

// Sentinel validation errors.
var (
	ErrSchema            = errors.New("configuration does not match the schema")
	ErrInvalidCheckEvery = errors.New("verify check interval exceeds the operation count")
	ErrInvalidLogLevel   = errors.New("unknown log level")
)

//go:embed schema.json
var schemaJSON []byte

// Config holds all configuration for the assoc tool.
type Config struct {
	Verify    VerifyConfig    `json:"verify"    mapstructure:"verify"`
	Bench     BenchConfig     `json:"bench"     mapstructure:"bench"`
	Logging   LoggingConfig   `json:"logging"   mapstructure:"logging"`
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry"`
}

// VerifyConfig drives the randomized verification runs.
type VerifyConfig struct {
	Seed       int64 `json:"seed"        mapstructure:"seed"`
	Operations int   `json:"operations"  mapstructure:"operations"`
	KeySpace   int   `json:"key_space"   mapstructure:"key_space"`
	CheckEvery int   `json:"check_every" mapstructure:"check_every"`
}

// BenchConfig drives the benchmark runs.
type BenchConfig struct {
	Sizes  []int `json:"sizes"  mapstructure:"sizes"`
	Repeat int   `json:"repeat" mapstructure:"repeat"`
	Seed   int64 `json:"seed"   mapstructure:"seed"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `json:"level"  mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// TelemetryConfig holds the OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `json:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `json:"otlp_insecure" mapstructure:"otlp_insecure"`
	MetricsAddr  string `json:"metrics_addr"  mapstructure:"metrics_addr"`
}

// SlogLevel converts the configured level name.
func (lc LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(lc.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level)
	}

	return level, nil
}

// JSON reports whether logs are written as JSON.
func (lc LoggingConfig) JSON() bool {
	return lc.Format == "json"
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("assoc")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/assoc")
	}

	viperCfg.SetEnvPrefix("ASSOC")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Verify: VerifyConfig{
			Seed:       DefaultVerifySeed,
			Operations: DefaultVerifyOperations,
			KeySpace:   DefaultVerifyKeySpace,
			CheckEvery: DefaultVerifyCheckEvery,
		},
		Bench: BenchConfig{
			Sizes:  DefaultBenchSizes(),
			Repeat: DefaultBenchRepeat,
			Seed:   DefaultBenchSeed,
		},
		Logging: LoggingConfig{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	defaults := Default()

	viperCfg.SetDefault("verify.seed", defaults.Verify.Seed)
	viperCfg.SetDefault("verify.operations", defaults.Verify.Operations)
	viperCfg.SetDefault("verify.key_space", defaults.Verify.KeySpace)
	viperCfg.SetDefault("verify.check_every", defaults.Verify.CheckEvery)

	viperCfg.SetDefault("bench.sizes", defaults.Bench.Sizes)
	viperCfg.SetDefault("bench.repeat", defaults.Bench.Repeat)
	viperCfg.SetDefault("bench.seed", defaults.Bench.Seed)

	viperCfg.SetDefault("logging.level", defaults.Logging.Level)
	viperCfg.SetDefault("logging.format", defaults.Logging.Format)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_addr", "")
}

// Validate checks config against the embedded schema and the cross-field rules.
func Validate(config *Config) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, verr.String())
		}

		return fmt.Errorf("%w: %s", ErrSchema, strings.Join(details, "; "))
	}

	if config.Verify.CheckEvery > config.Verify.Operations {
		return fmt.Errorf("%w: %d > %d", ErrInvalidCheckEvery, config.Verify.CheckEvery, config.Verify.Operations)
	}

	_, err = config.Logging.SlogLevel()

	return err
}
