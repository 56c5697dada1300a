package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assoc/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "assoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, int64(config.DefaultVerifySeed), cfg.Verify.Seed)
	assert.Equal(t, config.DefaultBenchSizes(), cfg.Bench.Sizes)
	assert.False(t, cfg.Logging.JSON())
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `verify:
  seed: 42
  operations: 1000
  key_space: 64
  check_every: 10
bench:
  sizes: [10, 20]
  repeat: 2
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  metrics_addr: ":9090"
`))
	require.NoError(t, err)

	assert.Equal(t, config.VerifyConfig{Seed: 42, Operations: 1000, KeySpace: 64, CheckEvery: 10}, cfg.Verify)
	assert.Equal(t, []int{10, 20}, cfg.Bench.Sizes)
	assert.Equal(t, 2, cfg.Bench.Repeat)
	assert.Equal(t, int64(config.DefaultBenchSeed), cfg.Bench.Seed)
	assert.True(t, cfg.Logging.JSON())
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, ":9090", cfg.Telemetry.MetricsAddr)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ASSOC_VERIFY_OPERATIONS", "777")
	t.Setenv("ASSOC_LOGGING_FORMAT", "json")

	cfg, err := config.LoadConfig(writeConfig(t, "verify:\n  operations: 5000\n"))
	require.NoError(t, err)

	assert.Equal(t, 777, cfg.Verify.Operations)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"zero operations", "verify:\n  operations: 0\n", config.ErrSchema},
		{"negative key space", "verify:\n  key_space: -1\n", config.ErrSchema},
		{"empty sizes", "bench:\n  sizes: []\n", config.ErrSchema},
		{"zero size", "bench:\n  sizes: [10, 0]\n", config.ErrSchema},
		{"bad format", "logging:\n  format: xml\n", config.ErrSchema},
		{"bad level", "logging:\n  level: loud\n", config.ErrSchema},
		{"check interval", "verify:\n  operations: 10\n  check_every: 11\n", config.ErrInvalidCheckEvery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSlogLevel_Unknown(t *testing.T) {
	t.Parallel()

	_, err := config.LoggingConfig{Level: "chatty"}.SlogLevel()
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
