package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/dtannotate/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".dtannotate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `rules:
  single_handle:
    - vendor,supply
  raw_value_segments: []
  gpio_substring: pin
output:
  suffix: .dts.out
  header: false
  verify: true
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  otlp_headers: authorization=token,tenant=lab
  metrics_file: /tmp/dtannotate.prom
  sample_ratio: 0.25
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor,supply"}, cfg.Rules.SingleHandle)
	assert.Equal(t, config.DefaultFirstHandle, cfg.Rules.FirstHandle)
	assert.Empty(t, cfg.Rules.RawValueSegments)
	assert.Equal(t, "pin", cfg.Rules.GPIOSubstring)
	assert.Equal(t, ".dts.out", cfg.Output.Suffix)
	assert.False(t, cfg.Output.Header)
	assert.True(t, cfg.Output.Verify)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON())
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, "/tmp/dtannotate.prom", cfg.Telemetry.MetricsFile)
	assert.Equal(t, "authorization=token,tenant=lab", cfg.Telemetry.OTLPHeaders)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "output:\n  header: sometimes\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.LoadConfig(writeConfig(t, "unknown_section: 1\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.LoadConfig(writeConfig(t, "telemetry:\n  sample_ratio: 2\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadConfig_SemanticViolation(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "logging:\n  level: loud\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("DTANNOTATE_OUTPUT_SUFFIX", ".env")
	t.Setenv("DTANNOTATE_LOGGING_LEVEL", "warn")
	t.Setenv("DTANNOTATE_TELEMETRY_SAMPLE_RATIO", "0.5")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, ".env", cfg.Output.Suffix)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestValidateYAML(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidateYAML([]byte("output:\n  suffix: .x\n")))
	require.ErrorIs(t, config.ValidateYAML([]byte("rules:\n  list_handle: nope\n")), config.ErrInvalidConfig)
	require.ErrorIs(t, config.ValidateYAML([]byte("output: [unterminated")), config.ErrInvalidConfig)
	assert.NotEmpty(t, config.Schema())
}
