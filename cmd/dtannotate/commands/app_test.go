package commands

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/dtannotate/pkg/config"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
)

func TestObservabilityConfig_Telemetry(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Logging.Format = config.LogFormatJSON
	cfg.Telemetry.OTLPEndpoint = "collector:4317"
	cfg.Telemetry.OTLPInsecure = true
	cfg.Telemetry.OTLPHeaders = "authorization=Bearer abc, tenant=lab"
	cfg.Telemetry.SampleRatio = 0.1
	cfg.Telemetry.MetricsFile = "/var/lib/node_exporter/dtannotate.prom"

	got := observabilityConfig(cfg, &GlobalFlags{Verbose: true}, observability.ModeMCP)

	assert.Equal(t, observability.ModeMCP, got.Mode)
	assert.Equal(t, slog.LevelDebug, got.LogLevel)
	assert.True(t, got.LogJSON)
	assert.Equal(t, "collector:4317", got.OTLPEndpoint)
	assert.True(t, got.OTLPInsecure)
	assert.Equal(t, map[string]string{"authorization": "Bearer abc", "tenant": "lab"}, got.OTLPHeaders)
	assert.InDelta(t, 0.1, got.SampleRatio, 1e-9)
	assert.Equal(t, "/var/lib/node_exporter/dtannotate.prom", got.MetricsFile)
}

func TestObservabilityConfig_Defaults(t *testing.T) {
	t.Parallel()

	got := observabilityConfig(config.Default(), &GlobalFlags{}, observability.ModeCLI)

	assert.Nil(t, got.OTLPHeaders)
	assert.InDelta(t, 1.0, got.SampleRatio, 1e-9)
	assert.Equal(t, slog.LevelInfo, got.LogLevel)
}
