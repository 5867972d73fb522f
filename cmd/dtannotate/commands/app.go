package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/dtannotate/pkg/config"
	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
	"github.com/Sumatoshi-tech/dtannotate/pkg/version"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

func (g *GlobalFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.ConfigPath, "config", "", "config file (default: .dtannotate.yaml in CWD or $HOME)")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "suppress progress output")
	flags.BoolVar(&g.NoColor, "no-color", false, "disable colored output")
}

// logLevel applies --quiet and --verbose on top of the configured level.
func (g *GlobalFlags) logLevel(cfg *config.Config) slog.Level {
	switch {
	case g.Quiet:
		return slog.LevelWarn
	case g.Verbose:
		return slog.LevelDebug
	default:
		return cfg.Logging.SlogLevel()
	}
}

// app bundles what a command needs once configuration is loaded.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	metrics   *observability.AnnotationMetrics
}

func newApp(cmd *cobra.Command, flags *GlobalFlags, mode observability.AppMode) (*app, error) {
	if flags.NoColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg := observabilityConfig(cfg, flags, mode)
	obsCfg.LogWriter = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewAnnotationMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(cmd.Context()))
	}

	return &app{
		cfg:       cfg,
		providers: providers,
		logger:    providers.Logger,
		metrics:   metrics,
	}, nil
}

// observabilityConfig maps the logging and telemetry sections onto the
// providers' configuration.
func observabilityConfig(cfg *config.Config, flags *GlobalFlags, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = flags.logLevel(cfg)
	obsCfg.LogJSON = cfg.Logging.JSON()
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile

	return obsCfg
}

func (a *app) annotator() *dts.Annotator {
	return dts.NewAnnotator(dts.Options{
		Rules:  a.cfg.RuleSet(),
		Logger: a.logger,
		Tracer: a.providers.Tracer,
	})
}

// close flushes telemetry; failures are logged, never returned.
func (a *app) close(ctx context.Context) {
	err := a.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		a.logger.WarnContext(ctx, "observability shutdown failed", "error", err)
	}
}
