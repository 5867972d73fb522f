package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	scopeName = "dtannotate"

	headerPairSeparator = ","
	headerKVSeparator   = "="
)

// Providers holds the initialized observability providers.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// Shutdown writes the metrics textfile and flushes the OTLP exporters.
	// Must be called before process exit; calling it twice is harmless.
	Shutdown func(ctx context.Context) error
}

// Init builds the logger and the telemetry sinks selected by cfg.
// Spans go to OTLP only. Metrics go to OTLP, the Prometheus textfile, both
// or nowhere. Sinks that are not configured cost a no-op provider.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()
	target := collectorTarget(cfg)

	res, err := buildResource(cfg)
	if err != nil {
		return Providers{}, err
	}

	var closers shutdownChain

	tp, err := newTracerProvider(ctx, target, res, cfg.SampleRatio, &closers)
	if err != nil {
		return Providers{}, err
	}

	mp, err := newMeterProvider(ctx, target, cfg.MetricsFile, res, &closers)
	if err != nil {
		return Providers{}, errors.Join(err, closers.run(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultShutdownTimeoutSec * time.Second
	}

	return Providers{
		Tracer: tp.Tracer(scopeName),
		Meter:  mp.Meter(scopeName),
		Logger: NewLogger(cfg),
		Shutdown: func(shutdownCtx context.Context) error {
			deadlineCtx, cancel := context.WithTimeout(shutdownCtx, timeout)
			defer cancel()

			return closers.run(deadlineCtx)
		},
	}, nil
}

func buildResource(cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

// shutdownChain runs its steps once, in registration order, and joins
// their errors.
type shutdownChain struct {
	steps []func(context.Context) error
	done  bool
}

func (c *shutdownChain) add(step func(context.Context) error) {
	c.steps = append(c.steps, step)
}

func (c *shutdownChain) run(ctx context.Context) error {
	if c.done {
		return nil
	}

	c.done = true

	var errs []error
	for _, step := range c.steps {
		errs = append(errs, step(ctx))
	}

	return errors.Join(errs...)
}

// otlpTarget is the collector both exporters talk to.
type otlpTarget struct {
	headers  map[string]string
	endpoint string
	insecure bool
}

func collectorTarget(cfg Config) otlpTarget {
	return otlpTarget{
		endpoint: cfg.OTLPEndpoint,
		headers:  cfg.OTLPHeaders,
		insecure: cfg.OTLPInsecure,
	}
}

func (t otlpTarget) enabled() bool {
	return t.endpoint != ""
}

func (t otlpTarget) spanExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(t.endpoint)}

	if t.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(t.headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(t.headers))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	return exporter, nil
}

func (t otlpTarget) metricReader(ctx context.Context) (sdkmetric.Reader, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(t.endpoint)}

	if t.insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	if len(t.headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(t.headers))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter), nil
}

func newTracerProvider(
	ctx context.Context, target otlpTarget, res *resource.Resource, ratio float64, closers *shutdownChain,
) (trace.TracerProvider, error) {
	if !target.enabled() {
		return nooptrace.NewTracerProvider(), nil
	}

	exporter, err := target.spanExporter(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(runSampler(ratio)),
	)
	closers.add(tp.Shutdown)

	return tp, nil
}

// runSampler samples a fraction of annotation runs. A run started under a
// sampled parent, such as an MCP call from a traced agent, is always kept.
func runSampler(ratio float64) sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// newMeterProvider attaches one reader per configured sink. The textfile is
// written before the provider shuts down so the last run is in it.
func newMeterProvider(
	ctx context.Context, target otlpTarget, metricsFile string, res *resource.Resource, closers *shutdownChain,
) (metric.MeterProvider, error) {
	if !target.enabled() && metricsFile == "" {
		return noopmetric.NewMeterProvider(), nil
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if target.enabled() {
		reader, err := target.metricReader(ctx)
		if err != nil {
			return nil, err
		}

		opts = append(opts, sdkmetric.WithReader(reader))
	}

	if metricsFile != "" {
		textfile, err := NewTextfile(metricsFile)
		if err != nil {
			return nil, err
		}

		opts = append(opts, sdkmetric.WithReader(textfile.Reader()))
		closers.add(func(context.Context) error { return textfile.Write() })
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	closers.add(mp.Shutdown)

	return mp, nil
}

// ParseOTLPHeaders parses the telemetry.otlp_headers value,
// "key=value,key=value". Pairs without '=' or with an empty key are skipped.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for pair := range strings.SplitSeq(raw, headerPairSeparator) {
		key, value, ok := strings.Cut(pair, headerKVSeparator)
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[key] = strings.TrimSpace(value)
	}

	return headers
}
