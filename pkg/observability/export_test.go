package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BuildResourceForTest exposes buildResource.
func BuildResourceForTest(cfg Config) (*resource.Resource, error) {
	return buildResource(cfg)
}

// RootSpanSampled reports whether the run sampler for ratio keeps a span
// started without a parent.
func RootSpanSampled(ratio float64) bool {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(runSampler(ratio)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "run")
	defer span.End()

	return span.SpanContext().IsSampled()
}
