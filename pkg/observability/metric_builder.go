package observability

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

const (
	metricNamespace = "dtannotate."
	unitSeconds     = "s"
)

// durationBucketBoundaries covers 1ms to 60s; a single annotation of a
// large board file finishes well inside a second.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// metricBuilder creates instruments under the dtannotate namespace and
// collects every creation error for a single check after the batch.
type metricBuilder struct {
	meter metric.Meter
	errs  []error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

// counter creates a monotonic count; unit is a UCUM annotation like "{line}".
func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(metricNamespace+name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.check(name, err)

	return c
}

// gauge creates a count that goes up and down, like calls in flight.
func (b *metricBuilder) gauge(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(metricNamespace+name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.check(name, err)

	return c
}

// duration creates a seconds histogram with the shared run buckets.
func (b *metricBuilder) duration(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(metricNamespace+name,
		metric.WithDescription(desc),
		metric.WithUnit(unitSeconds),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	b.check(name, err)

	return h
}

func (b *metricBuilder) check(name string, err error) {
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("create %s%s: %w", metricNamespace, name, err))
	}
}

// err joins every creation error, nil when all instruments were built.
func (b *metricBuilder) err() error {
	return errors.Join(b.errs...)
}
