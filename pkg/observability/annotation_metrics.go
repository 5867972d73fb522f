package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricLinesTotal             = "lines.total"
	metricLinesDroppedTotal      = "lines.dropped.total"
	metricHandlesResolvedTotal   = "handles.resolved.total"
	metricHandlesUnresolvedTotal = "handles.unresolved.total"
	metricPropertiesRewritten    = "properties.rewritten.total"
	metricRunDuration            = "run.duration.seconds"

	attrRule = "rule"
)

// AnnotationMetrics holds OTel instruments for annotation runs.
type AnnotationMetrics struct {
	linesTotal        metric.Int64Counter
	linesDropped      metric.Int64Counter
	handlesResolved   metric.Int64Counter
	handlesUnresolved metric.Int64Counter
	rewritten         metric.Int64Counter
	runDuration       metric.Float64Histogram
}

// AnnotationStats holds the counters of one annotation run,
// decoupled from the engine types.
type AnnotationStats struct {
	// Rewritten counts rewritten properties per rule name.
	Rewritten  map[string]int
	Duration   time.Duration
	Lines      int
	Dropped    int
	Resolved   int
	Unresolved int
}

// NewAnnotationMetrics creates annotation metric instruments from the given meter.
func NewAnnotationMetrics(mt metric.Meter) (*AnnotationMetrics, error) {
	b := newMetricBuilder(mt)

	am := &AnnotationMetrics{
		linesTotal:        b.counter(metricLinesTotal, "Input lines processed", "{line}"),
		linesDropped:      b.counter(metricLinesDroppedTotal, "Lines removed from the output", "{line}"),
		handlesResolved:   b.counter(metricHandlesResolvedTotal, "Handle cells replaced by a label reference", "{handle}"),
		handlesUnresolved: b.counter(metricHandlesUnresolvedTotal, "Handle cells left numeric", "{handle}"),
		rewritten:         b.counter(metricPropertiesRewritten, "Rewritten properties by rule", "{property}"),
		runDuration:       b.duration(metricRunDuration, "Annotation run duration in seconds"),
	}

	if err := b.err(); err != nil {
		return nil, err
	}

	return am, nil
}

// RecordRun records the statistics of a completed annotation run.
// Safe to call on a nil receiver (no-op).
func (am *AnnotationMetrics) RecordRun(ctx context.Context, stats AnnotationStats) {
	if am == nil {
		return
	}

	am.linesTotal.Add(ctx, int64(stats.Lines))
	am.linesDropped.Add(ctx, int64(stats.Dropped))
	am.handlesResolved.Add(ctx, int64(stats.Resolved))
	am.handlesUnresolved.Add(ctx, int64(stats.Unresolved))
	am.runDuration.Record(ctx, stats.Duration.Seconds())

	for rule, count := range stats.Rewritten {
		if count == 0 {
			continue
		}

		am.rewritten.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrRule, rule)))
	}
}
