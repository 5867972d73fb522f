package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile collects OTel metrics into a private Prometheus registry and
// writes them in the text exposition format, for node_exporter's
// textfile collector.
type Textfile struct {
	registry *prometheus.Registry
	exporter *promexporter.Exporter
	path     string
}

// NewTextfile creates a collector whose Write dumps to path.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{registry: registry, exporter: exporter, path: path}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
func (tf *Textfile) Reader() sdkmetric.Reader {
	return tf.exporter
}

// Registry exposes the backing registry.
func (tf *Textfile) Registry() *prometheus.Registry {
	return tf.registry
}

// Path returns the destination file.
func (tf *Textfile) Path() string {
	return tf.path
}

// Write gathers the registry and atomically replaces the textfile.
func (tf *Textfile) Write() error {
	err := prometheus.WriteToTextfile(tf.path, tf.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
