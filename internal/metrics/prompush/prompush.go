// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The import run is a batch process, so metrics are collected into a local
// registry and pushed once at the end instead of being exposed on a scrape
// endpoint. All Prometheus-specific dependencies stay in this package so the
// rest of the project can swap backends without changes.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"imdbload/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // "import_stage_total"
	stageDuration *prometheus.SummaryVec // "import_stage_duration_seconds"
	rowCounter    *prometheus.CounterVec // "import_rows_total"
	byteCounter   *prometheus.CounterVec // "import_bytes_total"
}

// NewBackend constructs a Pushgateway backend. jobName is the Pushgateway
// "job" grouping key; gatewayURL is the server's base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "imdbload"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_stage_total",
			Help: "Total stage executions, partitioned by dataset, stage, and status.",
		},
		[]string{"dataset", "stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "import_stage_duration_seconds",
			Help:       "Duration of import stages in seconds, partitioned by dataset, stage, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"dataset", "stage", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Row counts per dataset and kind (decoded, loaded).",
		},
		[]string{"dataset", "kind"},
	)
	byteCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_bytes_total",
			Help: "Bytes fetched from the remote archive per dataset.",
		},
		[]string{"dataset"},
	)

	for _, c := range []prometheus.Collector{stageCounter, stageDuration, rowCounter, byteCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		rowCounter:    rowCounter,
		byteCounter:   byteCounter,
	}, nil
}

// IncCounter maps the generic metric names onto the registered collectors.
// Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "import_stage_total":
		b.stageCounter.WithLabelValues(labels["dataset"], labels["stage"], labels["status"]).Add(delta)
	case "import_rows_total":
		b.rowCounter.WithLabelValues(labels["dataset"], labels["kind"]).Add(delta)
	case "import_bytes_total":
		b.byteCounter.WithLabelValues(labels["dataset"]).Add(delta)
	}
}

// ObserveHistogram records stage durations; other names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "import_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["dataset"], labels["stage"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
