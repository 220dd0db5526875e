// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the import run.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     duration observations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems live in subpackages (e.g. prompush); the rest
//     of the codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures one pipeline stage execution for a dataset:
// latency plus success/failure. Stages are "fetch", "decode", "import".
func RecordStage(job, dataset, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":     job,
		"dataset": dataset,
		"stage":   stage,
		"status":  status,
	}

	backend.IncCounter("import_stage_total", 1, lbls)
	backend.ObserveHistogram("import_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts rows that completed a stage for a dataset. Typical
// kinds: "decoded", "loaded".
func RecordRows(job, dataset, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("import_rows_total", float64(delta), Labels{
		"job":     job,
		"dataset": dataset,
		"kind":    kind,
	})
}

// RecordBytes counts bytes transferred from the remote archive for a dataset.
func RecordBytes(job, dataset string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("import_bytes_total", float64(delta), Labels{
		"job":     job,
		"dataset": dataset,
	})
}
