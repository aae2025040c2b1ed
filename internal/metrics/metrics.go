// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from DDL generation runs.
//
// Backend is a narrow interface of counters and timings. A global, pluggable
// backend defaults to a no-op implementation, so instrumentation is always
// safe to call. Concrete systems (Prometheus Pushgateway, Datadog) live in
// subpackages.
package metrics

import "time"

// Metric names emitted by this package.
const (
	StepTotal           = "ddlgen_step_total"
	StepDurationSeconds = "ddlgen_step_duration_seconds"
	ObjectsTotal        = "ddlgen_objects_total"
	FilesTotal          = "ddlgen_files_total"
)

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
// Call it before any recording starts.
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

// RecordStep records latency and success/failure of one generation step
// ("load", "render", "write").
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordCount increments an object counter for the given job and kind.
//
// Kinds mirror the generation summary:
//   - "tables"
//   - "columns"
//   - "foreign_keys"
//   - "dropped_missing"
//   - "dropped_cycle"
func RecordCount(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(ObjectsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordFile counts one generated script for dialect.
func RecordFile(job, dialect string) {
	backend.IncCounter(FilesTotal, 1, Labels{
		"job":     job,
		"dialect": dialect,
	})
}
