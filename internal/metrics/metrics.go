// Package metrics defines the minimal instrumentation surface the analysis
// pipeline emits against. The core packages depend only on this interface;
// concrete backends (Datadog, or the default no-op) live in subpackages and
// are selected at startup.
package metrics

import "sync/atomic"

// Labels are metric dimensions, e.g. {"step": "mine", "status": "ok"}.
type Labels map[string]string

// Backend receives metric observations. Implementations must be safe for
// concurrent use; the pipeline emits from multiple goroutines.
type Backend interface {
	// IncCounter adds delta to a monotonically increasing counter.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of a distribution.
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush forces buffered metrics out. Called at least once at shutdown.
	Flush() error
}

// nopBackend drops everything. The default, so instrumented code never has
// to nil-check.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

// holder wraps the interface so every Store sees the same concrete type;
// atomic.Value panics when the stored type changes between calls.
type holder struct {
	b Backend
}

var current atomic.Value // holder

func init() {
	current.Store(holder{b: nopBackend{}})
}

// SetBackend installs b as the process-wide backend. A nil b restores the
// no-op default.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	current.Store(holder{b: b})
}

func backend() Backend {
	return current.Load().(holder).b
}

// IncCounter adds delta to a counter on the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	backend().IncCounter(name, delta, labels)
}

// ObserveHistogram records a sample on the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	backend().ObserveHistogram(name, value, labels)
}

// Flush flushes the installed backend.
func Flush() error {
	return backend().Flush()
}

// Metric names emitted by the analysis pipeline.
const (
	StepTotal           = "eda_step_total"            // labels: step, status
	StepDurationSeconds = "eda_step_duration_seconds" // labels: step, status
	RecordsTotal        = "eda_records_total"         // labels: kind (parsed|skipped|error)
	RowsTotal           = "eda_rows_total"            // labels: table
	RulesTotal          = "eda_rules_total"           // no extra labels
	RunsTotal           = "eda_runs_total"            // labels: status
)
