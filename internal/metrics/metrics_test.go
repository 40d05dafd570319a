package metrics

import (
	"sync"
	"testing"
)

type recordingBackend struct {
	mu       sync.Mutex
	counters map[string]float64
	samples  map[string][]float64
	flushed  int
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		counters: make(map[string]float64),
		samples:  make(map[string][]float64),
	}
}

func (r *recordingBackend) IncCounter(name string, delta float64, _ Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] += delta
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, _ Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[name] = append(r.samples[name], value)
}

func (r *recordingBackend) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushed++
	return nil
}

// emptyBackend is a second concrete type, distinct from both nopBackend and
// recordingBackend.
type emptyBackend struct{}

func (emptyBackend) IncCounter(string, float64, Labels)       {}
func (emptyBackend) ObserveHistogram(string, float64, Labels) {}
func (emptyBackend) Flush() error                             { return nil }

// TestSetBackend_SwitchesConcreteTypes verifies the process-wide slot accepts
// backends of different concrete types in sequence. The slot starts holding
// the no-op default, so the very first SetBackend already changes the stored
// type.
func TestSetBackend_SwitchesConcreteTypes(t *testing.T) {
	t.Cleanup(func() { SetBackend(nil) })

	rec := newRecordingBackend()
	SetBackend(rec)
	SetBackend(emptyBackend{})
	SetBackend(rec)

	IncCounter(StepTotal, 1, Labels{"step": "scan", "status": "ok"})
	ObserveHistogram(StepDurationSeconds, 0.25, Labels{"step": "scan", "status": "ok"})
	if err := Flush(); err != nil {
		t.Fatalf("Flush() err=%v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.counters[StepTotal] != 1 {
		t.Fatalf("counter = %v, want 1", rec.counters[StepTotal])
	}
	if len(rec.samples[StepDurationSeconds]) != 1 {
		t.Fatalf("samples = %v, want one", rec.samples[StepDurationSeconds])
	}
	if rec.flushed != 1 {
		t.Fatalf("flushed = %d, want 1", rec.flushed)
	}
}

// TestSetBackend_NilRestoresNop verifies a nil install falls back to the
// no-op default instead of panicking on use.
func TestSetBackend_NilRestoresNop(t *testing.T) {
	rec := newRecordingBackend()
	SetBackend(rec)
	SetBackend(nil)

	IncCounter(RunsTotal, 1, Labels{"status": "ok"})
	if err := Flush(); err != nil {
		t.Fatalf("Flush() err=%v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.counters) != 0 || rec.flushed != 0 {
		t.Fatalf("uninstalled backend still received traffic: %+v", rec)
	}
}
