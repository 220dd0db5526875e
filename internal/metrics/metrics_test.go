package metrics

import (
	"errors"
	"testing"
	"time"
)

// captureBackend records every call for assertions.
type captureBackend struct {
	counters   []capturedMetric
	histograms []capturedMetric
	flushed    int
}

type capturedMetric struct {
	name   string
	value  float64
	labels Labels
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters = append(c.counters, capturedMetric{name, delta, labels})
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms = append(c.histograms, capturedMetric{name, value, labels})
}

func (c *captureBackend) Flush() error { c.flushed++; return nil }

func withBackend(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestNopBackendIsSafe(t *testing.T) {
	// The default backend must accept calls without any setup.
	RecordStage("job", "ds", "fetch", nil, time.Second)
	RecordRows("job", "ds", "decoded", 10)
	RecordBytes("job", "ds", 100)
	if err := Flush(); err != nil {
		t.Fatalf("nop flush: %v", err)
	}
}

func TestSetBackend_NilKeepsExisting(t *testing.T) {
	cb := &captureBackend{}
	withBackend(t, cb)
	SetBackend(nil)
	RecordBytes("job", "ds", 1)
	if len(cb.counters) != 1 {
		t.Errorf("nil SetBackend replaced the backend")
	}
}

func TestRecordStage(t *testing.T) {
	cb := &captureBackend{}
	withBackend(t, cb)

	RecordStage("imdb", "title_basics", "decode", nil, 2*time.Second)
	RecordStage("imdb", "title_basics", "import", errors.New("boom"), time.Second)

	if len(cb.counters) != 2 || len(cb.histograms) != 2 {
		t.Fatalf("counters=%d histograms=%d", len(cb.counters), len(cb.histograms))
	}
	ok := cb.counters[0]
	if ok.name != "import_stage_total" || ok.labels["status"] != "success" ||
		ok.labels["stage"] != "decode" || ok.labels["dataset"] != "title_basics" {
		t.Errorf("success counter: %+v", ok)
	}
	fail := cb.counters[1]
	if fail.labels["status"] != "failure" || fail.labels["stage"] != "import" {
		t.Errorf("failure counter: %+v", fail)
	}
	if cb.histograms[0].value != 2.0 {
		t.Errorf("duration observation = %v, want 2.0", cb.histograms[0].value)
	}
}

func TestRecordRows(t *testing.T) {
	cb := &captureBackend{}
	withBackend(t, cb)

	RecordRows("imdb", "title_crew", "loaded", 42)
	RecordRows("imdb", "title_crew", "loaded", 0)
	RecordRows("imdb", "title_crew", "loaded", -5)

	if len(cb.counters) != 1 {
		t.Fatalf("non-positive deltas must be dropped; got %d calls", len(cb.counters))
	}
	got := cb.counters[0]
	if got.name != "import_rows_total" || got.value != 42 || got.labels["kind"] != "loaded" {
		t.Errorf("rows counter: %+v", got)
	}
}

func TestRecordBytes(t *testing.T) {
	cb := &captureBackend{}
	withBackend(t, cb)

	RecordBytes("imdb", "name_basics", 1024)
	RecordBytes("imdb", "name_basics", 0)

	if len(cb.counters) != 1 {
		t.Fatalf("zero delta must be dropped; got %d calls", len(cb.counters))
	}
	if got := cb.counters[0]; got.name != "import_bytes_total" || got.value != 1024 {
		t.Errorf("bytes counter: %+v", got)
	}
}
