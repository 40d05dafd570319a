// Package datadog implements a Datadog backend for the internal/metrics
// package.
//
// The backend buffers observations in memory and submits them on a periodic
// Flush() (default once per minute), plus one final flush on Close(). Long
// analysis runs therefore show up as a time series rather than a single spike
// at process exit, and short runs still deliver everything through the
// closing flush.
//
// Concurrency model:
//   - pipeline goroutines call IncCounter/ObserveHistogram at any time
//   - Flush snapshots and resets the buffers under a mutex, then submits
//     out-of-lock
//   - the flush loop calls Flush() periodically; Close() stops the loop
package datadog

import (
	"context"
	"math"
	"net/http"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LeonHartK/datasetExploration/internal/metrics"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Defaults to "eda".
	JobName string

	// RunID tags every metric with "run:<id>" so concurrent analysis runs can
	// be told apart. Optional.
	RunID string

	// Tags are extra Datadog tags (e.g. []string{"env:prod", "service:eda"}).
	Tags []string

	// FlushEvery controls how often buffered metrics are submitted.
	// If <= 0, defaults to 60 seconds.
	FlushEvery time.Duration

	// The following fields are unexported test seams. Production code never
	// sets them; unit tests use them to avoid real network submission and
	// nondeterministic clocks/tickers.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal interface needed to submit metrics. The
// Datadog SDK exposes a concrete *datadogV2.MetricsApi; depending on this
// tiny private interface instead keeps the tests free of real HTTP.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// stepKey dimensions the per-step buffers.
type stepKey struct {
	step   string
	status string
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu sync.Mutex

	stepCounts      map[stepKey]float64   // step executions
	recordCounts    map[string]float64    // kind -> count
	rowCounts       map[string]float64    // table -> rows written
	ruleCount       float64               // association rules emitted
	runCounts       map[string]float64    // status -> runs
	durationSamples map[stepKey][]float64 // step durations in seconds
}

// envTag picks the environment tag for every series: ENV wins over DD_ENV,
// blank values are skipped, and without either the tag is env:unknown.
func envTag() string {
	for _, key := range []string{"ENV", "DD_ENV"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return "env:" + v
		}
	}
	return "env:unknown"
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the background flush loop and performs one final Flush().
// Close must be called at most once; a second call panics on the closed
// stop channel, the usual "close once" contract for process-lifetime
// backends.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// NewBackend constructs a Datadog backend using the official client.
//
// Edge cases:
//   - opts.FlushEvery <= 0 defaults to 60s.
//   - opts.JobName empty defaults to "eda".
//   - Environment tag selection uses ENV then DD_ENV, otherwise env:unknown.
//
// Client construction is not expected to fail; network errors surface from
// Flush().
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "eda"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 3+len(opts.Tags))
	baseTags = append(baseTags, envTag(), "job:"+job)
	if opts.RunID != "" {
		baseTags = append(baseTags, "run:"+opts.RunID)
	}
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		cfg := dd.NewConfiguration()
		client := dd.NewAPIClient(cfg)
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),

		baseTags: baseTags,

		now:       nowFn,
		newTicker: newTicker,

		stepCounts:      make(map[stepKey]float64),
		recordCounts:    make(map[string]float64),
		rowCounts:       make(map[string]float64),
		runCounts:       make(map[string]float64),
		durationSamples: make(map[stepKey][]float64),
	}

	go b.loop()
	return b, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.StepTotal:
		b.stepCounts[stepKey{labels["step"], labels["status"]}] += delta

	case metrics.RecordsTotal:
		kind := labels["kind"]
		if kind == "" {
			return
		}
		b.recordCounts[kind] += delta

	case metrics.RowsTotal:
		table := labels["table"]
		if table == "" {
			return
		}
		b.rowCounts[table] += delta

	case metrics.RulesTotal:
		b.ruleCount += delta

	case metrics.RunsTotal:
		status := labels["status"]
		if status == "" {
			status = "unknown"
		}
		b.runCounts[status] += delta

	default:
		// Unknown metrics are dropped.
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.StepDurationSeconds:
		k := stepKey{labels["step"], labels["status"]}
		b.durationSamples[k] = append(b.durationSamples[k], value)

	default:
		// Unknown histograms are dropped.
	}
}

// snapshot is the buffered metric state detached from the backend, so Flush
// can reset under the lock and build/submit the payload outside it.
type snapshot struct {
	stepCounts      map[stepKey]float64
	recordCounts    map[string]float64
	rowCounts       map[string]float64
	ruleCount       float64
	runCounts       map[string]float64
	durationSamples map[stepKey][]float64
}

func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		stepCounts:      b.stepCounts,
		recordCounts:    b.recordCounts,
		rowCounts:       b.rowCounts,
		ruleCount:       b.ruleCount,
		runCounts:       b.runCounts,
		durationSamples: b.durationSamples,
	}

	b.stepCounts = make(map[stepKey]float64)
	b.recordCounts = make(map[string]float64)
	b.rowCounts = make(map[string]float64)
	b.ruleCount = 0
	b.runCounts = make(map[string]float64)
	b.durationSamples = make(map[stepKey][]float64)

	return s
}

func (s snapshot) isEmpty() bool {
	return len(s.stepCounts) == 0 &&
		len(s.recordCounts) == 0 &&
		len(s.rowCounts) == 0 &&
		s.ruleCount == 0 &&
		len(s.runCounts) == 0 &&
		len(s.durationSamples) == 0
}

// Flush submits buffered metrics to Datadog and resets local buffers.
//
// Buffers reset even when submission fails, so a broken Datadog endpoint
// never blocks the analysis; delivery is best-effort. Returns nil when there
// is nothing to submit.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}

	series := b.buildSeries(snap, b.now().Unix())
	payload := datadogV2.MetricPayload{Series: series}

	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries constructs Datadog series for a snapshot at a fixed timestamp.
// It is pure (no locks, no network, no clocks), which keeps the naming and
// tagging contract unit-testable.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, len(s.stepCounts)+len(s.recordCounts)+len(s.rowCounts)+16)

	count := func(metric string, v float64, tags []string) {
		series = append(series, newSeries(metric, datadogV2.METRICINTAKETYPE_COUNT, v, nowUnix, tags))
	}

	for k, v := range s.stepCounts {
		if v == 0 {
			continue
		}
		count("eda.step.total", v, b.stepTags(k))
	}
	for kind, v := range s.recordCounts {
		if v == 0 {
			continue
		}
		count("eda.records.total", v, slices.Concat(b.baseTags, []string{"kind:" + kind}))
	}
	for table, v := range s.rowCounts {
		if v == 0 {
			continue
		}
		count("eda.rows.total", v, slices.Concat(b.baseTags, []string{"table:" + table}))
	}
	if s.ruleCount != 0 {
		count("eda.rules.total", s.ruleCount, slices.Clone(b.baseTags))
	}
	for status, v := range s.runCounts {
		if v == 0 {
			continue
		}
		count("eda.runs.total", v, slices.Concat(b.baseTags, []string{"status:" + status}))
	}

	for k, samples := range s.durationSamples {
		series = append(series, b.durationSeries(k, samples, nowUnix)...)
	}

	return series
}

func (b *Backend) stepTags(k stepKey) []string {
	return slices.Concat(b.baseTags, []string{"step:" + k.step, "status:" + k.status})
}

// durationQuantiles is the fixed gauge set published per step; max and the
// sample count are appended alongside.
var durationQuantiles = []struct {
	suffix string
	q      float64
}{
	{"p50", 0.50},
	{"p90", 0.90},
	{"p95", 0.95},
	{"p99", 0.99},
}

// durationSeries renders one step's duration samples as percentile gauges
// under eda.step.duration_seconds. Empty samples yield nothing; the input is
// never mutated.
func (b *Backend) durationSeries(k stepKey, samples []float64, nowUnix int64) []datadogV2.MetricSeries {
	if len(samples) == 0 {
		return nil
	}
	sorted := slices.Clone(samples)
	sort.Float64s(sorted)

	tags := b.stepTags(k)
	const prefix = "eda.step.duration_seconds."

	out := make([]datadogV2.MetricSeries, 0, len(durationQuantiles)+2)
	for _, dq := range durationQuantiles {
		out = append(out, newSeries(prefix+dq.suffix, datadogV2.METRICINTAKETYPE_GAUGE, rankValue(sorted, dq.q), nowUnix, tags))
	}
	out = append(out,
		newSeries(prefix+"max", datadogV2.METRICINTAKETYPE_GAUGE, sorted[len(sorted)-1], nowUnix, tags),
		newSeries(prefix+"samples", datadogV2.METRICINTAKETYPE_GAUGE, float64(len(sorted)), nowUnix, tags),
	)
	return out
}

func newSeries(metric string, kind datadogV2.MetricIntakeType, value float64, ts int64, tags []string) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   kind.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(ts), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

// rankValue reads the nearest-rank quantile from an already sorted sample
// set. Out-of-range quantiles clamp to the extremes.
func rankValue(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Round(q * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

var _ metrics.Backend = (*Backend)(nil)

// ParseTagsCSV parses comma-separated tags like "env:prod,service:eda",
// trimming whitespace and dropping empty segments.
func ParseTagsCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
