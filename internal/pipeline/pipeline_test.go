package pipeline

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonHartK/datasetExploration/internal/config"
	"github.com/LeonHartK/datasetExploration/internal/metrics"
	_ "github.com/LeonHartK/datasetExploration/internal/storage/sqlite"
)

const fixture = `date|type_1|id_1|products_1|type_2|id_2|products_2
2013-01-02 09:00:00|1|100|5 9|2|200|7
2013-01-03 10:30:00|1|100|5||
bad-date|1|100|5
2013-02-01 12:00:00|1|300|
`

func writeFixture(t *testing.T) config.Pipeline {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	cfg := config.Pipeline{
		Job:    "test",
		Input:  config.Input{Path: path},
		Output: config.Output{Dir: filepath.Join(dir, "reports")},
	}
	cfg.ApplyDefaults()
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := writeFixture(t)

	res, err := New(cfg, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 4, res.Records, "two groups + one null-group row + one empty-basket row")
	assert.Equal(t, 1, res.ParseErrors, "the bad-date row is skipped")
	assert.Equal(t, 3, res.Customers)
	assert.Len(t, res.Tables, 21)

	// Every artifact is published as a parseable CSV with a header.
	for _, want := range []string{
		"transformed_records", "transaction_stats", "type_stats",
		"product_frequency", "co_occurrence", "association_rules",
		"customer_frequency", "purchase_intervals", "customer_segments",
		"behavior_summary", "segment_distribution", "purchase_bands",
		"daily_sales", "weekly_sales", "monthly_sales", "day_of_week_sales",
		"hourly_sales", "numeric_profiles", "categorical_profiles",
		"quality_report", "column_nulls",
	} {
		f, err := os.Open(filepath.Join(cfg.Output.Dir, want+".csv"))
		require.NoError(t, err, want)
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		require.NoError(t, err, want)
		require.NotEmpty(t, rows, want)
	}
}

func TestRun_TransformedRecords(t *testing.T) {
	cfg := writeFixture(t)

	res, err := New(cfg, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	var got [][]string
	for _, tab := range res.Tables {
		if tab.Name == "transformed_records" {
			got = tab.Rows
		}
	}
	require.Len(t, got, 4)
	assert.Equal(t, []string{"2013-01-02 09:00:00", "1", "100", "5 9", "2"}, got[0])
	assert.Equal(t, []string{"2013-01-02 09:00:00", "2", "200", "7", "1"}, got[1])
	assert.Equal(t, "", got[3][3], "empty basket renders an empty products cell")
}

func TestRun_MissingInput(t *testing.T) {
	cfg := writeFixture(t)
	cfg.Input.Path = filepath.Join(t.TempDir(), "nope.csv")

	_, err := New(cfg, quietLogger()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "scan:")
}

func TestRun_PersistSqlite(t *testing.T) {
	cfg := writeFixture(t)
	cfg.Storage = config.Storage{
		Kind: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "artifacts.db"),
	}

	_, err := New(cfg, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(cfg.Storage.DSN)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// captureBackend records every observation for assertion.
type captureBackend struct {
	mu       sync.Mutex
	counters map[string]float64
}

func (c *captureBackend) IncCounter(name string, delta float64, labels metrics.Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name+"|"+labels["step"]+"|"+labels["status"]+labels["kind"]] += delta
}

func (c *captureBackend) ObserveHistogram(string, float64, metrics.Labels) {}
func (c *captureBackend) Flush() error                                    { return nil }

func TestRun_EmitsMetrics(t *testing.T) {
	cb := &captureBackend{counters: make(map[string]float64)}
	metrics.SetBackend(cb)
	t.Cleanup(func() { metrics.SetBackend(nil) })

	cfg := writeFixture(t)
	_, err := New(cfg, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	cb.mu.Lock()
	defer cb.mu.Unlock()
	assert.Equal(t, float64(1), cb.counters[metrics.StepTotal+"|scan|ok"])
	assert.Equal(t, float64(1), cb.counters[metrics.StepTotal+"|mine_rules|ok"])
	assert.Equal(t, float64(1), cb.counters[metrics.RunsTotal+"||ok"])
	assert.Equal(t, float64(4), cb.counters[metrics.RecordsTotal+"||parsed"])
	assert.Equal(t, float64(1), cb.counters[metrics.RecordsTotal+"||skipped"])
}

func TestPositionalHeader(t *testing.T) {
	t.Parallel()

	assert.Nil(t, positionalHeader(0))
	assert.Equal(t, []string{"date"}, positionalHeader(1))
	assert.Equal(t,
		[]string{"date", "type_1", "id_1", "products_1", "type_2", "id_2"},
		positionalHeader(6))
}

func TestDelimiterRune(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ';', delimiterRune(";"))
	assert.Equal(t, '|', delimiterRune(""))
}

func TestProfileColumns(t *testing.T) {
	t.Parallel()

	header := []string{"amount", "city"}
	rows := [][]string{{"1", "x"}, {"2", "x"}, {"30", "y"}}

	nums, cats := profileColumns(header, rows, 10)
	require.Len(t, nums, 1)
	require.Len(t, cats, 1)
	assert.Equal(t, "amount", nums[0].Name)
	assert.Equal(t, "city", cats[0].Name)
	assert.Equal(t, 2, cats[0].Unique)
}
