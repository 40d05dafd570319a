// Package pipeline orchestrates one batch analysis run.
//
// A run is a short DAG: scan and parse happen first, then the independent
// analyses (basket statistics, itemset mining and rules, customer behavior,
// temporal aggregation, column profiling) fan out across goroutines, and the
// single join point collects their results into artifact tables. The tables
// are written as CSV and optionally persisted to the configured database.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/LeonHartK/datasetExploration/internal/basket"
	"github.com/LeonHartK/datasetExploration/internal/config"
	"github.com/LeonHartK/datasetExploration/internal/customer"
	"github.com/LeonHartK/datasetExploration/internal/metrics"
	"github.com/LeonHartK/datasetExploration/internal/profile"
	"github.com/LeonHartK/datasetExploration/internal/report"
	"github.com/LeonHartK/datasetExploration/internal/storage"
	"github.com/LeonHartK/datasetExploration/internal/temporal"
	"github.com/LeonHartK/datasetExploration/internal/txlog"
)

// Runner executes analysis runs for one pipeline configuration.
type Runner struct {
	cfg config.Pipeline
	log *slog.Logger

	// Progress renders a progress bar on stderr during artifact writing.
	// Off by default; the CLI enables it for interactive runs.
	Progress bool
}

// New builds a Runner. A nil logger falls back to slog.Default.
func New(cfg config.Pipeline, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, log: log}
}

// Result summarizes one finished run.
type Result struct {
	RunID       string
	Rows        int // data rows scanned, header excluded
	Records     int // normalized records parsed
	ParseErrors int // unreadable lines plus malformed rows
	Customers   int
	Rules       int
	Tables      []storage.Table
	Duration    time.Duration
}

// Run executes the full pipeline. Partial artifacts are never published: the
// CSV writer stages and renames, and database persistence runs only after
// every analysis succeeded.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	log := r.log.With("run", res.RunID, "job", r.cfg.Job)

	status := "error"
	defer func() {
		metrics.IncCounter(metrics.RunsTotal, 1, metrics.Labels{"status": status})
	}()

	// Scan. Line-level read errors are skipped and counted; only a broken
	// reader aborts.
	var raw []txlog.RawRow
	err := r.step(log, "scan", func() error {
		f, err := os.Open(r.cfg.Input.Path)
		if err != nil {
			return err
		}
		defer f.Close()

		opt := txlog.ScanOptions{
			Comma:     delimiterRune(r.cfg.Input.Delimiter),
			TrimSpace: r.cfg.Input.Options.GetBool("trim_space", true),
		}
		raw, err = txlog.CollectRows(ctx, f, opt, func(line int, err error) {
			res.ParseErrors++
			log.Warn("skipping unreadable line", "line", line, "error", err)
		})
		return err
	})
	if err != nil {
		return res, err
	}

	// The header is consumed here rather than in the scanner because the
	// quality report needs the column names.
	header, data := splitHeader(raw, r.cfg.Input.HasHeader == nil || *r.cfg.Input.HasHeader)
	res.Rows = len(data)

	var recs []txlog.Record
	_ = r.step(log, "parse", func() error {
		skipped := 0
		recs = txlog.Parse(data, func(line int, err error) {
			skipped++
			log.Warn("skipping malformed row", "line", line, "error", err)
		})
		res.Records = len(recs)
		res.ParseErrors += skipped
		metrics.IncCounter(metrics.RecordsTotal, float64(len(recs)), metrics.Labels{"kind": "parsed"})
		if skipped > 0 {
			metrics.IncCounter(metrics.RecordsTotal, float64(skipped), metrics.Labels{"kind": "skipped"})
		}
		return nil
	})

	// Fan-out. Each analysis is a pure function of the parsed records (or the
	// raw table, for profiling); results meet again only at g.Wait.
	var (
		txStats   basket.TransactionStats
		typeStats []basket.TypeStats
		topProds  []basket.ProductFreq

		rules []basket.Rule
		cooc  []basket.PairCount

		freq      []customer.FrequencyRow
		intervals []customer.IntervalRow
		profiles  []customer.Profile
		behavior  customer.BehaviorSummary

		daily, weekly, monthly, byDay, hourly []temporal.Bucket

		quality     profile.QualityReport
		numProfiles []profile.NumericProfile
		catProfiles []profile.CategoricalProfile
	)

	a := r.cfg.Analysis
	var g errgroup.Group

	g.Go(func() error {
		return r.step(log, "basket_stats", func() error {
			txStats = basket.PerTransactionStats(recs)
			typeStats = basket.ByType(recs)
			topProds = basket.TopProducts(recs, a.TopN)
			return nil
		})
	})

	g.Go(func() error {
		return r.step(log, "mine_rules", func() error {
			baskets := basket.Baskets(recs)
			sets := basket.Mine(baskets, a.MinSupport)
			rules = basket.DeriveRules(sets, a.MinConfidence)
			cooc = basket.CoOccurrence(baskets, a.MinBasketSize)
			if a.TopN > 0 && len(cooc) > a.TopN {
				cooc = cooc[:a.TopN]
			}
			return nil
		})
	})

	g.Go(func() error {
		return r.step(log, "customers", func() error {
			freq = customer.Frequency(recs)
			intervals = customer.TimeBetweenPurchases(recs)
			var err error
			profiles, err = customer.Segment(recs, freq)
			if err != nil && !errors.Is(err, customer.ErrEmptyInput) {
				return err
			}
			behavior = customer.Summarize(freq, profiles, intervals)
			return nil
		})
	})

	g.Go(func() error {
		return r.step(log, "temporal", func() error {
			daily = temporal.Daily(recs)
			weekly = temporal.Weekly(recs)
			monthly = temporal.Monthly(recs)
			byDay = temporal.DayOfWeek(recs)
			hourly = temporal.Hourly(recs)
			return nil
		})
	})

	g.Go(func() error {
		return r.step(log, "profile", func() error {
			rows := rawFields(data)
			quality = profile.Quality(header, rows)
			numProfiles, catProfiles = profileColumns(header, rows, a.TopN)
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Customers = len(freq)
	res.Rules = len(rules)
	metrics.IncCounter(metrics.RulesTotal, float64(len(rules)), nil)

	res.Tables = []storage.Table{
		report.TransformedRecords(recs),
		report.TransactionStats(txStats),
		report.TypeStats(typeStats),
		report.ProductFrequency(topProds),
		report.CoOccurrence(cooc),
		report.AssociationRules(rules),
		report.CustomerFrequency(freq),
		report.PurchaseIntervals(intervals),
		report.CustomerSegments(profiles),
		report.BehaviorSummary(behavior),
		report.SegmentDistribution(behavior),
		report.PurchaseBands(behavior),
		report.Temporal("daily_sales", daily),
		report.Temporal("weekly_sales", weekly),
		report.Temporal("monthly_sales", monthly),
		report.Temporal("day_of_week_sales", byDay),
		report.Temporal("hourly_sales", hourly),
		report.NumericProfiles(numProfiles),
		report.CategoricalProfiles(catProfiles),
		report.QualitySummary(quality),
		report.ColumnNulls(quality),
	}

	err = r.step(log, "report", func() error {
		if err := os.MkdirAll(r.cfg.Output.Dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
		var bar *progressbar.ProgressBar
		if r.Progress {
			bar = progressbar.Default(int64(len(res.Tables)))
		}
		for _, t := range res.Tables {
			if err := report.WriteCSV(r.cfg.Output.Dir, t); err != nil {
				return err
			}
			metrics.IncCounter(metrics.RowsTotal, float64(len(t.Rows)), metrics.Labels{"table": t.Name})
			if bar != nil {
				bar.Add(1)
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if r.cfg.Storage.Kind != "" {
		err = r.step(log, "persist", func() error {
			repo, err := storage.New(ctx, storage.Config{Kind: r.cfg.Storage.Kind, DSN: r.cfg.Storage.DSN})
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := storage.Save(ctx, repo, res.Tables)
			if err != nil {
				return err
			}
			log.Info("artifacts persisted", "kind", r.cfg.Storage.Kind, "rows", n)
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	status = "ok"
	res.Duration = time.Since(start)
	log.Info("run finished",
		"rows", res.Rows, "records", res.Records, "skipped", res.ParseErrors,
		"customers", res.Customers, "rules", res.Rules, "duration", res.Duration)
	return res, nil
}

// step runs one named stage, records its outcome and duration, and wraps the
// error with the stage name.
func (r *Runner) step(log *slog.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"step": name, "status": status}
	metrics.IncCounter(metrics.StepTotal, 1, labels)
	metrics.ObserveHistogram(metrics.StepDurationSeconds, elapsed.Seconds(), labels)

	if err != nil {
		log.Error("step failed", "step", name, "duration", elapsed, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug("step finished", "step", name, "duration", elapsed)
	return nil
}

func delimiterRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '|'
}

// splitHeader peels the header row off the scan output. Without a header the
// column names are synthesized positionally to keep the quality report and
// profiles addressable.
func splitHeader(rows []txlog.RawRow, hasHeader bool) ([]string, []txlog.RawRow) {
	if hasHeader {
		if len(rows) == 0 {
			return nil, nil
		}
		return rows[0].Fields, rows[1:]
	}

	width := 0
	for _, r := range rows {
		if len(r.Fields) > width {
			width = len(r.Fields)
		}
	}
	return positionalHeader(width), rows
}

// positionalHeader names n columns the way the raw log lays them out: a date
// followed by repeating (type_k, id_k, products_k) groups.
func positionalHeader(n int) []string {
	if n == 0 {
		return nil
	}
	header := make([]string, 0, n)
	header = append(header, "date")
	for i := 1; len(header) < n; i++ {
		for _, part := range []string{"type", "id", "products"} {
			if len(header) == n {
				break
			}
			header = append(header, fmt.Sprintf("%s_%d", part, i))
		}
	}
	return header
}

func rawFields(rows []txlog.RawRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Fields
	}
	return out
}

// profileColumns profiles every column of the raw table: fully numeric
// columns get a numeric profile, the rest a value distribution.
func profileColumns(header []string, rows [][]string, topN int) ([]profile.NumericProfile, []profile.CategoricalProfile) {
	var nums []profile.NumericProfile
	var cats []profile.CategoricalProfile

	for i, name := range header {
		col := make([]string, len(rows))
		for j, row := range rows {
			if i < len(row) {
				col[j] = row[i]
			}
		}
		if xs, _, ok := profile.ExtractNumeric(col); ok && len(xs) > 0 {
			nums = append(nums, profile.ProfileNumeric(name, xs))
			continue
		}
		cats = append(cats, profile.ProfileCategorical(name, col, topN))
	}
	return nums, cats
}
