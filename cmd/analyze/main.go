package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeonHartK/datasetExploration/internal/config"
	"github.com/LeonHartK/datasetExploration/internal/metrics"
	"github.com/LeonHartK/datasetExploration/internal/metrics/datadog"
	"github.com/LeonHartK/datasetExploration/internal/pipeline"
	"github.com/LeonHartK/datasetExploration/internal/report"

	// register all storage backends with the factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "github.com/LeonHartK/datasetExploration/internal/storage/all"
)

// main is the entry point for the batch analysis binary. It loads the
// pipeline config, optionally initializes a metrics backend, and executes one
// run.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		validate          bool
		progress          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/sample.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (datadog, none)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&progress, "progress", false, "render a progress bar while writing artifacts")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss)
	}
	if config.HasError(issues) {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		logger.Info("configuration is valid", "path", cfgPath)
		return
	}

	// Decide metrics backend: flag -> env -> default (disabled).
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		// The Datadog backend buffers observations and submits periodically,
		// plus one final time on Close(). Long runs show up as a time series
		// rather than a single spike at exit.
		jobName := cfg.Job
		if jobName == "" {
			jobName = "eda_job"
		}

		// Optional extra tags from the environment, complementing the
		// backend-enforced env:<...> tag.
		extraTags := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS"))

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    jobName,
			Tags:       extraTags,
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			logger.Warn("metrics: datadog init failed; using nop", "error", err)
		} else {
			logger.Info("metrics enabled", "backend", backendName, "job", jobName, "tags", extraTags)
			metrics.SetBackend(b)

			// Close() stops the flush loop and performs the final Flush().
			defer func() {
				if err := b.Close(); err != nil {
					logger.Warn("metrics: datadog close/flush error", "error", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		logger.Warn("metrics: unknown backend; metrics disabled", "backend", backendName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(cfg, logger)
	runner.Progress = progress

	res, err := runner.Run(ctx)
	if err != nil {
		fatalf("run failed: %v", err)
	}

	report.RenderSummary(os.Stdout, report.RunSummary{
		Job:         cfg.Job,
		RunID:       res.RunID,
		Rows:        res.Rows,
		Records:     res.Records,
		ParseErrors: res.ParseErrors,
		Customers:   res.Customers,
		Rules:       res.Rules,
		Tables:      len(res.Tables),
		ArtifactDir: cfg.Output.Dir,
		Duration:    res.Duration,
	})
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
