package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"BillScanner/internal/config"
	"BillScanner/internal/infrastructure/acquire"
	"BillScanner/internal/infrastructure/congress"
	"BillScanner/internal/infrastructure/llm"
	"BillScanner/internal/infrastructure/scheduler"
	"BillScanner/internal/infrastructure/storage"
	"BillScanner/internal/infrastructure/telegram"
	"BillScanner/internal/logging"
	"BillScanner/internal/ports"
	"BillScanner/internal/scanner"
	"BillScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	schedule *usecase.Scheduler
	db       *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var db *sql.DB
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	}

	httpClient := acquire.NewClient(
		&http.Client{Timeout: time.Duration(cfg.Acquisition.TimeoutSeconds) * time.Second},
		cfg.Acquisition.UserAgents,
		time.Duration(cfg.Acquisition.JitterMinMillis)*time.Millisecond,
		time.Duration(cfg.Acquisition.JitterMaxMillis)*time.Millisecond,
	)

	apiClient := congress.NewClient(cfg.Congress.APIBaseURL, cfg.Congress.APIKey, httpClient)

	registry := scanner.NewRegistry()
	registry.Register(congress.NewScanner(apiClient, baseLogger.With("component", "scanner.congress")))

	source := congress.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))

	backoff := acquire.BackoffPolicy{
		MaxAttempts: cfg.Acquisition.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Acquisition.BaseDelaySeconds) * time.Second,
		Multiplier:  2,
	}
	acquirer := acquire.NewAcquirer(apiClient, httpClient, backoff, cfg.Acquisition.Headless,
		baseLogger.With("component", "acquirer"))

	var summarizer ports.Summarizer
	if cfg.Gemini.APIKey != "" {
		summarizer = llm.NewGeminiSummarizer(cfg.Gemini)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Repository: storage.NewPostgresRepository(db),
		Acquirer:   acquirer,
		Summarizer: summarizer,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval())
	schedule := usecase.NewScheduler(driver, pipeline, cfg.Scheduler.Lookback())

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		schedule: schedule,
		db:       db,
	}, nil
}

// Run performs a single pipeline execution over the configured lookback
// window.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	since := time.Now().In(a.cfg.Scheduler.Location()).Add(-a.cfg.Scheduler.Lookback())
	report, err := a.pipeline.ProcessSince(ctx, since)
	if err != nil {
		return err
	}

	a.logger.Info("run finished",
		"run_id", report.RunID.String(),
		"listed", report.Listed,
		"skipped", report.Skipped,
		"acquired", report.Acquired,
		"scored", report.Scored,
		"ready", report.Ready,
		"problematic", report.Problematic,
	)
	return nil
}

// RunScheduled starts recurring runs and blocks until the context ends.
func (a *Application) RunScheduled(ctx context.Context) error {
	if a.schedule == nil {
		return nil
	}

	if err := a.schedule.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return a.schedule.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
