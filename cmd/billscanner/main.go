package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"BillScanner/internal/app"
	"BillScanner/internal/config"
	"BillScanner/internal/logging"
)

func main() {
	scheduled := flag.Bool("scheduled", false, "run on the configured interval instead of once")
	flag.Parse()

	// .env is optional; absence is the normal case in production
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	run := application.Run
	if *scheduled {
		run = application.RunScheduled
	}

	if err := run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
