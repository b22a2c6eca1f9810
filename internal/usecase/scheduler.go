package usecase

import (
	"context"
	"time"

	"BillScanner/internal/ports"
)

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	lookback time.Duration
}

// NewScheduler returns a helper to start/stop recurring ingestion runs.
// lookback controls how far behind each trigger the bill listing reaches.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, lookback time.Duration) *Scheduler {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &Scheduler{driver: driver, pipeline: pipeline, lookback: lookback}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		_, _ = s.pipeline.ProcessSince(ctx, trigger.Add(-s.lookback))
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
