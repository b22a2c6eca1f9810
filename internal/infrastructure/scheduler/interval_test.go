package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerFiresAndStops(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(5 * time.Millisecond)

	var calls atomic.Int64
	fired := make(chan struct{}, 1)
	job := func(time.Time) {
		calls.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
	}

	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("job never fired")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	// one tick may already be in flight when Stop lands
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := calls.Load(); got > after+1 {
		t.Fatalf("job kept firing after Stop: %d then %d", after, got)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}

func TestIntervalSchedulerNilJob(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}
