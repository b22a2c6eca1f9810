package ports

import (
	"context"
	"time"

	"BillScanner/internal/domain"
)

// BillSource pulls candidate bills from upstream trackers.
type BillSource interface {
	FetchRecent(ctx context.Context, since time.Time) ([]domain.BillRecord, error)
}

// BillRepository persists bill records for deduplication/history.
type BillRepository interface {
	AlreadyComplete(ctx context.Context, billIDs []string) (map[string]bool, error)
	SaveRecord(ctx context.Context, record domain.BillRecord) error
}

// SourceHints carries per-bill acquisition inputs besides the identity.
type SourceHints struct {
	DirectTextURL string
	LandingURL    string
}

// TextAcquirer resolves a bill's full text via the tiered fallback chain.
// Exhausting every tier yields Source "none" with a nil error.
type TextAcquirer interface {
	Acquire(ctx context.Context, identity domain.BillIdentity, hints SourceHints) (domain.AcquiredText, error)
}

// Summarizer is the external summarization collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, record domain.BillRecord) (domain.Summary, error)
}

// Notifier delivers per-run operator digests.
type Notifier interface {
	PublishReport(ctx context.Context, report string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
