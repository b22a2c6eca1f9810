package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

type fakeSource struct {
	records []domain.BillRecord
}

func (f *fakeSource) FetchRecent(_ context.Context, _ time.Time) ([]domain.BillRecord, error) {
	return f.records, nil
}

type fakeRepo struct {
	mu       sync.Mutex
	complete map[string]bool
	saved    map[string]domain.BillRecord
	lookups  int
}

func (f *fakeRepo) AlreadyComplete(_ context.Context, ids []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	out := map[string]bool{}
	for _, id := range ids {
		if f.complete[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeRepo) SaveRecord(_ context.Context, record domain.BillRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = map[string]domain.BillRecord{}
	}
	f.saved[record.BillID()] = record
	return nil
}

type fakeAcquirer struct {
	mu    sync.Mutex
	calls int
	texts map[string]domain.AcquiredText
}

func (f *fakeAcquirer) Acquire(_ context.Context, identity domain.BillIdentity, _ ports.SourceHints) (domain.AcquiredText, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if text, ok := f.texts[identity.BillID()]; ok {
		return text, nil
	}
	return domain.AcquiredText{Source: domain.SourceNone}, nil
}

type fakeSummarizer struct {
	summary domain.Summary
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ domain.BillRecord) (domain.Summary, error) {
	f.calls++
	return f.summary, f.err
}

func goodText() domain.AcquiredText {
	return domain.NewAcquiredText(
		strings.Repeat("The Secretary shall establish school counseling programs for students. ", 5),
		domain.SourceAPIPDF,
	)
}

func goodSummary() domain.Summary {
	return domain.Summary{
		Overview: "Requires schools to offer counseling.",
		Detailed: "Directs districts to hire counselors and sets minimum ratios.",
		Tweet:    "Counselors for every school.",
	}
}

func testBill(number int) domain.BillRecord {
	return domain.BillRecord{
		Identity:    domain.BillIdentity{Congress: 118, Type: domain.BillTypeHR, Number: number},
		Title:       fmt.Sprintf("Bill %d", number),
		SponsorName: "Rep. Jane Doe",
		Tracker: []domain.TrackerStep{
			{Name: "Introduced", Selected: false},
			{Name: "Passed Senate", Selected: true},
		},
	}
}

func TestProcessSinceHappyPath(t *testing.T) {
	t.Parallel()

	bill := testBill(1)
	repo := &fakeRepo{}
	acquirer := &fakeAcquirer{texts: map[string]domain.AcquiredText{bill.BillID(): goodText()}}
	summarizer := &fakeSummarizer{summary: goodSummary()}

	pipeline := NewPipeline(PipelineDeps{
		Source:     &fakeSource{records: []domain.BillRecord{bill}},
		Repository: repo,
		Acquirer:   acquirer,
		Summarizer: summarizer,
	})

	report, err := pipeline.ProcessSince(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ProcessSince error: %v", err)
	}

	if report.Listed != 1 || report.Acquired != 1 || report.Scored != 1 || report.Ready != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	saved, ok := repo.saved[bill.BillID()]
	if !ok {
		t.Fatal("record was not persisted")
	}
	if saved.Problematic {
		t.Fatalf("record should not be problematic: %s", saved.ProblemReason)
	}
	if saved.Status != domain.StatusPassedSenate {
		t.Fatalf("expected passed_senate, got %s", saved.Status)
	}
	if saved.Relevance == nil {
		t.Fatal("record was not scored")
	}
}

func TestProcessSinceSkipsCompleteRecords(t *testing.T) {
	t.Parallel()

	bill := testBill(2)
	repo := &fakeRepo{complete: map[string]bool{bill.BillID(): true}}
	acquirer := &fakeAcquirer{}

	pipeline := NewPipeline(PipelineDeps{
		Source:     &fakeSource{records: []domain.BillRecord{bill}},
		Repository: repo,
		Acquirer:   acquirer,
	})

	report, err := pipeline.ProcessSince(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessSince error: %v", err)
	}

	if report.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", report.Skipped)
	}
	if acquirer.calls != 0 {
		t.Fatalf("complete record must not be re-acquired, got %d calls", acquirer.calls)
	}
}

func TestProcessSinceExhaustedAcquisitionFlagsRecord(t *testing.T) {
	t.Parallel()

	bill := testBill(3)
	repo := &fakeRepo{}
	summarizer := &fakeSummarizer{summary: goodSummary()}

	pipeline := NewPipeline(PipelineDeps{
		Source:     &fakeSource{records: []domain.BillRecord{bill}},
		Repository: repo,
		Acquirer:   &fakeAcquirer{},
		Summarizer: summarizer,
	})

	report, err := pipeline.ProcessSince(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessSince error: %v", err)
	}

	if report.Problematic != 1 {
		t.Fatalf("expected 1 problematic, got %d", report.Problematic)
	}
	if summarizer.calls != 0 {
		t.Fatal("summarizer must not run without text")
	}

	saved := repo.saved[bill.BillID()]
	if !saved.Problematic {
		t.Fatal("record should be problematic")
	}
	if !strings.Contains(strings.ToLower(saved.ProblemReason), "text") {
		t.Fatalf("reason should mention missing text, got %q", saved.ProblemReason)
	}
	if saved.Text.Source != domain.SourceNone {
		t.Fatalf("expected none source, got %s", saved.Text.Source)
	}
}

func TestProcessSincePlaceholderSummaryFlagsRecord(t *testing.T) {
	t.Parallel()

	bill := testBill(4)
	repo := &fakeRepo{}
	summary := goodSummary()
	summary.Detailed = "Full bill text needed to produce a detailed summary."

	pipeline := NewPipeline(PipelineDeps{
		Source:     &fakeSource{records: []domain.BillRecord{bill}},
		Repository: repo,
		Acquirer:   &fakeAcquirer{texts: map[string]domain.AcquiredText{bill.BillID(): goodText()}},
		Summarizer: &fakeSummarizer{summary: summary},
	})

	report, err := pipeline.ProcessSince(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessSince error: %v", err)
	}

	if report.Ready != 0 || report.Problematic != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !strings.Contains(repo.saved[bill.BillID()].ProblemReason, "error phrase") {
		t.Fatalf("reason should mention the error phrase, got %q", repo.saved[bill.BillID()].ProblemReason)
	}
}

func TestProcessSinceSummarizerFailureDoesNotHaltBatch(t *testing.T) {
	t.Parallel()

	first := testBill(5)
	second := testBill(6)
	repo := &fakeRepo{}

	// the summarizer fails on every call; both bills must still be processed
	// and persisted
	pipeline := NewPipeline(PipelineDeps{
		Source:     &fakeSource{records: []domain.BillRecord{first, second}},
		Repository: repo,
		Acquirer: &fakeAcquirer{texts: map[string]domain.AcquiredText{
			first.BillID():  goodText(),
			second.BillID(): goodText(),
		}},
		Summarizer: &fakeSummarizer{err: fmt.Errorf("model unavailable")},
	})

	report, err := pipeline.ProcessSince(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessSince error: %v", err)
	}

	if report.Problematic != 2 {
		t.Fatalf("expected both bills problematic, got %d", report.Problematic)
	}
	if len(repo.saved) != 2 {
		t.Fatalf("expected both bills persisted, got %d", len(repo.saved))
	}
	for _, p := range report.Problems {
		if !strings.Contains(p.Reason, "summarization failed") {
			t.Fatalf("unexpected reason %q", p.Reason)
		}
	}
}

func TestRunReportDigest(t *testing.T) {
	t.Parallel()

	report := RunReport{
		Listed:      3,
		Ready:       1,
		Problematic: 2,
		Problems: []Problem{
			{BillID: "hr1-118", Reason: "Missing sponsor name"},
			{BillID: "s2-118", Reason: "Full bill text missing or under 100 characters (source none)"},
		},
	}

	digest := report.Digest()
	for _, want := range []string{"listed: 3", "ready: 1", "problematic: 2", "hr1-118", "Missing sponsor name"} {
		if !strings.Contains(digest, want) {
			t.Fatalf("digest missing %q:\n%s", want, digest)
		}
	}
}
