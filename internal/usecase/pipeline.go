package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
	"BillScanner/internal/readiness"
	"BillScanner/internal/relevance"
	"BillScanner/internal/status"
)

// Problem pairs a bill with the first reason that blocked it.
type Problem struct {
	BillID string
	Reason string
}

// RunReport is the per-run operator summary.
type RunReport struct {
	RunID       uuid.UUID
	StartedAt   time.Time
	Listed      int
	Skipped     int
	Acquired    int
	Scored      int
	Ready       int
	Problematic int
	Problems    []Problem
}

// Digest renders the report for operator channels.
func (r RunReport) Digest() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\nlisted: %d, skipped: %d, acquired: %d, scored: %d, ready: %d, problematic: %d\n",
		r.RunID, r.Listed, r.Skipped, r.Acquired, r.Scored, r.Ready, r.Problematic)
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s: %s\n", p.BillID, p.Reason)
	}
	return b.String()
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.BillSource
	Repository ports.BillRepository
	Acquirer   ports.TextAcquirer
	Summarizer ports.Summarizer
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements the bill ingestion, enrichment and readiness workflow.
// It is the only component that knows the per-bill ordering: acquire,
// normalize, summarize, score, gate, persist. Bills are processed one at a
// time end-to-end; one bill's failure never halts the batch.
type Pipeline struct {
	source     ports.BillSource
	repository ports.BillRepository
	acquirer   ports.TextAcquirer
	summarizer ports.Summarizer
	notifier   ports.Notifier
	normalizer *status.Normalizer
	scorer     *relevance.Scorer
	gate       *readiness.Gate
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		acquirer:   deps.Acquirer,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		normalizer: status.NewNormalizer(),
		scorer:     relevance.NewScorer(nil),
		gate:       readiness.NewGate(),
		logger:     deps.Logger,
	}
}

// ProcessSince runs the full pipeline over bills updated since the given
// time and returns the operator report.
func (p *Pipeline) ProcessSince(ctx context.Context, since time.Time) (RunReport, error) {
	report := RunReport{RunID: uuid.New(), StartedAt: time.Now().UTC()}

	if p.source == nil {
		return report, nil
	}

	records, err := p.source.FetchRecent(ctx, since)
	if err != nil {
		return report, fmt.Errorf("fetch recent bills: %w", err)
	}
	report.Listed = len(records)

	ids := make([]string, len(records))
	for i, record := range records {
		ids[i] = record.BillID()
	}

	complete := map[string]bool{}
	if p.repository != nil && len(ids) > 0 {
		complete, err = p.repository.AlreadyComplete(ctx, ids)
		if err != nil {
			return report, fmt.Errorf("load complete bills: %w", err)
		}
	}

	for _, record := range records {
		if complete[record.BillID()] {
			report.Skipped++
			continue
		}

		p.processBill(ctx, record, &report)
	}

	if p.notifier != nil {
		if err := p.notifier.PublishReport(ctx, report.Digest()); err != nil {
			p.warn("publish run report", "error", err)
		}
	}

	return report, nil
}

// processBill runs one bill end-to-end and folds the outcome into the
// report. All failure paths persist what was learned and move on.
func (p *Pipeline) processBill(ctx context.Context, record domain.BillRecord, report *RunReport) {
	billID := record.BillID()

	text, err := p.acquirer.Acquire(ctx, record.Identity, ports.SourceHints{
		DirectTextURL: record.DirectTextURL,
		LandingURL:    record.LandingURL,
	})
	if err != nil {
		p.flagProblem(ctx, &record, report, fmt.Sprintf("acquisition failed: %v", err))
		return
	}
	record.Text = text
	if !text.Absent() {
		report.Acquired++
	}

	record.Status = p.normalizer.Normalize(record.Tracker, record.LatestActionText, record.Identity.Type.HouseOrigin())

	if p.summarizer != nil && !text.Absent() {
		summary, sErr := p.summarizer.Summarize(ctx, record)
		if sErr != nil {
			p.warn("summarize bill", "bill", billID, "error", sErr)
			p.flagProblem(ctx, &record, report, fmt.Sprintf("summarization failed: %v", sErr))
			return
		}
		record.Summary = summary
	}

	result := p.scorer.Score(record)
	record.Relevance = &result
	report.Scored++

	ready, reason := p.gate.Check(record)
	if !ready {
		p.flagProblem(ctx, &record, report, reason)
		return
	}

	record.Problematic = false
	record.ProblemReason = ""
	report.Ready++

	if err := p.persist(ctx, record); err != nil {
		p.warn("persist bill", "bill", billID, "error", err)
	}
}

// flagProblem marks the record, persists it, and records the reason for the
// operator digest.
func (p *Pipeline) flagProblem(ctx context.Context, record *domain.BillRecord, report *RunReport, reason string) {
	record.Problematic = true
	record.ProblemReason = reason
	report.Problematic++
	report.Problems = append(report.Problems, Problem{BillID: record.BillID(), Reason: reason})

	if err := p.persist(ctx, *record); err != nil {
		p.warn("persist problematic bill", "bill", record.BillID(), "error", err)
	}
}

func (p *Pipeline) persist(ctx context.Context, record domain.BillRecord) error {
	if p.repository == nil {
		return nil
	}
	return p.repository.SaveRecord(ctx, record)
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
