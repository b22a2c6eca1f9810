package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

// PostgresRepository persists bill records into Postgres for deduplication
// and publication hand-off.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.BillRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadyComplete returns the subset of bill IDs whose stored records have
// already cleared the readiness gate, so the orchestrator can skip redundant
// acquisition and summarization.
func (r *PostgresRepository) AlreadyComplete(ctx context.Context, billIDs []string) (map[string]bool, error) {
	if r.db == nil || len(billIDs) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("bill_id").
		From("bills").
		Where("bill_id = ANY(?)", pq.StringArray(billIDs)).
		Where(sq.Eq{"problematic": false}).
		Where(sq.NotEq{"teen_impact_score": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build complete query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complete bills: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bill id: %w", err)
		}
		result[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveRecord upserts the full bill snapshot keyed by bill_id.
func (r *PostgresRepository) SaveRecord(ctx context.Context, record domain.BillRecord) error {
	if r.db == nil {
		return nil
	}

	var score sql.NullInt64
	var explanation sql.NullString
	if record.Relevance != nil {
		score = sql.NullInt64{Int64: int64(record.Relevance.Score), Valid: true}
		explanation = sql.NullString{String: record.Relevance.Explanation, Valid: true}
	}

	var problemReason sql.NullString
	if record.ProblemReason != "" {
		problemReason = sql.NullString{String: record.ProblemReason, Valid: true}
	}

	query, args, err := r.builder.
		Insert("bills").
		Columns(
			"bill_id", "congress", "bill_type", "bill_number", "title",
			"full_text", "text_source", "normalized_status", "sponsor_name",
			"summary_overview", "summary_detailed", "summary_tweet",
			"teen_impact_score", "score_explanation", "problematic", "problem_reason",
		).
		Values(
			record.BillID(), record.Identity.Congress, string(record.Identity.Type),
			record.Identity.Number, record.Title,
			record.Text.Content, string(record.Text.Source), string(record.Status),
			record.SponsorName,
			record.Summary.Overview, record.Summary.Detailed, record.Summary.Tweet,
			score, explanation, record.Problematic, problemReason,
		).
		Suffix(`ON CONFLICT (bill_id) DO UPDATE SET
			title = EXCLUDED.title,
			full_text = EXCLUDED.full_text,
			text_source = EXCLUDED.text_source,
			normalized_status = EXCLUDED.normalized_status,
			sponsor_name = EXCLUDED.sponsor_name,
			summary_overview = EXCLUDED.summary_overview,
			summary_detailed = EXCLUDED.summary_detailed,
			summary_tweet = EXCLUDED.summary_tweet,
			teen_impact_score = EXCLUDED.teen_impact_score,
			score_explanation = EXCLUDED.score_explanation,
			problematic = EXCLUDED.problematic,
			problem_reason = EXCLUDED.problem_reason,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert bill %s: %w", record.BillID(), err)
	}

	return nil
}
