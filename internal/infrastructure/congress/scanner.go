package congress

import (
	"context"
	"fmt"
	"log/slog"

	"BillScanner/internal/domain"
	"BillScanner/internal/scanner"
)

// Scanner is the bill-source strategy backed by the upstream JSON API: list
// recently-updated bills, then enrich each with sponsor and latest-action
// detail. Detail failures degrade the record rather than dropping it; the
// readiness gate catches missing sponsors later.
type Scanner struct {
	client *Client
	logger *slog.Logger
}

var _ scanner.Scanner = (*Scanner)(nil)

// NewScanner wires the API client into a registry strategy.
func NewScanner(client *Client, logger *slog.Logger) *Scanner {
	return &Scanner{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return "congress"
}

// Scan lists bills updated since the requested time and fills per-bill
// detail.
func (s *Scanner) Scan(ctx context.Context, req scanner.Request) ([]domain.BillRecord, error) {
	if s.client == nil {
		return nil, fmt.Errorf("congress scanner has no client")
	}

	records, err := s.client.ListRecentBills(ctx, req.Since)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	for i := range records {
		if err := s.client.FetchDetail(ctx, &records[i]); err != nil {
			s.debug("bill detail unavailable", "bill", records[i].BillID(), "error", err)
		}
	}

	return records, nil
}

func (s *Scanner) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
