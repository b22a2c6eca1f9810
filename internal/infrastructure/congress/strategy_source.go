package congress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"BillScanner/internal/config"
	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
	"BillScanner/internal/scanner"
)

// StrategySource implements ports.BillSource via registered scanner
// strategies, deduplicating across sites on the canonical bill ID.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.BillSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchRecent iterates over configured sites and executes their scanners.
func (s *StrategySource) FetchRecent(ctx context.Context, since time.Time) ([]domain.BillRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch recent", "sites", len(s.sites), "since", since.Format(time.RFC3339))

	var aggregated []domain.BillRecord
	seen := map[string]struct{}{}

	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			Since:    since,
			SiteName: site.Name,
			Options:  site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		for _, record := range results {
			id := record.BillID()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			aggregated = append(aggregated, record)
		}

		s.debug("site produced bills", "site", site.Name, "count", len(results))
	}

	s.debug("strategy source done", "total_bills", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
